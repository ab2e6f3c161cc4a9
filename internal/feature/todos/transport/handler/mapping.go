package handler

import (
	openapi_types "github.com/oapi-codegen/runtime/types"

	"todo_backend/internal/api"
	"todo_backend/internal/feature/todos/domain/entity"
)

// ToTodoResponse はTodoをAPIの表現に変換します。空の説明とカテゴリはnullになります。
func ToTodoResponse(t entity.Todo) api.TodoResponse {
	out := api.TodoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: optString(t.Description),
		Completed:   t.Completed,
		Priority:    string(t.Priority),
		Category:    optString(t.Category),
		UserID:      t.UserID,
		Starred:     t.Starred,
		Archived:    t.Archived,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.HasDueDate() {
		out.DueDate = &openapi_types.Date{Time: *t.DueDate}
	}
	return out
}

// ToTodoResponses はTodoの一覧を変換します。空の入力には空のスライスを返します。
func ToTodoResponses(todos []entity.Todo) []api.TodoResponse {
	out := make([]api.TodoResponse, 0, len(todos))
	for _, t := range todos {
		out = append(out, ToTodoResponse(t))
	}
	return out
}

// optString は空文字をnullとして返します。
func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toNewTodo(req api.CreateTodoRequest) entity.NewTodo {
	in := entity.NewTodo{Title: req.Title, Starred: req.Starred}
	if req.Description != nil {
		in.Description = *req.Description
	}
	if req.Priority != nil {
		in.Priority = entity.Priority(*req.Priority)
	}
	if req.DueDate != nil {
		d := req.DueDate.Time
		in.DueDate = &d
	}
	if req.Category != nil {
		in.Category = *req.Category
	}
	return in
}

func toPatch(req api.UpdateTodoRequest) entity.TodoPatch {
	p := entity.TodoPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Category:    req.Category,
		Starred:     req.Starred,
		Archived:    req.Archived,
	}
	if req.Priority != nil {
		pr := entity.Priority(*req.Priority)
		p.Priority = &pr
	}
	if req.DueDate != nil {
		d := req.DueDate.Time
		p.DueDate = &d
	}
	return p
}
