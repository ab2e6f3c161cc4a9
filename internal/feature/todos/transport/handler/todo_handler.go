// Package handler はtodosフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"todo_backend/internal/api"
	"todo_backend/internal/feature/todos/domain/entity"
	"todo_backend/internal/feature/todos/query"
	"todo_backend/internal/feature/todos/usecase"
	jwtmw "todo_backend/internal/platform/jwt"
)

// TodoUsecase はTodo操作のユースケースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type TodoUsecase interface {
	Create(ctx context.Context, userID uint, in entity.NewTodo) (*entity.Todo, error)
	Get(ctx context.Context, userID, id uint) (*entity.Todo, error)
	List(ctx context.Context, userID uint, c query.Criteria, offset, limit int) ([]entity.Todo, error)
	Update(ctx context.Context, userID, id uint, patch entity.TodoPatch) (*entity.Todo, error)
	Delete(ctx context.Context, userID, id uint) (*entity.Todo, error)
	Clear(ctx context.Context, userID uint) (int64, error)
	ByStatus(ctx context.Context, userID uint, completed bool) ([]entity.Todo, error)
	Overdue(ctx context.Context, userID uint) ([]entity.Todo, error)
	DueSoon(ctx context.Context, userID uint, days int) ([]entity.Todo, error)
	Search(ctx context.Context, userID uint, p query.SearchParams) ([]entity.Todo, error)
	Stats(ctx context.Context, userID uint) (entity.Stats, error)
	Categories(ctx context.Context, userID uint) ([]string, error)
	Export(ctx context.Context, userID uint) ([]entity.Todo, error)
	BulkUpdate(ctx context.Context, userID uint, ids []uint, patch entity.TodoPatch) (entity.BulkUpdateResult, error)
	Import(ctx context.Context, userID uint, items []entity.NewTodo) entity.ImportResult
}

// TodoHandler はTodoのHTTPリクエストを処理します。
// すべてのエンドポイントはjwtmw.AuthRequiredの後段で動作することを前提とします。
type TodoHandler struct {
	uc TodoUsecase
}

// NewTodoHandler は指定されたusecaseでTodoHandlerの新しいインスタンスを生成します。
func NewTodoHandler(uc TodoUsecase) *TodoHandler {
	return &TodoHandler{uc: uc}
}

// currentUser は認証済みユーザーIDを取り出します。取得できない場合は401を書き込みfalseを返します。
func currentUser(c *gin.Context) (uint, bool) {
	userID, ok := jwtmw.UserIDFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return 0, false
	}
	return userID, true
}

// todoID はパスパラメータ:idを解析します。不正な場合は400を書き込みfalseを返します。
func todoID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid todo id"})
		return 0, false
	}
	return uint(id), true
}

// writeError はusecaseのエラーをHTTPステータスに変換して書き込みます。
func writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, usecase.ErrTodoNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Todo not found"})
	case errors.Is(err, usecase.ErrInvalidTodo):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	default:
		slog.Error(op+" failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
	}
}

// Create はTodoを作成します。
//
// POST /api/todos
func (h *TodoHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req api.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("create todo validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	t, err := h.uc.Create(c.Request.Context(), userID, toNewTodo(req))
	if err != nil {
		writeError(c, "create todo", err)
		return
	}
	c.JSON(http.StatusCreated, ToTodoResponse(*t))
}

// List は条件で絞り込んだTodo一覧を返します。
//
// GET /api/todos?completed=false&priority=high&category=Work&due_before=2025-08-31&limit=10&offset=0
func (h *TodoHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var q api.ListTodosQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid query parameters"})
		return
	}

	crit := query.Criteria{Completed: q.Completed, Category: q.Category, DueBefore: q.DueBefore}
	if q.Priority != nil {
		p := entity.Priority(*q.Priority)
		crit.Priority = &p
	}
	offset, limit := 0, 0
	if q.Offset != nil {
		offset = *q.Offset
	}
	if q.Limit != nil {
		limit = *q.Limit
	}

	todos, err := h.uc.List(c.Request.Context(), userID, crit, offset, limit)
	if err != nil {
		writeError(c, "list todos", err)
		return
	}
	c.JSON(http.StatusOK, ToTodoResponses(todos))
}

// Get は1件のTodoを返します。
//
// GET /api/todos/:id
func (h *TodoHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := todoID(c)
	if !ok {
		return
	}

	t, err := h.uc.Get(c.Request.Context(), userID, id)
	if err != nil {
		writeError(c, "get todo", err)
		return
	}
	c.JSON(http.StatusOK, ToTodoResponse(*t))
}

// Update はTodoを部分更新します。
//
// PUT /api/todos/:id
func (h *TodoHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := todoID(c)
	if !ok {
		return
	}
	var req api.UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("update todo validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	t, err := h.uc.Update(c.Request.Context(), userID, id, toPatch(req))
	if err != nil {
		writeError(c, "update todo", err)
		return
	}
	c.JSON(http.StatusOK, ToTodoResponse(*t))
}

// Delete はTodoを削除します。
//
// DELETE /api/todos/:id
func (h *TodoHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := todoID(c)
	if !ok {
		return
	}

	t, err := h.uc.Delete(c.Request.Context(), userID, id)
	if err != nil {
		writeError(c, "delete todo", err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: fmt.Sprintf("Todo '%s' deleted successfully", t.Title)})
}

// Clear は認証ユーザーのTodoをすべて削除します。
//
// DELETE /api/todos
func (h *TodoHandler) Clear(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	n, err := h.uc.Clear(c.Request.Context(), userID)
	if err != nil {
		writeError(c, "clear todos", err)
		return
	}
	slog.Info("todos cleared", "user_id", userID, "count", n, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, api.MessageResponse{Message: fmt.Sprintf("Cleared %d todos", n)})
}
