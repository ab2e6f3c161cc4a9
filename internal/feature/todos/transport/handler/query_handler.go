package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"todo_backend/internal/api"
	"todo_backend/internal/feature/todos/domain/entity"
	"todo_backend/internal/feature/todos/query"
)

// ByStatus は完了状態でTodoを絞り込みます。
//
// GET /api/todos/completed/:completed
func (h *TodoHandler) ByStatus(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	completed, err := strconv.ParseBool(c.Param("completed"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "completed must be true or false"})
		return
	}

	todos, err := h.uc.ByStatus(c.Request.Context(), userID, completed)
	if err != nil {
		writeError(c, "list todos by status", err)
		return
	}
	c.JSON(http.StatusOK, ToTodoResponses(todos))
}

// Overdue は期限切れの未完了Todoを期限日の古い順に返します。
//
// GET /api/todos/overdue
func (h *TodoHandler) Overdue(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	todos, err := h.uc.Overdue(c.Request.Context(), userID)
	if err != nil {
		writeError(c, "list overdue todos", err)
		return
	}
	c.JSON(http.StatusOK, ToTodoResponses(todos))
}

// DueSoon は指定日数以内に期限を迎える未完了Todoを返します。
//
// GET /api/todos/due-soon?days=7
func (h *TodoHandler) DueSoon(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var q api.DueSoonQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "days must be between 1 and 30"})
		return
	}

	todos, err := h.uc.DueSoon(c.Request.Context(), userID, q.Days)
	if err != nil {
		writeError(c, "list due-soon todos", err)
		return
	}
	c.JSON(http.StatusOK, ToTodoResponses(todos))
}

// Search はタイトル・説明・カテゴリを対象に関連度順で検索します。
//
// GET /api/search?q=milk&include_completed=true&limit=50
func (h *TodoHandler) Search(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var q api.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid query parameters"})
		return
	}

	todos, err := h.uc.Search(c.Request.Context(), userID, query.SearchParams{
		Query:            q.Q,
		IncludeCompleted: q.IncludeCompleted,
		Limit:            q.Limit,
	})
	if err != nil {
		writeError(c, "search todos", err)
		return
	}
	c.JSON(http.StatusOK, ToTodoResponses(todos))
}

// Statistics は認証ユーザーのTodo統計を返します。
//
// GET /api/statistics
func (h *TodoHandler) Statistics(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	s, err := h.uc.Stats(c.Request.Context(), userID)
	if err != nil {
		writeError(c, "todo statistics", err)
		return
	}

	byPriority := make(map[string]int, len(s.ByPriority))
	for p, n := range s.ByPriority {
		byPriority[string(p)] = n
	}
	c.JSON(http.StatusOK, api.StatsResponse{
		Total:          s.Total,
		Completed:      s.Completed,
		Pending:        s.Pending,
		ByPriority:     byPriority,
		ByCategory:     s.ByCategory,
		CompletionRate: s.CompletionRate,
	})
}

// Categories は使用中のカテゴリを昇順で返します。
//
// GET /api/categories
func (h *TodoHandler) Categories(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	cats, err := h.uc.Categories(c.Request.Context(), userID)
	if err != nil {
		writeError(c, "list categories", err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

// Export は認証ユーザーのTodoをすべて返します。
//
// GET /api/export
func (h *TodoHandler) Export(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	todos, err := h.uc.Export(c.Request.Context(), userID)
	if err != nil {
		writeError(c, "export todos", err)
		return
	}
	c.JSON(http.StatusOK, ToTodoResponses(todos))
}

// Priorities は優先度の一覧を返します。認証は不要です。
//
// GET /api/priorities
func Priorities(c *gin.Context) {
	levels := entity.Priorities()
	out := make([]string, 0, len(levels))
	for _, p := range levels {
		out = append(out, string(p))
	}
	c.JSON(http.StatusOK, out)
}
