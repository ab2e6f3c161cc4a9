package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"todo_backend/internal/api"
	"todo_backend/internal/feature/todos/domain/entity"
)

// BulkUpdate は同じ更新内容を複数のTodoに適用します。
// 個別の失敗はerrorsに集約され、リクエスト全体は200で返ります。
//
// POST /api/todos/bulk-update
func (h *TodoHandler) BulkUpdate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req api.BulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("bulk update validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	res, err := h.uc.BulkUpdate(c.Request.Context(), userID, req.TodoIDs, toPatch(req.Updates))
	if err != nil {
		writeError(c, "bulk update", err)
		return
	}
	slog.Info("bulk update finished", "user_id", userID, "updated", res.UpdatedCount, "failed", len(res.Errors))
	c.JSON(http.StatusOK, api.BulkUpdateResponse{
		UpdatedCount: res.UpdatedCount,
		UpdatedTodos: res.UpdatedIDs,
		Errors:       itemMessages(res.Errors),
	})
}

// Import はTodoの配列を一括作成します。
// 不正な要素はerrorsに集約され、残りの要素の作成は継続します。
//
// POST /api/todos/import
func (h *TodoHandler) Import(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var items []api.ImportTodoItem
	if err := c.ShouldBindJSON(&items); err != nil {
		slog.Warn("import validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "request body must be a JSON array of todos"})
		return
	}

	in := make([]entity.NewTodo, 0, len(items))
	for _, it := range items {
		in = append(in, toNewTodo(api.CreateTodoRequest(it)))
	}

	res := h.uc.Import(c.Request.Context(), userID, in)
	slog.Info("import finished", "user_id", userID, "imported", res.ImportedCount, "failed", len(res.Errors))
	c.JSON(http.StatusOK, api.ImportResponse{
		ImportedCount:   res.ImportedCount,
		ImportedTodoIDs: res.ImportedIDs,
		Errors:          itemMessages(res.Errors),
	})
}

func itemMessages(errs []entity.ItemError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Message)
	}
	return out
}
