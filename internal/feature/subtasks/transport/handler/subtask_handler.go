// Package handler はsubtasksフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"todo_backend/internal/api"
	"todo_backend/internal/feature/subtasks/domain/entity"
	"todo_backend/internal/feature/subtasks/usecase"
)

// HeaderAPIKey は呼び出し元のOpenAI互換APIキーを渡すヘッダーです。
const HeaderAPIKey = "X-AI-API-Key"

// SubtaskUsecase はサブタスク生成のユースケースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type SubtaskUsecase interface {
	Generate(ctx context.Context, task entity.Task, apiKey string) (string, error)
}

// SubtaskHandler はサブタスク生成のHTTPリクエストを処理します。
type SubtaskHandler struct {
	uc SubtaskUsecase
}

// NewSubtaskHandler はSubtaskHandlerの新しいインスタンスを生成します。
func NewSubtaskHandler(uc SubtaskUsecase) *SubtaskHandler {
	return &SubtaskHandler{uc: uc}
}

// Generate はPOST /api/ai/subtasks を処理します。
// - 設定なし: 503
// - プロバイダー認証失敗: 401
// - プロバイダーのレート制限: 429
// - その他のプロバイダーエラー: 502
func (h *SubtaskHandler) Generate(c *gin.Context) {
	var req api.SubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	task := entity.Task{Title: req.Title}
	if req.Description != nil {
		task.Description = *req.Description
	}
	apiKey := strings.TrimSpace(c.GetHeader(HeaderAPIKey))

	subtasks, err := h.uc.Generate(c.Request.Context(), task, apiKey)
	if err != nil {
		status, msg := statusFor(err)
		if status >= http.StatusInternalServerError {
			slog.Error("subtask generation failed", "error", err, "caller_key", apiKey != "", "remote_addr", c.ClientIP())
		} else {
			slog.Warn("subtask generation rejected", "error", err, "caller_key", apiKey != "", "remote_addr", c.ClientIP())
		}
		c.JSON(status, api.ErrorResponse{Error: msg})
		return
	}
	c.JSON(http.StatusOK, api.SubtaskResponse{Subtasks: subtasks})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidTask):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, usecase.ErrGeneratorUnavailable):
		return http.StatusServiceUnavailable, "AI service is not configured"
	case errors.Is(err, usecase.ErrProviderAuth):
		return http.StatusUnauthorized, "Invalid API key"
	case errors.Is(err, usecase.ErrProviderRateLimited):
		return http.StatusTooManyRequests, "API rate limit exceeded"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "AI service timed out"
	default:
		return http.StatusBadGateway, "AI service error"
	}
}
