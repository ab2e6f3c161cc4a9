// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"todo_backend/internal/api"
)

const (
	// APIVersion は /api/health が返すバージョンです。
	APIVersion = "2.0.0"
	// BannerVersion は / が返すバージョンです。
	BannerVersion = "1.0.0"
	bannerMessage = "Intelligent Todo API is running"

	countTimeout = 2 * time.Second
)

// TodoCounter は全Todo件数を返します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type TodoCounter interface {
	CountAll(ctx context.Context) (int64, error)
}

// Health はサービスヘルスチェック用の /healthz エンドポイントを処理します。
// HTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
func Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	// すべてのGET/HEAD/OPTIONSリクエストに対して200または204を返す
	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// APIHealth は /api/health を処理するハンドラーを返します。
// 件数の取得に失敗してもサービスは稼働中とみなし、todo_countを0として200を返します。
func APIHealth(counter TodoCounter) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")

		ctx, cancel := context.WithTimeout(c.Request.Context(), countTimeout)
		defer cancel()

		count, err := counter.CountAll(ctx)
		if err != nil {
			slog.Warn("health check could not count todos", "error", err, "remote_addr", c.ClientIP())
			count = 0
		}
		c.JSON(http.StatusOK, api.HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC(),
			TodoCount: count,
			Version:   APIVersion,
		})
	}
}

// Root は / のバナーを返します。
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, api.RootResponse{Message: bannerMessage, Version: BannerVersion})
}
