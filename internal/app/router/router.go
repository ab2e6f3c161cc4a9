// Package router はHTTPルーティングとミドルウェアを構成します。
package router

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "todo_backend/internal/feature/auth/transport/handler"
	subtaskhandler "todo_backend/internal/feature/subtasks/transport/handler"
	todohandler "todo_backend/internal/feature/todos/transport/handler"
	"todo_backend/internal/platform/http/handler"
	jwtmw "todo_backend/internal/platform/jwt"
)

// defaultOrigins は開発用フロントエンドのオリジンです。
var defaultOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

// Handlers はルーターに登録するハンドラー群です。
type Handlers struct {
	Auth     *authhandler.AuthHandler
	Todos    *todohandler.TodoHandler
	Subtasks *subtaskhandler.SubtaskHandler
	Counter  handler.TodoCounter
}

// Options はルーターの設定です。
type Options struct {
	JWTSecret      string
	AllowedOrigins []string
}

// AllowedOrigins は開発用オリジンに、設定されたフロントエンドURLとALBのオリジンを加えて返します。
func AllowedOrigins(frontendURL, albDNSName string) []string {
	origins := append([]string{}, defaultOrigins...)
	if frontendURL != "" {
		origins = append(origins, frontendURL)
	}
	if albDNSName != "" {
		origins = append(origins, "http://"+albDNSName, "https://"+albDNSName)
	}
	return origins
}

// NewRouter はルートを登録したgin.Engineを返します。
func NewRouter(h Handlers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = defaultOrigins
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", subtaskhandler.HeaderAPIKey},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	r.GET("/", handler.Root)

	api := r.Group("/api")
	api.GET("/health", handler.APIHealth(h.Counter))
	api.GET("/priorities", todohandler.Priorities)

	authGroup := api.Group("/auth")
	authGroup.POST("/signup", h.Auth.Signup)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.POST("/refresh", h.Auth.Refresh)
	authGroup.POST("/logout", h.Auth.Logout)

	// 認証必須のルート
	// → リクエストヘッダーに Bearer トークンが必要になる
	protected := api.Group("")
	protected.Use(jwtmw.AuthRequired(opts.JWTSecret))
	{
		protected.GET("/auth/me", h.Auth.Me)

		todos := protected.Group("/todos")
		todos.POST("", h.Todos.Create)
		todos.GET("", h.Todos.List)
		todos.DELETE("", h.Todos.Clear)
		todos.GET("/overdue", h.Todos.Overdue)
		todos.GET("/due-soon", h.Todos.DueSoon)
		todos.GET("/completed/:completed", h.Todos.ByStatus)
		todos.POST("/bulk-update", h.Todos.BulkUpdate)
		todos.POST("/import", h.Todos.Import)
		todos.GET("/:id", h.Todos.Get)
		todos.PUT("/:id", h.Todos.Update)
		todos.DELETE("/:id", h.Todos.Delete)

		protected.GET("/search", h.Todos.Search)
		protected.GET("/statistics", h.Todos.Statistics)
		protected.GET("/categories", h.Todos.Categories)
		protected.GET("/export", h.Todos.Export)

		protected.POST("/ai/subtasks", h.Subtasks.Generate)
	}

	return r
}

// requestLogger はリクエストごとにメソッド・パス・ステータス・処理時間をslogで記録します。
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"latency", time.Since(start),
			"remote_addr", c.ClientIP(),
		}
		switch {
		case status >= 500:
			slog.Error("request", attrs...)
		case status >= 400:
			slog.Warn("request", attrs...)
		default:
			slog.Info("request", attrs...)
		}
	}
}
