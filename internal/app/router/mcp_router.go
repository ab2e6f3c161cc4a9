package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewMCPRouter はMCPサーバー用のGinエンジンを構築します。
// mcpHandlerはpath配下で全メソッドを受け付け、/healthは疎通確認用に平文を返します。
func NewMCPRouter(mcpHandler http.Handler, path string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.Any(path, gin.WrapH(mcpHandler))

	return r
}
