package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/server"

	"todo_backend/internal/app/di"
	"todo_backend/internal/app/router"
	"todo_backend/internal/config"
	todoadapters "todo_backend/internal/feature/todos/adapters"
	"todo_backend/internal/feature/todos/transport/mcptools"
	"todo_backend/internal/platform/db"
	"todo_backend/internal/platform/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := di.OpenDatabase(db.LoadConfigFromEnv())
	if err != nil {
		slog.Error("failed to open database", "error", err)
		return
	}
	if sqlDB, err := database.DB(); err == nil {
		defer sqlDB.Close()
	}

	var todos mcptools.TodoReader = todoadapters.NewTodoRepository(database)
	mcpServer := mcptools.NewServer(todos)
	httpHandler := server.NewStreamableHTTPServer(mcpServer, server.WithEndpointPath(cfg.MCP.Path))

	srv := &http.Server{
		Addr:              cfg.MCP.Addr,
		Handler:           router.NewMCPRouter(httpHandler, cfg.MCP.Path),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("mcp server starting", "addr", srv.Addr, "path", cfg.MCP.Path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("mcp server stopped unexpectedly", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
