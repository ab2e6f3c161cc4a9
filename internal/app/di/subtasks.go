package di

import (
	"context"
	"log/slog"
	"time"

	"todo_backend/internal/config"
	"todo_backend/internal/feature/subtasks/adapters/gemini"
	"todo_backend/internal/feature/subtasks/adapters/openai"
	"todo_backend/internal/feature/subtasks/transport/handler"
	"todo_backend/internal/feature/subtasks/usecase"
	"todo_backend/internal/shared/ratelimiter"
)

// NewSubtaskHandler wires the server-side Gemini generator (when credentials
// are configured), the per-request OpenAI-compatible generator and a shared
// per-minute rate limiter.
func NewSubtaskHandler(ctx context.Context, cfg config.AIConfig) *handler.SubtaskHandler {
	server, withKey := NewSubtaskGenerators(ctx, cfg)
	uc := usecase.NewSubtaskUsecase(server, withKey, NewSubtaskLimiter(cfg))
	return handler.NewSubtaskHandler(uc)
}

// NewSubtaskGenerators returns the server generator (nil when unconfigured)
// and the caller-key factory.
func NewSubtaskGenerators(ctx context.Context, cfg config.AIConfig) (usecase.Generator, usecase.GeneratorFunc) {
	var server usecase.Generator
	if cfg.GeminiEnabled() {
		g, err := gemini.NewGeminiGenerator(ctx, gemini.Config{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel})
		if err != nil {
			slog.Warn("Gemini unavailable. Subtasks require a caller API key.", "error", err)
		} else {
			server = g
		}
	}
	factory := openai.NewFactory(nil, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	return server, factory.ForKey
}

// NewSubtaskLimiter creates the per-minute limiter shared by both generators.
func NewSubtaskLimiter(cfg config.AIConfig) *ratelimiter.RateLimiter {
	return ratelimiter.NewRateLimiter(cfg.RateLimit, time.Minute)
}
