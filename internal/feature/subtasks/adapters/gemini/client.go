// Package gemini はGoogle Gemini APIを使用したサブタスク生成クライアントを提供します。
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"todo_backend/internal/feature/subtasks/domain/entity"
	"todo_backend/internal/feature/subtasks/usecase"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.0-flash"
)

// Config はGeminiクライアントの設定です。
type Config struct {
	// APIKey が設定されている場合はGemini APIを、空の場合は環境変数
	// GOOGLE_GENAI_USE_VERTEXAI, GOOGLE_CLOUD_PROJECT, GOOGLE_CLOUD_LOCATION とADCでVertex AIを使用します。
	APIKey  string
	Model   string
	BaseURL string // 空の場合はSDKのデフォルト
}

// GeminiGenerator はGoogle Gemini APIを使用してテキストを生成します。
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// GeminiGeneratorがGeneratorを実装していることをコンパイル時に検証します。
var _ usecase.Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator はGeminiGeneratorの新しいインスタンスを生成します。
func NewGeminiGenerator(ctx context.Context, cfg Config) (*GeminiGenerator, error) {
	var cc *genai.ClientConfig
	if cfg.APIKey != "" || cfg.BaseURL != "" {
		cc = &genai.ClientConfig{
			APIKey:      cfg.APIKey,
			Backend:     genai.BackendGeminiAPI,
			HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
		}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// Generate はシステム指示付きでプロンプトを送信し、生成テキストを返します。
func (g *GeminiGenerator) Generate(ctx context.Context, p entity.Prompt) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(p.User), generateConfig(p))
	if err != nil {
		return "", mapError(err)
	}
	return resp.Text(), nil
}

func generateConfig(p entity.Prompt) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: p.MaxTokens,
		Temperature:     genai.Ptr(p.Temperature),
	}
	if p.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(p.System, genai.RoleUser)
	}
	return cfg
}

// mapError はAPIエラーのステータスコードをusecaseのエラーに変換します。
func mapError(err error) error {
	code := 0
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr):
		code = apiErrPtr.Code
	}

	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %v", usecase.ErrProviderAuth, err)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", usecase.ErrProviderRateLimited, err)
	}
	return fmt.Errorf("gemini API request failed: %w", err)
}
