// Package openai はOpenAI互換のChat Completions APIを使用したサブタスク生成クライアントを提供します。
// APIキーは呼び出し元がリクエストごとに指定します。
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"todo_backend/internal/feature/subtasks/domain/entity"
	"todo_backend/internal/feature/subtasks/usecase"
	platformhttp "todo_backend/internal/platform/http"
)

const (
	// DefaultBaseURL はOpenAI APIのベースURLです。
	DefaultBaseURL = "https://api.openai.com/v1"
	// DefaultModel はデフォルトのチャットモデルです。
	DefaultModel = "gpt-3.5-turbo"

	requestTimeout = 30 * time.Second
	// maxErrorBody はエラー応答から読み取る最大バイト数です。
	maxErrorBody = 4 << 10
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int32         `json:"max_tokens,omitempty"`
	Temperature float32       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ChatGenerator は1つのAPIキーでChat Completionsを呼び出します。
type ChatGenerator struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
}

// ChatGeneratorがGeneratorを実装していることをコンパイル時に検証します。
var _ usecase.Generator = (*ChatGenerator)(nil)

// Factory は共有のHTTPクライアントを使い、APIキーごとにChatGeneratorを生成します。
type Factory struct {
	httpClient *http.Client
	baseURL    string
	model      string
}

// NewFactory はFactoryの新しいインスタンスを生成します。空の値はデフォルトを使用します。
func NewFactory(httpClient *http.Client, baseURL, model string) *Factory {
	if httpClient == nil {
		httpClient = platformhttp.NewHTTPClient(requestTimeout)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Factory{httpClient: httpClient, baseURL: strings.TrimRight(baseURL, "/"), model: model}
}

// ForKey はapiKeyで認証するGeneratorを返します。usecase.GeneratorFuncとして渡せます。
func (f *Factory) ForKey(apiKey string) usecase.Generator {
	return &ChatGenerator{httpClient: f.httpClient, baseURL: f.baseURL, model: f.model, apiKey: apiKey}
}

// Generate はsystemとuserの2メッセージでチャット補完を呼び出し、最初の候補を返します。
func (g *ChatGenerator) Generate(ctx context.Context, p entity.Prompt) (string, error) {
	reqBody := chatRequest{
		Model:       g.model,
		MaxTokens:   p.MaxTokens,
		Temperature: p.Temperature,
	}
	if p.System != "" {
		reqBody.Messages = append(reqBody.Messages, chatMessage{Role: "system", Content: p.System})
	}
	reqBody.Messages = append(reqBody.Messages, chatMessage{Role: "user", Content: p.User})

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", usecase.ErrEmptyResponse
	}
	return out.Choices[0].Message.Content, nil
}

// statusError は非200応答をusecaseのエラーに変換します。
func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(raw))
	var er errorResponse
	if json.Unmarshal(raw, &er) == nil && er.Error.Message != "" {
		msg = er.Error.Message
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", usecase.ErrProviderAuth, msg)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", usecase.ErrProviderRateLimited, msg)
	}
	return fmt.Errorf("chat completion returned status %d: %s", resp.StatusCode, msg)
}
