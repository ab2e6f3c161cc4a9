package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo_backend/internal/feature/subtasks/domain/entity"
)

// mockGenerator はテスト用のGeneratorモック実装です。
type mockGenerator struct {
	GenerateFunc func(ctx context.Context, p entity.Prompt) (string, error)
	calls        int
}

func (m *mockGenerator) Generate(ctx context.Context, p entity.Prompt) (string, error) {
	m.calls++
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, p)
	}
	return "1. Draft outline\n2. Write body", nil
}

// mockLimiter はテスト用のLimiterモック実装です。
type mockLimiter struct {
	err   error
	calls int
}

func (m *mockLimiter) WaitIfNeeded(ctx context.Context) error {
	m.calls++
	return m.err
}

// TestBuildPrompt はプロンプトにタイトル・説明・出力形式の指示が含まれることを検証します。
func TestBuildPrompt(t *testing.T) {
	t.Run("with description", func(t *testing.T) {
		p := BuildPrompt(entity.Task{Title: "Plan trip", Description: "Japan in spring"})

		assert.Equal(t, SystemPrompt, p.System)
		assert.Equal(t, int32(300), p.MaxTokens)
		assert.InDelta(t, 0.7, p.Temperature, 0.0001)
		assert.True(t, strings.HasPrefix(p.User, "Task: Plan trip\nDescription: Japan in spring\n"))
		assert.Contains(t, p.User, "Break this task down into 3-5 specific, actionable subtasks")
		assert.Contains(t, p.User, "Keep subtasks concise and specific.")
	})

	t.Run("without description", func(t *testing.T) {
		p := BuildPrompt(entity.Task{Title: "Plan trip"})
		assert.NotContains(t, p.User, "Description:")
	})
}

// TestSubtaskUsecase_Generate はGeneratorの選択・入力検証・エラー伝播を検証します。
func TestSubtaskUsecase_Generate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		task       entity.Task
		apiKey     string
		server     bool
		withKey    bool
		serverErr  error
		limiterErr error
		serverOut  string
		want       string
		wantErr    error
		wantServer int
		wantKeyed  int
	}{
		{
			name:       "success: server generator",
			task:       entity.Task{Title: "Write report"},
			server:     true,
			want:       "1. Draft outline\n2. Write body",
			wantServer: 1,
		},
		{
			name:      "success: caller key selects keyed generator",
			task:      entity.Task{Title: "Write report"},
			apiKey:    "sk-test",
			server:    true,
			withKey:   true,
			want:      "1. Draft outline\n2. Write body",
			wantKeyed: 1,
		},
		{
			name:       "success: output is trimmed",
			task:       entity.Task{Title: "Write report"},
			server:     true,
			serverOut:  "\n  1. Only step  \n",
			want:       "1. Only step",
			wantServer: 1,
		},
		{
			name:    "failure: blank title",
			task:    entity.Task{Title: "   "},
			server:  true,
			wantErr: ErrInvalidTask,
		},
		{
			name:    "failure: description too long",
			task:    entity.Task{Title: "x", Description: strings.Repeat("a", 1001)},
			server:  true,
			wantErr: ErrInvalidTask,
		},
		{
			name:    "failure: no server generator configured",
			task:    entity.Task{Title: "Write report"},
			wantErr: ErrGeneratorUnavailable,
		},
		{
			name:    "failure: caller key without keyed generator",
			task:    entity.Task{Title: "Write report"},
			apiKey:  "sk-test",
			server:  true,
			wantErr: ErrGeneratorUnavailable,
		},
		{
			name:       "failure: provider error is propagated",
			task:       entity.Task{Title: "Write report"},
			server:     true,
			serverErr:  ErrProviderRateLimited,
			wantErr:    ErrProviderRateLimited,
			wantServer: 1,
		},
		{
			name:       "failure: empty provider response",
			task:       entity.Task{Title: "Write report"},
			server:     true,
			serverOut:  "   ",
			wantErr:    ErrEmptyResponse,
			wantServer: 1,
		},
		{
			name:       "failure: limiter canceled",
			task:       entity.Task{Title: "Write report"},
			server:     true,
			limiterErr: context.Canceled,
			wantErr:    context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var server Generator
			serverGen := &mockGenerator{}
			if tt.serverErr != nil || tt.serverOut != "" {
				serverGen.GenerateFunc = func(ctx context.Context, p entity.Prompt) (string, error) {
					return tt.serverOut, tt.serverErr
				}
			}
			if tt.server {
				server = serverGen
			}

			keyedGen := &mockGenerator{}
			var withKey GeneratorFunc
			if tt.withKey {
				withKey = func(apiKey string) Generator {
					assert.Equal(t, tt.apiKey, apiKey)
					return keyedGen
				}
			}

			limiter := &mockLimiter{err: tt.limiterErr}
			uc := NewSubtaskUsecase(server, withKey, limiter)

			got, err := uc.Generate(context.Background(), tt.task, tt.apiKey)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.Equal(t, tt.wantServer, serverGen.calls)
			assert.Equal(t, tt.wantKeyed, keyedGen.calls)
		})
	}
}

// TestSubtaskUsecase_Generate_NilLimiter はlimiterがnilでも動作することを検証します。
func TestSubtaskUsecase_Generate_NilLimiter(t *testing.T) {
	uc := NewSubtaskUsecase(&mockGenerator{}, nil, nil)

	got, err := uc.Generate(context.Background(), entity.Task{Title: "Write report"}, "")
	require.NoError(t, err)
	assert.NotEmpty(t, got)
}
