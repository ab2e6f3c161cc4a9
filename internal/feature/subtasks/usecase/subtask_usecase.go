// Package usecase はsubtasksフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"todo_backend/internal/feature/subtasks/domain/entity"
)

const (
	// SystemPrompt はモデルに与える役割です。
	SystemPrompt = "You are a helpful assistant that breaks down tasks into actionable subtasks."
	// MaxTokens は応答の最大トークン数です。
	MaxTokens = 300
	// Temperature はサンプリング温度です。
	Temperature = 0.7

	maxTitleLength       = 200
	maxDescriptionLength = 1000
)

// Generator は言語モデルにプロンプトを送り、生成されたテキストを返します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type Generator interface {
	Generate(ctx context.Context, p entity.Prompt) (string, error)
}

// GeneratorFunc は呼び出し元のAPIキーからGeneratorを生成します。
type GeneratorFunc func(apiKey string) Generator

// Limiter はプロバイダー呼び出しの頻度を制限します。
type Limiter interface {
	WaitIfNeeded(ctx context.Context) error
}

// subtaskUsecase はTodoをサブタスクに分解します。
type subtaskUsecase struct {
	server  Generator     // サーバーの資格情報を使うGenerator。nilの場合は未設定
	withKey GeneratorFunc // 呼び出し元のAPIキーを使うGeneratorの生成関数。nilの場合は未対応
	limiter Limiter
}

// NewSubtaskUsecase はsubtaskUsecaseの新しいインスタンスを生成します。
// serverとwithKeyはどちらもnilを許容します。limiterがnilの場合は制限しません。
func NewSubtaskUsecase(server Generator, withKey GeneratorFunc, limiter Limiter) *subtaskUsecase {
	return &subtaskUsecase{server: server, withKey: withKey, limiter: limiter}
}

// BuildPrompt はタスクから番号付きリストを求めるプロンプトを組み立てます。
func BuildPrompt(task entity.Task) entity.Prompt {
	var b strings.Builder
	fmt.Fprintf(&b, "Task: %s\n", task.Title)
	if task.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", task.Description)
	}
	b.WriteString("\nBreak this task down into 3-5 specific, actionable subtasks. Format as a numbered list:\n")
	b.WriteString("1. First subtask\n2. Second subtask\netc.\n\n")
	b.WriteString("Keep subtasks concise and specific.")

	return entity.Prompt{
		System:      SystemPrompt,
		User:        b.String(),
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
	}
}

// Generate はタスクのサブタスクを番号付きリストで返します。
// apiKeyが空でなければ呼び出し元のキーでプロバイダーを呼び、空ならサーバー設定のGeneratorを使います。
func (u *subtaskUsecase) Generate(ctx context.Context, task entity.Task, apiKey string) (string, error) {
	task.Title = strings.TrimSpace(task.Title)
	task.Description = strings.TrimSpace(task.Description)
	if task.Title == "" || utf8.RuneCountInString(task.Title) > maxTitleLength {
		return "", fmt.Errorf("%w: title must be 1-%d characters", ErrInvalidTask, maxTitleLength)
	}
	if utf8.RuneCountInString(task.Description) > maxDescriptionLength {
		return "", fmt.Errorf("%w: description must be at most %d characters", ErrInvalidTask, maxDescriptionLength)
	}

	gen, err := u.generator(apiKey)
	if err != nil {
		return "", err
	}
	if u.limiter != nil {
		if err := u.limiter.WaitIfNeeded(ctx); err != nil {
			return "", err
		}
	}

	out, err := gen.Generate(ctx, BuildPrompt(task))
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}

func (u *subtaskUsecase) generator(apiKey string) (Generator, error) {
	if apiKey != "" {
		if u.withKey == nil {
			return nil, ErrGeneratorUnavailable
		}
		return u.withKey(apiKey), nil
	}
	if u.server == nil {
		return nil, ErrGeneratorUnavailable
	}
	return u.server, nil
}
