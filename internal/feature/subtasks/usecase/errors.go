package usecase

import "errors"

var (
	// ErrGeneratorUnavailable はサブタスク生成に使えるプロバイダーが設定されていないことを示します。
	ErrGeneratorUnavailable = errors.New("subtask generator is not configured")
	// ErrProviderAuth はプロバイダーがAPIキーを拒否したことを示します。
	ErrProviderAuth = errors.New("AI provider rejected the API key")
	// ErrProviderRateLimited はプロバイダーのレート制限に達したことを示します。
	ErrProviderRateLimited = errors.New("AI provider rate limit exceeded")
	// ErrInvalidTask はタイトルが空など、入力が不正であることを示します。
	ErrInvalidTask = errors.New("invalid task")
	// ErrEmptyResponse はプロバイダーが空の応答を返したことを示します。
	ErrEmptyResponse = errors.New("AI provider returned an empty response")
)
