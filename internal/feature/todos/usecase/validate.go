package usecase

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"todo_backend/internal/feature/todos/domain/entity"
)

const (
	// MaxTitleLength はタイトルの最大文字数（rune数）です。
	MaxTitleLength = 200
	// MaxDescriptionLength は説明の最大文字数（rune数）です。
	MaxDescriptionLength = 1000
	// MaxCategoryLength はカテゴリの最大文字数（rune数）です。
	MaxCategoryLength = 50
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidTodo, fmt.Sprintf(format, args...))
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", invalid("title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", invalid("title exceeds %d characters", MaxTitleLength)
	}
	return title, nil
}

func validateDescription(s string) error {
	if utf8.RuneCountInString(s) > MaxDescriptionLength {
		return invalid("description exceeds %d characters", MaxDescriptionLength)
	}
	return nil
}

func validateCategory(s string) error {
	if utf8.RuneCountInString(s) > MaxCategoryLength {
		return invalid("category exceeds %d characters", MaxCategoryLength)
	}
	return nil
}

// normalizeNewTodo は作成入力を検証し、保存可能なTodoに変換します。
func normalizeNewTodo(userID uint, in entity.NewTodo) (*entity.Todo, error) {
	title, err := validateTitle(in.Title)
	if err != nil {
		return nil, err
	}
	if err := validateDescription(in.Description); err != nil {
		return nil, err
	}
	category := strings.TrimSpace(in.Category)
	if err := validateCategory(category); err != nil {
		return nil, err
	}

	priority := in.Priority
	if priority == "" {
		priority = entity.PriorityMedium
	}
	if !priority.Valid() {
		return nil, invalid("unknown priority %q", priority)
	}

	t := &entity.Todo{
		UserID:      userID,
		Title:       title,
		Description: in.Description,
		Priority:    priority,
		Category:    category,
		Starred:     in.Starred,
	}
	if in.DueDate != nil {
		d := entity.DateOf(*in.DueDate)
		t.DueDate = &d
	}
	return t, nil
}

// normalizePatch は部分更新の各フィールドを検証します。タイトルとカテゴリは前後の空白を除去します。
func normalizePatch(p entity.TodoPatch) (entity.TodoPatch, error) {
	if p.Title != nil {
		title, err := validateTitle(*p.Title)
		if err != nil {
			return p, err
		}
		p.Title = &title
	}
	if p.Description != nil {
		if err := validateDescription(*p.Description); err != nil {
			return p, err
		}
	}
	if p.Category != nil {
		category := strings.TrimSpace(*p.Category)
		if err := validateCategory(category); err != nil {
			return p, err
		}
		p.Category = &category
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return p, invalid("unknown priority %q", *p.Priority)
	}
	return p, nil
}
