package usecase

import "errors"

var (
	// ErrTodoNotFound is returned when a todo does not exist or belongs to another user.
	ErrTodoNotFound = errors.New("todo not found")

	// ErrInvalidTodo is returned when a todo field fails validation.
	// It is wrapped with the offending field, e.g. "invalid todo: title is required".
	ErrInvalidTodo = errors.New("invalid todo")
)
