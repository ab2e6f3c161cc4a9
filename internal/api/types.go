// Package api defines the JSON request and response bodies of the HTTP API.
// Binding tags are validated by gin's default validator.
package api

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// SignupRequest is the body of POST /api/auth/signup.
type SignupRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest is the body of POST /api/auth/refresh and /api/auth/logout.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenResponse is returned by signup, login and refresh.
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"` // seconds
	User         UserResponse `json:"user"`
}

// TodoResponse is the public view of a todo.
type TodoResponse struct {
	ID          uint                `json:"id"`
	Title       string              `json:"title"`
	Description *string             `json:"description"`
	Completed   bool                `json:"completed"`
	Priority    string              `json:"priority"`
	DueDate     *openapi_types.Date `json:"due_date"`
	Category    *string             `json:"category"`
	UserID      uint                `json:"user_id"`
	Starred     bool                `json:"starred"`
	Archived    bool                `json:"archived"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// CreateTodoRequest is the body of POST /api/todos.
type CreateTodoRequest struct {
	Title       string              `json:"title" binding:"required,max=200"`
	Description *string             `json:"description" binding:"omitempty,max=1000"`
	Priority    *string             `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	DueDate     *openapi_types.Date `json:"due_date"`
	Category    *string             `json:"category" binding:"omitempty,max=50"`
	Starred     bool                `json:"starred"`
}

// ImportTodoItem is one element of the POST /api/todos/import body.
// It carries no binding tags so that invalid items are reported per item instead of rejecting the batch.
type ImportTodoItem struct {
	Title       string              `json:"title"`
	Description *string             `json:"description"`
	Priority    *string             `json:"priority"`
	DueDate     *openapi_types.Date `json:"due_date"`
	Category    *string             `json:"category"`
	Starred     bool                `json:"starred"`
}

// UpdateTodoRequest is the body of PUT /api/todos/:id. Absent fields are left unchanged.
type UpdateTodoRequest struct {
	Title       *string             `json:"title" binding:"omitnil,min=1,max=200"`
	Description *string             `json:"description" binding:"omitempty,max=1000"`
	Completed   *bool               `json:"completed"`
	Priority    *string             `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	DueDate     *openapi_types.Date `json:"due_date"`
	Category    *string             `json:"category" binding:"omitempty,max=50"`
	Starred     *bool               `json:"starred"`
	Archived    *bool               `json:"archived"`
}

// ListTodosQuery is the query string of GET /api/todos.
type ListTodosQuery struct {
	Completed *bool      `form:"completed"`
	Priority  *string    `form:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Category  *string    `form:"category"`
	DueBefore *time.Time `form:"due_before" time_format:"2006-01-02" time_utc:"1"`
	Limit     *int       `form:"limit" binding:"omitnil,min=1,max=100"`
	Offset    *int       `form:"offset" binding:"omitnil,min=0"`
}

// DueSoonQuery is the query string of GET /api/todos/due-soon.
type DueSoonQuery struct {
	Days int `form:"days,default=7" binding:"min=1,max=30"`
}

// SearchQuery is the query string of GET /api/search.
type SearchQuery struct {
	Q                string `form:"q" binding:"required"`
	IncludeCompleted bool   `form:"include_completed,default=true"`
	Limit            int    `form:"limit,default=50" binding:"min=1,max=100"`
}

// BulkUpdateRequest is the body of POST /api/todos/bulk-update.
type BulkUpdateRequest struct {
	TodoIDs []uint            `json:"todo_ids" binding:"required,min=1"`
	Updates UpdateTodoRequest `json:"updates"`
}

// BulkUpdateResponse reports which todos were updated and why the others were not.
type BulkUpdateResponse struct {
	UpdatedCount int      `json:"updated_count"`
	UpdatedTodos []uint   `json:"updated_todos"`
	Errors       []string `json:"errors"`
}

// ImportResponse reports which todos were created and why the others were not.
type ImportResponse struct {
	ImportedCount   int      `json:"imported_count"`
	ImportedTodoIDs []uint   `json:"imported_todo_ids"`
	Errors          []string `json:"errors"`
}

// StatsResponse is the body of GET /api/statistics.
type StatsResponse struct {
	Total          int            `json:"total"`
	Completed      int            `json:"completed"`
	Pending        int            `json:"pending"`
	ByPriority     map[string]int `json:"by_priority"`
	ByCategory     map[string]int `json:"by_category"`
	CompletionRate float64        `json:"completion_rate"`
}

// SubtaskRequest is the body of POST /api/ai/subtasks.
type SubtaskRequest struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

// SubtaskResponse holds the generated subtasks as a numbered list.
type SubtaskResponse struct {
	Subtasks string `json:"subtasks"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	TodoCount int64     `json:"todo_count"`
	Version   string    `json:"version"`
}

// RootResponse is the body of GET /.
type RootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}
