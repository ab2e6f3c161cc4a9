// Package entity defines the domain models for the todos feature.
package entity

import (
	"fmt"
	"time"
)

// Priority is the urgency level of a todo. It is the single priority type
// shared by the HTTP layer, the usecases, the query layer and storage.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Priorities returns every priority level ordered from least to most urgent.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
}

// Valid reports whether p is one of the known priority levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// ParsePriority converts s into a Priority.
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority %q", s)
	}
	return p, nil
}

// Todo is a single task owned by one user.
type Todo struct {
	ID          uint
	UserID      uint
	Title       string
	Description string     // empty when not set
	Completed   bool
	Priority    Priority
	DueDate     *time.Time // calendar date at midnight UTC, nil when not set
	Category    string     // empty when not set
	Starred     bool
	Archived    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasDueDate reports whether the todo carries a due date.
func (t *Todo) HasDueDate() bool {
	return t.DueDate != nil && !t.DueDate.IsZero()
}

// NewTodo holds the fields a caller may supply when creating a todo.
type NewTodo struct {
	Title       string
	Description string
	Priority    Priority // defaults to PriorityMedium when empty
	DueDate     *time.Time
	Category    string
	Starred     bool
}

// TodoPatch is a partial update. Nil fields are left untouched.
type TodoPatch struct {
	Title       *string
	Description *string
	Completed   *bool
	Priority    *Priority
	DueDate     *time.Time
	Category    *string
	Starred     *bool
	Archived    *bool
}

// IsEmpty reports whether the patch would change nothing.
func (p TodoPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil &&
		p.Priority == nil && p.DueDate == nil && p.Category == nil &&
		p.Starred == nil && p.Archived == nil
}

// Apply copies every non-nil field of the patch onto t.
func (p TodoPatch) Apply(t *Todo) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		d := DateOf(*p.DueDate)
		t.DueDate = &d
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Starred != nil {
		t.Starred = *p.Starred
	}
	if p.Archived != nil {
		t.Archived = *p.Archived
	}
}

// DateOf truncates t to its calendar date and returns it as midnight UTC.
// The year, month and day are taken in t's own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
