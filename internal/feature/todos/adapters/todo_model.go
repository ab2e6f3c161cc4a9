package adapters

import (
	"time"

	"todo_backend/internal/feature/todos/domain/entity"
)

// TodoModel is the GORM model for the todos table.
type TodoModel struct {
	ID          uint            `gorm:"primaryKey"`
	UserID      uint            `gorm:"index;not null"`
	Title       string          `gorm:"size:200;not null"`
	Description string          `gorm:"size:1000"`
	Completed   bool            `gorm:"not null"`
	Priority    entity.Priority `gorm:"size:10;not null;index"`
	DueDate     *time.Time      `gorm:"type:date;index"`
	Category    string          `gorm:"size:50;index"`
	Starred     bool            `gorm:"not null"`
	Archived    bool            `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM.
func (TodoModel) TableName() string {
	return "todos"
}

// ToEntity converts the GORM model to a domain entity.
func (m *TodoModel) ToEntity() entity.Todo {
	t := entity.Todo{
		ID:          m.ID,
		UserID:      m.UserID,
		Title:       m.Title,
		Description: m.Description,
		Completed:   m.Completed,
		Priority:    m.Priority,
		Category:    m.Category,
		Starred:     m.Starred,
		Archived:    m.Archived,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.DueDate != nil {
		// Drivers return DATE columns in varying locations.
		d := entity.DateOf(*m.DueDate)
		t.DueDate = &d
	}
	return t
}

// TodoModelFromEntity converts a domain entity to a GORM model.
func TodoModelFromEntity(t *entity.Todo) *TodoModel {
	return &TodoModel{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		Category:    t.Category,
		Starred:     t.Starred,
		Archived:    t.Archived,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
