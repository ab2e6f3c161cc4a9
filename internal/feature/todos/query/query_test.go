package query_test

import (
	"time"

	"todo_backend/internal/feature/todos/domain/entity"
)

// date はテスト用にUTCの日付を生成します。
func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func ptr[T any](v T) *T { return &v }

func ids(todos []entity.Todo) []uint {
	out := make([]uint, 0, len(todos))
	for _, t := range todos {
		out = append(out, t.ID)
	}
	return out
}

// fixtureTodos はフィルタ・検索・統計テストで共通に使うTodo一覧です。
func fixtureTodos() []entity.Todo {
	base := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)
	return []entity.Todo{
		{ID: 1, Title: "Buy milk", Description: "get milk and eggs", Category: "Shopping", Priority: entity.PriorityMedium, DueDate: date(2025, 8, 5), CreatedAt: base},
		{ID: 2, Title: "Finish report", Description: "final draft", Category: "Work", Priority: entity.PriorityHigh, Completed: true, DueDate: date(2025, 8, 10), CreatedAt: base.Add(time.Hour)},
		{ID: 3, Title: "Pay bill", Category: "Bills", Priority: entity.PriorityUrgent, DueDate: date(2025, 7, 27), CreatedAt: base.Add(2 * time.Hour)},
		{ID: 4, Title: "Read a book", Priority: entity.PriorityLow, CreatedAt: base.Add(3 * time.Hour)},
		{ID: 5, Title: "Groceries", Description: "milk, bread", Category: "Shopping", Priority: entity.PriorityMedium, Completed: true, CreatedAt: base.Add(4 * time.Hour)},
	}
}
