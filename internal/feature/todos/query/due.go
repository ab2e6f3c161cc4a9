package query

import (
	"slices"
	"time"

	"todo_backend/internal/feature/todos/domain/entity"
)

const (
	// DefaultDueSoonDays は期限間近とみなす日数のデフォルト値です。
	DefaultDueSoonDays = 7
	// MinDueSoonDays と MaxDueSoonDays は指定可能な日数の範囲です。
	MinDueSoonDays = 1
	MaxDueSoonDays = 30
)

// Overdue は期限日がtodayより前で未完了のTodoを、期限日の古い順に返します。
func Overdue(todos []entity.Todo, today time.Time) []entity.Todo {
	day := entity.DateOf(today)
	out := make([]entity.Todo, 0)
	for _, t := range todos {
		if t.Completed || !t.HasDueDate() {
			continue
		}
		if entity.DateOf(*t.DueDate).Before(day) {
			out = append(out, t)
		}
	}
	sortByDueDate(out)
	return out
}

// DueSoon は期限日が[today, today+days]の範囲（両端を含む）にある未完了のTodoを期限日順に返します。
// daysが範囲外の場合はDefaultDueSoonDaysを使用します。
func DueSoon(todos []entity.Todo, today time.Time, days int) []entity.Todo {
	if days < MinDueSoonDays || days > MaxDueSoonDays {
		days = DefaultDueSoonDays
	}
	from := entity.DateOf(today)
	to := from.AddDate(0, 0, days)

	out := make([]entity.Todo, 0)
	for _, t := range todos {
		if t.Completed || !t.HasDueDate() {
			continue
		}
		due := entity.DateOf(*t.DueDate)
		if !due.Before(from) && !due.After(to) {
			out = append(out, t)
		}
	}
	sortByDueDate(out)
	return out
}

func sortByDueDate(todos []entity.Todo) {
	slices.SortStableFunc(todos, func(a, b entity.Todo) int {
		return a.DueDate.Compare(*b.DueDate)
	})
}
