// Package query はTodo一覧に対する絞り込み・検索・集計を行う純粋関数群を提供します。
// どの関数も入力スライスを変更せず、I/Oも状態も持ちません。
package query

import (
	"time"

	"todo_backend/internal/feature/todos/domain/entity"
)

// Criteria は一覧の絞り込み条件です。nilのフィールドは条件として扱いません。
type Criteria struct {
	Completed *bool
	Priority  *entity.Priority
	Category  *string
	// DueBefore は期限日がこの日付以前（当日を含む）のTodoのみを残します。
	// 期限日のないTodoは除外されます。
	DueBefore *time.Time
}

// IsZero は条件が1つも指定されていない場合にtrueを返します。
func (c Criteria) IsZero() bool {
	return c.Completed == nil && c.Priority == nil && c.Category == nil && c.DueBefore == nil
}

// Match はTodoが指定されたすべての条件を満たすかを判定します。
func (c Criteria) Match(t entity.Todo) bool {
	if c.Completed != nil && t.Completed != *c.Completed {
		return false
	}
	if c.Priority != nil && t.Priority != *c.Priority {
		return false
	}
	if c.Category != nil && t.Category != *c.Category {
		return false
	}
	if c.DueBefore != nil {
		if !t.HasDueDate() {
			return false
		}
		if entity.DateOf(*t.DueDate).After(entity.DateOf(*c.DueBefore)) {
			return false
		}
	}
	return true
}

// Filter は条件をすべて満たすTodoを入力順のまま返します。
// 条件が空の場合は入力のコピーをそのまま返します。
func Filter(todos []entity.Todo, c Criteria) []entity.Todo {
	out := make([]entity.Todo, 0, len(todos))
	for _, t := range todos {
		if c.Match(t) {
			out = append(out, t)
		}
	}
	return out
}
