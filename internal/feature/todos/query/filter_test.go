package query_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"todo_backend/internal/feature/todos/domain/entity"
	"todo_backend/internal/feature/todos/query"
)

// TestFilter は各条件とその組み合わせによる絞り込み結果を検証します。
func TestFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		criteria query.Criteria
		expected []uint
	}{
		{"no criteria returns everything in order", query.Criteria{}, []uint{1, 2, 3, 4, 5}},
		{"completed only", query.Criteria{Completed: ptr(true)}, []uint{2, 5}},
		{"pending only", query.Criteria{Completed: ptr(false)}, []uint{1, 3, 4}},
		{"by priority", query.Criteria{Priority: ptr(entity.PriorityMedium)}, []uint{1, 5}},
		{"by category", query.Criteria{Category: ptr("Shopping")}, []uint{1, 5}},
		{"category is case sensitive", query.Criteria{Category: ptr("shopping")}, []uint{}},
		{"due before is inclusive", query.Criteria{DueBefore: date(2025, 8, 5)}, []uint{1, 3}},
		{"due before drops undated todos", query.Criteria{DueBefore: date(2030, 1, 1)}, []uint{1, 2, 3}},
		{
			name:     "conjunction of predicates",
			criteria: query.Criteria{Completed: ptr(false), Category: ptr("Shopping"), Priority: ptr(entity.PriorityMedium)},
			expected: []uint{1},
		},
		{
			name:     "conjunction with no match",
			criteria: query.Criteria{Completed: ptr(true), Priority: ptr(entity.PriorityUrgent)},
			expected: []uint{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := query.Filter(fixtureTodos(), tt.criteria)
			assert.Equal(t, tt.expected, ids(got))
		})
	}
}

// TestFilter_Conjunctive はフィルタ結果に含まれるTodoが全条件を満たし、除外されたTodoはいずれかの条件を満たさないことを検証します。
func TestFilter_Conjunctive(t *testing.T) {
	t.Parallel()

	todos := fixtureTodos()
	criteria := []query.Criteria{
		{Completed: ptr(false)},
		{Completed: ptr(true), Category: ptr("Shopping")},
		{Priority: ptr(entity.PriorityHigh), DueBefore: date(2025, 12, 31)},
		{Category: ptr("Work"), Completed: ptr(false)},
	}

	for _, c := range criteria {
		got := query.Filter(todos, c)
		kept := map[uint]bool{}
		for _, td := range got {
			kept[td.ID] = true
			assert.True(t, c.Match(td))
		}
		for _, td := range todos {
			assert.Equal(t, c.Match(td), kept[td.ID], "todo %d", td.ID)
		}
	}
}

// TestFilter_DoesNotMutateInput は入力スライスが変更されないことを検証します。
func TestFilter_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	todos := fixtureTodos()
	_ = query.Filter(todos, query.Criteria{Completed: ptr(true)})

	assert.Equal(t, fixtureTodos(), todos)
}

// TestFilter_EmptyInput は空入力で空結果（エラーなし）を返すことを検証します。
func TestFilter_EmptyInput(t *testing.T) {
	t.Parallel()

	got := query.Filter(nil, query.Criteria{DueBefore: ptr(time.Now())})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
