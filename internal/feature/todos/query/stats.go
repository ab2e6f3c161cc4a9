package query

import (
	"math"
	"slices"

	"todo_backend/internal/feature/todos/domain/entity"
)

// Stats はTodo一覧の統計情報を集計します。
// 優先度別の件数は4段階すべてを0埋めで含み、カテゴリ別の件数は実在するカテゴリのみを含みます。
func Stats(todos []entity.Todo) entity.Stats {
	s := entity.Stats{
		Total:      len(todos),
		ByPriority: make(map[entity.Priority]int, len(entity.Priorities())),
		ByCategory: make(map[string]int),
	}
	for _, p := range entity.Priorities() {
		s.ByPriority[p] = 0
	}

	for _, t := range todos {
		if t.Completed {
			s.Completed++
		}
		s.ByPriority[t.Priority]++
		if t.Category != "" {
			s.ByCategory[t.Category]++
		}
	}
	s.Pending = s.Total - s.Completed

	if s.Total > 0 {
		rate := float64(s.Completed) / float64(s.Total) * 100
		s.CompletionRate = math.Round(rate*100) / 100
	}
	return s
}

// Categories は空でないカテゴリの一覧を重複なしで昇順に返します。
func Categories(todos []entity.Todo) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, t := range todos {
		if t.Category == "" {
			continue
		}
		if _, ok := seen[t.Category]; ok {
			continue
		}
		seen[t.Category] = struct{}{}
		out = append(out, t.Category)
	}
	slices.Sort(out)
	return out
}
