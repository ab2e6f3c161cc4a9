package query

import (
	"slices"
	"strings"

	"todo_backend/internal/feature/todos/domain/entity"
)

const (
	// DefaultSearchLimit は検索結果のデフォルト上限件数です。
	DefaultSearchLimit = 50

	titleWeight       = 3
	descriptionWeight = 2
	categoryWeight    = 1
)

// SearchParams は全文検索のパラメータです。
type SearchParams struct {
	Query            string
	IncludeCompleted bool
	Limit            int // 0以下の場合はDefaultSearchLimit
}

// Score はクエリに対するTodoの関連度スコアを返します。
// タイトル一致で+3、説明一致で+2、カテゴリ一致で+1を加算します（大文字小文字を区別しない部分一致）。
func Score(t entity.Todo, query string) int {
	q := strings.ToLower(query)
	score := 0
	if strings.Contains(strings.ToLower(t.Title), q) {
		score += titleWeight
	}
	if t.Description != "" && strings.Contains(strings.ToLower(t.Description), q) {
		score += descriptionWeight
	}
	if t.Category != "" && strings.Contains(strings.ToLower(t.Category), q) {
		score += categoryWeight
	}
	return score
}

// Search はタイトル・説明・カテゴリのいずれかにクエリを含むTodoを関連度の高い順に返します。
// 同スコアのTodoは入力順を保持します（安定ソート）。
func Search(todos []entity.Todo, p SearchParams) []entity.Todo {
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	type scored struct {
		todo  entity.Todo
		score int
	}
	matches := make([]scored, 0)
	for _, t := range todos {
		if !p.IncludeCompleted && t.Completed {
			continue
		}
		if s := Score(t, p.Query); s > 0 {
			matches = append(matches, scored{todo: t, score: s})
		}
	}

	slices.SortStableFunc(matches, func(a, b scored) int {
		return b.score - a.score
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]entity.Todo, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.todo)
	}
	return out
}
