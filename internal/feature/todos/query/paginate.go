package query

import (
	"slices"

	"todo_backend/internal/feature/todos/domain/entity"
)

// Paginate は作成日時の降順（新しい順）に並べ替えた後、offset件をスキップし最大limit件を返します。
// 並べ替えはoffset・limitの指定有無に関わらず常に行われます。
// limitが0以下の場合は残りすべてを返し、offsetが件数を超える場合は空スライスを返します。
func Paginate(todos []entity.Todo, offset, limit int) []entity.Todo {
	sorted := slices.Clone(todos)
	slices.SortStableFunc(sorted, func(a, b entity.Todo) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= len(sorted) {
		return []entity.Todo{}
	}
	sorted = sorted[offset:]

	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted
}
