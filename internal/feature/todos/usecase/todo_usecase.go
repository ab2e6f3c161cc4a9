// Package usecase はtodosフィーチャーのビジネスロジックを実装します。
// 所有者チェックはこの層で行い、絞り込みや集計はqueryパッケージの純粋関数に委譲します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"todo_backend/internal/feature/todos/domain/entity"
	"todo_backend/internal/feature/todos/query"
)

// TodoRepository はTodoエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type TodoRepository interface {
	// Create は新しいTodoを保存し、採番されたIDとタイムスタンプをtに設定します。
	Create(ctx context.Context, t *entity.Todo) error
	// FindByID はIDでTodoを取得します。存在しない場合はErrTodoNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.Todo, error)
	// ListByUser は指定ユーザーのTodoをID昇順ですべて返します。
	ListByUser(ctx context.Context, userID uint) ([]entity.Todo, error)
	// Update はTodoの全フィールドを保存します。
	Update(ctx context.Context, t *entity.Todo) error
	// Delete は指定ユーザーが所有するTodoを削除します。該当がない場合はErrTodoNotFoundを返します。
	Delete(ctx context.Context, userID, id uint) error
	// DeleteAllByUser は指定ユーザーのTodoをすべて削除し、削除件数を返します。
	DeleteAllByUser(ctx context.Context, userID uint) (int64, error)
	// CountAll は全ユーザーのTodo件数を返します。
	CountAll(ctx context.Context) (int64, error)
}

// EventPublisher はTodoの変更イベントを外部に通知します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type EventPublisher interface {
	Publish(ctx context.Context, ev entity.TodoEvent) error
}

// todoUsecase はTodoのCRUD・検索・集計・一括操作を提供します。
type todoUsecase struct {
	repo   TodoRepository
	events EventPublisher // nilの場合は通知しない
	now    func() time.Time
}

// NewTodoUsecase はtodoUsecaseの新しいインスタンスを生成します。
// eventsにnilを渡すとイベント通知を行いません。
func NewTodoUsecase(repo TodoRepository, events EventPublisher) *todoUsecase {
	return &todoUsecase{repo: repo, events: events, now: time.Now}
}

// publish はイベントを通知します。通知の失敗は呼び出し元の操作を失敗させず、ログに記録するのみです。
func (u *todoUsecase) publish(ctx context.Context, typ entity.EventType, userID, todoID uint, count int64) {
	if u.events == nil {
		return
	}
	ev := entity.TodoEvent{
		Type:       typ,
		UserID:     userID,
		TodoID:     todoID,
		Count:      count,
		OccurredAt: u.now().UTC(),
	}
	if err := u.events.Publish(ctx, ev); err != nil {
		slog.Warn("failed to publish todo event", "type", typ, "user_id", userID, "todo_id", todoID, "error", err)
	}
}

// Create は入力を検証し、指定ユーザーのTodoを作成します。
func (u *todoUsecase) Create(ctx context.Context, userID uint, in entity.NewTodo) (*entity.Todo, error) {
	t, err := normalizeNewTodo(userID, in)
	if err != nil {
		return nil, err
	}
	if err := u.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}
	u.publish(ctx, entity.EventCreated, userID, t.ID, 1)
	return t, nil
}

// Get は指定ユーザーが所有するTodoを取得します。
// 他ユーザーのTodoは存在しないものとして扱い、ErrTodoNotFoundを返します。
func (u *todoUsecase) Get(ctx context.Context, userID, id uint) (*entity.Todo, error) {
	t, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, ErrTodoNotFound
	}
	return t, nil
}

// List は条件で絞り込んだ後、作成日時の新しい順にページングした一覧を返します。
func (u *todoUsecase) List(ctx context.Context, userID uint, c query.Criteria, offset, limit int) ([]entity.Todo, error) {
	todos, err := u.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return query.Paginate(query.Filter(todos, c), offset, limit), nil
}

// Update は部分更新を適用して保存します。updated_atは常に更新されます。
func (u *todoUsecase) Update(ctx context.Context, userID, id uint, patch entity.TodoPatch) (*entity.Todo, error) {
	patch, err := normalizePatch(patch)
	if err != nil {
		return nil, err
	}
	t, err := u.apply(ctx, userID, id, patch)
	if err != nil {
		return nil, err
	}
	u.publish(ctx, entity.EventUpdated, userID, t.ID, 1)
	return t, nil
}

// apply は検証済みの部分更新を1件に適用します。
func (u *todoUsecase) apply(ctx context.Context, userID, id uint, patch entity.TodoPatch) (*entity.Todo, error) {
	t, err := u.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(t)
	t.UpdatedAt = u.now()
	if err := u.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to update todo %d: %w", id, err)
	}
	return t, nil
}

// Delete は指定ユーザーのTodoを削除し、削除前のTodoを返します。
func (u *todoUsecase) Delete(ctx context.Context, userID, id uint) (*entity.Todo, error) {
	t, err := u.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := u.repo.Delete(ctx, userID, id); err != nil {
		return nil, err
	}
	u.publish(ctx, entity.EventDeleted, userID, id, 1)
	return t, nil
}

// Clear は指定ユーザーのTodoをすべて削除し、削除件数を返します。
func (u *todoUsecase) Clear(ctx context.Context, userID uint) (int64, error) {
	n, err := u.repo.DeleteAllByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear todos: %w", err)
	}
	u.publish(ctx, entity.EventCleared, userID, 0, n)
	return n, nil
}

// ByStatus は完了状態が一致するTodoを返します。
func (u *todoUsecase) ByStatus(ctx context.Context, userID uint, completed bool) ([]entity.Todo, error) {
	todos, err := u.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return query.Filter(todos, query.Criteria{Completed: &completed}), nil
}

// Overdue は期限切れの未完了Todoを期限日の古い順に返します。
func (u *todoUsecase) Overdue(ctx context.Context, userID uint) ([]entity.Todo, error) {
	todos, err := u.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return query.Overdue(todos, u.now()), nil
}

// DueSoon は今日からdays日以内に期限を迎える未完了Todoを返します。
func (u *todoUsecase) DueSoon(ctx context.Context, userID uint, days int) ([]entity.Todo, error) {
	todos, err := u.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return query.DueSoon(todos, u.now(), days), nil
}

// Search はタイトル・説明・カテゴリを対象に関連度順で検索します。
func (u *todoUsecase) Search(ctx context.Context, userID uint, p query.SearchParams) ([]entity.Todo, error) {
	todos, err := u.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return query.Search(todos, p), nil
}

// Stats は指定ユーザーのTodo統計を返します。
func (u *todoUsecase) Stats(ctx context.Context, userID uint) (entity.Stats, error) {
	todos, err := u.repo.ListByUser(ctx, userID)
	if err != nil {
		return entity.Stats{}, err
	}
	return query.Stats(todos), nil
}

// Categories は指定ユーザーが使用しているカテゴリを昇順で返します。
func (u *todoUsecase) Categories(ctx context.Context, userID uint) ([]string, error) {
	todos, err := u.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return query.Categories(todos), nil
}

// Export は指定ユーザーのTodoをすべて返します。
func (u *todoUsecase) Export(ctx context.Context, userID uint) ([]entity.Todo, error) {
	return u.repo.ListByUser(ctx, userID)
}

// Count は全ユーザーのTodo件数を返します。
func (u *todoUsecase) Count(ctx context.Context) (int64, error) {
	return u.repo.CountAll(ctx)
}

// BulkUpdate は同じ部分更新を各IDに個別に適用します。
// 1件の失敗はバッチ全体を中断せず、ロールバックもしません。失敗はErrorsに集約されます。
// 部分更新自体が不正な場合のみエラーを返します。
func (u *todoUsecase) BulkUpdate(ctx context.Context, userID uint, ids []uint, patch entity.TodoPatch) (entity.BulkUpdateResult, error) {
	res := entity.BulkUpdateResult{UpdatedIDs: []uint{}, Errors: []entity.ItemError{}}

	patch, err := normalizePatch(patch)
	if err != nil {
		return res, err
	}

	for _, id := range ids {
		t, err := u.apply(ctx, userID, id, patch)
		if err != nil {
			msg := fmt.Sprintf("Todo %d not found", id)
			if !errors.Is(err, ErrTodoNotFound) {
				slog.Error("bulk update item failed", "user_id", userID, "todo_id", id, "error", err)
				msg = fmt.Sprintf("Todo %d could not be updated", id)
			}
			res.Errors = append(res.Errors, entity.ItemError{ID: id, Message: msg})
			continue
		}
		res.UpdatedIDs = append(res.UpdatedIDs, t.ID)
		u.publish(ctx, entity.EventUpdated, userID, t.ID, 1)
	}
	res.UpdatedCount = len(res.UpdatedIDs)
	return res, nil
}

// Import は各Todoを個別に作成します。検証エラーや保存エラーはErrorsに集約され、残りの作成は継続します。
// 保存エラーの詳細はログにのみ出力します。
func (u *todoUsecase) Import(ctx context.Context, userID uint, items []entity.NewTodo) entity.ImportResult {
	res := entity.ImportResult{ImportedIDs: []uint{}, Errors: []entity.ItemError{}}

	for _, in := range items {
		t, err := u.Create(ctx, userID, in)
		if err != nil {
			reason := err.Error()
			if !errors.Is(err, ErrInvalidTodo) {
				slog.Error("import item failed", "user_id", userID, "title", in.Title, "error", err)
				reason = "could not be saved"
			}
			res.Errors = append(res.Errors, entity.ItemError{
				Title:   in.Title,
				Message: fmt.Sprintf("Error importing todo '%s': %s", in.Title, reason),
			})
			continue
		}
		res.ImportedIDs = append(res.ImportedIDs, t.ID)
	}
	res.ImportedCount = len(res.ImportedIDs)
	return res
}
