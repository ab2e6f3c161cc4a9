// Package adapters はtodosフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"todo_backend/internal/feature/todos/domain/entity"
	"todo_backend/internal/feature/todos/usecase"
)

// todoRepository はTodoRepositoryインターフェースのGORM実装です。
// MySQL・PostgreSQL・SQLiteのいずれの接続でも動作します。
type todoRepository struct {
	db *gorm.DB
}

// todoRepositoryがTodoRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.TodoRepository = (*todoRepository)(nil)

// NewTodoRepository は指定されたgorm.DB接続でtodoRepositoryの新しいインスタンスを生成します。
func NewTodoRepository(db *gorm.DB) *todoRepository {
	return &todoRepository{db: db}
}

// Create はTodoを追加し、採番されたIDとタイムスタンプをtに書き戻します。
func (r *todoRepository) Create(ctx context.Context, t *entity.Todo) error {
	m := TodoModelFromEntity(t)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	t.ID = m.ID
	t.CreatedAt = m.CreatedAt
	t.UpdatedAt = m.UpdatedAt
	return nil
}

// FindByID はIDでTodoを取得します。
// 存在しない場合、usecase.ErrTodoNotFoundを返します。
func (r *todoRepository) FindByID(ctx context.Context, id uint) (*entity.Todo, error) {
	var m TodoModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrTodoNotFound
		}
		return nil, err
	}
	t := m.ToEntity()
	return &t, nil
}

// ListByUser は指定ユーザーのTodoをID昇順で取得します。
func (r *todoRepository) ListByUser(ctx context.Context, userID uint) ([]entity.Todo, error) {
	var models []TodoModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]entity.Todo, 0, len(models))
	for i := range models {
		out = append(out, models[i].ToEntity())
	}
	return out, nil
}

// ListAll は全ユーザーのTodoをID昇順で取得します。
func (r *todoRepository) ListAll(ctx context.Context) ([]entity.Todo, error) {
	var models []TodoModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]entity.Todo, 0, len(models))
	for i := range models {
		out = append(out, models[i].ToEntity())
	}
	return out, nil
}

// Update はTodoの全フィールドを保存します。
func (r *todoRepository) Update(ctx context.Context, t *entity.Todo) error {
	m := TodoModelFromEntity(t)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	t.UpdatedAt = m.UpdatedAt
	return nil
}

// Delete は指定ユーザーが所有するTodoを削除します。
// 該当する行がない場合、usecase.ErrTodoNotFoundを返します。
func (r *todoRepository) Delete(ctx context.Context, userID, id uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&TodoModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrTodoNotFound
	}
	return nil
}

// DeleteAllByUser は指定ユーザーのTodoをすべて削除します。
func (r *todoRepository) DeleteAllByUser(ctx context.Context, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&TodoModel{})
	return result.RowsAffected, result.Error
}

// CountAll は全ユーザーのTodo件数を返します。
func (r *todoRepository) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&TodoModel{}).Count(&n).Error
	return n, err
}
