package di

import (
	"gorm.io/gorm"

	authadapters "todo_backend/internal/feature/auth/adapters"
	todoadapters "todo_backend/internal/feature/todos/adapters"
	"todo_backend/internal/platform/db"
)

// Models returns every GORM model the service migrates.
func Models() []any {
	return []any{
		&authadapters.UserModel{},
		&authadapters.SessionModel{},
		&todoadapters.TodoModel{},
	}
}

// OpenDatabase connects using cfg and migrates all models when cfg.RunMigrations is set.
func OpenDatabase(cfg db.Config) (*gorm.DB, error) {
	return db.OpenDB(cfg, Models()...)
}
