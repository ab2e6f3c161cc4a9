package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"todo_backend/internal/app/di"
	"todo_backend/internal/app/seed"
	"todo_backend/internal/config"
	authadapters "todo_backend/internal/feature/auth/adapters"
	todoadapters "todo_backend/internal/feature/todos/adapters"
	todousecase "todo_backend/internal/feature/todos/usecase"
	"todo_backend/internal/platform/db"
	"todo_backend/internal/platform/logging"
)

func main() {
	file := flag.String("file", "", "seed file (JSON); the demo account is used when empty")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	data := seed.Default()
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			log.Fatal(err)
		}
		data, err = seed.Parse(f)
		_ = f.Close()
		if err != nil {
			log.Fatal(err)
		}
	}

	dbCfg := db.LoadConfigFromEnv()
	dbCfg.RunMigrations = true
	database, err := di.OpenDatabase(dbCfg)
	if err != nil {
		log.Fatal("failed to open database: ", err)
	}
	if sqlDB, err := database.DB(); err == nil {
		defer sqlDB.Close()
	}

	todos := todoadapters.NewTodoRepository(database)
	seeder := seed.NewSeeder(authadapters.NewUserRepository(database), todos, todousecase.NewTodoUsecase(todos, nil))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	rep, err := seeder.Run(ctx, data)
	if err != nil {
		log.Fatal(err)
	}
	for _, msg := range rep.Errors {
		slog.Warn("seed item skipped", "error", msg)
	}
	slog.Info("seed ok", "users_created", rep.UsersCreated, "todos_imported", rep.TodosImported)
}
