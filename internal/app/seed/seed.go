// Package seed loads demo users and todos into a fresh database.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/crypto/bcrypt"

	authentity "todo_backend/internal/feature/auth/domain/entity"
	authusecase "todo_backend/internal/feature/auth/usecase"
	"todo_backend/internal/feature/todos/domain/entity"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "mem://seed/schema.json"

// File is the document accepted by Parse.
type File struct {
	Users []User `json:"users"`
}

// User is a seeded account. Password is plaintext and hashed on insert.
type User struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Todos    []Todo `json:"todos,omitempty"`
}

// Todo is a seeded todo. DueInDays is relative to the seeding time and is
// ignored when DueDate is set.
type Todo struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Category    string `json:"category,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
	DueInDays   *int   `json:"due_in_days,omitempty"`
	Starred     bool   `json:"starred,omitempty"`
}

// Default returns the demo account with three sample todos.
func Default() *File {
	return &File{Users: []User{{
		Name:     "Demo User",
		Email:    "demo@example.com",
		Password: "password",
		Todos: []Todo{
			{Title: "Review project proposal", Description: "Review and provide feedback on the Q1 project proposal", Priority: "high", Category: "work"},
			{Title: "Buy groceries", Description: "Milk, eggs, bread, and vegetables", Priority: "medium", Category: "personal"},
			{Title: "Call dentist", Description: "Schedule annual checkup", Priority: "low", Category: "health"},
		},
	}}}
}

// Parse validates r against the embedded JSON Schema and decodes it.
func Parse(r io.Reader) (*File, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}

	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return nil, fmt.Errorf("invalid seed file: %s", strings.Join(leafMessages(ve), "; "))
		}
		return nil, fmt.Errorf("invalid seed file: %w", err)
	}

	var f File
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return &f, nil
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("load seed schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile seed schema: %w", err)
	}
	return schema, nil
}

// leafMessages flattens a validation error tree into "location: message" lines.
func leafMessages(ve *jsonschema.ValidationError) []string {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return []string{loc + ": " + ve.Message}
	}
	var out []string
	for _, c := range ve.Causes {
		out = append(out, leafMessages(c)...)
	}
	return out
}

// UserStore is the subset of the user repository the seeder needs.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*authentity.User, error)
	Create(ctx context.Context, user *authentity.User) error
}

// TodoStore lists a user's existing todos.
type TodoStore interface {
	ListByUser(ctx context.Context, userID uint) ([]entity.Todo, error)
}

// TodoImporter creates todos through the usual validation path.
type TodoImporter interface {
	Import(ctx context.Context, userID uint, items []entity.NewTodo) entity.ImportResult
}

// Report summarizes a seeding run.
type Report struct {
	UsersCreated  int
	TodosImported int
	Errors        []string
}

// Seeder inserts users and todos that are not already present.
type Seeder struct {
	users    UserStore
	todos    TodoStore
	importer TodoImporter
	now      func() time.Time
}

// NewSeeder creates a Seeder.
func NewSeeder(users UserStore, todos TodoStore, importer TodoImporter) *Seeder {
	return &Seeder{users: users, todos: todos, importer: importer, now: time.Now}
}

// Run creates each user that does not exist yet and imports their todos
// only when the user has none. Running it twice is a no-op.
func (s *Seeder) Run(ctx context.Context, f *File) (Report, error) {
	var rep Report
	for _, u := range f.Users {
		user, created, err := s.ensureUser(ctx, u)
		if err != nil {
			return rep, err
		}
		if created {
			rep.UsersCreated++
			slog.Info("seed user created", "email", user.Email, "user_id", user.ID)
		}

		existing, err := s.todos.ListByUser(ctx, user.ID)
		if err != nil {
			return rep, fmt.Errorf("list todos for %s: %w", user.Email, err)
		}
		if len(existing) > 0 || len(u.Todos) == 0 {
			continue
		}

		items, err := s.newTodos(u.Todos)
		if err != nil {
			return rep, fmt.Errorf("todos for %s: %w", user.Email, err)
		}
		res := s.importer.Import(ctx, user.ID, items)
		rep.TodosImported += res.ImportedCount
		for _, e := range res.Errors {
			rep.Errors = append(rep.Errors, e.Message)
		}
		slog.Info("seed todos imported", "email", user.Email, "count", res.ImportedCount)
	}
	return rep, nil
}

func (s *Seeder) ensureUser(ctx context.Context, u User) (*authentity.User, bool, error) {
	email := strings.ToLower(strings.TrimSpace(u.Email))
	found, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return found, false, nil
	}
	if !errors.Is(err, authusecase.ErrUserNotFound) {
		return nil, false, fmt.Errorf("find user %s: %w", email, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, fmt.Errorf("hash password for %s: %w", email, err)
	}
	user := &authentity.User{Name: strings.TrimSpace(u.Name), Email: email, Password: string(hashed)}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, false, fmt.Errorf("create user %s: %w", email, err)
	}
	return user, true, nil
}

func (s *Seeder) newTodos(todos []Todo) ([]entity.NewTodo, error) {
	today := s.now().UTC().Truncate(24 * time.Hour)
	items := make([]entity.NewTodo, 0, len(todos))
	for _, t := range todos {
		in := entity.NewTodo{
			Title:       t.Title,
			Description: t.Description,
			Priority:    entity.Priority(t.Priority),
			Category:    t.Category,
			Starred:     t.Starred,
		}
		switch {
		case t.DueDate != "":
			d, err := time.Parse(time.DateOnly, t.DueDate)
			if err != nil {
				return nil, fmt.Errorf("todo %q: invalid due_date: %w", t.Title, err)
			}
			in.DueDate = &d
		case t.DueInDays != nil:
			d := today.AddDate(0, 0, *t.DueInDays)
			in.DueDate = &d
		}
		items = append(items, in)
	}
	return items, nil
}
