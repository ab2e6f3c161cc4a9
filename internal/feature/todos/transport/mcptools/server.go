// Package mcptools はTodoを読み取るMCP（Model Context Protocol）のツールとリソースを提供します。
// 認証を持たないため、cmd/mcpはローカルでの待ち受けを前提とします。
package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"todo_backend/internal/feature/todos/domain/entity"
	"todo_backend/internal/feature/todos/transport/handler"
	"todo_backend/internal/feature/todos/usecase"
)

const (
	ServerName    = "Intelligent Todo MCP Server"
	ServerVersion = "1.0.0"

	ToolGetAllTasks = "get_all_tasks"
	ToolGetTodoByID = "get_todo_by_id"

	// RequestStructuresURI はREST APIのリクエスト例を返すリソースです。
	RequestStructuresURI = "request://structures"
)

// TodoReader はMCPツールが読み取るTodoの保存先です。
// Goの慣例に従い、インターフェースは利用者側で定義します。
type TodoReader interface {
	// ListAll は全ユーザーのTodoをID昇順で返します。
	ListAll(ctx context.Context) ([]entity.Todo, error)
	// FindByID はIDでTodoを取得します。存在しない場合はusecase.ErrTodoNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.Todo, error)
}

// Tools はMCPのツール呼び出しを処理します。
type Tools struct {
	todos TodoReader
}

// NewTools はToolsの新しいインスタンスを生成します。
func NewTools(todos TodoReader) *Tools {
	return &Tools{todos: todos}
}

// NewServer はツールとリソースを登録したMCPサーバーを生成します。
func NewServer(todos TodoReader) *server.MCPServer {
	s := server.NewMCPServer(ServerName, ServerVersion,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)
	tools := NewTools(todos)

	s.AddTool(mcp.NewTool(ToolGetAllTasks,
		mcp.WithDescription("get all tasks from the todo database"),
	), tools.GetAllTasks)
	s.AddTool(mcp.NewTool(ToolGetTodoByID,
		mcp.WithDescription("get a todo by its ID"),
		mcp.WithNumber("todo_id", mcp.Required(), mcp.Description("ID of the todo")),
	), tools.GetTodoByID)

	s.AddResource(mcp.NewResource(RequestStructuresURI, "Request structures",
		mcp.WithResourceDescription("Samples for request json structures"),
		mcp.WithMIMEType("application/json"),
	), RequestStructures)
	return s
}

// GetAllTasks は全Todoを返します。
// 取得に失敗した場合はツールエラーとして返し、詳細はログにのみ出力します。
func (t *Tools) GetAllTasks(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	todos, err := t.todos.ListAll(ctx)
	if err != nil {
		slog.Error("mcp get_all_tasks failed", "error", err)
		return mcp.NewToolResultError("failed to load todos"), nil
	}
	return jsonResult(handler.ToTodoResponses(todos))
}

// GetTodoByID はtodo_id引数のTodoを返します。
func (t *Tools) GetTodoByID(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := todoID(req.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	todo, err := t.todos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, usecase.ErrTodoNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("Todo %d not found", id)), nil
		}
		slog.Error("mcp get_todo_by_id failed", "todo_id", id, "error", err)
		return mcp.NewToolResultError("failed to load todo"), nil
	}
	return jsonResult(handler.ToTodoResponse(*todo))
}

// todoID はJSON数値として渡されたtodo_idを正の整数として取り出します。
func todoID(args map[string]any) (uint, error) {
	v, ok := args["todo_id"]
	if !ok {
		return 0, errors.New("todo_id is required")
	}

	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, errors.New("todo_id must be a positive integer")
		}
		f = parsed
	default:
		return 0, errors.New("todo_id must be a positive integer")
	}
	if f < 1 || f != math.Trunc(f) || f > math.MaxUint32 {
		return 0, errors.New("todo_id must be a positive integer")
	}
	return uint(f), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool result: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}

// requestStructures はREST APIの各リクエストボディの例です。
var requestStructures = map[string]any{
	"create_todo": map[string]any{
		"title":       "Buy groceries",
		"description": "Milk, Bread, Eggs",
		"priority":    "medium",
		"due_date":    "2025-08-05",
		"category":    "Shopping",
	},
	"update_todo": map[string]any{
		"title":       "Buy groceries and fruits",
		"description": "Milk, Bread, Eggs, Apples",
		"priority":    "high",
		"due_date":    "2025-08-06",
		"category":    "Shopping",
	},
	"bulk_update": map[string]any{
		"todo_ids": []int{1, 2},
		"updates": map[string]any{
			"priority":  "urgent",
			"completed": true,
		},
	},
	"import_todos": []map[string]any{
		{
			"title":       "Read a book",
			"description": "Start reading 'Atomic Habits'",
			"priority":    "low",
			"due_date":    "2025-08-15",
			"category":    "Personal",
		},
		{
			"title":       "Finish project report",
			"description": "Complete the final draft and send to manager",
			"priority":    "high",
			"due_date":    "2025-08-10",
			"category":    "Work",
		},
	},
	"search_todos": map[string]any{
		"q":                 "project",
		"include_completed": true,
		"limit":             10,
	},
}

// RequestStructures はrequest://structuresリソースの内容を返します。
func RequestStructures(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	b, err := json.MarshalIndent(requestStructures, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request structures: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      RequestStructuresURI,
			MIMEType: "application/json",
			Text:     string(b),
		},
	}, nil
}
