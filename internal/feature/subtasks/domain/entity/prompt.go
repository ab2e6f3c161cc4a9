// Package entity defines the domain models for the subtasks feature.
package entity

// Task is the todo a caller wants broken down.
type Task struct {
	Title       string
	Description string
}

// Prompt is a single chat-style request to a language model.
type Prompt struct {
	System      string
	User        string
	MaxTokens   int32
	Temperature float32
}
