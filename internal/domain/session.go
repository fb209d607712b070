package domain

import "time"

// Session is the persisted trace of one conversation: which assistant ran
// it and the ordered message log. The in-memory turn state lives with the
// dialogue engine; this is only the durable projection.
type Session struct {
	ID        string    `json:"id"`
	Assistant string    `json:"assistant"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Messages  []Message `json:"messages,omitempty"`
}

// Message is a single logged turn entry.
type Message struct {
	Role      string     `json:"role"` // "user", "assistant", "system", "tool"
	Content   string     `json:"content"`
	Timestamp time.Time  `json:"timestamp"`
	ToolCalls []ToolCall `json:"toolCalls,omitempty"`
}

// ToolCall records one tool invocation inside a turn.
type ToolCall struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Input  string `json:"input"`  // JSON string
	Output string `json:"output"` // spoken result
}
