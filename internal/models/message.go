package models

import (
	"encoding/json"
	"time"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ToolCall records a single tool invocation made while producing a message.
type ToolCall struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
	Output    string          `json:"output,omitempty"`
}

// MessageBody is the encrypted portion of a message.
type MessageBody struct {
	Role      Role           `json:"role"`
	Content   string         `json:"content"`
	ToolCalls []ToolCall     `json:"toolCalls,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Message is the decrypted, in-memory view of a stored message.
// Messages are append-only: never mutated after creation, deleted only
// together with their conversation.
type Message struct {
	Id             string
	ConversationId string
	Seq            int64
	Role           Role
	Content        string
	ToolCalls      []ToolCall
	Metadata       map[string]any
	CreatedAt      time.Time
}
