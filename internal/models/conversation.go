package models

import "time"

// RetentionMode controls what happens to a conversation at session end.
type RetentionMode string

const (
	// RetentionPersistent keeps the conversation until explicit deletion.
	RetentionPersistent RetentionMode = "persistent"
	// RetentionZeroTrace deletes the conversation when the session ends.
	RetentionZeroTrace RetentionMode = "zero-trace"
)

// Valid reports whether m is a known retention mode.
func (m RetentionMode) Valid() bool {
	return m == RetentionPersistent || m == RetentionZeroTrace
}

// ConversationOverview is the encrypted portion of a conversation's metadata.
type ConversationOverview struct {
	Title         string        `json:"title"`
	Retention     RetentionMode `json:"retention"`
	MemoryEnabled bool          `json:"memoryEnabled"`
	TaskType      string        `json:"taskType"`
}

// ConversationSummary is the decrypted read model handed to list UIs.
// Message bodies are never part of it.
type ConversationSummary struct {
	Id            string
	Title         string
	Retention     RetentionMode
	MemoryEnabled bool
	TaskType      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	MessageCount  int64
	DocumentCount int64
}
