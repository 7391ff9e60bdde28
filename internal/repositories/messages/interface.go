package messages

import (
	"context"

	"github.com/dmitrijs2005/ghostvault/internal/models"
)

// Repository describes persistence operations for the append-only message log.
type Repository interface {
	// Insert appends a message row. The (conversation_id, seq) pair is unique.
	Insert(ctx context.Context, row *models.MessageRow) error

	// GetByConversation returns a conversation's messages ordered by seq.
	GetByConversation(ctx context.Context, conversationID string) ([]models.MessageRow, error)

	// NextSeq returns the next sequence number for a conversation, starting at 1.
	NextSeq(ctx context.Context, conversationID string) (int64, error)

	// DeleteByConversation removes all messages of a conversation.
	DeleteByConversation(ctx context.Context, conversationID string) error

	// Clear removes every row.
	Clear(ctx context.Context) error
}
