package documents

import (
	"context"

	"github.com/dmitrijs2005/ghostvault/internal/models"
)

// Repository describes persistence operations for attached documents.
type Repository interface {
	// Insert stores a new document row.
	Insert(ctx context.Context, row *models.DocumentRow) error

	// GetByConversation returns a conversation's documents in creation order.
	GetByConversation(ctx context.Context, conversationID string) ([]models.DocumentRow, error)

	// DeleteByID removes a single document. Returns false if the pair is
	// unknown, so removal stays idempotent for callers.
	DeleteByID(ctx context.Context, conversationID, docID string) (bool, error)

	// DeleteByConversation removes all documents of a conversation.
	DeleteByConversation(ctx context.Context, conversationID string) error

	// Clear removes every row.
	Clear(ctx context.Context) error
}
