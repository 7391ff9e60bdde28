package conversations

import (
	"context"

	"github.com/dmitrijs2005/ghostvault/internal/models"
)

// Repository describes persistence operations for conversation rows.
// Implementations are backed by the local SQLite database; encryption happens
// above this layer, so the repository only ever sees ciphertext.
type Repository interface {
	// Insert stores a new conversation row.
	Insert(ctx context.Context, row *models.ConversationRow) error

	// GetAll returns every stored row, including corrupted ones.
	GetAll(ctx context.Context) ([]models.ConversationRow, error)

	// GetByID returns a single row or nil if the id is unknown.
	GetByID(ctx context.Context, id string) (*models.ConversationRow, error)

	// UpdateOverview replaces the encrypted overview and bumps updated_at.
	// Returns false if the id is unknown.
	UpdateOverview(ctx context.Context, id string, overview, nonce []byte, updatedAt int64) (bool, error)

	// BumpMessageCount increments message_count and bumps updated_at.
	BumpMessageCount(ctx context.Context, id string, updatedAt int64) error

	// BumpDocumentCount adds delta to document_count and bumps updated_at.
	BumpDocumentCount(ctx context.Context, id string, delta int64, updatedAt int64) error

	// SetCorrupted flips the quarantine marker on a row.
	SetCorrupted(ctx context.Context, id string, corrupted bool) error

	// DeleteByID removes a row. Returns false if the id is unknown.
	DeleteByID(ctx context.Context, id string) (bool, error)

	// Clear removes every row.
	Clear(ctx context.Context) error
}
