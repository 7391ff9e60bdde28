package messages

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/ghostvault/internal/dbx"
	"github.com/dmitrijs2005/ghostvault/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, row *models.MessageRow) error {
	query := `INSERT INTO messages (id, conversation_id, seq, body, nonce, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		row.Id, row.ConversationId, row.Seq, row.Body, row.Nonce, row.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByConversation(ctx context.Context, conversationID string) ([]models.MessageRow, error) {
	query := `SELECT id, conversation_id, seq, body, nonce, created_at
			FROM messages WHERE conversation_id=? ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to select messages: %w", err)
	}
	defer rows.Close()

	var result []models.MessageRow
	for rows.Next() {
		var item models.MessageRow
		if err := rows.Scan(&item.Id, &item.ConversationId, &item.Seq,
			&item.Body, &item.Nonce, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) NextSeq(ctx context.Context, conversationID string) (int64, error) {
	var next int64
	query := `SELECT COALESCE(MAX(seq), 0) + 1 FROM messages WHERE conversation_id=?`
	if err := r.db.QueryRowContext(ctx, query, conversationID).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to compute next seq: %w", err)
	}
	return next, nil
}

func (r *SQLiteRepository) DeleteByConversation(ctx context.Context, conversationID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE conversation_id=?`, conversationID); err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM messages`); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}
	return nil
}
