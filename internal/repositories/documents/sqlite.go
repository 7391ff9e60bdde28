package documents

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

func (r *SQLiteRepository) Insert(ctx context.Context, row *models.DocumentRow) error {
	query := `INSERT INTO documents (id, conversation_id, overview, nonce_overview, content, nonce_content, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		row.Id, row.ConversationId, row.Overview, row.NonceOverview,
		row.Content, row.NonceContent, row.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByConversation(ctx context.Context, conversationID string) ([]models.DocumentRow, error) {
	query := `SELECT id, conversation_id, overview, nonce_overview, content, nonce_content, created_at
			FROM documents WHERE conversation_id=? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to select documents: %w", err)
	}
	defer rows.Close()

	var result []models.DocumentRow
	for rows.Next() {
		var item models.DocumentRow
		if err := rows.Scan(&item.Id, &item.ConversationId, &item.Overview, &item.NonceOverview,
			&item.Content, &item.NonceContent, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, conversationID, docID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE conversation_id=? AND id=?`, conversationID, docID)
	if err != nil {
		return false, fmt.Errorf("failed to delete document: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return ra == 1, nil
}

func (r *SQLiteRepository) DeleteByConversation(ctx context.Context, conversationID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE conversation_id=?`, conversationID); err != nil {
		return fmt.Errorf("failed to delete documents: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("failed to clear documents: %w", err)
	}
	return nil
}
