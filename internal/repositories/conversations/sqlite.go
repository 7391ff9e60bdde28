package conversations

import (
	"context"
	"database/sql"
	"errors"
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

func (r *SQLiteRepository) Insert(ctx context.Context, row *models.ConversationRow) error {
	query := `INSERT INTO conversations (id, overview, nonce_overview, created_at, updated_at, message_count, document_count, corrupted)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		row.Id, row.Overview, row.NonceOverview, row.CreatedAt, row.UpdatedAt,
		row.MessageCount, row.DocumentCount, row.Corrupted)
	if err != nil {
		return fmt.Errorf("failed to insert conversation: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.ConversationRow, error) {
	query := `SELECT id, overview, nonce_overview, created_at, updated_at, message_count, document_count, corrupted
			FROM conversations`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select conversations: %w", err)
	}
	defer rows.Close()

	var result []models.ConversationRow
	for rows.Next() {
		var item models.ConversationRow
		if err := rows.Scan(&item.Id, &item.Overview, &item.NonceOverview,
			&item.CreatedAt, &item.UpdatedAt, &item.MessageCount, &item.DocumentCount, &item.Corrupted); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.ConversationRow, error) {
	query := `SELECT id, overview, nonce_overview, created_at, updated_at, message_count, document_count, corrupted
			FROM conversations WHERE id=?`
	row := r.db.QueryRowContext(ctx, query, id)

	item := &models.ConversationRow{}
	err := row.Scan(&item.Id, &item.Overview, &item.NonceOverview,
		&item.CreatedAt, &item.UpdatedAt, &item.MessageCount, &item.DocumentCount, &item.Corrupted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return item, nil
}

func (r *SQLiteRepository) UpdateOverview(ctx context.Context, id string, overview, nonce []byte, updatedAt int64) (bool, error) {
	query := `UPDATE conversations SET overview=?, nonce_overview=?, updated_at=? WHERE id=?`
	res, err := r.db.ExecContext(ctx, query, overview, nonce, updatedAt, id)
	if err != nil {
		return false, fmt.Errorf("failed to update overview: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return ra == 1, nil
}

func (r *SQLiteRepository) BumpMessageCount(ctx context.Context, id string, updatedAt int64) error {
	query := `UPDATE conversations SET message_count=message_count+1, updated_at=? WHERE id=?`
	if _, err := r.db.ExecContext(ctx, query, updatedAt, id); err != nil {
		return fmt.Errorf("failed to bump message count: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) BumpDocumentCount(ctx context.Context, id string, delta int64, updatedAt int64) error {
	query := `UPDATE conversations SET document_count=document_count+?, updated_at=? WHERE id=?`
	if _, err := r.db.ExecContext(ctx, query, delta, updatedAt, id); err != nil {
		return fmt.Errorf("failed to bump document count: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) SetCorrupted(ctx context.Context, id string, corrupted bool) error {
	query := `UPDATE conversations SET corrupted=? WHERE id=?`
	if _, err := r.db.ExecContext(ctx, query, corrupted, id); err != nil {
		return fmt.Errorf("failed to set corrupted flag: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM conversations WHERE id=?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete conversation: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return ra == 1, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM conversations`); err != nil {
		return fmt.Errorf("failed to clear conversations: %w", err)
	}
	return nil
}
