package documents

import (
	"context"
	"database/sql"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/ghostvault/internal/migrations"
	"github.com/dmitrijs2005/ghostvault/internal/models"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.Up(db, "."))
	return db
}

func sampleDoc(id, conversationID string, createdAt int64) *models.DocumentRow {
	return &models.DocumentRow{
		Id:             id,
		ConversationId: conversationID,
		Overview:       []byte("overview-" + id),
		NonceOverview:  []byte("no"),
		Content:        []byte("content-" + id),
		NonceContent:   []byte("nc"),
		CreatedAt:      createdAt,
	}
}

func TestInsertAndGetByConversation(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, sampleDoc("d2", "c1", 2000)))
	require.NoError(t, repo.Insert(ctx, sampleDoc("d1", "c1", 1000)))
	require.NoError(t, repo.Insert(ctx, sampleDoc("d3", "c2", 1500)))

	rows, err := repo.GetByConversation(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// Attachment order, oldest first.
	assert.Equal(t, "d1", rows[0].Id)
	assert.Equal(t, "d2", rows[1].Id)
	assert.Equal(t, []byte("content-d1"), rows[0].Content)
}

func TestDeleteByID(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, sampleDoc("d1", "c1", 1000)))

	// Wrong conversation does not match.
	deleted, err := repo.DeleteByID(ctx, "other", "d1")
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = repo.DeleteByID(ctx, "c1", "d1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeleteByID(ctx, "c1", "d1")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestDeleteByConversationAndClear(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, sampleDoc("d1", "c1", 1000)))
	require.NoError(t, repo.Insert(ctx, sampleDoc("d2", "c2", 1000)))

	require.NoError(t, repo.DeleteByConversation(ctx, "c1"))

	rows, err := repo.GetByConversation(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, rows)

	require.NoError(t, repo.Clear(ctx))
	rows, err = repo.GetByConversation(ctx, "c2")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
