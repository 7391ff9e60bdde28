package messages

import (
	"context"
	"database/sql"
	"fmt"
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

func insertN(t *testing.T, repo *SQLiteRepository, conversationID string, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 1; i <= n; i++ {
		require.NoError(t, repo.Insert(ctx, &models.MessageRow{
			Id:             fmt.Sprintf("%s-m%d", conversationID, i),
			ConversationId: conversationID,
			Seq:            int64(i),
			Body:           []byte("body"),
			Nonce:          []byte("nonce"),
			CreatedAt:      int64(1000 + i),
		}))
	}
}

func TestNextSeq(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	seq, err := repo.NextSeq(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)

	insertN(t, repo, "c1", 3)

	seq, err = repo.NextSeq(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), seq)

	// Sequences are per conversation.
	seq, err = repo.NextSeq(ctx, "c2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)
}

func TestGetByConversation_OrderedBySeq(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	// Out-of-order inserts still read back in seq order.
	for _, seq := range []int64{3, 1, 2} {
		require.NoError(t, repo.Insert(ctx, &models.MessageRow{
			Id:             fmt.Sprintf("m%d", seq),
			ConversationId: "c1",
			Seq:            seq,
			Body:           []byte("body"),
			Nonce:          []byte("nonce"),
			CreatedAt:      1000,
		}))
	}

	rows, err := repo.GetByConversation(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for i, row := range rows {
		assert.Equal(t, int64(i+1), row.Seq)
	}
}

func TestDuplicateSeqRejected(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	insertN(t, repo, "c1", 1)

	err := repo.Insert(ctx, &models.MessageRow{
		Id:             "dup",
		ConversationId: "c1",
		Seq:            1,
		Body:           []byte("body"),
		Nonce:          []byte("nonce"),
		CreatedAt:      2000,
	})
	assert.Error(t, err)
}

func TestDeleteByConversationAndClear(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	insertN(t, repo, "c1", 2)
	insertN(t, repo, "c2", 2)

	require.NoError(t, repo.DeleteByConversation(ctx, "c1"))

	rows, err := repo.GetByConversation(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = repo.GetByConversation(ctx, "c2")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	require.NoError(t, repo.Clear(ctx))
	rows, err = repo.GetByConversation(ctx, "c2")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
