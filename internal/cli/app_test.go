package cli

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/ghostvault/internal/config"
	"github.com/dmitrijs2005/ghostvault/internal/cryptox"
	"github.com/dmitrijs2005/ghostvault/internal/logging"
	"github.com/dmitrijs2005/ghostvault/internal/models"
	"github.com/dmitrijs2005/ghostvault/internal/services"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func setupApp(t *testing.T) *App {
	t.Helper()
	ctx := context.Background()

	db, err := services.OpenDatabase(ctx, ":memory:")
	require.NoError(t, err)

	log := testLogger()
	a := &App{
		config: &config.Config{},
		log:    log,
		db:     db,
		vault:  services.NewVault(db, log),
		userID: "user-1",
	}

	key, err := cryptox.DeriveStorageKey(a.userID)
	require.NoError(t, err)
	require.NoError(t, a.vault.Init(ctx, key))
	return a
}

func TestClose_SweepsZeroTraceAfterCancellation(t *testing.T) {
	a := setupApp(t)
	ctx := context.Background()

	retention := models.RetentionZeroTrace
	_, err := a.vault.CreateConversation(ctx, services.CreateConversationParams{
		Title:     "ephemeral",
		Retention: &retention,
	})
	require.NoError(t, err)
	_, err = a.vault.CreateConversation(ctx, services.CreateConversationParams{Title: "kept"})
	require.NoError(t, err)

	// A signal cancels the REPL context before the deferred Close runs. The
	// sweep must still delete the ephemeral conversation.
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	a.Close(cancelled)

	list := a.vault.ListConversations()
	require.Len(t, list, 1)
	assert.Equal(t, "kept", list[0].Title)
}

func TestClose_Idempotent(t *testing.T) {
	a := setupApp(t)
	ctx := context.Background()

	a.Close(ctx)
	assert.NotPanics(t, func() { a.Close(ctx) })
	assert.Nil(t, a.db)
}
