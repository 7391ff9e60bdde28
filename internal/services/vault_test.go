package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/ghostvault/internal/common"
	"github.com/dmitrijs2005/ghostvault/internal/cryptox"
	"github.com/dmitrijs2005/ghostvault/internal/logging"
	"github.com/dmitrijs2005/ghostvault/internal/models"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func setupVault(t *testing.T) (*Vault, *sql.DB) {
	t.Helper()
	ctx := context.Background()

	db, err := OpenDatabase(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewVault(db, testLogger()), db
}

func masterKey(t *testing.T, userID string) []byte {
	t.Helper()
	key, err := cryptox.DeriveStorageKey(userID)
	require.NoError(t, err)
	return key
}

func TestInit_FreshUser(t *testing.T) {
	v, _ := setupVault(t)
	ctx := context.Background()

	require.NoError(t, v.Init(ctx, masterKey(t, "user-1")))

	assert.Empty(t, v.ListConversations())
	assert.Equal(t, 0, v.CorruptedCount())

	settings, err := v.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), settings)
}

func TestInit_IdempotentSameKey(t *testing.T) {
	v, _ := setupVault(t)
	ctx := context.Background()
	key := masterKey(t, "user-1")

	require.NoError(t, v.Init(ctx, key))

	_, err := v.CreateConversation(ctx, CreateConversationParams{Title: "a"})
	require.NoError(t, err)

	// Same key again: no-op, state kept.
	require.NoError(t, v.Init(ctx, key))
	assert.Len(t, v.ListConversations(), 1)
}

func TestInit_DifferentKeyRequiresReset(t *testing.T) {
	v, _ := setupVault(t)
	ctx := context.Background()

	require.NoError(t, v.Init(ctx, masterKey(t, "user-1")))

	err := v.Init(ctx, masterKey(t, "user-2"))
	assert.ErrorIs(t, err, common.ErrResetRequired)
}

func TestInit_BadKeyLength(t *testing.T) {
	v, _ := setupVault(t)

	err := v.Init(context.Background(), []byte("short"))
	assert.ErrorIs(t, err, common.ErrCryptoUnavailable)
}

func TestOperations_NotInitialized(t *testing.T) {
	v, _ := setupVault(t)
	ctx := context.Background()

	_, err := v.CreateConversation(ctx, CreateConversationParams{Title: "x"})
	assert.ErrorIs(t, err, common.ErrNotInitialized)

	_, err = v.SaveMessage(ctx, "id", models.RoleUser, "hi", nil, nil)
	assert.ErrorIs(t, err, common.ErrNotInitialized)

	_, err = v.GetSettings()
	assert.ErrorIs(t, err, common.ErrNotInitialized)

	// Listing fails safe instead of loud: UI list calls race with teardown.
	assert.Empty(t, v.ListConversations())
}

func TestCreateConversation_DefaultsFromSettings(t *testing.T) {
	v, _ := setupVault(t)
	ctx := context.Background()
	require.NoError(t, v.Init(ctx, masterKey(t, "user-1")))

	id, err := v.CreateConversation(ctx, CreateConversationParams{Title: "my chat"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	list := v.ListConversations()
	require.Len(t, list, 1)
	assert.Equal(t, "my chat", list[0].Title)
	assert.Equal(t, models.RetentionPersistent, list[0].Retention)
	assert.True(t, list[0].MemoryEnabled)
	assert.Equal(t, "chat", list[0].TaskType)
}

func TestCreateConversation_ExplicitParams(t *testing.T) {
	v, _ := setupVault(t)
	ctx := context.Background()
	require.NoError(t, v.Init(ctx, masterKey(t, "user-1")))

	retention := models.RetentionZeroTrace
	memory := false
	task := "health"
	id, err := v.CreateConversation(ctx, CreateConversationParams{
		Title:         "ephemeral",
		Retention:     &retention,
		MemoryEnabled: &memory,
		TaskType:      &task,
	})
	require.NoError(t, err)

	list := v.ListConversations()
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].Id)
	assert.Equal(t, models.RetentionZeroTrace, list[0].Retention)
	assert.False(t, list[0].MemoryEnabled)
	assert.Equal(t, "health", list[0].TaskType)
}

func TestSaveMessage_AppendOrder(t *testing.T) {
	v, _ := setupVault(t)
	ctx := context.Background()
	require.NoError(t, v.Init(ctx, masterKey(t, "user-1")))

	id, err := v.CreateConversation(ctx, CreateConversationParams{Title: "chat"})
	require.NoError(t, err)

	contents := []string{"first", "second", "third", "fourth"}
	for i, c := range contents {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleAssistant
		}
		_, err := v.SaveMessage(ctx, id, role, c, nil, nil)
		require.NoError(t, err)
	}

	list := v.ListConversations()
	require.Len(t, list, 1)
	assert.Equal(t, int64(len(contents)), list[0].MessageCount)

	msgs, err := v.GetMessages(ctx, id)
	require.NoError(t, err)
	require.Len(t, msgs, len(contents))
	for i, m := range msgs {
		assert.Equal(t, contents[i], m.Content)
		assert.Equal(t, int64(i+1), m.Seq)
	}
}

func TestSaveMessage_ToolCallsAndMetadata(t *testing.T) {
	v, _ := setupVault(t)
	ctx := context.Background()
	require.NoError(t, v.Init(ctx, masterKey(t, "user-1")))

	id, err := v.CreateConversation(ctx, CreateConversationParams{Title: "chat"})
	require.NoError(t, err)

	calls := []models.ToolCall{{Name: "search", Arguments: []byte(`{"q":"go"}`), Output: "ok"}}
	meta := map[string]any{"model": "apertus-70b"}
	_, err = v.SaveMessage(ctx, id, models.RoleAssistant, "answer", calls, meta)
	require.NoError(t, err)

	msgs, err := v.GetMessages(ctx, id)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Len(t, msgs[0].ToolCalls, 1)
	assert.Equal(t, "search", msgs[0].ToolCalls[0].Name)
	assert.Equal(t, "apertus-70b", msgs[0].Metadata["model"])
}

func TestSaveMessage_UnknownConversation(t *testing.T) {
	v, _ := setupVault(t)
	ctx := context.Background()
	require.NoError(t, v.Init(ctx, masterKey(t, "user-1")))

	_, err := v.SaveMessage(ctx, "no-such-id", models.RoleUser, "hi", nil, nil)
	assert.ErrorIs(t, err, common.ErrConversationNotFound)
}

func TestAttachDocument_AndRemoveIdempotent(t *testing.T) {
	v, _ := setupVault(t)
	ctx := context.Background()
	require.NoError(t, v.Init(ctx, masterKey(t, "user-1")))

	id, err := v.CreateConversation(ctx, CreateConversationParams{Title: "chat"})
	require.NoError(t, err)

	doc, err := v.AttachDocument(ctx, id, "scan.png", "image/png", []byte{0x89, 0x50}, 2, "")
	require.NoError(t, err)

	docs, err := v.GetDocuments(ctx, id)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "scan.png", docs[0].Filename)
	assert.Equal(t, []byte{0x89, 0x50}, docs[0].Data)
	assert.Empty(t, docs[0].ExtractedText, "zero extracted text is valid")

	removed, err := v.RemoveDocument(ctx, id, doc.Id)
	require.NoError(t, err)
	assert.True(t, removed)

	// Second removal: false, never an error.
	removed, err = v.RemoveDocument(ctx, id, doc.Id)
	require.NoError(t, err)
	assert.False(t, removed)

	list := v.ListConversations()
	assert.Equal(t, int64(0), list[0].DocumentCount)
}

func TestDeleteConversation_CascadesAndReportsMissing(t *testing.T) {
	v, _ := setupVault(t)
	ctx := context.Background()
	require.NoError(t, v.Init(ctx, masterKey(t, "user-1")))

	id, err := v.CreateConversation(ctx, CreateConversationParams{Title: "chat"})
	require.NoError(t, err)
	_, err = v.SaveMessage(ctx, id, models.RoleUser, "hello", nil, nil)
	require.NoError(t, err)
	_, err = v.AttachDocument(ctx, id, "a.txt", "text/plain", []byte("x"), 1, "x")
	require.NoError(t, err)

	deleted, err := v.DeleteConversation(ctx, id)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Empty(t, v.ListConversations())

	deleted, err = v.DeleteConversation(ctx, id)
	require.NoError(t, err)
	assert.False(t, deleted)

	// Targeted mutations on the deleted id report false, not errors.
	ok, err := v.UpdateTitle(ctx, id, "new")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTargetedMutations(t *testing.T) {
	v, _ := setupVault(t)
	ctx := context.Background()
	require.NoError(t, v.Init(ctx, masterKey(t, "user-1")))

	id, err := v.CreateConversation(ctx, CreateConversationParams{Title: "old"})
	require.NoError(t, err)

	ok, err := v.UpdateTitle(ctx, id, "new title")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = v.UpdateTaskType(ctx, id, "vault")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = v.SetMemoryEnabled(ctx, id, false)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = v.SetRetentionMode(ctx, id, models.RetentionZeroTrace)
	require.NoError(t, err)
	assert.True(t, ok)

	list := v.ListConversations()
	require.Len(t, list, 1)
	assert.Equal(t, "new title", list[0].Title)
	assert.Equal(t, "vault", list[0].TaskType)
	assert.False(t, list[0].MemoryEnabled)
	assert.Equal(t, models.RetentionZeroTrace, list[0].Retention)

	_, err = v.SetRetentionMode(ctx, id, "bogus")
	assert.Error(t, err)
}

func TestSettings_MergeWriteAndPersistence(t *testing.T) {
	v, _ := setupVault(t)
	ctx := context.Background()
	key := masterKey(t, "user-1")
	require.NoError(t, v.Init(ctx, key))

	retention := models.RetentionZeroTrace
	updated, err := v.SaveSettings(ctx, models.SettingsPatch{DefaultRetention: &retention})
	require.NoError(t, err)
	assert.Equal(t, models.RetentionZeroTrace, updated.DefaultRetention)
	// Untouched fields keep their values.
	assert.True(t, updated.MemoryEnabled)
	assert.Equal(t, "chat", updated.TaskType)

	// Settings survive a reset + re-init with the same key.
	v.Reset()
	require.NoError(t, v.Init(ctx, key))
	settings, err := v.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, models.RetentionZeroTrace, settings.DefaultRetention)
}

func TestCorruptionIsolation(t *testing.T) {
	v, db := setupVault(t)
	ctx := context.Background()
	key := masterKey(t, "user-1")
	require.NoError(t, v.Init(ctx, key))

	var ids []string
	for _, title := range []string{"a", "b", "c"} {
		id, err := v.CreateConversation(ctx, CreateConversationParams{Title: title})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	// Truncate one overview by a byte: authenticated decryption must fail.
	_, err := db.Exec(`UPDATE conversations SET overview = substr(overview, 1, length(overview)-1) WHERE id=?`, ids[1])
	require.NoError(t, err)

	v.Reset()
	require.NoError(t, v.Init(ctx, key))

	assert.Equal(t, 1, v.CorruptedCount())
	list := v.ListConversations()
	require.Len(t, list, 2)
	for _, s := range list {
		assert.NotEqual(t, ids[1], s.Id)
	}

	// Ciphertext is retained, not deleted.
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM conversations WHERE corrupted=1`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestKeyIsolation_AndRecoveryWithCorrectKey(t *testing.T) {
	v, _ := setupVault(t)
	ctx := context.Background()
	key1 := masterKey(t, "user-1")
	key2 := masterKey(t, "user-2")

	require.NoError(t, v.Init(ctx, key1))
	_, err := v.CreateConversation(ctx, CreateConversationParams{Title: "secret"})
	require.NoError(t, err)

	// Wrong key: everything quarantined (conversation + settings record),
	// nothing readable, nothing deleted.
	v.Reset()
	require.NoError(t, v.Init(ctx, key2))
	assert.Empty(t, v.ListConversations())
	assert.Equal(t, 2, v.CorruptedCount())

	// Correct key again: full recovery, quarantine lifted.
	v.Reset()
	require.NoError(t, v.Init(ctx, key1))
	assert.Equal(t, 0, v.CorruptedCount())
	list := v.ListConversations()
	require.Len(t, list, 1)
	assert.Equal(t, "secret", list[0].Title)
}

func TestZeroTrace_SweptOnInit(t *testing.T) {
	v, _ := setupVault(t)
	ctx := context.Background()
	key := masterKey(t, "user-1")
	require.NoError(t, v.Init(ctx, key))

	retention := models.RetentionZeroTrace
	_, err := v.CreateConversation(ctx, CreateConversationParams{Title: "ephemeral", Retention: &retention})
	require.NoError(t, err)
	_, err = v.CreateConversation(ctx, CreateConversationParams{Title: "kept"})
	require.NoError(t, err)

	// Simulated crash: no sweep ran. The next init cleans up.
	v.Reset()
	require.NoError(t, v.Init(ctx, key))

	list := v.ListConversations()
	require.Len(t, list, 1)
	assert.Equal(t, "kept", list[0].Title)
}

func TestClearAllZeroTrace(t *testing.T) {
	v, _ := setupVault(t)
	ctx := context.Background()
	require.NoError(t, v.Init(ctx, masterKey(t, "user-1")))

	retention := models.RetentionZeroTrace
	for _, title := range []string{"e1", "e2"} {
		_, err := v.CreateConversation(ctx, CreateConversationParams{Title: title, Retention: &retention})
		require.NoError(t, err)
	}
	_, err := v.CreateConversation(ctx, CreateConversationParams{Title: "kept"})
	require.NoError(t, err)

	removed, err := v.ClearAllZeroTrace(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	list := v.ListConversations()
	require.Len(t, list, 1)
	assert.Equal(t, "kept", list[0].Title)
}

func TestWipe(t *testing.T) {
	v, db := setupVault(t)
	ctx := context.Background()
	key := masterKey(t, "user-1")
	require.NoError(t, v.Init(ctx, key))

	id, err := v.CreateConversation(ctx, CreateConversationParams{Title: "chat"})
	require.NoError(t, err)
	_, err = v.SaveMessage(ctx, id, models.RoleUser, "hello", nil, nil)
	require.NoError(t, err)

	require.NoError(t, v.Wipe(ctx))
	assert.False(t, v.Initialized())

	for _, table := range []string{"conversations", "messages", "documents", "metadata"} {
		var n int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
		assert.Zero(t, n, table)
	}

	// A fresh init starts clean.
	require.NoError(t, v.Init(ctx, key))
	assert.Empty(t, v.ListConversations())
	assert.Equal(t, 0, v.CorruptedCount())
}

type recordingListener struct {
	initialized []int
	changed     []int
}

func (l *recordingListener) Initialized(n int)           { l.initialized = append(l.initialized, n) }
func (l *recordingListener) CorruptedCountChanged(n int) { l.changed = append(l.changed, n) }

func TestListener_Notifications(t *testing.T) {
	v, db := setupVault(t)
	ctx := context.Background()
	key := masterKey(t, "user-1")

	l := &recordingListener{}
	v.SetListener(l)
	require.NoError(t, v.Init(ctx, key))
	require.Equal(t, []int{0}, l.initialized)

	id, err := v.CreateConversation(ctx, CreateConversationParams{Title: "chat"})
	require.NoError(t, err)
	_, err = v.SaveMessage(ctx, id, models.RoleUser, "hello", nil, nil)
	require.NoError(t, err)

	// Damage the message body: reading it must quarantine, not fail.
	_, err = db.Exec(`UPDATE messages SET body = substr(body, 1, length(body)-1)`)
	require.NoError(t, err)

	msgs, err := v.GetMessages(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.Equal(t, []int{1}, l.changed)
	assert.Equal(t, 1, v.CorruptedCount())
}

func TestStats(t *testing.T) {
	v, _ := setupVault(t)
	ctx := context.Background()
	require.NoError(t, v.Init(ctx, masterKey(t, "user-1")))

	id, err := v.CreateConversation(ctx, CreateConversationParams{Title: "chat"})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = v.SaveMessage(ctx, id, models.RoleUser, "m", nil, nil)
		require.NoError(t, err)
	}
	_, err = v.AttachDocument(ctx, id, "a.txt", "text/plain", []byte("x"), 1, "")
	require.NoError(t, err)

	s, err := v.Stats()
	require.NoError(t, err)
	assert.Equal(t, Stats{Conversations: 1, Messages: 3, Documents: 1, Corrupted: 0}, s)
}
