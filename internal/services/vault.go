// Package services contains the application services of GhostVault: the local
// encrypted store facade (Vault) and the export/import codec (Exporter).
package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/ghostvault/internal/common"
	"github.com/dmitrijs2005/ghostvault/internal/cryptox"
	"github.com/dmitrijs2005/ghostvault/internal/dbx"
	"github.com/dmitrijs2005/ghostvault/internal/logging"
	"github.com/dmitrijs2005/ghostvault/internal/models"
	"github.com/dmitrijs2005/ghostvault/internal/repositories/conversations"
	"github.com/dmitrijs2005/ghostvault/internal/repositories/documents"
	"github.com/dmitrijs2005/ghostvault/internal/repositories/messages"
	"github.com/dmitrijs2005/ghostvault/internal/repositories/metadata"
)

// Metadata keys used by the vault.
const (
	metaKeyVerifier      = "verifier"
	metaKeySettings      = "settings"
	metaKeySettingsNonce = "nonce_settings"
)

// Listener receives store lifecycle notifications, intended for banner or
// badge UIs. Callbacks run on the calling goroutine; implementations must not
// call back into the vault.
type Listener interface {
	// Initialized fires after Init completes, with the quarantine count.
	Initialized(corruptedCount int)

	// CorruptedCountChanged fires whenever the quarantine count changes
	// after initialization.
	CorruptedCountChanged(corruptedCount int)
}

// Stats aggregates store contents for status displays.
type Stats struct {
	Conversations int
	Messages      int64
	Documents     int64
	Corrupted     int
}

// CreateConversationParams are the inputs for CreateConversation. Nil
// optional fields fall back to the user's settings record.
type CreateConversationParams struct {
	Title         string
	Retention     *models.RetentionMode
	MemoryEnabled *bool
	TaskType      *string
}

// Vault is the local encrypted store: it owns the conversation, message,
// document and settings graph of a single user, transparently encrypting
// records against the master key and quarantining records that fail
// authenticated decryption.
//
// A Vault starts uninitialized. Init derives nothing itself — the caller
// supplies the master key — and transitions the store to ready. Switching
// users requires an explicit Reset (with a different database) before the
// next Init; the vault never attempts to migrate records between keys.
//
// All methods are safe for concurrent use through a single internal mutex.
// Concurrent appends to the same conversation are not reordered by the store,
// but callers wanting a deterministic order must serialize their own calls.
type Vault struct {
	db  *sql.DB
	log logging.Logger

	mu          sync.Mutex
	initialized bool
	masterKey   []byte
	verifier    []byte
	index       map[string]*models.ConversationSummary
	settings    models.Settings
	corrupted   int
	listener    Listener
}

// NewVault constructs an uninitialized vault over an open per-user database.
// The composition root owns both the database handle and the vault instance;
// there is no package-level singleton.
func NewVault(db *sql.DB, log logging.Logger) *Vault {
	return &Vault{db: db, log: log}
}

// SetListener registers lifecycle callbacks. Pass nil to remove.
func (v *Vault) SetListener(l Listener) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.listener = l
}

// Init loads all persisted records, decrypting each with masterKey. Records
// that fail authenticated decryption are counted and excluded from the active
// index, but their ciphertext stays on disk for later recovery. Zero-trace
// conversations left over from a crashed session are deleted before indexing.
//
// Init is idempotent for the same key. Calling it with a different key while
// initialized fails with ErrResetRequired: the caller must Reset first.
func (v *Vault) Init(ctx context.Context, masterKey []byte) error {
	if len(masterKey) != cryptox.KeySize {
		return fmt.Errorf("bad master key length %d: %w", len(masterKey), common.ErrCryptoUnavailable)
	}

	v.mu.Lock()
	verifier := cryptox.MakeVerifier(masterKey)
	if v.initialized {
		defer v.mu.Unlock()
		if string(verifier) == string(v.verifier) {
			return nil
		}
		return common.ErrResetRequired
	}

	corrupted, indexed, err := v.load(ctx, masterKey, verifier)
	if err != nil {
		v.mu.Unlock()
		return err
	}

	v.masterKey = append([]byte(nil), masterKey...)
	v.verifier = verifier
	v.corrupted = corrupted
	v.initialized = true
	listener := v.listener
	v.mu.Unlock()

	v.log.Info(ctx, "store initialized", "conversations", indexed, "corrupted", corrupted)
	if listener != nil {
		listener.Initialized(corrupted)
	}
	return nil
}

// load reads and decrypts all records. Caller holds the mutex.
func (v *Vault) load(ctx context.Context, masterKey, verifier []byte) (corrupted, indexed int, err error) {
	metaRepo := metadata.NewSQLiteRepository(v.db)
	convRepo := conversations.NewSQLiteRepository(v.db)

	stored, err := metaRepo.Get(ctx, metaKeyVerifier)
	if err != nil {
		return 0, 0, err
	}
	if stored == nil {
		if err := metaRepo.Set(ctx, metaKeyVerifier, verifier); err != nil {
			return 0, 0, err
		}
	} else if string(stored) != string(verifier) {
		// Key switch: existing records will fail decryption below and be
		// quarantined rather than silently dropped.
		v.log.Warn(ctx, "master key differs from last session, existing records will be quarantined")
		if err := metaRepo.Set(ctx, metaKeyVerifier, verifier); err != nil {
			return 0, 0, err
		}
	}

	rows, err := convRepo.GetAll(ctx)
	if err != nil {
		return 0, 0, err
	}

	v.index = make(map[string]*models.ConversationSummary, len(rows))
	for _, row := range rows {
		var overview models.ConversationOverview
		if err := cryptox.DecryptRecord(row.Overview, row.NonceOverview, masterKey, &overview); err != nil {
			corrupted++
			if !row.Corrupted {
				if err := convRepo.SetCorrupted(ctx, row.Id, true); err != nil {
					return 0, 0, err
				}
			}
			v.log.Warn(ctx, "conversation quarantined", "id", row.Id)
			continue
		}
		if row.Corrupted {
			// Correct key again: lift the quarantine marker.
			if err := convRepo.SetCorrupted(ctx, row.Id, false); err != nil {
				return 0, 0, err
			}
		}
		if overview.Retention == models.RetentionZeroTrace {
			// Leftover from a session that ended without a sweep.
			if err := v.deleteConversationTx(ctx, row.Id); err != nil {
				return 0, 0, err
			}
			v.log.Info(ctx, "swept leftover zero-trace conversation", "id", row.Id)
			continue
		}
		v.index[row.Id] = summaryFromRow(row, overview)
		indexed++
	}

	settings, settingsCorrupted, err := v.loadSettings(ctx, metaRepo, masterKey)
	if err != nil {
		return 0, 0, err
	}
	if settingsCorrupted {
		corrupted++
	}
	v.settings = settings

	return corrupted, indexed, nil
}

func (v *Vault) loadSettings(ctx context.Context, metaRepo metadata.Repository, masterKey []byte) (models.Settings, bool, error) {
	ciphertext, err := metaRepo.Get(ctx, metaKeySettings)
	if err != nil {
		return models.Settings{}, false, err
	}
	if ciphertext == nil {
		settings := models.DefaultSettings()
		if err := v.persistSettings(ctx, metaRepo, settings, masterKey); err != nil {
			return models.Settings{}, false, err
		}
		return settings, false, nil
	}

	nonce, err := metaRepo.Get(ctx, metaKeySettingsNonce)
	if err != nil {
		return models.Settings{}, false, err
	}

	var settings models.Settings
	if err := cryptox.DecryptRecord(ciphertext, nonce, masterKey, &settings); err != nil {
		// Ciphertext is retained; the session runs on defaults.
		v.log.Warn(ctx, "settings record quarantined, using defaults")
		return models.DefaultSettings(), true, nil
	}
	return settings, false, nil
}

func (v *Vault) persistSettings(ctx context.Context, metaRepo metadata.Repository, settings models.Settings, masterKey []byte) error {
	ciphertext, nonce, err := cryptox.EncryptRecord(settings, masterKey)
	if err != nil {
		return fmt.Errorf("encryption error: %w", err)
	}
	if err := metaRepo.Set(ctx, metaKeySettings, ciphertext); err != nil {
		return err
	}
	return metaRepo.Set(ctx, metaKeySettingsNonce, nonce)
}

// Reset flushes all in-memory state and returns the vault to uninitialized
// without touching persisted records. Required before re-initializing with a
// different user's key.
func (v *Vault) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.resetLocked()
}

func (v *Vault) resetLocked() {
	common.WipeByteArray(v.masterKey)
	v.masterKey = nil
	v.verifier = nil
	v.index = nil
	v.settings = models.Settings{}
	v.corrupted = 0
	v.initialized = false
}

// Initialized reports whether the vault is ready for use.
func (v *Vault) Initialized() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.initialized
}

// CorruptedCount returns the number of quarantined records seen this session.
func (v *Vault) CorruptedCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.corrupted
}

// CreateConversation allocates a new conversation. Optional parameters fall
// back to the settings record. Returns the new conversation id.
func (v *Vault) CreateConversation(ctx context.Context, p CreateConversationParams) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.initialized {
		return "", common.ErrNotInitialized
	}

	overview := models.ConversationOverview{
		Title:         p.Title,
		Retention:     v.settings.DefaultRetention,
		MemoryEnabled: v.settings.MemoryEnabled,
		TaskType:      v.settings.TaskType,
	}
	if p.Retention != nil {
		overview.Retention = *p.Retention
	}
	if p.MemoryEnabled != nil {
		overview.MemoryEnabled = *p.MemoryEnabled
	}
	if p.TaskType != nil {
		overview.TaskType = *p.TaskType
	}
	if !overview.Retention.Valid() {
		return "", fmt.Errorf("unknown retention mode %q", overview.Retention)
	}

	ciphertext, nonce, err := cryptox.EncryptRecord(overview, v.masterKey)
	if err != nil {
		return "", fmt.Errorf("encryption error: %w", err)
	}

	now := time.Now().UnixMilli()
	row := &models.ConversationRow{
		Id:            uuid.NewString(),
		Overview:      ciphertext,
		NonceOverview: nonce,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := conversations.NewSQLiteRepository(v.db).Insert(ctx, row); err != nil {
		return "", fmt.Errorf("saving error: %w", err)
	}

	v.index[row.Id] = summaryFromRow(*row, overview)
	return row.Id, nil
}

// SaveMessage appends a message to a conversation's log, bumping its message
// count and updated timestamp in the same transaction. Messages are immutable
// once written.
func (v *Vault) SaveMessage(ctx context.Context, conversationID string, role models.Role, content string, toolCalls []models.ToolCall, meta map[string]any) (*models.Message, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.initialized {
		return nil, common.ErrNotInitialized
	}

	summary, ok := v.index[conversationID]
	if !ok {
		return nil, common.ErrConversationNotFound
	}

	body := models.MessageBody{Role: role, Content: content, ToolCalls: toolCalls, Metadata: meta}
	ciphertext, nonce, err := cryptox.EncryptRecord(body, v.masterKey)
	if err != nil {
		return nil, fmt.Errorf("encryption error: %w", err)
	}

	now := time.Now().UnixMilli()
	row := &models.MessageRow{
		Id:             uuid.NewString(),
		ConversationId: conversationID,
		Body:           ciphertext,
		Nonce:          nonce,
		CreatedAt:      now,
	}

	err = dbx.WithTx(ctx, v.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		msgRepo := messages.NewSQLiteRepository(tx)
		seq, err := msgRepo.NextSeq(ctx, conversationID)
		if err != nil {
			return err
		}
		row.Seq = seq
		if err := msgRepo.Insert(ctx, row); err != nil {
			return err
		}
		return conversations.NewSQLiteRepository(tx).BumpMessageCount(ctx, conversationID, now)
	})
	if err != nil {
		return nil, fmt.Errorf("saving error: %w", err)
	}

	summary.MessageCount++
	summary.UpdatedAt = time.UnixMilli(now)

	return &models.Message{
		Id:             row.Id,
		ConversationId: conversationID,
		Seq:            row.Seq,
		Role:           role,
		Content:        content,
		ToolCalls:      toolCalls,
		Metadata:       meta,
		CreatedAt:      time.UnixMilli(now),
	}, nil
}

// AttachDocument encrypts and stores a document under a conversation. No size
// ceiling is enforced here; limits are a caller concern.
func (v *Vault) AttachDocument(ctx context.Context, conversationID, filename, mimeType string, content []byte, size int64, extractedText string) (*models.Document, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.initialized {
		return nil, common.ErrNotInitialized
	}

	summary, ok := v.index[conversationID]
	if !ok {
		return nil, common.ErrConversationNotFound
	}

	overview := models.DocumentOverview{Filename: filename, MimeType: mimeType, Size: size}
	oCiphertext, oNonce, err := cryptox.EncryptRecord(overview, v.masterKey)
	if err != nil {
		return nil, fmt.Errorf("encryption error: %w", err)
	}

	payload := models.DocumentContent{Data: content, ExtractedText: extractedText}
	cCiphertext, cNonce, err := cryptox.EncryptRecord(payload, v.masterKey)
	if err != nil {
		return nil, fmt.Errorf("encryption error: %w", err)
	}

	now := time.Now().UnixMilli()
	row := &models.DocumentRow{
		Id:             uuid.NewString(),
		ConversationId: conversationID,
		Overview:       oCiphertext,
		NonceOverview:  oNonce,
		Content:        cCiphertext,
		NonceContent:   cNonce,
		CreatedAt:      now,
	}

	err = dbx.WithTx(ctx, v.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := documents.NewSQLiteRepository(tx).Insert(ctx, row); err != nil {
			return err
		}
		return conversations.NewSQLiteRepository(tx).BumpDocumentCount(ctx, conversationID, 1, now)
	})
	if err != nil {
		return nil, fmt.Errorf("saving error: %w", err)
	}

	summary.DocumentCount++
	summary.UpdatedAt = time.UnixMilli(now)

	return &models.Document{
		Id:             row.Id,
		ConversationId: conversationID,
		Filename:       filename,
		MimeType:       mimeType,
		Size:           size,
		Data:           content,
		ExtractedText:  extractedText,
		CreatedAt:      time.UnixMilli(now),
	}, nil
}

// RemoveDocument deletes a single document. It returns false, not an error,
// when the document (or its conversation) does not exist, so deletion is
// idempotent from the caller's perspective.
func (v *Vault) RemoveDocument(ctx context.Context, conversationID, docID string) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.initialized {
		return false, common.ErrNotInitialized
	}

	summary, ok := v.index[conversationID]
	if !ok {
		return false, nil
	}

	var removed bool
	now := time.Now().UnixMilli()
	err := dbx.WithTx(ctx, v.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		removed, err = documents.NewSQLiteRepository(tx).DeleteByID(ctx, conversationID, docID)
		if err != nil || !removed {
			return err
		}
		return conversations.NewSQLiteRepository(tx).BumpDocumentCount(ctx, conversationID, -1, now)
	})
	if err != nil {
		return false, err
	}
	if removed {
		summary.DocumentCount--
		summary.UpdatedAt = time.UnixMilli(now)
	}
	return removed, nil
}

// DeleteConversation removes a conversation with all its messages and
// documents. Irreversible. Returns false if the id is unknown.
func (v *Vault) DeleteConversation(ctx context.Context, conversationID string) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.initialized {
		return false, common.ErrNotInitialized
	}

	if _, ok := v.index[conversationID]; !ok {
		return false, nil
	}
	if err := v.deleteConversationTx(ctx, conversationID); err != nil {
		return false, err
	}
	delete(v.index, conversationID)
	return true, nil
}

func (v *Vault) deleteConversationTx(ctx context.Context, conversationID string) error {
	return dbx.WithTx(ctx, v.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := messages.NewSQLiteRepository(tx).DeleteByConversation(ctx, conversationID); err != nil {
			return err
		}
		if err := documents.NewSQLiteRepository(tx).DeleteByConversation(ctx, conversationID); err != nil {
			return err
		}
		_, err := conversations.NewSQLiteRepository(tx).DeleteByID(ctx, conversationID)
		return err
	})
}

// UpdateTitle renames a conversation. Returns false if the id is unknown,
// which can happen in a race with a concurrent delete.
func (v *Vault) UpdateTitle(ctx context.Context, conversationID, title string) (bool, error) {
	return v.updateOverview(ctx, conversationID, func(o *models.ConversationOverview) {
		o.Title = title
	})
}

// UpdateTaskType changes the conversation's task-type tag.
func (v *Vault) UpdateTaskType(ctx context.Context, conversationID, taskType string) (bool, error) {
	return v.updateOverview(ctx, conversationID, func(o *models.ConversationOverview) {
		o.TaskType = taskType
	})
}

// SetMemoryEnabled toggles the memory flag of a conversation.
func (v *Vault) SetMemoryEnabled(ctx context.Context, conversationID string, enabled bool) (bool, error) {
	return v.updateOverview(ctx, conversationID, func(o *models.ConversationOverview) {
		o.MemoryEnabled = enabled
	})
}

// SetRetentionMode changes a conversation's retention mode.
func (v *Vault) SetRetentionMode(ctx context.Context, conversationID string, mode models.RetentionMode) (bool, error) {
	if !mode.Valid() {
		return false, fmt.Errorf("unknown retention mode %q", mode)
	}
	return v.updateOverview(ctx, conversationID, func(o *models.ConversationOverview) {
		o.Retention = mode
	})
}

func (v *Vault) updateOverview(ctx context.Context, conversationID string, mutate func(*models.ConversationOverview)) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.initialized {
		return false, common.ErrNotInitialized
	}

	summary, ok := v.index[conversationID]
	if !ok {
		return false, nil
	}

	overview := models.ConversationOverview{
		Title:         summary.Title,
		Retention:     summary.Retention,
		MemoryEnabled: summary.MemoryEnabled,
		TaskType:      summary.TaskType,
	}
	mutate(&overview)

	ciphertext, nonce, err := cryptox.EncryptRecord(overview, v.masterKey)
	if err != nil {
		return false, fmt.Errorf("encryption error: %w", err)
	}

	now := time.Now().UnixMilli()
	updated, err := conversations.NewSQLiteRepository(v.db).UpdateOverview(ctx, conversationID, ciphertext, nonce, now)
	if err != nil || !updated {
		return false, err
	}

	summary.Title = overview.Title
	summary.Retention = overview.Retention
	summary.MemoryEnabled = overview.MemoryEnabled
	summary.TaskType = overview.TaskType
	summary.UpdatedAt = time.UnixMilli(now)
	return true, nil
}

// GetSettings returns the current settings record.
func (v *Vault) GetSettings() (models.Settings, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.initialized {
		return models.Settings{}, common.ErrNotInitialized
	}
	return v.settings, nil
}

// SaveSettings merge-writes the settings record and returns the result.
func (v *Vault) SaveSettings(ctx context.Context, patch models.SettingsPatch) (models.Settings, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.initialized {
		return models.Settings{}, common.ErrNotInitialized
	}

	merged := patch.Apply(v.settings)
	if !merged.DefaultRetention.Valid() {
		return models.Settings{}, fmt.Errorf("unknown retention mode %q", merged.DefaultRetention)
	}
	if err := v.persistSettings(ctx, metadata.NewSQLiteRepository(v.db), merged, v.masterKey); err != nil {
		return models.Settings{}, err
	}
	v.settings = merged
	return merged, nil
}

// ListConversations returns decrypted conversation metadata, newest first.
// Message bodies are not loaded. Returns an empty slice when uninitialized:
// listing races with teardown in UI code and must fail safe.
func (v *Vault) ListConversations() []models.ConversationSummary {
	v.mu.Lock()
	defer v.mu.Unlock()

	result := make([]models.ConversationSummary, 0, len(v.index))
	for _, s := range v.index {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].UpdatedAt.Equal(result[j].UpdatedAt) {
			return result[i].UpdatedAt.After(result[j].UpdatedAt)
		}
		return result[i].Id < result[j].Id
	})
	return result
}

// GetMessages returns a conversation's messages in append order. A message
// that fails decryption is skipped and counted as corrupted instead of
// blocking access to the rest of the log.
func (v *Vault) GetMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.initialized {
		return nil, common.ErrNotInitialized
	}
	if _, ok := v.index[conversationID]; !ok {
		return nil, common.ErrConversationNotFound
	}

	rows, err := messages.NewSQLiteRepository(v.db).GetByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	result := make([]models.Message, 0, len(rows))
	for _, row := range rows {
		var body models.MessageBody
		if err := cryptox.DecryptRecord(row.Body, row.Nonce, v.masterKey, &body); err != nil {
			v.bumpCorruptedLocked()
			v.log.Warn(ctx, "message quarantined", "conversation", conversationID, "id", row.Id)
			continue
		}
		result = append(result, models.Message{
			Id:             row.Id,
			ConversationId: row.ConversationId,
			Seq:            row.Seq,
			Role:           body.Role,
			Content:        body.Content,
			ToolCalls:      body.ToolCalls,
			Metadata:       body.Metadata,
			CreatedAt:      time.UnixMilli(row.CreatedAt),
		})
	}
	return result, nil
}

// GetDocuments returns a conversation's attached documents. Undecryptable
// documents are skipped and counted as corrupted.
func (v *Vault) GetDocuments(ctx context.Context, conversationID string) ([]models.Document, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.initialized {
		return nil, common.ErrNotInitialized
	}
	if _, ok := v.index[conversationID]; !ok {
		return nil, common.ErrConversationNotFound
	}

	rows, err := documents.NewSQLiteRepository(v.db).GetByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	result := make([]models.Document, 0, len(rows))
	for _, row := range rows {
		var overview models.DocumentOverview
		var content models.DocumentContent
		if err := cryptox.DecryptRecord(row.Overview, row.NonceOverview, v.masterKey, &overview); err != nil {
			v.bumpCorruptedLocked()
			v.log.Warn(ctx, "document quarantined", "conversation", conversationID, "id", row.Id)
			continue
		}
		if err := cryptox.DecryptRecord(row.Content, row.NonceContent, v.masterKey, &content); err != nil {
			v.bumpCorruptedLocked()
			v.log.Warn(ctx, "document quarantined", "conversation", conversationID, "id", row.Id)
			continue
		}
		result = append(result, models.Document{
			Id:             row.Id,
			ConversationId: row.ConversationId,
			Filename:       overview.Filename,
			MimeType:       overview.MimeType,
			Size:           overview.Size,
			Data:           content.Data,
			ExtractedText:  content.ExtractedText,
			CreatedAt:      time.UnixMilli(row.CreatedAt),
		})
	}
	return result, nil
}

func (v *Vault) bumpCorruptedLocked() {
	v.corrupted++
	if v.listener != nil {
		v.listener.CorruptedCountChanged(v.corrupted)
	}
}

// ClearAllZeroTrace deletes every conversation flagged zero-trace. Invoked at
// session end; returns the number of conversations removed.
func (v *Vault) ClearAllZeroTrace(ctx context.Context) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.initialized {
		return 0, common.ErrNotInitialized
	}

	removed := 0
	for id, summary := range v.index {
		if summary.Retention != models.RetentionZeroTrace {
			continue
		}
		if err := v.deleteConversationTx(ctx, id); err != nil {
			return removed, err
		}
		delete(v.index, id)
		removed++
	}
	if removed > 0 {
		v.log.Info(ctx, "zero-trace sweep complete", "removed", removed)
	}
	return removed, nil
}

// Wipe irreversibly destroys every record of the current user, including
// quarantined ciphertext and settings, and resets the vault to uninitialized.
// This is the only supported "forget everything" operation.
func (v *Vault) Wipe(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.initialized {
		return common.ErrNotInitialized
	}

	err := dbx.WithTx(ctx, v.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := messages.NewSQLiteRepository(tx).Clear(ctx); err != nil {
			return err
		}
		if err := documents.NewSQLiteRepository(tx).Clear(ctx); err != nil {
			return err
		}
		if err := conversations.NewSQLiteRepository(tx).Clear(ctx); err != nil {
			return err
		}
		return metadata.NewSQLiteRepository(tx).Clear(ctx)
	})
	if err != nil {
		return err
	}

	v.log.Info(ctx, "store wiped")
	v.resetLocked()
	return nil
}

// Stats aggregates current store contents from the in-memory index.
func (v *Vault) Stats() (Stats, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.initialized {
		return Stats{}, common.ErrNotInitialized
	}

	s := Stats{Conversations: len(v.index), Corrupted: v.corrupted}
	for _, summary := range v.index {
		s.Messages += summary.MessageCount
		s.Documents += summary.DocumentCount
	}
	return s, nil
}

func summaryFromRow(row models.ConversationRow, overview models.ConversationOverview) *models.ConversationSummary {
	return &models.ConversationSummary{
		Id:            row.Id,
		Title:         overview.Title,
		Retention:     overview.Retention,
		MemoryEnabled: overview.MemoryEnabled,
		TaskType:      overview.TaskType,
		CreatedAt:     time.UnixMilli(row.CreatedAt),
		UpdatedAt:     time.UnixMilli(row.UpdatedAt),
		MessageCount:  row.MessageCount,
		DocumentCount: row.DocumentCount,
	}
}
