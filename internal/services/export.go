package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/ghostvault/internal/common"
	"github.com/dmitrijs2005/ghostvault/internal/cryptox"
	"github.com/dmitrijs2005/ghostvault/internal/logging"
	"github.com/dmitrijs2005/ghostvault/internal/models"
)

const (
	// ExportVersion is the only envelope version this codec reads or writes.
	ExportVersion = "1.0"

	// ExportContentType is the media type of the delivered artifact. Exports
	// are deliberately not served as application/json: the file starts with
	// a raw binary salt and should not look human-readable.
	ExportContentType = "application/octet-stream"
)

// ExportMessage is the canonical serialized form of one message inside an
// export. Content round-trips byte for byte.
type ExportMessage struct {
	Role      models.Role `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// ConversationExport is one conversation as it travels through an export
// file: metadata in the clear, messages encrypted as a unit.
type ConversationExport struct {
	Id        string          `json:"id"`
	Title     string          `json:"title"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Model     string          `json:"model,omitempty"`
	Messages  []ExportMessage `json:"messages"`
}

// ImportStats summarizes a successful import for UI confirmation.
type ImportStats struct {
	TotalConversations int
	TotalMessages      int
}

// ImportResult is the outcome of a successful import.
type ImportResult struct {
	Conversations []ConversationExport
	Stats         ImportStats
}

// envelope is the JSON document following the 16-byte salt prefix.
type envelope struct {
	Version       string                 `json:"version"`
	ExportedAt    time.Time              `json:"exportedAt"`
	Encrypted     bool                   `json:"encrypted"`
	Conversations []envelopeConversation `json:"conversations"`
	Metadata      envelopeMetadata       `json:"metadata"`
}

type envelopeConversation struct {
	Id        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Model     string    `json:"model,omitempty"`
	// MessageCount mirrors len of the encrypted message list so UIs can show
	// totals without decrypting.
	MessageCount int `json:"messageCount"`
	// EncryptedMessages is base64(nonce(12B) ‖ AES-GCM ciphertext) of the
	// serialized message list, encrypted under the export key.
	EncryptedMessages string `json:"encryptedMessages"`
}

type envelopeMetadata struct {
	TotalConversations int `json:"totalConversations"`
	TotalMessages      int `json:"totalMessages"`
}

// Exporter produces and consumes password-protected export files. The export
// key is derived from the password and a random per-file salt, deliberately
// independent of the device-bound master key, so a file can be opened on any
// device that knows the password.
type Exporter struct {
	log logging.Logger
}

// NewExporter constructs an Exporter.
func NewExporter(log logging.Logger) *Exporter {
	return &Exporter{log: log}
}

// Export serializes the given conversations into a single encrypted file:
// a raw 16-byte salt followed by a UTF-8 JSON envelope. Each conversation's
// message list is encrypted with its own nonce under the shared export key.
// An empty conversation set is a valid export.
func (e *Exporter) Export(ctx context.Context, convs []ConversationExport, password string) ([]byte, error) {
	salt := common.GenerateRandByteArray(cryptox.SaltSize)
	key, err := cryptox.DeriveExportKey(password, salt)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	env := envelope{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC(),
		Encrypted:  true,
	}
	env.Conversations = make([]envelopeConversation, 0, len(convs))

	totalMessages := 0
	for _, conv := range convs {
		payload, err := json.Marshal(conv.Messages)
		if err != nil {
			return nil, err
		}
		nonce, ciphertext, err := cryptox.Seal(payload, key)
		if err != nil {
			return nil, err
		}

		env.Conversations = append(env.Conversations, envelopeConversation{
			Id:                conv.Id,
			Title:             conv.Title,
			CreatedAt:         conv.CreatedAt,
			UpdatedAt:         conv.UpdatedAt,
			Model:             conv.Model,
			MessageCount:      len(conv.Messages),
			EncryptedMessages: base64.StdEncoding.EncodeToString(append(nonce, ciphertext...)),
		})
		totalMessages += len(conv.Messages)
	}
	env.Metadata = envelopeMetadata{
		TotalConversations: len(convs),
		TotalMessages:      totalMessages,
	}

	body, err := json.Marshal(env)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(salt)+len(body))
	out = append(out, salt...)
	out = append(out, body...)

	e.log.Info(ctx, "export complete", "conversations", len(convs), "messages", totalMessages)
	return out, nil
}

// Import parses and decrypts an export file. A version mismatch fails with
// ErrUnsupportedVersion; any authentication failure fails the whole import
// with ErrInvalidPasswordOrCorrupted. Partial imports are never produced:
// the codec cannot distinguish a wrong password from a damaged file, and a
// half-imported batch would leave the library in a misleading state.
func (e *Exporter) Import(ctx context.Context, data []byte, password string) (*ImportResult, error) {
	if len(data) <= cryptox.SaltSize {
		return nil, fmt.Errorf("file too short: %w", common.ErrInvalidPasswordOrCorrupted)
	}
	salt := data[:cryptox.SaltSize]

	var env envelope
	if err := json.Unmarshal(data[cryptox.SaltSize:], &env); err != nil {
		return nil, fmt.Errorf("malformed envelope: %w", common.ErrInvalidPasswordOrCorrupted)
	}
	if env.Version != ExportVersion {
		return nil, fmt.Errorf("version %q: %w", env.Version, common.ErrUnsupportedVersion)
	}

	key, err := cryptox.DeriveExportKey(password, salt)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	result := &ImportResult{
		Conversations: make([]ConversationExport, 0, len(env.Conversations)),
	}
	for _, entry := range env.Conversations {
		raw, err := base64.StdEncoding.DecodeString(entry.EncryptedMessages)
		if err != nil || len(raw) < cryptox.NonceSize {
			return nil, fmt.Errorf("conversation %s: %w", entry.Id, common.ErrInvalidPasswordOrCorrupted)
		}
		nonce, ciphertext := raw[:cryptox.NonceSize], raw[cryptox.NonceSize:]

		payload, err := cryptox.Open(nonce, ciphertext, key)
		if err != nil {
			return nil, fmt.Errorf("conversation %s: %w", entry.Id, common.ErrInvalidPasswordOrCorrupted)
		}

		var msgs []ExportMessage
		if err := json.Unmarshal(payload, &msgs); err != nil {
			return nil, fmt.Errorf("conversation %s: %w", entry.Id, common.ErrInvalidPasswordOrCorrupted)
		}

		result.Conversations = append(result.Conversations, ConversationExport{
			Id:        entry.Id,
			Title:     entry.Title,
			CreatedAt: entry.CreatedAt,
			UpdatedAt: entry.UpdatedAt,
			Model:     entry.Model,
			Messages:  msgs,
		})
		result.Stats.TotalMessages += len(msgs)
	}
	result.Stats.TotalConversations = len(result.Conversations)

	e.log.Info(ctx, "import complete",
		"conversations", result.Stats.TotalConversations,
		"messages", result.Stats.TotalMessages)
	return result, nil
}
