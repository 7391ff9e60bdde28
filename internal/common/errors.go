// Package common defines shared constants and sentinel errors used across
// GhostVault components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Initialization / crypto errors.
	ErrCryptoUnavailable = errors.New("crypto unavailable")
	ErrNotInitialized    = errors.New("store not initialized")
	ErrResetRequired     = errors.New("store requires reset before re-initialization")

	// Store-level errors.
	ErrConversationNotFound = errors.New("conversation not found")

	// Import errors. ErrInvalidPasswordOrCorrupted is deliberately ambiguous:
	// authenticated decryption cannot distinguish a wrong password from a
	// damaged file, and user-facing messages must not pretend otherwise.
	ErrUnsupportedVersion         = errors.New("unsupported export format version")
	ErrInvalidPasswordOrCorrupted = errors.New("invalid password or corrupted file")
)
