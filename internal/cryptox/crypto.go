// Package cryptox implements key derivation and AES-GCM record envelopes for
// the local encrypted store.
//
// Two independent key families are derived here. Storage keys are bound to a
// user identifier with a fixed, user-scoped salt, so the same user always gets
// a key that opens previously written records while a different user does not.
// Export keys are bound to a user-chosen password and a random per-export salt
// stored alongside the export file.
//
// Deriving the storage key from a non-secret user id is a deliberate
// convenience/privacy trade-off: it protects local records against casual disk
// inspection, not against an attacker who knows the user id and can run the
// same derivation. Do not strengthen it silently — that would break decryption
// of existing records.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/dmitrijs2005/ghostvault/internal/common"
)

const (
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32

	// SaltSize is the random salt length for export keys.
	SaltSize = 16

	// NonceSize is the AES-GCM nonce length.
	NonceSize = 12

	// kdfIterations is the PBKDF2-HMAC-SHA256 iteration count.
	kdfIterations = 100_000

	// storageSaltPrefix namespaces the fixed storage-key salt. Changing it
	// invalidates every record written under the old value.
	storageSaltPrefix = "ghostvault.v1."
)

// DeriveStorageKey derives the per-user 256-bit master key from a stable user
// identifier. The salt is the fixed application namespace concatenated with
// the user id, so derivation is deterministic per user and distinct across
// users on a shared device.
func DeriveStorageKey(userID string) ([]byte, error) {
	if userID == "" {
		return nil, fmt.Errorf("empty user id: %w", common.ErrCryptoUnavailable)
	}
	salt := []byte(storageSaltPrefix + userID)
	return pbkdf2.Key([]byte(userID), salt, kdfIterations, KeySize, sha256.New), nil
}

// DeriveExportKey derives a 256-bit key from a user-chosen password and a
// random per-export salt. Same password + same salt always yields the same
// key; that is what makes round-trip import possible.
func DeriveExportKey(password string, salt []byte) ([]byte, error) {
	if password == "" {
		return nil, fmt.Errorf("empty password: %w", common.ErrCryptoUnavailable)
	}
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("bad salt size %d: %w", len(salt), common.ErrCryptoUnavailable)
	}
	return pbkdf2.Key([]byte(password), salt, kdfIterations, KeySize, sha256.New), nil
}

// MakeVerifier returns a non-reversible fingerprint of the master key, stored
// in plaintext so a key switch can be detected before decryption is attempted.
func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}

// EncryptRecord serializes the given record to JSON and encrypts it using
// AES-GCM. A new random 12-byte nonce is generated for each encryption; the
// ciphertext and nonce are returned separately so they can be stored in
// separate columns.
func EncryptRecord(record any, key []byte) (ciphertext, nonce []byte, err error) {
	plaintext, err := json.Marshal(record)
	if err != nil {
		return nil, nil, err
	}

	nonce, ciphertext, err = Seal(plaintext, key)
	if err != nil {
		return nil, nil, err
	}
	return ciphertext, nonce, nil
}

// DecryptRecord decrypts the given ciphertext using AES-GCM and unmarshals
// the resulting JSON into v. It fails if the key or nonce does not match the
// one used at encryption time, or if the ciphertext was tampered with.
func DecryptRecord(ciphertext, nonce, key []byte, v any) error {
	plaintext, err := Open(nonce, ciphertext, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(plaintext, v)
}

// Seal encrypts raw plaintext under key with a fresh random nonce.
func Seal(plaintext, key []byte) (nonce, ciphertext []byte, err error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce = make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}

	ciphertext = aesgcm.Seal(nil, nonce, plaintext, nil)
	return nonce, ciphertext, nil
}

// Open authenticates and decrypts ciphertext produced by Seal.
func Open(nonce, ciphertext, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	return aesgcm.Open(nil, nonce, ciphertext, nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrCryptoUnavailable, err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrCryptoUnavailable, err)
	}
	return aesgcm, nil
}
