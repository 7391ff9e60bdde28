// Package models defines the domain types of the local encrypted store and
// the row/envelope split used for persistence: encrypted fields are stored as
// AEAD ciphertext alongside their nonces, everything else is plaintext
// metadata needed for enumeration and bookkeeping.
package models

// ConversationRow is the persisted shape of a conversation. Overview holds
// the encrypted ConversationOverview; counts and timestamps stay in plaintext
// columns so listing does not require decrypting message bodies.
type ConversationRow struct {
	// Id is a globally unique identifier for the conversation.
	Id string

	// Overview contains encrypted overview bytes (title, retention, flags).
	Overview []byte
	// NonceOverview is the AEAD nonce for Overview.
	NonceOverview []byte

	// CreatedAt / UpdatedAt are unix milliseconds.
	CreatedAt int64
	UpdatedAt int64

	// MessageCount and DocumentCount mirror the child tables.
	MessageCount  int64
	DocumentCount int64

	// Corrupted marks a row whose overview failed authenticated decryption
	// on the last initialization. The ciphertext is retained for recovery.
	Corrupted bool
}

// MessageRow is the persisted shape of a message. Body holds the encrypted
// MessageBody. Seq is a per-conversation monotonic sequence number.
type MessageRow struct {
	Id             string
	ConversationId string
	Seq            int64
	Body           []byte
	Nonce          []byte
	CreatedAt      int64
}

// DocumentRow is the persisted shape of an attached document. Overview holds
// the encrypted DocumentOverview (filename, MIME type, size); Content holds
// the encrypted DocumentContent (raw bytes, extracted text).
type DocumentRow struct {
	Id             string
	ConversationId string
	Overview       []byte
	NonceOverview  []byte
	Content        []byte
	NonceContent   []byte
	CreatedAt      int64
}
