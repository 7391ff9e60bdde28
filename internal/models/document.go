package models

import "time"

// DocumentOverview is the encrypted metadata portion of an attached document.
type DocumentOverview struct {
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

// DocumentContent is the encrypted payload portion of an attached document.
// ExtractedText may be empty for binary content such as images or scans.
type DocumentContent struct {
	Data          []byte `json:"data"`
	ExtractedText string `json:"extractedText,omitempty"`
}

// Document is the decrypted, in-memory view of an attached document.
type Document struct {
	Id             string
	ConversationId string
	Filename       string
	MimeType       string
	Size           int64
	Data           []byte
	ExtractedText  string
	CreatedAt      time.Time
}
