package entity

import (
	"time"

	"github.com/google/uuid"
)

// ClaimFormRecord is a merged claim form ready for rendering. Fields is a
// flat mapping of canonical field name to value; MissingFields names every
// field that was still empty at assembly time, human readable
// ("Hospital Name"), in canonical form order.
type ClaimFormRecord struct {
	ClaimID       string         `json:"claim_id"`
	Fields        map[string]any `json:"form_data"`
	MissingFields []string       `json:"missing_fields"`
}

// Claim represents a stored claim for data transfer between layers.
type Claim struct {
	ID            uuid.UUID       `json:"id"`
	SessionID     string          `json:"session_id"`
	ClaimID       string          `json:"claim_id"`
	Status        string          `json:"status"`
	FormData      map[string]any  `json:"form_data"`
	MissingFields []string        `json:"missing_fields"`
	Coverage      *CoverageResult `json:"coverage,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ExtractJob tracks one extraction run over a stored document.
type ExtractJob struct {
	ID           uuid.UUID  `json:"id"`
	DocumentID   uuid.UUID  `json:"document_id"`
	SessionID    string     `json:"session_id"`
	Status       string     `json:"status"`
	Source       *string    `json:"source,omitempty"`
	NeedsReview  bool       `json:"needs_review"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

// Document represents an ingested document for data transfer between layers.
type Document struct {
	ID            uuid.UUID      `json:"id"`
	SessionID     string         `json:"session_id"`
	DocumentType  string         `json:"document_type"`
	RawText       *string        `json:"raw_text,omitempty"`
	ExtractedData map[string]any `json:"extracted_data,omitempty"`
	NeedsReview   bool           `json:"needs_review"`
	CreatedAt     time.Time      `json:"created_at"`
}
