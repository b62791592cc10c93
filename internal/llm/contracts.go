package llm

import (
	"context"

	"github.com/medclaim-ai/claims-engine/constants"
)

// ExtractRequest carries one document through LLM-assisted extraction.
type ExtractRequest struct {
	RawText      string
	DocumentType constants.DocumentType
	SessionID    string

	// FilenameHint helps the model disambiguate sparse documents.
	FilenameHint string
}

// DocumentExtractor is the interface the pipeline depends on. The returned
// map is the loosely structured JSON object produced by the model (arbitrary
// nesting); the mapper projects it onto the canonical schema. The raw bytes
// are retained for diagnostics and persistence.
type DocumentExtractor interface {
	ExtractStructured(ctx context.Context, req ExtractRequest) (map[string]any, []byte, error)
}
