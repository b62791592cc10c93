package constants

import (
	"fmt"
	"strings"
)

// DocumentType tags the two document classes the extraction pipeline understands.
type DocumentType string

// Stable values (store these exact strings in DB).
const (
	DocTypePolicy  DocumentType = "policy"
	DocTypeInvoice DocumentType = "invoice"
)

// DocumentTypes holds the allowed values for the document_type field.
var DocumentTypes = []string{string(DocTypePolicy), string(DocTypeInvoice)}

// ParseDocumentType normalizes a free-form tag into a DocumentType.
// An unknown tag is a programmer error and is reported, not defaulted.
func ParseDocumentType(s string) (DocumentType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(DocTypePolicy):
		return DocTypePolicy, nil
	case string(DocTypeInvoice):
		return DocTypeInvoice, nil
	default:
		return "", fmt.Errorf("unsupported document type: %q", s)
	}
}
