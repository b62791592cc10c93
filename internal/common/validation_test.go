package common

import (
	"strings"
	"testing"
)

func TestRequired(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		wantErr bool
	}{
		{"non-empty string", "sess-1", false},
		{"empty string", "", true},
		{"whitespace only", "   ", true},
		{"nil", nil, true},
		{"non-string value", 42, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Required("field", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("Required(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestMaxLengthRule(t *testing.T) {
	rule := MaxLength(8)

	if err := rule("claim_id", "SYN_AB12"); err != nil {
		t.Errorf("8 runes within limit 8: %v", err)
	}
	if err := rule("claim_id", "SYN_AB12C"); err == nil {
		t.Error("9 runes over limit 8: want error")
	}
	// rune count, not byte count: 3 runes, 9 bytes
	if err := rule("name", "नाम"); err != nil {
		t.Errorf("3 runes within limit: %v", err)
	}
	if err := rule("amount", 500000); err != nil {
		t.Errorf("non-string passes through: %v", err)
	}
}

func TestDocumentTypeRule(t *testing.T) {
	if err := DocumentTypeRule("document_type", "policy"); err != nil {
		t.Errorf("policy: %v", err)
	}
	if err := DocumentTypeRule("document_type", "invoice"); err != nil {
		t.Errorf("invoice: %v", err)
	}
	if err := DocumentTypeRule("document_type", "receipt"); err == nil {
		t.Error("receipt: want error")
	}
	if err := DocumentTypeRule("document_type", 7); err == nil {
		t.Error("non-string: want error")
	}
}

func TestValidatorCollectsErrors(t *testing.T) {
	v := NewValidator().
		Field("session_id", "", Required).
		Field("document_type", "ledger", DocumentTypeRule)

	if !v.HasErrors() {
		t.Fatal("expected errors")
	}
	if len(v.Errors()) != 2 {
		t.Errorf("Errors() = %d, want 2", len(v.Errors()))
	}
	msg := v.ErrorMessage()
	if !strings.Contains(msg, "session_id") || !strings.Contains(msg, "document_type") {
		t.Errorf("ErrorMessage() = %q, want both field names", msg)
	}

	clean := NewValidator().Field("session_id", "sess-1", Required, MaxLength(128))
	if clean.HasErrors() {
		t.Errorf("clean input produced errors: %s", clean.ErrorMessage())
	}
	if clean.Error() != nil {
		t.Errorf("Error() = %v, want nil", clean.Error())
	}
}
