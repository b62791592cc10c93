package entity

import (
	"fmt"
	"strings"

	"github.com/medclaim-ai/claims-engine/constants"
	"github.com/medclaim-ai/claims-engine/internal/numeric"
)

// PolicyFields is the canonical extracted policy record. Numeric fields
// default to 0 and string fields to the "N/A" sentinel; downstream
// calculation never sees a null.
type PolicyFields struct {
	PolicyNumber    string  `json:"policy_number"`
	InsurerName     string  `json:"insurer_name"`
	CoverageAmount  float64 `json:"coverage_amount"`
	Deductible      float64 `json:"deductible"`
	CopayPercentage float64 `json:"copay_percentage"` // 0..100
}

// DefaultPolicyFields returns the fully-populated default structure used
// when every extraction path comes up empty.
func DefaultPolicyFields() PolicyFields {
	return PolicyFields{
		PolicyNumber: constants.StringSentinel,
		InsurerName:  constants.StringSentinel,
	}
}

// PolicyFieldsFromMap rebuilds the record from a flat canonical map, as
// produced by extraction, mapping, or a stored document. Unknown keys are
// ignored; missing keys keep their defaults.
func PolicyFieldsFromMap(m map[string]any) PolicyFields {
	p := DefaultPolicyFields()
	if v, ok := m[constants.FieldPolicyNumber]; ok {
		p.PolicyNumber = stringValue(v, p.PolicyNumber)
	}
	if v, ok := m[constants.FieldInsurerName]; ok {
		p.InsurerName = stringValue(v, p.InsurerName)
	}
	if v, ok := m[constants.FieldCoverageAmount]; ok {
		p.CoverageAmount = numeric.Normalize(v)
	}
	if v, ok := m[constants.FieldDeductible]; ok {
		p.Deductible = numeric.Normalize(v)
	}
	if v, ok := m[constants.FieldCopayPercentage]; ok {
		p.CopayPercentage = numeric.NormalizePercentage(v)
	}
	return p
}

func stringValue(v any, fallback string) string {
	if v == nil {
		return fallback
	}
	s := strings.TrimSpace(fmt.Sprintf("%v", v))
	if s == "" {
		return fallback
	}
	return s
}

// ToMap flattens the record onto canonical field names for merging,
// normalization, and JSON persistence.
func (p PolicyFields) ToMap() map[string]any {
	return map[string]any{
		constants.FieldPolicyNumber:    p.PolicyNumber,
		constants.FieldInsurerName:     p.InsurerName,
		constants.FieldCoverageAmount:  p.CoverageAmount,
		constants.FieldDeductible:      p.Deductible,
		constants.FieldCopayPercentage: p.CopayPercentage,
	}
}
