package entity

import (
	"fmt"
	"strings"

	"github.com/medclaim-ai/claims-engine/constants"
	"github.com/medclaim-ai/claims-engine/internal/numeric"
)

// InvoiceFields is the canonical extracted invoice record.
// ServiceDate is kept free-form; downstream formatting is the caller's concern.
type InvoiceFields struct {
	PatientName  string   `json:"patient_name"`
	HospitalName string   `json:"hospital_name"`
	TotalAmount  float64  `json:"total_amount"`
	ServiceDate  string   `json:"service_date"`
	Procedures   []string `json:"procedures"`
}

// DefaultInvoiceFields returns the fully-populated default structure used
// when every extraction path comes up empty.
func DefaultInvoiceFields() InvoiceFields {
	return InvoiceFields{
		PatientName:  constants.StringSentinel,
		HospitalName: constants.StringSentinel,
		ServiceDate:  constants.StringSentinel,
		Procedures:   []string{},
	}
}

// InvoiceFieldsFromMap rebuilds the record from a flat canonical map, as
// produced by extraction, mapping, or a stored document. Unknown keys are
// ignored; missing keys keep their defaults.
func InvoiceFieldsFromMap(m map[string]any) InvoiceFields {
	i := DefaultInvoiceFields()
	if v, ok := m[constants.FieldPatientName]; ok {
		i.PatientName = stringValue(v, i.PatientName)
	}
	if v, ok := m[constants.FieldHospitalName]; ok {
		i.HospitalName = stringValue(v, i.HospitalName)
	}
	if v, ok := m[constants.FieldTotalAmount]; ok {
		i.TotalAmount = numeric.Normalize(v)
	}
	if v, ok := m[constants.FieldServiceDate]; ok {
		i.ServiceDate = stringValue(v, i.ServiceDate)
	}
	if v, ok := m[constants.FieldProcedures]; ok {
		i.Procedures = stringSliceValue(v)
	}
	return i
}

func stringSliceValue(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s := strings.TrimSpace(fmt.Sprintf("%v", item))
			if s != "" && s != constants.StringSentinel {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

// ToMap flattens the record onto canonical field names for merging,
// normalization, and JSON persistence.
func (i InvoiceFields) ToMap() map[string]any {
	return map[string]any{
		constants.FieldPatientName:  i.PatientName,
		constants.FieldHospitalName: i.HospitalName,
		constants.FieldTotalAmount:  i.TotalAmount,
		constants.FieldServiceDate:  i.ServiceDate,
		constants.FieldProcedures:   i.Procedures,
	}
}
