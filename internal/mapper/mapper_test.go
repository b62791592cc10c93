package mapper

import (
	"reflect"
	"testing"

	"github.com/medclaim-ai/claims-engine/constants"
)

func TestPatientNameFallbackChain(t *testing.T) {
	m := NewMapper(nil)

	nested := map[string]any{
		"patient_details": map[string]any{"patient_name": "Asha Rao"},
	}
	if got := m.InvoiceFields(nested).PatientName; got != "Asha Rao" {
		t.Errorf("patient_details.patient_name path: got %q", got)
	}

	alt := map[string]any{
		"patient": map[string]any{"name": "Asha Rao"},
	}
	if got := m.InvoiceFields(alt).PatientName; got != "Asha Rao" {
		t.Errorf("patient.name path: got %q", got)
	}

	flat := map[string]any{"patient_name": "Asha Rao"}
	if got := m.InvoiceFields(flat).PatientName; got != "Asha Rao" {
		t.Errorf("patient_name path: got %q", got)
	}
}

func TestFirstNonEmptyWins(t *testing.T) {
	m := NewMapper(nil)

	// empty string at the higher-priority path moves on to the next path
	raw := map[string]any{
		"patient_details": map[string]any{"patient_name": ""},
		"patient_name":    "Ravi Kumar",
	}
	if got := m.InvoiceFields(raw).PatientName; got != "Ravi Kumar" {
		t.Errorf("got %q, want fallback past empty value", got)
	}

	// null behaves the same way
	raw = map[string]any{
		"policy_details": map[string]any{"policy_number": nil},
		"policy_number":  "POL-123",
	}
	if got := m.PolicyFields(raw).PolicyNumber; got != "POL-123" {
		t.Errorf("got %q, want fallback past null", got)
	}
}

func TestPolicyMapping(t *testing.T) {
	m := NewMapper(nil)
	raw := map[string]any{
		"policy_details": map[string]any{
			"policy_number":   "SH-HL-987654",
			"insurer_name":    "Star Health",
			"coverage_amount": 500000.0,
		},
		"excess":     "₹5,000",
		"co_payment": "20%",
	}
	got := m.PolicyFields(raw)

	if got.PolicyNumber != "SH-HL-987654" {
		t.Errorf("PolicyNumber = %q", got.PolicyNumber)
	}
	if got.InsurerName != "Star Health" {
		t.Errorf("InsurerName = %q", got.InsurerName)
	}
	if got.CoverageAmount != 500000 {
		t.Errorf("CoverageAmount = %v", got.CoverageAmount)
	}
	if got.Deductible != 5000 {
		t.Errorf("Deductible = %v (excess alias)", got.Deductible)
	}
	// copay stays on the 0..100 scale
	if got.CopayPercentage != 20 {
		t.Errorf("CopayPercentage = %v, want 20", got.CopayPercentage)
	}
}

func TestProceduresContainerPriority(t *testing.T) {
	m := NewMapper(nil)

	raw := map[string]any{
		"billing_details": map[string]any{
			"line_items": []any{
				map[string]any{"description": "Knee Replacement", "amount": 40000.0},
				map[string]any{"procedure": "Physiotherapy"},
				"Post-op Consultation",
				map[string]any{"description": "N/A"},
			},
		},
		// lower-priority container must be ignored, not merged
		"procedures": []any{"Should Not Appear"},
	}
	got := m.InvoiceFields(raw).Procedures
	want := []string{"Knee Replacement", "Physiotherapy", "Post-op Consultation"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Procedures = %v, want %v", got, want)
	}

	// empty high-priority list falls through to the next container
	raw = map[string]any{
		"billing_details": map[string]any{"line_items": []any{}},
		"procedures":      []any{"Dialysis"},
	}
	got = m.InvoiceFields(raw).Procedures
	if !reflect.DeepEqual(got, []string{"Dialysis"}) {
		t.Errorf("Procedures = %v, want [Dialysis]", got)
	}
}

func TestMalformedStructureDegradesPerField(t *testing.T) {
	m := NewMapper(nil)

	// non-map intermediate on one field must not poison the others
	raw := map[string]any{
		"patient_details": "not a mapping",
		"hospital_name":   "City Care Hospital",
		"total_amount":    "not a number",
	}
	got := m.InvoiceFields(raw)

	if got.PatientName != constants.StringSentinel {
		t.Errorf("PatientName = %q, want sentinel", got.PatientName)
	}
	if got.HospitalName != "City Care Hospital" {
		t.Errorf("HospitalName = %q", got.HospitalName)
	}
	if got.TotalAmount != 0 {
		t.Errorf("TotalAmount = %v, want 0 for unparseable", got.TotalAmount)
	}
}

func TestStructuredDispatch(t *testing.T) {
	m := NewMapper(nil)

	out, err := m.Structured(map[string]any{"policy_number": "P-1"}, constants.DocTypePolicy)
	if err != nil {
		t.Fatalf("Structured(policy): %v", err)
	}
	if out[constants.FieldPolicyNumber] != "P-1" {
		t.Errorf("policy_number = %v", out[constants.FieldPolicyNumber])
	}

	if _, err := m.Structured(map[string]any{}, "ledger"); err == nil {
		t.Error("Structured(ledger): want error, got nil")
	}
}

func TestMappingIsIdempotent(t *testing.T) {
	m := NewMapper(nil)
	raw := map[string]any{
		"patient_details": map[string]any{"patient_name": "Asha Rao"},
		"billing_details": map[string]any{
			"grand_total_inr": "₹50,000",
			"line_items":      []any{map[string]any{"service": "MRI Scan"}},
		},
	}
	a := m.InvoiceFields(raw)
	b := m.InvoiceFields(raw)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("repeated mapping differs: %+v vs %+v", a, b)
	}
	if a.TotalAmount != 50000 {
		t.Errorf("TotalAmount = %v, want 50000", a.TotalAmount)
	}
}
