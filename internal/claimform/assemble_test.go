package claimform

import (
	"reflect"
	"strings"
	"testing"

	"github.com/medclaim-ai/claims-engine/constants"
	"github.com/medclaim-ai/claims-engine/internal/entity"
)

func fullPolicy() entity.PolicyFields {
	return entity.PolicyFields{
		PolicyNumber:    "POL-123",
		InsurerName:     "Star Health",
		CoverageAmount:  500000,
		Deductible:      5000,
		CopayPercentage: 20,
	}
}

func fullInvoice() entity.InvoiceFields {
	return entity.InvoiceFields{
		PatientName:  "Asha Rao",
		HospitalName: "City Care Hospital",
		TotalAmount:  50000,
		ServiceDate:  "2024-01-15",
		Procedures:   []string{"Knee Replacement"},
	}
}

func TestMissingFieldsReport(t *testing.T) {
	a := NewAssembler(nil)
	invoice := fullInvoice()
	invoice.HospitalName = ""

	rec := a.Assemble(fullPolicy(), invoice, nil, Options{SessionID: "sess-0001"})

	if !reflect.DeepEqual(rec.MissingFields, []string{"Hospital Name"}) {
		t.Errorf("MissingFields = %v, want [Hospital Name]", rec.MissingFields)
	}
}

func TestZeroNumericReportedMissing(t *testing.T) {
	a := NewAssembler(nil)
	policy := fullPolicy()
	policy.Deductible = 0 // legitimately zero still counts as missing

	rec := a.Assemble(policy, fullInvoice(), nil, Options{SessionID: "sess-0001"})

	found := false
	for _, f := range rec.MissingFields {
		if f == "Deductible" {
			found = true
		}
	}
	if !found {
		t.Errorf("MissingFields = %v, want to contain Deductible", rec.MissingFields)
	}
}

func TestOverridesWin(t *testing.T) {
	a := NewAssembler(nil)
	overrides := map[string]any{
		constants.FieldPatientName: "Corrected Name",
		constants.FieldTotalAmount: 60000.0,
	}

	rec := a.Assemble(fullPolicy(), fullInvoice(), overrides, Options{SessionID: "sess-0001"})

	if rec.Fields[constants.FieldPatientName] != "Corrected Name" {
		t.Errorf("patient_name = %v, want override", rec.Fields[constants.FieldPatientName])
	}
	if rec.Fields[constants.FieldTotalAmount] != 60000.0 {
		t.Errorf("total_amount = %v, want override", rec.Fields[constants.FieldTotalAmount])
	}
	// non-overridden fields still come from the records
	if rec.Fields[constants.FieldPolicyNumber] != "POL-123" {
		t.Errorf("policy_number = %v", rec.Fields[constants.FieldPolicyNumber])
	}
}

func TestAliasFallback(t *testing.T) {
	a := NewAssembler(nil)
	invoice := fullInvoice()
	invoice.PatientName = ""
	overrides := map[string]any{"policyholder_name": "Ravi Kumar"}

	rec := a.Assemble(fullPolicy(), invoice, overrides, Options{SessionID: "sess-0001"})

	if rec.Fields[constants.FieldPatientName] != "Ravi Kumar" {
		t.Errorf("patient_name = %v, want alias value", rec.Fields[constants.FieldPatientName])
	}
}

func TestClaimID(t *testing.T) {
	a := NewAssembler(nil)

	rec := a.Assemble(fullPolicy(), fullInvoice(), nil, Options{SessionID: "abcd1234efgh"})
	if rec.ClaimID != "SYN_ABCD1234" {
		t.Errorf("ClaimID = %q, want SYN_ABCD1234", rec.ClaimID)
	}

	rec = a.Assemble(fullPolicy(), fullInvoice(), nil, Options{SessionID: "abcd1234efgh", Vendor: "Acme Insurance"})
	if rec.ClaimID != "ACME_INSURANCE_ABCD1234" {
		t.Errorf("ClaimID = %q", rec.ClaimID)
	}

	// empty session still produces a usable ID
	rec = a.Assemble(fullPolicy(), fullInvoice(), nil, Options{})
	if !strings.HasPrefix(rec.ClaimID, "SYN_") || len(rec.ClaimID) != len("SYN_")+8 {
		t.Errorf("ClaimID = %q, want SYN_ + 8 chars", rec.ClaimID)
	}
}

func TestRecordIsFreshPerCall(t *testing.T) {
	a := NewAssembler(nil)
	first := a.Assemble(fullPolicy(), fullInvoice(), nil, Options{SessionID: "sess-0001"})
	first.Fields[constants.FieldPatientName] = "mutated"

	second := a.Assemble(fullPolicy(), fullInvoice(), nil, Options{SessionID: "sess-0001"})
	if second.Fields[constants.FieldPatientName] != "Asha Rao" {
		t.Errorf("records share state: %v", second.Fields[constants.FieldPatientName])
	}
}
