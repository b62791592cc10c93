package export

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/medclaim-ai/claims-engine/internal/entity"
)

func TestRenderClaimsXLSX(t *testing.T) {
	svc := NewService(nil, nil)
	claims := []*entity.Claim{
		{
			ClaimID: "SYN_AB12CD34",
			Status:  "FORM_GENERATED",
			FormData: map[string]any{
				"patient_name":  "Asha Rao",
				"hospital_name": "City Care Hospital",
				"service_date":  "2024-01-15",
			},
			MissingFields: []string{"Deductible"},
			Coverage: &entity.CoverageResult{
				TotalCost:          50000,
				InsuranceCovers:    36000,
				OutOfPocket:        14000,
				CoveragePercentage: 72,
			},
		},
	}

	out, err := svc.RenderClaimsXLSX("sess-1", claims)
	if err != nil {
		t.Fatalf("RenderClaimsXLSX() error = %v", err)
	}
	if len(out) == 0 {
		t.Fatal("empty workbook bytes")
	}

	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer func() {
		_ = f.Close()
	}()

	got, err := f.GetCellValue("Claims", "A2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if got != "SYN_AB12CD34" {
		t.Errorf("A2 = %q, want SYN_AB12CD34", got)
	}
	if v, _ := f.GetCellValue("Claims", "J2"); v != "Deductible" {
		t.Errorf("J2 = %q, want Deductible", v)
	}
}
