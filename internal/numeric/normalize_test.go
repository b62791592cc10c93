package numeric

import (
	"math"
	"testing"
)

func TestNormalizeStrings(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"₹1,00,000", 100000},
		{"Rs. 50,000", 50000},
		{"Rs 2500", 2500},
		{"INR 75000", 75000},
		{"$1,000.50", 1000.50},
		{"€99.99", 99.99},
		{"£500", 500},
		{"¥1200", 1200},
		{"5 lakh", 500000},
		{"2.5 Lakh", 250000},
		{"1 lac", 100000},
		{"2 crore", 20000000},
		{"0.5 Cr", 5000000},
		{"20%", 0.2},
		{"15.5%", 0.155},
		{"0%", 0},
		{"1,000,000", 1000000},
		{"500,000.75", 500000.75},
		{"garbage", 0},
		{"", 0},
		{"   ", 0},
		{"N/A", 0},
	}
	for _, c := range cases {
		got := Normalize(c.in)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("Normalize(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestNormalizeNumbersPassThrough(t *testing.T) {
	if got := Normalize(1500); got != 1500.0 {
		t.Errorf("Normalize(1500) = %v, want 1500.0", got)
	}
	if got := Normalize(1000.50); got != 1000.50 {
		t.Errorf("Normalize(1000.50) = %v, want 1000.50", got)
	}
	if got := Normalize(nil); got != 0 {
		t.Errorf("Normalize(nil) = %v, want 0", got)
	}
	if got := Normalize([]string{"x"}); got != 0 {
		t.Errorf("Normalize(slice) = %v, want 0", got)
	}
}

func TestNormalizeAmountFields(t *testing.T) {
	in := map[string]any{
		"coverage_amount": "₹5,00,000",
		"deductible":      "Rs. 5000",
		"total_amount":    50000.0,
		"sum_insured":     "5 lakh",
		"hospital_name":   "City Care Hospital", // not on the allow-list
		"notes":           "unchanged",
	}
	out := NormalizeAmountFields(in, nil)

	if out["coverage_amount"] != 500000.0 {
		t.Errorf("coverage_amount = %v, want 500000", out["coverage_amount"])
	}
	if out["deductible"] != 5000.0 {
		t.Errorf("deductible = %v, want 5000", out["deductible"])
	}
	if out["total_amount"] != 50000.0 {
		t.Errorf("total_amount = %v, want 50000", out["total_amount"])
	}
	if out["sum_insured"] != 500000.0 {
		t.Errorf("sum_insured = %v, want 500000", out["sum_insured"])
	}
	if out["hospital_name"] != "City Care Hospital" {
		t.Errorf("hospital_name mutated: %v", out["hospital_name"])
	}

	// input map must not be mutated
	if in["coverage_amount"] != "₹5,00,000" {
		t.Errorf("input map mutated: %v", in["coverage_amount"])
	}
}
