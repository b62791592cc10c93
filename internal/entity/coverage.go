package entity

// CoverageResult is the output of the coverage calculator.
// Invariant: InsuranceCovers + OutOfPocket == TotalCost within 2-decimal rounding.
type CoverageResult struct {
	TotalCost          float64 `json:"total_cost"`
	DeductibleApplied  float64 `json:"deductible_applied"`
	InsuranceCovers    float64 `json:"insurance_covers"`
	OutOfPocket        float64 `json:"out_of_pocket"`
	CoveragePercentage float64 `json:"coverage_percentage"`
}
