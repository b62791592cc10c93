// Package coverage computes the insurance-vs-patient cost split from a
// normalized policy record and an invoice total.
package coverage

import (
	"math"

	"github.com/medclaim-ai/claims-engine/internal/entity"
)

// Calculate applies deductible-then-copay-then-cap logic:
//
//  1. Below the deductible the patient pays everything.
//  2. Above it, the insurer covers (total - deductible) x (1 - copay),
//     capped at the coverage limit.
//
// A zero CoverageAmount means "no cap": the policy convention inherited from
// the source data is that an absent limit defaults to +Inf, and extraction
// cannot distinguish absent from zero. Monetary outputs are rounded to two
// decimals. Inputs are assumed non-negative; the extractor and mapper
// guarantee that via their default-to-zero behavior.
func Calculate(policy entity.PolicyFields, totalCost float64) entity.CoverageResult {
	deductible := policy.Deductible
	copay := policy.CopayPercentage / 100
	limit := policy.CoverageAmount
	if limit == 0 {
		limit = math.Inf(1)
	}

	var covers, outOfPocket float64
	if totalCost <= deductible {
		outOfPocket = totalCost
		covers = 0
	} else {
		remaining := totalCost - deductible
		covers = math.Min(remaining*(1-copay), limit)
		outOfPocket = totalCost - covers
	}

	pct := 0.0
	if totalCost > 0 {
		pct = covers / totalCost * 100
	}

	return entity.CoverageResult{
		TotalCost:          round2(totalCost),
		DeductibleApplied:  round2(math.Min(deductible, totalCost)),
		InsuranceCovers:    round2(covers),
		OutOfPocket:        round2(outOfPocket),
		CoveragePercentage: round2(pct),
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
