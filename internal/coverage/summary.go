package coverage

import (
	"fmt"
	"strings"

	"github.com/medclaim-ai/claims-engine/internal/entity"
)

// Summary renders a human-readable breakdown of a coverage result for chat
// and preview surfaces. Rendering to HTML/PDF stays with the callers.
func Summary(policy entity.PolicyFields, result entity.CoverageResult) string {
	var b strings.Builder
	b.WriteString("Coverage Breakdown\n")
	fmt.Fprintf(&b, "Total bill: ₹%.2f\n", result.TotalCost)
	fmt.Fprintf(&b, "Deductible applied: ₹%.2f\n", result.DeductibleApplied)
	fmt.Fprintf(&b, "Insurance covers: ₹%.2f (%.2f%%)\n", result.InsuranceCovers, result.CoveragePercentage)
	fmt.Fprintf(&b, "Your out-of-pocket: ₹%.2f\n", result.OutOfPocket)
	if policy.PolicyNumber != "" {
		fmt.Fprintf(&b, "Policy: %s", policy.PolicyNumber)
		if policy.InsurerName != "" {
			fmt.Fprintf(&b, " (%s)", policy.InsurerName)
		}
		b.WriteString("\n")
	}
	return b.String()
}
