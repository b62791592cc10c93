package extract

import "regexp"

// Pattern rules are ordered most specific (explicit labelled field) to most
// generic (bare heuristics). Evaluation is first-match-wins: the first
// pattern whose capture group survives the field's acceptance check ends the
// scan for that field. The generic tails exist to tolerate OCR noise where
// explicit labels are lost.

var policyNumberPatterns = compileAll(
	`Policy Number[:\s]+([A-Z0-9-]+)`,
	`Policy No[:\s]+([A-Z0-9-]+)`,
	`Policy ID[:\s]+([A-Z0-9-]+)`,
	`Policy[:\s]+([A-Z0-9-]+)`,
	`([A-Z]{2,4}-[A-Z]{2,3}-[0-9]{6,})`,
	`([A-Z0-9]{8,})`,
	`POL[:\s]*([A-Z0-9-]+)`,
	`Policy[:\s]*([A-Z0-9-]+)`,
)

var insurerNamePatterns = compileAll(
	// plan/product labels
	`Plan[:\s]+([A-Za-z\s]+(?:Plus|Family|Individual|Group)[A-Za-z\s]*)`,
	`Product[:\s]+([A-Za-z\s]+)`,
	`Scheme[:\s]+([A-Za-z\s]+)`,
	// company name heuristics
	`([A-Za-z\s]+(?:Insurance|Health|Life|General|Care|Medical|Assurance)[A-Za-z\s]*)`,
	`([A-Za-z\s]+(?:Company|Corp|Ltd|Limited|Inc)[A-Za-z\s]*)`,
	// document title heuristics
	`^([A-Za-z\s]+(?:Health|Medical|Care|Insurance)[A-Za-z\s]*)`,
	`^([A-Za-z\s]+(?:Policy|Plan|Coverage)[A-Za-z\s]*)`,
	`^([A-Za-z\s]{3,20}(?:\s+[A-Za-z\s]{3,20}){0,2})`,
)

var coverageAmountPatterns = compileAll(
	`(?:Coverage|Sum Insured|Amount|Limit|Cover)[:\s]+(?:Rs\.?|₹|INR)?\s*([0-9,]+)`,
	`(?:Total Coverage|Total Amount)[:\s]+(?:Rs\.?|₹|INR)?\s*([0-9,]+)`,
	`(?:Maximum|Max)[:\s]+(?:Rs\.?|₹|INR)?\s*([0-9,]+)`,
	`(?:Up to|Upto)[:\s]+(?:Rs\.?|₹|INR)?\s*([0-9,]+)`,
	`₹\s*([0-9,]+)`,
	`Rs\.?\s*([0-9,]+)`,
	`INR\s*([0-9,]+)`,
	`([0-9,]+)\s*(?:Lakh|Lac|Crore|Cr)`,
)

var deductiblePatterns = compileAll(
	`(?:Deductible|Excess|Deduction)[:\s]+(?:Rs\.?|₹|INR)?\s*([0-9,]+)`,
	`(?:Minimum|Min)[:\s]+(?:Rs\.?|₹|INR)?\s*([0-9,]+)`,
	`(?:First|Initial)[:\s]+(?:Rs\.?|₹|INR)?\s*([0-9,]+)`,
)

var copayPercentagePatterns = compileAll(
	`(?:Copay|Co-payment|Co payment)[:\s]+([0-9]+)%?`,
	`(?:Share|Contribution)[:\s]+([0-9]+)%?`,
	`([0-9]+)%\s*(?:copay|co-payment)`,
	`([0-9]+)%\s*(?:share|contribution)`,
)

var patientNamePatterns = compileAll(
	`Patient Name[:\s]+([A-Za-z\s]+)`,
	`Patient[:\s]+([A-Za-z\s]+)`,
	`Name[:\s]+([A-Za-z\s]+)`,
	`([A-Za-z\s]+)\s*\(DOB:`,
	`([A-Za-z\s]+)\s*\(Age:`,
	`([A-Za-z\s]+)\s*\(Patient`,
)

var hospitalNamePatterns = compileAll(
	`([A-Za-z\s]+(?:Hospital|Medical|Health|Center|Clinic|Institute|Healthcare)[A-Za-z\s]*)`,
	`([A-Za-z\s]+(?:General|Specialty|Multi|Super)[A-Za-z\s]*(?:Hospital|Medical)[A-Za-z\s]*)`,
	`^([A-Za-z\s]+(?:Hospital|Medical|Health)[A-Za-z\s]*)`,
	`([A-Za-z\s]+(?:Care|Wellness|Treatment)[A-Za-z\s]*(?:Center|Clinic)[A-Za-z\s]*)`,
)

var totalAmountPatterns = compileAll(
	`(?:Grand Total|Final Amount)[:\s]+(?:Rs\.?|₹|INR)?\s*([0-9,]+)`,
	`(?:Total|Amount|Bill|Charges|Cost)[:\s]+(?:Rs\.?|₹|INR)?\s*([0-9,]+)`,
	`(?:Payable|Due)[:\s]+(?:Rs\.?|₹|INR)?\s*([0-9,]+)`,
	`₹\s*([0-9,]+)`,
	`Rs\.?\s*([0-9,]+)`,
	`INR\s*([0-9,]+)`,
	`([0-9,]+)\s*(?:Lakh|Lac|Crore|Cr)`,
)

var serviceDatePatterns = compileAll(
	`(?:Date of Service|Date of Treatment)[:\s]+([0-9-]+)`,
	`(?:Admission Date|Discharge Date)[:\s]+([0-9-]+)`,
	`(?:Date|Admission|Service|Treatment)[:\s]+([0-9-]+)`,
	`([0-9]{1,2}[-/][0-9]{1,2}[-/][0-9]{2,4})`,
	`([0-9]{4}[-/][0-9]{1,2}[-/][0-9]{1,2})`,
)

var procedurePatterns = compileAll(
	`Procedure[:\s]+([A-Za-z\s]+)`,
	`Service[:\s]+([A-Za-z\s]+)`,
	`Treatment[:\s]+([A-Za-z\s]+)`,
	`([A-Za-z\s]+(?:Surgery|Operation|Therapy|Treatment)[A-Za-z\s]*)`,
)

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(`(?i)`+p))
	}
	return out
}
