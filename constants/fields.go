package constants

// Canonical field names. All extraction paths (regex, key-path mapping,
// LLM JSON) converge onto these slots.
const (
	FieldPolicyNumber    = "policy_number"
	FieldInsurerName     = "insurer_name"
	FieldCoverageAmount  = "coverage_amount"
	FieldDeductible      = "deductible"
	FieldCopayPercentage = "copay_percentage"

	FieldPatientName  = "patient_name"
	FieldHospitalName = "hospital_name"
	FieldTotalAmount  = "total_amount"
	FieldServiceDate  = "service_date"
	FieldProcedures   = "procedures"
)

// StringSentinel is the value string fields carry when extraction found nothing.
// Downstream consumers rely on it instead of null.
const StringSentinel = "N/A"

// NumericFieldAllowList names the fields the numeric normalizer is applied to
// before coverage calculation. Fields outside this list pass through unmodified.
var NumericFieldAllowList = []string{
	FieldCoverageAmount,
	FieldDeductible,
	FieldTotalAmount,
	FieldCopayPercentage,
	"sum_insured",
	"limit",
	"amount",
	"cost",
	"charges",
	"bill",
}

// ClaimFormFields is the canonical claim form layout, in render order.
var ClaimFormFields = []string{
	FieldPatientName,
	FieldPolicyNumber,
	FieldInsurerName,
	FieldHospitalName,
	FieldServiceDate,
	FieldTotalAmount,
	FieldProcedures,
	FieldCoverageAmount,
	FieldDeductible,
	FieldCopayPercentage,
}
