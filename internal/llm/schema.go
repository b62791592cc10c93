package llm

import "github.com/medclaim-ai/claims-engine/constants"

// BuildPolicyJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. We pass this to the model as a structured output constraint
// and also use it locally to validate.
func BuildPolicyJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			constants.FieldPolicyNumber:    map[string]any{"type": "string", "minLength": 1},
			constants.FieldInsurerName:     map[string]any{"type": "string"},
			constants.FieldCoverageAmount:  amountProp(),
			constants.FieldDeductible:      amountProp(),
			constants.FieldCopayPercentage: map[string]any{"type": []any{"number", "string"}},
		},
		"required": []string{constants.FieldPolicyNumber},
	}
}

// BuildInvoiceJSONSchema returns the schema for invoice extraction output.
func BuildInvoiceJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			constants.FieldPatientName:  map[string]any{"type": "string", "minLength": 1},
			constants.FieldHospitalName: map[string]any{"type": "string"},
			constants.FieldTotalAmount:  amountProp(),
			constants.FieldServiceDate:  map[string]any{"type": "string"},
			constants.FieldProcedures: map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []string{constants.FieldPatientName, constants.FieldTotalAmount},
	}
}

// SchemaFor picks the schema for a document type.
func SchemaFor(docType constants.DocumentType) map[string]any {
	if docType == constants.DocTypePolicy {
		return BuildPolicyJSONSchema()
	}
	return BuildInvoiceJSONSchema()
}

// amountProp accepts either a plain number or a currency-decorated string
// ("₹1,00,000", "5 lakh"); the numeric normalizer owns the conversion.
func amountProp() map[string]any {
	return map[string]any{"type": []any{"number", "string"}}
}
