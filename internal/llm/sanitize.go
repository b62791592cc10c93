package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"github.com/medclaim-ai/claims-engine/constants"
)

// NormalizeAndSanitizeJSON
// - Renames known synonyms (sum_insured -> coverage_amount)
// - Drops null/empty optionals
// - Trims strings
// - Removes unknown keys (strict additionalProperties = false friendliness)
func NormalizeAndSanitizeJSON(raw []byte, docType constants.DocumentType, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	dropped := make([]string, 0, 8)
	renamed := func(from, to string) {
		if v, ok := m[from]; ok {
			// don't overwrite existing value if already present
			if _, exists := m[to]; !exists {
				m[to] = v
			}
			delete(m, from)
			dropped = append(dropped, from+"->"+to)
		}
	}

	// 1) rename synonyms to the canonical schema
	renamed("sum_insured", constants.FieldCoverageAmount)
	renamed("coverage", constants.FieldCoverageAmount)
	renamed("excess", constants.FieldDeductible)
	renamed("copay", constants.FieldCopayPercentage)
	renamed("co_payment", constants.FieldCopayPercentage)
	renamed("grand_total_inr", constants.FieldTotalAmount)
	renamed("amount", constants.FieldTotalAmount)
	renamed("company_name", constants.FieldInsurerName)
	renamed("date", constants.FieldServiceDate)
	renamed("admission_date", constants.FieldServiceDate)

	// 2) drop nulls and empty strings; amounts may stay number or string
	for k, v := range maps.Clone(m) {
		switch t := v.(type) {
		case nil:
			delete(m, k)
			dropped = append(dropped, k+"(null)")
		case string:
			s := strings.TrimSpace(t)
			if s == "" {
				delete(m, k)
				dropped = append(dropped, k+"(empty)")
			} else {
				m[k] = s
			}
		}
	}

	// 3) remove unknown keys (everything not in the schema for this doc type)
	allowed := allowedKeys(docType)
	for k := range maps.Clone(m) {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.extract.normalize_sanitize", "doc_type", string(docType), "dropped", dropped)
	}
	return out, dropped, nil
}

func allowedKeys(docType constants.DocumentType) map[string]struct{} {
	if docType == constants.DocTypePolicy {
		return map[string]struct{}{
			constants.FieldPolicyNumber:    {},
			constants.FieldInsurerName:     {},
			constants.FieldCoverageAmount:  {},
			constants.FieldDeductible:      {},
			constants.FieldCopayPercentage: {},
		}
	}
	return map[string]struct{}{
		constants.FieldPatientName:  {},
		constants.FieldHospitalName: {},
		constants.FieldTotalAmount:  {},
		constants.FieldServiceDate:  {},
		constants.FieldProcedures:   {},
	}
}
