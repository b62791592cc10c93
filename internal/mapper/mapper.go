// Package mapper projects loosely structured JSON objects (typically LLM
// extraction output) onto the canonical policy/invoice field schema using
// priority-ordered dotted key-paths.
package mapper

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/medclaim-ai/claims-engine/constants"
	"github.com/medclaim-ai/claims-engine/internal/entity"
	"github.com/medclaim-ai/claims-engine/internal/numeric"
)

// Key-path lists are tried in order; the first path resolving to a non-null,
// non-empty value wins. A missing key or non-mapping intermediate counts as
// "not found" and moves evaluation to the next path.
var (
	patientNamePaths = []string{
		"patient_details.patient_name",
		"patient.name",
		"patient_name",
		"patient_details.name",
	}
	hospitalNamePaths = []string{
		"hospital_details.name",
		"invoice_details.hospital_name",
		"hospital_name",
		"hospital.name",
	}
	totalAmountPaths = []string{
		"billing_details.grand_total_inr",
		"billing_details.total_amount",
		"total_amount",
		"amount",
		"invoice_details.total",
	}
	serviceDatePaths = []string{
		"invoice_details.date_of_admission",
		"billing_details.service_date",
		"service_date",
		"date",
		"admission_date",
	}

	policyNumberPaths = []string{
		"policy_details.policy_number",
		"policy_number",
		"policy.policy_number",
	}
	insurerNamePaths = []string{
		"policy_details.insurer_name",
		"insurer_name",
		"insurer.name",
		"company_name",
	}
	coverageAmountPaths = []string{
		"policy_details.coverage_amount",
		"coverage_amount",
		"sum_insured",
		"coverage",
	}
	deductiblePaths = []string{
		"policy_details.deductible",
		"deductible",
		"excess",
	}
	copayPercentagePaths = []string{
		"policy_details.copay_percentage",
		"copay_percentage",
		"copay",
		"co_payment",
	}

	// procedure containers, checked in priority order; the first location
	// holding a non-empty list wins and the rest are not merged in.
	procedureLocations = []string{
		"billing_details.line_items",
		"procedures",
		"line_items",
		"services",
		"treatments",
	}

	// keys tried on a mapping-shaped procedure entry before stringifying it
	procedureItemKeys = []string{"description", "procedure", "service", "treatment"}
)

// Mapper resolves canonical fields out of arbitrary nested maps. Malformed
// structure never aborts a record; it degrades to "not found" per field.
type Mapper struct {
	logger *slog.Logger
}

func NewMapper(logger *slog.Logger) *Mapper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mapper{logger: logger}
}

// PolicyFields maps a raw JSON object onto the canonical policy record.
func (m *Mapper) PolicyFields(raw map[string]any) entity.PolicyFields {
	return entity.PolicyFields{
		PolicyNumber:    m.stringAt(raw, policyNumberPaths),
		InsurerName:     m.stringAt(raw, insurerNamePaths),
		CoverageAmount:  m.numberAt(raw, coverageAmountPaths),
		Deductible:      m.numberAt(raw, deductiblePaths),
		CopayPercentage: m.percentAt(raw, copayPercentagePaths),
	}
}

// InvoiceFields maps a raw JSON object onto the canonical invoice record.
func (m *Mapper) InvoiceFields(raw map[string]any) entity.InvoiceFields {
	return entity.InvoiceFields{
		PatientName:  m.stringAt(raw, patientNamePaths),
		HospitalName: m.stringAt(raw, hospitalNamePaths),
		TotalAmount:  m.numberAt(raw, totalAmountPaths),
		ServiceDate:  m.stringAt(raw, serviceDatePaths),
		Procedures:   m.procedures(raw),
	}
}

// Structured dispatches on the document type and returns the flattened
// canonical field map. An unknown document type is a programmer error.
func (m *Mapper) Structured(raw map[string]any, docType constants.DocumentType) (map[string]any, error) {
	switch docType {
	case constants.DocTypePolicy:
		return m.PolicyFields(raw).ToMap(), nil
	case constants.DocTypeInvoice:
		return m.InvoiceFields(raw).ToMap(), nil
	default:
		dt, err := constants.ParseDocumentType(string(docType))
		if err != nil {
			return nil, err
		}
		return m.Structured(raw, dt)
	}
}

// resolve walks one dotted path through nested maps. A missing key or a
// non-map intermediate reports not-found.
func resolve(raw map[string]any, path string) (any, bool) {
	var cur any = raw
	for _, key := range strings.Split(path, ".") {
		node, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = node[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// firstValue returns the first path whose value is neither nil nor "".
func firstValue(raw map[string]any, paths []string) (any, bool) {
	for _, path := range paths {
		v, ok := resolve(raw, path)
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && s == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

func (m *Mapper) stringAt(raw map[string]any, paths []string) string {
	v, ok := firstValue(raw, paths)
	if !ok {
		return constants.StringSentinel
	}
	s := strings.TrimSpace(fmt.Sprintf("%v", v))
	if s == "" {
		return constants.StringSentinel
	}
	return s
}

func (m *Mapper) numberAt(raw map[string]any, paths []string) float64 {
	v, ok := firstValue(raw, paths)
	if !ok {
		return 0
	}
	return numeric.Normalize(v)
}

// percentAt keeps copay on the 0..100 scale; "20%" maps to 20, not 0.2.
func (m *Mapper) percentAt(raw map[string]any, paths []string) float64 {
	v, ok := firstValue(raw, paths)
	if !ok {
		return 0
	}
	return numeric.NormalizePercentage(v)
}

func (m *Mapper) procedures(raw map[string]any) []string {
	out := []string{}
	for _, loc := range procedureLocations {
		items, ok := resolve(raw, loc)
		if !ok {
			continue
		}
		list, isList := items.([]any)
		if !isList || len(list) == 0 {
			continue
		}
		for _, item := range list {
			p := procedureName(item)
			if p != "" && p != constants.StringSentinel {
				out = append(out, p)
			}
		}
		break
	}
	return out
}

func procedureName(item any) string {
	if node, ok := item.(map[string]any); ok {
		for _, key := range procedureItemKeys {
			if v, ok := node[key]; ok && v != nil {
				if s := strings.TrimSpace(fmt.Sprintf("%v", v)); s != "" {
					return s
				}
			}
		}
		return strings.TrimSpace(fmt.Sprintf("%v", node))
	}
	return strings.TrimSpace(fmt.Sprintf("%v", item))
}
