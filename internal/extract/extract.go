// Package extract recovers canonical policy and invoice fields from raw
// document text using ordered, first-match-wins pattern rules.
package extract

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/medclaim-ai/claims-engine/constants"
	"github.com/medclaim-ai/claims-engine/internal/entity"
)

// Extractor applies the pattern rule tables to raw text. It holds no state
// beyond its logger and is safe for concurrent use.
type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// PolicyFields extracts the canonical policy record from raw text.
// Extraction is total: any internal panic degrades to the full default
// structure instead of propagating.
func (e *Extractor) PolicyFields(rawText string) (out entity.PolicyFields) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("extract.policy.recovered", "panic", r)
			out = entity.DefaultPolicyFields()
		}
	}()

	out = entity.PolicyFields{
		PolicyNumber:    e.firstMatch(rawText, policyNumberPatterns, acceptAny),
		InsurerName:     e.firstMatch(rawText, insurerNamePatterns, acceptLongerThan(2)),
		CoverageAmount:  e.firstNumber(rawText, coverageAmountPatterns),
		Deductible:      e.firstNumber(rawText, deductiblePatterns),
		CopayPercentage: e.firstNumber(rawText, copayPercentagePatterns),
	}
	return out
}

// InvoiceFields extracts the canonical invoice record from raw text, with
// the same totality guarantee as PolicyFields.
func (e *Extractor) InvoiceFields(rawText string) (out entity.InvoiceFields) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("extract.invoice.recovered", "panic", r)
			out = entity.DefaultInvoiceFields()
		}
	}()

	out = entity.InvoiceFields{
		PatientName:  e.firstMatch(rawText, patientNamePatterns, acceptLongerThan(2)),
		HospitalName: e.firstMatch(rawText, hospitalNamePatterns, acceptLongerThan(2)),
		TotalAmount:  e.firstNumber(rawText, totalAmountPatterns),
		ServiceDate:  e.firstMatch(rawText, serviceDatePatterns, acceptLongerThan(4)),
		Procedures:   e.procedures(rawText),
	}
	return out
}

// Fields dispatches on the document type and returns the flattened canonical
// field map. An unknown document type is a programmer error and fails fast.
func (e *Extractor) Fields(rawText string, docType constants.DocumentType) (map[string]any, error) {
	switch docType {
	case constants.DocTypePolicy:
		return e.PolicyFields(rawText).ToMap(), nil
	case constants.DocTypeInvoice:
		return e.InvoiceFields(rawText).ToMap(), nil
	default:
		dt, err := constants.ParseDocumentType(string(docType))
		if err != nil {
			return nil, err
		}
		return e.Fields(rawText, dt)
	}
}

// accept checks decide whether a captured group counts as a hit; a rejected
// capture moves evaluation to the next pattern in the list.
type accept func(string) bool

func acceptAny(string) bool { return true }

func acceptLongerThan(n int) accept {
	return func(s string) bool { return len(s) > n }
}

func (e *Extractor) firstMatch(text string, patterns []*regexp.Regexp, ok accept) string {
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		got := strings.TrimSpace(m[1])
		if got != "" && ok(got) {
			return got
		}
	}
	return constants.StringSentinel
}

// firstNumber strips thousands separators from the first capture that parses
// to a positive integer. All-patterns-miss or parse failure yields 0.
func (e *Extractor) firstNumber(text string, patterns []*regexp.Regexp) float64 {
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		cleaned := strings.ReplaceAll(strings.TrimSpace(m[1]), ",", "")
		n, err := strconv.ParseInt(cleaned, 10, 64)
		if err != nil {
			e.logger.Warn("extract.number.unparsed", "raw", m[1], "pattern", re.String())
			continue
		}
		if n > 0 {
			return float64(n)
		}
	}
	return 0
}

// procedures collects every match across all procedure patterns, trims, drops
// entries of 3 characters or fewer, and deduplicates. First-seen order is
// preserved; consumers must not rely on any particular order.
func (e *Extractor) procedures(text string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, re := range procedurePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			p := strings.TrimSpace(m[1])
			if len(p) <= 3 {
				continue
			}
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}
