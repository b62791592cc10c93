// Package claimform merges extracted policy and invoice records, plus
// caller-supplied overrides, into a single claim-form record with a
// missing-field report.
package claimform

import (
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/medclaim-ai/claims-engine/constants"
	"github.com/medclaim-ai/claims-engine/internal/entity"
)

// fieldAliases lists the candidate keys tried per canonical claim field,
// in order. The merge is first-truthy-wins across overrides, then the
// policy record, then the invoice record.
var fieldAliases = map[string][]string{
	constants.FieldPatientName:  {constants.FieldPatientName, "policyholder_name", "name"},
	constants.FieldHospitalName: {constants.FieldHospitalName, "provider_name"},
	constants.FieldServiceDate:  {constants.FieldServiceDate, "date", "admission_date"},
	constants.FieldTotalAmount:  {constants.FieldTotalAmount, "amount", "bill"},
}

// Options controls claim ID generation.
type Options struct {
	// SessionID scopes the claim ID; only its first 8 characters are used.
	// Collisions across sessions sharing that prefix are an accepted
	// limitation. A fresh ID is generated when empty.
	SessionID string
	// Vendor names the claim-form vendor template; empty means a synthetic
	// form ("SYN" prefix).
	Vendor string
}

// Assembler builds claim-form records. It performs no I/O; rendering the
// record is a downstream concern.
type Assembler struct {
	logger *slog.Logger
}

func NewAssembler(logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{logger: logger}
}

// Assemble merges the two records and overrides into the canonical claim
// form. Any field still falsy afterwards (empty string, zero, empty list)
// is reported in MissingFields under its human-readable name; a
// legitimately-zero numeric field is reported too, matching the source
// convention that overloads 0 as unset.
func (a *Assembler) Assemble(policy entity.PolicyFields, invoice entity.InvoiceFields, overrides map[string]any, opts Options) entity.ClaimFormRecord {
	sources := []map[string]any{overrides, policy.ToMap(), invoice.ToMap()}

	fields := make(map[string]any, len(constants.ClaimFormFields))
	missing := []string{}
	for _, name := range constants.ClaimFormFields {
		v := firstTruthy(sources, aliasesFor(name))
		if v == nil {
			v = emptyValueFor(name)
		}
		fields[name] = v
		if !truthy(v) {
			missing = append(missing, humanizeFieldName(name))
		}
	}

	rec := entity.ClaimFormRecord{
		ClaimID:       claimID(opts),
		Fields:        fields,
		MissingFields: missing,
	}
	if len(missing) > 0 {
		a.logger.Info("claimform.assembled_with_gaps", "claim_id", rec.ClaimID, "missing", missing)
	} else {
		a.logger.Info("claimform.assembled", "claim_id", rec.ClaimID)
	}
	return rec
}

func aliasesFor(name string) []string {
	if al, ok := fieldAliases[name]; ok {
		return al
	}
	return []string{name}
}

// firstTruthy walks each source in priority order, trying every alias
// within a source before moving on.
func firstTruthy(sources []map[string]any, aliases []string) any {
	for _, src := range sources {
		if src == nil {
			continue
		}
		for _, key := range aliases {
			if v, ok := src[key]; ok && truthy(v) {
				return v
			}
		}
	}
	return nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case float64:
		return t != 0
	case float32:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case bool:
		return t
	case []string:
		return len(t) > 0
	case []any:
		return len(t) > 0
	default:
		return true
	}
}

func emptyValueFor(name string) any {
	if name == constants.FieldProcedures {
		return []string{}
	}
	return ""
}

// claimID builds the short deterministic identifier: "SYN" or the uppercased
// vendor name, joined with the first 8 characters of the session ID.
func claimID(opts Options) string {
	prefix := "SYN"
	if v := strings.TrimSpace(opts.Vendor); v != "" {
		prefix = strings.ToUpper(strings.ReplaceAll(v, " ", "_"))
	}
	session := opts.SessionID
	if session == "" {
		session = uuid.New().String()
	}
	if len(session) > 8 {
		session = session[:8]
	}
	return prefix + "_" + strings.ToUpper(session)
}

// humanizeFieldName turns "hospital_name" into "Hospital Name".
func humanizeFieldName(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
