// Package numeric converts heterogeneous numeric-ish strings from insurance
// documents (currency prefixes, percent signs, Indian lakh/crore units,
// thousands separators) into canonical float64 values.
package numeric

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"github.com/medclaim-ai/claims-engine/constants"
)

// currencyPrefixes are stripped from the start of a value, longest first so
// "Rs." wins over "Rs".
var currencyPrefixes = []string{"₹", "Rs.", "Rs", "INR", "USD", "$", "€", "£", "¥"}

// Normalize converts a raw value into a float64. Numbers pass through as-is.
// Strings are cleaned of currency prefixes and separators; "%" divides the
// parsed number by 100; "lakh"/"lac" multiplies by 1e5 and "crore"/"cr" by
// 1e7. Anything unparseable yields 0.0 — this function never fails.
//
// The percent division is generic value cleaning only. Copay percentages are
// stored as 0..100 by the extractor and mapper and do not pass through here.
func Normalize(raw any) float64 {
	switch v := raw.(type) {
	case nil:
		return 0
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	case string:
		return normalizeString(v)
	default:
		return 0
	}
}

func normalizeString(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	for _, p := range currencyPrefixes {
		if strings.HasPrefix(s, p) {
			s = strings.TrimSpace(strings.TrimPrefix(s, p))
			break
		}
	}

	percent := strings.Contains(s, "%")

	lower := strings.ToLower(s)
	multiplier := 1.0
	switch {
	case strings.Contains(lower, "lakh") || strings.Contains(lower, "lac"):
		multiplier = 100_000
	case strings.Contains(lower, "crore") || strings.Contains(lower, "cr"):
		multiplier = 10_000_000
	}

	f, ok := parseFloatLoose(s)
	if !ok {
		return 0
	}
	f *= multiplier
	if percent {
		f /= 100
	}
	return f
}

// parseFloatLoose strips everything except digits, '.', and '-' and parses
// the residue. Reports false when nothing numeric remains.
func parseFloatLoose(s string) (float64, bool) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// NormalizePercentage parses a copay-style percentage and keeps the 0..100
// scale: a trailing "%" is stripped without dividing. This is the canonical
// storage path for copay_percentage; Normalize's percent division is for
// generic value cleaning only.
func NormalizePercentage(raw any) float64 {
	if s, ok := raw.(string); ok {
		f, parsed := parseFloatLoose(s)
		if !parsed {
			return 0
		}
		return f
	}
	return Normalize(raw)
}

// NormalizeAmountFields applies Normalize to every field on the numeric
// allow-list, leaving other fields untouched. Parse failures degrade to 0
// and are logged for diagnostics only.
func NormalizeAmountFields(fields map[string]any, logger *slog.Logger) map[string]any {
	if logger == nil {
		logger = slog.Default()
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	for _, name := range constants.NumericFieldAllowList {
		raw, ok := out[name]
		if !ok {
			continue
		}
		n := Normalize(raw)
		if n == 0 {
			if s, isStr := raw.(string); isStr && strings.TrimSpace(s) != "" && s != "0" {
				logger.Warn("numeric.normalize.unparsed", "field", name, "raw", s)
			}
		}
		out[name] = n
	}
	return out
}
