package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
)

var (
	reFencedJSON = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")
	reFenced     = regexp.MustCompile("(?s)```\\s*(\\{.*?\\})\\s*```")
)

// DecodeLoose extracts a JSON object from free-form model output. Strategies
// are tried in order:
//
//  1. fenced ```json block
//  2. any fenced block holding an object
//  3. the span from the first '{' to the last '}'
//  4. a repair pass over that span (unquoted keys, trailing commas,
//     single quotes and similar model artifacts)
//
// The empty result (nil, error) means no object could be recovered; callers
// fall back to plain-text pattern extraction.
func DecodeLoose(content string) (map[string]any, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("decode loose: empty content")
	}

	if m := reFencedJSON.FindStringSubmatch(content); m != nil {
		if obj, err := decodeObject(m[1]); err == nil {
			return obj, nil
		}
	}
	if m := reFenced.FindStringSubmatch(content); m != nil {
		if obj, err := decodeObject(m[1]); err == nil {
			return obj, nil
		}
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		span := content[start : end+1]
		if obj, err := decodeObject(span); err == nil {
			return obj, nil
		}
		if repaired, err := jsonrepair.RepairJSON(span); err == nil {
			if obj, err := decodeObject(repaired); err == nil {
				return obj, nil
			}
		}
	}

	// last resort: repair the whole content
	if repaired, err := jsonrepair.RepairJSON(content); err == nil {
		if obj, err := decodeObject(repaired); err == nil {
			return obj, nil
		}
	}

	return nil, fmt.Errorf("decode loose: no JSON object found")
}

func decodeObject(s string) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("decoded null object")
	}
	return m, nil
}
