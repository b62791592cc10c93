package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medclaim-ai/claims-engine/constants"
	"github.com/medclaim-ai/claims-engine/internal/llm"
)

// ExtractStructured implements llm.DocumentExtractor using text-only
// chat/completions. The model is constrained by the document-type schema,
// but the returned object is decoded leniently: if the content validates
// against the flat schema we return the sanitized form, otherwise the
// loosely structured object is handed to the mapper as-is.
func (c *Client) ExtractStructured(ctx context.Context, req llm.ExtractRequest) (map[string]any, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"doc_type", string(req.DocumentType),
		"text_len", len(req.RawText),
		"session_id", req.SessionID,
	)

	schema := llm.SchemaFor(req.DocumentType)
	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": buildSystemPrompt(req.DocumentType)},
			{"role": "user", "content": buildUserPrompt(req) + "\n\nReturn ONLY JSON that matches the provided schema."},
			{"role": "system", "content": "JSON Schema:\n" + mustJSON(schema)},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, _, httpErr := llm.SendJSON(ctx, c.httpClient, endpoint, body, map[string]string{
		"Authorization": "Bearer " + c.cfg.APIKey,
	}, c.log)
	if httpErr != nil {
		c.log.Error("llm.extract.http_error",
			"req_id", rid, "error", httpErr,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, nil, httpErr
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.log.Error("llm.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, raw, fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		c.log.Error("llm.extract.no_choices",
			"req_id", rid,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, raw, fmt.Errorf("no choices in openai response")
	}
	content := strings.TrimSpace(cc.Choices[0].Message.Content)
	rawContent := []byte(content)

	obj, err := llm.DecodeLoose(content)
	if err != nil {
		c.log.Error("llm.extract.no_json",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, rawContent, fmt.Errorf("extract json: %w", err)
	}

	// Prefer the sanitized flat form when the content fits the strict
	// schema; otherwise the mapper resolves the nesting via key-paths.
	if c.cfg.LenientSanitize {
		encoded, _ := json.Marshal(obj)
		cleaned, dropped, sErr := llm.NormalizeAndSanitizeJSON(encoded, req.DocumentType, c.log)
		if sErr == nil {
			if vErr := llm.ValidateJSONAgainstSchema(schema, cleaned); vErr == nil {
				var flat map[string]any
				if uErr := json.Unmarshal(cleaned, &flat); uErr == nil {
					if len(dropped) > 0 {
						c.log.Warn("llm.extract.lenient_sanitize_applied",
							"req_id", rid, "dropped", dropped,
							"elapsed_ms", time.Since(start).Milliseconds(),
						)
					}
					obj = flat
				}
			}
		}
	}

	c.log.Info("llm.extract.ok",
		"req_id", rid,
		"doc_type", string(req.DocumentType),
		"keys", len(obj),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return obj, rawContent, nil
}

func buildSystemPrompt(docType constants.DocumentType) string {
	parts := []string{
		"You are an insurance document parser. Return ONLY JSON that matches the JSON Schema provided.",
	}
	if docType == constants.DocTypePolicy {
		parts = append(parts,
			"Extract the policy number, insurer name, coverage amount (sum insured), deductible, and copay percentage.",
			"Report copay_percentage on the 0-100 scale.",
		)
	} else {
		parts = append(parts,
			"Extract the patient name, hospital name, total billed amount, service date, and the list of procedures.",
			"Keep the service date exactly as written in the document.",
		)
	}
	parts = append(parts,
		"Amounts may keep their currency notation (₹, Rs., INR, lakh, crore) as strings.",
		"Never output null. If a field is not present, omit it.",
	)
	return strings.Join(parts, " ")
}

func buildUserPrompt(req llm.ExtractRequest) string {
	var b strings.Builder
	if req.FilenameHint != "" {
		b.WriteString("Filename: ")
		b.WriteString(req.FilenameHint)
		b.WriteString("\n")
	}
	b.WriteString("Document type: ")
	b.WriteString(string(req.DocumentType))
	b.WriteString("\n\nDocument text (first ~3k chars):\n")
	if len(req.RawText) > 3000 {
		b.WriteString(req.RawText[:3000])
	} else {
		b.WriteString(req.RawText)
	}
	return b.String()
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
