package routine

import (
	"encoding/json"
	"strings"

	apperrors "github.com/glowedge/skincare-backend/pkg/errors"
)

// malformedSnippetLen bounds how much offending text rides along in a
// malformed_response error for diagnostics.
const malformedSnippetLen = 500

type draftPayload struct {
	Steps                 json.RawMessage `json:"steps"`
	CompatibilityWarnings []string        `json:"compatibilityWarnings"`
	EstimatedDuration     *int            `json:"estimatedDuration"`
	Tips                  []string        `json:"tips"`
}

type draftStepPayload struct {
	StepNumber  int    `json:"stepNumber"`
	ProductName string `json:"productName"`
	Instruction string `json:"instruction"`
	WaitTime    int    `json:"waitTime"`
}

// parseDraft turns raw model output into a validated Draft. The provider's
// completion status is honored first, then the text is cleaned of code
// fences, the first balanced brace span is extracted greedily, and the JSON
// payload is decoded and normalized.
func parseDraft(text string, status CompletionStatus, cfg Config) (Draft, error) {
	switch status {
	case CompletionStatusTruncated:
		return Draft{}, apperrors.Wrap(apperrors.CodeTruncatedResponse,
			"response was cut off by the length limit, retry with a smaller product list", nil)
	case CompletionStatusBlocked:
		return Draft{}, apperrors.Wrap(apperrors.CodeContentBlocked,
			"response was blocked by the provider's safety filter", nil)
	}

	cleaned := stripCodeFences(text)
	payload := cleaned
	if start := strings.Index(cleaned, "{"); start >= 0 {
		payload = cleaned[start:]
		if end := strings.LastIndex(payload, "}"); end >= 0 {
			payload = payload[:end+1]
		}
		// a span that never closes is a truncated response, not a malformed one
		if !strings.HasSuffix(strings.TrimSpace(payload), "}") {
			return Draft{}, apperrors.Wrap(apperrors.CodeTruncatedResponse,
				"response JSON is incomplete, retry with a smaller product list", nil)
		}
	}

	var decoded draftPayload
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return Draft{}, apperrors.Wrap(apperrors.CodeMalformedResponse,
			"response is not valid JSON: "+snippet(payload, malformedSnippetLen), err)
	}
	if decoded.Steps == nil {
		return Draft{}, apperrors.Wrap(apperrors.CodeMalformedResponse,
			"response is missing the steps field: "+snippet(payload, malformedSnippetLen), nil)
	}
	var rawSteps []draftStepPayload
	if err := json.Unmarshal(decoded.Steps, &rawSteps); err != nil {
		return Draft{}, apperrors.Wrap(apperrors.CodeMalformedResponse,
			"steps field is not a sequence: "+snippet(string(decoded.Steps), malformedSnippetLen), err)
	}

	draft := Draft{
		Steps:                    make([]DraftStep, 0, len(rawSteps)),
		CompatibilityWarnings:    decoded.CompatibilityWarnings,
		EstimatedDurationMinutes: cfg.DefaultDurationMinutes,
		Tips:                     decoded.Tips,
	}
	for _, step := range rawSteps {
		draft.Steps = append(draft.Steps, DraftStep{
			StepNumber:      step.StepNumber,
			ProductName:     step.ProductName,
			Instruction:     step.Instruction,
			WaitTimeMinutes: step.WaitTime,
		})
	}
	if draft.CompatibilityWarnings == nil {
		draft.CompatibilityWarnings = []string{}
	}
	if decoded.EstimatedDuration != nil {
		draft.EstimatedDurationMinutes = *decoded.EstimatedDuration
	}
	if draft.Tips == nil {
		draft.Tips = []string{}
	}
	if cfg.MaxTips > 0 && len(draft.Tips) > cfg.MaxTips {
		draft.Tips = draft.Tips[:cfg.MaxTips]
	}
	return draft, nil
}

// stripCodeFences removes leading/trailing markdown fence markers, including
// the ```json language tag, without touching interior content.
func stripCodeFences(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = cleaned[3:]
		if strings.HasPrefix(strings.ToLower(cleaned), "json") {
			cleaned = cleaned[4:]
		}
	}
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

func snippet(body string, max int) string {
	if max <= 0 || len(body) <= max {
		return body
	}
	return body[:max] + "..."
}
