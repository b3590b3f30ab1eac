package scanning

import (
	"encoding/json"
	"fmt"
	"strings"
)

// stripFences removes a surrounding markdown code fence from the model's
// response. The model is told not to wrap its output, but commonly returns
// ```json ... ``` anyway. The first line (the opening fence, with or without
// a language tag) and a trailing fence line are dropped.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	lines := strings.Split(text, "\n")
	lines = lines[1:]
	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// parseScanResult parses the model's free-text response into a ScanResult.
// It first strips any markdown fences and attempts a strict JSON parse; if
// that fails it falls back to the span between the first { and the last },
// which tolerates stray prose around the object. Anything still unparseable
// is a MalformedResponseError.
func parseScanResult(text string) (*ScanResult, error) {
	text = stripFences(text)

	var result ScanResult
	err := json.Unmarshal([]byte(text), &result)
	if err != nil {
		startIdx := strings.Index(text, "{")
		endIdx := strings.LastIndex(text, "}")
		if startIdx == -1 || endIdx < startIdx {
			return nil, &MalformedResponseError{Err: fmt.Errorf("no JSON object found in response: %w", err)}
		}
		result = ScanResult{}
		if err := json.Unmarshal([]byte(text[startIdx:endIdx+1]), &result); err != nil {
			return nil, &MalformedResponseError{Err: err}
		}
	}

	// Keep the response shape stable: items is always an array, and an item
	// without an explicit quantity counts as one.
	if result.Items == nil {
		result.Items = []ReceiptItem{}
	}
	for i := range result.Items {
		if result.Items[i].Quantity == 0 {
			result.Items[i].Quantity = 1
		}
	}

	return &result, nil
}
