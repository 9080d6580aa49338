package gateway

import (
	"encoding/json"
	"strings"
)

// Verdict is the structured shape the model is prompted to produce.
// Confidence is on the model's 0-100 scale.
type Verdict struct {
	Status     string  `json:"status"`
	Disease    string  `json:"disease"`
	Confidence float64 `json:"confidence"`
	Analysis   string  `json:"analysis"`
}

// ParseVerdict extracts a Verdict from a free-text model reply. The model is
// asked for bare JSON but often wraps it in prose or a markdown fence, so an
// embedded-object scan runs first, then a direct full-body parse. A reply
// that yields neither fails with ErrMalformedReply; a string merely
// containing braces is never treated as implicit success.
func ParseVerdict(content string) (Verdict, error) {
	if obj := extractJSONObject(content); obj != "" {
		if v, ok := decodeVerdict(obj); ok {
			return v, nil
		}
	}
	if v, ok := decodeVerdict(content); ok {
		return v, nil
	}
	return Verdict{}, ErrMalformedReply
}

func decodeVerdict(s string) (Verdict, bool) {
	var v Verdict
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return Verdict{}, false
	}
	if v.Status != "healthy" && v.Status != "diseased" {
		return Verdict{}, false
	}
	return v, true
}

// extractJSONObject returns the first brace-balanced object in s, or "".
// Tolerates surrounding prose and ```json fencing.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
