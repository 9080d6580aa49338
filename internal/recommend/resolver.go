// Package recommend maps detected disease labels to treatment advice using a
// fixed table loaded at process start.
package recommend

import "strings"

// Resolve maps a detected disease label to a treatment entry. First match
// wins: exact case-sensitive key match, then a case-insensitive substring
// match in either direction in table order, then a generic fallback that
// echoes the label back as given. The returned advice slice is a fresh copy.
func Resolve(disease string) Entry {
	for _, r := range records {
		if r.key == disease {
			return copyEntry(r.entry)
		}
	}

	lower := strings.ToLower(disease)
	for _, r := range records {
		key := strings.ToLower(r.key)
		if strings.Contains(lower, key) || strings.Contains(key, lower) {
			return copyEntry(r.entry)
		}
	}

	return Entry{
		Disease:         disease,
		Recommendations: append([]string(nil), defaultAdvice...),
	}
}

// HealthyAdvice returns the maintain-current-care list for healthy scans.
// Healthy results never go through Resolve.
func HealthyAdvice() []string {
	return append([]string(nil), healthyAdvice...)
}

func copyEntry(e Entry) Entry {
	return Entry{
		Disease:         e.Disease,
		Recommendations: append([]string(nil), e.Recommendations...),
	}
}
