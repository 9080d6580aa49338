package analysis

import (
	"fmt"
	"strings"
)

// StatusLabel returns the human label for a status.
func StatusLabel(s Status) string {
	if s == StatusHealthy {
		return "Healthy"
	}
	return "Diseased"
}

// FormatDiseaseName makes dataset-style labels readable: triple-underscore
// groups become " - " and remaining underscores become spaces, so
// "Tomato___Early_blight" renders as "Tomato - Early blight".
func FormatDiseaseName(name string) string {
	parts := strings.Split(name, "___")
	for i, part := range parts {
		parts[i] = strings.ReplaceAll(part, "_", " ")
	}
	return strings.Join(parts, " - ")
}

// FormatConfidence renders a [0,1] confidence as a percentage with two
// decimal places, e.g. 0.8765 -> "87.65%".
func FormatConfidence(confidence float64) string {
	return fmt.Sprintf("%.2f%%", confidence*100)
}

// Report renders a Result as a plain-text block: status, disease, confidence,
// analysis text, and a numbered recommendation list. Pure; no side effects.
func Report(r Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Status:     %s\n", StatusLabel(r.Status))
	if r.Status == StatusDiseased && r.Disease != "none" {
		fmt.Fprintf(&b, "Disease:    %s\n", FormatDiseaseName(r.Disease))
	}
	fmt.Fprintf(&b, "Confidence: %s\n", FormatConfidence(r.Confidence))
	if r.Timestamp != "" {
		fmt.Fprintf(&b, "Scanned:    %s\n", r.Timestamp)
	}
	if r.ImageHash != "" {
		fmt.Fprintf(&b, "Image hash: %s\n", r.ImageHash)
	}
	if r.Analysis != "" {
		fmt.Fprintf(&b, "\nAnalysis:\n%s\n", r.Analysis)
	}
	if len(r.Recommendations) > 0 {
		b.WriteString("\nRecommended actions:\n")
		for i, rec := range r.Recommendations {
			fmt.Fprintf(&b, "%d. %s\n", i+1, rec)
		}
	}
	return b.String()
}
