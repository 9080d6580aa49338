package analysis

import "strings"

// Status classifies a scan outcome.
type Status string

const (
	StatusHealthy  Status = "healthy"
	StatusDiseased Status = "diseased"
)

// RawScan is the wire shape returned by POST /analyze and by each item of
// GET /scans, before normalization.
type RawScan struct {
	ID             uint    `json:"id,omitempty"`
	UserID         uint    `json:"user_id,omitempty"`
	DiseaseName    string  `json:"disease_name"`
	Confidence     float64 `json:"confidence"`
	Recommendation string  `json:"recommendation"`
	Timestamp      string  `json:"timestamp"`
	ImageHash      string  `json:"image_hash,omitempty"`
}

// Result is the canonical entity every display surface consumes. Results are
// immutable once constructed; a new scan produces a fresh Result.
type Result struct {
	Status          Status   `json:"status"`
	Disease         string   `json:"disease"`
	Confidence      float64  `json:"confidence"`
	Analysis        string   `json:"analysis"`
	Recommendations []string `json:"recommendations"`
	Timestamp       string   `json:"timestamp"`
	ImageHash       string   `json:"image_hash,omitempty"`
}

// Normalize maps a raw backend payload to a Result. A scan counts as healthy
// when the disease name contains "healthy" in any casing; this is the single
// classification rule for both fresh scans and history records. The one
// recommendation string is wrapped into a one-element slice, never split.
func Normalize(raw RawScan) Result {
	status := StatusDiseased
	if strings.Contains(strings.ToLower(raw.DiseaseName), "healthy") {
		status = StatusHealthy
	}
	return Result{
		Status:          status,
		Disease:         raw.DiseaseName,
		Confidence:      raw.Confidence,
		Analysis:        raw.Recommendation,
		Recommendations: []string{raw.Recommendation},
		Timestamp:       raw.Timestamp,
		ImageHash:       raw.ImageHash,
	}
}

// EmptyResult is the safe default surfaced when an analysis request fails:
// healthy, no disease, zero confidence, nothing to recommend.
func EmptyResult() Result {
	return Result{
		Status:          StatusHealthy,
		Disease:         "none",
		Confidence:      0,
		Analysis:        "",
		Recommendations: []string{},
		Timestamp:       "",
	}
}
