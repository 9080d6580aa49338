package analysis

import "testing"

func TestNormalizeHealthyRule(t *testing.T) {
	cases := []struct {
		name    string
		disease string
		want    Status
	}{
		{"plain healthy", "healthy", StatusHealthy},
		{"dataset healthy", "Tomato___healthy", StatusHealthy},
		{"mixed case", "Pepper HEALTHY leaf", StatusHealthy},
		{"diseased", "Tomato___Early_blight", StatusDiseased},
		{"empty name", "", StatusDiseased},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(RawScan{DiseaseName: tc.disease})
			if got.Status != tc.want {
				t.Errorf("Normalize(%q).Status = %q, want %q", tc.disease, got.Status, tc.want)
			}
		})
	}
}

func TestNormalizeWrapsRecommendation(t *testing.T) {
	raw := RawScan{
		DiseaseName:    "Tomato___Late_blight",
		Confidence:     0.91,
		Recommendation: "Remove infected plants; Apply fungicide",
		Timestamp:      "2026-08-01T10:00:00Z",
		ImageHash:      "abc123",
	}

	got := Normalize(raw)
	if len(got.Recommendations) != 1 {
		t.Fatalf("Recommendations length = %d, want 1 (string must not be split)", len(got.Recommendations))
	}
	if got.Recommendations[0] != raw.Recommendation {
		t.Errorf("Recommendations[0] = %q, want %q", got.Recommendations[0], raw.Recommendation)
	}
	if got.Analysis != raw.Recommendation {
		t.Errorf("Analysis = %q, want %q", got.Analysis, raw.Recommendation)
	}
	if got.Disease != raw.DiseaseName || got.Confidence != raw.Confidence {
		t.Errorf("carried fields = (%q, %v), want (%q, %v)", got.Disease, got.Confidence, raw.DiseaseName, raw.Confidence)
	}
	if got.Timestamp != raw.Timestamp || got.ImageHash != raw.ImageHash {
		t.Errorf("timestamp/hash = (%q, %q), want (%q, %q)", got.Timestamp, got.ImageHash, raw.Timestamp, raw.ImageHash)
	}
}

func TestRenormalizeRendersIdentically(t *testing.T) {
	raws := []RawScan{
		{
			DiseaseName:    "Tomato___Early_blight",
			Confidence:     0.8765,
			Recommendation: "Remove lower infected leaves",
			Timestamp:      "2026-08-01T10:00:00Z",
			ImageHash:      "deadbeef",
		},
		{
			DiseaseName:    "Tomato___healthy",
			Confidence:     0.99,
			Recommendation: "Continue regular watering schedule",
			Timestamp:      "2026-08-02T09:30:00Z",
		},
	}

	for _, raw := range raws {
		first := Normalize(raw)
		// Feed the normalized fields back through as if they were a fresh payload.
		again := Normalize(RawScan{
			DiseaseName:    first.Disease,
			Confidence:     first.Confidence,
			Recommendation: first.Analysis,
			Timestamp:      first.Timestamp,
			ImageHash:      first.ImageHash,
		})
		if got, want := Report(again), Report(first); got != want {
			t.Errorf("re-normalizing %q changed the rendered output:\nfirst:\n%s\nagain:\n%s", raw.DiseaseName, want, got)
		}
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	raw := RawScan{DiseaseName: "Tomato___healthy", Confidence: 0.99, Recommendation: "keep it up"}
	a := Normalize(raw)
	b := Normalize(raw)
	if a.Status != b.Status || a.Disease != b.Disease || a.Recommendations[0] != b.Recommendations[0] {
		t.Error("Normalize is not deterministic for identical input")
	}
}

func TestEmptyResult(t *testing.T) {
	got := EmptyResult()
	if got.Status != StatusHealthy {
		t.Errorf("Status = %q, want %q", got.Status, StatusHealthy)
	}
	if got.Disease != "none" {
		t.Errorf("Disease = %q, want %q", got.Disease, "none")
	}
	if got.Confidence != 0 {
		t.Errorf("Confidence = %v, want 0", got.Confidence)
	}
	if len(got.Recommendations) != 0 {
		t.Errorf("Recommendations = %v, want empty", got.Recommendations)
	}
}
