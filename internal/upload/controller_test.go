package upload

import (
	"context"
	"errors"
	"strings"
	"testing"

	"agriguard/internal/analysis"
	"agriguard/internal/client"
)

type fakeAnalyzer struct {
	authenticated bool
	calls         int
	raw           analysis.RawScan
	err           error
}

func (f *fakeAnalyzer) IsAuthenticated() bool { return f.authenticated }

func (f *fakeAnalyzer) Analyze(ctx context.Context, image []byte, filename string) (analysis.RawScan, error) {
	f.calls++
	return f.raw, f.err
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk error") }

func TestSelectRejectsNonImage(t *testing.T) {
	api := &fakeAnalyzer{authenticated: true}
	c := NewController(api, nil)

	err := c.Select("notes.txt", "text/plain", strings.NewReader("hello"))
	if !errors.Is(err, ErrInvalidFileType) {
		t.Fatalf("error = %v, want ErrInvalidFileType", err)
	}
	if c.State() != StateIdle {
		t.Errorf("state = %v, want idle", c.State())
	}
	if api.calls != 0 {
		t.Errorf("rejected select made %d network calls, want 0", api.calls)
	}
}

func TestSelectReadFailureDiscards(t *testing.T) {
	c := NewController(&fakeAnalyzer{}, nil)
	if err := c.Select("a.png", "image/png", strings.NewReader("img")); err != nil {
		t.Fatal(err)
	}

	err := c.Select("b.png", "image/png", failingReader{})
	if !errors.Is(err, ErrFileRead) {
		t.Fatalf("error = %v, want ErrFileRead", err)
	}
	if c.State() != StateIdle {
		t.Errorf("state = %v, want idle after read failure", c.State())
	}
	if c.Preview() != "" {
		t.Error("read failure should discard the previously held image")
	}
}

func TestPreviewDataURL(t *testing.T) {
	c := NewController(&fakeAnalyzer{}, nil)
	if c.Preview() != "" {
		t.Error("empty controller should have no preview")
	}

	if err := c.Select("leaf.png", "image/png", strings.NewReader("fake")); err != nil {
		t.Fatal(err)
	}
	preview := c.Preview()
	if !strings.HasPrefix(preview, "data:image/png;base64,") {
		t.Errorf("preview = %q, want data URL", preview)
	}
}

func TestAnalyzeWithoutImage(t *testing.T) {
	c := NewController(&fakeAnalyzer{authenticated: true}, nil)
	_, err := c.Analyze(context.Background())
	if !errors.Is(err, ErrNoImage) {
		t.Fatalf("error = %v, want ErrNoImage", err)
	}
}

func TestAnalyzeUnauthenticated(t *testing.T) {
	api := &fakeAnalyzer{authenticated: false}
	c := NewController(api, nil)
	if err := c.Select("leaf.png", "image/png", strings.NewReader("img")); err != nil {
		t.Fatal(err)
	}

	_, err := c.Analyze(context.Background())
	if !errors.Is(err, client.ErrUnauthenticated) {
		t.Fatalf("error = %v, want ErrUnauthenticated", err)
	}
	if c.State() != StateImageSelected {
		t.Errorf("state = %v, want image_selected so the user can log in and retry", c.State())
	}
	if api.calls != 0 {
		t.Errorf("unauthenticated analyze made %d calls, want 0", api.calls)
	}
}

func TestAnalyzeFailureEmitsSafeDefault(t *testing.T) {
	api := &fakeAnalyzer{
		authenticated: true,
		err:           &client.AnalysisError{StatusCode: 503, Detail: "Analysis failed"},
	}
	var emitted []analysis.Result
	c := NewController(api, func(r analysis.Result) { emitted = append(emitted, r) })

	if err := c.Select("leaf.png", "image/png", strings.NewReader("img")); err != nil {
		t.Fatal(err)
	}

	result, err := c.Analyze(context.Background())
	if err == nil {
		t.Fatal("expected the backend error to propagate")
	}
	if c.State() != StateFailed {
		t.Errorf("state = %v, want failed", c.State())
	}
	if result.Status != analysis.StatusHealthy || result.Disease != "none" {
		t.Errorf("failure must degrade to the safe default, got %+v", result)
	}
	if len(emitted) != 1 || emitted[0].Disease != "none" {
		t.Errorf("safe default should still be emitted, got %+v", emitted)
	}

	c.AcknowledgeFailure()
	if c.State() != StateImageSelected {
		t.Errorf("state after acknowledge = %v, want image_selected", c.State())
	}
	if c.Preview() == "" {
		t.Error("image should survive a failed analysis for retry")
	}
}

func TestAnalyzeSuccess(t *testing.T) {
	api := &fakeAnalyzer{
		authenticated: true,
		raw: analysis.RawScan{
			DiseaseName:    "Tomato___Early_blight",
			Confidence:     0.92,
			Recommendation: "Remove lower infected leaves",
		},
	}
	var emitted []analysis.Result
	c := NewController(api, func(r analysis.Result) { emitted = append(emitted, r) })

	if err := c.Select("leaf.jpg", "image/jpeg", strings.NewReader("img")); err != nil {
		t.Fatal(err)
	}

	result, err := c.Analyze(context.Background())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if c.State() != StateComplete {
		t.Errorf("state = %v, want complete", c.State())
	}
	if result.Status != analysis.StatusDiseased {
		t.Errorf("status = %q, want diseased", result.Status)
	}
	if len(emitted) != 1 {
		t.Fatalf("emitted %d results, want 1", len(emitted))
	}
}

func TestClearRefusedWhileAnalyzing(t *testing.T) {
	c := NewController(&fakeAnalyzer{authenticated: true}, nil)
	if err := c.Select("leaf.png", "image/png", strings.NewReader("img")); err != nil {
		t.Fatal(err)
	}
	c.state = StateAnalyzing

	if err := c.Clear(); !errors.Is(err, ErrAnalysisInFlight) {
		t.Fatalf("error = %v, want ErrAnalysisInFlight", err)
	}
	if err := c.Select("x.png", "image/png", strings.NewReader("y")); !errors.Is(err, ErrAnalysisInFlight) {
		t.Fatalf("error = %v, want ErrAnalysisInFlight", err)
	}

	c.state = StateComplete
	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	if c.State() != StateIdle {
		t.Errorf("state = %v, want idle after clear", c.State())
	}
}
