// Package upload implements the image selection and analysis workflow as an
// explicit state machine, independent of any UI event-dispatch mechanism.
package upload

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"strings"

	"agriguard/internal/analysis"
	"agriguard/internal/client"
)

// State is the controller's position in the upload workflow.
type State int

const (
	// StateIdle means no image is held.
	StateIdle State = iota
	// StateImageSelected means an image is chosen but not yet sent.
	StateImageSelected
	// StateAnalyzing means an analysis request is in flight.
	StateAnalyzing
	// StateComplete means a result is available.
	StateComplete
	// StateFailed means the last analysis surfaced an error.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateImageSelected:
		return "image_selected"
	case StateAnalyzing:
		return "analyzing"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

var (
	// ErrInvalidFileType rejects files whose MIME type is not image/*.
	ErrInvalidFileType = errors.New("invalid file type: expected an image")
	// ErrFileRead reports a failure reading the selected file into memory.
	ErrFileRead = errors.New("failed to read the image file")
	// ErrNoImage means Analyze was called with nothing selected.
	ErrNoImage = errors.New("no image selected")
	// ErrAnalysisInFlight refuses a second analysis while one is pending.
	ErrAnalysisInFlight = errors.New("analysis already in progress")
)

// Analyzer is the slice of the API client the controller needs.
type Analyzer interface {
	IsAuthenticated() bool
	Analyze(ctx context.Context, image []byte, filename string) (analysis.RawScan, error)
}

// Controller drives one image through select -> analyze -> result. It is
// meant for single-threaded event-driven use: user actions and completion
// callbacks interleave but never run concurrently, so there is no locking.
type Controller struct {
	api      Analyzer
	onResult func(analysis.Result)

	state    State
	filename string
	mimeType string
	image    []byte
}

// NewController creates a controller in StateIdle. onResult, if non-nil, is
// invoked with the outcome of every finished analysis, including the safe
// default emitted on failure.
func NewController(api Analyzer, onResult func(analysis.Result)) *Controller {
	return &Controller{api: api, onResult: onResult}
}

// State returns the current workflow state.
func (c *Controller) State() State { return c.state }

// Preview returns the held image as a data URL for display, empty when no
// image is held.
func (c *Controller) Preview() string {
	if len(c.image) == 0 {
		return ""
	}
	return "data:" + c.mimeType + ";base64," + base64.StdEncoding.EncodeToString(c.image)
}

// Select validates and reads a candidate file. Non-image MIME types are
// rejected with ErrInvalidFileType before anything is read and the state is
// left untouched. A read failure discards any held image and returns to
// StateIdle with ErrFileRead. On success the image is fully in memory and
// the state is StateImageSelected.
func (c *Controller) Select(filename, mimeType string, r io.Reader) error {
	if c.state == StateAnalyzing {
		return ErrAnalysisInFlight
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return ErrInvalidFileType
	}

	data, err := io.ReadAll(r)
	if err != nil {
		c.discard()
		return errors.Join(ErrFileRead, err)
	}

	c.filename = filename
	c.mimeType = mimeType
	c.image = data
	c.state = StateImageSelected
	return nil
}

// Analyze sends the held image to the backend. Without authentication it
// returns client.ErrUnauthenticated before any network call and stays in
// StateImageSelected so the caller can redirect to login. A backend or
// network failure degrades to the safe-default empty result: the result is
// emitted, the state moves to StateFailed, and the error is returned for
// the caller's notification. On success the normalized result is emitted
// and the state is StateComplete.
func (c *Controller) Analyze(ctx context.Context) (analysis.Result, error) {
	switch c.state {
	case StateAnalyzing:
		return analysis.Result{}, ErrAnalysisInFlight
	case StateImageSelected, StateComplete, StateFailed:
		if len(c.image) == 0 {
			return analysis.Result{}, ErrNoImage
		}
	default:
		return analysis.Result{}, ErrNoImage
	}

	if !c.api.IsAuthenticated() {
		c.state = StateImageSelected
		return analysis.Result{}, client.ErrUnauthenticated
	}

	c.state = StateAnalyzing
	raw, err := c.api.Analyze(ctx, c.image, c.filename)
	if err != nil {
		result := analysis.EmptyResult()
		c.state = StateFailed
		c.emit(result)
		return result, err
	}

	result := analysis.Normalize(raw)
	c.state = StateComplete
	c.emit(result)
	return result, nil
}

// AcknowledgeFailure returns a failed controller to StateImageSelected,
// keeping the image so the user can retry.
func (c *Controller) AcknowledgeFailure() {
	if c.state == StateFailed {
		c.state = StateImageSelected
	}
}

// Clear discards the held image and returns to StateIdle. Refused while an
// analysis is in flight.
func (c *Controller) Clear() error {
	if c.state == StateAnalyzing {
		return ErrAnalysisInFlight
	}
	c.discard()
	return nil
}

func (c *Controller) discard() {
	c.filename = ""
	c.mimeType = ""
	c.image = nil
	c.state = StateIdle
}

func (c *Controller) emit(result analysis.Result) {
	if c.onResult != nil {
		c.onResult(result)
	}
}
