// Package history loads and caches the user's past scans for display.
package history

import (
	"context"
	"errors"
	"log"

	"agriguard/internal/analysis"
	"agriguard/internal/client"
)

// Source is the slice of the API client the loader needs.
type Source interface {
	IsAuthenticated() bool
	GetHistory(ctx context.Context) ([]analysis.RawScan, error)
}

// Loader fetches past scans on demand, normalizes them, and keeps the last
// successful result across failed refreshes. Order is whatever the backend
// returned (reverse-chronological); it is never re-sorted here.
type Loader struct {
	api    Source
	logger *log.Logger

	scans        []analysis.Result
	lastTrigger  int
	loaded       bool
	authFailures int
}

// NewLoader creates a loader with nothing fetched yet. A nil logger falls
// back to the default logger.
func NewLoader(api Source, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{api: api, logger: logger}
}

// Refresh fetches and normalizes the scan history when the trigger differs
// from the last one seen (or nothing has been loaded yet). Unauthenticated
// refreshes are a silent no-op that clears the held history. Fetch errors
// are logged and leave the prior history untouched.
func (l *Loader) Refresh(ctx context.Context, trigger int) {
	if l.loaded && trigger == l.lastTrigger {
		return
	}
	l.lastTrigger = trigger

	if !l.api.IsAuthenticated() {
		l.scans = nil
		l.loaded = false
		return
	}

	raw, err := l.api.GetHistory(ctx)
	if err != nil {
		var fetchErr *client.HistoryFetchError
		if errors.As(err, &fetchErr) && fetchErr.IsAuthFailure() {
			l.authFailures++
		}
		l.logger.Printf("history refresh failed: %v", err)
		return
	}

	scans := make([]analysis.Result, 0, len(raw))
	for _, r := range raw {
		scans = append(scans, analysis.Normalize(r))
	}
	l.scans = scans
	l.loaded = true
	l.authFailures = 0
}

// History returns the last successfully loaded scans, oldest data last as
// the backend sent it. Nil when nothing has been loaded.
func (l *Loader) History() []analysis.Result {
	return l.scans
}

// AuthFailures returns the number of consecutive refreshes rejected for
// authentication. Callers may treat repeated failures as a cue to log out.
func (l *Loader) AuthFailures() int {
	return l.authFailures
}
