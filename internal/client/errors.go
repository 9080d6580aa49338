package client

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated is returned before any network activity when an
// operation that requires a token finds none. Callers should redirect to
// login rather than surface it raw.
var ErrUnauthenticated = errors.New("not authenticated")

// AuthError reports a failed login.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// ValidationError carries the backend-provided detail for a rejected
// registration.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string { return e.Detail }

// AnalysisError reports a failed analyze call with the backend detail.
type AnalysisError struct {
	StatusCode int
	Detail     string
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis failed (status %d): %s", e.StatusCode, e.Detail)
}

// HistoryFetchError reports a failed history fetch.
type HistoryFetchError struct {
	StatusCode int
	Detail     string
}

func (e *HistoryFetchError) Error() string {
	return fmt.Sprintf("history fetch failed (status %d): %s", e.StatusCode, e.Detail)
}

// IsAuthFailure reports whether the error is a backend 401, which also
// clears the session.
func (e *HistoryFetchError) IsAuthFailure() bool {
	return e.StatusCode == 401
}
