package gateway

import "errors"

var (
	// ErrMissingImage means the request carried no image payload.
	ErrMissingImage = errors.New("no image provided")
	// ErrNotConfigured means the upstream AI credential is absent.
	ErrNotConfigured = errors.New("gateway API key not configured")
	// ErrRateLimited maps an upstream 429.
	ErrRateLimited = errors.New("ai gateway rate limit exceeded")
	// ErrPaymentRequired maps an upstream 402.
	ErrPaymentRequired = errors.New("ai gateway requires payment")
	// ErrMalformedReply means the upstream reply contained no parsable
	// verdict in the expected shape.
	ErrMalformedReply = errors.New("invalid AI response format")
)
