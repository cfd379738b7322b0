package adapters

import "errors"

// Failure taxonomy surfaced to the orchestrator. Adapters wrap these with
// platform detail via fmt.Errorf and %w.
var (
	// ErrAuthFailure covers bad or expired credentials.
	ErrAuthFailure = errors.New("authentication failed")
	// ErrSourceUnavailable covers network errors and 5xx responses.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrMalformedPayload covers responses that do not match the source schema.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrNotConfigured marks a platform whose credential material is absent.
	// It is an auth-class failure that must never abort sibling platforms.
	ErrNotConfigured = errors.New("credentials not configured")
)
