package insight

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable wraps network and timeout failures reaching the service.
	ErrUnavailable = errors.New("insight service unavailable")
	// ErrMalformedPayload marks responses that claim success but do not match
	// the documented shape.
	ErrMalformedPayload = errors.New("malformed insight payload")
	// ErrPayloadTooLarge marks uploads over the configured image byte limit.
	ErrPayloadTooLarge = errors.New("payload too large")
)

// UpstreamError is a non-success answer from the insight service, body kept
// for the caller.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("insight service rejected request (http %d): %s", e.StatusCode, e.Body)
}
