package voipbin

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingPathParam is returned when an endpoint placeholder has no value.
	ErrMissingPathParam = errors.New("missing path parameter")

	// ErrUnsupportedMethod is returned for methods other than GET, POST, PUT and DELETE.
	ErrUnsupportedMethod = errors.New("unsupported HTTP method")

	// ErrResponseTooLarge is returned when the upstream body exceeds the size cap.
	ErrResponseTooLarge = errors.New("voipbin response too large")
)

// UpstreamError is returned when the VoIPBin API answers with a non-2xx status.
type UpstreamError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("voipbin returned %d for %s %s: %s", e.StatusCode, e.Method, e.URL, string(e.Body))
}

// StatusCode extracts the upstream HTTP status from err, or 0 if err is not an *UpstreamError.
func StatusCode(err error) int {
	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		return upErr.StatusCode
	}
	return 0
}
