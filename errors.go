package nextfetch

import (
	"errors"
	"fmt"
	"time"
)

// Error type discriminators carried by ClientError.
const (
	ErrorTypeValidation  = "Validation"
	ErrorTypeNetwork     = "Network"
	ErrorTypeInterceptor = "Interceptor"
	ErrorTypeRateLimit   = "RateLimit"
)

// Sentinel errors for common failure scenarios
var (
	// ErrRateLimited is returned when a request is denied by the rate limit
	// interceptor.
	ErrRateLimited = errors.New("nextfetch: rate limited")

	// ErrEmptyResponse is returned by Result.Decode when there is no payload
	// to decode.
	ErrEmptyResponse = errors.New("nextfetch: empty response")
)

// ClientError represents an internal failure surfaced by Fetch. HTTP-level
// failures never produce a ClientError; they are returned as a Result with
// Success false.
type ClientError struct {
	Type      string
	Message   string
	Cause     error
	RequestID string
	Method    string
	URL       string
	Timestamp time.Time
	Duration  time.Duration
}

// Error implements error interface.
func (e *ClientError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Cause)
	}
	if e.RequestID != "" {
		msg = fmt.Sprintf("[%s] %s", e.RequestID, msg)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ClientError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is compares error types for errors.Is.
func (e *ClientError) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*ClientError); ok {
		return e.Type == targetErr.Type
	}
	return false
}

// DebugInfo renders a multi-line string with diagnostic context.
func (e *ClientError) DebugInfo() string {
	if e == nil {
		return "Error: <nil>"
	}
	info := fmt.Sprintf("Error Type: %s\n", e.Type)
	info += fmt.Sprintf("Message: %s\n", e.Message)
	if e.RequestID != "" {
		info += fmt.Sprintf("Request ID: %s\n", e.RequestID)
	}
	if e.Method != "" {
		info += fmt.Sprintf("Method: %s\n", e.Method)
	}
	if e.URL != "" {
		info += fmt.Sprintf("URL: %s\n", e.URL)
	}
	if !e.Timestamp.IsZero() {
		info += fmt.Sprintf("Timestamp: %s\n", e.Timestamp.Format(time.RFC3339))
	}
	if e.Duration > 0 {
		info += fmt.Sprintf("Duration: %v\n", e.Duration)
	}
	if e.Cause != nil {
		info += fmt.Sprintf("Cause: %v\n", e.Cause)
	}
	return info
}
