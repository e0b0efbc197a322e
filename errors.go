package screengrab

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ConfigError reports invalid client-side input: a bad constructor
// argument, or a request that is rejected before any network call.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "screengrab: " + e.Reason
}

// DecodeError reports a success response whose body does not match the
// documented shape. It indicates a contract mismatch with the service,
// not a caller mistake.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "screengrab: decoding response: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }

// APIError is a non-2xx response from the service. It is returned
// directly for statuses without a more specific type, and embedded by
// AuthError, ValidationError and RateLimitError.
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Code is the service-defined error code, when the body carried one.
	Code string

	// Message is the service-reported message, or a synthesized one
	// naming the status when the body was unparseable.
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("screengrab: %s (status %d, code %s)", e.Message, e.StatusCode, e.Code)
	}
	return fmt.Sprintf("screengrab: %s (status %d)", e.Message, e.StatusCode)
}

// AuthError is a 401 response: the API key is missing, invalid or revoked.
type AuthError struct {
	APIError
}

// ValidationError is a 400 response: the service rejected the request
// parameters.
type ValidationError struct {
	APIError
}

// RateLimitError is a 429 response.
type RateLimitError struct {
	APIError

	// RetryAfter is the server-suggested wait, parsed from the
	// Retry-After header. Zero when the header was absent.
	RetryAfter time.Duration

	// RateLimit is the snapshot taken from this response's headers.
	RateLimit *RateLimit
}

// errEnvelope covers both error body shapes the service emits: a nested
// {"error": {"message", "code"}} object and a flat {"message", "code"}
// object. The embedded fields pick up the flat shape.
type errEnvelope struct {
	wireError
	Err *wireError `json:"error"`
}

type wireError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// parseErrorBody extracts a message and code from an error response body,
// preferring the nested shape; first non-empty value wins per field. An
// unparseable or empty body yields a synthesized message naming the
// status, so callers always get a message.
func parseErrorBody(body []byte, statusCode int) (message, code string) {
	var env errEnvelope
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Err != nil {
			message = env.Err.Message
			code = env.Err.Code
		}
		if message == "" {
			message = env.Message
		}
		if code == "" {
			code = env.Code
		}
	}
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", statusCode)
	}
	return message, code
}

// classifyError maps a non-2xx response to the error taxonomy. rl is the
// snapshot taken from the same response, if its headers carried one.
func classifyError(statusCode int, header http.Header, body []byte, rl *RateLimit) error {
	message, code := parseErrorBody(body, statusCode)
	apiErr := APIError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
	}

	switch statusCode {
	case http.StatusTooManyRequests:
		return &RateLimitError{
			APIError:   apiErr,
			RetryAfter: parseRetryAfter(header),
			RateLimit:  rl,
		}
	case http.StatusUnauthorized:
		return &AuthError{APIError: apiErr}
	case http.StatusBadRequest:
		return &ValidationError{APIError: apiErr}
	default:
		return &apiErr
	}
}
