package screengrab

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestClassification_ByStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(t *testing.T, err error)
	}{
		{
			"429 rate limit",
			http.StatusTooManyRequests,
			func(t *testing.T, err error) {
				var rle *RateLimitError
				if !errors.As(err, &rle) {
					t.Fatalf("error = %v, want *RateLimitError", err)
				}
				if rle.StatusCode != 429 {
					t.Errorf("StatusCode = %d, want 429", rle.StatusCode)
				}
			},
		},
		{
			"401 authentication",
			http.StatusUnauthorized,
			func(t *testing.T, err error) {
				var ae *AuthError
				if !errors.As(err, &ae) {
					t.Fatalf("error = %v, want *AuthError", err)
				}
				if ae.StatusCode != 401 {
					t.Errorf("StatusCode = %d, want 401", ae.StatusCode)
				}
			},
		},
		{
			"400 validation",
			http.StatusBadRequest,
			func(t *testing.T, err error) {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("error = %v, want *ValidationError", err)
				}
				if ve.StatusCode != 400 {
					t.Errorf("StatusCode = %d, want 400", ve.StatusCode)
				}
			},
		},
		{
			"500 generic",
			http.StatusInternalServerError,
			func(t *testing.T, err error) {
				var ae *APIError
				if !errors.As(err, &ae) {
					t.Fatalf("error = %v, want *APIError", err)
				}
				if ae.StatusCode != 500 {
					t.Errorf("StatusCode = %d, want 500", ae.StatusCode)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := c.Usage(context.Background())
			tt.check(t, err)
		})
	}
}

func TestRateLimitError_CarriesRetryAfterAndSnapshot(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.Header().Set("X-RateLimit-Limit", "100")
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", "1700000000")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.Capture(context.Background(), CaptureRequest{URL: "https://example.com"})

	var rle *RateLimitError
	if !errors.As(err, &rle) {
		t.Fatalf("error = %v, want *RateLimitError", err)
	}
	if rle.RetryAfter != 30*time.Second {
		t.Errorf("RetryAfter = %v, want 30s", rle.RetryAfter)
	}
	if rle.RateLimit == nil {
		t.Fatal("expected the response's rate-limit snapshot")
	}
	if rle.RateLimit.Remaining == nil || *rle.RateLimit.Remaining != 0 {
		t.Errorf("snapshot Remaining = %v, want 0", rle.RateLimit.Remaining)
	}
	if rle.RateLimit.Limit == nil || *rle.RateLimit.Limit != 100 {
		t.Errorf("snapshot Limit = %v, want 100", rle.RateLimit.Limit)
	}
}

func TestParseErrorBody(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantMessage string
		wantCode    string
	}{
		{
			"nested envelope",
			`{"error": {"message": "bad url", "code": "INVALID_URL"}}`,
			"bad url",
			"INVALID_URL",
		},
		{
			"flat envelope",
			`{"message": "x", "code": "y"}`,
			"x",
			"y",
		},
		{
			"nested wins over flat",
			`{"message": "flat", "code": "FLAT", "error": {"message": "nested", "code": "NESTED"}}`,
			"nested",
			"NESTED",
		},
		{
			"nested fills gaps from flat",
			`{"code": "FLAT", "error": {"message": "nested"}}`,
			"nested",
			"FLAT",
		},
		{
			"unparseable body",
			`<html>Bad Gateway</html>`,
			"request failed with status 502",
			"",
		},
		{
			"empty body",
			``,
			"request failed with status 502",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			message, code := parseErrorBody([]byte(tt.body), 502)
			if message != tt.wantMessage {
				t.Errorf("message = %q, want %q", message, tt.wantMessage)
			}
			if code != tt.wantCode {
				t.Errorf("code = %q, want %q", code, tt.wantCode)
			}
		})
	}
}

func TestAPIError_SynthesizedMessageNamesStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("i'm a teapot"))
	})

	_, err := c.Usage(context.Background())

	var ae *APIError
	if !errors.As(err, &ae) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if ae.Message == "" {
		t.Fatal("expected a non-empty synthesized message")
	}
	if !strings.Contains(ae.Message, "418") {
		t.Errorf("Message = %q, want the numeric status in it", ae.Message)
	}
}

func TestAPIError_ErrorString(t *testing.T) {
	withCode := &APIError{StatusCode: 400, Code: "INVALID_URL", Message: "bad url"}
	if got := withCode.Error(); !strings.Contains(got, "bad url") || !strings.Contains(got, "INVALID_URL") || !strings.Contains(got, "400") {
		t.Errorf("Error() = %q, want message, code and status in it", got)
	}

	withoutCode := &APIError{StatusCode: 503, Message: "service unavailable"}
	if got := withoutCode.Error(); !strings.Contains(got, "503") || strings.Contains(got, "code") {
		t.Errorf("Error() = %q, want status and no code segment", got)
	}
}

func TestDecodeError_Unwraps(t *testing.T) {
	inner := errors.New("boom")
	err := &DecodeError{Err: inner}

	if !errors.Is(err, inner) {
		t.Error("DecodeError should unwrap to the inner error")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("Error() = %q, want inner message in it", err.Error())
	}
}
