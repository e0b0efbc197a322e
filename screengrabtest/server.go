// Package screengrabtest provides an in-process fake of the Screengrab
// API for tests. It serves the real endpoint paths, checks bearer
// authentication, records every capture request it receives, and can
// apply genuine rate limiting so clients see the same X-RateLimit-* and
// Retry-After headers the production service emits.
//
// The fake speaks the wire format directly and records request bodies as
// decoded JSON maps, so tests can assert exactly what went over the wire.
package screengrabtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/oklog/ulid/v2"
)

// Usage is the payload served by GET /v1/usage.
type Usage struct {
	ScreenshotsTaken     int       `json:"screenshots_taken"`
	ScreenshotsLimit     int       `json:"screenshots_limit"`
	ScreenshotsRemaining int       `json:"screenshots_remaining"`
	PeriodStart          time.Time `json:"period_start"`
	PeriodEnd            time.Time `json:"period_end"`
}

// Capture is one recorded POST /v1/screenshot request.
type Capture struct {
	// Body is the decoded JSON payload as it arrived on the wire.
	Body map[string]any

	// Header is a copy of the request headers.
	Header http.Header
}

// Store reports whether the recorded payload had store set to true.
func (c Capture) Store() bool {
	v, _ := c.Body["store"].(bool)
	return v
}

// Config controls the fake's behavior. The zero value accepts any API
// key, returns a small placeholder image and an empty usage payload, and
// applies no rate limiting.
type Config struct {
	// APIKey, when non-empty, is the only bearer key accepted; other
	// requests get a 401 with the service's nested error envelope.
	APIKey string

	// ImageData is returned for non-stored captures. Defaults to a short
	// PNG-tagged placeholder.
	ImageData []byte

	// Usage is served by the usage endpoint.
	Usage Usage

	// RequestsPerMinute, when positive, applies httprate limiting so
	// every response carries rate-limit headers and excess requests get
	// a 429 with Retry-After.
	RequestsPerMinute int

	// StorageBaseURL prefixes stored-capture URLs.
	// Defaults to "https://cdn.screengrab.test/".
	StorageBaseURL string

	// StorageTTL sets stored captures' expires_at relative to now.
	// Defaults to 24h.
	StorageTTL time.Duration
}

// Server is a fake Screengrab API backed by httptest.
type Server struct {
	// URL is the base URL to point a client at.
	URL string

	cfg Config
	hs  *httptest.Server

	mu       sync.Mutex
	captures []Capture
}

// New starts a fake service. Callers must Close it.
func New(cfg Config) *Server {
	if cfg.ImageData == nil {
		cfg.ImageData = []byte("\x89PNG fake image data")
	}
	if cfg.StorageBaseURL == "" {
		cfg.StorageBaseURL = "https://cdn.screengrab.test/"
	}
	if cfg.StorageTTL == 0 {
		cfg.StorageTTL = 24 * time.Hour
	}

	s := &Server{cfg: cfg}

	r := chi.NewRouter()
	if cfg.RequestsPerMinute > 0 {
		r.Use(httprate.Limit(
			cfg.RequestsPerMinute,
			time.Minute,
			httprate.WithLimitHandler(func(w http.ResponseWriter, req *http.Request) {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded", "RATE_LIMITED")
			}),
		))
	}
	r.Use(s.requireAuth)
	r.Post("/v1/screenshot", s.handleScreenshot)
	r.Get("/v1/usage", s.handleUsage)

	s.hs = httptest.NewServer(r)
	s.URL = s.hs.URL
	return s
}

// Close shuts the fake down.
func (s *Server) Close() {
	s.hs.Close()
}

// Captures returns a copy of every screenshot request received so far.
func (s *Server) Captures() []Capture {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Capture, len(s.captures))
	copy(out, s.captures)
	return out
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if s.cfg.APIKey != "" && req.Header.Get("Authorization") != "Bearer "+s.cfg.APIKey {
			writeError(w, http.StatusUnauthorized, "invalid API key", "UNAUTHORIZED")
			return
		}
		next.ServeHTTP(w, req)
	})
}

func (s *Server) handleScreenshot(w http.ResponseWriter, req *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "INVALID_BODY")
		return
	}

	s.mu.Lock()
	s.captures = append(s.captures, Capture{Body: body, Header: req.Header.Clone()})
	s.mu.Unlock()

	target, _ := body["url"].(string)
	if target == "" {
		writeError(w, http.StatusBadRequest, "url is required", "MISSING_URL")
		return
	}

	if store, _ := body["store"].(bool); store {
		width, height := viewport(body)
		result := map[string]any{
			"url":        s.cfg.StorageBaseURL + ulid.Make().String() + ".png",
			"expires_at": time.Now().Add(s.cfg.StorageTTL).UTC().Format(time.RFC3339),
			"width":      width,
			"height":     height,
			"file_size":  len(s.cfg.ImageData),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(s.cfg.ImageData)
}

func (s *Server) handleUsage(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.cfg.Usage)
}

// viewport reads the requested viewport, defaulting to the service's
// 1280x800.
func viewport(body map[string]any) (int, int) {
	width, height := 1280, 800
	if v, ok := body["viewport_width"].(float64); ok {
		width = int(v)
	}
	if v, ok := body["viewport_height"].(float64); ok {
		height = int(v)
	}
	return width, height
}

// writeError emits the service's nested error envelope.
func writeError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error":{"message":%q,"code":%q}}`, message, code)
}
