package screengrab

import "time"

// Format is the image format of a capture.
type Format string

// Supported capture formats.
const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatWebP Format = "webp"
	FormatPDF  Format = "pdf"
)

// WaitUntil is the page-load condition the service waits for before
// taking the screenshot.
type WaitUntil string

// Supported wait conditions.
const (
	WaitLoad             WaitUntil = "load"
	WaitDOMContentLoaded WaitUntil = "domcontentloaded"
	WaitNetworkIdle      WaitUntil = "networkidle"
)

// CaptureRequest holds the parameters for one screenshot. URL is the only
// required field; zero-valued optionals are omitted from the wire payload.
type CaptureRequest struct {
	// URL is the page to capture. Required.
	URL string `json:"url"`

	// Format selects the output image format. Service default is png.
	Format Format `json:"format,omitempty"`

	// Quality is the lossy-format quality, 1-100. Ignored for png.
	Quality int `json:"quality,omitempty"`

	// ViewportWidth and ViewportHeight set the browser viewport in pixels.
	ViewportWidth  int `json:"viewport_width,omitempty"`
	ViewportHeight int `json:"viewport_height,omitempty"`

	// FullPage captures the full scroll height instead of the viewport.
	FullPage bool `json:"full_page,omitempty"`

	// WaitUntil is the load condition to wait for before capturing.
	WaitUntil WaitUntil `json:"wait_until,omitempty"`

	// WaitForSelector delays the capture until the CSS selector matches.
	WaitForSelector string `json:"wait_for_selector,omitempty"`

	// Delay is an extra wait in seconds after the wait condition is met.
	Delay int `json:"delay,omitempty"`

	// DeviceScaleFactor sets the device pixel ratio (e.g. 2 for retina).
	DeviceScaleFactor float64 `json:"device_scale_factor,omitempty"`

	// Store asks the service to persist the capture and return metadata
	// instead of raw bytes. Only valid with Client.CaptureStored, which
	// sets it regardless of the caller's value; Client.Capture rejects it.
	Store bool `json:"store,omitempty"`

	// BlockAds enables the service-side ad blocker for this capture.
	BlockAds bool `json:"block_ads,omitempty"`
}

// CaptureResult is the metadata returned for a stored capture.
type CaptureResult struct {
	// URL is the storage location of the capture. Always present on a
	// well-formed response.
	URL string `json:"url"`

	// ExpiresAt is when the stored capture is deleted.
	ExpiresAt time.Time `json:"expires_at,omitzero"`

	// Width and Height are the image dimensions in pixels.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// FileSize is the image size in bytes.
	FileSize int64 `json:"file_size,omitempty"`
}

// UsageSnapshot reports the account's usage counters for the current
// billing period.
type UsageSnapshot struct {
	ScreenshotsTaken     int       `json:"screenshots_taken"`
	ScreenshotsLimit     int       `json:"screenshots_limit"`
	ScreenshotsRemaining int       `json:"screenshots_remaining"`
	PeriodStart          time.Time `json:"period_start"`
	PeriodEnd            time.Time `json:"period_end"`
}
