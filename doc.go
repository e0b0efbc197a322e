// Package screengrab is the official Go client for the Screengrab
// screenshot-capture API. It wraps the two service endpoints
// (POST /v1/screenshot, GET /v1/usage) with typed requests and responses,
// bearer-token authentication, and a typed error taxonomy.
//
// # Client Creation
//
// [New] requires an API key and accepts functional options:
//
//	client, err := screengrab.New(os.Getenv("SCREENGRAB_API_KEY"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
// By default the client owns its underlying *http.Client and releases its
// idle connections on Close. Supply your own transport with
// [WithHTTPClient]; a supplied transport is never closed by the client.
//
// # Captures
//
// [Client.Capture] returns the raw image bytes of a non-stored capture.
// [Client.CaptureStored] asks the service to persist the capture and
// returns a [CaptureResult] with the storage URL and image metadata.
//
// # Error Handling
//
// Failures are typed; check them with errors.As:
//
//	var rle *screengrab.RateLimitError
//	if errors.As(err, &rle) {
//	    time.Sleep(rle.RetryAfter)
//	}
//
// [AuthError] (401), [ValidationError] (400) and [RateLimitError] (429)
// all embed [APIError], which is also returned on its own for any other
// non-2xx status. [ConfigError] reports bad client-side input before any
// request is made, and [DecodeError] reports a success response whose body
// does not match the documented shape.
//
// # Rate Limits
//
// Every response's X-RateLimit-* headers update the client's last-known
// [RateLimit], readable via [Client.RateLimit]. Under concurrent calls the
// slot is last-writer-wins; a [RateLimitError] carries the snapshot taken
// from its own response.
//
// # Thread Safety
//
// A Client is safe for concurrent use. There is no internal retry logic;
// every failure is surfaced once to the caller.
package screengrab
