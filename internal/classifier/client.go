// Package classifier wraps the external plant-identification service.
// The service exposes a single endpoint accepting a multipart image upload
// and returning a JSON verdict; this client relays the response body
// untouched so the API contract with the frontend stays whatever the
// service returns.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client posts images to the classifier.  The upstream call carries a
// fixed timeout so one slow prediction cannot pin a request forever.
type Client struct {
	http *resty.Client
}

// New builds a Client for the given base URL.  timeoutSec bounds the whole
// upstream call; values below one second fall back to 30s.
func New(baseURL string, timeoutSec int) *Client {
	if timeoutSec < 1 {
		timeoutSec = 30
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(time.Duration(timeoutSec) * time.Second).
		SetHeader("User-Agent", "plant-shop-backend/1.0")
	return &Client{http: c}
}

// Classify forwards the image as the multipart field "file" and returns the
// service's JSON verdict verbatim.  Timeouts, network errors, non-2xx
// statuses and non-JSON bodies all surface as errors; the caller maps them
// to an upstream failure.
func (c *Client) Classify(ctx context.Context, filename string, image io.Reader) (json.RawMessage, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("file", filename, image).
		Post("/predict")
	if err != nil {
		return nil, fmt.Errorf("classifier request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("classifier returned %s", resp.Status())
	}
	body := resp.Body()
	if !json.Valid(body) {
		return nil, fmt.Errorf("classifier returned invalid JSON")
	}
	return json.RawMessage(body), nil
}
