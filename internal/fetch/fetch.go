// Package fetch performs JSON GET requests with retries for the remote
// services the CLI talks to (geolocation and the Al Adhan cross-check).
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/rs/zerolog/log"
)

// Client fetches JSON documents, retrying transport failures and 5xx
// responses with exponential backoff.
type Client struct {
	HTTP     *http.Client
	Attempts uint
	Delay    time.Duration
	MaxDelay time.Duration
}

// New returns a client with a 10 second request timeout and three attempts.
func New() *Client {
	return &Client{
		HTTP:     &http.Client{Timeout: 10 * time.Second},
		Attempts: 3,
		Delay:    500 * time.Millisecond,
		MaxDelay: 5 * time.Second,
	}
}

// StatusError is returned for non-200 responses that were not retried or
// that kept failing.
type StatusError struct {
	URL    string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.URL, e.Status, e.Body)
}

// GetJSON requests url and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	attempts := c.Attempts
	if attempts == 0 {
		attempts = 1
	}

	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Accept", "application/json")

			resp, err := c.HTTP.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
				serr := &StatusError{URL: req.URL.Redacted(), Status: resp.StatusCode, Body: string(body)}
				if resp.StatusCode >= 500 {
					return serr
				}
				return retry.Unrecoverable(serr)
			}

			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return retry.Unrecoverable(fmt.Errorf("decoding response from %s: %w", req.URL.Host, err))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(c.Delay),
		retry.MaxDelay(c.MaxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Debug().Uint("attempt", n+1).Err(err).Str("url", url).Msg("retrying request")
		}),
	)
	return err
}
