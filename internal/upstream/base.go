package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// defaultTimeout bounds every outbound call. The upstream dashboards this
// feeds tolerate a slow answer better than a hung one.
const defaultTimeout = 10 * time.Second

// ErrNotConfigured marks an adapter whose credential or base URL is absent.
// Adapters return it without attempting any network call; the API layer
// flattens it into a structured "not configured" payload, distinct from an
// upstream failure.
var ErrNotConfigured = errors.New("not configured")

// NotConfigured reports whether err is (or wraps) ErrNotConfigured.
func NotConfigured(err error) bool { return errors.Is(err, ErrNotConfigured) }

// authRoundTripper injects the adapter's authentication header into every
// outgoing request. The key func is evaluated per request so credentials
// rotated in the environment take effect without a restart.
type authRoundTripper struct {
	base   http.RoundTripper
	header string
	prefix string // e.g. "Bearer " for Authorization headers
	key    func() string
}

func (t *authRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if k := t.key(); k != "" {
		req = req.Clone(req.Context())
		req.Header.Set(t.header, t.prefix+k)
	}
	return t.base.RoundTrip(req)
}

// newClient builds the adapter's HTTP client once; header/prefix describe how
// the credential is carried. A nil key func yields a plain client.
func newClient(header, prefix string, key func() string) *http.Client {
	c := &http.Client{Timeout: defaultTimeout}
	if key != nil {
		c.Transport = &authRoundTripper{
			base:   http.DefaultTransport,
			header: header,
			prefix: prefix,
			key:    key,
		}
	}
	return c
}

// getJSON performs one GET against rawURL (with optional query params) and
// decodes a 2xx JSON body into v. Non-2xx responses become a *StatusError.
func getJSON(ctx context.Context, client *http.Client, rawURL string, params url.Values, v any) error {
	if len(params) > 0 {
		rawURL += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode}
	}
	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// StatusError is a non-2xx upstream response. Adapters that distinguish
// "reachable but unhappy" from "unreachable" branch on it with errors.As.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string { return fmt.Sprintf("unexpected status %d", e.Code) }
