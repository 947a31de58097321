package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultTimeout bounds a single completion request.
const DefaultTimeout = 60 * time.Second

// probeTimeout bounds an availability probe.
const probeTimeout = 5 * time.Second

// ErrRateLimited is returned for HTTP 429 responses.
var ErrRateLimited = errors.New("ai: rate limited by provider (HTTP 429)")

// StatusError is a non-200 provider response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ai: provider returned HTTP %d: %s", e.Code, e.Body)
}

// endpoint is a JSON-over-HTTP API base URL with fixed headers.
type endpoint struct {
	client  *http.Client
	base    string
	headers http.Header
}

func newEndpoint(base string, timeout time.Duration, headers http.Header) endpoint {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return endpoint{
		client:  &http.Client{Timeout: timeout},
		base:    strings.TrimRight(base, "/"),
		headers: headers,
	}
}

func (e endpoint) url(path string) string {
	return e.base + path
}

// post sends payload as JSON to path and decodes a 200 response into out.
func (e endpoint) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ai: marshaling request: %w", err)
	}

	url := e.url(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ai: creating request: %w", err)
	}
	req.Header = e.headers.Clone()
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("ai: sending request to %s: %w", url, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ai: reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		return &StatusError{Code: resp.StatusCode, Body: truncate(string(respBody), 200)}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("ai: decoding response: %w", err)
	}
	return nil
}

// probe reports whether GET path answers 200 within probeTimeout.
func (e endpoint) probe(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.url(path), nil)
	if err != nil {
		return err
	}
	req.Header = e.headers.Clone()

	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	for maxLen > 0 && !utf8.RuneStart(s[maxLen]) {
		maxLen--
	}
	return s[:maxLen] + "..."
}

// temperature returns nil for zero so the provider default applies.
func temperature(t float64) *float64 {
	if t <= 0 {
		return nil
	}
	return &t
}
