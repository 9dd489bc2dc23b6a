package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const (
	defaultTimeout    = 3 * time.Second
	maxErrorBodyBytes = 512
)

// Config holds the settings shared by the collaborator clients.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// StatusError is returned when a collaborator answers with a non-2xx status.
type StatusError struct {
	Method string
	URL    string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.Status)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.Status, e.Body)
}

// httpClient is the transport shared by RoomClient and GuestClient.
type httpClient struct {
	baseURL    string
	hc         *http.Client
	timeout    time.Duration
	maxRetries int
	logger     *zap.Logger
}

func newHTTPClient(cfg Config, logger *zap.Logger) *httpClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return &httpClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		hc:         &http.Client{Timeout: timeout},
		timeout:    timeout,
		maxRetries: retries,
		logger:     logger,
	}
}

// do performs one request and returns the status and body.
func (c *httpClient) do(ctx context.Context, method, path string, query url.Values) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	rawURL := c.baseURL + path
	if len(query) > 0 {
		rawURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.hc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return res.StatusCode, nil, err
	}
	return res.StatusCode, body, nil
}

// getJSON fetches path and decodes the body into out. Connection errors,
// timeouts and 5xx answers are retried with exponential backoff; any other
// failure is returned at once. notFound, when non-nil, is returned for a 404.
func (c *httpClient) getJSON(ctx context.Context, path string, out any, notFound error) error {
	attempt := 0
	op := func() error {
		attempt++
		status, body, err := c.do(ctx, http.MethodGet, path, nil)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			c.logger.Debug("collaborator request failed",
				zap.String("path", path), zap.Int("attempt", attempt), zap.Error(err))
			return err
		}

		switch {
		case status == http.StatusNotFound && notFound != nil:
			return backoff.Permanent(notFound)
		case status >= 500:
			return c.statusError(http.MethodGet, path, status, body)
		case status < 200 || status > 299:
			return backoff.Permanent(c.statusError(http.MethodGet, path, status, body))
		}

		if err := json.Unmarshal(body, out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode %s: %w", path, err))
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = time.Second
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.maxRetries)), ctx)

	return backoff.Retry(op, policy)
}

// put performs a single PUT with no retry.
func (c *httpClient) put(ctx context.Context, path string, query url.Values) error {
	status, body, err := c.do(ctx, http.MethodPut, path, query)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return c.statusError(http.MethodPut, path, status, body)
	}
	return nil
}

func (c *httpClient) statusError(method, path string, status int, body []byte) *StatusError {
	if len(body) > maxErrorBodyBytes {
		body = body[:maxErrorBodyBytes]
	}
	return &StatusError{
		Method: method,
		URL:    c.baseURL + path,
		Status: status,
		Body:   strings.TrimSpace(string(body)),
	}
}

// IsStatus reports whether err is a StatusError with the given status.
func IsStatus(err error, status int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == status
}
