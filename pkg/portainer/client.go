package portainer

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/dvega/portreport/pkg/defaults"
	apperrors "github.com/dvega/portreport/pkg/errors"
)

// Config holds the settings needed to reach a Portainer instance.
type Config struct {
	// BaseURL is the Portainer address. A missing scheme defaults to https.
	BaseURL string

	// Username and Password are exchanged for a JWT at construction time.
	Username string
	Password string

	// Timeout bounds each API request. Zero uses defaults.RequestTimeout.
	Timeout time.Duration

	// RateLimit paces requests in requests/second. Zero disables pacing.
	RateLimit float64

	// InsecureSkipVerify disables TLS certificate verification for
	// self-signed Portainer installs.
	InsecureSkipVerify bool
}

// Client is an authenticated Portainer API client. It is safe for concurrent
// use: the request-error log and the group-name cache are guarded internally.
type Client struct {
	base    string
	token   string
	http    *http.Client
	limiter *rate.Limiter

	errMu     sync.Mutex
	reqErrors []RequestError

	groupMu     sync.Mutex
	groups      map[int]string
	groupsReady bool
}

// NormalizeBaseURL prepends https:// when the address has no scheme and trims
// any trailing slash.
func NormalizeBaseURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return trimmed
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "https://" + trimmed
	}
	return strings.TrimRight(trimmed, "/")
}

// New builds a client and authenticates against the Portainer instance.
// Authentication failure is fatal for the run, so it is returned as an error
// rather than recorded in the request-error log.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "base URL is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.RequestTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec
	}

	c := &Client{
		base: NormalizeBaseURL(cfg.BaseURL),
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
	}
	if cfg.RateLimit > 0 {
		burst := int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	if err := c.authenticate(ctx, cfg.Username, cfg.Password); err != nil {
		return nil, err
	}
	return c, nil
}

// BaseURL returns the normalized Portainer address.
func (c *Client) BaseURL() string {
	return c.base
}

// authenticate exchanges credentials for a JWT via POST /api/auth.
func (c *Client) authenticate(ctx context.Context, username, password string) error {
	authCtx, cancel := context.WithTimeout(ctx, defaults.AuthTimeout)
	defer cancel()

	payload, err := json.Marshal(map[string]string{
		"Username": username,
		"Password": password,
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, "encode credentials", err)
	}

	url := c.base + "/api/auth"
	req, err := http.NewRequestWithContext(authCtx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, "create auth request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeUnavailable, "authentication request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, defaults.MaxResponseBytes))
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeUnavailable, "read auth response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.WrapWithContext(
			apperrors.ErrCodeUnauthorized,
			"authentication failed",
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(body, 200)),
			map[string]any{"url": url},
		)
	}

	var auth struct {
		JWT string `json:"jwt"`
	}
	if err := json.Unmarshal(body, &auth); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, "decode auth response", err)
	}
	if auth.JWT == "" {
		return apperrors.New(apperrors.ErrCodeUnauthorized, "authentication response carried no token")
	}

	c.token = auth.JWT
	slog.Debug("authenticated against portainer", "url", c.base)
	return nil
}

// get performs one authenticated GET and decodes the JSON response into out.
// Used directly only by the fatal endpoint-listing path; everything else goes
// through safeGet.
func (c *Client) get(ctx context.Context, url string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, defaults.MaxResponseBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(body, 200))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// safeGet is the containment boundary for recoverable fetches. On any failure
// it appends to the request-error log, emits a warning, and reports false so
// the caller skips downstream processing for this URL.
func (c *Client) safeGet(ctx context.Context, url string, out any) bool {
	if err := c.get(ctx, url, out); err != nil {
		c.recordError(url, err)
		slog.Warn("request failed", "url", url, "error", err)
		return false
	}
	return true
}

// recordError appends one entry to the shared request-error log.
func (c *Client) recordError(url string, err error) {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	c.reqErrors = append(c.reqErrors, RequestError{URL: url, Message: err.Error()})
}

// RequestErrors returns a copy of the failures recorded so far.
func (c *Client) RequestErrors() []RequestError {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	out := make([]RequestError, len(c.reqErrors))
	copy(out, c.reqErrors)
	return out
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
