package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultFetchTimeout = 30 * time.Second

var (
	// ErrProfileNotFound indicates the directory has no profile for the id. It is
	// an expected outcome, not a transport failure.
	ErrProfileNotFound = errors.New("directory: profile not found")
	// ErrDirectoryTimeout indicates the profile fetch exceeded its deadline. This
	// is the only upstream failure surfaced to callers; everything else degrades
	// to ErrProfileNotFound with a logged warning.
	ErrDirectoryTimeout = errors.New("directory: upstream timeout")

	errMissingBaseURL    = errors.New("base url is required")
	errMissingIdentifier = errors.New("profile identifier is required")
	// ErrInvalidClientConfig wraps construction failures.
	ErrInvalidClientConfig = errors.New("directory: invalid client config")
)

// ClientConfig bundles configuration for the org-directory profile client.
type ClientConfig struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client fetches combined org-chart profiles from the corporate directory API.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient constructs a Client with validated configuration.
func NewClient(cfg ClientConfig) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: %v", ErrInvalidClientConfig, errMissingBaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:    baseURL,
		timeout:    timeout,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// FetchProfile retrieves the combined profile document for the given directory
// identifier (employee id or email). A 404 maps to ErrProfileNotFound; a
// deadline overrun maps to ErrDirectoryTimeout; caller cancellation propagates
// as context.Canceled; any other transport, status, or decode failure is
// logged and reported as ErrProfileNotFound so a flaky upstream degrades the
// same way as an unknown identifier.
func (c *Client) FetchProfile(ctx context.Context, identifier string) (Profile, error) {
	id := strings.TrimSpace(identifier)
	if id == "" {
		return Profile{}, fmt.Errorf("%w: %v", ErrProfileNotFound, errMissingIdentifier)
	}

	requestURL := fmt.Sprintf("%s/profiles/%s/profile_combined", c.baseURL, url.PathEscape(id))

	requestCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, requestURL, nil)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrProfileNotFound, err)
	}
	req.Header.Set("Accept", "application/json")

	response, err := c.httpClient.Do(req)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded) || errors.Is(requestCtx.Err(), context.DeadlineExceeded):
			c.logger.Error("directory profile fetch timed out", zap.String("identifier", id))
			return Profile{}, ErrDirectoryTimeout
		case errors.Is(err, context.Canceled):
			// Caller abandoned the request; not an upstream outcome.
			return Profile{}, fmt.Errorf("directory: profile fetch: %w", context.Canceled)
		default:
			c.logger.Error("directory profile fetch failed", zap.String("identifier", id), zap.Error(err))
			return Profile{}, ErrProfileNotFound
		}
	}
	defer response.Body.Close()

	switch {
	case response.StatusCode == http.StatusOK:
		var profile Profile
		if err := json.NewDecoder(response.Body).Decode(&profile); err != nil {
			c.logger.Error("directory profile decode failed", zap.String("identifier", id), zap.Error(err))
			return Profile{}, ErrProfileNotFound
		}
		return profile, nil
	case response.StatusCode == http.StatusNotFound:
		c.logger.Warn("directory profile not found", zap.String("identifier", id))
		return Profile{}, ErrProfileNotFound
	default:
		c.logger.Error("directory returned unexpected status",
			zap.String("identifier", id),
			zap.Int("status", response.StatusCode))
		return Profile{}, ErrProfileNotFound
	}
}
