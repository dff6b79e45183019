package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

// ErrorKind classifies a transport failure so callers never have to inspect
// message text to decide whether a retry makes sense.
type ErrorKind int

const (
	// KindOther is a non-retryable failure: bad request, auth, quota policy.
	KindOther ErrorKind = iota
	// KindTransient is a retryable server-side failure (5xx or 429).
	KindTransient
)

func (k ErrorKind) String() string {
	if k == KindTransient {
		return "transient"
	}
	return "other"
}

// APIError is a structured generateContent failure.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("gemini: %s (%s, http %d)", e.Message, e.Status, e.StatusCode)
	}
	return fmt.Sprintf("gemini: %s (http %d)", e.Message, e.StatusCode)
}

// Config holds generation client configuration.
type Config struct {
	APIKey       string
	BaseURL      string
	Model        string
	Timeout      time.Duration
	RetryBackoff time.Duration // base backoff before the first retry
}

// DefaultConfig returns sensible defaults for the image-capable model.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:       apiKey,
		BaseURL:      "https://generativelanguage.googleapis.com/v1beta",
		Model:        "gemini-2.5-flash-image-preview",
		Timeout:      2 * time.Minute,
		RetryBackoff: time.Second,
	}
}

const maxAttempts = 3

// Client calls the generateContent endpoint with bounded retry. Transient
// server failures are retried up to three attempts with exponential backoff
// (base 1s, so waits of 1s then 2s); everything else propagates immediately.
// This is the only component in the pipeline that performs time-based waiting.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultConfig("").BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultConfig("").Model
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig("").Timeout
	}
	if cfg.RetryBackoff == 0 {
		cfg.RetryBackoff = DefaultConfig("").RetryBackoff
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Generate sends one ordered list of image/text parts and returns the raw
// response. Retry attempts are strictly sequential, never concurrent.
func (c *Client) Generate(ctx context.Context, parts []Part) (*Response, error) {
	if c.cfg.APIKey == "" {
		return nil, &APIError{Kind: KindOther, Message: "API key not configured"}
	}

	backoff := retry.WithMaxRetries(maxAttempts-1, retry.NewExponential(c.cfg.RetryBackoff))

	var resp *Response
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		r, err := c.generateOnce(ctx, parts)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.Kind == KindTransient {
				c.logger.Warn("generate attempt failed",
					"attempt", attempt, "status", apiErr.StatusCode, "error", apiErr.Message)
				return retry.RetryableError(err)
			}
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) generateOnce(ctx context.Context, parts []Part) (*Response, error) {
	reqBody := Request{
		Contents: []Content{{Role: "user", Parts: parts}},
		GenerationConfig: &GenerationConfig{
			ResponseModalities: []string{"TEXT", "IMAGE"},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.cfg.BaseURL, c.cfg.Model, c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		// Network-level failures are retryable: the request may never have
		// reached the provider.
		return nil, &APIError{Kind: KindTransient, Message: err.Error()}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &APIError{Kind: KindTransient, StatusCode: httpResp.StatusCode, Message: "read response: " + err.Error()}
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, errorFromStatus(httpResp.StatusCode, body)
	}

	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &APIError{Kind: KindOther, StatusCode: httpResp.StatusCode, Message: "decode response: " + err.Error()}
	}
	if resp.Error != nil {
		return nil, &APIError{
			Kind:       kindForStatusCode(resp.Error.Code),
			StatusCode: resp.Error.Code,
			Status:     resp.Error.Status,
			Message:    resp.Error.Message,
		}
	}
	return &resp, nil
}

func errorFromStatus(statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		Kind:       kindForStatusCode(statusCode),
		StatusCode: statusCode,
		Message:    fmt.Sprintf("request failed with status %d", statusCode),
	}
	// The error body, when present, carries a structured status enum.
	var wrapper struct {
		Error *ErrorDetail `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapper); err == nil && wrapper.Error != nil {
		apiErr.Status = wrapper.Error.Status
		if wrapper.Error.Message != "" {
			apiErr.Message = wrapper.Error.Message
		}
	}
	return apiErr
}

func kindForStatusCode(code int) ErrorKind {
	if code == http.StatusTooManyRequests || code >= 500 {
		return KindTransient
	}
	return KindOther
}
