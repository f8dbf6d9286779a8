package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

var (
	// ErrMissingToken is returned by the first remote call when no API token is configured.
	ErrMissingToken = errors.New("notion: missing API token")
	// ErrMissingDataSource is returned when a query names no data source.
	ErrMissingDataSource = errors.New("notion: missing data source id")
)

// APIError is a non-2xx response from the Notion API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("notion api: unexpected status %d", e.Status)
	}
	return fmt.Sprintf("notion api: %d %s: %s", e.Status, e.Code, e.Message)
}

// Config holds Notion client configuration.
type Config struct {
	Token          string
	BaseURL        string
	Version        string
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	HTTPClient     *http.Client
}

// Client is an authenticated handle to the Notion REST API. The HTTP client
// and credentials are resolved on the first call, not on construction.
type Client struct {
	cfg    Config
	logger *slog.Logger

	once       sync.Once
	initErr    error
	httpClient *http.Client
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Client{
		cfg:    cfg,
		logger: logger.With("component", "notion"),
	}
}

func (c *Client) init() error {
	c.once.Do(func() {
		if c.cfg.Token == "" {
			c.initErr = ErrMissingToken
			return
		}
		c.httpClient = c.cfg.HTTPClient
		if c.httpClient == nil {
			c.httpClient = &http.Client{Timeout: c.cfg.Timeout}
		}
	})
	return c.initErr
}

// QueryDataSource fetches one page of records from a data source.
func (c *Client) QueryDataSource(ctx context.Context, sourceID string, q QueryRequest) (*QueryResponse, error) {
	if err := c.init(); err != nil {
		return nil, err
	}
	if sourceID == "" {
		return nil, ErrMissingDataSource
	}

	body, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	endpoint := fmt.Sprintf("%s/data_sources/%s/query", c.cfg.BaseURL, url.PathEscape(sourceID))

	var resp QueryResponse
	if err := c.do(ctx, http.MethodPost, endpoint, body, &resp); err != nil {
		return nil, fmt.Errorf("query data source %s: %w", sourceID, err)
	}
	return &resp, nil
}

// ListBlockChildren fetches one page of the direct children of a block or page.
func (c *Client) ListBlockChildren(ctx context.Context, blockID, cursor string, pageSize int) (*BlockChildrenResponse, error) {
	if err := c.init(); err != nil {
		return nil, err
	}

	params := url.Values{}
	if pageSize > 0 {
		params.Set("page_size", strconv.Itoa(pageSize))
	}
	if cursor != "" {
		params.Set("start_cursor", cursor)
	}
	endpoint := fmt.Sprintf("%s/blocks/%s/children?%s", c.cfg.BaseURL, url.PathEscape(blockID), params.Encode())

	var resp BlockChildrenResponse
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, fmt.Errorf("list children of %s: %w", blockID, err)
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte, dst any) error {
	var err error

	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		err = c.doRequest(ctx, method, endpoint, body, dst)
		if err == nil {
			return nil
		}

		if attempt == c.cfg.MaxAttempts {
			break
		}

		backoff := c.calculateBackoff(attempt)
		c.logger.Warn("request failed, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}

	if c.cfg.MaxAttempts > 1 {
		return fmt.Errorf("after %d attempts: %w", c.cfg.MaxAttempts, err)
	}
	return err
}

func (c *Client) doRequest(ctx context.Context, method, endpoint string, body []byte, dst any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Notion-Version", c.cfg.Version)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{Status: resp.StatusCode}
		var er ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&er); err == nil {
			apiErr.Code = er.Code
			apiErr.Message = er.Message
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.cfg.InitialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > c.cfg.MaxBackoff {
		backoff = c.cfg.MaxBackoff
	}
	return backoff
}
