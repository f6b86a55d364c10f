// Package productclient looks up products in the product service over HTTP
package productclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/erp/ordering/internal/domain/order"
	"github.com/erp/ordering/internal/domain/shared"
	"go.uber.org/zap"
)

const maxResponseSize = 1 << 20

// Config configures the client
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	RetryStep  time.Duration
}

// Validate checks the configuration
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("productclient: base URL is required")
	}
	if c.MaxRetries < 0 {
		return errors.New("productclient: max retries cannot be negative")
	}
	return nil
}

// Client implements order.ProductLookup against the product service REST API.
// Transient failures and non-success statuses are retried with a linear
// backoff; a 404 is reported at once as NotFound.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	retryStep  time.Duration
	logger     *zap.Logger
}

var _ order.ProductLookup = (*Client)(nil)

// New creates a client
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		maxRetries: cfg.MaxRetries,
		retryStep:  cfg.RetryStep,
		logger:     logger.Named("productclient"),
	}, nil
}

// envelope is the product service's response wrapper
type envelope struct {
	Success bool                   `json:"success"`
	Data    *order.ProductSnapshot `json:"data"`
}

// GetByID fetches a product snapshot
func (c *Client) GetByID(ctx context.Context, productID uint) (*order.ProductSnapshot, error) {
	url := fmt.Sprintf("%s/api/v1/products/%d", c.baseURL, productID)

	var snapshot *order.ProductSnapshot
	attempt := 0
	operation := func() error {
		attempt++
		s, err := c.fetch(ctx, url, productID)
		if err != nil {
			return err
		}
		snapshot = s
		return nil
	}
	notify := func(err error, wait time.Duration) {
		c.logger.Warn("Product lookup failed, retrying",
			zap.Uint("product_id", productID),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(&LinearBackOff{Step: c.retryStep}, uint64(c.maxRetries)),
		ctx,
	)
	err := backoff.RetryNotify(operation, policy, notify)
	if err == nil {
		return snapshot, nil
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return nil, err
	}
	return nil, shared.NewTransportError(fmt.Sprintf("product lookup for %d failed after %d attempt(s)", productID, attempt), err)
}

// fetch performs one request. Errors wrapped as permanent stop the retries.
func (c *Client) fetch(ctx context.Context, url string, productID uint) (*order.ProductSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("productclient: failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("productclient: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("productclient: failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, backoff.Permanent(shared.NewNotFoundError(order.SnapshotEntityName, productID))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("productclient: unexpected status %d", resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("productclient: failed to decode response: %w", err))
	}
	if env.Data == nil {
		return nil, backoff.Permanent(errors.New("productclient: response carries no product"))
	}
	return env.Data, nil
}

// LinearBackOff waits Step x n before retry n
type LinearBackOff struct {
	Step time.Duration
	n    int64
}

// NextBackOff implements backoff.BackOff
func (b *LinearBackOff) NextBackOff() time.Duration {
	b.n++
	return time.Duration(b.n) * b.Step
}

// Reset implements backoff.BackOff
func (b *LinearBackOff) Reset() {
	b.n = 0
}
