// Package paystack is a minimal client for the Paystack transaction API.
package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go-gin-shop/internal/domain"
)

const (
	defaultBaseURL       = "https://api.paystack.co"
	errorBodyLimit int64 = 1024
)

var (
	errSecretRequired = errors.New("paystack secret key is required")
	// ErrNotConfigured is the cause behind every Unconfigured call.
	ErrNotConfigured = errors.New("paystack secret key not set")
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	secret     string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithBaseURL(base string) Option {
	return func(c *Client) {
		if b := strings.TrimRight(strings.TrimSpace(base), "/"); b != "" {
			c.baseURL = b
		}
	}
}

// WithTimeout sets the per-call timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

func NewClient(secret string, opts ...Option) (*Client, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errSecretRequired
	}
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    defaultBaseURL,
		secret:     secret,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

var _ domain.PaymentGateway = (*Client)(nil)

// Unconfigured stands in for Client when no secret key is set, so the
// payment routes stay mounted and answer 500 instead of 404.
type Unconfigured struct{}

var _ domain.PaymentGateway = Unconfigured{}

func (Unconfigured) Initialize(context.Context, string, int64) (*domain.PaymentInit, error) {
	return nil, domain.Internal("payments not configured", ErrNotConfigured)
}

func (Unconfigured) Verify(context.Context, string) (string, error) {
	return "", domain.Internal("payments not configured", ErrNotConfigured)
}

type envelope[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type initializeRequest struct {
	Email  string `json:"email"`
	Amount int64  `json:"amount"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type verifyData struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
}

// Initialize starts a transaction for amountMinor (kobo, cents...).
func (c *Client) Initialize(ctx context.Context, email string, amountMinor int64) (*domain.PaymentInit, error) {
	body, err := json.Marshal(initializeRequest{Email: email, Amount: amountMinor})
	if err != nil {
		return nil, fmt.Errorf("marshal initialize request: %w", err)
	}
	var out envelope[initializeData]
	if err := c.do(ctx, http.MethodPost, "/transaction/initialize", bytes.NewReader(body), &out); err != nil {
		return nil, fmt.Errorf("paystack initialize: %w", err)
	}
	if !out.Status || out.Data.Reference == "" {
		return nil, fmt.Errorf("paystack initialize rejected: %s", out.Message)
	}
	return &domain.PaymentInit{Reference: out.Data.Reference, AuthorizationURL: out.Data.AuthorizationURL}, nil
}

// Verify returns the transaction status, e.g. "success", "failed" or "abandoned".
func (c *Client) Verify(ctx context.Context, reference string) (string, error) {
	var out envelope[verifyData]
	path := "/transaction/verify/" + url.PathEscape(reference)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return "", fmt.Errorf("paystack verify: %w", err)
	}
	return out.Data.Status, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, dst any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secret)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
