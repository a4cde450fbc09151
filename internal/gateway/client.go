// Package gateway is the single chokepoint for outbound requests to the travel API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"tripdesk/internal/auth"
	"tripdesk/internal/shared/config"
	"tripdesk/pkg/logger"
)

// RequestTimeout bounds every call made through the gateway
const RequestTimeout = 10 * time.Second

// Response is a successful (2xx) reply
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the body into v
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// Client issues requests against the configured base address
type Client struct {
	baseURL    string
	httpClient *http.Client
	auth       *auth.Context
	logger     *logger.Logger
	timeout    time.Duration
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout overrides RequestTimeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New creates a gateway client. An empty baseURL falls back to the local default.
func New(baseURL string, authCtx *auth.Context, log *logger.Logger, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = config.DefaultAPIBaseURL
	}
	if log == nil {
		log = logger.GetDefault()
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		auth:       authCtx,
		logger:     log,
		timeout:    RequestTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the resolved base address
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a GET with query parameters
func (c *Client) Get(ctx context.Context, path string, params url.Values) (*Response, error) {
	return c.Send(ctx, http.MethodGet, path, params, nil)
}

// Post issues a POST with a JSON body
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Send(ctx, http.MethodPost, path, nil, body)
}

// Send performs one request. A 401 evicts the stored credential and fires the
// unauthorized callback before the error is returned; every other failure is
// returned untouched. Nothing is retried.
func (c *Client) Send(ctx context.Context, method, path string, params url.Values, body any) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	requestID := uuid.New().String()
	start := time.Now()

	resp, err := c.do(ctx, requestID, method, path, params, body)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	var gwErr *Error
	if errors.As(err, &gwErr) {
		status = gwErr.StatusCode
	}
	c.logger.LogGatewayRequest(ctx, requestID, method, path, status, time.Since(start), err)

	return resp, err
}

func (c *Client) do(ctx context.Context, requestID, method, path string, params url.Values, body any) (*Response, error) {
	u, err := url.Parse(c.baseURL + "/" + strings.TrimLeft(path, "/"))
	if err != nil {
		return nil, &Error{Kind: KindTransport, Method: method, Path: path, Err: fmt.Errorf("invalid base URL: %w", err)}
	}
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Kind: KindTransport, Method: method, Path: path, Err: fmt.Errorf("failed to encode body: %w", err)}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Method: method, Path: path, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.auth != nil {
		if token := c.auth.Credential(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.classify(ctx, method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.classify(ctx, method, path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if c.auth != nil {
			c.logger.LogUnauthorized(ctx, method, path)
			c.auth.HandleUnauthorized(context.WithoutCancel(ctx))
		}
		return nil, &Error{
			Kind:       KindUnauthorized,
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    extractMessage(data),
			Body:       data,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Kind:       KindStatus,
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    extractMessage(data),
			Body:       data,
		}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

func (c *Client) classify(ctx context.Context, method, path string, err error) error {
	var netErr net.Error
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{Kind: KindTimeout, Method: method, Path: path, Err: err}
	}
	return &Error{Kind: KindTransport, Method: method, Path: path, Err: err}
}
