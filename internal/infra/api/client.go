package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
	"go.uber.org/zap"

	"compassai/internal/domain"
	"compassai/internal/infra/jsoncodec"
)

const requestIDHeader = "X-Request-ID"

// Config holds connection settings for the CompassAI backend.
type Config struct {
	BaseURL string
	// Timeout bounds each request; zero disables the bound.
	Timeout   time.Duration
	UserAgent string
}

// Client is a typed client for the CompassAI REST API. Session cookies set
// by the backend are kept in the client's cookie jar.
type Client struct {
	base      *url.URL
	http      *http.Client
	jar       http.CookieJar
	userAgent string
	logger    *zap.Logger
	metrics   domain.Metrics
	now       func() time.Time
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its Jar is replaced by
// the client jar when one is configured.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTransport sets the round tripper of the underlying HTTP client.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		if rt != nil {
			c.http.Transport = rt
		}
	}
}

// WithCookieJar sets the jar that stores session cookies.
func WithCookieJar(jar http.CookieJar) Option {
	return func(c *Client) {
		if jar != nil {
			c.jar = jar
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger.Named("api")
		}
	}
}

func WithMetrics(metrics domain.Metrics) Option {
	return func(c *Client) {
		if metrics != nil {
			c.metrics = metrics
		}
	}
}

// New builds a client for cfg.BaseURL.
func New(cfg Config, opts ...Option) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		raw = domain.DefaultAPIBaseURL
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, domain.E(domain.CodeInvalidArgument, "api client", fmt.Sprintf("invalid base url %q", raw), err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, domain.E(domain.CodeInvalidArgument, "api client", fmt.Sprintf("invalid base url %q", raw), domain.ErrInvalidRequest)
	}

	hc := cleanhttp.DefaultPooledClient()
	hc.Timeout = cfg.Timeout
	c := &Client{
		base:      base,
		http:      hc,
		userAgent: cfg.UserAgent,
		logger:    zap.NewNop(),
		metrics:   domain.NoopMetrics{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		c.jar = jar
	}
	c.http.Jar = c.jar
	return c, nil
}

// BaseURL returns the backend origin.
func (c *Client) BaseURL() *url.URL {
	u := *c.base
	return &u
}

// Jar returns the cookie jar holding the session.
func (c *Client) Jar() http.CookieJar {
	return c.jar
}

// CloseIdleConnections releases pooled connections.
func (c *Client) CloseIdleConnections() {
	c.http.CloseIdleConnections()
}

type request struct {
	op          string
	method      string
	endpoint    string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
}

func (c *Client) resolve(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + domain.DefaultAPIPrefix + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) getJSON(ctx context.Context, op, endpoint, path string, query url.Values, out any) error {
	return c.do(ctx, request{op: op, method: http.MethodGet, endpoint: endpoint, path: path, query: query}, out)
}

func (c *Client) sendJSON(ctx context.Context, op, method, endpoint, path string, payload any, out any) error {
	req := request{op: op, method: method, endpoint: endpoint, path: path}
	if payload != nil {
		data, err := jsoncodec.Marshal(payload)
		if err != nil {
			return domain.E(domain.CodeInvalidArgument, op, "encode request", err)
		}
		req.body = bytes.NewReader(data)
		req.contentType = "application/json"
	}
	return c.do(ctx, req, out)
}

// do sends the request and parses the response: the body is read as text,
// non-2xx yields a *StatusError carrying that text, an empty 2xx body leaves
// out untouched and anything else is decoded as JSON.
func (c *Client) do(ctx context.Context, req request, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	requestID := uuid.NewString()
	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.resolve(req.path, req.query), req.body)
	if err != nil {
		return domain.E(domain.CodeInvalidArgument, req.op, "build request", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(requestIDHeader, requestID)
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	start := c.now()
	metric := domain.RequestMetric{Endpoint: req.endpoint, Method: req.method}
	fields := []zap.Field{
		zap.String("method", req.method),
		zap.String("endpoint", req.endpoint),
		zap.String("requestID", requestID),
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		metric.Status = domain.RequestStatusTransport
		metric.Duration = c.now().Sub(start)
		c.metrics.ObserveRequest(metric)
		c.logger.Debug("request failed", append(fields, zap.Error(err))...)
		return transportError(ctx, req.op, err)
	}
	defer resp.Body.Close()

	text, readErr := io.ReadAll(resp.Body)
	metric.StatusCode = resp.StatusCode
	metric.Duration = c.now().Sub(start)
	fields = append(fields, zap.Int("status", resp.StatusCode), zap.Duration("duration", metric.Duration))
	if readErr != nil {
		metric.Status = domain.RequestStatusTransport
		c.metrics.ObserveRequest(metric)
		c.logger.Debug("read response failed", append(fields, zap.Error(readErr))...)
		return transportError(ctx, req.op, readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metric.Status = domain.RequestStatusHTTPError
		c.metrics.ObserveRequest(metric)
		c.logger.Debug("request rejected", fields...)
		statusErr := &StatusError{Status: resp.StatusCode, Body: string(text)}
		return domain.E(domain.CodeForStatus(resp.StatusCode), req.op, statusErr.Error(), statusErr)
	}

	if out == nil || len(bytes.TrimSpace(text)) == 0 {
		metric.Status = domain.RequestStatusSuccess
		c.metrics.ObserveRequest(metric)
		c.logger.Debug("request completed", fields...)
		return nil
	}
	if err := jsoncodec.Unmarshal(text, out); err != nil {
		metric.Status = domain.RequestStatusDecode
		c.metrics.ObserveRequest(metric)
		c.logger.Debug("decode response failed", append(fields, zap.Error(err))...)
		return domain.E(domain.CodeDecode, req.op, "", err)
	}
	metric.Status = domain.RequestStatusSuccess
	c.metrics.ObserveRequest(metric)
	c.logger.Debug("request completed", fields...)
	return nil
}

func transportError(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return domain.E(domain.CodeCanceled, op, "", ctx.Err())
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return domain.E(domain.CodeDeadlineExceeded, op, "", ctx.Err())
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		wrapped := domain.E(domain.CodeDeadlineExceeded, op, "", err)
		wrapped.Retryable = true
		return wrapped
	}
	wrapped := domain.E(domain.CodeUnavailable, op, "", err)
	wrapped.Retryable = true
	return wrapped
}
