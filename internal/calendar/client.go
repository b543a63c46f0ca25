package calendar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"

	"github.com/teemow/calendar-mcp/internal/instrumentation"
	"github.com/teemow/calendar-mcp/internal/logging"
)

const (
	// DefaultBaseURL is the root of the Google Calendar v3 REST API.
	DefaultBaseURL = "https://www.googleapis.com/calendar/v3"

	// DefaultTimeout bounds every upstream call.
	DefaultTimeout = 30 * time.Second

	// ServiceName labels calendar operations in metrics and traces.
	ServiceName = instrumentation.ServiceCalendar
)

// Response is the raw upstream answer of a successful call.
type Response struct {
	StatusCode int
	Body       []byte
}

// Client performs one HTTP call per Request against the Calendar API.
// A Client holds no per-call state and is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger
	metrics    *instrumentation.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root. Intended for tests against a local server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client. Intended for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request logging.
func WithLogger(logger logging.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics enables upstream request metrics.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a Client for the Google Calendar API
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logging.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends req upstream. A non-empty token is attached as
// "Authorization: Bearer <token>"; an empty token sends no Authorization header.
//
// Do returns *APIError for non-2xx answers and *TransportError when no
// response was received.
func (c *Client) Do(ctx context.Context, req *Request, token string) (*Response, error) {
	ep := req.Endpoint
	attrs := instrumentation.NewSpanAttributeBuilder().
		WithTool(ep.Name).
		WithHTTPMethod(ep.Method).
		WithResource(ep.Resource, "").
		WithReadOnly(ep.ReadOnly()).
		Build()
	ctx, span := instrumentation.StartGoogleAPISpan(ctx, ServiceName, ep.Operation, attrs...)
	defer span.End()

	start := time.Now()
	resp, statusCode, err := c.do(ctx, req, token)
	duration := time.Since(start)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
	} else {
		instrumentation.SetSpanSuccess(span)
	}

	if c.metrics != nil {
		c.metrics.RecordGoogleAPIOperation(ctx, ServiceName, ep.Operation, status, duration)
		c.metrics.RecordUpstreamRequest(ctx, ep.Method, statusCode)
	}

	c.logger.Debug("calendar API call completed",
		logging.Tool(ep.Name),
		logging.Method(ep.Method),
		logging.Path(req.Path),
		logging.StatusCode(statusCode),
		logging.Status(status),
		logging.KeyDuration, duration,
	)

	return resp, err
}

func (c *Client) do(ctx context.Context, req *Request, token string) (*Response, int, error) {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	body, err := req.EncodedBody()
	if err != nil {
		return nil, 0, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method(), target, body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request for %s: %w", req.Endpoint.Name, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(httpReq)
	}

	res, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, 0, &TransportError{Method: req.Method(), URL: target, Err: err}
	}
	defer res.Body.Close()

	if err := checkResponse(res); err != nil {
		return nil, res.StatusCode, err
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, res.StatusCode, &TransportError{Method: req.Method(), URL: target, Err: err}
	}

	return &Response{StatusCode: res.StatusCode, Body: data}, res.StatusCode, nil
}
