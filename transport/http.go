package transport

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPConfig configures the HTTP transport.
type HTTPConfig struct {
	// BaseURL is the endpoint root all request paths resolve against.
	// Required.
	BaseURL string

	// Timeout is the per-request timeout applied by the client. Attempt
	// deadlines layered by callers via context take precedence when
	// shorter.
	// Default: 30 seconds
	Timeout time.Duration

	// Headers are static headers sent with every request, such as
	// User-Agent or Accept.
	Headers map[string]string
}

// HTTPTransport dials HTTP connections backed by resty. Each dialed Conn
// owns its own client and socket state, so lease exclusivity in the pool
// carries down to the transport level.
type HTTPTransport struct {
	config HTTPConfig
}

var _ Transport = (*HTTPTransport)(nil)

// NewHTTPTransport creates a new HTTP transport.
func NewHTTPTransport(config HTTPConfig) (*HTTPTransport, error) {
	if strings.TrimSpace(config.BaseURL) == "" {
		return nil, ErrMissingBaseURL
	}

	// Apply defaults
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &HTTPTransport{config: config}, nil
}

// Dial establishes a new connection.
func (t *HTTPTransport) Dial(ctx context.Context) (Conn, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	// Client-level retries stay off; the retry policy owns them.
	client := resty.New().
		SetBaseURL(t.config.BaseURL).
		SetTimeout(t.config.Timeout).
		SetRetryCount(0)

	for k, v := range t.config.Headers {
		client.SetHeader(k, v)
	}

	return &httpConn{client: client}, nil
}

type httpConn struct {
	client *resty.Client
	closed atomic.Bool
}

var _ Conn = (*httpConn)(nil)

// Send performs one request and returns the raw normalized response.
func (c *httpConn) Send(ctx context.Context, req *Request) (*Response, error) {
	if c.closed.Load() {
		return nil, ErrConnClosed
	}

	r := c.client.R().SetContext(ctx)
	for k, v := range req.Headers {
		r.SetHeader(k, v)
	}
	if req.Body != nil {
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(req.Method, req.Path)
	if err != nil {
		return nil, err
	}

	headers := make(map[string]string, len(resp.Header()))
	for k, v := range resp.Header() {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Headers:    headers,
		Body:       resp.Body(),
	}, nil
}

// Close releases the connection's sockets. Safe to call more than once.
func (c *httpConn) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	c.client.GetClient().CloseIdleConnections()
	return nil
}
