package transport

import (
	"context"
	"net/textproto"
	"strings"
)

// Transport dials connections to one remote endpoint.
//
// Contract:
//   - Dial returns a ready-to-use connection or an error; it must respect
//     context cancellation.
//   - Implementations must be safe for concurrent use; each returned Conn
//     is used by one caller at a time.
type Transport interface {
	// Dial establishes a new connection to the endpoint.
	Dial(ctx context.Context) (Conn, error)
}

// Conn is a single connection to a remote endpoint.
//
// Contract:
//   - Send performs one request/response exchange. It returns the raw
//     outcome; classification into fault kinds is the caller's step via
//     Classify.
//   - Send must respect context cancellation and deadlines.
//   - Close releases the connection's resources. A closed connection
//     fails all subsequent Sends.
type Conn interface {
	// Send performs one request and returns the normalized response.
	Send(ctx context.Context, req *Request) (*Response, error)

	// Close releases the connection.
	Close() error
}

// Request is a provider-neutral outbound request. Adapters fill it from
// their wire schemas; the core treats Body as opaque bytes.
type Request struct {
	// Method is the HTTP method.
	Method string

	// Path is the endpoint-relative path, including any query string.
	Path string

	// Headers are the request headers. Credential attachment adds to
	// them; use SetHeader to avoid nil-map handling.
	Headers map[string]string

	// Body is the serialized request payload, or nil.
	Body []byte
}

// SetHeader sets a header, initializing the map when needed.
func (r *Request) SetHeader(key, value string) {
	if r.Headers == nil {
		r.Headers = make(map[string]string)
	}
	r.Headers[key] = value
}

// Clone returns a deep copy. Each physical attempt works on its own copy
// so credential attachment never leaks between attempts.
func (r *Request) Clone() *Request {
	if r == nil {
		return nil
	}

	out := &Request{
		Method: r.Method,
		Path:   r.Path,
	}
	if r.Headers != nil {
		out.Headers = make(map[string]string, len(r.Headers))
		for k, v := range r.Headers {
			out.Headers[k] = v
		}
	}
	if r.Body != nil {
		out.Body = make([]byte, len(r.Body))
		copy(out.Body, r.Body)
	}
	return out
}

// Response is a provider-neutral response.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Headers are the response headers, keyed canonically.
	Headers map[string]string

	// Body is the raw response payload.
	Body []byte
}

// Header returns the value for the given key, case-insensitively.
func (r *Response) Header(key string) string {
	if r == nil || len(r.Headers) == 0 {
		return ""
	}
	if v, ok := r.Headers[textproto.CanonicalMIMEHeaderKey(key)]; ok {
		return v
	}
	// Hand-built responses (fixtures) may carry non-canonical keys.
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}
