// Package transport defines the wire collaborator contract between the
// execution core and provider adapters.
//
// A Transport dials Conns; a Conn sends normalized Requests and returns
// normalized Responses. The core never inspects provider payloads: it
// moves opaque bodies and classifies outcomes into the fault taxonomy
// with Classify, which maps HTTP statuses and transport-level errors to
// fault kinds (including the Retry-After hint on rate limiting). The
// same classification applies to live and replayed responses, so a
// recorded 503 fails exactly like a live one.
//
// HTTPTransport is the built-in implementation backed by resty. Each
// dialed Conn owns its own client so pooled connections are isolated:
//
//	tr, err := transport.NewHTTPTransport(transport.HTTPConfig{
//	    BaseURL: "https://api.example.com",
//	    Timeout: 10 * time.Second,
//	})
//	if err != nil {
//	    return err
//	}
//
//	conn, err := tr.Dial(ctx)
//	if err != nil {
//	    return err
//	}
//	defer conn.Close()
//
//	resp, err := conn.Send(ctx, &transport.Request{
//	    Method: http.MethodGet,
//	    Path:   "/v2/issues",
//	})
//	if err := transport.Classify("issues.list", resp, err); err != nil {
//	    return err
//	}
package transport
