package replay

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonwraymond/connectops/transport"
)

// Record is one recorded exchange, immutable once written.
type Record struct {
	// Fingerprint is the canonical request identity.
	Fingerprint string `json:"fingerprint"`

	// Operation is the logical operation name the exchange belongs to.
	Operation string `json:"operation"`

	// Request is the canonical JSON form of the request.
	Request json.RawMessage `json:"request"`

	// Response is the recorded response.
	Response RecordedResponse `json:"response"`

	// RecordedAt is when the exchange was captured.
	RecordedAt time.Time `json:"recorded_at"`
}

// RecordedResponse is the serialized form of a transport response.
// The body round-trips through base64, so replayed bytes are identical
// to the recorded ones.
type RecordedResponse struct {
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       []byte            `json:"body,omitempty"`
}

// NewRecord captures an exchange for operation op.
func NewRecord(op string, req *transport.Request, resp *transport.Response) (*Record, error) {
	canonical, err := canonicalRequest(op, req)
	if err != nil {
		return nil, err
	}

	headers := make(map[string]string, len(resp.Headers))
	for k, v := range resp.Headers {
		headers[k] = v
	}

	return &Record{
		Fingerprint: fingerprintOf(canonical),
		Operation:   op,
		Request:     canonical,
		Response: RecordedResponse{
			StatusCode: resp.StatusCode,
			Headers:    headers,
			Body:       append([]byte(nil), resp.Body...),
		},
		RecordedAt: time.Now().UTC(),
	}, nil
}

// toResponse converts the recorded response back to a transport
// response. The body is copied so callers cannot mutate the record.
func (r RecordedResponse) toResponse() *transport.Response {
	headers := make(map[string]string, len(r.Headers))
	for k, v := range r.Headers {
		headers[k] = v
	}
	return &transport.Response{
		StatusCode: r.StatusCode,
		Headers:    headers,
		Body:       append([]byte(nil), r.Body...),
	}
}

// Validate reports whether the record is complete enough to replay.
func (r *Record) Validate() error {
	if r.Fingerprint == "" {
		return fmt.Errorf("replay: record missing fingerprint")
	}
	if r.Operation == "" {
		return fmt.Errorf("replay: record missing operation")
	}
	return nil
}
