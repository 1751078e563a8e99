package replay

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/jonwraymond/connectops/transport"
)

// Fingerprint returns the canonical identity of a request for
// operation op: the SHA-256 of its canonical JSON form.
func Fingerprint(op string, req *transport.Request) (string, error) {
	canonical, err := canonicalRequest(op, req)
	if err != nil {
		return "", err
	}
	return fingerprintOf(canonical), nil
}

func fingerprintOf(canonical []byte) string {
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}

// canonicalRequest builds the canonical JSON form of a request.
// JSON bodies are parsed and re-serialized canonically; non-JSON
// bodies are carried as base64 under a separate key so the two can
// never collide.
func canonicalRequest(op string, req *transport.Request) ([]byte, error) {
	payload := map[string]any{
		"operation": op,
		"method":    req.Method,
		"path":      req.Path,
	}

	if len(req.Body) > 0 {
		dec := json.NewDecoder(bytes.NewReader(req.Body))
		dec.UseNumber()
		var body any
		if err := dec.Decode(&body); err == nil && !dec.More() {
			payload["body"] = body
		} else {
			payload["body_raw"] = base64.StdEncoding.EncodeToString(req.Body)
		}
	}

	canonical, err := canonicalize(payload)
	if err != nil {
		return nil, fmt.Errorf("replay: canonicalize request: %w", err)
	}
	return canonical, nil
}

// canonicalize produces a deterministic JSON representation of v.
// Maps are sorted by key and numbers are normalized so formatting
// differences never change the result.
func canonicalize(v any) ([]byte, error) {
	switch val := v.(type) {
	case nil:
		return []byte("null"), nil
	case map[string]any:
		return canonicalizeMap(val)
	case []any:
		return canonicalizeSlice(val)
	case json.Number:
		return canonicalNumber(val), nil
	case float64:
		return canonicalNumber(json.Number(strconv.FormatFloat(val, 'g', -1, 64))), nil
	default:
		return json.Marshal(v)
	}
}

func canonicalizeMap(m map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []byte("{")
	for i, k := range keys {
		if i > 0 {
			result = append(result, ',')
		}

		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		result = append(result, keyBytes...)
		result = append(result, ':')

		valBytes, err := canonicalize(m[k])
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, '}')

	return result, nil
}

func canonicalizeSlice(s []any) ([]byte, error) {
	result := []byte("[")
	for i, v := range s {
		if i > 0 {
			result = append(result, ',')
		}

		valBytes, err := canonicalize(v)
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, ']')

	return result, nil
}

// canonicalNumber normalizes a JSON number. Integers keep their exact
// value; everything else is formatted to nine significant digits, so
// 1.0, 1.00, and 1e0 all canonicalize to "1".
func canonicalNumber(n json.Number) []byte {
	if i, err := n.Int64(); err == nil {
		return []byte(strconv.FormatInt(i, 10))
	}
	f, err := n.Float64()
	if err != nil {
		return []byte(n.String())
	}
	return []byte(strconv.FormatFloat(f, 'g', 9, 64))
}
