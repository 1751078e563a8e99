package credential

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonwraymond/connectops/secret"
	"github.com/jonwraymond/connectops/transport"
)

// APIKeyConfig configures a static API key credential.
type APIKeyConfig struct {
	// Header is the request header carrying the key.
	// Default: "X-API-Key"
	Header string

	// Prefix is prepended to the key in the header value,
	// for example "Token ". Default: none
	Prefix string
}

// APIKey is a static credential attached as a request header.
//
// The key never changes for the lifetime of the credential, so
// IsAuthExpired always reports false and Refresh returns
// ErrRefreshNotSupported. A rejected static key is terminal.
type APIKey struct {
	config APIKeyConfig
	key    string
}

// NewAPIKey creates a static API key credential.
func NewAPIKey(key string, config APIKeyConfig) (*APIKey, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrEmptyKey
	}

	// Apply defaults
	if config.Header == "" {
		config.Header = "X-API-Key"
	}

	return &APIKey{
		config: config,
		key:    key,
	}, nil
}

// NewAPIKeyFromSecret resolves key material through resolver before
// constructing the credential. The ref may be a plain value, an
// environment expansion, or a secret reference (see package secret),
// so callers never embed key material in code or configuration.
func NewAPIKeyFromSecret(ctx context.Context, resolver *secret.Resolver, ref string, config APIKeyConfig) (*APIKey, error) {
	key, err := resolver.ResolveValue(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("credential: resolve API key: %w", err)
	}
	return NewAPIKey(key, config)
}

// Attach sets the key header on the request.
func (k *APIKey) Attach(_ context.Context, req *transport.Request) error {
	req.SetHeader(k.config.Header, k.config.Prefix+k.key)
	return nil
}

// IsAuthExpired always reports false: static material cannot be
// refreshed, so an auth rejection is terminal.
func (k *APIKey) IsAuthExpired(_ error) bool {
	return false
}

// Refresh returns ErrRefreshNotSupported.
func (k *APIKey) Refresh(_ context.Context) error {
	return ErrRefreshNotSupported
}

// Ensure APIKey implements Credential
var _ Credential = (*APIKey)(nil)
