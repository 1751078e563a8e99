package credential

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/connectops/fault"
	"github.com/jonwraymond/connectops/transport"
)

// TokenSource supplies bearer tokens.
//
// Implementations must be safe for concurrent use. A zero expiresAt
// means the source does not know when the token expires; for JWTs the
// credential falls back to the token's own exp claim.
type TokenSource interface {
	Token(ctx context.Context) (token string, expiresAt time.Time, err error)
}

// TokenSourceFunc adapts a function to a TokenSource.
type TokenSourceFunc func(ctx context.Context) (string, time.Time, error)

// Token calls f.
func (f TokenSourceFunc) Token(ctx context.Context) (string, time.Time, error) {
	return f(ctx)
}

// StaticTokenSource returns a source that always yields token with no
// expiry. Useful for personal access tokens and tests.
func StaticTokenSource(token string) TokenSource {
	return TokenSourceFunc(func(_ context.Context) (string, time.Time, error) {
		return token, time.Time{}, nil
	})
}

// BearerTokenConfig configures the bearer token credential.
type BearerTokenConfig struct {
	// Source supplies tokens. Required.
	Source TokenSource

	// Header is the request header carrying the token.
	// Default: "Authorization"
	Header string

	// Prefix is prepended to the token in the header value.
	// Default: "Bearer "
	Prefix string

	// ExpiryLeeway refreshes the token this long before its recorded
	// expiry so in-flight requests do not race the deadline.
	// Default: 30s
	ExpiryLeeway time.Duration
}

// BearerToken attaches a bearer token, fetching a fresh one through
// its TokenSource when the cached token is missing or near expiry.
type BearerToken struct {
	config BearerTokenConfig

	mu        sync.RWMutex
	token     string
	expiresAt time.Time

	sfGroup singleflight.Group // collapses concurrent refreshes
}

// NewBearerToken creates a bearer token credential.
func NewBearerToken(config BearerTokenConfig) (*BearerToken, error) {
	if config.Source == nil {
		return nil, ErrNoTokenSource
	}

	// Apply defaults
	if config.Header == "" {
		config.Header = "Authorization"
	}
	if config.Prefix == "" {
		config.Prefix = "Bearer "
	}
	if config.ExpiryLeeway == 0 {
		config.ExpiryLeeway = 30 * time.Second
	}

	return &BearerToken{config: config}, nil
}

// Attach sets the token header on the request, refreshing first when
// the cached token is missing or inside the expiry leeway.
func (b *BearerToken) Attach(ctx context.Context, req *transport.Request) error {
	b.mu.RLock()
	token := b.token
	fresh := token != "" && !b.staleLocked(time.Now())
	b.mu.RUnlock()

	if !fresh {
		if err := b.Refresh(ctx); err != nil {
			return err
		}
		b.mu.RLock()
		token = b.token
		b.mu.RUnlock()
	}

	req.SetHeader(b.config.Header, b.config.Prefix+token)
	return nil
}

// IsAuthExpired reports whether err is classified as an expired
// credential rejection.
func (b *BearerToken) IsAuthExpired(err error) bool {
	return fault.KindOf(err) == fault.KindAuthExpired
}

// Refresh fetches a new token from the source. Concurrent calls are
// collapsed into a single fetch; every caller observes its outcome.
func (b *BearerToken) Refresh(ctx context.Context) error {
	_, err, _ := b.sfGroup.Do("refresh", func() (any, error) {
		token, expiresAt, err := b.config.Source.Token(ctx)
		if err != nil {
			return nil, err
		}
		token = strings.TrimSpace(token)
		if token == "" {
			return nil, ErrEmptyToken
		}
		if expiresAt.IsZero() {
			expiresAt = jwtExpiry(token)
		}

		b.mu.Lock()
		b.token = token
		b.expiresAt = expiresAt
		b.mu.Unlock()
		return nil, nil
	})
	return err
}

// ExpiresAt returns the recorded expiry of the cached token.
// Zero means no expiry is known.
func (b *BearerToken) ExpiresAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.expiresAt
}

// staleLocked reports whether the cached token is at or past its
// refresh point. Caller must hold at least RLock.
func (b *BearerToken) staleLocked(now time.Time) bool {
	if b.expiresAt.IsZero() {
		return false
	}
	return !now.Before(b.expiresAt.Add(-b.config.ExpiryLeeway))
}

// jwtExpiry extracts the exp claim from a JWT without verifying the
// signature. Verification is the remote service's job; the expiry is
// only a refresh scheduling hint. Returns zero when the token is not
// a JWT or carries no expiry.
func jwtExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// Ensure BearerToken implements Credential
var _ Credential = (*BearerToken)(nil)
