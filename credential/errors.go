package credential

import "errors"

var (
	// ErrRefreshNotSupported is returned by Refresh on credentials with
	// no refresh path, such as static API keys.
	ErrRefreshNotSupported = errors.New("credential: refresh not supported")

	// ErrNoTokenSource is returned when a BearerToken is constructed
	// without a TokenSource.
	ErrNoTokenSource = errors.New("credential: no token source configured")

	// ErrEmptyKey is returned when an API key credential is constructed
	// from an empty key.
	ErrEmptyKey = errors.New("credential: empty API key")

	// ErrEmptyToken is returned when a token source yields an empty token.
	ErrEmptyToken = errors.New("credential: token source returned empty token")
)
