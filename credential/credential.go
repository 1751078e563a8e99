package credential

import (
	"context"

	"github.com/jonwraymond/connectops/transport"
)

// Credential supplies authentication material for outbound requests.
//
// Contract:
//   - Attach applies the credential to the request, typically as a
//     header. It must not mutate anything except the request, and it
//     may block (for example to fetch a fresh token), so it honors ctx.
//   - IsAuthExpired reports whether err means the credential was
//     rejected as expired and a refresh-and-retry is worthwhile.
//     Implementations return false when a refresh cannot help, such as
//     static material that has no refresh path.
//   - Refresh obtains new credential material. Implementations that
//     cannot refresh return ErrRefreshNotSupported. Refresh must be
//     safe for concurrent use; concurrent calls may be collapsed into
//     a single fetch.
type Credential interface {
	Attach(ctx context.Context, req *transport.Request) error
	IsAuthExpired(err error) bool
	Refresh(ctx context.Context) error
}
