// Package credential manages authentication material for outbound
// requests.
//
// A Credential attaches material to a transport.Request, reports
// whether a failure means the material expired, and refreshes material
// when the remote service rotates it. Two implementations are
// provided: APIKey for static header keys and BearerToken for tokens
// minted by a TokenSource. Anything else plugs in through the
// Credential interface.
//
// Concurrent refreshes of the same BearerToken collapse into a single
// fetch, so a burst of requests hitting an expired token triggers one
// call to the token source, not one per request.
//
// Example:
//
//	source := credential.TokenSourceFunc(func(ctx context.Context) (string, time.Time, error) {
//		return mintToken(ctx)
//	})
//	cred, err := credential.NewBearerToken(credential.BearerTokenConfig{Source: source})
//	if err != nil {
//		return err
//	}
//
//	req := &transport.Request{Method: "GET", Path: "/rest/api/3/myself"}
//	if err := cred.Attach(ctx, req); err != nil {
//		return err
//	}
package credential
