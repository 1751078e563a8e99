// Package pool provides a bounded connection pool with exclusive
// leases.
//
// The pool dials connections lazily through a Dialer up to MaxConns
// and hands them out one lease at a time: a leased connection is never
// shared. Release returns a healthy connection for reuse, Discard
// drops a broken one, and both are idempotent so callers can defer
// whichever exit path fires first.
//
// A background maintenance loop keeps the pool between MinConns and
// MaxConns, evicting connections past MaxLifetime or idle longer than
// IdleTimeout and topping back up to the minimum.
//
// Example:
//
//	p, err := pool.New(pool.Config{Dialer: tr, MaxConns: 8})
//	if err != nil {
//		return err
//	}
//	defer p.Close()
//
//	lease, err := p.Acquire(ctx)
//	if err != nil {
//		return err
//	}
//	defer lease.Release()
//
//	resp, err := lease.Conn().Send(ctx, req)
package pool
