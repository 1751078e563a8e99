package pool

import "sync/atomic"

// Lease is an exclusive claim on one pooled connection.
//
// Exactly one of Release or Discard settles the lease; both are
// idempotent and calls after the first are no-ops. The connection must
// not be used after the lease settles.
type Lease struct {
	pool    *Pool
	conn    *Conn
	settled atomic.Bool
}

// Conn returns the leased connection.
func (l *Lease) Conn() *Conn {
	return l.conn
}

// Release returns a healthy connection to the pool for reuse.
func (l *Lease) Release() {
	if l.settled.Swap(true) {
		return
	}
	l.pool.put(l.conn, true)
}

// Discard drops a broken connection, closing it and freeing its slot.
func (l *Lease) Discard() {
	if l.settled.Swap(true) {
		return
	}
	l.pool.put(l.conn, false)
}
