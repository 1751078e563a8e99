package pool

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jonwraymond/connectops/transport"
)

// ConnState is the lifecycle state of a pooled connection.
type ConnState int

const (
	// StateAvailable means the connection is idle in the pool.
	StateAvailable ConnState = iota

	// StateInUse means the connection is held by an outstanding lease.
	StateInUse

	// StateExpired means the connection aged out and is being closed.
	StateExpired
)

// String returns the state name.
func (s ConnState) String() string {
	switch s {
	case StateAvailable:
		return "available"
	case StateInUse:
		return "in_use"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Conn is a pooled transport connection.
//
// State and timestamps are guarded by the owning pool's mutex; a Conn
// is only handed to one lease at a time, so Send needs no locking of
// its own.
type Conn struct {
	id string
	tc transport.Conn

	createdAt  time.Time
	lastUsedAt time.Time
	state      ConnState
}

func newConn(tc transport.Conn) *Conn {
	now := time.Now()
	return &Conn{
		id:         uuid.NewString(),
		tc:         tc,
		createdAt:  now,
		lastUsedAt: now,
		state:      StateAvailable,
	}
}

// ID returns the connection's unique identifier.
func (c *Conn) ID() string {
	return c.id
}

// Send sends a request over the underlying transport connection.
func (c *Conn) Send(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	return c.tc.Send(ctx, req)
}

func (c *Conn) close() error {
	return c.tc.Close()
}

// expiredLocked reports whether the connection aged out. Caller must
// hold the pool mutex.
func (c *Conn) expiredLocked(now time.Time, maxLifetime, idleTimeout time.Duration) bool {
	if maxLifetime > 0 && now.Sub(c.createdAt) >= maxLifetime {
		return true
	}
	if idleTimeout > 0 && now.Sub(c.lastUsedAt) >= idleTimeout {
		return true
	}
	return false
}
