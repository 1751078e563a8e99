package pool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonwraymond/connectops/fault"
	"github.com/jonwraymond/connectops/transport"
)

// Dialer opens transport connections for the pool.
// transport.Transport satisfies it.
type Dialer interface {
	Dial(ctx context.Context) (transport.Conn, error)
}

// Ensure the transport contract satisfies Dialer
var _ Dialer = transport.Transport(nil)

// Config configures the pool.
type Config struct {
	// Dialer opens new connections. Required.
	Dialer Dialer

	// MinConns is the number of connections maintenance keeps warm.
	// Default: 0
	MinConns int

	// MaxConns caps dialed connections, idle plus leased.
	// Default: 10
	MaxConns int

	// MaxLifetime evicts connections this long after they were dialed.
	// Default: 30m
	MaxLifetime time.Duration

	// IdleTimeout evicts connections idle this long.
	// Default: 5m
	IdleTimeout time.Duration

	// AcquireTimeout bounds how long Acquire waits for a free
	// connection before failing with a pool-exhausted fault.
	// Default: 5s
	AcquireTimeout time.Duration

	// MaintenanceInterval is how often eviction and top-up run.
	// Default: 30s
	MaintenanceInterval time.Duration
}

// Stats is a point-in-time snapshot of pool state.
type Stats struct {
	// Open is the number of dialed connections, idle plus in use.
	Open int

	// Idle is the number of connections waiting in the pool.
	Idle int

	// InUse is the number of connections held by outstanding leases.
	InUse int

	// Waiting is the number of acquirers blocked on a full pool.
	Waiting int

	// Dials is the cumulative count of successful dials.
	Dials uint64

	// Evictions is the cumulative count of lifetime and idle evictions.
	Evictions uint64

	// Discards is the cumulative count of discarded leases.
	Discards uint64
}

// Pool is a bounded pool of transport connections.
type Pool struct {
	config Config

	mu     sync.Mutex
	idle   []*Conn
	total  int // dialed connections, idle + leased
	closed bool

	waiting   int
	dials     uint64
	evictions uint64
	discards  uint64

	freed  chan struct{} // capacity MaxConns, one token per freed slot
	stopCh chan struct{}
	done   sync.WaitGroup
}

// New creates a pool and starts its maintenance loop.
func New(config Config) (*Pool, error) {
	if config.Dialer == nil {
		return nil, ErrNilDialer
	}

	// Apply defaults
	if config.MaxConns <= 0 {
		config.MaxConns = 10
	}
	if config.MaxLifetime == 0 {
		config.MaxLifetime = 30 * time.Minute
	}
	if config.IdleTimeout == 0 {
		config.IdleTimeout = 5 * time.Minute
	}
	if config.AcquireTimeout == 0 {
		config.AcquireTimeout = 5 * time.Second
	}
	if config.MaintenanceInterval == 0 {
		config.MaintenanceInterval = 30 * time.Second
	}

	if config.MinConns < 0 || config.MinConns > config.MaxConns {
		return nil, fmt.Errorf("pool: MinConns %d outside [0, MaxConns %d]", config.MinConns, config.MaxConns)
	}

	p := &Pool{
		config: config,
		freed:  make(chan struct{}, config.MaxConns),
		stopCh: make(chan struct{}),
	}

	p.done.Add(1)
	go p.maintain()

	return p, nil
}

// Acquire leases a connection, dialing a new one when the pool is
// below MaxConns. It blocks up to AcquireTimeout for a free connection
// and then fails with a pool-exhausted fault; context cancellation
// aborts the wait with ctx.Err().
func (p *Pool) Acquire(ctx context.Context) (*Lease, error) {
	timer := time.NewTimer(p.config.AcquireTimeout)
	defer timer.Stop()

	for {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return nil, ErrClosed
		}

		conn, expired := p.popIdleLocked(time.Now())
		if conn != nil {
			conn.state = StateInUse
		}
		canDial := conn == nil && p.total < p.config.MaxConns
		if canDial {
			// Reserve the slot before dialing outside the lock.
			p.total++
		}
		if conn == nil && !canDial {
			p.waiting++
		}
		p.mu.Unlock()

		for _, c := range expired {
			_ = c.close()
		}

		if conn != nil {
			return &Lease{pool: p, conn: conn}, nil
		}

		if canDial {
			return p.dialLeased(ctx)
		}

		// Pool full: wait for a freed slot, cancellation, or timeout.
		select {
		case <-p.freed:
			p.mu.Lock()
			p.waiting--
			p.mu.Unlock()
		case <-ctx.Done():
			p.mu.Lock()
			p.waiting--
			p.mu.Unlock()
			return nil, ctx.Err()
		case <-timer.C:
			p.mu.Lock()
			p.waiting--
			p.mu.Unlock()
			return nil, fault.PoolExhausted(ErrAcquireTimeout)
		}
	}
}

// dialLeased dials a new connection for a reserved slot and leases it.
func (p *Pool) dialLeased(ctx context.Context) (*Lease, error) {
	tc, err := p.config.Dialer.Dial(ctx)
	if err != nil {
		p.mu.Lock()
		p.total--
		p.mu.Unlock()
		p.signalFreed()

		var fe *fault.Error
		if errors.As(err, &fe) {
			return nil, err
		}
		return nil, transport.Classify("pool.dial", nil, err)
	}

	conn := newConn(tc)
	conn.state = StateInUse

	p.mu.Lock()
	p.dials++
	p.mu.Unlock()

	return &Lease{pool: p, conn: conn}, nil
}

// put settles a lease, either returning the connection to the idle
// list or closing it.
func (p *Pool) put(conn *Conn, healthy bool) {
	now := time.Now()

	p.mu.Lock()
	if p.closed {
		p.total--
		p.mu.Unlock()
		_ = conn.close()
		return
	}

	if !healthy {
		conn.state = StateExpired
		p.total--
		p.discards++
		p.mu.Unlock()
		_ = conn.close()
		p.signalFreed()
		return
	}

	if conn.expiredLocked(now, p.config.MaxLifetime, 0) {
		// Past its lifetime, close instead of idling.
		conn.state = StateExpired
		p.total--
		p.evictions++
		p.mu.Unlock()
		_ = conn.close()
		p.signalFreed()
		return
	}

	conn.state = StateAvailable
	conn.lastUsedAt = now
	p.idle = append(p.idle, conn)
	p.mu.Unlock()
	p.signalFreed()
}

// popIdleLocked pops the most recently used idle connection, marking
// aged-out ones expired on the way. Caller must hold mu and close the
// returned expired conns outside the lock.
func (p *Pool) popIdleLocked(now time.Time) (*Conn, []*Conn) {
	var expired []*Conn
	for len(p.idle) > 0 {
		conn := p.idle[len(p.idle)-1]
		p.idle = p.idle[:len(p.idle)-1]
		if conn.expiredLocked(now, p.config.MaxLifetime, p.config.IdleTimeout) {
			conn.state = StateExpired
			p.total--
			p.evictions++
			expired = append(expired, conn)
			continue
		}
		return conn, expired
	}
	return nil, expired
}

func (p *Pool) signalFreed() {
	select {
	case p.freed <- struct{}{}:
	default:
	}
}

// maintain runs eviction and top-up until Close.
func (p *Pool) maintain() {
	defer p.done.Done()

	p.topUp()

	ticker := time.NewTicker(p.config.MaintenanceInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.evictStale()
			p.topUp()
		}
	}
}

// evictStale closes idle connections past MaxLifetime or IdleTimeout.
func (p *Pool) evictStale() {
	now := time.Now()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	var kept, expired []*Conn
	for _, conn := range p.idle {
		if conn.expiredLocked(now, p.config.MaxLifetime, p.config.IdleTimeout) {
			conn.state = StateExpired
			p.total--
			p.evictions++
			expired = append(expired, conn)
			continue
		}
		kept = append(kept, conn)
	}
	p.idle = kept
	p.mu.Unlock()

	for _, conn := range expired {
		_ = conn.close()
	}
	if len(expired) > 0 {
		p.signalFreed()
	}
}

// topUp dials until the pool holds MinConns connections.
func (p *Pool) topUp() {
	for {
		p.mu.Lock()
		if p.closed || p.total >= p.config.MinConns {
			p.mu.Unlock()
			return
		}
		p.total++
		p.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), p.config.AcquireTimeout)
		tc, err := p.config.Dialer.Dial(ctx)
		cancel()
		if err != nil {
			// Retry on the next maintenance tick.
			p.mu.Lock()
			p.total--
			p.mu.Unlock()
			return
		}

		conn := newConn(tc)
		p.mu.Lock()
		if p.closed {
			p.total--
			p.mu.Unlock()
			_ = conn.close()
			return
		}
		p.dials++
		p.idle = append(p.idle, conn)
		p.mu.Unlock()
		p.signalFreed()
	}
}

// Stats returns a snapshot of pool state.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		Open:      p.total,
		Idle:      len(p.idle),
		InUse:     p.total - len(p.idle),
		Waiting:   p.waiting,
		Dials:     p.dials,
		Evictions: p.evictions,
		Discards:  p.discards,
	}
}

// Close stops maintenance and closes idle connections. Outstanding
// leases stay valid; their connections are closed when settled.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	idle := p.idle
	p.idle = nil
	p.total -= len(idle)
	p.mu.Unlock()

	close(p.stopCh)
	p.done.Wait()

	var errs []error
	for _, conn := range idle {
		conn.state = StateExpired
		if err := conn.close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
