package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/jonwraymond/connectops/credential"
	"github.com/jonwraymond/connectops/fault"
	"github.com/jonwraymond/connectops/observe"
	"github.com/jonwraymond/connectops/pool"
	"github.com/jonwraymond/connectops/replay"
	"github.com/jonwraymond/connectops/resilience"
	"github.com/jonwraymond/connectops/transport"
)

// Config configures a Pipeline. One Config describes one remote
// endpoint; the gates it carries are owned, not shared, unless the
// caller passes the same instance to several pipelines.
type Config struct {
	// Pool leases the connection for each physical attempt. Required.
	Pool *pool.Pool

	// Limiter gates attempts at the endpoint's request rate.
	// Optional; nil admits everything immediately.
	Limiter *resilience.RateLimiter

	// Breaker short-circuits attempts while the endpoint is failing.
	// Optional; nil admits everything.
	Breaker *resilience.CircuitBreaker

	// Retry decides, per failed attempt, whether to try again.
	// Default: a policy with default budget and backoff.
	Retry *resilience.RetryPolicy

	// Credential is attached to each attempt's request. Optional; nil
	// sends requests unauthenticated.
	Credential credential.Credential

	// Replay intercepts execution for record/replay simulation.
	// Optional; nil behaves like replay.ModeDisabled.
	Replay *replay.Interceptor

	// AttemptTimeout bounds each physical attempt. Zero leaves attempts
	// bounded only by the caller's context.
	AttemptTimeout time.Duration

	// Instruments carries the tracer, metrics, and logger.
	// Default: noop instruments.
	Instruments *observe.Instruments
}

// Pipeline runs logical operations through the admission, execution, and
// retry chain for one remote endpoint. It is safe for concurrent use.
type Pipeline struct {
	config Config
}

// New creates a pipeline from the config.
func New(config Config) (*Pipeline, error) {
	if config.Pool == nil {
		return nil, ErrNilPool
	}

	// Apply defaults
	if config.Retry == nil {
		config.Retry = resilience.NewRetryPolicy(resilience.RetryPolicyConfig{})
	}
	if config.Instruments == nil {
		config.Instruments = observe.NoopInstruments()
	}

	return &Pipeline{config: config}, nil
}

// Execute runs one logical operation to completion: through the replay
// interceptor when one is configured, otherwise through admission,
// leasing, send, and the bounded retry loop.
//
// On success the remote response is returned. On failure the response is
// nil and the error is the classified fault of the last attempt, except
// for context cancellation, which passes through unwrapped. Admission
// rejections (circuit open, pool exhausted) surface immediately and are
// never retried here.
func (p *Pipeline) Execute(ctx context.Context, op Operation, req *transport.Request) (*transport.Response, error) {
	if err := op.Validate(); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrNilRequest
	}

	meta := op.meta()
	logger := p.config.Instruments.Logger.WithOp(meta)

	ctx, span := p.config.Instruments.Tracer.StartSpan(ctx, meta)
	start := time.Now()

	resp, attempts, err := p.run(ctx, op, meta, logger, req)

	duration := time.Since(start)
	p.config.Instruments.Tracer.EndSpan(span, err)
	p.config.Instruments.Metrics.RecordExecution(ctx, meta, duration, attempts, err)

	if err != nil {
		logger.Error(ctx, "operation failed",
			observe.Field{Key: "duration_ms", Value: duration.Milliseconds()},
			observe.Field{Key: "attempts", Value: attempts},
			observe.Field{Key: "error", Value: err.Error()},
		)
		return nil, err
	}

	logger.Info(ctx, "operation executed",
		observe.Field{Key: "duration_ms", Value: duration.Milliseconds()},
		observe.Field{Key: "attempts", Value: attempts},
	)
	return resp, nil
}

// run drives the attempt loop and returns the response, the number of
// physical attempts made, and the terminal error.
func (p *Pipeline) run(ctx context.Context, op Operation, meta observe.OpMeta, logger observe.Logger, req *transport.Request) (*transport.Response, int, error) {
	// Replay short-circuit. A stored response bypasses admission,
	// leasing, and the retry loop; a replay-mode miss is terminal.
	if p.config.Replay != nil {
		resp, hit, err := p.config.Replay.Replay(ctx, op.Name, req)
		if err != nil {
			return nil, 0, err
		}
		if hit {
			p.config.Instruments.Metrics.RecordReplayHit(ctx, meta)
			logger.Debug(ctx, "response replayed from store")
			if cerr := transport.Classify(op.Name, resp, nil); cerr != nil {
				return nil, 0, cerr
			}
			return resp, 0, nil
		}
	}

	var (
		lastResp *transport.Response
		lastErr  error
	)
	refreshes := 0
	attempt := 0

	for attempt = 1; ; attempt++ {
		resp, err := p.attempt(ctx, op, meta, req, attempt)
		if err == nil {
			if rerr := p.record(ctx, op, req, resp); rerr != nil {
				return nil, attempt, rerr
			}
			return resp, attempt, nil
		}
		lastResp, lastErr = resp, err

		decision := p.config.Retry.Decide(attempt, refreshes, err)
		if !decision.Retry {
			break
		}
		if decision.Refresh {
			if rerr := p.refresh(ctx, op, err); rerr != nil {
				lastErr = rerr
				break
			}
			refreshes++
		}

		logger.Warn(ctx, "attempt failed, retrying",
			observe.Field{Key: "attempt", Value: attempt},
			observe.Field{Key: "delay_ms", Value: decision.Delay.Milliseconds()},
			observe.Field{Key: "error", Value: err.Error()},
		)

		if decision.Delay > 0 {
			timer := time.NewTimer(decision.Delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, attempt, ctx.Err()
			case <-timer.C:
			}
		}
	}

	// A terminal remote response is recorded too, so a replay run
	// reproduces the failure instead of masking it.
	if lastResp != nil {
		if rerr := p.record(ctx, op, req, lastResp); rerr != nil {
			logger.Warn(ctx, "recording terminal response failed",
				observe.Field{Key: "error", Value: rerr.Error()},
			)
		}
	}

	return nil, attempt, lastErr
}

// attempt makes one physical attempt under its own child span.
func (p *Pipeline) attempt(ctx context.Context, op Operation, meta observe.OpMeta, req *transport.Request, attempt int) (*transport.Response, error) {
	ctx, span := p.config.Instruments.Tracer.StartAttempt(ctx, meta, attempt)

	resp, err := p.send(ctx, op, req)

	p.config.Instruments.Tracer.EndSpan(span, err)
	return resp, err
}

// send runs one admitted exchange. The breaker outcome is recorded
// exactly once per admitted attempt; only remote-attributable failures
// count against it, so cancellations and admission rejections never
// open the circuit.
func (p *Pipeline) send(ctx context.Context, op Operation, req *transport.Request) (*transport.Response, error) {
	var done func(success bool)
	if p.config.Breaker != nil {
		var err error
		done, err = p.config.Breaker.Allow()
		if err != nil {
			var open *resilience.OpenError
			if errors.As(err, &open) {
				return nil, fault.CircuitOpen(open.RetryAfter, err).WithOp(op.Name)
			}
			return nil, fault.CircuitOpen(0, err).WithOp(op.Name)
		}
	}

	resp, err := p.exchange(ctx, op, req)

	if done != nil {
		done(!fault.KindOf(err).RemoteAttributable())
	}
	return resp, err
}

// exchange leases a connection, attaches the credential, sends, and
// classifies the outcome. The lease settles on every exit path: a raw
// transport error taints the connection, a remote status code does not.
func (p *Pipeline) exchange(ctx context.Context, op Operation, req *transport.Request) (*transport.Response, error) {
	if p.config.Limiter != nil {
		if err := p.config.Limiter.Acquire(ctx); err != nil {
			return nil, err
		}
	}

	lease, err := p.config.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	discard := false
	defer func() {
		if discard {
			lease.Discard()
		} else {
			lease.Release()
		}
	}()

	// Each attempt works on its own copy so credential material never
	// leaks into the caller's request or across attempts.
	attemptReq := req.Clone()
	if p.config.Credential != nil {
		if err := p.config.Credential.Attach(ctx, attemptReq); err != nil {
			return nil, err
		}
	}

	sendCtx := ctx
	if p.config.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, p.config.AttemptTimeout)
		defer cancel()
	}

	resp, sendErr := lease.Conn().Send(sendCtx, attemptReq)
	if sendErr != nil {
		discard = true
	}

	if cerr := transport.Classify(op.Name, resp, sendErr); cerr != nil {
		return resp, cerr
	}
	return resp, nil
}

// refresh renews the credential after an auth-expired failure. The
// credential gets the final say: material it cannot recover by
// refreshing surfaces the original fault unchanged.
func (p *Pipeline) refresh(ctx context.Context, op Operation, cause error) error {
	if p.config.Credential == nil || !p.config.Credential.IsAuthExpired(cause) {
		return cause
	}
	if err := p.config.Credential.Refresh(ctx); err != nil {
		return fault.AuthExpired(err).WithOp(op.Name)
	}
	return nil
}

// record persists resp as the fixture for this request when the replay
// mode calls for it. Store failures surface: a recording run with a
// broken store must not pass silently.
func (p *Pipeline) record(ctx context.Context, op Operation, req *transport.Request, resp *transport.Response) error {
	if p.config.Replay == nil || !p.config.Replay.ShouldRecord() {
		return nil
	}
	return p.config.Replay.RecordResponse(ctx, op.Name, req, resp)
}
