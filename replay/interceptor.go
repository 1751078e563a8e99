package replay

import (
	"context"
	"fmt"

	"github.com/jonwraymond/connectops/fault"
	"github.com/jonwraymond/connectops/transport"
)

// Config configures an Interceptor.
type Config struct {
	// Mode selects the simulation behavior. Defaults to ModeDisabled.
	Mode Mode

	// Store holds recorded responses. Required for every mode except
	// ModeDisabled.
	Store Store
}

// Interceptor applies record/replay simulation around transport execution.
// Callers consult Replay before sending and RecordResponse after receiving;
// the interceptor enforces what each mode permits.
//
// Contract:
//   - Concurrency: safe for concurrent use when the configured Store is.
//   - Context: store operations honor cancellation/deadlines.
//   - Errors: misses and mode violations are *fault.Error values.
type Interceptor struct {
	mode  Mode
	store Store
}

// NewInterceptor creates an Interceptor for the given mode and store.
func NewInterceptor(config Config) (*Interceptor, error) {
	switch config.Mode {
	case ModeDisabled, ModeRecord, ModeReplay, ModePassThrough:
	default:
		return nil, fault.ReplayModeMismatch(fmt.Errorf("replay: unknown mode %d", config.Mode))
	}
	if config.Mode != ModeDisabled && config.Store == nil {
		return nil, fault.ReplayModeMismatch(fmt.Errorf("replay: mode %s requires a store", config.Mode))
	}

	return &Interceptor{mode: config.Mode, store: config.Store}, nil
}

// Mode returns the configured mode.
func (i *Interceptor) Mode() Mode {
	return i.mode
}

// Active reports whether the interceptor participates in execution at all.
func (i *Interceptor) Active() bool {
	return i.mode != ModeDisabled
}

// ShouldReplay reports whether the store is consulted before the network.
func (i *Interceptor) ShouldReplay() bool {
	return i.mode == ModeReplay || i.mode == ModePassThrough
}

// ShouldRecord reports whether responses are persisted after execution.
func (i *Interceptor) ShouldRecord() bool {
	return i.mode == ModeRecord || i.mode == ModePassThrough
}

// Replay returns the recorded response for the request when the mode calls
// for one; the second return reports a hit. In ModeReplay a miss is a
// KindReplayMiss fault and the caller must not fall through to the network.
// In ModePassThrough a miss returns (nil, false, nil) and the caller
// executes live. In ModeDisabled and ModeRecord replay never applies.
func (i *Interceptor) Replay(ctx context.Context, op string, req *transport.Request) (*transport.Response, bool, error) {
	if !i.ShouldReplay() {
		return nil, false, nil
	}

	fingerprint, err := Fingerprint(op, req)
	if err != nil {
		return nil, false, err
	}

	rec, found, err := i.store.Get(ctx, fingerprint)
	if err != nil {
		return nil, false, fmt.Errorf("replay: load record: %w", err)
	}
	if !found {
		if i.mode == ModePassThrough {
			return nil, false, nil
		}
		return nil, false, fault.ReplayMiss(fingerprint)
	}

	return rec.Response.toResponse(), true, nil
}

// RecordResponse persists the response keyed by the request fingerprint.
// ModeRecord replaces any existing record wholesale; ModePassThrough keeps
// the first recording so replays stay stable across repeat calls. Recording
// in any other mode is a mode-mismatch fault.
func (i *Interceptor) RecordResponse(ctx context.Context, op string, req *transport.Request, resp *transport.Response) error {
	if !i.ShouldRecord() {
		return fault.ReplayModeMismatch(fmt.Errorf("replay: cannot record in mode %s", i.mode))
	}

	rec, err := NewRecord(op, req, resp)
	if err != nil {
		return err
	}

	if i.mode == ModePassThrough {
		_, found, err := i.store.Get(ctx, rec.Fingerprint)
		if err != nil {
			return fmt.Errorf("replay: load record: %w", err)
		}
		if found {
			return nil
		}
	}

	if err := i.store.Put(ctx, rec); err != nil {
		return fmt.Errorf("replay: store record: %w", err)
	}
	return nil
}
