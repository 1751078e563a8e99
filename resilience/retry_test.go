package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonwraymond/connectops/fault"
)

func TestNewRetryPolicy(t *testing.T) {
	p := NewRetryPolicy(RetryPolicyConfig{})

	if p.config.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", p.config.MaxAttempts)
	}
	if p.config.BaseDelay != 100*time.Millisecond {
		t.Errorf("BaseDelay = %v, want 100ms", p.config.BaseDelay)
	}
	if p.config.MaxDelay != 30*time.Second {
		t.Errorf("MaxDelay = %v, want 30s", p.config.MaxDelay)
	}
	if p.config.RefreshBudget != 1 {
		t.Errorf("RefreshBudget = %d, want 1", p.config.RefreshBudget)
	}
}

func TestRetryPolicy_Decide(t *testing.T) {
	p := NewRetryPolicy(RetryPolicyConfig{
		MaxAttempts:   3,
		BaseDelay:     10 * time.Millisecond,
		DisableJitter: true,
	})

	tests := []struct {
		name        string
		err         error
		wantRetry   bool
		wantRefresh bool
		wantDelay   time.Duration
	}{
		{"nil error", nil, false, false, 0},
		{"unclassified error", errors.New("plain"), false, false, 0},
		{"client validation", fault.ClientValidation(400, errors.New("bad field")), false, false, 0},
		{"auth denied", fault.AuthDenied(403, errors.New("forbidden")), false, false, 0},
		{"circuit open", fault.CircuitOpen(time.Second, nil), false, false, 0},
		{"pool exhausted", fault.PoolExhausted(nil), false, false, 0},
		{"server error", fault.ServerError(503, nil), true, false, 10 * time.Millisecond},
		{"timeout", fault.Timeout(nil), true, false, 10 * time.Millisecond},
		{"connection failure", fault.ConnectionFailure(errors.New("refused")), true, false, 10 * time.Millisecond},
		{"rate limited with hint", fault.RateLimited(2*time.Second, nil), true, false, 2 * time.Second},
		{"rate limited without hint", fault.RateLimited(0, nil), true, false, 10 * time.Millisecond},
		{"auth expired", fault.AuthExpired(errors.New("token expired")), true, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := p.Decide(1, 0, tt.err)
			if d.Retry != tt.wantRetry {
				t.Errorf("Decide().Retry = %v, want %v", d.Retry, tt.wantRetry)
			}
			if d.Refresh != tt.wantRefresh {
				t.Errorf("Decide().Refresh = %v, want %v", d.Refresh, tt.wantRefresh)
			}
			if d.Delay != tt.wantDelay {
				t.Errorf("Decide().Delay = %v, want %v", d.Delay, tt.wantDelay)
			}
		})
	}
}

func TestRetryPolicy_DecideAttemptCap(t *testing.T) {
	p := NewRetryPolicy(RetryPolicyConfig{MaxAttempts: 3})

	d := p.Decide(3, 0, fault.ServerError(500, nil))
	if d.Retry {
		t.Error("Decide() at MaxAttempts should not retry")
	}
}

func TestRetryPolicy_DecideRefreshBudget(t *testing.T) {
	p := NewRetryPolicy(RetryPolicyConfig{
		MaxAttempts:   5,
		RefreshBudget: 2,
	})

	expired := fault.AuthExpired(errors.New("token expired"))

	if d := p.Decide(1, 0, expired); !d.Refresh {
		t.Error("Decide() under budget should refresh")
	}
	if d := p.Decide(2, 1, expired); !d.Refresh {
		t.Error("Decide() with budget remaining should refresh")
	}
	if d := p.Decide(3, 2, expired); d.Retry {
		t.Error("Decide() over budget should stop")
	}
}

func TestRetryPolicy_RateLimitHintExact(t *testing.T) {
	// Jitter is on; the hint must still be honored verbatim.
	p := NewRetryPolicy(RetryPolicyConfig{MaxAttempts: 3})

	hint := 1500 * time.Millisecond
	d := p.Decide(1, 0, fault.RateLimited(hint, nil))

	if d.Delay != hint {
		t.Errorf("Decide().Delay = %v, want exact hint %v", d.Delay, hint)
	}
}

func TestRetryPolicy_Backoff(t *testing.T) {
	p := NewRetryPolicy(RetryPolicyConfig{
		BaseDelay:     10 * time.Millisecond,
		MaxDelay:      50 * time.Millisecond,
		DisableJitter: true,
	})

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 10 * time.Millisecond},
		{2, 20 * time.Millisecond},
		{3, 40 * time.Millisecond},
		{4, 50 * time.Millisecond}, // capped
		{10, 50 * time.Millisecond},
	}

	for _, tt := range tests {
		if got := p.Backoff(tt.attempt); got != tt.want {
			t.Errorf("Backoff(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestRetryPolicy_BackoffJitterBounds(t *testing.T) {
	p := NewRetryPolicy(RetryPolicyConfig{
		BaseDelay: 100 * time.Millisecond,
	})

	base := 100 * time.Millisecond
	for i := 0; i < 100; i++ {
		got := p.Backoff(1)
		if got < base || got > base+base/10 {
			t.Fatalf("Backoff(1) = %v, want in [%v, %v]", got, base, base+base/10)
		}
	}
}

func TestRetryPolicy_SuccessOnFirstAttempt(t *testing.T) {
	p := NewRetryPolicy(RetryPolicyConfig{MaxAttempts: 3})

	attempts := 0
	err := p.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		return nil
	})

	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetryPolicy_SuccessOnRetry(t *testing.T) {
	p := NewRetryPolicy(RetryPolicyConfig{
		MaxAttempts:   3,
		BaseDelay:     time.Millisecond,
		DisableJitter: true,
	})

	attempts := 0
	err := p.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return fault.ServerError(503, nil)
		}
		return nil
	})

	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetryPolicy_ExhaustedAttemptsSurfacesLastError(t *testing.T) {
	p := NewRetryPolicy(RetryPolicyConfig{
		MaxAttempts:   3,
		BaseDelay:     time.Millisecond,
		DisableJitter: true,
	})

	attempts := 0
	persistent := fault.ServerError(500, errors.New("still down"))

	err := p.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		return persistent
	})

	if !errors.Is(err, persistent) {
		t.Errorf("Execute() error = %v, want %v", err, persistent)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetryPolicy_NonRetryableStopsImmediately(t *testing.T) {
	p := NewRetryPolicy(RetryPolicyConfig{MaxAttempts: 5})

	attempts := 0
	bad := fault.ClientValidation(422, errors.New("missing field"))

	err := p.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		return bad
	})

	if !errors.Is(err, bad) {
		t.Errorf("Execute() error = %v, want %v", err, bad)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetryPolicy_RefreshRetriesImmediately(t *testing.T) {
	p := NewRetryPolicy(RetryPolicyConfig{
		MaxAttempts:   5,
		BaseDelay:     time.Second,
		RefreshBudget: 1,
	})

	attempts := 0
	start := time.Now()

	err := p.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		return fault.AuthExpired(errors.New("token expired"))
	})

	// One initial attempt plus one refresh retry, with no backoff sleep.
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
	if fault.KindOf(err) != fault.KindAuthExpired {
		t.Errorf("KindOf(err) = %v, want auth-expired", fault.KindOf(err))
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("Execute() took %v, refresh retries should not back off", elapsed)
	}
}

func TestRetryPolicy_HonorsRateLimitHint(t *testing.T) {
	p := NewRetryPolicy(RetryPolicyConfig{
		MaxAttempts: 2,
		BaseDelay:   time.Millisecond,
	})

	hint := 30 * time.Millisecond
	attempts := 0
	start := time.Now()

	_ = p.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts == 1 {
			return fault.RateLimited(hint, nil)
		}
		return nil
	})

	if attempts != 2 {
		t.Fatalf("attempts = %d, want 2", attempts)
	}
	if elapsed := time.Since(start); elapsed < hint {
		t.Errorf("Execute() took %v, want >= %v", elapsed, hint)
	}
}

func TestRetryPolicy_ContextCancellation(t *testing.T) {
	p := NewRetryPolicy(RetryPolicyConfig{
		MaxAttempts: 10,
		BaseDelay:   100 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	err := p.Execute(ctx, func(ctx context.Context) error {
		return fault.ServerError(500, nil)
	})

	if err != context.Canceled {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
}

func TestRetryPolicy_OnRetry(t *testing.T) {
	var callbacks []struct {
		attempt int
		delay   time.Duration
	}

	p := NewRetryPolicy(RetryPolicyConfig{
		MaxAttempts:   3,
		BaseDelay:     time.Millisecond,
		DisableJitter: true,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			callbacks = append(callbacks, struct {
				attempt int
				delay   time.Duration
			}{attempt, delay})
		},
	})

	_ = p.Execute(context.Background(), func(ctx context.Context) error {
		return fault.Timeout(nil)
	})

	if len(callbacks) != 2 {
		t.Fatalf("callbacks = %d, want 2", len(callbacks))
	}
	if callbacks[0].attempt != 1 {
		t.Errorf("First callback attempt = %d, want 1", callbacks[0].attempt)
	}
	if callbacks[1].delay != 2*time.Millisecond {
		t.Errorf("Second callback delay = %v, want 2ms", callbacks[1].delay)
	}
}

func TestRetryPolicy_Config(t *testing.T) {
	p := NewRetryPolicy(RetryPolicyConfig{
		MaxAttempts: 5,
	})

	config := p.Config()
	if config.MaxAttempts != 5 {
		t.Errorf("Config().MaxAttempts = %d, want 5", config.MaxAttempts)
	}
}
