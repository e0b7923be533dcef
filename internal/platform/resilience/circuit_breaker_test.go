package resilience

import (
	"errors"
	"testing"
	"time"
)

func newTestBreaker(threshold int, timeout time.Duration, probes int) (*CircuitBreaker, *time.Time, *[]CircuitState) {
	var changes []CircuitState
	b := NewCircuitBreaker("postgres", CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: threshold,
		OpenTimeout:      timeout,
		HalfOpenMaxReq:   probes,
	}, func(_ string, _, to CircuitState) {
		changes = append(changes, to)
	})
	now := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }
	return b, &now, &changes
}

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	t.Parallel()

	b, now, changes := newTestBreaker(2, 5*time.Second, 1)

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	*now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected second probe to be rejected, got %v", err)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful probe, got %s", state)
	}

	want := []CircuitState{CircuitStateOpen, CircuitStateHalfOpen, CircuitStateClosed}
	if len(*changes) != len(want) {
		t.Fatalf("unexpected transitions: %v", *changes)
	}
	for i := range want {
		if (*changes)[i] != want[i] {
			t.Fatalf("transition %d: want %s got %s", i, want[i], (*changes)[i])
		}
	}
}

func TestCircuitBreaker_FailedProbeReopens(t *testing.T) {
	t.Parallel()

	b, now, _ := newTestBreaker(1, time.Second, 1)
	b.RecordFailure()

	*now = now.Add(2 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected probe to pass, got %v", err)
	}
	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after failed probe, got %s", state)
	}
}

func TestCircuitBreaker_Execute(t *testing.T) {
	t.Parallel()

	b, _, _ := newTestBreaker(1, time.Minute, 1)
	businessErr := errors.New("competition is not pending")
	connErr := errors.New("connection refused")
	isConnErr := func(err error) bool { return errors.Is(err, connErr) }

	if err := b.Execute(func() error { return businessErr }, isConnErr); !errors.Is(err, businessErr) {
		t.Fatalf("expected business error back, got %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("business errors must not trip the breaker, got %s", state)
	}

	if err := b.Execute(func() error { return connErr }, isConnErr); !errors.Is(err, connErr) {
		t.Fatalf("expected connection error back, got %v", err)
	}

	called := false
	err := b.Execute(func() error { called = true; return nil }, isConnErr)
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}
	if called {
		t.Fatalf("fn must not run while the breaker is open")
	}
}

func TestCircuitBreaker_DisabledAndNil(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker("postgres", CircuitBreakerConfig{Enabled: false, FailureThreshold: 1}, nil)
	b.RecordFailure()
	if err := b.Allow(); err != nil {
		t.Fatalf("disabled breaker must always allow, got %v", err)
	}

	var nilBreaker *CircuitBreaker
	if err := nilBreaker.Execute(func() error { return nil }, nil); err != nil {
		t.Fatalf("nil breaker must run fn, got %v", err)
	}
	if state := nilBreaker.State(); state != CircuitStateClosed {
		t.Fatalf("nil breaker reports closed, got %s", state)
	}
}

func TestCircuitBreakerConfig_Normalize(t *testing.T) {
	t.Parallel()

	got := CircuitBreakerConfig{Enabled: true}.Normalize()
	if want := DefaultCircuitBreakerConfig(); got != want {
		t.Fatalf("want %+v got %+v", want, got)
	}

	custom := CircuitBreakerConfig{FailureThreshold: 3, OpenTimeout: time.Second, HalfOpenMaxReq: -1}.Normalize()
	if custom.Enabled || custom.FailureThreshold != 3 || custom.OpenTimeout != time.Second || custom.HalfOpenMaxReq != 2 {
		t.Fatalf("unexpected normalized config %+v", custom)
	}
}
