package limiter_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rohmanhakim/nps-nearby/pkg/limiter"
)

// recordingSleeper captures every requested sleep instead of blocking
type recordingSleeper struct {
	calls []time.Duration
	err   error
}

func (r *recordingSleeper) sleep(ctx context.Context, d time.Duration) error {
	r.calls = append(r.calls, d)
	return r.err
}

func TestNewCooldown(t *testing.T) {
	c := limiter.NewCooldown(time.Second)

	if c.Delay() != time.Second {
		t.Errorf("Delay() = %v, want %v", c.Delay(), time.Second)
	}
	if c.Waits() != 0 {
		t.Errorf("Waits() = %d, want 0", c.Waits())
	}
}

func TestCooldown_WaitIsUnconditionalPerCall(t *testing.T) {
	rec := &recordingSleeper{}
	c := limiter.NewCooldown(time.Second)
	c.SetSleeper(rec.sleep)

	for i := 0; i < 3; i++ {
		if err := c.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	}

	if len(rec.calls) != 3 {
		t.Fatalf("expected 3 sleeps for 3 consecutive waits, got %d", len(rec.calls))
	}
	for i, d := range rec.calls {
		if d != time.Second {
			t.Errorf("sleep %d = %v, want full delay %v", i, d, time.Second)
		}
	}
	if c.Waits() != 3 {
		t.Errorf("Waits() = %d, want 3", c.Waits())
	}
}

func TestCooldown_WaitPropagatesSleeperError(t *testing.T) {
	rec := &recordingSleeper{err: context.Canceled}
	c := limiter.NewCooldown(time.Second)
	c.SetSleeper(rec.sleep)

	err := c.Wait(context.Background())

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() error = %v, want context.Canceled", err)
	}
}

func TestCooldown_RealSleeperHonoursCancellation(t *testing.T) {
	c := limiter.NewCooldown(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := c.Wait(ctx)

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() error = %v, want context.Canceled", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Wait() on a cancelled context should return promptly")
	}
}

func TestCooldown_NilSleeperRestoresDefault(t *testing.T) {
	c := limiter.NewCooldown(0)
	c.SetSleeper(nil)

	if err := c.Wait(context.Background()); err != nil {
		t.Errorf("Wait() with zero delay error = %v", err)
	}
}

func TestCooldown_ImplementsLimiter(t *testing.T) {
	var _ limiter.Limiter = limiter.NewCooldown(0)
}
