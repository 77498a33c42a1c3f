package limiter

import (
	"context"
	"sync"
	"time"

	"github.com/rohmanhakim/nps-nearby/pkg/timeutil"
)

// Limiter gates outbound requests.
// Responsibilities:
// - Stall the caller before every live request
// - Stay interruptible through the context
type Limiter interface {
	Wait(ctx context.Context) error
	Delay() time.Duration
}

// Sleeper blocks for the given duration or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Cooldown is a fixed courtesy delay applied before each live request.
// The delay is unconditional: it does not account for time already elapsed
// since the previous request, and consecutive requests each pay it in full.
type Cooldown struct {
	mu    sync.Mutex
	delay time.Duration
	sleep Sleeper
	waits int
}

func NewCooldown(delay time.Duration) *Cooldown {
	return &Cooldown{
		delay: delay,
		sleep: timeutil.SleepContext,
	}
}

// SetSleeper allows injecting a custom sleeper for testing
func (c *Cooldown) SetSleeper(sleep Sleeper) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if sleep == nil {
		sleep = timeutil.SleepContext
	}
	c.sleep = sleep
}

func (c *Cooldown) Wait(ctx context.Context) error {
	c.mu.Lock()
	c.waits++
	delay := c.delay
	sleep := c.sleep
	c.mu.Unlock()

	return sleep(ctx, delay)
}

func (c *Cooldown) Delay() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.delay
}

// Waits returns how many times Wait has been called.
func (c *Cooldown) Waits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.waits
}
