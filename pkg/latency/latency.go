package latency

import (
	"context"
	"time"
)

// Simulator delays save-style actions by a fixed amount so the dashboard's
// loading states can be exercised against a local backend.
type Simulator struct {
	delay time.Duration
}

func New(delay time.Duration) Simulator {
	if delay < 0 {
		delay = 0
	}
	return Simulator{delay: delay}
}

func (s Simulator) Delay() time.Duration {
	return s.delay
}

// Wait blocks for the configured delay or until ctx is done.
func (s Simulator) Wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
