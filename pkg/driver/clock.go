package driver

import (
	"context"
	"time"
)

// clock abstracts time for the pacing loop so tests can run it without
// wall time.
type clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is canceled.
	Sleep(ctx context.Context, d time.Duration)
}

type wallClock struct{}

func (wallClock) Now() time.Time {
	return time.Now()
}

func (wallClock) Sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
