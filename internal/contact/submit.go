package contact

import (
	"context"
	"time"

	"github.com/wentitech/wentitech/internal/clock"
)

// Submitter delivers a validated form. It must call done exactly once unless
// ctx is cancelled first, in which case it may drop the call.
type Submitter interface {
	Submit(ctx context.Context, fields Fields, done func(error))
}

// SimulatedSubmitter stands in for a real delivery channel: it reports
// success after a fixed latency and never fails.
type SimulatedSubmitter struct {
	Scheduler clock.Scheduler
	Latency   time.Duration
}

// NewSimulatedSubmitter returns a submitter completing after latency.
func NewSimulatedSubmitter(s clock.Scheduler, latency time.Duration) *SimulatedSubmitter {
	return &SimulatedSubmitter{Scheduler: s, Latency: latency}
}

// Submit implements Submitter.
func (s *SimulatedSubmitter) Submit(ctx context.Context, _ Fields, done func(error)) {
	t := s.Scheduler.AfterFunc(s.Latency, func() {
		if ctx.Err() != nil {
			return
		}
		done(nil)
	})
	context.AfterFunc(ctx, func() { t.Stop() })
}
