package processing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/systemstart/steptick/pkg/report"
	"github.com/systemstart/steptick/pkg/tick"
)

// FrameClock is advanced once per frame before the scheduler ticks.
type FrameClock interface {
	Advance(unscaled time.Duration)
}

// RunConfig drives a scheduler for a fixed number of frames.
type RunConfig struct {
	Frames int
	// FrameDuration is the unscaled wall time of one frame, fed to Clock.
	FrameDuration time.Duration
	// Clock is optional; fixed delta sources need no advancing.
	Clock     FrameClock
	Observers []report.Observer
}

// RunResult summarises a run.
type RunResult struct {
	Frames int
	// Ticks counts frames on which the scheduler advanced.
	Ticks int
	// FailedTicks counts ticks halted by a Failed outcome.
	FailedTicks int
}

// Run drives s frame by frame. Every observer sees the latest snapshot on
// each frame; observers report a given tick only once. Run stops early when
// ctx is cancelled, when ticking fails structurally, or when an observer
// fails.
func Run(ctx context.Context, s *tick.Scheduler, cfg RunConfig) (RunResult, error) {
	var res RunResult
	for frame := 0; frame < cfg.Frames; frame++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if cfg.Clock != nil {
			cfg.Clock.Advance(cfg.FrameDuration)
		}

		snap, err := s.Tick(ctx)
		res.Frames++
		if err != nil {
			return res, fmt.Errorf("frame %d: %w", frame, err)
		}
		if snap != nil {
			res.Ticks++
			if snap.Halted() {
				res.FailedTicks++
			}
		}

		last := s.LastSnapshot()
		for _, o := range cfg.Observers {
			if err := o.Observe(last); err != nil {
				return res, fmt.Errorf("frame %d: observing snapshot: %w", frame, err)
			}
		}
	}

	slog.Info("run finished", "frames", res.Frames, "ticks", res.Ticks, "failedTicks", res.FailedTicks)
	return res, nil
}
