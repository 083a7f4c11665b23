// Package report renders and checks tick snapshots. Every observer reports a
// given tick at most once, so callers may hand it the latest snapshot on each
// frame whether or not the scheduler advanced.
package report

import (
	"github.com/systemstart/steptick/pkg/tick"
)

// Observer consumes snapshots.
type Observer interface {
	Observe(snap *tick.Snapshot) error
}

// seen tracks the last observed tick index.
type seen struct {
	last int64
}

// fresh reports whether snap is a tick not yet observed and marks it seen.
func (s *seen) fresh(snap *tick.Snapshot) bool {
	if snap == nil || snap.TickIndex() <= s.last {
		return false
	}
	s.last = snap.TickIndex()
	return true
}
