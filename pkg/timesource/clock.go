// Package timesource provides delta-time sources for the tick scheduler.
package timesource

import (
	"fmt"
	"strings"
	"time"
)

// Speed is a simulation speed mode.
type Speed int

const (
	SpeedPaused Speed = iota
	SpeedNormal
	SpeedFast
	SpeedUltra
)

var speedNames = map[Speed]string{
	SpeedPaused: "paused",
	SpeedNormal: "normal",
	SpeedFast:   "fast",
	SpeedUltra:  "ultra",
}

func (s Speed) String() string {
	if name, ok := speedNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Speed(%d)", int(s))
}

// Multiplier returns the factor applied to unscaled wall time.
func (s Speed) Multiplier() float64 {
	switch s {
	case SpeedPaused:
		return 0
	case SpeedFast:
		return 5
	case SpeedUltra:
		return 30
	default:
		return 1
	}
}

// ParseSpeed parses a speed mode name, case-insensitively.
func ParseSpeed(s string) (Speed, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return SpeedNormal, nil
	}
	for speed, n := range speedNames {
		if n == name {
			return speed, nil
		}
	}
	return SpeedNormal, fmt.Errorf("unknown speed mode %q (want paused, normal, fast or ultra)", s)
}

// Clock scales unscaled frame time by its speed mode and keeps a simulated
// UTC clock advanced by the scaled delta.
type Clock struct {
	speed Speed
	delta float64
	now   time.Time
}

// NewClock returns a clock at normal speed starting at start.
func NewClock(start time.Time) *Clock {
	return &Clock{speed: SpeedNormal, now: start.UTC()}
}

// SetSpeed changes the speed mode. It takes effect on the next Advance.
func (c *Clock) SetSpeed(s Speed) { c.speed = s }

// Speed returns the current speed mode.
func (c *Clock) Speed() Speed { return c.speed }

// Advance consumes one frame of unscaled wall time. A paused clock or a
// non-positive frame yields a zero delta and leaves UtcNow unchanged.
func (c *Clock) Advance(unscaled time.Duration) {
	if c.speed == SpeedPaused || unscaled <= 0 {
		c.delta = 0
		return
	}
	c.delta = unscaled.Seconds() * c.speed.Multiplier()
	c.now = c.now.Add(time.Duration(c.delta * float64(time.Second)))
}

// DeltaSeconds returns the scaled delta of the last Advance.
func (c *Clock) DeltaSeconds() float64 { return c.delta }

// UtcNow returns the simulated time.
func (c *Clock) UtcNow() time.Time { return c.now }

// SetUtc moves the simulated clock.
func (c *Clock) SetUtc(t time.Time) { c.now = t.UTC() }

// Fixed is a constant delta source.
type Fixed float64

// DeltaSeconds returns the fixed delta.
func (f Fixed) DeltaSeconds() float64 { return float64(f) }
