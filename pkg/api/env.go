package api

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ApplyEnv overlays STEPTICK_* environment variables onto s. Unset variables
// leave the current values in place.
func ApplyEnv(s *Settings) error {
	if err := env.Parse(s); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return s.Validate()
}
