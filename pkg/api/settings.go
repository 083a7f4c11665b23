package api

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings configures a simulation run. Values are layered: defaults, then
// the settings file, then STEPTICK_* environment variables, then CLI flags.
type Settings struct {
	Logging    LoggingSettings    `yaml:"logging"    envPrefix:"STEPTICK_LOG_"`
	Governance GovernanceSettings `yaml:"governance" envPrefix:"STEPTICK_GOVERNANCE_"`
	// DisableAuthoritativeFallback runs nothing when no authoritative step
	// exists, instead of every non-proof step.
	DisableAuthoritativeFallback bool           `yaml:"disableAuthoritativeFallback" env:"STEPTICK_DISABLE_AUTHORITATIVE_FALLBACK"`
	Filter                       FilterSettings `yaml:"filter"                       envPrefix:"STEPTICK_FILTER_"`
	Time                         TimeSettings   `yaml:"time"                         envPrefix:"STEPTICK_TIME_"`
	Frames                       int            `yaml:"frames"                       env:"STEPTICK_FRAMES"`
	Report                       ReportSettings `yaml:"report"                       envPrefix:"STEPTICK_REPORT_"`
}

// LoggingSettings selects the slog handler.
type LoggingSettings struct {
	Type  string `yaml:"type"  env:"TYPE"`
	Level string `yaml:"level" env:"LEVEL"`
}

// GovernanceSettings controls outcome governance.
type GovernanceSettings struct {
	Enabled bool `yaml:"enabled" env:"ENABLED"`
	Strict  bool `yaml:"strict"  env:"STRICT"`
}

// FilterSettings selects steps by id using doublestar globs.
type FilterSettings struct {
	Include []string `yaml:"include" env:"INCLUDE" envSeparator:","`
	Exclude []string `yaml:"exclude" env:"EXCLUDE" envSeparator:","`
}

// TimeSettings configures the delta source. A positive DeltaSeconds selects
// a fixed delta; otherwise FrameSeconds of wall time per frame is scaled by
// Speed.
type TimeSettings struct {
	DeltaSeconds float64 `yaml:"deltaSeconds" env:"DELTA_SECONDS"`
	FrameSeconds float64 `yaml:"frameSeconds" env:"FRAME_SECONDS"`
	Speed        string  `yaml:"speed"        env:"SPEED"`
}

// ReportSettings configures the snapshot report.
type ReportSettings struct {
	Enabled  bool   `yaml:"enabled"  env:"ENABLED"`
	Template string `yaml:"template" env:"TEMPLATE"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Logging:    LoggingSettings{Type: "tint", Level: "info"},
		Governance: GovernanceSettings{Enabled: true},
		Time:       TimeSettings{FrameSeconds: 1.0 / 60, Speed: "normal"},
		Frames:     60,
		Report:     ReportSettings{Enabled: true},
	}
}

// LoadSettings reads a settings YAML file over the defaults and validates.
func LoadSettings(filename string) (*Settings, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading settings file: %w", err)
	}

	cfg := DefaultSettings()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing settings file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating settings file: %w", err)
	}

	return &cfg, nil
}

// Validate checks the settings for errors.
func (s *Settings) Validate() error {
	if s.Frames < 0 {
		return fmt.Errorf("frames must not be negative")
	}
	if s.Time.DeltaSeconds < 0 {
		return fmt.Errorf("time.deltaSeconds must not be negative")
	}
	if s.Time.DeltaSeconds == 0 && s.Time.FrameSeconds <= 0 {
		return fmt.Errorf("time.frameSeconds must be positive when time.deltaSeconds is unset")
	}
	if err := s.Filter.validate(); err != nil {
		return fmt.Errorf("filter: %w", err)
	}
	return nil
}
