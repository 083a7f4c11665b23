package api

const (
	// ManifestFileName is the file name manifest discovery looks for.
	ManifestFileName = ".tick.yaml"

	StepTypeCounter  = "counter"
	StepTypeScripted = "scripted"

	RolePlain         = "plain"
	RoleAuthoritative = "authoritative"
	RoleProof         = "proof"

	KindSuccess = "success"
	KindSkipped = "skipped"
	KindDenied  = "denied"
	KindFailed  = "failed"
)

// Manifest is the .tick.yaml configuration format.
type Manifest struct {
	Context map[string]any `yaml:"context"`
	Steps   []StepConfig   `yaml:"steps"`

	// Set by the loader, not from YAML.
	Dir      string `yaml:"-"`
	FilePath string `yaml:"-"`
}

// StepConfig defines a single scripted step.
type StepConfig struct {
	ID       string          `yaml:"id"`
	Type     string          `yaml:"type"`
	Role     string          `yaml:"role,omitempty"`
	Counter  *CounterConfig  `yaml:"counter,omitempty"`
	Scripted *ScriptedConfig `yaml:"scripted,omitempty"`
	Gate     *GateConfig     `yaml:"gate,omitempty"`
}

// CounterConfig configures a counter step, which only reports success or
// an error.
type CounterConfig struct {
	// FailOnTicks lists tick indices on which the step returns an error.
	FailOnTicks []int64 `yaml:"failOnTicks"`
	// PanicOnTicks lists tick indices on which the step panics.
	PanicOnTicks []int64 `yaml:"panicOnTicks"`
}

// ScriptedConfig configures a step that reports its own outcome. The first
// rule matching the tick wins; no match is Success.
type ScriptedConfig struct {
	Rules []Rule `yaml:"rules"`
}

// Rule matches ticks where (tick - offset) is a positive multiple of Every.
type Rule struct {
	Every        int64  `yaml:"every"`
	Offset       int64  `yaml:"offset"`
	Kind         string `yaml:"kind"`
	ReasonCode   string `yaml:"reasonCode"`
	ReasonDetail string `yaml:"reasonDetail"`
	ErrorType    string `yaml:"errorType"`
	ErrorMessage string `yaml:"errorMessage"`
}

// GateConfig denies a step on every DenyEvery-th tick.
type GateConfig struct {
	DenyEvery    int64  `yaml:"denyEvery"`
	ReasonCode   string `yaml:"reasonCode"`
	ReasonDetail string `yaml:"reasonDetail"`
}
