package step

// Canonical gate denial reason codes. Steps may define their own codes under
// the STEP. or DOMAIN. roots.
const (
	GateUnspecified                  = "STEP.GATE.Unspecified"
	GateMissingDependency            = "STEP.GATE.MissingDependency"
	GateNotReady                     = "STEP.GATE.NotReady"
	GateInvalidState                 = "STEP.GATE.InvalidState"
	GateExternalAuthorityUnavailable = "STEP.GATE.ExternalAuthorityUnavailable"
	GatePreconditionsNotMet          = "STEP.GATE.PreconditionsNotMet"
)
