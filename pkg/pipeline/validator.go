package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/systemstart/steptick/pkg/step"
)

// ViolationKind enumerates structural pipeline defects.
type ViolationKind int

const (
	ViolationNone ViolationKind = iota
	ViolationNullStep
	ViolationMissingStepID
	ViolationDuplicateStepID
	ViolationNonDeterministicOrder
)

func (k ViolationKind) String() string {
	switch k {
	case ViolationNone:
		return "None"
	case ViolationNullStep:
		return "NullStep"
	case ViolationMissingStepID:
		return "MissingStepId"
	case ViolationDuplicateStepID:
		return "DuplicateStepId"
	case ViolationNonDeterministicOrder:
		return "NonDeterministicOrder"
	default:
		return fmt.Sprintf("ViolationKind(%d)", int(k))
	}
}

// Violation is one structural defect, attributed to the entry at Index.
type Violation struct {
	Kind     ViolationKind
	Index    int
	StepID   string
	StepType string
	Detail   string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: index=%d stepId=%q type=%q detail=%q", v.Kind, v.Index, v.StepID, v.StepType, v.Detail)
}

func newViolation(kind ViolationKind, index int, s step.Step, format string, args ...any) Violation {
	v := Violation{
		Kind:     kind,
		Index:    index,
		StepType: "<nil>",
		Detail:   fmt.Sprintf(format, args...),
	}
	if !step.IsNil(s) {
		v.StepID = s.ID()
		v.StepType = step.TypeName(s)
	}
	return v
}

// ErrContractViolated is matched by every *ContractError.
var ErrContractViolated = errors.New("step pipeline contract violated")

// ContractError reports every violation found in a candidate pipeline.
type ContractError struct {
	Violations []Violation
}

func (e *ContractError) Error() string {
	var b strings.Builder
	b.WriteString(ErrContractViolated.Error())
	b.WriteString(":")
	for _, v := range e.Violations {
		b.WriteString("\n- ")
		b.WriteString(v.String())
	}
	return b.String()
}

// Is lets errors.Is match ErrContractViolated.
func (e *ContractError) Is(target error) bool { return target == ErrContractViolated }

// Validate checks an ordered step list without short-circuiting: nil
// entries, blank IDs, duplicate IDs (reported at each repeat) and adjacent
// pairs the policy places out of order (reported at the later entry).
func Validate(steps []step.Step, policy Policy) []Violation {
	var violations []Violation
	seen := make(map[string]int, len(steps))

	for i, s := range steps {
		if step.IsNil(s) {
			violations = append(violations, newViolation(ViolationNullStep, i, nil, "index %d is nil", i))
			continue
		}
		id := s.ID()
		if strings.TrimSpace(id) == "" {
			violations = append(violations, newViolation(ViolationMissingStepID, i, s, "index %d has a blank step id", i))
			continue
		}
		if first, dup := seen[id]; dup {
			violations = append(violations, newViolation(ViolationDuplicateStepID, i, s,
				"duplicate step id at index %d (first at index %d)", i, first))
			continue
		}
		seen[id] = i
	}

	for i := 1; i < len(steps); i++ {
		prev, curr := steps[i-1], steps[i]
		if policy.Compare(prev, curr) > 0 {
			violations = append(violations, newViolation(ViolationNonDeterministicOrder, i, curr,
				"ordering violated at indices %d->%d: %q must not come after %q", i-1, i, idOf(prev), idOf(curr)))
		}
	}

	return violations
}

// ValidateOrError returns a *ContractError when Validate reports anything.
func ValidateOrError(steps []step.Step, policy Policy) error {
	if violations := Validate(steps, policy); len(violations) > 0 {
		return &ContractError{Violations: violations}
	}
	return nil
}

func idOf(s step.Step) string {
	if step.IsNil(s) {
		return "<nil>"
	}
	return s.ID()
}
