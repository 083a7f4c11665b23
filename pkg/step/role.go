package step

import "fmt"

// Role tags a step as production or diagnostic-only work.
type Role int

const (
	RolePlain Role = iota
	RoleAuthoritative
	RoleProof
)

func (r Role) String() string {
	switch r {
	case RolePlain:
		return "plain"
	case RoleAuthoritative:
		return "authoritative"
	case RoleProof:
		return "proof"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// ParseRole maps a configuration name to a Role. The empty string is plain.
func ParseRole(name string) (Role, error) {
	switch name {
	case "", "plain":
		return RolePlain, nil
	case "authoritative":
		return RoleAuthoritative, nil
	case "proof":
		return RoleProof, nil
	default:
		return RolePlain, fmt.Errorf("unknown step role %q", name)
	}
}

// Classified is implemented by steps that carry a Role.
type Classified interface {
	Role() Role
}

// Wrapper is implemented by steps that decorate another step.
type Wrapper interface {
	Unwrap() Step
}

type tagged struct {
	Step
	role Role
}

func (t *tagged) Role() Role   { return t.role }
func (t *tagged) Unwrap() Step { return t.Step }

// Authoritative tags s as part of the authoritative tick spine.
func Authoritative(s Step) Step { return &tagged{Step: s, role: RoleAuthoritative} }

// Proof tags s as diagnostic-only. Proof steps never execute in a tick.
func Proof(s Step) Step { return &tagged{Step: s, role: RoleProof} }

// WithRole tags s with r. RolePlain returns s unchanged.
func WithRole(s Step, r Role) Step {
	if r == RolePlain {
		return s
	}
	return &tagged{Step: s, role: r}
}
