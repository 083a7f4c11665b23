// Package outcome defines the classified result of executing one simulation
// step during a tick, and the governance rules for well-formed outcomes.
package outcome

import (
	"fmt"
	"reflect"
	"strings"
)

// Kind classifies an outcome. The zero value is not a valid kind; it marks a
// missing outcome.
type Kind int

const (
	KindNone Kind = iota
	KindSuccess
	KindSkipped
	KindDenied
	KindFailed
)

// UnknownErrorType is the error type recorded for a failure without an error.
const UnknownErrorType = "UnknownException"

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindSuccess:
		return "Success"
	case KindSkipped:
		return "Skipped"
	case KindDenied:
		return "Denied"
	case KindFailed:
		return "Failed"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Defined reports whether k is one of the four outcome kinds.
func (k Kind) Defined() bool {
	return k >= KindSuccess && k <= KindFailed
}

// Outcome is the result of one step execution. Build outcomes with the
// factory functions; the fields are exported so that governance can judge
// outcomes assembled by hand.
type Outcome struct {
	Kind            Kind
	ReasonCode      string
	ReasonDetail    string
	ErrorType       string
	ErrorMessage    string
	ErrorStableHash uint32
}

// Success returns an outcome with no payload.
func Success() Outcome {
	return Outcome{Kind: KindSuccess}
}

// Skipped returns an outcome for a step that chose not to do work this tick.
func Skipped(reasonCode, reasonDetail string) Outcome {
	return Outcome{Kind: KindSkipped, ReasonCode: reasonCode, ReasonDetail: reasonDetail}
}

// Denied returns an outcome for a step that was not allowed to run.
func Denied(reasonCode, reasonDetail string) Outcome {
	return Outcome{Kind: KindDenied, ReasonCode: reasonCode, ReasonDetail: reasonDetail}
}

// Failed returns a failure outcome derived from err. A nil err is recorded
// as UnknownErrorType with an empty message.
func Failed(err error) Outcome {
	if err == nil {
		return FailedWith(UnknownErrorType, "")
	}
	return FailedWith(ErrorTypeName(err), err.Error())
}

// FailedWith returns a failure outcome with an explicit error type and message.
func FailedWith(errorType, message string) Outcome {
	return Outcome{
		Kind:            KindFailed,
		ErrorType:       errorType,
		ErrorMessage:    message,
		ErrorStableHash: StableHash(errorType, message),
	}
}

// IsFailed reports whether the outcome halts the remainder of a tick.
func (o Outcome) IsFailed() bool { return o.Kind == KindFailed }

func (o Outcome) String() string {
	switch o.Kind {
	case KindSuccess:
		return "Success"
	case KindSkipped, KindDenied:
		if o.ReasonCode == "" {
			return o.Kind.String()
		}
		return o.Kind.String() + "(" + o.ReasonCode + ")"
	case KindFailed:
		return fmt.Sprintf("Failed(%d)", o.ErrorStableHash)
	default:
		return o.Kind.String()
	}
}

// ErrorTypeName returns the dynamic type name of err in package-qualified
// form without pointer markers, e.g. "errors.errorString".
func ErrorTypeName(err error) string {
	if err == nil {
		return UnknownErrorType
	}
	name := reflect.TypeOf(err).String()
	return strings.TrimLeft(name, "*")
}
