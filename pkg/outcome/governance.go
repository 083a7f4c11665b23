package outcome

import "fmt"

// ViolationKind enumerates the defects governance can find in an outcome.
type ViolationKind int

const (
	ViolationNone ViolationKind = iota

	ViolationOutcomeNull
	ViolationKindUndefined

	ViolationSuccessHasReason
	ViolationSuccessHasError
	ViolationSuccessHasStableHash

	ViolationSkippedMissingReasonCode
	ViolationSkippedHasError
	ViolationSkippedHasStableHash

	ViolationDeniedMissingReasonCode
	ViolationDeniedHasError
	ViolationDeniedHasStableHash

	ViolationFailedMissingErrorType
	ViolationFailedHasReason
	ViolationFailedMissingStableHash

	ViolationReasonCodeInvalid
	ViolationReasonDetailInvalid
	ViolationErrorTypeInvalid
	ViolationErrorMessageInvalid
)

var violationNames = map[ViolationKind]string{
	ViolationNone:                     "None",
	ViolationOutcomeNull:              "OutcomeNull",
	ViolationKindUndefined:            "KindUndefined",
	ViolationSuccessHasReason:         "SuccessHasReason",
	ViolationSuccessHasError:          "SuccessHasError",
	ViolationSuccessHasStableHash:     "SuccessHasStableHash",
	ViolationSkippedMissingReasonCode: "SkippedMissingReasonCode",
	ViolationSkippedHasError:          "SkippedHasError",
	ViolationSkippedHasStableHash:     "SkippedHasStableHash",
	ViolationDeniedMissingReasonCode:  "DeniedMissingReasonCode",
	ViolationDeniedHasError:           "DeniedHasError",
	ViolationDeniedHasStableHash:      "DeniedHasStableHash",
	ViolationFailedMissingErrorType:   "FailedMissingErrorType",
	ViolationFailedHasReason:          "FailedHasReason",
	ViolationFailedMissingStableHash:  "FailedMissingStableHash",
	ViolationReasonCodeInvalid:        "ReasonCodeInvalid",
	ViolationReasonDetailInvalid:      "ReasonDetailInvalid",
	ViolationErrorTypeInvalid:         "ErrorTypeInvalid",
	ViolationErrorMessageInvalid:      "ErrorMessageInvalid",
}

func (k ViolationKind) String() string {
	if name, ok := violationNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ViolationKind(%d)", int(k))
}

// Violation describes the first defect found in an outcome. The zero value
// means no violation.
type Violation struct {
	Kind   ViolationKind
	Detail string
}

// IsViolation reports whether v describes a defect.
func (v Violation) IsViolation() bool { return v.Kind != ViolationNone }

func (v Violation) String() string {
	if !v.IsViolation() {
		return "None"
	}
	return v.Kind.String() + ": " + v.Detail
}

func violation(kind ViolationKind, format string, args ...any) Violation {
	return Violation{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Validate classifies o against the payload rules for its kind. It never
// panics; callers decide how to report a violation.
func Validate(o Outcome) Violation {
	switch o.Kind {
	case KindNone:
		return violation(ViolationOutcomeNull, "outcome is missing")
	case KindSuccess:
		return validateSuccess(o)
	case KindSkipped:
		return validateReasoned(o, ViolationSkippedMissingReasonCode, ViolationSkippedHasError, ViolationSkippedHasStableHash)
	case KindDenied:
		return validateReasoned(o, ViolationDeniedMissingReasonCode, ViolationDeniedHasError, ViolationDeniedHasStableHash)
	case KindFailed:
		return validateFailed(o)
	default:
		return violation(ViolationKindUndefined, "outcome kind is undefined: %d", int(o.Kind))
	}
}

func validateSuccess(o Outcome) Violation {
	if o.ReasonCode != "" || o.ReasonDetail != "" {
		return violation(ViolationSuccessHasReason,
			"success must not carry a reason. code=%q detail=%q", o.ReasonCode, o.ReasonDetail)
	}
	if o.ErrorType != "" || o.ErrorMessage != "" {
		return violation(ViolationSuccessHasError,
			"success must not carry an error. type=%q msg=%q", o.ErrorType, o.ErrorMessage)
	}
	if o.ErrorStableHash != 0 {
		return violation(ViolationSuccessHasStableHash,
			"success must have a zero error hash. hash=%d", o.ErrorStableHash)
	}
	return Violation{}
}

// validateReasoned covers Skipped and Denied, which share a payload shape.
func validateReasoned(o Outcome, missingCode, hasError, hasHash ViolationKind) Violation {
	if o.ReasonCode == "" {
		return violation(missingCode, "%s must carry a non-empty reason code", o.Kind)
	}
	if !IsValidReasonCode(o.ReasonCode) {
		return violation(ViolationReasonCodeInvalid, "invalid reason code: %q", o.ReasonCode)
	}
	if !IsValidReasonDetail(o.ReasonDetail) {
		return violation(ViolationReasonDetailInvalid, "invalid reason detail: %q", o.ReasonDetail)
	}
	if o.ErrorType != "" || o.ErrorMessage != "" {
		return violation(hasError,
			"%s must not carry an error. type=%q msg=%q", o.Kind, o.ErrorType, o.ErrorMessage)
	}
	if o.ErrorStableHash != 0 {
		return violation(hasHash, "%s must have a zero error hash. hash=%d", o.Kind, o.ErrorStableHash)
	}
	return Violation{}
}

func validateFailed(o Outcome) Violation {
	if o.ErrorType == "" {
		return violation(ViolationFailedMissingErrorType, "failed must carry a non-empty error type")
	}
	if !IsValidErrorType(o.ErrorType) {
		return violation(ViolationErrorTypeInvalid, "invalid error type: %q", o.ErrorType)
	}
	if !IsValidErrorMessage(o.ErrorMessage) {
		return violation(ViolationErrorMessageInvalid, "invalid error message: %q", o.ErrorMessage)
	}
	if o.ReasonCode != "" || o.ReasonDetail != "" {
		return violation(ViolationFailedHasReason,
			"failed must not carry a reason. code=%q detail=%q", o.ReasonCode, o.ReasonDetail)
	}
	if o.ErrorStableHash == 0 {
		return violation(ViolationFailedMissingStableHash, "failed must have a non-zero error hash")
	}
	return Violation{}
}
