package outcome

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Bounds for diagnostic tokens carried by outcomes.
const (
	MaxReasonCodeLength   = 96
	MaxReasonDetailLength = 256
	MaxErrorTypeLength    = 96
	MaxErrorMessageLength = 256
)

// Reserved reason code roots. Codes use dotted namespaces such as
// STEP.GATE.NoOwner or DOMAIN.Soil.Moisture.OutOfRange.
const (
	RootSystem = "SYS."
	RootTick   = "TICK."
	RootStep   = "STEP."
	RootDomain = "DOMAIN."
)

type tokenRules struct {
	maxLen     int
	dotted     bool
	allowColon bool
}

var (
	reasonCodeRules   = tokenRules{maxLen: MaxReasonCodeLength, dotted: true, allowColon: true}
	reasonDetailRules = tokenRules{maxLen: MaxReasonDetailLength, allowColon: true}
	errorTypeRules    = tokenRules{maxLen: MaxErrorTypeLength, dotted: true}
)

// IsValidReasonCode reports whether code is a non-empty dotted token.
func IsValidReasonCode(code string) bool {
	return validToken(code, reasonCodeRules)
}

// IsValidReasonDetail reports whether detail is empty or a safe token.
func IsValidReasonDetail(detail string) bool {
	if detail == "" {
		return true
	}
	return validToken(detail, reasonDetailRules)
}

// IsValidErrorType reports whether errorType is a non-empty dotted token.
func IsValidErrorType(errorType string) bool {
	return validToken(errorType, errorTypeRules)
}

// IsValidErrorMessage reports whether message is empty or a bounded, trimmed
// single line without control characters.
func IsValidErrorMessage(message string) bool {
	if message == "" {
		return true
	}
	if utf8.RuneCountInString(message) > MaxErrorMessageLength {
		return false
	}
	if strings.TrimSpace(message) != message {
		return false
	}
	for _, r := range message {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

func validToken(value string, rules tokenRules) bool {
	if value == "" {
		return false
	}
	if utf8.RuneCountInString(value) > rules.maxLen {
		return false
	}
	for _, r := range value {
		if !tokenRune(r, rules.allowColon) {
			return false
		}
	}
	if rules.dotted && !strings.Contains(value, ".") {
		return false
	}
	if strings.HasPrefix(value, ".") || strings.HasSuffix(value, ".") {
		return false
	}
	return !strings.Contains(value, "..")
}

// tokenRune accepts [A-Za-z0-9._-] and optionally ':'. Whitespace and control
// characters fall outside the set.
func tokenRune(r rune, allowColon bool) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r == '.', r == '_', r == '-':
		return true
	case r == ':':
		return allowColon
	default:
		return false
	}
}
