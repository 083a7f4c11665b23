package step

import (
	"reflect"
	"strings"
)

// Capabilities is the resolved view of a step: the optional interfaces it
// implements anywhere along its wrapper chain, and its Role. Resolving once
// at discovery keeps type assertions out of the tick loop.
type Capabilities struct {
	Step     Step
	Gate     Gate
	Reporter OutcomeReporter
	Role     Role
}

// Resolve inspects s and each step it wraps. The outermost layer that
// provides a capability wins.
func Resolve(s Step) Capabilities {
	c := Capabilities{Step: s}
	roleSet := false
	for cur := s; cur != nil; {
		if r, ok := cur.(Classified); ok && !roleSet {
			c.Role = r.Role()
			roleSet = true
		}
		if g, ok := cur.(Gate); ok && c.Gate == nil {
			c.Gate = g
		}
		if rep, ok := cur.(OutcomeReporter); ok && c.Reporter == nil {
			c.Reporter = rep
		}
		w, ok := cur.(Wrapper)
		if !ok {
			break
		}
		cur = w.Unwrap()
	}
	return c
}

// Innermost follows the wrapper chain of s to the step that does the work.
func Innermost(s Step) Step {
	for s != nil {
		w, ok := s.(Wrapper)
		if !ok {
			return s
		}
		next := w.Unwrap()
		if next == nil {
			return s
		}
		s = next
	}
	return s
}

// TypeName returns the fully qualified concrete type name of the innermost
// step, e.g. "*github.com/acme/sim/steps.weather". It is the ordering
// tie-breaker for steps sharing an ID.
func TypeName(s Step) string {
	inner := Innermost(s)
	if inner == nil {
		return "<nil>"
	}
	t := reflect.TypeOf(inner)
	var prefix strings.Builder
	for t.Kind() == reflect.Pointer {
		prefix.WriteByte('*')
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return prefix.String() + t.String()
	}
	return prefix.String() + t.PkgPath() + "." + t.Name()
}

// IsNil reports whether s, or any step it wraps, is a nil interface or a
// nil pointer.
func IsNil(s Step) bool {
	for s != nil {
		v := reflect.ValueOf(s)
		switch v.Kind() {
		case reflect.Pointer, reflect.Func, reflect.Map, reflect.Slice, reflect.Chan:
			if v.IsNil() {
				return true
			}
		}
		w, ok := s.(Wrapper)
		if !ok {
			return false
		}
		s = w.Unwrap()
	}
	return true
}
