// Package steps builds simulation steps from manifest configuration.
package steps

import "fmt"

// ScriptedError is returned by steps whose script calls for a failure.
type ScriptedError struct {
	StepID  string
	Tick    int64
	Message string
}

func (e *ScriptedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("step %s failed at tick %d", e.StepID, e.Tick)
}

// everyNth reports whether tick is a positive multiple of every, counted
// from offset.
func everyNth(tick, every, offset int64) bool {
	n := tick - offset
	return every > 0 && n > 0 && n%every == 0
}
