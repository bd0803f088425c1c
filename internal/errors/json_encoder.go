package errors

import (
	"fmt"

	"github.com/sunholo/ergo/internal/schema"
)

// Fix is a suggested repair for a Report, with a confidence score, used by
// the CLI and editor integrations to offer quick-fixes alongside a
// diagnostic.
type Fix struct {
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
}

// Encoded is a Report decorated with a Fix suggestion and deterministic
// JSON rendering, for downstream tooling that wants both in one envelope.
type Encoded struct {
	Report
	Fix Fix `json:"fix"`
}

// WithFix attaches a fix suggestion to r.
func WithFix(r *Report, suggestion string, confidence float64) Encoded {
	return Encoded{Report: *r, Fix: Fix{Suggestion: suggestion, Confidence: confidence}}
}

// ToJSON renders e with sorted keys, honoring schema.CompactMode.
func (e Encoded) ToJSON() ([]byte, error) {
	data, err := schema.MarshalDeterministic(e)
	if err != nil {
		fallback := Encoded{Report: Report{Schema: Schema, Message: "encoding failed"}}
		return schema.MarshalDeterministic(fallback)
	}
	return schema.FormatJSON(data)
}

// ErrorContext carries the solver state relevant to a diagnostic: the
// active constraints, generalization decisions, and a trace slice, shown
// by --verbose reporting.
type ErrorContext struct {
	Constraints []string          `json:"constraints,omitempty"`
	Decisions   []string          `json:"decisions,omitempty"`
	TraceSlice  string            `json:"trace_slice,omitempty"`
	Environment map[string]string `json:"environment,omitempty"`
}

// SafeEncodeError renders any error as JSON without panicking, falling
// back to a generic Io-kind report when err isn't already a *Report.
func SafeEncodeError(err error, phase string) []byte {
	if err == nil {
		return nil
	}
	rep, ok := AsReport(err)
	if !ok {
		rep = NewGeneric(phase, err)
	}
	data, _ := Encoded{Report: *rep}.ToJSON()
	return data
}

// FormatSourceSpan formats a file position as "file:line:col".
func FormatSourceSpan(file string, line, col int) string {
	return fmt.Sprintf("%s:%d:%d", file, line, col)
}
