// Package errors implements the structured diagnostic taxonomy of
// spec.md §7: a closed Kind set, a stable code per diagnostic, primary and
// secondary locations, and collection/sorting for end-of-run reporting.
//
// Grounded on ailang/internal/errors/report.go's Schema-tagged Report +
// ReportError wrapper (kept so structured reports survive errors.As()
// unwrapping); error codes restyled from ailang/internal/errors/codes.go's
// PHASE### taxonomy onto spec.md §7's Kind set; message text and kind
// semantics from erg_common/error.rs.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/sunholo/ergo/internal/ast"
)

// Schema identifies the JSON shape of a Report, for downstream tooling
// that consumes diagnostics as data.
const Schema = "ergo.error/v1"

// Kind is the closed diagnostic taxonomy (spec.md §7).
type Kind string

const (
	KindSyntax   Kind = "Syntax"
	KindName     Kind = "Name"
	KindType     Kind = "Type"
	KindEffect   Kind = "Effect"
	KindMove     Kind = "Move"
	KindFeature  Kind = "Feature"
	KindImport   Kind = "Import"
	KindIo       Kind = "Io"
	KindCompiler Kind = "Compiler"
	KindWarning  Kind = "Warning"
)

// WarningSubkind further classifies a KindWarning report.
type WarningSubkind string

const (
	WarnDeprecation WarningSubkind = "deprecation"
	WarnUnused      WarningSubkind = "unused"
	WarnCast        WarningSubkind = "cast"
	WarnSyntax      WarningSubkind = "syntax-warning"
	WarnType        WarningSubkind = "type-warning"
)

// SecondaryLoc is an additional location attached to a Report, each with
// its own message (spec.md §7: "zero or more secondary locations with
// per-location messages").
type SecondaryLoc struct {
	Span    ast.Span `json:"span"`
	Message string   `json:"message"`
}

// Report is the canonical structured diagnostic. All error builders in
// this repo return *Report; callers wrap it as an error via WrapReport.
type Report struct {
	Schema    string         `json:"schema"`
	Code      string         `json:"code"`
	Kind      Kind           `json:"kind"`
	Subkind   WarningSubkind `json:"subkind,omitempty"`
	Phase     string         `json:"phase"`
	Module    string         `json:"module,omitempty"`
	Message   string         `json:"message"`
	Span      *ast.Span      `json:"span,omitempty"`
	Secondary []SecondaryLoc `json:"secondary,omitempty"`
	Hint      string         `json:"hint,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Cause     error          `json:"-"`
}

// ReportError wraps a Report as an error so it survives errors.As()
// unwrapping through ordinary Go error-handling code.
type ReportError struct{ Rep *Report }

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return fmt.Sprintf("[%s] %s: %s", e.Rep.Code, e.Rep.Kind, e.Rep.Message)
}

func (e *ReportError) Unwrap() error {
	if e.Rep == nil {
		return nil
	}
	return e.Rep.Cause
}

// AsReport extracts a Report from an error chain.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// WrapReport wraps r as an error.
func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// ToJSON renders r deterministically (sorted map keys via encoding/json's
// default map marshaling).
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error
	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// NewGeneric wraps an opaque error (typically I/O) as a Report.
func NewGeneric(phase string, err error) *Report {
	return &Report{
		Schema:  Schema,
		Code:    IoGeneric,
		Kind:    KindIo,
		Phase:   phase,
		Message: err.Error(),
		Cause:   err,
	}
}

// Collector accumulates diagnostics across phases and modules without
// short-circuiting (spec.md §7's propagation rules: a phase returning
// errors still passes partial results onward).
type Collector struct {
	reports []*Report
}

func NewCollector() *Collector { return &Collector{} }

func (c *Collector) Add(r *Report) {
	if r != nil {
		c.reports = append(c.reports, r)
	}
}

func (c *Collector) Extend(rs []*Report) {
	for _, r := range rs {
		c.Add(r)
	}
}

func (c *Collector) All() []*Report { return c.reports }

func (c *Collector) HasErrors() bool {
	for _, r := range c.reports {
		if r.Kind != KindWarning {
			return true
		}
	}
	return false
}

// Sorted returns every collected report ordered by module, then by
// primary location, per spec.md §7's "sorted by module, then by
// location".
func (c *Collector) Sorted() []*Report {
	out := make([]*Report, len(c.reports))
	copy(out, c.reports)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Module != b.Module {
			return a.Module < b.Module
		}
		as, bs := spanOrZero(a.Span), spanOrZero(b.Span)
		if as.Start.Line != bs.Start.Line {
			return as.Start.Line < bs.Start.Line
		}
		return as.Start.Column < bs.Start.Column
	})
	return out
}

func spanOrZero(s *ast.Span) ast.Span {
	if s == nil {
		return ast.Span{}
	}
	return *s
}

// Counts summarizes the collected reports by Kind, for the end-of-run
// summary line (spec.md §7).
func (c *Collector) Counts() map[Kind]int {
	out := map[Kind]int{}
	for _, r := range c.reports {
		out[r.Kind]++
	}
	return out
}

// ExitCode implements spec.md §6's exit-code policy: 0 on success
// (possibly with warnings), 1 when any non-warning diagnostic was
// collected. Invalid-invocation (exit 2) is the CLI's own concern.
func (c *Collector) ExitCode() int {
	if c.HasErrors() {
		return 1
	}
	return 0
}
