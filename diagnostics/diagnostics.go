// Package diagnostics carries the diagnostic records shared by every layer
// of the front-end, the string-similarity suggestion engine behind "did you
// mean" hints, the pre-parse context validator, and the report renderers.
package diagnostics

import (
	"fmt"

	"github.com/bpmncode-lang/bpmncode/lexer"
)

// Severity ranks how seriously a diagnostic should be taken. Only Error
// severity affects the tool's exit status.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "error"
	}
}

// Stable diagnostic codes, one per category. Exposed in JSON output so
// editor plugins can match on them.
const (
	CodeSyntax             = "E001"
	CodeUnexpectedToken    = "E002"
	CodeUndefinedReference = "E003"
	CodeDuplicateID        = "E004"
	CodeInvalidAttribute   = "E005"
	CodeMissingElement     = "E006"
	CodeInvalidFlow        = "E007"
	CodeImport             = "E008"
)

// Diagnostic is the single record type every layer produces. Lexing,
// context validation, parsing, recovery and semantic validation all funnel
// into this shape; callers distinguish sources by Code and message content
// only.
type Diagnostic struct {
	Code        string
	Message     string
	Span        lexer.Span
	Severity    Severity
	Suggestions []string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Span, d.Severity, d.Message)
}

// Report aggregates every diagnostic produced for one input file.
type Report struct {
	File        string
	Source      string
	Diagnostics []Diagnostic
}

func NewReport(file, source string) *Report {
	return &Report{File: file, Source: source}
}

func (r *Report) Add(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
}

// HasErrors reports whether any Error-severity diagnostic was recorded.
// Warnings alone never fail a check.
func (r *Report) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (r *Report) ErrorCount() int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			n++
		}
	}
	return n
}

func (r *Report) WarningCount() int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityWarning {
			n++
		}
	}
	return n
}
