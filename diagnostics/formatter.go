package diagnostics

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorCyan   = "\033[36m"
	ColorGray   = "\033[90m"
)

// Colorize wraps text in ANSI color codes if color is enabled
func Colorize(text, color string, useColor bool) string {
	if !useColor {
		return text
	}
	return color + text + ColorReset
}

// Formatter renders diagnostic reports for terminals and tooling.
type Formatter struct {
	useColor   bool
	showSource bool
}

// NewFormatter creates a formatter. showSource controls whether the human
// format echoes the offending source line with a caret underline.
func NewFormatter(useColor, showSource bool) *Formatter {
	return &Formatter{useColor: useColor, showSource: showSource}
}

// Human renders the full human-readable report: one block per diagnostic
// with location, source context and suggestions, then a per-file summary.
func (f *Formatter) Human(report *Report) string {
	if len(report.Diagnostics) == 0 {
		return fmt.Sprintf("%s %s - no issues found\n",
			Colorize("✓", ColorGreen, f.useColor),
			Colorize(report.File, ColorCyan, f.useColor))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n",
		Colorize("Checking:", ColorBlue, f.useColor),
		Colorize(report.File, ColorCyan, f.useColor))

	for _, d := range report.Diagnostics {
		b.WriteString(f.formatDiagnostic(d, report.Source))
		b.WriteByte('\n')
	}

	if report.ErrorCount() > 0 {
		fmt.Fprintf(&b, "\n%s %s - %s found\n",
			Colorize("✗", ColorRed, f.useColor),
			Colorize(report.File, ColorCyan, f.useColor),
			Colorize(countText(report.ErrorCount(), report.WarningCount()), ColorRed, f.useColor))
	}

	return b.String()
}

// Short renders one line per diagnostic: file:line:col: severity: message.
func (f *Formatter) Short(report *Report) string {
	var b strings.Builder
	for _, d := range report.Diagnostics {
		fmt.Fprintf(&b, "%s:%d:%d: %s: %s\n",
			d.Span.File, d.Span.Line, d.Span.Column, d.Severity, d.Message)
	}
	return b.String()
}

type jsonError struct {
	Severity    string   `json:"severity"`
	Message     string   `json:"message"`
	Line        int      `json:"line"`
	Column      int      `json:"column"`
	Start       int      `json:"start"`
	End         int      `json:"end"`
	Suggestions []string `json:"suggestions"`
	Code        string   `json:"code"`
}

type jsonSummary struct {
	ErrorCount   int  `json:"error_count"`
	WarningCount int  `json:"warning_count"`
	HasErrors    bool `json:"has_errors"`
}

type jsonReport struct {
	File    string      `json:"file"`
	Errors  []jsonError `json:"errors"`
	Summary jsonSummary `json:"summary"`
}

// JSON renders the report as a stable machine-readable document for IDE and
// plugin consumption.
func (f *Formatter) JSON(report *Report) (string, error) {
	out := jsonReport{
		File:   report.File,
		Errors: make([]jsonError, 0, len(report.Diagnostics)),
		Summary: jsonSummary{
			ErrorCount:   report.ErrorCount(),
			WarningCount: report.WarningCount(),
			HasErrors:    report.HasErrors(),
		},
	}

	for _, d := range report.Diagnostics {
		suggestions := d.Suggestions
		if suggestions == nil {
			suggestions = []string{}
		}
		out.Errors = append(out.Errors, jsonError{
			Severity:    d.Severity.String(),
			Message:     d.Message,
			Line:        d.Span.Line,
			Column:      d.Span.Column,
			Start:       d.Span.Start,
			End:         d.Span.End,
			Suggestions: suggestions,
			Code:        d.Code,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (f *Formatter) formatDiagnostic(d Diagnostic, source string) string {
	location := fmt.Sprintf("%s:%d:%d", d.Span.File, d.Span.Line, d.Span.Column)

	severityColor := ColorRed
	if d.Severity != SeverityError {
		severityColor = ColorYellow
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  %s: %s %s",
		Colorize(d.Severity.String(), severityColor, f.useColor),
		Colorize(location, ColorBlue, f.useColor),
		d.Message)

	if f.showSource {
		if line, ok := sourceLine(source, d.Span.Line); ok {
			b.WriteByte('\n')
			b.WriteString(f.formatSourceLine(line, d.Span.Column, d.Span.End-d.Span.Start))
		}
	}

	if len(d.Suggestions) > 0 {
		b.WriteByte('\n')
		fmt.Fprintf(&b, "    %s: %s",
			Colorize("did you mean", ColorCyan, f.useColor),
			Colorize(strings.Join(d.Suggestions, ", "), ColorGreen, f.useColor))
	}

	return b.String()
}

func (f *Formatter) formatSourceLine(line string, column, length int) string {
	if length < 1 {
		length = 1
	}
	pad := column - 1
	if pad < 0 {
		pad = 0
	}
	caret := Colorize(strings.Repeat("^", length), ColorRed, f.useColor)
	return fmt.Sprintf("    | %s\n    | %s%s", line, strings.Repeat(" ", pad), caret)
}

func sourceLine(source string, lineNumber int) (string, bool) {
	if lineNumber < 1 {
		return "", false
	}
	lines := strings.Split(source, "\n")
	if lineNumber > len(lines) {
		return "", false
	}
	return strings.TrimSuffix(lines[lineNumber-1], "\r"), true
}

func countText(errors, warnings int) string {
	switch {
	case errors == 0 && warnings == 0:
		return "no issues"
	case errors == 0:
		return fmt.Sprintf("%d warnings", warnings)
	case warnings == 0:
		return fmt.Sprintf("%d errors", errors)
	default:
		return fmt.Sprintf("%d errors, %d warnings", errors, warnings)
	}
}
