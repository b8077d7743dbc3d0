package parser

import (
	"fmt"

	"github.com/bpmncode-lang/bpmncode/diagnostics"
	"github.com/bpmncode-lang/bpmncode/lexer"
)

// ErrorKind classifies grammar-level failures.
type ErrorKind int

const (
	ErrUnexpectedToken ErrorKind = iota
	ErrUnclosedBlock
	ErrInvalidAttributeValue
	ErrUndefinedReference
	ErrInvalidFlow
	ErrUnexpectedEOF
)

// ParserError is the single grammar-failure type. Which fields are
// meaningful depends on Kind; Error() renders the canonical message used in
// document error lists.
type ParserError struct {
	Kind     ErrorKind
	Found    string
	Expected string
	Value    string
	Message  string
	Span     lexer.Span
}

func (e *ParserError) Error() string {
	switch e.Kind {
	case ErrUnexpectedToken:
		return fmt.Sprintf("Unexpected token '%s' at %s, expected %s", e.Found, e.Span, e.Expected)
	case ErrUnclosedBlock:
		return fmt.Sprintf("Missing closing brace for block starting at %s", e.Span)
	case ErrInvalidAttributeValue:
		return fmt.Sprintf("Invalid attribute value '%s' at %s", e.Value, e.Span)
	case ErrUndefinedReference:
		return fmt.Sprintf("Undefined reference '%s' at %s", e.Value, e.Span)
	case ErrInvalidFlow:
		return fmt.Sprintf("Invalid flow: %s at %s", e.Message, e.Span)
	case ErrUnexpectedEOF:
		return fmt.Sprintf("Unexpected end of input, expected %s", e.Expected)
	default:
		return fmt.Sprintf("Parse error at %s", e.Span)
	}
}

// Diagnostic is the stable conversion from the parser's error type into the
// shared diagnostic record.
func (e *ParserError) Diagnostic() diagnostics.Diagnostic {
	code := diagnostics.CodeSyntax
	switch e.Kind {
	case ErrUnexpectedToken, ErrUnexpectedEOF:
		code = diagnostics.CodeUnexpectedToken
	case ErrInvalidAttributeValue:
		code = diagnostics.CodeInvalidAttribute
	case ErrUndefinedReference:
		code = diagnostics.CodeUndefinedReference
	case ErrInvalidFlow:
		code = diagnostics.CodeInvalidFlow
	}

	return diagnostics.Diagnostic{
		Code:     code,
		Message:  e.Error(),
		Span:     e.Span,
		Severity: diagnostics.SeverityError,
	}
}

func unexpected(found, expected string, span lexer.Span) *ParserError {
	return &ParserError{
		Kind:     ErrUnexpectedToken,
		Found:    found,
		Expected: expected,
		Span:     span,
	}
}
