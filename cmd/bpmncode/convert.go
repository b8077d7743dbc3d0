package main

import (
	"strings"

	"github.com/bpmncode-lang/bpmncode/diagnostics"
	"github.com/bpmncode-lang/bpmncode/parser"
)

// toDiagnostic converts a recorded parse or semantic error into the shared
// diagnostic record, classifying it by message shape and attaching
// suggestions where the document gives us something to suggest from.
func toDiagnostic(e parser.ParseError, doc *parser.Document) diagnostics.Diagnostic {
	d := diagnostics.Diagnostic{
		Code:     codeFor(e.Message),
		Message:  e.Message,
		Span:     e.Span,
		Severity: e.Severity,
	}

	if token, ok := quotedToken(e.Message); ok {
		switch {
		case strings.HasPrefix(e.Message, "Unexpected token"):
			d.Suggestions = diagnostics.SuggestKeywords(token)
		case strings.HasPrefix(e.Message, "Unknown flow"):
			d.Suggestions = diagnostics.SuggestIdentifiers(token, declaredIDs(doc))
		}
	}

	return d
}

func codeFor(message string) string {
	switch {
	case strings.HasPrefix(message, "Unexpected token"),
		strings.HasPrefix(message, "Skipping unexpected token"),
		strings.HasPrefix(message, "Cannot recover"):
		return diagnostics.CodeUnexpectedToken
	case strings.HasPrefix(message, "Unknown flow"):
		return diagnostics.CodeUndefinedReference
	case strings.HasPrefix(message, "Duplicate node id"):
		return diagnostics.CodeDuplicateID
	case strings.HasPrefix(message, "Invalid attribute"):
		return diagnostics.CodeInvalidAttribute
	case strings.Contains(message, "start event"):
		return diagnostics.CodeMissingElement
	case strings.Contains(message, "default arrow"),
		strings.HasPrefix(message, "Invalid sequential arrow"),
		strings.HasPrefix(message, "Invalid message arrow"),
		strings.HasPrefix(message, "Invalid associative link"),
		strings.HasPrefix(message, "Missing target in"),
		strings.HasPrefix(message, "Missing arrow in"):
		return diagnostics.CodeInvalidFlow
	default:
		return diagnostics.CodeSyntax
	}
}

// quotedToken extracts the first single-quoted fragment of a message.
func quotedToken(message string) (string, bool) {
	start := strings.IndexByte(message, '\'')
	if start < 0 {
		return "", false
	}
	rest := message[start+1:]
	end := strings.IndexByte(rest, '\'')
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

// declaredIDs collects every identifier declared anywhere in the document,
// containers included, as the candidate pool for reference suggestions.
func declaredIDs(doc *parser.Document) []string {
	var ids []string
	for _, proc := range doc.Processes {
		ids = appendElementIDs(ids, proc.Elements)
	}
	return ids
}

func appendElementIDs(ids []string, elements []parser.Element) []string {
	for _, el := range elements {
		switch e := el.(type) {
		case *parser.StartEvent:
			if e.ID != "" {
				ids = append(ids, e.ID)
			}
		case *parser.EndEvent:
			if e.ID != "" {
				ids = append(ids, e.ID)
			}
		case *parser.Task:
			ids = append(ids, e.ID)
		case *parser.Gateway:
			if e.ID != "" {
				ids = append(ids, e.ID)
			}
		case *parser.IntermediateEvent:
			if e.ID != "" {
				ids = append(ids, e.ID)
			}
		case *parser.CallActivity:
			ids = append(ids, e.ID)
		case *parser.Subprocess:
			ids = append(ids, e.ID)
			ids = appendElementIDs(ids, e.Elements)
		case *parser.Pool:
			ids = append(ids, e.Name)
			ids = appendElementIDs(ids, e.Elements)
			for _, lane := range e.Lanes {
				ids = appendElementIDs(ids, lane.Elements)
			}
		case *parser.Group:
			ids = appendElementIDs(ids, e.Elements)
		}
	}
	return ids
}
