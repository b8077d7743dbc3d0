package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bpmncode-lang/bpmncode/diagnostics"
	"github.com/bpmncode-lang/bpmncode/lexer"
	"github.com/bpmncode-lang/bpmncode/parser"
)

func TestCodeFor(t *testing.T) {
	cases := []struct {
		message string
		want    string
	}{
		{"Unexpected token 'foo'", diagnostics.CodeUnexpectedToken},
		{"Skipping unexpected token '123'", diagnostics.CodeUnexpectedToken},
		{"Cannot recover from token ')'", diagnostics.CodeUnexpectedToken},
		{"Unknown flow source: 'ghost'", diagnostics.CodeUndefinedReference},
		{"Unknown flow target: 'nowhere'", diagnostics.CodeUndefinedReference},
		{"Duplicate node id 'T'", diagnostics.CodeDuplicateID},
		{"Invalid attribute value: 'x'", diagnostics.CodeInvalidAttribute},
		{"Process 'P' must contain at least one start event", diagnostics.CodeMissingElement},
		{"The default arrow can only come from the gateway: a => b", diagnostics.CodeInvalidFlow},
		{"Missing target in flow", diagnostics.CodeInvalidFlow},
		{"Missing arrow in gateway branch", diagnostics.CodeInvalidFlow},
		{"Missing closing brace for process", diagnostics.CodeSyntax},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, codeFor(tc.message), "message %q", tc.message)
	}
}

func TestQuotedToken(t *testing.T) {
	token, ok := quotedToken("Unexpected token 'proces'")
	assert.True(t, ok)
	assert.Equal(t, "proces", token)

	_, ok = quotedToken("Missing closing brace for process")
	assert.False(t, ok)

	_, ok = quotedToken("stray quote ' only")
	assert.False(t, ok)
}

func TestToDiagnosticEnrichment(t *testing.T) {
	doc := parser.ParseTokens(lexer.Tokenize(`
		process P {
			start
			task review
			end
		}
	`, "test.bpmn"))

	d := toDiagnostic(parser.ParseError{
		Message:  "Unknown flow target: 'reviw'",
		Severity: diagnostics.SeverityError,
	}, doc)

	assert.Equal(t, diagnostics.CodeUndefinedReference, d.Code)
	assert.Contains(t, d.Suggestions, "review")
}

func TestDeclaredIDsWalksContainers(t *testing.T) {
	doc := parser.ParseTokens(lexer.Tokenize(`
		process P {
			start
			task top
			subprocess sub {
				task nested
			}
			pool Side {
				lane L {
					task laned
				}
			}
			end
		}
	`, "test.bpmn"))

	ids := declaredIDs(doc)
	assert.Contains(t, ids, "top")
	assert.Contains(t, ids, "sub")
	assert.Contains(t, ids, "nested")
	assert.Contains(t, ids, "Side")
	assert.Contains(t, ids, "laned")
}
