package parser

import (
	"strings"
	"testing"

	"github.com/bpmncode-lang/bpmncode/diagnostics"
	"github.com/bpmncode-lang/bpmncode/lexer"
)

func validateInput(t *testing.T, input string) []ParseError {
	t.Helper()
	doc := ParseTokens(lexer.Tokenize(input, "test.bpmn"))
	if len(doc.Errors) != 0 {
		t.Fatalf("input has parse errors, fix the fixture: %v", doc.Errors)
	}
	return ValidateSemantics(doc)
}

func countMessage(errors []ParseError, fragment string) int {
	n := 0
	for _, e := range errors {
		if strings.Contains(e.Message, fragment) {
			n++
		}
	}
	return n
}

func TestValidateCleanProcess(t *testing.T) {
	errs := validateInput(t, `
		process Clean {
			start
			task a
			task b
			end

			a -> b
			b -> end
		}
	`)

	if len(errs) != 0 {
		t.Errorf("expected no findings, got %v", errs)
	}
}

func TestValidateDuplicateID(t *testing.T) {
	errs := validateInput(t, `
		process P {
			start
			task T
			task T
			end
		}
	`)

	if countMessage(errs, "Duplicate node id 'T'") != 1 {
		t.Errorf("expected exactly one duplicate finding, got %v", errs)
	}
	for _, e := range errs {
		if strings.Contains(e.Message, "Duplicate") && e.Severity != diagnostics.SeverityError {
			t.Errorf("duplicate finding severity = %v", e.Severity)
		}
	}
}

func TestValidateDuplicateSpanPointsAtSecond(t *testing.T) {
	input := "process P {\n\tstart\n\ttask T\n\ttask T\n\tend\n}\n"
	doc := ParseTokens(lexer.Tokenize(input, "test.bpmn"))
	errs := ValidateSemantics(doc)

	for _, e := range errs {
		if strings.Contains(e.Message, "Duplicate node id") {
			if e.Span.Line != 4 {
				t.Errorf("duplicate reported at line %d, want 4", e.Span.Line)
			}
			return
		}
	}
	t.Fatal("duplicate finding missing")
}

func TestValidateUnknownFlowEndpoints(t *testing.T) {
	errs := validateInput(t, `
		process P {
			start
			task a
			end

			ghost -> a
			a -> nowhere
		}
	`)

	if countMessage(errs, "Unknown flow source: 'ghost'") != 1 {
		t.Errorf("missing unknown-source finding: %v", errs)
	}
	if countMessage(errs, "Unknown flow target: 'nowhere'") != 1 {
		t.Errorf("missing unknown-target finding: %v", errs)
	}
}

func TestValidateSentinels(t *testing.T) {
	// "end" as a target always resolves even though nothing declares it.
	errs := validateInput(t, `
		process P {
			start
			task a
			end

			a -> end
		}
	`)

	if len(errs) != 0 {
		t.Errorf("sentinel endpoints flagged: %v", errs)
	}
}

func TestValidateDefaultFlowSource(t *testing.T) {
	errs := validateInput(t, `
		process P {
			start
			task b
			end

			phantom => b
		}
	`)

	if countMessage(errs, "The default arrow can only come from the gateway: phantom => b") != 1 {
		t.Errorf("missing default-arrow finding: %v", errs)
	}
	// The unresolved source is also reported in its own right.
	if countMessage(errs, "Unknown flow source: 'phantom'") != 1 {
		t.Errorf("missing unknown-source finding: %v", errs)
	}
}

func TestValidateMissingStartEvent(t *testing.T) {
	errs := validateInput(t, `
		process NoStart {
			task a
			end
		}
	`)

	found := false
	for _, e := range errs {
		if e.Message == "Process 'NoStart' must contain at least one start event" {
			found = true
			if e.Severity != diagnostics.SeverityWarning {
				t.Errorf("severity = %v, want warning", e.Severity)
			}
		}
	}
	if !found {
		t.Errorf("missing start-event warning: %v", errs)
	}
}

func TestValidateStartInsideContainerDoesNotCount(t *testing.T) {
	errs := validateInput(t, `
		process P {
			subprocess sub {
				start
				end
			}
			end
		}
	`)

	if countMessage(errs, "must contain at least one start event") != 1 {
		t.Errorf("nested start should not satisfy the check: %v", errs)
	}
}

func TestValidatePerContainerScopes(t *testing.T) {
	// The same id may appear once per container without conflict.
	errs := validateInput(t, `
		process P {
			start
			task work
			subprocess sub {
				task work
			}
			pool Side {
				lane L {
					task work
				}
			}
			end
		}
	`)

	if countMessage(errs, "Duplicate node id") != 0 {
		t.Errorf("cross-container ids flagged as duplicates: %v", errs)
	}
}

func TestValidateDuplicateInsideSubprocess(t *testing.T) {
	errs := validateInput(t, `
		process P {
			start
			subprocess sub {
				task x
				task x
			}
			end
		}
	`)

	if countMessage(errs, "Duplicate node id 'x'") != 1 {
		t.Errorf("expected duplicate inside subprocess: %v", errs)
	}
}

func TestValidateSubprocessFlowScope(t *testing.T) {
	// Flows inside a subprocess resolve against the subprocess body, not
	// the enclosing process.
	errs := validateInput(t, `
		process P {
			start
			task outer
			subprocess sub {
				task inner
				inner -> outer
			}
			end
		}
	`)

	if countMessage(errs, "Unknown flow target: 'outer'") != 1 {
		t.Errorf("subprocess flow leaked into outer scope: %v", errs)
	}
}

func TestValidateNilResultMeansClean(t *testing.T) {
	doc := ParseTokens(lexer.Tokenize("process P {\n\tstart\n\tend\n}\n", "test.bpmn"))
	if errs := ValidateSemantics(doc); errs != nil {
		t.Errorf("clean document produced findings: %v", errs)
	}
}
