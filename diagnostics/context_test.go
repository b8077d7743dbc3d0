package diagnostics

import (
	"strings"
	"testing"

	"github.com/bpmncode-lang/bpmncode/lexer"
)

func validate(input string) []Diagnostic {
	return ValidateContext(lexer.Tokenize(input, "test.bpmn"))
}

func TestKeywordTypoAtStatementStart(t *testing.T) {
	diags := validate("proces Order {\n}\n")

	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %v", len(diags), diags)
	}
	d := diags[0]
	if d.Code != CodeUnexpectedToken {
		t.Errorf("code = %s, want %s", d.Code, CodeUnexpectedToken)
	}
	if !strings.Contains(d.Message, "did you mean 'process'") {
		t.Errorf("message %q lacks the confident correction", d.Message)
	}
	if len(d.Suggestions) != 1 || d.Suggestions[0] != "process" {
		t.Errorf("suggestions = %v, want [process]", d.Suggestions)
	}
}

func TestIdentifiersInContextNotFlagged(t *testing.T) {
	// "tasks" resembles "task" but is used as a flow endpoint both times.
	diags := validate("process P {\n  task tasks\n  tasks -> end\n  start -> tasks\n}\n")

	for _, d := range diags {
		if strings.Contains(d.Message, "tasks") {
			t.Errorf("flow endpoint flagged as typo: %v", d)
		}
	}
}

func TestUnknownTokenReported(t *testing.T) {
	diags := validate("task $ a\n")

	found := false
	for _, d := range diags {
		if d.Code == CodeSyntax && strings.Contains(d.Message, "Unknown token '$'") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected unknown-token diagnostic, got %v", diags)
	}
}

func TestOperatorFragmentsNotFlagged(t *testing.T) {
	// Partially typed comparison operators show up as UNKNOWN tokens but
	// should stay quiet.
	for _, frag := range []string{"<", ">", "=", "!", "&", "|"} {
		diags := validate("x " + frag + " y\n")
		for _, d := range diags {
			if strings.Contains(d.Message, "Unknown token") {
				t.Errorf("fragment %q flagged: %v", frag, d)
			}
		}
	}
}

func TestBrokenFlowArrow(t *testing.T) {
	diags := validate("process P {\n  a - b\n}\n")

	found := false
	for _, d := range diags {
		if d.Message == "Invalid flow operator: use '->' for sequence flow" {
			found = true
			if len(d.Suggestions) != 1 || d.Suggestions[0] != "->" {
				t.Errorf("suggestions = %v, want [->]", d.Suggestions)
			}
		}
	}
	if !found {
		t.Errorf("expected broken-arrow diagnostic, got %v", diags)
	}
}

func TestGatewayMissingClosingBrace(t *testing.T) {
	diags := validate("xor decision? {\n  [x > 1] -> a\n")

	found := false
	for _, d := range diags {
		if strings.Contains(d.Message, "XOR gateway missing closing brace '}'") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected missing-close diagnostic, got %v", diags)
	}
}

func TestGatewayMissingOpeningBrace(t *testing.T) {
	diags := validate("and split\n  [x] -> a\n}\n")

	found := false
	for _, d := range diags {
		if strings.Contains(d.Message, "AND gateway missing opening brace '{' before conditions") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected missing-open diagnostic, got %v", diags)
	}
}

func TestBalancedGatewayQuiet(t *testing.T) {
	diags := validate("xor d? {\n  [x] -> a\n  => b\n}\n")

	for _, d := range diags {
		if strings.Contains(d.Message, "gateway") {
			t.Errorf("balanced gateway flagged: %v", d)
		}
	}
}

func TestBareGatewayMentionQuiet(t *testing.T) {
	// No braces and no branch-like content ahead: nothing to report.
	diags := validate("xor decision\n")

	if len(diags) != 0 {
		t.Errorf("expected no diagnostics, got %v", diags)
	}
}
