package lexer

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// tok is the kind+text projection used by most tests; span checks live in
// their own tests.
type tok struct {
	Kind TokenKind
	Text string
}

func project(tokens []Token) []tok {
	out := make([]tok, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, tok{t.Kind, t.Text})
	}
	return out
}

func TestTokenizeKeywords(t *testing.T) {
	input := "process import from as subprocess start end task user service script call xor and event group pool lane note"
	want := []tok{
		{PROCESS, "process"}, {IMPORT, "import"}, {FROM, "from"}, {AS, "as"},
		{SUBPROCESS, "subprocess"}, {START, "start"}, {END, "end"},
		{TASK, "task"}, {USER, "user"}, {SERVICE, "service"}, {SCRIPT, "script"},
		{CALL, "call"}, {XOR, "xor"}, {AND, "and"}, {EVENT, "event"},
		{GROUP, "group"}, {POOL, "pool"}, {LANE, "lane"}, {NOTE, "note"},
		{EOF, ""},
	}

	got := project(Tokenize(input, "test.bpmn"))
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(tok{})); diff != "" {
		t.Errorf("token mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeOperators(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []tok
	}{
		{
			name:  "flow arrows",
			input: "-> --> => ..>",
			want: []tok{
				{SEQUENCE_FLOW, "->"}, {MESSAGE_FLOW, "-->"},
				{DEFAULT_FLOW, "=>"}, {ASSOCIATION, "..>"}, {EOF, ""},
			},
		},
		{
			name:  "longest match wins",
			input: "a-->b",
			want: []tok{
				{IDENTIFIER, "a"}, {MESSAGE_FLOW, "-->"}, {IDENTIFIER, "b"}, {EOF, ""},
			},
		},
		{
			name:  "namespace and punctuation",
			input: "a::b{}()[],@?=",
			want: []tok{
				{IDENTIFIER, "a"}, {NAMESPACE, "::"}, {IDENTIFIER, "b"},
				{LBRACE, "{"}, {RBRACE, "}"}, {LPAREN, "("}, {RPAREN, ")"},
				{LBRACKET, "["}, {RBRACKET, "]"}, {COMMA, ","},
				{AT, "@"}, {QUESTION, "?"}, {EQUALS, "="}, {EOF, ""},
			},
		},
		{
			name:  "lone dash is unknown",
			input: "a - b",
			want: []tok{
				{IDENTIFIER, "a"}, {UNKNOWN, "-"}, {IDENTIFIER, "b"}, {EOF, ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := project(Tokenize(tt.input, "test.bpmn"))
			if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(tok{})); diff != "" {
				t.Errorf("token mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenizeStrings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []tok
	}{
		{
			name:  "plain string",
			input: `note "hello world"`,
			want:  []tok{{NOTE, "note"}, {STRING, `"hello world"`}, {EOF, ""}},
		},
		{
			name:  "escaped quote",
			input: `"a\"b"`,
			want:  []tok{{STRING, `"a\"b"`}, {EOF, ""}},
		},
		{
			name:  "string spanning a newline",
			input: "\"a\nb\"",
			want:  []tok{{STRING, "\"a\nb\""}, {EOF, ""}},
		},
		{
			name:  "unterminated string degrades to unknown quote",
			input: `"abc`,
			want:  []tok{{UNKNOWN, `"`}, {IDENTIFIER, "abc"}, {EOF, ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := project(Tokenize(tt.input, "test.bpmn"))
			if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(tok{})); diff != "" {
				t.Errorf("token mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenizeNumbers(t *testing.T) {
	input := "42 3.14 30s 100ms 5m 2h"
	want := []tok{
		{NUMBER, "42"}, {NUMBER, "3.14"}, {NUMBER, "30s"},
		{NUMBER, "100ms"}, {NUMBER, "5m"}, {NUMBER, "2h"}, {EOF, ""},
	}

	got := project(Tokenize(input, "test.bpmn"))
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(tok{})); diff != "" {
		t.Errorf("token mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeComments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []tok
	}{
		{
			name:  "line comment stops at newline",
			input: "task a // trailing\ntask b",
			want: []tok{
				{TASK, "task"}, {IDENTIFIER, "a"}, {COMMENT, "// trailing"},
				{NEWLINE, "\n"}, {TASK, "task"}, {IDENTIFIER, "b"}, {EOF, ""},
			},
		},
		{
			name:  "block comment",
			input: "a /* x\ny */ b",
			want: []tok{
				{IDENTIFIER, "a"}, {BLOCK_COMMENT, "/* x\ny */"},
				{IDENTIFIER, "b"}, {EOF, ""},
			},
		},
		{
			name:  "unterminated block comment degrades",
			input: "/* x",
			want: []tok{
				{UNKNOWN, "/"}, {UNKNOWN, "*"}, {IDENTIFIER, "x"}, {EOF, ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := project(Tokenize(tt.input, "test.bpmn"))
			if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(tok{})); diff != "" {
				t.Errorf("token mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenizeUnknown(t *testing.T) {
	got := project(Tokenize("task $ a", "test.bpmn"))
	want := []tok{{TASK, "task"}, {UNKNOWN, "$"}, {IDENTIFIER, "a"}, {EOF, ""}}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(tok{})); diff != "" {
		t.Errorf("token mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeMultibyteUnknown(t *testing.T) {
	tokens := Tokenize("§", "test.bpmn")
	if len(tokens) != 2 {
		t.Fatalf("expected UNKNOWN+EOF, got %d tokens", len(tokens))
	}
	if tokens[0].Kind != UNKNOWN || tokens[0].Text != "§" {
		t.Errorf("expected single UNKNOWN '§', got %v %q", tokens[0].Kind, tokens[0].Text)
	}
}

func TestTokenizeEmptyInput(t *testing.T) {
	tokens := Tokenize("", "empty.bpmn")
	if len(tokens) != 1 {
		t.Fatalf("expected lone EOF, got %d tokens", len(tokens))
	}
	eof := tokens[0]
	if eof.Kind != EOF {
		t.Errorf("expected EOF kind, got %v", eof.Kind)
	}
	if eof.Span.Start != 0 || eof.Span.End != 0 {
		t.Errorf("expected collapsed span at 0, got %d..%d", eof.Span.Start, eof.Span.End)
	}
}

func TestTokenizeEOFPosition(t *testing.T) {
	input := "task a\n"
	tokens := Tokenize(input, "test.bpmn")
	eof := tokens[len(tokens)-1]
	if eof.Kind != EOF {
		t.Fatalf("last token is %v, want EOF", eof.Kind)
	}
	if eof.Span.Start != len(input) || eof.Span.End != len(input) {
		t.Errorf("EOF span = %d..%d, want collapsed at %d", eof.Span.Start, eof.Span.End, len(input))
	}
	if eof.Span.Line != 2 || eof.Span.Column != 1 {
		t.Errorf("EOF position = %d:%d, want 2:1", eof.Span.Line, eof.Span.Column)
	}
}

func TestTokenizePositions(t *testing.T) {
	input := "task a\n  task b"
	tokens := Tokenize(input, "test.bpmn")

	var second *Token
	count := 0
	for i := range tokens {
		if tokens[i].Kind == TASK {
			count++
			if count == 2 {
				second = &tokens[i]
			}
		}
	}
	if second == nil {
		t.Fatal("second task keyword not found")
	}
	if second.Span.Line != 2 || second.Span.Column != 3 {
		t.Errorf("second task at %d:%d, want 2:3", second.Span.Line, second.Span.Column)
	}
	if second.Span.File != "test.bpmn" {
		t.Errorf("span file = %q, want test.bpmn", second.Span.File)
	}
}

func TestTokenizeCRLF(t *testing.T) {
	got := project(Tokenize("a\r\nb", "test.bpmn"))
	want := []tok{{IDENTIFIER, "a"}, {NEWLINE, "\r\n"}, {IDENTIFIER, "b"}, {EOF, ""}}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(tok{})); diff != "" {
		t.Errorf("token mismatch (-want +got):\n%s", diff)
	}
}

// Tokenization is total: no input may panic or drop bytes silently.
func TestTokenizeTotality(t *testing.T) {
	inputs := []string{
		"",
		"\x00\x01\x02",
		strings.Repeat("{", 100),
		"process \"unterminated",
		"///***",
		"ключ 任务",
	}
	for _, input := range inputs {
		tokens := Tokenize(input, "fuzz.bpmn")
		if len(tokens) == 0 {
			t.Errorf("no tokens for %q", input)
			continue
		}
		if tokens[len(tokens)-1].Kind != EOF {
			t.Errorf("stream for %q does not end in EOF", input)
		}
	}
}
