package lexer

import "fmt"

// TokenKind identifies the lexical class of a token.
type TokenKind int

const (
	// Special tokens
	EOF TokenKind = iota
	UNKNOWN

	// Keywords
	PROCESS    // process
	IMPORT     // import
	FROM       // from
	AS         // as
	SUBPROCESS // subprocess
	START      // start
	END        // end
	TASK       // task
	USER       // user
	SERVICE    // service
	SCRIPT     // script
	CALL       // call
	XOR        // xor
	AND        // and
	EVENT      // event
	GROUP      // group
	POOL       // pool
	LANE       // lane
	NOTE       // note

	// Flow operators
	SEQUENCE_FLOW // ->
	MESSAGE_FLOW  // -->
	DEFAULT_FLOW  // =>
	ASSOCIATION   // ..>
	NAMESPACE     // ::

	// Brackets and delimiters
	LBRACE   // {
	RBRACE   // }
	LPAREN   // (
	RPAREN   // )
	LBRACKET // [
	RBRACKET // ]
	COMMA    // ,
	EQUALS   // =
	AT       // @
	QUESTION // ?

	// Literals
	STRING     // "quoted text"
	NUMBER     // 42, 3.14, 30s, 100ms
	IDENTIFIER // ValidateOrder, snake_case

	// Comments and layout (kept as real tokens: newlines delimit statements)
	COMMENT       // // line comment
	BLOCK_COMMENT // /* block comment */
	NEWLINE       // \n or \r\n
)

// Pre-computed token name lookup for fast debugging
var tokenNames = [...]string{
	EOF:           "EOF",
	UNKNOWN:       "UNKNOWN",
	PROCESS:       "PROCESS",
	IMPORT:        "IMPORT",
	FROM:          "FROM",
	AS:            "AS",
	SUBPROCESS:    "SUBPROCESS",
	START:         "START",
	END:           "END",
	TASK:          "TASK",
	USER:          "USER",
	SERVICE:       "SERVICE",
	SCRIPT:        "SCRIPT",
	CALL:          "CALL",
	XOR:           "XOR",
	AND:           "AND",
	EVENT:         "EVENT",
	GROUP:         "GROUP",
	POOL:          "POOL",
	LANE:          "LANE",
	NOTE:          "NOTE",
	SEQUENCE_FLOW: "SEQUENCE_FLOW",
	MESSAGE_FLOW:  "MESSAGE_FLOW",
	DEFAULT_FLOW:  "DEFAULT_FLOW",
	ASSOCIATION:   "ASSOCIATION",
	NAMESPACE:     "NAMESPACE",
	LBRACE:        "LBRACE",
	RBRACE:        "RBRACE",
	LPAREN:        "LPAREN",
	RPAREN:        "RPAREN",
	LBRACKET:      "LBRACKET",
	RBRACKET:      "RBRACKET",
	COMMA:         "COMMA",
	EQUALS:        "EQUALS",
	AT:            "AT",
	QUESTION:      "QUESTION",
	STRING:        "STRING",
	NUMBER:        "NUMBER",
	IDENTIFIER:    "IDENTIFIER",
	COMMENT:       "COMMENT",
	BLOCK_COMMENT: "BLOCK_COMMENT",
	NEWLINE:       "NEWLINE",
}

func (k TokenKind) String() string {
	if int(k) >= 0 && int(k) < len(tokenNames) {
		return tokenNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// keywords maps reserved words to their token kinds.
var keywords = map[string]TokenKind{
	"process":    PROCESS,
	"import":     IMPORT,
	"from":       FROM,
	"as":         AS,
	"subprocess": SUBPROCESS,
	"start":      START,
	"end":        END,
	"task":       TASK,
	"user":       USER,
	"service":    SERVICE,
	"script":     SCRIPT,
	"call":       CALL,
	"xor":        XOR,
	"and":        AND,
	"event":      EVENT,
	"group":      GROUP,
	"pool":       POOL,
	"lane":       LANE,
	"note":       NOTE,
}

// Span locates a token, node or diagnostic in its source file.
// Offsets are byte positions; Line and Column are 1-based.
type Span struct {
	Start  int
	End    int
	Line   int
	Column int
	File   string
}

func (s Span) String() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// Token is a single lexical unit. Text is the exact source slice, so the
// original input can always be reconstructed from the token stream.
type Token struct {
	Kind TokenKind
	Text string
	Span Span
}

// IsTrivia reports whether the token is layout the parser skips between
// statements. Trivia still reaches the context validator, which needs
// newlines as statement boundaries.
func (t Token) IsTrivia() bool {
	return t.Kind == NEWLINE || t.Kind == COMMENT || t.Kind == BLOCK_COMMENT
}
