package lexer

import (
	"strings"
	"unicode/utf8"
)

// Lexer scans BPMN DSL source text into a flat token stream.
//
// Scanning never fails: any character that matches no rule is emitted as a
// single UNKNOWN token and surfaces later as a validator or parser
// diagnostic. Multi-character operators win over the single-character
// catch-all, so "-->" lexes as one MESSAGE_FLOW token, not three UNKNOWNs.
type Lexer struct {
	input string
	pos   int
	file  string
}

// New creates a lexer for the given source text and file path. The path is
// only carried into token spans; no I/O happens here.
func New(input, file string) *Lexer {
	return &Lexer{input: input, file: file}
}

// Tokenize is a convenience wrapper around New(...).Tokenize().
func Tokenize(input, file string) []Token {
	return New(input, file).Tokenize()
}

// Tokenize scans the whole input. The result always ends with exactly one
// EOF token whose span collapses to the end-of-input offset.
func (l *Lexer) Tokenize() []Token {
	tokens := make([]Token, 0, len(l.input)/4+1)

	for {
		l.skipSpace()
		if l.pos >= len(l.input) {
			break
		}

		start := l.pos
		kind, length := l.scan()
		text := l.input[start : start+length]

		if kind == IDENTIFIER {
			if kw, ok := keywords[text]; ok {
				kind = kw
			}
		}

		tokens = append(tokens, Token{
			Kind: kind,
			Text: text,
			Span: l.span(start, start+length),
		})
		l.pos = start + length
	}

	tokens = append(tokens, Token{
		Kind: EOF,
		Span: l.span(len(l.input), len(l.input)),
	})

	return tokens
}

// skipSpace advances past horizontal whitespace. Newlines are real tokens.
func (l *Lexer) skipSpace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\f':
			l.pos++
		default:
			return
		}
	}
}

// scan matches one token at the current position and returns its kind and
// byte length. It never returns zero length.
func (l *Lexer) scan() (TokenKind, int) {
	c := l.input[l.pos]

	switch c {
	case '\n':
		return NEWLINE, 1
	case '\r':
		if l.peek(1) == '\n' {
			return NEWLINE, 2
		}
	case '/':
		if l.peek(1) == '/' {
			return COMMENT, l.scanLineComment()
		}
		if l.peek(1) == '*' {
			// Only a closed comment lexes as one token; an unterminated
			// opener degrades to UNKNOWN '/' and rescans from '*'.
			if rel := strings.Index(l.input[l.pos+2:], "*/"); rel >= 0 {
				return BLOCK_COMMENT, rel + 4
			}
		}
	case '-':
		if l.peek(1) == '-' && l.peek(2) == '>' {
			return MESSAGE_FLOW, 3
		}
		if l.peek(1) == '>' {
			return SEQUENCE_FLOW, 2
		}
	case '=':
		if l.peek(1) == '>' {
			return DEFAULT_FLOW, 2
		}
		return EQUALS, 1
	case '.':
		if l.peek(1) == '.' && l.peek(2) == '>' {
			return ASSOCIATION, 3
		}
	case ':':
		if l.peek(1) == ':' {
			return NAMESPACE, 2
		}
	case '{':
		return LBRACE, 1
	case '}':
		return RBRACE, 1
	case '(':
		return LPAREN, 1
	case ')':
		return RPAREN, 1
	case '[':
		return LBRACKET, 1
	case ']':
		return RBRACKET, 1
	case ',':
		return COMMA, 1
	case '@':
		return AT, 1
	case '?':
		return QUESTION, 1
	case '"':
		if n := l.scanString(); n > 0 {
			return STRING, n
		}
	}

	if isDigit(c) {
		return NUMBER, l.scanNumber()
	}
	if isIdentStart(c) {
		return IDENTIFIER, l.scanIdentifier()
	}

	// Catch-all: one character, respecting rune boundaries.
	_, size := utf8.DecodeRuneInString(l.input[l.pos:])
	return UNKNOWN, size
}

// scanLineComment consumes "//" up to but not including the newline.
func (l *Lexer) scanLineComment() int {
	i := l.pos + 2
	for i < len(l.input) && l.input[i] != '\n' {
		i++
	}
	return i - l.pos
}

// scanString matches a double-quoted literal with backslash escapes,
// including the quotes. Returns 0 when the literal is unterminated, which
// makes the opening quote fall through to UNKNOWN.
func (l *Lexer) scanString() int {
	i := l.pos + 1
	for i < len(l.input) {
		switch l.input[i] {
		case '\\':
			i += 2
		case '"':
			return i + 1 - l.pos
		default:
			i++
		}
	}
	return 0
}

// scanNumber matches digits, an optional decimal part, and optional trailing
// unit letters ("30s", "100ms"). Unit validity is the parser's concern.
func (l *Lexer) scanNumber() int {
	i := l.pos
	for i < len(l.input) && isDigit(l.input[i]) {
		i++
	}
	if i+1 < len(l.input) && l.input[i] == '.' && isDigit(l.input[i+1]) {
		i++
		for i < len(l.input) && isDigit(l.input[i]) {
			i++
		}
	}
	for i < len(l.input) && isLetter(l.input[i]) {
		i++
	}
	return i - l.pos
}

func (l *Lexer) scanIdentifier() int {
	i := l.pos + 1
	for i < len(l.input) && isIdentPart(l.input[i]) {
		i++
	}
	return i - l.pos
}

// peek returns the byte at the given lookahead offset, or 0 past the end.
func (l *Lexer) peek(ahead int) byte {
	if l.pos+ahead < len(l.input) {
		return l.input[l.pos+ahead]
	}
	return 0
}

func (l *Lexer) span(start, end int) Span {
	line, column := positionOf(l.input, start)
	return Span{Start: start, End: end, Line: line, Column: column, File: l.file}
}

// positionOf computes the 1-based line and column of a byte offset by
// walking the preceding input. Quadratic over the file, which is an accepted
// tradeoff at typical diagram sizes.
func positionOf(input string, pos int) (line, column int) {
	line, column = 1, 1
	for i, r := range input {
		if i >= pos {
			break
		}
		if r == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return line, column
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentStart(c byte) bool { return isLetter(c) || c == '_' }

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
