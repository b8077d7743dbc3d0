package diagnostics

import (
	"fmt"

	"github.com/bpmncode-lang/bpmncode/lexer"
)

// ValidateContext runs the heuristic pre-parse checks over a raw token
// stream: keyword typos at statement starts, stray unknown characters,
// malformed flow operators, and unbalanced gateway braces. It is purely
// advisory; parsing proceeds regardless of what it finds.
func ValidateContext(tokens []lexer.Token) []Diagnostic {
	v := &contextValidator{tokens: tokens}

	for i, tok := range tokens {
		switch tok.Kind {
		case lexer.IDENTIFIER:
			v.checkIdentifierTypo(i)
		case lexer.UNKNOWN:
			v.checkUnknownToken(tok)
		}
	}

	v.checkFlowSyntax()
	v.checkMissingBraces()

	return v.diags
}

type contextValidator struct {
	tokens []lexer.Token
	diags  []Diagnostic
}

// checkIdentifierTypo flags identifiers that sit where a keyword belongs
// and closely resemble one. Identifiers in contextual positions (call
// arguments, flow endpoints) are legitimate names and never flagged.
func (v *contextValidator) checkIdentifierTypo(index int) {
	tok := v.tokens[index]
	name := tok.Text

	if v.isContextualIdentifier(index) {
		return
	}
	if !v.isStatementStart(index) {
		return
	}

	if keyword, ok := DetectKeywordTypo(name); ok {
		v.diags = append(v.diags, Diagnostic{
			Code:        CodeUnexpectedToken,
			Message:     fmt.Sprintf("Unexpected token '%s', expected keyword (did you mean '%s'?)", name, keyword),
			Span:        tok.Span,
			Severity:    SeverityError,
			Suggestions: []string{keyword},
		})
	} else if IsLikelyKeywordTypo(name) {
		v.diags = append(v.diags, Diagnostic{
			Code:        CodeUnexpectedToken,
			Message:     fmt.Sprintf("Unexpected token '%s', expected BPMN keyword", name),
			Span:        tok.Span,
			Severity:    SeverityError,
			Suggestions: SuggestKeywords(name),
		})
	}
}

// checkUnknownToken flags stray characters, except the ones that appear as
// fragments of partially typed operators ("<", ">", "=", "!", "&", "|") so
// mid-edit input does not drown in false positives.
func (v *contextValidator) checkUnknownToken(tok lexer.Token) {
	switch tok.Text {
	case "<", ">", "=", "!", "&", "|":
		return
	}

	v.diags = append(v.diags, Diagnostic{
		Code:     CodeSyntax,
		Message:  fmt.Sprintf("Unknown token '%s'", tok.Text),
		Span:     tok.Span,
		Severity: SeverityError,
	})
}

// checkFlowSyntax flags a lone "-" between two identifiers as a broken
// sequence-flow arrow.
func (v *contextValidator) checkFlowSyntax() {
	for i, tok := range v.tokens {
		if tok.Text != "-" {
			continue
		}
		if i+1 < len(v.tokens) && v.tokens[i+1].Text == ">" {
			continue
		}
		if !v.looksLikeFlowContext(i) {
			continue
		}

		v.diags = append(v.diags, Diagnostic{
			Code:        CodeSyntax,
			Message:     "Invalid flow operator: use '->' for sequence flow",
			Span:        tok.Span,
			Severity:    SeverityError,
			Suggestions: []string{"->"},
		})
	}
}

func (v *contextValidator) checkMissingBraces() {
	for i, tok := range v.tokens {
		if tok.Kind == lexer.XOR || tok.Kind == lexer.AND {
			v.checkGatewayBraces(i)
		}
	}
}

// checkGatewayBraces verifies that a gateway keyword is followed by a
// braced branch block. A missing close brace is reported when the scan
// exhausts the stream; a missing open brace only when branch-like content
// ("[", "=>") appears ahead, so bare gateway mentions stay quiet.
func (v *contextValidator) checkGatewayBraces(gatewayIndex int) {
	tok := v.tokens[gatewayIndex]
	gatewayType := "XOR"
	if tok.Kind == lexer.AND {
		gatewayType = "AND"
	}

	j := gatewayIndex + 1
	nameEnd := tok.Span.End

	if j < len(v.tokens) && v.tokens[j].Kind == lexer.IDENTIFIER {
		nameEnd = v.tokens[j].Span.End
		j++
	}
	if j < len(v.tokens) && v.tokens[j].Kind == lexer.QUESTION {
		nameEnd = v.tokens[j].Span.End
		j++
	}

	gatewaySpan := lexer.Span{
		Start:  tok.Span.Start,
		End:    nameEnd,
		Line:   tok.Span.Line,
		Column: tok.Span.Column,
		File:   tok.Span.File,
	}

	openIdx, found := v.nextSignificantToken(j)
	if found && v.tokens[openIdx].Kind == lexer.LBRACE {
		if _, closed := v.gatewayClosingBrace(openIdx); !closed {
			v.diags = append(v.diags, Diagnostic{
				Code:        CodeSyntax,
				Message:     fmt.Sprintf("%s gateway missing closing brace '}'", gatewayType),
				Span:        gatewaySpan,
				Severity:    SeverityError,
				Suggestions: []string{"}"},
			})
		}
	} else if v.hasGatewayConditionsAhead(j) {
		v.diags = append(v.diags, Diagnostic{
			Code:        CodeSyntax,
			Message:     fmt.Sprintf("%s gateway missing opening brace '{' before conditions", gatewayType),
			Span:        gatewaySpan,
			Severity:    SeverityError,
			Suggestions: []string{"{"},
		})
	}
}

func (v *contextValidator) nextSignificantToken(start int) (int, bool) {
	for i := start; i < len(v.tokens); i++ {
		if v.tokens[i].IsTrivia() {
			continue
		}
		return i, true
	}
	return 0, false
}

// hasGatewayConditionsAhead scans a small window past the gateway head for
// evidence that branch conditions are being written without a block.
func (v *contextValidator) hasGatewayConditionsAhead(start int) bool {
	limit := min(len(v.tokens), start+10)
	for i := start; i < limit; i++ {
		switch v.tokens[i].Kind {
		case lexer.LBRACKET, lexer.DEFAULT_FLOW:
			return true
		case lexer.RBRACE:
			return false
		}
	}
	return false
}

// gatewayClosingBrace looks for the brace closing the block opened at
// openIdx. The close only counts once branch-like content appeared at depth
// 1; a content-free block is neither confirmed nor flagged, and hitting an
// element keyword at depth 1 abandons the scan (the block is not a gateway
// body after all).
func (v *contextValidator) gatewayClosingBrace(openIdx int) (int, bool) {
	if v.tokens[openIdx].Kind != lexer.LBRACE {
		return 0, false
	}

	depth := 1
	foundContent := false

	for i := openIdx + 1; i < len(v.tokens); i++ {
		switch v.tokens[i].Kind {
		case lexer.LBRACE:
			depth++
		case lexer.RBRACE:
			depth--
			if depth == 0 {
				return i, foundContent
			}
		case lexer.LBRACKET, lexer.DEFAULT_FLOW, lexer.SEQUENCE_FLOW:
			if depth == 1 {
				foundContent = true
			}
		case lexer.XOR, lexer.AND, lexer.TASK, lexer.USER, lexer.SERVICE, lexer.SCRIPT, lexer.END:
			if depth == 1 {
				return 0, false
			}
		}
	}
	return 0, false
}

// isContextualIdentifier reports whether the identifier at index is used as
// a name rather than a (possibly misspelled) keyword: a call-like use
// followed by '(', a flow endpoint, or the head of a broken arrow.
func (v *contextValidator) isContextualIdentifier(index int) bool {
	if index+1 < len(v.tokens) {
		next := v.tokens[index+1]
		if next.Kind == lexer.LPAREN {
			return true
		}
		if isFlowOperator(next.Kind) {
			return true
		}
		if next.Text == "-" {
			return true
		}
	}
	if index > 0 && isFlowOperator(v.tokens[index-1].Kind) {
		return true
	}
	return false
}

// isStatementStart walks backward over value-like tokens; reaching a brace
// or newline first means the identifier opens a statement.
func (v *contextValidator) isStatementStart(index int) bool {
	if index == 0 {
		return true
	}

	for i := index - 1; i >= 0; i-- {
		switch v.tokens[i].Kind {
		case lexer.LBRACE, lexer.RBRACE, lexer.NEWLINE:
			return true
		case lexer.IDENTIFIER, lexer.STRING, lexer.NUMBER:
			continue
		default:
			return false
		}
	}
	return false
}

func (v *contextValidator) looksLikeFlowContext(index int) bool {
	if index == 0 || index+1 >= len(v.tokens) {
		return false
	}
	return v.tokens[index-1].Kind == lexer.IDENTIFIER &&
		v.tokens[index+1].Kind == lexer.IDENTIFIER
}

func isFlowOperator(kind lexer.TokenKind) bool {
	switch kind {
	case lexer.SEQUENCE_FLOW, lexer.MESSAGE_FLOW, lexer.DEFAULT_FLOW, lexer.ASSOCIATION:
		return true
	}
	return false
}
