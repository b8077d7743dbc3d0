package parser

import (
	"fmt"

	"github.com/bpmncode-lang/bpmncode/diagnostics"
	"github.com/bpmncode-lang/bpmncode/lexer"
)

// recovery rebuilds partial nodes from statements the strict grammar
// rejected, recording what was missing. It never touches the parser's
// cursor directly: each recover method reads the token slice and returns
// the position the parser should resume from.
type recovery struct {
	diags []ParseError
}

func (r *recovery) addError(message string, span lexer.Span) {
	r.diags = append(r.diags, ParseError{
		Message:  message,
		Span:     span,
		Severity: diagnostics.SeverityError,
	})
}

func (r *recovery) addWarning(message string, span lexer.Span) {
	r.diags = append(r.diags, ParseError{
		Message:  message,
		Span:     span,
		Severity: diagnostics.SeverityWarning,
	})
}

// recoverElement tries to salvage an element from the statement at pos.
// Missing identifiers get positional placeholders, malformed attributes
// are skipped, gateways without a body yield an empty branch list. Returns
// ok=false when the statement is not element-shaped at all.
func (r *recovery) recoverElement(tokens []lexer.Token, pos int) (Element, int, bool) {
	c := &cursor{tokens: tokens, pos: pos}
	tok := c.current()
	span := tok.Span

	switch tok.Kind {
	case lexer.START:
		c.advance()
		return &StartEvent{Attributes: map[string]AttributeValue{}, Span: span}, c.pos, true

	case lexer.END:
		c.advance()
		return &EndEvent{Attributes: map[string]AttributeValue{}, Span: span}, c.pos, true

	case lexer.TASK, lexer.USER, lexer.SERVICE, lexer.SCRIPT:
		kind := taskKindFor(tok.Kind)
		c.advance()

		id := ""
		if c.check(lexer.IDENTIFIER) {
			id = c.current().Text
			c.advance()
		} else {
			r.addWarning("Missing task identifier, using default", span)
			id = fmt.Sprintf("Task_%d", pos)
		}

		r.skipMalformedAttributes(c)
		return &Task{ID: id, Kind: kind, Attributes: map[string]AttributeValue{}, Span: span}, c.pos, true

	case lexer.XOR, lexer.AND:
		kind := GatewayExclusive
		if tok.Kind == lexer.AND {
			kind = GatewayParallel
		}
		c.advance()

		id := ""
		if c.check(lexer.IDENTIFIER) {
			id = c.current().Text
			c.advance()
		}
		if c.check(lexer.QUESTION) {
			c.advance()
		}

		if !c.check(lexer.LBRACE) {
			r.addError("Gateway missing branches block", span)
			return &Gateway{ID: id, Kind: kind, Span: span}, c.pos, true
		}
		c.advance()

		branches := r.recoverGatewayBranches(c)

		if c.check(lexer.RBRACE) {
			c.advance()
		}
		return &Gateway{ID: id, Kind: kind, Branches: branches, Span: span}, c.pos, true

	default:
		r.addError(fmt.Sprintf("Cannot recover from token '%s'", tok.Text), span)
		return nil, pos, false
	}
}

// recoverFlow salvages a `from ARROW to` statement. The source and arrow
// must be present; a missing target gets a positional placeholder.
func (r *recovery) recoverFlow(tokens []lexer.Token, pos int) (Flow, int, bool) {
	c := &cursor{tokens: tokens, pos: pos}
	span := c.current().Span

	if !c.check(lexer.IDENTIFIER) {
		return Flow{}, pos, false
	}
	from := c.current().Text
	c.advance()

	var kind FlowKind
	switch c.current().Kind {
	case lexer.SEQUENCE_FLOW:
		kind = FlowSequence
	case lexer.MESSAGE_FLOW:
		kind = FlowMessage
	case lexer.DEFAULT_FLOW:
		kind = FlowDefault
	case lexer.ASSOCIATION:
		kind = FlowAssociation
	default:
		return Flow{}, pos, false
	}
	c.advance()

	to := ""
	switch c.current().Kind {
	case lexer.IDENTIFIER:
		to = c.current().Text
		c.advance()
	case lexer.END:
		to = "end"
		c.advance()
	default:
		r.addError("Missing target in flow", span)
		to = fmt.Sprintf("UnknownTarget_%d", c.pos)
	}

	condition := ""
	if c.check(lexer.LBRACKET) {
		c.advance()
		for !c.check(lexer.RBRACKET) && !c.atEnd() {
			if condition != "" {
				condition += " "
			}
			condition += c.current().Text
			c.advance()
		}
		if c.check(lexer.RBRACKET) {
			c.advance()
		}
	}

	return Flow{From: from, To: to, Kind: kind, Condition: condition, Span: span}, c.pos, true
}

// recoverGatewayBranches reads branch lines until the closing brace,
// tolerating a missing arrow or target per line.
func (r *recovery) recoverGatewayBranches(c *cursor) []GatewayBranch {
	var branches []GatewayBranch

	c.skipTrivia()

	for !c.check(lexer.RBRACE) && !c.atEnd() {
		span := c.current().Span

		condition := ""
		isDefault := false

		switch c.current().Kind {
		case lexer.LBRACKET:
			c.advance()
			for !c.check(lexer.RBRACKET) && !c.atEnd() {
				if condition != "" {
					condition += " "
				}
				condition += c.current().Text
				c.advance()
			}
			if c.check(lexer.RBRACKET) {
				c.advance()
			}
		case lexer.DEFAULT_FLOW:
			isDefault = true
		case lexer.IDENTIFIER:
			condition = c.current().Text
			c.advance()
		default:
			c.advance()
			c.skipTrivia()
			continue
		}

		if !c.check(lexer.SEQUENCE_FLOW) && !c.check(lexer.DEFAULT_FLOW) {
			r.addError("Missing arrow in gateway branch", span)
			c.skipTrivia()
			continue
		}
		c.advance()

		target := ""
		if c.check(lexer.IDENTIFIER) {
			target = c.current().Text
			c.advance()
		} else {
			r.addError("Missing target in gateway branch", span)
			target = fmt.Sprintf("UnknownTarget_%d", c.pos)
		}

		branches = append(branches, GatewayBranch{
			Condition: condition,
			Target:    target,
			IsDefault: isDefault,
			Span:      span,
		})

		c.skipTrivia()
	}

	return branches
}

// skipMalformedAttributes consumes whatever attribute-shaped debris follows
// an element head: each @ swallows everything up to the next attribute,
// statement keyword or closing brace, plus at most one balanced
// parenthesized group.
func (r *recovery) skipMalformedAttributes(c *cursor) {
	for c.check(lexer.AT) {
		c.advance()
		for !c.atEnd() && !isAttributeStop(c.current().Kind) {
			c.advance()
		}
	}

	if c.check(lexer.LPAREN) {
		depth := 0
		for !c.atEnd() {
			switch c.current().Kind {
			case lexer.LPAREN:
				depth++
			case lexer.RPAREN:
				depth--
			}
			c.advance()
			if depth == 0 {
				return
			}
		}
	}
}

func isAttributeStop(kind lexer.TokenKind) bool {
	switch kind {
	case lexer.AT, lexer.LPAREN, lexer.RBRACE,
		lexer.START, lexer.END,
		lexer.TASK, lexer.USER, lexer.SERVICE, lexer.SCRIPT,
		lexer.XOR, lexer.AND:
		return true
	}
	return false
}

// findSyncPoint scans forward for a token parsing can safely resume from:
// just past a closing brace, or at the next statement keyword.
func (r *recovery) findSyncPoint(tokens []lexer.Token, pos int) int {
	for i := pos; i < len(tokens); i++ {
		switch tokens[i].Kind {
		case lexer.RBRACE:
			return i + 1
		case lexer.PROCESS, lexer.IMPORT,
			lexer.START, lexer.END,
			lexer.TASK, lexer.USER, lexer.SERVICE, lexer.SCRIPT,
			lexer.XOR, lexer.AND, lexer.EVENT,
			lexer.SUBPROCESS, lexer.POOL, lexer.LANE, lexer.GROUP, lexer.CALL:
			return i
		}
	}
	return len(tokens)
}

// cursor is a read-only view used by recovery so trial salvage never moves
// the parser's own position.
type cursor struct {
	tokens []lexer.Token
	pos    int
}

func (c *cursor) current() lexer.Token {
	if c.pos < len(c.tokens) {
		return c.tokens[c.pos]
	}
	return lexer.Token{Kind: lexer.EOF}
}

func (c *cursor) check(kind lexer.TokenKind) bool {
	return c.current().Kind == kind
}

func (c *cursor) advance() {
	if !c.atEnd() {
		c.pos++
	}
}

func (c *cursor) atEnd() bool {
	return c.pos >= len(c.tokens) || c.current().Kind == lexer.EOF
}

func (c *cursor) skipTrivia() {
	for c.current().IsTrivia() && !c.atEnd() {
		c.advance()
	}
}
