package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bpmncode-lang/bpmncode/lexer"
)

const (
	// maxNestingDepth bounds container recursion so hostile input cannot
	// exhaust the stack. Blocks past the limit are skipped with an error.
	maxNestingDepth = 64

	// maxConditionTokens caps how much of a runaway condition is swallowed
	// before giving the rest back to the statement loop.
	maxConditionTokens = 50
)

// ParseTokens parses a token stream into a Document. It is total: whatever
// the input, a non-nil document comes back, with all grammar failures
// recorded in Document.Errors.
func ParseTokens(tokens []lexer.Token) *Document {
	p := &parser{tokens: tokens, rec: &recovery{}}
	return p.parseDocument()
}

// parser walks the token slice with a plain index cursor. Trial parses
// snapshot the cursor and restore it on failure; no other state needs
// rewinding.
type parser struct {
	tokens []lexer.Token
	pos    int
	depth  int
	rec    *recovery
}

func (p *parser) parseDocument() *Document {
	doc := NewDocument()

	p.skipTrivia()

	for p.check(lexer.IMPORT) {
		imp, err := p.parseImport()
		if err != nil {
			doc.AddError(err.Error(), p.currentSpan())
			p.pos = p.rec.findSyncPoint(p.tokens, p.pos)
		} else {
			doc.Imports = append(doc.Imports, imp)
		}
		p.skipTrivia()
	}

	for p.check(lexer.PROCESS) {
		proc, err := p.parseProcess()
		if err != nil {
			doc.AddError(err.Error(), p.currentSpan())
			p.pos = p.rec.findSyncPoint(p.tokens, p.pos)
		} else {
			doc.Processes = append(doc.Processes, proc)
		}
		p.skipTrivia()
	}

	doc.Errors = append(doc.Errors, p.rec.diags...)

	if !p.atEnd() && !p.check(lexer.EOF) {
		doc.AddError(fmt.Sprintf("Unexpected token '%s'", p.current().Text), p.currentSpan())
	}

	return doc
}

func (p *parser) parseImport() (ImportDecl, *ParserError) {
	startSpan := p.currentSpan()

	if _, err := p.consume(lexer.IMPORT); err != nil {
		return ImportDecl{}, err
	}

	// Form 1: import "path" as alias
	if p.check(lexer.STRING) {
		path, err := p.parseStringLiteral()
		if err != nil {
			return ImportDecl{}, err
		}

		alias := ""
		if p.check(lexer.AS) {
			p.advance()
			alias, err = p.parseIdentifier()
			if err != nil {
				return ImportDecl{}, err
			}
		}

		return ImportDecl{Path: path, Alias: alias, Span: startSpan}, nil
	}

	// Form 2: import a, b from "path"
	var items []string
	for !p.check(lexer.FROM) && !p.atEnd() {
		if p.check(lexer.IDENTIFIER) {
			item, err := p.parseIdentifier()
			if err != nil {
				return ImportDecl{}, err
			}
			items = append(items, item)
		} else {
			p.advance()
		}

		if p.check(lexer.COMMA) {
			p.advance()
		} else if !p.check(lexer.FROM) {
			break
		}
	}

	if _, err := p.consume(lexer.FROM); err != nil {
		return ImportDecl{}, err
	}
	path, err := p.parseStringLiteral()
	if err != nil {
		return ImportDecl{}, err
	}

	return ImportDecl{Path: path, Items: items, Span: startSpan}, nil
}

func (p *parser) parseProcess() (ProcessDecl, *ParserError) {
	startSpan := p.currentSpan()

	if _, err := p.consume(lexer.PROCESS); err != nil {
		return ProcessDecl{}, err
	}

	name, err := p.parseIdentifier()
	if err != nil {
		return ProcessDecl{}, err
	}

	attrs, attrErr := p.parseAttributes()
	if attrErr != nil {
		// Malformed process attributes are dropped; the brace consume below
		// reports the real position if the cursor got lost.
		attrs = map[string]AttributeValue{}
	}

	if _, err := p.consume(lexer.LBRACE); err != nil {
		return ProcessDecl{}, err
	}

	b := newProcessBuilder(name, startSpan).withAttributes(attrs)

	elements, flows, _ := p.parseBody(false)
	for _, el := range elements {
		b = b.addElement(el)
	}
	for _, fl := range flows {
		b = b.addFlow(fl)
	}

	if p.check(lexer.RBRACE) {
		p.advance()
	} else {
		p.rec.addError("Missing closing brace for process", p.currentSpan())
	}

	return b.build(), nil
}

// parseBody consumes element and flow statements until the closing brace.
// Each statement is tried as an element, rewound and tried as a flow, then
// handed to the recovery engine; if nothing helps, one token is skipped
// with a warning so the loop always makes progress.
func (p *parser) parseBody(allowLanes bool) ([]Element, []Flow, []Lane) {
	var elements []Element
	var flows []Flow
	var lanes []Lane

	p.skipTrivia()

	for !p.check(lexer.RBRACE) && !p.atEnd() {
		if allowLanes && p.check(lexer.LANE) {
			mark := p.pos
			lane, err := p.parseLane()
			if err == nil {
				lanes = append(lanes, lane)
				p.skipTrivia()
				continue
			}
			p.pos = mark
		}

		mark := p.pos

		if el, err := p.parseElement(); err == nil {
			elements = append(elements, el)
		} else {
			p.pos = mark
			if fl, err := p.parseFlow(); err == nil {
				flows = append(flows, fl)
			} else {
				p.pos = mark
				if el, next, ok := p.rec.recoverElement(p.tokens, p.pos); ok {
					elements = append(elements, el)
					p.pos = next
				} else if fl, next, ok := p.rec.recoverFlow(p.tokens, p.pos); ok {
					flows = append(flows, fl)
					p.pos = next
				} else {
					p.rec.addWarning(
						fmt.Sprintf("Skipping unexpected token '%s'", p.current().Text),
						p.currentSpan())
					p.advance()
				}
			}
		}

		p.skipTrivia()
	}

	return elements, flows, lanes
}

// parseElementList is the restricted body used by group and lane blocks:
// elements only, silently skipping anything else.
func (p *parser) parseElementList() []Element {
	var elements []Element

	p.skipTrivia()
	for !p.check(lexer.RBRACE) && !p.atEnd() {
		mark := p.pos
		if el, err := p.parseElement(); err == nil {
			elements = append(elements, el)
		} else {
			p.pos = mark
			p.advance()
		}
		p.skipTrivia()
	}

	return elements
}

func (p *parser) parseElement() (Element, *ParserError) {
	span := p.currentSpan()

	switch p.current().Kind {
	case lexer.START:
		p.advance()
		event, err := p.parseEventType()
		if err != nil {
			return nil, err
		}
		attrs, err := p.parseAttributes()
		if err != nil {
			return nil, err
		}
		return &StartEvent{Event: event, Attributes: attrs, Span: span}, nil

	case lexer.END:
		p.advance()
		event, err := p.parseEventType()
		if err != nil {
			return nil, err
		}
		attrs, err := p.parseAttributes()
		if err != nil {
			return nil, err
		}
		return &EndEvent{Event: event, Attributes: attrs, Span: span}, nil

	case lexer.TASK, lexer.USER, lexer.SERVICE, lexer.SCRIPT:
		kind := taskKindFor(p.current().Kind)
		p.advance()
		id, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		attrs, err := p.parseAttributes()
		if err != nil {
			return nil, err
		}
		return &Task{ID: id, Kind: kind, Attributes: attrs, Span: span}, nil

	case lexer.CALL:
		p.advance()
		id, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		called := id
		if p.check(lexer.NAMESPACE) {
			p.advance()
			nested, err := p.parseIdentifier()
			if err != nil {
				return nil, err
			}
			called = id + "::" + nested
		}
		attrs, err := p.parseAttributes()
		if err != nil {
			return nil, err
		}
		return &CallActivity{ID: id, CalledElement: called, Attributes: attrs, Span: span}, nil

	case lexer.XOR, lexer.AND:
		kind := GatewayExclusive
		if p.current().Kind == lexer.AND {
			kind = GatewayParallel
		}
		p.advance()

		id := ""
		if p.check(lexer.IDENTIFIER) {
			id, _ = p.parseIdentifier()
		}
		if kind == GatewayExclusive && p.check(lexer.QUESTION) {
			p.advance()
		}

		if _, err := p.consume(lexer.LBRACE); err != nil {
			return nil, err
		}
		branches, err := p.parseGatewayBranches()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(lexer.RBRACE); err != nil {
			return nil, err
		}
		return &Gateway{ID: id, Kind: kind, Branches: branches, Span: span}, nil

	case lexer.EVENT:
		p.advance()
		event, err := p.parseEventType()
		if err != nil {
			return nil, err
		}
		if event == nil {
			return nil, unexpected(p.current().Text, "event type (timer, message, etc.)", p.currentSpan())
		}

		payload := ""
		switch p.current().Kind {
		case lexer.STRING, lexer.NUMBER, lexer.IDENTIFIER:
			payload = p.current().Text
			p.advance()
		}

		attrs, err := p.parseAttributes()
		if err != nil {
			return nil, err
		}
		return &IntermediateEvent{Event: *event, Payload: payload, Attributes: attrs, Span: span}, nil

	case lexer.SUBPROCESS:
		p.advance()
		id, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		attrs, err := p.parseAttributes()
		if err != nil {
			return nil, err
		}

		if skipped := p.skipIfTooDeep(span); skipped {
			return &Subprocess{ID: id, Attributes: attrs, Span: span}, nil
		}
		if _, err := p.consume(lexer.LBRACE); err != nil {
			return nil, err
		}
		p.depth++
		elements, flows, _ := p.parseBody(false)
		p.depth--
		if _, err := p.consume(lexer.RBRACE); err != nil {
			return nil, err
		}
		return &Subprocess{ID: id, Elements: elements, Flows: flows, Attributes: attrs, Span: span}, nil

	case lexer.POOL:
		p.advance()
		name, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}

		if skipped := p.skipIfTooDeep(span); skipped {
			return &Pool{Name: name, Span: span}, nil
		}
		if _, err := p.consume(lexer.LBRACE); err != nil {
			return nil, err
		}
		p.depth++
		elements, flows, lanes := p.parseBody(true)
		p.depth--
		if _, err := p.consume(lexer.RBRACE); err != nil {
			return nil, err
		}
		return &Pool{Name: name, Lanes: lanes, Elements: elements, Flows: flows, Span: span}, nil

	case lexer.GROUP:
		p.advance()
		label, err := p.parseStringLiteral()
		if err != nil {
			return nil, err
		}

		if skipped := p.skipIfTooDeep(span); skipped {
			return &Group{Label: label, Span: span}, nil
		}
		if _, err := p.consume(lexer.LBRACE); err != nil {
			return nil, err
		}
		p.depth++
		elements := p.parseElementList()
		p.depth--
		if _, err := p.consume(lexer.RBRACE); err != nil {
			return nil, err
		}
		return &Group{Label: label, Elements: elements, Span: span}, nil

	case lexer.NOTE:
		p.advance()
		text, err := p.parseStringLiteral()
		if err != nil {
			return nil, err
		}
		return &Annotation{Text: text, Span: span}, nil

	default:
		return nil, unexpected(p.current().Text, "process element", p.currentSpan())
	}
}

func (p *parser) parseLane() (Lane, *ParserError) {
	span := p.currentSpan()

	if _, err := p.consume(lexer.LANE); err != nil {
		return Lane{}, err
	}
	name, err := p.parseIdentifier()
	if err != nil {
		return Lane{}, err
	}

	if skipped := p.skipIfTooDeep(span); skipped {
		return Lane{Name: name, Span: span}, nil
	}
	if _, err := p.consume(lexer.LBRACE); err != nil {
		return Lane{}, err
	}
	p.depth++
	elements := p.parseElementList()
	p.depth--
	if _, err := p.consume(lexer.RBRACE); err != nil {
		return Lane{}, err
	}

	return Lane{Name: name, Elements: elements, Span: span}, nil
}

// skipIfTooDeep enforces the nesting limit. When the next block would
// exceed it, the whole balanced block is consumed, an error is recorded,
// and the caller returns an empty container instead of recursing.
func (p *parser) skipIfTooDeep(span lexer.Span) bool {
	if p.depth < maxNestingDepth {
		return false
	}

	p.rec.addError(
		fmt.Sprintf("Maximum nesting depth (%d) exceeded, skipping block", maxNestingDepth),
		span)
	p.skipBalancedBlock()
	return true
}

// skipBalancedBlock consumes a `{ ... }` block tracking brace depth. Stops
// at EOF if the block never closes.
func (p *parser) skipBalancedBlock() {
	p.skipTrivia()
	if !p.check(lexer.LBRACE) {
		return
	}
	p.advance()

	depth := 1
	for depth > 0 && !p.atEnd() {
		switch p.current().Kind {
		case lexer.LBRACE:
			depth++
		case lexer.RBRACE:
			depth--
		}
		p.advance()
	}
}

func (p *parser) parseFlow() (Flow, *ParserError) {
	span := p.currentSpan()

	from, err := p.parseIdentifier()
	if err != nil {
		return Flow{}, err
	}

	var kind FlowKind
	switch p.current().Kind {
	case lexer.SEQUENCE_FLOW:
		kind = FlowSequence
	case lexer.MESSAGE_FLOW:
		kind = FlowMessage
	case lexer.DEFAULT_FLOW:
		kind = FlowDefault
	case lexer.ASSOCIATION:
		kind = FlowAssociation
	default:
		return Flow{}, unexpected(p.current().Text, "flow arrow (-> --> => ..>)", p.currentSpan())
	}
	p.advance()

	to := ""
	if p.check(lexer.END) {
		p.advance()
		to = "end"
	} else {
		to, err = p.parseIdentifier()
		if err != nil {
			return Flow{}, err
		}
	}

	condition := ""
	if p.check(lexer.LBRACKET) {
		p.advance()
		condition, err = p.parseConditionExpression()
		if err != nil {
			return Flow{}, err
		}
		if _, err := p.consume(lexer.RBRACKET); err != nil {
			return Flow{}, err
		}
	}

	return Flow{From: from, To: to, Kind: kind, Condition: condition, Span: span}, nil
}

func (p *parser) parseGatewayBranches() ([]GatewayBranch, *ParserError) {
	var branches []GatewayBranch

	p.skipTrivia()

	for !p.check(lexer.RBRACE) && !p.atEnd() {
		span := p.currentSpan()

		condition := ""
		isDefault := false

		switch {
		case p.check(lexer.LBRACKET):
			p.advance()
			cond, err := p.parseConditionExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(lexer.RBRACKET); err != nil {
				return nil, err
			}
			condition = cond
		case p.check(lexer.DEFAULT_FLOW):
			// "=>" doubles as the default marker and the branch arrow.
			isDefault = true
		default:
			cond, err := p.parseIdentifier()
			if err != nil {
				return nil, err
			}
			condition = cond
		}

		if !p.check(lexer.SEQUENCE_FLOW) && !p.check(lexer.DEFAULT_FLOW) {
			return nil, unexpected(p.current().Text, "-> or =>", p.currentSpan())
		}
		p.advance()

		target, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}

		branches = append(branches, GatewayBranch{
			Condition: condition,
			Target:    target,
			IsDefault: isDefault,
			Span:      span,
		})

		p.skipTrivia()
	}

	return branches, nil
}

func (p *parser) parseEventType() (*EventType, *ParserError) {
	if !p.check(lexer.AT) {
		return nil, nil
	}
	p.advance()

	if !p.check(lexer.IDENTIFIER) {
		return nil, unexpected(p.current().Text, "event type identifier", p.currentSpan())
	}

	name := p.current().Text
	nameSpan := p.currentSpan()
	p.advance()

	switch name {
	case "message":
		payload := ""
		if p.check(lexer.STRING) {
			var err *ParserError
			payload, err = p.parseStringLiteral()
			if err != nil {
				return nil, err
			}
		}
		return &EventType{Kind: EventMessage, Payload: payload}, nil

	case "timer":
		duration := ""
		if p.check(lexer.NUMBER) || p.check(lexer.IDENTIFIER) {
			duration = p.current().Text
			p.advance()
		}
		return &EventType{Kind: EventTimer, Payload: duration}, nil

	case "error":
		code := ""
		if p.check(lexer.STRING) {
			var err *ParserError
			code, err = p.parseStringLiteral()
			if err != nil {
				return nil, err
			}
		}
		return &EventType{Kind: EventError, Payload: code}, nil

	case "signal":
		signal := ""
		if p.check(lexer.STRING) {
			var err *ParserError
			signal, err = p.parseStringLiteral()
			if err != nil {
				return nil, err
			}
		}
		return &EventType{Kind: EventSignal, Payload: signal}, nil

	case "terminate":
		return &EventType{Kind: EventTerminate}, nil

	default:
		return nil, unexpected(name, "event type (message, timer, error, signal, terminate)", nameSpan)
	}
}

// parseAttributes accepts both surface forms, in either order: a run of
// `@key value` prefixes and one parenthesized `(key=value, ...)` group.
// Repeating a key overwrites the earlier value.
func (p *parser) parseAttributes() (map[string]AttributeValue, *ParserError) {
	attrs := make(map[string]AttributeValue)

	for p.check(lexer.AT) {
		p.advance()
		key, err := p.parseIdentifier()
		if err != nil {
			return attrs, err
		}

		switch p.current().Kind {
		case lexer.STRING, lexer.NUMBER, lexer.IDENTIFIER:
			value, err := p.parseAttributeValue()
			if err != nil {
				return attrs, err
			}
			attrs[key] = value
		default:
			// Bare @flag means true.
			attrs[key] = BoolValue{Value: true}
		}
	}

	if p.check(lexer.LPAREN) {
		p.advance()
		p.skipTrivia()

		for !p.check(lexer.RPAREN) && !p.atEnd() {
			key, err := p.parseIdentifier()
			if err != nil {
				return attrs, err
			}

			if !p.check(lexer.EQUALS) {
				return attrs, unexpected(p.current().Text, "=", p.currentSpan())
			}
			p.advance()

			value, err := p.parseAttributeValue()
			if err != nil {
				return attrs, err
			}
			attrs[key] = value

			p.skipTrivia()
			// Comma between pairs is optional; whitespace alone separates.
			if p.check(lexer.COMMA) {
				p.advance()
				p.skipTrivia()
			}
		}

		if !p.check(lexer.RPAREN) {
			return attrs, unexpected(p.current().Text, ")", p.currentSpan())
		}
		p.advance()
	}

	return attrs, nil
}

func (p *parser) parseAttributeValue() (AttributeValue, *ParserError) {
	switch p.current().Kind {
	case lexer.STRING:
		value, err := p.parseStringLiteral()
		if err != nil {
			return nil, err
		}
		return StringValue{Value: value}, nil

	case lexer.NUMBER:
		text := p.current().Text
		span := p.currentSpan()
		p.advance()

		if strings.HasSuffix(text, "m") || strings.HasSuffix(text, "s") || strings.HasSuffix(text, "h") {
			return DurationValue{Raw: text}, nil
		}
		if num, err := strconv.ParseFloat(text, 64); err == nil {
			return NumberValue{Value: num}, nil
		}
		return nil, &ParserError{Kind: ErrInvalidAttributeValue, Value: text, Span: span}

	case lexer.IDENTIFIER:
		text := p.current().Text
		p.advance()

		switch text {
		case "true":
			return BoolValue{Value: true}, nil
		case "false":
			return BoolValue{Value: false}, nil
		default:
			return StringValue{Value: text}, nil
		}

	default:
		return nil, unexpected(p.current().Text, "attribute value (string, number, boolean)", p.currentSpan())
	}
}

// parseConditionExpression reconstructs the bracketed condition as opaque
// text. Tokens are joined with single spaces, except that comparison and
// logical fragments glue together so "=" "=" reads back as "==".
func (p *parser) parseConditionExpression() (string, *ParserError) {
	var b strings.Builder
	count := 0

	for !p.check(lexer.RBRACKET) && !p.atEnd() && count < maxConditionTokens {
		text := p.current().Text
		if b.Len() > 0 && !isConditionGlue(text) {
			b.WriteByte(' ')
		}
		b.WriteString(text)
		p.advance()
		count++
	}

	if b.Len() == 0 {
		return "", unexpected("]", "condition expression", p.currentSpan())
	}
	return b.String(), nil
}

func isConditionGlue(text string) bool {
	switch text {
	case "=", "!", "<", ">", "&", "|":
		return true
	}
	return false
}

func (p *parser) parseIdentifier() (string, *ParserError) {
	if !p.check(lexer.IDENTIFIER) {
		return "", unexpected(p.current().Text, "identifier", p.currentSpan())
	}
	id := p.current().Text
	p.advance()
	return id, nil
}

func (p *parser) parseStringLiteral() (string, *ParserError) {
	if !p.check(lexer.STRING) {
		return "", unexpected(p.current().Text, "string literal", p.currentSpan())
	}

	literal := p.current().Text
	p.advance()

	return unquote(literal), nil
}

// unquote strips the surrounding quotes and resolves the escape sequences
// the lexer admits: \" \\ \n \t.
func unquote(literal string) string {
	if len(literal) < 2 || literal[0] != '"' || literal[len(literal)-1] != '"' {
		return literal
	}

	inner := literal[1 : len(literal)-1]
	replacer := strings.NewReplacer(`\"`, `"`, `\\`, `\`, `\n`, "\n", `\t`, "\t")
	return replacer.Replace(inner)
}

func (p *parser) current() lexer.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return lexer.Token{Kind: lexer.EOF}
}

func (p *parser) currentSpan() lexer.Span {
	return p.current().Span
}

func (p *parser) check(kind lexer.TokenKind) bool {
	return p.current().Kind == kind
}

func (p *parser) advance() lexer.Token {
	if !p.atEnd() {
		p.pos++
	}
	return p.current()
}

func (p *parser) atEnd() bool {
	return p.pos >= len(p.tokens) || p.current().Kind == lexer.EOF
}

func (p *parser) consume(kind lexer.TokenKind) (lexer.Token, *ParserError) {
	if p.check(kind) {
		tok := p.current()
		p.advance()
		return tok, nil
	}
	return lexer.Token{}, unexpected(p.current().Text, kind.String(), p.currentSpan())
}

func (p *parser) skipTrivia() {
	for p.current().IsTrivia() && !p.atEnd() {
		p.advance()
	}
}

func taskKindFor(kind lexer.TokenKind) TaskKind {
	switch kind {
	case lexer.USER:
		return TaskUser
	case lexer.SERVICE:
		return TaskService
	case lexer.SCRIPT:
		return TaskScript
	default:
		return TaskGeneric
	}
}
