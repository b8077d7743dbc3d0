// Package parser turns a token stream into a best-effort syntax tree. It
// never aborts on malformed input: grammar failures are recorded in the
// document's error list and parsing resumes at the next safe point.
package parser

import (
	"fmt"
	"strconv"

	"github.com/bpmncode-lang/bpmncode/diagnostics"
	"github.com/bpmncode-lang/bpmncode/lexer"
)

// Document is the root of the syntax tree. Exactly one is produced per
// parse, even for empty or unparseable input; Errors collects everything
// that went wrong along the way.
type Document struct {
	Imports   []ImportDecl
	Processes []ProcessDecl
	Errors    []ParseError
}

func NewDocument() *Document {
	return &Document{}
}

// HasErrors reports whether any Error-severity entry was recorded.
func (d *Document) HasErrors() bool {
	for _, e := range d.Errors {
		if e.Severity == diagnostics.SeverityError {
			return true
		}
	}
	return false
}

func (d *Document) AddError(message string, span lexer.Span) {
	d.Errors = append(d.Errors, ParseError{
		Message:  message,
		Span:     span,
		Severity: diagnostics.SeverityError,
	})
}

func (d *Document) AddWarning(message string, span lexer.Span) {
	d.Errors = append(d.Errors, ParseError{
		Message:  message,
		Span:     span,
		Severity: diagnostics.SeverityWarning,
	})
}

// ParseError is a recorded diagnostic attached to the document. Grammar
// errors, recovery products and semantic findings all share this shape;
// only message content and severity tell them apart.
type ParseError struct {
	Message  string
	Span     lexer.Span
	Severity diagnostics.Severity
}

// ImportDecl is either `import "path" as alias` or `import a,b from "path"`.
// The two surface forms are mutually exclusive: an alias import carries no
// items and an item import no alias.
type ImportDecl struct {
	Path  string
	Alias string
	Items []string
	Span  lexer.Span
}

// ProcessDecl is one `process Name { ... }` block. Element and flow order
// is the diagram's reading order and is preserved exactly.
type ProcessDecl struct {
	Name       string
	Attributes map[string]AttributeValue
	Elements   []Element
	Flows      []Flow
	Span       lexer.Span
}

// Element is the union of everything that can appear in a process body.
// Containers (Subprocess, Pool, Group) own their children outright; there
// are no back-references.
type Element interface {
	Pos() lexer.Span
	elementNode()
}

type StartEvent struct {
	ID         string // optional, "" when absent
	Event      *EventType
	Attributes map[string]AttributeValue
	Span       lexer.Span
}

type EndEvent struct {
	ID         string
	Event      *EventType
	Attributes map[string]AttributeValue
	Span       lexer.Span
}

type Task struct {
	ID         string
	Kind       TaskKind
	Attributes map[string]AttributeValue
	Span       lexer.Span
}

type Gateway struct {
	ID       string // optional
	Kind     GatewayKind
	Branches []GatewayBranch
	Span     lexer.Span
}

type IntermediateEvent struct {
	ID         string
	Event      EventType
	Payload    string // optional trailing payload text
	Attributes map[string]AttributeValue
	Span       lexer.Span
}

type Subprocess struct {
	ID         string
	Elements   []Element
	Flows      []Flow
	Attributes map[string]AttributeValue
	Span       lexer.Span
}

type CallActivity struct {
	ID            string
	CalledElement string // "id" or "id::nested"
	Attributes    map[string]AttributeValue
	Span          lexer.Span
}

type Pool struct {
	Name     string
	Lanes    []Lane
	Elements []Element
	Flows    []Flow
	Span     lexer.Span
}

type Group struct {
	Label    string
	Elements []Element
	Span     lexer.Span
}

type Annotation struct {
	Text string
	Span lexer.Span
}

// Lane is a named partition inside a pool. It is not itself an Element.
type Lane struct {
	Name     string
	Elements []Element
	Span     lexer.Span
}

func (e *StartEvent) Pos() lexer.Span        { return e.Span }
func (e *EndEvent) Pos() lexer.Span          { return e.Span }
func (e *Task) Pos() lexer.Span              { return e.Span }
func (e *Gateway) Pos() lexer.Span           { return e.Span }
func (e *IntermediateEvent) Pos() lexer.Span { return e.Span }
func (e *Subprocess) Pos() lexer.Span        { return e.Span }
func (e *CallActivity) Pos() lexer.Span      { return e.Span }
func (e *Pool) Pos() lexer.Span              { return e.Span }
func (e *Group) Pos() lexer.Span             { return e.Span }
func (e *Annotation) Pos() lexer.Span        { return e.Span }

func (*StartEvent) elementNode()        {}
func (*EndEvent) elementNode()          {}
func (*Task) elementNode()              {}
func (*Gateway) elementNode()           {}
func (*IntermediateEvent) elementNode() {}
func (*Subprocess) elementNode()        {}
func (*CallActivity) elementNode()      {}
func (*Pool) elementNode()              {}
func (*Group) elementNode()             {}
func (*Annotation) elementNode()        {}

// TaskKind distinguishes the task family keywords.
type TaskKind int

const (
	TaskGeneric TaskKind = iota
	TaskUser
	TaskService
	TaskScript
)

func (k TaskKind) String() string {
	switch k {
	case TaskGeneric:
		return "task"
	case TaskUser:
		return "user"
	case TaskService:
		return "service"
	case TaskScript:
		return "script"
	default:
		return "task"
	}
}

// GatewayKind distinguishes exclusive (xor) from parallel (and) gateways.
type GatewayKind int

const (
	GatewayExclusive GatewayKind = iota
	GatewayParallel
)

func (k GatewayKind) String() string {
	if k == GatewayParallel {
		return "and"
	}
	return "xor"
}

// GatewayBranch is one `[cond] -> target` line of a gateway body. A
// default branch (`=> target`) has IsDefault set and no condition.
type GatewayBranch struct {
	Condition string // opaque reconstructed text, "" when absent
	Target    string
	IsDefault bool
	Span      lexer.Span
}

// EventKind enumerates the event types accepted after `@`.
type EventKind int

const (
	EventMessage EventKind = iota
	EventTimer
	EventError
	EventSignal
	EventTerminate
)

func (k EventKind) String() string {
	switch k {
	case EventMessage:
		return "message"
	case EventTimer:
		return "timer"
	case EventError:
		return "error"
	case EventSignal:
		return "signal"
	case EventTerminate:
		return "terminate"
	default:
		return "message"
	}
}

// EventType pairs an event kind with its payload (message text, timer
// duration, error code or signal name; empty for terminate).
type EventType struct {
	Kind    EventKind
	Payload string
}

// FlowKind distinguishes the four arrow operators.
type FlowKind int

const (
	FlowSequence FlowKind = iota
	FlowMessage
	FlowDefault
	FlowAssociation
)

func (k FlowKind) String() string {
	switch k {
	case FlowSequence:
		return "->"
	case FlowMessage:
		return "-->"
	case FlowDefault:
		return "=>"
	case FlowAssociation:
		return "..>"
	default:
		return "->"
	}
}

// Flow is a standalone `from ARROW to [cond]` statement.
type Flow struct {
	From      string
	To        string
	Kind      FlowKind
	Condition string // opaque reconstructed text, "" when absent
	Span      lexer.Span
}

// AttributeValue is the union of attribute literal kinds.
type AttributeValue interface {
	attrValue()
	String() string
}

type StringValue struct{ Value string }

type NumberValue struct{ Value float64 }

type BoolValue struct{ Value bool }

// DurationValue keeps the raw unit-suffixed text ("30s", "5m") unparsed.
type DurationValue struct{ Raw string }

func (StringValue) attrValue()   {}
func (NumberValue) attrValue()   {}
func (BoolValue) attrValue()     {}
func (DurationValue) attrValue() {}

func (v StringValue) String() string { return v.Value }

func (v NumberValue) String() string {
	return strconv.FormatFloat(v.Value, 'g', -1, 64)
}

func (v BoolValue) String() string { return fmt.Sprintf("%t", v.Value) }

func (v DurationValue) String() string { return v.Raw }
