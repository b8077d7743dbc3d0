package parser

import (
	"fmt"

	"github.com/bpmncode-lang/bpmncode/diagnostics"
	"github.com/bpmncode-lang/bpmncode/lexer"
)

// ValidateSemantics checks a parsed document for duplicate identifiers,
// dangling flow references and misused default arrows. A nil result means
// the document is semantically clean. Diagram-shape rules (unreachable
// nodes, deadlocks) are out of scope here.
func ValidateSemantics(doc *Document) []ParseError {
	v := &semanticValidator{}

	for _, proc := range doc.Processes {
		v.validateProcess(proc)
	}

	return v.diags
}

type semanticValidator struct {
	diags []ParseError
}

func (v *semanticValidator) addError(message string, span lexer.Span) {
	v.diags = append(v.diags, ParseError{
		Message:  message,
		Span:     span,
		Severity: diagnostics.SeverityError,
	})
}

func (v *semanticValidator) addWarning(message string, span lexer.Span) {
	v.diags = append(v.diags, ParseError{
		Message:  message,
		Span:     span,
		Severity: diagnostics.SeverityWarning,
	})
}

func (v *semanticValidator) validateProcess(proc ProcessDecl) {
	ids := v.collectScope(proc.Elements)
	v.checkFlows(proc.Flows, ids)

	hasStart := false
	for _, el := range proc.Elements {
		if _, ok := el.(*StartEvent); ok {
			hasStart = true
			break
		}
	}
	if !hasStart {
		v.addWarning(
			fmt.Sprintf("Process '%s' must contain at least one start event", proc.Name),
			proc.Span)
	}
}

// collectScope builds the identifier scope of one container's direct
// children, reporting duplicates, then recurses so each nested container
// gets a fresh scope of its own.
func (v *semanticValidator) collectScope(elements []Element) map[string]bool {
	ids := make(map[string]bool)

	declare := func(id string, span lexer.Span) {
		if id == "" {
			return
		}
		if ids[id] {
			v.addError(fmt.Sprintf("Duplicate node id '%s'", id), span)
			return
		}
		ids[id] = true
	}

	for _, el := range elements {
		switch e := el.(type) {
		case *StartEvent:
			declare(e.ID, e.Span)
		case *EndEvent:
			declare(e.ID, e.Span)
		case *Task:
			declare(e.ID, e.Span)
		case *Gateway:
			declare(e.ID, e.Span)
		case *IntermediateEvent:
			declare(e.ID, e.Span)
		case *CallActivity:
			declare(e.ID, e.Span)
		case *Subprocess:
			declare(e.ID, e.Span)
			inner := v.collectScope(e.Elements)
			v.checkFlows(e.Flows, inner)
		case *Pool:
			declare(e.Name, e.Span)
			inner := v.collectScope(e.Elements)
			for _, lane := range e.Lanes {
				v.collectScope(lane.Elements)
			}
			v.checkFlows(e.Flows, inner)
		case *Group:
			v.collectScope(e.Elements)
		}
	}

	return ids
}

// checkFlows resolves each flow's endpoints against the owning container's
// scope. "start" and "end" are implicit sentinels that always resolve.
func (v *semanticValidator) checkFlows(flows []Flow, ids map[string]bool) {
	for _, fl := range flows {
		switch fl.Kind {
		case FlowSequence:
			if !isValidSequenceFlow(fl.From, fl.To) {
				v.addError(fmt.Sprintf("Invalid sequential arrow: %s -> %s", fl.From, fl.To), fl.Span)
			}
		case FlowMessage:
			if !isValidMessageFlow(fl.From, fl.To) {
				v.addError(fmt.Sprintf("Invalid message arrow: %s --> %s", fl.From, fl.To), fl.Span)
			}
		case FlowDefault:
			if !ids[fl.From] && fl.From != "start" {
				v.addError(fmt.Sprintf(
					"The default arrow can only come from the gateway: %s => %s",
					fl.From, fl.To), fl.Span)
			}
		case FlowAssociation:
			if !isValidAssociation(fl.From, fl.To) {
				v.addWarning(fmt.Sprintf("Invalid associative link: %s ..> %s", fl.From, fl.To), fl.Span)
			}
		}

		if !ids[fl.From] && fl.From != "start" {
			v.addError(fmt.Sprintf("Unknown flow source: '%s'", fl.From), fl.Span)
		}
		if !ids[fl.To] && fl.To != "end" {
			v.addError(fmt.Sprintf("Unknown flow target: '%s'", fl.To), fl.Span)
		}
	}
}

// The per-kind checks are deliberately permissive for now: endpoint element
// categories are not tracked in the scope maps, so anything that resolves
// passes. Endpoint resolution above is what actually bites.

func isValidSequenceFlow(string, string) bool { return true }

func isValidMessageFlow(string, string) bool { return true }

func isValidAssociation(string, string) bool { return true }
