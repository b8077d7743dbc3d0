package main

import (
	"fmt"
	"io"

	"github.com/bpmncode-lang/bpmncode/diagnostics"
	"github.com/bpmncode-lang/bpmncode/parser"
)

// displayDocument prints a verbose summary of the parsed model: imports,
// then each process with its elements and flows in source order.
func displayDocument(out io.Writer, doc *parser.Document, useColor bool) {
	if doc == nil {
		return
	}

	for _, imp := range doc.Imports {
		if imp.Alias != "" {
			fmt.Fprintf(out, "  import %s as %s\n", imp.Path, imp.Alias)
		} else {
			fmt.Fprintf(out, "  import %v from %s\n", imp.Items, imp.Path)
		}
	}

	for _, proc := range doc.Processes {
		fmt.Fprintf(out, "  %s %s (%d elements, %d flows)\n",
			Colorize("process", diagnostics.ColorBlue, useColor),
			Colorize(proc.Name, diagnostics.ColorCyan, useColor),
			len(proc.Elements), len(proc.Flows))

		for _, el := range proc.Elements {
			fmt.Fprintf(out, "    %s\n", describeElement(el))
		}
		for _, fl := range proc.Flows {
			line := fmt.Sprintf("%s %s %s", fl.From, fl.Kind, fl.To)
			if fl.Condition != "" {
				line += fmt.Sprintf(" [%s]", fl.Condition)
			}
			fmt.Fprintf(out, "    %s\n", line)
		}
	}
}

func describeElement(el parser.Element) string {
	switch e := el.(type) {
	case *parser.StartEvent:
		if e.Event != nil {
			return fmt.Sprintf("start @%s", e.Event.Kind)
		}
		return "start"
	case *parser.EndEvent:
		if e.Event != nil {
			return fmt.Sprintf("end @%s", e.Event.Kind)
		}
		return "end"
	case *parser.Task:
		return fmt.Sprintf("%s %s", e.Kind, e.ID)
	case *parser.Gateway:
		name := e.ID
		if name == "" {
			name = "(anonymous)"
		}
		return fmt.Sprintf("%s %s (%d branches)", e.Kind, name, len(e.Branches))
	case *parser.IntermediateEvent:
		return fmt.Sprintf("event @%s %s", e.Event.Kind, e.Payload)
	case *parser.Subprocess:
		return fmt.Sprintf("subprocess %s (%d elements)", e.ID, len(e.Elements))
	case *parser.CallActivity:
		return fmt.Sprintf("call %s", e.CalledElement)
	case *parser.Pool:
		return fmt.Sprintf("pool %s (%d lanes)", e.Name, len(e.Lanes))
	case *parser.Group:
		return fmt.Sprintf("group %q (%d elements)", e.Label, len(e.Elements))
	case *parser.Annotation:
		return fmt.Sprintf("note %q", e.Text)
	default:
		return fmt.Sprintf("%T", el)
	}
}
