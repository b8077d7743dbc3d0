package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newInfoCommand() *cobra.Command {
	var (
		syntax   bool
		examples bool
		version  bool
	)

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show language reference and examples",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch {
			case version:
				fmt.Fprintf(out, "bpmncode %s\n", Version)
			case syntax:
				printSyntax(out)
			case examples:
				printExamples(out)
			default:
				printOverview(out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&syntax, "syntax", false, "Print the syntax reference")
	cmd.Flags().BoolVar(&examples, "examples", false, "Print example processes")
	cmd.Flags().BoolVar(&version, "version", false, "Print the version")

	return cmd
}

func printOverview(out io.Writer) {
	fmt.Fprint(out, `bpmncode - textual BPMN process modeling

A .bpmn file declares processes as plain text. Each process lists its
elements (events, tasks, gateways, containers) and connects them with
flow arrows.

  bpmncode check order.bpmn        validate a file
  bpmncode check --watch *.bpmn    re-check on every save
  bpmncode info --syntax           syntax reference
  bpmncode info --examples         worked examples
`)
}

func printSyntax(out io.Writer) {
	fmt.Fprint(out, `Elements
  start [@event]                start event, optional typed trigger
  end [@event]                  end event
  task ID                       generic task
  user ID                       user task
  service ID                    service task
  script ID                     script task
  call ID[::nested]             call activity
  event @type [payload]         intermediate event
  subprocess ID { ... }         nested process scope
  pool Name { lane L { ... } }  participant with lanes
  group "label" { ... }         visual grouping
  note "text"                   annotation

Event types
  @message "text"   @timer 30s   @error "code"   @signal "name"   @terminate

Flows
  a -> b            sequence flow
  a --> b           message flow
  a => b            default flow
  a ..> b           association
  a -> b [x > 10]   guarded flow

Gateways
  xor Name? {                   exclusive, branches in braces
    [cond] -> target
    => fallback                 default branch
  }
  and Name { ... }              parallel

Attributes
  task pay @assignee "alice" @timeout 30s
  task pay (assignee="alice", retries=3)

Flow endpoints may use the implicit 'start' and 'end' names.
`)
}

func printExamples(out io.Writer) {
	fmt.Fprint(out, `// Minimal order flow
process Order {
  start
  task receive
  user approve @assignee "manager"
  xor decision? {
    [approved == true] -> fulfill
    => reject
  }
  service fulfill
  task reject
  end

  receive -> approve
  fulfill -> end
  reject -> end
}

// Pools, lanes and message flows
process Fulfillment {
  start
  pool Warehouse {
    lane Packing {
      task pack
    }
  }
  task notify
  end

  Warehouse --> notify
  notify -> end
}
`)
}
