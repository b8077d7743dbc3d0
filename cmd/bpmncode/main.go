package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is stamped by the release build; the default marks dev builds.
var Version = "0.3.0-dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "bpmncode",
		Short:         "Tools for the BPMN textual modeling language",
		Long:          "bpmncode validates .bpmn source files: lexing, parsing with error recovery,\nand semantic checks over the resulting process model.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newCheckCommand())
	root.AddCommand(newInfoCommand())

	return root
}
