package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cobra"

	"github.com/bpmncode-lang/bpmncode/diagnostics"
	"github.com/bpmncode-lang/bpmncode/lexer"
	"github.com/bpmncode-lang/bpmncode/parser"
)

type checkOptions struct {
	verbose  bool
	format   string
	noColor  bool
	noSource bool
	watch    bool
}

func newCheckCommand() *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Validate BPMN source files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.watch {
				return runWatch(cmd.OutOrStdout(), args, opts)
			}
			return runCheck(cmd.OutOrStdout(), args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print a summary of the parsed model")
	cmd.Flags().StringVar(&opts.format, "format", "human", "Output format: human, short or json")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVar(&opts.noSource, "no-source", false, "Omit source context from diagnostics")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Re-run checks when the files change")

	return cmd
}

// runCheck validates every input file and renders one report per file.
// All files are checked even when early ones fail; the exit status
// reflects the aggregate.
func runCheck(out io.Writer, paths []string, opts *checkOptions) error {
	switch opts.format {
	case "human", "short", "json":
	default:
		return fmt.Errorf("unknown format %q (want human, short or json)", opts.format)
	}

	useColor := ShouldUseColor(opts.noColor)
	formatter := diagnostics.NewFormatter(useColor, !opts.noSource)
	files := lexer.NewFileSet(".")

	totalErrors := 0
	totalWarnings := 0

	for _, path := range paths {
		report, doc, err := checkFile(files, path)
		if err != nil {
			msg := err.Error()
			if similar := similarFiles(path); len(similar) > 0 {
				msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(similar, ", "))
			}
			fmt.Fprintf(out, "%s %s\n", Colorize("✗", diagnostics.ColorRed, useColor), msg)
			totalErrors++
			continue
		}

		switch opts.format {
		case "short":
			io.WriteString(out, formatter.Short(report))
		case "json":
			text, err := formatter.JSON(report)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, text)
		default:
			io.WriteString(out, formatter.Human(report))
		}

		if opts.verbose && opts.format == "human" {
			displayDocument(out, doc, useColor)
		}

		totalErrors += report.ErrorCount()
		totalWarnings += report.WarningCount()
	}

	if len(paths) > 1 && opts.format == "human" {
		fmt.Fprintf(out, "\n%d files checked, %s\n",
			len(paths), countSummary(totalErrors, totalWarnings))
	}

	if totalErrors > 0 {
		return fmt.Errorf("validation failed with %s", countSummary(totalErrors, totalWarnings))
	}
	return nil
}

// checkFile runs the full pipeline for one file: tokenize, context
// validation, parse with recovery, then semantic validation. Diagnostics
// from every stage land in a single report.
func checkFile(files *lexer.FileSet, path string) (*diagnostics.Report, *parser.Document, error) {
	resolved := files.Resolve(path)
	source, err := files.Load(path)
	if err != nil {
		return nil, nil, err
	}

	tokens := lexer.Tokenize(source, resolved)
	report := diagnostics.NewReport(resolved, source)

	for _, d := range diagnostics.ValidateContext(tokens) {
		report.Add(d)
	}

	doc := parser.ParseTokens(tokens)
	for _, e := range doc.Errors {
		report.Add(toDiagnostic(e, doc))
	}
	for _, e := range parser.ValidateSemantics(doc) {
		report.Add(toDiagnostic(e, doc))
	}

	return report, doc, nil
}

// similarFiles suggests existing .bpmn files close to a path that failed to
// open, ranked by edit distance on the file name.
func similarFiles(path string) []string {
	dir := filepath.Dir(path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".bpmn") {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return nil
	}

	ranks := fuzzy.RankFindNormalizedFold(filepath.Base(path), names)
	sort.Sort(ranks)

	var out []string
	for i := 0; i < len(ranks) && i < 2; i++ {
		out = append(out, filepath.Join(dir, ranks[i].Target))
	}
	return out
}

func countSummary(errors, warnings int) string {
	if warnings == 0 {
		return fmt.Sprintf("%d errors", errors)
	}
	return fmt.Sprintf("%d errors, %d warnings", errors, warnings)
}
