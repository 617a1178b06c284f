package main

import (
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/tokf/tokf/internal/engine"
	"github.com/tokf/tokf/internal/filterdef"
	"github.com/tokf/tokf/internal/filterfile"
)

var testExitCode int

var testCmd = &cobra.Command{
	Use:   "test <filter-path> [fixture-path]",
	Short: "Run a filter definition against a captured fixture",
	Long: "Run a filter definition against a captured fixture.\n\n" +
		"With a fixture path, applies the filter once and prints the result.\n" +
		"Without one, starts an interactive REPL: each line you enter is treated\n" +
		"as a one-line raw output and filtered on the spot, for iterating on a\n" +
		"filter definition without re-running the wrapped command.",
	Args: cobra.RangeArgs(1, 2),
	RunE: runTest,
}

func init() {
	testCmd.Flags().IntVar(&testExitCode, "exit-code", 0, "exit code to simulate")
}

func runTest(cmd *cobra.Command, args []string) error {
	filterPath := args[0]
	def, warnings, err := filterfile.DecodeFile(filterPath)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "tokf: unknown field %q in %s\n", w, filterPath)
	}
	for _, verr := range filterdef.Validate(def) {
		fmt.Fprintf(os.Stderr, "tokf: %s\n", verr.Error())
	}

	if len(args) == 2 {
		raw, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		out, diags := engine.Apply(def, string(raw), int64(testExitCode), nil)
		for _, d := range diags.Entries() {
			fmt.Fprintf(os.Stderr, "tokf: [%s] %s\n", d.Stage, d.Message)
		}
		fmt.Println(out)
		return nil
	}

	return runTestREPL(def)
}

// runTestREPL is the interactive fixture-less mode: a readline-driven loop
// where every entered line is run through the loaded filter immediately.
func runTestREPL(def *filterdef.FilterDefinition) error {
	rl, err := readline.New("tokf test> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return nil
		}
		if err != nil {
			return err
		}
		if line == "" {
			continue
		}
		out, diags := engine.Apply(def, line, int64(testExitCode), nil)
		for _, d := range diags.Entries() {
			fmt.Fprintf(os.Stderr, "  [%s] %s\n", d.Stage, d.Message)
		}
		fmt.Println(out)
	}
}
