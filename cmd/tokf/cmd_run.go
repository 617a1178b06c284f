package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tokf/tokf/internal/diag"
	"github.com/tokf/tokf/internal/discovery"
	"github.com/tokf/tokf/internal/engine"
	"github.com/tokf/tokf/internal/filterfile"
	"github.com/tokf/tokf/internal/gain"
	"github.com/tokf/tokf/internal/runner"
)

var runCmd = &cobra.Command{
	Use:                "run <cmd> [args...]",
	Short:              "Run a command and print its compressed output",
	Args:               cobra.MinimumNArgs(1),
	DisableFlagParsing: true, // everything after "run" belongs to the wrapped command
	RunE:               runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	log := diag.New(flagVerbose)
	name, rest := args[0], args[1:]

	res, err := runner.Run(context.Background(), name, rest, runner.Options{Timing: flagTiming})
	if res == nil && err != nil {
		return fmt.Errorf("starting %q: %w", name, err)
	}

	if flagNoFilter {
		fmt.Print(res.Combined)
		os.Exit(int(res.ExitCode))
	}

	pdir, perr := projectDir()
	if perr != nil {
		pdir = "."
	}
	resolved, rerr := discovery.Resolve(name, pdir, builtinLibraryDir())
	if rerr != nil || resolved == nil {
		// No filter defined for this command: pass raw output through (§7
		// kind 5 "engine is not invoked").
		fmt.Print(res.Combined)
		if flagTiming {
			printTiming(res)
		}
		os.Exit(int(res.ExitCode))
	}

	def, warnings, derr := filterfile.DecodeFile(resolved.Path)
	if derr != nil {
		log.Error().Err(derr).Str("filter", resolved.Path).Msg("failed to load filter, passing output through unfiltered")
		fmt.Print(res.Combined)
		os.Exit(int(res.ExitCode))
	}
	for _, w := range warnings {
		log.Debug().Str("filter", resolved.Path).Str("field", w).Msg("unknown field in filter definition")
	}
	diag.LogValidationErrors(log, resolved.Path, def)

	out, diags := engine.Apply(def, res.Combined, res.ExitCode, rest)
	diag.LogDiagnostics(log, name, diags)

	fmt.Println(out)
	if flagTiming {
		printTiming(res)
	}
	if err := recordGain(name, len(res.Combined), len(out)); err != nil {
		log.Debug().Err(err).Msg("failed to record gain counters")
	}
	os.Exit(int(res.ExitCode))
	return nil
}

func printTiming(res *runner.Result) {
	fmt.Fprintf(os.Stderr, "tokf: %s, peak rss %s\n", res.Duration, gain.FormatBytes(int64(res.RSS)))
}

func recordGain(filterName string, before, after int) error {
	path, err := gainDBPath()
	if err != nil {
		return err
	}
	store, err := gain.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Record(filterName, before, after)
}
