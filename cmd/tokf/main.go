// Command tokf wraps developer-tool invocations and compresses their
// output via the filter engine in internal/engine.
package main

import (
	"github.com/spf13/cobra"

	"github.com/tokf/tokf/internal/diag"
	"github.com/tokf/tokf/pkg/lib"
)

var (
	flagTiming    bool
	flagVerbose   bool
	flagNoFilter  bool
	flagNoCache   bool
)

var rootCmd = &cobra.Command{
	Use:           appName,
	Short:         "Compress developer-tool output for LLM consumption",
	Long:          appName + " wraps a command, runs its captured output through a declarative filter pipeline, and prints a short summary instead of the raw firehose.",
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.ArbitraryArgs,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagTiming, "timing", false, "sample wall-clock time and peak RSS of the wrapped command")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "surface engine diagnostics (degraded/no-op stages)")
	rootCmd.PersistentFlags().BoolVar(&flagNoFilter, "no-filter", false, "bypass filtering and print raw output")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "accepted but has no effect: patterns are always reused from the shared regex cache")

	rootCmd.AddCommand(runCmd, testCmd, lsCmd, whichCmd, showCmd, gainCmd, hookCmd, skillCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		diag.New(flagVerbose).Error().Err(err).Msg("tokf")
		lib.Exit(err)
	}
}
