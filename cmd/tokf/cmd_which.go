package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tokf/tokf/internal/discovery"
)

var whichCmd = &cobra.Command{
	Use:   "which <cmd>",
	Short: "Show which filter definition would apply to a command",
	Args:  cobra.ExactArgs(1),
	RunE:  runWhich,
}

func runWhich(cmd *cobra.Command, args []string) error {
	pdir, err := projectDir()
	if err != nil {
		return err
	}
	resolved, err := discovery.Resolve(args[0], pdir, builtinLibraryDir())
	if err != nil {
		return err
	}
	if resolved == nil {
		fmt.Printf("no filter defined for %q; output would pass through unfiltered\n", args[0])
		return nil
	}
	fmt.Printf("%s (%s)\n", resolved.Path, resolved.Source)
	return nil
}
