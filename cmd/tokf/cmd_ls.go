package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tokf/tokf/internal/discovery"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List every available filter definition",
	Args:  cobra.NoArgs,
	RunE:  runLs,
}

func runLs(cmd *cobra.Command, args []string) error {
	pdir, err := projectDir()
	if err != nil {
		return err
	}
	entries, err := discovery.List(pdir, builtinLibraryDir())
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Printf("%-24s %s\n", e.Path, e.Source)
	}
	return nil
}
