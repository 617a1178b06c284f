package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tokf/tokf/internal/discovery"
	"github.com/tokf/tokf/internal/tui"
)

var showCmd = &cobra.Command{
	Use:   "show <filter-name>",
	Short: "Print a filter definition's source",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	pdir, err := projectDir()
	if err != nil {
		return err
	}
	all, err := discovery.List(pdir, builtinLibraryDir())
	if err != nil {
		return err
	}

	var matches []discovery.Resolved
	for _, e := range all {
		if filterNameOf(e.Path) == args[0] {
			matches = append(matches, e)
		}
	}
	if len(matches) == 0 {
		return fmt.Errorf("no filter named %q", args[0])
	}

	chosen := &matches[0]
	if len(matches) > 1 {
		chosen, err = tui.PickFilter(matches)
		if err != nil {
			return err
		}
	}

	data, err := os.ReadFile(chosen.Path)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}

func filterNameOf(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
