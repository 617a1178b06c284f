package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/tokf/tokf/internal/gain"
	"github.com/tokf/tokf/internal/tui"
)

var (
	gainDaily    bool
	gainByFilter bool
	gainJSON     bool
)

var gainCmd = &cobra.Command{
	Use:   "gain",
	Short: "Report bytes saved by filtering",
	Args:  cobra.NoArgs,
	RunE:  runGain,
}

func init() {
	gainCmd.Flags().BoolVar(&gainDaily, "daily", false, "group totals by day")
	gainCmd.Flags().BoolVar(&gainByFilter, "by-filter", false, "group totals by filter name")
	gainCmd.Flags().BoolVar(&gainJSON, "json", false, "emit machine-readable JSON")
}

func runGain(cmd *cobra.Command, args []string) error {
	path, err := gainDBPath()
	if err != nil {
		return err
	}
	store, err := gain.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Report("")
	if err != nil {
		return err
	}

	if gainJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	// With no grouping flag given on an interactive terminal, drop into the
	// re-groupable TUI instead of a single static render (--daily/--by-filter
	// still take the plain-text path, e.g. for piping into another tool).
	if !gainDaily && !gainByFilter && isatty.IsTerminal(os.Stdout.Fd()) {
		return tui.RunGainView(entries)
	}

	switch {
	case gainByFilter:
		printGroupedGain(entries, func(e gain.Entry) string { return e.FilterName })
	case gainDaily:
		printGroupedGain(entries, func(e gain.Entry) string { return e.Day })
	default:
		var total int64
		for _, e := range entries {
			total += e.BytesSaved
		}
		fmt.Println(gain.FormatBytes(total), "saved total")
	}
	return nil
}

func printGroupedGain(entries []gain.Entry, keyOf func(gain.Entry) string) {
	totals := make(map[string]int64)
	for _, e := range entries {
		totals[keyOf(e)] += e.BytesSaved
	}
	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%-16s %s\n", k, gain.FormatBytes(totals[k]))
	}
}
