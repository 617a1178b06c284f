package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tokf/tokf/internal/tui"
)

var hookGlobalFlag bool

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Manage the shell hook that routes wrapped commands through tokf",
}

var hookInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the shell hook",
	Args:  cobra.NoArgs,
	RunE:  runHookInstall,
}

func init() {
	hookInstallCmd.Flags().BoolVar(&hookGlobalFlag, "global", false, "install for every shell session instead of just this project")
	hookCmd.AddCommand(hookInstallCmd)
}

func runHookInstall(cmd *cobra.Command, args []string) error {
	choice, err := tui.RunHookWizard()
	if err != nil {
		return err
	}
	if hookGlobalFlag {
		choice.Global = true
	}

	script := shellHookScript(choice.ShellKind)
	dest, err := hookDestination(choice)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(dest, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteString(script); err != nil {
		return err
	}
	fmt.Printf("installed %s hook to %s\n", choice.ShellKind, dest)
	return nil
}

// hookDestination picks a shell rc file (global) or a project-local init
// script (per-project), mirroring discovery's project-local/user-level
// split.
func hookDestination(choice tui.HookChoice) (string, error) {
	if choice.Global {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		switch choice.ShellKind {
		case "zsh":
			return filepath.Join(home, ".zshrc"), nil
		case "fish":
			return filepath.Join(home, ".config", "fish", "config.fish"), nil
		default:
			return filepath.Join(home, ".bashrc"), nil
		}
	}
	pdir, err := projectDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(pdir, ".tokf", "hook."+choice.ShellKind), nil
}

func shellHookScript(shellKind string) string {
	switch shellKind {
	case "fish":
		return "\n# tokf hook\nfunction tokf_wrap; tokf run $argv; end\n"
	default:
		return "\n# tokf hook\nalias tokfwrap='tokf run'\n"
	}
}
