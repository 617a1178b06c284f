package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Manage editor/assistant skill integration",
}

var skillInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the tokf skill description for assistant integrations",
	Args:  cobra.NoArgs,
	RunE:  runSkillInstall,
}

func init() {
	skillCmd.AddCommand(skillInstallCmd)
}

const skillDescription = `# tokf

Wrap a command with "tokf run <cmd> [args...]" to receive a short,
signal-dense summary of its output instead of the raw stream. Use
"tokf which <cmd>" to see which filter would apply, and "tokf show <name>"
to inspect a filter's definition.
`

func runSkillInstall(cmd *cobra.Command, args []string) error {
	pdir, err := projectDir()
	if err != nil {
		return err
	}
	dest := filepath.Join(pdir, ".tokf", "skill.md")
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(dest, []byte(skillDescription), 0o644); err != nil {
		return err
	}
	fmt.Println("installed skill description to", dest)
	return nil
}
