// Package tui holds tokf's interactive surfaces: the `hook install` wizard,
// the `tokf gain` viewer, and the fuzzy filter picker used by `tokf show`
// when a filter name is ambiguous.
package tui

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// HookChoice is one answer collected from the install wizard.
type HookChoice struct {
	Global    bool
	ShellKind string // "bash", "zsh", "fish"
}

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

// RunHookWizard walks the user through `tokf hook install`'s options: which
// shell to wire a wrapper into (an alias for bash/zsh, a function for
// fish), and whether to install it
// globally (all projects) or just the current one.
func RunHookWizard() (HookChoice, error) {
	var choice HookChoice
	shellOptions := []huh.Option[string]{
		huh.NewOption("bash", "bash"),
		huh.NewOption("zsh", "zsh"),
		huh.NewOption("fish", "fish"),
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title(titleStyle.Render("tokf hook install")).
				Description("Wires a shell alias (bash/zsh) or function (fish) that routes wrapped commands through tokf."),
			huh.NewSelect[string]().
				Title("Which shell?").
				Options(shellOptions...).
				Value(&choice.ShellKind),
			huh.NewConfirm().
				Title("Install globally (every shell session) rather than just this project?").
				Value(&choice.Global),
		),
	)
	if err := form.Run(); err != nil {
		return HookChoice{}, fmt.Errorf("tui: hook wizard: %w", err)
	}
	return choice, nil
}
