package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"quill/internal/ui"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive expansion loop",
	Long: `Repl reads expressions, expands them, and prints the resulting core term.
Blocked expansions stay suspended until ':signal N' delivers their signal.`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

func runRepl(cmd *cobra.Command, args []string) error {
	p := tea.NewProgram(ui.NewReplModel())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("repl failed: %w", err)
	}
	return nil
}
