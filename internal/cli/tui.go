package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"legalrag/internal/tui"
)

var tuiDocument string

var tuiCmd = &cobra.Command{
	Use:   "tui [file...]",
	Short: "Ask questions interactively",
	Long: `Index the given files and open an interactive terminal interface for
questions and searches. Tab switches between ask and search, the arrow keys
step through sources, Esc quits.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ingestArgs(cmd, args); err != nil {
			return err
		}
		stats := app.Service.Stats()
		summary := fmt.Sprintf("%d documents, %d chunks indexed", stats.Documents, stats.Chunks)
		if tuiDocument != "" {
			summary += " (searching " + tuiDocument + ")"
		}
		model := tui.New(cmd.Context(), app.Service, summary, tuiDocument)
		if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run(); err != nil {
			return fmt.Errorf("tui: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	tuiCmd.Flags().StringVar(&tuiDocument, "doc", "", "restrict questions to one document id")
}
