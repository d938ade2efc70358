package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var clausesJSON bool

var clausesCmd = &cobra.Command{
	Use:   "clauses [file]",
	Short: "Extract legal clauses from a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readDocument(args[0])
		if err != nil {
			return err
		}
		found, err := app.Service.ExtractClauses(text)
		if err != nil {
			return fmt.Errorf("extraction failed: %w", err)
		}
		if clausesJSON {
			return writeJSON(cmd, map[string]any{"clauses": found, "total_clauses": len(found)})
		}
		out := cmd.OutOrStdout()
		if len(found) == 0 {
			fmt.Fprintln(out, "No clauses found.")
			return nil
		}
		for i, c := range found {
			fmt.Fprintf(out, "[%d] %s (confidence %.2f, bytes %d-%d)\n",
				i+1, c.Title, c.Confidence, c.StartPosition, c.EndPosition)
			fmt.Fprintf(out, "    %s\n", preview(strings.Join(strings.Fields(c.Content), " "), 200))
		}
		fmt.Fprintf(out, "%d clauses found.\n", len(found))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clausesCmd)
	clausesCmd.Flags().BoolVar(&clausesJSON, "json", false, "output clauses as JSON")
}
