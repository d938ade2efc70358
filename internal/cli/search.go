package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	searchLimit    int
	searchDocument string
	searchJSON     bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query] [file...]",
	Short: "Find the chunks most similar to a query",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ingestArgs(cmd, args[1:]); err != nil {
			return err
		}
		results, err := app.Service.Search(cmd.Context(), args[0], searchLimit, searchDocument)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		if searchJSON {
			return writeJSON(cmd, results)
		}
		out := cmd.OutOrStdout()
		if len(results) == 0 {
			fmt.Fprintln(out, "No results found.")
			return nil
		}
		for i, r := range results {
			fmt.Fprintf(out, "[%d] %s (similarity %.3f)\n", i+1, r.ChunkID, r.Similarity)
			fmt.Fprintf(out, "    %s\n", preview(strings.Join(strings.Fields(r.Text), " "), 160))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (0 uses the configured default)")
	searchCmd.Flags().StringVar(&searchDocument, "doc", "", "restrict results to one document id")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
}
