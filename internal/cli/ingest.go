package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var ingestJSON bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Chunk and index documents",
	Long: `Chunk, embed and index the given files or glob patterns. Each file becomes
one document whose id is the file name without its extension.

The index lives in memory, so ingest mostly serves to check how documents
are chunked. Use ask, search, serve or tui to query them.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := app.Service.IngestFiles(cmd.Context(), args, app.Config.Watch.Extensions)
		if err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}
		if ingestJSON {
			return writeJSON(cmd, results)
		}
		out := cmd.OutOrStdout()
		total := 0
		for _, r := range results {
			fmt.Fprintf(out, "  %s: %d chunks\n", r.DocumentID, r.Chunks)
			total += r.Chunks
		}
		fmt.Fprintf(out, "Indexed %d documents (%d chunks).\n", len(results), total)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output results as JSON")
}
