package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	askDocument string
	askJSON     bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question] [file...]",
	Short: "Answer a question about documents",
	Long: `Index the given files, then answer the question from the most relevant
chunks. The answer is written by the configured generator, or by the legal
heuristics when none is configured or it fails.`,
	Example: `  legalrag ask "What is the notice period for termination?" contracts/*.txt
  legalrag ask --doc nda "Who owns the work product?" nda.txt msa.txt`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ingestArgs(cmd, args[1:]); err != nil {
			return err
		}
		ans, err := app.Service.AnswerQuestion(cmd.Context(), args[0], askDocument)
		if err != nil {
			return fmt.Errorf("answer failed: %w", err)
		}
		if askJSON {
			return writeJSON(cmd, ans)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ans.Answer)
		fmt.Fprintln(out)
		if ans.Model != "" {
			fmt.Fprintf(out, "Confidence: %.2f (%s)\n", ans.Confidence, ans.Model)
		} else {
			fmt.Fprintf(out, "Confidence: %.2f\n", ans.Confidence)
		}
		if len(ans.Sources) > 0 {
			fmt.Fprintf(out, "Sources: %s\n", strings.Join(ans.Sources, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVar(&askDocument, "doc", "", "restrict retrieval to one document id")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output answer as JSON")
}
