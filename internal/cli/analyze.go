package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"legalrag/internal/domain"
	"legalrag/internal/service"
)

var (
	analyzeJSON    bool
	analyzeID      string
	analyzeDocType string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Produce a full analysis report for a document",
	Long: `Analyze a document: statistics, clauses, risk, key terms, structure,
compliance coverage and a summary. The document is also indexed for Q&A.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readDocument(args[0])
		if err != nil {
			return err
		}
		id := analyzeID
		if id == "" {
			id = service.DocumentIDFromPath(args[0])
		}
		report, err := app.Service.AnalyzeDocument(cmd.Context(), text, id, analyzeDocType)
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}
		if analyzeJSON {
			return writeJSON(cmd, report)
		}
		printReport(cmd.OutOrStdout(), report)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output the report as JSON")
	analyzeCmd.Flags().StringVar(&analyzeID, "id", "", "document id (defaults to the file name)")
	analyzeCmd.Flags().StringVar(&analyzeDocType, "type", "contract", "document type stored with the indexed document")
}

func printReport(out io.Writer, r domain.AnalysisReport) {
	fmt.Fprintf(out, "Document: %s\n\n", r.DocumentID)
	fmt.Fprintln(out, r.Summary)
	if r.Highlights != "" {
		fmt.Fprintf(out, "\nHighlights:\n  %s\n", r.Highlights)
	}

	s := r.Stats
	fmt.Fprintf(out, "\nStatistics: %d words, %d sentences, %d paragraphs, readability %.2f\n",
		s.WordCount, s.SentenceCount, s.ParagraphCount, s.ReadabilityScore)

	fmt.Fprintf(out, "\nClauses: %d (density %.2f per 1000 words)\n", r.Clauses.TotalClauses, r.Clauses.ClauseDensity)
	types := make([]string, 0, len(r.Clauses.ClauseTypes))
	for t := range r.Clauses.ClauseTypes {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Fprintf(out, "  %-22s %d\n", t, r.Clauses.ClauseTypes[t].Count)
	}

	fmt.Fprintf(out, "\nRisk: %s (score %d)\n", r.Risk.OverallRiskLevel, r.Risk.Score)
	for _, f := range r.Risk.RiskFactors {
		fmt.Fprintf(out, "  %s: %s\n", f.Level, strings.Join(f.Indicators, ", "))
	}
	for _, rec := range r.Risk.Recommendations {
		fmt.Fprintf(out, "  - %s\n", rec)
	}

	fmt.Fprintf(out, "\nCompliance score: %d\n", r.Compliance.ComplianceScore)
	for _, a := range r.Compliance.AreasCovered {
		fmt.Fprintf(out, "  %s: %s\n", a.Area, strings.Join(a.IndicatorsFound, ", "))
	}
	for _, rec := range r.Compliance.Recommendations {
		fmt.Fprintf(out, "  - %s\n", rec)
	}

	if len(r.KeyTerms) > 0 {
		fmt.Fprintln(out, "\nKey terms:")
		for _, kt := range r.KeyTerms[:min(5, len(r.KeyTerms))] {
			fmt.Fprintf(out, "  %-20s %d\n", kt.Term, kt.Frequency)
		}
	}

	if r.RAG != nil {
		fmt.Fprintf(out, "\nIndexed as %s (%d chunks)\n", r.RAG.DocumentID, r.RAG.ChunksCreated)
	}
}
