// Package cli implements the legalrag command line.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"legalrag/internal/domain"
)

var (
	cfgPath string
	app     *App
)

var rootCmd = &cobra.Command{
	Use:   "legalrag",
	Short: "Analyze legal documents and answer questions about them",
	Long: `legalrag indexes legal documents into an in-memory retrieval index and
answers questions about them with rule-based legal heuristics. It also
extracts clauses, scores risk and compliance coverage, and serves the same
operations over HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		_ = godotenv.Load()
		a, err := NewApp(cmd.Context(), cfgPath)
		if err != nil {
			return err
		}
		app = a
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "",
		"path to YAML config file (defaults to ./config.yaml or ~/.config/legalrag/config.yaml)")
}

// Execute runs the root command and releases the app whether or not the command failed.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if cerr := app.Close(); cerr != nil && err == nil {
		err = cerr
	}
	app = nil
	return err
}

func readDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func ingestArgs(cmd *cobra.Command, files []string) error {
	if app == nil {
		return errors.New("service not configured")
	}
	if _, err := app.Service.IngestFiles(cmd.Context(), files, nil); err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	return nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// ExitCode maps an error to a process exit status: 2 for caller mistakes, 1 otherwise.
func ExitCode(err error) int {
	if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrInvalidConfig) {
		return 2
	}
	return 1
}
