package cli

import (
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X legalrag/internal/cli.Version=...".
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	// Skips config loading so the version prints even with a broken config.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("legalrag %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
