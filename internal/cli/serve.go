package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"legalrag/internal/httpapi"
	"legalrag/internal/watcher"
)

var (
	serveAddr  string
	serveWatch string
)

var serveCmd = &cobra.Command{
	Use:   "serve [file...]",
	Short: "Serve the HTTP API",
	Long: `Start the HTTP API. Files given as arguments are indexed before the server
starts. With --watch, every document in the directory is indexed and
re-indexed when it changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		if len(args) > 0 {
			if err := ingestArgs(cmd, args); err != nil {
				return err
			}
		}

		addr := serveAddr
		if addr == "" {
			addr = app.Config.Server.Addr
		}
		dir := serveWatch
		if dir == "" {
			dir = app.Config.Watch.Dir
		}

		watchErr := make(chan error, 1)
		if dir != "" {
			w, err := watcher.New(dir, app.Config.Watch.Extensions, app.Service, app.Logger)
			if err != nil {
				return err
			}
			go func() {
				watchErr <- w.Run(ctx)
			}()
		} else {
			close(watchErr)
		}

		server := httpapi.NewServer(addr, app.Service, app.Logger)
		serveErr := server.Run(ctx)
		cancel()
		if err := <-watchErr; err != nil && serveErr == nil {
			return fmt.Errorf("watcher: %w", err)
		}
		return serveErr
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (defaults to server.addr from config)")
	serveCmd.Flags().StringVar(&serveWatch, "watch", "", "directory to index and watch for changes")
}
