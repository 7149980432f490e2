// =============================================================================
// DCR-PAXLIST Merger - Serve Command
// =============================================================================
//
// This file defines the 'serve' command, which exposes the merge pipeline
// over HTTP until interrupted.
//
// COMMAND USAGE:
//   dcrmerge serve [--addr :8080]
//
// =============================================================================

package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/dcr-paxlist-merger/internal/metrics"
	"github.com/ginjaninja78/dcr-paxlist-merger/internal/pipeline"
	"github.com/ginjaninja78/dcr-paxlist-merger/internal/server"
)

var serveAddr string

// serveCmd represents the 'serve' command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the merge over HTTP",
	Long: `The serve command starts an HTTP server with:
  POST /merge    multipart upload (paxlist, dcr, header_row, apply_formatting)
  GET  /healthz  liveness probe
  GET  /metrics  Prometheus metrics`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.ServerAddr = serveAddr
		}

		logger := newLogger(cfg)
		registry := metrics.NewRegistry()

		processor := pipeline.New(
			pipeline.WithLogger(logger),
			pipeline.WithStore(newStore(cfg)),
			pipeline.WithOutputNameFormat(cfg.OutputNameFormat),
			pipeline.WithObserver(registry),
		)

		srv := server.New(server.Options{
			Processor:         processor,
			Metrics:           registry,
			Logger:            logger,
			MaxUploadBytes:    int64(cfg.MaxUploadMB) << 20,
			DefaultHeaderRow:  cfg.DCRHeaderRow,
			DefaultFormatting: cfg.FormattingEnabled(),
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return srv.ListenAndServe(ctx, cfg.ServerAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, :8080)")
}
