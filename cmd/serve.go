package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/TFMV/graphwork/ingest"
	"github.com/TFMV/graphwork/metrics"
	"github.com/TFMV/graphwork/server"
	"github.com/TFMV/graphwork/ui"
	"github.com/TFMV/graphwork/viewer"
)

func serveCmd(g *globals) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [graph-file]",
		Short: "Serve the interactive viewer over HTTP",
		Long: `Start the HTTP viewer and the frame loop. A graph file (GEXF, JSON or
YAML) may be given to show on startup; more can be uploaded from the page.

  graphwork serve
  graphwork serve closure.gexf --addr :9000`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			logger, err := g.logger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			collector, err := metrics.NewCollector(prometheus.DefaultRegisterer)
			if err != nil {
				return fmt.Errorf("metrics: %w", err)
			}

			opts := sessionOptions(cfg, logger)
			opts.Metrics = collector
			session := viewer.New(opts)

			if len(args) == 1 {
				graph, err := ingest.ProcessFile(args[0])
				if err != nil {
					return err
				}
				session.Load(graph)
			}

			srv := server.New(cfg.Server, session, collector, logger.Named("http"))

			ui.Banner(cmd.OutOrStdout(), "serve")
			ui.Field(cmd.OutOrStdout(), "address", ui.Brand.Sprint(cfg.Server.Addr))
			ui.Field(cmd.OutOrStdout(), "frames", cfg.Server.FrameInterval)
			ui.Field(cmd.OutOrStdout(), "metrics", ui.Subtle.Sprint("/metrics"))

			eg, ctx := errgroup.WithContext(cmd.Context())
			eg.Go(func() error {
				return session.Run(ctx, cfg.Server.FrameInterval)
			})
			eg.Go(func() error {
				return srv.Start(ctx)
			})

			if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("serve stopped", zap.Error(err))
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}
