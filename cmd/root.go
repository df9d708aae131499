// Package cmd implements the graphwork command line.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TFMV/graphwork/config"
	"github.com/TFMV/graphwork/logging"
	"github.com/TFMV/graphwork/ui"
	"github.com/TFMV/graphwork/viewer"
)

var version = "0.1.0"

// globals holds the persistent flags.
type globals struct {
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	cmd := &cobra.Command{
		Use:   "graphwork",
		Short: "graphwork: interactive force-directed graph viewer",
		Long: ui.Brand.Sprint("graphwork") + " lays out directed graphs with a force simulation\n" +
			ui.Subtle.Sprint("Serve an interactive view, render a settled frame, or inspect a graph file"),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("graphwork {{ .Version }}\n")

	flags := cmd.PersistentFlags()
	flags.StringVar(&g.configPath, "config", "", "Path to a TOML config file (default: $"+config.EnvPath+", ./graphwork.toml, then the user config dir)")
	flags.StringVar(&g.logLevel, "log-level", "", "Override the log level (debug, info, warn, error)")
	flags.StringVar(&g.logFormat, "log-format", "", "Override the log format (json, console)")

	cmd.AddCommand(
		serveCmd(g),
		renderCmd(g),
		inspectCmd(g),
	)
	return cmd
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	err := newRootCmd().ExecuteContext(ctx)
	if err != nil {
		ui.Bad.Printf("graphwork: %v\n", err)
	}
	return err
}

// load reads the config and applies flag overrides.
func (g *globals) load() (*config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if g.logFormat != "" {
		cfg.Log.Format = g.logFormat
	}
	return cfg, nil
}

func (g *globals) logger(cfg *config.Config) (*zap.Logger, error) {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return logger, nil
}

// sessionOptions sizes a viewer session from the config.
func sessionOptions(cfg *config.Config, logger *zap.Logger) viewer.Options {
	return viewer.Options{
		Physics:  cfg.PhysicsConfig(),
		Viewport: cfg.ViewportOptions(),
		Palette:  cfg.Style,
		Logger:   logger,
	}
}
