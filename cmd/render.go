package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TFMV/graphwork/ingest"
	"github.com/TFMV/graphwork/render"
	"github.com/TFMV/graphwork/viewer"
)

type renderFlags struct {
	format    string
	output    string
	maxSteps  int
	selected  string
	labels    bool
	timestamp bool
	zoom      float64
}

func renderCmd(g *globals) *cobra.Command {
	f := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render <graph-file>",
		Short: "Run the layout until it settles and write one frame",
		Long: `Load a graph, step the simulation until it settles (or --max-steps is
reached) and render the final frame.

  graphwork render closure.gexf -o closure.svg
  graphwork render deps.json --format ascii --select glibc`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			logger, err := g.logger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			renderer, err := render.GetRenderer(f.format)
			if err != nil {
				return fmt.Errorf("%w (choose from %s)", err, strings.Join(render.Formats(), ", "))
			}

			graph, err := ingest.ProcessFile(args[0])
			if err != nil {
				return err
			}

			session := viewer.New(sessionOptions(cfg, logger))
			session.Load(graph)
			steps := settle(session, f.maxSteps)
			logger.Info("layout finished",
				zap.Int("steps", steps),
				zap.Bool("settled", !session.Active()))

			if f.selected != "" && !session.Apply(viewer.Gesture{Kind: viewer.Select, Node: f.selected}) {
				return fmt.Errorf("node %q not found in %s", f.selected, args[0])
			}
			if f.zoom != 0 && f.zoom != 1 {
				center := session.Viewport().Center()
				session.Apply(viewer.Gesture{Kind: viewer.Zoom, Factor: f.zoom, Screen: &center})
			}

			opts := render.NewDefaultOptions(f.format)
			opts.ShowLabels = f.labels
			opts.Timestamp = f.timestamp
			opts.Indent = true
			out, err := renderer.Render(session.Frame(), opts)
			if err != nil {
				return fmt.Errorf("rendering failed: %w", err)
			}

			if f.output == "" || f.output == "-" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(f.output, out, 0o644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			logger.Info("output written", zap.String("path", f.output), zap.Int("bytes", len(out)))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.format, "format", "f", "svg", "Output format ("+strings.Join(render.Formats(), ", ")+")")
	flags.StringVarP(&f.output, "output", "o", "", "Output file (default stdout)")
	flags.IntVar(&f.maxSteps, "max-steps", 1000, "Maximum simulation steps")
	flags.StringVar(&f.selected, "select", "", "Node id to render as selected")
	flags.BoolVar(&f.labels, "labels", false, "Draw node labels")
	flags.BoolVar(&f.timestamp, "timestamp", false, "Stamp the render time")
	flags.Float64Var(&f.zoom, "zoom", 1, "Zoom factor around the canvas centre")
	return cmd
}

// settle ticks until the simulation stops or maxSteps is reached and
// returns the number of steps taken.
func settle(session *viewer.Session, maxSteps int) int {
	steps := 0
	for steps < maxSteps && session.Tick(1) {
		steps++
	}
	return steps
}
