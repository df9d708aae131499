package cmd

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/TFMV/graphwork/ingest"
	"github.com/TFMV/graphwork/models"
	"github.com/TFMV/graphwork/ui"
	"github.com/TFMV/graphwork/viewer"
)

func inspectCmd(g *globals) *cobra.Command {
	var (
		limit  int
		sortBy string
	)

	cmd := &cobra.Command{
		Use:   "inspect <graph-file> [node]",
		Short: "Summarize a graph file or show one node",
		Long: `Without a node, list the graph's nodes with their sizes and degree.
With a node, show what the viewer's sidebar would: its attributes, the
nodes it connects to and the nodes that need it.

  graphwork inspect closure.gexf --sort narSize
  graphwork inspect closure.gexf glibc`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			graph, err := ingest.ProcessFile(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			if len(args) == 2 {
				return inspectNode(cmd, graph, args[1])
			}

			ui.Banner(w, "inspect")
			ui.Field(w, "name", graph.Name)
			ui.Field(w, "nodes", graph.NodeCount())
			ui.Field(w, "edges", graph.EdgeCount())
			fmt.Fprintln(w)

			ids := make([]string, 0, graph.NodeCount())
			for _, n := range graph.Nodes() {
				ids = append(ids, n.ID)
			}
			if sortBy != "" {
				sort.SliceStable(ids, func(i, j int) bool {
					return graph.Number(ids[i], sortBy) > graph.Number(ids[j], sortBy)
				})
			}
			if limit > 0 && len(ids) > limit {
				ids = ids[:limit]
			}

			rows := make([][]string, 0, len(ids))
			for _, id := range ids {
				rows = append(rows, []string{
					id,
					graph.Label(id),
					formatNumber(graph.Number(id, models.AttrNarSize)),
					formatNumber(graph.Number(id, models.AttrClosureSize)),
					strconv.Itoa(len(graph.OutNeighbors(id))),
					strconv.Itoa(len(graph.InNeighbors(id))),
				})
			}
			ui.Table(w, []string{"ID", "LABEL", "NAR SIZE", "CLOSURE", "OUT", "IN"}, rows)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most n nodes (0 shows all)")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort nodes by a numeric attribute, largest first")
	return cmd
}

func inspectNode(cmd *cobra.Command, graph *models.Graph, id string) error {
	if !graph.HasNode(id) {
		return fmt.Errorf("node %q not found", id)
	}

	session := viewer.New(viewer.DefaultOptions())
	session.Load(graph)
	session.Tick(1)
	session.Apply(viewer.Gesture{Kind: viewer.Select, Node: id})
	sb := session.Sidebar()

	w := cmd.OutOrStdout()
	ui.Banner(w, sb.Label)

	rows := make([][]string, 0, len(sb.Attributes))
	for _, a := range sb.Attributes {
		rows = append(rows, []string{a.Key, fmt.Sprint(a.Value)})
	}
	ui.Table(w, []string{"ATTRIBUTE", "VALUE"}, rows)

	fmt.Fprintln(w)
	ui.Info.Fprintf(w, "Connected (%d)\n", len(sb.Connected))
	ui.Table(w, []string{"ID", "LABEL"}, neighborRows(sb.Connected))

	fmt.Fprintln(w)
	ui.Info.Fprintf(w, "Needed by (%d)\n", len(sb.NeededBy))
	ui.Table(w, []string{"ID", "LABEL"}, neighborRows(sb.NeededBy))
	return nil
}

func neighborRows(ns []viewer.Neighbor) [][]string {
	rows := make([][]string, len(ns))
	for i, n := range ns {
		rows[i] = []string{n.ID, n.Label}
	}
	return rows
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
