package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/regulon/internal/deliver"
	"github.com/matsen/regulon/internal/network"
	"github.com/matsen/regulon/internal/viz"
)

var (
	vizOutput string
	vizLayout string
	vizHubs   int
	vizWrite  bool
)

func init() {
	vizCmd.Flags().StringVarP(&vizOutput, "output", "o", "", "Output file path (default: stdout)")
	vizCmd.Flags().StringVar(&vizLayout, "layout", "force", "Layout algorithm: force, circle, or grid")
	vizCmd.Flags().IntVar(&vizHubs, "hubs", viz.DefaultHubs, "Number of hubs to emphasize")
	vizCmd.Flags().BoolVar(&vizWrite, "write", false, "Write into the module directory as its interactive view")
	rootCmd.AddCommand(vizCmd)
}

var vizCmd = &cobra.Command{
	Use:   "viz <network.json | module-dir>",
	Short: "Render a module network as interactive HTML",
	Long: `Render an interactive Cytoscape.js view of one module network.

Node size follows degree and the top hubs are outlined. RNA partners are
drawn as diamonds and RBP-target edges are dashed.

Examples:
  # Generate HTML to stdout
  regulon viz runs/tp53/C0 > c0.html

  # Replace a module's network.html so the index links it
  regulon viz runs/tp53/C0 --write

  # Use circular layout
  regulon viz module.json --layout circle --output c0.html`,
	Args: cobra.ExactArgs(1),
	RunE: runViz,
}

func runViz(cmd *cobra.Command, args []string) error {
	cfg := mustLoadProject()
	layout := layoutFromConfig(cfg)

	g, path := mustLoadNetwork(args[0], layout.Network)
	title := moduleTitle(args[0], path)

	html, err := renderNetwork(g, title, viz.HTMLOptions{Layout: vizLayout}, vizHubs)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	out := vizOutput
	if vizWrite {
		if out != "" {
			exitWithError(ExitError, "--write and --output are mutually exclusive")
		}
		out = filepath.Join(filepath.Dir(path), layout.Interactive)
	}

	if out == "" {
		fmt.Print(html)
		return nil
	}
	if err := deliver.WriteFileAtomic(out, []byte(html)); err != nil {
		exitWithError(ExitError, "writing output file: %v", err)
	}
	if !humanOutput {
		return outputJSON(StatusResponse{Status: "written", Path: out})
	}
	outputHuman("Wrote %s\n", out)
	return nil
}

func renderNetwork(g *network.Graph, title string, opts viz.HTMLOptions, hubs int) (string, error) {
	html, err := viz.GenerateHTML(viz.FromNetwork(g, title, hubs), opts)
	if err != nil {
		return "", fmt.Errorf("generating HTML: %w", err)
	}
	return html, nil
}

// moduleTitle names a page after its module directory when there is one.
func moduleTitle(arg, networkPath string) string {
	for _, candidate := range []string{filepath.Base(filepath.Clean(arg)), filepath.Base(filepath.Dir(networkPath))} {
		if _, ok := deliver.ParseModuleName(candidate); ok {
			return "Module " + candidate
		}
	}
	return filepath.Base(networkPath)
}

// renderMissingViews writes an interactive view into every module
// directory that lacks one and returns how many were written.
func renderMissingViews(runDir string, layout deliver.Layout, log *zap.Logger) (int, error) {
	dirs, err := deliver.ModuleDirs(runDir)
	if err != nil {
		return 0, err
	}

	written := 0
	for _, m := range dirs {
		target := filepath.Join(m.Path, layout.Interactive)
		if _, err := os.Stat(target); err == nil {
			continue
		}
		g, _, err := network.LoadDir(m.Path, layout.Network)
		if err != nil {
			continue // the aggregator skips it too
		}
		html, err := renderNetwork(g, "Module "+m.Name, viz.DefaultOptions(), viz.DefaultHubs)
		if err != nil {
			return written, err
		}
		if err := deliver.WriteFileAtomic(target, []byte(html)); err != nil {
			return written, err
		}
		log.Debug("rendered interactive view", zap.String("module", m.Name))
		written++
	}
	return written, nil
}
