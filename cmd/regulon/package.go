package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/regulon/internal/deliver"
)

func init() {
	rootCmd.AddCommand(packageCmd)
}

var packageCmd = &cobra.Command{
	Use:   "package <run-dir>",
	Short: "Write GraphML and Cytoscape archives for every module",
	Long: `Write module.graphml and module.zip into each module directory.

The archive holds module.graphml, nodes.csv, edges.csv, module_network.json,
and hubs.png when the module has one. Modules without a network are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runPackage,
}

// PackageResponse is the JSON output of the package command.
type PackageResponse struct {
	RunDir  string             `json:"run_dir"`
	Modules []deliver.Packaged `json:"modules"`
}

func runPackage(cmd *cobra.Command, args []string) error {
	runDir := mustRunDir(args[0])
	cfg := mustLoadProject()

	agg := deliver.NewAggregator()
	agg.Layout = layoutFromConfig(cfg)
	agg.Logger = logger

	done, err := agg.PackageAll(runDir)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	if done == nil {
		done = []deliver.Packaged{}
	}

	if !humanOutput {
		return outputJSON(PackageResponse{RunDir: runDir, Modules: done})
	}
	outputHuman("Packaged %d modules in %s\n", len(done), runDir)
	for _, p := range done {
		outputHuman("  %s: %s (%d entries)\n", p.Module, p.Archive, len(p.Entries))
	}
	return nil
}
