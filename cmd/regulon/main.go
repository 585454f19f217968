// Package main provides the regulon CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// verbose enables debug logging
var verbose bool

// logger is built in PersistentPreRunE; it writes to stderr so stdout
// stays machine-readable.
var logger = zap.NewNop()

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "regulon",
	Short: "Label interactome modules and assemble run deliverables",
	Long: `regulon turns per-module interactome artifacts into a browsable deliverable.

A run directory holds one C<n> subdirectory per detected module, each with a
network artifact and optional label, enrichment, and visualization files.

Core features:
  - Rule-based module labeling from hub and member genes
  - Plain or paper-style module summaries
  - Text, TSV, JSONL, and HTML run summaries
  - GraphML and Cytoscape-ready module archives
  - Export of module artifacts from the interactome service
  - Run history in SQLite

All commands output JSON by default; use --human for readable text.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Version = Version
}
