package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/regulon/internal/deliver"
	"github.com/matsen/regulon/internal/label"
	"github.com/matsen/regulon/internal/storage"
	"github.com/matsen/regulon/internal/summary"
)

var (
	aggregateTone      string
	aggregateAutoLabel bool
	aggregatePackage   bool
	aggregateWatch     bool
	aggregateRules     string
	aggregateNoHistory bool
	aggregateRender    bool
)

func init() {
	aggregateCmd.Flags().StringVar(&aggregateTone, "tone", "", "Summary tone: plain or paper (default from regulon.yml, else plain)")
	aggregateCmd.Flags().BoolVar(&aggregateAutoLabel, "auto-label", false, "Label modules without a label artifact from their network")
	aggregateCmd.Flags().BoolVar(&aggregatePackage, "package", false, "Also write GraphML and zip archives for every module")
	aggregateCmd.Flags().BoolVar(&aggregateWatch, "watch", false, "Regenerate whenever module artifacts change")
	aggregateCmd.Flags().StringVar(&aggregateRules, "rules", "", "YAML rule table for --auto-label")
	aggregateCmd.Flags().BoolVar(&aggregateNoHistory, "no-history", false, "Do not record this run in the history database")
	aggregateCmd.Flags().BoolVar(&aggregateRender, "render-missing", false, "Render network.html locally for modules that lack one")
	rootCmd.AddCommand(aggregateCmd)
}

var aggregateCmd = &cobra.Command{
	Use:   "aggregate <run-dir>",
	Short: "Build the run summary, table, and index page",
	Long: `Aggregate every C<n> module directory of a run into:

  modules_summary.txt    one sentence per module
  modules_summary.tsv    module, Size, Label, TopHubs, TopEnrichmentTerms, Summary
  modules_summary.jsonl  one JSON record per module
  index.html             table of contents linking each module's artifacts

Modules without a readable network are skipped. Missing label or enrichment
artifacts fall back to "Uncategorized" and no terms.

Examples:
  regulon aggregate runs/tp53
  regulon aggregate runs/tp53 --tone paper --auto-label
  regulon aggregate runs/tp53 --package --render-missing --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runAggregate,
}

// aggregateOptions are the resolved settings of one aggregation.
type aggregateOptions struct {
	Tone    summary.Tone
	Layout  deliver.Layout
	Labeler *label.Labeler
	Package bool
	Render  bool
	History *storage.DB
	Logger  *zap.Logger
}

// AggregateResponse is the JSON output of the aggregate command.
type AggregateResponse struct {
	RunID    string          `json:"run_id,omitempty"`
	RunDir   string          `json:"run_dir"`
	Tone     summary.Tone    `json:"tone"`
	Modules  int             `json:"modules"`
	Labeled  int             `json:"auto_labeled"`
	Packaged int             `json:"packaged"`
	Rendered int             `json:"rendered"`
	Outputs  deliver.Outputs `json:"outputs"`
	JSONL    string          `json:"jsonl"`
}

func runAggregate(cmd *cobra.Command, args []string) error {
	runDir := mustRunDir(args[0])
	cfg := mustLoadProject()

	toneName := cfg.Tone
	if cmd.Flags().Changed("tone") {
		toneName = aggregateTone
	}
	tone, err := summary.ParseTone(toneName)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	opts := aggregateOptions{
		Tone:    tone,
		Layout:  layoutFromConfig(cfg),
		Package: aggregatePackage,
		Render:  aggregateRender,
		Logger:  logger,
	}
	opts.Labeler = labelerFor(aggregateAutoLabel, aggregateRules, cfg)
	if !aggregateNoHistory {
		if db := openHistory(logger); db != nil {
			defer db.Close()
			opts.History = db
		}
	}

	resp, err := aggregateRun(runDir, opts)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	printAggregate(resp)

	if !aggregateWatch {
		return nil
	}
	return watchRun(runDir, opts)
}

// aggregateRun packages (optionally), aggregates, and writes every output
// of one run directory.
func aggregateRun(runDir string, opts aggregateOptions) (AggregateResponse, error) {
	agg := deliver.NewAggregator()
	agg.Layout = opts.Layout
	agg.Tone = opts.Tone
	agg.Labeler = opts.Labeler
	if opts.Logger != nil {
		agg.Logger = opts.Logger
	}

	resp := AggregateResponse{RunDir: runDir, Tone: opts.Tone}

	// Rendering and packaging come first so the index links their output.
	if opts.Render {
		n, err := renderMissingViews(runDir, agg.Layout.Merge(), agg.Logger)
		if err != nil {
			return resp, err
		}
		resp.Rendered = n
	}
	if opts.Package {
		done, err := agg.PackageAll(runDir)
		if err != nil {
			return resp, err
		}
		resp.Packaged = len(done)
	}

	idx, err := agg.Aggregate(runDir)
	if err != nil {
		return resp, err
	}
	resp.Modules = len(idx.Records)
	for _, r := range idx.Records {
		if r.LabelSource == deliver.LabelFromRules {
			resp.Labeled++
		}
	}

	if resp.Outputs, err = deliver.WriteAll(idx); err != nil {
		return resp, err
	}
	if resp.JSONL, err = storage.WriteIndexJSONL(idx); err != nil {
		return resp, err
	}

	if opts.History != nil {
		id, err := opts.History.RecordRun(idx)
		if err != nil {
			// The deliverable is already on disk; history is best effort.
			agg.Logger.Warn("recording run history", zap.Error(err))
		}
		resp.RunID = id
	}
	return resp, nil
}

func printAggregate(resp AggregateResponse) {
	if !humanOutput {
		outputJSON(resp)
		return
	}
	outputHuman("Aggregated %d modules in %s (%s tone)\n", resp.Modules, resp.RunDir, resp.Tone)
	if resp.Labeled > 0 {
		outputHuman("  auto-labeled: %d\n", resp.Labeled)
	}
	if resp.Rendered > 0 {
		outputHuman("  rendered:     %d\n", resp.Rendered)
	}
	if resp.Packaged > 0 {
		outputHuman("  packaged:     %d\n", resp.Packaged)
	}
	outputHuman("  %s\n  %s\n  %s\n  %s\n", resp.Outputs.Text, resp.Outputs.TSV, resp.JSONL, resp.Outputs.Index)
	if resp.RunID != "" {
		outputHuman("  run id: %s\n", resp.RunID)
	}
}

// watchRun regenerates the deliverable on every debounced change until
// interrupted.
func watchRun(runDir string, opts aggregateOptions) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := deliver.NewWatcher(runDir, opts.Layout, logger)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer w.Close()

	logger.Info("watching run directory", zap.String("run_dir", runDir))
	return w.Run(ctx, func() {
		resp, err := aggregateRun(runDir, opts)
		if err != nil {
			logger.Error("regenerating deliverable", zap.Error(err))
			return
		}
		printAggregate(resp)
	})
}
