package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/matsen/regulon/internal/config"
	"github.com/matsen/regulon/internal/interactome"
	"github.com/matsen/regulon/internal/summary"
)

// Environment knobs shared with the interactome service.
const (
	EnvPoliteDelay    = "POLITE_DELAY_SECONDS"
	EnvRequestTimeout = "REQUEST_TIMEOUT_SECONDS"
)

var (
	exportSeeds     []string
	exportTopK      int
	exportMinSize   int
	exportTopHubs   int
	exportSources   string
	exportAggregate bool
)

func init() {
	// Load .env file if present (for REGULON_API_URL / REGULON_API_KEY)
	_ = godotenv.Load()

	exportCmd.Flags().StringArrayVar(&exportSeeds, "seed", nil, "Seed gene (repeatable; default from regulon.yml)")
	exportCmd.Flags().IntVar(&exportTopK, "top-k", 0, "Number of modules to export (default from regulon.yml, else 3)")
	exportCmd.Flags().IntVar(&exportMinSize, "min-size", 0, "Minimum community size (default from regulon.yml, else 3)")
	exportCmd.Flags().IntVar(&exportTopHubs, "top-hubs", 0, "Hubs used for labels and hub plots (service default when 0)")
	exportCmd.Flags().StringVar(&exportSources, "sources", "", "Comma-separated interaction sources")
	exportCmd.Flags().BoolVar(&exportAggregate, "aggregate", false, "Aggregate the run after exporting")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <run-dir>",
	Short: "Fetch module artifacts from the interactome service",
	Long: `Export the top modules of a seed network into a run directory.

For each community C0..C<top-k - 1> the service's module endpoints are
fetched into <run-dir>/C<n>/: network.json, label.json, enrich.json,
network.html, hubs.png, and report.html. Only the network is required; other
artifacts that fail are reported and skipped.

The service URL comes from REGULON_API_URL, the global config, or
http://127.0.0.1:8000. POLITE_DELAY_SECONDS spaces requests and
REQUEST_TIMEOUT_SECONDS bounds each one.

Examples:
  regulon export runs/tp53 --seed TP53 --top-k 5
  regulon export runs/brca --seed BRCA1 --seed BRCA2 --sources string_ppi --aggregate`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

// ExportResponse is the JSON output of the export command.
type ExportResponse struct {
	RunDir    string                     `json:"run_dir"`
	BaseURL   string                     `json:"base_url"`
	Modules   []interactome.ModuleExport `json:"modules"`
	Aggregate *AggregateResponse         `json:"aggregate,omitempty"`
}

func runExport(cmd *cobra.Command, args []string) error {
	runDir := args[0]
	cfg := mustLoadProject()

	params := interactome.Params{
		Seeds:   cfg.Seeds,
		Sources: cfg.Sources,
		MinSize: cfg.MinSize,
		TopHubs: exportTopHubs,
	}
	if len(exportSeeds) > 0 {
		params.Seeds = exportSeeds
	}
	if exportSources != "" {
		params.Sources = splitList(exportSources)
	}
	if exportMinSize > 0 {
		params.MinSize = exportMinSize
	}
	topK := cfg.TopK
	if exportTopK > 0 {
		topK = exportTopK
	}
	if err := params.Validate(); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	client := newExportClient(config.GetAPIURL(), config.GetAPIKey())
	exporter := interactome.NewExporter(client)
	exporter.Layout = layoutFromConfig(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := client.Health(ctx); err != nil {
		exitExportError(err, client, 0)
	}
	done, err := exporter.ExportRun(ctx, runDir, topK, params)
	if err != nil {
		exitExportError(err, client, len(done))
	}
	if done == nil {
		done = []interactome.ModuleExport{}
	}

	resp := ExportResponse{RunDir: runDir, BaseURL: client.BaseURL(), Modules: done}
	if exportAggregate {
		tone, err := summary.ParseTone(cfg.Tone)
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		opts := aggregateOptions{
			Tone:    tone,
			Layout:  exporter.Layout,
			Labeler: labelerFor(false, "", cfg),
			Logger:  logger,
		}
		if db := openHistory(logger); db != nil {
			defer db.Close()
			opts.History = db
		}
		agg, err := aggregateRun(runDir, opts)
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		resp.Aggregate = &agg
	}

	if !humanOutput {
		return outputJSON(resp)
	}
	outputHuman("Exported %d modules from %s into %s\n", len(done), resp.BaseURL, runDir)
	for _, m := range done {
		outputHuman("  %s (n=%d): %d files", m.Module, m.Size, len(m.Files))
		if len(m.Skipped) > 0 {
			kinds := make([]string, len(m.Skipped))
			for i, s := range m.Skipped {
				kinds[i] = s.Kind
			}
			outputHuman(", skipped %s", strings.Join(kinds, ", "))
		}
		outputHuman("\n")
	}
	if resp.Aggregate != nil {
		outputHuman("Aggregated %d modules: %s\n", resp.Aggregate.Modules, resp.Aggregate.Outputs.Index)
	}
	return nil
}

// newExportClient builds the service client. Environment knobs only
// replace the client defaults when they are set.
func newExportClient(baseURL, apiKey string) *interactome.Client {
	opts := []interactome.ClientOption{
		interactome.WithBaseURL(baseURL),
		interactome.WithAPIKey(apiKey),
		interactome.WithLogger(logger),
	}
	if d, ok := envSeconds(EnvPoliteDelay); ok {
		opts = append(opts, interactome.WithPoliteDelay(d))
	}
	if d, ok := envSeconds(EnvRequestTimeout); ok {
		opts = append(opts, interactome.WithTimeout(d))
	}
	return interactome.NewClient(opts...)
}

// exitExportError maps a failed health check or export onto an exit code.
func exitExportError(err error, client *interactome.Client, exported int) {
	switch {
	case errors.Is(err, interactome.ErrNetworkError):
		exitWithError(ExitAPIError, "%v\n\nIs the interactome service running at %s?", err, client.BaseURL())
	case interactome.IsRateLimited(err):
		exitWithError(ExitAPIError, "%v\n\nSet %s to space requests further apart and retry.", err, EnvPoliteDelay)
	case errors.Is(err, context.Canceled):
		exitWithError(ExitError, "export interrupted after %d modules", exported)
	default:
		exitWithError(ExitAPIError, "%v", err)
	}
}

// envSeconds reads a duration in (possibly fractional) seconds from the
// environment. The boolean is false when unset or invalid.
func envSeconds(key string) (time.Duration, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	secs, err := strconv.ParseFloat(v, 64)
	if err != nil || secs < 0 {
		logger.Sugar().Warnf("ignoring invalid %s=%q", key, v)
		return 0, false
	}
	return time.Duration(secs * float64(time.Second)), true
}

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
