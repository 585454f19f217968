package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/regulon/internal/config"
	"github.com/matsen/regulon/internal/deliver"
	"github.com/matsen/regulon/internal/storage"
)

var historyLimit int

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum runs to list (0 for all)")
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded aggregation runs",
	Long: `List aggregation runs recorded in the history database, newest first.

The database lives at $XDG_CONFIG_HOME/regulon/history.db unless history_path
is set in the global config.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the modules of a recorded run",
	Long:  `Show the module rows stored with a run. A unique prefix of the run ID is enough.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

// HistoryResponse is the JSON output of the history command.
type HistoryResponse struct {
	Path string        `json:"path"`
	Runs []storage.Run `json:"runs"`
}

// HistoryShowResponse is the JSON output of history show.
type HistoryShowResponse struct {
	RunID   string              `json:"run_id"`
	Modules []storage.RunModule `json:"modules"`
}

func runHistory(cmd *cobra.Command, args []string) error {
	db := mustOpenHistory()
	defer db.Close()

	runs, err := db.ListRuns(historyLimit)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if runs == nil {
		runs = []storage.Run{}
	}

	if !humanOutput {
		return outputJSON(HistoryResponse{Path: config.HistoryPath(), Runs: runs})
	}
	if len(runs) == 0 {
		outputHuman("No runs recorded.\n")
		return nil
	}
	for _, r := range runs {
		outputHuman("%s  %s  %-5s  %3d modules  %s\n",
			r.ID[:8], r.GeneratedAt.Local().Format(deliver.TimestampLayout), r.Tone, r.ModuleCount, r.RunDir)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	db := mustOpenHistory()
	defer db.Close()

	id, modules, err := db.RunModules(args[0])
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	if modules == nil {
		modules = []storage.RunModule{}
	}

	if !humanOutput {
		return outputJSON(HistoryShowResponse{RunID: id, Modules: modules})
	}
	outputHuman("Run %s\n", id)
	for _, m := range modules {
		outputHuman("  %-4s n=%-4d %s [%s]\n", m.Module, m.Size, m.Label, m.LabelSource)
		if m.Hubs != "" {
			outputHuman("       hubs: %s\n", m.Hubs)
		}
	}
	return nil
}
