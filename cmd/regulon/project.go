package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/matsen/regulon/internal/config"
	"github.com/matsen/regulon/internal/deliver"
	"github.com/matsen/regulon/internal/label"
	"github.com/matsen/regulon/internal/storage"
)

// mustLoadProject loads regulon.yml from the working directory upward,
// falling back to defaults. Exits on a malformed file.
func mustLoadProject() *config.Config {
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}
	cfg, err := config.LoadFrom(cwd)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// layoutFromConfig maps file-name overrides onto the deliverable layout.
func layoutFromConfig(cfg *config.Config) deliver.Layout {
	f := cfg.Files
	return deliver.Layout{
		Network:     f.Network,
		Label:       f.Label,
		Enrichment:  f.Enrichment,
		Interactive: f.Interactive,
		Hubs:        f.Hubs,
		GraphML:     f.GraphML,
		Report:      f.Report,
		Archive:     f.Archive,
	}.Merge()
}

// mustLoadRules loads the rule table from flagPath, then the project's
// rules_file, then the built-in table.
func mustLoadRules(flagPath string, cfg *config.Config) label.RuleSet {
	path := flagPath
	if path == "" {
		path = cfg.RulesFile
	}
	rules, err := label.LoadRulesOrDefault(config.ExpandTilde(path))
	if err != nil {
		exitWithError(ExitConfigError, "loading rules: %v", err)
	}
	return rules
}

// labelerFor returns the auto-labeler when the flag or regulon.yml asks
// for one, nil otherwise.
func labelerFor(autoLabel bool, rulesFlag string, cfg *config.Config) *label.Labeler {
	if !autoLabel && !cfg.AutoLabel {
		return nil
	}
	return label.NewLabeler(mustLoadRules(rulesFlag, cfg))
}

// openHistory opens the run history database for recording. Recording is
// best effort, so a failure is logged and nil returned.
func openHistory(log *zap.Logger) *storage.DB {
	path := config.ExpandTilde(config.HistoryPath())
	db, err := storage.OpenDB(path)
	if err != nil {
		log.Warn("run history unavailable, not recording", zap.String("path", path), zap.Error(err))
		return nil
	}
	return db
}

// mustOpenHistory opens the run history database, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenHistory() *storage.DB {
	db, err := storage.OpenDB(config.ExpandTilde(config.HistoryPath()))
	if err != nil {
		exitWithError(ExitError, "opening history: %v", err)
	}
	return db
}

// mustRunDir checks that a run directory exists.
func mustRunDir(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		exitWithError(ExitDataError, "run directory: %v", err)
	}
	if !info.IsDir() {
		exitWithError(ExitDataError, "run directory: %s is not a directory", path)
	}
	return path
}
