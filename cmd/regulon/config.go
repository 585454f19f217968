package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matsen/regulon/internal/config"
)

var configInitForce bool

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing regulon.yml")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a regulon.yml with default settings in the current directory",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

// ConfigResponse is the resolved configuration.
type ConfigResponse struct {
	ProjectFile string         `json:"project_file,omitempty"`
	GlobalFile  string         `json:"global_file"`
	APIURL      string         `json:"api_url"`
	HistoryPath string         `json:"history_path"`
	Project     *config.Config `json:"project"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}
	projectFile, err := config.FindProjectFile(cwd)
	if err != nil && !errors.Is(err, config.ErrNoProjectFile) {
		exitWithError(ExitConfigError, "%v", err)
	}

	resp := ConfigResponse{
		ProjectFile: projectFile,
		GlobalFile:  config.GlobalConfigPath(),
		APIURL:      config.GetAPIURL(),
		HistoryPath: config.HistoryPath(),
		Project:     mustLoadProject(),
	}

	if !humanOutput {
		return outputJSON(resp)
	}
	if resp.ProjectFile == "" {
		resp.ProjectFile = "(none, using defaults)"
	}
	outputHuman("project file: %s\n", resp.ProjectFile)
	outputHuman("global file:  %s\n", resp.GlobalFile)
	outputHuman("api url:      %s\n", resp.APIURL)
	outputHuman("history:      %s\n", resp.HistoryPath)
	outputHuman("tone:         %s\n", resp.Project.Tone)
	outputHuman("top k:        %d\n", resp.Project.TopK)
	outputHuman("min size:     %d\n", resp.Project.MinSize)
	outputHuman("seeds:        %s\n", orNone(resp.Project.Seeds, ", "))
	outputHuman("sources:      %s\n", orNone(resp.Project.Sources, ", "))
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.ProjectFile
	if _, err := os.Stat(path); err == nil && !configInitForce {
		exitWithError(ExitConfigError, "%s already exists (use --force to overwrite)", path)
	}
	if err := config.Default().Save(path); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	abs, _ := filepath.Abs(path)
	if !humanOutput {
		return outputJSON(StatusResponse{Status: "created", Path: abs})
	}
	outputHuman("Created %s\n", abs)
	return nil
}
