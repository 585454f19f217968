package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/regulon/internal/label"
)

var rulesFile string

func init() {
	rulesCmd.Flags().StringVar(&rulesFile, "rules", "", "YAML rule table (default from regulon.yml, else built-in)")
	rootCmd.AddCommand(rulesCmd)
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the active labeling rule table",
	Long: `Print the rules used by label and aggregate --auto-label, in priority order.

A custom table is a YAML file:

  rules:
    - label: Cell cycle / mitosis
      patterns: ["^CDK", "^CCN", "^CDC"]`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

// RulesResponse is the JSON output of the rules command.
type RulesResponse struct {
	Source string           `json:"source"`
	Rules  []label.RuleSpec `json:"rules"`
}

func runRules(cmd *cobra.Command, args []string) error {
	cfg := mustLoadProject()
	rules := mustLoadRules(rulesFile, cfg)

	source := rulesFile
	if source == "" {
		source = cfg.RulesFile
	}
	if source == "" {
		source = "built-in"
	}

	if !humanOutput {
		return outputJSON(RulesResponse{Source: source, Rules: rules.Specs()})
	}
	outputHuman("Rules (%s):\n", source)
	for i, r := range rules.Specs() {
		outputHuman("%2d. %s\n    %s\n", i+1, r.Label, strings.Join(r.Patterns, "  "))
	}
	return nil
}
