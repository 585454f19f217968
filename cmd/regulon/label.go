package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matsen/regulon/internal/label"
	"github.com/matsen/regulon/internal/network"
)

var (
	labelRules   string
	labelTopHubs int
)

func init() {
	labelCmd.Flags().StringVar(&labelRules, "rules", "", "YAML rule table (default from regulon.yml, else built-in)")
	labelCmd.Flags().IntVar(&labelTopHubs, "top-hubs", label.DefaultTopHubs, "Number of hubs weighted in the score")
	rootCmd.AddCommand(labelCmd)
}

var labelCmd = &cobra.Command{
	Use:   "label <network.json | module-dir>",
	Short: "Label one module network",
	Long: `Label a module from its network artifact.

Each rule scores 3 per matching hub and 1 per matching member gene; the
highest score wins and ties go to the rule listed first. A module that
matches nothing is "Uncategorized".

Examples:
  regulon label runs/tp53/C0
  regulon label module.json --rules my_rules.yml --human`,
	Args: cobra.ExactArgs(1),
	RunE: runLabel,
}

// LabelResponse mirrors the service's /module/label payload.
type LabelResponse struct {
	Path       string        `json:"path"`
	ModuleSize int           `json:"module_size"`
	Label      string        `json:"label"`
	Score      int           `json:"score"`
	Evidence   LabelEvidence `json:"evidence"`
}

// LabelEvidence lists what the score was computed from.
type LabelEvidence struct {
	HubHits      []string `json:"hub_hits"`
	GeneHits     []string `json:"gene_hits"`
	RulePatterns []string `json:"rule_patterns"`
	TopHubs      []string `json:"top_hubs"`
}

func runLabel(cmd *cobra.Command, args []string) error {
	cfg := mustLoadProject()
	labeler := label.NewLabeler(mustLoadRules(labelRules, cfg))
	labeler.TopHubs = labelTopHubs

	g, path := mustLoadNetwork(args[0], layoutFromConfig(cfg).Network)
	ev := labeler.LabelGraph(g)

	resp := LabelResponse{
		Path:       path,
		ModuleSize: g.Size(),
		Label:      ev.Label,
		Score:      ev.Score,
		Evidence: LabelEvidence{
			HubHits:      ev.HubHits,
			GeneHits:     ev.GeneHits,
			RulePatterns: ev.Patterns,
			TopHubs:      ev.TopHubs,
		},
	}

	if !humanOutput {
		return outputJSON(resp)
	}
	outputHuman("%s (score %d)\n", resp.Label, resp.Score)
	outputHuman("  size:      %d\n", resp.ModuleSize)
	outputHuman("  hub hits:  %s\n", orNone(resp.Evidence.HubHits, ", "))
	outputHuman("  gene hits: %s\n", orNone(resp.Evidence.GeneHits, ", "))
	outputHuman("  top hubs:  %s\n", orNone(resp.Evidence.TopHubs, ", "))
	return nil
}

// mustLoadNetwork loads a network file, or the network artifact of a
// module directory. Exits on error.
func mustLoadNetwork(path, primary string) (*network.Graph, string) {
	info, err := os.Stat(path)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	if info.IsDir() {
		g, found, err := network.LoadDir(path, primary)
		if err != nil {
			exitWithError(ExitDataError, "loading network from %s: %v", path, err)
		}
		return g, found
	}
	g, err := network.LoadFile(path)
	if err != nil {
		exitWithError(ExitDataError, "loading network: %v", err)
	}
	return g, filepath.Clean(path)
}
