package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/regulon/internal/storage"
	"github.com/matsen/regulon/internal/summary"
)

var (
	summarizeModule string
	summarizeSize   int
	summarizeLabel  string
	summarizeHubs   []string
	summarizeTerms  []string
	summarizeTone   string
	summarizeFrom   string
)

func init() {
	summarizeCmd.Flags().StringVar(&summarizeModule, "module", "", "Module name, e.g. C0")
	summarizeCmd.Flags().IntVar(&summarizeSize, "size", 0, "Module size in nodes")
	summarizeCmd.Flags().StringVar(&summarizeLabel, "label", "", "Module label (default Uncategorized)")
	summarizeCmd.Flags().StringArrayVar(&summarizeHubs, "hub", nil, "Hub gene (repeatable, most connected first)")
	summarizeCmd.Flags().StringArrayVar(&summarizeTerms, "term", nil, "Enrichment term (repeatable)")
	summarizeCmd.Flags().StringVar(&summarizeTone, "tone", "plain", "Summary tone: plain or paper")
	summarizeCmd.Flags().StringVar(&summarizeFrom, "from", "", "Recompose every module of a modules_summary.jsonl")
	rootCmd.AddCommand(summarizeCmd)
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Compose a module summary sentence",
	Long: `Compose the summary sentence for one module from its facts.

With --from, the facts come from an aggregated run's JSONL file and one
sentence is composed per module, e.g. to re-word a run in another tone.

Examples:
  regulon summarize --module C0 --size 42 --label "Apoptosis / p53 axis" --hub TP53 --hub MDM2
  regulon summarize --module C1 --size 18 --tone paper --term "DNA repair"
  regulon summarize --from runs/tp53/modules_summary.jsonl --tone paper`,
	Args: cobra.NoArgs,
	RunE: runSummarize,
}

// SummaryResponse is the JSON output of the summarize command.
type SummaryResponse struct {
	Module  string       `json:"module"`
	Tone    summary.Tone `json:"tone"`
	Summary string       `json:"summary"`
}

func runSummarize(cmd *cobra.Command, args []string) error {
	tone, err := summary.ParseTone(summarizeTone)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	if summarizeFrom != "" {
		out, err := summarizeRecords(summarizeFrom, tone)
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		if !humanOutput {
			return outputJSON(out)
		}
		for _, s := range out {
			outputHuman("%s\n", s.Summary)
		}
		return nil
	}

	text := summary.Compose(summary.Input{
		Module: summarizeModule,
		Size:   summarizeSize,
		Label:  summarizeLabel,
		Hubs:   summarizeHubs,
		Terms:  summarizeTerms,
		Tone:   tone,
	})

	if humanOutput {
		outputHuman("%s\n", text)
		return nil
	}
	return outputJSON(SummaryResponse{Module: summarizeModule, Tone: tone, Summary: text})
}

// summarizeRecords recomposes the summary of every record in a JSONL file.
func summarizeRecords(path string, tone summary.Tone) ([]SummaryResponse, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	records, err := storage.ReadRecords(path)
	if err != nil {
		return nil, err
	}
	composer := summary.NewComposer()
	out := make([]SummaryResponse, 0, len(records))
	for _, r := range records {
		out = append(out, SummaryResponse{
			Module: r.Module,
			Tone:   tone,
			Summary: composer.Compose(summary.Input{
				Module: r.Module,
				Size:   r.Size,
				Label:  r.Label,
				Hubs:   r.Hubs,
				Terms:  r.Terms,
				Tone:   tone,
			}),
		})
	}
	return out, nil
}
