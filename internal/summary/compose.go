package summary

import (
	"fmt"
	"strings"

	"github.com/matsen/regulon/internal/label"
)

// Tone selects the register of the composed text.
type Tone string

const (
	TonePlain Tone = "plain"
	TonePaper Tone = "paper"
)

// ParseTone accepts "plain" or "paper" (case-insensitive); empty means plain.
func ParseTone(s string) (Tone, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "plain":
		return TonePlain, nil
	case "paper":
		return TonePaper, nil
	default:
		return "", fmt.Errorf("invalid tone %q: must be plain or paper", s)
	}
}

// Display limits.
const (
	MaxSummaryHubs = 6
	MaxPaperTerms  = 3
	noHubsText     = "no dominant hubs"
	unnamedModule  = "(unnamed)"
)

// Input describes one labeled module.
type Input struct {
	Module string
	Size   int
	Label  string
	Hubs   []string
	Terms  []string
	Tone   Tone
}

// Composer turns labeled modules into sentences.
type Composer struct {
	Phrases []PhraseRule
}

// NewComposer returns a composer using DefaultPhrases.
func NewComposer() *Composer {
	return &Composer{Phrases: DefaultPhrases}
}

// Compose returns the description of a module. It never fails: missing
// fields are replaced by placeholders.
func (c *Composer) Compose(in Input) string {
	in = withDefaults(in)
	if in.Tone == TonePaper {
		return c.paper(in)
	}
	return plain(in)
}

// Compose is Composer.Compose with the default phrase table.
func Compose(in Input) string {
	return NewComposer().Compose(in)
}

func withDefaults(in Input) Input {
	if strings.TrimSpace(in.Module) == "" {
		in.Module = unnamedModule
	}
	if strings.TrimSpace(in.Label) == "" {
		in.Label = label.Uncategorized
	}
	if in.Size < 0 {
		in.Size = 0
	}
	in.Hubs = nonEmpty(in.Hubs)
	in.Terms = nonEmpty(in.Terms)
	return in
}

func plain(in Input) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Module %s (n=%d) is best described as %s", in.Module, in.Size, in.Label)
	if len(in.Hubs) > 0 {
		fmt.Fprintf(&sb, ", driven by hubs such as %s.", strings.Join(head(in.Hubs, MaxSummaryHubs), ", "))
	} else {
		fmt.Fprintf(&sb, ", with %s identified.", noHubsText)
	}
	if len(in.Terms) > 0 {
		fmt.Fprintf(&sb, " Enrichment highlights: %s.", strings.Join(in.Terms, "; "))
	} else {
		sb.WriteString(" No enrichment results were retrieved.")
	}
	return sb.String()
}

func (c *Composer) paper(in Input) string {
	phrase := Phrase(c.Phrases, in.Label)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Module %s (n=%d nodes) was annotated as %s", in.Module, in.Size, in.Label)
	if len(in.Hubs) > 0 {
		fmt.Fprintf(&sb, " and is organized around the hub genes %s.", strings.Join(head(in.Hubs, MaxSummaryHubs), ", "))
	} else {
		fmt.Fprintf(&sb, " and shows %s.", noHubsText)
	}
	if len(in.Terms) > 0 {
		fmt.Fprintf(&sb, " Its composition is consistent with %s, and functional enrichment supports this interpretation, with leading terms including %s.",
			phrase, strings.Join(head(in.Terms, MaxPaperTerms), "; "))
	} else {
		fmt.Fprintf(&sb, " Enrichment results were unavailable for this module; nevertheless, its hub composition is consistent with %s.", phrase)
	}
	return sb.String()
}

func head(xs []string, n int) []string {
	if len(xs) > n {
		return xs[:n]
	}
	return xs
}

func nonEmpty(xs []string) []string {
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		if x = strings.TrimSpace(x); x != "" {
			out = append(out, x)
		}
	}
	return out
}
