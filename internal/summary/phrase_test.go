package summary

import (
	"testing"

	"github.com/matsen/regulon/internal/label"
)

func TestPhrase(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Cell cycle / mitosis", "cell-cycle progression and mitotic control"},
		{"CHROMATIN / TRANSCRIPTION REGULATION", "chromatin remodeling and transcriptional control"},
		{"RNA processing / splicing", "post-transcriptional RNA processing and splicing"},
		{"Signaling (MAPK/PI3K/AKT)", "kinase-driven signal transduction"},
		{"Uncategorized", GenericPhrase},
		{"", GenericPhrase},
	}

	for _, tt := range tests {
		if got := Phrase(DefaultPhrases, tt.label); got != tt.want {
			t.Errorf("Phrase(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}

func TestPhrase_CoversDefaultLabels(t *testing.T) {
	for _, spec := range label.DefaultSpecs {
		if got := Phrase(DefaultPhrases, spec.Label); got == GenericPhrase {
			t.Errorf("default label %q has no phrase", spec.Label)
		}
	}
}

func TestPhrase_CustomTable(t *testing.T) {
	rules := []PhraseRule{{Keywords: []string{"hypoxia"}, Phrase: "the hypoxic response"}}
	if got := Phrase(rules, "Hypoxia / HIF"); got != "the hypoxic response" {
		t.Errorf("Phrase() = %q", got)
	}
	if got := Phrase(nil, "Hypoxia / HIF"); got != GenericPhrase {
		t.Errorf("Phrase(nil) = %q, want generic", got)
	}
}
