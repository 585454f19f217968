// Package summary composes the one-sentence module descriptions used in the
// deliverable index and summary files.
package summary

import "strings"

// GenericPhrase describes modules whose label matches no phrase rule.
const GenericPhrase = "a heterogeneous interaction program"

// PhraseRule maps label keywords onto a biological-process phrase.
type PhraseRule struct {
	Keywords []string
	Phrase   string
}

// DefaultPhrases covers the labels of the default pathway table.
// Rules are checked in order and keywords match case-insensitively.
var DefaultPhrases = []PhraseRule{
	{Keywords: []string{"cell cycle", "mitosis"}, Phrase: "cell-cycle progression and mitotic control"},
	{Keywords: []string{"dna damage", "repair"}, Phrase: "the DNA damage response and genome maintenance"},
	{Keywords: []string{"apoptosis", "cell death"}, Phrase: "the regulation of programmed cell death"},
	{Keywords: []string{"chromatin", "transcription"}, Phrase: "chromatin remodeling and transcriptional control"},
	{Keywords: []string{"ubiquitin", "proteasome"}, Phrase: "ubiquitin-dependent protein turnover"},
	{Keywords: []string{"splicing", "rna processing"}, Phrase: "post-transcriptional RNA processing and splicing"},
	{Keywords: []string{"translation", "ribosome"}, Phrase: "ribosome biogenesis and protein synthesis"},
	{Keywords: []string{"signaling", "signalling", "mapk", "pi3k", "akt"}, Phrase: "kinase-driven signal transduction"},
	{Keywords: []string{"immune", "interferon", "inflamm"}, Phrase: "immune and inflammatory signaling"},
	{Keywords: []string{"metabol"}, Phrase: "metabolic regulation"},
}

// Phrase translates a label into a process phrase using rules, falling back
// to GenericPhrase.
func Phrase(rules []PhraseRule, label string) string {
	l := strings.ToLower(label)
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if kw != "" && strings.Contains(l, strings.ToLower(kw)) {
				return r.Phrase
			}
		}
	}
	return GenericPhrase
}
