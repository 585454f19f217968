package label

import (
	"sort"
	"strings"
)

// Score weights and evidence caps.
const (
	HubWeight  = 3
	GeneWeight = 1

	MaxHubHits  = 30
	MaxGeneHits = 80
)

// Result is the outcome of classifying a module.
type Result struct {
	Label    string   `json:"label"`
	Score    int      `json:"score"`
	HubHits  []string `json:"hub_hits"`
	GeneHits []string `json:"gene_hits"`
	Patterns []string `json:"rule_patterns"`
}

// uncategorized returns the zero-score result.
func uncategorized() Result {
	return Result{Label: Uncategorized, HubHits: []string{}, GeneHits: []string{}, Patterns: []string{}}
}

// Classify scores every rule as HubWeight per distinct matching hub plus
// GeneWeight per distinct matching member and returns the highest-scoring
// rule. Identifiers are trimmed and uppercased before matching. Ties go to
// the rule declared first; a table with no positive score yields Uncategorized.
func Classify(rules RuleSet, hubs, members []string) Result {
	hubSet := normalize(hubs)
	geneSet := normalize(members)

	best := uncategorized()
	for _, r := range rules.rules {
		hubHits := matching(r, hubSet)
		geneHits := matching(r, geneSet)

		score := HubWeight*len(hubHits) + GeneWeight*len(geneHits)
		if score > best.Score {
			best = Result{
				Label:    r.label,
				Score:    score,
				HubHits:  capped(hubHits, MaxHubHits),
				GeneHits: capped(geneHits, MaxGeneHits),
				Patterns: r.Patterns(),
			}
		}
	}
	return best
}

// normalize uppercases, trims, and deduplicates identifiers.
func normalize(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.ToUpper(strings.TrimSpace(id))
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// matching returns the sorted identifiers the rule matches.
func matching(r Rule, ids []string) []string {
	hits := []string{}
	for _, id := range ids {
		if r.Match(id) {
			hits = append(hits, id)
		}
	}
	sort.Strings(hits)
	return hits
}

func capped(ids []string, n int) []string {
	if len(ids) > n {
		return ids[:n]
	}
	return ids
}
