package deliver

import (
	"encoding/json"
	"os"
	"strings"
)

// TermNameKeys are the fields that may carry an enrichment term's display
// name, in priority order. g:Profiler results use term_name (or name),
// Enrichr rows are converted to term, and term_id is the last resort.
var TermNameKeys = []string{"term_name", "name", "term", "term_id"}

// labelArtifact is the label.json layout.
type labelArtifact struct {
	Label string `json:"label"`
}

// enrichmentArtifact is the enrich.json layout.
type enrichmentArtifact struct {
	Tool  string           `json:"tool,omitempty"`
	Terms []map[string]any `json:"terms"`
}

// LoadLabel reads the label from a label artifact. The boolean is false when
// the file is missing, malformed, or carries an empty label.
func LoadLabel(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}

	var a labelArtifact
	if err := json.Unmarshal(data, &a); err != nil {
		return "", false
	}
	l := strings.TrimSpace(a.Label)
	return l, l != ""
}

// LoadTerms reads up to limit term names from an enrichment artifact. Terms
// without any usable name are skipped. The boolean is false when the file
// is missing or malformed.
func LoadTerms(path string, limit int) ([]string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var a enrichmentArtifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, false
	}

	names := []string{}
	for _, t := range a.Terms {
		if limit >= 0 && len(names) >= limit {
			break
		}
		if name, ok := TermName(t); ok {
			names = append(names, name)
		}
	}
	return names, true
}

// TermName returns the first non-empty string among TermNameKeys.
func TermName(term map[string]any) (string, bool) {
	for _, key := range TermNameKeys {
		v, ok := term[key].(string)
		if !ok {
			continue
		}
		if v = strings.TrimSpace(v); v != "" {
			return v, true
		}
	}
	return "", false
}
