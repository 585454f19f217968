// Package viz renders module networks as self-contained Cytoscape.js pages.
package viz

// GraphData contains all data needed to render the visualization.
type GraphData struct {
	Title string `json:"title"`
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is a gene or transcript in the module.
type Node struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Kind    string `json:"kind"` // e.g. "protein", "rna"
	Sources string `json:"sources,omitempty"`

	// Sizing and emphasis
	Degree int  `json:"degree"`
	Hub    bool `json:"hub"`
}

// Edge is an interaction between two module members.
type Edge struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Kind     string  `json:"kind"`
	SourceDB string  `json:"sourceDb,omitempty"`
	Score    float64 `json:"score"`
}

// IsEmpty returns true if the graph has no nodes.
func (g *GraphData) IsEmpty() bool {
	return len(g.Nodes) == 0
}
