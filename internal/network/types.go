// Package network models the per-module interaction networks exported by the
// interactome service and computes the degree statistics used for hub labeling.
package network

import (
	"encoding/json"
	"strings"
)

// Graph is a module subnetwork as exported by the service.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
	Meta  Meta   `json:"meta"`
}

// Node is a gene, protein, or RNA in the network.
type Node struct {
	ID      string     `json:"id"`
	Label   string     `json:"label,omitempty"`
	Kind    string     `json:"kind,omitempty"`    // "protein", "rna", ...
	Sources StringList `json:"sources,omitempty"` // originating databases
}

// Edge is an interaction between two nodes. Endpoints need not appear in Nodes.
type Edge struct {
	Source   string   `json:"source"`
	Target   string   `json:"target"`
	Kind     string   `json:"kind,omitempty"`
	SourceDB string   `json:"source_db,omitempty"`
	Score    *float64 `json:"score,omitempty"`
	Support  *int     `json:"support,omitempty"`
}

// Meta carries service-side annotations. Unknown keys are ignored.
type Meta struct {
	Module *ModuleMeta `json:"module,omitempty"`
	Counts *Counts     `json:"counts,omitempty"`
}

// ModuleMeta describes which community the subnetwork was cut from.
type ModuleMeta struct {
	CID     int  `json:"cid"`
	MinSize int  `json:"min_size,omitempty"`
	Size    *int `json:"size,omitempty"`
}

// Counts are the node and edge totals reported by the service.
type Counts struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

// StringList decodes either a JSON array of strings or a comma-separated string.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (s *StringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	*s = nil
	for _, part := range strings.Split(joined, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*s = append(*s, part)
		}
	}
	return nil
}

// String joins the list with commas, the form used in GraphML and CSV.
func (s StringList) String() string {
	return strings.Join(s, ",")
}

// ScoreOrZero returns the edge score, or 0 when the service omitted it.
func (e Edge) ScoreOrZero() float64 {
	if e.Score == nil {
		return 0
	}
	return *e.Score
}

// SupportOrOne returns the number of supporting records, defaulting to 1.
func (e Edge) SupportOrOne() int {
	if e.Support == nil || *e.Support < 1 {
		return 1
	}
	return *e.Support
}

// MemberIDs returns the non-empty node identifiers in declaration order.
func (g *Graph) MemberIDs() []string {
	ids := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID != "" {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// Size returns the module size reported in meta, falling back to the node count.
func (g *Graph) Size() int {
	if g.Meta.Module != nil && g.Meta.Module.Size != nil {
		return *g.Meta.Module.Size
	}
	return len(g.Nodes)
}
