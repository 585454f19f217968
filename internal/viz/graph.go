package viz

import (
	"github.com/matsen/regulon/internal/network"
)

// DefaultHubs is how many top-degree nodes are emphasized.
const DefaultHubs = 10

// FromNetwork converts a module network into render data. Endpoints that
// are not declared as nodes are added so every edge can be drawn; edges
// with an empty endpoint are dropped.
func FromNetwork(g *network.Graph, title string, hubs int) *GraphData {
	data := &GraphData{Title: title, Nodes: []Node{}, Edges: []Edge{}}
	if g == nil {
		return data
	}
	if hubs <= 0 {
		hubs = DefaultHubs
	}

	degree := network.Degree(g.Edges)
	isHub := make(map[string]bool)
	for _, id := range network.TopHubIDs(g.Edges, hubs) {
		isHub[id] = true
	}

	seen := make(map[string]bool, len(g.Nodes))
	addNode := func(n network.Node) {
		if n.ID == "" || seen[n.ID] {
			return
		}
		seen[n.ID] = true
		label := n.Label
		if label == "" {
			label = n.ID
		}
		data.Nodes = append(data.Nodes, Node{
			ID:      n.ID,
			Label:   label,
			Kind:    n.Kind,
			Sources: n.Sources.String(),
			Degree:  degree[n.ID],
			Hub:     isHub[n.ID],
		})
	}

	for _, n := range g.Nodes {
		addNode(n)
	}
	for _, e := range g.Edges {
		if e.Source == "" || e.Target == "" {
			continue
		}
		addNode(network.Node{ID: e.Source})
		addNode(network.Node{ID: e.Target})
		data.Edges = append(data.Edges, Edge{
			Source:   e.Source,
			Target:   e.Target,
			Kind:     e.Kind,
			SourceDB: e.SourceDB,
			Score:    e.ScoreOrZero(),
		})
	}
	return data
}
