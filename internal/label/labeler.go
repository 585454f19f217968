package label

import "github.com/matsen/regulon/internal/network"

// DefaultTopHubs is the number of hubs considered when labeling a module.
const DefaultTopHubs = 20

// Labeler assigns labels to module networks.
type Labeler struct {
	Rules   RuleSet
	TopHubs int
}

// NewLabeler returns a labeler over rules using DefaultTopHubs.
func NewLabeler(rules RuleSet) *Labeler {
	return &Labeler{Rules: rules, TopHubs: DefaultTopHubs}
}

// Evidence is a labeling result together with the hubs it was computed from.
type Evidence struct {
	Result
	TopHubs []string `json:"top_hubs"`
}

// Label classifies a module from its network and full member list.
func (l *Labeler) Label(g *network.Graph, members []string) Evidence {
	n := l.TopHubs
	if n <= 0 {
		n = DefaultTopHubs
	}
	var edges []network.Edge
	if g != nil {
		edges = g.Edges
	}
	hubs := network.TopHubIDs(edges, n)
	return Evidence{Result: Classify(l.Rules, hubs, members), TopHubs: hubs}
}

// LabelGraph labels a module using the graph's own nodes as members.
func (l *Labeler) LabelGraph(g *network.Graph) Evidence {
	if g == nil {
		return l.Label(nil, nil)
	}
	return l.Label(g, g.MemberIDs())
}
