package network

import "sort"

// Hub is a node with its undirected degree.
type Hub struct {
	ID     string `json:"id"`
	Degree int    `json:"degree"`
}

// Degree counts the edges incident to each node. Both endpoints are
// incremented for every edge, so a self-loop counts twice. Edges with an
// empty endpoint are skipped entirely.
func Degree(edges []Edge) map[string]int {
	deg := make(map[string]int)
	for _, e := range edges {
		if e.Source == "" || e.Target == "" {
			continue
		}
		deg[e.Source]++
		deg[e.Target]++
	}
	return deg
}

// RankHubs orders every node in the tally by degree descending.
// Nodes with equal degree are ordered by identifier ascending.
func RankHubs(deg map[string]int) []Hub {
	hubs := make([]Hub, 0, len(deg))
	for id, d := range deg {
		hubs = append(hubs, Hub{ID: id, Degree: d})
	}
	sort.SliceStable(hubs, func(i, j int) bool {
		if hubs[i].Degree != hubs[j].Degree {
			return hubs[i].Degree > hubs[j].Degree
		}
		return hubs[i].ID < hubs[j].ID
	})
	return hubs
}

// TopHubs returns at most n hubs from the edge list, highest degree first.
func TopHubs(edges []Edge, n int) []Hub {
	hubs := RankHubs(Degree(edges))
	if n >= 0 && len(hubs) > n {
		hubs = hubs[:n]
	}
	return hubs
}

// TopHubIDs is TopHubs reduced to identifiers.
func TopHubIDs(edges []Edge, n int) []string {
	hubs := TopHubs(edges, n)
	ids := make([]string, len(hubs))
	for i, h := range hubs {
		ids[i] = h.ID
	}
	return ids
}
