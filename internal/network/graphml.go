package network

import (
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
)

// GraphML key identifiers. Cytoscape maps them onto node and edge columns.
const (
	keyNodeLabel   = "d0"
	keyNodeKind    = "d1"
	keyNodeSources = "d2"
	keyEdgeKind    = "d3"
	keyEdgeDB      = "d4"
	keyEdgeScore   = "d5"
	keyEdgeSupport = "d6"
)

type graphmlDoc struct {
	XMLName xml.Name     `xml:"graphml"`
	XMLNS   string       `xml:"xmlns,attr"`
	Keys    []graphmlKey `xml:"key"`
	Graph   graphmlGraph `xml:"graph"`
}

type graphmlKey struct {
	ID       string `xml:"id,attr"`
	For      string `xml:"for,attr"`
	AttrName string `xml:"attr.name,attr"`
	AttrType string `xml:"attr.type,attr"`
}

type graphmlGraph struct {
	EdgeDefault string        `xml:"edgedefault,attr"`
	Nodes       []graphmlNode `xml:"node"`
	Edges       []graphmlEdge `xml:"edge"`
}

type graphmlNode struct {
	ID   string        `xml:"id,attr"`
	Data []graphmlData `xml:"data"`
}

type graphmlEdge struct {
	Source string        `xml:"source,attr"`
	Target string        `xml:"target,attr"`
	Data   []graphmlData `xml:"data"`
}

type graphmlData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

// WriteGraphML writes the graph as undirected GraphML. Nodes without an ID
// and edges with an empty endpoint are omitted; endpoints that are not
// declared nodes get an implicit node so the document stays valid.
func WriteGraphML(w io.Writer, g *Graph) error {
	doc := graphmlDoc{
		XMLNS: "http://graphml.graphdrawing.org/xmlns",
		Keys: []graphmlKey{
			{ID: keyNodeLabel, For: "node", AttrName: "label", AttrType: "string"},
			{ID: keyNodeKind, For: "node", AttrName: "kind", AttrType: "string"},
			{ID: keyNodeSources, For: "node", AttrName: "sources", AttrType: "string"},
			{ID: keyEdgeKind, For: "edge", AttrName: "kind", AttrType: "string"},
			{ID: keyEdgeDB, For: "edge", AttrName: "source_db", AttrType: "string"},
			{ID: keyEdgeScore, For: "edge", AttrName: "score", AttrType: "double"},
			{ID: keyEdgeSupport, For: "edge", AttrName: "support", AttrType: "long"},
		},
		Graph: graphmlGraph{EdgeDefault: "undirected"},
	}

	seen := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" || seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		label := n.Label
		if label == "" {
			label = n.ID
		}
		doc.Graph.Nodes = append(doc.Graph.Nodes, graphmlNode{
			ID: n.ID,
			Data: []graphmlData{
				{Key: keyNodeLabel, Value: label},
				{Key: keyNodeKind, Value: n.Kind},
				{Key: keyNodeSources, Value: n.Sources.String()},
			},
		})
	}

	for _, e := range g.Edges {
		if e.Source == "" || e.Target == "" {
			continue
		}
		for _, id := range []string{e.Source, e.Target} {
			if !seen[id] {
				seen[id] = true
				doc.Graph.Nodes = append(doc.Graph.Nodes, graphmlNode{
					ID:   id,
					Data: []graphmlData{{Key: keyNodeLabel, Value: id}},
				})
			}
		}
		doc.Graph.Edges = append(doc.Graph.Edges, graphmlEdge{
			Source: e.Source,
			Target: e.Target,
			Data: []graphmlData{
				{Key: keyEdgeKind, Value: e.Kind},
				{Key: keyEdgeDB, Value: e.SourceDB},
				{Key: keyEdgeScore, Value: strconv.FormatFloat(e.ScoreOrZero(), 'g', -1, 64)},
				{Key: keyEdgeSupport, Value: strconv.Itoa(e.SupportOrOne())},
			},
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("writing GraphML header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding GraphML: %w", err)
	}
	return enc.Flush()
}

// NodeCSVHeader and EdgeCSVHeader are the column layouts Cytoscape imports.
var (
	NodeCSVHeader = []string{"id", "label", "kind", "sources"}
	EdgeCSVHeader = []string{"source", "target", "kind", "source_db", "score", "support"}
)

// WriteNodesCSV writes the node table.
func WriteNodesCSV(w io.Writer, g *Graph) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(NodeCSVHeader); err != nil {
		return fmt.Errorf("writing node header: %w", err)
	}
	for _, n := range g.Nodes {
		if err := cw.Write([]string{n.ID, n.Label, n.Kind, n.Sources.String()}); err != nil {
			return fmt.Errorf("writing node %s: %w", n.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteEdgesCSV writes the edge table. Missing scores and support counts
// are written as empty cells, as the service exports them.
func WriteEdgesCSV(w io.Writer, g *Graph) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(EdgeCSVHeader); err != nil {
		return fmt.Errorf("writing edge header: %w", err)
	}
	for i, e := range g.Edges {
		var score, support string
		if e.Score != nil {
			score = strconv.FormatFloat(*e.Score, 'g', -1, 64)
		}
		if e.Support != nil {
			support = strconv.Itoa(*e.Support)
		}
		if err := cw.Write([]string{e.Source, e.Target, e.Kind, e.SourceDB, score, support}); err != nil {
			return fmt.Errorf("writing edge %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
