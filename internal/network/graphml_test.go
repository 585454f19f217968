package network

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"
)

func TestWriteGraphML(t *testing.T) {
	score := 0.75
	g := &Graph{
		Nodes: []Node{
			{ID: "TP53", Label: "p53", Kind: "protein", Sources: StringList{"string_ppi"}},
			{ID: "MDM2", Kind: "protein"},
			{ID: ""},
		},
		Edges: []Edge{
			{Source: "TP53", Target: "MDM2", Kind: "ppi", SourceDB: "STRING", Score: &score},
			{Source: "TP53", Target: "NEAT1", Kind: "rbp"},
			{Source: "TP53", Target: ""},
		},
	}

	var buf bytes.Buffer
	if err := WriteGraphML(&buf, g); err != nil {
		t.Fatalf("WriteGraphML() error = %v", err)
	}

	var doc graphmlDoc
	if err := xml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid XML: %v", err)
	}
	if got := len(doc.Graph.Nodes); got != 3 {
		t.Errorf("got %d nodes, want 3 (two declared, one implicit)", got)
	}
	if got := len(doc.Graph.Edges); got != 2 {
		t.Errorf("got %d edges, want 2", got)
	}

	out := buf.String()
	for _, want := range []string{`edgedefault="undirected"`, `>p53<`, `>0.75<`, `attr.name="support"`} {
		if !strings.Contains(out, want) {
			t.Errorf("GraphML missing %s", want)
		}
	}
	// MDM2 has no label, so its ID is used.
	if !strings.Contains(out, `<data key="d0">MDM2</data>`) {
		t.Error("node without label should fall back to its ID")
	}
}

func TestWriteEdgesCSV(t *testing.T) {
	support := 3
	g := &Graph{Edges: []Edge{
		{Source: "A", Target: "B", Kind: "ppi", SourceDB: "STRING", Support: &support},
	}}

	var buf bytes.Buffer
	if err := WriteEdgesCSV(&buf, g); err != nil {
		t.Fatalf("WriteEdgesCSV() error = %v", err)
	}

	want := "source,target,kind,source_db,score,support\nA,B,ppi,STRING,,3\n"
	if buf.String() != want {
		t.Errorf("WriteEdgesCSV() = %q, want %q", buf.String(), want)
	}
}

func TestWriteNodesCSV(t *testing.T) {
	g := &Graph{Nodes: []Node{{ID: "TP53", Label: "TP53", Kind: "protein", Sources: StringList{"a", "b"}}}}

	var buf bytes.Buffer
	if err := WriteNodesCSV(&buf, g); err != nil {
		t.Fatalf("WriteNodesCSV() error = %v", err)
	}

	want := "id,label,kind,sources\nTP53,TP53,protein,\"a,b\"\n"
	if buf.String() != want {
		t.Errorf("WriteNodesCSV() = %q, want %q", buf.String(), want)
	}
}
