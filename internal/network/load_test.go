package network

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleNetwork = `{
  "nodes": [
    {"id": "TP53", "label": "TP53", "kind": "protein", "sources": ["string_ppi"]},
    {"id": "MDM2", "label": "MDM2", "kind": "protein", "sources": "string_ppi,encori_rbp_by_target"}
  ],
  "edges": [
    {"source": "TP53", "target": "MDM2", "kind": "ppi", "source_db": "STRING", "score": 0.99, "support": 2},
    {"source": "TP53", "target": "NEAT1", "kind": "rbp", "source_db": "ENCORI"}
  ],
  "meta": {"module": {"cid": 0, "min_size": 3, "size": 42}, "counts": {"nodes": 2, "edges": 2}, "seeds": ["TP53"]}
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, PrimaryFile, sampleNetwork)

	g, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if len(g.Nodes) != 2 || len(g.Edges) != 2 {
		t.Fatalf("got %d nodes, %d edges, want 2, 2", len(g.Nodes), len(g.Edges))
	}
	if diff := cmp.Diff(StringList{"string_ppi", "encori_rbp_by_target"}, g.Nodes[1].Sources); diff != "" {
		t.Errorf("comma-separated sources mismatch (-want +got):\n%s", diff)
	}
	if g.Size() != 42 {
		t.Errorf("Size() = %d, want 42 from meta", g.Size())
	}
	if got := g.Edges[0].SupportOrOne(); got != 2 {
		t.Errorf("SupportOrOne() = %d, want 2", got)
	}
	if got := g.Edges[1].SupportOrOne(); got != 1 {
		t.Errorf("SupportOrOne() default = %d, want 1", got)
	}
	if got := g.Edges[1].ScoreOrZero(); got != 0 {
		t.Errorf("ScoreOrZero() default = %v, want 0", got)
	}
}

func TestGraphSize_FallsBackToNodeCount(t *testing.T) {
	g := &Graph{Nodes: []Node{{ID: "A"}, {ID: "B"}, {ID: "C"}}}
	if got := g.Size(); got != 3 {
		t.Errorf("Size() = %d, want 3", got)
	}

	g.Meta.Module = &ModuleMeta{CID: 1}
	if got := g.Size(); got != 3 {
		t.Errorf("Size() with meta but no size = %d, want 3", got)
	}
}

func TestLoadFile_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, PrimaryFile, `{"nodes": [`)

	if _, err := LoadFile(path); err == nil {
		t.Error("LoadFile() on malformed JSON should error")
	}
}

func TestFindArtifact(t *testing.T) {
	t.Run("primary file preferred", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "module_network.json", sampleNetwork)
		want := writeFile(t, dir, PrimaryFile, sampleNetwork)

		got, ok := FindArtifact(dir, "")
		if !ok || got != want {
			t.Errorf("FindArtifact() = %q, %v; want %q, true", got, ok, want)
		}
	})

	t.Run("keyword fallback picks first lexically", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "subnet_C0.json", sampleNetwork)
		want := writeFile(t, dir, "module_network.json", sampleNetwork)
		writeFile(t, dir, "network.html", "<html></html>")
		writeFile(t, dir, "label.json", `{"label": "x"}`)

		got, ok := FindArtifact(dir, "")
		if !ok || got != want {
			t.Errorf("FindArtifact() = %q, %v; want %q, true", got, ok, want)
		}
	})

	t.Run("custom primary name", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "module_network.json", sampleNetwork)
		want := writeFile(t, dir, "graph.json", sampleNetwork)

		got, ok := FindArtifact(dir, "graph.json")
		if !ok || got != want {
			t.Errorf("FindArtifact() = %q, %v; want %q, true", got, ok, want)
		}
	})

	t.Run("no artifact", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "enrich.json", `{"terms": []}`)

		if got, ok := FindArtifact(dir, ""); ok {
			t.Errorf("FindArtifact() = %q, want not found", got)
		}
	})
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := LoadDir(dir, ""); !errors.Is(err, ErrNoArtifact) {
		t.Errorf("LoadDir() on empty dir error = %v, want ErrNoArtifact", err)
	}

	writeFile(t, dir, PrimaryFile, "not json")
	if _, path, err := LoadDir(dir, ""); err == nil || path == "" {
		t.Errorf("LoadDir() on malformed artifact = %q, %v; want path and error", path, err)
	}

	writeFile(t, dir, PrimaryFile, sampleNetwork)
	g, _, err := LoadDir(dir, "")
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if diff := cmp.Diff([]string{"TP53", "MDM2"}, g.MemberIDs()); diff != "" {
		t.Errorf("MemberIDs() mismatch (-want +got):\n%s", diff)
	}
}
