package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/matsen/regulon/internal/config"
	"github.com/matsen/regulon/internal/deliver"
	"github.com/matsen/regulon/internal/label"
	"github.com/matsen/regulon/internal/storage"
	"github.com/matsen/regulon/internal/summary"
)

const cellCycleNetwork = `{
  "nodes": [{"id": "CDK1"}, {"id": "CCNB1"}, {"id": "CDC20"}],
  "edges": [
    {"source": "CDK1", "target": "CCNB1"},
    {"source": "CDK1", "target": "CDC20"}
  ],
  "meta": {"module": {"cid": 0, "min_size": 3, "size": 3}}
}`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestAggregateRun(t *testing.T) {
	runDir := t.TempDir()
	writeFile(t, filepath.Join(runDir, "C0", "network.json"), cellCycleNetwork)
	writeFile(t, filepath.Join(runDir, "C1", "network.json"), `{"nodes": [{"id": "X"}], "edges": []}`)
	writeFile(t, filepath.Join(runDir, "C1", "label.json"), `{"label": "Custom"}`)
	writeFile(t, filepath.Join(runDir, "C2", "notes.txt"), "no network here")

	db, err := storage.OpenDB(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	resp, err := aggregateRun(runDir, aggregateOptions{
		Tone:    summary.TonePlain,
		Layout:  deliver.DefaultLayout(),
		Labeler: label.NewLabeler(label.DefaultRules()),
		Package: true,
		History: db,
	})
	if err != nil {
		t.Fatalf("aggregateRun() error = %v", err)
	}

	if resp.Modules != 2 || resp.Labeled != 1 || resp.Packaged != 2 {
		t.Errorf("response = %+v", resp)
	}
	if resp.RunID == "" {
		t.Error("run was not recorded")
	}
	for _, path := range []string{resp.Outputs.Text, resp.Outputs.TSV, resp.Outputs.Index, resp.JSONL} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing output: %v", err)
		}
	}
	if _, err := os.Stat(filepath.Join(runDir, "C0", "module.zip")); err != nil {
		t.Errorf("archive not written: %v", err)
	}

	records, err := storage.ReadRecords(resp.JSONL)
	if err != nil {
		t.Fatal(err)
	}
	var labels []string
	for _, r := range records {
		labels = append(labels, r.Label)
	}
	if diff := cmp.Diff([]string{"Cell cycle / mitosis", "Custom"}, labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	if records[0].Links.Archive != "C0/module.zip" {
		t.Errorf("archive link = %q", records[0].Links.Archive)
	}

	_, modules, err := db.RunModules(resp.RunID)
	if err != nil {
		t.Fatal(err)
	}
	if len(modules) != 2 {
		t.Errorf("history has %d modules, want 2", len(modules))
	}
}

func TestAggregateRun_MissingRunDir(t *testing.T) {
	_, err := aggregateRun(filepath.Join(t.TempDir(), "missing"), aggregateOptions{Tone: summary.TonePlain})
	if err == nil {
		t.Error("aggregateRun() on a missing directory should fail")
	}
}

func TestLayoutFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Files.Network = "module_network.json"
	cfg.Files.Enrichment = "gprofiler.json"

	got := layoutFromConfig(cfg)
	want := deliver.DefaultLayout()
	want.Network = "module_network.json"
	want.Enrichment = "gprofiler.json"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("layout mismatch (-want +got):\n%s", diff)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" string_ppi, ,encori_rbp_by_target,")
	if diff := cmp.Diff([]string{"string_ppi", "encori_rbp_by_target"}, got); diff != "" {
		t.Errorf("splitList mismatch (-want +got):\n%s", diff)
	}
	if got := splitList(""); len(got) != 0 {
		t.Errorf("splitList(\"\") = %v", got)
	}
}

func TestEnvSeconds(t *testing.T) {
	tests := []struct {
		value  string
		want   time.Duration
		wantOK bool
	}{
		{"", 0, false},
		{"1.5", 1500 * time.Millisecond, true},
		{"0", 0, true},
		{"abc", 0, false},
		{"-2", 0, false},
	}
	for _, tt := range tests {
		t.Setenv(EnvPoliteDelay, tt.value)
		got, ok := envSeconds(EnvPoliteDelay)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("envSeconds(%q) = %v, %v, want %v, %v", tt.value, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestAggregateRun_UnavailableHistory(t *testing.T) {
	// A regular file where the config directory should be.
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	writeFile(t, blocker, "")
	t.Setenv("XDG_CONFIG_HOME", blocker)
	config.ResetGlobalConfigCache()
	t.Cleanup(config.ResetGlobalConfigCache)

	db := openHistory(zap.NewNop())
	if db != nil {
		db.Close()
		t.Fatal("openHistory() should fail under a file")
	}

	runDir := t.TempDir()
	writeFile(t, filepath.Join(runDir, "C0", "network.json"), cellCycleNetwork)
	resp, err := aggregateRun(runDir, aggregateOptions{
		Tone:    summary.TonePlain,
		Layout:  deliver.DefaultLayout(),
		History: db,
	})
	if err != nil {
		t.Fatalf("aggregateRun() error = %v", err)
	}
	if resp.RunID != "" {
		t.Errorf("run id = %q, want none", resp.RunID)
	}
	for _, path := range []string{resp.Outputs.Text, resp.Outputs.TSV, resp.Outputs.Index, resp.JSONL} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing output: %v", err)
		}
	}
}

func TestLabelerFor(t *testing.T) {
	cfg := config.Default()
	if labelerFor(false, "", cfg) != nil {
		t.Error("labeler built without auto_label")
	}
	if labelerFor(true, "", cfg) == nil {
		t.Error("--auto-label ignored")
	}
	cfg.AutoLabel = true
	if labelerFor(false, "", cfg) == nil {
		t.Error("auto_label in regulon.yml ignored")
	}
}

func TestAggregateRun_RenderMissing(t *testing.T) {
	runDir := t.TempDir()
	writeFile(t, filepath.Join(runDir, "C0", "network.json"), cellCycleNetwork)
	writeFile(t, filepath.Join(runDir, "C1", "network.json"), cellCycleNetwork)
	writeFile(t, filepath.Join(runDir, "C1", "network.html"), "<html>from service</html>")

	resp, err := aggregateRun(runDir, aggregateOptions{
		Tone:   summary.TonePlain,
		Layout: deliver.DefaultLayout(),
		Render: true,
	})
	if err != nil {
		t.Fatalf("aggregateRun() error = %v", err)
	}
	if resp.Rendered != 1 {
		t.Errorf("rendered = %d, want 1", resp.Rendered)
	}
	kept, err := os.ReadFile(filepath.Join(runDir, "C1", "network.html"))
	if err != nil || string(kept) != "<html>from service</html>" {
		t.Errorf("existing view was replaced: %q, %v", kept, err)
	}

	records, err := storage.ReadRecords(resp.JSONL)
	if err != nil {
		t.Fatal(err)
	}
	if records[0].Links.Interactive != "C0/network.html" {
		t.Errorf("rendered view not linked: %+v", records[0].Links)
	}
}

func TestModuleTitle(t *testing.T) {
	tests := []struct {
		arg, path, want string
	}{
		{"runs/x/C3", "runs/x/C3/network.json", "Module C3"},
		{"runs/x/C3/network.json", "runs/x/C3/network.json", "Module C3"},
		{"module.json", "module.json", "module.json"},
	}
	for _, tt := range tests {
		if got := moduleTitle(tt.arg, tt.path); got != tt.want {
			t.Errorf("moduleTitle(%q) = %q, want %q", tt.arg, got, tt.want)
		}
	}
}

func TestSummarizeRecords(t *testing.T) {
	runDir := t.TempDir()
	writeFile(t, filepath.Join(runDir, "C0", "network.json"), cellCycleNetwork)
	writeFile(t, filepath.Join(runDir, "C0", "label.json"), `{"label": "Cell cycle / mitosis"}`)
	resp, err := aggregateRun(runDir, aggregateOptions{Tone: summary.TonePlain, Layout: deliver.DefaultLayout()})
	if err != nil {
		t.Fatal(err)
	}

	got, err := summarizeRecords(resp.JSONL, summary.TonePaper)
	if err != nil {
		t.Fatalf("summarizeRecords() error = %v", err)
	}
	if len(got) != 1 || got[0].Module != "C0" || got[0].Tone != summary.TonePaper {
		t.Fatalf("summarizeRecords() = %+v", got)
	}
	want := "Module C0 (n=3 nodes) was annotated as Cell cycle / mitosis and is organized around the hub genes CDK1"
	if !strings.HasPrefix(got[0].Summary, want) {
		t.Errorf("summary = %q, want prefix %q", got[0].Summary, want)
	}

	if _, err := summarizeRecords(filepath.Join(runDir, "missing.jsonl"), summary.TonePlain); err == nil {
		t.Error("summarizeRecords() should fail for a missing file")
	}
}
