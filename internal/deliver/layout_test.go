package deliver

import "testing"

func TestParseModuleName(t *testing.T) {
	tests := []struct {
		name   string
		cid    int
		wantOK bool
	}{
		{"C0", 0, true},
		{"C12", 12, true},
		{"c1", 0, false},
		{"C", 0, false},
		{"C1a", 0, false},
		{"module_C1", 0, false},
	}

	for _, tt := range tests {
		cid, ok := ParseModuleName(tt.name)
		if cid != tt.cid || ok != tt.wantOK {
			t.Errorf("ParseModuleName(%q) = %d, %v; want %d, %v", tt.name, cid, ok, tt.cid, tt.wantOK)
		}
	}
}

func TestLayoutMerge(t *testing.T) {
	got := Layout{Network: "graph.json", Archive: "bundle.zip"}.Merge()
	def := DefaultLayout()

	if got.Network != "graph.json" || got.Archive != "bundle.zip" {
		t.Errorf("overrides lost: %+v", got)
	}
	if got.Label != def.Label || got.Hubs != def.Hubs || got.Report != def.Report {
		t.Errorf("defaults not applied: %+v", got)
	}
}
