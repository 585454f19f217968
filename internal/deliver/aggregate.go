package deliver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/matsen/regulon/internal/label"
	"github.com/matsen/regulon/internal/network"
	"github.com/matsen/regulon/internal/summary"
)

// Aggregation limits.
const (
	HubCandidates = 8 // hubs computed per module
	DisplayHubs   = 6 // hubs shown in records
	MaxTerms      = 5 // enrichment terms kept per module
)

// Label provenance recorded on each module.
const (
	LabelFromArtifact = "artifact"
	LabelFromRules    = "rules"
	LabelDefault      = "default"
)

// Record is the aggregated view of one module.
type Record struct {
	Module      string   `json:"module"`
	CID         int      `json:"cid"`
	Size        int      `json:"size"`
	Label       string   `json:"label"`
	LabelSource string   `json:"label_source"`
	Hubs        []string `json:"hubs"`
	Terms       []string `json:"terms"`
	Summary     string   `json:"summary"`
	Links       Links    `json:"links"`
}

// HubsText joins the hub list for tabular output.
func (r Record) HubsText() string {
	return strings.Join(r.Hubs, ", ")
}

// TermsText joins the enrichment terms for tabular output. Term names may
// contain commas, so they are separated by semicolons.
func (r Record) TermsText() string {
	return strings.Join(r.Terms, "; ")
}

// Links are run-relative paths to per-module artifacts. Empty means absent.
type Links struct {
	Interactive string `json:"interactive,omitempty"`
	Hubs        string `json:"hubs,omitempty"`
	GraphML     string `json:"graphml,omitempty"`
	Report      string `json:"report,omitempty"`
	Enrichment  string `json:"enrichment,omitempty"`
	Archive     string `json:"archive,omitempty"`
}

// Index is the consolidated deliverable of one run.
type Index struct {
	GeneratedAt time.Time    `json:"generated_at"`
	RunDir      string       `json:"run_dir"`
	Tone        summary.Tone `json:"tone"`
	Records     []Record     `json:"records"`
}

// Aggregator builds an Index from a run directory.
type Aggregator struct {
	Layout   Layout
	Tone     summary.Tone
	Composer *summary.Composer

	// Labeler, when set, labels modules that lack a usable label artifact.
	Labeler *label.Labeler

	Logger *zap.Logger
	Now    func() time.Time
}

// NewAggregator returns an aggregator with the default layout and plain tone.
func NewAggregator() *Aggregator {
	return &Aggregator{
		Layout:   DefaultLayout(),
		Tone:     summary.TonePlain,
		Composer: summary.NewComposer(),
		Logger:   zap.NewNop(),
		Now:      time.Now,
	}
}

func (a *Aggregator) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

// ModuleDirs lists the module subdirectories of a run in ascending order.
func ModuleDirs(runDir string) ([]ModuleDir, error) {
	entries, err := os.ReadDir(runDir)
	if err != nil {
		return nil, fmt.Errorf("reading run directory: %w", err)
	}

	var dirs []ModuleDir
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		cid, ok := ParseModuleName(e.Name())
		if !ok {
			continue
		}
		dirs = append(dirs, ModuleDir{Name: e.Name(), CID: cid, Path: filepath.Join(runDir, e.Name())})
	}
	sortModuleDirs(dirs)
	return dirs, nil
}

// Aggregate processes every module directory of runDir one at a time.
// Modules whose network artifact is missing or unreadable are left out;
// missing or malformed optional artifacts fall back to defaults. The only
// error is an unreadable run directory.
func (a *Aggregator) Aggregate(runDir string) (*Index, error) {
	dirs, err := ModuleDirs(runDir)
	if err != nil {
		return nil, err
	}

	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	idx := &Index{
		GeneratedAt: now(),
		RunDir:      runDir,
		Tone:        a.Tone,
		Records:     []Record{},
	}
	if idx.Tone == "" {
		idx.Tone = summary.TonePlain
	}

	for _, m := range dirs {
		rec, ok := a.Module(m)
		if !ok {
			continue
		}
		idx.Records = append(idx.Records, rec)
	}
	return idx, nil
}

// Module builds the record of one module directory. The boolean is false
// when the module has no loadable network.
func (a *Aggregator) Module(m ModuleDir) (Record, bool) {
	log := a.logger().With(zap.String("module", m.Name))
	layout := a.Layout.Merge()

	g, path, err := network.LoadDir(m.Path, layout.Network)
	if err != nil {
		log.Debug("skipping module without network", zap.Error(err))
		return Record{}, false
	}
	log.Debug("loaded network", zap.String("path", path),
		zap.Int("nodes", len(g.Nodes)), zap.Int("edges", len(g.Edges)))

	hubs := network.TopHubIDs(g.Edges, HubCandidates)
	if len(hubs) > DisplayHubs {
		hubs = hubs[:DisplayHubs]
	}

	lbl, source := a.moduleLabel(m, layout, g, log)

	terms, ok := LoadTerms(m.file(layout.Enrichment), MaxTerms)
	if !ok {
		log.Debug("no enrichment artifact", zap.String("file", layout.Enrichment))
		terms = []string{}
	}

	rec := Record{
		Module:      m.Name,
		CID:         m.CID,
		Size:        g.Size(),
		Label:       lbl,
		LabelSource: source,
		Hubs:        hubs,
		Terms:       terms,
		Links:       links(m, layout),
	}

	composer := a.Composer
	if composer == nil {
		composer = summary.NewComposer()
	}
	rec.Summary = composer.Compose(summary.Input{
		Module: rec.Module,
		Size:   rec.Size,
		Label:  rec.Label,
		Hubs:   rec.Hubs,
		Terms:  rec.Terms,
		Tone:   a.Tone,
	})
	return rec, true
}

func (a *Aggregator) moduleLabel(m ModuleDir, layout Layout, g *network.Graph, log *zap.Logger) (string, string) {
	if l, ok := LoadLabel(m.file(layout.Label)); ok {
		return l, LabelFromArtifact
	}
	if a.Labeler != nil {
		ev := a.Labeler.LabelGraph(g)
		log.Debug("labeled from rules", zap.String("label", ev.Label), zap.Int("score", ev.Score))
		return ev.Label, LabelFromRules
	}
	log.Debug("no label artifact", zap.String("file", layout.Label))
	return label.Uncategorized, LabelDefault
}

// links returns run-relative paths for the artifacts present on disk.
func links(m ModuleDir, layout Layout) Links {
	rel := func(name string) string {
		if !isFile(m.file(name)) {
			return ""
		}
		return m.Name + "/" + name
	}
	return Links{
		Interactive: rel(layout.Interactive),
		Hubs:        rel(layout.Hubs),
		GraphML:     rel(layout.GraphML),
		Report:      rel(layout.Report),
		Enrichment:  rel(layout.Enrichment),
		Archive:     rel(layout.Archive),
	}
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
