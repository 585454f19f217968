// Package deliver aggregates per-module analysis artifacts of a run into the
// browsable deliverable: a text summary, a TSV table, and an index page.
package deliver

import (
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

// Output file names written to the run directory.
const (
	SummaryTextFile  = "modules_summary.txt"
	SummaryTSVFile   = "modules_summary.tsv"
	SummaryJSONLFile = "modules_summary.jsonl"
	IndexFile        = "index.html"
)

// Layout names the artifacts expected in each module directory.
type Layout struct {
	Network     string
	Label       string
	Enrichment  string
	Interactive string
	Hubs        string
	GraphML     string
	Report      string
	Archive     string
}

// DefaultLayout matches the file names written by the exporter.
func DefaultLayout() Layout {
	return Layout{
		Network:     "network.json",
		Label:       "label.json",
		Enrichment:  "enrich.json",
		Interactive: "network.html",
		Hubs:        "hubs.png",
		GraphML:     "module.graphml",
		Report:      "report.html",
		Archive:     "module.zip",
	}
}

// Merge returns l with empty fields taken from DefaultLayout.
func (l Layout) Merge() Layout {
	d := DefaultLayout()
	pick := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}
	return Layout{
		Network:     pick(l.Network, d.Network),
		Label:       pick(l.Label, d.Label),
		Enrichment:  pick(l.Enrichment, d.Enrichment),
		Interactive: pick(l.Interactive, d.Interactive),
		Hubs:        pick(l.Hubs, d.Hubs),
		GraphML:     pick(l.GraphML, d.GraphML),
		Report:      pick(l.Report, d.Report),
		Archive:     pick(l.Archive, d.Archive),
	}
}

// moduleDirPattern matches module directory names such as C0 and C12.
var moduleDirPattern = regexp.MustCompile(`^C(\d+)$`)

// ModuleDir is a module subdirectory of a run.
type ModuleDir struct {
	Name string // "C3"
	CID  int    // 3
	Path string
}

// ParseModuleName returns the community index of a module directory name.
func ParseModuleName(name string) (int, bool) {
	m := moduleDirPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	cid, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return cid, true
}

// ModuleName formats a community index as a directory name.
func ModuleName(cid int) string {
	return "C" + strconv.Itoa(cid)
}

// sortModuleDirs orders modules by ascending community index.
func sortModuleDirs(dirs []ModuleDir) {
	sort.SliceStable(dirs, func(i, j int) bool {
		if dirs[i].CID != dirs[j].CID {
			return dirs[i].CID < dirs[j].CID
		}
		return dirs[i].Name < dirs[j].Name
	})
}

func (m ModuleDir) file(name string) string {
	return filepath.Join(m.Path, name)
}
