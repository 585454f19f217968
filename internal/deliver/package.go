package deliver

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/matsen/regulon/internal/network"
)

// Entries written into each module archive.
const (
	ArchiveGraphML = "module.graphml"
	ArchiveNodes   = "nodes.csv"
	ArchiveEdges   = "edges.csv"
	ArchiveNetwork = "module_network.json"
	ArchiveHubs    = "hubs.png"
)

// Packaged describes the files produced for one module.
type Packaged struct {
	Module  string   `json:"module"`
	GraphML string   `json:"graphml"`
	Archive string   `json:"archive"`
	Entries []string `json:"entries"`
}

// Package writes the GraphML export and the Cytoscape-ready archive of one
// module. Modules without a loadable network return network.ErrNoArtifact
// or the parse error.
func (a *Aggregator) Package(m ModuleDir) (Packaged, error) {
	layout := a.Layout.Merge()

	g, path, err := network.LoadDir(m.Path, layout.Network)
	if err != nil {
		return Packaged{}, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Packaged{}, fmt.Errorf("reading network: %w", err)
	}

	var graphml bytes.Buffer
	if err := network.WriteGraphML(&graphml, g); err != nil {
		return Packaged{}, err
	}
	out := Packaged{
		Module:  m.Name,
		GraphML: m.file(layout.GraphML),
		Archive: m.file(layout.Archive),
	}
	if err := WriteFileAtomic(out.GraphML, graphml.Bytes()); err != nil {
		return Packaged{}, err
	}

	var nodes, edges bytes.Buffer
	if err := network.WriteNodesCSV(&nodes, g); err != nil {
		return Packaged{}, err
	}
	if err := network.WriteEdgesCSV(&edges, g); err != nil {
		return Packaged{}, err
	}

	entries := []archiveEntry{
		{ArchiveGraphML, graphml.Bytes()},
		{ArchiveNodes, nodes.Bytes()},
		{ArchiveEdges, edges.Bytes()},
		{ArchiveNetwork, raw},
	}
	if png, err := os.ReadFile(m.file(layout.Hubs)); err == nil {
		entries = append(entries, archiveEntry{ArchiveHubs, png})
	}

	var zbuf bytes.Buffer
	if err := writeZip(&zbuf, entries); err != nil {
		return Packaged{}, err
	}
	if err := WriteFileAtomic(out.Archive, zbuf.Bytes()); err != nil {
		return Packaged{}, err
	}

	for _, e := range entries {
		out.Entries = append(out.Entries, e.name)
	}
	return out, nil
}

// PackageAll packages every module of a run. Modules that cannot be
// packaged are logged and skipped.
func (a *Aggregator) PackageAll(runDir string) ([]Packaged, error) {
	dirs, err := ModuleDirs(runDir)
	if err != nil {
		return nil, err
	}

	var done []Packaged
	for _, m := range dirs {
		p, err := a.Package(m)
		if err != nil {
			a.logger().Debug("skipping module packaging", zap.String("module", m.Name), zap.Error(err))
			continue
		}
		done = append(done, p)
	}
	return done, nil
}

type archiveEntry struct {
	name string
	data []byte
}

func writeZip(w io.Writer, entries []archiveEntry) error {
	zw := zip.NewWriter(w)
	for _, e := range entries {
		f, err := zw.CreateHeader(&zip.FileHeader{Name: e.name, Method: zip.Deflate})
		if err != nil {
			return fmt.Errorf("adding %s: %w", e.name, err)
		}
		if _, err := f.Write(e.data); err != nil {
			return fmt.Errorf("writing %s: %w", e.name, err)
		}
	}
	return zw.Close()
}
