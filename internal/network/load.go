package network

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// PrimaryFile is the file name the exporter writes each module network to.
const PrimaryFile = "network.json"

// fallbackKeywords are substrings that identify a network artifact saved under
// a different name (older exports used module_network.json or subnet_C0.json).
var fallbackKeywords = []string{"network", "subnet"}

// LoadFile reads and parses a network artifact.
func LoadFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading network: %w", err)
	}

	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parsing network %s: %w", filepath.Base(path), err)
	}
	return &g, nil
}

// FindArtifact locates the network artifact in a module directory. The
// primary file name (PrimaryFile when empty) is preferred; otherwise the
// first .json file in lexical order whose name contains a network keyword
// is used.
func FindArtifact(dir, primary string) (string, bool) {
	if primary == "" {
		primary = PrimaryFile
	}
	if path := filepath.Join(dir, primary); isFile(path) {
		return path, true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.ToLower(e.Name())
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		for _, kw := range fallbackKeywords {
			if strings.Contains(name, kw) {
				names = append(names, e.Name())
				break
			}
		}
	}
	if len(names) == 0 {
		return "", false
	}
	sort.Strings(names)
	return filepath.Join(dir, names[0]), true
}

// ErrNoArtifact is returned by LoadDir when a module directory holds no network.
var ErrNoArtifact = errors.New("no network artifact")

// LoadDir finds and loads the network artifact of a module directory and
// returns the path it was read from.
func LoadDir(dir, primary string) (*Graph, string, error) {
	path, ok := FindArtifact(dir, primary)
	if !ok {
		return nil, "", fmt.Errorf("%w in %s", ErrNoArtifact, dir)
	}
	g, err := LoadFile(path)
	if err != nil {
		return nil, path, err
	}
	return g, path, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
