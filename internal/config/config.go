// Package config handles project and global configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectFile is the per-project configuration file, searched upward from
// the working directory.
const ProjectFile = "regulon.yml"

// Defaults used when the project file leaves a value unset.
const (
	DefaultTone    = "plain"
	DefaultTopK    = 3
	DefaultMinSize = 3
)

// DefaultSources are the interactome sources queried by export.
var DefaultSources = []string{"string_ppi", "encori_rbp_by_target"}

// Config represents project configuration stored in regulon.yml.
type Config struct {
	Tone      string   `yaml:"tone,omitempty" json:"tone,omitempty"`             // plain or paper
	TopK      int      `yaml:"top_k,omitempty" json:"top_k,omitempty"`           // modules exported per run
	MinSize   int      `yaml:"min_size,omitempty" json:"min_size,omitempty"`     // minimum community size
	Seeds     []string `yaml:"seeds,omitempty" json:"seeds,omitempty"`           // seed genes for export
	Sources   []string `yaml:"sources,omitempty" json:"sources,omitempty"`       // interactome source ids
	RulesFile string   `yaml:"rules_file,omitempty" json:"rules_file,omitempty"` // YAML rule table, relative to the project file
	AutoLabel bool     `yaml:"auto_label,omitempty" json:"auto_label,omitempty"` // label modules that lack a label artifact
	Files     Files    `yaml:"files,omitempty" json:"files,omitempty"`
}

// Files overrides the per-module artifact names.
type Files struct {
	Network     string `yaml:"network,omitempty" json:"network,omitempty"`
	Label       string `yaml:"label,omitempty" json:"label,omitempty"`
	Enrichment  string `yaml:"enrichment,omitempty" json:"enrichment,omitempty"`
	Interactive string `yaml:"interactive,omitempty" json:"interactive,omitempty"`
	Hubs        string `yaml:"hubs,omitempty" json:"hubs,omitempty"`
	GraphML     string `yaml:"graphml,omitempty" json:"graphml,omitempty"`
	Report      string `yaml:"report,omitempty" json:"report,omitempty"`
	Archive     string `yaml:"archive,omitempty" json:"archive,omitempty"`
}

// Default returns the configuration used when no project file exists.
func Default() *Config {
	return &Config{
		Tone:    DefaultTone,
		TopK:    DefaultTopK,
		MinSize: DefaultMinSize,
		Sources: append([]string(nil), DefaultSources...),
	}
}

// applyDefaults fills unset fields.
func (c *Config) applyDefaults() {
	if c.Tone == "" {
		c.Tone = DefaultTone
	}
	if c.TopK <= 0 {
		c.TopK = DefaultTopK
	}
	if c.MinSize <= 0 {
		c.MinSize = DefaultMinSize
	}
	if len(c.Sources) == 0 {
		c.Sources = append([]string(nil), DefaultSources...)
	}
}

// FindProjectFile walks up from start looking for regulon.yml.
func FindProjectFile(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		path := filepath.Join(abs, ProjectFile)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", ErrNoProjectFile
		}
		abs = parent
	}
}

// ErrNoProjectFile is returned when no regulon.yml exists above the start directory.
var ErrNoProjectFile = errors.New("no " + ProjectFile + " found")

// Load reads a project file. RulesFile is resolved relative to the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()

	if cfg.RulesFile != "" {
		cfg.RulesFile = ExpandTilde(cfg.RulesFile)
		if !filepath.IsAbs(cfg.RulesFile) {
			cfg.RulesFile = filepath.Join(filepath.Dir(path), cfg.RulesFile)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// LoadFrom finds and loads the project file above start, returning the
// defaults when there is none.
func LoadFrom(start string) (*Config, error) {
	path, err := FindProjectFile(start)
	if errors.Is(err, ErrNoProjectFile) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ValidTones lists the supported summary tones.
var ValidTones = []string{"plain", "paper"}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	for _, t := range ValidTones {
		if c.Tone == t {
			return nil
		}
	}
	return fmt.Errorf("invalid tone: %s (valid: %v)", c.Tone, ValidTones)
}

// ExpandTilde expands a leading ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandTilde(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
