// Package label assigns pathway labels to interaction modules by matching
// gene identifiers against ordered tables of regular-expression rules.
package label

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Uncategorized is the label assigned when no rule matches.
const Uncategorized = "Uncategorized"

// RuleSpec is the serializable form of a classification rule.
type RuleSpec struct {
	Label    string   `yaml:"label" json:"label"`
	Patterns []string `yaml:"patterns" json:"patterns"`
}

// Rule is a compiled classification rule.
type Rule struct {
	label    string
	patterns []*regexp.Regexp
}

// Patterns returns the source text of the rule's patterns.
func (r Rule) Patterns() []string {
	out := make([]string, len(r.patterns))
	for i, p := range r.patterns {
		out[i] = p.String()
	}
	return out
}

// Match reports whether any of the rule's patterns match the identifier.
func (r Rule) Match(id string) bool {
	for _, p := range r.patterns {
		if p.MatchString(id) {
			return true
		}
	}
	return false
}

// RuleSet is an immutable, ordered rule table. Order decides ties.
type RuleSet struct {
	rules []Rule
}

// NewRuleSet compiles rule specs in declaration order.
func NewRuleSet(specs []RuleSpec) (RuleSet, error) {
	rules := make([]Rule, 0, len(specs))
	for i, s := range specs {
		if s.Label == "" {
			return RuleSet{}, fmt.Errorf("rule %d: empty label", i)
		}
		if len(s.Patterns) == 0 {
			return RuleSet{}, fmt.Errorf("rule %q: no patterns", s.Label)
		}
		r := Rule{label: s.Label}
		for _, src := range s.Patterns {
			re, err := regexp.Compile(src)
			if err != nil {
				return RuleSet{}, fmt.Errorf("rule %q: compiling %q: %w", s.Label, src, err)
			}
			r.patterns = append(r.patterns, re)
		}
		rules = append(rules, r)
	}
	return RuleSet{rules: rules}, nil
}

// MustRuleSet is NewRuleSet for tables known at compile time.
func MustRuleSet(specs []RuleSpec) RuleSet {
	rs, err := NewRuleSet(specs)
	if err != nil {
		panic(err)
	}
	return rs
}

// Len returns the number of rules.
func (rs RuleSet) Len() int { return len(rs.rules) }

// Specs returns the serializable form of the rule set.
func (rs RuleSet) Specs() []RuleSpec {
	specs := make([]RuleSpec, len(rs.rules))
	for i, r := range rs.rules {
		specs[i] = RuleSpec{Label: r.label, Patterns: r.Patterns()}
	}
	return specs
}

// DefaultSpecs is the pathway table used when no rules file is configured.
var DefaultSpecs = []RuleSpec{
	{Label: "Cell cycle / mitosis", Patterns: []string{`^(CDK|CCN|CDC|MCM|AURK|PLK|BUB|MAD|E2F|SKP|GADD45|TOP2A|UBE2C|CDC20)`}},
	{Label: "DNA damage / repair", Patterns: []string{`^(BRCA|RAD|ATM|ATR|CHEK|TP53BP|PARP|FANCD|FANCI|XRCC|MRE11|NBN|MSH|MLH|RRM2B)`}},
	{Label: "Apoptosis / cell death", Patterns: []string{`^(BCL|CASP|FAS|TNFR|BAX|BAK|BBC3|BIRC|XIAP)`}},
	{Label: "Chromatin / transcription regulation", Patterns: []string{`^(HDAC|KAT|EP300|CREBBP|SMARC|ARID|EZH|KDM|BRD|MED|POLR|SP1|MYC|JUN|FOS)`}},
	{Label: "Ubiquitin / proteasome", Patterns: []string{`^(UBE|UBC|USP|PSM|PSMA|PSMB|CUL|RBX|FBX|TRIM)`}},
	{Label: "RNA processing / splicing", Patterns: []string{`^(HNRNP|SRSF|SF3|PRPF|DDX|DHX|RBM|ELAVL|U2AF|FUS|TARDBP)`}},
	{Label: "Translation / ribosome", Patterns: []string{`^(RPL|RPS|EIF|EEF)`}},
	{Label: "Signaling (MAPK/PI3K/AKT)", Patterns: []string{`^(MAPK|MAP2K|PIK3|AKT|MTOR|RAS|RAF|STAT)`}},
}

// DefaultRules returns the compiled default pathway table.
func DefaultRules() RuleSet {
	return MustRuleSet(DefaultSpecs)
}

// rulesFile is the YAML layout of a rules file.
type rulesFile struct {
	Rules []RuleSpec `yaml:"rules"`
}

// LoadRules reads a YAML rules file:
//
//	rules:
//	  - label: Cell cycle / mitosis
//	    patterns: ["^CDK", "^CCN"]
func LoadRules(path string) (RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RuleSet{}, fmt.Errorf("reading rules: %w", err)
	}

	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return RuleSet{}, fmt.Errorf("parsing rules: %w", err)
	}
	if len(f.Rules) == 0 {
		return RuleSet{}, fmt.Errorf("rules file %s defines no rules", path)
	}
	return NewRuleSet(f.Rules)
}

// LoadRulesOrDefault loads the rules file at path, or the default table when
// path is empty.
func LoadRulesOrDefault(path string) (RuleSet, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	return LoadRules(path)
}
