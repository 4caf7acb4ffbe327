// Package rulefile loads rule specifications from YAML or CUE files.
//
// Both formats share one shape: a top-level "rules" list whose entries are
// either a full specification string or its parts.
//
//	rules:
//	  - rule: "max;50;#5,#6,/"
//	  - direction: min
//	    limit: 10
//	    expr: "#2"
//
// The CUE equivalent is
//
//	rules: [
//		{rule: "max;50;#5,#6,/"},
//		{direction: "min", limit: 10, expr: "#2"},
//	]
//
// Entries are returned as specification strings in file order; parsing them
// into rules is left to package rule so that errors carry rule ordinals.
package rulefile

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// File is the decoded content of a rule file.
type File struct {
	Rules []Entry `yaml:"rules" json:"rules"`
}

// Entry is one rule: either Rule, or Direction/Limit/Expr.
type Entry struct {
	Rule string `yaml:"rule,omitempty" json:"rule,omitempty"`

	Direction string `yaml:"direction,omitempty" json:"direction,omitempty"`

	// Limit is nil for an unbounded rule.
	Limit *int `yaml:"limit,omitempty" json:"limit,omitempty"`

	Expr string `yaml:"expr,omitempty" json:"expr,omitempty"`
}

// Spec renders the entry as a rule specification string.
func (e Entry) Spec() (string, error) {
	parts := e.Direction != "" || e.Limit != nil || e.Expr != ""
	switch {
	case e.Rule != "" && parts:
		return "", fmt.Errorf("rule and direction/limit/expr are mutually exclusive")
	case e.Rule != "":
		return e.Rule, nil
	case e.Direction == "":
		return "", fmt.Errorf("direction is required")
	case e.Expr == "":
		return "", fmt.Errorf("expr is required")
	}

	limit := ""
	if e.Limit != nil {
		limit = strconv.Itoa(*e.Limit)
	}
	return strings.Join([]string{e.Direction, limit, e.Expr}, ";"), nil
}

// Specs renders every entry, failing on the first malformed one.
func (f *File) Specs() ([]string, error) {
	if len(f.Rules) == 0 {
		return nil, fmt.Errorf("rules list is required and must be non-empty")
	}
	specs := make([]string, len(f.Rules))
	for i, e := range f.Rules {
		spec, err := e.Spec()
		if err != nil {
			return nil, fmt.Errorf("rules[%d]: %w", i, err)
		}
		specs[i] = spec
	}
	return specs, nil
}

// Load reads the rule file at path, choosing the format by extension:
// .yaml/.yml for YAML, .cue for CUE.
func Load(path string) ([]string, error) {
	var (
		f   *File
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		f, err = LoadYAML(path)
	case ".cue":
		f, err = LoadCUE(path)
	default:
		return nil, fmt.Errorf("%s: unsupported rule file extension %q (want .yaml, .yml or .cue)", path, ext)
	}
	if err != nil {
		return nil, err
	}

	specs, err := f.Specs()
	if err != nil {
		return nil, fmt.Errorf("%s: invalid rule file: %w", path, err)
	}
	return specs, nil
}

// LoadAll loads every path in order and concatenates the specifications.
func LoadAll(paths []string) ([]string, error) {
	var specs []string
	for _, p := range paths {
		s, err := Load(p)
		if err != nil {
			return nil, err
		}
		specs = append(specs, s...)
	}
	return specs, nil
}
