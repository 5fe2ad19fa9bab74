// Package config loads the YAML merge-rules file consumed by the CLI and
// compiles it into the duplicate handler and skip patterns the builder takes.
//
// Example:
//
//	default_action: skip
//	policies:
//	  - pattern: "^META-INF/services/"
//	    action: concat
//	skip:
//	  - "\\.SF$"
package config

import (
	"bytes"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"jar-builder/internal/jar"
)

// Rules is the on-disk shape of a merge-rules file.
type Rules struct {
	// DefaultAction applies when no policy matches a duplicated path.
	// Empty means "skip".
	DefaultAction string `yaml:"default_action"`

	// Policies are tried in order; the first whose pattern matches wins.
	Policies []PolicyRule `yaml:"policies"`

	// Skip patterns exclude matching destination paths entirely.
	Skip []string `yaml:"skip"`
}

// PolicyRule pairs an unanchored path regexp with a duplicate action.
type PolicyRule struct {
	Pattern string `yaml:"pattern"`
	Action  string `yaml:"action"`
}

// Load reads and decodes the rules file at path. Unknown keys are rejected so
// typos surface instead of silently dropping rules.
func Load(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, err
	}
	var rules Rules
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rules); err != nil {
		return Rules{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return rules, nil
}

// Handler compiles the rules into a duplicate handler.
func (r Rules) Handler() (jar.DuplicateHandler, error) {
	defaultAction := jar.ActionSkip
	if r.DefaultAction != "" {
		action, err := jar.ParseAction(r.DefaultAction)
		if err != nil {
			return jar.DuplicateHandler{}, err
		}
		defaultAction = action
	}
	policies := make([]jar.DuplicatePolicy, 0, len(r.Policies))
	for _, rule := range r.Policies {
		action, err := jar.ParseAction(rule.Action)
		if err != nil {
			return jar.DuplicateHandler{}, err
		}
		policy, err := jar.PathMatches(rule.Pattern, action)
		if err != nil {
			return jar.DuplicateHandler{}, err
		}
		policies = append(policies, policy)
	}
	return jar.NewDuplicateHandler(defaultAction, policies...), nil
}

// SkipPatterns compiles the skip expressions.
func (r Rules) SkipPatterns() ([]*regexp.Regexp, error) {
	patterns := make([]*regexp.Regexp, 0, len(r.Skip))
	for _, expr := range r.Skip {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("skip pattern %q: %w", expr, err)
		}
		patterns = append(patterns, re)
	}
	return patterns, nil
}
