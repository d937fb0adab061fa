// Package rules models per-variable constraints supplied by configuration.
// A rule with an invalid field (bad regex, unknown type) keeps the rest of
// its fields; the invalid one is dropped and reported as a warning, never a
// hard failure.
package rules

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Rule is the raw, configuration-facing constraint for one variable.
type Rule struct {
	Required    bool     `yaml:"required"`
	Type        string   `yaml:"type"`
	Pattern     string   `yaml:"pattern"`
	Enum        []string `yaml:"enum"`
	Default     string   `yaml:"default"`
	Secret      *bool    `yaml:"secret"`
	Description string   `yaml:"description"`
}

// Compiled is a rule after validation, with the pattern pre-compiled and
// invalid fields stripped.
type Compiled struct {
	Required    bool
	Type        string // "string", "number", "boolean", "json", "array"; empty when unconstrained
	Pattern     *regexp.Regexp
	Enum        []string
	Default     string
	HasDefault  bool
	Secret      *bool
	Description string
}

// Set is the full rule set plus ignore patterns for missing/unused checks.
type Set struct {
	rules         map[string]Compiled
	ignoreMissing []string
	ignoreUnused  []string
	// Warnings collected while compiling invalid rule fields. Surfaced once
	// by the caller, never fatal.
	Warnings []string
}

var validTypes = map[string]bool{
	"string":  true,
	"number":  true,
	"boolean": true,
	"json":    true,
	"array":   true,
}

// Compile validates raw rules into a Set. Invalid fields are treated as
// absent and noted in Warnings.
func Compile(raw map[string]Rule, ignoreMissing, ignoreUnused []string) *Set {
	s := &Set{
		rules:         make(map[string]Compiled, len(raw)),
		ignoreMissing: ignoreMissing,
		ignoreUnused:  ignoreUnused,
	}
	for name, r := range raw {
		c := Compiled{
			Required:    r.Required,
			Enum:        r.Enum,
			Default:     r.Default,
			Secret:      r.Secret,
			Description: r.Description,
		}
		if r.Default != "" {
			c.HasDefault = true
		}
		if r.Type != "" {
			if t := strings.ToLower(r.Type); validTypes[t] {
				c.Type = t
			} else {
				s.Warnings = append(s.Warnings, fmt.Sprintf("rule %s: unknown type %q ignored", name, r.Type))
			}
		}
		if r.Pattern != "" {
			re, err := regexp.Compile(r.Pattern)
			if err != nil {
				s.Warnings = append(s.Warnings, fmt.Sprintf("rule %s: invalid pattern ignored: %v", name, err))
			} else {
				c.Pattern = re
			}
		}
		s.rules[name] = c
	}
	return s
}

// Empty returns a permissive rule set with no constraints.
func Empty() *Set {
	return &Set{rules: map[string]Compiled{}}
}

// Get returns the compiled rule for a variable, if any.
func (s *Set) Get(name string) (Compiled, bool) {
	r, ok := s.rules[name]
	return r, ok
}

// Names returns all variable names that carry an explicit rule.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.rules))
	for name := range s.rules {
		names = append(names, name)
	}
	return names
}

// IgnoreMissing reports whether a variable is exempt from the missing check.
func (s *Set) IgnoreMissing(name string) bool {
	return matchAny(name, s.ignoreMissing)
}

// IgnoreUnused reports whether a variable is exempt from the unused check.
func (s *Set) IgnoreUnused(name string) bool {
	return matchAny(name, s.ignoreUnused)
}

// matchAny matches name against exact names or glob patterns (e.g. "AWS_*").
func matchAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if p == name {
			return true
		}
		if ok, err := filepath.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}
