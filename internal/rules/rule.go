// Package rules loads and compiles the YAML classification rule tables:
// low-information phrase patterns ("noise") and loop-introducing constructs
// ("loop"). Rules are data, not branching logic, so deployments can extend
// or override them without code changes.
package rules

import (
	"regexp"

	"github.com/logdup/logdup/internal/types"
)

// Rule categories understood by the detection stages.
const (
	CategoryNoise = "noise"
	CategoryLoop  = "loop"
)

// MatchMode determines how multiple patterns are combined.
type MatchMode int

const (
	MatchAny MatchMode = iota // OR — any pattern match triggers
	MatchAll                  // AND — all patterns must match
)

// PatternType represents the type of a pattern.
type PatternType string

const (
	PatternRegex    PatternType = "regex"
	PatternContains PatternType = "contains"
)

// RawPattern is a single pattern as defined in YAML.
type RawPattern struct {
	Type  PatternType `yaml:"type"`
	Value string      `yaml:"value"`
}

// RawExamples contains test examples for rule self-testing.
type RawExamples struct {
	Match   []string `yaml:"match"`
	NoMatch []string `yaml:"no_match"`
}

// RawRule is the YAML representation of a classification rule.
type RawRule struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Severity    string       `yaml:"severity"`
	Category    string       `yaml:"category"`
	MatchMode   string       `yaml:"match_mode"`
	Patterns    []RawPattern `yaml:"patterns"`
	Examples    RawExamples  `yaml:"examples"`
}

// CompiledPattern is a pattern ready for matching.
type CompiledPattern struct {
	Type  PatternType
	Regex *regexp.Regexp // set when Type == PatternRegex
	Value string         // set when Type == PatternContains (lowercased)
}

// CompiledRule is a rule compiled and ready for execution.
type CompiledRule struct {
	ID          string
	Name        string
	Description string
	Severity    types.Severity
	Category    string
	MatchMode   MatchMode
	Patterns    []CompiledPattern
	Examples    RawExamples
}
