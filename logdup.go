// Package logdup provides a public API for detecting redundant and low-value
// logging patterns in a codebase's extracted logging call-sites: exact
// duplicates, per-iteration loop spam, low-information noise, and
// near-duplicate messages.
//
// This is the library entry point. For the CLI tool, see cmd/logdup/.
package logdup

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/logdup/logdup/internal/detector"
	"github.com/logdup/logdup/internal/engine/exact"
	"github.com/logdup/logdup/internal/engine/noise"
	"github.com/logdup/logdup/internal/engine/similar"
	"github.com/logdup/logdup/internal/engine/spam"
	"github.com/logdup/logdup/internal/meta"
	"github.com/logdup/logdup/internal/rules"
	"github.com/logdup/logdup/internal/rules/builtin"
	"github.com/logdup/logdup/internal/types"
)

// Re-export core types from internal/types so consumers don't need to
// import internal packages.
type (
	Severity    = types.Severity
	FindingType = types.FindingType
	Statement   = types.Statement
	Entity      = types.Entity
	Location    = types.Location
	Finding     = types.Finding
	Statistics  = types.Statistics
	Report      = types.Report
)

const (
	SeverityLow      = types.SeverityLow
	SeverityMedium   = types.SeverityMedium
	SeverityHigh     = types.SeverityHigh
	SeverityCritical = types.SeverityCritical

	TypeExact   = types.TypeExact
	TypeSpam    = types.TypeSpam
	TypeNoise   = types.TypeNoise
	TypeSimilar = types.TypeSimilar

	ModeFull           = types.ModeFull
	ModeStatementsOnly = types.ModeStatementsOnly
)

// ParseSeverity converts a string to a Severity level.
func ParseSeverity(s string) (Severity, error) {
	return types.ParseSeverity(s)
}

// RuleOverride allows changing the severity of a rule or disabling it.
type RuleOverride struct {
	Severity string
	Disabled bool
}

// RuleInfo provides summary metadata about a classification rule.
type RuleInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Severity string `json:"severity"`
	Category string `json:"category"`
}

// RuleDetail provides full information about a rule, including patterns and examples.
type RuleDetail struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Severity    string   `json:"severity"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Patterns    []string `json:"patterns"`
	Matches     []string `json:"matches"`
	NonMatches  []string `json:"non_matches"`
}

// Detect classifies the given logging statements into redundancy findings.
//
// It is pure and deterministic: identical input yields an identical report,
// and the engine holds no state between calls. Detect never panics across
// this boundary and never returns a Go error; structural failures, rule
// loading problems, and an expired caller deadline all surface as a report
// with Success=false and an explanatory Message, never as a partial result.
func Detect(ctx context.Context, statements []Statement, opts ...Option) (report *Report) {
	cfg := applyOpts(opts)
	mode := ModeStatementsOnly
	if len(cfg.entities) > 0 {
		mode = ModeFull
	}

	defer func() {
		if r := recover(); r != nil {
			report = failedReport(mode, fmt.Sprintf("detection failed: internal fault: %v", r))
		}
	}()

	compiled, err := loadAndCompile(cfg)
	if err != nil {
		return failedReport(mode, fmt.Sprintf("detection failed: %v", err))
	}

	d := buildDetector(cfg, compiled)
	result, err := d.Run(ctx, statements, mode)
	if err != nil {
		return failedReport(mode, fmt.Sprintf("detection failed: %v", err))
	}
	return result
}

// ListRules returns all available classification rules.
// Use WithCategory to filter by category.
func ListRules(opts ...Option) []RuleInfo {
	cfg := applyOpts(opts)
	compiled, _ := loadAndCompile(cfg)

	sort.Slice(compiled, func(i, j int) bool {
		return compiled[i].ID < compiled[j].ID
	})

	if cfg.category != "" {
		compiled = rules.ByCategory(compiled, strings.ToLower(cfg.category))
	}

	infos := make([]RuleInfo, len(compiled))
	for i, r := range compiled {
		infos[i] = RuleInfo{
			ID:       r.ID,
			Name:     r.Name,
			Severity: r.Severity.String(),
			Category: r.Category,
		}
	}
	return infos
}

// ExplainRule returns detailed information about a specific rule.
func ExplainRule(id string, opts ...Option) (*RuleDetail, error) {
	id = strings.ToUpper(strings.TrimSpace(id))
	cfg := applyOpts(opts)
	compiled, _ := loadAndCompile(cfg)

	var found *rules.CompiledRule
	for _, r := range compiled {
		if r.ID == id {
			found = r
			break
		}
	}
	if found == nil {
		return nil, fmt.Errorf("rule %q not found", id)
	}

	patterns := make([]string, len(found.Patterns))
	for i, p := range found.Patterns {
		switch p.Type {
		case rules.PatternRegex:
			patterns[i] = fmt.Sprintf("[regex] %s", p.Regex.String())
		case rules.PatternContains:
			patterns[i] = fmt.Sprintf("[contains] %s", p.Value)
		}
	}

	return &RuleDetail{
		ID:          found.ID,
		Name:        found.Name,
		Severity:    found.Severity.String(),
		Category:    found.Category,
		Description: found.Description,
		Patterns:    patterns,
		Matches:     found.Examples.Match,
		NonMatches:  found.Examples.NoMatch,
	}, nil
}

// --- internal helpers ---

func applyOpts(opts []Option) *detectConfig {
	cfg := &detectConfig{}
	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

// loadAndCompile loads built-in (and optionally custom) rules, compiles them,
// and applies overrides/filters. Used by all public functions.
func loadAndCompile(cfg *detectConfig) ([]*rules.CompiledRule, error) {
	rawRules, err := rules.LoadFromFS(builtin.FS())
	if err != nil {
		return nil, fmt.Errorf("loading built-in rules: %w", err)
	}

	if cfg.customRulesDir != "" {
		custom, err := rules.LoadFromDir(cfg.customRulesDir)
		if err != nil {
			return nil, fmt.Errorf("loading custom rules from %s: %w", cfg.customRulesDir, err)
		}
		rawRules = append(rawRules, custom...)
	}

	compiled, compileErrs := rules.CompileAll(rawRules)
	for _, e := range compileErrs {
		fmt.Fprintf(os.Stderr, "logdup: warning: %v\n", e)
	}

	if len(cfg.ruleOverrides) > 0 {
		overrides := make(map[string]rules.RuleOverride, len(cfg.ruleOverrides))
		for id, ovr := range cfg.ruleOverrides {
			overrides[id] = rules.RuleOverride{Severity: ovr.Severity, Disabled: ovr.Disabled}
		}
		var overrideErrs []error
		compiled, overrideErrs = rules.ApplyOverrides(compiled, overrides)
		for _, e := range overrideErrs {
			fmt.Fprintf(os.Stderr, "logdup: warning: %v\n", e)
		}
	}

	if len(cfg.disabledRules) > 0 {
		disabled := make(map[string]bool, len(cfg.disabledRules))
		for _, id := range cfg.disabledRules {
			disabled[strings.TrimSpace(id)] = true
		}
		compiled = rules.FilterByIDs(compiled, disabled)
	}

	return compiled, nil
}

// buildDetector creates a fully wired Detector with the standard stage order:
// exact > spam > noise > similar.
func buildDetector(cfg *detectConfig, compiled []*rules.CompiledRule) *detector.Detector {
	d := detector.New()
	d.SetRepositoryPath(cfg.repositoryPath)
	if cfg.volumeThreshold > 0 || cfg.fileSpanThreshold > 0 {
		d.SetEscalation(meta.Escalation{
			VolumeThreshold:   cfg.volumeThreshold,
			FileSpanThreshold: cfg.fileSpanThreshold,
		})
	}

	d.RegisterStage(exact.NewGrouper())
	d.RegisterStage(spam.New(rules.ByCategory(compiled, rules.CategoryLoop)))
	d.RegisterStage(noise.New(rules.ByCategory(compiled, rules.CategoryNoise)))
	d.RegisterStage(similar.New(cfg.similarityThreshold, cfg.workers))

	return d
}

func failedReport(mode, message string) *Report {
	return &Report{
		Success:       false,
		DetectionMode: mode,
		DuplicateLogs: []Finding{},
		Statistics:    meta.Aggregate(nil),
		Message:       message,
	}
}
