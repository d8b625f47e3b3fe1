package logdup

// detectConfig holds the resolved configuration for a detection run.
type detectConfig struct {
	entities            []Entity
	repositoryPath      string
	similarityThreshold float64
	workers             int
	volumeThreshold     int
	fileSpanThreshold   int
	customRulesDir      string
	disabledRules       []string
	ruleOverrides       map[string]RuleOverride
	category            string // only for ListRules
}

// Option configures a detection run.
type Option func(*detectConfig)

// WithEntities supplies the optional symbol/call-graph context. A non-empty
// graph switches the report's detection_mode to "full"; it has no effect on
// which findings are produced.
func WithEntities(entities []Entity) Option {
	return func(c *detectConfig) {
		c.entities = entities
	}
}

// WithRepositoryPath sets the repository root trimmed from file paths for
// display. No filesystem access is performed.
func WithRepositoryPath(path string) Option {
	return func(c *detectConfig) {
		c.repositoryPath = path
	}
}

// WithSimilarityThreshold overrides the similarity ratio above which two
// messages cluster together (default 0.7).
func WithSimilarityThreshold(threshold float64) Option {
	return func(c *detectConfig) {
		c.similarityThreshold = threshold
	}
}

// WithWorkers sets the number of concurrent similarity workers (default: NumCPU).
func WithWorkers(n int) Option {
	return func(c *detectConfig) {
		c.workers = n
	}
}

// WithVolumeThreshold sets the occurrence count above which a finding's
// severity is escalated one level (default 10).
func WithVolumeThreshold(n int) Option {
	return func(c *detectConfig) {
		c.volumeThreshold = n
	}
}

// WithFileSpanThreshold sets the distinct-file count above which a finding's
// severity is escalated one level (default 3).
func WithFileSpanThreshold(n int) Option {
	return func(c *detectConfig) {
		c.fileSpanThreshold = n
	}
}

// WithCustomRules loads additional classification rules from a directory.
func WithCustomRules(dir string) Option {
	return func(c *detectConfig) {
		c.customRulesDir = dir
	}
}

// WithDisabledRules excludes specific rule IDs from classification.
func WithDisabledRules(ids ...string) Option {
	return func(c *detectConfig) {
		c.disabledRules = append(c.disabledRules, ids...)
	}
}

// WithRuleOverrides applies severity overrides or disables rules.
func WithRuleOverrides(overrides map[string]RuleOverride) Option {
	return func(c *detectConfig) {
		c.ruleOverrides = overrides
	}
}

// WithCategory filters rules by category (only applies to ListRules).
func WithCategory(cat string) Option {
	return func(c *detectConfig) {
		c.category = cat
	}
}
