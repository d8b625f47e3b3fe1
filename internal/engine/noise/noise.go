// Package noise flags low-information statements: canonical messages matching
// the noise phrase rules, or trace-tier statements carrying no structured
// context.
package noise

import (
	"context"
	"strings"

	"github.com/logdup/logdup/internal/detector"
	"github.com/logdup/logdup/internal/normalize"
	"github.com/logdup/logdup/internal/rules"
	"github.com/logdup/logdup/internal/types"
)

// unstructuredTokenLimit bounds how many tokens a trace-level message may
// carry before it stops counting as bare noise.
const unstructuredTokenLimit = 3

// Classifier implements the noise stage over the noise rule table.
type Classifier struct {
	rules []*rules.CompiledRule
}

// New creates the noise stage from the compiled noise rules.
func New(noiseRules []*rules.CompiledRule) *Classifier {
	return &Classifier{rules: noiseRules}
}

func (c *Classifier) Name() string { return "noise" }

// Claim flags every record classified as noise. Each flagged record is its
// own finding with one location.
func (c *Classifier) Claim(ctx context.Context, records []*detector.Record) ([]*detector.Group, []*detector.Record, error) {
	var groups []*detector.Group
	var remaining []*detector.Record
	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if !c.isNoise(r) {
			remaining = append(remaining, r)
			continue
		}
		groups = append(groups, &detector.Group{
			Type:    types.TypeNoise,
			Records: []*detector.Record{r},
		})
	}
	return groups, remaining, nil
}

func (c *Classifier) isNoise(r *detector.Record) bool {
	for _, rule := range c.rules {
		if rule.Matches(r.Canonical) {
			return true
		}
	}
	return traceNoise(r)
}

// traceNoise catches trace/debug statements whose message carries no
// structured context: a handful of tokens and no key=value pairs.
func traceNoise(r *detector.Record) bool {
	if !types.IsTraceLevel(r.EffectiveLevel()) {
		return false
	}
	if strings.Contains(r.Message, "=") {
		return false
	}
	tokens := normalize.Tokens(r.Canonical)
	return len(tokens) > 0 && len(tokens) <= unstructuredTokenLimit
}
