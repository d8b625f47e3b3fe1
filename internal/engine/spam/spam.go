// Package spam flags statements whose surrounding context places them inside
// a loop construct. A single statement qualifies: the loop itself implies
// per-element repetition at runtime.
package spam

import (
	"context"
	"strings"

	"github.com/logdup/logdup/internal/detector"
	"github.com/logdup/logdup/internal/rules"
	"github.com/logdup/logdup/internal/types"
)

// Detector implements the loop-spam stage over the loop rule table.
type Detector struct {
	rules []*rules.CompiledRule
}

// New creates the spam stage from the compiled loop rules.
func New(loopRules []*rules.CompiledRule) *Detector {
	return &Detector{rules: loopRules}
}

func (d *Detector) Name() string { return "spam" }

// Claim flags every record whose context snippet matches a loop rule.
// Each flagged record is its own finding; records without context pass
// through untouched.
func (d *Detector) Claim(ctx context.Context, records []*detector.Record) ([]*detector.Group, []*detector.Record, error) {
	var groups []*detector.Group
	var remaining []*detector.Record
	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if !d.inLoop(r) {
			remaining = append(remaining, r)
			continue
		}
		groups = append(groups, &detector.Group{
			Type:     types.TypeSpam,
			Records:  []*detector.Record{r},
			Elevated: detector.Elevated([]*detector.Record{r}),
		})
	}
	return groups, remaining, nil
}

func (d *Detector) inLoop(r *detector.Record) bool {
	snippet := strings.TrimSpace(r.Context)
	if snippet == "" {
		return false
	}
	for _, rule := range d.rules {
		if rule.Matches(snippet) {
			return true
		}
	}
	return false
}
