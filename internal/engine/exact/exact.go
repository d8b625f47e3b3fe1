// Package exact groups statements that share a canonical message across
// multiple source locations.
package exact

import (
	"context"

	"github.com/logdup/logdup/internal/detector"
	"github.com/logdup/logdup/internal/types"
)

// Grouper implements the exact-duplicate stage.
type Grouper struct{}

// NewGrouper creates the exact-duplicate stage.
func NewGrouper() *Grouper {
	return &Grouper{}
}

func (g *Grouper) Name() string { return "exact" }

// Claim groups records by canonical message in first-occurrence order.
// A group qualifies iff it spans at least two distinct (file, line) pairs;
// occurrences count every folded statement, including repeats at the same
// location. Records with an empty canonical message are never claimed.
func (g *Grouper) Claim(ctx context.Context, records []*detector.Record) ([]*detector.Group, []*detector.Record, error) {
	var order []string
	byCanonical := make(map[string][]*detector.Record)
	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if r.Canonical == "" {
			continue
		}
		if _, ok := byCanonical[r.Canonical]; !ok {
			order = append(order, r.Canonical)
		}
		byCanonical[r.Canonical] = append(byCanonical[r.Canonical], r)
	}

	var groups []*detector.Group
	claimed := make(map[int]struct{})
	for _, canonical := range order {
		members := byCanonical[canonical]
		if !spansDistinctLocations(members) {
			continue
		}
		for _, r := range members {
			claimed[r.Index] = struct{}{}
		}
		groups = append(groups, &detector.Group{
			Type:     types.TypeExact,
			Records:  members,
			Elevated: detector.Elevated(members),
		})
	}

	var remaining []*detector.Record
	for _, r := range records {
		if _, ok := claimed[r.Index]; !ok {
			remaining = append(remaining, r)
		}
	}
	return groups, remaining, nil
}

func spansDistinctLocations(records []*detector.Record) bool {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		seen[r.Location().Key()] = struct{}{}
		if len(seen) >= 2 {
			return true
		}
	}
	return false
}
