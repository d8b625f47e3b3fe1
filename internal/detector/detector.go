// Package detector orchestrates the classification pipeline. Stages run in
// fixed order with claim precedence: a statement claimed by an earlier stage
// never reaches a later one, so no statement is double-counted.
package detector

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/logdup/logdup/internal/meta"
	"github.com/logdup/logdup/internal/normalize"
	"github.com/logdup/logdup/internal/types"
)

// Record pairs a statement with its canonical message and input position.
// Stages share records read-only; the original statement list is never
// mutated.
type Record struct {
	types.Statement
	Canonical string
	Index     int
}

// Location returns the record's source position.
func (r *Record) Location() types.Location {
	return types.Location{
		FilePath:   r.FilePath,
		LineNumber: r.LineNumber,
		Function:   r.Function,
	}
}

// Group is a set of records claimed by one stage as a single finding.
type Group struct {
	Type     types.FindingType
	Records  []*Record
	Elevated bool // any record logged at warning level or worse
}

// Stage claims records for one finding type and passes the rest on.
// Returned groups must be in first-seen order of the input records, and
// remaining must preserve input order.
type Stage interface {
	Name() string
	Claim(ctx context.Context, records []*Record) (groups []*Group, remaining []*Record, err error)
}

// Detector runs the staged pipeline and assembles the report.
type Detector struct {
	stages     []Stage
	repoPath   string
	escalation meta.Escalation
}

// New creates an empty Detector. Stages are registered in execution order.
func New() *Detector {
	return &Detector{escalation: meta.DefaultEscalation()}
}

// RegisterStage appends a stage to the pipeline.
func (d *Detector) RegisterStage(s Stage) {
	d.stages = append(d.stages, s)
}

// SetRepositoryPath sets the prefix trimmed from file paths for display.
// Purely lexical; the detector performs no filesystem access.
func (d *Detector) SetRepositoryPath(path string) {
	d.repoPath = path
}

// SetEscalation overrides the severity escalation thresholds.
func (d *Detector) SetEscalation(esc meta.Escalation) {
	d.escalation = esc
}

// Run executes the pipeline over the statements and builds the report.
// The returned error indicates the run could not complete (cancellation or
// a stage fault); callers convert it into a failed report at the boundary.
func (d *Detector) Run(ctx context.Context, statements []types.Statement, mode string) (*types.Report, error) {
	records := d.prepare(statements)

	findings := []types.Finding{}
	for _, stage := range d.stages {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("stage %s: %w", stage.Name(), err)
		}
		groups, remaining, err := stage.Claim(ctx, records)
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", stage.Name(), err)
		}
		for _, g := range groups {
			findings = append(findings, d.buildFinding(g))
		}
		records = remaining
	}

	stats := meta.Aggregate(findings)
	return &types.Report{
		Success:       true,
		DetectionMode: mode,
		DuplicateLogs: findings,
		Statistics:    stats,
		Message:       summaryMessage(len(statements), stats),
	}, nil
}

// prepare canonicalizes messages and normalizes file paths into fresh
// records, leaving the caller's statements untouched.
func (d *Detector) prepare(statements []types.Statement) []*Record {
	records := make([]*Record, len(statements))
	for i, stmt := range statements {
		stmt.FilePath = displayPath(stmt.FilePath, d.repoPath)
		records[i] = &Record{
			Statement: stmt,
			Canonical: normalize.Canonicalize(stmt.Message),
			Index:     i,
		}
	}
	return records
}

func (d *Detector) buildFinding(g *Group) types.Finding {
	f := types.Finding{
		Type:        g.Type,
		Occurrences: len(g.Records),
		Locations:   []types.Location{},
		Message:     strings.TrimSpace(g.Records[0].Message),
	}
	seen := make(map[string]struct{}, len(g.Records))
	for _, r := range g.Records {
		loc := r.Location()
		if _, ok := seen[loc.Key()]; ok {
			continue
		}
		seen[loc.Key()] = struct{}{}
		f.Locations = append(f.Locations, loc)
	}
	meta.Assign(&f, g.Elevated, d.escalation)
	return f
}

func summaryMessage(statements int, stats types.Statistics) string {
	if stats.TotalDuplicates == 0 {
		return fmt.Sprintf("No redundant logging detected across %d statements", statements)
	}
	return fmt.Sprintf("Found %d redundant logging issues affecting %d locations",
		stats.TotalDuplicates, stats.TotalAffectedLocations)
}

// displayPath trims the repository prefix from a file path. Lexical only.
func displayPath(path, repo string) string {
	if repo == "" || path == "" {
		return path
	}
	p := filepath.ToSlash(path)
	r := strings.TrimRight(filepath.ToSlash(repo), "/")
	if strings.HasPrefix(p, r+"/") {
		return strings.TrimPrefix(p, r+"/")
	}
	return path
}

// Elevated reports whether any record in the set logged at warning level
// or worse. Shared by the grouping stages.
func Elevated(records []*Record) bool {
	for _, r := range records {
		if types.IsElevatedLevel(r.EffectiveLevel()) {
			return true
		}
	}
	return false
}
