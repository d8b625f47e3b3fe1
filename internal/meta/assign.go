// Package meta post-processes grouped findings: severity and recommendation
// assignment, escalation, and statistics aggregation. It never produces
// findings of its own.
package meta

import "github.com/logdup/logdup/internal/types"

// baseSeverity maps finding type to its base severity.
var baseSeverity = map[types.FindingType]types.Severity{
	types.TypeExact:   types.SeverityMedium,
	types.TypeSpam:    types.SeverityHigh,
	types.TypeNoise:   types.SeverityLow,
	types.TypeSimilar: types.SeverityMedium,
}

// recommendations maps finding type to remediation guidance.
var recommendations = map[types.FindingType]string{
	types.TypeExact:   "Consolidate into a shared logging helper, or raise the call up the stack so the message is emitted from a single point.",
	types.TypeSpam:    "Replace per-iteration logging with a pre/post-loop summary (counts, elapsed time), or demote to a high-volume-safe level with sampling.",
	types.TypeNoise:   "Remove the statement, or demote it to a conditional trace path excluded from production builds.",
	types.TypeSimilar: "Unify the wording into one canonical message template shared by all call-sites.",
}

// exactFileSpanFloor is the distinct-file count at which an exact duplicate
// group starts at high severity instead of medium.
const exactFileSpanFloor = 3

// Escalation holds the volume and file-span thresholds above which a
// finding's severity is raised one level.
type Escalation struct {
	VolumeThreshold   int
	FileSpanThreshold int
}

// DefaultEscalation returns the standard escalation thresholds.
func DefaultEscalation() Escalation {
	return Escalation{VolumeThreshold: 10, FileSpanThreshold: 3}
}

func (e Escalation) withDefaults() Escalation {
	d := DefaultEscalation()
	if e.VolumeThreshold <= 0 {
		e.VolumeThreshold = d.VolumeThreshold
	}
	if e.FileSpanThreshold <= 0 {
		e.FileSpanThreshold = d.FileSpanThreshold
	}
	return e
}

// Assign sets severity and recommendation on a finding from the type table,
// the group's level context, and the escalation thresholds. elevated reports
// whether any folded statement logged at warning level or worse.
func Assign(f *types.Finding, elevated bool, esc Escalation) {
	esc = esc.withDefaults()

	sev := baseSeverity[f.Type]
	if f.Type == types.TypeExact && (elevated || f.DistinctFiles() >= exactFileSpanFloor) {
		sev = types.SeverityHigh
	}
	if f.Occurrences > esc.VolumeThreshold || f.DistinctFiles() > esc.FileSpanThreshold {
		sev = types.UpgradeSeverity(sev)
	}

	f.Severity = sev
	f.Recommendation = recommendations[f.Type]
}
