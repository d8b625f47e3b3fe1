package meta

import "github.com/logdup/logdup/internal/types"

// Aggregate reduces a finding list to its Statistics view. Every type and
// severity key is present even when zero, so consumers get a stable schema.
// A location shared by two findings is counted once.
func Aggregate(findings []types.Finding) types.Statistics {
	stats := types.Statistics{
		TotalDuplicates: len(findings),
		ByType:          make(map[string]int, len(types.FindingTypes)),
		BySeverity:      make(map[string]int, 4),
	}
	for _, t := range types.FindingTypes {
		stats.ByType[string(t)] = 0
	}
	for _, sev := range []types.Severity{
		types.SeverityCritical,
		types.SeverityHigh,
		types.SeverityMedium,
		types.SeverityLow,
	} {
		stats.BySeverity[sev.String()] = 0
	}

	seen := make(map[string]struct{})
	for _, f := range findings {
		stats.ByType[string(f.Type)]++
		stats.BySeverity[f.Severity.String()]++
		for _, loc := range f.Locations {
			seen[loc.Key()] = struct{}{}
		}
	}
	stats.TotalAffectedLocations = len(seen)
	return stats
}
