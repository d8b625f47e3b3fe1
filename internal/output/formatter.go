// Package output formats detection reports for terminal (ANSI), JSON, SARIF,
// and Markdown output.
package output

import (
	"io"

	"github.com/logdup/logdup/internal/types"
)

// Formatter is the interface for outputting detection reports.
type Formatter interface {
	Format(w io.Writer, report *types.Report) error
}

// severityOrder lists severities from worst to least for display.
var severityOrder = []types.Severity{
	types.SeverityCritical,
	types.SeverityHigh,
	types.SeverityMedium,
	types.SeverityLow,
}

func filterBySeverity(findings []types.Finding, sev types.Severity) []types.Finding {
	var filtered []types.Finding
	for _, f := range findings {
		if f.Severity == sev {
			filtered = append(filtered, f)
		}
	}
	return filtered
}

func filterByType(findings []types.Finding, t types.FindingType) []types.Finding {
	var filtered []types.Finding
	for _, f := range findings {
		if f.Type == t {
			filtered = append(filtered, f)
		}
	}
	return filtered
}
