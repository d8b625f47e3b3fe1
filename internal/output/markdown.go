package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/logdup/logdup/internal/types"
)

// MarkdownFormatter outputs the report as GitHub-flavored markdown,
// designed for GitHub Actions Job Summaries and PR comments.
type MarkdownFormatter struct{}

func (f *MarkdownFormatter) Format(w io.Writer, report *types.Report) error {
	if !report.Success {
		fmt.Fprintf(w, "### :x: Logdup — detection failed\n\n> %s\n", report.Message)
		return nil
	}
	if len(report.DuplicateLogs) == 0 {
		fmt.Fprintf(w, "### :white_check_mark: Logdup — no redundant logging found\n\n")
		fmt.Fprintf(w, "> %s · mode: %s\n", report.Message, report.DetectionMode)
		return nil
	}

	f.printSummary(w, report)
	f.printFindings(w, report.DuplicateLogs)
	return nil
}

func (f *MarkdownFormatter) printSummary(w io.Writer, report *types.Report) {
	stats := report.Statistics
	fmt.Fprintf(w, "### :rotating_light: Logdup — %d redundant logging findings\n\n", stats.TotalDuplicates)
	fmt.Fprintf(w, "> %d affected locations · mode: %s\n\n", stats.TotalAffectedLocations, report.DetectionMode)

	var badges []string
	for _, sev := range severityOrder {
		c := stats.BySeverity[sev.String()]
		if c == 0 {
			continue
		}
		badges = append(badges, fmt.Sprintf("%s **%d %s**", severityEmoji(sev), c, sev.String()))
	}
	fmt.Fprintf(w, "%s\n\n", strings.Join(badges, " · "))
}

func (f *MarkdownFormatter) printFindings(w io.Writer, findings []types.Finding) {
	for _, t := range types.FindingTypes {
		filtered := filterByType(findings, t)
		if len(filtered) == 0 {
			continue
		}

		fmt.Fprintf(w, "<details open>\n")
		fmt.Fprintf(w, "<summary><strong>%s (%d)</strong></summary>\n\n", typeHeading(t), len(filtered))

		fmt.Fprintf(w, "| Severity | Message | Occurrences | Locations |\n")
		fmt.Fprintf(w, "|----------|---------|-------------|----------|\n")
		for _, finding := range filtered {
			fmt.Fprintf(w, "| %s %s | `%s` | %d | %s |\n",
				severityEmoji(finding.Severity),
				finding.Severity.String(),
				truncateMarkdown(finding.Message, 60),
				finding.Occurrences,
				locationsCell(finding.Locations))
		}

		fmt.Fprintf(w, "\n> %s\n\n", filtered[0].Recommendation)
		fmt.Fprintf(w, "</details>\n\n")
	}
}

func locationsCell(locations []types.Location) string {
	const maxShown = 3
	var parts []string
	for i, loc := range locations {
		if i == maxShown {
			parts = append(parts, fmt.Sprintf("+%d more", len(locations)-maxShown))
			break
		}
		parts = append(parts, fmt.Sprintf("`%s:%d`", loc.FilePath, loc.LineNumber))
	}
	return strings.Join(parts, "<br>")
}

func typeHeading(t types.FindingType) string {
	switch t {
	case types.TypeExact:
		return ":repeat: Exact duplicates"
	case types.TypeSpam:
		return ":loop: Loop spam"
	case types.TypeNoise:
		return ":mute: Noise"
	case types.TypeSimilar:
		return ":twisted_rightwards_arrows: Similar messages"
	default:
		return string(t)
	}
}

func severityEmoji(sev types.Severity) string {
	switch sev {
	case types.SeverityCritical:
		return ":red_circle:"
	case types.SeverityHigh:
		return ":orange_circle:"
	case types.SeverityMedium:
		return ":yellow_circle:"
	default:
		return ":white_circle:"
	}
}

func truncateMarkdown(s string, limit int) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > limit {
		s = s[:limit] + "..."
	}
	return s
}
