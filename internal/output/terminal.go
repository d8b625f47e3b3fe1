package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/logdup/logdup/internal/types"
)

// ANSI color codes
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[31m"
	yellow = "\033[33m"
	blue   = "\033[34m"
	cyan   = "\033[36m"
	bgRed  = "\033[41m"
)

const (
	barWidth     = 40
	lineWidth    = 72
	maxLocations = 5
)

// TerminalFormatter outputs findings in a triage-optimized format.
type TerminalFormatter struct {
	NoColor bool
	Verbose bool
}

func (f *TerminalFormatter) color(code, text string) string {
	if f.NoColor {
		return text
	}
	return code + text + reset
}

func (f *TerminalFormatter) Format(w io.Writer, report *types.Report) error {
	if !f.NoColor {
		if os.Getenv("NO_COLOR") != "" {
			f.NoColor = true
		}
	}

	f.printHeader(w, report)

	if !report.Success {
		fmt.Fprintf(w, "\n  %s %s\n", f.color(red, "✖"), report.Message)
		return nil
	}

	if len(report.DuplicateLogs) == 0 {
		fmt.Fprintf(w, "\n  %s %s\n", f.color(cyan, "✔"), report.Message)
	} else {
		f.printDashboard(w, report.Statistics)
		for _, t := range types.FindingTypes {
			filtered := filterByType(report.DuplicateLogs, t)
			if len(filtered) > 0 {
				f.printTypeSection(w, t, filtered)
			}
		}
	}

	f.printFooter(w, report)
	return nil
}

func (f *TerminalFormatter) separator() string {
	return strings.Repeat("─", lineWidth)
}

func (f *TerminalFormatter) sectionHeader(title string) string {
	prefix := "── " + title + " "
	displayLen := utf8.RuneCountInString(prefix)
	remaining := max(lineWidth-displayLen, 0)
	return prefix + strings.Repeat("─", remaining)
}

func (f *TerminalFormatter) printHeader(w io.Writer, report *types.Report) {
	sep := f.separator()
	fmt.Fprintf(w, "\n%s\n", f.color(dim, sep))
	fmt.Fprintf(w, "  %s\n", f.color(bold, "LOGDUP REDUNDANCY REPORT"))
	fmt.Fprintf(w, "  mode: %s\n", report.DetectionMode)
	fmt.Fprintf(w, "%s\n", f.color(dim, sep))
}

func (f *TerminalFormatter) printDashboard(w io.Writer, stats types.Statistics) {
	maxCount := 0
	for _, sev := range severityOrder {
		if c := stats.BySeverity[sev.String()]; c > maxCount {
			maxCount = c
		}
	}
	if maxCount == 0 {
		return
	}

	fmt.Fprintf(w, "\n%s\n\n", f.sectionHeader("SEVERITY"))
	for _, sev := range severityOrder {
		count := stats.BySeverity[sev.String()]
		if count == 0 {
			continue
		}
		filled := count * barWidth / maxCount
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
		fmt.Fprintf(w, "  %s %s %d\n", f.severityBadge(sev), f.color(dim, bar), count)
	}
}

func (f *TerminalFormatter) printTypeSection(w io.Writer, t types.FindingType, findings []types.Finding) {
	fmt.Fprintf(w, "\n%s\n", f.sectionHeader(strings.ToUpper(string(t))+" DUPLICATES"))
	for _, finding := range findings {
		fmt.Fprintf(w, "\n  %s %s\n", f.severityBadge(finding.Severity), f.color(bold, quote(finding.Message)))
		fmt.Fprintf(w, "    %d occurrences in %d files\n", finding.Occurrences, finding.DistinctFiles())
		for i, loc := range finding.Locations {
			if i == maxLocations {
				fmt.Fprintf(w, "    %s\n", f.color(dim, fmt.Sprintf("... and %d more", len(finding.Locations)-maxLocations)))
				break
			}
			pos := fmt.Sprintf("%s:%d", loc.FilePath, loc.LineNumber)
			if loc.Function != "" {
				pos += " (" + loc.Function + ")"
			}
			fmt.Fprintf(w, "    %s\n", f.color(blue, pos))
		}
		if f.Verbose {
			fmt.Fprintf(w, "    %s %s\n", f.color(cyan, "→"), finding.Recommendation)
		}
	}
}

func (f *TerminalFormatter) printFooter(w io.Writer, report *types.Report) {
	stats := report.Statistics
	sep := f.separator()
	fmt.Fprintf(w, "\n%s\n", f.color(dim, sep))
	parts := []string{
		fmt.Sprintf("%d findings", stats.TotalDuplicates),
		fmt.Sprintf("%d affected locations", stats.TotalAffectedLocations),
	}
	for _, t := range types.FindingTypes {
		if c := stats.ByType[string(t)]; c > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", c, t))
		}
	}
	fmt.Fprintf(w, "  %s\n", strings.Join(parts, "  ·  "))
	fmt.Fprintf(w, "%s\n", f.color(dim, sep))
}

func (f *TerminalFormatter) severityBadge(sev types.Severity) string {
	label := fmt.Sprintf("[%s]", strings.ToUpper(sev.String()))
	switch sev {
	case types.SeverityCritical:
		return f.color(bgRed+bold, label)
	case types.SeverityHigh:
		return f.color(red+bold, label)
	case types.SeverityMedium:
		return f.color(yellow, label)
	default:
		return f.color(dim, label)
	}
}

func quote(s string) string {
	if len(s) > 60 {
		s = s[:60] + "..."
	}
	return fmt.Sprintf("%q", s)
}
