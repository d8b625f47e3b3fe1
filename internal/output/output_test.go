package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/logdup/logdup/internal/types"
	"github.com/stretchr/testify/require"
)

func sampleReport() *types.Report {
	findings := []types.Finding{
		{
			Type:        types.TypeExact,
			Severity:    types.SeverityHigh,
			Occurrences: 3,
			Locations: []types.Location{
				{FilePath: "src/auth.py", LineNumber: 42, Function: "login"},
				{FilePath: "src/session.py", LineNumber: 7},
			},
			Message:        "User logged in",
			Recommendation: "Consolidate into a shared logging helper, or raise the call up the stack so the message is emitted from a single point.",
		},
		{
			Type:        types.TypeNoise,
			Severity:    types.SeverityLow,
			Occurrences: 1,
			Locations: []types.Location{
				{FilePath: "src/util.py", LineNumber: 3},
			},
			Message:        "here",
			Recommendation: "Remove the statement, or demote it to a conditional trace path excluded from production builds.",
		},
	}
	return &types.Report{
		Success:       true,
		DetectionMode: types.ModeFull,
		DuplicateLogs: findings,
		Statistics: types.Statistics{
			TotalDuplicates:        2,
			TotalAffectedLocations: 3,
			ByType:                 map[string]int{"exact": 1, "spam": 0, "noise": 1, "similar": 0},
			BySeverity:             map[string]int{"critical": 0, "high": 1, "medium": 0, "low": 1},
		},
		Message: "Found 2 redundant logging issues affecting 3 locations",
	}
}

func failedReport() *types.Report {
	return &types.Report{
		Success:       false,
		DetectionMode: types.ModeStatementsOnly,
		DuplicateLogs: []types.Finding{},
		Message:       "detection failed: context canceled",
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := &JSONFormatter{}
	require.NoError(t, f.Format(&buf, sampleReport()))

	var got types.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.True(t, got.Success)
	require.Len(t, got.DuplicateLogs, 2)
	require.Equal(t, types.SeverityHigh, got.DuplicateLogs[0].Severity)

	// Severity serializes as its lowercase name, never a number.
	require.Contains(t, buf.String(), `"severity": "high"`)
	require.NotContains(t, buf.String(), `"severity": 2`)
}

func TestTerminalFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := &TerminalFormatter{NoColor: true}
	require.NoError(t, f.Format(&buf, sampleReport()))

	out := buf.String()
	require.Contains(t, out, "LOGDUP REDUNDANCY REPORT")
	require.Contains(t, out, "mode: full")
	require.Contains(t, out, "EXACT DUPLICATES")
	require.Contains(t, out, "NOISE DUPLICATES")
	require.Contains(t, out, `"User logged in"`)
	require.Contains(t, out, "3 occurrences in 2 files")
	require.Contains(t, out, "src/auth.py:42 (login)")
	require.Contains(t, out, "2 findings")
	require.NotContains(t, out, "\033[")
}

func TestTerminalFormatterVerboseRecommendation(t *testing.T) {
	var buf bytes.Buffer
	f := &TerminalFormatter{NoColor: true, Verbose: true}
	require.NoError(t, f.Format(&buf, sampleReport()))
	require.Contains(t, buf.String(), "Consolidate into a shared logging helper")
}

func TestTerminalFormatterCleanReport(t *testing.T) {
	report := &types.Report{
		Success:       true,
		DetectionMode: types.ModeFull,
		DuplicateLogs: []types.Finding{},
		Message:       "No redundant logging detected across 5 statements",
	}

	var buf bytes.Buffer
	f := &TerminalFormatter{NoColor: true}
	require.NoError(t, f.Format(&buf, report))
	require.Contains(t, buf.String(), "No redundant logging detected")
}

func TestTerminalFormatterFailedReport(t *testing.T) {
	var buf bytes.Buffer
	f := &TerminalFormatter{NoColor: true}
	require.NoError(t, f.Format(&buf, failedReport()))

	out := buf.String()
	require.Contains(t, out, "detection failed: context canceled")
	require.NotContains(t, out, "DUPLICATES")
}

func TestMarkdownFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := &MarkdownFormatter{}
	require.NoError(t, f.Format(&buf, sampleReport()))

	out := buf.String()
	require.Contains(t, out, "2 redundant logging findings")
	require.Contains(t, out, "Exact duplicates (1)")
	require.Contains(t, out, "| Severity | Message | Occurrences | Locations |")
	require.Contains(t, out, "`src/auth.py:42`")
	require.Contains(t, out, "</details>")
}

func TestMarkdownFormatterEscapesPipes(t *testing.T) {
	report := sampleReport()
	report.DuplicateLogs[0].Message = "a | b"

	var buf bytes.Buffer
	f := &MarkdownFormatter{}
	require.NoError(t, f.Format(&buf, report))
	require.Contains(t, buf.String(), `a \| b`)
}

func TestMarkdownFormatterFailedReport(t *testing.T) {
	var buf bytes.Buffer
	f := &MarkdownFormatter{}
	require.NoError(t, f.Format(&buf, failedReport()))
	require.Contains(t, buf.String(), "detection failed")
}

func TestSARIFFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := &SARIFFormatter{}
	require.NoError(t, f.Format(&buf, sampleReport()))

	var log sarifLog
	require.NoError(t, json.Unmarshal(buf.Bytes(), &log))
	require.Equal(t, "2.1.0", log.Version)
	require.Len(t, log.Runs, 1)

	run := log.Runs[0]
	require.Equal(t, "logdup", run.Tool.Driver.Name)
	require.Len(t, run.Tool.Driver.Rules, 2)
	require.Equal(t, "LOGDUP_EXACT", run.Tool.Driver.Rules[0].ID)
	require.Len(t, run.Results, 2)
	require.Equal(t, "warning", run.Results[0].Level)
	require.Equal(t, "note", run.Results[1].Level)
	require.Len(t, run.Results[0].Locations, 2)
	require.Equal(t, "src/auth.py", run.Results[0].Locations[0].PhysicalLocation.ArtifactLocation.URI)
	require.Equal(t, 42, run.Results[0].Locations[0].PhysicalLocation.Region.StartLine)
}

func TestSARIFFormatterSharedRule(t *testing.T) {
	report := sampleReport()
	report.DuplicateLogs = append(report.DuplicateLogs, types.Finding{
		Type:        types.TypeExact,
		Severity:    types.SeverityMedium,
		Occurrences: 2,
		Locations:   []types.Location{{FilePath: "src/db.py", LineNumber: 11}},
		Message:     "Query executed",
	})

	var buf bytes.Buffer
	f := &SARIFFormatter{}
	require.NoError(t, f.Format(&buf, report))

	var log sarifLog
	require.NoError(t, json.Unmarshal(buf.Bytes(), &log))
	// Two exact findings share one rule entry.
	require.Len(t, log.Runs[0].Tool.Driver.Rules, 2)
	require.Len(t, log.Runs[0].Results, 3)
	require.Equal(t, 0, log.Runs[0].Results[2].RuleIndex)
}

func TestFilterHelpers(t *testing.T) {
	findings := sampleReport().DuplicateLogs
	require.Len(t, filterByType(findings, types.TypeExact), 1)
	require.Empty(t, filterByType(findings, types.TypeSpam))
	require.Len(t, filterBySeverity(findings, types.SeverityLow), 1)
	require.Empty(t, filterBySeverity(findings, types.SeverityCritical))
}

func TestQuoteTruncatesLongMessages(t *testing.T) {
	long := strings.Repeat("x", 80)
	got := quote(long)
	require.Contains(t, got, "...")
	require.Less(t, len(got), 80)
}
