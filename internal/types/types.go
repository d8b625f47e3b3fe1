// Package types defines shared data structures (Statement, Finding, Report)
// used across detector, engine, and meta packages to prevent import cycles.
package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity represents the severity level of a finding.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	case SeverityLow:
		return "low"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a string to a Severity level.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical":
		return SeverityCritical, nil
	case "high":
		return SeverityHigh, nil
	case "medium":
		return SeverityMedium, nil
	case "low":
		return SeverityLow, nil
	default:
		return SeverityLow, fmt.Errorf("unknown severity: %q", s)
	}
}

// MarshalJSON serializes severity as its lowercase name so reports stay
// free of engine-specific numeric enums.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	sev, err := ParseSeverity(name)
	if err != nil {
		return err
	}
	*s = sev
	return nil
}

// UpgradeSeverity raises severity by one level, capped at critical.
func UpgradeSeverity(sev Severity) Severity {
	switch sev {
	case SeverityLow:
		return SeverityMedium
	case SeverityMedium:
		return SeverityHigh
	case SeverityHigh:
		return SeverityCritical
	default:
		return sev
	}
}

// FindingType labels the redundancy pattern a finding reports.
type FindingType string

const (
	TypeExact   FindingType = "exact"
	TypeSpam    FindingType = "spam"
	TypeNoise   FindingType = "noise"
	TypeSimilar FindingType = "similar"
)

// FindingTypes lists all finding types in pipeline stage order.
var FindingTypes = []FindingType{TypeExact, TypeSpam, TypeNoise, TypeSimilar}

// Statement is one extracted logging call-site. Field names follow the
// collector export format.
type Statement struct {
	Message    string `json:"message"`
	FilePath   string `json:"file_path"`
	LineNumber int    `json:"line_number"`
	Function   string `json:"function,omitempty"`
	Context    string `json:"context,omitempty"`
	Level      string `json:"level,omitempty"`
}

// EffectiveLevel returns the statement's level tag, defaulting to INFO
// when the collector did not record one.
func (s Statement) EffectiveLevel() string {
	lvl := strings.ToUpper(strings.TrimSpace(s.Level))
	if lvl == "" {
		return "INFO"
	}
	return lvl
}

// IsElevatedLevel reports whether a level tag marks warning-or-worse output.
func IsElevatedLevel(level string) bool {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "WARN", "WARNING", "ERROR", "CRITICAL", "FATAL":
		return true
	}
	return false
}

// IsTraceLevel reports whether a level tag belongs to the trace/debug tier.
func IsTraceLevel(level string) bool {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "TRACE", "DEBUG":
		return true
	}
	return false
}

// Entity is an opaque symbol/call-graph record handed through by the
// surrounding pipeline. Its only effect on detection is the report's
// detection_mode label.
type Entity struct {
	Name     string `json:"name"`
	Kind     string `json:"kind,omitempty"`
	FilePath string `json:"file_path,omitempty"`
}

// Location is one source position affected by a finding.
type Location struct {
	FilePath   string `json:"file_path"`
	LineNumber int    `json:"line_number"`
	Function   string `json:"function,omitempty"`
}

// Key returns the identity used for location de-duplication and counting.
func (l Location) Key() string {
	return fmt.Sprintf("%s:%d", l.FilePath, l.LineNumber)
}

// Finding is one classified redundancy issue.
type Finding struct {
	Type           FindingType `json:"type"`
	Severity       Severity    `json:"severity"`
	Occurrences    int         `json:"occurrences"`
	Locations      []Location  `json:"locations"`
	Message        string      `json:"message"`
	Recommendation string      `json:"recommendation"`
}

// DistinctFiles counts the distinct file paths across the finding's locations.
func (f Finding) DistinctFiles() int {
	files := make(map[string]struct{}, len(f.Locations))
	for _, loc := range f.Locations {
		files[loc.FilePath] = struct{}{}
	}
	return len(files)
}

// Statistics is a read-only summary over a finding list.
type Statistics struct {
	TotalDuplicates        int            `json:"total_duplicates"`
	TotalAffectedLocations int            `json:"total_affected_locations"`
	ByType                 map[string]int `json:"by_type"`
	BySeverity             map[string]int `json:"by_severity"`
}

// Detection modes reported on the Report.
const (
	ModeFull           = "full"
	ModeStatementsOnly = "statements_only"
)

// Report is the top-level detection result.
type Report struct {
	Success       bool       `json:"success"`
	DetectionMode string     `json:"detection_mode"`
	DuplicateLogs []Finding  `json:"duplicate_logs"`
	Statistics    Statistics `json:"statistics"`
	Message       string     `json:"message"`
}
