package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/logdup/logdup/internal/types"
)

// ToolVersion is the logdup version reported in SARIF output.
var ToolVersion = "dev"

// SARIFFormatter outputs findings in SARIF 2.1.0 format for GitHub Code Scanning.
// Each finding type maps to one SARIF rule; a finding's locations all attach
// to a single result.
type SARIFFormatter struct{}

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	ShortDescription sarifMessage       `json:"shortDescription"`
	FullDescription  sarifMessage       `json:"fullDescription"`
	DefaultConfig    sarifDefaultConfig `json:"defaultConfiguration"`
}

type sarifDefaultConfig struct {
	Level string `json:"level"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
}

func (f *SARIFFormatter) Format(w io.Writer, report *types.Report) error {
	ruleIndex := map[types.FindingType]int{}
	var rules []sarifRule
	for _, finding := range report.DuplicateLogs {
		if _, ok := ruleIndex[finding.Type]; ok {
			continue
		}
		ruleIndex[finding.Type] = len(rules)
		rules = append(rules, sarifRule{
			ID:               sarifRuleID(finding.Type),
			Name:             typeName(finding.Type),
			ShortDescription: sarifMessage{Text: typeName(finding.Type)},
			FullDescription:  sarifMessage{Text: finding.Recommendation},
			DefaultConfig:    sarifDefaultConfig{Level: severityToLevel(finding.Severity)},
		})
	}

	var results []sarifResult
	for _, finding := range report.DuplicateLogs {
		var locations []sarifLocation
		for _, loc := range finding.Locations {
			locations = append(locations, sarifLocation{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: loc.FilePath},
					Region:           sarifRegion{StartLine: max(loc.LineNumber, 1)},
				},
			})
		}
		results = append(results, sarifResult{
			RuleID:    sarifRuleID(finding.Type),
			RuleIndex: ruleIndex[finding.Type],
			Level:     severityToLevel(finding.Severity),
			Message: sarifMessage{
				Text: fmt.Sprintf("%s: %q (%d occurrences)", typeName(finding.Type), finding.Message, finding.Occurrences),
			},
			Locations: locations,
		})
	}

	log := sarifLog{
		Schema:  "https://docs.oasis-open.org/sarif/sarif/v2.1.0/sarif-schema-2.1.0.json",
		Version: "2.1.0",
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:           "logdup",
						Version:        ToolVersion,
						InformationURI: "https://github.com/logdup/logdup",
						Rules:          rules,
					},
				},
				Results: results,
			},
		},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(log)
}

func sarifRuleID(t types.FindingType) string {
	return "LOGDUP_" + strings.ToUpper(string(t))
}

func typeName(t types.FindingType) string {
	switch t {
	case types.TypeExact:
		return "Exact duplicate logging"
	case types.TypeSpam:
		return "Per-iteration loop logging"
	case types.TypeNoise:
		return "Low-information logging"
	case types.TypeSimilar:
		return "Near-duplicate logging"
	default:
		return string(t)
	}
}

func severityToLevel(sev types.Severity) string {
	switch sev {
	case types.SeverityCritical:
		return "error"
	case types.SeverityHigh:
		return "warning"
	default:
		return "note"
	}
}
