package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/logdup/logdup"
	"github.com/stretchr/testify/require"
)

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "statements.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadExportBareArray(t *testing.T) {
	path := writeInput(t, `[
		{"message": "User logged in", "file_path": "a.py", "line_number": 10},
		{"message": "User logged in", "file_path": "b.py", "line_number": 20}
	]`)

	in, err := readExport(path)
	require.NoError(t, err)
	require.Len(t, in.Statements, 2)
	require.Empty(t, in.Entities)
	require.Empty(t, in.RepositoryPath)
	require.Equal(t, "a.py", in.Statements[0].FilePath)
}

func TestReadExportObject(t *testing.T) {
	path := writeInput(t, `{
		"repository_path": "/srv/app",
		"statements": [{"message": "here", "file_path": "x.py", "line_number": 1}],
		"entities": [{"name": "main", "kind": "function"}]
	}`)

	in, err := readExport(path)
	require.NoError(t, err)
	require.Len(t, in.Statements, 1)
	require.Len(t, in.Entities, 1)
	require.Equal(t, "/srv/app", in.RepositoryPath)
}

func TestReadExportMissingFile(t *testing.T) {
	_, err := readExport(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestReadExportMalformedJSON(t *testing.T) {
	path := writeInput(t, `[{"message": `)
	_, err := readExport(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parsing")
}

func TestCheckFailOnThreshold(t *testing.T) {
	report := &logdup.Report{
		Success: true,
		DuplicateLogs: []logdup.Finding{
			{Type: logdup.TypeNoise, Severity: logdup.SeverityLow},
			{Type: logdup.TypeSpam, Severity: logdup.SeverityHigh},
		},
	}

	orig := flagFailOn
	defer func() { flagFailOn = orig }()

	flagFailOn = ""
	require.NoError(t, checkFailOnThreshold(report))

	flagFailOn = "critical"
	require.NoError(t, checkFailOnThreshold(report))

	flagFailOn = "high"
	require.Error(t, checkFailOnThreshold(report))

	flagFailOn = "low"
	require.Error(t, checkFailOnThreshold(report))

	flagFailOn = "bogus"
	err := checkFailOnThreshold(report)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid --fail-on")
}
