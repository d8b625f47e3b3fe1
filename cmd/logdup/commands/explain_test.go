package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/logdup/logdup"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func runExplainCmd(t *testing.T, id string) string {
	t.Helper()
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	require.NoError(t, runExplain(cmd, []string{id}))
	return buf.String()
}

func TestExplainTerminal(t *testing.T) {
	origFormat, origNoColor := flagFormat, flagNoColor
	defer func() { flagFormat, flagNoColor = origFormat, origNoColor }()
	flagFormat = "terminal"
	flagNoColor = true

	out := runExplainCmd(t, "NOISE_MARKER_002")
	require.Contains(t, out, "NOISE_MARKER_002")
	require.Contains(t, out, "Debug checkpoint marker")
	require.Contains(t, out, "Patterns:")
	require.Contains(t, out, "Matches:")
	require.NotContains(t, out, "\033[")
}

func TestExplainJSON(t *testing.T) {
	origFormat := flagFormat
	defer func() { flagFormat = origFormat }()
	flagFormat = "json"

	out := runExplainCmd(t, "loop_while_002")

	var detail logdup.RuleDetail
	require.NoError(t, json.Unmarshal([]byte(out), &detail))
	require.Equal(t, "LOOP_WHILE_002", detail.ID)
	require.Equal(t, "loop", detail.Category)
	require.NotEmpty(t, detail.Patterns)
}

func TestExplainUnknownRule(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})
	err := runExplain(cmd, []string{"NO_SUCH_RULE"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "not found")
}
