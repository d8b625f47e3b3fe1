package detector_test

import (
	"context"
	"errors"
	"testing"

	"github.com/logdup/logdup/internal/detector"
	"github.com/logdup/logdup/internal/types"
	"github.com/stretchr/testify/require"
)

// claimFirst claims the first n records as one group of the given type.
type claimFirst struct {
	name string
	ft   types.FindingType
	n    int
}

func (s *claimFirst) Name() string { return s.name }

func (s *claimFirst) Claim(_ context.Context, records []*detector.Record) ([]*detector.Group, []*detector.Record, error) {
	if len(records) < s.n {
		return nil, records, nil
	}
	g := &detector.Group{
		Type:     s.ft,
		Records:  records[:s.n],
		Elevated: detector.Elevated(records[:s.n]),
	}
	return []*detector.Group{g}, records[s.n:], nil
}

// failStage always errors.
type failStage struct{}

func (failStage) Name() string { return "boom" }

func (failStage) Claim(context.Context, []*detector.Record) ([]*detector.Group, []*detector.Record, error) {
	return nil, nil, errors.New("stage fault")
}

func stmts(msgs ...string) []types.Statement {
	out := make([]types.Statement, len(msgs))
	for i, m := range msgs {
		out[i] = types.Statement{Message: m, FilePath: "app.py", LineNumber: 10 + i}
	}
	return out
}

func TestRunStagePrecedence(t *testing.T) {
	d := detector.New()
	d.RegisterStage(&claimFirst{name: "exact", ft: types.TypeExact, n: 2})
	d.RegisterStage(&claimFirst{name: "noise", ft: types.TypeNoise, n: 1})

	report, err := d.Run(context.Background(), stmts("a", "b", "c"), types.ModeFull)
	require.NoError(t, err)
	require.True(t, report.Success)
	require.Equal(t, types.ModeFull, report.DetectionMode)
	require.Len(t, report.DuplicateLogs, 2)

	// The first stage consumed "a" and "b"; the second only saw "c".
	require.Equal(t, types.TypeExact, report.DuplicateLogs[0].Type)
	require.Equal(t, "a", report.DuplicateLogs[0].Message)
	require.Equal(t, 2, report.DuplicateLogs[0].Occurrences)
	require.Equal(t, types.TypeNoise, report.DuplicateLogs[1].Type)
	require.Equal(t, "c", report.DuplicateLogs[1].Message)
}

func TestRunBuildsStatisticsAndSummary(t *testing.T) {
	d := detector.New()
	d.RegisterStage(&claimFirst{name: "exact", ft: types.TypeExact, n: 2})

	report, err := d.Run(context.Background(), stmts("x", "y"), types.ModeStatementsOnly)
	require.NoError(t, err)
	require.Equal(t, 1, report.Statistics.TotalDuplicates)
	require.Equal(t, 2, report.Statistics.TotalAffectedLocations)
	require.Equal(t, 1, report.Statistics.ByType["exact"])
	require.Equal(t, "Found 1 redundant logging issues affecting 2 locations", report.Message)
}

func TestRunNoFindings(t *testing.T) {
	d := detector.New()

	report, err := d.Run(context.Background(), stmts("only one"), types.ModeFull)
	require.NoError(t, err)
	require.True(t, report.Success)
	require.NotNil(t, report.DuplicateLogs)
	require.Empty(t, report.DuplicateLogs)
	require.Equal(t, "No redundant logging detected across 1 statements", report.Message)
}

func TestRunTrimsRepositoryPath(t *testing.T) {
	d := detector.New()
	d.SetRepositoryPath("/home/dev/project")
	d.RegisterStage(&claimFirst{name: "exact", ft: types.TypeExact, n: 2})

	statements := []types.Statement{
		{Message: "m", FilePath: "/home/dev/project/src/app.py", LineNumber: 1},
		{Message: "m", FilePath: "/elsewhere/util.py", LineNumber: 2},
	}

	report, err := d.Run(context.Background(), statements, types.ModeFull)
	require.NoError(t, err)
	require.Len(t, report.DuplicateLogs, 1)
	locs := report.DuplicateLogs[0].Locations
	require.Equal(t, "src/app.py", locs[0].FilePath)
	require.Equal(t, "/elsewhere/util.py", locs[1].FilePath)

	// Input statements are left untouched.
	require.Equal(t, "/home/dev/project/src/app.py", statements[0].FilePath)
}

func TestRunDedupesFindingLocations(t *testing.T) {
	d := detector.New()
	d.RegisterStage(&claimFirst{name: "spam", ft: types.TypeSpam, n: 3})

	statements := []types.Statement{
		{Message: "spin", FilePath: "a.py", LineNumber: 5},
		{Message: "spin", FilePath: "a.py", LineNumber: 5},
		{Message: "spin", FilePath: "b.py", LineNumber: 6},
	}

	report, err := d.Run(context.Background(), statements, types.ModeFull)
	require.NoError(t, err)
	f := report.DuplicateLogs[0]
	require.Equal(t, 3, f.Occurrences)
	require.Len(t, f.Locations, 2)
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := detector.New()
	d.RegisterStage(&claimFirst{name: "exact", ft: types.TypeExact, n: 1})

	report, err := d.Run(ctx, stmts("a"), types.ModeFull)
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
	require.Nil(t, report)
}

func TestRunStageError(t *testing.T) {
	d := detector.New()
	d.RegisterStage(failStage{})

	_, err := d.Run(context.Background(), stmts("a"), types.ModeFull)
	require.Error(t, err)
	require.Contains(t, err.Error(), "stage boom")
}
