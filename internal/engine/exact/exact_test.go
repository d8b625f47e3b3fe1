package exact_test

import (
	"context"
	"testing"

	"github.com/logdup/logdup/internal/detector"
	"github.com/logdup/logdup/internal/engine/exact"
	"github.com/logdup/logdup/internal/normalize"
	"github.com/logdup/logdup/internal/types"
	"github.com/stretchr/testify/require"
)

func rec(idx int, msg, file string, line int, level string) *detector.Record {
	return &detector.Record{
		Statement: types.Statement{
			Message:    msg,
			FilePath:   file,
			LineNumber: line,
			Level:      level,
		},
		Canonical: normalize.Canonicalize(msg),
		Index:     idx,
	}
}

func TestClaimGroupsAcrossLocations(t *testing.T) {
	records := []*detector.Record{
		rec(0, "User logged in successfully", "auth/login.py", 42, ""),
		rec(1, "User logged in successfully", "api/auth.py", 88, ""),
		rec(2, "User logged in successfully", "services/user_service.py", 156, ""),
		rec(3, "Unrelated message", "misc.py", 1, ""),
	}

	groups, remaining, err := exact.NewGrouper().Claim(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Equal(t, types.TypeExact, groups[0].Type)
	require.Len(t, groups[0].Records, 3)
	require.Len(t, remaining, 1)
	require.Equal(t, 3, remaining[0].Index)
}

func TestClaimIgnoresInterpolatedDifferences(t *testing.T) {
	records := []*detector.Record{
		rec(0, "Processing order {order_id}", "a.py", 10, ""),
		rec(1, "Processing order 991", "b.py", 20, ""),
	}

	groups, remaining, err := exact.NewGrouper().Claim(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Empty(t, remaining)
}

func TestClaimRequiresDistinctLocations(t *testing.T) {
	// Same statement observed twice at the same call-site is not an
	// exact duplicate.
	records := []*detector.Record{
		rec(0, "Cache miss", "cache.py", 7, ""),
		rec(1, "Cache miss", "cache.py", 7, ""),
	}

	groups, remaining, err := exact.NewGrouper().Claim(context.Background(), records)
	require.NoError(t, err)
	require.Empty(t, groups)
	require.Len(t, remaining, 2)
}

func TestClaimCountsRepeatsInOccurrences(t *testing.T) {
	records := []*detector.Record{
		rec(0, "Cache miss", "cache.py", 7, ""),
		rec(1, "Cache miss", "cache.py", 7, ""),
		rec(2, "Cache miss", "store.py", 31, ""),
	}

	groups, _, err := exact.NewGrouper().Claim(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Records, 3)
}

func TestClaimSkipsEmptyCanonical(t *testing.T) {
	records := []*detector.Record{
		rec(0, "{x}", "a.py", 1, ""),
		rec(1, "{y}", "b.py", 2, ""),
	}

	groups, remaining, err := exact.NewGrouper().Claim(context.Background(), records)
	require.NoError(t, err)
	require.Empty(t, groups)
	require.Len(t, remaining, 2)
}

func TestClaimMarksElevatedLevels(t *testing.T) {
	records := []*detector.Record{
		rec(0, "Payment failed", "pay.py", 10, "ERROR"),
		rec(1, "Payment failed", "billing.py", 20, "INFO"),
	}

	groups, _, err := exact.NewGrouper().Claim(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.True(t, groups[0].Elevated)
}

func TestClaimFirstSeenOrder(t *testing.T) {
	records := []*detector.Record{
		rec(0, "beta message now", "a.py", 1, ""),
		rec(1, "alpha message now", "b.py", 2, ""),
		rec(2, "beta message now", "c.py", 3, ""),
		rec(3, "alpha message now", "d.py", 4, ""),
	}

	groups, _, err := exact.NewGrouper().Claim(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	require.Equal(t, 0, groups[0].Records[0].Index)
	require.Equal(t, 1, groups[1].Records[0].Index)
}
