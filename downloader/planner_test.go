package downloader

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlan_Partition(t *testing.T) {
	tests := []struct {
		name      string
		size      int64
		requested int
		wantCount int
	}{
		{"even_division", 1048576, 4, 4},
		{"no_range_support_forces_one", 1000, 1, 1},
		{"more_segments_than_bytes", 10, 64, 10},
		{"negative_requested_defaults_to_one", 1024, -1, 1},
		{"zero_requested_defaults_to_one", 1024, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranges, err := plan(tt.size, tt.requested)
			require.NoError(t, err)
			require.Len(t, ranges, tt.wantCount)

			// partition invariant: union covers [0, size) with no gaps or
			// overlaps, ascending order, ids equal index.
			var cursor int64
			for i, r := range ranges {
				require.Equal(t, i, r.ID)
				require.Equal(t, cursor, r.Start)
				require.GreaterOrEqual(t, r.EndInclusive, r.Start)
				cursor = r.EndInclusive + 1
			}
			require.Equal(t, tt.size, cursor)

			// last-range closure
			require.Equal(t, tt.size-1, ranges[len(ranges)-1].EndInclusive)
		})
	}
}

func TestPlan_InvalidSize(t *testing.T) {
	for _, size := range []int64{0, -1, -100} {
		_, err := plan(size, 4)
		require.Error(t, err)
		var planErr *PlanError
		require.ErrorAs(t, err, &planErr)
	}
}

func TestPlan_TenByteSingleByteSegments(t *testing.T) {
	ranges, err := plan(10, 64)
	require.NoError(t, err)
	require.Len(t, ranges, 10)
	for i, r := range ranges {
		require.Equal(t, int64(i), r.Start)
		require.Equal(t, int64(i), r.EndInclusive)
	}
	require.Equal(t, Range{ID: 9, Start: 9, EndInclusive: 9}, ranges[9])
}

func TestPlan_OneMegabyteFourSegments(t *testing.T) {
	ranges, err := plan(1048576, 4)
	require.NoError(t, err)
	want := []Range{
		{ID: 0, Start: 0, EndInclusive: 262143},
		{ID: 1, Start: 262144, EndInclusive: 524287},
		{ID: 2, Start: 524288, EndInclusive: 786431},
		{ID: 3, Start: 786432, EndInclusive: 1048575},
	}
	require.Equal(t, want, ranges)
}
