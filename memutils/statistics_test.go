package memutils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetailedStatistics(t *testing.T) {
	var stats DetailedStatistics
	stats.Clear()
	require.Equal(t, math.MaxInt, stats.UnusedRangeSizeMin)
	require.Zero(t, stats.Fragmentation())

	stats.RegionCount = 1
	stats.RegionBytes = 1000
	stats.AllocationCount = 2
	stats.AllocationBytes = 400
	stats.AddUsedRange(300)
	stats.AddUsedRange(100)
	stats.AddUnusedRange(450)
	stats.AddUnusedRange(150)

	require.Equal(t, 600, stats.UnusedBytes())
	require.Equal(t, 2, stats.UsedRangeCount)
	require.Equal(t, 300, stats.UsedRangeSizeMax)
	require.Equal(t, 2, stats.UnusedRangeCount)
	require.Equal(t, 150, stats.UnusedRangeSizeMin)
	require.Equal(t, 450, stats.UnusedRangeSizeMax)
	require.InDelta(t, 0.25, stats.Fragmentation(), 1e-9)

	var other DetailedStatistics
	other.Clear()
	other.RegionCount = 1
	other.RegionBytes = 200
	other.AddUnusedRange(200)

	var total DetailedStatistics
	total.Clear()
	total.AddDetailedStatistics(&stats)
	total.AddDetailedStatistics(&other)

	require.Equal(t, DetailedStatistics{
		Statistics: Statistics{
			RegionCount:     2,
			RegionBytes:     1200,
			AllocationCount: 2,
			AllocationBytes: 400,
		},
		UsedRangeCount:     2,
		UsedRangeSizeMax:   300,
		UnusedRangeCount:   3,
		UnusedRangeSizeMin: 150,
		UnusedRangeSizeMax: 450,
	}, total)

	total.Clear()
	require.Equal(t, 0, total.RegionCount)
	require.Equal(t, 0, total.UnusedRangeCount)
}

func TestStatisticsAdd(t *testing.T) {
	stats := Statistics{RegionCount: 1, RegionBytes: 64, AllocationCount: 3, AllocationBytes: 48}
	stats.AddStatistics(&Statistics{RegionCount: 2, RegionBytes: 128, AllocationCount: 1, AllocationBytes: 8})

	require.Equal(t, Statistics{RegionCount: 3, RegionBytes: 192, AllocationCount: 4, AllocationBytes: 56}, stats)
	require.Equal(t, 136, stats.UnusedBytes())

	stats.Clear()
	require.Equal(t, Statistics{}, stats)
}
