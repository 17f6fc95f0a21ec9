package strategy_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/hostmem/memutils"
	"github.com/vkngwrapper/hostmem/memutils/strategy"
)

var powersOfTwo = []uint{1, 2, 4, 8, 16, 32, 64}

func fill(ptr unsafe.Pointer, size int, value byte) {
	data := unsafe.Slice((*byte)(ptr), size)
	for i := range data {
		data[i] = value
	}
}

func requireFilled(t *testing.T, ptr unsafe.Pointer, size int, value byte) {
	data := unsafe.Slice((*byte)(ptr), size)
	for i := range data {
		require.Equalf(t, value, data[i], "byte %d of allocation at %p", i, ptr)
	}
}

func requireAligned(t *testing.T, ptr unsafe.Pointer, alignment uint) {
	require.NotNil(t, ptr)
	require.Zerof(t, uintptr(ptr)%uintptr(alignment), "%p is not aligned to %d", ptr, alignment)
}

func requireValid(t *testing.T, allocator any) {
	validatable, ok := allocator.(memutils.Validatable)
	require.True(t, ok)
	require.NoError(t, validatable.Validate())
}

func detailedStats(reporter strategy.StatisticsReporter) memutils.DetailedStatistics {
	var stats memutils.DetailedStatistics
	stats.Clear()
	reporter.AddDetailedStatistics(&stats)
	return stats
}

func requireZeroSizeRejected(t *testing.T, allocator strategy.Strategy) {
	if memutils.DebugEnabled {
		require.Panics(t, func() {
			allocator.Allocate(0, 0)
		})
		return
	}

	require.Nil(t, allocator.Allocate(0, 0))
	require.Nil(t, allocator.Allocate(-1, 0))
}
