package strategy_test

import (
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/hostmem/memutils"
	"github.com/vkngwrapper/hostmem/memutils/strategy"
)

func TestSystemAlignment(t *testing.T) {
	system := strategy.NewSystem()

	alignments := append([]uint{}, powersOfTwo...)
	alignments = append(alignments, 128, 4096)

	var ptrs []unsafe.Pointer
	for _, alignment := range alignments {
		ptr := system.Allocate(33, alignment)
		requireAligned(t, ptr, alignment)
		require.True(t, system.Owns(ptr))
		fill(ptr, 33, 0x77)
		ptrs = append(ptrs, ptr)
	}
	require.Equal(t, len(alignments), system.AllocationCount())
	require.Equal(t, 33*len(alignments), system.UsedMemory())
	requireValid(t, system)

	for _, ptr := range ptrs {
		requireFilled(t, ptr, 33, 0x77)
		system.Deallocate(ptr)
	}
	require.Equal(t, 0, system.AllocationCount())
	require.Equal(t, 0, system.UsedMemory())
}

func TestSystemDeallocateAll(t *testing.T) {
	system := strategy.NewSystem()

	for i := 1; i <= 10; i++ {
		require.NotNil(t, system.Allocate(i*10, 0))
	}
	require.Equal(t, 10, system.AllocationCount())

	system.DeallocateAll()
	system.DeallocateAll()
	require.Equal(t, 0, system.AllocationCount())
	require.Equal(t, 0, system.UsedMemory())
	requireValid(t, system)

	require.NotNil(t, system.Allocate(1, 0))
	require.NoError(t, system.Destroy())
	require.Equal(t, 0, system.AllocationCount())
}

func TestSystemStatistics(t *testing.T) {
	system := strategy.NewSystem()
	require.NotNil(t, system.Allocate(100, 8))
	require.NotNil(t, system.Allocate(300, 8))

	require.Equal(t, memutils.DetailedStatistics{
		Statistics: memutils.Statistics{
			RegionCount:     2,
			RegionBytes:     400,
			AllocationCount: 2,
			AllocationBytes: 400,
		},
		UsedRangeCount:     2,
		UsedRangeSizeMax:   300,
		UnusedRangeSizeMin: math.MaxInt,
	}, detailedStats(system))
}

func TestSystemZeroSize(t *testing.T) {
	system := strategy.NewSystem()

	requireZeroSizeRejected(t, system)
	system.Deallocate(nil)
	require.Equal(t, 0, system.AllocationCount())
}

func TestSystemOversizedRequest(t *testing.T) {
	system := strategy.NewSystem()

	require.Nil(t, system.Allocate(math.MaxInt, 8))
	require.Nil(t, system.Allocate(math.MaxInt-4, 1))
	require.Nil(t, system.Allocate(64, ^uint(0)>>1+1))
	require.Equal(t, 0, system.AllocationCount())
	require.Equal(t, 0, system.UsedMemory())

	requireAligned(t, system.Allocate(64, 8), 8)
	requireValid(t, system)
}
