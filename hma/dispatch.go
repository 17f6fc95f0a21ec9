package hma

import (
	"fmt"
	"unsafe"

	"github.com/vkngwrapper/hostmem/memutils"
	"github.com/vkngwrapper/hostmem/memutils/region"
	"github.com/vkngwrapper/hostmem/memutils/strategy"
)

// dispatchTable holds one function per allocator operation, each closed over the concrete
// strategy type it was built for. Optional operations are nil when the strategy does not
// support them.
type dispatchTable struct {
	strategyName string

	allocate      func(handle any, size int, alignment uint) unsafe.Pointer
	deallocate    func(handle any, ptr unsafe.Pointer)
	deallocateAll func(handle any)

	owns            func(handle any, ptr unsafe.Pointer) bool
	addStatistics   func(handle any, stats *memutils.DetailedStatistics)
	visitAllRegions func(handle any, visit func(offset int, size int, free bool) error) error
	region          func(handle any) *region.Region
	validate        func(handle any) error
	destroy         func(handle any) error
}

func newDispatchTable[S strategy.Strategy](impl S) *dispatchTable {
	table := &dispatchTable{
		strategyName: strategyName(impl),

		allocate: func(handle any, size int, alignment uint) unsafe.Pointer {
			return handle.(S).Allocate(size, alignment)
		},
		deallocate: func(handle any, ptr unsafe.Pointer) {
			handle.(S).Deallocate(ptr)
		},
		deallocateAll: func(handle any) {
			handle.(S).DeallocateAll()
		},
	}

	if _, ok := any(impl).(strategy.Owner); ok {
		table.owns = func(handle any, ptr unsafe.Pointer) bool {
			return handle.(strategy.Owner).Owns(ptr)
		}
	}

	if _, ok := any(impl).(strategy.StatisticsReporter); ok {
		table.addStatistics = func(handle any, stats *memutils.DetailedStatistics) {
			handle.(strategy.StatisticsReporter).AddDetailedStatistics(stats)
		}
	}

	if _, ok := any(impl).(strategy.RegionVisitor); ok {
		table.visitAllRegions = func(handle any, visit func(offset int, size int, free bool) error) error {
			return handle.(strategy.RegionVisitor).VisitAllRegions(visit)
		}
	}

	if _, ok := any(impl).(strategy.RegionHolder); ok {
		table.region = func(handle any) *region.Region {
			return handle.(strategy.RegionHolder).Region()
		}
	}

	if _, ok := any(impl).(memutils.Validatable); ok {
		table.validate = func(handle any) error {
			return handle.(memutils.Validatable).Validate()
		}
	}

	if _, ok := any(impl).(strategy.Destroyer); ok {
		table.destroy = func(handle any) error {
			return handle.(strategy.Destroyer).Destroy()
		}
	}

	return table
}

func strategyName(impl any) string {
	switch impl.(type) {
	case *strategy.Linear:
		return AlgorithmLinear.String()
	case *strategy.Stack:
		return AlgorithmStack.String()
	case *strategy.FreeList:
		return AlgorithmFreeList.String()
	case *strategy.System:
		return AlgorithmSystem.String()
	}

	return fmt.Sprintf("%T", impl)
}
