package strategy

import (
	"unsafe"

	cerrors "github.com/cockroachdb/errors"
	"github.com/vkngwrapper/hostmem/memutils"
	"github.com/vkngwrapper/hostmem/memutils/region"
)

// Fallback composes two allocators. Requests go to the primary allocator first and are retried
// against the fallback allocator when the primary cannot satisfy them. Deallocation is routed to
// whichever of the two owns the pointer, so both must report ownership accurately.
type Fallback[P Composable, F Composable] struct {
	noCopy noCopy

	primary  P
	fallback F
}

var _ Composable = &Fallback[*Stack, *System]{}
var _ Destroyer = &Fallback[*Stack, *System]{}
var _ StatisticsReporter = &Fallback[*Stack, *System]{}
var _ RegionHolder = &Fallback[*Stack, *System]{}
var _ memutils.Validatable = &Fallback[*Stack, *System]{}

// NewFallback creates a Fallback allocator that takes ownership of primary and fallback
func NewFallback[P Composable, F Composable](primary P, fallback F) *Fallback[P, F] {
	return &Fallback[P, F]{
		primary:  primary,
		fallback: fallback,
	}
}

// Primary returns the allocator that is tried first
func (f *Fallback[P, F]) Primary() P { return f.primary }

// Secondary returns the allocator that is tried when the primary fails
func (f *Fallback[P, F]) Secondary() F { return f.fallback }

// Region returns the primary allocator's region, or nil if it does not have one
func (f *Fallback[P, F]) Region() *region.Region {
	if holder, ok := any(f.primary).(RegionHolder); ok {
		return holder.Region()
	}
	return nil
}

func (f *Fallback[P, F]) Allocate(size int, alignment uint) unsafe.Pointer {
	ptr := f.primary.Allocate(size, alignment)
	if ptr != nil {
		return ptr
	}

	return f.fallback.Allocate(size, alignment)
}

func (f *Fallback[P, F]) Deallocate(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}

	if f.primary.Owns(ptr) {
		f.primary.Deallocate(ptr)
		return
	}

	if f.fallback.Owns(ptr) {
		f.fallback.Deallocate(ptr)
		return
	}

	memutils.DebugAssert(false, "%v: %p is owned by neither the primary nor the fallback allocator", memutils.ErrNotOwned, ptr)
}

func (f *Fallback[P, F]) DeallocateAll() {
	f.primary.DeallocateAll()
	f.fallback.DeallocateAll()
}

func (f *Fallback[P, F]) Owns(ptr unsafe.Pointer) bool {
	return f.primary.Owns(ptr) || f.fallback.Owns(ptr)
}

// Destroy destroys both allocators, even if the first one fails
func (f *Fallback[P, F]) Destroy() error {
	var err error

	if destroyer, ok := any(f.primary).(Destroyer); ok {
		err = cerrors.Wrap(destroyer.Destroy(), "failed to destroy primary allocator")
	}

	if destroyer, ok := any(f.fallback).(Destroyer); ok {
		err = cerrors.CombineErrors(err, cerrors.Wrap(destroyer.Destroy(), "failed to destroy fallback allocator"))
	}

	return err
}

func (f *Fallback[P, F]) Validate() error {
	if validatable, ok := any(f.primary).(memutils.Validatable); ok {
		err := validatable.Validate()
		if err != nil {
			return cerrors.Wrap(err, "primary allocator")
		}
	}

	if validatable, ok := any(f.fallback).(memutils.Validatable); ok {
		err := validatable.Validate()
		if err != nil {
			return cerrors.Wrap(err, "fallback allocator")
		}
	}

	return nil
}

func (f *Fallback[P, F]) AddStatistics(stats *memutils.Statistics) {
	if reporter, ok := any(f.primary).(StatisticsReporter); ok {
		reporter.AddStatistics(stats)
	}

	if reporter, ok := any(f.fallback).(StatisticsReporter); ok {
		reporter.AddStatistics(stats)
	}
}

func (f *Fallback[P, F]) AddDetailedStatistics(stats *memutils.DetailedStatistics) {
	if reporter, ok := any(f.primary).(StatisticsReporter); ok {
		reporter.AddDetailedStatistics(stats)
	}

	if reporter, ok := any(f.fallback).(StatisticsReporter); ok {
		reporter.AddDetailedStatistics(stats)
	}
}
