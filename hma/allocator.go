// Package hma provides Allocator, a single concrete type that can sit in front of any allocation
// strategy from memutils/strategy, plus typed helpers for constructing values in the memory it hands
// out.
package hma

import (
	"context"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/hostmem/hma/internal/utils"
	"github.com/vkngwrapper/hostmem/memutils"
	"golang.org/x/exp/slog"
)

// Allocator forwards every operation to the strategy it was created over. Misuse is reported
// through diagnostics rather than returned errors: see Severity and FatalHandler.
type Allocator struct {
	logger      *slog.Logger
	name        string
	mutex       utils.OptionalRWMutex
	createFlags CreateFlags
	callbacks   memoryCallbacks

	fatalHandler       FatalHandler
	exhaustionSeverity Severity

	handle   any
	dispatch *dispatchTable
}

// Name returns the name the allocator was created with
func (a *Allocator) Name() string { return a.name }

// StrategyName returns a human-readable name for the strategy behind this allocator
func (a *Allocator) StrategyName() string { return a.dispatch.strategyName }

// Flags returns the flags the allocator was created with
func (a *Allocator) Flags() CreateFlags { return a.createFlags }

// Unwrap returns the strategy behind a, if it is an S
func Unwrap[S any](a *Allocator) (S, bool) {
	impl, ok := a.handle.(S)
	return impl, ok
}

// Allocate returns size bytes aligned to alignment, or nil if the request could not be satisfied.
// alignment must be a power of two, or 0 to use memutils.DefaultAlignment.
func (a *Allocator) Allocate(size int, alignment uint) unsafe.Pointer {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	return a.allocate(1, size, alignment)
}

func (a *Allocator) allocate(depth int, size int, alignment uint) unsafe.Pointer {
	a.logger.Debug("Allocator::Allocate", slog.Int("Size", size), slog.Uint64("Alignment", uint64(alignment)))

	if size <= 0 {
		_ = a.report(depth+1, SeverityFatal, memutils.ErrZeroSize, "requested %d bytes", size)
		return nil
	}

	alignment = memutils.EffectiveAlignment(alignment)
	err := memutils.CheckPow2(alignment, "alignment")
	if err != nil {
		_ = a.report(depth+1, SeverityFatal, memutils.PowerOfTwoError, "requested alignment %d", alignment)
		return nil
	}

	ptr := a.dispatch.allocate(a.handle, size, alignment)
	if ptr == nil {
		_ = a.report(depth+1, a.exhaustionSeverity, memutils.ErrOutOfMemory, "%s could not allocate %d bytes with alignment %d",
			a.dispatch.strategyName, size, alignment)
		return nil
	}

	a.callbacks.Allocate(ptr, size)
	return ptr
}

// Deallocate returns memory produced by Allocate to the strategy. Deallocating nil is a no-op.
func (a *Allocator) Deallocate(ptr unsafe.Pointer) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	a.deallocate(1, ptr, 0)
}

// deallocate zeroes the first clearSize bytes at ptr before handing it to the strategy
func (a *Allocator) deallocate(depth int, ptr unsafe.Pointer, clearSize int) {
	a.logger.Debug("Allocator::Deallocate")

	if ptr == nil {
		return
	}

	if a.dispatch.owns != nil && !a.dispatch.owns(a.handle, ptr) {
		_ = a.report(depth+1, SeverityFatal, memutils.ErrNotOwned, "%s was asked to deallocate %p", a.dispatch.strategyName, ptr)
		return
	}

	a.callbacks.Free(ptr)
	if clearSize > 0 {
		zeroMemory(ptr, clearSize)
	}
	a.dispatch.deallocate(a.handle, ptr)
}

// DeallocateAll releases every live allocation at once. Pointers previously returned by the
// allocator must not be used afterward.
func (a *Allocator) DeallocateAll() {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	a.logger.Debug("Allocator::DeallocateAll")
	a.dispatch.deallocateAll(a.handle)
}

// Owns returns true if ptr was produced by this allocator. Strategies that cannot determine
// ownership always return false.
func (a *Allocator) Owns(ptr unsafe.Pointer) bool {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	if a.dispatch.owns == nil {
		return false
	}
	return a.dispatch.owns(a.handle, ptr)
}

// Offset returns ptr's distance in bytes from the start of the strategy's region. It returns false
// if the strategy has no region or ptr lies outside of it.
func (a *Allocator) Offset(ptr unsafe.Pointer) (int, bool) {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	if a.dispatch.region == nil {
		return 0, false
	}

	r := a.dispatch.region(a.handle)
	if r == nil || !r.Contains(ptr) {
		return 0, false
	}
	return r.Offset(ptr), true
}

// Validate performs internal consistency checks on the strategy, if it supports them
func (a *Allocator) Validate() error {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	if a.dispatch.validate == nil {
		return nil
	}
	return a.dispatch.validate(a.handle)
}

// CalculateStatistics overwrites stats with the strategy's current statistics. It leaves stats
// cleared if the strategy cannot report them.
func (a *Allocator) CalculateStatistics(stats *memutils.DetailedStatistics) {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	a.calculateStatistics(stats)
}

func (a *Allocator) calculateStatistics(stats *memutils.DetailedStatistics) {
	stats.Clear()
	if a.dispatch.addStatistics != nil {
		a.dispatch.addStatistics(a.handle, stats)
	}
}

// Destroy releases the strategy's region, if it has one. Memory that is still allocated is logged
// as unreleased before it is released along with everything else. The allocator must not be used
// afterward.
func (a *Allocator) Destroy() error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	a.logger.Debug("Allocator::Destroy")

	var stats memutils.DetailedStatistics
	a.calculateStatistics(&stats)
	if stats.AllocationCount > 0 {
		a.logUnreleasedMemory(&stats)
	}

	if a.dispatch.destroy == nil {
		return nil
	}

	err := a.dispatch.destroy(a.handle)
	if err != nil {
		return errors.Wrapf(err, "failed to destroy allocator %q", a.name)
	}

	return nil
}

func (a *Allocator) logUnreleasedMemory(stats *memutils.DetailedStatistics) {
	a.logger.LogAttrs(context.Background(), slog.LevelError, "[UNRELEASED MEMORY] allocator destroyed with live allocations",
		slog.String("Allocator", a.name),
		slog.Int("AllocationCount", stats.AllocationCount),
		slog.Int("AllocationBytes", stats.AllocationBytes),
	)

	if a.dispatch.visitAllRegions == nil {
		return
	}

	err := a.dispatch.visitAllRegions(a.handle, func(offset int, size int, free bool) error {
		if free {
			return nil
		}

		a.logger.LogAttrs(context.Background(), slog.LevelError, "[UNRELEASED MEMORY] unfreed range",
			slog.String("Allocator", a.name),
			slog.Int("Offset", offset),
			slog.Int("Size", size),
		)
		return nil
	})
	if err != nil {
		a.logger.LogAttrs(context.Background(),
			slog.LevelError,
			"[UNRELEASED MEMORY] error while iterating unreleased memory",
			slog.Any("error", err))
	}
}
