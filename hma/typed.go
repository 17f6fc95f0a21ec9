package hma

import (
	"math"
	"unsafe"

	"github.com/vkngwrapper/hostmem/memutils"
)

// Memory handed out by region strategies lives in a byte slice or an anonymous mapping that the
// garbage collector does not scan. Types constructed with these helpers must not contain Go
// pointers (pointers, slices, maps, strings, interfaces, channels or funcs) unless every value they
// point to is kept reachable elsewhere.

func typeLayout[T any]() (int, uint) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		// Every value needs a distinct address
		size = 1
	}

	return size, uint(unsafe.Alignof(zero))
}

func zeroMemory(ptr unsafe.Pointer, size int) {
	clear(unsafe.Slice((*byte)(ptr), size))
}

// New allocates a zeroed T from a. It returns nil if the allocation fails.
func New[T any](a *Allocator) *T {
	size, alignment := typeLayout[T]()

	a.mutex.Lock()
	defer a.mutex.Unlock()

	ptr := a.allocate(1, size, alignment)
	if ptr == nil {
		return nil
	}

	zeroMemory(ptr, size)
	return (*T)(ptr)
}

// NewValue allocates a T from a and initializes it to value. It returns nil if the allocation fails.
func NewValue[T any](a *Allocator, value T) *T {
	size, alignment := typeLayout[T]()

	a.mutex.Lock()
	defer a.mutex.Unlock()

	ptr := a.allocate(1, size, alignment)
	if ptr == nil {
		return nil
	}

	zeroMemory(ptr, size)
	out := (*T)(ptr)
	*out = value
	return out
}

// Delete zeroes the T at ptr and returns its memory to a. Deleting nil is a no-op.
func Delete[T any](a *Allocator, ptr *T) {
	if ptr == nil {
		return
	}
	size, _ := typeLayout[T]()

	a.mutex.Lock()
	defer a.mutex.Unlock()

	a.deallocate(1, unsafe.Pointer(ptr), size)
}

// NewSlice allocates a zeroed slice of count Ts from a. It returns nil if the allocation fails.
func NewSlice[T any](a *Allocator, count int) []T {
	elementSize, alignment := typeLayout[T]()

	a.mutex.Lock()
	defer a.mutex.Unlock()

	if count > math.MaxInt/elementSize {
		_ = a.report(1, a.exhaustionSeverity, memutils.ErrOutOfMemory, "%d elements of %d bytes do not fit in an int", count, elementSize)
		return nil
	}

	ptr := a.allocate(1, count*elementSize, alignment)
	if ptr == nil {
		return nil
	}

	zeroMemory(ptr, count*elementSize)
	return unsafe.Slice((*T)(ptr), count)
}

// DeleteSlice zeroes a slice allocated with NewSlice and returns its memory to a. Deleting an
// empty slice is a no-op.
func DeleteSlice[T any](a *Allocator, slice []T) {
	if cap(slice) == 0 {
		return
	}
	elementSize, _ := typeLayout[T]()
	ptr := unsafe.Pointer(unsafe.SliceData(slice))

	a.mutex.Lock()
	defer a.mutex.Unlock()

	a.deallocate(1, ptr, cap(slice)*elementSize)
}
