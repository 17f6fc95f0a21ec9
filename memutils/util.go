package memutils

import (
	"unsafe"

	cerrors "github.com/cockroachdb/errors"
)

// DefaultAlignment is the largest natural alignment of any scalar type on the current platform.
// Allocators use it whenever a caller passes an alignment of 0.
const DefaultAlignment uint = uint(unsafe.Alignof(maxAlign{}))

type maxAlign struct {
	_ complex128
	_ uint64
	_ uintptr
	_ unsafe.Pointer
}

type Number interface {
	~int | ~uint | ~uintptr
}

func CheckPow2[T Number](number T, name string) error {
	if number == 0 || number&(number-1) != 0 {
		return cerrors.Wrapf(PowerOfTwoError, "%s is %d", name, number)
	}
	return nil
}

func AlignUp(value int, alignment uint) int {
	return (value + int(alignment) - 1) & int(^(alignment - 1))
}

func AlignDown(value int, alignment uint) int {
	return value & int(^(alignment - 1))
}

// AlignmentOffset returns the address of ptr modulo alignment. alignment must be a power of two.
func AlignmentOffset(alignment uint, ptr unsafe.Pointer) uint {
	return uint(uintptr(ptr) & uintptr(alignment-1))
}

// AlignmentAdjustment returns the number of bytes that must be added to ptr for it to land
// on an address aligned to alignment. alignment must be a power of two.
func AlignmentAdjustment(alignment uint, ptr unsafe.Pointer) uint {
	offset := AlignmentOffset(alignment, ptr)
	if offset == 0 {
		return 0
	}

	return alignment - offset
}

// AlignmentAdjustmentWithHeader returns the smallest adjustment that leaves at least headerSize
// bytes in front of an address aligned to alignment.
func AlignmentAdjustmentWithHeader(alignment uint, ptr unsafe.Pointer, headerSize uint) uint {
	adjustment := AlignmentAdjustment(alignment, ptr)
	if adjustment >= headerSize {
		return adjustment
	}

	needed := headerSize - adjustment
	if needed%alignment == 0 {
		return adjustment + needed
	}

	return adjustment + alignment*(needed/alignment+1)
}

// EffectiveAlignment converts a caller-provided alignment into the alignment an allocator should
// honor: 0 selects DefaultAlignment.
func EffectiveAlignment(alignment uint) uint {
	if alignment == 0 {
		return DefaultAlignment
	}
	return alignment
}
