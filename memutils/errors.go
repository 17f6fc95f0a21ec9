package memutils

import "github.com/pkg/errors"

// PowerOfTwoError is the error returned from CheckPow2 or other methods if the number being tested is not a power of two
var PowerOfTwoError error = errors.New("number must be a power of two")

var (
	// ErrZeroSize is returned or asserted when an allocation of zero bytes or less is requested
	ErrZeroSize = errors.New("allocation size must be greater than 0")
	// ErrInvalidCapacity is returned when a region is requested with a capacity of zero bytes or less
	ErrInvalidCapacity = errors.New("region capacity must be greater than 0")
	// ErrRegionReleased is returned when a region is released, or used, after it has already been released
	ErrRegionReleased = errors.New("region has already been released")
	// ErrNotOwned is asserted when a pointer is handed to an allocator that did not produce it
	ErrNotOwned = errors.New("pointer is not owned by this allocator")
	// ErrOutOfMemory is used by diagnostics when an allocator could not satisfy a request
	ErrOutOfMemory = errors.New("allocator is out of memory")
)
