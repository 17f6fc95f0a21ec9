//go:build linux || darwin || freebsd || netbsd || openbsd

package region

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"
)

// MmapSource acquires regions as anonymous private mappings outside of the Go heap.
type MmapSource struct{}

var _ Source = MmapSource{}

func (MmapSource) AcquireRegion(size int) ([]byte, error) {
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, errors.Wrapf(err, "mmap of %d bytes failed", size)
	}

	return data, nil
}

func (MmapSource) ReleaseRegion(data []byte) error {
	return unix.Munmap(data)
}

func (MmapSource) Name() string { return "mmap" }

// MmapSupported is true on platforms where MmapSource maps memory directly
const MmapSupported = true
