//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package region

// MmapSource falls back to the Go heap on platforms without anonymous mmap support.
type MmapSource struct {
	HeapSource
}

var _ Source = MmapSource{}

// MmapSupported is true on platforms where MmapSource maps memory directly
const MmapSupported = false
