package region

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// DefaultSource returns the Source used when none is provided
func DefaultSource() Source {
	return HeapSource{}
}

// SourceByName returns the Source identified by name ("heap" or "mmap"). An empty name selects
// DefaultSource.
func SourceByName(name string) (Source, error) {
	switch strings.ToLower(name) {
	case "":
		return DefaultSource(), nil
	case "heap":
		return HeapSource{}, nil
	case "mmap":
		return MmapSource{}, nil
	}

	return nil, errors.Newf("unknown region source %q", name)
}
