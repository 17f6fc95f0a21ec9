package hma

import (
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/hostmem/hma/internal/utils"
	"github.com/vkngwrapper/hostmem/memutils/region"
	"github.com/vkngwrapper/hostmem/memutils/strategy"
	"golang.org/x/exp/slog"
)

// CreateFlags indicate specific allocator behaviors to activate or deactivate
type CreateFlags int32

var allocatorCreateFlagsMapping = common.NewFlagStringMapping[CreateFlags]()

func (f CreateFlags) Register(str string) {
	allocatorCreateFlagsMapping.Register(f, str)
}
func (f CreateFlags) String() string {
	return allocatorCreateFlagsMapping.FlagsToString(f)
}

const (
	// AllocatorCreateSynchronized serializes every call made through the allocator with an internal
	// mutex, so it may be shared between goroutines. Without this flag, the consumer must guarantee
	// the allocator is used from one goroutine at a time.
	AllocatorCreateSynchronized CreateFlags = 1 << iota
	// CreateWithSystemFallback causes NewRegionAllocator to fall back to the Go heap when the region
	// is exhausted, rather than failing the allocation.
	CreateWithSystemFallback
)

func init() {
	AllocatorCreateSynchronized.Register("AllocatorCreateSynchronized")
	CreateWithSystemFallback.Register("CreateWithSystemFallback")
}

// Algorithm selects the strategy NewRegionAllocator builds
type Algorithm int32

const (
	AlgorithmFreeList Algorithm = iota
	AlgorithmLinear
	AlgorithmStack
	AlgorithmSystem
)

var algorithmNames = map[Algorithm]string{
	AlgorithmFreeList: "FreeList",
	AlgorithmLinear:   "Linear",
	AlgorithmStack:    "Stack",
	AlgorithmSystem:   "System",
}

// Algorithms lists every Algorithm in declaration order
var Algorithms = []Algorithm{AlgorithmFreeList, AlgorithmLinear, AlgorithmStack, AlgorithmSystem}

func (a Algorithm) String() string {
	name, ok := algorithmNames[a]
	if !ok {
		return "unknown"
	}
	return name
}

// ParseAlgorithm finds the Algorithm with the provided name, ignoring case
func ParseAlgorithm(name string) (Algorithm, error) {
	for algorithm, algorithmName := range algorithmNames {
		if strings.EqualFold(algorithmName, name) {
			return algorithm, nil
		}
	}

	return AlgorithmFreeList, errors.Newf("unknown allocation algorithm: %q", name)
}

// CreateOptions contains optional settings when creating an allocator
type CreateOptions struct {
	// Flags indicates specific allocator behaviors to activate or deactivate
	Flags CreateFlags
	// Name identifies the allocator in logs and statistics
	Name string

	// RegionSource is where NewRegionAllocator acquires its region. If left nil,
	// region.DefaultSource is used.
	RegionSource region.Source

	// MemoryCallbackOptions is an optional set of callbacks that will be executed when memory
	// is allocated or freed through this allocator
	MemoryCallbackOptions *MemoryCallbackOptions

	// FatalHandler is called after a fatal diagnostic has been logged. If left nil, fatal
	// diagnostics panic.
	FatalHandler FatalHandler
	// ExhaustionSeverity is the severity reported when the strategy cannot satisfy a request.
	// The default is SeverityWarning, which logs and returns nil.
	ExhaustionSeverity Severity
}

// NewAllocator creates a new Allocator over impl. The Allocator takes ownership of impl: it must not be
// used directly afterward.
//
// logger - The logger diagnostics and debug output are written to. If nil, output is discarded.
//
// impl - The strategy that will satisfy allocations
//
// options - Optional parameters: it is valid to leave all the fields blank
func NewAllocator[S strategy.Strategy](logger *slog.Logger, impl S, options CreateOptions) (*Allocator, error) {
	if any(impl) == nil {
		return nil, errors.New("hma.NewAllocator was called with a nil strategy")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	fatalHandler := options.FatalHandler
	if fatalHandler == nil {
		fatalHandler = panicFatalHandler
	}

	allocator := &Allocator{
		logger: logger,
		name:   options.Name,
		mutex: utils.OptionalRWMutex{
			UseMutex: options.Flags&AllocatorCreateSynchronized != 0,
		},
		createFlags: options.Flags,

		fatalHandler:       fatalHandler,
		exhaustionSeverity: options.ExhaustionSeverity,

		handle:   impl,
		dispatch: newDispatchTable(impl),
	}
	allocator.callbacks = memoryCallbacks{
		Callbacks: options.MemoryCallbackOptions,
		Allocator: allocator,
	}

	logger.Debug("Allocator::New",
		slog.String("Name", allocator.name),
		slog.String("Strategy", allocator.dispatch.strategyName),
		slog.String("Flags", options.Flags.String()),
	)

	return allocator, nil
}

// NewRegionAllocator creates a new Allocator over a region of capacity bytes managed by the
// provided algorithm. capacity is ignored for AlgorithmSystem.
//
// If options.Flags contains CreateWithSystemFallback, requests the region cannot satisfy are
// served from the Go heap instead.
func NewRegionAllocator(logger *slog.Logger, algorithm Algorithm, capacity int, options CreateOptions) (*Allocator, error) {
	var allocator *Allocator
	var err error

	switch algorithm {
	case AlgorithmFreeList:
		var impl *strategy.FreeList
		impl, err = strategy.NewFreeList(options.RegionSource, capacity)
		if err == nil {
			allocator, err = newWithOptionalFallback(logger, impl, options)
		}
	case AlgorithmLinear:
		var impl *strategy.Linear
		impl, err = strategy.NewLinear(options.RegionSource, capacity)
		if err == nil {
			allocator, err = newWithOptionalFallback(logger, impl, options)
		}
	case AlgorithmStack:
		var impl *strategy.Stack
		impl, err = strategy.NewStack(options.RegionSource, capacity)
		if err == nil {
			allocator, err = newWithOptionalFallback(logger, impl, options)
		}
	case AlgorithmSystem:
		allocator, err = NewAllocator(logger, strategy.NewSystem(), options)
	default:
		err = errors.Newf("unknown allocation algorithm: %d", algorithm)
	}

	if err != nil {
		if logger != nil {
			logger.Error("failed to create region allocator",
				slog.String("Name", options.Name),
				slog.String("Algorithm", algorithm.String()),
				slog.Int("Capacity", capacity),
				slog.Any("error", err),
			)
		}
		return nil, errors.Wrapf(err, "failed to create %s allocator", algorithm)
	}

	return allocator, nil
}

func newWithOptionalFallback[S strategy.Composable](logger *slog.Logger, impl S, options CreateOptions) (*Allocator, error) {
	if options.Flags&CreateWithSystemFallback == 0 {
		return NewAllocator(logger, impl, options)
	}

	allocator, err := NewAllocator(logger, strategy.NewFallback(impl, strategy.NewSystem()), options)
	if err != nil {
		return nil, err
	}
	allocator.dispatch.strategyName = strategyName(impl) + "+" + AlgorithmSystem.String()

	return allocator, nil
}
