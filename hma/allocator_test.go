package hma

import (
	"bytes"
	"io"
	"testing"
	"unsafe"

	cerrors "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/hostmem/memutils"
	"github.com/vkngwrapper/hostmem/memutils/strategy"
	mock_strategy "github.com/vkngwrapper/hostmem/memutils/strategy/mocks"
	"go.uber.org/mock/gomock"
	"golang.org/x/exp/slog"
)

type regionStrategy struct {
	*mock_strategy.MockComposable
	*mock_strategy.MockDestroyer
	*mock_strategy.MockStatisticsReporter
	*mock_strategy.MockRegionVisitor
}

type fatalRecorder struct {
	errs []error
}

func (r *fatalRecorder) Handle(err error) {
	r.errs = append(r.errs, err)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func backingPointer(size int) unsafe.Pointer {
	backing := make([]byte, size)
	return unsafe.Pointer(&backing[0])
}

func readyMockAllocator(t *testing.T, ctrl *gomock.Controller, options CreateOptions) (*mock_strategy.MockComposable, *fatalRecorder, *Allocator) {
	impl := mock_strategy.NewMockComposable(ctrl)
	recorder := &fatalRecorder{}
	if options.FatalHandler == nil {
		options.FatalHandler = recorder.Handle
	}

	allocator, err := NewAllocator(discardLogger(), impl, options)
	require.NoError(t, err)

	return impl, recorder, allocator
}

func TestAllocatorForwardsAllocate(t *testing.T) {
	ctrl := gomock.NewController(t)
	impl, recorder, allocator := readyMockAllocator(t, ctrl, CreateOptions{})

	ptr := backingPointer(64)
	impl.EXPECT().Allocate(64, uint(16)).Return(ptr)
	impl.EXPECT().Allocate(32, memutils.DefaultAlignment).Return(ptr)

	require.Equal(t, ptr, allocator.Allocate(64, 16))
	require.Equal(t, ptr, allocator.Allocate(32, 0))
	require.Empty(t, recorder.errs)
}

func TestAllocatorForwardsDeallocate(t *testing.T) {
	ctrl := gomock.NewController(t)
	impl, recorder, allocator := readyMockAllocator(t, ctrl, CreateOptions{})

	ptr := backingPointer(64)
	gomock.InOrder(
		impl.EXPECT().Owns(ptr).Return(true),
		impl.EXPECT().Deallocate(ptr),
	)

	allocator.Deallocate(ptr)
	allocator.Deallocate(nil)
	require.Empty(t, recorder.errs)

	impl.EXPECT().DeallocateAll()
	allocator.DeallocateAll()

	impl.EXPECT().Owns(ptr).Return(true)
	require.True(t, allocator.Owns(ptr))
}

func TestAllocatorDeallocateUnowned(t *testing.T) {
	ctrl := gomock.NewController(t)
	impl, recorder, allocator := readyMockAllocator(t, ctrl, CreateOptions{})

	ptr := backingPointer(64)
	impl.EXPECT().Owns(ptr).Return(false)

	allocator.Deallocate(ptr)
	require.Len(t, recorder.errs, 1)
	require.True(t, cerrors.Is(recorder.errs[0], memutils.ErrNotOwned))
}

func TestAllocatorZeroSizeIsFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	_, recorder, allocator := readyMockAllocator(t, ctrl, CreateOptions{})

	require.Nil(t, allocator.Allocate(0, 8))
	require.Nil(t, allocator.Allocate(-5, 8))
	require.Len(t, recorder.errs, 2)
	require.True(t, cerrors.Is(recorder.errs[0], memutils.ErrZeroSize))

	file, _, _, ok := cerrors.GetOneLineSource(recorder.errs[0])
	require.True(t, ok)
	require.Contains(t, file, "allocator_test.go")
}

func TestAllocatorAlignmentIsFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	_, recorder, allocator := readyMockAllocator(t, ctrl, CreateOptions{})

	require.Nil(t, allocator.Allocate(8, 3))
	require.Len(t, recorder.errs, 1)
	require.True(t, cerrors.Is(recorder.errs[0], memutils.PowerOfTwoError))
}

func TestAllocatorDefaultFatalHandlerPanics(t *testing.T) {
	ctrl := gomock.NewController(t)
	impl := mock_strategy.NewMockComposable(ctrl)

	allocator, err := NewAllocator(discardLogger(), impl, CreateOptions{})
	require.NoError(t, err)

	require.Panics(t, func() {
		allocator.Allocate(0, 0)
	})
}

func TestAllocatorExhaustion(t *testing.T) {
	ctrl := gomock.NewController(t)

	var logs bytes.Buffer
	impl := mock_strategy.NewMockComposable(ctrl)
	recorder := &fatalRecorder{}
	allocator, err := NewAllocator(slog.New(slog.NewJSONHandler(&logs, nil)), impl, CreateOptions{
		Name:         "exhausted",
		FatalHandler: recorder.Handle,
	})
	require.NoError(t, err)

	impl.EXPECT().Allocate(128, uint(8)).Return(unsafe.Pointer(nil))
	require.Nil(t, allocator.Allocate(128, 8))
	require.Empty(t, recorder.errs)
	require.Contains(t, logs.String(), "[MEMORY DIAGNOSTIC]")
	require.Contains(t, logs.String(), `"Severity":"Warning"`)
	require.Contains(t, logs.String(), `"Allocator":"exhausted"`)
}

func TestAllocatorExhaustionSeverity(t *testing.T) {
	ctrl := gomock.NewController(t)
	impl, recorder, allocator := readyMockAllocator(t, ctrl, CreateOptions{
		ExhaustionSeverity: SeverityFatal,
	})

	impl.EXPECT().Allocate(128, uint(8)).Return(unsafe.Pointer(nil))
	require.Nil(t, allocator.Allocate(128, 8))
	require.Len(t, recorder.errs, 1)
	require.True(t, cerrors.Is(recorder.errs[0], memutils.ErrOutOfMemory))
}

func TestAllocatorCallbacks(t *testing.T) {
	ctrl := gomock.NewController(t)

	var allocated, freed []unsafe.Pointer
	var sizes []int
	impl, _, allocator := readyMockAllocator(t, ctrl, CreateOptions{
		MemoryCallbackOptions: &MemoryCallbackOptions{
			Allocate: func(a *Allocator, ptr unsafe.Pointer, size int, userData interface{}) {
				require.Equal(t, "user data", userData)
				allocated = append(allocated, ptr)
				sizes = append(sizes, size)
			},
			Free: func(a *Allocator, ptr unsafe.Pointer, userData interface{}) {
				require.Equal(t, "user data", userData)
				freed = append(freed, ptr)
			},
			UserData: "user data",
		},
	})

	ptr := backingPointer(64)
	impl.EXPECT().Allocate(48, uint(8)).Return(ptr)
	impl.EXPECT().Allocate(48, uint(8)).Return(unsafe.Pointer(nil))
	impl.EXPECT().Owns(ptr).Return(true)
	impl.EXPECT().Deallocate(ptr)

	require.Equal(t, ptr, allocator.Allocate(48, 8))
	require.Nil(t, allocator.Allocate(48, 8))
	allocator.Deallocate(ptr)

	require.Equal(t, []unsafe.Pointer{ptr}, allocated)
	require.Equal(t, []int{48}, sizes)
	require.Equal(t, []unsafe.Pointer{ptr}, freed)
}

func TestAllocatorStrategyWithoutOwnership(t *testing.T) {
	ctrl := gomock.NewController(t)
	impl := mock_strategy.NewMockStrategy(ctrl)

	allocator, err := NewAllocator(nil, impl, CreateOptions{})
	require.NoError(t, err)

	ptr := backingPointer(16)
	impl.EXPECT().Deallocate(ptr)

	allocator.Deallocate(ptr)
	require.False(t, allocator.Owns(ptr))
	require.NoError(t, allocator.Validate())
	require.NoError(t, allocator.Destroy())

	var stats memutils.DetailedStatistics
	allocator.CalculateStatistics(&stats)
	require.Equal(t, 0, stats.RegionCount)
}

func TestAllocatorDestroyLogsUnreleasedMemory(t *testing.T) {
	ctrl := gomock.NewController(t)

	impl := regionStrategy{
		MockComposable:         mock_strategy.NewMockComposable(ctrl),
		MockDestroyer:          mock_strategy.NewMockDestroyer(ctrl),
		MockStatisticsReporter: mock_strategy.NewMockStatisticsReporter(ctrl),
		MockRegionVisitor:      mock_strategy.NewMockRegionVisitor(ctrl),
	}

	var logs bytes.Buffer
	allocator, err := NewAllocator(slog.New(slog.NewJSONHandler(&logs, nil)), impl, CreateOptions{Name: "leaky"})
	require.NoError(t, err)

	gomock.InOrder(
		impl.MockStatisticsReporter.EXPECT().AddDetailedStatistics(gomock.Any()).Do(func(stats *memutils.DetailedStatistics) {
			stats.RegionCount = 1
			stats.RegionBytes = 256
			stats.AllocationCount = 1
			stats.AllocationBytes = 32
		}),
		impl.MockRegionVisitor.EXPECT().VisitAllRegions(gomock.Any()).DoAndReturn(func(visit func(int, int, bool) error) error {
			err := visit(0, 32, false)
			if err != nil {
				return err
			}
			return visit(32, 224, true)
		}),
		impl.MockDestroyer.EXPECT().Destroy().Return(nil),
	)

	require.NoError(t, allocator.Destroy())
	require.Contains(t, logs.String(), "[UNRELEASED MEMORY] unfreed range")
	require.Contains(t, logs.String(), `"Offset":0`)
	require.NotContains(t, logs.String(), `"Offset":32`)
}

func TestAllocatorDestroyError(t *testing.T) {
	ctrl := gomock.NewController(t)

	impl := regionStrategy{
		MockComposable:         mock_strategy.NewMockComposable(ctrl),
		MockDestroyer:          mock_strategy.NewMockDestroyer(ctrl),
		MockStatisticsReporter: mock_strategy.NewMockStatisticsReporter(ctrl),
		MockRegionVisitor:      mock_strategy.NewMockRegionVisitor(ctrl),
	}

	allocator, err := NewAllocator(discardLogger(), impl, CreateOptions{Name: "broken"})
	require.NoError(t, err)

	impl.MockStatisticsReporter.EXPECT().AddDetailedStatistics(gomock.Any())
	impl.MockDestroyer.EXPECT().Destroy().Return(memutils.ErrRegionReleased)

	err = allocator.Destroy()
	require.ErrorIs(t, err, memutils.ErrRegionReleased)
	require.ErrorContains(t, err, `"broken"`)
}

func TestNewAllocatorNilStrategy(t *testing.T) {
	_, err := NewAllocator[strategy.Strategy](nil, nil, CreateOptions{})
	require.Error(t, err)
}

func TestUnwrap(t *testing.T) {
	ctrl := gomock.NewController(t)
	impl, _, allocator := readyMockAllocator(t, ctrl, CreateOptions{})

	unwrapped, ok := Unwrap[*mock_strategy.MockComposable](allocator)
	require.True(t, ok)
	require.Same(t, impl, unwrapped)

	_, ok = Unwrap[*mock_strategy.MockStrategy](allocator)
	require.False(t, ok)
}
