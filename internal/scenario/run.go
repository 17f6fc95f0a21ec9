package scenario

import (
	"encoding/json"
	"sort"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/hostmem/hma"
	"github.com/vkngwrapper/hostmem/memutils/region"
	"golang.org/x/exp/slog"
)

// StepResult records the outcome of a single step
type StepResult struct {
	Index     int    `json:"index"`
	Op        Op     `json:"op"`
	Name      string `json:"name,omitempty"`
	Size      int    `json:"size,omitempty"`
	Alignment uint   `json:"alignment,omitempty"`

	Succeeded bool `json:"succeeded"`
	// Offset is the region offset of the allocation an alloc or free step touched, or -1 when the
	// step failed or the memory came from outside the region
	Offset int `json:"offset"`
	// ReusedFrom names the freed allocation whose address an alloc step received, if any
	ReusedFrom string `json:"reusedFrom,omitempty"`
	// Error is the diagnostic or validation error raised by the step, if any
	Error string `json:"error,omitempty"`
	// Unexpected is true when the step's outcome contradicts its expectation
	Unexpected bool `json:"unexpected,omitempty"`
}

// Report is the outcome of running a scenario
type Report struct {
	Name     string       `json:"name"`
	Strategy string       `json:"strategy"`
	Steps    []StepResult `json:"steps"`
	// Leaked lists the allocations that were never freed, in name order
	Leaked []string `json:"leaked,omitempty"`
	// Statistics is the allocator's statistics document after the last step
	Statistics json.RawMessage `json:"statistics"`
}

// Unexpected returns the steps whose outcome contradicted their expectation
func (r *Report) Unexpected() []StepResult {
	var unexpected []StepResult
	for _, step := range r.Steps {
		if step.Unexpected {
			unexpected = append(unexpected, step)
		}
	}
	return unexpected
}

type runner struct {
	allocator  *hma.Allocator
	diagnostic error

	live  map[string]unsafe.Pointer
	freed map[unsafe.Pointer]string
}

// Run creates the allocator the scenario describes, executes its steps in order and destroys the
// allocator. Misuse of the allocator, such as a zero-byte request, is recorded in the step's result
// rather than aborting the run. An error is returned if the scenario itself is inconsistent: freeing
// an unknown name or reusing a live one.
func Run(logger *slog.Logger, scenario *Scenario) (*Report, error) {
	err := scenario.Validate()
	if err != nil {
		return nil, err
	}

	algorithm, err := hma.ParseAlgorithm(scenario.Strategy)
	if err != nil {
		return nil, err
	}

	source, err := region.SourceByName(scenario.Source)
	if err != nil {
		return nil, err
	}

	r := &runner{
		live:  make(map[string]unsafe.Pointer),
		freed: make(map[unsafe.Pointer]string),
	}

	options := hma.CreateOptions{
		Name:         scenario.Name,
		RegionSource: source,
		FatalHandler: func(err error) {
			r.diagnostic = err
		},
	}
	if scenario.Fallback {
		options.Flags |= hma.CreateWithSystemFallback
	}
	if scenario.Synchronized {
		options.Flags |= hma.AllocatorCreateSynchronized
	}

	r.allocator, err = hma.NewRegionAllocator(logger, algorithm, scenario.Capacity, options)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Name:     scenario.Name,
		Strategy: r.allocator.StrategyName(),
	}

	for index, step := range scenario.Steps {
		result, err := r.runStep(index, step)
		if err != nil {
			destroyErr := r.allocator.Destroy()
			return nil, errors.CombineErrors(err, destroyErr)
		}

		report.Steps = append(report.Steps, result)
	}

	for name := range r.live {
		report.Leaked = append(report.Leaked, name)
	}
	sort.Strings(report.Leaked)

	report.Statistics = json.RawMessage(r.allocator.BuildStatsString(true))

	err = r.allocator.Destroy()
	if err != nil {
		return nil, err
	}

	return report, nil
}

func (r *runner) runStep(index int, step Step) (StepResult, error) {
	result := StepResult{
		Index:     index,
		Op:        step.Op,
		Name:      step.Name,
		Size:      step.Size,
		Alignment: step.Alignment,
		Offset:    -1,
	}
	r.diagnostic = nil

	switch step.Op {
	case OpAlloc:
		if _, exists := r.live[step.Name]; exists {
			return result, errors.Newf("step %d: allocation %q is already live", index, step.Name)
		}

		ptr := r.allocator.Allocate(step.Size, step.Alignment)
		if ptr != nil {
			result.Succeeded = true
			result.Offset = r.offset(ptr)
			result.ReusedFrom = r.freed[ptr]
			delete(r.freed, ptr)
			r.live[step.Name] = ptr
		}
	case OpFree:
		ptr, exists := r.live[step.Name]
		if !exists {
			return result, errors.Newf("step %d: allocation %q is not live", index, step.Name)
		}

		result.Offset = r.offset(ptr)
		r.allocator.Deallocate(ptr)
		delete(r.live, step.Name)
		r.freed[ptr] = step.Name
		result.Succeeded = r.diagnostic == nil
	case OpReset:
		r.allocator.DeallocateAll()
		for name, ptr := range r.live {
			r.freed[ptr] = name
		}
		clear(r.live)
		result.Succeeded = true
	case OpValidate:
		err := r.allocator.Validate()
		if err != nil {
			result.Error = err.Error()
		}
		result.Succeeded = err == nil
	}

	if r.diagnostic != nil {
		result.Error = r.diagnostic.Error()
	}

	switch step.Expect {
	case ExpectSuccess:
		result.Unexpected = !result.Succeeded
	case ExpectFailure:
		result.Unexpected = result.Succeeded
	}

	return result, nil
}

func (r *runner) offset(ptr unsafe.Pointer) int {
	offset, ok := r.allocator.Offset(ptr)
	if !ok {
		return -1
	}
	return offset
}
