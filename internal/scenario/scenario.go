// Package scenario replays scripted sequences of allocator operations described in TOML files. It
// is used by cmd/allocsim to exercise allocation strategies without writing Go code.
package scenario

import (
	"bytes"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
)

// Op names a scenario step
type Op string

const (
	OpAlloc    Op = "alloc"
	OpFree     Op = "free"
	OpReset    Op = "reset"
	OpValidate Op = "validate"
)

// Expectation optionally constrains a step's outcome
type Expectation string

const (
	ExpectAny     Expectation = ""
	ExpectSuccess Expectation = "success"
	ExpectFailure Expectation = "failure"
)

// Scenario describes an allocator and the steps to run against it
type Scenario struct {
	Name string `toml:"name"`
	// Strategy is the name of an hma.Algorithm: FreeList, Linear, Stack or System
	Strategy string `toml:"strategy"`
	// Capacity is the size of the region in bytes. It is ignored by the System strategy.
	Capacity int `toml:"capacity"`
	// Source is the name of the region source: heap or mmap. Empty selects the default source.
	Source string `toml:"source"`
	// Fallback serves requests the region cannot satisfy from the Go heap
	Fallback bool `toml:"fallback"`
	// Synchronized creates the allocator with an internal mutex
	Synchronized bool `toml:"synchronized"`

	Steps []Step `toml:"steps"`
}

// Step is a single operation in a scenario
type Step struct {
	Op Op `toml:"op"`
	// Name identifies an allocation. alloc steps introduce a name and free steps retire it.
	Name      string      `toml:"name"`
	Size      int         `toml:"size"`
	Alignment uint        `toml:"alignment"`
	Expect    Expectation `toml:"expect"`
}

// Load reads and parses the scenario file at path
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read scenario file %s", path)
	}

	scenario, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load scenario file %s", path)
	}

	return scenario, nil
}

// Parse parses a scenario from TOML. Unknown keys are rejected.
func Parse(data []byte) (*Scenario, error) {
	var scenario Scenario

	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	err := decoder.Decode(&scenario)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse scenario")
	}

	err = scenario.Validate()
	if err != nil {
		return nil, err
	}

	return &scenario, nil
}

// Validate checks that every step is well formed. It does not check whether allocation names are
// used consistently, which is only known while the scenario runs.
func (s *Scenario) Validate() error {
	if s.Strategy == "" {
		return errors.New("scenario does not name a strategy")
	}

	for index, step := range s.Steps {
		switch step.Op {
		case OpAlloc:
			if step.Name == "" {
				return errors.Newf("step %d: alloc requires a name", index)
			}
		case OpFree:
			if step.Name == "" {
				return errors.Newf("step %d: free requires a name", index)
			}
		case OpReset, OpValidate:
		default:
			return errors.Newf("step %d: unknown op %q", index, step.Op)
		}

		switch step.Expect {
		case ExpectAny, ExpectSuccess, ExpectFailure:
		default:
			return errors.Newf("step %d: unknown expectation %q", index, step.Expect)
		}
	}

	return nil
}
