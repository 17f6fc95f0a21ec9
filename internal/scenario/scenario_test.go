package scenario

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/hostmem/memutils/metadata"
	"golang.org/x/exp/slog"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadCoalesce(t *testing.T) {
	scenario, err := Load("testdata/coalesce.toml")
	require.NoError(t, err)
	require.Equal(t, "coalesce", scenario.Name)
	require.Equal(t, 512, scenario.Capacity)
	require.Len(t, scenario.Steps, 7)
	require.Equal(t, Step{Op: OpAlloc, Name: "c", Size: 300, Alignment: 8, Expect: ExpectFailure}, scenario.Steps[3])

	report, err := Run(discardLogger(), scenario)
	require.NoError(t, err)
	require.Equal(t, "FreeList", report.Strategy)
	require.Empty(t, report.Unexpected())
	require.Equal(t, []string{"c"}, report.Leaked)

	// c lands where a used to be once a and b have merged
	require.Equal(t, "a", report.Steps[5].ReusedFrom)
	require.Equal(t, int(metadata.HeaderSize), report.Steps[0].Offset)
	require.Equal(t, report.Steps[0].Offset, report.Steps[5].Offset)
	require.Equal(t, report.Steps[0].Offset, report.Steps[4].Offset)
	require.Equal(t, -1, report.Steps[3].Offset)
	require.Equal(t, -1, report.Steps[6].Offset)

	var statistics map[string]any
	require.NoError(t, json.Unmarshal(report.Statistics, &statistics))
	require.Contains(t, statistics, "Total")
	require.Contains(t, statistics, "DetailedMap")
}

func TestRunLIFO(t *testing.T) {
	scenario, err := Load("testdata/lifo.toml")
	require.NoError(t, err)

	report, err := Run(discardLogger(), scenario)
	require.NoError(t, err)
	require.Equal(t, "Stack", report.Strategy)
	require.Empty(t, report.Unexpected())
	require.Equal(t, "b", report.Steps[3].ReusedFrom)
	require.Equal(t, []string{"a", "c"}, report.Leaked)
}

func TestRunExhaustion(t *testing.T) {
	scenario, err := Parse([]byte(`
strategy = "FreeList"
capacity = 1024
steps = [
	{ op = "alloc", name = "a", size = 256, alignment = 8, expect = "success" },
	{ op = "alloc", name = "b", size = 256, alignment = 8, expect = "success" },
	{ op = "alloc", name = "c", size = 256, alignment = 8, expect = "success" },
	{ op = "alloc", name = "d", size = 256, alignment = 8, expect = "success" },
	{ op = "reset" },
	{ op = "alloc", name = "d", size = 256, alignment = 8, expect = "success" },
]
`))
	require.NoError(t, err)

	report, err := Run(discardLogger(), scenario)
	require.NoError(t, err)

	unexpected := report.Unexpected()
	require.Len(t, unexpected, 1)
	require.Equal(t, 3, unexpected[0].Index)
	require.False(t, unexpected[0].Succeeded)

	require.True(t, report.Steps[5].Succeeded)
	require.Equal(t, "a", report.Steps[5].ReusedFrom)
}

func TestRunFallback(t *testing.T) {
	scenario, err := Parse([]byte(`
strategy = "Linear"
capacity = 128
fallback = true
synchronized = true
steps = [
	{ op = "alloc", name = "a", size = 100, expect = "success" },
	{ op = "alloc", name = "b", size = 100, expect = "success" },
	{ op = "free", name = "b" },
	{ op = "validate", expect = "success" },
]
`))
	require.NoError(t, err)

	report, err := Run(discardLogger(), scenario)
	require.NoError(t, err)
	require.Equal(t, "Linear+System", report.Strategy)
	require.Empty(t, report.Unexpected())

	// b does not fit in the region and is served from the Go heap
	require.Equal(t, 0, report.Steps[0].Offset)
	require.Equal(t, -1, report.Steps[1].Offset)
	require.True(t, report.Steps[1].Succeeded)
}

func TestRunRecordsMisuse(t *testing.T) {
	scenario, err := Parse([]byte(`
strategy = "Stack"
capacity = 256
steps = [
	{ op = "alloc", name = "zero", size = 0, expect = "failure" },
	{ op = "alloc", name = "odd", size = 8, alignment = 3, expect = "failure" },
]
`))
	require.NoError(t, err)

	report, err := Run(discardLogger(), scenario)
	require.NoError(t, err)
	require.Empty(t, report.Unexpected())
	require.Contains(t, report.Steps[0].Error, "allocation size must be greater than 0")
	require.Contains(t, report.Steps[1].Error, "power of two")
}

func TestRunScenarioErrors(t *testing.T) {
	for name, document := range map[string]string{
		"unknown free": `
strategy = "Stack"
capacity = 256
steps = [{ op = "free", name = "nothing" }]
`,
		"duplicate alloc": `
strategy = "Stack"
capacity = 256
steps = [
	{ op = "alloc", name = "a", size = 8 },
	{ op = "alloc", name = "a", size = 8 },
]
`,
		"bad capacity": `
strategy = "Stack"
capacity = 0
`,
		"bad source": `
strategy = "Stack"
capacity = 64
source = "tape"
`,
		"bad strategy": `
strategy = "buddy"
capacity = 64
`,
	} {
		t.Run(name, func(t *testing.T) {
			scenario, err := Parse([]byte(document))
			require.NoError(t, err)

			_, err = Run(discardLogger(), scenario)
			require.Error(t, err)
		})
	}
}

func TestParseErrors(t *testing.T) {
	for name, document := range map[string]string{
		"no strategy":   `capacity = 64`,
		"unknown op":    "strategy = \"Stack\"\nsteps = [{ op = \"grow\" }]",
		"unnamed alloc": "strategy = \"Stack\"\nsteps = [{ op = \"alloc\", size = 8 }]",
		"unknown key":   "strategy = \"Stack\"\ncolour = \"blue\"",
		"bad expect":    "strategy = \"Stack\"\nsteps = [{ op = \"reset\", expect = \"maybe\" }]",
		"not toml":      "strategy = ",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(document))
			require.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/missing.toml")
	require.Error(t, err)
}
