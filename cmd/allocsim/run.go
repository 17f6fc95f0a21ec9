package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/vkngwrapper/hostmem/internal/scenario"
)

func init() {
	rootCmd.AddCommand(newRunCmd())
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <scenario.toml>",
		Short: "Run a scenario file",
		Long: `The run command replays a scenario file and prints the outcome of every step,
followed by the allocator's statistics. It fails if any step contradicts its
expect field.

Example:
  allocsim run coalesce.toml
  allocsim run coalesce.toml --json
  allocsim run coalesce.toml -v`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0])
		},
	}
	return cmd
}

func runScenario(out io.Writer, logOut io.Writer, path string) error {
	s, err := scenario.Load(path)
	if err != nil {
		return err
	}

	report, err := scenario.Run(newLogger(logOut), s)
	if err != nil {
		return errors.Wrapf(err, "failed to run scenario %s", path)
	}

	if jsonOut {
		err = printJSON(out, report)
	} else {
		err = printReport(out, report)
	}
	if err != nil {
		return err
	}

	unexpected := report.Unexpected()
	if len(unexpected) > 0 {
		return errors.Newf("%d step(s) did not meet their expectation", len(unexpected))
	}

	return nil
}

func printReport(out io.Writer, report *scenario.Report) error {
	fmt.Fprintf(out, "Scenario: %s\n", report.Name)
	fmt.Fprintf(out, "Strategy: %s\n\n", report.Strategy)

	table := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(table, "STEP\tOP\tNAME\tSIZE\tALIGN\tOFFSET\tRESULT\tNOTE")
	for _, step := range report.Steps {
		result := "ok"
		if !step.Succeeded {
			result = "failed"
		}
		if step.Unexpected {
			result += " (unexpected)"
		}

		offset := "-"
		if step.Offset >= 0 {
			offset = strconv.Itoa(step.Offset)
		}

		note := step.Error
		if step.ReusedFrom != "" {
			note = "reuses " + step.ReusedFrom
		}

		fmt.Fprintf(table, "%d\t%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
			step.Index, step.Op, step.Name, step.Size, step.Alignment, offset, result, note)
	}
	err := table.Flush()
	if err != nil {
		return err
	}

	if len(report.Leaked) > 0 {
		fmt.Fprintf(out, "\nNever freed: %v\n", report.Leaked)
	}

	fmt.Fprintf(out, "\nStatistics: %s\n", report.Statistics)
	return nil
}
