package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/amirbrooks/dailydose/internal/task"
)

const maxIndex = 100

func addDateFlags(fs *pflag.FlagSet) {
	fs.IntP("day", "d", 0, "Day of month (1-31)")
	fs.IntP("month", "m", 0, "Month (1-12)")
	fs.IntP("year", "y", 0, "Year (1978-9999)")
}

// optionalInt returns nil unless the flag was given on the command line.
func optionalInt(cmd *cobra.Command, name string, min, max int) (*int, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		return nil, usageError{err}
	}
	if v < min || (max > 0 && v > max) {
		if max > 0 {
			return nil, usagef("--%s must be between %d and %d, got %d", name, min, max, v)
		}
		return nil, usagef("--%s must be at least %d, got %d", name, min, v)
	}
	return &v, nil
}

func dateOverrides(cmd *cobra.Command) (task.Overrides, error) {
	var (
		o   task.Overrides
		err error
	)
	if o.Day, err = optionalInt(cmd, "day", 1, 31); err != nil {
		return o, err
	}
	if o.Month, err = optionalInt(cmd, "month", 1, 12); err != nil {
		return o, err
	}
	if o.Year, err = optionalInt(cmd, "year", task.MinYear, task.MaxYear); err != nil {
		return o, err
	}
	return o, nil
}

// resolveDate applies the -d/-m/-y flags to today.
func (a *app) resolveDate(cmd *cobra.Command) (task.Date, error) {
	o, err := dateOverrides(cmd)
	if err != nil {
		return task.Date{}, err
	}
	return task.Resolve(a.today(), o)
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, usagef("task index must be a number, got %q", s)
	}
	if n < 1 || n > maxIndex {
		return 0, usagef("task index must be between 1 and %d, got %d", maxIndex, n)
	}
	return n, nil
}

func includeID(a *app, cmd *cobra.Command) bool {
	if cmd.Flags().Changed("include-id") {
		v, _ := cmd.Flags().GetBool("include-id")
		return v
	}
	return a.cfg.Display.IncludeID
}

func requireArgs(min int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < min {
			return usagef("usage: dailydose %s", usage)
		}
		return nil
	}
}
