package cli

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amirbrooks/dailydose/internal/agenda"
	"github.com/amirbrooks/dailydose/internal/config"
	"github.com/amirbrooks/dailydose/internal/render"
	"github.com/amirbrooks/dailydose/internal/task"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the store root, config file and task table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(a.gf.Root, 0o755); err != nil {
				return failed("init", errors.Join(task.ErrStorageUnavailable, err))
			}
			created, err := config.WriteDefault(config.Path(a.gf.Root))
			if err != nil {
				return failed("init", err)
			}
			st, err := a.openStore()
			if err != nil {
				return failed("init", err)
			}
			defer st.Close()

			if created {
				a.log.Debug("wrote default config", "path", config.Path(a.gf.Root))
			}
			a.printf("Initialized daily-dose at: %s\n", a.gf.Root)
			return nil
		},
	}
}

func newAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <task...> [-d day] [-m month] [-y year]",
		Short: "Add a task to today's or a specific date's list",
		Args:  requireArgs(1, `add "<task>" [-d day] [-m month] [-y year]`),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := a.resolveDate(cmd)
			if err != nil {
				return failed("add", err)
			}
			desc := strings.Join(args, " ")
			st, err := a.openStore()
			if err != nil {
				return failed("add", err)
			}
			defer st.Close()

			id, err := st.Insert(desc, task.Todo, date)
			if err != nil {
				return failed("add", err)
			}
			a.printf("Added %s on %s\n", id, date)
			return nil
		},
	}
	addDateFlags(cmd.Flags())
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [-d day] [-m month] [-y year]",
		Short: "Show tasks for today or a specific date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := a.resolveDate(cmd)
			if err != nil {
				return failed("show", err)
			}
			return a.listAndRender(cmd, "show", agenda.Query{Start: date})
		},
	}
	addDateFlags(cmd.Flags())
	cmd.Flags().Bool("include-id", false, "Show task ids instead of positions")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [-m month] [-y year] [-l limit] [-s query]",
		Short: "List tasks of a month grouped by day, latest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := optionalInt(cmd, "month", 1, 12)
			if err != nil {
				return failed("list", err)
			}
			year, err := optionalInt(cmd, "year", task.MinYear, task.MaxYear)
			if err != nil {
				return failed("list", err)
			}
			limit := a.cfg.List.Limit
			if l, err := optionalInt(cmd, "limit", 1, 0); err != nil {
				return failed("list", err)
			} else if l != nil {
				limit = *l
			}
			search, _ := cmd.Flags().GetString("search")
			if cmd.Flags().Changed("search") && strings.TrimSpace(search) == "" {
				return failed("list", usagef("--search must not be empty"))
			}

			start, end, err := task.MonthRange(a.today(), year, month)
			if err != nil {
				return failed("list", err)
			}
			return a.listAndRender(cmd, "list", agenda.Query{Start: start, End: end, Search: search, Limit: limit})
		},
	}
	cmd.Flags().IntP("month", "m", 0, "Month to list (1-12)")
	cmd.Flags().IntP("year", "y", 0, "Year to list (1978-9999)")
	cmd.Flags().IntP("limit", "l", 0, "Maximum number of days to show")
	cmd.Flags().StringP("search", "s", "", "Only tasks whose description contains this text")
	cmd.Flags().Bool("include-id", false, "Show task ids instead of positions")
	return cmd
}

// listAndRender fetches groups and writes them. Corrupt rows are either
// reported after the good rows are shown or, with corrupt_rows: fail,
// abort the command before anything is written.
func (a *app) listAndRender(cmd *cobra.Command, op string, q agenda.Query) error {
	st, err := a.openStore()
	if err != nil {
		return failed(op, err)
	}
	defer st.Close()

	groups, err := agenda.ListGrouped(st, q)
	var corrupt *task.CorruptRowsError
	if err != nil && (!errors.As(err, &corrupt) || a.cfg.CorruptRows == config.CorruptFail) {
		return failed(op, err)
	}
	if corrupt != nil {
		for _, r := range corrupt.Rows {
			a.log.Warn("skipped corrupt task", "id", r.ID, "err", r.Err)
		}
	}

	opts := render.Options{
		IncludeID: includeID(a, cmd),
		Width:     a.cfg.Display.Width,
		ASCII:     a.gf.ASCII || a.cfg.Display.ASCII,
	}
	if err := render.Write(a.stdout, a.format(), groups, opts); err != nil {
		return failed(op, usageError{err})
	}
	if corrupt != nil {
		return failed(op, corrupt)
	}
	return nil
}

func newUpdateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update --id <task-id> <task...>",
		Short: "Replace a task's description",
		Args:  requireArgs(1, `update --id <task-id> "<task>"`),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := requiredID(cmd)
			if err != nil {
				return failed("update", err)
			}
			st, err := a.openStore()
			if err != nil {
				return failed("update", err)
			}
			defer st.Close()

			if err := st.UpdateDescription(id, strings.Join(args, " ")); err != nil {
				return failed("update", err)
			}
			a.printf("Updated %s\n", id)
			return nil
		},
	}
	cmd.Flags().String("id", "", "Task id")
	return cmd
}

func newStatusCmd(a *app, name, short string, status task.Status) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name + " <index> [-d day] [-m month] [-y year] | " + name + " --id <task-id>",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			byID := cmd.Flags().Changed("id")
			if byID == (len(args) == 1) {
				return failed(name, usagef("usage: dailydose %s <index> or dailydose %s --id <task-id>", name, name))
			}

			st, err := a.openStore()
			if err != nil {
				return failed(name, err)
			}
			defer st.Close()

			if byID {
				id, err := requiredID(cmd)
				if err != nil {
					return failed(name, err)
				}
				if err := st.UpdateStatus(id, status); err != nil {
					return failed(name, err)
				}
				a.printf("%s is now %s\n", id, status)
				return nil
			}

			index, err := parseIndex(args[0])
			if err != nil {
				return failed(name, err)
			}
			date, err := a.resolveDate(cmd)
			if err != nil {
				return failed(name, err)
			}
			var t task.Task
			if status == task.Done {
				t, err = agenda.MarkByIndex(st, date, index)
			} else {
				t, err = agenda.UnmarkByIndex(st, date, index)
			}
			if err != nil {
				return failed(name, err)
			}
			a.printf("%s #%d %q is now %s\n", date, index, t.Description, t.Status)
			return nil
		},
	}
	addDateFlags(cmd.Flags())
	cmd.Flags().String("id", "", "Task id instead of a position")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete --id <task-id>",
		Short: "Delete a task by id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := requiredID(cmd)
			if err != nil {
				return failed("delete", err)
			}
			st, err := a.openStore()
			if err != nil {
				return failed("delete", err)
			}
			defer st.Close()

			if err := st.Delete(id); err != nil {
				return failed("delete", err)
			}
			a.printf("Deleted %s\n", id)
			return nil
		},
	}
	cmd.Flags().String("id", "", "Task id")
	return cmd
}

func requiredID(cmd *cobra.Command) (string, error) {
	id, _ := cmd.Flags().GetString("id")
	id = strings.TrimSpace(id)
	if id == "" {
		return "", usagef("--id is required")
	}
	return id, nil
}
