// Package render writes grouped tasks for the terminal or for scripts.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/amirbrooks/dailydose/internal/agenda"
	"github.com/amirbrooks/dailydose/internal/task"
)

type Options struct {
	// IncludeID shows task ids instead of 1-based positions within a day.
	IncludeID bool
	Width     int
	ASCII     bool
}

// Write dispatches on format: table, plain, json or telegram.
func Write(w io.Writer, format string, groups []agenda.Group, opts Options) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "table":
		return Table(w, groups, opts)
	case "plain":
		return Plain(w, groups, opts)
	case "json":
		return JSON(w, groups)
	case "telegram":
		return Telegram(w, groups, opts)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// Plain writes one tab separated line per task, date repeated on every line.
func Plain(w io.Writer, groups []agenda.Group, opts Options) error {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "DATE\tDESCRIPTION\tSTATUS\t%s\n", refHeader(opts))
	for _, g := range groups {
		for i, t := range g.Tasks {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", g.Date, oneLine(t.Description), t.Status, ref(t, i, opts))
		}
	}
	return tw.Flush()
}

// JSON writes {"groups": [...]} with canonical status and date tokens.
func JSON(w io.Writer, groups []agenda.Group) error {
	if groups == nil {
		groups = []agenda.Group{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{"groups": groups})
}

func refHeader(opts Options) string {
	if opts.IncludeID {
		return "ID"
	}
	return "IDX"
}

func ref(t task.Task, i int, opts Options) string {
	if opts.IncludeID {
		return t.ID
	}
	return strconv.Itoa(i + 1)
}

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
