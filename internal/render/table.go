package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/amirbrooks/dailydose/internal/agenda"
)

const (
	colDate = iota
	colDescription
	colStatus
	colRef
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("#CDD6F4")).
			Background(lipgloss.Color("#313244"))
	cellStyle        = lipgloss.NewStyle().Padding(0, 1)
	descriptionStyle = cellStyle.Foreground(lipgloss.Color("#F38BA8"))
	dimStyle         = cellStyle.Foreground(lipgloss.Color("241"))
)

var asciiBorder = lipgloss.Border{
	Top:          "-",
	Bottom:       "-",
	Left:         "|",
	Right:        "|",
	TopLeft:      "+",
	TopRight:     "+",
	BottomLeft:   "+",
	BottomRight:  "+",
	MiddleLeft:   "+",
	MiddleRight:  "+",
	Middle:       "+",
	MiddleTop:    "+",
	MiddleBottom: "+",
}

// Table draws a bordered table. The date cell is only filled on the first
// row of each day.
func Table(w io.Writer, groups []agenda.Group, opts Options) error {
	if len(groups) == 0 {
		_, err := fmt.Fprintln(w, "(no tasks)")
		return err
	}

	var rows [][]string
	for _, g := range groups {
		for i, t := range g.Tasks {
			date := ""
			if i == 0 {
				date = g.Date.String()
			}
			rows = append(rows, []string{date, oneLine(t.Description), t.Status.String(), ref(t, i, opts)})
		}
	}

	border := lipgloss.NormalBorder()
	if opts.ASCII {
		border = asciiBorder
	}
	tbl := table.New().
		Border(border).
		BorderStyle(dimStyle).
		Headers("Date", "Description", "Status", refTitle(opts)).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == colDescription:
				return descriptionStyle
			case col == colRef:
				return dimStyle
			default:
				return cellStyle
			}
		})
	if opts.Width > 0 {
		tbl = tbl.Width(opts.Width)
	}
	_, err := fmt.Fprintln(w, tbl.Render())
	return err
}

func refTitle(opts Options) string {
	if opts.IncludeID {
		return "ID"
	}
	return "Idx"
}
