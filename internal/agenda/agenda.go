// Package agenda reads tasks back grouped by day, latest day first, and
// applies status changes to tasks picked by their position within a day.
package agenda

import (
	"errors"
	"sort"

	"github.com/amirbrooks/dailydose/internal/store"
	"github.com/amirbrooks/dailydose/internal/task"
)

// Store is the part of the task store the agenda needs.
type Store interface {
	Fetch(f store.Filter) ([]task.Task, error)
	UpdateStatus(id string, status task.Status) error
}

// Group holds the tasks of one day in ascending id order.
type Group struct {
	Date  task.Date   `json:"date"`
	Tasks []task.Task `json:"tasks"`
}

type Query struct {
	Start task.Date
	// End is inclusive; zero means Start only.
	End    task.Date
	Search string
	// Limit caps the number of groups, keeping the most recent. Zero means no cap.
	Limit int
}

// ListGrouped fetches the tasks matching q and groups them by date.
//
// If the store skipped corrupt rows, the groups built from the remaining
// rows are returned together with the *task.CorruptRowsError.
func ListGrouped(s Store, q Query) ([]Group, error) {
	tasks, err := s.Fetch(store.Filter{Start: q.Start, End: q.End, Search: q.Search})
	var corrupt *task.CorruptRowsError
	if err != nil && !errors.As(err, &corrupt) {
		return nil, err
	}
	groups := GroupByDate(tasks)
	if q.Limit > 0 && len(groups) > q.Limit {
		groups = groups[:q.Limit]
	}
	if corrupt != nil {
		return groups, corrupt
	}
	return groups, nil
}

// GroupByDate partitions tasks by exact date. Groups come out latest date
// first; tasks inside a group keep their input order. Days without tasks
// never appear.
func GroupByDate(tasks []task.Task) []Group {
	groups := []Group{}
	index := map[task.Date]int{}
	for _, t := range tasks {
		i, ok := index[t.Date]
		if !ok {
			i = len(groups)
			index[t.Date] = i
			groups = append(groups, Group{Date: t.Date})
		}
		groups[i].Tasks = append(groups[i].Tasks, t)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[j].Date.Before(groups[i].Date)
	})
	return groups
}
