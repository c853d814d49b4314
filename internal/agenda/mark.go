package agenda

import (
	"fmt"

	"github.com/amirbrooks/dailydose/internal/store"
	"github.com/amirbrooks/dailydose/internal/task"
)

// Mark sets a task to Done. Marking a Done task again succeeds.
func Mark(s Store, id string) error {
	return s.UpdateStatus(id, task.Done)
}

// Unmark sets a task back to Todo from any status.
func Unmark(s Store, id string) error {
	return s.UpdateStatus(id, task.Todo)
}

// MarkByIndex marks the index-th (1-based) task of day as Done.
func MarkByIndex(s Store, day task.Date, index int) (task.Task, error) {
	return setByIndex(s, day, index, task.Done)
}

// UnmarkByIndex sets the index-th (1-based) task of day back to Todo.
func UnmarkByIndex(s Store, day task.Date, index int) (task.Task, error) {
	return setByIndex(s, day, index, task.Todo)
}

// A corrupt row on the day makes positions ambiguous, so any fetch error
// aborts before anything is written.
func setByIndex(s Store, day task.Date, index int, status task.Status) (task.Task, error) {
	tasks, err := s.Fetch(store.Filter{Start: day})
	if err != nil {
		return task.Task{}, fmt.Errorf("fetch %s: %w", day, err)
	}
	if index < 1 || index > len(tasks) {
		return task.Task{}, &task.IndexError{Index: index, Count: len(tasks), Date: day}
	}
	t := tasks[index-1]
	if err := s.UpdateStatus(t.ID, status); err != nil {
		return task.Task{}, err
	}
	t.Status = status
	return t, nil
}
