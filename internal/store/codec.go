package store

import (
	"fmt"

	"github.com/amirbrooks/dailydose/internal/task"
)

// The functions below are the only place that knows how domain values look
// inside the tasks table.

func encodeStatus(s task.Status) (string, error) {
	if !s.Valid() {
		return "", fmt.Errorf("encode %s: unknown status", s)
	}
	return s.String(), nil
}

func decodeStatus(token string) (task.Status, error) {
	return task.ParseStatus(token)
}

func encodeDate(d task.Date) string {
	return d.String()
}

func decodeDate(s string) (task.Date, error) {
	d, err := task.ParseDate(s)
	if err != nil {
		return task.Date{}, fmt.Errorf("%w: bad date %q", task.ErrDataCorruption, s)
	}
	return d, nil
}

// row is the raw textual form of one tasks record.
type row struct {
	ID          string
	Description string
	Status      string
	Date        string
}

func (r row) decode() (task.Task, error) {
	st, err := decodeStatus(r.Status)
	if err != nil {
		return task.Task{}, err
	}
	d, err := decodeDate(r.Date)
	if err != nil {
		return task.Task{}, err
	}
	return task.Task{ID: r.ID, Description: r.Description, Status: st, Date: d}, nil
}
