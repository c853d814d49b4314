// Package task holds the dated task record, its status enumeration and the
// date resolution rules used to pick the day a task belongs to.
package task

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidDate        = errors.New("invalid date")
	ErrDescriptionEmpty   = errors.New("description is empty")
	ErrNotFound           = errors.New("not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrDataCorruption     = errors.New("data corruption")
)

type Task struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Status      Status `json:"status"`
	Date        Date   `json:"date"`
}

// NormalizeDescription trims d and rejects blank text.
func NormalizeDescription(d string) (string, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return "", ErrDescriptionEmpty
	}
	return d, nil
}

// IndexError reports a 1-based position outside a day's task list.
// It still satisfies errors.Is(err, ErrNotFound).
type IndexError struct {
	Index int
	Count int
	Date  Date
}

func (e *IndexError) Error() string {
	if e.Count == 0 {
		return fmt.Sprintf("not found: no tasks on %s", e.Date)
	}
	return fmt.Sprintf("not found: index %d out of range 1-%d on %s", e.Index, e.Count, e.Date)
}

func (e *IndexError) Is(target error) bool {
	return target == ErrNotFound
}

// CorruptRow identifies a persisted row that could not be decoded.
type CorruptRow struct {
	ID  string
	Err error
}

// CorruptRowsError is returned alongside the rows that did decode.
// It still satisfies errors.Is(err, ErrDataCorruption).
type CorruptRowsError struct {
	Rows []CorruptRow
}

func (e *CorruptRowsError) Error() string {
	if e == nil || len(e.Rows) == 0 {
		return ErrDataCorruption.Error()
	}
	ids := make([]string, 0, len(e.Rows))
	for _, r := range e.Rows {
		ids = append(ids, r.ID)
	}
	return fmt.Sprintf("%s: %d row(s) skipped: %s", ErrDataCorruption, len(e.Rows), strings.Join(ids, ", "))
}

func (e *CorruptRowsError) Is(target error) bool {
	return target == ErrDataCorruption
}
