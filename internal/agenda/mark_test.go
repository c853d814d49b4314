package agenda

import (
	"errors"
	"testing"

	"github.com/amirbrooks/dailydose/internal/task"
)

func statuses(t *testing.T, s interface {
	Get(id string) (task.Task, error)
}, ids ...string) []task.Status {
	t.Helper()
	out := make([]task.Status, 0, len(ids))
	for _, id := range ids {
		tk, err := s.Get(id)
		if err != nil {
			t.Fatalf("Get(%s): %v", id, err)
		}
		out = append(out, tk.Status)
	}
	return out
}

func TestMarkByIndexSelectsPositionWithinDay(t *testing.T) {
	s := openStore(t)
	first := add(t, s, "first", "2024-06-02")
	add(t, s, "elsewhere", "2024-06-01")
	second := add(t, s, "second", "2024-06-02")

	got, err := MarkByIndex(s, day(t, "2024-06-02"), 2)
	if err != nil {
		t.Fatalf("MarkByIndex: %v", err)
	}
	if got.ID != second || got.Status != task.Done {
		t.Fatalf("unexpected task %+v", got)
	}
	st := statuses(t, s, first, second)
	if st[0] != task.Todo || st[1] != task.Done {
		t.Fatalf("unexpected statuses %v", st)
	}

	if _, err := UnmarkByIndex(s, day(t, "2024-06-02"), 2); err != nil {
		t.Fatalf("UnmarkByIndex: %v", err)
	}
	if st := statuses(t, s, second); st[0] != task.Todo {
		t.Fatalf("expected todo after unmark, got %v", st[0])
	}
}

func TestMarkByIndexOutOfRange(t *testing.T) {
	s := openStore(t)
	a := add(t, s, "a", "2024-06-02")
	b := add(t, s, "b", "2024-06-02")

	for _, idx := range []int{0, 3, -1} {
		_, err := MarkByIndex(s, day(t, "2024-06-02"), idx)
		if !errors.Is(err, task.ErrNotFound) {
			t.Fatalf("index %d: expected ErrNotFound, got %v", idx, err)
		}
		var ie *task.IndexError
		if !errors.As(err, &ie) || ie.Count != 2 {
			t.Fatalf("index %d: expected IndexError with count 2, got %#v", idx, err)
		}
	}
	st := statuses(t, s, a, b)
	if st[0] != task.Todo || st[1] != task.Todo {
		t.Fatalf("statuses changed: %v", st)
	}
}

func TestMarkByIndexOnEmptyDay(t *testing.T) {
	s := openStore(t)
	if _, err := MarkByIndex(s, day(t, "2024-06-02"), 1); !errors.Is(err, task.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMarkIsIdempotent(t *testing.T) {
	s := openStore(t)
	id := add(t, s, "twice", "2024-06-02")
	for i := 0; i < 2; i++ {
		if err := Mark(s, id); err != nil {
			t.Fatalf("Mark #%d: %v", i+1, err)
		}
		if st := statuses(t, s, id); st[0] != task.Done {
			t.Fatalf("Mark #%d: expected done, got %v", i+1, st[0])
		}
	}
	for i := 0; i < 2; i++ {
		if err := Unmark(s, id); err != nil {
			t.Fatalf("Unmark #%d: %v", i+1, err)
		}
	}
	if st := statuses(t, s, id); st[0] != task.Todo {
		t.Fatalf("expected todo, got %v", st[0])
	}
}

func TestMarkUnknownID(t *testing.T) {
	s := openStore(t)
	if err := Mark(s, "missing"); !errors.Is(err, task.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMarkByIndexAbortsOnCorruptDay(t *testing.T) {
	d := task.Date{Year: 2024, Month: 6, Day: 1}
	f := &fakeStore{
		tasks: []task.Task{{ID: "01A", Description: "ok", Date: d}},
		err:   &task.CorruptRowsError{Rows: []task.CorruptRow{{ID: "BAD"}}},
	}
	if _, err := MarkByIndex(f, d, 1); !errors.Is(err, task.ErrDataCorruption) {
		t.Fatalf("expected ErrDataCorruption, got %v", err)
	}
	if len(f.updates) != 0 {
		t.Fatalf("expected no writes, got %v", f.updates)
	}
}
