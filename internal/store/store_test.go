package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/amirbrooks/dailydose/internal/task"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "storage.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func day(t *testing.T, s string) task.Date {
	t.Helper()
	d, err := task.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func insert(t *testing.T, s *Store, desc, date string) string {
	t.Helper()
	id, err := s.Insert(desc, task.Todo, day(t, date))
	if err != nil {
		t.Fatalf("Insert(%q): %v", desc, err)
	}
	return id
}

func count(t *testing.T, s *Store) int {
	t.Helper()
	n, err := s.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	return n
}

func descriptions(tasks []task.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, tk := range tasks {
		out = append(out, tk.Description)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	insert(t, s, "survives reopen", "2024-06-01")
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if n := count(t, s); n != 1 {
		t.Fatalf("expected 1 task after reopen, got %d", n)
	}
}

func TestOpenUnwritableLocation(t *testing.T) {
	dir := t.TempDir()
	// a directory where the database file should be
	path := filepath.Join(dir, "storage.db")
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); !errors.Is(err, task.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestInsertAndFetchExactOrdersByID(t *testing.T) {
	s := openTestStore(t)
	a := insert(t, s, "first", "2024-06-02")
	insert(t, s, "other day", "2024-06-01")
	b := insert(t, s, "second", "2024-06-02")

	if len(a) != 26 {
		t.Fatalf("expected a 26 char ULID, got %q", a)
	}
	if !(a < b) {
		t.Fatalf("expected ids to sort in creation order: %s, %s", a, b)
	}

	got, err := s.FetchExact(day(t, "2024-06-02"))
	if err != nil {
		t.Fatalf("FetchExact: %v", err)
	}
	if want := []string{"first", "second"}; !equalStrings(descriptions(got), want) {
		t.Fatalf("expected %v, got %v", want, descriptions(got))
	}
	if got[0].Status != task.Todo || got[0].Date.String() != "2024-06-02" {
		t.Fatalf("unexpected task %+v", got[0])
	}
}

func TestFetchRangeIsInclusive(t *testing.T) {
	s := openTestStore(t)
	insert(t, s, "before", "2024-05-31")
	insert(t, s, "start", "2024-06-01")
	insert(t, s, "middle", "2024-06-15")
	insert(t, s, "end", "2024-06-30")
	insert(t, s, "after", "2024-07-01")

	got, err := s.FetchRange(day(t, "2024-06-01"), day(t, "2024-06-30"))
	if err != nil {
		t.Fatalf("FetchRange: %v", err)
	}
	if want := []string{"start", "middle", "end"}; !equalStrings(descriptions(got), want) {
		t.Fatalf("expected %v, got %v", want, descriptions(got))
	}

	exact, err := s.FetchRange(day(t, "2024-06-15"), task.Date{})
	if err != nil {
		t.Fatalf("FetchRange exact: %v", err)
	}
	if want := []string{"middle"}; !equalStrings(descriptions(exact), want) {
		t.Fatalf("expected %v, got %v", want, descriptions(exact))
	}
}

func TestFetchSearchMatchesSubstringCaseInsensitively(t *testing.T) {
	s := openTestStore(t)
	insert(t, s, "Review PR", "2024-06-01")
	insert(t, s, "lunch", "2024-06-01")
	insert(t, s, "100% coverage", "2024-06-02")

	got, err := s.Fetch(Filter{Start: day(t, "2024-06-01"), End: day(t, "2024-06-30"), Search: "review"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if want := []string{"Review PR"}; !equalStrings(descriptions(got), want) {
		t.Fatalf("expected %v, got %v", want, descriptions(got))
	}

	got, err = s.Fetch(Filter{Start: day(t, "2024-06-01"), End: day(t, "2024-06-30"), Search: "%"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if want := []string{"100% coverage"}; !equalStrings(descriptions(got), want) {
		t.Fatalf("expected literal %% match %v, got %v", want, descriptions(got))
	}
}

func TestStatusRoundTrip(t *testing.T) {
	s := openTestStore(t)
	for _, st := range task.Statuses() {
		id, err := s.Insert("status "+st.String(), st, day(t, "2024-06-01"))
		if err != nil {
			t.Fatalf("Insert: %v", err)
		}
		got, err := s.Get(id)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Status != st {
			t.Fatalf("expected %v, got %v", st, got.Status)
		}
	}
}

func TestEmptyDescriptionRejected(t *testing.T) {
	s := openTestStore(t)
	id := insert(t, s, "keep me", "2024-06-01")

	if _, err := s.Insert("   ", task.Todo, day(t, "2024-06-01")); !errors.Is(err, task.ErrDescriptionEmpty) {
		t.Fatalf("Insert: expected ErrDescriptionEmpty, got %v", err)
	}
	if err := s.UpdateDescription(id, ""); !errors.Is(err, task.ErrDescriptionEmpty) {
		t.Fatalf("UpdateDescription: expected ErrDescriptionEmpty, got %v", err)
	}
	if n := count(t, s); n != 1 {
		t.Fatalf("expected 1 task, got %d", n)
	}
	got, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Description != "keep me" {
		t.Fatalf("description changed to %q", got.Description)
	}
}

func TestInsertRejectsImpossibleDate(t *testing.T) {
	s := openTestStore(t)
	for _, d := range []task.Date{
		{Year: 2023, Month: 2, Day: 30},
		{Year: 10000, Month: 6, Day: 2},
	} {
		if _, err := s.Insert("bad", task.Todo, d); !errors.Is(err, task.ErrInvalidDate) {
			t.Fatalf("%+v: expected ErrInvalidDate, got %v", d, err)
		}
	}
	if n := count(t, s); n != 0 {
		t.Fatalf("expected empty store, got %d", n)
	}
}

func TestUpdateDescriptionAndStatus(t *testing.T) {
	s := openTestStore(t)
	id := insert(t, s, "draft", "2024-06-01")

	if err := s.UpdateDescription(id, "final"); err != nil {
		t.Fatalf("UpdateDescription: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := s.UpdateStatus(id, task.Done); err != nil {
			t.Fatalf("UpdateStatus #%d: %v", i+1, err)
		}
	}
	got, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Description != "final" || got.Status != task.Done {
		t.Fatalf("unexpected task %+v", got)
	}
	if got.Date.String() != "2024-06-01" {
		t.Fatalf("date changed to %s", got.Date)
	}
}

func TestUnknownIDIsNotFound(t *testing.T) {
	s := openTestStore(t)
	insert(t, s, "present", "2024-06-01")
	before := count(t, s)

	if err := s.Delete("01ARZ3NDEKTSV4RRFFQ69G5FAV"); !errors.Is(err, task.ErrNotFound) {
		t.Fatalf("Delete: expected ErrNotFound, got %v", err)
	}
	if err := s.UpdateDescription("missing", "x"); !errors.Is(err, task.ErrNotFound) {
		t.Fatalf("UpdateDescription: expected ErrNotFound, got %v", err)
	}
	if err := s.UpdateStatus("missing", task.Done); !errors.Is(err, task.ErrNotFound) {
		t.Fatalf("UpdateStatus: expected ErrNotFound, got %v", err)
	}
	if _, err := s.Get("missing"); !errors.Is(err, task.ErrNotFound) {
		t.Fatalf("Get: expected ErrNotFound, got %v", err)
	}
	if after := count(t, s); after != before {
		t.Fatalf("row count changed from %d to %d", before, after)
	}
}

func TestDeleteRemovesRow(t *testing.T) {
	s := openTestStore(t)
	id := insert(t, s, "temporary", "2024-06-01")
	if err := s.Delete(id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(id); !errors.Is(err, task.ErrNotFound) {
		t.Fatalf("second Delete: expected ErrNotFound, got %v", err)
	}
	if n := count(t, s); n != 0 {
		t.Fatalf("expected empty store, got %d", n)
	}
}

func TestFetchReportsCorruptRows(t *testing.T) {
	s := openTestStore(t)
	insert(t, s, "good", "2024-06-01")
	if _, err := s.db.Exec(
		`INSERT INTO tasks (id, description, status, date) VALUES ('ZZZZ', 'bad', 'someday', '2024-06-01')`,
	); err != nil {
		t.Fatalf("seed corrupt row: %v", err)
	}

	got, err := s.FetchExact(day(t, "2024-06-01"))
	if !errors.Is(err, task.ErrDataCorruption) {
		t.Fatalf("expected ErrDataCorruption, got %v", err)
	}
	var cre *task.CorruptRowsError
	if !errors.As(err, &cre) || len(cre.Rows) != 1 || cre.Rows[0].ID != "ZZZZ" {
		t.Fatalf("expected one corrupt row ZZZZ, got %#v", err)
	}
	if want := []string{"good"}; !equalStrings(descriptions(got), want) {
		t.Fatalf("expected good rows %v, got %v", want, descriptions(got))
	}

	if _, err := s.Get("ZZZZ"); !errors.Is(err, task.ErrDataCorruption) {
		t.Fatalf("Get: expected ErrDataCorruption, got %v", err)
	}
}
