// Package store persists tasks in a single SQLite table.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/amirbrooks/dailydose/internal/task"
)

const schema = `
	CREATE TABLE IF NOT EXISTS tasks (
		id          TEXT PRIMARY KEY,
		description TEXT NOT NULL,
		status      TEXT NOT NULL,
		date        TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_date ON tasks(date);
`

type Store struct {
	db   *sql.DB
	path string
	ids  *idSource
}

// Filter narrows a fetch. A zero End means only Start is matched.
type Filter struct {
	Start  task.Date
	End    task.Date
	Search string
}

// Open opens (creating if needed) the database at path and ensures the
// tasks table exists. Existing rows are left untouched.
func Open(path string) (*Store, error) {
	path = expandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create database directory: %v", task.ErrStorageUnavailable, err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", task.ErrStorageUnavailable, path, err)
	}
	// one invocation, one connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: open %s: %v", task.ErrStorageUnavailable, path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: initialize schema: %v", task.ErrStorageUnavailable, err)
	}
	return &Store{db: db, path: path, ids: newIDSource()}, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Insert stores a new task and returns its id.
func (s *Store) Insert(description string, status task.Status, date task.Date) (string, error) {
	description, err := task.NormalizeDescription(description)
	if err != nil {
		return "", err
	}
	token, err := encodeStatus(status)
	if err != nil {
		return "", err
	}
	if _, err := task.NewDate(date.Year, date.Month, date.Day); err != nil {
		return "", err
	}
	id, err := s.ids.next()
	if err != nil {
		return "", err
	}
	_, err = s.db.Exec(
		`INSERT INTO tasks (id, description, status, date) VALUES (?, ?, ?, ?)`,
		id, description, token, encodeDate(date),
	)
	if err != nil {
		return "", fmt.Errorf("%w: insert task: %v", task.ErrStorageUnavailable, err)
	}
	return id, nil
}

// Get returns the task with the given id.
func (s *Store) Get(id string) (task.Task, error) {
	var r row
	err := s.db.QueryRow(
		`SELECT id, description, status, date FROM tasks WHERE id = ?`, id,
	).Scan(&r.ID, &r.Description, &r.Status, &r.Date)
	if errors.Is(err, sql.ErrNoRows) {
		return task.Task{}, fmt.Errorf("%w: task %s", task.ErrNotFound, id)
	}
	if err != nil {
		return task.Task{}, fmt.Errorf("%w: get task: %v", task.ErrStorageUnavailable, err)
	}
	t, err := r.decode()
	if err != nil {
		return task.Task{}, fmt.Errorf("task %s: %w", id, err)
	}
	return t, nil
}

// FetchExact returns every task on date, ordered by id.
func (s *Store) FetchExact(date task.Date) ([]task.Task, error) {
	return s.Fetch(Filter{Start: date})
}

// FetchRange returns every task with start <= date <= end, ordered by id.
// A zero end behaves like FetchExact(start).
func (s *Store) FetchRange(start, end task.Date) ([]task.Task, error) {
	return s.Fetch(Filter{Start: start, End: end})
}

// Fetch runs a filtered read. Rows that cannot be decoded are left out of
// the result and reported through a *task.CorruptRowsError returned next to
// the rows that did decode.
func (s *Store) Fetch(f Filter) ([]task.Task, error) {
	var (
		where []string
		args  []any
	)
	if f.End.IsZero() {
		where = append(where, "date = ?")
		args = append(args, encodeDate(f.Start))
	} else {
		where = append(where, "date BETWEEN ? AND ?")
		args = append(args, encodeDate(f.Start), encodeDate(f.End))
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		where = append(where, `description LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(q)+"%")
	}
	query := "SELECT id, description, status, date FROM tasks WHERE " +
		strings.Join(where, " AND ") + " ORDER BY id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch tasks: %v", task.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	tasks := []task.Task{}
	var corrupt []task.CorruptRow
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.ID, &r.Description, &r.Status, &r.Date); err != nil {
			return nil, fmt.Errorf("%w: scan task: %v", task.ErrStorageUnavailable, err)
		}
		t, err := r.decode()
		if err != nil {
			corrupt = append(corrupt, task.CorruptRow{ID: r.ID, Err: err})
			continue
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: fetch tasks: %v", task.ErrStorageUnavailable, err)
	}
	if len(corrupt) > 0 {
		return tasks, &task.CorruptRowsError{Rows: corrupt}
	}
	return tasks, nil
}

// UpdateDescription replaces the description of an existing task.
func (s *Store) UpdateDescription(id, description string) error {
	description, err := task.NormalizeDescription(description)
	if err != nil {
		return err
	}
	res, err := s.db.Exec(`UPDATE tasks SET description = ? WHERE id = ?`, description, id)
	if err != nil {
		return fmt.Errorf("%w: update description: %v", task.ErrStorageUnavailable, err)
	}
	return expectOneRow(res, id)
}

// UpdateStatus sets the status of an existing task. Setting the current
// status again succeeds.
func (s *Store) UpdateStatus(id string, status task.Status) error {
	token, err := encodeStatus(status)
	if err != nil {
		return err
	}
	res, err := s.db.Exec(`UPDATE tasks SET status = ? WHERE id = ?`, token, id)
	if err != nil {
		return fmt.Errorf("%w: update status: %v", task.ErrStorageUnavailable, err)
	}
	return expectOneRow(res, id)
}

// Delete removes a task, failing with ErrNotFound if no row was removed.
func (s *Store) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: delete task: %v", task.ErrStorageUnavailable, err)
	}
	return expectOneRow(res, id)
}

// Count returns the number of stored tasks.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM tasks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count tasks: %v", task.ErrStorageUnavailable, err)
	}
	return n, nil
}

// sqlite reports rows matched by the WHERE clause, so rewriting a value
// with itself still counts as one.
func expectOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %v", task.ErrStorageUnavailable, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: task %s", task.ErrNotFound, id)
	}
	return nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~"+string(os.PathSeparator)) || path == "~" {
		home, _ := os.UserHomeDir()
		if home != "" {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
