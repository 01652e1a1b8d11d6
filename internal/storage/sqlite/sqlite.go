// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/campusdev/student-registry/internal/config"
	"github.com/campusdev/student-registry/internal/types"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
// A single *sql.DB is safe for concurrent use by multiple goroutines.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at cfg.Storage.Path, creates the students
// table if it does not already exist, and returns a ready-to-use *SQLite.
func New(cfg *config.Config) (*SQLite, error) {
	db, err := sql.Open("sqlite3", cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// AUTOINCREMENT keeps ids monotonic: an explicit id inserted through Save
	// bumps sqlite_sequence, so it is never handed out again.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			name   TEXT    NOT NULL,
			course TEXT    NOT NULL,
			email  TEXT    NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// FindAll returns all student rows ordered by id.
func (s *SQLite) FindAll(ctx context.Context) ([]types.Student, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"SELECT id, name, course, email FROM students ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("FindAll: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("FindAll: query: %w", err)
	}
	defer rows.Close()

	students := make([]types.Student, 0)

	for rows.Next() {
		var student types.Student

		if err := rows.Scan(
			&student.ID,
			&student.Name,
			&student.Course,
			&student.Email,
		); err != nil {
			return nil, fmt.Errorf("FindAll: scan row: %w", err)
		}

		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("FindAll: rows iteration: %w", err)
	}

	return students, nil
}

// FindByID fetches exactly one student row matched by primary key.
func (s *SQLite) FindByID(ctx context.Context, id int64) (types.Student, bool, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"SELECT id, name, course, email FROM students WHERE id = ? LIMIT 1",
	)
	if err != nil {
		return types.Student{}, false, fmt.Errorf("FindByID: prepare: %w", err)
	}
	defer stmt.Close()

	var student types.Student

	err = stmt.QueryRowContext(ctx, id).Scan(
		&student.ID,
		&student.Name,
		&student.Course,
		&student.Email,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Student{}, false, nil
		}
		return types.Student{}, false, fmt.Errorf("FindByID: scan: %w", err)
	}

	return student, true, nil
}

// Save upserts a student row. A zero ID is bound as NULL so SQLite assigns
// the next id.
func (s *SQLite) Save(ctx context.Context, student types.Student) (types.Student, error) {
	stmt, err := s.Db.PrepareContext(ctx, `
		INSERT INTO students (id, name, course, email) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name   = excluded.name,
			course = excluded.course,
			email  = excluded.email
	`)
	if err != nil {
		return types.Student{}, fmt.Errorf("Save: prepare: %w", err)
	}
	defer stmt.Close()

	var id any
	if student.ID != 0 {
		id = student.ID
	}

	result, err := stmt.ExecContext(ctx, id, student.Name, student.Course, student.Email)
	if err != nil {
		return types.Student{}, fmt.Errorf("Save: exec: %w", err)
	}

	if student.ID == 0 {
		lastID, err := result.LastInsertId()
		if err != nil {
			return types.Student{}, fmt.Errorf("Save: last insert id: %w", err)
		}
		student.ID = lastID
	}

	return student, nil
}

// DeleteByID removes a student row by primary key.
func (s *SQLite) DeleteByID(ctx context.Context, id int64) error {
	stmt, err := s.Db.PrepareContext(ctx, "DELETE FROM students WHERE id = ?")
	if err != nil {
		return fmt.Errorf("DeleteByID: prepare: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, id); err != nil {
		return fmt.Errorf("DeleteByID: exec: %w", err)
	}

	return nil
}

// Close closes the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}
