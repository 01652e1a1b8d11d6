// Package postgres implements storage.Storage on PostgreSQL through
// database/sql and the lib/pq driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/campusdev/student-registry/internal/config"
	"github.com/campusdev/student-registry/internal/types"

	_ "github.com/lib/pq"
)

const schema = `
	CREATE TABLE IF NOT EXISTS students (
		id     BIGSERIAL PRIMARY KEY,
		name   TEXT NOT NULL,
		course TEXT NOT NULL,
		email  TEXT NOT NULL
	)
`

// Postgres stores students in a PostgreSQL table.
type Postgres struct {
	db *sql.DB
}

// New connects to cfg.Storage.PostgresDSN, verifies the connection and
// creates the students table if needed.
func New(ctx context.Context, cfg *config.Config) (*Postgres, error) {
	db, err := sql.Open("postgres", cfg.Storage.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: open db: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres.New: create table: %w", err)
	}

	return &Postgres{db: db}, nil
}

func (p *Postgres) FindAll(ctx context.Context) ([]types.Student, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id, name, course, email FROM students ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("FindAll: query: %w", err)
	}
	defer rows.Close()

	students := make([]types.Student, 0)
	for rows.Next() {
		var s types.Student
		if err := rows.Scan(&s.ID, &s.Name, &s.Course, &s.Email); err != nil {
			return nil, fmt.Errorf("FindAll: scan row: %w", err)
		}
		students = append(students, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("FindAll: rows iteration: %w", err)
	}

	return students, nil
}

func (p *Postgres) FindByID(ctx context.Context, id int64) (types.Student, bool, error) {
	var s types.Student
	err := p.db.QueryRowContext(ctx,
		`SELECT id, name, course, email FROM students WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.Course, &s.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Student{}, false, nil
		}
		return types.Student{}, false, fmt.Errorf("FindByID: scan: %w", err)
	}

	return s, true, nil
}

// Save inserts with a generated id when student.ID is zero. Otherwise it
// upserts under the given id and moves the serial sequence past it.
func (p *Postgres) Save(ctx context.Context, student types.Student) (types.Student, error) {
	if student.ID == 0 {
		err := p.db.QueryRowContext(ctx,
			`INSERT INTO students (name, course, email) VALUES ($1, $2, $3) RETURNING id`,
			student.Name, student.Course, student.Email,
		).Scan(&student.ID)
		if err != nil {
			return types.Student{}, fmt.Errorf("Save: insert: %w", err)
		}
		return student, nil
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Student{}, fmt.Errorf("Save: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO students (id, name, course, email) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name   = EXCLUDED.name,
			course = EXCLUDED.course,
			email  = EXCLUDED.email`,
		student.ID, student.Name, student.Course, student.Email,
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("Save: upsert: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		SELECT setval('students_id_seq', GREATEST($1, (SELECT last_value FROM students_id_seq)))`,
		student.ID,
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("Save: sync sequence: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return types.Student{}, fmt.Errorf("Save: commit: %w", err)
	}

	return student, nil
}

func (p *Postgres) DeleteByID(ctx context.Context, id int64) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id); err != nil {
		return fmt.Errorf("DeleteByID: exec: %w", err)
	}
	return nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
