// Package memory provides a thread-safe in-memory implementation of
// storage.Storage. Data lives only as long as the process.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/campusdev/student-registry/internal/types"
)

// Memory is an in-memory student store.
type Memory struct {
	mu       sync.RWMutex
	students map[int64]types.Student
	lastID   int64
}

// New creates an empty Memory store.
func New() *Memory {
	return &Memory{
		students: make(map[int64]types.Student),
	}
}

// FindAll returns all students ordered by id.
func (m *Memory) FindAll(_ context.Context) ([]types.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	students := make([]types.Student, 0, len(m.students))
	for _, s := range m.students {
		students = append(students, s)
	}
	slices.SortFunc(students, func(a, b types.Student) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return students, nil
}

// FindByID returns the student with the given id, if any.
func (m *Memory) FindByID(_ context.Context, id int64) (types.Student, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.students[id]
	return s, ok, nil
}

// Save upserts a student. Explicit ids raise the id counter so they are
// never handed out again.
func (m *Memory) Save(_ context.Context, student types.Student) (types.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if student.ID == 0 {
		m.lastID++
		student.ID = m.lastID
	} else if student.ID > m.lastID {
		m.lastID = student.ID
	}

	m.students[student.ID] = student
	return student, nil
}

// DeleteByID removes a student. Missing ids are ignored.
func (m *Memory) DeleteByID(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.students, id)
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}
