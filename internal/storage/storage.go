// Package storage defines the Storage interface, the contract every
// database backend must satisfy to work with this application.
//
// Handlers depend only on this interface. The concrete backend (SQLite,
// PostgreSQL, MongoDB, Redis or in-memory) is picked once at startup from
// the configuration.
package storage

import (
	"context"

	"github.com/campusdev/student-registry/internal/types"
)

// Storage is the database contract.
type Storage interface {
	// FindAll returns every stored student ordered by id.
	// Returns an empty slice (not nil) if there are none.
	FindAll(ctx context.Context) ([]types.Student, error)

	// FindByID fetches a single student by primary key. A missing record is
	// reported through found=false with a nil error.
	FindByID(ctx context.Context, id int64) (student types.Student, found bool, err error)

	// Save upserts a student:
	//   - ID == 0: a new id is allocated and the record is inserted
	//   - ID set and present: name, course and email are overwritten
	//   - ID set and absent: the record is inserted under that id
	// It returns the persisted record with ID populated.
	Save(ctx context.Context, student types.Student) (types.Student, error)

	// DeleteByID removes a student. Deleting a missing id is a no-op.
	DeleteByID(ctx context.Context, id int64) error

	// Close releases the underlying connection(s).
	Close() error
}
