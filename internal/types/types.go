// Package types holds the data structures shared across the application.
// Keeping them in one place prevents import cycles: handlers, storage and
// the seed loader can all import types without depending on each other.
package types

import "fmt"

// Student represents a student record.
//
// ID is assigned by the storage backend. A zero ID (including a JSON null or
// a missing "id" key) means the record has not been persisted yet.
type Student struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Course string `json:"course"`
	Email  string `json:"email"`
}

func (s Student) String() string {
	return fmt.Sprintf("Student(id=%d, name=%s, course=%s, email=%s)", s.ID, s.Name, s.Course, s.Email)
}

// StudentNotFoundError is returned by the HTTP layer when a single-record
// lookup finds nothing.
type StudentNotFoundError struct {
	ID int64
}

func (e *StudentNotFoundError) Error() string {
	return fmt.Sprintf("Could not find student with id %d", e.ID)
}
