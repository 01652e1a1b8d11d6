// Package seed preloads demo students at startup.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/campusdev/student-registry/internal/storage"
	"github.com/campusdev/student-registry/internal/types"
)

// Students are the demo records inserted by Load, in insertion order.
var Students = []types.Student{
	{Name: "John Doe", Course: "Enginering", Email: "john@mail.com.ar"},
	{Name: "Jane Doe", Course: "Arts", Email: "jane@mail.com.ar"},
	{Name: "Peter Dilan", Course: "History", Email: "dilan@mail.com.ar"},
}

// Load saves every demo student with no id so the store assigns one.
// It is not idempotent: running it twice against a persistent store
// inserts the records again under new ids.
func Load(ctx context.Context, store storage.Storage, log *slog.Logger) ([]types.Student, error) {
	saved := make([]types.Student, 0, len(Students))

	for _, s := range Students {
		s.ID = 0

		student, err := store.Save(ctx, s)
		if err != nil {
			return saved, fmt.Errorf("seed.Load: save %s: %w", s.Name, err)
		}

		log.Info("preloading", slog.String("student", student.String()))
		saved = append(saved, student)
	}

	return saved, nil
}
