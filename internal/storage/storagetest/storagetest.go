// Package storagetest is a conformance suite that every storage.Storage
// backend must pass.
package storagetest

import (
	"context"
	"testing"

	"github.com/campusdev/student-registry/internal/storage"
	"github.com/campusdev/student-registry/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, empty store. The suite closes it.
type Factory func(t *testing.T) storage.Storage

// Run executes the full suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, s storage.Storage)
	}{
		{"empty store lists nothing", testEmpty},
		{"save assigns ids from one", testSaveAssignsIDs},
		{"saved record round-trips", testRoundTrip},
		{"save with existing id overwrites", testOverwrite},
		{"save with unknown id inserts at that id", testInsertExplicitID},
		{"explicit id is not reused", testExplicitIDNotReused},
		{"find missing id is not an error", testFindMissing},
		{"delete removes record", testDelete},
		{"delete is idempotent", testDeleteIdempotent},
		{"find all ordered by id", testFindAllOrdered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			t.Cleanup(func() { _ = s.Close() })
			tt.fn(t, s)
		})
	}
}

func student(name, course, email string) types.Student {
	return types.Student{Name: name, Course: course, Email: email}
}

func testEmpty(t *testing.T, s storage.Storage) {
	all, err := s.FindAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func testSaveAssignsIDs(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	first, err := s.Save(ctx, student("John Doe", "Enginering", "john@mail.com.ar"))
	require.NoError(t, err)
	second, err := s.Save(ctx, student("Jane Doe", "Arts", "jane@mail.com.ar"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
}

func testRoundTrip(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	saved, err := s.Save(ctx, student("Peter Dilan", "History", "dilan@mail.com.ar"))
	require.NoError(t, err)
	require.NotZero(t, saved.ID)

	got, found, err := s.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, saved, got)
	assert.Equal(t, "Peter Dilan", got.Name)
	assert.Equal(t, "History", got.Course)
	assert.Equal(t, "dilan@mail.com.ar", got.Email)
}

func testOverwrite(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	saved, err := s.Save(ctx, student("John Doe", "Enginering", "john@mail.com.ar"))
	require.NoError(t, err)

	updated, err := s.Save(ctx, types.Student{ID: saved.ID, Name: "John Roe", Course: "Law", Email: "roe@mail.com"})
	require.NoError(t, err)
	assert.Equal(t, saved.ID, updated.ID)

	got, found, err := s.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, updated, got)

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func testInsertExplicitID(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	saved, err := s.Save(ctx, types.Student{ID: 42, Name: "X", Course: "Y", Email: "Z"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), saved.ID)

	got, found, err := s.FindByID(ctx, 42)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, saved, got)
}

func testExplicitIDNotReused(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	_, err := s.Save(ctx, types.Student{ID: 5, Name: "A", Course: "B", Email: "C"})
	require.NoError(t, err)

	next, err := s.Save(ctx, student("D", "E", "F"))
	require.NoError(t, err)
	assert.NotEqual(t, int64(5), next.ID)

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func testFindMissing(t *testing.T, s storage.Storage) {
	got, found, err := s.FindByID(context.Background(), 999)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, types.Student{}, got)
}

func testDelete(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	saved, err := s.Save(ctx, student("John Doe", "Enginering", "john@mail.com.ar"))
	require.NoError(t, err)

	require.NoError(t, s.DeleteByID(ctx, saved.ID))

	_, found, err := s.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func testDeleteIdempotent(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	a, err := s.Save(ctx, student("A", "A", "a@mail"))
	require.NoError(t, err)
	_, err = s.Save(ctx, student("B", "B", "b@mail"))
	require.NoError(t, err)

	require.NoError(t, s.DeleteByID(ctx, a.ID))
	require.NoError(t, s.DeleteByID(ctx, a.ID))
	require.NoError(t, s.DeleteByID(ctx, 12345))

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func testFindAllOrdered(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	_, err := s.Save(ctx, types.Student{ID: 10, Name: "Ten"})
	require.NoError(t, err)
	_, err = s.Save(ctx, types.Student{ID: 3, Name: "Three"})
	require.NoError(t, err)
	_, err = s.Save(ctx, types.Student{ID: 7, Name: "Seven"})
	require.NoError(t, err)

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{3, 7, 10}, []int64{all[0].ID, all[1].ID, all[2].ID})
}
