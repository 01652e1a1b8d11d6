package student

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/campusdev/student-registry/internal/logger"
	"github.com/campusdev/student-registry/internal/seed"
	"github.com/campusdev/student-registry/internal/storage"
	"github.com/campusdev/student-registry/internal/storage/memory"
	"github.com/campusdev/student-registry/internal/types"
	"github.com/campusdev/student-registry/internal/utils/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(s storage.Storage) *http.ServeMux {
	mux := http.NewServeMux()
	RegisterRoutes(mux, s)
	return mux
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestGetByID(t *testing.T) {
	t.Run("returns seeded student", func(t *testing.T) {
		store := memory.New()
		_, err := seed.Load(context.Background(), store, logger.Nop())
		require.NoError(t, err)

		rec := do(t, newRouter(store), http.MethodGet, "/students/1", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t,
			`{"id":1,"name":"John Doe","course":"Enginering","email":"john@mail.com.ar"}`,
			rec.Body.String())
	})

	t.Run("missing student is 404 with message", func(t *testing.T) {
		rec := do(t, newRouter(memory.New()), http.MethodGet, "/students/99", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Could not find student with id 99", rec.Body.String())
	})

	t.Run("non-integer id is 400", func(t *testing.T) {
		rec := do(t, newRouter(memory.New()), http.MethodGet, "/students/abc", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decode[response.Response](t, rec)
		assert.Equal(t, errInvalidID.Error(), resp.Error)
	})
}

func TestGetList(t *testing.T) {
	t.Run("empty store returns empty array", func(t *testing.T) {
		rec := do(t, newRouter(memory.New()), http.MethodGet, "/students", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("created student is listed", func(t *testing.T) {
		router := newRouter(memory.New())

		created := do(t, router, http.MethodPost, "/students", `{"name":"X","course":"Y","email":"Z"}`)
		require.Equal(t, http.StatusCreated, created.Code)
		student := decode[types.Student](t, created)
		assert.NotZero(t, student.ID)

		rec := do(t, router, http.MethodGet, "/students", "")
		require.Equal(t, http.StatusOK, rec.Code)
		list := decode[[]types.Student](t, rec)
		assert.Contains(t, list, types.Student{ID: student.ID, Name: "X", Course: "Y", Email: "Z"})
	})
}

func TestNew(t *testing.T) {
	t.Run("ignores id in body", func(t *testing.T) {
		store := memory.New()
		rec := do(t, newRouter(store), http.MethodPost, "/students", `{"id":77,"name":"X","course":"Y","email":"Z"}`)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, int64(1), decode[types.Student](t, rec).ID)

		_, found, err := store.FindByID(context.Background(), 77)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("accepts null id", func(t *testing.T) {
		rec := do(t, newRouter(memory.New()), http.MethodPost, "/students", `{"id":null,"name":"X","course":"Y","email":"Z"}`)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, int64(1), decode[types.Student](t, rec).ID)
	})

	t.Run("empty body is 400", func(t *testing.T) {
		rec := do(t, newRouter(memory.New()), http.MethodPost, "/students", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, errEmptyBody.Error(), decode[response.Response](t, rec).Error)
	})

	t.Run("malformed body is 400", func(t *testing.T) {
		rec := do(t, newRouter(memory.New()), http.MethodPost, "/students", `{"name":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdate(t *testing.T) {
	t.Run("overwrites existing student", func(t *testing.T) {
		store := memory.New()
		_, err := seed.Load(context.Background(), store, logger.Nop())
		require.NoError(t, err)
		router := newRouter(store)

		rec := do(t, router, http.MethodPut, "/students/2", `{"name":"Jane Roe","course":"Music","email":"roe@mail.com"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, types.Student{ID: 2, Name: "Jane Roe", Course: "Music", Email: "roe@mail.com"}, decode[types.Student](t, rec))

		got := do(t, router, http.MethodGet, "/students/2", "")
		assert.JSONEq(t, `{"id":2,"name":"Jane Roe","course":"Music","email":"roe@mail.com"}`, got.Body.String())

		all, err := store.FindAll(context.Background())
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("creates missing student at path id", func(t *testing.T) {
		router := newRouter(memory.New())

		rec := do(t, router, http.MethodPut, "/students/40", `{"id":3,"name":"X","course":"Y","email":"Z"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, types.Student{ID: 40, Name: "X", Course: "Y", Email: "Z"}, decode[types.Student](t, rec))

		got := do(t, router, http.MethodGet, "/students/40", "")
		require.Equal(t, http.StatusOK, got.Code)
		assert.JSONEq(t, `{"id":40,"name":"X","course":"Y","email":"Z"}`, got.Body.String())

		missing := do(t, router, http.MethodGet, "/students/3", "")
		assert.Equal(t, http.StatusNotFound, missing.Code)
	})

	t.Run("empty body is 400", func(t *testing.T) {
		rec := do(t, newRouter(memory.New()), http.MethodPut, "/students/1", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDelete(t *testing.T) {
	store := memory.New()
	_, err := seed.Load(context.Background(), store, logger.Nop())
	require.NoError(t, err)
	router := newRouter(store)

	for i := 0; i < 2; i++ {
		rec := do(t, router, http.MethodDelete, "/students/1", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"deleted"}`, rec.Body.String())
	}

	rec := do(t, router, http.MethodDelete, "/students/1000", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	got := do(t, router, http.MethodGet, "/students/1", "")
	assert.Equal(t, http.StatusNotFound, got.Code)

	list := decode[[]types.Student](t, do(t, router, http.MethodGet, "/students", ""))
	assert.Len(t, list, 2)
}

type brokenStore struct{}

var errBroken = errors.New("connection refused")

func (brokenStore) FindAll(context.Context) ([]types.Student, error) { return nil, errBroken }
func (brokenStore) FindByID(context.Context, int64) (types.Student, bool, error) {
	return types.Student{}, false, errBroken
}
func (brokenStore) Save(context.Context, types.Student) (types.Student, error) {
	return types.Student{}, errBroken
}
func (brokenStore) DeleteByID(context.Context, int64) error { return errBroken }
func (brokenStore) Close() error                            { return nil }

func TestStorageFailuresAre500(t *testing.T) {
	router := newRouter(brokenStore{})

	tests := []struct {
		method, target, body string
	}{
		{http.MethodGet, "/students", ""},
		{http.MethodPost, "/students", `{"name":"X"}`},
		{http.MethodGet, "/students/1", ""},
		{http.MethodPut, "/students/1", `{"name":"X"}`},
		{http.MethodDelete, "/students/1", ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rec := do(t, router, tt.method, tt.target, tt.body)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			resp := decode[response.Response](t, rec)
			assert.Equal(t, response.StatusError, resp.Status)
			assert.Equal(t, errBroken.Error(), resp.Error)
		})
	}
}
