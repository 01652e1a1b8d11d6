// Package student contains all HTTP handlers for the Student resource.
//
// Every handler is built by a factory that receives the storage and returns
// an http.HandlerFunc closing over it:
//
//	mux.HandleFunc("GET /students/{id}", student.GetByID(storage))
//
// The factory runs once at startup; the returned func runs on every request.
package student

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/campusdev/student-registry/internal/storage"
	"github.com/campusdev/student-registry/internal/types"
	"github.com/campusdev/student-registry/internal/utils/response"
)

var (
	errInvalidID = errors.New("invalid id: must be an integer")
	errEmptyBody = errors.New("request body is empty")
)

// RegisterRoutes binds every Student handler on mux.
//
//	GET    /students        → list all students
//	POST   /students        → create a student
//	GET    /students/{id}   → get one student (404 when missing)
//	PUT    /students/{id}   → replace or create the student at id
//	DELETE /students/{id}   → delete a student
func RegisterRoutes(mux *http.ServeMux, storage storage.Storage) {
	routes := []struct {
		pattern string
		handler http.HandlerFunc
	}{
		{"GET /students", GetList(storage)},
		{"POST /students", New(storage)},
		{"GET /students/{id}", GetByID(storage)},
		{"PUT /students/{id}", Update(storage)},
		{"DELETE /students/{id}", Delete(storage)},
	}

	for _, route := range routes {
		mux.HandleFunc(route.pattern, route.handler)
	}
}

// New handles POST /students.
//
// Request body:
//
//	{ "name": "John Doe", "course": "Enginering", "email": "john@mail.com.ar" }
//
// Responds 201 Created with the stored student, including its new id.
// Any id in the body is ignored.
func New(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		student, ok := decodeStudent(w, r)
		if !ok {
			return
		}
		student.ID = 0

		created, err := storage.Save(r.Context(), student)
		if err != nil {
			slog.Error("error creating student", slog.String("error", err.Error()))
			response.WriteError(w, err)
			return
		}

		slog.Info("student created", slog.Int64("id", created.ID))
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// GetByID handles GET /students/{id}.
//
// Responds 200 with the student, or 404 with the plain-text body
// "Could not find student with id {id}".
func GetByID(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("getting a student", slog.Int64("id", id))

		student, found, err := storage.FindByID(r.Context(), id)
		if err != nil {
			slog.Error("error getting student",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			response.WriteError(w, err)
			return
		}
		if !found {
			response.WriteError(w, &types.StudentNotFoundError{ID: id})
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// GetList handles GET /students.
// Returns an empty array [] (not null) when there are no students.
func GetList(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")

		students, err := storage.FindAll(r.Context())
		if err != nil {
			slog.Error("error getting students", slog.String("error", err.Error()))
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// Update handles PUT /students/{id}.
//
// When the student exists its name, course and email are overwritten.
// Otherwise the body is stored as a new student under the path id. Either
// way the response is 200 with the stored record.
func Update(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("updating a student", slog.Int64("id", id))

		incoming, ok := decodeStudent(w, r)
		if !ok {
			return
		}

		student, found, err := storage.FindByID(r.Context(), id)
		if err != nil {
			slog.Error("error updating student",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			response.WriteError(w, err)
			return
		}

		if found {
			student.Name = incoming.Name
			student.Course = incoming.Course
			student.Email = incoming.Email
		} else {
			student = incoming
			student.ID = id
		}

		saved, err := storage.Save(r.Context(), student)
		if err != nil {
			slog.Error("error updating student",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			response.WriteError(w, err)
			return
		}

		slog.Info("student saved", slog.Int64("id", saved.ID), slog.Bool("created", !found))
		response.WriteJSON(w, http.StatusOK, saved)
	}
}

// Delete handles DELETE /students/{id}.
// Responds 200 {"status":"deleted"} whether or not the student existed.
func Delete(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("deleting a student", slog.Int64("id", id))

		if err := storage.DeleteByID(r.Context(), id); err != nil {
			slog.Error("error deleting student",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			response.WriteError(w, err)
			return
		}

		slog.Info("student deleted", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, response.Response{Status: response.StatusDeleted})
	}
}

// pathID parses the {id} path segment, writing a 400 when it is not an
// integer.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errInvalidID))
		return 0, false
	}
	return id, true
}

// decodeStudent reads a Student from the JSON body, writing a 400 on an
// empty or malformed body.
func decodeStudent(w http.ResponseWriter, r *http.Request) (types.Student, bool) {
	var student types.Student

	err := json.NewDecoder(r.Body).Decode(&student)
	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errEmptyBody))
		return types.Student{}, false
	}
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return types.Student{}, false
	}

	return student, true
}
