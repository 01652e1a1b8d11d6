package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/campusdev/student-registry/internal/types"
)

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	students := []types.Student{
		{ID: 1, Name: "John Doe", Course: "Enginering", Email: "john@mail.com.ar"},
		{ID: 3, Name: "Peter Dilan", Course: "History", Email: "dilan@mail.com.ar"},
	}

	require.NoError(t, WriteXLSX(&buf, students))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"ID", "Name", "Course", "Email"},
		{"1", "John Doe", "Enginering", "john@mail.com.ar"},
		{"3", "Peter Dilan", "History", "dilan@mail.com.ar"},
	}, rows)
}

func TestWriteXLSXEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
