package spreadsheet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteThenReadNamedSheet(t *testing.T) {
	data, err := Write(
		Sheet{Name: "Students", Header: []string{"Full Name", "Username"}, Rows: [][]string{{"Jane Doe", "jane.doe"}}, ColWidth: 20},
		Sheet{Name: "Reference Data", Header: []string{"College"}, Rows: [][]string{{"Engineering"}}},
	)
	require.NoError(t, err)

	rows, err := ReadRows(bytes.NewReader(data), "students")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Full Name", "Username"}, rows[0])
	assert.Equal(t, "jane.doe", rows[1][1])

	ref, err := ReadRows(bytes.NewReader(data), "Reference Data")
	require.NoError(t, err)
	assert.Equal(t, "Engineering", ref[1][0])
}

func TestReadRowsFallsBackToFirstSheet(t *testing.T) {
	data, err := Write(Sheet{Name: "Sheet A", Header: []string{"x"}})
	require.NoError(t, err)

	rows, err := ReadRows(bytes.NewReader(data), "Students")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"x"}}, rows)
}

func TestReadRowsRejectsGarbage(t *testing.T) {
	_, err := ReadRows(bytes.NewReader([]byte("not a zip")), "Students")
	require.Error(t, err)
}

func TestCell(t *testing.T) {
	row := []string{" a ", "b"}
	assert.Equal(t, "a", Cell(row, 0))
	assert.Equal(t, "", Cell(row, 5))
}
