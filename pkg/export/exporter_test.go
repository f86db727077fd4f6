package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterEscapesCommasAndQuotes(t *testing.T) {
	data := Dataset{
		Headers: []string{"Student", "Notes"},
		Rows: []map[string]string{
			{"Student": "Jane", "Notes": `He said, "hi"`},
			{"Student": "Plain", "Notes": "ok"},
		},
	}
	out, err := NewCSVExporter().Render(data, "")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Student,Notes", lines[0])
	assert.Equal(t, `Jane,"He said, ""hi"""`, lines[1])
	assert.Equal(t, "Plain,ok", lines[2])
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{}, "")
	require.Error(t, err)
}

func TestFromRecordsDerivesSortedHeaders(t *testing.T) {
	data := FromRecords(nil, []map[string]string{{"b": "2", "a": "1"}})
	assert.Equal(t, []string{"a", "b"}, data.Headers)

	explicit := FromRecords([]string{"b"}, nil)
	assert.Equal(t, []string{"b"}, explicit.Headers)
}

func TestPDFExporterRendersDocument(t *testing.T) {
	data := Dataset{
		Headers: []string{"Course Title", "Course Code", "Teacher", "Department", "Semester", "Enrollments"},
		Rows:    []map[string]string{{"Course Title": "Algorithms", "Enrollments": "42"}},
	}
	out, err := NewPDFExporter().Render(data, "Course Enrollment")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 40))
	assert.Equal(t, "abcdefg...", truncate(strings.Repeat("abcdefghij", 3), 16))
}
