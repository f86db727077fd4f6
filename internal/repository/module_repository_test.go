package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-admin-api/internal/models"
)

func TestModuleCreateWithAttachments(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewModuleRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO modules")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO attachments")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	detail, err := repo.Create(context.Background(), &models.Module{CourseID: "c-1", Title: "Week 1"},
		[]models.Attachment{{Name: "slides.pdf", URL: "/files/token"}})
	require.NoError(t, err)
	require.Len(t, detail.Attachments, 1)
	assert.Equal(t, detail.ID, detail.Attachments[0].ModuleID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestModuleListByCourseGroupsAttachments(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewModuleRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM modules WHERE course_id = $1 ORDER BY created_at")).
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "course_id", "title", "content", "created_at"}).
			AddRow("m-1", "c-1", "Week 1", "", now).
			AddRow("m-2", "c-1", "Week 2", "", now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM attachments a")).
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "module_id", "name", "url", "created_at"}).
			AddRow("a-1", "m-2", "lab.zip", "/files/x", now))

	modules, err := repo.ListByCourse(context.Background(), "c-1")
	require.NoError(t, err)
	require.Len(t, modules, 2)
	assert.Empty(t, modules[0].Attachments)
	assert.Len(t, modules[1].Attachments, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}
