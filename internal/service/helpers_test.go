package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-admin-api/internal/models"
	appErrors "github.com/noah-isme/campus-admin-api/pkg/errors"
)

var (
	adminActor   = models.Actor{UserID: "admin-1", Username: "admin", Role: models.RoleAdmin}
	teacherActor = models.Actor{UserID: "teacher-1", Username: "teacher", Role: models.RoleTeacher}
	studentActor = models.Actor{UserID: "student-1", Username: "student", Role: models.RoleStudent}
	managerActor = models.Actor{UserID: "manager-1", Username: "manager", Role: models.RoleClassManager}
)

func requireAppError(t *testing.T, err error, expected *appErrors.Error) *appErrors.Error {
	t.Helper()
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.Equal(t, expected.Code, appErr.Code, "unexpected error: %v", err)
	return appErr
}

func strPtr(v string) *string { return &v }
