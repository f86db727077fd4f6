package service

import (
	"database/sql"
	"errors"

	"github.com/noah-isme/campus-admin-api/internal/models"
	appErrors "github.com/noah-isme/campus-admin-api/pkg/errors"
)

// authorize is the single capability gate used by every service operation.
func authorize(actor models.Actor, roles ...models.UserRole) error {
	if actor.IsZero() {
		return appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}
	if !models.RoleAllowed(actor.Role, roles...) {
		return appErrors.Clone(appErrors.ErrForbidden, "insufficient permissions")
	}
	return nil
}

// ownsCourse lets an ADMIN through and a TEACHER only for their own course.
func ownsCourse(actor models.Actor, course *models.Course) error {
	if err := authorize(actor, models.RolesStaff...); err != nil {
		return err
	}
	if actor.Role == models.RoleAdmin || course.TeacherID == actor.UserID {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden, "you do not teach this course")
}

// repoError maps sql.ErrNoRows to a not-found error and anything else to an internal error.
func repoError(err error, notFound, failed string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return appErrors.Internal(err, failed)
}
