package errors

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	typed := Clone(ErrCourseFull, "")
	wrapped := fmt.Errorf("enroll: %w", typed)

	got := FromError(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, "COURSE_FULL", got.Code)
	assert.Equal(t, http.StatusConflict, got.Status)
}

func TestFromErrorHidesUntypedCause(t *testing.T) {
	got := FromError(sql.ErrConnDone)
	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.Equal(t, ErrInternal.Message, got.Message)
	assert.ErrorIs(t, got, sql.ErrConnDone)
}

func TestClonedErrorsMatchByCode(t *testing.T) {
	clone := Clone(ErrNotFound, "course not found")
	assert.True(t, errors.Is(clone, ErrNotFound))
	assert.False(t, errors.Is(clone, ErrForbidden))
	assert.Equal(t, "resource not found", ErrNotFound.Message)
}

func TestInternalWrapsWithGenericMessage(t *testing.T) {
	err := Internal(errors.New("pq: relation does not exist"), "failed to load course")
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Equal(t, "failed to load course", err.Message)
}
