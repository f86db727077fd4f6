package service

import (
	"context"
	"database/sql"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-admin-api/internal/dto"
	"github.com/noah-isme/campus-admin-api/internal/models"
	appErrors "github.com/noah-isme/campus-admin-api/pkg/errors"
)

type fakeObjectStore struct {
	keys []string
	body []string
}

func (f *fakeObjectStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.keys = append(f.keys, key)
	f.body = append(f.body, string(data))
	return "https://files.test/" + key, nil
}

type fakeAssignmentRepo struct {
	assignments map[string]*models.Assignment
	submissions map[string]*models.Submission
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: map[string]*models.Assignment{}, submissions: map[string]*models.Submission{}}
}

func (f *fakeAssignmentRepo) Create(ctx context.Context, a *models.Assignment) error {
	a.ID = "asg-new"
	f.assignments[a.ID] = a
	return nil
}

func (f *fakeAssignmentRepo) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	if a, ok := f.assignments[id]; ok {
		return a, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAssignmentRepo) Delete(ctx context.Context, id string) error {
	delete(f.assignments, id)
	return nil
}

func (f *fakeAssignmentRepo) ListByCourse(ctx context.Context, courseID string) ([]models.Assignment, error) {
	var out []models.Assignment
	for _, a := range f.assignments {
		if a.CourseID == courseID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAssignmentRepo) UpsertSubmission(ctx context.Context, s *models.Submission) error {
	for _, existing := range f.submissions {
		if existing.AssignmentID == s.AssignmentID && existing.StudentID == s.StudentID {
			s.ID = existing.ID
		}
	}
	if s.ID == "" {
		s.ID = "sub-" + s.StudentID
	}
	s.Grade, s.Feedback, s.GradedAt = nil, nil, nil
	s.SubmittedAt = time.Now()
	stored := *s
	f.submissions[s.ID] = &stored
	return nil
}

func (f *fakeAssignmentRepo) FindSubmission(ctx context.Context, id string) (*models.Submission, error) {
	if s, ok := f.submissions[id]; ok {
		stored := *s
		return &stored, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAssignmentRepo) GradeSubmission(ctx context.Context, id string, grade float64, feedback *string) (*models.Submission, error) {
	s, ok := f.submissions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	now := time.Now()
	s.Grade, s.Feedback, s.GradedAt = &grade, feedback, &now
	stored := *s
	return &stored, nil
}

func (f *fakeAssignmentRepo) SubmissionsByCourse(ctx context.Context, courseID string) ([]models.Submission, error) {
	var out []models.Submission
	for _, s := range f.submissions {
		if a, ok := f.assignments[s.AssignmentID]; ok && a.CourseID == courseID {
			out = append(out, *s)
		}
	}
	return out, nil
}

type fakeRoster struct {
	entries []models.RosterEntry
}

func (f fakeRoster) Roster(ctx context.Context, courseID string) ([]models.RosterEntry, error) {
	return f.entries, nil
}

func (f fakeRoster) OnRoster(ctx context.Context, courseID, userID string) (bool, error) {
	for _, e := range f.entries {
		if e.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

type sentNotification struct {
	users   []string
	title   string
	message string
	link    string
}

type fakeNotifier struct {
	sent []sentNotification
}

func (f *fakeNotifier) Notify(ctx context.Context, userID, title, message string, link *string) {
	f.NotifyMany(ctx, []string{userID}, title, message, link)
}

func (f *fakeNotifier) NotifyMany(ctx context.Context, userIDs []string, title, message string, link *string) {
	f.sent = append(f.sent, sentNotification{users: userIDs, title: title, message: message, link: derefString(link)})
}

type assignmentFixture struct {
	svc      *AssignmentService
	repo     *fakeAssignmentRepo
	store    *fakeObjectStore
	notifier *fakeNotifier
}

func newAssignmentFixture() assignmentFixture {
	courses := newFakeCourseRepo()
	courses.courses["c1"] = &models.Course{ID: "c1", Title: "Algorithms", TeacherID: teacherActor.UserID}
	repo := newFakeAssignmentRepo()
	store := &fakeObjectStore{}
	notifier := &fakeNotifier{}
	roster := fakeRoster{entries: []models.RosterEntry{
		{UserID: studentActor.UserID, Name: "Sam", Source: models.RosterSourceSection},
		{UserID: "student-2", Name: "Zoe", Source: models.RosterSourceEnrollment},
	}}
	svc := NewAssignmentService(repo, courses, roster, notifier, store, 1024, nil, zap.NewNop())
	svc.files.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return assignmentFixture{svc: svc, repo: repo, store: store, notifier: notifier}
}

func TestAssignmentCreateNotifiesRoster(t *testing.T) {
	fx := newAssignmentFixture()

	assignment, err := fx.svc.Create(context.Background(), teacherActor, "c1", dto.CreateAssignmentRequest{Title: "Sorting"})
	require.NoError(t, err)
	assert.Equal(t, 100, assignment.MaxScore)
	assert.Equal(t, models.SubmissionBoth, assignment.SubmissionType)

	require.Len(t, fx.notifier.sent, 1)
	sent := fx.notifier.sent[0]
	assert.ElementsMatch(t, []string{studentActor.UserID, "student-2"}, sent.users)
	assert.Equal(t, "New Assignment", sent.title)
	assert.Equal(t, `New assignment "Sorting" added in Algorithms`, sent.message)
	assert.Equal(t, "/dashboard/courses/c1", sent.link)
}

func TestAssignmentCreateValidation(t *testing.T) {
	fx := newAssignmentFixture()

	_, err := fx.svc.Create(context.Background(), teacherActor, "c1", dto.CreateAssignmentRequest{Title: "X", SubmissionType: "VIDEO"})
	requireAppError(t, err, appErrors.ErrValidation)

	other := models.Actor{UserID: "teacher-2", Role: models.RoleTeacher}
	_, err = fx.svc.Create(context.Background(), other, "c1", dto.CreateAssignmentRequest{Title: "X"})
	requireAppError(t, err, appErrors.ErrForbidden)
}

func TestAssignmentSubmitEnforcesType(t *testing.T) {
	fx := newAssignmentFixture()
	ctx := context.Background()
	fx.repo.assignments["text"] = &models.Assignment{ID: "text", CourseID: "c1", MaxScore: 10, SubmissionType: models.SubmissionOnlineText}
	fx.repo.assignments["file"] = &models.Assignment{ID: "file", CourseID: "c1", MaxScore: 10, SubmissionType: models.SubmissionFileUpload}
	fx.repo.assignments["none"] = &models.Assignment{ID: "none", CourseID: "c1", MaxScore: 10, SubmissionType: models.SubmissionNone}
	fx.repo.assignments["both"] = &models.Assignment{ID: "both", CourseID: "c1", MaxScore: 10, SubmissionType: models.SubmissionBoth}

	_, err := fx.svc.Submit(ctx, studentActor, "text", dto.SubmitAssignmentRequest{}, nil)
	requireAppError(t, err, appErrors.ErrValidation)
	_, err = fx.svc.Submit(ctx, studentActor, "file", dto.SubmitAssignmentRequest{Content: "hi"}, nil)
	requireAppError(t, err, appErrors.ErrValidation)
	_, err = fx.svc.Submit(ctx, studentActor, "none", dto.SubmitAssignmentRequest{Content: "hi"}, nil)
	requireAppError(t, err, appErrors.ErrValidation)
	_, err = fx.svc.Submit(ctx, studentActor, "both", dto.SubmitAssignmentRequest{}, nil)
	requireAppError(t, err, appErrors.ErrValidation)

	outsider := models.Actor{UserID: "stranger", Role: models.RoleStudent}
	_, err = fx.svc.Submit(ctx, outsider, "both", dto.SubmitAssignmentRequest{Content: "hi"}, nil)
	requireAppError(t, err, appErrors.ErrForbidden)

	file := &dto.FileUpload{Name: "my essay.pdf", Size: 5, Reader: strings.NewReader("hello")}
	submission, err := fx.svc.Submit(ctx, studentActor, "file", dto.SubmitAssignmentRequest{}, file)
	require.NoError(t, err)
	require.Len(t, fx.store.keys, 1)
	assert.Equal(t, "submissions/file/student-1-1700000000000-my_essay.pdf", fx.store.keys[0])
	assert.Equal(t, "https://files.test/"+fx.store.keys[0], *submission.FileURL)

	tooBig := &dto.FileUpload{Name: "big.bin", Size: 4096, Reader: strings.NewReader("x")}
	_, err = fx.svc.Submit(ctx, studentActor, "file", dto.SubmitAssignmentRequest{}, tooBig)
	requireAppError(t, err, appErrors.ErrPayloadTooLarge)
}

func TestAssignmentGradeAndResubmitClearsGrade(t *testing.T) {
	fx := newAssignmentFixture()
	ctx := context.Background()
	fx.repo.assignments["a1"] = &models.Assignment{ID: "a1", CourseID: "c1", Title: "Essay", MaxScore: 20, SubmissionType: models.SubmissionOnlineText}

	submission, err := fx.svc.Submit(ctx, studentActor, "a1", dto.SubmitAssignmentRequest{Content: "v1"}, nil)
	require.NoError(t, err)

	over := 21.0
	_, err = fx.svc.Grade(ctx, teacherActor, submission.ID, dto.GradeSubmissionRequest{Grade: &over})
	requireAppError(t, err, appErrors.ErrValidation)

	grade := 17.5
	graded, err := fx.svc.Grade(ctx, teacherActor, submission.ID, dto.GradeSubmissionRequest{Grade: &grade, Feedback: "good"})
	require.NoError(t, err)
	assert.Equal(t, 17.5, *graded.Grade)
	assert.Equal(t, "good", *graded.Feedback)

	require.Len(t, fx.notifier.sent, 1)
	assert.Equal(t, "Assignment Graded", fx.notifier.sent[0].title)
	assert.Equal(t, `Your submission for "Essay" has been graded: 17.5/20`, fx.notifier.sent[0].message)
	assert.Equal(t, []string{studentActor.UserID}, fx.notifier.sent[0].users)

	resubmitted, err := fx.svc.Submit(ctx, studentActor, "a1", dto.SubmitAssignmentRequest{Content: "v2"}, nil)
	require.NoError(t, err)
	assert.Equal(t, submission.ID, resubmitted.ID)
	assert.Nil(t, fx.repo.submissions[submission.ID].Grade)
	assert.Nil(t, fx.repo.submissions[submission.ID].Feedback)
}

func TestAssignmentGradebook(t *testing.T) {
	fx := newAssignmentFixture()
	fx.repo.assignments["a1"] = &models.Assignment{ID: "a1", CourseID: "c1", MaxScore: 10}
	grade := 8.0
	fx.repo.submissions["s1"] = &models.Submission{ID: "s1", AssignmentID: "a1", StudentID: studentActor.UserID, Grade: &grade}

	book, err := fx.svc.Gradebook(context.Background(), teacherActor, "c1")
	require.NoError(t, err)
	require.Len(t, book.Rows, 2)
	assert.True(t, book.Rows[0].Cells[0].Submitted)
	assert.Equal(t, 8.0, *book.Rows[0].Cells[0].Grade)
	assert.False(t, book.Rows[1].Cells[0].Submitted)
	assert.Nil(t, book.Rows[1].Cells[0].Grade)

	_, err = fx.svc.Gradebook(context.Background(), studentActor, "c1")
	requireAppError(t, err, appErrors.ErrForbidden)
}
