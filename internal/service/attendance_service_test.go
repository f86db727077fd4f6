package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-admin-api/internal/dto"
	"github.com/noah-isme/campus-admin-api/internal/models"
	appErrors "github.com/noah-isme/campus-admin-api/pkg/errors"
)

type fakeInvalidator struct {
	patterns []string
}

func (f *fakeInvalidator) Invalidate(ctx context.Context, pattern string) error {
	f.patterns = append(f.patterns, pattern)
	return nil
}

type fakeAttendanceRepo struct {
	sessions map[string]*models.AttendanceSession
	records  map[string]map[string]models.AttendanceRecord
	saved    [][]models.AttendanceRecord
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{sessions: map[string]*models.AttendanceSession{}, records: map[string]map[string]models.AttendanceRecord{}}
}

func (f *fakeAttendanceRepo) CreateSession(ctx context.Context, session *models.AttendanceSession) error {
	session.ID = "sess-new"
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeAttendanceRepo) FindSession(ctx context.Context, id string) (*models.AttendanceSession, error) {
	if s, ok := f.sessions[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAttendanceRepo) DeleteSession(ctx context.Context, id string) error {
	if _, ok := f.sessions[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.sessions, id)
	delete(f.records, id)
	return nil
}

func (f *fakeAttendanceRepo) ListSessions(ctx context.Context, courseID string) ([]models.SessionSummary, error) {
	return nil, nil
}

func (f *fakeAttendanceRepo) SessionRecords(ctx context.Context, sessionID string) ([]models.AttendanceRecord, error) {
	var out []models.AttendanceRecord
	for _, r := range f.records[sessionID] {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeAttendanceRepo) SaveRecords(ctx context.Context, sessionID string, records []models.AttendanceRecord) error {
	if f.records[sessionID] == nil {
		f.records[sessionID] = map[string]models.AttendanceRecord{}
	}
	for _, r := range records {
		f.records[sessionID][r.StudentID] = r
	}
	f.saved = append(f.saved, records)
	return nil
}

func newAttendanceFixture() (*AttendanceService, *fakeAttendanceRepo, *fakeInvalidator) {
	courses := newFakeCourseRepo()
	courses.courses["c1"] = &models.Course{ID: "c1", TeacherID: teacherActor.UserID}
	repo := newFakeAttendanceRepo()
	repo.sessions["s1"] = &models.AttendanceSession{ID: "s1", CourseID: "c1", Date: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)}
	roster := fakeRoster{entries: []models.RosterEntry{{UserID: studentActor.UserID, Name: "Sam"}}}
	cache := &fakeInvalidator{}
	return NewAttendanceService(repo, courses, roster, cache, nil, zap.NewNop()), repo, cache
}

func TestAttendanceCreateSessionDefaultsTitle(t *testing.T) {
	svc, _, _ := newAttendanceFixture()

	session, err := svc.CreateSession(context.Background(), teacherActor, "c1", dto.CreateSessionRequest{Date: "2024-03-05"})
	require.NoError(t, err)
	assert.Equal(t, "Class - 2024-03-05", session.Title)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), session.Date)

	session, err = svc.CreateSession(context.Background(), adminActor, "c1", dto.CreateSessionRequest{Date: "2024-03-05", Title: "Lab"})
	require.NoError(t, err)
	assert.Equal(t, "Lab", session.Title)

	_, err = svc.CreateSession(context.Background(), teacherActor, "c1", dto.CreateSessionRequest{})
	requireAppError(t, err, appErrors.ErrValidation)
	_, err = svc.CreateSession(context.Background(), teacherActor, "c1", dto.CreateSessionRequest{Date: "05/03/2024"})
	requireAppError(t, err, appErrors.ErrValidation)
	_, err = svc.CreateSession(context.Background(), studentActor, "c1", dto.CreateSessionRequest{Date: "2024-03-05"})
	requireAppError(t, err, appErrors.ErrForbidden)
}

func TestAttendanceSaveLastWriteWins(t *testing.T) {
	svc, repo, cache := newAttendanceFixture()

	result, err := svc.SaveAttendance(context.Background(), teacherActor, "s1", dto.SaveAttendanceRequest{Records: []dto.AttendanceEntry{
		{StudentID: "st-1", Status: "present"},
		{StudentID: "st-2", Status: models.AttendanceAbsent},
		{StudentID: "st-3", Status: "SLEEPING"},
		{StudentID: "st-1", Status: models.AttendanceLate, Remarks: "bus"},
	}})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Saved)
	assert.Equal(t, 1, result.Rejected)
	assert.Equal(t, []string{`Record 3: invalid status "SLEEPING"`}, result.Errors)

	assert.Equal(t, models.AttendanceLate, repo.records["s1"]["st-1"].Status)
	assert.Equal(t, "bus", repo.records["s1"]["st-1"].Remarks)
	assert.Equal(t, models.AttendanceAbsent, repo.records["s1"]["st-2"].Status)
	assert.Equal(t, []string{"reports:*"}, cache.patterns)

	_, err = svc.SaveAttendance(context.Background(), teacherActor, "s1", dto.SaveAttendanceRequest{Records: []dto.AttendanceEntry{
		{StudentID: "st-1", Status: models.AttendanceExcused},
	}})
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceExcused, repo.records["s1"]["st-1"].Status)
}

func TestAttendanceSaveRejectsEverything(t *testing.T) {
	svc, repo, cache := newAttendanceFixture()

	_, err := svc.SaveAttendance(context.Background(), teacherActor, "s1", dto.SaveAttendanceRequest{Records: []dto.AttendanceEntry{{StudentID: "st-1", Status: "nope"}}})
	requireAppError(t, err, appErrors.ErrValidation)
	assert.Empty(t, repo.saved)
	assert.Empty(t, cache.patterns)

	_, err = svc.SaveAttendance(context.Background(), teacherActor, "missing", dto.SaveAttendanceRequest{Records: []dto.AttendanceEntry{{StudentID: "st-1", Status: "PRESENT"}}})
	requireAppError(t, err, appErrors.ErrNotFound)
}

func TestAttendanceGetAndDeleteSession(t *testing.T) {
	svc, repo, _ := newAttendanceFixture()
	require.NoError(t, repo.SaveRecords(context.Background(), "s1", []models.AttendanceRecord{{StudentID: studentActor.UserID, Status: models.AttendancePresent}}))

	detail, err := svc.GetSession(context.Background(), teacherActor, "s1")
	require.NoError(t, err)
	assert.Len(t, detail.Records, 1)
	require.Len(t, detail.Roster, 1)
	assert.Equal(t, "Sam", detail.Roster[0].Name)

	other := models.Actor{UserID: "teacher-9", Role: models.RoleTeacher}
	err = svc.DeleteSession(context.Background(), other, "s1")
	requireAppError(t, err, appErrors.ErrForbidden)

	require.NoError(t, svc.DeleteSession(context.Background(), teacherActor, "s1"))
	assert.Empty(t, repo.records["s1"])
	_, err = svc.GetSession(context.Background(), teacherActor, "s1")
	requireAppError(t, err, appErrors.ErrNotFound)

	sessions, err := svc.ListSessions(context.Background(), teacherActor, "c1")
	require.NoError(t, err)
	assert.NotNil(t, sessions)
}
