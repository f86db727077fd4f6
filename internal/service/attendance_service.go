package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-admin-api/internal/dto"
	"github.com/noah-isme/campus-admin-api/internal/models"
	appErrors "github.com/noah-isme/campus-admin-api/pkg/errors"
)

const (
	dateLayout          = "2006-01-02"
	reportsCachePattern = "reports:*"
)

type attendanceRepository interface {
	CreateSession(ctx context.Context, session *models.AttendanceSession) error
	FindSession(ctx context.Context, id string) (*models.AttendanceSession, error)
	DeleteSession(ctx context.Context, id string) error
	ListSessions(ctx context.Context, courseID string) ([]models.SessionSummary, error)
	SessionRecords(ctx context.Context, sessionID string) ([]models.AttendanceRecord, error)
	SaveRecords(ctx context.Context, sessionID string, records []models.AttendanceRecord) error
}

type cacheInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

// AttendanceService records student attendance per class session.
type AttendanceService struct {
	repo      attendanceRepository
	courses   courseFinder
	roster    rosterReader
	cache     cacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(repo attendanceRepository, courses courseFinder, roster rosterReader, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, courses: courses, roster: roster, cache: cache, validator: validate, logger: logger}
}

func parseDay(raw string) (time.Time, error) {
	day, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, appErrors.Validation(err, "date must be formatted as YYYY-MM-DD")
	}
	return models.CalendarDay(day), nil
}

func invalidateReports(ctx context.Context, cache cacheInvalidator, logger *zap.Logger) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, reportsCachePattern); err != nil {
		logger.Warn("failed to invalidate report cache", zap.Error(err))
	}
}

// CreateSession opens a session for a course on the given day.
func (s *AttendanceService) CreateSession(ctx context.Context, actor models.Actor, courseID string, req dto.CreateSessionRequest) (*models.AttendanceSession, error) {
	if _, err := ownedCourse(ctx, s.courses, actor, courseID); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "date is required")
	}
	day, err := parseDay(req.Date)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Class - " + day.Format(dateLayout)
	}

	session := &models.AttendanceSession{CourseID: courseID, Date: day, Title: title}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, appErrors.Internal(err, "failed to create session")
	}
	return session, nil
}

func (s *AttendanceService) ownedSession(ctx context.Context, actor models.Actor, sessionID string) (*models.AttendanceSession, error) {
	if err := authorize(actor, models.RolesStaff...); err != nil {
		return nil, err
	}
	session, err := s.repo.FindSession(ctx, sessionID)
	if err != nil {
		return nil, repoError(err, "session not found", "failed to load session")
	}
	if _, err := ownedCourse(ctx, s.courses, actor, session.CourseID); err != nil {
		return nil, err
	}
	return session, nil
}

// SaveAttendance upserts records for a session. Rows with an unknown status are rejected and
// reported; when a student appears twice the later row wins.
func (s *AttendanceService) SaveAttendance(ctx context.Context, actor models.Actor, sessionID string, req dto.SaveAttendanceRequest) (*dto.SaveAttendanceResult, error) {
	if _, err := s.ownedSession(ctx, actor, sessionID); err != nil {
		return nil, err
	}
	if len(req.Records) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "records are required")
	}

	var rowErrors []string
	position := make(map[string]int, len(req.Records))
	records := make([]models.AttendanceRecord, 0, len(req.Records))
	for i, entry := range req.Records {
		studentID := strings.TrimSpace(entry.StudentID)
		status := models.AttendanceStatus(strings.ToUpper(strings.TrimSpace(string(entry.Status))))
		switch {
		case studentID == "":
			rowErrors = append(rowErrors, fmt.Sprintf("Record %d: studentId is required", i+1))
			continue
		case !status.Valid():
			rowErrors = append(rowErrors, fmt.Sprintf("Record %d: invalid status %q", i+1, entry.Status))
			continue
		}
		record := models.AttendanceRecord{SessionID: sessionID, StudentID: studentID, Status: status, Remarks: strings.TrimSpace(entry.Remarks)}
		if idx, seen := position[studentID]; seen {
			records[idx] = record
			continue
		}
		position[studentID] = len(records)
		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no valid attendance records")
	}
	if err := s.repo.SaveRecords(ctx, sessionID, records); err != nil {
		return nil, appErrors.Internal(err, "failed to save attendance")
	}
	invalidateReports(ctx, s.cache, s.logger)

	shown, more := capErrors(rowErrors)
	return &dto.SaveAttendanceResult{Saved: len(records), Rejected: len(rowErrors), Errors: shown, MoreErrors: more}, nil
}

// DeleteSession removes a session together with its records.
func (s *AttendanceService) DeleteSession(ctx context.Context, actor models.Actor, sessionID string) error {
	if _, err := s.ownedSession(ctx, actor, sessionID); err != nil {
		return err
	}
	if err := s.repo.DeleteSession(ctx, sessionID); err != nil {
		return repoError(err, "session not found", "failed to delete session")
	}
	invalidateReports(ctx, s.cache, s.logger)
	return nil
}

// ListSessions returns a course's sessions with per-status counts.
func (s *AttendanceService) ListSessions(ctx context.Context, actor models.Actor, courseID string) ([]models.SessionSummary, error) {
	if _, err := ownedCourse(ctx, s.courses, actor, courseID); err != nil {
		return nil, err
	}
	sessions, err := s.repo.ListSessions(ctx, courseID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list sessions")
	}
	if sessions == nil {
		sessions = []models.SessionSummary{}
	}
	return sessions, nil
}

// GetSession returns a session with its records and the course roster.
func (s *AttendanceService) GetSession(ctx context.Context, actor models.Actor, sessionID string) (*models.SessionDetail, error) {
	session, err := s.ownedSession(ctx, actor, sessionID)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.SessionRecords(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load attendance records")
	}
	roster, err := s.roster.Roster(ctx, session.CourseID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load roster")
	}
	if records == nil {
		records = []models.AttendanceRecord{}
	}
	if roster == nil {
		roster = []models.RosterEntry{}
	}
	return &models.SessionDetail{AttendanceSession: *session, Records: records, Roster: roster}, nil
}
