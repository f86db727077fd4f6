package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-admin-api/internal/dto"
	"github.com/noah-isme/campus-admin-api/internal/models"
	appErrors "github.com/noah-isme/campus-admin-api/pkg/errors"
	"github.com/noah-isme/campus-admin-api/pkg/storage"
)

type assignmentRepository interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	FindByID(ctx context.Context, id string) (*models.Assignment, error)
	Delete(ctx context.Context, id string) error
	ListByCourse(ctx context.Context, courseID string) ([]models.Assignment, error)
	UpsertSubmission(ctx context.Context, submission *models.Submission) error
	FindSubmission(ctx context.Context, id string) (*models.Submission, error)
	GradeSubmission(ctx context.Context, id string, grade float64, feedback *string) (*models.Submission, error)
	SubmissionsByCourse(ctx context.Context, courseID string) ([]models.Submission, error)
}

type rosterReader interface {
	Roster(ctx context.Context, courseID string) ([]models.RosterEntry, error)
	OnRoster(ctx context.Context, courseID, userID string) (bool, error)
}

type notifier interface {
	Notify(ctx context.Context, userID, title, message string, link *string)
	NotifyMany(ctx context.Context, userIDs []string, title, message string, link *string)
}

// AssignmentService handles assignments, submissions, grading and the gradebook.
type AssignmentService struct {
	repo      assignmentRepository
	courses   courseFinder
	roster    rosterReader
	notifier  notifier
	files     uploader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssignmentService constructs the assignment service.
func NewAssignmentService(repo assignmentRepository, courses courseFinder, roster rosterReader, notifier notifier, store storage.ObjectStore, maxUpload int64, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AssignmentService{
		repo:      repo,
		courses:   courses,
		roster:    roster,
		notifier:  notifier,
		files:     uploader{store: store, maxBytes: maxUpload, now: time.Now},
		validator: validate,
		logger:    logger,
	}
}

func courseLink(courseID string) *string {
	link := "/dashboard/courses/" + courseID
	return &link
}

// Create adds an assignment and notifies the course roster.
func (s *AssignmentService) Create(ctx context.Context, actor models.Actor, courseID string, req dto.CreateAssignmentRequest) (*models.Assignment, error) {
	course, err := ownedCourse(ctx, s.courses, actor, courseID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid assignment payload")
	}
	submissionType := req.SubmissionType
	if submissionType == "" {
		submissionType = models.SubmissionBoth
	}
	if !submissionType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid submission type")
	}
	maxScore := models.DefaultMaxScore
	if req.MaxScore != nil {
		maxScore = *req.MaxScore
	}

	assignment := &models.Assignment{
		CourseID:       courseID,
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		DueDate:        req.DueDate,
		MaxScore:       maxScore,
		SubmissionType: submissionType,
	}
	if err := s.repo.Create(ctx, assignment); err != nil {
		return nil, appErrors.Internal(err, "failed to create assignment")
	}

	s.notifyRoster(ctx, course, assignment)
	return assignment, nil
}

func (s *AssignmentService) notifyRoster(ctx context.Context, course *models.Course, assignment *models.Assignment) {
	if s.notifier == nil || s.roster == nil {
		return
	}
	roster, err := s.roster.Roster(ctx, course.ID)
	if err != nil {
		s.logger.Warn("failed to load roster for notifications", zap.String("course_id", course.ID), zap.Error(err))
		return
	}
	ids := make([]string, 0, len(roster))
	for _, entry := range roster {
		ids = append(ids, entry.UserID)
	}
	message := fmt.Sprintf("New assignment %q added in %s", assignment.Title, course.Title)
	s.notifier.NotifyMany(ctx, ids, "New Assignment", message, courseLink(course.ID))
}

// Delete removes an assignment and its submissions.
func (s *AssignmentService) Delete(ctx context.Context, actor models.Actor, id string) error {
	if err := authorize(actor, models.RolesStaff...); err != nil {
		return err
	}
	assignment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return repoError(err, "assignment not found", "failed to load assignment")
	}
	if _, err := ownedCourse(ctx, s.courses, actor, assignment.CourseID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return repoError(err, "assignment not found", "failed to delete assignment")
	}
	return nil
}

// Submit records the caller's submission, replacing an earlier one and clearing its grade.
func (s *AssignmentService) Submit(ctx context.Context, actor models.Actor, assignmentID string, req dto.SubmitAssignmentRequest, file *dto.FileUpload) (*models.Submission, error) {
	if err := authorize(actor, models.RoleStudent); err != nil {
		return nil, err
	}
	assignment, err := s.repo.FindByID(ctx, assignmentID)
	if err != nil {
		return nil, repoError(err, "assignment not found", "failed to load assignment")
	}
	onRoster, err := s.roster.OnRoster(ctx, assignment.CourseID, actor.UserID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check enrollment")
	}
	if !onRoster {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you are not enrolled in this course")
	}

	content := strings.TrimSpace(req.Content)
	hasFile := file != nil && file.Reader != nil
	switch assignment.SubmissionType {
	case models.SubmissionNone:
		return nil, appErrors.Clone(appErrors.ErrValidation, "this assignment does not accept submissions")
	case models.SubmissionOnlineText:
		if content == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "text content is required")
		}
	case models.SubmissionFileUpload:
		if !hasFile {
			return nil, appErrors.Clone(appErrors.ErrValidation, "a file is required")
		}
	default:
		if content == "" && !hasFile {
			return nil, appErrors.Clone(appErrors.ErrValidation, "provide text content or a file")
		}
	}

	submission := &models.Submission{AssignmentID: assignmentID, StudentID: actor.UserID}
	if content != "" {
		submission.Content = &content
	}
	if hasFile {
		url, err := s.files.put(ctx, fmt.Sprintf("submissions/%s/%s-", assignmentID, actor.UserID), *file)
		if err != nil {
			return nil, err
		}
		submission.FileURL = &url
	}

	if err := s.repo.UpsertSubmission(ctx, submission); err != nil {
		return nil, appErrors.Internal(err, "failed to save submission")
	}
	return submission, nil
}

// Grade scores a submission within 0..maxScore and notifies the student.
func (s *AssignmentService) Grade(ctx context.Context, actor models.Actor, submissionID string, req dto.GradeSubmissionRequest) (*models.Submission, error) {
	if err := authorize(actor, models.RolesStaff...); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid grade payload")
	}
	submission, err := s.repo.FindSubmission(ctx, submissionID)
	if err != nil {
		return nil, repoError(err, "submission not found", "failed to load submission")
	}
	assignment, err := s.repo.FindByID(ctx, submission.AssignmentID)
	if err != nil {
		return nil, repoError(err, "assignment not found", "failed to load assignment")
	}
	if _, err := ownedCourse(ctx, s.courses, actor, assignment.CourseID); err != nil {
		return nil, err
	}

	grade := *req.Grade
	if grade < 0 || grade > float64(assignment.MaxScore) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("grade must be between 0 and %d", assignment.MaxScore))
	}
	graded, err := s.repo.GradeSubmission(ctx, submissionID, grade, nonEmpty(&req.Feedback))
	if err != nil {
		return nil, repoError(err, "submission not found", "failed to grade submission")
	}

	if s.notifier != nil {
		message := fmt.Sprintf("Your submission for %q has been graded: %s/%d",
			assignment.Title, strconv.FormatFloat(grade, 'f', -1, 64), assignment.MaxScore)
		s.notifier.Notify(ctx, submission.StudentID, "Assignment Graded", message, courseLink(assignment.CourseID))
	}
	return graded, nil
}

// Gradebook builds the roster by assignment matrix for a course.
func (s *AssignmentService) Gradebook(ctx context.Context, actor models.Actor, courseID string) (*models.Gradebook, error) {
	if _, err := ownedCourse(ctx, s.courses, actor, courseID); err != nil {
		return nil, err
	}
	assignments, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load assignments")
	}
	roster, err := s.roster.Roster(ctx, courseID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load roster")
	}
	submissions, err := s.repo.SubmissionsByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load submissions")
	}
	return BuildGradebook(courseID, assignments, roster, submissions), nil
}

// BuildGradebook lays submissions onto a roster × assignments grid.
func BuildGradebook(courseID string, assignments []models.Assignment, roster []models.RosterEntry, submissions []models.Submission) *models.Gradebook {
	type cellKey struct{ student, assignment string }
	index := make(map[cellKey]models.Submission, len(submissions))
	for _, sub := range submissions {
		index[cellKey{sub.StudentID, sub.AssignmentID}] = sub
	}
	if assignments == nil {
		assignments = []models.Assignment{}
	}

	book := &models.Gradebook{CourseID: courseID, Assignments: assignments, Rows: make([]models.GradebookRow, 0, len(roster))}
	for _, student := range roster {
		row := models.GradebookRow{StudentID: student.UserID, Name: student.Name, Username: student.Username, Cells: make([]models.GradebookCell, 0, len(assignments))}
		for _, a := range assignments {
			cell := models.GradebookCell{AssignmentID: a.ID}
			if sub, ok := index[cellKey{student.UserID, a.ID}]; ok {
				id, submittedAt := sub.ID, sub.SubmittedAt
				cell.SubmissionID = &id
				cell.Grade = sub.Grade
				cell.Submitted = true
				cell.SubmittedAt = &submittedAt
			}
			row.Cells = append(row.Cells, cell)
		}
		book.Rows = append(book.Rows, row)
	}
	return book
}
