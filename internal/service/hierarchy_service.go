package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-admin-api/internal/dto"
	"github.com/noah-isme/campus-admin-api/internal/models"
	"github.com/noah-isme/campus-admin-api/pkg/database"
	appErrors "github.com/noah-isme/campus-admin-api/pkg/errors"
)

type hierarchyRepository interface {
	CreateCollege(ctx context.Context, college *models.College) error
	CreateDepartment(ctx context.Context, dept *models.Department) error
	CreateProgram(ctx context.Context, program *models.Program) error
	CreateAcademicYear(ctx context.Context, year *models.AcademicYear) error
	CreateSemester(ctx context.Context, semester *models.Semester) error
	CreateSection(ctx context.Context, section *models.Section) error
	FindCollege(ctx context.Context, id string) (*models.College, error)
	FindDepartment(ctx context.Context, id string) (*models.Department, error)
	FindProgram(ctx context.Context, id string) (*models.Program, error)
	FindAcademicYear(ctx context.Context, id string) (*models.AcademicYear, error)
	FindSemester(ctx context.Context, id string) (*models.Semester, error)
	FindSection(ctx context.Context, id string) (*models.Section, error)
	LoadFull(ctx context.Context, filter models.HierarchyFilter) ([]models.HierarchyRow, error)
	SemesterName(ctx context.Context, semesterID string) (string, error)
	SectionStudents(ctx context.Context, sectionID string) ([]models.User, error)
	SectionCourses(ctx context.Context, sectionID string) ([]models.Course, error)
	ReplaceSectionCourses(ctx context.Context, sectionID string, courseIDs []string) (int, error)
}

type auditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// HierarchyService manages colleges down to sections and the section-course links.
type HierarchyService struct {
	repo      hierarchyRepository
	audit     auditWriter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewHierarchyService constructs the hierarchy service.
func NewHierarchyService(repo hierarchyRepository, audit auditWriter, validate *validator.Validate, logger *zap.Logger) *HierarchyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &HierarchyService{repo: repo, audit: audit, validator: validate, logger: logger}
}

func (s *HierarchyService) prepare(actor models.Actor, req interface{}, what string) error {
	if err := authorize(actor, models.RolesAdmin...); err != nil {
		return err
	}
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Validation(err, "invalid "+what+" payload")
	}
	return nil
}

// parentExists maps a missing parent to not-found.
func parentExists(err error, what string) error {
	if err == nil {
		return nil
	}
	return repoError(err, what+" not found", "failed to load "+what)
}

func createError(err error, what string) error {
	if database.IsUniqueViolation(err) {
		return appErrors.Clone(appErrors.ErrConflict, what+" code already exists")
	}
	return appErrors.Internal(err, "failed to create "+what)
}

// CreateCollege adds a root node.
func (s *HierarchyService) CreateCollege(ctx context.Context, actor models.Actor, req dto.CreateCollegeRequest) (*models.College, error) {
	if err := s.prepare(actor, req, "college"); err != nil {
		return nil, err
	}
	college := &models.College{Name: strings.TrimSpace(req.Name), Code: strings.TrimSpace(req.Code)}
	if err := s.repo.CreateCollege(ctx, college); err != nil {
		return nil, createError(err, "college")
	}
	return college, nil
}

// CreateDepartment adds a department under an existing college.
func (s *HierarchyService) CreateDepartment(ctx context.Context, actor models.Actor, req dto.CreateDepartmentRequest) (*models.Department, error) {
	if err := s.prepare(actor, req, "department"); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindCollege(ctx, req.CollegeID); err != nil {
		return nil, parentExists(err, "college")
	}
	dept := &models.Department{Name: strings.TrimSpace(req.Name), Code: strings.TrimSpace(req.Code), CollegeID: req.CollegeID}
	if err := s.repo.CreateDepartment(ctx, dept); err != nil {
		return nil, createError(err, "department")
	}
	return dept, nil
}

// CreateProgram adds a program under an existing department.
func (s *HierarchyService) CreateProgram(ctx context.Context, actor models.Actor, req dto.CreateProgramRequest) (*models.Program, error) {
	if err := s.prepare(actor, req, "program"); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindDepartment(ctx, req.DepartmentID); err != nil {
		return nil, parentExists(err, "department")
	}
	program := &models.Program{Name: strings.TrimSpace(req.Name), Code: nonEmpty(req.Code), DepartmentID: req.DepartmentID}
	if err := s.repo.CreateProgram(ctx, program); err != nil {
		return nil, createError(err, "program")
	}
	return program, nil
}

// CreateAcademicYear adds an academic year under an existing program.
func (s *HierarchyService) CreateAcademicYear(ctx context.Context, actor models.Actor, req dto.CreateAcademicYearRequest) (*models.AcademicYear, error) {
	if err := s.prepare(actor, req, "academic year"); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindProgram(ctx, req.ProgramID); err != nil {
		return nil, parentExists(err, "program")
	}
	year := &models.AcademicYear{Name: strings.TrimSpace(req.Name), ProgramID: req.ProgramID}
	if err := s.repo.CreateAcademicYear(ctx, year); err != nil {
		return nil, createError(err, "academic year")
	}
	return year, nil
}

// CreateSemester adds a semester under an existing academic year.
func (s *HierarchyService) CreateSemester(ctx context.Context, actor models.Actor, req dto.CreateSemesterRequest) (*models.Semester, error) {
	if err := s.prepare(actor, req, "semester"); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindAcademicYear(ctx, req.AcademicYearID); err != nil {
		return nil, parentExists(err, "academic year")
	}
	semester := &models.Semester{Name: strings.TrimSpace(req.Name), SemesterNumber: req.SemesterNumber, AcademicYearID: req.AcademicYearID}
	if err := s.repo.CreateSemester(ctx, semester); err != nil {
		return nil, createError(err, "semester")
	}
	return semester, nil
}

// CreateSection adds a section under an existing semester.
func (s *HierarchyService) CreateSection(ctx context.Context, actor models.Actor, req dto.CreateSectionRequest) (*models.Section, error) {
	if err := s.prepare(actor, req, "section"); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindSemester(ctx, req.SemesterID); err != nil {
		return nil, parentExists(err, "semester")
	}
	section := &models.Section{Name: strings.TrimSpace(req.Name), SemesterID: req.SemesterID}
	if err := s.repo.CreateSection(ctx, section); err != nil {
		return nil, createError(err, "section")
	}
	return section, nil
}

// LoadFullHierarchy returns the flat hierarchy rows shared by import, templates and charts.
func (s *HierarchyService) LoadFullHierarchy(ctx context.Context, actor models.Actor, filter models.HierarchyFilter) ([]models.HierarchyRow, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}
	rows, err := s.repo.LoadFull(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load hierarchy")
	}
	if rows == nil {
		rows = []models.HierarchyRow{}
	}
	return rows, nil
}

// Tree nests the flat hierarchy load. Node order follows the load's ordering.
func (s *HierarchyService) Tree(ctx context.Context, actor models.Actor) ([]models.CollegeNode, error) {
	rows, err := s.LoadFullHierarchy(ctx, actor, models.HierarchyFilter{})
	if err != nil {
		return nil, err
	}
	return BuildTree(rows), nil
}

// BuildTree folds flattened hierarchy rows into nested nodes, dropping nil levels.
func BuildTree(rows []models.HierarchyRow) []models.CollegeNode {
	colleges := []models.CollegeNode{}
	collegeIdx := map[string]int{}
	deptIdx := map[string]int{}
	programIdx := map[string]int{}
	yearIdx := map[string]int{}
	semesterIdx := map[string]int{}

	for _, row := range rows {
		ci, ok := collegeIdx[row.CollegeID]
		if !ok {
			colleges = append(colleges, models.CollegeNode{ID: row.CollegeID, Name: row.CollegeName, Code: row.CollegeCode, Departments: []models.DepartmentNode{}})
			ci = len(colleges) - 1
			collegeIdx[row.CollegeID] = ci
		}
		college := &colleges[ci]

		di, ok := deptIdx[row.DepartmentID]
		if !ok {
			college.Departments = append(college.Departments, models.DepartmentNode{ID: row.DepartmentID, Name: row.DepartmentName, Code: row.DepartmentCode, Programs: []models.ProgramNode{}})
			di = len(college.Departments) - 1
			deptIdx[row.DepartmentID] = di
		}
		dept := &college.Departments[di]

		if row.ProgramID == nil {
			continue
		}
		pi, ok := programIdx[*row.ProgramID]
		if !ok {
			dept.Programs = append(dept.Programs, models.ProgramNode{ID: *row.ProgramID, Name: derefString(row.ProgramName), AcademicYears: []models.AcademicYearNode{}})
			pi = len(dept.Programs) - 1
			programIdx[*row.ProgramID] = pi
		}
		program := &dept.Programs[pi]

		if row.AcademicYearID == nil {
			continue
		}
		yi, ok := yearIdx[*row.AcademicYearID]
		if !ok {
			program.AcademicYears = append(program.AcademicYears, models.AcademicYearNode{ID: *row.AcademicYearID, Name: derefString(row.AcademicYearName), Semesters: []models.SemesterNode{}})
			yi = len(program.AcademicYears) - 1
			yearIdx[*row.AcademicYearID] = yi
		}
		year := &program.AcademicYears[yi]

		if row.SemesterID == nil {
			continue
		}
		si, ok := semesterIdx[*row.SemesterID]
		if !ok {
			number := 0
			if row.SemesterNumber != nil {
				number = *row.SemesterNumber
			}
			year.Semesters = append(year.Semesters, models.SemesterNode{ID: *row.SemesterID, Name: derefString(row.SemesterName), SemesterNumber: number, Sections: []models.Section{}})
			si = len(year.Semesters) - 1
			semesterIdx[*row.SemesterID] = si
		}
		semester := &year.Semesters[si]

		if row.SectionID != nil {
			semester.Sections = append(semester.Sections, models.Section{ID: *row.SectionID, Name: derefString(row.SectionName), SemesterID: *row.SemesterID})
		}
	}
	return colleges
}

// SectionDetail returns a section with its students and linked courses.
func (s *HierarchyService) SectionDetail(ctx context.Context, actor models.Actor, id string) (*models.SectionDetail, error) {
	if err := authorize(actor, models.RolesDirectory...); err != nil {
		return nil, err
	}
	section, err := s.repo.FindSection(ctx, id)
	if err != nil {
		return nil, repoError(err, "section not found", "failed to load section")
	}
	detail := &models.SectionDetail{Section: *section, Students: []models.User{}, Courses: []models.Course{}}
	if detail.SemesterName, err = s.repo.SemesterName(ctx, section.SemesterID); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Internal(err, "failed to load semester")
	}
	students, err := s.repo.SectionStudents(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load section students")
	}
	courses, err := s.repo.SectionCourses(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load section courses")
	}
	if students != nil {
		detail.Students = students
	}
	if courses != nil {
		detail.Courses = courses
	}
	return detail, nil
}

// UpdateSectionCourses replaces the section's course links and enrolls its students into every
// linked course. Enrollments are never removed.
func (s *HierarchyService) UpdateSectionCourses(ctx context.Context, actor models.Actor, sectionID string, req dto.UpdateSectionCoursesRequest, meta models.LoginRequest) (*dto.SectionCoursesResult, error) {
	if err := authorize(actor, models.RolesAdmin...); err != nil {
		return nil, err
	}
	courseIDs := dedupe(req.CourseIDs)

	added, err := s.repo.ReplaceSectionCourses(ctx, sectionID, courseIDs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "section not found")
		}
		s.logger.Error("section course cascade failed", zap.String("section_id", sectionID), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to update section courses")
	}

	if s.audit != nil {
		actorID := actor.UserID
		payload, _ := json.Marshal(map[string]interface{}{"course_ids": courseIDs, "enrollments_added": added})
		if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
			UserID:     &actorID,
			Action:     models.AuditActionSectionCourses,
			Resource:   models.AuditResourceSections,
			ResourceID: &sectionID,
			NewValues:  payload,
			IPAddress:  meta.IP,
			UserAgent:  meta.UserAgent,
		}); err != nil {
			s.logger.Warn("failed to record section courses audit log", zap.Error(err))
		}
	}
	return &dto.SectionCoursesResult{SectionID: sectionID, CourseIDs: courseIDs, EnrollmentsAdded: added}, nil
}

// dedupe drops blanks and repeats, keeping first-seen order.
func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
