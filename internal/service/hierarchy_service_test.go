package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-admin-api/internal/dto"
	"github.com/noah-isme/campus-admin-api/internal/models"
	appErrors "github.com/noah-isme/campus-admin-api/pkg/errors"
)

type fakeHierarchyRepo struct {
	colleges    map[string]models.College
	departments map[string]models.Department
	semesters   map[string]models.Semester
	sections    map[string]models.Section
	rows        []models.HierarchyRow
	createErr   error
	replaceErr  error
	replaced    []string
	added       int
}

func (f *fakeHierarchyRepo) CreateCollege(ctx context.Context, college *models.College) error {
	if f.createErr != nil {
		return f.createErr
	}
	college.ID = "col-new"
	return nil
}

func (f *fakeHierarchyRepo) CreateDepartment(ctx context.Context, dept *models.Department) error {
	dept.ID = "dept-new"
	return nil
}

func (f *fakeHierarchyRepo) CreateProgram(ctx context.Context, program *models.Program) error {
	program.ID = "prog-new"
	return nil
}

func (f *fakeHierarchyRepo) CreateAcademicYear(ctx context.Context, year *models.AcademicYear) error {
	return nil
}

func (f *fakeHierarchyRepo) CreateSemester(ctx context.Context, semester *models.Semester) error {
	return nil
}

func (f *fakeHierarchyRepo) CreateSection(ctx context.Context, section *models.Section) error {
	section.ID = "sec-new"
	return nil
}

func (f *fakeHierarchyRepo) FindCollege(ctx context.Context, id string) (*models.College, error) {
	if c, ok := f.colleges[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeHierarchyRepo) FindDepartment(ctx context.Context, id string) (*models.Department, error) {
	if d, ok := f.departments[id]; ok {
		return &d, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeHierarchyRepo) FindProgram(ctx context.Context, id string) (*models.Program, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeHierarchyRepo) FindAcademicYear(ctx context.Context, id string) (*models.AcademicYear, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeHierarchyRepo) FindSemester(ctx context.Context, id string) (*models.Semester, error) {
	if s, ok := f.semesters[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeHierarchyRepo) FindSection(ctx context.Context, id string) (*models.Section, error) {
	if s, ok := f.sections[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeHierarchyRepo) LoadFull(ctx context.Context, filter models.HierarchyFilter) ([]models.HierarchyRow, error) {
	return f.rows, nil
}

func (f *fakeHierarchyRepo) SemesterName(ctx context.Context, semesterID string) (string, error) {
	return "Semester 1", nil
}

func (f *fakeHierarchyRepo) SectionStudents(ctx context.Context, sectionID string) ([]models.User, error) {
	return []models.User{{ID: "s1", Name: "Ann"}}, nil
}

func (f *fakeHierarchyRepo) SectionCourses(ctx context.Context, sectionID string) ([]models.Course, error) {
	return nil, nil
}

func (f *fakeHierarchyRepo) ReplaceSectionCourses(ctx context.Context, sectionID string, courseIDs []string) (int, error) {
	if f.replaceErr != nil {
		return 0, f.replaceErr
	}
	if _, ok := f.sections[sectionID]; !ok {
		return 0, sql.ErrNoRows
	}
	f.replaced = courseIDs
	return f.added, nil
}

type fakeAuditWriter struct {
	logs []*models.AuditLog
}

func (f *fakeAuditWriter) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	f.logs = append(f.logs, log)
	return nil
}

func TestHierarchyServiceCreateCollegeConflict(t *testing.T) {
	repo := &fakeHierarchyRepo{createErr: &pq.Error{Code: "23505"}}
	svc := NewHierarchyService(repo, nil, nil, zap.NewNop())

	_, err := svc.CreateCollege(context.Background(), adminActor, dto.CreateCollegeRequest{Name: "Eng", Code: "ENG"})
	requireAppError(t, err, appErrors.ErrConflict)
}

func TestHierarchyServiceCreateRequiresParent(t *testing.T) {
	repo := &fakeHierarchyRepo{colleges: map[string]models.College{"col-1": {ID: "col-1"}}}
	svc := NewHierarchyService(repo, nil, nil, zap.NewNop())
	ctx := context.Background()

	dept, err := svc.CreateDepartment(ctx, adminActor, dto.CreateDepartmentRequest{Name: "CS", Code: "CS", CollegeID: "col-1"})
	require.NoError(t, err)
	assert.Equal(t, "col-1", dept.CollegeID)

	_, err = svc.CreateDepartment(ctx, adminActor, dto.CreateDepartmentRequest{Name: "CS", Code: "CS", CollegeID: "missing"})
	appErr := requireAppError(t, err, appErrors.ErrNotFound)
	assert.Equal(t, "college not found", appErr.Message)

	_, err = svc.CreateSemester(ctx, adminActor, dto.CreateSemesterRequest{Name: "S1", SemesterNumber: 0, AcademicYearID: "ay"})
	requireAppError(t, err, appErrors.ErrValidation)

	_, err = svc.CreateSection(ctx, teacherActor, dto.CreateSectionRequest{Name: "A", SemesterID: "sem"})
	requireAppError(t, err, appErrors.ErrForbidden)
}

func TestBuildTreeNestsAndSkipsEmptyLevels(t *testing.T) {
	rows := []models.HierarchyRow{
		{CollegeID: "c1", CollegeName: "Eng", DepartmentID: "d1", DepartmentCode: "CS",
			ProgramID: strPtr("p1"), AcademicYearID: strPtr("y1"), SemesterID: strPtr("s1"), SectionID: strPtr("x1"), SectionName: strPtr("A")},
		{CollegeID: "c1", CollegeName: "Eng", DepartmentID: "d1", DepartmentCode: "CS",
			ProgramID: strPtr("p1"), AcademicYearID: strPtr("y1"), SemesterID: strPtr("s1"), SectionID: strPtr("x2"), SectionName: strPtr("B")},
		{CollegeID: "c1", CollegeName: "Eng", DepartmentID: "d2", DepartmentCode: "EE"},
	}

	tree := BuildTree(rows)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Departments, 2)
	sections := tree[0].Departments[0].Programs[0].AcademicYears[0].Semesters[0].Sections
	require.Len(t, sections, 2)
	assert.Equal(t, "B", sections[1].Name)
	assert.Empty(t, tree[0].Departments[1].Programs)
	assert.NotNil(t, tree[0].Departments[1].Programs)
}

func TestHierarchyServiceUpdateSectionCoursesDedupes(t *testing.T) {
	repo := &fakeHierarchyRepo{sections: map[string]models.Section{"sec-1": {ID: "sec-1"}}, added: 3}
	audit := &fakeAuditWriter{}
	svc := NewHierarchyService(repo, audit, nil, zap.NewNop())

	result, err := svc.UpdateSectionCourses(context.Background(), adminActor, "sec-1",
		dto.UpdateSectionCoursesRequest{CourseIDs: []string{"c1", "c2", "c1", " "}}, models.LoginRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2"}, repo.replaced)
	assert.Equal(t, 3, result.EnrollmentsAdded)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionSectionCourses, audit.logs[0].Action)
}

func TestHierarchyServiceUpdateSectionCoursesErrors(t *testing.T) {
	repo := &fakeHierarchyRepo{sections: map[string]models.Section{}}
	svc := NewHierarchyService(repo, nil, nil, zap.NewNop())

	_, err := svc.UpdateSectionCourses(context.Background(), adminActor, "ghost", dto.UpdateSectionCoursesRequest{}, models.LoginRequest{})
	requireAppError(t, err, appErrors.ErrNotFound)

	repo.replaceErr = errors.New("deadlock detected")
	_, err = svc.UpdateSectionCourses(context.Background(), adminActor, "ghost", dto.UpdateSectionCoursesRequest{}, models.LoginRequest{})
	appErr := requireAppError(t, err, appErrors.ErrInternal)
	assert.Equal(t, "failed to update section courses", appErr.Message)
}

func TestHierarchyServiceSectionDetail(t *testing.T) {
	repo := &fakeHierarchyRepo{sections: map[string]models.Section{"sec-1": {ID: "sec-1", Name: "A", SemesterID: "sem-1"}}}
	svc := NewHierarchyService(repo, nil, nil, zap.NewNop())

	detail, err := svc.SectionDetail(context.Background(), teacherActor, "sec-1")
	require.NoError(t, err)
	assert.Equal(t, "Semester 1", detail.SemesterName)
	assert.Len(t, detail.Students, 1)
	assert.NotNil(t, detail.Courses)

	_, err = svc.SectionDetail(context.Background(), studentActor, "sec-1")
	requireAppError(t, err, appErrors.ErrForbidden)
}
