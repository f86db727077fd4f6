package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-admin-api/internal/models"
)

// HierarchyRepository stores colleges, departments, programs, academic years, semesters and sections.
type HierarchyRepository struct {
	db *sqlx.DB
}

// NewHierarchyRepository creates a new instance of HierarchyRepository.
func NewHierarchyRepository(db *sqlx.DB) *HierarchyRepository {
	return &HierarchyRepository{db: db}
}

func stamp(id *string, createdAt, updatedAt *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	now := time.Now().UTC()
	if createdAt.IsZero() {
		*createdAt = now
	}
	*updatedAt = now
}

// CreateCollege inserts a college.
func (r *HierarchyRepository) CreateCollege(ctx context.Context, college *models.College) error {
	stamp(&college.ID, &college.CreatedAt, &college.UpdatedAt)
	const query = `INSERT INTO colleges (id, name, code, created_at, updated_at) VALUES (:id, :name, :code, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, college); err != nil {
		return fmt.Errorf("create college: %w", err)
	}
	return nil
}

// CreateDepartment inserts a department.
func (r *HierarchyRepository) CreateDepartment(ctx context.Context, dept *models.Department) error {
	stamp(&dept.ID, &dept.CreatedAt, &dept.UpdatedAt)
	const query = `INSERT INTO departments (id, name, code, college_id, created_at, updated_at) VALUES (:id, :name, :code, :college_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, dept); err != nil {
		return fmt.Errorf("create department: %w", err)
	}
	return nil
}

// CreateProgram inserts a program.
func (r *HierarchyRepository) CreateProgram(ctx context.Context, program *models.Program) error {
	stamp(&program.ID, &program.CreatedAt, &program.UpdatedAt)
	const query = `INSERT INTO programs (id, name, code, department_id, created_at, updated_at) VALUES (:id, :name, :code, :department_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, program); err != nil {
		return fmt.Errorf("create program: %w", err)
	}
	return nil
}

// CreateAcademicYear inserts an academic year.
func (r *HierarchyRepository) CreateAcademicYear(ctx context.Context, year *models.AcademicYear) error {
	stamp(&year.ID, &year.CreatedAt, &year.UpdatedAt)
	const query = `INSERT INTO academic_years (id, name, program_id, created_at, updated_at) VALUES (:id, :name, :program_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, year); err != nil {
		return fmt.Errorf("create academic year: %w", err)
	}
	return nil
}

// CreateSemester inserts a semester.
func (r *HierarchyRepository) CreateSemester(ctx context.Context, semester *models.Semester) error {
	stamp(&semester.ID, &semester.CreatedAt, &semester.UpdatedAt)
	const query = `INSERT INTO semesters (id, name, semester_number, academic_year_id, created_at, updated_at) VALUES (:id, :name, :semester_number, :academic_year_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, semester); err != nil {
		return fmt.Errorf("create semester: %w", err)
	}
	return nil
}

// CreateSection inserts a section.
func (r *HierarchyRepository) CreateSection(ctx context.Context, section *models.Section) error {
	stamp(&section.ID, &section.CreatedAt, &section.UpdatedAt)
	const query = `INSERT INTO sections (id, name, semester_id, created_at, updated_at) VALUES (:id, :name, :semester_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, section); err != nil {
		return fmt.Errorf("create section: %w", err)
	}
	return nil
}

// FindCollege returns a college by id.
func (r *HierarchyRepository) FindCollege(ctx context.Context, id string) (*models.College, error) {
	var college models.College
	if err := r.db.GetContext(ctx, &college, `SELECT id, name, code, created_at, updated_at FROM colleges WHERE id = $1`, id); err != nil {
		if isNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("find college: %w", err)
	}
	return &college, nil
}

// FindDepartment returns a department by id.
func (r *HierarchyRepository) FindDepartment(ctx context.Context, id string) (*models.Department, error) {
	var dept models.Department
	if err := r.db.GetContext(ctx, &dept, `SELECT id, name, code, college_id, created_at, updated_at FROM departments WHERE id = $1`, id); err != nil {
		if isNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("find department: %w", err)
	}
	return &dept, nil
}

// FindProgram returns a program by id.
func (r *HierarchyRepository) FindProgram(ctx context.Context, id string) (*models.Program, error) {
	var program models.Program
	if err := r.db.GetContext(ctx, &program, `SELECT id, name, code, department_id, created_at, updated_at FROM programs WHERE id = $1`, id); err != nil {
		if isNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("find program: %w", err)
	}
	return &program, nil
}

// FindAcademicYear returns an academic year by id.
func (r *HierarchyRepository) FindAcademicYear(ctx context.Context, id string) (*models.AcademicYear, error) {
	var year models.AcademicYear
	if err := r.db.GetContext(ctx, &year, `SELECT id, name, program_id, created_at, updated_at FROM academic_years WHERE id = $1`, id); err != nil {
		if isNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("find academic year: %w", err)
	}
	return &year, nil
}

// FindSemester returns a semester by id.
func (r *HierarchyRepository) FindSemester(ctx context.Context, id string) (*models.Semester, error) {
	var semester models.Semester
	if err := r.db.GetContext(ctx, &semester, `SELECT id, name, semester_number, academic_year_id, created_at, updated_at FROM semesters WHERE id = $1`, id); err != nil {
		if isNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("find semester: %w", err)
	}
	return &semester, nil
}

// FindSection returns a section by id.
func (r *HierarchyRepository) FindSection(ctx context.Context, id string) (*models.Section, error) {
	var section models.Section
	if err := r.db.GetContext(ctx, &section, `SELECT id, name, semester_id, created_at, updated_at FROM sections WHERE id = $1`, id); err != nil {
		if isNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("find section: %w", err)
	}
	return &section, nil
}

// LoadFull returns one flat row per section joined up to its college. Departments without
// programs, years, semesters or sections still produce a row with the lower columns nil.
func (r *HierarchyRepository) LoadFull(ctx context.Context, filter models.HierarchyFilter) ([]models.HierarchyRow, error) {
	q := psql.Select(
		"col.id AS college_id", "col.name AS college_name", "col.code AS college_code",
		"d.id AS department_id", "d.name AS department_name", "d.code AS department_code",
		"p.id AS program_id", "p.name AS program_name",
		"ay.id AS academic_year_id", "ay.name AS academic_year_name",
		"sem.id AS semester_id", "sem.name AS semester_name", "sem.semester_number",
		"sec.id AS section_id", "sec.name AS section_name",
	).
		From("departments d").
		Join("colleges col ON col.id = d.college_id").
		LeftJoin("programs p ON p.department_id = d.id").
		LeftJoin("academic_years ay ON ay.program_id = p.id").
		LeftJoin("semesters sem ON sem.academic_year_id = ay.id").
		LeftJoin("sections sec ON sec.semester_id = sem.id").
		OrderBy("col.name", "d.name", "p.name", "ay.name", "sem.semester_number", "sec.name")

	if filter.CollegeID != "" {
		q = q.Where(squirrel.Eq{"col.id": filter.CollegeID})
	}
	if filter.DepartmentID != "" {
		q = q.Where(squirrel.Eq{"d.id": filter.DepartmentID})
	}
	if filter.ProgramID != "" {
		q = q.Where(squirrel.Eq{"p.id": filter.ProgramID})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build hierarchy query: %w", err)
	}
	var rows []models.HierarchyRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("load hierarchy: %w", err)
	}
	return rows, nil
}

// SectionDepartmentID resolves the department owning a section.
func (r *HierarchyRepository) SectionDepartmentID(ctx context.Context, sectionID string) (string, error) {
	const query = `SELECT p.department_id FROM sections sec
JOIN semesters sem ON sem.id = sec.semester_id
JOIN academic_years ay ON ay.id = sem.academic_year_id
JOIN programs p ON p.id = ay.program_id
WHERE sec.id = $1`
	var deptID string
	if err := r.db.GetContext(ctx, &deptID, query, sectionID); err != nil {
		if isNoRows(err) {
			return "", err
		}
		return "", fmt.Errorf("resolve section department: %w", err)
	}
	return deptID, nil
}

// SemesterName returns the display name of a semester.
func (r *HierarchyRepository) SemesterName(ctx context.Context, semesterID string) (string, error) {
	var name string
	if err := r.db.GetContext(ctx, &name, `SELECT name FROM semesters WHERE id = $1`, semesterID); err != nil {
		if isNoRows(err) {
			return "", err
		}
		return "", fmt.Errorf("semester name: %w", err)
	}
	return name, nil
}

// SectionStudents lists the students of a section ordered by name.
func (r *HierarchyRepository) SectionStudents(ctx context.Context, sectionID string) ([]models.User, error) {
	const query = `SELECT id, name, username, password_hash, role, department_id, section_id, active, last_login, created_at, updated_at
FROM users WHERE section_id = $1 AND role = 'STUDENT' AND active = TRUE ORDER BY name`
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, sectionID); err != nil {
		return nil, fmt.Errorf("list section students: %w", err)
	}
	return users, nil
}

// SectionCourses lists the courses linked to a section.
func (r *HierarchyRepository) SectionCourses(ctx context.Context, sectionID string) ([]models.Course, error) {
	const query = `SELECT ` + courseColumns + ` FROM courses c
JOIN section_courses sc ON sc.course_id = c.id
WHERE sc.section_id = $1 ORDER BY c.title`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, sectionID); err != nil {
		return nil, fmt.Errorf("list section courses: %w", err)
	}
	return courses, nil
}

// ReplaceSectionCourses swaps the course links of a section and enrolls every student of the
// section into every linked course. Existing enrollments are never removed. It returns the number
// of enrollments created. sql.ErrNoRows is returned when the section does not exist.
func (r *HierarchyRepository) ReplaceSectionCourses(ctx context.Context, sectionID string, courseIDs []string) (added int, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin section courses transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var locked string
	if err = tx.GetContext(ctx, &locked, `SELECT id FROM sections WHERE id = $1 FOR UPDATE`, sectionID); err != nil {
		if isNoRows(err) {
			return 0, err
		}
		return 0, fmt.Errorf("lock section: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM section_courses WHERE section_id = $1`, sectionID); err != nil {
		return 0, fmt.Errorf("clear section courses: %w", err)
	}

	for _, courseID := range courseIDs {
		if _, err = tx.ExecContext(ctx, `INSERT INTO section_courses (section_id, course_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, sectionID, courseID); err != nil {
			return 0, fmt.Errorf("link section course: %w", err)
		}
	}

	if len(courseIDs) > 0 {
		var studentIDs []string
		if err = tx.SelectContext(ctx, &studentIDs, `SELECT id FROM users WHERE section_id = $1 AND role = 'STUDENT'`, sectionID); err != nil {
			return 0, fmt.Errorf("list section students: %w", err)
		}
		now := time.Now().UTC()
		for _, studentID := range studentIDs {
			for _, courseID := range courseIDs {
				res, execErr := tx.ExecContext(ctx, insertEnrollmentIgnoreConflict, uuid.NewString(), studentID, courseID, now)
				if execErr != nil {
					err = fmt.Errorf("cascade enrollment: %w", execErr)
					return 0, err
				}
				if n, _ := res.RowsAffected(); n > 0 {
					added += int(n)
				}
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit section courses: %w", err)
	}
	return added, nil
}
