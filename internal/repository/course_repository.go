package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/campus-admin-api/internal/models"
)

const courseColumns = `c.id, c.title, c.code, c.description, c.teacher_id, c.department_id, c.semester_id, c.is_published,
c.enrollment_key, c.max_students, c.image, c.start_date, c.end_date, c.created_at, c.updated_at`

const courseListColumns = courseColumns + `, t.name AS teacher_name, d.name AS department_name, d.code AS department_code, sem.name AS semester_name,
(SELECT COUNT(*) FROM enrollments e WHERE e.course_id = c.id) AS enrollment_count`

// CourseRepository manages courses and their weekly schedules.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a new instance of CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

func courseListFrom(b squirrel.SelectBuilder) squirrel.SelectBuilder {
	return b.From("courses c").
		Join("users t ON t.id = c.teacher_id").
		Join("departments d ON d.id = c.department_id").
		LeftJoin("semesters sem ON sem.id = c.semester_id")
}

// FindByID returns the bare course row.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	if err := r.db.GetContext(ctx, &course, `SELECT `+courseColumns+` FROM courses c WHERE c.id = $1`, id); err != nil {
		if isNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	return &course, nil
}

// GetListItem returns a course joined with display names and enrollment count.
func (r *CourseRepository) GetListItem(ctx context.Context, id string) (*models.CourseListItem, error) {
	query, args, err := courseListFrom(psql.Select(courseListColumns)).Where(squirrel.Eq{"c.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get course: %w", err)
	}
	var item models.CourseListItem
	if err := r.db.GetContext(ctx, &item, query, args...); err != nil {
		if isNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("get course: %w", err)
	}
	return &item, nil
}

// List returns courses matching the filter with a total count.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseListItem, int, error) {
	where := squirrel.And{}
	if filter.TeacherID != "" {
		where = append(where, squirrel.Eq{"c.teacher_id": filter.TeacherID})
	}
	if filter.DepartmentID != "" {
		where = append(where, squirrel.Eq{"c.department_id": filter.DepartmentID})
	}
	if filter.SemesterID != "" {
		where = append(where, squirrel.Eq{"c.semester_id": filter.SemesterID})
	}
	if filter.Published != nil {
		where = append(where, squirrel.Eq{"c.is_published": *filter.Published})
	}
	if strings.TrimSpace(filter.Search) != "" {
		pattern := likePattern(filter.Search)
		where = append(where, squirrel.Or{
			squirrel.Like{"LOWER(c.title)": pattern},
			squirrel.Like{"LOWER(c.code)": pattern},
		})
	}

	page, size := models.NormalizePage(filter.Page, filter.PageSize)
	query, args, err := courseListFrom(psql.Select(courseListColumns)).Where(where).
		OrderBy("c.created_at DESC").
		Limit(uint64(size)).Offset(pageOffset(page, size)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list courses: %w", err)
	}
	var items []models.CourseListItem
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}

	countQuery, countArgs, err := psql.Select("COUNT(*)").From("courses c").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count courses: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}
	return items, total, nil
}

// ListAll returns every course joined with display names, ordered by title.
func (r *CourseRepository) ListAll(ctx context.Context) ([]models.CourseListItem, error) {
	query, args, err := courseListFrom(psql.Select(courseListColumns)).OrderBy("c.title").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list all courses: %w", err)
	}
	var items []models.CourseListItem
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list all courses: %w", err)
	}
	return items, nil
}

const insertCourse = `INSERT INTO courses (id, title, code, description, teacher_id, department_id, semester_id, is_published, enrollment_key, max_students, image, start_date, end_date, created_at, updated_at)
VALUES (:id, :title, :code, :description, :teacher_id, :department_id, :semester_id, :is_published, :enrollment_key, :max_students, :image, :start_date, :end_date, :created_at, :updated_at)`

const insertSchedule = `INSERT INTO class_schedules (id, course_id, day_of_week, start_time, end_time, room, type)
VALUES (:id, :course_id, :day_of_week, :start_time, :end_time, :room, :type)`

// Create inserts a course and its schedules atomically.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course, schedules []models.ClassSchedule) (err error) {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin course transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.NamedExecContext(ctx, insertCourse, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	if err = insertSchedules(ctx, tx, course.ID, schedules); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit course: %w", err)
	}
	return nil
}

// Update writes the scalar fields of a course. When schedules is non-nil every existing schedule
// is replaced by the given set within the same transaction.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course, schedules *[]models.ClassSchedule) (err error) {
	course.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin course update: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `UPDATE courses SET title = :title, code = :code, description = :description, teacher_id = :teacher_id,
department_id = :department_id, semester_id = :semester_id, is_published = :is_published, enrollment_key = :enrollment_key,
max_students = :max_students, image = :image, start_date = :start_date, end_date = :end_date, updated_at = :updated_at WHERE id = :id`
	res, err := tx.NamedExecContext(ctx, query, course)
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	if err = expectAffected(res); err != nil {
		return err
	}

	if schedules != nil {
		if _, err = tx.ExecContext(ctx, `DELETE FROM class_schedules WHERE course_id = $1`, course.ID); err != nil {
			return fmt.Errorf("clear schedules: %w", err)
		}
		if err = insertSchedules(ctx, tx, course.ID, *schedules); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit course update: %w", err)
	}
	return nil
}

func insertSchedules(ctx context.Context, tx *sqlx.Tx, courseID string, schedules []models.ClassSchedule) error {
	for i := range schedules {
		schedule := &schedules[i]
		if schedule.ID == "" {
			schedule.ID = uuid.NewString()
		}
		schedule.CourseID = courseID
		if schedule.Type == "" {
			schedule.Type = models.ScheduleLecture
		}
		if _, err := tx.NamedExecContext(ctx, insertSchedule, schedule); err != nil {
			return fmt.Errorf("insert schedule: %w", err)
		}
	}
	return nil
}

// Delete removes a course; schedules, modules, assignments and enrollments cascade.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return expectAffected(res)
}

// Schedules lists a course's schedules.
func (r *CourseRepository) Schedules(ctx context.Context, courseID string) ([]models.ClassSchedule, error) {
	const query = `SELECT id, course_id, day_of_week, start_time, end_time, room, type FROM class_schedules WHERE course_id = $1 ORDER BY day_of_week, start_time`
	var schedules []models.ClassSchedule
	if err := r.db.SelectContext(ctx, &schedules, query, courseID); err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return schedules, nil
}

// SchedulesForCourses returns schedules grouped by course id.
func (r *CourseRepository) SchedulesForCourses(ctx context.Context, courseIDs []string) (map[string][]models.ClassSchedule, error) {
	grouped := make(map[string][]models.ClassSchedule)
	if len(courseIDs) == 0 {
		return grouped, nil
	}
	const query = `SELECT id, course_id, day_of_week, start_time, end_time, room, type FROM class_schedules WHERE course_id = ANY($1) ORDER BY start_time`
	var schedules []models.ClassSchedule
	if err := r.db.SelectContext(ctx, &schedules, query, pq.Array(courseIDs)); err != nil {
		return nil, fmt.Errorf("list schedules for courses: %w", err)
	}
	for _, s := range schedules {
		grouped[s.CourseID] = append(grouped[s.CourseID], s)
	}
	return grouped, nil
}

// SchedulesOn returns the schedules on a weekday with course and teacher, earliest first.
func (r *CourseRepository) SchedulesOn(ctx context.Context, day models.DayOfWeek) ([]models.LiveClass, error) {
	const query = `SELECT cs.id, cs.course_id, cs.day_of_week, cs.start_time, cs.end_time, cs.room, cs.type,
c.title AS course_title, c.code AS course_code, c.teacher_id, t.name AS teacher_name
FROM class_schedules cs
JOIN courses c ON c.id = cs.course_id
JOIN users t ON t.id = c.teacher_id
WHERE cs.day_of_week = $1
ORDER BY cs.start_time`
	var classes []models.LiveClass
	if err := r.db.SelectContext(ctx, &classes, query, day); err != nil {
		return nil, fmt.Errorf("list schedules on %s: %w", day, err)
	}
	return classes, nil
}

// CountPublished counts courses open for browsing.
func (r *CourseRepository) CountPublished(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM courses WHERE is_published = TRUE`); err != nil {
		return 0, fmt.Errorf("count published courses: %w", err)
	}
	return total, nil
}
