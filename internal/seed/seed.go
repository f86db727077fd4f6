// Package seed loads the demo hierarchy and accounts used for local development.
package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/campus-admin-api/internal/models"
	"github.com/noah-isme/campus-admin-api/pkg/database"
)

// DemoPassword is shared by every seeded account.
const DemoPassword = "password123"

// Result lists the identifiers the seed resolved or created.
type Result struct {
	CollegeID    string
	DepartmentID string
	ProgramID    string
	YearID       string
	SemesterID   string
	SectionID    string
	Users        map[string]string
}

// Run upserts the demo data in a single transaction. Rows are matched on code, username or on
// name under their parent, so repeated runs change nothing.
func Run(ctx context.Context, db *sqlx.DB, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}

	result := &Result{Users: map[string]string{}}
	err = database.WithTx(ctx, db, func(tx *sqlx.Tx) error {
		s := seeder{ctx: ctx, tx: tx}
		var err error
		if result.CollegeID, err = s.ensure(
			`SELECT id FROM colleges WHERE code = $1`, []interface{}{"ENG"},
			`INSERT INTO colleges (id, name, code) VALUES ($1, $2, $3)`, "Engineering", "ENG"); err != nil {
			return err
		}
		if result.DepartmentID, err = s.ensure(
			`SELECT id FROM departments WHERE code = $1`, []interface{}{"CS"},
			`INSERT INTO departments (id, name, code, college_id) VALUES ($1, $2, $3, $4)`, "Computer Science", "CS", result.CollegeID); err != nil {
			return err
		}
		if result.ProgramID, err = s.ensure(
			`SELECT id FROM programs WHERE department_id = $1 AND name = $2`, []interface{}{result.DepartmentID, "Regular"},
			`INSERT INTO programs (id, name, department_id) VALUES ($1, $2, $3)`, "Regular", result.DepartmentID); err != nil {
			return err
		}
		if result.YearID, err = s.ensure(
			`SELECT id FROM academic_years WHERE program_id = $1 AND name = $2`, []interface{}{result.ProgramID, "Year 1"},
			`INSERT INTO academic_years (id, name, program_id) VALUES ($1, $2, $3)`, "Year 1", result.ProgramID); err != nil {
			return err
		}
		if result.SemesterID, err = s.ensure(
			`SELECT id FROM semesters WHERE academic_year_id = $1 AND name = $2`, []interface{}{result.YearID, "Semester 1"},
			`INSERT INTO semesters (id, name, semester_number, academic_year_id) VALUES ($1, $2, $3, $4)`, "Semester 1", 1, result.YearID); err != nil {
			return err
		}
		if result.SectionID, err = s.ensure(
			`SELECT id FROM sections WHERE semester_id = $1 AND name = $2`, []interface{}{result.SemesterID, "A"},
			`INSERT INTO sections (id, name, semester_id) VALUES ($1, $2, $3)`, "A", result.SemesterID); err != nil {
			return err
		}

		accounts := []struct {
			username string
			name     string
			role     models.UserRole
			dept     *string
			section  *string
		}{
			{username: "admin", name: "Administrator", role: models.RoleAdmin},
			{username: "teacher", name: "Demo Teacher", role: models.RoleTeacher, dept: &result.DepartmentID},
			{username: "student", name: "Demo Student", role: models.RoleStudent, section: &result.SectionID},
		}
		for _, account := range accounts {
			id, err := s.ensure(
				`SELECT id FROM users WHERE username = $1`, []interface{}{account.username},
				`INSERT INTO users (id, name, username, password_hash, role, department_id, section_id) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				account.name, account.username, string(hash), account.role, account.dept, account.section)
			if err != nil {
				return err
			}
			result.Users[account.username] = id
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("seed complete",
		zap.String("college_id", result.CollegeID),
		zap.String("section_id", result.SectionID),
		zap.Int("users", len(result.Users)))
	return result, nil
}

type seeder struct {
	ctx context.Context
	tx  *sqlx.Tx
}

// ensure returns the id found by lookup, inserting a new row with a fresh id when none exists.
func (s seeder) ensure(lookup string, lookupArgs []interface{}, insert string, values ...interface{}) (string, error) {
	var id string
	err := s.tx.GetContext(s.ctx, &id, lookup, lookupArgs...)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("seed lookup: %w", err)
	}
	id = uuid.NewString()
	if _, err := s.tx.ExecContext(s.ctx, insert, append([]interface{}{id}, values...)...); err != nil {
		return "", fmt.Errorf("seed insert: %w", err)
	}
	return id, nil
}
