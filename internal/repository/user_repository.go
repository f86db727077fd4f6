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

const userColumns = `id, name, username, password_hash, role, department_id, section_id, active, last_login, created_at, updated_at`

// UserRepository provides database access for user management.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByUsername returns a user by username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		if isNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return &user, nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if isNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// Profile returns a user together with department and section names.
func (r *UserRepository) Profile(ctx context.Context, id string) (*models.UserProfile, error) {
	const query = `SELECT u.id, u.name, u.username, u.password_hash, u.role, u.department_id, u.section_id, u.active, u.last_login, u.created_at, u.updated_at,
d.name AS department_name, d.code AS department_code, s.name AS section_name
FROM users u
LEFT JOIN departments d ON d.id = u.department_id
LEFT JOIN sections s ON s.id = u.section_id
WHERE u.id = $1`
	var profile models.UserProfile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		if isNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return &profile, nil
}

// FindByUsernames returns the users whose username is in the list.
func (r *UserRepository) FindByUsernames(ctx context.Context, usernames []string) ([]models.User, error) {
	if len(usernames) == 0 {
		return nil, nil
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ANY($1)`
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, pq.Array(usernames)); err != nil {
		return nil, fmt.Errorf("find users by username: %w", err)
	}
	return users, nil
}

// ExistingUsernames returns the subset of usernames already taken.
func (r *UserRepository) ExistingUsernames(ctx context.Context, usernames []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{})
	if len(usernames) == 0 {
		return existing, nil
	}
	var taken []string
	if err := r.db.SelectContext(ctx, &taken, `SELECT username FROM users WHERE username = ANY($1)`, pq.Array(usernames)); err != nil {
		return nil, fmt.Errorf("check existing usernames: %w", err)
	}
	for _, name := range taken {
		existing[name] = struct{}{}
	}
	return existing, nil
}

// UpdateLastLogin updates the last_login timestamp for a user.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	const query = `UPDATE users SET last_login = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, ts, ts); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// UpdatePassword updates the stored password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	const query = `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, passwordHash, updatedAt); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// List returns active users based on filters with total count.
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	where := squirrel.And{squirrel.Eq{"active": true}}
	if filter.Role != nil {
		where = append(where, squirrel.Eq{"role": *filter.Role})
	}
	if strings.TrimSpace(filter.Search) != "" {
		pattern := likePattern(filter.Search)
		where = append(where, squirrel.Or{
			squirrel.Like{"LOWER(name)": pattern},
			squirrel.Like{"LOWER(username)": pattern},
		})
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{"name": true, "username": true, "created_at": true, "updated_at": true}
	if !allowedSorts[sortBy] {
		sortBy = "created_at"
	}
	sortOrder := strings.ToUpper(filter.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "DESC"
	}
	page, size := models.NormalizePage(filter.Page, filter.PageSize)

	query, args, err := psql.Select(userColumns).From("users").Where(where).
		OrderBy(sortBy + " " + sortOrder).
		Limit(uint64(size)).Offset(pageOffset(page, size)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list users: %w", err)
	}
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	countQuery, countArgs, err := psql.Select("COUNT(*)").From("users").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count users: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	return users, total, nil
}

// ListStudents returns students matching the most specific hierarchy filter supplied.
func (r *UserRepository) ListStudents(ctx context.Context, filter models.StudentFilter) ([]models.UserProfile, int, error) {
	where := squirrel.And{squirrel.Eq{"u.role": models.RoleStudent}, squirrel.Eq{"u.active": true}}
	switch {
	case filter.SectionID != "":
		where = append(where, squirrel.Eq{"u.section_id": filter.SectionID})
	case filter.SemesterID != "":
		where = append(where, squirrel.Eq{"s.semester_id": filter.SemesterID})
	case filter.AcademicYearID != "":
		where = append(where, squirrel.Eq{"sem.academic_year_id": filter.AcademicYearID})
	case filter.DepartmentID != "":
		where = append(where, squirrel.Eq{"u.department_id": filter.DepartmentID})
	}
	if strings.TrimSpace(filter.Search) != "" {
		pattern := likePattern(filter.Search)
		where = append(where, squirrel.Or{
			squirrel.Like{"LOWER(u.name)": pattern},
			squirrel.Like{"LOWER(u.username)": pattern},
		})
	}

	from := func(b squirrel.SelectBuilder) squirrel.SelectBuilder {
		return b.From("users u").
			LeftJoin("departments d ON d.id = u.department_id").
			LeftJoin("sections s ON s.id = u.section_id").
			LeftJoin("semesters sem ON sem.id = s.semester_id").
			Where(where)
	}

	page, size := models.NormalizePage(filter.Page, filter.PageSize)
	query, args, err := from(psql.Select(
		"u.id", "u.name", "u.username", "u.password_hash", "u.role", "u.department_id", "u.section_id",
		"u.active", "u.last_login", "u.created_at", "u.updated_at",
		"d.name AS department_name", "d.code AS department_code", "s.name AS section_name",
	)).OrderBy("u.name ASC").Limit(uint64(size)).Offset(pageOffset(page, size)).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list students: %w", err)
	}
	var students []models.UserProfile
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery, countArgs, err := from(psql.Select("COUNT(*)")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count students: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

func prepareUser(user *models.User, now time.Time) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
}

const insertUser = `INSERT INTO users (id, name, username, password_hash, role, department_id, section_id, active, created_at, updated_at)
VALUES (:id, :name, :username, :password_hash, :role, :department_id, :section_id, :active, :created_at, :updated_at)`

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	prepareUser(user, time.Now().UTC())
	if _, err := r.db.NamedExecContext(ctx, insertUser, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// BulkCreate inserts users in one transaction, silently skipping usernames that already exist.
// It returns how many rows were inserted.
func (r *UserRepository) BulkCreate(ctx context.Context, users []models.User) (inserted int, err error) {
	if len(users) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin bulk user insert: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	for i := range users {
		prepareUser(&users[i], now)
		res, execErr := tx.NamedExecContext(ctx, insertUser+` ON CONFLICT (username) DO NOTHING`, &users[i])
		if execErr != nil {
			err = fmt.Errorf("bulk insert user %s: %w", users[i].Username, execErr)
			return 0, err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted += int(n)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit bulk user insert: %w", err)
	}
	return inserted, nil
}

// Update updates mutable fields of a user.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	const query = `UPDATE users SET name = :name, username = :username, password_hash = :password_hash, role = :role,
department_id = :department_id, section_id = :section_id, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return expectAffected(res)
}

// AssignSection moves the given users into a section.
func (r *UserRepository) AssignSection(ctx context.Context, userIDs []string, sectionID string) (int, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	res, err := r.db.ExecContext(ctx, `UPDATE users SET section_id = $1, updated_at = $2 WHERE id = ANY($3)`, sectionID, time.Now().UTC(), pq.Array(userIDs))
	if err != nil {
		return 0, fmt.Errorf("assign section: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// Delete performs a soft delete by marking the user inactive.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	const query = `UPDATE users SET active = FALSE, updated_at = $2 WHERE id = $1 AND active = TRUE`
	res, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return expectAffected(res)
}

// CreateRefreshToken persists a refresh token entry.
func (r *UserRepository) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO refresh_tokens (id, user_id, token, expires_at, created_at, revoked, revoked_at, ip_address, user_agent) VALUES (:id, :user_id, :token, :expires_at, :created_at, :revoked, :revoked_at, :ip_address, :user_agent)`
	if _, err := r.db.NamedExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}
	return nil
}

// FindRefreshToken returns a refresh token by token string.
func (r *UserRepository) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	const query = `SELECT id, user_id, token, expires_at, created_at, revoked, revoked_at, ip_address, user_agent FROM refresh_tokens WHERE token = $1 LIMIT 1`
	var rt models.RefreshToken
	if err := r.db.GetContext(ctx, &rt, query, token); err != nil {
		if isNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	return &rt, nil
}

// RevokeRefreshToken marks a token as revoked.
func (r *UserRepository) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	const query = `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, revokedAt); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// RevokeUserRefreshTokens revokes all refresh tokens for a user.
func (r *UserRepository) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	const query = `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $2 WHERE user_id = $1 AND revoked = FALSE`
	if _, err := r.db.ExecContext(ctx, query, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("revoke user refresh tokens: %w", err)
	}
	return nil
}

// CreateAuditLog stores an audit log entry.
func (r *UserRepository) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO audit_logs (id, user_id, action, resource, resource_id, old_values, new_values, ip_address, user_agent, created_at) VALUES (:id, :user_id, :action, :resource, :resource_id, :old_values, :new_values, :ip_address, :user_agent, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}
