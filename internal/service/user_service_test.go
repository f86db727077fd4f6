package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/campus-admin-api/internal/dto"
	"github.com/noah-isme/campus-admin-api/internal/models"
	appErrors "github.com/noah-isme/campus-admin-api/pkg/errors"
)

type mockUserRepo struct {
	users     map[string]*models.User
	listUsers []models.User
	listCount int
	createErr error
	passwords map[string]string
	auditLogs []*models.AuditLog
}

func (m *mockUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	return m.listUsers, m.listCount, nil
}

func (m *mockUserRepo) ListStudents(ctx context.Context, filter models.StudentFilter) ([]models.UserProfile, int, error) {
	var out []models.UserProfile
	for _, u := range m.users {
		if u.Role == models.RoleStudent {
			out = append(out, models.UserProfile{User: *u})
		}
	}
	return out, len(out), nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		copy := *user
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) Profile(ctx context.Context, id string) (*models.UserProfile, error) {
	user, err := m.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.UserProfile{User: *user}, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.users == nil {
		m.users = make(map[string]*models.User)
	}
	if user.ID == "" {
		user.ID = "new-user"
	}
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return sql.ErrNoRows
	}
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	if m.passwords == nil {
		m.passwords = make(map[string]string)
	}
	m.passwords[id] = passwordHash
	m.users[id].PasswordHash = passwordHash
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	if user, ok := m.users[id]; ok {
		user.Active = false
		return nil
	}
	return sql.ErrNoRows
}

func (m *mockUserRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

type mockSectionEnroller struct {
	calls []string
}

func (m *mockSectionEnroller) EnrollIntoSectionCourses(ctx context.Context, userID, sectionID string) (int, error) {
	m.calls = append(m.calls, userID+"@"+sectionID)
	return 2, nil
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestUserServiceList(t *testing.T) {
	repo := &mockUserRepo{listUsers: []models.User{{ID: "1", Username: "a"}}, listCount: 1}
	svc := NewUserService(repo, nil, validator.New(), zap.NewNop())

	users, pagination, err := svc.List(context.Background(), adminActor, models.UserFilter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 1, pagination.TotalCount)
	assert.Equal(t, 10, pagination.PageSize)
}

func TestUserServiceListRequiresAdmin(t *testing.T) {
	svc := NewUserService(&mockUserRepo{}, nil, validator.New(), zap.NewNop())

	_, _, err := svc.List(context.Background(), teacherActor, models.UserFilter{})
	requireAppError(t, err, appErrors.ErrForbidden)

	_, _, err = svc.List(context.Background(), models.Actor{}, models.UserFilter{})
	requireAppError(t, err, appErrors.ErrUnauthorized)
}

func TestUserServiceListStudentsAllowsTeachers(t *testing.T) {
	repo := &mockUserRepo{users: map[string]*models.User{
		"s1": {ID: "s1", Role: models.RoleStudent},
		"t1": {ID: "t1", Role: models.RoleTeacher},
	}}
	svc := NewUserService(repo, nil, validator.New(), zap.NewNop())

	students, _, err := svc.ListStudents(context.Background(), teacherActor, models.StudentFilter{})
	require.NoError(t, err)
	assert.Len(t, students, 1)

	_, _, err = svc.ListStudents(context.Background(), studentActor, models.StudentFilter{})
	requireAppError(t, err, appErrors.ErrForbidden)
}

func TestUserServiceCreateAutoEnrollsSectionStudent(t *testing.T) {
	repo := &mockUserRepo{users: make(map[string]*models.User)}
	enroller := &mockSectionEnroller{}
	svc := NewUserService(repo, enroller, validator.New(), zap.NewNop())

	user, err := svc.Create(context.Background(), adminActor, dto.CreateUserRequest{
		Name: " Jane ", Username: "jane", Password: "secret1", Role: models.RoleStudent, SectionID: strPtr("sec-1"),
	}, models.LoginRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Jane", user.Name)
	assert.True(t, user.Active)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")))
	assert.Equal(t, []string{user.ID + "@sec-1"}, enroller.calls)
	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionUserCreate, repo.auditLogs[0].Action)
}

func TestUserServiceCreateDuplicateUsername(t *testing.T) {
	repo := &mockUserRepo{createErr: &pq.Error{Code: "23505"}}
	svc := NewUserService(repo, nil, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), adminActor, dto.CreateUserRequest{
		Name: "Jane", Username: "jane", Password: "secret1", Role: models.RoleStudent,
	}, models.LoginRequest{})
	requireAppError(t, err, appErrors.ErrConflict)
}

func TestUserServiceCreateValidation(t *testing.T) {
	svc := NewUserService(&mockUserRepo{}, nil, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), adminActor, dto.CreateUserRequest{
		Name: "Jane", Username: "jane", Password: "123", Role: "JANITOR",
	}, models.LoginRequest{})
	requireAppError(t, err, appErrors.ErrValidation)
}

func TestUserServiceUpdateSectionChangeEnrolls(t *testing.T) {
	repo := &mockUserRepo{users: map[string]*models.User{
		"1": {ID: "1", Username: "a", Name: "Old", Role: models.RoleStudent, Active: true, SectionID: strPtr("sec-1")},
	}}
	enroller := &mockSectionEnroller{}
	svc := NewUserService(repo, enroller, validator.New(), zap.NewNop())

	role := models.RoleStudent
	user, err := svc.Update(context.Background(), adminActor, "1", dto.UpdateUserRequest{
		Name: strPtr("New"), Role: &role, SectionID: strPtr("sec-2"), Password: strPtr("changed1"),
	}, models.LoginRequest{})
	require.NoError(t, err)
	assert.Equal(t, "New", user.Name)
	assert.Equal(t, "sec-2", *user.SectionID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.users["1"].PasswordHash), []byte("changed1")))
	assert.Equal(t, []string{"1@sec-2"}, enroller.calls)
	assert.NotEmpty(t, repo.auditLogs)
}

func TestUserServiceUpdateSameSectionSkipsEnroll(t *testing.T) {
	repo := &mockUserRepo{users: map[string]*models.User{
		"1": {ID: "1", Username: "a", Role: models.RoleStudent, SectionID: strPtr("sec-1")},
	}}
	enroller := &mockSectionEnroller{}
	svc := NewUserService(repo, enroller, validator.New(), zap.NewNop())

	_, err := svc.Update(context.Background(), adminActor, "1", dto.UpdateUserRequest{SectionID: strPtr("sec-1")}, models.LoginRequest{})
	require.NoError(t, err)
	assert.Empty(t, enroller.calls)
}

func TestUserServiceUpdateMissing(t *testing.T) {
	svc := NewUserService(&mockUserRepo{users: map[string]*models.User{}}, nil, validator.New(), zap.NewNop())

	_, err := svc.Update(context.Background(), adminActor, "ghost", dto.UpdateUserRequest{Name: strPtr("x")}, models.LoginRequest{})
	requireAppError(t, err, appErrors.ErrNotFound)
}

func TestUserServiceDelete(t *testing.T) {
	repo := &mockUserRepo{users: map[string]*models.User{"1": {ID: "1", Username: "a", Role: models.RoleTeacher, Active: true}}}
	svc := NewUserService(repo, nil, validator.New(), zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), adminActor, "1", models.LoginRequest{}))
	assert.False(t, repo.users["1"].Active)
	assert.NotEmpty(t, repo.auditLogs)
}

func TestUserServiceDeleteSelfRejected(t *testing.T) {
	repo := &mockUserRepo{users: map[string]*models.User{adminActor.UserID: {ID: adminActor.UserID, Active: true}}}
	svc := NewUserService(repo, nil, validator.New(), zap.NewNop())

	err := svc.Delete(context.Background(), adminActor, adminActor.UserID, models.LoginRequest{})
	requireAppError(t, err, appErrors.ErrValidation)
	assert.True(t, repo.users[adminActor.UserID].Active)
}

func TestUserServiceUpdateProfileNoChanges(t *testing.T) {
	repo := &mockUserRepo{users: map[string]*models.User{studentActor.UserID: {ID: studentActor.UserID, Name: "Sam"}}}
	svc := NewUserService(repo, nil, validator.New(), zap.NewNop())

	_, err := svc.UpdateProfile(context.Background(), studentActor, dto.UpdateProfileRequest{Name: strPtr("Sam")})
	appErr := requireAppError(t, err, appErrors.ErrNoChanges)
	assert.Equal(t, "No changes made", appErr.Message)
}

func TestUserServiceUpdateProfilePassword(t *testing.T) {
	repo := &mockUserRepo{users: map[string]*models.User{
		studentActor.UserID: {ID: studentActor.UserID, Name: "Sam", PasswordHash: hashed(t, "oldpass")},
	}}
	svc := NewUserService(repo, nil, validator.New(), zap.NewNop())
	ctx := context.Background()

	_, err := svc.UpdateProfile(ctx, studentActor, dto.UpdateProfileRequest{CurrentPassword: "wrong1", NewPassword: "newpass", ConfirmPassword: "newpass"})
	requireAppError(t, err, appErrors.ErrForbidden)

	_, err = svc.UpdateProfile(ctx, studentActor, dto.UpdateProfileRequest{CurrentPassword: "oldpass", NewPassword: "newpass", ConfirmPassword: "other1"})
	requireAppError(t, err, appErrors.ErrValidation)

	_, err = svc.UpdateProfile(ctx, studentActor, dto.UpdateProfileRequest{NewPassword: "newpass", ConfirmPassword: "newpass"})
	requireAppError(t, err, appErrors.ErrValidation)

	profile, err := svc.UpdateProfile(ctx, studentActor, dto.UpdateProfileRequest{CurrentPassword: "oldpass", NewPassword: "newpass", ConfirmPassword: "newpass"})
	require.NoError(t, err)
	assert.Equal(t, "Sam", profile.Name)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.passwords[studentActor.UserID]), []byte("newpass")))
	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionPasswordChange, repo.auditLogs[0].Action)
}
