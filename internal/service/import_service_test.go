package service

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/campus-admin-api/internal/dto"
	"github.com/noah-isme/campus-admin-api/internal/models"
	appErrors "github.com/noah-isme/campus-admin-api/pkg/errors"
	"github.com/noah-isme/campus-admin-api/pkg/spreadsheet"
)

type fakeImportStore struct {
	existing  map[string]models.User
	created   []models.User
	assigned  []string
	auditLogs []*models.AuditLog
}

func (f *fakeImportStore) ExistingUsernames(ctx context.Context, usernames []string) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	for _, name := range usernames {
		if _, ok := f.existing[name]; ok {
			out[name] = struct{}{}
		}
	}
	return out, nil
}

func (f *fakeImportStore) FindByUsernames(ctx context.Context, usernames []string) ([]models.User, error) {
	var out []models.User
	for _, name := range usernames {
		if u, ok := f.existing[name]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeImportStore) BulkCreate(ctx context.Context, users []models.User) (int, error) {
	f.created = append(f.created, users...)
	return len(users), nil
}

func (f *fakeImportStore) AssignSection(ctx context.Context, userIDs []string, sectionID string) (int, error) {
	f.assigned = append(f.assigned, userIDs...)
	return len(userIDs), nil
}

func (f *fakeImportStore) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	f.auditLogs = append(f.auditLogs, log)
	return nil
}

type fakeHierarchyLoader struct {
	rows []models.HierarchyRow
}

func (f *fakeHierarchyLoader) LoadFull(ctx context.Context, filter models.HierarchyFilter) ([]models.HierarchyRow, error) {
	return f.rows, nil
}

func (f *fakeHierarchyLoader) SectionDepartmentID(ctx context.Context, sectionID string) (string, error) {
	for _, row := range f.rows {
		if row.SectionID != nil && *row.SectionID == sectionID {
			return row.DepartmentID, nil
		}
	}
	return "", sql.ErrNoRows
}

func csHierarchy() *fakeHierarchyLoader {
	return &fakeHierarchyLoader{rows: []models.HierarchyRow{
		{
			CollegeID: "col-1", CollegeName: "Engineering", CollegeCode: "ENG",
			DepartmentID: "dept-cs", DepartmentName: "Computer Science", DepartmentCode: "CS",
			ProgramID: strPtr("prog-1"), ProgramName: strPtr("Regular"),
			AcademicYearID: strPtr("ay-1"), AcademicYearName: strPtr("Year 1"),
			SemesterID: strPtr("sem-1"), SemesterName: strPtr("Semester 1"),
			SectionID: strPtr("sec-a"), SectionName: strPtr("A"),
		},
		{CollegeID: "col-1", CollegeName: "Engineering", DepartmentID: "dept-ee", DepartmentName: "Electrical", DepartmentCode: "EE"},
	}}
}

func newTestImportService(store *fakeImportStore, loader *fakeHierarchyLoader) *ImportService {
	svc := NewImportService(store, loader, nil, ImportConfig{}, zap.NewNop())
	svc.hashCost = bcrypt.MinCost
	return svc
}

func TestImportStudentsResolvesCaseInsensitively(t *testing.T) {
	store := &fakeImportStore{}
	svc := newTestImportService(store, csHierarchy())

	result, err := svc.ImportStudents(context.Background(), adminActor, []ImportRow{
		{Number: 2, Name: "Ann", Username: "ann", DepartmentCode: "cs", YearName: "year 1", SemesterName: "SEMESTER 1", SectionName: " a "},
		{Number: 3, Username: "ben", DepartmentCode: "EE"},
	}, models.LoginRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 0, result.Rejected)
	require.Len(t, store.created, 2)
	assert.Equal(t, "sec-a", *store.created[0].SectionID)
	assert.Equal(t, "dept-cs", *store.created[0].DepartmentID)
	assert.Nil(t, store.created[1].SectionID)
	assert.Equal(t, "ben", store.created[1].Name)
	assert.Equal(t, models.RoleStudent, store.created[1].Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(store.created[1].PasswordHash), []byte("Student123!")))
	require.Len(t, store.auditLogs, 1)
	assert.Equal(t, models.AuditActionStudentImport, store.auditLogs[0].Action)
}

func TestImportStudentsRejectsRowsIndividually(t *testing.T) {
	store := &fakeImportStore{}
	svc := newTestImportService(store, csHierarchy())

	result, err := svc.ImportStudents(context.Background(), adminActor, []ImportRow{
		{Number: 2, Username: "ok", DepartmentCode: "CS", YearName: "Year 1", SemesterName: "Semester 1", SectionName: "A"},
		{Number: 3, Username: "lost", DepartmentCode: "CS", YearName: "Year 1", SemesterName: "Semester 1", SectionName: "Z"},
		{Number: 4, Username: "", DepartmentCode: "CS"},
		{Number: 5, Username: "x", DepartmentCode: "MATH"},
		{Number: 6, Username: "ok", DepartmentCode: "CS"},
	}, models.LoginRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 4, result.Rejected)
	assert.Equal(t, []string{
		"Row 3: Section 'Z' not found in hierarchy.",
		"Row 4: Missing Username or Department Code",
		"Row 5: Department code 'MATH' not found.",
		"Row 6: Duplicate username 'ok' in upload.",
	}, result.Errors)
	require.Len(t, store.created, 1)
	assert.Equal(t, "ok", store.created[0].Username)
	assert.Equal(t, "sec-a", *store.created[0].SectionID)
}

func TestImportStudentsCapsErrorSummary(t *testing.T) {
	svc := newTestImportService(&fakeImportStore{}, csHierarchy())
	var rows []ImportRow
	for i := 0; i < 8; i++ {
		rows = append(rows, ImportRow{Number: i + 2, Username: fmt.Sprintf("u%d", i), DepartmentCode: "NOPE"})
	}

	result, err := svc.ImportStudents(context.Background(), adminActor, rows, models.LoginRequest{})
	require.NoError(t, err)
	assert.Len(t, result.Errors, 5)
	assert.Equal(t, 3, result.MoreErrors)
	assert.Equal(t, 8, result.Rejected)
	assert.Contains(t, result.Message, "...and 3 more")
}

func TestImportStudentsAllExisting(t *testing.T) {
	store := &fakeImportStore{existing: map[string]models.User{"ann": {ID: "u1", Username: "ann"}}}
	svc := newTestImportService(store, csHierarchy())

	result, err := svc.ImportStudents(context.Background(), adminActor, []ImportRow{{Number: 2, Username: "ann", DepartmentCode: "CS"}}, models.LoginRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, "All usernames already exist.", result.Message)
	assert.Empty(t, store.created)
}

func TestImportStudentsRequiresAdmin(t *testing.T) {
	svc := newTestImportService(&fakeImportStore{}, csHierarchy())
	_, err := svc.ImportStudents(context.Background(), teacherActor, []ImportRow{{Number: 2}}, models.LoginRequest{})
	requireAppError(t, err, appErrors.ErrForbidden)
}

func TestParseStudentRowsSkipsHeaderAndBlankRows(t *testing.T) {
	rows := ParseStudentRows([][]string{
		studentTemplateHeader,
		{"Ann", "ann", "", "CS"},
		{"", " ", ""},
		{"Ben", "ben", "pw", "EE", "Year 1", "Semester 1", "A"},
	})
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Number)
	assert.Equal(t, "", rows[0].SectionName)
	assert.Equal(t, 4, rows[1].Number)
	assert.Equal(t, "A", rows[1].SectionName)
}

func TestImportWorkbookRoundTripsTemplate(t *testing.T) {
	store := &fakeImportStore{}
	svc := newTestImportService(store, csHierarchy())

	template, err := svc.Template(context.Background(), adminActor)
	require.NoError(t, err)

	reference, err := spreadsheet.ReadRows(bytes.NewReader(template), "Reference Data")
	require.NoError(t, err)
	require.Len(t, reference, 2)
	assert.Equal(t, []string{"Engineering", "Computer Science", "CS", "Year 1", "Semester 1", "A"}, reference[1])

	result, err := svc.ImportWorkbook(context.Background(), adminActor, bytes.NewReader(template), models.LoginRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	require.Len(t, store.created, 1)
	assert.Equal(t, "john.doe", store.created[0].Username)
	assert.Equal(t, "sec-a", *store.created[0].SectionID)
}

func TestBulkTextCreatesAndMovesStudents(t *testing.T) {
	store := &fakeImportStore{existing: map[string]models.User{"old": {ID: "u-old", Username: "old"}}}
	svc := newTestImportService(store, csHierarchy())

	result, err := svc.BulkText(context.Background(), adminActor, "sec-a", dto.BulkTextRequest{
		RawText: "New Student, fresh\nOld Student\told\n\nbroken line\nAgain, fresh\n",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 2, result.Rejected)
	assert.Equal(t, []string{"Line 4: Expected 'Name, Username'", "Line 5: Duplicate username 'fresh' in upload."}, result.Errors)
	assert.Equal(t, []string{"u-old"}, store.assigned)
	require.Len(t, store.created, 1)
	assert.Equal(t, "dept-cs", *store.created[0].DepartmentID)
	assert.Equal(t, "sec-a", *store.created[0].SectionID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(store.created[0].PasswordHash), []byte("password123")))
}

func TestBulkTextUnknownSection(t *testing.T) {
	svc := newTestImportService(&fakeImportStore{}, csHierarchy())
	_, err := svc.BulkText(context.Background(), adminActor, "ghost", dto.BulkTextRequest{RawText: "A, b"})
	requireAppError(t, err, appErrors.ErrNotFound)
}
