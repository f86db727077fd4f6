package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/campus-admin-api/internal/dto"
	"github.com/noah-isme/campus-admin-api/internal/models"
	appErrors "github.com/noah-isme/campus-admin-api/pkg/errors"
	"github.com/noah-isme/campus-admin-api/pkg/spreadsheet"
)

const (
	studentsSheet      = "Students"
	referenceSheet     = "Reference Data"
	referenceRowCap    = 1000
	maxReportedErrors  = 5
	defaultImportPass  = "Student123!"
	defaultBulkTextPwd = "password123"
)

var studentTemplateHeader = []string{"Full Name", "Username", "Password", "Department Code", "Year Name", "Semester Name", "Section Name"}

type importUserStore interface {
	ExistingUsernames(ctx context.Context, usernames []string) (map[string]struct{}, error)
	FindByUsernames(ctx context.Context, usernames []string) ([]models.User, error)
	BulkCreate(ctx context.Context, users []models.User) (int, error)
	AssignSection(ctx context.Context, userIDs []string, sectionID string) (int, error)
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type hierarchyLoader interface {
	LoadFull(ctx context.Context, filter models.HierarchyFilter) ([]models.HierarchyRow, error)
	SectionDepartmentID(ctx context.Context, sectionID string) (string, error)
}

// ImportRow is one student line of a spreadsheet upload. Number is the 1-based sheet row.
type ImportRow struct {
	Number         int
	Name           string
	Username       string
	Password       string
	DepartmentCode string
	YearName       string
	SemesterName   string
	SectionName    string
}

// ImportConfig holds the default passwords applied to bulk-created students.
type ImportConfig struct {
	DefaultPassword     string
	TextDefaultPassword string
}

// ImportService creates students in bulk from spreadsheets or pasted text.
type ImportService struct {
	users     importUserStore
	hierarchy hierarchyLoader
	metrics   *MetricsService
	cfg       ImportConfig
	logger    *zap.Logger
	hashCost  int
}

// NewImportService constructs the bulk import service.
func NewImportService(users importUserStore, hierarchy hierarchyLoader, metrics *MetricsService, cfg ImportConfig, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultPassword == "" {
		cfg.DefaultPassword = defaultImportPass
	}
	if cfg.TextDefaultPassword == "" {
		cfg.TextDefaultPassword = defaultBulkTextPwd
	}
	return &ImportService{users: users, hierarchy: hierarchy, metrics: metrics, cfg: cfg, logger: logger, hashCost: bcrypt.DefaultCost}
}

// hierarchyIndex holds the case-insensitive lookups built from one full hierarchy load.
type hierarchyIndex struct {
	departments map[string]string
	sections    map[string]string
}

func sectionKey(dept, year, semester, section string) string {
	return strings.ToLower(strings.Join([]string{
		strings.TrimSpace(dept), strings.TrimSpace(year), strings.TrimSpace(semester), strings.TrimSpace(section),
	}, "|"))
}

func buildHierarchyIndex(rows []models.HierarchyRow) hierarchyIndex {
	idx := hierarchyIndex{departments: make(map[string]string), sections: make(map[string]string)}
	for _, row := range rows {
		code := strings.ToLower(strings.TrimSpace(row.DepartmentCode))
		if _, ok := idx.departments[code]; !ok {
			idx.departments[code] = row.DepartmentID
		}
		if row.SectionID == nil {
			continue
		}
		key := sectionKey(row.DepartmentCode, derefString(row.AcademicYearName), derefString(row.SemesterName), derefString(row.SectionName))
		if _, ok := idx.sections[key]; !ok {
			idx.sections[key] = *row.SectionID
		}
	}
	return idx
}

// ParseStudentRows converts sheet rows into import rows. Row 1 is the header and fully empty rows
// are dropped.
func ParseStudentRows(rows [][]string) []ImportRow {
	var out []ImportRow
	for i, row := range rows {
		if i == 0 {
			continue
		}
		empty := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}
		out = append(out, ImportRow{
			Number:         i + 1,
			Name:           spreadsheet.Cell(row, 0),
			Username:       spreadsheet.Cell(row, 1),
			Password:       spreadsheet.Cell(row, 2),
			DepartmentCode: spreadsheet.Cell(row, 3),
			YearName:       spreadsheet.Cell(row, 4),
			SemesterName:   spreadsheet.Cell(row, 5),
			SectionName:    spreadsheet.Cell(row, 6),
		})
	}
	return out
}

// ImportWorkbook reads the Students sheet (or the first sheet) and imports its rows.
func (s *ImportService) ImportWorkbook(ctx context.Context, actor models.Actor, r io.Reader, meta models.LoginRequest) (*dto.ImportResult, error) {
	if err := authorize(actor, models.RolesAdmin...); err != nil {
		return nil, err
	}
	rows, err := spreadsheet.ReadRows(r, studentsSheet)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "could not read spreadsheet")
	}
	return s.ImportStudents(ctx, actor, ParseStudentRows(rows), meta)
}

// ImportStudents resolves every row against the hierarchy and bulk-inserts the valid, new ones.
// Invalid rows are rejected individually and never abort the batch.
func (s *ImportService) ImportStudents(ctx context.Context, actor models.Actor, rows []ImportRow, meta models.LoginRequest) (*dto.ImportResult, error) {
	if err := authorize(actor, models.RolesAdmin...); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no student rows found")
	}

	full, err := s.hierarchy.LoadFull(ctx, models.HierarchyFilter{})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load hierarchy")
	}
	idx := buildHierarchyIndex(full)

	var (
		rowErrors []string
		resolved  []models.User
		seen      = make(map[string]int)
		hashes    = make(map[string]string)
	)
	for _, row := range rows {
		username := strings.TrimSpace(row.Username)
		deptCode := strings.TrimSpace(row.DepartmentCode)
		if username == "" || deptCode == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: Missing Username or Department Code", row.Number))
			continue
		}
		deptID, ok := idx.departments[strings.ToLower(deptCode)]
		if !ok {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: Department code '%s' not found.", row.Number, deptCode))
			continue
		}

		var sectionID *string
		if section := strings.TrimSpace(row.SectionName); section != "" {
			id, ok := idx.sections[sectionKey(deptCode, row.YearName, row.SemesterName, section)]
			if !ok {
				rowErrors = append(rowErrors, fmt.Sprintf("Row %d: Section '%s' not found in hierarchy.", row.Number, section))
				continue
			}
			sectionID = &id
		}

		if _, dup := seen[username]; dup {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: Duplicate username '%s' in upload.", row.Number, username))
			continue
		}
		seen[username] = row.Number

		password := strings.TrimSpace(row.Password)
		if password == "" {
			password = s.cfg.DefaultPassword
		}
		hash, err := s.hash(hashes, password)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSpace(row.Name)
		if name == "" {
			name = username
		}
		dept := deptID
		resolved = append(resolved, models.User{
			Name:         name,
			Username:     username,
			PasswordHash: hash,
			Role:         models.RoleStudent,
			DepartmentID: &dept,
			SectionID:    sectionID,
			Active:       true,
		})
	}

	result := &dto.ImportResult{Rejected: len(rowErrors)}
	result.Errors, result.MoreErrors = capErrors(rowErrors)

	if len(resolved) > 0 {
		usernames := make([]string, 0, len(resolved))
		for _, u := range resolved {
			usernames = append(usernames, u.Username)
		}
		existing, err := s.users.ExistingUsernames(ctx, usernames)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to check existing usernames")
		}
		fresh := resolved[:0]
		for _, u := range resolved {
			if _, taken := existing[u.Username]; taken {
				result.Skipped++
				continue
			}
			fresh = append(fresh, u)
		}
		if len(fresh) > 0 {
			inserted, err := s.users.BulkCreate(ctx, fresh)
			if err != nil {
				s.logger.Error("bulk student insert failed", zap.Error(err))
				return nil, appErrors.Internal(err, "failed to import students")
			}
			result.Imported = inserted
			result.Skipped += len(fresh) - inserted
		}
	}

	result.Message = importMessage(result, len(resolved))
	s.metrics.StudentsImported(result.Imported, result.Rejected)
	s.recordImport(ctx, actor, result, meta)
	return result, nil
}

func (s *ImportService) hash(memo map[string]string, password string) (string, error) {
	if hash, ok := memo[password]; ok {
		return hash, nil
	}
	raw, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", appErrors.Internal(err, "failed to hash password")
	}
	memo[password] = string(raw)
	return string(raw), nil
}

func capErrors(all []string) ([]string, int) {
	if len(all) <= maxReportedErrors {
		if all == nil {
			return []string{}, 0
		}
		return all, 0
	}
	return all[:maxReportedErrors], len(all) - maxReportedErrors
}

func importMessage(result *dto.ImportResult, resolved int) string {
	var msg string
	switch {
	case resolved > 0 && result.Skipped == resolved:
		msg = "All usernames already exist."
	default:
		msg = fmt.Sprintf("Imported %d students.", result.Imported)
		if result.Skipped > 0 {
			msg += fmt.Sprintf(" Skipped %d existing usernames.", result.Skipped)
		}
	}
	if len(result.Errors) > 0 {
		msg += " Errors: " + strings.Join(result.Errors, "; ")
		if result.MoreErrors > 0 {
			msg += fmt.Sprintf(" ...and %d more", result.MoreErrors)
		}
	}
	return msg
}

func (s *ImportService) recordImport(ctx context.Context, actor models.Actor, result *dto.ImportResult, meta models.LoginRequest) {
	payload, _ := json.Marshal(map[string]int{"imported": result.Imported, "rejected": result.Rejected, "skipped": result.Skipped})
	actorID := actor.UserID
	if err := s.users.CreateAuditLog(ctx, &models.AuditLog{
		UserID:    &actorID,
		Action:    models.AuditActionStudentImport,
		Resource:  models.AuditResourceUsers,
		NewValues: payload,
		IPAddress: meta.IP,
		UserAgent: meta.UserAgent,
	}); err != nil {
		s.logger.Warn("failed to record import audit log", zap.Error(err))
	}
}

// Template renders the import workbook: the Students sheet with an example row and a Reference
// Data sheet listing every section path.
func (s *ImportService) Template(ctx context.Context, actor models.Actor) ([]byte, error) {
	if err := authorize(actor, models.RolesAdmin...); err != nil {
		return nil, err
	}
	full, err := s.hierarchy.LoadFull(ctx, models.HierarchyFilter{})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load hierarchy")
	}

	example := []string{"John Doe", "john.doe", defaultImportPass, "CS", "Year 1", "Semester 1", "A"}
	for _, row := range full {
		if row.SectionID != nil {
			example = []string{"John Doe", "john.doe", s.cfg.DefaultPassword, row.DepartmentCode,
				derefString(row.AcademicYearName), derefString(row.SemesterName), derefString(row.SectionName)}
			break
		}
	}

	var reference [][]string
	for _, row := range full {
		if row.SectionID == nil {
			continue
		}
		if len(reference) == referenceRowCap {
			break
		}
		reference = append(reference, []string{
			row.CollegeName, row.DepartmentName, row.DepartmentCode,
			derefString(row.AcademicYearName), derefString(row.SemesterName), derefString(row.SectionName),
		})
	}

	data, err := spreadsheet.Write(
		spreadsheet.Sheet{Name: studentsSheet, Header: studentTemplateHeader, Rows: [][]string{example}, ColWidth: 20},
		spreadsheet.Sheet{Name: referenceSheet, Header: []string{"College", "Department", "Department Code", "Year", "Semester", "Section"}, Rows: reference, ColWidth: 20},
	)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to build template")
	}
	return data, nil
}

// BulkText places the students named in rawText into a section, creating missing accounts.
// Each line is "Name, Username" or "Name<TAB>Username".
func (s *ImportService) BulkText(ctx context.Context, actor models.Actor, sectionID string, req dto.BulkTextRequest) (*dto.BulkTextResult, error) {
	if err := authorize(actor, models.RolesAdmin...); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.RawText) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "rawText is required")
	}

	deptID, err := s.hierarchy.SectionDepartmentID(ctx, sectionID)
	if err != nil {
		return nil, repoError(err, "section not found", "failed to resolve section")
	}

	type entry struct{ name, username string }
	var (
		entries   []entry
		lineErrs  []string
		seen      = make(map[string]struct{})
		usernames []string
	)
	for i, line := range strings.Split(req.RawText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		sep := ","
		if strings.Contains(line, "\t") {
			sep = "\t"
		}
		parts := strings.SplitN(line, sep, 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
			lineErrs = append(lineErrs, fmt.Sprintf("Line %d: Expected 'Name, Username'", i+1))
			continue
		}
		e := entry{name: strings.TrimSpace(parts[0]), username: strings.TrimSpace(parts[1])}
		if _, dup := seen[e.username]; dup {
			lineErrs = append(lineErrs, fmt.Sprintf("Line %d: Duplicate username '%s' in upload.", i+1, e.username))
			continue
		}
		seen[e.username] = struct{}{}
		entries = append(entries, e)
		usernames = append(usernames, e.username)
	}

	result := &dto.BulkTextResult{Rejected: len(lineErrs)}
	result.Errors, result.MoreErrors = capErrors(lineErrs)
	if len(entries) == 0 {
		return result, nil
	}

	existing, err := s.users.FindByUsernames(ctx, usernames)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to look up users")
	}
	existingIDs := make(map[string]string, len(existing))
	for _, u := range existing {
		existingIDs[u.Username] = u.ID
	}

	var (
		moveIDs  []string
		newUsers []models.User
	)
	hash, err := s.hash(map[string]string{}, s.cfg.TextDefaultPassword)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if id, ok := existingIDs[e.username]; ok {
			moveIDs = append(moveIDs, id)
			continue
		}
		dept, section := deptID, sectionID
		newUsers = append(newUsers, models.User{
			Name:         e.name,
			Username:     e.username,
			PasswordHash: hash,
			Role:         models.RoleStudent,
			DepartmentID: &dept,
			SectionID:    &section,
			Active:       true,
		})
	}

	if len(moveIDs) > 0 {
		updated, err := s.users.AssignSection(ctx, moveIDs, sectionID)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to assign students to section")
		}
		result.Updated = updated
	}
	if len(newUsers) > 0 {
		created, err := s.users.BulkCreate(ctx, newUsers)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to create students")
		}
		result.Created = created
	}
	s.metrics.StudentsImported(result.Created, result.Rejected)
	return result, nil
}
