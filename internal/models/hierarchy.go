package models

import "time"

// College is the root of the institutional hierarchy.
type College struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Code      string    `db:"code" json:"code"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Department belongs to a college.
type Department struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Code      string    `db:"code" json:"code"`
	CollegeID string    `db:"college_id" json:"college_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Program belongs to a department.
type Program struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Code         *string   `db:"code" json:"code,omitempty"`
	DepartmentID string    `db:"department_id" json:"department_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// AcademicYear belongs to a program.
type AcademicYear struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	ProgramID string    `db:"program_id" json:"program_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Semester belongs to an academic year.
type Semester struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	SemesterNumber int       `db:"semester_number" json:"semester_number"`
	AcademicYearID string    `db:"academic_year_id" json:"academic_year_id"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Section is the leaf of the hierarchy; students belong to one section.
type Section struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	SemesterID string    `db:"semester_id" json:"semester_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// HierarchyRow is one flattened path of the full hierarchy load. Columns below the deepest
// existing level are nil because the load left-joins downward from departments.
type HierarchyRow struct {
	CollegeID        string  `db:"college_id" json:"college_id"`
	CollegeName      string  `db:"college_name" json:"college_name"`
	CollegeCode      string  `db:"college_code" json:"college_code"`
	DepartmentID     string  `db:"department_id" json:"department_id"`
	DepartmentName   string  `db:"department_name" json:"department_name"`
	DepartmentCode   string  `db:"department_code" json:"department_code"`
	ProgramID        *string `db:"program_id" json:"program_id,omitempty"`
	ProgramName      *string `db:"program_name" json:"program_name,omitempty"`
	AcademicYearID   *string `db:"academic_year_id" json:"academic_year_id,omitempty"`
	AcademicYearName *string `db:"academic_year_name" json:"academic_year_name,omitempty"`
	SemesterID       *string `db:"semester_id" json:"semester_id,omitempty"`
	SemesterName     *string `db:"semester_name" json:"semester_name,omitempty"`
	SemesterNumber   *int    `db:"semester_number" json:"semester_number,omitempty"`
	SectionID        *string `db:"section_id" json:"section_id,omitempty"`
	SectionName      *string `db:"section_name" json:"section_name,omitempty"`
}

// HierarchyFilter scopes the full hierarchy load.
type HierarchyFilter struct {
	CollegeID    string
	DepartmentID string
	ProgramID    string
}

// CollegeNode is the nested tree representation of the hierarchy.
type CollegeNode struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Code        string           `json:"code"`
	Departments []DepartmentNode `json:"departments"`
}

// DepartmentNode is a department within the tree.
type DepartmentNode struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Code     string        `json:"code"`
	Programs []ProgramNode `json:"programs"`
}

// ProgramNode is a program within the tree.
type ProgramNode struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	AcademicYears []AcademicYearNode `json:"academic_years"`
}

// AcademicYearNode is an academic year within the tree.
type AcademicYearNode struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Semesters []SemesterNode `json:"semesters"`
}

// SemesterNode is a semester within the tree.
type SemesterNode struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	SemesterNumber int       `json:"semester_number"`
	Sections       []Section `json:"sections"`
}

// SectionDetail is a section with its students and linked courses.
type SectionDetail struct {
	Section
	SemesterName string   `json:"semester_name"`
	Students     []User   `json:"students"`
	Courses      []Course `json:"courses"`
}
