package dto

// CreateCollegeRequest creates a college.
type CreateCollegeRequest struct {
	Name string `json:"name" validate:"required"`
	Code string `json:"code" validate:"required"`
}

// CreateDepartmentRequest creates a department under a college.
type CreateDepartmentRequest struct {
	Name      string `json:"name" validate:"required"`
	Code      string `json:"code" validate:"required"`
	CollegeID string `json:"collegeId" validate:"required"`
}

// CreateProgramRequest creates a program under a department.
type CreateProgramRequest struct {
	Name         string  `json:"name" validate:"required"`
	Code         *string `json:"code"`
	DepartmentID string  `json:"departmentId" validate:"required"`
}

// CreateAcademicYearRequest creates an academic year under a program.
type CreateAcademicYearRequest struct {
	Name      string `json:"name" validate:"required"`
	ProgramID string `json:"programId" validate:"required"`
}

// CreateSemesterRequest creates a semester under an academic year.
type CreateSemesterRequest struct {
	Name           string `json:"name" validate:"required"`
	SemesterNumber int    `json:"semesterNumber" validate:"required,min=1"`
	AcademicYearID string `json:"academicYearId" validate:"required"`
}

// CreateSectionRequest creates a section under a semester.
type CreateSectionRequest struct {
	Name       string `json:"name" validate:"required"`
	SemesterID string `json:"semesterId" validate:"required"`
}

// UpdateSectionCoursesRequest replaces the courses linked to a section.
type UpdateSectionCoursesRequest struct {
	CourseIDs []string `json:"courseIds"`
}

// SectionCoursesResult reports the outcome of a section relink.
type SectionCoursesResult struct {
	SectionID        string   `json:"sectionId"`
	CourseIDs        []string `json:"courseIds"`
	EnrollmentsAdded int      `json:"enrollmentsAdded"`
}
