package marksheet

import (
	"strings"
)

// CourseColumn is one course of the semester course list.
// Order is the display position within the semester and drives the
// column group assignment.
type CourseColumn struct {
	Code        string  `yaml:"code"`
	Title       string  `yaml:"title"`
	Order       int     `yaml:"order"`
	Semester    int     `yaml:"semester"`
	Part        string  `yaml:"part"`
	Credit      float64 `yaml:"credit"`
	InternalMax float64 `yaml:"internal_max"`
	ExternalMax float64 `yaml:"external_max"`
	TotalMax    float64 `yaml:"total_max"`
	PassMarks   float64 `yaml:"pass_marks"`
	ResultType  string  `yaml:"result_type"` // "mark" or "status"
}

// MarkStatus flags a course attempt that did not produce a regular result.
type MarkStatus string

const (
	StatusRegular     MarkStatus = ""
	StatusAbsent      MarkStatus = "absent"
	StatusMalpractice MarkStatus = "malpractice"
	StatusIneligible  MarkStatus = "ineligible"
	StatusWithheld    MarkStatus = "withheld"
)

// CourseMarkData holds one student's marks for one course.
// Nil pointers mean the value is not available and renders as "-".
type CourseMarkData struct {
	CourseCode  string     `yaml:"course_code"`
	Semester    int        `yaml:"semester"`
	Internal    *float64   `yaml:"internal"`
	External    *float64   `yaml:"external"`
	Total       *float64   `yaml:"total"`
	GradePoint  *float64   `yaml:"grade_point"`
	LetterGrade string     `yaml:"letter_grade"`
	Result      string     `yaml:"result"` // P, F, A, W or a free-form status
	Status      MarkStatus `yaml:"status"`
	Passed      *bool      `yaml:"passed"`
	Credit      *float64   `yaml:"credit"`
}

// ResultStatus returns the printed result of the attempt, applying the
// priority absent, malpractice, ineligible, fail, pass.
func (m CourseMarkData) ResultStatus() string {
	switch m.Status {
	case StatusAbsent:
		return "AAA"
	case StatusMalpractice:
		return "MALPRACTICE"
	case StatusIneligible:
		return "INELIGIBLE"
	case StatusWithheld:
		return "WH"
	}

	switch strings.ToUpper(strings.TrimSpace(m.Result)) {
	case "A", "AB", "ABSENT", "AAA":
		return "AAA"
	case "F", "FAIL", "RA", "U":
		return "RA"
	case "W", "WH", "WITHHELD":
		return "WH"
	case "P", "PASS":
		return "PASS"
	}

	if m.Passed != nil && !*m.Passed {
		return "RA"
	}
	if m.Passed != nil || m.Result != "" {
		return "PASS"
	}
	return "-"
}

// ExamSlot is one scheduled examination printed on a hall ticket.
type ExamSlot struct {
	CourseCode string `yaml:"course_code"`
	Date       string `yaml:"date"`
	Session    string `yaml:"session"` // FN or AN
	Time       string `yaml:"time"`
	Room       string `yaml:"room"`
	Seat       string `yaml:"seat"`
}

// PartSummary is the per-part credit and GPA line of a grade card.
type PartSummary struct {
	Part          string   `yaml:"part"`
	CreditsEarned float64  `yaml:"credits_earned"`
	GPA           *float64 `yaml:"gpa"`
}

// Summary holds the upstream-computed totals printed for a student.
// The renderer never recomputes these values.
type Summary struct {
	CreditsEarned float64       `yaml:"credits_earned"`
	GPA           *float64      `yaml:"gpa"`
	CGPA          *float64      `yaml:"cgpa"`
	Result        string        `yaml:"result"`
	Parts         []PartSummary `yaml:"parts"`
}

// StudentMarksheetRow is everything printed for one student in one semester.
type StudentMarksheetRow struct {
	RegisterNo    string           `yaml:"register_no"`
	Name          string           `yaml:"name"`
	DOB           string           `yaml:"dob"`
	Program       string           `yaml:"program"`
	ProgramCode   string           `yaml:"program_code"`
	EMIS          string           `yaml:"emis"`
	FolioNo       string           `yaml:"folio_no"`
	SemesterGroup string           `yaml:"semester_group"`
	Semester      int              `yaml:"semester"`
	Photo         []byte           `yaml:"-"`
	Marks         []CourseMarkData `yaml:"marks"`
	Exams         []ExamSlot       `yaml:"exams"`
	Summary       Summary          `yaml:"summary"`
}

// mark returns the marks recorded for the course code, if any.
func (s *StudentMarksheetRow) mark(code string) (CourseMarkData, bool) {
	for _, m := range s.Marks {
		if strings.EqualFold(m.CourseCode, code) {
			return m, true
		}
	}
	return CourseMarkData{}, false
}

// exam returns the scheduled exam for the course code, if any.
func (s *StudentMarksheetRow) exam(code string) (ExamSlot, bool) {
	for _, e := range s.Exams {
		if strings.EqualFold(e.CourseCode, code) {
			return e, true
		}
	}
	return ExamSlot{}, false
}

// validate reports the first missing identity field as a DataError.
func (s *StudentMarksheetRow) validate(index int) *DataError {
	switch {
	case strings.TrimSpace(s.RegisterNo) == "":
		return &DataError{Index: index, Field: "register_no", Reason: "is required"}
	case strings.TrimSpace(s.Name) == "":
		return &DataError{Index: index, RegisterNo: s.RegisterNo, Field: "name", Reason: "is required"}
	}
	return nil
}

// DocumentInfo carries per-document text printed in headers.
type DocumentInfo struct {
	ExamName  string `yaml:"exam_name"`
	MonthYear string `yaml:"month_year"`
	Session   string `yaml:"session"`
	Program   string `yaml:"program"`
	// ProgramCode decides PG/UG formatting on grade cards.
	ProgramCode string `yaml:"program_code"`
	Semester    int    `yaml:"semester"`
	Batch       string `yaml:"batch"`
	Title       string `yaml:"title"`
	// Notes is markdown printed at the end of each hall ticket.
	Notes string `yaml:"notes"`
}

// IsPostgraduate reports whether a program code denotes a PG programme:
// codes starting with "M" or containing "PG".
func IsPostgraduate(programCode string) bool {
	code := strings.ToUpper(strings.TrimSpace(programCode))
	return strings.HasPrefix(code, "M") || strings.Contains(code, "PG")
}
