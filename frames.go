package marksheet

// Fixed column keys shared by the frames and the composers.
const (
	ColSerial       = "sno"
	ColRegisterNo   = "reg_no"
	ColName         = "name"
	ColSGPA         = "sgpa"
	ColCGPA         = "cgpa"
	ColResult       = "result"
	ColSubjectCode  = "code"
	ColExamDate     = "date"
	ColSession      = "session"
	ColSubjectName  = "subject"
	ColSemester     = "semester"
	ColPart         = "part"
	ColCourseTitle  = "title"
	ColCredit       = "credit"
	ColESEMax       = "ese_max"
	ColESESecured   = "ese_secured"
	ColCIAMax       = "cia_max"
	ColCIASecured   = "cia_secured"
	ColTotalMax     = "total_max"
	ColTotalSecured = "total_secured"
	ColGradePoint   = "gp"
	ColLetterGrade  = "lg"
)

// LedgerFrame is the frame of the consolidated marksheet: one row per
// student, courses as columns, student name absorbing the slack.
func LedgerFrame(printableWidth float64) Frame {
	return Frame{
		PrintableWidth: printableWidth,
		Mode:           CoursesAsColumns,
		Leading: []FixedColumn{
			{Key: ColSerial, Label: "S.No", Width: 8},
			{Key: ColRegisterNo, Label: "REG NO", Width: 28},
			{Key: ColName, Label: "STUDENT NAME", MinWidth: 45, Flex: true, Align: AlignLeft},
		},
		Trailing: []FixedColumn{
			{Key: ColSGPA, Label: "SGPA", Width: 12},
			{Key: ColCGPA, Label: "CGPA", Width: 12},
			{Key: ColResult, Label: "RESULT", Width: 15},
		},
	}
}

// HallTicketFrame is the frame of the hall ticket subject table.
func HallTicketFrame(printableWidth float64) Frame {
	return Frame{
		PrintableWidth: printableWidth,
		Mode:           CoursesAsRows,
		Leading: []FixedColumn{
			{Key: ColSerial, Label: "S.No", Width: 10},
			{Key: ColSubjectCode, Label: "Subject Code", Width: 24},
			{Key: ColExamDate, Label: "Date of Exam", Width: 22},
			{Key: ColSession, Label: "Session", Width: 28},
			{Key: ColSubjectName, Label: "Subject Name", MinWidth: 60, Flex: true, Align: AlignLeft},
			{Key: ColSemester, Label: "Semester", Width: 20},
		},
	}
}

// GradeCardFrame is the frame of the per-student grade card. Postgraduate
// cards omit the PART column.
func GradeCardFrame(printableWidth float64, postgraduate bool) Frame {
	leading := []FixedColumn{{Key: ColSemester, Label: "SEM", Width: 7}}
	if !postgraduate {
		leading = append(leading, FixedColumn{Key: ColPart, Label: "PART", Width: 7})
	}
	leading = append(leading,
		FixedColumn{Key: ColSubjectCode, Label: "COURSE CODE", Width: 18},
		FixedColumn{Key: ColCourseTitle, Label: "COURSE TITLE", MinWidth: 45, Flex: true, Align: AlignLeft},
		FixedColumn{Key: ColCredit, Label: "CREDIT", Width: 8},
		FixedColumn{Key: ColESEMax, Label: "MAX", Width: 8},
		FixedColumn{Key: ColESESecured, Label: "SEC", Width: 8},
		FixedColumn{Key: ColCIAMax, Label: "MAX", Width: 8},
		FixedColumn{Key: ColCIASecured, Label: "SEC", Width: 8},
		FixedColumn{Key: ColTotalMax, Label: "MAX", Width: 9},
		FixedColumn{Key: ColTotalSecured, Label: "SEC", Width: 9},
		FixedColumn{Key: ColGradePoint, Label: "GP", Width: 7},
		FixedColumn{Key: ColLetterGrade, Label: "LG", Width: 7},
		FixedColumn{Key: ColResult, Label: "RESULT", Width: 14},
	)
	return Frame{PrintableWidth: printableWidth, Mode: CoursesAsRows, Leading: leading}
}

// FrameFor returns the frame used by a template kind and format.
func FrameFor(kind Kind, format Format, printableWidth float64, postgraduate bool) (Frame, error) {
	switch kind {
	case KindHallTicket:
		return HallTicketFrame(printableWidth), nil
	case KindSemesterMarksheet:
		if format == FormatGradeCard {
			return GradeCardFrame(printableWidth, postgraduate), nil
		}
		return LedgerFrame(printableWidth), nil
	}
	return Frame{}, ErrUnknownKind
}
