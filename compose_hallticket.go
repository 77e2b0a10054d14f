package marksheet

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Hall ticket geometry.
const (
	HallTicketRowsPerPage = 22

	ticketRowHeight    = 6.5
	ticketHeaderHeight = 7.0
	ticketInfoRow      = 6.0
	ticketPhotoWidth   = 30.0
	ticketPhotoHeight  = 35.0
	ticketFontSize     = 8.5
)

// HallTicketSignatures are the signature labels printed on hall tickets.
var HallTicketSignatures = []string{"Signature of the Student", "Controller of Examinations", "Chief Superintendent"}

// HallTicketTimings is printed below the signatures.
const HallTicketTimings = "**Exam Timings:** FN 10.00 A.M. to 01.00 P.M. | AN 02.00 P.M. to 05.00 P.M."

// ticketSubject is one subject row of a hall ticket.
type ticketSubject struct {
	course CourseColumn
	slot   ExamSlot
}

// hallTickets composes one hall ticket per student, grouped by year. A
// student with more subjects than fit one page gets a ticket page per chunk.
func (c *composer) hallTickets(p *paginator) ([]Section, error) {
	cols := c.layout.Columns()
	header := ticketHeader(cols)

	ordered := append([]student(nil), c.students...)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i].row, ordered[j].row
		ra, rb := yearRank(a.SemesterGroup), yearRank(b.SemesterGroup)
		if ra != rb {
			return ra < rb
		}
		if ra == otherYear && a.SemesterGroup != b.SemesterGroup {
			return a.SemesterGroup < b.SemesterGroup
		}
		return a.RegisterNo < b.RegisterNo
	})

	sections := make([]Section, 0, len(ordered))
	for _, st := range ordered {
		subjects := c.ticketSubjects(st.row)
		chunks := chunkSubjects(subjects, HallTicketRowsPerPage)
		info := c.ticketInfo(st)

		sec := Section{
			Student:    st.index,
			RegisterNo: st.row.RegisterNo,
			Info:       info,
			Marks: &TableBlock{
				Student:      st.index,
				Columns:      cols,
				Header:       header,
				HeaderHeight: ticketHeaderHeight,
				Rows:         c.ticketRows(cols, st, subjects, 0, false),
				FontSize:     ticketFontSize,
			},
			Summary: c.ticketSummary(st, len(subjects)),
		}
		sections = append(sections, sec)

		for i, chunk := range chunks {
			p.breakPage()
			title := "HALL TICKET"
			if len(chunks) > 1 {
				title = fmt.Sprintf("HALL TICKET (Page %d of %d)", i+1, len(chunks))
			}
			if err := p.place(&TextBlock{Lines: []TextLine{c.line(title, c.style.SubheadingSize, true)}}, bandGap); err != nil {
				return nil, err
			}
			if err := p.place(info, bandGap); err != nil {
				return nil, err
			}
			table := &TableBlock{
				Student:      st.index,
				Columns:      cols,
				Header:       header,
				HeaderHeight: ticketHeaderHeight,
				Rows:         c.ticketRows(cols, st, chunk, i*HallTicketRowsPerPage, true),
				FontSize:     ticketFontSize,
				Continued:    i > 0,
			}
			if err := p.placeTable(table, bandGap); err != nil {
				return nil, err
			}
		}
		if err := c.ticketClosing(p, sec.Summary); err != nil {
			return nil, err
		}
	}
	return sections, nil
}

// ticketClosing places the blocks that end a student's last ticket page.
func (c *composer) ticketClosing(p *paginator, summary *SummaryBlock) error {
	if err := p.place(summary, bandGap); err != nil {
		return err
	}
	if err := p.place(c.signatures(HallTicketSignatures), bandGap); err != nil {
		return err
	}
	small := c.style.BodySize - 2
	if n := c.note(HallTicketTimings, small); n != nil {
		if err := p.place(n, bandGap); err != nil {
			return err
		}
	}
	if n := c.note(c.req.Info.Notes, small); n != nil {
		if err := p.place(n, bandGap); err != nil {
			return err
		}
	}
	stamp := c.line("Generated on "+c.generated, small-1, false)
	stamp.Align = AlignRight
	stamp.Color = c.style.Secondary
	return p.place(&TextBlock{Lines: []TextLine{stamp}}, 0)
}

func ticketHeader(cols []Column) []HeaderCell {
	cells := make([]HeaderCell, len(cols))
	for i, col := range cols {
		cells[i] = fixedHeaderCell(col, ticketHeaderHeight)
	}
	return cells
}

// ticketSubjects lists the student's subjects in layout order. Students
// without an exam schedule sit every course of the layout.
func (c *composer) ticketSubjects(s *StudentMarksheetRow) []ticketSubject {
	var out []ticketSubject
	for _, pc := range c.layout.Courses() {
		slot, ok := s.exam(pc.Course.Code)
		if !ok && len(s.Exams) > 0 {
			continue
		}
		out = append(out, ticketSubject{course: pc.Course, slot: slot})
	}
	return out
}

func chunkSubjects(subjects []ticketSubject, size int) [][]ticketSubject {
	if len(subjects) == 0 {
		return [][]ticketSubject{nil}
	}
	var chunks [][]ticketSubject
	for len(subjects) > 0 {
		n := min(size, len(subjects))
		chunks = append(chunks, subjects[:n])
		subjects = subjects[n:]
	}
	return chunks
}

// ticketRows builds subject rows numbered from offset+1. Padded tables are
// filled with blank rows up to a full page.
func (c *composer) ticketRows(cols []Column, st student, subjects []ticketSubject, offset int, padded bool) []TableRow {
	rows := make([]TableRow, 0, HallTicketRowsPerPage)
	for i, sub := range subjects {
		cells := make([]Cell, len(cols))
		for j, col := range cols {
			cells[j] = Cell{Align: col.Align, Text: ticketCell(col.Key, offset+i+1, sub)}
		}
		rows = append(rows, TableRow{Student: st.index, Cells: cells, Height: ticketRowHeight})
	}
	for padded && len(rows) < HallTicketRowsPerPage {
		cells := make([]Cell, len(cols))
		for j, col := range cols {
			cells[j] = Cell{Align: col.Align}
		}
		rows = append(rows, TableRow{Student: -1, Cells: cells, Height: ticketRowHeight})
	}
	return rows
}

func ticketCell(key string, serial int, sub ticketSubject) string {
	switch key {
	case ColSerial:
		return strconv.Itoa(serial)
	case ColSubjectCode:
		return sub.course.Code
	case ColExamDate:
		return orDash(sub.slot.Date)
	case ColSession:
		session := strings.TrimSpace(sub.slot.Session)
		if sub.slot.Time != "" {
			session = strings.TrimSpace(session + " " + sub.slot.Time)
		}
		return orDash(session)
	case ColSubjectName:
		return orDash(sub.course.Title)
	case ColSemester:
		if sub.course.Semester > 0 {
			return Roman(sub.course.Semester)
		}
		return "-"
	}
	return ""
}

func (c *composer) ticketInfo(st student) *InfoBlock {
	s := st.row
	rows := [][]InfoField{
		{{Label: "Register Number", Value: s.RegisterNo}},
		{{Label: "Student Name", Value: s.Name}},
		{{Label: "Date of Birth", Value: orDash(s.DOB)}},
		{{Label: "Program", Value: orDash(c.program(s))}},
		{{Label: "EMIS", Value: orDash(s.EMIS)}},
	}
	if room, seat := examVenue(s.Exams); room != "" || seat != "" {
		rows = append(rows, []InfoField{{Label: "Room / Seat", Value: orDash(room) + " / " + orDash(seat)}})
	}
	width := c.geom.PrintableWidth() - ticketPhotoWidth - blockGap
	return &InfoBlock{
		Student:      st.index,
		RegisterNo:   s.RegisterNo,
		Rows:         rows,
		ColumnWidths: []float64{width * 0.35, width * 0.65},
		RowHeight:    ticketInfoRow,
		Photo:        &Photo{Image: s.Photo, Width: ticketPhotoWidth, Height: ticketPhotoHeight},
		FontSize:     c.style.BodySize - 1,
	}
}

// examVenue returns the first room and seat assigned in the schedule.
func examVenue(exams []ExamSlot) (room, seat string) {
	for _, e := range exams {
		if room == "" {
			room = e.Room
		}
		if seat == "" {
			seat = e.Seat
		}
	}
	return room, seat
}

func (c *composer) ticketSummary(st student, subjects int) *SummaryBlock {
	return &SummaryBlock{
		Student: st.index,
		Fields: []InfoField{
			{Label: "Total Subjects", Value: strconv.Itoa(subjects)},
			{Label: "Semester", Value: orDash(st.row.SemesterGroup)},
		},
		RowHeight: ticketInfoRow,
		FontSize:  c.style.BodySize - 1,
	}
}
