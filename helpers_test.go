package marksheet

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeBackend records draws without producing a real PDF.
type fakeBackend struct {
	mu     sync.Mutex
	docs   []*Document
	closed int
	err    error
}

func (f *fakeBackend) Draw(ctx context.Context, doc *Document) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.docs = append(f.docs, doc)
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4 fake"), nil
}

func (f *fakeBackend) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeBackend) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.docs)
}

var testNow = time.Date(2025, time.November, 14, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func ptr[T any](v T) *T { return &v }

// ledgerSettings returns settings wide enough for a handful of ledger courses.
func ledgerSettings() *Settings {
	s := DefaultSettings("INST01")
	s.InstitutionName = "Government Arts College"
	s.Address = "Chennai"
	s.TemplateType = TemplateMarksheet
	s.PaperSize = "Legal"
	s.Orientation = OrientationLandscape
	return s
}

func portraitSettings(templateType string) *Settings {
	s := DefaultSettings("INST01")
	s.InstitutionName = "Government Arts College"
	s.TemplateType = templateType
	return s
}

// testCourses returns n courses with orders 1..n.
func testCourses(n int) []CourseColumn {
	out := make([]CourseColumn, n)
	for i := range out {
		out[i] = CourseColumn{
			Code:        fmt.Sprintf("CS%03d", i+1),
			Title:       fmt.Sprintf("Course %d", i+1),
			Order:       i + 1,
			Semester:    1,
			Part:        "III",
			Credit:      4,
			InternalMax: 25,
			ExternalMax: 75,
			TotalMax:    100,
			PassMarks:   40,
		}
	}
	return out
}

func testStudent(reg, name string, courses []CourseColumn) StudentMarksheetRow {
	s := StudentMarksheetRow{
		RegisterNo:    reg,
		Name:          name,
		DOB:           "01-02-2004",
		Program:       "B.Sc. Computer Science",
		ProgramCode:   "UCS",
		SemesterGroup: "I Year",
		Semester:      1,
		Summary: Summary{
			CreditsEarned: float64(4 * len(courses)),
			GPA:           ptr(8.25),
			CGPA:          ptr(8.1),
			Result:        "PASS",
		},
	}
	for _, c := range courses {
		s.Marks = append(s.Marks, CourseMarkData{
			CourseCode:  c.Code,
			Semester:    c.Semester,
			Internal:    ptr(20.0),
			External:    ptr(60.0),
			Total:       ptr(80.0),
			GradePoint:  ptr(8.0),
			LetterGrade: "A",
			Result:      "P",
		})
	}
	return s
}

// mustLayout resolves courses with the frame used by kind and format.
func mustLayout(t *testing.T, kind Kind, format Format, s *Settings, courses []CourseColumn) *HeaderStructure {
	t.Helper()
	g, err := s.Geometry()
	if err != nil {
		t.Fatalf("Geometry() error = %v", err)
	}
	frame, err := FrameFor(kind, format, g.PrintableWidth(), false)
	if err != nil {
		t.Fatalf("FrameFor() error = %v", err)
	}
	h, err := ResolveLayout(courses, frame)
	if err != nil {
		t.Fatalf("ResolveLayout() error = %v", err)
	}
	return h
}

func newTestRenderer(b Backend) *Renderer {
	return NewRenderer(WithBackend(b), WithClock(fixedClock))
}
