package marksheet

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const legalLandscapeWidth = 355.6 - 30

func TestResolveLayout_GroupSequence(t *testing.T) {
	t.Parallel()

	h, err := ResolveLayout(testCourses(7), LedgerFrame(legalLandscapeWidth))
	if err != nil {
		t.Fatalf("ResolveLayout() error = %v", err)
	}

	want := []int{1, 2, 3, 1, 4, 3, 1}
	if diff := cmp.Diff(want, h.CourseGroups()); diff != "" {
		t.Errorf("CourseGroups() mismatch (-want +got):\n%s", diff)
	}

	again, err := ResolveLayout(testCourses(7), LedgerFrame(legalLandscapeWidth))
	if err != nil {
		t.Fatalf("second ResolveLayout() error = %v", err)
	}
	if diff := cmp.Diff(h, again, cmp.AllowUnexported(HeaderStructure{})); diff != "" {
		t.Errorf("ResolveLayout() not idempotent (-first +second):\n%s", diff)
	}
}

func TestResolveLayout_InputOrderAndClustering(t *testing.T) {
	t.Parallel()

	courses := testCourses(4)

	tests := []struct {
		name    string
		cluster bool
		want    []int
		codes   []string
	}{
		{
			name:  "input order",
			want:  []int{1, 2, 3, 1},
			codes: []string{"CS001", "CS002", "CS003", "CS004"},
		},
		{
			name:    "clustered by group",
			cluster: true,
			want:    []int{1, 1, 2, 3},
			codes:   []string{"CS001", "CS004", "CS002", "CS003"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			frame := LedgerFrame(legalLandscapeWidth)
			frame.ClusterGroups = tt.cluster
			h, err := ResolveLayout(courses, frame)
			if err != nil {
				t.Fatalf("ResolveLayout() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, h.CourseGroups()); diff != "" {
				t.Errorf("CourseGroups() mismatch (-want +got):\n%s", diff)
			}
			var codes []string
			for _, pc := range h.Courses() {
				codes = append(codes, pc.Course.Code)
			}
			if diff := cmp.Diff(tt.codes, codes); diff != "" {
				t.Errorf("course codes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveLayout_WidthFillsEveryPaper(t *testing.T) {
	t.Parallel()

	for _, paper := range []string{"A4", "Letter", "Legal"} {
		for _, orientation := range []string{OrientationPortrait, OrientationLandscape} {
			s := DefaultSettings("INST01")
			s.PaperSize = paper
			s.Orientation = orientation
			g, err := s.Geometry()
			if err != nil {
				t.Fatalf("%s %s: Geometry() error = %v", paper, orientation, err)
			}

			frames := map[string]Frame{
				"ledger":      LedgerFrame(g.PrintableWidth()),
				"hallticket":  HallTicketFrame(g.PrintableWidth()),
				"gradecard":   GradeCardFrame(g.PrintableWidth(), false),
				"gradecardPG": GradeCardFrame(g.PrintableWidth(), true),
			}
			for name, frame := range frames {
				h, err := ResolveLayout(testCourses(2), frame)
				if err != nil {
					t.Errorf("%s %s %s: ResolveLayout() error = %v", paper, orientation, name, err)
					continue
				}
				if d := math.Abs(h.TotalWidth() - g.PrintableWidth()); d > WidthTolerance {
					t.Errorf("%s %s %s: TotalWidth() = %.3f, want %.3f", paper, orientation, name, h.TotalWidth(), g.PrintableWidth())
				}
				x := 0.0
				for _, col := range h.Columns() {
					if math.Abs(col.X-x) > 1e-9 {
						t.Errorf("%s %s %s: column %q X = %.3f, want %.3f", paper, orientation, name, col.Key, col.X, x)
					}
					x += col.Width
				}
			}
		}
	}
}

func TestResolveLayout_Errors(t *testing.T) {
	t.Parallel()

	noFlex := Frame{
		PrintableWidth: 200,
		Mode:           CoursesAsColumns,
		Leading:        []FixedColumn{{Key: ColSerial, Label: "S.No", Width: 10}},
	}

	tests := []struct {
		name     string
		courses  []CourseColumn
		frame    Frame
		overflow bool
	}{
		{
			name:  "empty course list",
			frame: LedgerFrame(180),
		},
		{
			name:    "non-positive order",
			courses: []CourseColumn{{Code: "X", Order: 0}},
			frame:   LedgerFrame(180),
		},
		{
			name:    "no flex column",
			courses: testCourses(1),
			frame:   noFlex,
		},
		{
			name:    "zero printable width",
			courses: testCourses(1),
			frame:   LedgerFrame(0),
		},
		{
			name:     "overflow",
			courses:  testCourses(20),
			frame:    LedgerFrame(180),
			overflow: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h, err := ResolveLayout(tt.courses, tt.frame)
			if h != nil {
				t.Errorf("ResolveLayout() = %v, want nil", h)
			}
			if !errors.Is(err, ErrLayout) {
				t.Fatalf("ResolveLayout() error = %v, want ErrLayout", err)
			}
			if got := errors.Is(err, ErrLayoutOverflow); got != tt.overflow {
				t.Errorf("errors.Is(err, ErrLayoutOverflow) = %v, want %v", got, tt.overflow)
			}
			var lerr *LayoutError
			if !errors.As(err, &lerr) {
				t.Fatalf("error %T is not *LayoutError", err)
			}
			if tt.overflow && lerr.Required <= lerr.Available {
				t.Errorf("overflow Required = %.2f, Available = %.2f, want Required > Available", lerr.Required, lerr.Available)
			}
		})
	}
}

func TestResolveLayout_RowsMode(t *testing.T) {
	t.Parallel()

	h, err := ResolveLayout(testCourses(30), HallTicketFrame(180))
	if err != nil {
		t.Fatalf("ResolveLayout() error = %v", err)
	}
	if h.Mode() != CoursesAsRows {
		t.Errorf("Mode() = %v, want %v", h.Mode(), CoursesAsRows)
	}
	for i, pc := range h.Courses() {
		if pc.Row != i {
			t.Errorf("Courses()[%d].Row = %d, want %d", i, pc.Row, i)
		}
	}
	for _, col := range h.Columns() {
		if col.CourseCode != "" {
			t.Errorf("rows layout emitted course column %q", col.Key)
		}
	}
	for _, g := range h.Groups() {
		if g.Width != 0 {
			t.Errorf("group %s Width = %v, want 0 in rows mode", g.Label, g.Width)
		}
	}
}

func TestHeaderStructure_Groups(t *testing.T) {
	t.Parallel()

	courses := testCourses(8)
	// Reverse the input so group contents must be re-sorted by order.
	for i, j := 0, len(courses)-1; i < j; i, j = i+1, j-1 {
		courses[i], courses[j] = courses[j], courses[i]
	}
	h, err := ResolveLayout(courses, LedgerFrame(legalLandscapeWidth))
	if err != nil {
		t.Fatalf("ResolveLayout() error = %v", err)
	}

	groups := h.Groups()
	if len(groups) != GroupCount {
		t.Fatalf("len(Groups()) = %d, want %d", len(groups), GroupCount)
	}
	var orders []int
	for _, c := range groups[0].Courses {
		orders = append(orders, c.Order)
	}
	if diff := cmp.Diff([]int{1, 4, 7, 8}, orders); diff != "" {
		t.Errorf("CG1 orders mismatch (-want +got):\n%s", diff)
	}
	if got, want := groups[0].Width, 4*GroupWidth(1); got != want {
		t.Errorf("CG1 Width = %v, want %v", got, want)
	}
}

func TestHeaderStructure_AccessorsReturnCopies(t *testing.T) {
	t.Parallel()

	h, err := ResolveLayout(testCourses(3), LedgerFrame(legalLandscapeWidth))
	if err != nil {
		t.Fatalf("ResolveLayout() error = %v", err)
	}

	cols := h.Columns()
	cols[0].Width = 1000
	courses := h.Courses()
	courses[0].Course.Code = "MUTATED"
	groups := h.Groups()
	groups[0].Courses[0].Code = "MUTATED"

	if h.Columns()[0].Width == 1000 {
		t.Error("Columns() exposes internal state")
	}
	if h.Courses()[0].Course.Code == "MUTATED" {
		t.Error("Courses() exposes internal state")
	}
	if h.Groups()[0].Courses[0].Code == "MUTATED" {
		t.Error("Groups() exposes internal state")
	}
}

func TestMappingTable(t *testing.T) {
	t.Parallel()

	got := MappingTable(8)
	for _, want := range []string{"course_order", "│            5 │          CG4 │", "│            8 │          CG1 │"} {
		if !strings.Contains(got, want) {
			t.Errorf("MappingTable(8) missing %q:\n%s", want, got)
		}
	}
}

func TestVisualLayout(t *testing.T) {
	t.Parallel()

	h, err := ResolveLayout(testCourses(4), LedgerFrame(legalLandscapeWidth))
	if err != nil {
		t.Fatalf("ResolveLayout() error = %v", err)
	}
	got := VisualLayout(h)
	for _, want := range []string{"MARKSHEET HEADER LAYOUT", "CS004", "SEM|INT|EXT|TOT|RES|GP|LG", "SGPA", "LEGEND:"} {
		if !strings.Contains(got, want) {
			t.Errorf("VisualLayout() missing %q", want)
		}
	}
}

func TestFrameFor(t *testing.T) {
	t.Parallel()

	const width = 170.0
	tests := []struct {
		name    string
		kind    Kind
		format  Format
		pg      bool
		want    Frame
		wantErr error
	}{
		{"ledger", KindSemesterMarksheet, FormatLedger, false, LedgerFrame(width), nil},
		{"grade card", KindSemesterMarksheet, FormatGradeCard, false, GradeCardFrame(width, false), nil},
		{"postgraduate grade card", KindSemesterMarksheet, FormatGradeCard, true, GradeCardFrame(width, true), nil},
		{"hall ticket ignores format", KindHallTicket, FormatGradeCard, true, HallTicketFrame(width), nil},
		{"unknown kind", Kind(0), FormatLedger, false, Frame{}, ErrUnknownKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := FrameFor(tt.kind, tt.format, width, tt.pg)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("FrameFor() error = %v, want %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FrameFor() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
