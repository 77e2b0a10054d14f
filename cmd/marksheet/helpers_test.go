package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const rosterYAML = `institution: INST01
info:
  exam_name: April 2026 Examinations
  month_year: April 2026
  program: B.Sc. Computer Science
  program_code: BCS
  semester: 3
courses:
  - {code: CS301, title: Data Structures, order: 1, semester: 3, part: III, credit: 4, internal_max: 25, external_max: 75, total_max: 100, pass_marks: 40}
  - {code: CS302, title: Operating Systems, order: 2, semester: 3, part: III, credit: 4, internal_max: 25, external_max: 75, total_max: 100, pass_marks: 40}
  - {code: CS303, title: Discrete Mathematics, order: 3, semester: 3, part: III, credit: 3, internal_max: 25, external_max: 75, total_max: 100, pass_marks: 40}
students:
  - register_no: "2301001"
    name: Asha Raman
    dob: "2005-04-12"
    semester_group: II Year
    marks:
      - {course_code: CS301, internal: 20, external: 55, total: 75, grade_point: 7.5, letter_grade: A, result: P}
      - {course_code: CS302, internal: 18, external: 30, total: 48, grade_point: 4.8, letter_grade: C, result: P}
      - {course_code: CS303, status: absent}
    exams:
      - {course_code: CS301, date: "2026-04-10", session: FN, room: R1, seat: "12"}
      - {course_code: CS302, date: "2026-04-12", session: AN, room: R1, seat: "12"}
    summary: {credits_earned: 8, gpa: 6.2, cgpa: 6.9, result: RA}
  - register_no: "2301002"
    name: Bharath K
    semester_group: II Year
    marks:
      - {course_code: CS301, internal: 22, external: 60, total: 82, result: P}
    summary: {credits_earned: 4, result: RA}
`

// rosterWithCourses builds a roster with n courses and one student.
func rosterWithCourses(n int) string {
	var b strings.Builder
	b.WriteString("institution: INST01\ncourses:\n")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "  - {code: C%02d, title: Course %d, order: %d, semester: 1}\n", i, i, i)
	}
	b.WriteString("students:\n  - {register_no: \"R1\", name: Solo}\n")
	return b.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

// testEnv returns an environment writing to buffers with a fixed clock.
func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &Environment{
		Now:    func() time.Time { return time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC) },
		Stdout: &stdout,
		Stderr: &stderr,
	}, &stdout, &stderr
}

func readPDF(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("%s is not a PDF: %q", path, data[:min(len(data), 16)])
	}
	return data
}
