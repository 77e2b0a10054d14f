package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	marksheet "github.com/alnah/go-marksheet"
)

var pngStub = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestLoadRoster(t *testing.T) {
	t.Parallel()

	t.Run("decodes courses students and info", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "roster.yaml", rosterYAML)

		r, err := loadRoster(path)
		if err != nil {
			t.Fatalf("loadRoster() error = %v", err)
		}
		if r.Institution != "INST01" || r.Info.Semester != 3 || r.Info.ProgramCode != "BCS" {
			t.Errorf("header fields = %q %d %q", r.Institution, r.Info.Semester, r.Info.ProgramCode)
		}
		if len(r.Courses) != 3 || r.Courses[1].Order != 2 || r.Courses[0].TotalMax != 100 {
			t.Errorf("Courses = %+v", r.Courses)
		}
		if len(r.Students) != 2 {
			t.Fatalf("Students = %d, want 2", len(r.Students))
		}
		if got := r.Students[0].Marks[2].ResultStatus(); got != "AAA" {
			t.Errorf("absent mark status = %q, want AAA", got)
		}
		if e := r.Students[0].Exams[1]; e.Session != "AN" || e.Seat != "12" {
			t.Errorf("exam = %+v", e)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := loadRoster(filepath.Join(t.TempDir(), "none.yaml"))
		if !errors.Is(err, ErrReadRoster) || !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, want ErrReadRoster wrapping ErrNotExist", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "bad.yaml", "students: [unclosed")
		if _, err := loadRoster(path); !errors.Is(err, ErrInvalidRoster) {
			t.Errorf("error = %v, want ErrInvalidRoster", err)
		}
	})

	t.Run("no students", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "empty.yaml", "courses: []\n")
		if _, err := loadRoster(path); !errors.Is(err, ErrInvalidRoster) {
			t.Errorf("error = %v, want ErrInvalidRoster", err)
		}
	})
}

func TestRoster_StudentsWithPhotos(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "img/asha.png", string(pngStub))
	writeFile(t, dir, "photos/2301002.jpg", "jpeg")
	path := writeFile(t, dir, "roster.yaml", rosterYAML+"photos:\n  \"2301001\": img/asha.png\nphoto_dir: photos\n")

	r, err := loadRoster(path)
	if err != nil {
		t.Fatalf("loadRoster() error = %v", err)
	}
	rows, err := r.StudentsWithPhotos()
	if err != nil {
		t.Fatalf("StudentsWithPhotos() error = %v", err)
	}
	if !bytes.Equal(rows[0].Photo, pngStub) {
		t.Errorf("mapped photo not loaded: %q", rows[0].Photo)
	}
	if string(rows[1].Photo) != "jpeg" {
		t.Errorf("photo_dir photo = %q, want jpeg", rows[1].Photo)
	}
	if r.Students[0].Photo != nil {
		t.Error("StudentsWithPhotos must not modify the roster")
	}
}

func TestRoster_MissingPhotoFile(t *testing.T) {
	t.Parallel()
	path := writeFile(t, t.TempDir(), "roster.yaml", rosterYAML+"photos:\n  \"2301001\": nowhere.png\n")

	r, err := loadRoster(path)
	if err != nil {
		t.Fatalf("loadRoster() error = %v", err)
	}
	if _, err := r.StudentsWithPhotos(); !errors.Is(err, ErrReadImage) {
		t.Errorf("error = %v, want ErrReadImage", err)
	}
}

func TestMergeInfo(t *testing.T) {
	t.Parallel()
	got := mergeInfo(
		marksheet.DocumentInfo{ExamName: "Flag exam"},
		marksheet.DocumentInfo{ExamName: "Roster exam", MonthYear: "April 2026", Semester: 4},
	)
	want := marksheet.DocumentInfo{ExamName: "Flag exam", MonthYear: "April 2026", Semester: 4}
	if got != want {
		t.Errorf("mergeInfo() = %+v, want %+v", got, want)
	}
}
