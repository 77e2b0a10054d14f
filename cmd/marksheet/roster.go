package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	marksheet "github.com/alnah/go-marksheet"
	"github.com/alnah/go-marksheet/internal/fileutil"
	"github.com/alnah/go-marksheet/internal/yamlutil"
)

// Sentinel errors for roster loading.
var (
	ErrReadRoster    = errors.New("failed to read roster")
	ErrInvalidRoster = errors.New("invalid roster")
	ErrReadImage     = errors.New("failed to read image")
)

// photoExtensions are tried in order when looking photos up in PhotoDir.
var photoExtensions = []string{".png", ".jpg", ".jpeg"}

// Roster is one input file: the courses of a semester, the students sitting
// it and the header text of the document.
type Roster struct {
	Institution string                          `yaml:"institution"`
	Info        marksheet.DocumentInfo          `yaml:"info"`
	Courses     []marksheet.CourseColumn        `yaml:"courses"`
	Students    []marksheet.StudentMarksheetRow `yaml:"students"`
	// Photos maps register numbers to image paths.
	Photos map[string]string `yaml:"photos"`
	// PhotoDir holds <register_no>.png|.jpg photos for students missing
	// from Photos.
	PhotoDir string `yaml:"photo_dir"`

	dir string
}

// loadRoster reads and decodes a roster file. Relative image paths are
// resolved against the roster's directory.
func loadRoster(path string) (*Roster, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided roster path
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadRoster, err)
	}

	var r Roster
	if err := yamlutil.Unmarshal(data, &r, yamlutil.MaxSize(yamlutil.MaxRosterSize)); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRoster, path, err)
	}
	if len(r.Students) == 0 {
		return nil, fmt.Errorf("%w: %s: no students", ErrInvalidRoster, path)
	}
	r.dir = filepath.Dir(path)
	return &r, nil
}

// resolvePath makes p relative to the roster directory unless absolute.
func (r *Roster) resolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(r.dir, p)
}

// StudentsWithPhotos returns the student rows with photo bytes attached.
// A student without a photo keeps the placeholder box.
func (r *Roster) StudentsWithPhotos() ([]marksheet.StudentMarksheetRow, error) {
	rows := make([]marksheet.StudentMarksheetRow, len(r.Students))
	copy(rows, r.Students)

	for i := range rows {
		path := r.photoPath(rows[i].RegisterNo)
		if path == "" {
			continue
		}
		data, err := readImage(path)
		if err != nil {
			return nil, err
		}
		rows[i].Photo = data
	}
	return rows, nil
}

// photoPath returns the photo of a register number, or "" when none.
func (r *Roster) photoPath(registerNo string) string {
	if p, ok := r.Photos[registerNo]; ok && p != "" {
		return r.resolvePath(p)
	}
	if r.PhotoDir == "" || strings.TrimSpace(registerNo) == "" {
		return ""
	}
	base := filepath.Join(r.resolvePath(r.PhotoDir), registerNo)
	return fileutil.FindWithExt(base, photoExtensions...)
}

// readImage reads a logo or photo file.
func readImage(path string) ([]byte, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- roster-relative image path
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadImage, err)
	}
	return data, nil
}

// mergeInfo fills the empty fields of info from base.
func mergeInfo(info, base marksheet.DocumentInfo) marksheet.DocumentInfo {
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&info.ExamName, base.ExamName)
	fill(&info.MonthYear, base.MonthYear)
	fill(&info.Session, base.Session)
	fill(&info.Program, base.Program)
	fill(&info.ProgramCode, base.ProgramCode)
	fill(&info.Batch, base.Batch)
	fill(&info.Title, base.Title)
	fill(&info.Notes, base.Notes)
	if info.Semester == 0 {
		info.Semester = base.Semester
	}
	return info
}
