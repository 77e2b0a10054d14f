package settingsstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	marksheet "github.com/alnah/go-marksheet"
	"github.com/alnah/go-marksheet/internal/yamlutil"
)

// ErrInvalidTemplateFile is returned for unreadable or malformed template files.
var ErrInvalidTemplateFile = errors.New("invalid template file")

// FileSource reads templates from a YAML file of the form
//
//	templates:
//	  - institution_code: INST01
//	    template_type: hallticket
//	    paper_size: A4
//	    ...
//
// The file is read on every call so edits are picked up once the store's
// cache expires. Fields left out take the DefaultSettings values.
type FileSource struct {
	path string
}

// NewFileSource checks that path parses and returns a source for it.
func NewFileSource(path string) (*FileSource, error) {
	f := &FileSource{path: path}
	if _, err := f.load(); err != nil {
		return nil, err
	}
	return f, nil
}

// Path returns the file read by the source.
func (f *FileSource) Path() string { return f.path }

// Templates returns the institution's templates.
func (f *FileSource) Templates(ctx context.Context, institution string) ([]*marksheet.Settings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	all, err := f.load()
	if err != nil {
		return nil, err
	}
	var out []*marksheet.Settings
	for _, t := range all {
		if strings.EqualFold(t.InstitutionCode, institution) {
			out = append(out, t)
		}
	}
	return out, nil
}

type templateFile struct {
	Templates []map[string]any `yaml:"templates"`
}

func (f *FileSource) load() ([]*marksheet.Settings, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplateFile, err)
	}
	return ParseTemplates(data)
}

// ParseTemplates decodes a template file. Unknown keys are rejected.
func ParseTemplates(data []byte) ([]*marksheet.Settings, error) {
	var file templateFile
	if err := yamlutil.UnmarshalStrict(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplateFile, err)
	}

	out := make([]*marksheet.Settings, 0, len(file.Templates))
	for i, entry := range file.Templates {
		raw, err := yamlutil.Marshal(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: template %d: %v", ErrInvalidTemplateFile, i+1, err)
		}
		s := marksheet.DefaultSettings("")
		if err := yamlutil.UnmarshalStrict(raw, s); err != nil {
			return nil, fmt.Errorf("%w: template %d: %v", ErrInvalidTemplateFile, i+1, err)
		}
		if strings.TrimSpace(s.InstitutionCode) == "" {
			return nil, fmt.Errorf("%w: template %d: institution_code is required", ErrInvalidTemplateFile, i+1)
		}
		out = append(out, withDefaults(s))
	}
	return out, nil
}
