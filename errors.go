package marksheet

import (
	"errors"
	"fmt"
)

// Sentinel errors for library operations.
var (
	ErrConfiguration  = errors.New("invalid PDF settings")
	ErrLayout         = errors.New("layout error")
	ErrLayoutOverflow = errors.New("columns exceed printable width")
	ErrInvalidStudent = errors.New("invalid student record")
	ErrNoStudents     = errors.New("no renderable students")
	ErrUnknownKind    = errors.New("unknown template kind")

	// Backend errors.
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrHTMLRender     = errors.New("HTML rendering failed")
)

// ConfigurationError reports missing or unusable template settings.
// It is fatal to the request: no document is produced.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: %s", ErrConfiguration, e.Reason)
	}
	return fmt.Sprintf("%v: %s: %s", ErrConfiguration, e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// DataError describes a student record that was skipped.
// Index is the position of the record in the input batch.
type DataError struct {
	Index      int
	RegisterNo string
	Field      string
	Reason     string
}

func (e *DataError) Error() string {
	id := e.RegisterNo
	if id == "" {
		id = "unknown"
	}
	return fmt.Sprintf("%v: student #%d (%s): %s %s", ErrInvalidStudent, e.Index, id, e.Field, e.Reason)
}

func (e *DataError) Unwrap() error { return ErrInvalidStudent }

// LayoutError reports a course set that cannot be laid out on the page.
// Required and Available are widths in millimetres when the cause is overflow.
type LayoutError struct {
	Reason    string
	Required  float64
	Available float64
	overflow  bool
}

func (e *LayoutError) Error() string {
	if e.overflow {
		return fmt.Sprintf("%v: %s (required %.2fmm, available %.2fmm)", ErrLayout, e.Reason, e.Required, e.Available)
	}
	return fmt.Sprintf("%v: %s", ErrLayout, e.Reason)
}

// Unwrap exposes ErrLayout, plus ErrLayoutOverflow for width overflow.
func (e *LayoutError) Unwrap() []error {
	if e.overflow {
		return []error{ErrLayout, ErrLayoutOverflow}
	}
	return []error{ErrLayout}
}

func newOverflowError(reason string, required, available float64) *LayoutError {
	return &LayoutError{Reason: reason, Required: required, Available: available, overflow: true}
}
