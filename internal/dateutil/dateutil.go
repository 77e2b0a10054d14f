// Package dateutil expands "auto" date placeholders in document headers.
//
// A header value such as "auto:MMMM YYYY" becomes the render date in that
// layout, so a batch printed in November reads "November 2025" without the
// roster being edited. Values that do not start with "auto" pass through.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length.
const MaxDateFormatLength = 50

// Common layouts.
const (
	// DefaultDateFormat is the day-first numeric date used on printed forms.
	DefaultDateFormat = "DD-MM-YYYY"
	// SessionFormat names an examination session, e.g. "November 2025".
	SessionFormat = "MMMM YYYY"
	// StampFormat is the generation timestamp on hall tickets.
	StampFormat = "DD-MM-YYYY HH:mm"
)

// dateTokens maps user-friendly tokens to Go time format components.
// Longer tokens come first so matching is greedy; matching is case sensitive
// so "MM" is the month and "mm" the minute.
var dateTokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"HH", "15"},
	{"hh", "03"},
	{"mm", "04"},
	{"ss", "05"},
	{"M", "1"},
	{"D", "2"},
	{"A", "PM"},
}

// DatePresets provides named shortcuts for common date formats.
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"indian":   DefaultDateFormat,
	"european": "DD/MM/YYYY",
	"long":     "D MMMM YYYY",
	"session":  SessionFormat,
	"short":    "MMM YYYY",
	"stamp":    StampFormat,
	"time":     "hh:mm A",
}

// ParseDateFormat converts a user-friendly format string to Go's time format.
// Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D, HH, hh, mm, ss, A.
// Brackets escape literal text: "[Session] MMMM" keeps "Session".
// Other characters outside brackets are kept as they are.
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var out strings.Builder
	out.Grow(len(format) + 10)

	for i := 0; i < len(format); {
		if format[i] == '[' {
			end := strings.IndexByte(format[i+1:], ']')
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			out.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		n := 0
		for _, t := range dateTokens {
			if strings.HasPrefix(format[i:], t.token) {
				out.WriteString(t.goFmt)
				n = len(t.token)
				break
			}
		}
		if n == 0 {
			out.WriteByte(format[i])
			n = 1
		}
		i += n
	}

	return out.String(), nil
}

// Format renders t with a user-friendly format or preset name.
func Format(t time.Time, format string) (string, error) {
	if preset, ok := DatePresets[strings.ToLower(format)]; ok {
		format = preset
	}
	goFmt, err := ParseDateFormat(format)
	if err != nil {
		return "", err
	}
	return t.Format(goFmt), nil
}

// Resolve expands value against t:
//   - "auto" renders t with fallback
//   - "auto:FORMAT" renders t with FORMAT or a preset name
//   - anything else is returned unchanged
func Resolve(value string, t time.Time, fallback string) (string, error) {
	lower := strings.ToLower(value)
	if !strings.HasPrefix(lower, "auto") {
		return value, nil
	}
	if lower == "auto" {
		return Format(t, fallback)
	}
	if !strings.HasPrefix(lower, "auto:") {
		return "", fmt.Errorf("%w: invalid auto syntax %q, use \"auto\" or \"auto:FORMAT\"", ErrInvalidDateFormat, value)
	}

	// Keep the original case: tokens are case sensitive.
	format := value[len("auto:"):]
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty after \"auto:\"", ErrInvalidDateFormat)
	}
	return Format(t, format)
}

// ResolveDate is Resolve with DefaultDateFormat as the fallback.
func ResolveDate(value string, t time.Time) (string, error) {
	return Resolve(value, t, DefaultDateFormat)
}
