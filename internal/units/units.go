// Package units converts the dimension and font-size strings stored in
// institution PDF settings into millimetres and points.
package units

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Conversion factors to millimetres.
const (
	mmPerPx = 0.264583
	mmPerCm = 10.0
	mmPerIn = 25.4
	mmPerPt = 0.352778
)

// PtToMM converts a typographic point value to millimetres.
func PtToMM(pt float64) float64 {
	return pt * mmPerPt
}

// MMToInches converts millimetres to inches.
func MMToInches(mm float64) float64 {
	return mm / mmPerIn
}

var (
	ErrEmptyDimension   = errors.New("dimension cannot be empty")
	ErrInvalidDimension = errors.New("invalid dimension")
	ErrInvalidFontSize  = errors.New("invalid font size")
	ErrUnknownPaperSize = errors.New("unknown paper size")
)

// ParseDimension converts values such as "20mm", "2cm", "1in", "72pt" or
// "100px" to millimetres. A bare number is read as millimetres.
func ParseDimension(s string) (float64, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return 0, ErrEmptyDimension
	}

	factor := 1.0
	switch {
	case strings.HasSuffix(v, "mm"):
		v = strings.TrimSuffix(v, "mm")
	case strings.HasSuffix(v, "cm"):
		v, factor = strings.TrimSuffix(v, "cm"), mmPerCm
	case strings.HasSuffix(v, "in"):
		v, factor = strings.TrimSuffix(v, "in"), mmPerIn
	case strings.HasSuffix(v, "pt"):
		v, factor = strings.TrimSuffix(v, "pt"), mmPerPt
	case strings.HasSuffix(v, "px"):
		v, factor = strings.TrimSuffix(v, "px"), mmPerPx
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDimension, s)
	}
	return n * factor, nil
}

// DimensionOr parses s and returns fallback when s is empty.
func DimensionOr(s string, fallback float64) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return fallback, nil
	}
	return ParseDimension(s)
}

// ParseFontSize reads "11pt" or "11" as a size in points.
func ParseFontSize(s string) (float64, error) {
	v := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "pt")
	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFontSize, s)
	}
	return n, nil
}

// FontSizeOr parses s and returns fallback when s is empty.
func FontSizeOr(s string, fallback float64) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return fallback, nil
	}
	return ParseFontSize(s)
}

// Paper is a sheet size in portrait orientation, in millimetres.
type Paper struct {
	Name   string
	Width  float64
	Height float64
}

var papers = map[string]Paper{
	"a4":     {Name: "A4", Width: 210, Height: 297},
	"letter": {Name: "Letter", Width: 215.9, Height: 279.4},
	"legal":  {Name: "Legal", Width: 215.9, Height: 355.6},
}

// LookupPaper finds a paper size by case-insensitive name.
func LookupPaper(name string) (Paper, error) {
	p, ok := papers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Paper{}, fmt.Errorf("%w: %q", ErrUnknownPaperSize, name)
	}
	return p, nil
}

// PaperNames lists the supported paper sizes.
func PaperNames() []string {
	return []string{"A4", "Letter", "Legal"}
}
