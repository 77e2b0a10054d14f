package richtext

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var placeholderRe = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

// Expand replaces {{key}} placeholders with values from vars.
// Unknown keys are left untouched.
func Expand(tmpl string, vars map[string]string) string {
	if !strings.Contains(tmpl, "{{") {
		return tmpl
	}
	return placeholderRe.ReplaceAllStringFunc(tmpl, func(m string) string {
		key := placeholderRe.FindStringSubmatch(m)[1]
		if v, ok := vars[key]; ok {
			return v
		}
		return m
	})
}

// PageNumber formats a page numbering template such as
// "Page {page} of {total}".
func PageNumber(format string, page, total int) string {
	return strings.NewReplacer(
		"{page}", strconv.Itoa(page),
		"{total}", strconv.Itoa(total),
	).Replace(format)
}

// avgCharEm is the average glyph advance of the core fonts, in em.
const avgCharEm = 0.5

// mmPerPt converts points to millimetres.
const mmPerPt = 0.352778

// EstimateLines approximates how many lines text needs when wrapped to
// width millimetres at size points. Empty text counts as one line.
func EstimateLines(s string, width, size float64) int {
	charWidth := size * mmPerPt * avgCharEm
	if width <= 0 || charWidth <= 0 {
		return 1
	}
	perLine := math.Max(1, math.Floor(width/charWidth))
	n := float64(utf8.RuneCountInString(s))
	if n == 0 {
		return 1
	}
	return int(math.Ceil(n / perLine))
}
