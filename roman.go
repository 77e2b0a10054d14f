package marksheet

import (
	"strconv"
	"strings"
)

var romanNumerals = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// Roman formats n as an upper-case Roman numeral. Values outside 1..3999
// are formatted as decimal.
func Roman(n int) string {
	if n < 1 || n > 3999 {
		return strconv.Itoa(n)
	}
	var b strings.Builder
	for _, r := range romanNumerals {
		for n >= r.value {
			b.WriteString(r.symbol)
			n -= r.value
		}
	}
	return b.String()
}

// otherYear ranks semester groups that do not name a year.
const otherYear = 99

// yearRank orders semester groups such as "II Year" by their leading Roman
// numeral. Groups without one sort last.
func yearRank(group string) int {
	fields := strings.Fields(strings.ToUpper(group))
	if len(fields) == 0 {
		return otherYear
	}
	for n := 1; n <= 5; n++ {
		if fields[0] == Roman(n) {
			return n
		}
	}
	return otherYear
}
