package marksheet

import "fmt"

// GroupCount is the number of distinct column groups.
const GroupCount = 4

// groupPattern assigns a column group to each course position.
// Index is (order-1) mod len(groupPattern). Must not be modified.
var groupPattern = [...]int{1, 2, 3, 1, 4, 3, 1}

// PatternLength is the period of the order to group table.
const PatternLength = len(groupPattern)

// ColumnGroupOf returns the column group (1..4) of a course order.
// Orders below 1 map to group 1.
func ColumnGroupOf(order int) int {
	if order < 1 {
		return 1
	}
	return groupPattern[(order-1)%PatternLength]
}

// OrdersForGroup lists the orders in 1..maxOrder assigned to group.
func OrdersForGroup(group, maxOrder int) []int {
	var orders []int
	for order := 1; order <= maxOrder; order++ {
		if ColumnGroupOf(order) == group {
			orders = append(orders, order)
		}
	}
	return orders
}

// SubColumn is one cell of a course inside the marks table.
type SubColumn struct {
	Key   string  // SEM, INT, EXT, TOT, RES, GP, LG
	Width float64 // millimetres
}

// Sub-column keys.
const (
	SubSemester    = "SEM"
	SubInternal    = "INT"
	SubExternal    = "EXT"
	SubTotal       = "TOT"
	SubResult      = "RES"
	SubGradePoint  = "GP"
	SubLetterGrade = "LG"
)

// groupSubColumns holds the fixed width vector of each group, indexed by
// group number minus one.
var groupSubColumns = [GroupCount][]SubColumn{
	{{SubSemester, 3}, {SubInternal, 4}, {SubExternal, 4}, {SubTotal, 4.5}, {SubResult, 3}, {SubGradePoint, 3}, {SubLetterGrade, 3.5}},
	{{SubInternal, 4}, {SubExternal, 4}, {SubTotal, 4.5}, {SubResult, 3}, {SubGradePoint, 3}, {SubLetterGrade, 3.5}},
	{{SubInternal, 4}, {SubTotal, 4.5}, {SubResult, 3}, {SubGradePoint, 3}, {SubLetterGrade, 3.5}},
	{{SubTotal, 4.5}, {SubResult, 3}, {SubLetterGrade, 3.5}},
}

// SubColumnsOf returns a copy of the sub-column vector of group.
func SubColumnsOf(group int) []SubColumn {
	if group < 1 || group > GroupCount {
		return nil
	}
	src := groupSubColumns[group-1]
	out := make([]SubColumn, len(src))
	copy(out, src)
	return out
}

// GroupWidth is the width in millimetres one course occupies in group.
func GroupWidth(group int) float64 {
	var w float64
	for _, sc := range SubColumnsOf(group) {
		w += sc.Width
	}
	return w
}

// GroupLabel returns the short label of a group, e.g. "CG2".
func GroupLabel(group int) string {
	return fmt.Sprintf("CG%d", group)
}

// groupColors are the band colors of each group in the ledger header.
var groupColors = [GroupCount]RGB{
	{R: 139, G: 92, B: 246},
	{R: 59, G: 130, B: 246},
	{R: 249, G: 115, B: 22},
	{R: 245, G: 158, B: 11},
}

// GroupColor returns the header band color of group.
func GroupColor(group int) RGB {
	if group < 1 || group > GroupCount {
		return RGB{R: 229, G: 231, B: 235}
	}
	return groupColors[group-1]
}
