package main

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	marksheet "github.com/alnah/go-marksheet"
)

func TestResolveLayout_ClusterGroups(t *testing.T) {
	t.Parallel()

	settings := marksheet.DefaultSettings("INST01")
	settings.PaperSize = "Legal"
	settings.Orientation = marksheet.OrientationLandscape

	var courses []marksheet.CourseColumn
	for order := 1; order <= 4; order++ {
		courses = append(courses, marksheet.CourseColumn{Code: fmt.Sprintf("C%02d", order), Order: order, Semester: 1})
	}

	tests := []struct {
		name    string
		cluster bool
		want    []int
	}{
		{"roster order", false, []int{1, 2, 3, 1}},
		{"clustered by group", true, []int{1, 1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h, err := resolveLayout(documentCommands[cmdLedger], courses, nil, settings, marksheet.DocumentInfo{}, tt.cluster)
			if err != nil {
				t.Fatalf("resolveLayout() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, h.CourseGroups()); diff != "" {
				t.Errorf("CourseGroups() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
