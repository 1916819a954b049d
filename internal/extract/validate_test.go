package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/dgallion1/plangest/internal/plan"
)

func validCourses() []plan.Course {
	return []plan.Course{
		{ID: "01", Name: "Matemática I", Term: 1, Year: 1, Prerequisites: []string{}},
		{ID: "02", Name: "Programación", Term: 1, Year: 1, Prerequisites: []string{}},
		{ID: "03", Name: "Matemática II", Term: 2, Year: 1, Prerequisites: []string{"01"}},
	}
}

func TestValidateCourses_ValidPasses(t *testing.T) {
	if err := ValidateCourses(validCourses()); err != nil {
		t.Errorf("expected valid list to pass, got %v", err)
	}
}

func TestValidateCourses_Empty(t *testing.T) {
	err := ValidateCourses(nil)
	if !errors.Is(err, ErrInvalidCourses) {
		t.Fatalf("expected ErrInvalidCourses, got %v", err)
	}
}

func TestValidateCourses_CollectsEveryIssue(t *testing.T) {
	courses := validCourses()
	courses[0].Name = " "
	courses[1].Term = 0
	courses[2].Prerequisites = []string{"03", "99"}
	courses = append(courses, plan.Course{ID: "01", Name: "Repetida", Term: 1})

	err := ValidateCourses(courses)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}

	want := []string{
		"course 01: empty name",
		"course 01: duplicate id",
		"course 02: term 0 is below 1",
		"course 03: lists itself as prerequisite",
		"course 03: unknown prerequisite 99",
	}
	if len(verr.Issues) != len(want) {
		t.Fatalf("expected %d issues, got %d: %v", len(want), len(verr.Issues), verr.Issues)
	}
	for i, w := range want {
		if got := verr.Issues[i].String(); got != w {
			t.Errorf("issue %d: expected %q, got %q", i, w, got)
		}
	}
	if !strings.Contains(err.Error(), "unknown prerequisite 99") {
		t.Errorf("expected message to list issues, got %q", err.Error())
	}
}

func TestValidateCourses_EmptyID(t *testing.T) {
	err := ValidateCourses([]plan.Course{{Name: "Sin código", Term: 1}})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Issues[0].Problem != "empty id" {
		t.Fatalf("expected empty id issue, got %v", err)
	}
}
