package plan

import (
	"reflect"
	"testing"
)

func TestNormalizeIDs_ResolvesPadding(t *testing.T) {
	courses := []Course{
		{ID: "06", Prerequisites: []string{}},
		{ID: "07", Prerequisites: []string{"6"}},
	}
	got := NormalizeIDs(courses, nil)
	if !reflect.DeepEqual(got[1].Prerequisites, []string{"06"}) {
		t.Errorf("expected [06], got %v", got[1].Prerequisites)
	}
}

func TestNormalizeIDs_MixedWidths(t *testing.T) {
	courses := []Course{
		{ID: "5"},
		{ID: "0005"},
		{ID: "12", Prerequisites: []string{"05", "005", "0005"}},
	}
	got := NormalizeIDs(courses, nil)
	// "0005" exists verbatim; the others map to the shortest spelling of 5.
	if !reflect.DeepEqual(got[2].Prerequisites, []string{"5", "0005"}) {
		t.Errorf("expected [5 0005], got %v", got[2].Prerequisites)
	}
}

func TestNormalizeIDs_DropsUnresolvedAndSelf(t *testing.T) {
	courses := []Course{
		{ID: "01", Prerequisites: []string{"01", "1"}},
		{ID: "02", Prerequisites: []string{"99", "01", "1", "x"}},
	}
	var report Report
	got := NormalizeIDs(courses, &report)
	if len(got[0].Prerequisites) != 0 {
		t.Errorf("expected self references to be dropped, got %v", got[0].Prerequisites)
	}
	if !reflect.DeepEqual(got[1].Prerequisites, []string{"01"}) {
		t.Errorf("expected [01], got %v", got[1].Prerequisites)
	}
	if report.SelfReferences != 2 {
		t.Errorf("expected 2 self references, got %d", report.SelfReferences)
	}
	if report.UnresolvedPrerequisites != 2 {
		t.Errorf("expected 2 unresolved prerequisites, got %d", report.UnresolvedPrerequisites)
	}
}

func TestNormalizeIDs_DoesNotMutateInput(t *testing.T) {
	courses := []Course{{ID: "06"}, {ID: "07", Prerequisites: []string{"6"}}}
	NormalizeIDs(courses, nil)
	if courses[1].Prerequisites[0] != "6" {
		t.Errorf("expected input to stay untouched, got %v", courses[1].Prerequisites)
	}
}

func TestZeroPad(t *testing.T) {
	if got := zeroPad("7", 3); got != "007" {
		t.Errorf("expected 007, got %s", got)
	}
	if got := zeroPad("1234", 2); got != "1234" {
		t.Errorf("expected 1234, got %s", got)
	}
	if got := numericKey("000"); got != "0" {
		t.Errorf("expected 0, got %s", got)
	}
}
