package plan

import (
	"errors"
	"reflect"
	"testing"
)

// twoYearDocument is a two-page plan: year 1 on page 0, year 2 on page 1.
func twoYearDocument() []Page {
	first := pageOf(
		[]Word{word("Plan de Estudios", 40, 40)},
		headerWords(100),
		courseWords("01", "Matemática I", "-", 120),
		courseWords("02", "Introducción a la", "", 140),
		courseWords("", "Programación", "", 149),
		courseWords("03", "Física", "1", 170),
		courseWords("", "Página 1", "", 400),
	)
	second := pageOf(
		headerWords(50),
		courseWords("04", "Álgebra", "01 3", 70),
		courseWords("05", "Estructuras de Datos", "02-04", 90),
		courseWords("06", "Sistemas", "06 77", 110),
	)
	return []Page{first, second}
}

func TestExtract_TwoYears(t *testing.T) {
	res, err := Extract(twoYearDocument(), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Course{
		{ID: "01", Name: "Matemática I", Term: 1, Year: 1, Prerequisites: []string{}},
		{ID: "02", Name: "Introducción a la Programación", Term: 1, Year: 1, Prerequisites: []string{}},
		{ID: "03", Name: "Física", Term: 1, Year: 1, Prerequisites: []string{"01"}},
		{ID: "04", Name: "Álgebra", Term: 3, Year: 2, Prerequisites: []string{"01", "03"}},
		{ID: "05", Name: "Estructuras de Datos", Term: 3, Year: 2, Prerequisites: []string{"02", "04"}},
		{ID: "06", Name: "Sistemas", Term: 3, Year: 2, Prerequisites: []string{}},
	}
	if !reflect.DeepEqual(res.Courses, want) {
		t.Fatalf("unexpected courses:\n got: %+v\nwant: %+v", res.Courses, want)
	}

	r := res.Report
	if r.Headers != 2 || r.Blocks != 2 {
		t.Errorf("expected 2 headers and 2 blocks, got %d and %d", r.Headers, r.Blocks)
	}
	if r.DroppedRows != 1 {
		t.Errorf("expected the page footer to be dropped, got %d dropped rows", r.DroppedRows)
	}
	if r.SelfReferences != 1 || r.UnresolvedPrerequisites != 1 {
		t.Errorf("expected 1 self reference and 1 unresolved, got %d and %d", r.SelfReferences, r.UnresolvedPrerequisites)
	}
}

func TestExtract_Invariants(t *testing.T) {
	res, err := Extract(twoYearDocument(), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids := make(map[string]bool)
	for _, c := range res.Courses {
		if ids[c.ID] {
			t.Errorf("duplicate id %s", c.ID)
		}
		ids[c.ID] = true
	}
	lastTerm := map[int]int{}
	for _, c := range res.Courses {
		if c.Term != TermIndex(c.Year, 1) && c.Term != TermIndex(c.Year, 2) {
			t.Errorf("course %s: term %d outside year %d", c.ID, c.Term, c.Year)
		}
		if c.Term < lastTerm[c.Year] {
			t.Errorf("course %s: term decreased within year %d", c.ID, c.Year)
		}
		lastTerm[c.Year] = c.Term
		for _, p := range c.Prerequisites {
			if p == c.ID {
				t.Errorf("course %s lists itself", c.ID)
			}
			if !ids[p] {
				t.Errorf("course %s references unknown id %s", c.ID, p)
			}
		}
	}
}

func TestExtract_NoHeader(t *testing.T) {
	pages := []Page{pageOf(courseWords("01", "Uno", "", 100))}
	_, err := Extract(pages, Options{})
	if !errors.Is(err, ErrNoHeaderFound) {
		t.Fatalf("expected ErrNoHeaderFound, got %v", err)
	}
}

func TestExtract_NoCourses(t *testing.T) {
	pages := []Page{pageOf(headerWords(100), courseWords("", "Sin código", "", 120))}
	_, err := Extract(pages, Options{})
	if !errors.Is(err, ErrNoCoursesExtracted) {
		t.Fatalf("expected ErrNoCoursesExtracted, got %v", err)
	}
}

func TestExtract_StrictReportsDrops(t *testing.T) {
	res, err := Extract(twoYearDocument(), Options{Strict: true})
	if !errors.Is(err, ErrDroppedItems) {
		t.Fatalf("expected ErrDroppedItems, got %v", err)
	}
	var dropped *DroppedError
	if !errors.As(err, &dropped) {
		t.Fatalf("expected *DroppedError, got %T", err)
	}
	if dropped.Report.Dropped() != 3 {
		t.Errorf("expected 3 dropped items, got %d", dropped.Report.Dropped())
	}
	if res == nil || len(res.Courses) != 6 {
		t.Errorf("expected the result to be returned alongside the error")
	}
}

func TestExtract_DuplicateCodeAcrossYears(t *testing.T) {
	pages := []Page{pageOf(
		headerWords(100),
		courseWords("01", "Uno", "", 120),
		headerWords(200),
		courseWords("01", "Uno bis", "", 220),
		courseWords("02", "Dos", "1", 240),
	)}
	res, err := Extract(pages, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Courses) != 2 {
		t.Fatalf("expected 2 courses, got %d", len(res.Courses))
	}
	if res.Courses[0].Name != "Uno" || res.Courses[0].Year != 1 {
		t.Errorf("expected the first occurrence to win, got %+v", res.Courses[0])
	}
	if res.Report.DuplicateCourses != 1 {
		t.Errorf("expected 1 duplicate, got %d", res.Report.DuplicateCourses)
	}
}

func TestExtract_SortsByNumericID(t *testing.T) {
	pages := []Page{pageOf(
		headerWords(100),
		courseWords("10", "Diez", "", 120),
		courseWords("9", "Nueve", "", 140),
		courseWords("100", "Cien", "", 160),
	)}
	res, err := Extract(pages, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var ids []string
	for _, c := range res.Courses {
		ids = append(ids, c.ID)
	}
	if !reflect.DeepEqual(ids, []string{"9", "10", "100"}) {
		t.Errorf("expected [9 10 100], got %v", ids)
	}
}

func TestExtract_InvalidLayout(t *testing.T) {
	l := DefaultLayout()
	l.NameMin = 400
	if _, err := Extract(twoYearDocument(), Options{Layout: l}); err == nil {
		t.Fatal("expected an invalid layout error")
	}
}
