package plan

import (
	"fmt"
	"sort"
)

// Report counts what the heuristics did while extracting a document.
type Report struct {
	Headers                 int `json:"headers"`
	Blocks                  int `json:"blocks"`
	Anchors                 int `json:"anchors"`
	NoiseRows               int `json:"noise_rows"`
	DroppedRows             int `json:"dropped_rows"`
	ReattributedRows        int `json:"reattributed_rows"`
	DuplicateCourses        int `json:"duplicate_courses"`
	UnresolvedPrerequisites int `json:"unresolved_prerequisites"`
	SelfReferences          int `json:"self_references"`
}

// Dropped returns the number of discarded items.
func (r Report) Dropped() int {
	return r.DroppedRows + r.DuplicateCourses + r.UnresolvedPrerequisites + r.SelfReferences
}

// Result is the outcome of one document extraction.
type Result struct {
	Courses []Course `json:"courses"`
	Rows    int      `json:"rows"`
	Report  Report   `json:"report"`
}

// Extract runs the whole pipeline over the pages of one document.
func Extract(pages []Page, opts Options) (*Result, error) {
	l := opts.layout()
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}
	return extractRows(BuildRows(pages, l.RowTolerance), l, opts)
}

// ExtractRows runs the pipeline over rows that were already built.
func ExtractRows(rows []Row, opts Options) (*Result, error) {
	l := opts.layout()
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}
	return extractRows(rows, l, opts)
}

func extractRows(rows []Row, l Layout, opts Options) (*Result, error) {
	res := &Result{Rows: len(rows)}

	blocks := l.SegmentBlocks(rows)
	res.Report.Headers = len(blocks)
	if len(blocks) == 0 {
		return nil, ErrNoHeaderFound
	}

	var courses []Course
	seen := make(map[string]bool)
	for _, b := range blocks {
		block := l.AssembleBlock(b, opts.FirstHalf, &res.Report)
		if len(block) > 0 {
			res.Report.Blocks++
		}
		for _, c := range block {
			if seen[c.ID] {
				res.Report.DuplicateCourses++
				continue
			}
			seen[c.ID] = true
			courses = append(courses, c)
		}
	}
	if len(courses) == 0 {
		return nil, ErrNoCoursesExtracted
	}

	sort.SliceStable(courses, func(i, j int) bool {
		return numericValue(courses[i].ID) < numericValue(courses[j].ID)
	})
	res.Courses = NormalizeIDs(courses, &res.Report)

	if opts.Strict && res.Report.Dropped() > 0 {
		return res, &DroppedError{Report: res.Report}
	}
	return res, nil
}
