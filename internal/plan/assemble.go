package plan

import (
	"regexp"
	"sort"
	"strings"
)

// prereqPattern finds course codes inside free prerequisite text such as "02-04".
var prereqPattern = regexp.MustCompile(`\b\d{1,4}\b`)

// Course is one extracted course. The JSON names follow the plan format
// consumed by the study-plan web app.
type Course struct {
	ID            string   `json:"id"`
	Name          string   `json:"nombre"`
	Term          int      `json:"cuatrimestre"`
	Year          int      `json:"anio"`
	Prerequisites []string `json:"correlativas"`
}

// CourseBuilder accumulates the fragments of one course within a block.
type CourseBuilder struct {
	Code        string
	Year        int
	AnchorTop   float64
	NameParts   []string
	PrereqParts []string
}

// Build finalizes the builder into a course placed in the given half of its year.
func (b *CourseBuilder) Build(half int) Course {
	return Course{
		ID:            b.Code,
		Name:          CleanName(strings.Join(b.NameParts, " ")),
		Term:          TermIndex(b.Year, half),
		Year:          b.Year,
		Prerequisites: ParsePrerequisites(b.PrereqParts),
	}
}

// TermIndex returns the 1-based half-year slot of a half (1 or 2) of a year.
func TermIndex(year, half int) int {
	return (year-1)*2 + half
}

// CleanName normalizes a joined course name. A name whose first half repeats
// its second half (a cell duplicated across a page break) is cut in two.
func CleanName(raw string) string {
	words := strings.Fields(NormalizeText(raw))
	if n := len(words); n >= 4 && n%2 == 0 {
		half := n / 2
		if strings.Join(words[:half], " ") == strings.Join(words[half:], " ") {
			words = words[:half]
		}
	}
	return strings.Trim(strings.Join(words, " "), "-,:; ")
}

// ParsePrerequisites extracts the codes of a prerequisite column. A lone dash
// is the document's explicit "none" marker.
func ParsePrerequisites(parts []string) []string {
	raw := strings.Join(parts, " ")
	if strings.TrimSpace(raw) == "-" {
		return []string{}
	}
	return uniqueInOrder(prereqPattern.FindAllString(raw, -1))
}

// FirstHalfCount infers how many of a year's courses are taught in its first
// half: all of them for small years, otherwise half rounded up.
func FirstHalfCount(total int) int {
	if total <= 5 {
		return total
	}
	return (total + 1) / 2
}

func uniqueInOrder(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}

// blockAssembler owns the builders of one block for the block's lifetime.
type blockAssembler struct {
	layout   Layout
	year     int
	anchors  []Anchor
	builders map[string]*CourseBuilder
	report   *Report
}

// AssembleBlock turns one block into courses, in anchor order.
func (l Layout) AssembleBlock(b Block, firstHalf map[int]int, report *Report) []Course {
	if report == nil {
		report = &Report{}
	}
	a := &blockAssembler{
		layout:   l,
		year:     b.Year,
		builders: make(map[string]*CourseBuilder),
		report:   report,
	}
	a.collectAnchors(b.Rows)
	if len(a.anchors) == 0 {
		return nil
	}
	a.attachContinuations(b.Rows)
	return a.finalize(firstHalf)
}

func (a *blockAssembler) collectAnchors(rows []Row) {
	for _, r := range rows {
		code, ok := a.layout.LeftCode(r)
		if !ok {
			continue
		}
		a.anchors = append(a.anchors, Anchor{Code: code, Row: r})
		a.report.Anchors++

		b, ok := a.builders[code]
		if !ok {
			b = &CourseBuilder{Code: code, Year: a.year, AnchorTop: r.GlobalTop()}
			a.builders[code] = b
		}
		b.NameParts = append(b.NameParts, a.layout.NameTokens(r)...)
		b.PrereqParts = append(b.PrereqParts, a.layout.PrereqTokens(r)...)
	}
}

func (a *blockAssembler) attachContinuations(rows []Row) {
	hasPrereqs := func(code string) bool {
		b, ok := a.builders[code]
		return ok && len(b.PrereqParts) > 0
	}
	for _, r := range rows {
		if _, ok := a.layout.LeftCode(r); ok {
			continue
		}
		c := Continuation{
			Row:     r,
			Names:   a.layout.NameTokens(r),
			Prereqs: a.layout.PrereqTokens(r),
		}
		if len(c.Names) == 0 && len(c.Prereqs) == 0 {
			a.report.NoiseRows++
			continue
		}

		idx, decision := a.layout.Attribute(a.anchors, c, hasPrereqs)
		switch decision {
		case DropTooFar:
			a.report.DroppedRows++
			continue
		case AttachFollowing:
			a.report.ReattributedRows++
		}

		b := a.builders[a.anchors[idx].Code]
		b.NameParts = append(b.NameParts, c.Names...)
		b.PrereqParts = append(b.PrereqParts, c.Prereqs...)
	}
}

func (a *blockAssembler) finalize(firstHalf map[int]int) []Course {
	ordered := make([]*CourseBuilder, 0, len(a.builders))
	for _, b := range a.builders {
		ordered = append(ordered, b)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].AnchorTop != ordered[j].AnchorTop {
			return ordered[i].AnchorTop < ordered[j].AnchorTop
		}
		return ordered[i].Code < ordered[j].Code
	})

	count, ok := firstHalf[a.year]
	if !ok {
		count = FirstHalfCount(len(ordered))
	}

	courses := make([]Course, 0, len(ordered))
	for i, b := range ordered {
		half := 2
		if i < count {
			half = 1
		}
		courses = append(courses, b.Build(half))
	}
	return courses
}
