package plan

import (
	"sort"
	"strconv"
	"strings"
)

// idIndex resolves prerequisite references against the emitted course ids,
// tolerating zero-padding differences such as "6" for "06".
type idIndex struct {
	ids       map[string]bool
	canonical map[string]string
	widths    []int
}

func newIDIndex(courses []Course) *idIndex {
	ix := &idIndex{
		ids:       make(map[string]bool, len(courses)),
		canonical: make(map[string]string, len(courses)),
	}
	for _, c := range courses {
		ix.ids[c.ID] = true
	}

	sorted := make([]string, 0, len(ix.ids))
	for id := range ix.ids {
		sorted = append(sorted, id)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) < len(sorted[j])
		}
		return sorted[i] < sorted[j]
	})

	seenWidth := make(map[int]bool)
	for _, id := range sorted {
		if !isDigits(id) {
			continue
		}
		key := numericKey(id)
		if _, ok := ix.canonical[key]; !ok {
			ix.canonical[key] = id
		}
		if !seenWidth[len(id)] {
			seenWidth[len(id)] = true
			ix.widths = append(ix.widths, len(id))
		}
	}
	sort.Ints(ix.widths)
	return ix
}

// resolve maps a reference to an existing id.
func (ix *idIndex) resolve(ref string) (string, bool) {
	if ix.ids[ref] {
		return ref, true
	}
	if !isDigits(ref) {
		return "", false
	}
	key := numericKey(ref)
	if id, ok := ix.canonical[key]; ok {
		return id, true
	}
	for _, w := range ix.widths {
		padded := zeroPad(key, w)
		if ix.ids[padded] {
			return padded, true
		}
	}
	return "", false
}

// NormalizeIDs rewrites every prerequisite list so that it only references
// existing courses. Unresolvable references and self references are dropped
// and counted in report.
func NormalizeIDs(courses []Course, report *Report) []Course {
	if report == nil {
		report = &Report{}
	}
	ix := newIDIndex(courses)
	out := make([]Course, len(courses))
	for i, c := range courses {
		refs := make([]string, 0, len(c.Prerequisites))
		seen := make(map[string]bool, len(c.Prerequisites))
		for _, ref := range c.Prerequisites {
			id, ok := ix.resolve(ref)
			if !ok {
				report.UnresolvedPrerequisites++
				continue
			}
			if id == c.ID {
				report.SelfReferences++
				continue
			}
			if seen[id] {
				continue
			}
			seen[id] = true
			refs = append(refs, id)
		}
		c.Prerequisites = refs
		out[i] = c
	}
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// numericKey strips leading zeros, keeping "0" for all-zero input.
func numericKey(s string) string {
	k := strings.TrimLeft(s, "0")
	if k == "" {
		return "0"
	}
	return k
}

func zeroPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

func numericValue(id string) int {
	n, err := strconv.Atoi(id)
	if err != nil {
		return 0
	}
	return n
}
