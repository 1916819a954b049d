package plan

import (
	"math"
	"sort"
	"strings"
)

// PageStride separates pages on the global vertical axis. It must exceed the
// height of any page.
const PageStride = 10000

// Word is one decoded token with its left edge and top edge.
type Word struct {
	Text string  `json:"text"`
	X0   float64 `json:"x0"`
	Top  float64 `json:"top"`
}

// Page is the set of words decoded from one PDF page.
type Page []Word

// Row is one visual line of a page.
type Row struct {
	Page   int
	Top    float64
	Tokens []Word

	sum float64
}

// NewRow returns a row holding the given words, sorted left to right.
func NewRow(page int, words ...Word) Row {
	r := Row{Page: page}
	for _, w := range words {
		r.add(w)
	}
	r.sortTokens()
	return r
}

// add appends w and recomputes Top as the mean of every token's top.
func (r *Row) add(w Word) {
	r.Tokens = append(r.Tokens, w)
	r.sum += w.Top
	r.Top = r.sum / float64(len(r.Tokens))
}

func (r *Row) sortTokens() {
	sort.SliceStable(r.Tokens, func(i, j int) bool {
		return r.Tokens[i].X0 < r.Tokens[j].X0
	})
}

// GlobalTop orders rows across page boundaries.
func (r Row) GlobalTop() float64 {
	return float64(r.Page)*PageStride + r.Top
}

// Text joins the row's tokens with single spaces.
func (r Row) Text() string {
	parts := make([]string, len(r.Tokens))
	for i, t := range r.Tokens {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}

// BuildRows clusters each page's words into rows and returns every row of the
// document ordered by global vertical position.
func BuildRows(pages []Page, tolerance float64) []Row {
	var rows []Row
	for i, page := range pages {
		rows = append(rows, buildPageRows(i, page, tolerance)...)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].GlobalTop() < rows[j].GlobalTop()
	})
	return rows
}

func buildPageRows(page int, words []Word, tolerance float64) []Row {
	clean := make([]Word, 0, len(words))
	for _, w := range words {
		w.Text = NormalizeText(w.Text)
		if w.Text == "" {
			continue
		}
		clean = append(clean, w)
	}
	sort.SliceStable(clean, func(i, j int) bool {
		a, b := clean[i], clean[j]
		if a.Top != b.Top {
			return a.Top < b.Top
		}
		if a.X0 != b.X0 {
			return a.X0 < b.X0
		}
		return a.Text < b.Text
	})

	var rows []Row
	for _, w := range clean {
		matched := -1
		for i := range rows {
			if math.Abs(rows[i].Top-w.Top) <= tolerance {
				matched = i
				break
			}
		}
		if matched < 0 {
			rows = append(rows, Row{Page: page})
			matched = len(rows) - 1
		}
		rows[matched].add(w)
	}
	for i := range rows {
		rows[i].sortTokens()
	}
	return rows
}
