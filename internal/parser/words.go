package parser

import (
	"math"
	"sort"
	"strings"
	"unicode"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/dgallion1/plangest/internal/plan"
)

const (
	lineTolerance = 2.0
	gapTolerance  = 2.0
)

type glyph struct {
	s    string
	x, w float64
	top  float64
}

// wordsFromGlyphs groups the glyphs of a content stream into words. PDF
// coordinates grow upwards, so tops are flipped against the page height.
func wordsFromGlyphs(texts []pdflib.Text, height float64) plan.Page {
	glyphs := make([]glyph, 0, len(texts))
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		glyphs = append(glyphs, glyph{
			s:   t.S,
			x:   t.X,
			w:   t.W,
			top: math.Max(0, height-t.Y-t.FontSize),
		})
	}
	sort.SliceStable(glyphs, func(i, j int) bool {
		if glyphs[i].top != glyphs[j].top {
			return glyphs[i].top < glyphs[j].top
		}
		return glyphs[i].x < glyphs[j].x
	})

	var page plan.Page
	for start := 0; start < len(glyphs); {
		end := start + 1
		for end < len(glyphs) && glyphs[end].top-glyphs[start].top <= lineTolerance {
			end++
		}
		line := glyphs[start:end]
		sort.SliceStable(line, func(i, j int) bool { return line[i].x < line[j].x })
		page = append(page, splitLine(line)...)
		start = end
	}
	return page
}

func splitLine(line []glyph) []plan.Word {
	var (
		words []plan.Word
		buf   strings.Builder
		cur   plan.Word
		prev  *glyph
	)
	flush := func() {
		if buf.Len() > 0 {
			cur.Text = buf.String()
			words = append(words, cur)
		}
		buf.Reset()
	}

	for i := range line {
		g := &line[i]
		if strings.TrimFunc(g.s, unicode.IsSpace) == "" {
			flush()
			prev = nil
			continue
		}
		if prev != nil && g.x-(prev.x+prev.w) > gapTolerance {
			flush()
		}
		if buf.Len() == 0 {
			cur = plan.Word{X0: g.x, Top: g.top}
		} else if g.top < cur.Top {
			cur.Top = g.top
		}
		buf.WriteString(g.s)
		prev = g
	}
	flush()
	return words
}
