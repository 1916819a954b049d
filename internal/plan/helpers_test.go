package plan

import "strings"

func word(text string, x, top float64) Word {
	return Word{Text: text, X0: x, Top: top}
}

// headerWords is a table header as it appears in the curriculum PDFs.
func headerWords(top float64) []Word {
	return []Word{
		word("Código", 40, top),
		word("Asignatura", 110, top),
		word("Correlatividades", 500, top),
	}
}

// courseWords lays out a course line: code, name words, optional prerequisites.
func courseWords(code, name, prereqs string, top float64) []Word {
	var ws []Word
	if code != "" {
		ws = append(ws, word(code, 40, top))
	}
	x := 110.0
	for _, part := range strings.Fields(name) {
		ws = append(ws, word(part, x, top))
		x += 20
	}
	x = 510.0
	for _, part := range strings.Fields(prereqs) {
		ws = append(ws, word(part, x, top))
		x += 15
	}
	return ws
}

func pageOf(lines ...[]Word) Page {
	var p Page
	for _, l := range lines {
		p = append(p, l...)
	}
	return p
}

func rowOf(page int, words []Word) Row {
	return NewRow(page, words...)
}
