package plan

import "strings"

// Block is the row range of one curriculum year.
type Block struct {
	Year int
	Rows []Row
}

// IsHeaderRow reports whether r is a table header. The code keyword must be
// present together with the name or the prerequisite keyword, since some PDFs
// lose one of the header cells.
func (l Layout) IsHeaderRow(r Row) bool {
	text := foldASCII(r.Text())
	if !strings.Contains(text, l.HeaderCode) {
		return false
	}
	return (l.HeaderName != "" && strings.Contains(text, l.HeaderName)) ||
		(l.HeaderPrereq != "" && strings.Contains(text, l.HeaderPrereq))
}

// SegmentBlocks splits rows at header rows. Block N spans from the row after
// the N-th header up to the row before the next one, and its year is N.
// Rows before the first header belong to no block.
func (l Layout) SegmentBlocks(rows []Row) []Block {
	var headers []int
	for i, r := range rows {
		if l.IsHeaderRow(r) {
			headers = append(headers, i)
		}
	}

	blocks := make([]Block, 0, len(headers))
	for n, start := range headers {
		end := len(rows)
		if n+1 < len(headers) {
			end = headers[n+1]
		}
		blocks = append(blocks, Block{Year: n + 1, Rows: rows[start+1 : end]})
	}
	return blocks
}
