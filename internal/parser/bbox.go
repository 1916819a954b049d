package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/dgallion1/plangest/internal/plan"
)

// ParseBBox reads the XHTML written by `pdftotext -bbox`. The tokenizer
// lower-cases attribute names, so xMin arrives as xmin.
func ParseBBox(r io.Reader) ([]plan.Page, error) {
	z := html.NewTokenizer(r)
	var (
		pages  []plan.Page
		inWord bool
		word   plan.Word
		text   strings.Builder
	)

	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, fmt.Errorf("parse bbox: %w", err)
			}
			return pages, nil

		case html.StartTagToken:
			name, hasAttr := z.TagName()
			switch string(name) {
			case "page":
				pages = append(pages, plan.Page{})
			case "word":
				if len(pages) == 0 {
					pages = append(pages, plan.Page{})
				}
				word = plan.Word{}
				for hasAttr {
					var key, val []byte
					key, val, hasAttr = z.TagAttr()
					f, err := strconv.ParseFloat(string(val), 64)
					if err != nil {
						continue
					}
					switch string(key) {
					case "xmin":
						word.X0 = f
					case "ymin":
						word.Top = f
					}
				}
				inWord = true
				text.Reset()
			}

		case html.TextToken:
			if inWord {
				text.Write(z.Text())
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "word" && inWord {
				inWord = false
				word.Text = strings.TrimSpace(text.String())
				if word.Text != "" {
					last := len(pages) - 1
					pages[last] = append(pages[last], word)
				}
			}
		}
	}
}
