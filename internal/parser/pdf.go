package parser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/dgallion1/plangest/internal/plan"
)

// defaultPageHeight is US Letter, used when a page has no MediaBox.
const defaultPageHeight = 792

// Preflight validates the file with pdfcpu and returns its page count.
func (s *PDFSource) Preflight(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	n, err := api.PageCount(f, nil)
	if err != nil {
		return 0, fmt.Errorf("count pages: %w", err)
	}
	if s.MaxPages > 0 && n > s.MaxPages {
		return n, fmt.Errorf("%w: %d pages, limit %d", ErrTooManyPages, n, s.MaxPages)
	}
	return n, nil
}

// Pages returns the words of every page, with coordinates measured from the
// top-left corner of each page.
func (s *PDFSource) Pages(ctx context.Context, path string) ([]plan.Page, error) {
	if _, err := s.Preflight(path); err != nil {
		return nil, err
	}

	pages, err := readPages(path)
	if err == nil && countWords(pages) == 0 {
		err = ErrNoWords
	}
	if err != nil && s.FallbackPdftotext {
		s.logger().Warn("pdf library failed, trying pdftotext", "path", path, "error", err)
		pages, err = pdftotextPages(ctx, path)
		if err == nil && countWords(pages) == 0 {
			err = ErrNoWords
		}
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf words: %w", err)
	}
	return pages, nil
}

// FullText returns the plain text of the document, one page per line block.
func (s *PDFSource) FullText(ctx context.Context, path string) (string, error) {
	text, err := readPlainText(path)
	if (err != nil || strings.TrimSpace(text) == "") && s.FallbackPdftotext {
		text, err = pdftotextLayout(ctx, path)
	}
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	return text, nil
}

func readPages(path string) (pages []plan.Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf decoder panic: %v", r)
		}
	}()

	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, nil)
			continue
		}
		pages = append(pages, wordsFromGlyphs(page.Content().Text, pageHeight(page.V)))
	}
	return pages, nil
}

func readPlainText(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf decoder panic: %v", r)
		}
	}()

	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		t, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(t)
	}
	return buf.String(), nil
}

// pageHeight reads the MediaBox, which pages may inherit from their parents.
func pageHeight(v pdflib.Value) float64 {
	for depth := 0; depth < 32 && !v.IsNull(); depth++ {
		box := v.Key("MediaBox")
		if box.Len() == 4 {
			if h := box.Index(3).Float64() - box.Index(1).Float64(); h > 0 {
				return h
			}
		}
		v = v.Key("Parent")
	}
	return defaultPageHeight
}

func pdftotextPages(ctx context.Context, path string) ([]plan.Page, error) {
	cmd := exec.CommandContext(ctx, "pdftotext", "-bbox", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	return ParseBBox(strings.NewReader(string(out)))
}

func pdftotextLayout(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, "pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}

func countWords(pages []plan.Page) int {
	n := 0
	for _, p := range pages {
		n += len(p)
	}
	return n
}
