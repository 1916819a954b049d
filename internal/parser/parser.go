// Package parser turns curriculum PDFs into positioned words for the plan
// engine, and into plain text for metadata extraction.
package parser

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
)

// ErrNoWords is returned when a document decodes but carries no text layer.
var ErrNoWords = errors.New("no words decoded from document")

// ErrTooManyPages is returned by the preflight when a document exceeds MaxPages.
var ErrTooManyPages = errors.New("document exceeds page limit")

// PDFSource reads positioned words from PDF files. It tries the Go library
// first and falls back to pdftotext when enabled.
type PDFSource struct {
	FallbackPdftotext bool
	MaxPages          int
	Logger            *slog.Logger
}

func (s *PDFSource) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// IsSupportedExtension reports whether filename looks like a PDF.
func IsSupportedExtension(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}
