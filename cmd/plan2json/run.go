package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/plangest/internal/catalog"
	"github.com/dgallion1/plangest/internal/config"
	"github.com/dgallion1/plangest/internal/extract"
	"github.com/dgallion1/plangest/internal/parser"
	"github.com/dgallion1/plangest/internal/pipeline"
	"github.com/dgallion1/plangest/internal/plan"
)

type runOptions struct {
	input     string
	output    string
	split     string
	profile   string
	workers   int
	maxPages  int
	strict    bool
	verbose   bool
	prune     bool
	pdftotext bool

	// source replaces the PDF reader in tests.
	source pipeline.WordSource
}

// exitError carries the process exit status.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func fail(code int, format string, args ...any) error {
	return &exitError{code: code, err: fmt.Errorf(format, args...)}
}

type docResult struct {
	path  string
	saved catalog.Saved
	ext   *pipeline.Extraction
	err   error
}

func run(ctx context.Context, o runOptions, stdout, stderr io.Writer) error {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if _, err := os.Stat(o.input); err != nil {
		return fail(1, "input not found: %s", o.input)
	}
	pdfs, err := findPDFs(o.input)
	if err != nil {
		return fail(1, "scan input: %v", err)
	}
	if len(pdfs) == 0 {
		return fail(1, "no PDF files found in %s", o.input)
	}

	split, err := config.ParseSplit(o.split)
	if err != nil {
		return fail(1, "--split: %v", err)
	}
	layout, err := config.LoadLayout(o.profile)
	if err != nil {
		return fail(1, "--profile: %v", err)
	}
	opts := plan.Options{Layout: layout, FirstHalf: split, Strict: o.strict}

	store, err := catalog.NewStore(o.output)
	if err != nil {
		return fail(1, "%v", err)
	}
	source := o.source
	if source == nil {
		source = &parser.PDFSource{FallbackPdftotext: o.pdftotext, MaxPages: o.maxPages, Logger: log}
	}
	proc := pipeline.NewProcessor(source, store, extract.NewStats(0), log)

	results := extractAll(ctx, proc, pdfs, opts, o.workers)
	saveInOrder(proc, results, stderr)

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			fmt.Fprintf(stderr, "[ERROR] %s: %v\n", r.path, r.err)
			continue
		}
		if o.verbose {
			fmt.Fprintf(stdout, "[OK] %s -> %s (%d materias)\n",
				filepath.Base(r.path), filepath.Base(r.saved.CoursesPath), len(r.ext.Plan.Courses))
		}
		if d := r.ext.Report.Dropped(); d > 0 {
			fmt.Fprintf(stderr, "[WARN] %s: %d elementos descartados\n", filepath.Base(r.path), d)
		}
	}
	if failed > 0 {
		return fail(2, "%d of %d documents failed; catalog not updated", failed, len(results))
	}

	catalogPath := filepath.Join(store.Dir(), catalog.CatalogFile)
	if !o.prune {
		if _, err := store.WriteCatalog(); err != nil {
			return fail(1, "%v", err)
		}
	} else {
		_, removed, err := store.RebuildAndPrune()
		if err != nil {
			return fail(1, "prune: %v", err)
		}
		for _, name := range removed {
			if o.verbose {
				fmt.Fprintf(stdout, "[PRUNE] Removed stale file: %s\n", name)
			}
		}
		fmt.Fprintf(stdout, "JSON eliminados: %d\n", len(removed))
	}

	fmt.Fprintf(stdout, "Catálogo actualizado: %s\n", catalogPath)
	fmt.Fprintf(stdout, "PDFs procesados: %d\n", len(results))
	return nil
}

// extractAll extracts the documents with at most workers in flight and
// returns the results in input order. Nothing is written yet.
func extractAll(ctx context.Context, proc *pipeline.Processor, pdfs []string, opts plan.Options, workers int) []docResult {
	if workers <= 0 {
		workers = 1
	}
	results := make([]docResult, len(pdfs))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, path := range pdfs {
		results[i].path = path
		if err := ctx.Err(); err != nil {
			results[i].err = err
			continue
		}
		g.Go(func() error {
			r := &results[i]
			r.ext, r.err = proc.Extract(ctx, path, path, opts)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// saveInOrder writes the extracted plans in input order, so when two files
// share a slug the later one in sorted order wins.
func saveInOrder(proc *pipeline.Processor, results []docResult, stderr io.Writer) {
	owner := make(map[string]string)
	for i := range results {
		r := &results[i]
		if r.err != nil {
			continue
		}
		r.saved, r.err = proc.Save(r.ext)
		if r.err != nil {
			continue
		}
		if prev, ok := owner[r.saved.Slug]; ok {
			fmt.Fprintf(stderr, "[WARN] %s overwrites %s (%s)\n",
				filepath.Base(r.path), filepath.Base(prev), r.saved.Slug)
		}
		owner[r.saved.Slug] = r.path
	}
}

// findPDFs returns path itself when it is a PDF, or every PDF below it in
// lexical order.
func findPDFs(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if parser.IsSupportedExtension(path) {
			return []string{path}, nil
		}
		return nil, nil
	}

	var out []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && parser.IsSupportedExtension(p) {
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

