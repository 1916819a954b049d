package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/plangest/internal/catalog"
	"github.com/dgallion1/plangest/internal/extract"
	"github.com/dgallion1/plangest/internal/meta"
	"github.com/dgallion1/plangest/internal/plan"
)

// WordSource reads a PDF into positioned words and plain text.
type WordSource interface {
	Pages(ctx context.Context, path string) ([]plan.Page, error)
	FullText(ctx context.Context, path string) (string, error)
}

// Processor turns one PDF into a saved plan document.
type Processor struct {
	source WordSource
	store  *catalog.Store
	stats  *extract.Stats
	log    *slog.Logger
	now    func() time.Time
}

func NewProcessor(source WordSource, store *catalog.Store, stats *extract.Stats, log *slog.Logger) *Processor {
	if log == nil {
		log = slog.Default()
	}
	return &Processor{source: source, store: store, stats: stats, log: log, now: time.Now}
}

// Extraction is a parsed document that has not been saved yet. Issues lists
// the validation problems tolerated outside strict mode.
type Extraction struct {
	Plan   *catalog.Plan
	Report plan.Report
	Issues []extract.Issue
}

// Extract reads the document at path and builds its plan. source is what the
// plan records as its origin; the file stem of source is the career fallback.
func (p *Processor) Extract(ctx context.Context, path, source string, opts plan.Options) (*Extraction, error) {
	start := time.Now()
	ext, err := p.extract(ctx, path, source, opts)
	if p.stats != nil {
		courses, outcome := 0, extract.OutcomeOK
		switch {
		case errors.Is(err, plan.ErrDroppedItems):
			outcome = extract.OutcomeDropped
		case err != nil:
			outcome = extract.OutcomeFailed
		default:
			courses = len(ext.Plan.Courses)
		}
		p.stats.Record(time.Since(start), courses, outcome)
	}
	return ext, err
}

func (p *Processor) extract(ctx context.Context, path, source string, opts plan.Options) (*Extraction, error) {
	log := p.log.With("source", source)

	pages, err := p.source.Pages(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read words: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := plan.Extract(pages, opts)
	if err != nil {
		var dropped *plan.DroppedError
		if errors.As(err, &dropped) {
			log.Warn("strict mode rejected document", "dropped", dropped.Report.Dropped())
		}
		return nil, fmt.Errorf("extract courses: %w", err)
	}
	var issues []extract.Issue
	if err := extract.ValidateCourses(res.Courses); err != nil {
		var verr *extract.ValidationError
		if opts.Strict || !errors.As(err, &verr) {
			return nil, err
		}
		log.Warn("course list has validation issues", "issues", len(verr.Issues), "error", err)
		issues = verr.Issues
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text, err := p.source.FullText(ctx, path)
	if err != nil {
		log.Warn("full text unavailable, metadata falls back to file name", "error", err)
	}
	fallback := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	career := meta.CareerName(text, fallback)
	intermediate, _ := meta.IntermediateTitle(text)
	final, _ := meta.FinalTitle(text)

	doc := catalog.NewPlan(career, source, res.Courses, intermediate, final, p.now())
	report := res.Report
	doc.Report = &report

	log.Info("extracted plan",
		"career", career,
		"courses", len(res.Courses),
		"blocks", report.Blocks,
		"dropped", report.Dropped(),
	)
	return &Extraction{Plan: doc, Report: report, Issues: issues}, nil
}

// Save writes the plan files.
func (p *Processor) Save(ext *Extraction) (catalog.Saved, error) {
	saved, err := p.store.Save(ext.Plan)
	if err != nil {
		return catalog.Saved{}, err
	}
	p.log.Info("saved plan", "slug", saved.Slug, "courses", len(ext.Plan.Courses))
	return saved, nil
}

// Process extracts and saves one document.
func (p *Processor) Process(ctx context.Context, path, source string, opts plan.Options) (catalog.Saved, *Extraction, error) {
	ext, err := p.Extract(ctx, path, source, opts)
	if err != nil {
		return catalog.Saved{}, nil, err
	}
	saved, err := p.Save(ext)
	if err != nil {
		return catalog.Saved{}, ext, err
	}
	return saved, ext, nil
}

// Store returns the plan store for direct use by API handlers.
func (p *Processor) Store() *catalog.Store {
	return p.store
}

// Stats returns the extraction statistics.
func (p *Processor) Stats() *extract.Stats {
	return p.stats
}
