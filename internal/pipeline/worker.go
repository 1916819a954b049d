package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgallion1/plangest/internal/plan"
)

// Worker processes a single uploaded document.
type Worker struct {
	proc    *Processor
	log     *slog.Logger
	timeout time.Duration
}

func NewWorker(proc *Processor, log *slog.Logger, timeout time.Duration) *Worker {
	return &Worker{proc: proc, log: log, timeout: timeout}
}

// Process runs extraction for a job and saves the resulting plan.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	// The PDF reader needs a file on disk.
	tmp, err := os.CreateTemp("", "plangest-*.pdf")
	if err != nil {
		w.fail(log, job, "parsing", fmt.Errorf("create temp file: %w", err))
		return
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	_, err = tmp.Write(job.FileData())
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		w.fail(log, job, "parsing", fmt.Errorf("write temp file: %w", err))
		return
	}
	// Uploaded bytes are no longer needed once on disk.
	job.SetFileData(nil)

	// Phase 1: Parse and extract
	job.SetStatus(StatusParsing, "parsing")
	ext, err := w.proc.Extract(ctx, tmpPath, job.Filename, job.Options())
	if err != nil {
		var dropped *plan.DroppedError
		if errors.As(err, &dropped) {
			job.SetResult("", "", 0, dropped.Report, nil)
		}
		w.fail(log, job, "parsing", err)
		return
	}

	// Phase 2: Store
	job.SetStatus(StatusStoring, "storing")
	saved, err := w.proc.Save(ext)
	if err != nil {
		w.fail(log, job, "storing", err)
		return
	}
	if _, err := w.proc.Store().WriteCatalog(); err != nil {
		log.Error("catalog rebuild failed", "error", err)
		job.AddError(fmt.Sprintf("catalog: %s", err))
	}

	issues := make([]string, 0, len(ext.Issues))
	for _, is := range ext.Issues {
		issues = append(issues, is.String())
	}
	job.SetResult(saved.Slug, ext.Plan.Career, len(ext.Plan.Courses), ext.Report, issues)

	if ext.Report.Dropped() > 0 || len(issues) > 0 {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
	log.Info("job finished", "slug", saved.Slug, "courses", len(ext.Plan.Courses))
}

func (w *Worker) fail(log *slog.Logger, job *Job, phase string, err error) {
	log.Error("job failed", "phase", phase, "error", err)
	job.AddError(fmt.Sprintf("%s: %s", phase, err))
	job.SetStatus(StatusFailed, phase)
}
