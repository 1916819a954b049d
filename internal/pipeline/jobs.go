package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/plangest/internal/plan"
)

// JobStatus represents the state of an extraction job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusParsing    JobStatus = "parsing"
	StatusStoring    JobStatus = "storing"
	StatusCompleted  JobStatus = "completed"
	StatusPartial    JobStatus = "partial"
	StatusFailed     JobStatus = "failed"
	StatusDupSkipped JobStatus = "duplicate_skipped"
)

// Finished reports whether the job left the queue for good.
func (s JobStatus) Finished() bool {
	switch s {
	case StatusCompleted, StatusPartial, StatusFailed, StatusDupSkipped:
		return true
	}
	return false
}

// Job tracks the state of a single PDF extraction.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	options  plan.Options
	dedupKey string
	errors   []string
}

// Progress tracks the outcome of the extraction.
type Progress struct {
	Slug    string       `json:"slug,omitempty"`
	Career  string       `json:"carrera,omitempty"`
	Courses int          `json:"courses"`
	Report  *plan.Report `json:"report,omitempty"`
	Issues  []string     `json:"issues,omitempty"`
	Errors  []string     `json:"errors"`
}

// NewJob creates a queued job for an uploaded file.
func NewJob(filename string, data []byte, opts plan.Options) *Job {
	now := time.Now()
	hash := ContentHashHex(data)
	return &Job{
		ID:          uuid.NewString(),
		Status:      StatusQueued,
		Phase:       "queued",
		Filename:    filename,
		ContentHash: hash,
		CreatedAt:   now,
		UpdatedAt:   now,
		fileData:    data,
		options:     opts,
		dedupKey:    fmt.Sprintf("%s|%v|%v|%+v", hash, opts.Strict, opts.FirstHalf, opts.Layout),
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// FindActive returns a job with the same content and options that is queued,
// running or finished successfully, so identical uploads are not extracted
// twice.
func (s *JobStore) FindActive(key string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, job := range s.jobs {
		if key == "" || job.dedupKey != key {
			continue
		}
		switch job.Snapshot().Status {
		case StatusFailed, StatusDupSkipped:
			continue
		}
		return job
	}
	return nil
}

// ForgetSlug stops finished jobs that produced slug from matching new
// uploads. It returns the number of jobs released.
func (s *JobStore) ForgetSlug(slug string) int {
	if slug == "" {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, job := range s.jobs {
		job.mu.Lock()
		if job.Status.Finished() && job.Progress.Slug == slug && job.dedupKey != "" {
			job.dedupKey = ""
			n++
		}
		job.mu.Unlock()
	}
	return n
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetResult records the saved plan.
func (j *Job) SetResult(slug, career string, courses int, report plan.Report, issues []string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Slug = slug
	j.Progress.Career = career
	j.Progress.Courses = courses
	j.Progress.Report = &report
	j.Progress.Issues = issues
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// Options returns the extraction options of the job.
func (j *Job) Options() plan.Options {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.options
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	Filename    string    `json:"filename"`
	ContentHash string    `json:"content_hash,omitempty"`
	Progress    Progress  `json:"progress"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := append([]string{}, j.Progress.Errors...)
	var report *plan.Report
	if j.Progress.Report != nil {
		r := *j.Progress.Report
		report = &r
	}
	return JobSnapshot{
		ID:          j.ID,
		Status:      j.Status,
		Phase:       j.Phase,
		Filename:    j.Filename,
		ContentHash: j.ContentHash,
		Progress: Progress{
			Slug:    j.Progress.Slug,
			Career:  j.Progress.Career,
			Courses: j.Progress.Courses,
			Report:  report,
			Issues:  append([]string(nil), j.Progress.Issues...),
			Errors:  errs,
		},
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
