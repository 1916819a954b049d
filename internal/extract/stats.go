package extract

import (
	"sort"
	"sync"
	"time"
)

// Outcome classifies a finished extraction.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeDropped Outcome = "dropped"
	OutcomeFailed  Outcome = "failed"
)

type run struct {
	at         time.Time
	durationMs int64
	courses    int
	outcome    Outcome
}

// StatsSnapshot aggregates the extraction runs still inside the window.
type StatsSnapshot struct {
	Count    int     `json:"count"`
	OK       int     `json:"ok"`
	Dropped  int     `json:"dropped"`
	Failed   int     `json:"failed"`
	Courses  int     `json:"courses"`
	MinMs    int64   `json:"min_ms"`
	MaxMs    int64   `json:"max_ms"`
	AvgMs    float64 `json:"avg_ms"`
	P50Ms    float64 `json:"p50_ms"`
	P95Ms    float64 `json:"p95_ms"`
	P99Ms    float64 `json:"p99_ms"`
	WindowMs int64   `json:"window_ms"`
}

// Stats tracks recent document extractions within a rolling window.
type Stats struct {
	mu     sync.Mutex
	runs   []run
	window time.Duration
	now    func() time.Time
}

func NewStats(window time.Duration) *Stats {
	if window <= 0 {
		window = time.Hour
	}
	return &Stats{
		runs:   make([]run, 0, 64),
		window: window,
		now:    time.Now,
	}
}

// Record adds one finished extraction.
func (s *Stats) Record(d time.Duration, courses int, outcome Outcome) {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	if courses < 0 {
		courses = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pruneLocked(now)
	s.runs = append(s.runs, run{at: now, durationMs: ms, courses: courses, outcome: outcome})
}

func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(s.now())
	snap := StatsSnapshot{WindowMs: s.window.Milliseconds()}
	if len(s.runs) == 0 {
		return snap
	}

	durations := make([]int64, 0, len(s.runs))
	var sum int64
	for _, r := range s.runs {
		durations = append(durations, r.durationMs)
		sum += r.durationMs
		snap.Courses += r.courses
		switch r.outcome {
		case OutcomeOK:
			snap.OK++
		case OutcomeDropped:
			snap.Dropped++
		case OutcomeFailed:
			snap.Failed++
		}
	}
	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

	snap.Count = len(durations)
	snap.MinMs = durations[0]
	snap.MaxMs = durations[len(durations)-1]
	snap.AvgMs = float64(sum) / float64(len(durations))
	snap.P50Ms = percentile(durations, 50)
	snap.P95Ms = percentile(durations, 95)
	snap.P99Ms = percentile(durations, 99)
	return snap
}

func (s *Stats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	keep := s.runs[:0]
	for _, r := range s.runs {
		if !r.at.Before(cutoff) {
			keep = append(keep, r)
		}
	}
	s.runs = keep
}

// percentile interpolates linearly between the closest ranks.
func percentile(sorted []int64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[len(sorted)-1])
	}

	index := float64(len(sorted)-1) * pct / 100
	lower := int(index)
	if lower+1 >= len(sorted) {
		return float64(sorted[lower])
	}
	lo, hi := float64(sorted[lower]), float64(sorted[lower+1])
	return lo + (hi-lo)*(index-float64(lower))
}
