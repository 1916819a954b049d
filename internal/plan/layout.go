package plan

import (
	"fmt"
	"strings"
)

// Layout holds the geometric thresholds and keywords of one document family.
// Coordinates are PDF user-space units measured from the page's top-left corner.
type Layout struct {
	// RowTolerance is the largest vertical distance between a word and a row's
	// running top for the word to join that row.
	RowTolerance float64 `yaml:"row_tolerance" json:"row_tolerance"`

	// LeftColumnMax bounds the code column: a code token must start left of it.
	LeftColumnMax float64 `yaml:"left_column_max" json:"left_column_max"`

	// NameMin and NameMax bound the course name column, [NameMin, NameMax).
	NameMin float64 `yaml:"name_min" json:"name_min"`
	NameMax float64 `yaml:"name_max" json:"name_max"`

	// PrereqMin is where the prerequisite column starts.
	PrereqMin float64 `yaml:"prereq_min" json:"prereq_min"`

	// MaxContinuation is how far a wrapped line may sit from its anchor.
	MaxContinuation float64 `yaml:"max_continuation" json:"max_continuation"`

	// WrappedPrereqBias enables moving hyphenated prerequisite-only rows that sit
	// between two anchors to the following anchor. TieTolerance is the largest
	// difference between the two distances still considered a tie.
	WrappedPrereqBias bool    `yaml:"wrapped_prereq_bias" json:"wrapped_prereq_bias"`
	TieTolerance      float64 `yaml:"tie_tolerance" json:"tie_tolerance"`

	// NoiseTokens are dropped from the name column (compared case-insensitively).
	NoiseTokens []string `yaml:"noise_tokens" json:"noise_tokens"`

	// Header keywords, matched against accent-stripped lower-case row text.
	HeaderCode   string `yaml:"header_code" json:"header_code"`
	HeaderName   string `yaml:"header_name" json:"header_name"`
	HeaderPrereq string `yaml:"header_prereq" json:"header_prereq"`
}

// DefaultLayout returns the thresholds tuned for the reference curriculum PDFs.
func DefaultLayout() Layout {
	return Layout{
		RowTolerance:      2,
		LeftColumnMax:     100,
		NameMin:           105,
		NameMax:           320,
		PrereqMin:         500,
		MaxContinuation:   15,
		WrappedPrereqBias: true,
		TieTolerance:      1,
		NoiseTokens:       []string{"cuatrimestral"},
		HeaderCode:        "codigo",
		HeaderName:        "asignatura",
		HeaderPrereq:      "correlatividad",
	}
}

// Validate checks that the layout is usable.
func (l Layout) Validate() error {
	if l.RowTolerance < 0 {
		return fmt.Errorf("row_tolerance must not be negative")
	}
	if l.NameMin >= l.NameMax {
		return fmt.Errorf("name_min (%g) must be lower than name_max (%g)", l.NameMin, l.NameMax)
	}
	if l.MaxContinuation <= 0 {
		return fmt.Errorf("max_continuation must be positive")
	}
	if l.TieTolerance < 0 {
		return fmt.Errorf("tie_tolerance must not be negative")
	}
	if strings.TrimSpace(l.HeaderCode) == "" {
		return fmt.Errorf("header_code is required")
	}
	if strings.TrimSpace(l.HeaderName) == "" && strings.TrimSpace(l.HeaderPrereq) == "" {
		return fmt.Errorf("header_name or header_prereq is required")
	}
	return nil
}

func (l Layout) isNoise(text string) bool {
	for _, n := range l.NoiseTokens {
		if strings.EqualFold(n, text) {
			return true
		}
	}
	return false
}

// Options configures one extraction.
type Options struct {
	// Layout defaults to DefaultLayout when left zero.
	Layout Layout

	// FirstHalf overrides, per year, how many courses belong to the first half
	// of that year. Missing years are inferred.
	FirstHalf map[int]int

	// Strict makes Extract return a *DroppedError when anything was discarded.
	Strict bool
}

func (o Options) layout() Layout {
	if o.Layout.NameMax == 0 && o.Layout.HeaderCode == "" {
		return DefaultLayout()
	}
	return o.Layout
}
