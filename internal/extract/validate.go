// Package extract validates extracted course lists and keeps rolling
// statistics about extraction runs.
package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgallion1/plangest/internal/plan"
)

// ErrInvalidCourses wraps every validation failure.
var ErrInvalidCourses = errors.New("invalid course list")

// Issue describes one rule broken by one course.
type Issue struct {
	ID      string `json:"id"`
	Problem string `json:"problem"`
}

func (i Issue) String() string {
	if i.ID == "" {
		return i.Problem
	}
	return fmt.Sprintf("course %s: %s", i.ID, i.Problem)
}

// ValidationError lists every issue found in a course list.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		parts[i] = is.String()
	}
	return fmt.Sprintf("%s: %s", ErrInvalidCourses, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidCourses }

// ValidateCourses checks the rules consumers of the plan files rely on:
// ids and names are present, terms start at 1, ids are unique and every
// prerequisite names another course of the list.
func ValidateCourses(courses []plan.Course) error {
	var issues []Issue
	if len(courses) == 0 {
		return &ValidationError{Issues: []Issue{{Problem: "no courses"}}}
	}

	ids := make(map[string]int, len(courses))
	for _, c := range courses {
		ids[c.ID]++
	}

	for _, c := range courses {
		if strings.TrimSpace(c.ID) == "" {
			issues = append(issues, Issue{Problem: "empty id"})
			continue
		}
		if strings.TrimSpace(c.Name) == "" {
			issues = append(issues, Issue{ID: c.ID, Problem: "empty name"})
		}
		if c.Term < 1 {
			issues = append(issues, Issue{ID: c.ID, Problem: fmt.Sprintf("term %d is below 1", c.Term)})
		}
		if ids[c.ID] > 1 {
			issues = append(issues, Issue{ID: c.ID, Problem: "duplicate id"})
			ids[c.ID] = 1
		}
		for _, p := range c.Prerequisites {
			switch {
			case p == c.ID:
				issues = append(issues, Issue{ID: c.ID, Problem: "lists itself as prerequisite"})
			case ids[p] == 0:
				issues = append(issues, Issue{ID: c.ID, Problem: fmt.Sprintf("unknown prerequisite %s", p)})
			}
		}
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
