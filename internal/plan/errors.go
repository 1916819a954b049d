package plan

import (
	"errors"
	"fmt"
)

var (
	// ErrNoHeaderFound means no row of the document looked like a table header.
	ErrNoHeaderFound = errors.New("no course table header found")

	// ErrNoCoursesExtracted means headers were found but no block had an anchor row.
	ErrNoCoursesExtracted = errors.New("no courses extracted")

	// ErrDroppedItems is wrapped by DroppedError in strict mode.
	ErrDroppedItems = errors.New("extraction dropped items")
)

// DroppedError reports what the heuristics discarded while extracting a document.
// It is only returned when Options.Strict is set; the Result is still valid.
type DroppedError struct {
	Report Report
}

func (e *DroppedError) Error() string {
	r := e.Report
	return fmt.Sprintf("%s: %d continuation rows, %d unresolved prerequisites, %d self references, %d duplicate courses",
		ErrDroppedItems, r.DroppedRows, r.UnresolvedPrerequisites, r.SelfReferences, r.DuplicateCourses)
}

func (e *DroppedError) Unwrap() error {
	return ErrDroppedItems
}
