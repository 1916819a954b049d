package plan

import (
	"math"
	"regexp"
	"strings"
)

// codePattern accepts legacy 4-digit codes (6001) as well as newer 2-digit ones (01).
var codePattern = regexp.MustCompile(`^\d{1,4}$`)

// Anchor is a row carrying a course code in the left column.
type Anchor struct {
	Code string
	Row  Row
}

// Continuation is a row without a code that carries name or prerequisite
// fragments of some nearby course.
type Continuation struct {
	Row     Row
	Names   []string
	Prereqs []string
}

// Decision says how a continuation row was attributed.
type Decision int

const (
	// AttachNearest attributes the row to the closest anchor.
	AttachNearest Decision = iota
	// AttachFollowing moves a wrapped prerequisite row to the next anchor.
	AttachFollowing
	// DropTooFar discards a row farther than MaxContinuation from its anchor.
	DropTooFar
)

// String returns a string representation of the decision.
func (d Decision) String() string {
	switch d {
	case AttachNearest:
		return "nearest"
	case AttachFollowing:
		return "following"
	case DropTooFar:
		return "too_far"
	default:
		return "unknown"
	}
}

// LeftCode returns the first left-column token that is a course code.
func (l Layout) LeftCode(r Row) (string, bool) {
	for _, t := range r.Tokens {
		if t.X0 < l.LeftColumnMax && codePattern.MatchString(t.Text) {
			return t.Text, true
		}
	}
	return "", false
}

// NameTokens returns the tokens of the name column, minus noise tokens.
func (l Layout) NameTokens(r Row) []string {
	var out []string
	for _, t := range r.Tokens {
		if t.X0 >= l.NameMin && t.X0 < l.NameMax && !l.isNoise(t.Text) {
			out = append(out, t.Text)
		}
	}
	return out
}

// PrereqTokens returns the tokens of the prerequisite column.
func (l Layout) PrereqTokens(r Row) []string {
	var out []string
	for _, t := range r.Tokens {
		if t.X0 >= l.PrereqMin {
			out = append(out, t.Text)
		}
	}
	return out
}

// NearestAnchor returns the index of the anchor closest to row. Anchors must be
// ordered by global top. On a tie the anchor at or before the row wins, so a
// wrapped line stays with the course it continues. It returns -1 when anchors
// is empty.
func NearestAnchor(anchors []Anchor, row Row) int {
	best := -1
	bestDist := math.Inf(1)
	top := row.GlobalTop()
	for i, a := range anchors {
		d := math.Abs(a.Row.GlobalTop() - top)
		switch {
		case d < bestDist:
			best, bestDist = i, d
		case d == bestDist && a.Row.GlobalTop() <= top && anchors[best].Row.GlobalTop() > top:
			best = i
		}
	}
	return best
}

// NeighborAnchors returns the last anchor at or above row and the first anchor
// below it, regardless of distance. Missing neighbours are -1.
func NeighborAnchors(anchors []Anchor, row Row) (prev, next int) {
	prev, next = -1, -1
	top := row.GlobalTop()
	for i, a := range anchors {
		if a.Row.GlobalTop() <= top {
			prev = i
			continue
		}
		next = i
		break
	}
	return prev, next
}

// Attribute chooses the anchor a continuation row belongs to. hasPrereqs
// reports whether the builder of a code already holds prerequisite fragments.
// The returned index is valid unless the decision is DropTooFar.
func (l Layout) Attribute(anchors []Anchor, c Continuation, hasPrereqs func(code string) bool) (int, Decision) {
	idx := NearestAnchor(anchors, c.Row)
	if idx < 0 {
		return -1, DropTooFar
	}
	decision := AttachNearest

	if l.WrappedPrereqBias && len(c.Prereqs) > 0 && len(c.Names) == 0 {
		prev, next := NeighborAnchors(anchors, c.Row)
		if prev >= 0 && next >= 0 && l.prefersFollowing(anchors[prev], anchors[next], c, hasPrereqs) {
			idx, decision = next, AttachFollowing
		}
	}

	if math.Abs(anchors[idx].Row.GlobalTop()-c.Row.GlobalTop()) > l.MaxContinuation {
		return idx, DropTooFar
	}
	return idx, decision
}

// prefersFollowing detects a wrapped prerequisite list sitting halfway between
// two anchors: when the previous course already listed its prerequisites on its
// own line and the next one did not, the hyphenated fragment belongs to the next.
func (l Layout) prefersFollowing(prev, next Anchor, c Continuation, hasPrereqs func(string) bool) bool {
	top := c.Row.GlobalTop()
	distPrev := math.Abs(prev.Row.GlobalTop() - top)
	distNext := math.Abs(next.Row.GlobalTop() - top)
	if math.Abs(distPrev-distNext) > l.TieTolerance {
		return false
	}
	if !containsHyphen(c.Prereqs) {
		return false
	}
	return hasPrereqs != nil && hasPrereqs(prev.Code) && len(l.PrereqTokens(next.Row)) == 0
}

func containsHyphen(tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(t, "-") {
			return true
		}
	}
	return false
}
