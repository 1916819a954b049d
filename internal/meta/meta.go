// Package meta extracts the career name and degree titles from the free text
// of a curriculum PDF.
package meta

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/dgallion1/plangest/internal/plan"
)

// careerPatterns are tried in order; the first capture group is the career.
var careerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Carrera de\s*(?:grado|pregrado)\s*/?\s*[\r\n]+\s*([^\n\r]+)`),
	regexp.MustCompile(`(?i)(Tecnicatura Universitaria en\s*[^\n\r]+)`),
	regexp.MustCompile(`(?i)(Licenciatura en\s*[^\n\r]+)`),
	regexp.MustCompile(`(?i)(Ingenier[íi]a en\s*[^\n\r]+)`),
	regexp.MustCompile(`(?i)Título de grado:\s*([^\n\r]+)`),
}

var intermediatePattern = regexp.MustCompile(
	`(?i)(?:Anal[ií]sta(?:/a)? de Sistemas|T[eé]cnic[ao]/o Universitari[ao]/o en [^\n\r()]+)\s*\([^)]+\)`,
)

var finalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)((?:Licenciada/o|Ingeniera/o)\s+en\s*[^\n\r()]+\(\d+\s*hs\))`),
	regexp.MustCompile(`(?i)Título de grado:\s*([^\n\r]+)`),
}

// CareerName returns the career named in text, or fallback when none matches.
func CareerName(text, fallback string) string {
	text = norm.NFKC.String(text)
	for _, re := range careerPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return plan.CleanName(m[1])
		}
	}
	return fallback
}

// IntermediateTitle returns the intermediate degree, preferring the last
// mention that states its workload in hours.
func IntermediateTitle(text string) (string, bool) {
	matches := intermediatePattern.FindAllString(norm.NFKC.String(text), -1)
	if len(matches) == 0 {
		return "", false
	}
	for i := len(matches) - 1; i >= 0; i-- {
		if strings.Contains(strings.ToLower(matches[i]), "hs") {
			return plan.CleanName(matches[i]), true
		}
	}
	return plan.CleanName(matches[len(matches)-1]), true
}

// FinalTitle returns the final degree title.
func FinalTitle(text string) (string, bool) {
	text = norm.NFKC.String(text)
	for _, re := range finalPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return plan.CleanName(m[1]), true
		}
	}
	return "", false
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a career name into a file-name friendly identifier.
func Slugify(s string) string {
	s = strings.ToLower(plan.NormalizeText(s))
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}
	s = strings.Trim(nonSlug.ReplaceAllString(s, "-"), "-")
	if s == "" {
		return "plan-estudios"
	}
	return s
}
