// Package render produces human readable reports of an extracted plan in
// Markdown, HTML and DOCX.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dgallion1/plangest/internal/catalog"
	"github.com/dgallion1/plangest/internal/plan"
)

// yearGroup is the courses of one curriculum year in output order.
type yearGroup struct {
	Year    int
	Courses []plan.Course
}

func groupByYear(courses []plan.Course) []yearGroup {
	idx := make(map[int]int)
	var groups []yearGroup
	for _, c := range courses {
		i, ok := idx[c.Year]
		if !ok {
			i = len(groups)
			idx[c.Year] = i
			groups = append(groups, yearGroup{Year: c.Year})
		}
		groups[i].Courses = append(groups[i].Courses, c)
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Year < groups[j].Year })
	return groups
}

func prereqText(c plan.Course) string {
	if len(c.Prerequisites) == 0 {
		return "-"
	}
	return strings.Join(c.Prerequisites, ", ")
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`, `|`, `\|`, `<`, `\<`, `>`, `\>`,
	"`", "\\`", `*`, `\*`, `_`, `\_`, `[`, `\[`, `]`, `\]`,
)

// Markdown renders the plan with one GFM table per year.
func Markdown(p *catalog.Plan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", mdEscaper.Replace(p.Career))
	if p.SourcePDF != "" {
		fmt.Fprintf(&b, "Fuente: %s\n\n", mdEscaper.Replace(p.SourcePDF))
	}
	if !p.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "Generado: %s\n\n", p.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"))
	}

	if len(p.Milestones) > 0 {
		b.WriteString("## Títulos\n\n")
		for _, m := range p.Milestones {
			fmt.Fprintf(&b, "- %s", mdEscaper.Replace(m.Name))
			if m.Criterion.Type == catalog.CriterionMaxTerm {
				fmt.Fprintf(&b, " (hasta el cuatrimestre %d)", m.Criterion.Value)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	for _, g := range groupByYear(p.Courses) {
		fmt.Fprintf(&b, "## Año %d\n\n", g.Year)
		b.WriteString("| Código | Materia | Cuatrimestre | Correlativas |\n")
		b.WriteString("| --- | --- | ---: | --- |\n")
		for _, c := range g.Courses {
			fmt.Fprintf(&b, "| %s | %s | %d | %s |\n",
				mdEscaper.Replace(c.ID), mdEscaper.Replace(c.Name), c.Term, mdEscaper.Replace(prereqText(c)))
		}
		b.WriteString("\n")
	}

	if r := p.Report; r != nil {
		b.WriteString("## Reporte de extracción\n\n")
		for _, line := range reportLines(*r) {
			fmt.Fprintf(&b, "- %s\n", line)
		}
	}
	return b.String()
}

func reportLines(r plan.Report) []string {
	return []string{
		fmt.Sprintf("Encabezados: %d", r.Headers),
		fmt.Sprintf("Bloques: %d", r.Blocks),
		fmt.Sprintf("Materias ancladas: %d", r.Anchors),
		fmt.Sprintf("Filas de ruido: %d", r.NoiseRows),
		fmt.Sprintf("Filas descartadas: %d", r.DroppedRows),
		fmt.Sprintf("Filas reasignadas: %d", r.ReattributedRows),
		fmt.Sprintf("Materias duplicadas: %d", r.DuplicateCourses),
		fmt.Sprintf("Correlativas sin resolver: %d", r.UnresolvedPrerequisites),
		fmt.Sprintf("Autorreferencias: %d", r.SelfReferences),
	}
}
