// Package catalog stores extracted plans as JSON documents on disk and keeps
// the catalog.json index the web frontend loads.
package catalog

import (
	"time"

	"github.com/dgallion1/plangest/internal/meta"
	"github.com/dgallion1/plangest/internal/plan"
)

// Milestone kinds and criteria.
const (
	MilestoneIntermediate = "titulo_intermedio"
	MilestoneFinal        = "titulo_final"

	CriterionMaxTerm  = "cuatrimestre_max"
	CriterionComplete = "plan_completo"

	defaultFinalTitle = "Plan completo"
)

// Criterion states when a milestone is reached.
type Criterion struct {
	Type  string `json:"tipo"`
	Value int    `json:"valor,omitempty"`
}

// Milestone is a degree awarded along the plan.
type Milestone struct {
	Type          string    `json:"tipo"`
	Name          string    `json:"nombre"`
	EstimatedYear int       `json:"anio_estimado,omitempty"`
	Criterion     Criterion `json:"criterio"`
}

// Plan is the full document written to <slug>.json.
type Plan struct {
	Career      string        `json:"carrera"`
	SourcePDF   string        `json:"fuente_pdf"`
	GeneratedAt time.Time     `json:"generado_en_utc"`
	Courses     []plan.Course `json:"materias"`
	Milestones  []Milestone   `json:"hitos"`
	Report      *plan.Report  `json:"reporte,omitempty"`
}

// WebCourse is the reduced course shape written to <slug>.materias.json.
type WebCourse struct {
	ID            string   `json:"id"`
	Name          string   `json:"nombre"`
	Term          int      `json:"cuatrimestre"`
	Prerequisites []string `json:"correlativas"`
}

// NewPlan builds a plan document. An empty intermediate title omits that
// milestone; an empty final title falls back to "Plan completo".
func NewPlan(career, source string, courses []plan.Course, intermediate, final string, generatedAt time.Time) *Plan {
	p := &Plan{
		Career:      career,
		SourcePDF:   source,
		GeneratedAt: generatedAt.UTC(),
		Courses:     courses,
	}
	if intermediate != "" {
		p.Milestones = append(p.Milestones, Milestone{
			Type:          MilestoneIntermediate,
			Name:          intermediate,
			EstimatedYear: 3,
			Criterion:     Criterion{Type: CriterionMaxTerm, Value: 6},
		})
	}
	if final == "" {
		final = defaultFinalTitle
	}
	p.Milestones = append(p.Milestones, Milestone{
		Type:      MilestoneFinal,
		Name:      final,
		Criterion: Criterion{Type: CriterionComplete},
	})
	return p
}

// Slug is the file name stem of the plan.
func (p *Plan) Slug() string {
	return meta.Slugify(p.Career)
}

// WebCourses projects the courses onto the frontend shape.
func (p *Plan) WebCourses() []WebCourse {
	out := make([]WebCourse, 0, len(p.Courses))
	for _, c := range p.Courses {
		prereqs := c.Prerequisites
		if prereqs == nil {
			prereqs = []string{}
		}
		out = append(out, WebCourse{ID: c.ID, Name: c.Name, Term: c.Term, Prerequisites: prereqs})
	}
	return out
}
