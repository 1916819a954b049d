package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/plangest/internal/catalog"
)

var docxHeader = []string{"Código", "Materia", "Cuatrimestre", "Correlativas"}

// DOCX writes the plan as a Word document with one table per year.
func DOCX(w io.Writer, p *catalog.Plan) error {
	doc := docx.New().WithDefaultTheme().WithA4Page()

	doc.AddParagraph().Style("Heading1").AddText(p.Career).Bold().Size("32")
	if p.SourcePDF != "" {
		doc.AddParagraph().AddText("Fuente: " + p.SourcePDF).Size("18")
	}
	for _, m := range p.Milestones {
		doc.AddParagraph().AddText(m.Name).Italic()
	}

	for _, g := range groupByYear(p.Courses) {
		doc.AddParagraph().Style("Heading2").AddText("Año " + strconv.Itoa(g.Year)).Bold().Size("26")

		tbl := doc.AddTable(len(g.Courses)+1, len(docxHeader), 0, nil)
		for j, h := range docxHeader {
			tbl.TableRows[0].TableCells[j].AddParagraph().AddText(h).Bold()
		}
		for i, c := range g.Courses {
			cells := tbl.TableRows[i+1].TableCells
			cells[0].AddParagraph().AddText(c.ID)
			cells[1].AddParagraph().AddText(c.Name)
			cells[2].AddParagraph().AddText(strconv.Itoa(c.Term))
			cells[3].AddParagraph().AddText(prereqText(c))
		}
	}

	if r := p.Report; r != nil {
		doc.AddParagraph().Style("Heading2").AddText("Reporte de extracción").Bold()
		for _, line := range reportLines(*r) {
			doc.AddParagraph().AddText(line)
		}
	}

	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}
