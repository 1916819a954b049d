package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fumiama/go-docx"
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/plangest/internal/catalog"
	"github.com/dgallion1/plangest/internal/plan"
)

func samplePlan() *catalog.Plan {
	courses := []plan.Course{
		{ID: "01", Name: "Matemática <I>", Term: 1, Year: 1, Prerequisites: []string{}},
		{ID: "02", Name: "Redes | Datos", Term: 2, Year: 1, Prerequisites: []string{"01"}},
		{ID: "03", Name: "Sistemas Operativos", Term: 3, Year: 2, Prerequisites: []string{"01", "02"}},
	}
	p := catalog.NewPlan("Licenciatura en Sistemas", "in/lic.pdf", courses,
		"Analista de Sistemas (1800 hs)", "", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	p.Report = &plan.Report{Headers: 2, Blocks: 2, Anchors: 3}
	return p
}

func TestMarkdown(t *testing.T) {
	out := Markdown(samplePlan())

	for _, want := range []string{
		"# Licenciatura en Sistemas\n",
		"Generado: 2026-03-01 12:00 UTC",
		"- Analista de Sistemas (1800 hs) (hasta el cuatrimestre 6)",
		"- Plan completo\n",
		"## Año 1\n",
		"## Año 2\n",
		"| 01 | Matemática \\<I\\> | 1 | - |",
		"| 02 | Redes \\| Datos | 2 | 01 |",
		"| 03 | Sistemas Operativos | 3 | 01, 02 |",
		"- Bloques: 2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected markdown to contain %q\n%s", want, out)
		}
	}
}

func TestMarkdown_ParsesIntoOneTablePerYear(t *testing.T) {
	src := []byte(Markdown(samplePlan()))
	doc := md.Parser().Parse(text.NewReader(src))

	tables := 0
	rows := 0
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case east.KindTable:
			tables++
		case east.KindTableRow:
			rows++
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if tables != 2 {
		t.Errorf("expected 2 tables, got %d", tables)
	}
	if rows != 3 {
		t.Errorf("expected 3 body rows, got %d", rows)
	}
}

func TestHTML(t *testing.T) {
	p := samplePlan()
	out, err := HTML(p.Career+" <draft>", Markdown(p))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := string(out)
	if !strings.HasPrefix(s, "<!DOCTYPE html>") {
		t.Error("expected a standalone html document")
	}
	if !strings.Contains(s, "<title>Licenciatura en Sistemas &lt;draft&gt;</title>") {
		t.Error("expected escaped title")
	}
	if strings.Count(s, "<table>") != 2 {
		t.Errorf("expected 2 tables, got %d", strings.Count(s, "<table>"))
	}
	if !strings.Contains(s, "Matemática &lt;I&gt;") {
		t.Error("expected course names to be escaped")
	}
}

func TestDOCX(t *testing.T) {
	var buf bytes.Buffer
	if err := DOCX(&buf, samplePlan()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc, err := docx.Parse(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("parse generated docx: %v", err)
	}

	var tables []*docx.Table
	var paragraphs []string
	for _, item := range doc.Document.Body.Items {
		switch v := item.(type) {
		case *docx.Table:
			tables = append(tables, v)
		case *docx.Paragraph:
			paragraphs = append(paragraphs, paragraphText(v))
		}
	}

	if len(tables) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(tables))
	}
	if n := len(tables[0].TableRows); n != 3 {
		t.Errorf("expected header plus 2 rows in year 1, got %d", n)
	}
	if len(paragraphs) == 0 || paragraphs[0] != "Licenciatura en Sistemas" {
		t.Errorf("expected title paragraph first, got %v", paragraphs)
	}
	if !contains(paragraphs, "Año 2") {
		t.Errorf("expected a year heading, got %v", paragraphs)
	}
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
