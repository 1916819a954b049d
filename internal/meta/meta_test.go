package meta

import "testing"

const sampleText = `UNIVERSIDAD NACIONAL
Carrera de grado /
Licenciatura en Gestión de Tecnología de la Información
Título intermedio: Analista de Sistemas (1800 hs)
Plan de estudios 2024
Título de grado: Licenciada/o en Gestión de Tecnología de la Información (2800 hs)
`

func TestCareerName(t *testing.T) {
	got := CareerName(sampleText, "fallback")
	want := "Licenciatura en Gestión de Tecnología de la Información"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestCareerName_Patterns(t *testing.T) {
	cases := map[string]string{
		"Ingeniería en Informática\nPlan 2020":    "Ingeniería en Informática",
		"TECNICATURA UNIVERSITARIA EN Redes;\n":   "TECNICATURA UNIVERSITARIA EN Redes",
		"Título de grado: Profesorado en Química": "Profesorado en Química",
		"nothing useful here":                     "fallback",
	}
	for in, want := range cases {
		if got := CareerName(in, "fallback"); got != want {
			t.Errorf("CareerName(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestIntermediateTitle(t *testing.T) {
	text := "Analista de Sistemas (título intermedio)\n...\nAnalista de Sistemas (1800 hs)\nAnalista/a de Sistemas (ver anexo)"
	got, ok := IntermediateTitle(text)
	if !ok {
		t.Fatal("expected a title")
	}
	if got != "Analista de Sistemas (1800 hs)" {
		t.Errorf("expected the mention with hours, got %q", got)
	}

	got, ok = IntermediateTitle("Técnica/o Universitaria/o en Programación (3 años)")
	if !ok || got != "Técnica/o Universitaria/o en Programación (3 años)" {
		t.Errorf("expected the only match, got %q (%v)", got, ok)
	}

	if _, ok := IntermediateTitle("sin títulos"); ok {
		t.Error("expected no intermediate title")
	}
}

func TestFinalTitle(t *testing.T) {
	got, ok := FinalTitle(sampleText)
	if !ok {
		t.Fatal("expected a title")
	}
	want := "Licenciada/o en Gestión de Tecnología de la Información (2800 hs)"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if _, ok := FinalTitle("nada"); ok {
		t.Error("expected no final title")
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Licenciatura en Gestión de Tecnología": "licenciatura-en-gestion-de-tecnologia",
		"  Ingeniería   en Informática! ":       "ingenieria-en-informatica",
		"¿?":                                    "plan-estudios",
		"":                                      "plan-estudios",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q): expected %q, got %q", in, want, got)
		}
	}
}
