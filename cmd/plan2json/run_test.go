package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/plangest/internal/catalog"
	"github.com/dgallion1/plangest/internal/plan"
)

type stubSource struct {
	err error
}

func (s stubSource) Pages(ctx context.Context, path string) ([]plan.Page, error) {
	if s.err != nil {
		return nil, s.err
	}
	row := func(top float64, texts ...string) []plan.Word {
		xs := []float64{40, 110, 510}
		var ws []plan.Word
		for i, t := range texts {
			if t != "" {
				ws = append(ws, plan.Word{Text: t, X0: xs[i], Top: top})
			}
		}
		return ws
	}
	var page plan.Page
	for _, ws := range [][]plan.Word{
		row(100, "Código", "Asignatura", "Correlatividades"),
		row(120, "1", "Contabilidad", "-"),
		row(140, "2", "Impuestos", "1"),
	} {
		page = append(page, ws...)
	}
	return []plan.Page{page}, nil
}

func (s stubSource) FullText(ctx context.Context, path string) (string, error) {
	return "Carrera de grado /\nContador Público\n", nil
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var ee *exitError
	require.True(t, errors.As(err, &ee), "expected exit error, got %v", err)
	return ee.code
}

func TestFindPDFs(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.pdf"))
	touch(t, filepath.Join(dir, "sub", "A.PDF"))
	touch(t, filepath.Join(dir, "notes.txt"))

	got, err := findPDFs(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "b.pdf"),
		filepath.Join(dir, "sub", "A.PDF"),
	}, got)

	single, err := findPDFs(filepath.Join(dir, "b.pdf"))
	require.NoError(t, err)
	assert.Len(t, single, 1)

	none, err := findPDFs(filepath.Join(dir, "notes.txt"))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRun_WritesPlansAndCatalog(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "planes")
	touch(t, filepath.Join(in, "contador.pdf"))

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), runOptions{
		input:   in,
		output:  out,
		workers: 2,
		verbose: true,
		source:  stubSource{},
	}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	assert.FileExists(t, filepath.Join(out, "contador-publico.json"))
	assert.FileExists(t, filepath.Join(out, "contador-publico.materias.json"))
	assert.FileExists(t, filepath.Join(out, catalog.CatalogFile))
	assert.Contains(t, stdout.String(), "[OK] contador.pdf -> contador-publico.materias.json (2 materias)")
	assert.Contains(t, stdout.String(), "PDFs procesados: 1")
}

func TestRun_SameSlugKeepsLaterFile(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		touch(t, filepath.Join(in, name))
	}

	for i := 0; i < 5; i++ {
		var stdout, stderr bytes.Buffer
		err := run(context.Background(), runOptions{
			input:   in,
			output:  out,
			workers: 3,
			source:  stubSource{},
		}, &stdout, &stderr)
		require.NoError(t, err, stderr.String())
		assert.Contains(t, stderr.String(), "[WARN] c.pdf overwrites b.pdf (contador-publico)")

		store, err := catalog.NewStore(out)
		require.NoError(t, err)
		p, err := store.Load("contador-publico")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(in, "c.pdf"), p.SourcePDF)
	}
}

func TestRun_SplitAndPrune(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	touch(t, filepath.Join(in, "contador.pdf"))
	require.NoError(t, os.WriteFile(filepath.Join(out, "viejo.json"), []byte("{}"), 0o644))

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), runOptions{
		input:  in,
		output: out,
		split:  "1:1",
		prune:  true,
		source: stubSource{},
	}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	assert.NoFileExists(t, filepath.Join(out, "viejo.json"))
	assert.Contains(t, stdout.String(), "JSON eliminados: 1")

	store, err := catalog.NewStore(out)
	require.NoError(t, err)
	courses, err := store.LoadCourses("contador-publico")
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, 1, courses[0].Term)
	assert.Equal(t, 2, courses[1].Term)
}

func TestRun_FailedDocumentSkipsCatalog(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	touch(t, filepath.Join(in, "roto.pdf"))

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), runOptions{
		input:  in,
		output: out,
		source: stubSource{err: errors.New("damaged xref")},
	}, &stdout, &stderr)

	assert.Equal(t, 2, exitCode(t, err))
	assert.Contains(t, stderr.String(), "damaged xref")
	assert.NoFileExists(t, filepath.Join(out, catalog.CatalogFile))
}

func TestRun_InputErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), runOptions{
		input:  filepath.Join(t.TempDir(), "missing"),
		output: t.TempDir(),
	}, &stdout, &stderr)
	assert.Equal(t, 1, exitCode(t, err))

	err = run(context.Background(), runOptions{
		input:  t.TempDir(),
		output: t.TempDir(),
	}, &stdout, &stderr)
	assert.Equal(t, 1, exitCode(t, err))

	in := t.TempDir()
	touch(t, filepath.Join(in, "a.pdf"))
	err = run(context.Background(), runOptions{
		input:  in,
		output: t.TempDir(),
		split:  "cero:2",
		source: stubSource{},
	}, &stdout, &stderr)
	assert.Equal(t, 1, exitCode(t, err))
}

func TestExitStatus(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, 2, exitStatus(&buf, fail(2, "3 of 4 documents failed")))
	assert.Equal(t, "3 of 4 documents failed\n", buf.String())

	buf.Reset()
	rootCmd.SetArgs([]string{"--output", t.TempDir()})
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, exitStatus(&buf, err))
	assert.Contains(t, buf.String(), `required flag(s) "input" not set`)
}
