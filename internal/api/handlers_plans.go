package api

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/plangest/internal/catalog"
	"github.com/dgallion1/plangest/internal/render"
)

func (s *Server) store() *catalog.Store {
	return s.orchestrator.Processor().Store()
}

// handleCatalog returns catalog.json, building it on first use.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	cat, err := s.store().Catalog()
	if errors.Is(err, catalog.ErrNotFound) {
		cat, err = s.store().WriteCatalog()
	}
	if err != nil {
		jsonError(w, "failed to read catalog: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	p, ok := s.loadPlan(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleGetCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.store().LoadCourses(chi.URLParam(r, "slug"))
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

func (s *Server) handleReportMarkdown(w http.ResponseWriter, r *http.Request) {
	p, ok := s.loadPlan(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(render.Markdown(p)))
}

func (s *Server) handleReportHTML(w http.ResponseWriter, r *http.Request) {
	p, ok := s.loadPlan(w, r)
	if !ok {
		return
	}
	page, err := render.HTML(p.Career, render.Markdown(p))
	if err != nil {
		jsonError(w, "failed to render report: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (s *Server) handleReportDOCX(w http.ResponseWriter, r *http.Request) {
	p, ok := s.loadPlan(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := render.DOCX(&buf, p); err != nil {
		jsonError(w, "failed to render docx: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	w.Header().Set("Content-Disposition", `attachment; filename="`+p.Slug()+`.docx"`)
	w.Write(buf.Bytes())
}

// handleDeletePlan removes a plan and rebuilds the catalog.
func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if err := s.store().Delete(slug); err != nil {
		storeError(w, err)
		return
	}
	s.orchestrator.ForgetPlan(slug)
	if _, err := s.store().WriteCatalog(); err != nil {
		jsonError(w, "plan deleted but catalog rebuild failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	s.log.Info("plan deleted", "slug", slug)
	writeJSON(w, http.StatusOK, map[string]any{"slug": slug, "deleted": true})
}

// handlePrune rebuilds the catalog and removes unreferenced JSON files.
func (s *Server) handlePrune(w http.ResponseWriter, r *http.Request) {
	_, removed, err := s.store().RebuildAndPrune()
	if err != nil {
		jsonError(w, "failed to prune: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if removed == nil {
		removed = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"removed": removed})
}

func (s *Server) loadPlan(w http.ResponseWriter, r *http.Request) (*catalog.Plan, bool) {
	p, err := s.store().Load(chi.URLParam(r, "slug"))
	if err != nil {
		storeError(w, err)
		return nil, false
	}
	return p, true
}

func storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrInvalidSlug):
		jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, catalog.ErrNotFound):
		jsonError(w, err.Error(), http.StatusNotFound)
	default:
		jsonError(w, err.Error(), http.StatusInternalServerError)
	}
}
