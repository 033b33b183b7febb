package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/docintel/internal/service"
	"github.com/dgallion1/docintel/internal/store"
)

const defaultListLimit = 100

// handleListDocuments lists stored documents, newest first.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			jsonError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	docs, err := s.svc.Documents(r.Context(), limit)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs, "count": len(docs)})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.svc.Document(r.Context(), chi.URLParam(r, "docID"))
	if err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"document": doc.Summary(),
		"outline":  doc.Structure,
	})
}

// handleDeleteDocument deletes a document and everything stored with it.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if err := s.svc.Delete(r.Context(), docID); err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": docID})
}

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	o, err := s.svc.Outline(r.Context(), chi.URLParam(r, "docID"))
	if err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o.File())
}

// serviceError maps service and store errors to HTTP status codes.
func (s *Server) serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, "document not found", http.StatusNotFound)
	case errors.Is(err, service.ErrSectionNotFound):
		jsonError(w, "section not found", http.StatusNotFound)
	default:
		s.log.Error("request failed", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
	}
}
