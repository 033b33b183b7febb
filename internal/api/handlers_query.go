package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/docintel/internal/service"
)

const maxQueryBody = 1 << 20

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxQueryBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		jsonError(w, "query is required", http.StatusBadRequest)
		return
	}

	results, err := s.svc.Search(r.Context(), chi.URLParam(r, "docID"), req.Query, req.Limit)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"query": req.Query, "results": results})
}

type summarizeRequest struct {
	SectionID    string `json:"section_id"`
	MaxSentences int    `json:"max_sentences"`
	UseAI        bool   `json:"use_ai"`
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.MaxSentences < 0 {
		jsonError(w, "max_sentences must not be negative", http.StatusBadRequest)
		return
	}

	res, err := s.svc.Summarize(r.Context(), service.SummaryRequest{
		DocID:        chi.URLParam(r, "docID"),
		SectionID:    req.SectionID,
		MaxSentences: req.MaxSentences,
		UseAI:        req.UseAI,
	})
	if err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type qaRequest struct {
	Question     string `json:"question"`
	ContextLimit int    `json:"context_limit"`
	UseAI        bool   `json:"use_ai"`
}

func (s *Server) handleQA(w http.ResponseWriter, r *http.Request) {
	var req qaRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		jsonError(w, "question is required", http.StatusBadRequest)
		return
	}

	res, err := s.svc.Answer(r.Context(), service.AnswerRequest{
		DocID:        chi.URLParam(r, "docID"),
		Question:     req.Question,
		ContextLimit: req.ContextLimit,
		UseAI:        req.UseAI,
	})
	if err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleRelated(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			jsonError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	segmentID := chi.URLParam(r, "segmentID")
	related, err := s.svc.Related(r.Context(), chi.URLParam(r, "docID"), segmentID, limit)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"segment_id": segmentID, "related_sections": related})
}

type analyzeRequest struct {
	DocumentIDs []string       `json:"document_ids"`
	Persona     map[string]any `json:"persona"`
	Job         map[string]any `json:"job"`
	TopN        int            `json:"top_n"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.DocumentIDs) == 0 {
		jsonError(w, "document_ids is required", http.StatusBadRequest)
		return
	}

	res, err := s.svc.Analyze(r.Context(), service.AnalyzeRequest{
		DocIDs:  req.DocumentIDs,
		Persona: req.Persona,
		Job:     req.Job,
		TopN:    req.TopN,
	})
	if err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
