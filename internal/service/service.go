// Package service answers queries over processed documents: similarity
// search, related sections, summaries, question answering and persona
// analysis.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/docintel/internal/doctree"
	"github.com/dgallion1/docintel/internal/embed"
	"github.com/dgallion1/docintel/internal/index"
	"github.com/dgallion1/docintel/internal/llm"
	"github.com/dgallion1/docintel/internal/qa"
	"github.com/dgallion1/docintel/internal/relevance"
	"github.com/dgallion1/docintel/internal/store"
	"github.com/dgallion1/docintel/internal/summarizer"
)

// ErrSectionNotFound is returned when a segment or section id is not part of
// the document.
var ErrSectionNotFound = errors.New("section not found")

// Answer and summary methods.
const (
	MethodExtractive = "offline_extractive"
	MethodKeyword    = "offline_keyword_matching"
	MethodAI         = "ai"
)

const (
	defaultSearchLimit  = 10
	defaultContextLimit = 3
	previewChars        = 200
	summaryMaxTokens    = 512
	answerMaxTokens     = 400
)

// Service combines the store with the embedding and completion backends.
// completer may be nil, in which case AI requests use the offline paths.
type Service struct {
	store     store.Store
	embedder  embed.Embedder
	completer llm.Completer
	log       *slog.Logger
	now       func() time.Time
}

func New(st store.Store, embedder embed.Embedder, completer llm.Completer, log *slog.Logger) *Service {
	return &Service{
		store:     st,
		embedder:  embedder,
		completer: completer,
		log:       log,
		now:       time.Now,
	}
}

// Document loads a stored document.
func (s *Service) Document(ctx context.Context, docID string) (*doctree.Document, error) {
	return s.store.Get(ctx, docID)
}

// Documents lists stored documents, newest first.
func (s *Service) Documents(ctx context.Context, limit int) ([]doctree.Summary, error) {
	return s.store.List(ctx, limit)
}

// Delete removes a stored document.
func (s *Service) Delete(ctx context.Context, docID string) error {
	return s.store.Delete(ctx, docID)
}

// Outline returns the document's title and heading list.
func (s *Service) Outline(ctx context.Context, docID string) (doctree.Outline, error) {
	doc, err := s.store.Get(ctx, docID)
	if err != nil {
		return doctree.Outline{}, err
	}
	title := doc.OutlineTitle
	if title == "" {
		title = doc.Title
	}
	return doctree.Outline{Title: title, Sections: doc.Structure}, nil
}

// SearchResult is one ranked segment.
type SearchResult struct {
	SegmentID string   `json:"segment_id"`
	SectionID string   `json:"section_id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Page      int      `json:"page_number"`
	Score     float64  `json:"similarity_score"`
	Related   []string `json:"related_sections"`
}

// Search ranks the document's segments against query.
func (s *Service) Search(ctx context.Context, docID, query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	doc, err := s.store.Get(ctx, docID)
	if err != nil {
		return nil, err
	}
	vec, err := embed.One(ctx, s.embedder, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	matches := index.Search(vec, doc.Segments, limit)
	out := make([]SearchResult, 0, len(matches))
	for _, m := range matches {
		out = append(out, SearchResult{
			SegmentID: m.Segment.ID,
			SectionID: m.Segment.SectionID,
			Title:     m.Segment.Title,
			Content:   m.Segment.Content,
			Page:      m.Segment.Page,
			Score:     m.Score,
			Related:   relatedIDs(m.Segment, doc.Segments),
		})
	}
	return out, nil
}

// relatedIDs prefers the ids computed at ingest.
func relatedIDs(seg doctree.Segment, all []doctree.Segment) []string {
	if seg.Related != nil {
		return seg.Related
	}
	ids := []string{}
	for _, m := range index.Related(seg, all, index.DefaultRelatedLimit) {
		ids = append(ids, m.Segment.ID)
	}
	return ids
}

// RelatedSection is a preview of a segment related to another.
type RelatedSection struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Page    int     `json:"page_number"`
	Content string  `json:"content"`
	Score   float64 `json:"similarity_score"`
}

// Related returns the segments most similar to segmentID with content
// previews.
func (s *Service) Related(ctx context.Context, docID, segmentID string, limit int) ([]RelatedSection, error) {
	if limit <= 0 {
		limit = index.LookupRelatedLimit
	}
	doc, err := s.store.Get(ctx, docID)
	if err != nil {
		return nil, err
	}
	target, ok := doc.SegmentByID(segmentID)
	if !ok {
		return nil, ErrSectionNotFound
	}

	out := []RelatedSection{}
	for _, m := range index.Related(target, doc.Segments, limit) {
		out = append(out, RelatedSection{
			ID:      m.Segment.ID,
			Title:   m.Segment.Title,
			Page:    m.Segment.Page,
			Content: preview(m.Segment.Content),
			Score:   m.Score,
		})
	}
	return out, nil
}

func preview(content string) string {
	if len([]rune(content)) <= previewChars {
		return content
	}
	return string([]rune(content)[:previewChars]) + "..."
}

// SummaryRequest selects what to summarize. An empty SectionID summarizes
// the whole document.
type SummaryRequest struct {
	DocID        string
	SectionID    string
	MaxSentences int
	UseAI        bool
}

// SummaryResult is a summary and how it was produced.
type SummaryResult struct {
	Summary   string `json:"summary"`
	Title     string `json:"title"`
	WordCount int    `json:"word_count"`
	Method    string `json:"method"`
}

// Summarize produces an extractive summary, or an AI summary when requested
// and available. A failed AI call falls back to the extractive summary.
func (s *Service) Summarize(ctx context.Context, req SummaryRequest) (*SummaryResult, error) {
	if req.MaxSentences <= 0 {
		req.MaxSentences = summarizer.DefaultMaxSentences
	}
	doc, err := s.store.Get(ctx, req.DocID)
	if err != nil {
		return nil, err
	}

	content, title := doc.RawText, doc.Title
	if req.SectionID != "" {
		seg, ok := doc.SegmentByID(req.SectionID)
		if !ok {
			return nil, ErrSectionNotFound
		}
		content, title = seg.Content, seg.Title
	}

	if req.UseAI && s.completer != nil {
		prompt := llm.SummaryPrompt(title, summarizer.Clean(content), req.MaxSentences)
		text, err := s.completer.Complete(ctx, prompt, summaryMaxTokens)
		if err == nil && strings.TrimSpace(text) != "" {
			return summaryResult(text, title, MethodAI), nil
		}
		s.log.Warn("ai summary failed, using extractive", "doc_id", req.DocID, "error", err)
	}

	return summaryResult(summarizer.Summarize(content, title, req.MaxSentences), title, MethodExtractive), nil
}

func summaryResult(summary, title, method string) *SummaryResult {
	return &SummaryResult{
		Summary:   summary,
		Title:     title,
		WordCount: len(strings.Fields(summary)),
		Method:    method,
	}
}

// AnswerRequest is a question over one document.
type AnswerRequest struct {
	DocID        string
	Question     string
	ContextLimit int
	UseAI        bool
}

// AnswerResult is an answer with the segments it was drawn from.
type AnswerResult struct {
	Answer           string    `json:"answer"`
	Question         string    `json:"question"`
	RelevantSections []string  `json:"relevant_sections"`
	ConfidenceScores []float64 `json:"confidence_scores"`
	Method           string    `json:"method"`
}

// Answer retrieves the ContextLimit segments most similar to the question
// and answers from them by keyword overlap, or with the completer when
// requested. Questions that look like prompt injection never reach the
// completer.
func (s *Service) Answer(ctx context.Context, req AnswerRequest) (*AnswerResult, error) {
	if req.ContextLimit <= 0 {
		req.ContextLimit = defaultContextLimit
	}
	doc, err := s.store.Get(ctx, req.DocID)
	if err != nil {
		return nil, err
	}
	vec, err := embed.One(ctx, s.embedder, req.Question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	matches := index.Search(vec, doc.Segments, req.ContextLimit)
	res := &AnswerResult{
		Question:         req.Question,
		RelevantSections: make([]string, 0, len(matches)),
		ConfidenceScores: make([]float64, 0, len(matches)),
	}
	passages := make([]doctree.Segment, 0, len(matches))
	for _, m := range matches {
		passages = append(passages, m.Segment)
		res.RelevantSections = append(res.RelevantSections, m.Segment.ID)
		res.ConfidenceScores = append(res.ConfidenceScores, m.Score)
	}

	if req.UseAI && s.completer != nil && len(passages) > 0 {
		if text, ok := s.aiAnswer(ctx, req, passages); ok {
			res.Answer, res.Method = text, MethodAI
			return res, nil
		}
	}

	res.Answer, res.Method = qa.Answer(req.Question, passages), MethodKeyword
	return res, nil
}

func (s *Service) aiAnswer(ctx context.Context, req AnswerRequest, passages []doctree.Segment) (string, bool) {
	if llm.LooksLikeInjection(req.Question) {
		s.log.Warn("question rejected for ai answering", "doc_id", req.DocID)
		return "", false
	}
	text, err := s.completer.Complete(ctx, llm.AnswerPrompt(req.Question, contents(passages)), answerMaxTokens)
	if err != nil || strings.TrimSpace(text) == "" {
		s.log.Warn("ai answer failed, using keyword matching", "doc_id", req.DocID, "error", err)
		return "", false
	}
	return text, true
}

func contents(segments []doctree.Segment) []string {
	out := make([]string, len(segments))
	for i, seg := range segments {
		out[i] = seg.Content
	}
	return out
}

// AnalyzeRequest ranks sections across documents for a persona and job.
type AnalyzeRequest struct {
	DocIDs  []string
	Persona map[string]any
	Job     map[string]any
	TopN    int
}

// Analyze loads the documents and runs the persona relevance analysis.
func (s *Service) Analyze(ctx context.Context, req AnalyzeRequest) (*relevance.Analysis, error) {
	if len(req.DocIDs) == 0 {
		return nil, fmt.Errorf("no documents given")
	}
	docs := make([]relevance.Document, 0, len(req.DocIDs))
	for _, id := range req.DocIDs {
		doc, err := s.store.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", id, err)
		}
		docs = append(docs, relevance.FromDocument(doc))
	}
	a := relevance.Analyze(docs, relevance.PersonaProfile(req.Persona), relevance.JobProfile(req.Job), req.TopN, s.now().UTC())
	return &a, nil
}
