package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/docintel/internal/chunker"
	"github.com/dgallion1/docintel/internal/doctree"
	"github.com/dgallion1/docintel/internal/embed"
	"github.com/dgallion1/docintel/internal/index"
	"github.com/dgallion1/docintel/internal/outline"
	"github.com/dgallion1/docintel/internal/parser"
	"github.com/dgallion1/docintel/internal/store"
)

// ErrNoContent is returned when a document yields no segments.
var ErrNoContent = errors.New("no extractable content")

// WorkerOptions tune a Worker.
type WorkerOptions struct {
	Strategy           outline.Strategy
	Segments           chunker.Config
	Parse              parser.Options
	MaxConcurrentEmbed int
}

// Worker processes a single document job. It holds no per-job state and is
// safe to share between goroutines.
type Worker struct {
	store    store.Store
	embedder embed.Embedder
	log      *slog.Logger
	opts     WorkerOptions

	backoff func(attempt int) time.Duration
}

// NewWorker builds a worker. st may be nil when only Build is used.
func NewWorker(st store.Store, embedder embed.Embedder, log *slog.Logger, opts WorkerOptions) *Worker {
	if opts.Strategy == nil {
		opts.Strategy = outline.PatternStrategy{}
	}
	if opts.MaxConcurrentEmbed <= 0 {
		opts.MaxConcurrentEmbed = 5
	}
	return &Worker{
		store:    st,
		embedder: embedder,
		log:      log,
		opts:     opts,
		backoff:  Backoff,
	}
}

// Process runs the full ingest pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	parsed, err := w.parse(job)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	job.SetContentHash(ContentHashHex([]byte(parsed.RawText())))

	// Phase 1.5: Dedup check
	if !job.Force {
		existing, err := w.store.FindByHash(ctx, job.ContentHash)
		switch {
		case err == nil:
			log.Info("duplicate document, skipping", "existing_doc_id", existing)
			job.MarkDuplicate(existing)
			return
		case !errors.Is(err, store.ErrNotFound):
			log.Warn("dedup check failed, proceeding", "error", err)
		}
	}

	// Phases 2-4: outline, segment, embed.
	doc, err := w.assemble(ctx, job, parsed, log)
	if err != nil {
		phase := job.Snapshot().Phase
		log.Error("processing failed", "phase", phase, "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, phase)
		return
	}

	// Phase 5: Store
	job.SetStatus(StatusStoring, "storing")
	if err := w.store.Save(ctx, doc); err != nil {
		log.Error("store failed", "error", err)
		job.AddError(fmt.Sprintf("store: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}
	job.SetSegmentsStored(len(doc.Segments))
	log.Info("document stored", "sections", len(doc.Structure), "segments", len(doc.Segments))

	if job.ErrorCount() > 0 {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
}

// Build runs the parse, outline, segment and embed phases synchronously and
// returns the document without storing it. Segments whose embedding failed
// are dropped and logged.
func (w *Worker) Build(ctx context.Context, filename, title string, data []byte) (*doctree.Document, error) {
	job := NewJob(filename, title, data, true)
	log := w.log.With("file", filename)

	parsed, err := w.parse(job)
	if err != nil {
		return nil, err
	}
	doc, err := w.assemble(ctx, job, parsed, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	doc.ContentHash = ContentHashHex([]byte(doc.RawText))
	return doc, nil
}

func (w *Worker) parse(job *Job) (*doctree.Parsed, error) {
	parsed, err := parser.Decode(bytes.NewReader(job.FileData()), job.Filename, w.opts.Parse)
	if err != nil {
		return nil, err
	}
	job.releaseFileData()
	return parsed, nil
}

// assemble turns decoded pages into a document with embedded segments.
func (w *Worker) assemble(ctx context.Context, job *Job, parsed *doctree.Parsed, log *slog.Logger) (*doctree.Document, error) {
	raw := parsed.RawText()

	job.SetStatus(StatusOutlining, "outlining")
	ol := w.opts.Strategy.Extract(outline.Source{Text: raw, Spans: parsed.Spans})
	sections := ol.Sections
	if _, ok := w.opts.Strategy.(outline.FontStrategy); ok {
		sections = outline.Anchor(raw, sections)
	}
	log.Info("outline extracted", "strategy", w.opts.Strategy.Name(), "sections", len(sections))

	title := strings.TrimSpace(job.Title)
	if title == "" {
		title = parsed.Title
	}
	doc := &doctree.Document{
		ID:           job.DocID,
		Title:        title,
		Filename:     job.Filename,
		OutlineTitle: ol.Title,
		RawText:      raw,
		PageCount:    len(parsed.Pages),
		ContentHash:  job.ContentHash,
		CreatedAt:    job.CreatedAt.UTC(),
		Structure:    sections,
	}

	job.SetStatus(StatusSegmenting, "segmenting")
	doc.Segments = chunker.Segment(raw, sections, w.opts.Segments)
	doc.AssignIDs()
	job.SetTotalSegments(len(doc.Segments))
	log.Info("segmented document", "segments", len(doc.Segments))
	if len(doc.Segments) == 0 {
		return nil, ErrNoContent
	}

	job.SetStatus(StatusEmbedding, "embedding")
	if err := w.embedSegments(ctx, job, doc, log); err != nil {
		return nil, err
	}

	related := index.RelatedIDs(doc.Segments, index.DefaultRelatedLimit)
	for i := range doc.Segments {
		doc.Segments[i].Related = related[doc.Segments[i].ID]
	}
	return doc, nil
}

// embedSegments embeds every segment with bounded concurrency. Segments that
// still fail after retries are dropped and recorded on the job.
func (w *Worker) embedSegments(ctx context.Context, job *Job, doc *doctree.Document, log *slog.Logger) error {
	vecs := make([][]float32, len(doc.Segments))
	errs := make([]error, len(doc.Segments))

	var g errgroup.Group
	g.SetLimit(w.opts.MaxConcurrentEmbed)
	for i, seg := range doc.Segments {
		g.Go(func() error {
			vec, err := w.embedWithRetry(ctx, log, i, seg.Content)
			if err != nil {
				errs[i] = err
				return nil
			}
			vecs[i] = vec
			job.IncrSegmentsEmbedded()
			return nil
		})
	}
	g.Wait()
	if err := ctx.Err(); err != nil {
		return err
	}

	kept := doc.Segments[:0]
	for i, seg := range doc.Segments {
		if errs[i] != nil {
			log.Error("embedding failed", "segment", i, "error", errs[i])
			job.AddError(fmt.Sprintf("segment %d: %s", i, errs[i]))
			continue
		}
		seg.Embedding = vecs[i]
		kept = append(kept, seg)
	}
	log.Info("embedding complete", "embedded", len(kept), "failed", len(doc.Segments)-len(kept))
	if len(kept) == 0 {
		return fmt.Errorf("all %d segments failed to embed", len(doc.Segments))
	}
	doc.Segments = kept
	return nil
}

func (w *Worker) embedWithRetry(ctx context.Context, log *slog.Logger, i int, text string) ([]float32, error) {
	var lastErr error
	for attempt := range MaxRetries {
		vec, err := embed.One(ctx, w.embedder, text)
		if err == nil {
			return vec, nil
		}
		lastErr = err
		if !IsRetryable(err) || attempt == MaxRetries-1 {
			break
		}
		log.Warn("retryable embedding error", "segment", i, "attempt", attempt, "error", err)
		select {
		case <-time.After(w.backoff(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}
