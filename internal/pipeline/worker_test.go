package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dgallion1/docintel/internal/embed"
	"github.com/dgallion1/docintel/internal/llm"
	"github.com/dgallion1/docintel/internal/outline"
	"github.com/dgallion1/docintel/internal/store"
)

const guideText = `INTRODUCTION
This guide covers the regional rail network and the bus routes that connect to it.

BUDGET HOTELS
Several budget hotels near the central station offer clean rooms at fair prices.

MUSEUMS
The art museum opens daily and entry is free on the first Sunday of each month.
`

// flakyEmbedder wraps the hash embedder and fails texts containing a marker.
type flakyEmbedder struct {
	inner     embed.Embedder
	marker    string
	err       error
	failTimes int // fail this many calls per marked text, then succeed; <0 fails forever

	mu    sync.Mutex
	calls map[string]int
}

func (f *flakyEmbedder) Name() string    { return "flaky" }
func (f *flakyEmbedder) Dimensions() int { return f.inner.Dimensions() }

func (f *flakyEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	for _, t := range texts {
		if f.marker != "" && strings.Contains(t, f.marker) {
			f.mu.Lock()
			if f.calls == nil {
				f.calls = make(map[string]int)
			}
			f.calls[t]++
			n := f.calls[t]
			f.mu.Unlock()
			if f.failTimes < 0 || n <= f.failTimes {
				return nil, f.err
			}
		}
	}
	return f.inner.Embed(ctx, texts)
}

func (f *flakyEmbedder) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func testWorker(t *testing.T, emb embed.Embedder) (*Worker, store.Store) {
	t.Helper()
	st, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	if emb == nil {
		emb = embed.NewHashEmbedder(128)
	}
	w := NewWorker(st, emb, slog.New(slog.NewTextHandler(io.Discard, nil)), WorkerOptions{
		Strategy:           outline.PatternStrategy{},
		MaxConcurrentEmbed: 2,
	})
	w.backoff = func(int) time.Duration { return 0 }
	return w, st
}

func TestWorker_ProcessCompleted(t *testing.T) {
	w, st := testWorker(t, nil)
	job := NewJob("guide.txt", "City Guide", []byte(guideText), false)
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("status = %s, errors = %v", snap.Status, snap.Progress.Errors)
	}
	if snap.Progress.TotalSegments != 3 || snap.Progress.SegmentsEmbedded != 3 || snap.Progress.SegmentsStored != 3 {
		t.Errorf("progress = %+v", snap.Progress)
	}
	if job.FileData() != nil {
		t.Error("expected file data released after parsing")
	}

	doc, err := st.Get(context.Background(), job.DocID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc.Title != "City Guide" || doc.Filename != "guide.txt" || doc.ContentHash == "" {
		t.Errorf("doc = %q %q %q", doc.Title, doc.Filename, doc.ContentHash)
	}
	if len(doc.Structure) != 3 || doc.Structure[1].Text != "BUDGET HOTELS" {
		t.Errorf("structure = %+v", doc.Structure)
	}
	for _, seg := range doc.Segments {
		if len(seg.Embedding) != 128 {
			t.Errorf("segment %s embedding has %d dims", seg.ID, len(seg.Embedding))
		}
		if len(seg.Related) != 2 {
			t.Errorf("segment %s related = %v", seg.ID, seg.Related)
		}
		if seg.SectionID != doc.Structure[0].ID && seg.SectionID != doc.Structure[1].ID && seg.SectionID != doc.Structure[2].ID {
			t.Errorf("segment %s points at unknown section %s", seg.ID, seg.SectionID)
		}
	}
}

func TestWorker_Dedup(t *testing.T) {
	w, _ := testWorker(t, nil)
	first := NewJob("guide.txt", "", []byte(guideText), false)
	w.Process(context.Background(), first)

	dup := NewJob("copy.txt", "", []byte(guideText), false)
	w.Process(context.Background(), dup)
	if snap := dup.Snapshot(); snap.Status != StatusDupSkipped || snap.DuplicateOf != first.DocID {
		t.Errorf("duplicate snapshot = %+v", snap)
	}

	forced := NewJob("copy.txt", "", []byte(guideText), true)
	w.Process(context.Background(), forced)
	if s := forced.Snapshot().Status; s != StatusCompleted {
		t.Errorf("forced status = %s", s)
	}
}

func TestWorker_ParseFailure(t *testing.T) {
	w, _ := testWorker(t, nil)
	job := NewJob("image.png", "", []byte("\x89PNG"), false)
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed || snap.Phase != "parsing" {
		t.Errorf("snapshot = %+v", snap)
	}
	if len(snap.Progress.Errors) != 1 {
		t.Errorf("errors = %v", snap.Progress.Errors)
	}
}

func TestWorker_NoContent(t *testing.T) {
	w, _ := testWorker(t, nil)
	job := NewJob("empty.txt", "", []byte("\n\n"), false)
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed || snap.Phase != "segmenting" {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestWorker_PartialWhenSegmentFails(t *testing.T) {
	emb := &flakyEmbedder{inner: embed.NewHashEmbedder(64), marker: "BUDGET HOTELS", err: errors.New("bad input"), failTimes: -1}
	w, st := testWorker(t, emb)
	job := NewJob("guide.txt", "", []byte(guideText), false)
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusPartial {
		t.Fatalf("status = %s", snap.Status)
	}
	if len(snap.Progress.Errors) != 1 || !strings.Contains(snap.Progress.Errors[0], "segment 1") {
		t.Errorf("errors = %v", snap.Progress.Errors)
	}
	if emb.totalCalls() != 1 {
		t.Errorf("non-retryable error retried: %d calls", emb.totalCalls())
	}
	doc, err := st.Get(context.Background(), job.DocID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(doc.Segments) != 2 {
		t.Errorf("expected 2 stored segments, got %d", len(doc.Segments))
	}
	for _, seg := range doc.Segments {
		if strings.HasPrefix(seg.Content, "BUDGET HOTELS") {
			t.Error("failed segment was stored")
		}
		if len(seg.Related) != 1 {
			t.Errorf("related = %v", seg.Related)
		}
	}
}

func TestWorker_RetriesRetryableErrors(t *testing.T) {
	emb := &flakyEmbedder{
		inner:     embed.NewHashEmbedder(64),
		marker:    "MUSEUMS",
		err:       &embed.StatusError{StatusCode: 503, Body: "busy"},
		failTimes: 2,
	}
	w, _ := testWorker(t, emb)
	job := NewJob("guide.txt", "", []byte(guideText), false)
	w.Process(context.Background(), job)

	if s := job.Snapshot().Status; s != StatusCompleted {
		t.Errorf("status = %s, errors = %v", s, job.Snapshot().Progress.Errors)
	}
	if emb.totalCalls() != 3 {
		t.Errorf("expected 3 attempts, got %d", emb.totalCalls())
	}
}

func TestWorker_AllSegmentsFail(t *testing.T) {
	emb := &flakyEmbedder{
		inner:     embed.NewHashEmbedder(64),
		marker:    "\n",
		err:       &llm.RetryableError{StatusCode: 429, Message: "slow down"},
		failTimes: -1,
	}
	w, _ := testWorker(t, emb)
	job := NewJob("guide.txt", "", []byte(guideText), false)
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed || snap.Phase != "embedding" {
		t.Errorf("snapshot = %+v", snap)
	}
	if emb.totalCalls() != 3*MaxRetries {
		t.Errorf("expected %d attempts, got %d", 3*MaxRetries, emb.totalCalls())
	}
}

// recordingEmbedder remembers every text it is asked to embed.
type recordingEmbedder struct {
	embed.Embedder

	mu    sync.Mutex
	texts []string
}

func (r *recordingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	r.mu.Lock()
	r.texts = append(r.texts, texts...)
	r.mu.Unlock()
	return r.Embedder.Embed(ctx, texts)
}

func TestWorker_EmbedsSegmentContent(t *testing.T) {
	emb := &recordingEmbedder{Embedder: embed.NewHashEmbedder(64)}
	w := NewWorker(nil, emb, slog.New(slog.NewTextHandler(io.Discard, nil)), WorkerOptions{})
	doc, err := w.Build(context.Background(), "guide.txt", "", []byte(guideText))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	seen := make(map[string]bool)
	for _, text := range emb.texts {
		seen[text] = true
	}
	if len(emb.texts) != len(doc.Segments) {
		t.Fatalf("embedded %d texts for %d segments", len(emb.texts), len(doc.Segments))
	}
	for _, seg := range doc.Segments {
		if !seen[seg.Content] {
			t.Errorf("segment %q content was not embedded as-is", seg.Title)
		}
	}
	for _, text := range emb.texts {
		if strings.Count(text, "MUSEUMS") > 1 {
			t.Errorf("heading embedded twice: %q", text)
		}
	}
}

func TestWorker_Build(t *testing.T) {
	w := NewWorker(nil, embed.NewHashEmbedder(32), slog.New(slog.NewTextHandler(io.Discard, nil)), WorkerOptions{})
	doc, err := w.Build(context.Background(), "guide.txt", "", []byte(guideText))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(doc.Segments) != 3 || doc.ContentHash == "" || doc.ID == "" {
		t.Errorf("doc = %d segments, hash %q, id %q", len(doc.Segments), doc.ContentHash, doc.ID)
	}
	if doc.Title != "guide" {
		t.Errorf("title = %q", doc.Title)
	}

	if _, err := w.Build(context.Background(), "x.bin", "", []byte("data")); err == nil {
		t.Error("expected error for unsupported file")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"plain", errors.New("boom"), false},
		{"llm retryable", &llm.RetryableError{StatusCode: 529}, true},
		{"embed 429", &embed.StatusError{StatusCode: 429}, true},
		{"embed 400", &embed.StatusError{StatusCode: 400}, false},
		{"wrapped", fmt.Errorf("call: %w", &embed.Error{Index: 2, Err: &embed.StatusError{StatusCode: 502}}), true},
	}
	for _, tt := range tests {
		if got := IsRetryable(tt.err); got != tt.want {
			t.Errorf("%s: IsRetryable = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestBackoff(t *testing.T) {
	for attempt, base := range []time.Duration{time.Second, 2 * time.Second, 4 * time.Second} {
		d := Backoff(attempt)
		if d < base || d >= base+base/2 {
			t.Errorf("Backoff(%d) = %v, want [%v, %v)", attempt, d, base, base+base/2)
		}
	}
	if d := Backoff(10); d > 45*time.Second {
		t.Errorf("Backoff(10) = %v, expected cap", d)
	}
}
