package pipeline

import (
	"testing"
	"time"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_DifferentInputs(t *testing.T) {
	h1 := ContentHashHex([]byte("aaa"))
	h2 := ContentHashHex([]byte("bbb"))
	if h1 == h2 {
		t.Error("expected different hashes for different inputs")
	}
}

func TestContentHashHex_EmptyInput(t *testing.T) {
	h := ContentHashHex([]byte{})
	// SHA-256 of empty input is well-known.
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if h != want {
		t.Errorf("expected hash %q, got %q", want, h)
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{
		ID:        "test-1",
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusParsing, "parsing document"},
		{StatusOutlining, "detecting headings"},
		{StatusSegmenting, "splitting into segments"},
		{StatusEmbedding, "embedding segments"},
		{StatusStoring, "storing results"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJob_SetStatusFailed(t *testing.T) {
	job := &Job{
		ID:        "test-fail",
		Status:    StatusEmbedding,
		UpdatedAt: time.Now(),
	}
	job.SetStatus(StatusFailed, "embedding error")
	if job.Status != StatusFailed {
		t.Errorf("expected status %q, got %q", StatusFailed, job.Status)
	}
}

func TestJob_AddError(t *testing.T) {
	job := &Job{ID: "err-test", UpdatedAt: time.Now()}
	job.AddError("segment 3 failed")
	job.AddError("segment 7 failed")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "segment 3 failed" {
		t.Errorf("expected first error %q, got %q", "segment 3 failed", snap.Progress.Errors[0])
	}
	if job.ErrorCount() != 2 {
		t.Errorf("expected ErrorCount 2, got %d", job.ErrorCount())
	}
}

func TestJob_IncrSegmentsEmbedded(t *testing.T) {
	job := &Job{ID: "incr-test", UpdatedAt: time.Now()}
	job.IncrSegmentsEmbedded()
	job.IncrSegmentsEmbedded()
	job.IncrSegmentsEmbedded()

	snap := job.Snapshot()
	if snap.Progress.SegmentsEmbedded != 3 {
		t.Errorf("expected 3 segments embedded, got %d", snap.Progress.SegmentsEmbedded)
	}
}

func TestJob_SetTotalSegments(t *testing.T) {
	job := &Job{ID: "total-test", UpdatedAt: time.Now()}
	job.SetTotalSegments(42)
	job.SetSegmentsStored(40)

	snap := job.Snapshot()
	if snap.Progress.TotalSegments != 42 {
		t.Errorf("expected 42 total segments, got %d", snap.Progress.TotalSegments)
	}
	if snap.Progress.SegmentsStored != 40 {
		t.Errorf("expected 40 stored segments, got %d", snap.Progress.SegmentsStored)
	}
}

func TestJob_MarkDuplicate(t *testing.T) {
	job := NewJob("a.txt", "", nil, false)
	job.MarkDuplicate("doc-9")

	snap := job.Snapshot()
	if snap.Status != StatusDupSkipped || snap.DuplicateOf != "doc-9" {
		t.Errorf("snapshot = %+v", snap)
	}
	if !snap.Status.Done() {
		t.Error("duplicate_skipped should be terminal")
	}
}

func TestNewJob(t *testing.T) {
	a := NewJob("a.pdf", "A", []byte("x"), true)
	b := NewJob("a.pdf", "A", []byte("x"), true)
	if a.ID == b.ID || a.DocID == b.DocID {
		t.Error("expected fresh ids per job")
	}
	if a.Status != StatusQueued || !a.Force {
		t.Errorf("job = %+v", a.Snapshot())
	}
	if string(a.FileData()) != "x" {
		t.Errorf("file data = %q", a.FileData())
	}
}

func TestJobStatus_Done(t *testing.T) {
	tests := []struct {
		status JobStatus
		want   bool
	}{
		{StatusQueued, false},
		{StatusEmbedding, false},
		{StatusCompleted, true},
		{StatusPartial, true},
		{StatusFailed, true},
	}
	for _, tt := range tests {
		if got := tt.status.Done(); got != tt.want {
			t.Errorf("%s.Done() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestJob_FileData(t *testing.T) {
	job := &Job{ID: "data-test"}
	data := []byte("file content here")
	job.SetFileData(data)
	got := job.FileData()
	if string(got) != string(data) {
		t.Errorf("expected file data %q, got %q", data, got)
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return non-nil errors slice.
	job := &Job{ID: "snap-test", UpdatedAt: time.Now()}
	snap := job.Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if len(snap.Progress.Errors) != 0 {
		t.Errorf("expected empty errors, got %d", len(snap.Progress.Errors))
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "store-1", UpdatedAt: time.Now()}
	store.Put(job)

	got := store.Get("store-1")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != "store-1" {
		t.Errorf("expected ID %q, got %q", "store-1", got.ID)
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := &Job{ID: "old", UpdatedAt: time.Now()}
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	// Add a fresh job.
	fresh := &Job{ID: "new", UpdatedAt: time.Now()}
	store.Put(fresh)

	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get("new") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	// Should not panic on empty store.
	store.Cleanup()
}
