package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dgallion1/docintel/internal/config"
	"github.com/dgallion1/docintel/internal/embed"
)

func TestOrchestrator_ProcessesJobs(t *testing.T) {
	w, st := testWorker(t, embed.NewHashEmbedder(32))
	cfg := config.Config{WorkerCount: 2, MaxQueueSize: 4, JobTTL: time.Hour}
	o := NewOrchestrator(cfg, w, slog.New(slog.NewTextHandler(io.Discard, nil)))
	o.Start(context.Background())
	defer o.Stop()

	job := NewJob("guide.txt", "", []byte(guideText), false)
	if err := o.Submit(job); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if o.GetJob(job.ID) != job {
		t.Fatal("submitted job not tracked")
	}

	deadline := time.Now().Add(5 * time.Second)
	for !job.Snapshot().Status.Done() {
		if time.Now().After(deadline) {
			t.Fatalf("job did not finish, status %s", job.Snapshot().Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if s := job.Snapshot().Status; s != StatusCompleted {
		t.Fatalf("status = %s", s)
	}
	if _, err := st.Get(context.Background(), job.DocID); err != nil {
		t.Errorf("document not stored: %v", err)
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	w, _ := testWorker(t, nil)
	o := NewOrchestrator(config.Config{WorkerCount: 1, MaxQueueSize: 1, JobTTL: time.Hour}, w, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if err := o.Submit(NewJob("a.txt", "", []byte(guideText), false)); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	second := NewJob("b.txt", "", []byte(guideText), false)
	err := o.Submit(second)
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	if snap := second.Snapshot(); snap.Status != StatusFailed || snap.Phase != "queue_full" {
		t.Errorf("rejected job = %+v", snap)
	}
	if o.QueueDepth() != 1 {
		t.Errorf("QueueDepth = %d", o.QueueDepth())
	}
	o.Stop()
}
