package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestDraftWatcher_DetectsDraftWrite(t *testing.T) {
	dir := t.TempDir()

	draftPath := filepath.Join(dir, "draft-slot-1.json")
	if err := os.WriteFile(draftPath, []byte(`{"slotId":"slot-1"}`), 0600); err != nil {
		t.Fatal(err)
	}

	var eventCount atomic.Int32
	var lastChange ChangeEvent

	w, err := NewDraftWatcher(draftPath, 50*time.Millisecond, func(e ChangeEvent) {
		eventCount.Add(1)
		lastChange = e
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = w.Run(ctx)
	}()

	// Give watcher time to start
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(draftPath, []byte(`{"slotId":"slot-1","version":"2.0"}`), 0600); err != nil {
		t.Fatal(err)
	}

	// Wait for debounce
	time.Sleep(200 * time.Millisecond)
	cancel()

	if eventCount.Load() == 0 {
		t.Error("expected at least one change event")
	}
	if lastChange.ChangeType == "" {
		t.Error("expected a non-empty change type")
	}
}

func TestDraftWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()

	draftPath := filepath.Join(dir, "draft-slot-1.json")
	if err := os.WriteFile(draftPath, []byte(`{}`), 0600); err != nil {
		t.Fatal(err)
	}

	var eventCount atomic.Int32

	w, err := NewDraftWatcher(draftPath, 50*time.Millisecond, func(e ChangeEvent) {
		eventCount.Add(1)
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = w.Run(ctx)
	}()

	time.Sleep(50 * time.Millisecond)

	otherFile := filepath.Join(dir, "draft-slot-2.json")
	if err := os.WriteFile(otherFile, []byte(`{}`), 0600); err != nil {
		t.Fatal(err)
	}

	time.Sleep(200 * time.Millisecond)
	cancel()

	if eventCount.Load() != 0 {
		t.Errorf("expected no events for unrelated files, got %d", eventCount.Load())
	}
}

func TestDraftWatcher_ContextCancellation(t *testing.T) {
	dir := t.TempDir()
	draftPath := filepath.Join(dir, "draft-slot-1.json")

	w, err := NewDraftWatcher(draftPath, 50*time.Millisecond, func(e ChangeEvent) {})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx)
	}()

	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("watcher did not stop after context cancellation")
	}
}
