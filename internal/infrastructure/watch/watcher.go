// Package watch observes a slot's draft file for external changes so a
// recipient can follow the review as it is written.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Yzori/Critvue-sub003/pkg/application"
)

// ChangeEvent represents a change to the watched draft file.
type ChangeEvent struct {
	Path       string
	ChangeType string // "create", "write", "remove", "rename"
}

// DraftWatcher watches the directory holding a draft file and reports
// coalesced changes to that file only. The directory is watched rather than
// the file itself because writers replace the file in place.
type DraftWatcher struct {
	watcher   *fsnotify.Watcher
	draftPath string
	debounce  time.Duration
	onChange  func(ChangeEvent)
}

// NewDraftWatcher creates a watcher for the given draft file path.
func NewDraftWatcher(draftPath string, debounce time.Duration, onChange func(ChangeEvent)) (*DraftWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if debounce == 0 {
		debounce = 500 * time.Millisecond
	}
	if err := w.Add(filepath.Dir(draftPath)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(draftPath), err)
	}
	return &DraftWatcher{
		watcher:   w,
		draftPath: filepath.Clean(draftPath),
		debounce:  debounce,
		onChange:  onChange,
	}, nil
}

// Run starts the event loop. It blocks until the context is cancelled.
func (w *DraftWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var lastEvent ChangeEvent
	debouncer := application.NewDebouncer(w.debounce, func() {
		if w.onChange != nil {
			w.onChange(lastEvent)
		}
	}, nil)
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.draftPath {
				continue
			}
			changeType := opToChangeType(event.Op)
			if changeType == "" {
				continue
			}

			lastEvent = ChangeEvent{Path: event.Name, ChangeType: changeType}
			debouncer.Trigger()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

func opToChangeType(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Write):
		return "write"
	case op.Has(fsnotify.Remove):
		return "remove"
	case op.Has(fsnotify.Rename):
		return "rename"
	default:
		return ""
	}
}
