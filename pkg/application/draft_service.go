package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Yzori/Critvue-sub003/pkg/domain/review"
)

// DefaultAutosaveWindow is the quiet period after the last qualifying
// mutation before an autosave is issued.
const DefaultAutosaveWindow = 3 * time.Second

// DraftService is the persistence coordinator: it owns the live document,
// applies actions through the reducer, and manages load, trailing-edge
// debounced autosave, manual save and submission against a DraftRepository.
//
// All document mutation is serialized under one mutex, so persisted payloads
// always reflect a point-in-time snapshot consistent with the order actions
// were dispatched. Saves are serialized through a single-slot latest-wins
// queue: a trigger arriving while a save is in flight marks one follow-up
// save, never a second concurrent write.
type DraftService struct {
	repo review.DraftRepository
	log  zerolog.Logger
	mode review.Mode
	now  func() time.Time

	mu        sync.Mutex
	cond      *sync.Cond
	doc       review.Document
	fsm       *review.SaveStateMachine
	debouncer *Debouncer
	lastSaved []byte
	pending   bool
	loaded    bool
}

type serviceOptions struct {
	mode    review.Mode
	log     zerolog.Logger
	window  time.Duration
	timers  TimerFactory
	now     func() time.Time
}

// Option configures a DraftService.
type Option func(*serviceOptions)

// WithMode selects the author (read-write) or recipient (read-only) role.
func WithMode(mode review.Mode) Option {
	return func(o *serviceOptions) { o.mode = mode }
}

// WithLogger attaches a component logger.
func WithLogger(log zerolog.Logger) Option {
	return func(o *serviceOptions) { o.log = log }
}

// WithAutosaveWindow overrides the debounce window.
func WithAutosaveWindow(window time.Duration) Option {
	return func(o *serviceOptions) { o.window = window }
}

// WithTimerFactory injects the timer source, letting tests drive the debounce
// deterministically instead of sleeping.
func WithTimerFactory(factory TimerFactory) Option {
	return func(o *serviceOptions) { o.timers = factory }
}

// WithClock injects the time source used to stamp lastSavedAt.
func WithClock(now func() time.Time) Option {
	return func(o *serviceOptions) { o.now = now }
}

// NewDraftService creates a coordinator for one slot's review document.
func NewDraftService(repo review.DraftRepository, slotID, contentType string, opts ...Option) (*DraftService, error) {
	o := serviceOptions{
		mode:   review.ModeAuthor,
		log:    zerolog.Nop(),
		window: DefaultAutosaveWindow,
		now:    time.Now,
	}
	for _, fn := range opts {
		fn(&o)
	}

	fsm, err := review.NewSaveStateMachine()
	if err != nil {
		return nil, err
	}

	s := &DraftService{
		repo: repo,
		log:  o.log,
		mode: o.mode,
		now:  o.now,
		doc:  review.NewDocument(slotID, contentType),
		fsm:  fsm,
	}
	s.cond = sync.NewCond(&s.mu)

	// Recipients never schedule saves, so they get no timer at all.
	if o.mode == review.ModeAuthor {
		s.debouncer = NewDebouncer(o.window, s.autosave, o.timers)
	}
	return s, nil
}

// Mode returns the role this service was opened with.
func (s *DraftService) Mode() review.Mode {
	return s.mode
}

// Document returns a snapshot of the current document.
func (s *DraftService) Document() review.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// SaveState returns the current persistence status.
func (s *DraftService) SaveState() review.SaveState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Save
}

// Dispatch routes an action through the reducer. In recipient mode, actions
// that would change persisted state are dropped; presentation actions still
// apply. Qualifying mutations in author mode restart the autosave window.
func (s *DraftService) Dispatch(a review.Action) {
	mutates := review.Mutates(a)
	if s.mode == review.ModeRecipient && mutates {
		s.log.Debug().Type("action", a).Msg("dropping mutation in read-only mode")
		return
	}

	s.mu.Lock()
	s.doc = review.Reduce(s.doc, a)
	s.mu.Unlock()

	if mutates && s.debouncer != nil {
		s.debouncer.Trigger()
	}
}

// Load fetches prior state for the slot, once per session. An absent draft
// leaves the fresh empty document untouched. A present draft is routed
// through the migration converter and bulk-loaded, and in author mode its
// fingerprint becomes the saved baseline so no redundant save follows.
//
// Failures other than not-found are surfaced: the caller may retry Load.
func (s *DraftService) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.loaded {
		s.mu.Unlock()
		return nil
	}
	s.loaded = true
	slotID, contentType := s.doc.SlotID, s.doc.ContentType
	s.mu.Unlock()

	raw, err := s.repo.LoadDraft(ctx, slotID)
	switch {
	case errors.Is(err, review.ErrDraftNotFound):
		s.log.Debug().Str("slot", slotID).Msg("no prior draft")
		return nil
	case err != nil:
		s.mu.Lock()
		s.loaded = false // allow a retry
		s.doc.Save.SaveError = humanizeStoreError(err)
		s.mu.Unlock()
		return fmt.Errorf("load draft: %w", err)
	}

	partial := review.ToCurrent(raw, slotID, contentType)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = review.Reduce(s.doc, review.BulkLoad{Partial: partial})
	s.doc.Save = review.SaveState{}
	if s.mode == review.ModeAuthor {
		if fp, err := review.Fingerprint(s.doc); err == nil {
			s.lastSaved = fp
		}
	}
	s.log.Info().Str("slot", slotID).Bool("migrated", !raw.IsCurrent()).Msg("draft loaded")
	return nil
}

// Save persists the current save-relevant subset now. It shares the
// skip-if-unchanged guard with autosave; an identical document issues no
// write. The returned error is also recorded in the save state, so callers
// that only watch the indicator may ignore it.
func (s *DraftService) Save(ctx context.Context) error {
	return s.persist(ctx, false)
}

// Submit finalizes the review. Unlike Save it never skips, and failures are
// returned to the caller so the submit flow visibly blocks. The document is
// left intact either way.
func (s *DraftService) Submit(ctx context.Context) error {
	return s.persist(ctx, true)
}

// Close cancels any pending autosave. It does not flush; call Save first if
// the latest state must be persisted.
func (s *DraftService) Close() {
	if s.debouncer != nil {
		s.debouncer.Stop()
	}
}

func (s *DraftService) autosave() {
	if err := s.persist(context.Background(), false); err != nil {
		// Autosave failures are recorded in the save state and swallowed;
		// the user retries through a manual save.
		s.log.Warn().Err(err).Msg("autosave failed")
	}
}

func (s *DraftService) persist(ctx context.Context, submit bool) error {
	op := submit
	for {
		s.mu.Lock()
		for s.fsm.IsSaving() {
			if !op {
				// Latest-wins: one follow-up save replaces any number
				// of triggers that arrive mid-flight.
				s.pending = true
				s.mu.Unlock()
				return nil
			}
			s.cond.Wait()
		}

		fp, err := review.Fingerprint(s.doc)
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("fingerprint document: %w", err)
		}
		if !op && s.lastSaved != nil && bytes.Equal(fp, s.lastSaved) {
			s.doc.Save.IsSaving = false
			s.mu.Unlock()
			return nil
		}

		payload := review.ToLegacySuperset(s.doc)
		slotID := s.doc.SlotID
		_ = s.fsm.Transition(review.SaveEventBegin)
		s.doc.Save.IsSaving = true
		s.mu.Unlock()

		var opErr error
		if op {
			opErr = s.repo.SubmitReview(ctx, slotID, payload)
		} else {
			opErr = s.repo.SaveDraft(ctx, slotID, payload)
		}

		s.mu.Lock()
		s.doc.Save.IsSaving = false
		if opErr != nil {
			_ = s.fsm.Transition(review.SaveEventFail)
			s.doc.Save.SaveError = humanizeStoreError(opErr)
			s.pending = false
			s.cond.Broadcast()
			s.mu.Unlock()
			if op {
				return fmt.Errorf("submit review: %w", opErr)
			}
			return fmt.Errorf("save draft: %w", opErr)
		}

		_ = s.fsm.Transition(review.SaveEventSucceed)
		now := s.now()
		s.doc.Save.LastSavedAt = &now
		s.doc.Save.SaveError = ""
		if !op {
			s.lastSaved = fp
		}
		rerun := s.pending
		s.pending = false
		s.cond.Broadcast()
		s.mu.Unlock()

		if !rerun {
			return nil
		}
		// A trigger arrived mid-flight; run the follow-up as a plain save.
		op = false
	}
}

// humanizeStoreError maps store error classes onto the messages surfaced in
// the save indicator.
func humanizeStoreError(err error) string {
	switch {
	case errors.Is(err, review.ErrUnauthorized):
		return "You don't have permission to save this review"
	case errors.Is(err, review.ErrDraftCorrupt):
		return "The saved draft could not be read"
	case errors.Is(err, review.ErrTransient):
		return "Connection problem. Your changes are kept locally, try saving again"
	default:
		return err.Error()
	}
}
