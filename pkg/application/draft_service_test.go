package application_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Yzori/Critvue-sub003/pkg/application"
	"github.com/Yzori/Critvue-sub003/pkg/domain/review"
)

// mockRepo is an in-memory DraftRepository with hooks for failure injection
// and for holding a save in flight.
type mockRepo struct {
	mu        sync.Mutex
	draft     *review.RawDraft
	loadErr   error
	saveErr   error
	submitErr error
	saves     []*review.RawDraft
	submits   []*review.RawDraft

	enterSave   chan struct{} // signalled when SaveDraft is entered, if set
	releaseSave chan struct{} // SaveDraft blocks on this, if set
}

func (m *mockRepo) LoadDraft(_ context.Context, _ string) (*review.RawDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.draft == nil {
		return nil, review.ErrDraftNotFound
	}
	return m.draft, nil
}

func (m *mockRepo) SaveDraft(_ context.Context, _ string, payload *review.RawDraft) error {
	m.mu.Lock()
	enter, release := m.enterSave, m.releaseSave
	m.mu.Unlock()
	if enter != nil {
		enter <- struct{}{}
	}
	if release != nil {
		<-release
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves = append(m.saves, payload)
	return nil
}

func (m *mockRepo) SubmitReview(_ context.Context, _ string, payload *review.RawDraft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.submitErr != nil {
		return m.submitErr
	}
	m.submits = append(m.submits, payload)
	return nil
}

func (m *mockRepo) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saves)
}

// fakeTimer and fakeScheduler drive the debounce deterministically.
type fakeTimer struct {
	mu      sync.Mutex
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	was := !t.stopped
	t.stopped = true
	return was
}

func (t *fakeTimer) fire() {
	t.mu.Lock()
	stopped := t.stopped
	t.mu.Unlock()
	if !stopped {
		t.fn()
	}
}

type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (f *fakeScheduler) factory(_ time.Duration, fn func()) application.Timer {
	t := &fakeTimer{fn: fn}
	f.mu.Lock()
	f.timers = append(f.timers, t)
	f.mu.Unlock()
	return t
}

// fireLatest runs the most recently scheduled timer, as the real clock would
// after the window elapsed with no further triggers.
func (f *fakeScheduler) fireLatest() {
	f.mu.Lock()
	var last *fakeTimer
	if len(f.timers) > 0 {
		last = f.timers[len(f.timers)-1]
	}
	f.mu.Unlock()
	if last != nil {
		last.fire()
	}
}

func (f *fakeScheduler) scheduledCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.timers)
}

func newService(t *testing.T, repo *mockRepo, opts ...application.Option) *application.DraftService {
	t.Helper()
	svc, err := application.NewDraftService(repo, "slot-1", "design", opts...)
	if err != nil {
		t.Fatalf("NewDraftService: %v", err)
	}
	t.Cleanup(svc.Close)
	return svc
}

func strptr(s string) *string { return &s }

func TestLoad_NoPriorDraft(t *testing.T) {
	repo := &mockRepo{}
	svc := newService(t, repo)

	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("absence of a draft must not be an error: %v", err)
	}
	doc := svc.Document()
	if len(doc.IssueCards) != 0 || doc.SlotID != "slot-1" {
		t.Error("fresh empty document expected")
	}
	if st := svc.SaveState(); st.IsSaving || st.SaveError != "" || st.LastSavedAt != nil {
		t.Errorf("save state should be zeroed, got %+v", st)
	}
}

func TestLoad_MigratesLegacyDraft(t *testing.T) {
	repo := &mockRepo{draft: &review.RawDraft{
		Improvements: []string{"Low contrast → Raise to 4.5:1"},
		Strengths:    []string{"Great whitespace"},
		RatingPhase:  &review.LegacyRatingPhase{Rating: 3},
	}}
	svc := newService(t, repo)

	if err := svc.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	doc := svc.Document()
	if len(doc.IssueCards) != 1 || doc.IssueCards[0].Issue != "Low contrast" {
		t.Errorf("legacy improvements not migrated: %+v", doc.IssueCards)
	}
	if len(doc.StrengthCards) != 1 || doc.Verdict.Rating != 3 {
		t.Error("legacy strengths or rating phase not migrated")
	}
}

func TestLoad_FailureIsSurfacedAndRetryable(t *testing.T) {
	repo := &mockRepo{loadErr: fmt.Errorf("read draft: %w", review.ErrTransient)}
	svc := newService(t, repo)

	if err := svc.Load(context.Background()); err == nil {
		t.Fatal("expected load failure to surface")
	}
	if svc.SaveState().SaveError == "" {
		t.Error("load failure should set a human-readable error")
	}

	repo.mu.Lock()
	repo.loadErr = nil
	repo.draft = &review.RawDraft{Strengths: []string{"Solid grid"}}
	repo.mu.Unlock()

	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("retry after failure should work: %v", err)
	}
	if len(svc.Document().StrengthCards) != 1 {
		t.Error("retried load did not populate the document")
	}
}

func TestLoad_IsOnce(t *testing.T) {
	repo := &mockRepo{draft: &review.RawDraft{Strengths: []string{"One"}}}
	svc := newService(t, repo)

	_ = svc.Load(context.Background())
	repo.mu.Lock()
	repo.draft = &review.RawDraft{Strengths: []string{"One", "Two"}}
	repo.mu.Unlock()
	_ = svc.Load(context.Background())

	if len(svc.Document().StrengthCards) != 1 {
		t.Error("second load should be a no-op")
	}
}

func TestSave_SkipIfUnchanged(t *testing.T) {
	repo := &mockRepo{}
	sched := &fakeScheduler{}
	svc := newService(t, repo, application.WithTimerFactory(sched.factory))
	_ = svc.Load(context.Background())

	svc.Dispatch(review.AddIssueCard{Seed: &review.CardPatch{
		Issue: strptr("Contrast is too low"),
		Fix:   strptr("Raise it to 4.5:1"),
	}})

	if err := svc.Save(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := svc.Save(context.Background()); err != nil {
		t.Fatal(err)
	}

	if got := repo.saveCount(); got != 1 {
		t.Errorf("two saves with no intervening mutation should issue exactly one write, got %d", got)
	}
}

func TestSave_BaselineSuppressesSaveAfterLoad(t *testing.T) {
	repo := &mockRepo{draft: &review.RawDraft{
		Version:    review.CurrentVersion,
		IssueCards: []review.IssueCard{{ID: "issue-1", Issue: "Something", Fix: "Fix it"}},
	}}
	svc := newService(t, repo)
	_ = svc.Load(context.Background())

	if err := svc.Save(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := repo.saveCount(); got != 0 {
		t.Errorf("save right after load must be skipped, got %d writes", got)
	}
}

func TestAutosave_DebouncedThroughFakeTimer(t *testing.T) {
	repo := &mockRepo{}
	sched := &fakeScheduler{}
	svc := newService(t, repo, application.WithTimerFactory(sched.factory))
	_ = svc.Load(context.Background())

	// Every qualifying mutation restarts the window.
	svc.Dispatch(review.AddIssueCard{})
	svc.Dispatch(review.UpdateCard{})
	svc.Dispatch(review.AddAnnotation{Pin: &review.Pin{X: 10, Y: 10}})
	if got := sched.scheduledCount(); got != 3 {
		t.Fatalf("expected 3 scheduled timers, got %d", got)
	}

	sched.fireLatest()

	if got := repo.saveCount(); got != 1 {
		t.Errorf("expected exactly one autosave write, got %d", got)
	}
}

func TestAutosave_PresentationActionsDoNotSchedule(t *testing.T) {
	repo := &mockRepo{}
	sched := &fakeScheduler{}
	svc := newService(t, repo, application.WithTimerFactory(sched.factory))

	svc.Dispatch(review.AddIssueCard{})
	id := svc.Document().IssueCards[0].ID
	before := sched.scheduledCount()

	svc.Dispatch(review.ToggleExpanded{ID: id})
	svc.Dispatch(review.SetSelectionMode{Mode: review.SelectionAnnotate})

	if got := sched.scheduledCount(); got != before {
		t.Errorf("presentation actions must not restart the autosave window (%d -> %d)", before, got)
	}
}

func TestSave_FailureRecordedAndRetried(t *testing.T) {
	repo := &mockRepo{}
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sched := &fakeScheduler{}
	svc := newService(t, repo,
		application.WithClock(func() time.Time { return base }),
		application.WithTimerFactory(sched.factory))
	_ = svc.Load(context.Background())

	svc.Dispatch(review.AddIssueCard{Seed: &review.CardPatch{Issue: strptr("First issue here")}})
	if err := svc.Save(context.Background()); err != nil {
		t.Fatal(err)
	}
	saved := svc.SaveState()
	if saved.LastSavedAt == nil || !saved.LastSavedAt.Equal(base) {
		t.Fatalf("lastSavedAt not stamped: %+v", saved)
	}

	repo.mu.Lock()
	repo.saveErr = fmt.Errorf("flaky disk: %w", review.ErrTransient)
	repo.mu.Unlock()
	svc.Dispatch(review.AddStrengthCard{})

	if err := svc.Save(context.Background()); err == nil {
		t.Fatal("expected save failure")
	}
	st := svc.SaveState()
	if st.SaveError == "" {
		t.Error("failure should set saveError")
	}
	if st.LastSavedAt == nil || !st.LastSavedAt.Equal(base) {
		t.Error("failure must leave lastSavedAt untouched")
	}
	if st.IsSaving {
		t.Error("saving flag should clear after failure")
	}

	// Manual retry succeeds and clears the error.
	repo.mu.Lock()
	repo.saveErr = nil
	repo.mu.Unlock()
	if err := svc.Save(context.Background()); err != nil {
		t.Fatal(err)
	}
	if st := svc.SaveState(); st.SaveError != "" {
		t.Errorf("retry should clear saveError, got %q", st.SaveError)
	}
}

func TestSubmit_AlwaysSendsAndPropagatesFailure(t *testing.T) {
	repo := &mockRepo{}
	sched := &fakeScheduler{}
	svc := newService(t, repo, application.WithTimerFactory(sched.factory))
	_ = svc.Load(context.Background())

	// Unchanged document: save would skip, submit must still send.
	if err := svc.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(repo.submits) != 1 {
		t.Fatalf("expected 1 submission, got %d", len(repo.submits))
	}

	repo.mu.Lock()
	repo.submitErr = review.ErrUnauthorized
	repo.mu.Unlock()
	svc.Dispatch(review.AddIssueCard{Seed: &review.CardPatch{Issue: strptr("Still mine to edit")}})

	err := svc.Submit(context.Background())
	if err == nil {
		t.Fatal("submit failure must propagate to the caller")
	}
	if !errors.Is(err, review.ErrUnauthorized) {
		t.Errorf("error class lost: %v", err)
	}
	if len(svc.Document().IssueCards) != 1 {
		t.Error("failed submit must leave the document intact")
	}
}

func TestSubmit_PayloadIsSuperset(t *testing.T) {
	repo := &mockRepo{}
	sched := &fakeScheduler{}
	svc := newService(t, repo, application.WithTimerFactory(sched.factory))
	svc.Dispatch(review.AddIssueCard{Seed: &review.CardPatch{
		Issue: strptr("Contrast is too low"),
		Fix:   strptr("Raise it to 4.5:1"),
	}})

	if err := svc.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}
	payload := repo.submits[0]
	if payload.Version != review.CurrentVersion {
		t.Error("payload should be version stamped")
	}
	if len(payload.IssueCards) != 1 || len(payload.Improvements) != 1 {
		t.Error("payload must carry both structured and legacy arrays")
	}
}

func TestReadOnlyMode_DropsMutations(t *testing.T) {
	repo := &mockRepo{}
	sched := &fakeScheduler{}
	svc := newService(t, repo,
		application.WithMode(review.ModeRecipient),
		application.WithTimerFactory(sched.factory))
	_ = svc.Load(context.Background())

	svc.Dispatch(review.AddIssueCard{})
	if len(svc.Document().IssueCards) != 0 {
		t.Error("recipient mode must drop mutating actions")
	}
	if sched.scheduledCount() != 0 {
		t.Error("recipient mode must never schedule autosaves")
	}

	// Presentation actions still work for the read-only viewer.
	svc.Dispatch(review.SetSelectionMode{Mode: review.SelectionAnnotate})
	if svc.Document().SelectionMode != review.SelectionAnnotate {
		t.Error("presentation actions should apply in recipient mode")
	}
}

func TestSave_LatestWinsWhileInFlight(t *testing.T) {
	repo := &mockRepo{
		enterSave:   make(chan struct{}, 2),
		releaseSave: make(chan struct{}),
	}
	sched := &fakeScheduler{}
	svc := newService(t, repo, application.WithTimerFactory(sched.factory))
	_ = svc.Load(context.Background())
	svc.Dispatch(review.AddIssueCard{Seed: &review.CardPatch{Issue: strptr("First mutation here")}})

	done := make(chan error, 1)
	go func() { done <- svc.Save(context.Background()) }()
	<-repo.enterSave // first save is now in flight

	// A mutation plus save request while in flight marks exactly one
	// follow-up, it does not start a concurrent write.
	svc.Dispatch(review.TickTime{Seconds: 5})
	if err := svc.Save(context.Background()); err != nil {
		t.Fatalf("queued save should return immediately without error: %v", err)
	}

	close(repo.releaseSave)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	<-repo.enterSave // the follow-up save runs

	deadline := time.After(2 * time.Second)
	for repo.saveCount() < 2 {
		select {
		case <-deadline:
			t.Fatalf("expected follow-up save, got %d writes", repo.saveCount())
		case <-time.After(10 * time.Millisecond):
		}
	}
	if got := repo.saveCount(); got != 2 {
		t.Errorf("expected exactly 2 writes, got %d", got)
	}
}
