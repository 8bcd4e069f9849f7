package review_test

import (
	"strings"
	"testing"

	"github.com/Yzori/Critvue-sub003/pkg/domain/review"
)

func TestToCurrent_LegacyDraftSynthesizesCards(t *testing.T) {
	raw := &review.RawDraft{
		Strengths:    []string{"Great use of whitespace"},
		Improvements: []string{"Contrast is too low → Raise it to 4.5:1", "Header is cluttered"},
		RatingPhase:  &review.LegacyRatingPhase{Rating: 3},
		SummaryPhase: &review.LegacySummaryPhase{Summary: "Needs polish but the bones are good"},
		RubricPhase: &review.LegacyRubricPhase{
			Ratings:    map[string]int{"craft": 4},
			Rationales: map[string]string{"craft": "clean execution"},
		},
	}
	if raw.IsCurrent() {
		t.Fatal("legacy draft misdetected as current")
	}

	p := review.ToCurrent(raw, "slot-9", "design")

	if len(p.IssueCards) != 2 {
		t.Fatalf("expected 2 synthesized issue cards, got %d", len(p.IssueCards))
	}
	first := p.IssueCards[0]
	if first.Issue != "Contrast is too low" || first.Fix != "Raise it to 4.5:1" {
		t.Errorf("arrow split wrong: %q / %q", first.Issue, first.Fix)
	}
	if !strings.HasPrefix(first.ID, "issue-legacy-") {
		t.Errorf("synthetic id missing legacy prefix: %s", first.ID)
	}
	if first.Priority != review.PriorityImportant || first.Severity != review.SeverityMajor || first.Confidence != review.ConfidenceLikely {
		t.Errorf("legacy defaults wrong: %s/%s/%s", first.Priority, first.Severity, first.Confidence)
	}
	second := p.IssueCards[1]
	if second.Issue != "Header is cluttered" || second.Fix != "" {
		t.Errorf("separator-less improvement should become issue-only: %q / %q", second.Issue, second.Fix)
	}

	if len(p.StrengthCards) != 1 || p.StrengthCards[0].What != "Great use of whitespace" {
		t.Errorf("strengths not migrated: %+v", p.StrengthCards)
	}

	if p.Verdict == nil || p.Verdict.Rating != 3 || p.Verdict.Summary != "Needs polish but the bones are good" {
		t.Errorf("phases not folded into verdict: %+v", p.Verdict)
	}
	if p.RubricRatings["craft"] != 4 || p.RubricRationales["craft"] != "clean execution" {
		t.Error("rubric phase not migrated")
	}
}

func TestToCurrent_StructuredArraysPreferred(t *testing.T) {
	raw := &review.RawDraft{
		Version: review.CurrentVersion,
		IssueCards: []review.IssueCard{
			{ID: "issue-1", Issue: "Structured issue wins", Fix: "Keep it"},
		},
		// Stale legacy text must be ignored, not merged: consulting both
		// would duplicate the same item.
		Improvements: []string{"Structured issue wins → Keep it"},
	}
	if !raw.IsCurrent() {
		t.Fatal("version-stamped draft should be detected as current")
	}

	p := review.ToCurrent(raw, "slot-9", "design")
	if len(p.IssueCards) != 1 || p.IssueCards[0].ID != "issue-1" {
		t.Errorf("structured array should win: %+v", p.IssueCards)
	}
}

func TestIsCurrent_DetectsByStructuredArraysWithoutVersion(t *testing.T) {
	raw := &review.RawDraft{
		StrengthCards: []review.StrengthCard{{ID: "strength-1", What: "Nice"}},
	}
	if !raw.IsCurrent() {
		t.Error("structured arrays should mark a payload current even without a version stamp")
	}
}

func TestToLegacySuperset_PopulatesBothShapes(t *testing.T) {
	d := review.NewDocument("slot-9", "design")
	d = review.Reduce(d, review.AddIssueCard{Seed: &review.CardPatch{
		Issue: strptr("Contrast is too low"),
		Fix:   strptr("Raise it to 4.5:1"),
	}})
	d = review.Reduce(d, review.AddStrengthCard{Seed: &review.CardPatch{
		What: strptr("Great use of whitespace"),
	}})
	rating := 4
	d = review.Reduce(d, review.UpdateVerdict{Patch: review.VerdictPatch{Rating: &rating}})

	payload := review.ToLegacySuperset(d)

	if payload.Version != review.CurrentVersion {
		t.Errorf("superset must be version-stamped, got %q", payload.Version)
	}
	if len(payload.IssueCards) != 1 || len(payload.Improvements) != 1 {
		t.Fatal("superset must carry both structured and flattened arrays")
	}
	if payload.Improvements[0] != "Contrast is too low → Raise it to 4.5:1" {
		t.Errorf("flattened improvement wrong: %q", payload.Improvements[0])
	}
	if len(payload.Strengths) != 1 || payload.Strengths[0] != "Great use of whitespace" {
		t.Errorf("flattened strengths wrong: %v", payload.Strengths)
	}
	if payload.RatingPhase == nil || payload.RatingPhase.Rating != 4 {
		t.Error("rating phase missing from superset")
	}
}

// Round trip: every legacy field populated in the original draft must still be
// present and semantically equivalent after toCurrent followed by
// toLegacySuperset.
func TestLegacyRoundTripIsSuperset(t *testing.T) {
	raw := &review.RawDraft{
		Strengths:    []string{"Great use of whitespace", "Strong grid"},
		Improvements: []string{"Contrast is too low → Raise it to 4.5:1"},
		RatingPhase:  &review.LegacyRatingPhase{Rating: 3},
		SummaryPhase: &review.LegacySummaryPhase{Summary: "Needs polish"},
	}

	p := review.ToCurrent(raw, "slot-9", "design")
	d := review.Reduce(review.NewDocument("slot-9", "design"), review.BulkLoad{Partial: p})
	back := review.ToLegacySuperset(d)

	if len(back.Strengths) != len(raw.Strengths) {
		t.Fatalf("strengths lost in round trip: %v", back.Strengths)
	}
	for i, s := range raw.Strengths {
		if back.Strengths[i] != s {
			t.Errorf("strength %d: got %q, want %q", i, back.Strengths[i], s)
		}
	}
	if len(back.Improvements) != 1 || back.Improvements[0] != raw.Improvements[0] {
		t.Errorf("improvements changed in round trip: %v", back.Improvements)
	}
	if back.RatingPhase.Rating != 3 {
		t.Errorf("rating lost: %d", back.RatingPhase.Rating)
	}
	if back.SummaryPhase.Summary != "Needs polish" {
		t.Errorf("summary lost: %q", back.SummaryPhase.Summary)
	}
}
