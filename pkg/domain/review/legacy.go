package review

import (
	"strings"
	"time"
)

// CurrentVersion marks a persisted payload as already being in the structured
// format. Payloads stamped with this version (or later) skip migration.
const CurrentVersion = "2.0"

// arrowSeparator joins issue and fix into the flattened legacy improvement
// strings, and splits them back apart on migration.
const arrowSeparator = " → "

// LegacyRatingPhase is the pre-2.0 container for the overall rating.
type LegacyRatingPhase struct {
	Rating int `json:"rating"`
}

// LegacySummaryPhase is the pre-2.0 container for the written summary.
type LegacySummaryPhase struct {
	Summary string `json:"summary"`
}

// LegacyRubricPhase is the pre-2.0 container for rubric scores.
type LegacyRubricPhase struct {
	Ratings    map[string]int    `json:"ratings,omitempty"`
	Rationales map[string]string `json:"rationales,omitempty"`
}

// RawDraft is the persisted wire shape. It is a superset: current payloads
// carry the version stamp and the structured arrays, legacy payloads carry
// plain string arrays and phase objects, and payloads we write carry both so
// that pre-2.0 readers keep working.
type RawDraft struct {
	Version          string            `json:"version,omitempty"`
	SlotID           string            `json:"slotId,omitempty"`
	ContentType      string            `json:"contentType,omitempty"`
	IssueCards       []IssueCard       `json:"issueCards,omitempty"`
	StrengthCards    []StrengthCard    `json:"strengthCards,omitempty"`
	VerdictCard      *VerdictCard      `json:"verdictCard,omitempty"`
	Annotations      []Annotation      `json:"annotations,omitempty"`
	FocusAreas       []string          `json:"focusAreas,omitempty"`
	RubricRatings    map[string]int    `json:"rubricRatings,omitempty"`
	RubricRationales map[string]string `json:"rubricRationales,omitempty"`
	TimeSpentSeconds int               `json:"timeSpentSeconds,omitempty"`

	// Legacy fields, written for old readers and read as a migration
	// fallback.
	Strengths    []string            `json:"strengths,omitempty"`
	Improvements []string            `json:"improvements,omitempty"`
	RatingPhase  *LegacyRatingPhase  `json:"ratingPhase,omitempty"`
	SummaryPhase *LegacySummaryPhase `json:"summaryPhase,omitempty"`
	RubricPhase  *LegacyRubricPhase  `json:"rubricPhase,omitempty"`
}

// IsCurrent reports whether the payload is already in the structured format,
// detected by the version stamp or by the presence of structured card arrays.
func (r *RawDraft) IsCurrent() bool {
	if r.Version != "" && r.Version >= CurrentVersion {
		return true
	}
	return len(r.IssueCards) > 0 || len(r.StrengthCards) > 0
}

// ToCurrent maps a persisted payload of either vintage onto the current
// document shape. Structured arrays are preferred wholesale; the legacy plain
// text arrays are consulted only when no structured counterpart exists, never
// merged with it, so a half-migrated payload cannot duplicate items.
func ToCurrent(raw *RawDraft, slotID, contentType string) Partial {
	p := Partial{}
	if raw == nil {
		return p
	}
	ts := time.Now().Unix()

	if raw.IssueCards != nil {
		p.IssueCards = raw.IssueCards
	} else if len(raw.Improvements) > 0 {
		p.IssueCards = issuesFromImprovements(raw.Improvements, ts)
	}

	if raw.StrengthCards != nil {
		p.StrengthCards = raw.StrengthCards
	} else if len(raw.Strengths) > 0 {
		p.StrengthCards = strengthsFromLegacy(raw.Strengths, ts)
	}

	if raw.VerdictCard != nil {
		p.Verdict = raw.VerdictCard
	} else if raw.RatingPhase != nil || raw.SummaryPhase != nil {
		v := NewVerdictCard()
		if raw.RatingPhase != nil {
			v.Rating = raw.RatingPhase.Rating
		}
		if raw.SummaryPhase != nil {
			v.Summary = raw.SummaryPhase.Summary
		}
		p.Verdict = &v
	}

	if raw.Annotations != nil {
		p.Annotations = raw.Annotations
	}
	if raw.FocusAreas != nil {
		p.FocusAreas = raw.FocusAreas
	}

	switch {
	case raw.RubricRatings != nil:
		p.RubricRatings = raw.RubricRatings
	case raw.RubricPhase != nil:
		p.RubricRatings = raw.RubricPhase.Ratings
	}
	switch {
	case raw.RubricRationales != nil:
		p.RubricRationales = raw.RubricRationales
	case raw.RubricPhase != nil:
		p.RubricRationales = raw.RubricPhase.Rationales
	}

	if raw.TimeSpentSeconds > 0 {
		secs := raw.TimeSpentSeconds
		p.TimeSpentSeconds = &secs
	}
	return p
}

func issuesFromImprovements(improvements []string, ts int64) []IssueCard {
	cards := make([]IssueCard, 0, len(improvements))
	for i, text := range improvements {
		issue, fix := splitImprovement(text)
		cards = append(cards, IssueCard{
			ID:         legacyCardID(KindIssue, ts, i),
			Order:      i,
			Issue:      issue,
			Fix:        fix,
			Priority:   PriorityImportant,
			Severity:   SeverityMajor,
			Category:   CategoryOther,
			Confidence: ConfidenceLikely,
		})
	}
	return cards
}

func strengthsFromLegacy(strengths []string, ts int64) []StrengthCard {
	cards := make([]StrengthCard, 0, len(strengths))
	for i, text := range strengths {
		cards = append(cards, StrengthCard{
			ID:    legacyCardID(KindStrength, ts, i),
			Order: i,
			What:  text,
		})
	}
	return cards
}

// splitImprovement recovers the issue/fix pair from a flattened legacy
// improvement string. Strings without the separator become issue-only cards.
func splitImprovement(text string) (issue, fix string) {
	if idx := strings.Index(text, arrowSeparator); idx >= 0 {
		return text[:idx], text[idx+len(arrowSeparator):]
	}
	return text, ""
}

// ToLegacySuperset renders a document as the persisted superset payload:
// version-stamped structured arrays plus the flattened legacy arrays and phase
// objects pre-2.0 readers expect. Saves and submits both go through this.
func ToLegacySuperset(d Document) *RawDraft {
	sub := Snapshot(d)
	verdict := sub.VerdictCard

	improvements := make([]string, 0, len(sub.IssueCards))
	for _, c := range sub.IssueCards {
		if c.Fix != "" {
			improvements = append(improvements, c.Issue+arrowSeparator+c.Fix)
		} else {
			improvements = append(improvements, c.Issue)
		}
	}
	strengths := make([]string, 0, len(sub.StrengthCards))
	for _, c := range sub.StrengthCards {
		strengths = append(strengths, c.What)
	}

	return &RawDraft{
		Version:          CurrentVersion,
		SlotID:           sub.SlotID,
		ContentType:      sub.ContentType,
		IssueCards:       sub.IssueCards,
		StrengthCards:    sub.StrengthCards,
		VerdictCard:      &verdict,
		Annotations:      sub.Annotations,
		FocusAreas:       sub.FocusAreas,
		RubricRatings:    sub.RubricRatings,
		RubricRationales: sub.RubricRationales,
		TimeSpentSeconds: sub.TimeSpentSeconds,
		Strengths:        strengths,
		Improvements:     improvements,
		RatingPhase:      &LegacyRatingPhase{Rating: verdict.Rating},
		SummaryPhase:     &LegacySummaryPhase{Summary: verdict.Summary},
		RubricPhase: &LegacyRubricPhase{
			Ratings:    sub.RubricRatings,
			Rationales: sub.RubricRationales,
		},
	}
}
