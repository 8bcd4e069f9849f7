package review

import (
	"strings"
	"unicode/utf8"
)

// Completeness thresholds. Individually incomplete cards are not errors; they
// are simply excluded from the counts the document-level rules look at.
const (
	minIssueLen    = 10
	minFixLen      = 10
	minWhatLen     = 10
	minSummaryLen  = 50
	minTakeawayLen = 5
)

// IsComplete reports whether the issue card clears the completeness bar.
func (c IssueCard) IsComplete() bool {
	return fieldLen(c.Issue) >= minIssueLen && fieldLen(c.Fix) >= minFixLen
}

// IsComplete reports whether the strength card clears the completeness bar.
func (c StrengthCard) IsComplete() bool {
	return fieldLen(c.What) >= minWhatLen
}

func (t TopTakeaway) isComplete() bool {
	return fieldLen(t.Issue) >= minTakeawayLen && fieldLen(t.Fix) >= minTakeawayLen
}

func fieldLen(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

// CompleteCardCount returns the number of complete issue and strength cards.
func (d Document) CompleteCardCount() (issues, strengths int) {
	for _, c := range d.IssueCards {
		if c.IsComplete() {
			issues++
		}
	}
	for _, c := range d.StrengthCards {
		if c.IsComplete() {
			strengths++
		}
	}
	return issues, strengths
}

// ValidationErrors returns the human-readable reasons the document cannot be
// submitted yet. An empty slice means the document is ready.
func ValidationErrors(d Document) []string {
	var errs []string

	issues, strengths := d.CompleteCardCount()
	if issues == 0 && strengths == 0 {
		errs = append(errs, "Add at least one complete issue or strength card")
	}

	if d.Verdict.Rating < 1 || d.Verdict.Rating > 5 {
		errs = append(errs, "Set an overall rating (1-5 stars)")
	}

	if fieldLen(d.Verdict.Summary) < minSummaryLen {
		errs = append(errs, "Write a summary (at least 50 characters)")
	}

	complete := 0
	for _, t := range d.Verdict.TopTakeaways {
		if t.isComplete() {
			complete++
		}
	}
	if complete < takeawayCount {
		errs = append(errs, "Complete all 3 top takeaways")
	}

	return errs
}

// IsReadyToSubmit is true iff ValidationErrors returns nothing.
func IsReadyToSubmit(d Document) bool {
	return len(ValidationErrors(d)) == 0
}
