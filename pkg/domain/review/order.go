package review

// reindexIssues rewrites Order to match slice position, restoring the dense
// 0..N-1 invariant after a removal or move.
func reindexIssues(cards []IssueCard) {
	for i := range cards {
		cards[i].Order = i
	}
}

func reindexStrengths(cards []StrengthCard) {
	for i := range cards {
		cards[i].Order = i
	}
}

// renumberAnnotations restores the dense 1..N display numbering. Numbers are
// positional labels, so survivors shift down when one is deleted.
func renumberAnnotations(anns []Annotation) {
	for i := range anns {
		anns[i].Number = i + 1
	}
}

// nextAnnotationNumber returns max(existing numbers)+1, or 1 if none exist.
func nextAnnotationNumber(anns []Annotation) int {
	max := 0
	for _, a := range anns {
		if a.Number > max {
			max = a.Number
		}
	}
	return max + 1
}

// moveIssue relocates the element at from to position to, shifting the
// elements between them. Out-of-range indices leave the slice untouched.
func moveIssue(cards []IssueCard, from, to int) {
	if from < 0 || from >= len(cards) || to < 0 || to >= len(cards) || from == to {
		return
	}
	card := cards[from]
	if from < to {
		copy(cards[from:], cards[from+1:to+1])
	} else {
		copy(cards[to+1:], cards[to:from])
	}
	cards[to] = card
}

func moveStrength(cards []StrengthCard, from, to int) {
	if from < 0 || from >= len(cards) || to < 0 || to >= len(cards) || from == to {
		return
	}
	card := cards[from]
	if from < to {
		copy(cards[from:], cards[from+1:to+1])
	} else {
		copy(cards[to+1:], cards[to:from])
	}
	cards[to] = card
}
