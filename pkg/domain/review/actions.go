package review

// Action is the closed set of intents the reducer understands. Concrete
// actions are plain structs; the reducer switches on the dynamic type.
// Unknown actions are no-ops rather than errors.
type Action interface {
	isAction()
}

// CardPatch carries the fields an UpdateCard action merges into a card. Nil
// pointers mean "leave unchanged". Issue and strength fields share one patch
// type because a card id is looked up across both collections.
//
// Order is deliberately absent: reordering goes through ReorderCards only.
type CardPatch struct {
	// Issue card fields.
	Issue             *string
	Fix               *string
	Priority          *Priority
	Severity          *Severity
	Category          *Category
	Confidence        *Confidence
	Effort            *Effort
	Location          *string
	IsQuickWin        *bool
	Principle         *string
	PrincipleCategory *string
	WhyItMatters      *string
	ImpactType        *string
	AfterState        *string
	Resources         []Resource

	// Strength card fields.
	What   *string
	Why    *string
	Impact *string

	// Presentation flags.
	IsExpanded *bool
	IsEditing  *bool
}

// VerdictPatch carries a partial-merge update of the verdict. A non-nil
// TopTakeaways replaces the whole triple.
type VerdictPatch struct {
	Rating           *int
	Summary          *string
	TopTakeaways     []TopTakeaway
	ExecutiveSummary *ExecutiveSummary
	FollowUpOffer    *FollowUpOffer
}

// AnnotationPatch merges fields into an annotation. LinkedCardID is absent on
// purpose: the link relation changes only through LinkAnnotation and
// UnlinkAnnotation, which maintain both sides.
type AnnotationPatch struct {
	Pin       *Pin
	Timestamp *float64
	Comment   *string
}

// Partial is the wholesale field merge a BulkLoad applies. Nil collections and
// pointers mean "absent from the loaded payload, keep current value". It is
// produced by the migration converter and must not be used for ad hoc UI
// mutation.
type Partial struct {
	IssueCards       []IssueCard
	StrengthCards    []StrengthCard
	Verdict          *VerdictCard
	Annotations      []Annotation
	FocusAreas       []string
	RubricRatings    map[string]int
	RubricRationales map[string]string
	TimeSpentSeconds *int
}

// AddIssueCard appends a new issue card, makes it the active editing card and
// switches the deck view to issues. Seed optionally pre-fills fields, which is
// how a card is synthesized from an annotation.
type AddIssueCard struct {
	ID   string // optional; generated when empty
	Seed *CardPatch
}

// AddStrengthCard mirrors AddIssueCard for the strength collection.
type AddStrengthCard struct {
	ID   string
	Seed *CardPatch
}

// UpdateCard shallow-merges Patch into the card with the given id, wherever it
// lives, and stamps UpdatedAt. No-op when the id is unknown.
type UpdateCard struct {
	ID    string
	Patch CardPatch
}

// DeleteCard removes a card by id and re-compacts the orders of its
// collection. Annotations linked to a deleted issue card are unlinked, not
// deleted.
type DeleteCard struct {
	ID string
}

// ReorderCards moves the card at From to To within one collection. This is
// the sole mechanism for changing order.
type ReorderCards struct {
	Kind CardKind
	From int
	To   int
}

// ToggleExpanded flips the presentation expand flag of whichever card has the
// id.
type ToggleExpanded struct {
	ID string
}

// AddAnnotation places a new marker with the next dense display number.
type AddAnnotation struct {
	ID        string // optional; generated when empty
	Pin       *Pin
	Timestamp *float64
	Comment   string
}

// UpdateAnnotation merges Patch into the annotation with the given id.
type UpdateAnnotation struct {
	ID    string
	Patch AnnotationPatch
}

// DeleteAnnotation removes the annotation, renumbers the survivors densely
// from 1, and removes the id from any card's back-reference set.
type DeleteAnnotation struct {
	ID string
}

// LinkAnnotation attaches an annotation to an issue card. Idempotent; no-op
// when either side is missing.
type LinkAnnotation struct {
	AnnotationID string
	CardID       string
}

// UnlinkAnnotation clears an annotation's card link and the matching
// back-reference. No-op when the annotation has no link.
type UnlinkAnnotation struct {
	AnnotationID string
}

// UpdateVerdict partial-merges into the verdict and stamps UpdatedAt.
type UpdateVerdict struct {
	Patch VerdictPatch
}

// SetSelectionMode stores the placement mode for the presentation layer.
type SetSelectionMode struct {
	Mode SelectionMode
}

// SetFocusAreas replaces the reviewer's declared focus areas.
type SetFocusAreas struct {
	FocusAreas []string
}

// SetRubricRating records one rubric category rating with its rationale.
type SetRubricRating struct {
	RubricCategory string
	Rating         int
	Rationale      string
}

// TickTime folds elapsed authoring time into the document. Negative values
// are ignored so the counter is monotone.
type TickTime struct {
	Seconds int
}

// BulkLoad merges persisted state into the document. Reserved for the
// persistence coordinator after a successful load.
type BulkLoad struct {
	Partial Partial
}

// Reset discards everything and reinitializes an empty document for the same
// slot and content type.
type Reset struct{}

func (AddIssueCard) isAction()     {}
func (AddStrengthCard) isAction()  {}
func (UpdateCard) isAction()       {}
func (DeleteCard) isAction()       {}
func (ReorderCards) isAction()     {}
func (ToggleExpanded) isAction()   {}
func (AddAnnotation) isAction()    {}
func (UpdateAnnotation) isAction() {}
func (DeleteAnnotation) isAction() {}
func (LinkAnnotation) isAction()   {}
func (UnlinkAnnotation) isAction() {}
func (UpdateVerdict) isAction()    {}
func (SetSelectionMode) isAction() {}
func (SetFocusAreas) isAction()    {}
func (SetRubricRating) isAction()  {}
func (TickTime) isAction()         {}
func (BulkLoad) isAction()         {}
func (Reset) isAction()            {}

// Mutates reports whether the action changes persisted document state, which
// is what qualifies it for scheduling an autosave. Presentation-only actions
// and coordinator actions do not qualify.
func Mutates(a Action) bool {
	switch a.(type) {
	case AddIssueCard, AddStrengthCard, UpdateCard, DeleteCard, ReorderCards,
		AddAnnotation, UpdateAnnotation, DeleteAnnotation,
		LinkAnnotation, UnlinkAnnotation,
		UpdateVerdict, SetFocusAreas, SetRubricRating, TickTime, Reset:
		return true
	default:
		return false
	}
}
