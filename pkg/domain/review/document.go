// Package review contains the feedback document model: the cards, verdict and
// annotations a reviewer authors against a submitted slot, the reducer that is
// the single authority for mutating them, and the validation rules that gate
// submission.
package review

import "time"

// Priority ranks how urgently an issue should be addressed.
type Priority string

const (
	PriorityCritical   Priority = "critical"
	PriorityImportant  Priority = "important"
	PriorityNiceToHave Priority = "nice-to-have"
)

// Severity grades the impact of an issue.
type Severity string

const (
	SeverityCritical   Severity = "critical"
	SeverityMajor      Severity = "major"
	SeverityMinor      Severity = "minor"
	SeveritySuggestion Severity = "suggestion"
)

// Category is the fixed taxonomy an issue card is filed under.
type Category string

const (
	CategoryPerformance     Category = "performance"
	CategoryUX              Category = "ux"
	CategorySecurity        Category = "security"
	CategoryAccessibility   Category = "accessibility"
	CategoryMaintainability Category = "maintainability"
	CategoryDesign          Category = "design"
	CategoryContent         Category = "content"
	CategoryOther           Category = "other"
)

// Categories returns the full issue taxonomy in display order.
func Categories() []Category {
	return []Category{
		CategoryPerformance,
		CategoryUX,
		CategorySecurity,
		CategoryAccessibility,
		CategoryMaintainability,
		CategoryDesign,
		CategoryContent,
		CategoryOther,
	}
}

// Confidence expresses how sure the reviewer is that the issue is real.
type Confidence string

const (
	ConfidenceCertain  Confidence = "certain"
	ConfidenceLikely   Confidence = "likely"
	ConfidencePossible Confidence = "possible"
)

// Effort estimates how much work the suggested fix takes.
type Effort string

const (
	EffortTrivial     Effort = "trivial"
	EffortModerate    Effort = "moderate"
	EffortSubstantial Effort = "substantial"
)

// CardKind distinguishes the two independent card collections.
type CardKind string

const (
	KindIssue    CardKind = "issue"
	KindStrength CardKind = "strength"
)

// SelectionMode controls how placement gestures are interpreted by the
// presentation layer. The reducer only stores it.
type SelectionMode string

const (
	SelectionNormal   SelectionMode = "normal"
	SelectionAnnotate SelectionMode = "annotate"
)

// Mode gates the engine between the two user roles sharing the document.
type Mode string

const (
	// ModeAuthor is the read-write reviewer role.
	ModeAuthor Mode = "author"
	// ModeRecipient is the read-only creator role.
	ModeRecipient Mode = "recipient"
)

// Resource is an external reference attached to an issue card.
type Resource struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// IssueCard is one reviewer-authored problem plus suggested fix.
//
// Order values across the issue collection are always a dense permutation of
// 0..N-1; the reducer maintains this on every insert, delete and move.
type IssueCard struct {
	ID                string     `json:"id"`
	Order             int        `json:"order"`
	Issue             string     `json:"issue"`
	Fix               string     `json:"fix"`
	Priority          Priority   `json:"priority"`
	Severity          Severity   `json:"severity"`
	Category          Category   `json:"category"`
	Confidence        Confidence `json:"confidence,omitempty"`
	Effort            Effort     `json:"effort,omitempty"`
	Location          string     `json:"location,omitempty"`
	IsQuickWin        bool       `json:"isQuickWin,omitempty"`
	AnnotationIDs     []string   `json:"annotationIds,omitempty"`
	Principle         string     `json:"principle,omitempty"`
	PrincipleCategory string     `json:"principleCategory,omitempty"`
	WhyItMatters      string     `json:"whyItMatters,omitempty"`
	ImpactType        string     `json:"impactType,omitempty"`
	AfterState        string     `json:"afterState,omitempty"`
	Resources         []Resource `json:"resources,omitempty"`
	UpdatedAt         time.Time  `json:"updatedAt"`

	// Presentation state. Managed by the reducer for consistency but never
	// persisted or fingerprinted.
	IsExpanded bool `json:"-"`
	IsEditing  bool `json:"-"`
}

// StrengthCard is a reviewer-authored positive observation. It shares the
// order-density invariant with IssueCard but numbers its own collection.
type StrengthCard struct {
	ID        string    `json:"id"`
	Order     int       `json:"order"`
	What      string    `json:"what"`
	Why       string    `json:"why,omitempty"`
	Impact    string    `json:"impact,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`

	IsExpanded bool `json:"-"`
	IsEditing  bool `json:"-"`
}

// TopTakeaway is one of the exactly three issue/fix pairs a verdict carries.
type TopTakeaway struct {
	Issue string `json:"issue"`
	Fix   string `json:"fix"`
}

// ExecutiveSummary is the optional condensed form of the verdict.
type ExecutiveSummary struct {
	OneLiner    string `json:"oneLiner,omitempty"`
	BiggestWin  string `json:"biggestWin,omitempty"`
	CriticalFix string `json:"criticalFix,omitempty"`
	QuickWin    string `json:"quickWin,omitempty"`
}

// FollowUpOffer records whether the reviewer offers follow-up discussion.
type FollowUpOffer struct {
	Available    bool   `json:"available"`
	Description  string `json:"description,omitempty"`
	ResponseTime string `json:"responseTime,omitempty"`
}

// VerdictCard is the single overall conclusion of a review. It exists from the
// moment the document does and is only ever merged into or reset, never
// deleted. Rating 0 means unset; 1..5 is a real rating.
type VerdictCard struct {
	Rating           int               `json:"rating"`
	Summary          string            `json:"summary"`
	TopTakeaways     []TopTakeaway     `json:"topTakeaways"`
	ExecutiveSummary *ExecutiveSummary `json:"executiveSummary,omitempty"`
	FollowUpOffer    *FollowUpOffer    `json:"followUpOffer,omitempty"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// NewVerdictCard returns an empty verdict with its three takeaway slots.
func NewVerdictCard() VerdictCard {
	return VerdictCard{TopTakeaways: make([]TopTakeaway, takeawayCount)}
}

const takeawayCount = 3

// SaveState is the process-local persistence status of a document. It is never
// persisted and never part of the change fingerprint.
type SaveState struct {
	IsSaving    bool
	LastSavedAt *time.Time
	SaveError   string
}

// Document is the aggregate root of a review in progress, identified by the
// slot being reviewed and its content type.
type Document struct {
	SlotID           string            `json:"slotId"`
	ContentType      string            `json:"contentType"`
	IssueCards       []IssueCard       `json:"issueCards"`
	StrengthCards    []StrengthCard    `json:"strengthCards"`
	Verdict          VerdictCard       `json:"verdictCard"`
	Annotations      []Annotation      `json:"annotations"`
	FocusAreas       []string          `json:"focusAreas"`
	RubricRatings    map[string]int    `json:"rubricRatings"`
	RubricRationales map[string]string `json:"rubricRationales"`
	TimeSpentSeconds int               `json:"timeSpentSeconds"`

	// Presentation and process-local state, excluded from persistence.
	ActiveCardID  string        `json:"-"`
	EditingCardID string        `json:"-"`
	ActiveDeck    CardKind      `json:"-"`
	SelectionMode SelectionMode `json:"-"`
	Save          SaveState     `json:"-"`
}

// NewDocument creates an empty document for a slot. Collections are non-nil so
// the persisted form is stable from the first save.
func NewDocument(slotID, contentType string) Document {
	return Document{
		SlotID:           slotID,
		ContentType:      contentType,
		IssueCards:       []IssueCard{},
		StrengthCards:    []StrengthCard{},
		Verdict:          NewVerdictCard(),
		Annotations:      []Annotation{},
		FocusAreas:       []string{},
		RubricRatings:    map[string]int{},
		RubricRationales: map[string]string{},
		ActiveDeck:       KindIssue,
		SelectionMode:    SelectionNormal,
	}
}

// Clone returns a deep copy. The reducer clones before every mutation so the
// input document is never aliased by the output.
func (d Document) Clone() Document {
	out := d
	out.IssueCards = make([]IssueCard, len(d.IssueCards))
	for i, c := range d.IssueCards {
		c.AnnotationIDs = append([]string(nil), c.AnnotationIDs...)
		c.Resources = append([]Resource(nil), c.Resources...)
		out.IssueCards[i] = c
	}
	out.StrengthCards = append([]StrengthCard(nil), d.StrengthCards...)
	out.Annotations = make([]Annotation, len(d.Annotations))
	for i, a := range d.Annotations {
		out.Annotations[i] = a.clone()
	}
	out.Verdict = d.Verdict.clone()
	out.FocusAreas = append([]string(nil), d.FocusAreas...)
	out.RubricRatings = make(map[string]int, len(d.RubricRatings))
	for k, v := range d.RubricRatings {
		out.RubricRatings[k] = v
	}
	out.RubricRationales = make(map[string]string, len(d.RubricRationales))
	for k, v := range d.RubricRationales {
		out.RubricRationales[k] = v
	}
	return out
}

func (v VerdictCard) clone() VerdictCard {
	out := v
	out.TopTakeaways = append([]TopTakeaway(nil), v.TopTakeaways...)
	if v.ExecutiveSummary != nil {
		es := *v.ExecutiveSummary
		out.ExecutiveSummary = &es
	}
	if v.FollowUpOffer != nil {
		fo := *v.FollowUpOffer
		out.FollowUpOffer = &fo
	}
	return out
}

// findIssue returns the index of the issue card with the given id, or -1.
func (d Document) findIssue(id string) int {
	for i, c := range d.IssueCards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (d Document) findStrength(id string) int {
	for i, c := range d.StrengthCards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (d Document) findAnnotation(id string) int {
	for i, a := range d.Annotations {
		if a.ID == id {
			return i
		}
	}
	return -1
}
