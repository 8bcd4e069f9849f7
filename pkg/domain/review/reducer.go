package review

import "time"

// Reduce is the single authority for document mutation: given the current
// document and an action it returns the next document. The input is never
// modified. Reduce is total — malformed or unknown actions produce the
// unchanged document, never an error.
func Reduce(d Document, a Action) Document {
	next := d.Clone()
	switch act := a.(type) {
	case AddIssueCard:
		addIssueCard(&next, act)
	case AddStrengthCard:
		addStrengthCard(&next, act)
	case UpdateCard:
		updateCard(&next, act)
	case DeleteCard:
		deleteCard(&next, act.ID)
	case ReorderCards:
		reorderCards(&next, act)
	case ToggleExpanded:
		toggleExpanded(&next, act.ID)
	case AddAnnotation:
		addAnnotation(&next, act)
	case UpdateAnnotation:
		updateAnnotation(&next, act)
	case DeleteAnnotation:
		deleteAnnotation(&next, act.ID)
	case LinkAnnotation:
		linkAnnotation(&next, act)
	case UnlinkAnnotation:
		unlinkAnnotation(&next, act.AnnotationID)
	case UpdateVerdict:
		mergeVerdict(&next.Verdict, act.Patch)
		next.Verdict.UpdatedAt = time.Now()
	case SetSelectionMode:
		next.SelectionMode = act.Mode
	case SetFocusAreas:
		next.FocusAreas = append([]string{}, act.FocusAreas...)
	case SetRubricRating:
		next.RubricRatings[act.RubricCategory] = act.Rating
		if act.Rationale != "" {
			next.RubricRationales[act.RubricCategory] = act.Rationale
		}
	case TickTime:
		if act.Seconds > 0 {
			next.TimeSpentSeconds += act.Seconds
		}
	case BulkLoad:
		bulkLoad(&next, act.Partial)
	case Reset:
		next = NewDocument(d.SlotID, d.ContentType)
	}
	return next
}

func addIssueCard(d *Document, act AddIssueCard) {
	id := act.ID
	if id == "" {
		id = NewCardID(KindIssue)
	}
	card := IssueCard{
		ID:         id,
		Order:      len(d.IssueCards),
		Priority:   PriorityImportant,
		Severity:   SeverityMajor,
		Category:   CategoryOther,
		UpdatedAt:  time.Now(),
		IsExpanded: true,
		IsEditing:  true,
	}
	if act.Seed != nil {
		applyCardPatch(&card, nil, *act.Seed)
	}
	d.IssueCards = append(d.IssueCards, card)
	d.ActiveCardID = card.ID
	d.EditingCardID = card.ID
	d.ActiveDeck = KindIssue
}

func addStrengthCard(d *Document, act AddStrengthCard) {
	id := act.ID
	if id == "" {
		id = NewCardID(KindStrength)
	}
	card := StrengthCard{
		ID:         id,
		Order:      len(d.StrengthCards),
		UpdatedAt:  time.Now(),
		IsExpanded: true,
		IsEditing:  true,
	}
	if act.Seed != nil {
		applyCardPatch(nil, &card, *act.Seed)
	}
	d.StrengthCards = append(d.StrengthCards, card)
	d.ActiveCardID = card.ID
	d.EditingCardID = card.ID
	d.ActiveDeck = KindStrength
}

func updateCard(d *Document, act UpdateCard) {
	if i := d.findIssue(act.ID); i >= 0 {
		applyCardPatch(&d.IssueCards[i], nil, act.Patch)
		d.IssueCards[i].UpdatedAt = time.Now()
		return
	}
	if i := d.findStrength(act.ID); i >= 0 {
		applyCardPatch(nil, &d.StrengthCards[i], act.Patch)
		d.StrengthCards[i].UpdatedAt = time.Now()
	}
}

// applyCardPatch shallow-merges a patch into whichever card is non-nil.
func applyCardPatch(issue *IssueCard, strength *StrengthCard, p CardPatch) {
	if issue != nil {
		if p.Issue != nil {
			issue.Issue = *p.Issue
		}
		if p.Fix != nil {
			issue.Fix = *p.Fix
		}
		if p.Priority != nil {
			issue.Priority = *p.Priority
		}
		if p.Severity != nil {
			issue.Severity = *p.Severity
		}
		if p.Category != nil {
			issue.Category = *p.Category
		}
		if p.Confidence != nil {
			issue.Confidence = *p.Confidence
		}
		if p.Effort != nil {
			issue.Effort = *p.Effort
		}
		if p.Location != nil {
			issue.Location = *p.Location
		}
		if p.IsQuickWin != nil {
			issue.IsQuickWin = *p.IsQuickWin
		}
		if p.Principle != nil {
			issue.Principle = *p.Principle
		}
		if p.PrincipleCategory != nil {
			issue.PrincipleCategory = *p.PrincipleCategory
		}
		if p.WhyItMatters != nil {
			issue.WhyItMatters = *p.WhyItMatters
		}
		if p.ImpactType != nil {
			issue.ImpactType = *p.ImpactType
		}
		if p.AfterState != nil {
			issue.AfterState = *p.AfterState
		}
		if p.Resources != nil {
			issue.Resources = append([]Resource{}, p.Resources...)
		}
		if p.IsExpanded != nil {
			issue.IsExpanded = *p.IsExpanded
		}
		if p.IsEditing != nil {
			issue.IsEditing = *p.IsEditing
		}
		return
	}
	if strength != nil {
		if p.What != nil {
			strength.What = *p.What
		}
		if p.Why != nil {
			strength.Why = *p.Why
		}
		if p.Impact != nil {
			strength.Impact = *p.Impact
		}
		if p.IsExpanded != nil {
			strength.IsExpanded = *p.IsExpanded
		}
		if p.IsEditing != nil {
			strength.IsEditing = *p.IsEditing
		}
	}
}

func deleteCard(d *Document, id string) {
	if i := d.findIssue(id); i >= 0 {
		d.IssueCards = append(d.IssueCards[:i], d.IssueCards[i+1:]...)
		reindexIssues(d.IssueCards)
		// Deleting the card leaves linked annotations in place with the
		// relation cleared on their side.
		for j := range d.Annotations {
			if d.Annotations[j].LinkedCardID == id {
				d.Annotations[j].LinkedCardID = ""
			}
		}
		clearCardPointers(d, id)
		return
	}
	if i := d.findStrength(id); i >= 0 {
		d.StrengthCards = append(d.StrengthCards[:i], d.StrengthCards[i+1:]...)
		reindexStrengths(d.StrengthCards)
		clearCardPointers(d, id)
	}
}

func clearCardPointers(d *Document, id string) {
	if d.ActiveCardID == id {
		d.ActiveCardID = ""
	}
	if d.EditingCardID == id {
		d.EditingCardID = ""
	}
}

func reorderCards(d *Document, act ReorderCards) {
	switch act.Kind {
	case KindIssue:
		moveIssue(d.IssueCards, act.From, act.To)
		reindexIssues(d.IssueCards)
	case KindStrength:
		moveStrength(d.StrengthCards, act.From, act.To)
		reindexStrengths(d.StrengthCards)
	}
}

func toggleExpanded(d *Document, id string) {
	if i := d.findIssue(id); i >= 0 {
		d.IssueCards[i].IsExpanded = !d.IssueCards[i].IsExpanded
		return
	}
	if i := d.findStrength(id); i >= 0 {
		d.StrengthCards[i].IsExpanded = !d.StrengthCards[i].IsExpanded
	}
}

func addAnnotation(d *Document, act AddAnnotation) {
	id := act.ID
	if id == "" {
		id = NewAnnotationID()
	}
	ann := Annotation{
		ID:      id,
		Number:  nextAnnotationNumber(d.Annotations),
		Comment: act.Comment,
	}
	if act.Pin != nil {
		p := *act.Pin
		ann.Pin = &p
	}
	if act.Timestamp != nil {
		ts := *act.Timestamp
		ann.Timestamp = &ts
	}
	d.Annotations = append(d.Annotations, ann)
}

func updateAnnotation(d *Document, act UpdateAnnotation) {
	i := d.findAnnotation(act.ID)
	if i < 0 {
		return
	}
	if act.Patch.Pin != nil {
		p := *act.Patch.Pin
		d.Annotations[i].Pin = &p
	}
	if act.Patch.Timestamp != nil {
		ts := *act.Patch.Timestamp
		d.Annotations[i].Timestamp = &ts
	}
	if act.Patch.Comment != nil {
		d.Annotations[i].Comment = *act.Patch.Comment
	}
}

func deleteAnnotation(d *Document, id string) {
	i := d.findAnnotation(id)
	if i < 0 {
		return
	}
	linked := d.Annotations[i].LinkedCardID
	d.Annotations = append(d.Annotations[:i], d.Annotations[i+1:]...)
	renumberAnnotations(d.Annotations)
	if linked != "" {
		if j := d.findIssue(linked); j >= 0 {
			d.IssueCards[j].AnnotationIDs = removeString(d.IssueCards[j].AnnotationIDs, id)
		}
	}
}

func linkAnnotation(d *Document, act LinkAnnotation) {
	ai := d.findAnnotation(act.AnnotationID)
	ci := d.findIssue(act.CardID)
	if ai < 0 || ci < 0 {
		return
	}
	// Re-linking moves the annotation: the previous card drops its
	// back-reference first.
	if prev := d.Annotations[ai].LinkedCardID; prev != "" && prev != act.CardID {
		if j := d.findIssue(prev); j >= 0 {
			d.IssueCards[j].AnnotationIDs = removeString(d.IssueCards[j].AnnotationIDs, act.AnnotationID)
		}
	}
	d.Annotations[ai].LinkedCardID = act.CardID
	if !containsString(d.IssueCards[ci].AnnotationIDs, act.AnnotationID) {
		d.IssueCards[ci].AnnotationIDs = append(d.IssueCards[ci].AnnotationIDs, act.AnnotationID)
	}
}

func unlinkAnnotation(d *Document, annotationID string) {
	ai := d.findAnnotation(annotationID)
	if ai < 0 || d.Annotations[ai].LinkedCardID == "" {
		return
	}
	cardID := d.Annotations[ai].LinkedCardID
	d.Annotations[ai].LinkedCardID = ""
	if j := d.findIssue(cardID); j >= 0 {
		d.IssueCards[j].AnnotationIDs = removeString(d.IssueCards[j].AnnotationIDs, annotationID)
	}
}

func mergeVerdict(v *VerdictCard, p VerdictPatch) {
	if p.Rating != nil {
		v.Rating = *p.Rating
	}
	if p.Summary != nil {
		v.Summary = *p.Summary
	}
	if p.TopTakeaways != nil {
		v.TopTakeaways = normalizeTakeaways(p.TopTakeaways)
	}
	if p.ExecutiveSummary != nil {
		es := *p.ExecutiveSummary
		v.ExecutiveSummary = &es
	}
	if p.FollowUpOffer != nil {
		fo := *p.FollowUpOffer
		v.FollowUpOffer = &fo
	}
	if v.TopTakeaways == nil {
		v.TopTakeaways = make([]TopTakeaway, takeawayCount)
	}
}

// normalizeTakeaways pads or truncates to exactly three slots.
func normalizeTakeaways(tt []TopTakeaway) []TopTakeaway {
	out := make([]TopTakeaway, takeawayCount)
	copy(out, tt)
	return out
}

func bulkLoad(d *Document, p Partial) {
	if p.IssueCards != nil {
		d.IssueCards = append([]IssueCard{}, p.IssueCards...)
		reindexIssues(d.IssueCards)
	}
	if p.StrengthCards != nil {
		d.StrengthCards = append([]StrengthCard{}, p.StrengthCards...)
		reindexStrengths(d.StrengthCards)
	}
	if p.Verdict != nil {
		v := p.Verdict.clone()
		v.TopTakeaways = normalizeTakeaways(v.TopTakeaways)
		d.Verdict = v
	}
	if p.Annotations != nil {
		d.Annotations = make([]Annotation, 0, len(p.Annotations))
		for _, a := range p.Annotations {
			d.Annotations = append(d.Annotations, a.clone())
		}
	}
	if p.FocusAreas != nil {
		d.FocusAreas = append([]string{}, p.FocusAreas...)
	}
	if p.RubricRatings != nil {
		d.RubricRatings = make(map[string]int, len(p.RubricRatings))
		for k, v := range p.RubricRatings {
			d.RubricRatings[k] = v
		}
	}
	if p.RubricRationales != nil {
		d.RubricRationales = make(map[string]string, len(p.RubricRationales))
		for k, v := range p.RubricRationales {
			d.RubricRationales[k] = v
		}
	}
	if p.TimeSpentSeconds != nil && *p.TimeSpentSeconds > d.TimeSpentSeconds {
		d.TimeSpentSeconds = *p.TimeSpentSeconds
	}
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

func removeString(ss []string, s string) []string {
	out := ss[:0]
	for _, v := range ss {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
