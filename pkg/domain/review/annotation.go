package review

// Pin is a spatial marker expressed as percentages of the reviewed content's
// bounds, so it survives any rendering size. Both axes are 0-100.
type Pin struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Annotation anchors a comment to a point in the reviewed content: a Pin for
// spatial content, or a Timestamp (seconds into a video) for temporal content.
//
// Number is a positional display label, not an identity: the collection is
// kept densely numbered 1..N and renumbered whenever an annotation is deleted.
//
// LinkedCardID is a weak reference to at most one issue card. The reducer
// keeps the relation symmetric with IssueCard.AnnotationIDs; deleting either
// side clears the link without deleting the other.
type Annotation struct {
	ID           string   `json:"id"`
	Number       int      `json:"number"`
	Pin          *Pin     `json:"pin,omitempty"`
	Timestamp    *float64 `json:"timestamp,omitempty"`
	Comment      string   `json:"comment,omitempty"`
	LinkedCardID string   `json:"linkedCardId,omitempty"`
}

// IsLinked reports whether the annotation currently references a card.
func (a Annotation) IsLinked() bool {
	return a.LinkedCardID != ""
}

func (a Annotation) clone() Annotation {
	out := a
	if a.Pin != nil {
		p := *a.Pin
		out.Pin = &p
	}
	if a.Timestamp != nil {
		ts := *a.Timestamp
		out.Timestamp = &ts
	}
	return out
}
