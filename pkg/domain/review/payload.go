package review

import "encoding/json"

// DraftPayload is the save-relevant subset of a document: everything that is
// persisted and everything the change fingerprint covers. Presentation state
// (active/editing ids, expand flags, save status) is deliberately absent.
//
// This shape is the de facto persisted schema and must only ever grow by
// optional fields, so payloads written today stay readable by older clients.
type DraftPayload struct {
	SlotID           string            `json:"slotId"`
	ContentType      string            `json:"contentType"`
	IssueCards       []IssueCard       `json:"issueCards"`
	StrengthCards    []StrengthCard    `json:"strengthCards"`
	VerdictCard      VerdictCard       `json:"verdictCard"`
	Annotations      []Annotation      `json:"annotations"`
	FocusAreas       []string          `json:"focusAreas"`
	RubricRatings    map[string]int    `json:"rubricRatings"`
	RubricRationales map[string]string `json:"rubricRationales"`
	TimeSpentSeconds int               `json:"timeSpentSeconds"`
}

// Snapshot extracts the save-relevant subset of a document.
func Snapshot(d Document) DraftPayload {
	c := d.Clone()
	return DraftPayload{
		SlotID:           c.SlotID,
		ContentType:      c.ContentType,
		IssueCards:       c.IssueCards,
		StrengthCards:    c.StrengthCards,
		VerdictCard:      c.Verdict,
		Annotations:      c.Annotations,
		FocusAreas:       c.FocusAreas,
		RubricRatings:    c.RubricRatings,
		RubricRationales: c.RubricRationales,
		TimeSpentSeconds: c.TimeSpentSeconds,
	}
}

// Fingerprint serializes the save-relevant subset for byte-for-byte change
// comparison. encoding/json sorts map keys, so equal documents always produce
// equal fingerprints.
func Fingerprint(d Document) ([]byte, error) {
	return json.Marshal(Snapshot(d))
}
