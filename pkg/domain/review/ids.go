package review

import (
	"fmt"

	"github.com/google/uuid"
)

// NewCardID generates a unique id for a card of the given kind. Ids are unique
// across the whole document, so lookups never need to know the kind.
func NewCardID(kind CardKind) string {
	return fmt.Sprintf("%s-%s", kind, uuid.NewString())
}

// NewAnnotationID generates a unique annotation id.
func NewAnnotationID() string {
	return "annotation-" + uuid.NewString()
}

// legacyCardID builds the synthetic id used for cards migrated from plain-text
// legacy drafts, e.g. "issue-legacy-1712345678-0".
func legacyCardID(kind CardKind, ts int64, i int) string {
	return fmt.Sprintf("%s-legacy-%d-%d", kind, ts, i)
}
