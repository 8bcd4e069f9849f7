package review

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// draftSchemaJSON describes the persisted draft payload. It accepts both the
// current structured shape and the pre-2.0 legacy shape, and keeps
// additionalProperties open because the schema is additive-only.
const draftSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "version": { "type": "string" },
    "slotId": { "type": "string" },
    "contentType": { "type": "string" },
    "issueCards": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id"],
        "properties": {
          "id": { "type": "string" },
          "order": { "type": "integer", "minimum": 0 },
          "issue": { "type": "string" },
          "fix": { "type": "string" },
          "priority": { "enum": ["critical", "important", "nice-to-have", ""] },
          "severity": { "enum": ["critical", "major", "minor", "suggestion", ""] },
          "annotationIds": { "type": "array", "items": { "type": "string" } }
        }
      }
    },
    "strengthCards": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id"],
        "properties": {
          "id": { "type": "string" },
          "order": { "type": "integer", "minimum": 0 },
          "what": { "type": "string" }
        }
      }
    },
    "verdictCard": {
      "type": "object",
      "properties": {
        "rating": { "type": "integer", "minimum": 0, "maximum": 5 },
        "summary": { "type": "string" },
        "topTakeaways": {
          "type": "array",
          "items": {
            "type": "object",
            "properties": {
              "issue": { "type": "string" },
              "fix": { "type": "string" }
            }
          }
        }
      }
    },
    "annotations": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "number"],
        "properties": {
          "id": { "type": "string" },
          "number": { "type": "integer", "minimum": 1 },
          "pin": {
            "type": "object",
            "required": ["x", "y"],
            "properties": {
              "x": { "type": "number", "minimum": 0, "maximum": 100 },
              "y": { "type": "number", "minimum": 0, "maximum": 100 }
            }
          },
          "timestamp": { "type": "number", "minimum": 0 },
          "comment": { "type": "string" },
          "linkedCardId": { "type": "string" }
        }
      }
    },
    "focusAreas": { "type": "array", "items": { "type": "string" } },
    "rubricRatings": { "type": "object", "additionalProperties": { "type": "integer" } },
    "rubricRationales": { "type": "object", "additionalProperties": { "type": "string" } },
    "timeSpentSeconds": { "type": "integer", "minimum": 0 },
    "strengths": { "type": "array", "items": { "type": "string" } },
    "improvements": { "type": "array", "items": { "type": "string" } }
  }
}`

var draftSchemaLoader = gojsonschema.NewStringLoader(draftSchemaJSON)

// ValidateRawDraft checks persisted bytes against the draft payload schema
// before they are trusted. Schema violations come back wrapped in
// ErrDraftCorrupt so stores can distinguish corruption from absence.
func ValidateRawDraft(data []byte) error {
	result, err := gojsonschema.Validate(draftSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDraftCorrupt, err)
	}
	if !result.Valid() {
		first := result.Errors()[0]
		return fmt.Errorf("%w: %s", ErrDraftCorrupt, first.String())
	}
	return nil
}
