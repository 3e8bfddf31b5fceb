package lifecycle

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Snapshot value helpers. Timestamps render as RFC 3339 in UTC, unset values
// as nil.

func Time(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func TimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return Time(*t)
}

func UUIDPtr(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}

func StringPtr(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func IntPtr(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}

// JSON decodes a stored document so it nests in the payload as a value.
func JSON(doc datatypes.JSON) any {
	if len(doc) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return nil
	}
	return v
}

// IsJSONArray reports whether doc holds a JSON array.
func IsJSONArray(doc datatypes.JSON) bool {
	_, ok := JSON(doc).([]any)
	return ok
}

// IsJSONObject reports whether doc holds a JSON object.
func IsJSONObject(doc datatypes.JSON) bool {
	_, ok := JSON(doc).(map[string]any)
	return ok
}
