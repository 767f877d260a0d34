package domain

import (
	"slices"
	"time"
)

// Names of the fields managed by the database. They are set when a document
// is inserted and cannot be provided by the user.
const (
	FieldID        = "id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// TimeLayout is the ISO-8601 layout used to persist timestamps. Times are
// always stored in UTC with millisecond precision.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// SystemFields lists the fields managed by the database, in the order they
// are validated.
var SystemFields = []string{FieldID, FieldCreatedAt, FieldUpdatedAt}

// M is a shorthand for a schema-less document payload.
type M = map[string]any

// Document is a raw document, as it is stored in the database file.
type Document = map[string]any

// Filter is a conjunction of equality constraints. A nil Filter is absent,
// while an empty Filter matches every document.
type Filter = map[string]any

// Data is the whole content of a database file, mapping each collection name
// to its ordered documents.
type Data map[string][]Document

// IsSystemField reports whether a field is managed by the database.
func IsSystemField(name string) bool {
	return slices.Contains(SystemFields, name)
}

// FormatTime returns the persisted representation of t.
func FormatTime(t time.Time) string {
	return Truncate(t).Format(TimeLayout)
}

// ParseTime reads a timestamp. Values already typed as [time.Time] are
// accepted, so documents can be normalized more than once.
func ParseTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return Truncate(t), nil
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}, ErrTimestamp{Value: v, Err: err}
		}
		return parsed.UTC(), nil
	default:
		return time.Time{}, ErrTimestamp{Value: v}
	}
}

// Truncate drops everything a persisted timestamp cannot represent.
func Truncate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
