// Package serializer contains the default [domain.Serializer] implementation.
package serializer

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/vinicius-lino-figueiredo/jsondb/domain"
)

// DefaultIndent is used to format the database file when no other indentation
// is given.
const DefaultIndent = "    "

// Serializer implements domain.Serializer.
type Serializer struct {
	indent string
}

// NewSerializer returns a new implementation of domain.Serializer.
func NewSerializer(options ...Option) domain.Serializer {
	s := Serializer{indent: DefaultIndent}
	for _, option := range options {
		option(&s)
	}
	return &s
}

// Serialize implements domain.Serializer. Output is stable: collection names
// and document fields are sorted, and collections without documents are
// written as empty arrays instead of null.
func (s *Serializer) Serialize(ctx context.Context, data domain.Data) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	normalized := make(map[string][]domain.Document, len(data))
	for name, docs := range data {
		if docs == nil {
			docs = []domain.Document{}
		}
		normalized[name] = docs
	}

	buf := new(bytes.Buffer)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", s.indent)
	if err := enc.Encode(normalized); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
