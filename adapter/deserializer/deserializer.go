// Package deserializer contains the default [domain.Deserializer]
// implementation.
package deserializer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/vinicius-lino-figueiredo/jsondb/domain"
)

var null = []byte("null")

// NewDeserializer returns a new instance of domain.Deserializer.
func NewDeserializer() domain.Deserializer {
	return &Deserializer{}
}

// Deserializer implements [domain.Deserializer].
type Deserializer struct{}

// Deserialize implements [domain.Deserializer]. Content must be an object
// whose values are arrays of objects. Numbers are kept as [json.Number].
func (d *Deserializer) Deserialize(ctx context.Context, b []byte) (domain.Data, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if len(bytes.TrimSpace(b)) == 0 {
		return nil, domain.ErrEmptyFile
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, domain.ErrCorruptData{Err: err}
	}
	if raw == nil {
		return nil, domain.ErrCorruptData{Reason: "expected an object"}
	}

	data := make(domain.Data, len(raw))
	for name, collection := range raw {
		docs, err := d.collection(name, collection)
		if err != nil {
			return nil, err
		}
		data[name] = docs
	}
	return data, nil
}

func (d *Deserializer) collection(name string, raw json.RawMessage) ([]domain.Document, error) {
	if bytes.Equal(bytes.TrimSpace(raw), null) {
		return nil, domain.ErrCorruptData{Collection: name, Reason: "expected an array, got null"}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var docs []domain.Document
	if err := dec.Decode(&docs); err != nil {
		return nil, domain.ErrCorruptData{Collection: name, Err: err}
	}

	for n, doc := range docs {
		if doc == nil {
			return nil, domain.ErrCorruptData{
				Collection: name,
				Reason:     fmt.Sprintf("document %d is null", n),
			}
		}
	}
	return docs, nil
}
