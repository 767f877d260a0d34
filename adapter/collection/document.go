package collection

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vinicius-lino-figueiredo/jsondb/adapter/decoder"
	"github.com/vinicius-lino-figueiredo/jsondb/domain"
)

// Document is a snapshot of a stored document. Changing its fields has no
// effect on the database; use [Document.Update] instead.
type Document[T any] struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
	Payload   T

	collection *Collection[T]
}

// ToObject returns the payload fields together with the system fields, with
// timestamps as [time.Time].
func (d *Document[T]) ToObject() (domain.M, error) {
	obj, err := d.payload()
	if err != nil {
		return nil, err
	}
	obj[domain.FieldID] = d.ID
	obj[domain.FieldCreatedAt] = d.CreatedAt
	obj[domain.FieldUpdatedAt] = d.UpdatedAt
	return obj, nil
}

// MarshalJSON implements [json.Marshaler] with the same flat representation
// used in the database file.
func (d *Document[T]) MarshalJSON() ([]byte, error) {
	obj, err := d.payload()
	if err != nil {
		return nil, err
	}
	obj[domain.FieldID] = d.ID
	obj[domain.FieldCreatedAt] = domain.FormatTime(d.CreatedAt)
	obj[domain.FieldUpdatedAt] = domain.FormatTime(d.UpdatedAt)
	return json.Marshal(obj)
}

// String implements [fmt.Stringer].
func (d *Document[T]) String() string {
	b, err := d.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("Document(%s)", d.ID)
	}
	return string(b)
}

// Update merges patch onto the stored version of this document and returns
// the updated document. The receiver is not modified. If the document was
// removed in the meantime, [domain.ErrNotFound] is returned.
func (d *Document[T]) Update(ctx context.Context, patch any) (*Document[T], error) {
	docs, err := d.collection.update(ctx, d.query(), patch, false)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, domain.ErrNotFound
	}
	return docs[0], nil
}

// Delete removes this document from the database and returns how many
// documents were removed, which is zero if it was already gone.
func (d *Document[T]) Delete(ctx context.Context) (int64, error) {
	return d.collection.remove(ctx, d.query(), true)
}

func (d *Document[T]) query() domain.Document {
	return domain.Document{domain.FieldID: d.ID}
}

func (d *Document[T]) payload() (domain.M, error) {
	if d.collection == nil {
		return decoder.NewDecoder().Encode(d.Payload)
	}
	return d.collection.decoder.Encode(d.Payload)
}
