// Package decoder contains the default [domain.Decoder] implementation.
package decoder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/goccy/go-reflect"
	"github.com/mitchellh/mapstructure"
	"github.com/vinicius-lino-figueiredo/jsondb/domain"
)

// TagName is the struct tag read when decoding documents. It is the same tag
// used by encoding/json, so payload types need a single set of tags.
const TagName = "json"

// Decoder implements domain.Decoder.
type Decoder struct{}

// NewDecoder returns a new implementation of domain.Decoder.
func NewDecoder() domain.Decoder {
	return &Decoder{}
}

// Decode implements domain.Decoder. Timestamps stored as text are converted
// back to [time.Time] when the target field expects one.
func (d *Decoder) Decode(source any, target any) error {
	if target == nil {
		return domain.ErrTargetNil
	}

	value := reflect.ValueNoEscapeOf(target)
	if value.Kind() != reflect.Ptr {
		return domain.ErrNonPointer
	}
	if value.IsNil() {
		return domain.ErrTargetNil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    TagName,
		Result:     target,
		DecodeHook: mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(source); err != nil {
		errDec := domain.ErrDecode{Source: source, Target: target}
		return fmt.Errorf("%w: %w", errDec, err)
	}
	return nil
}

// Encode implements domain.Decoder. The value goes through the same json
// representation used by the database file, so the result only holds values
// that survive a write and a read: strings, [json.Number], bool, nil, []any
// and map[string]any.
func (d *Decoder) Encode(source any) (domain.Document, error) {
	b, err := json.Marshal(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDocumentType{Value: source}, err)
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}

	res, ok := doc.(map[string]any)
	if !ok {
		return nil, domain.ErrDocumentType{Value: source}
	}
	return res, nil
}
