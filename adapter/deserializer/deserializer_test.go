package deserializer

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/jsondb/domain"
)

var ctx = context.Background()

type DeserializerTestSuite struct {
	suite.Suite
	d *Deserializer
}

func (s *DeserializerTestSuite) SetupTest() {
	s.d = NewDeserializer().(*Deserializer)
}

// Can deserialize every json type inside documents.
func (s *DeserializerTestSuite) TestTypes() {
	b := []byte(`{"test": [{"s": "str", "b": true, "n": 6.2, "i": 5, "z": null, "l": [1, "a"], "o": {"a": 1}}]}`)
	data, err := s.d.Deserialize(ctx, b)
	s.NoError(err)
	s.Equal(domain.Data{"test": {{
		"s": "str",
		"b": true,
		"n": json.Number("6.2"),
		"i": json.Number("5"),
		"z": nil,
		"l": []any{json.Number("1"), "a"},
		"o": map[string]any{"a": json.Number("1")},
	}}}, data)
}

// Document order is preserved.
func (s *DeserializerTestSuite) TestOrder() {
	b := []byte(`{"users": [{"n": 3}, {"n": 1}, {"n": 2}]}`)
	data, err := s.d.Deserialize(ctx, b)
	s.NoError(err)
	s.Len(data["users"], 3)
	s.Equal(json.Number("3"), data["users"][0]["n"])
	s.Equal(json.Number("1"), data["users"][1]["n"])
	s.Equal(json.Number("2"), data["users"][2]["n"])
}

// Numbers keep the text they were written with.
func (s *DeserializerTestSuite) TestNumbers() {
	b := []byte(`{"test": [{"big": 9007199254740993, "f": 5.0, "e": 1e3}]}`)
	data, err := s.d.Deserialize(ctx, b)
	s.NoError(err)
	s.Equal(domain.Document{
		"big": json.Number("9007199254740993"),
		"f":   json.Number("5.0"),
		"e":   json.Number("1e3"),
	}, data["test"][0])
}

func (s *DeserializerTestSuite) TestEmptyCollections() {
	data, err := s.d.Deserialize(ctx, []byte(`{"a": [], "b": []}`))
	s.NoError(err)
	s.Equal(domain.Data{"a": {}, "b": {}}, data)

	data, err = s.d.Deserialize(ctx, []byte(`{}`))
	s.NoError(err)
	s.Equal(domain.Data{}, data)
}

// Empty content is not corrupt, it just was not initialized yet.
func (s *DeserializerTestSuite) TestEmpty() {
	_, err := s.d.Deserialize(ctx, nil)
	s.ErrorIs(err, domain.ErrEmptyFile)

	_, err = s.d.Deserialize(ctx, []byte(" \n\t"))
	s.ErrorIs(err, domain.ErrEmptyFile)
}

func (s *DeserializerTestSuite) TestCorrupt() {
	for _, content := range []string{
		`{`,
		`null`,
		`[]`,
		`"text"`,
		`{"a": []} {}`,
		`{"a": 1}`,
		`{"a": {}}`,
		`{"a": null}`,
		`{"a": [1]}`,
		`{"a": [null]}`,
		`{"a": [[]]}`,
	} {
		_, err := s.d.Deserialize(ctx, []byte(content))
		s.ErrorAs(err, new(domain.ErrCorruptData), content)
	}
}

// Errors tell which collection is corrupt.
func (s *DeserializerTestSuite) TestCorruptCollectionName() {
	_, err := s.d.Deserialize(ctx, []byte(`{"ok": [], "bad": 1}`))
	var corrupt domain.ErrCorruptData
	s.ErrorAs(err, &corrupt)
	s.Equal("bad", corrupt.Collection)
}

func (s *DeserializerTestSuite) TestCanceledContext() {
	cctx, cancel := context.WithCancel(ctx)
	cancel()
	_, err := s.d.Deserialize(cctx, []byte(`{}`))
	s.ErrorIs(err, context.Canceled)
}

func TestDeserializerTestSuite(t *testing.T) {
	suite.Run(t, new(DeserializerTestSuite))
}
