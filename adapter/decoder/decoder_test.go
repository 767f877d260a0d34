package decoder

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/jsondb/domain"
)

type M = map[string]any

type address struct {
	City string `json:"city"`
}

type user struct {
	Name     string    `json:"name"`
	Age      int       `json:"age,omitempty"`
	Tags     []string  `json:"tags"`
	Born     time.Time `json:"born"`
	Address  address   `json:"address"`
	internal string
}

type DecoderTestSuite struct {
	suite.Suite
	d *Decoder
}

func (s *DecoderTestSuite) SetupTest() {
	s.d = NewDecoder().(*Decoder)
}

func (s *DecoderTestSuite) TestDecodeStruct() {
	src := M{
		"name":    "a",
		"age":     3.0,
		"tags":    []any{"x", "y"},
		"born":    "2020-01-02T03:04:05.006Z",
		"address": M{"city": "c"},
		"other":   true,
	}
	var u user
	s.NoError(s.d.Decode(src, &u))
	s.Equal(user{
		Name:    "a",
		Age:     3,
		Tags:    []string{"x", "y"},
		Born:    time.Date(2020, 1, 2, 3, 4, 5, 6_000_000, time.UTC),
		Address: address{City: "c"},
	}, u)
}

func (s *DecoderTestSuite) TestDecodeMap() {
	var m M
	s.NoError(s.d.Decode(M{"a": 1.0, "b": M{"c": "d"}}, &m))
	s.Equal(M{"a": 1.0, "b": M{"c": "d"}}, m)
}

func (s *DecoderTestSuite) TestDecodeInvalidTarget() {
	s.ErrorIs(s.d.Decode(M{}, nil), domain.ErrTargetNil)
	s.ErrorIs(s.d.Decode(M{}, user{}), domain.ErrNonPointer)
	s.ErrorIs(s.d.Decode(M{}, (*user)(nil)), domain.ErrTargetNil)
}

func (s *DecoderTestSuite) TestDecodeWrongType() {
	var u user
	err := s.d.Decode(M{"name": M{}}, &u)
	s.ErrorAs(err, new(domain.ErrDecode))
}

// Encoded values are the ones a document has after being persisted.
func (s *DecoderTestSuite) TestEncodeStruct() {
	doc, err := s.d.Encode(user{
		Name:     "a",
		Tags:     []string{"x"},
		Born:     time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC),
		Address:  address{City: "c"},
		internal: "hidden",
	})
	s.NoError(err)
	s.Equal(domain.Document{
		"name":    "a",
		"tags":    []any{"x"},
		"born":    "2020-01-02T03:04:05Z",
		"address": M{"city": "c"},
	}, doc)
}

func (s *DecoderTestSuite) TestEncodeMap() {
	doc, err := s.d.Encode(M{"n": 5, "l": []int{1, 2}, "z": nil})
	s.NoError(err)
	s.Equal(domain.Document{"n": json.Number("5"), "l": []any{json.Number("1"), json.Number("2")}, "z": nil}, doc)
}

// Integers too large for a float64 keep every digit.
func (s *DecoderTestSuite) TestEncodeLargeInteger() {
	doc, err := s.d.Encode(M{"n": int64(9007199254740993), "u": uint64(18446744073709551615)})
	s.NoError(err)
	s.Equal(json.Number("9007199254740993"), doc["n"])
	s.Equal(json.Number("18446744073709551615"), doc["u"])

	var target struct {
		N int64 `json:"n"`
	}
	s.NoError(s.d.Decode(doc, &target))
	s.Equal(int64(9007199254740993), target.N)
}

// Encoding copies the source, so changing the result has no effect on it.
func (s *DecoderTestSuite) TestEncodeCopies() {
	src := M{"sub": M{"a": "b"}}
	doc, err := s.d.Encode(src)
	s.NoError(err)
	doc["sub"].(M)["a"] = "c"
	s.Equal("b", src["sub"].(M)["a"])
}

func (s *DecoderTestSuite) TestEncodeNotObject() {
	for _, v := range []any{nil, 1, "a", []any{}, (*user)(nil)} {
		_, err := s.d.Encode(v)
		s.ErrorAs(err, new(domain.ErrDocumentType))
	}
}

func (s *DecoderTestSuite) TestEncodeUnsupported() {
	_, err := s.d.Encode(M{"ch": make(chan int)})
	s.ErrorAs(err, new(domain.ErrDocumentType))
}

// Encoded documents can be decoded back into the same value.
func (s *DecoderTestSuite) TestRoundTrip() {
	u := user{
		Name:    "a",
		Age:     42,
		Tags:    []string{"x", "y"},
		Born:    time.Date(2020, 1, 2, 3, 4, 5, 6_000_000, time.UTC),
		Address: address{City: "c"},
	}
	doc, err := s.d.Encode(u)
	s.NoError(err)

	var res user
	s.NoError(s.d.Decode(doc, &res))
	s.Equal(u, res)
}

func TestDecoderTestSuite(t *testing.T) {
	suite.Run(t, new(DecoderTestSuite))
}
