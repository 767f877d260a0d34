// Package matcher contains the default implementation of [domain.Matcher]
// using exact field equality.
package matcher

import (
	"encoding/json"
	"math/big"

	"github.com/vinicius-lino-figueiredo/jsondb/domain"
)

// Matcher implements [domain.Matcher].
type Matcher struct{}

// NewMatcher returns a new implementation of domain.Matcher.
func NewMatcher() domain.Matcher {
	return &Matcher{}
}

// Match implements [domain.Matcher]. Each key of filter must be set in doc
// with an equal value. Documents missing a key never match, even if the
// filter value is nil. An empty filter matches every document.
func (m *Matcher) Match(doc domain.Document, filter domain.Document) bool {
	for k, want := range filter {
		got, ok := doc[k]
		if !ok || !m.equal(got, want) {
			return false
		}
	}
	return true
}

// equal compares values as decoded from json. Values of different types are
// never equal, so "1" does not match 1. Numbers compare by value, so 5 matches
// 5.0.
func (m *Matcher) equal(a, b any) bool {
	if x, ok := number(a); ok {
		y, ok := number(b)
		return ok && x.Cmp(y) == 0
	}

	switch x := a.(type) {
	case nil:
		return b == nil
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for n := range x {
			if !m.equal(x[n], y[n]) {
				return false
			}
		}
		return true
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, v := range x {
			w, ok := y[k]
			if !ok || !m.equal(v, w) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// number reads a json number exactly. Floats that are not finite are not
// numbers.
func number(v any) (*big.Rat, bool) {
	switch n := v.(type) {
	case json.Number:
		return new(big.Rat).SetString(string(n))
	case float64:
		r := new(big.Rat)
		if r.SetFloat64(n) == nil {
			return nil, false
		}
		return r, true
	default:
		return nil, false
	}
}
