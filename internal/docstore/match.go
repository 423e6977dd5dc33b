package docstore

import (
	"bytes"
	"cmp"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

type compiledCondition struct {
	path []string
	op   Operator
	re   *regexp.Regexp
	want bson.RawValue
}

type matcher []compiledCondition

func compileConditions(conds []Condition) (matcher, error) {
	m := make(matcher, 0, len(conds))

	for _, c := range conds {
		cc := compiledCondition{path: strings.Split(c.Field, "."), op: c.Op}

		switch c.Op {
		case OpRegex:
			pattern, ok := c.Value.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s pattern for %q must be a string", ErrInvalidQuery, c.Op, c.Field)
			}
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("%w: %s on %q: %w", ErrInvalidQuery, c.Op, c.Field, err)
			}
			cc.re = re
		case OpEq, OpNe, OpGt, OpGte, OpLt, OpLte:
			t, data, err := bson.MarshalValue(c.Value)
			if err != nil {
				return nil, fmt.Errorf("%w: %s on %q: %w", ErrInvalidQuery, c.Op, c.Field, err)
			}
			cc.want = bson.RawValue{Type: t, Value: data}
		default:
			return nil, fmt.Errorf("%w: unsupported operator %q", ErrInvalidQuery, c.Op)
		}

		m = append(m, cc)
	}

	return m, nil
}

func (m matcher) match(doc bson.Raw) bool {
	for _, c := range m {
		v, err := doc.LookupErr(c.path...)
		if !c.holds(v, err == nil) {
			return false
		}
	}
	return true
}

// holds follows MongoDB semantics: comparisons against a missing field or a
// value of another type class never match, $ne matches both.
func (c compiledCondition) holds(v bson.RawValue, present bool) bool {
	if c.op == OpNe {
		return !present || !equalValues(v, c.want)
	}
	if !present {
		return false
	}

	switch c.op {
	case OpRegex:
		s, ok := v.StringValueOK()
		return ok && c.re.MatchString(s)
	case OpEq:
		return equalValues(v, c.want)
	}

	n, ok := compareValues(v, c.want)
	if !ok {
		return false
	}
	switch c.op {
	case OpGt:
		return n > 0
	case OpGte:
		return n >= 0
	case OpLt:
		return n < 0
	case OpLte:
		return n <= 0
	}
	return false
}

func numeric(v bson.RawValue) (float64, bool) {
	switch v.Type {
	case bsontype.Double:
		return v.Double(), true
	case bsontype.Int32:
		return float64(v.Int32()), true
	case bsontype.Int64:
		return float64(v.Int64()), true
	}
	return 0, false
}

// compareValues orders two values of the same type class. The second
// result is false when the values are not comparable.
func compareValues(a, b bson.RawValue) (int, bool) {
	if x, ok := numeric(a); ok {
		y, ok := numeric(b)
		if !ok || math.IsNaN(x) || math.IsNaN(y) {
			return 0, false
		}
		return cmp.Compare(x, y), true
	}

	if x, ok := a.StringValueOK(); ok {
		y, ok := b.StringValueOK()
		if !ok {
			return 0, false
		}
		return strings.Compare(x, y), true
	}

	if a.Type == bsontype.DateTime && b.Type == bsontype.DateTime {
		return cmp.Compare(a.DateTime(), b.DateTime()), true
	}

	if a.Type == bsontype.Boolean && b.Type == bsontype.Boolean {
		x, y := 0, 0
		if a.Boolean() {
			x = 1
		}
		if b.Boolean() {
			y = 1
		}
		return cmp.Compare(x, y), true
	}

	return 0, false
}

func equalValues(a, b bson.RawValue) bool {
	if n, ok := compareValues(a, b); ok {
		return n == 0
	}
	return a.Type == b.Type && bytes.Equal(a.Value, b.Value)
}

// typeRank mirrors the BSON comparison order for the types this store sorts.
func typeRank(v bson.RawValue, present bool) int {
	if !present {
		return 0
	}
	switch v.Type {
	case bsontype.Null:
		return 0
	case bsontype.Double, bsontype.Int32, bsontype.Int64:
		return 1
	case bsontype.String:
		return 2
	case bsontype.EmbeddedDocument:
		return 3
	case bsontype.Array:
		return 4
	case bsontype.Boolean:
		return 5
	case bsontype.DateTime:
		return 6
	}
	return 7
}

func sortDocuments(docs []bson.Raw, keys []SortKey) {
	if len(keys) == 0 {
		return
	}

	paths := make([][]string, len(keys))
	for i, k := range keys {
		paths[i] = strings.Split(k.Field, ".")
	}

	slices.SortStableFunc(docs, func(a, b bson.Raw) int {
		for i, k := range keys {
			av, aErr := a.LookupErr(paths[i]...)
			bv, bErr := b.LookupErr(paths[i]...)

			n := cmp.Compare(typeRank(av, aErr == nil), typeRank(bv, bErr == nil))
			if n == 0 && aErr == nil && bErr == nil {
				n, _ = compareValues(av, bv)
			}
			if n != 0 {
				return n * int(k.Order)
			}
		}
		return 0
	})
}

// Project keeps only the given top-level fields of doc, in document order.
// Fields absent from doc are not added.
func Project(doc bson.Raw, fields []string) (bson.Raw, error) {
	if len(fields) == 0 {
		return doc, nil
	}

	keep := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		keep[f] = struct{}{}
	}

	elems, err := doc.Elements()
	if err != nil {
		return nil, err
	}

	projected := bson.D{}
	for _, e := range elems {
		if _, ok := keep[e.Key()]; ok {
			projected = append(projected, bson.E{Key: e.Key(), Value: e.Value()})
		}
	}
	return bson.Marshal(projected)
}
