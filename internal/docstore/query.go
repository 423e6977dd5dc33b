package docstore

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SortOrder int

const (
	Asc  SortOrder = 1
	Desc SortOrder = -1
)

type Operator string

const (
	OpEq    Operator = "$eq"
	OpNe    Operator = "$ne"
	OpRegex Operator = "$regex"
	OpGt    Operator = "$gt"
	OpGte   Operator = "$gte"
	OpLt    Operator = "$lt"
	OpLte   Operator = "$lte"
)

// Condition is a single predicate on one document field.
// Dotted field names address nested documents.
type Condition struct {
	Field string
	Op    Operator
	Value any
}

type SortKey struct {
	Field string
	Order SortOrder
}

// Query is built fluently and executed by a Collection. All conditions
// are combined with a logical AND.
//
//	q := NewQuery().Where("price").Gte(10).Sort("price", Asc).Limit(5)
type Query struct {
	conditions []Condition
	sort       []SortKey
	limit      int64
	fields     []string
}

func NewQuery() *Query {
	return &Query{}
}

// FieldSelector attaches an operator to the field passed to Where.
type FieldSelector struct {
	q     *Query
	field string
}

func (q *Query) Where(field string) FieldSelector {
	return FieldSelector{q: q, field: field}
}

func (s FieldSelector) Eq(v any) *Query  { return s.add(OpEq, v) }
func (s FieldSelector) Ne(v any) *Query  { return s.add(OpNe, v) }
func (s FieldSelector) Gt(v any) *Query  { return s.add(OpGt, v) }
func (s FieldSelector) Gte(v any) *Query { return s.add(OpGte, v) }
func (s FieldSelector) Lt(v any) *Query  { return s.add(OpLt, v) }
func (s FieldSelector) Lte(v any) *Query { return s.add(OpLte, v) }

// Regex matches string fields against a case-sensitive RE2 pattern.
func (s FieldSelector) Regex(pattern string) *Query { return s.add(OpRegex, pattern) }

func (s FieldSelector) add(op Operator, v any) *Query {
	s.q.conditions = append(s.q.conditions, Condition{Field: s.field, Op: op, Value: v})
	return s.q
}

func (q *Query) Sort(field string, order SortOrder) *Query {
	q.sort = append(q.sort, SortKey{Field: field, Order: order})
	return q
}

// Limit caps the number of returned documents. Zero means no limit.
func (q *Query) Limit(n int64) *Query {
	q.limit = n
	return q
}

// Select restricts returned documents to the given top-level fields.
func (q *Query) Select(fields ...string) *Query {
	q.fields = append(q.fields, fields...)
	return q
}

func (q *Query) Conditions() []Condition {
	if q == nil {
		return nil
	}
	return append([]Condition(nil), q.conditions...)
}

func (q *Query) SortKeys() []SortKey {
	if q == nil {
		return nil
	}
	return append([]SortKey(nil), q.sort...)
}

func (q *Query) MaxResults() int64 {
	if q == nil {
		return 0
	}
	return q.limit
}

func (q *Query) Fields() []string {
	if q == nil {
		return nil
	}
	return append([]string(nil), q.fields...)
}

// Filter renders the conditions as a MongoDB filter document, grouping
// operators on the same field in first-seen order.
func (q *Query) Filter() bson.D {
	filter := bson.D{}
	position := map[string]int{}

	for _, c := range q.Conditions() {
		value := c.Value
		if c.Op == OpRegex {
			pattern, _ := c.Value.(string)
			value = primitive.Regex{Pattern: pattern}
		}

		i, ok := position[c.Field]
		if !ok {
			i = len(filter)
			position[c.Field] = i
			filter = append(filter, bson.E{Key: c.Field, Value: bson.D{}})
		}
		ops := filter[i].Value.(bson.D)
		filter[i].Value = append(ops, bson.E{Key: string(c.Op), Value: value})
	}

	return filter
}

func (q *Query) SortDocument() bson.D {
	doc := bson.D{}
	for _, k := range q.SortKeys() {
		doc = append(doc, bson.E{Key: k.Field, Value: int(k.Order)})
	}
	return doc
}

// Projection returns nil when the query selects every field.
func (q *Query) Projection() bson.D {
	fields := q.Fields()
	if len(fields) == 0 {
		return nil
	}

	doc := bson.D{}
	withID := false
	for _, f := range fields {
		if f == "_id" {
			withID = true
		}
		doc = append(doc, bson.E{Key: f, Value: 1})
	}
	if !withID {
		doc = append(doc, bson.E{Key: "_id", Value: 0})
	}
	return doc
}
