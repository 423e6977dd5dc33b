package docstore

import (
	"fmt"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Schema describes the documents a collection accepts. The primary key is
// always a non-empty string.
type Schema struct {
	Name         string
	PrimaryKey   string
	MaxKeyLength int
	Required     []string
	// RequireAnyOf lists fields of which at least one must be present.
	RequireAnyOf []string
}

func (s Schema) Validate(doc bson.Raw) error {
	if _, err := s.Key(doc); err != nil {
		return err
	}

	for _, field := range s.Required {
		if _, err := doc.LookupErr(field); err != nil {
			return fmt.Errorf("%w: %s: missing required field %q", ErrSchemaViolation, s.Name, field)
		}
	}

	if len(s.RequireAnyOf) == 0 {
		return nil
	}
	for _, field := range s.RequireAnyOf {
		if _, err := doc.LookupErr(field); err == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: %s: one of %q is required", ErrSchemaViolation, s.Name, s.RequireAnyOf)
}

// Key extracts and checks the primary key of doc.
func (s Schema) Key(doc bson.Raw) (string, error) {
	v, err := doc.LookupErr(s.PrimaryKey)
	if err != nil {
		return "", fmt.Errorf("%w: %s: missing primary key %q", ErrSchemaViolation, s.Name, s.PrimaryKey)
	}
	if v.Type != bsontype.String {
		return "", fmt.Errorf("%w: %s: primary key %q must be a string, got %s", ErrSchemaViolation, s.Name, s.PrimaryKey, v.Type)
	}

	key := v.StringValue()
	if key == "" {
		return "", fmt.Errorf("%w: %s: primary key %q is empty", ErrSchemaViolation, s.Name, s.PrimaryKey)
	}
	if s.MaxKeyLength > 0 && utf8.RuneCountInString(key) > s.MaxKeyLength {
		return "", fmt.Errorf("%w: %s: primary key %q exceeds max length %d", ErrSchemaViolation, s.Name, key, s.MaxKeyLength)
	}
	return key, nil
}

func toRaw(doc any) (bson.Raw, error) {
	switch d := doc.(type) {
	case bson.Raw:
		return append(bson.Raw(nil), d...), nil
	case []byte:
		raw := bson.Raw(append([]byte(nil), d...))
		if err := raw.Validate(); err != nil {
			return nil, err
		}
		return raw, nil
	}
	return bson.Marshal(doc)
}
