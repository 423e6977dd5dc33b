package docstore

import "errors"

var (
	ErrDuplicateKey    = errors.New("duplicate primary key")
	ErrSchemaViolation = errors.New("schema violation")
	ErrInvalidQuery    = errors.New("invalid query")
)
