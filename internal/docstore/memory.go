package docstore

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
)

var _ Collection = (*MemoryCollection)(nil)

// MemoryCollection keeps documents as BSON bytes in insertion order.
// Returned documents are copies.
type MemoryCollection struct {
	schema Schema

	mu    sync.RWMutex
	docs  []bson.Raw
	index map[string]int
}

func NewMemoryCollection(schema Schema) *MemoryCollection {
	return &MemoryCollection{
		schema: schema,
		index:  make(map[string]int),
	}
}

func (c *MemoryCollection) Name() string {
	return c.schema.Name
}

func (c *MemoryCollection) Insert(ctx context.Context, doc any) error {
	const op = "MemoryCollection.Insert"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	raw, err := toRaw(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := c.schema.Validate(raw); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	key, _ := c.schema.Key(raw)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.index[key]; ok {
		return fmt.Errorf("%s: %w: %s %q", op, ErrDuplicateKey, c.schema.PrimaryKey, key)
	}
	c.index[key] = len(c.docs)
	c.docs = append(c.docs, raw)
	return nil
}

func (c *MemoryCollection) Find(ctx context.Context, q *Query) ([]bson.Raw, error) {
	const op = "MemoryCollection.Find"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m, err := compileConditions(q.Conditions())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c.mu.RLock()
	found := make([]bson.Raw, 0)
	for _, doc := range c.docs {
		if m.match(doc) {
			found = append(found, doc)
		}
	}
	c.mu.RUnlock()

	sortDocuments(found, q.SortKeys())

	if limit := q.MaxResults(); limit > 0 && int64(len(found)) > limit {
		found = found[:limit]
	}

	fields := q.Fields()
	for i, doc := range found {
		if len(fields) == 0 {
			found[i] = append(bson.Raw(nil), doc...)
			continue
		}
		projected, err := Project(doc, fields)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		found[i] = projected
	}

	return found, nil
}

func (c *MemoryCollection) FindOne(ctx context.Context, key string) (bson.Raw, error) {
	const op = "MemoryCollection.FindOne"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[key]
	if !ok {
		return nil, nil
	}
	return append(bson.Raw(nil), c.docs[i]...), nil
}

func (c *MemoryCollection) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("MemoryCollection.Count: %w", err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return int64(len(c.docs)), nil
}

func (c *MemoryCollection) Ping(ctx context.Context) error {
	return ctx.Err()
}
