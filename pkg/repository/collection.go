// Package repository stores ordered collections as one value per key.
//
// Every mutation loads the whole collection, computes the new one and saves
// the full replacement. A process-wide mutex per collection serializes these
// read-modify-write cycles; across processes the last write wins.
package repository

import (
	"context"
	"sync"
)

// KV is the persistence a collection needs.
type KV interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Save(ctx context.Context, key string, value any) error
}

// Collection is an ordered list of T saved under a single key and indexed by
// the id returned from idOf.
type Collection[T any] struct {
	mu   sync.Mutex
	kv   KV
	key  string
	idOf func(T) int64
}

func NewCollection[T any](kv KV, key string, idOf func(T) int64) *Collection[T] {
	return &Collection[T]{kv: kv, key: key, idOf: idOf}
}

// All returns the collection in stored order; never nil.
func (c *Collection[T]) All(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx)
}

// Find returns the item with id.
func (c *Collection[T]) Find(ctx context.Context, id int64) (T, bool, error) {
	var zero T
	items, err := c.All(ctx)
	if err != nil {
		return zero, false, err
	}
	for _, item := range items {
		if c.idOf(item) == id {
			return item, true, nil
		}
	}
	return zero, false, nil
}

// Replace overwrites the whole collection.
func (c *Collection[T]) Replace(ctx context.Context, items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if items == nil {
		items = []T{}
	}
	return c.kv.Save(ctx, c.key, items)
}

// Upsert replaces the item with the same id in place, or appends it.
func (c *Collection[T]) Upsert(ctx context.Context, item T) ([]T, error) {
	return c.Merge(ctx, []T{item})
}

// Merge upserts every incoming item: items already present are overwritten
// in place, new ones are appended in incoming order.
func (c *Collection[T]) Merge(ctx context.Context, incoming []T) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	position := make(map[int64]int, len(items))
	for i, item := range items {
		position[c.idOf(item)] = i
	}
	for _, item := range incoming {
		id := c.idOf(item)
		if i, ok := position[id]; ok {
			items[i] = item
			continue
		}
		position[id] = len(items)
		items = append(items, item)
	}

	if err := c.kv.Save(ctx, c.key, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Update applies fn to the item with id and saves the collection. It
// reports false when no such item exists. An error from fn aborts the update.
func (c *Collection[T]) Update(ctx context.Context, id int64, fn func(T) (T, error)) (T, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	items, err := c.load(ctx)
	if err != nil {
		return zero, false, err
	}

	for i, item := range items {
		if c.idOf(item) != id {
			continue
		}
		updated, err := fn(item)
		if err != nil {
			return item, true, err
		}
		items[i] = updated
		if err := c.kv.Save(ctx, c.key, items); err != nil {
			return zero, true, err
		}
		return updated, true, nil
	}
	return zero, false, nil
}

// Delete removes every item with id. It reports whether anything was removed
// and saves only in that case.
func (c *Collection[T]) Delete(ctx context.Context, id int64) ([]T, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return nil, false, err
	}

	kept := make([]T, 0, len(items))
	for _, item := range items {
		if c.idOf(item) != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return items, false, nil
	}

	if err := c.kv.Save(ctx, c.key, kept); err != nil {
		return nil, false, err
	}
	return kept, true, nil
}

func (c *Collection[T]) load(ctx context.Context) ([]T, error) {
	var items []T
	if _, err := c.kv.Get(ctx, c.key, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
