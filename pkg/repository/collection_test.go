package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memKV struct {
	values map[string][]byte
	saves  int
}

func newMemKV() *memKV {
	return &memKV{values: map[string][]byte{}}
}

func (m *memKV) Get(_ context.Context, key string, dest any) (bool, error) {
	raw, ok := m.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *memKV) Save(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.values[key] = raw
	m.saves++
	return nil
}

type row struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func rowID(r row) int64 { return r.ID }

func TestCollection_EmptyIsNotNil(t *testing.T) {
	c := NewCollection(newMemKV(), "rows", rowID)
	items, err := c.All(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestCollection_MergeKeepsOrder(t *testing.T) {
	ctx := context.Background()
	c := NewCollection(newMemKV(), "rows", rowID)
	require.NoError(t, c.Replace(ctx, []row{{1, "a"}, {2, "b"}, {3, "c"}}))

	got, err := c.Merge(ctx, []row{{4, "d"}, {2, "B"}})
	require.NoError(t, err)
	assert.Equal(t, []row{{1, "a"}, {2, "B"}, {3, "c"}, {4, "d"}}, got)

	stored, err := c.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, got, stored)
}

func TestCollection_Upsert(t *testing.T) {
	ctx := context.Background()
	c := NewCollection(newMemKV(), "rows", rowID)

	_, err := c.Upsert(ctx, row{1, "a"})
	require.NoError(t, err)
	got, err := c.Upsert(ctx, row{1, "z"})
	require.NoError(t, err)
	assert.Equal(t, []row{{1, "z"}}, got)

	found, ok, err := c.Find(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "z", found.Name)
}

func TestCollection_Update(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	c := NewCollection(kv, "rows", rowID)
	require.NoError(t, c.Replace(ctx, []row{{1, "a"}}))

	updated, ok, err := c.Update(ctx, 1, func(r row) (row, error) {
		r.Name = "b"
		return r, nil
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "b", updated.Name)

	_, ok, err = c.Update(ctx, 9, func(r row) (row, error) { return r, nil })
	require.NoError(t, err)
	assert.False(t, ok)

	boom := errors.New("boom")
	saves := kv.saves
	_, _, err = c.Update(ctx, 1, func(r row) (row, error) { return r, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, saves, kv.saves)
}

func TestCollection_Delete(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	c := NewCollection(kv, "rows", rowID)
	require.NoError(t, c.Replace(ctx, []row{{1, "a"}, {2, "b"}}))

	kept, removed, err := c.Delete(ctx, 1)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []row{{2, "b"}}, kept)

	saves := kv.saves
	_, removed, err = c.Delete(ctx, 1)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, saves, kv.saves)
}
