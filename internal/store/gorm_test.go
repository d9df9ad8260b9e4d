package store

import (
	"context"
	"testing"

	"github.com/smallbiznis/facturier/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	Name string `json:"name"`
	City string `json:"city"`
}

func newTestStore(t *testing.T) Store {
	t.Helper()
	conn, err := db.OpenMemory()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&Entry{}))
	return NewGormStore(conn)
}

func TestGormStore_GetMissing(t *testing.T) {
	s := newTestStore(t)

	var got profile
	found, err := s.Get(context.Background(), KeyProfile, &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, profile{}, got)
}

func TestGormStore_SaveOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, KeyProfile, profile{Name: "ACME", City: "Abidjan"}))
	require.NoError(t, s.Save(ctx, KeyProfile, profile{Name: "ACME SARL", City: "Bouaké"}))

	var got profile
	found, err := s.Get(ctx, KeyProfile, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, profile{Name: "ACME SARL", City: "Bouaké"}, got)
}

func TestGormStore_KeysAreIndependent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, KeyClients, []profile{{Name: "a"}}))
	require.NoError(t, s.Save(ctx, KeyProducts, []profile{{Name: "b"}, {Name: "c"}}))

	var clients, products []profile
	_, err := s.Get(ctx, KeyClients, &clients)
	require.NoError(t, err)
	_, err = s.Get(ctx, KeyProducts, &products)
	require.NoError(t, err)

	assert.Len(t, clients, 1)
	assert.Len(t, products, 2)
}

func TestGormStore_EmptyKey(t *testing.T) {
	s := newTestStore(t)
	assert.ErrorIs(t, s.Save(context.Background(), "", 1), ErrEmptyKey)
}
