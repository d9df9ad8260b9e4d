// Package storetest opens throwaway stores for tests.
package storetest

import (
	"testing"

	"github.com/smallbiznis/facturier/internal/store"
	"github.com/smallbiznis/facturier/pkg/db"
)

// New returns a store over a private in-memory sqlite database.
func New(t testing.TB) store.Store {
	t.Helper()
	conn, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("open memory database: %v", err)
	}
	if err := conn.AutoMigrate(&store.Entry{}); err != nil {
		t.Fatalf("migrate kv_entries: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return store.NewGormStore(conn)
}
