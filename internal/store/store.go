// Package store persists whole JSON values under fixed keys.
package store

import (
	"context"
	"errors"
)

// Keys of the persisted collections.
const (
	KeyDocuments = "invoiceDB"
	KeyClients   = "clientDB"
	KeyProducts  = "productDB"
	KeyProfile   = "companyProfile"
	KeyDraft     = "currentDraft"
)

var ErrEmptyKey = errors.New("store_empty_key")

// Store reads and writes JSON values by key. Get reports whether the key
// exists; a missing key leaves dest untouched.
type Store interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Save(ctx context.Context, key string, value any) error
}
