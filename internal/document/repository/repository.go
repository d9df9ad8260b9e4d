// Package repository persists the document history and the open draft.
package repository

import (
	"context"
	"fmt"

	"github.com/smallbiznis/facturier/internal/document/domain"
	"github.com/smallbiznis/facturier/internal/store"
	"github.com/smallbiznis/facturier/pkg/repository"
	"go.uber.org/fx"
)

// History is the ordered list of committed documents, keyed by docId.
type History struct {
	*repository.Collection[domain.Document]
}

func NewHistory(s store.Store) *History {
	return &History{
		Collection: repository.NewCollection(s, store.KeyDocuments, func(d domain.Document) int64 {
			return d.DocID
		}),
	}
}

// Get returns the document with docID or domain.ErrNotFound.
func (h *History) Get(ctx context.Context, docID int64) (domain.Document, error) {
	doc, ok, err := h.Find(ctx, docID)
	if err != nil {
		return domain.Document{}, err
	}
	if !ok {
		return domain.Document{}, fmt.Errorf("%w: %d", domain.ErrNotFound, docID)
	}
	return doc, nil
}

// Drafts holds the single in-progress document.
type Drafts struct {
	store store.Store
}

func NewDrafts(s store.Store) *Drafts {
	return &Drafts{store: s}
}

func (d *Drafts) Load(ctx context.Context) (domain.Document, bool, error) {
	var doc domain.Document
	found, err := d.store.Get(ctx, store.KeyDraft, &doc)
	if err != nil || !found {
		return domain.Document{}, false, err
	}
	return doc, true, nil
}

func (d *Drafts) Save(ctx context.Context, doc domain.Document) error {
	return d.store.Save(ctx, store.KeyDraft, doc)
}

var Module = fx.Module("document.repository",
	fx.Provide(NewHistory, NewDrafts),
)
