package session

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	catalogdomain "github.com/smallbiznis/facturier/internal/catalog/domain"
	catalogrepo "github.com/smallbiznis/facturier/internal/catalog/repository"
	catalogservice "github.com/smallbiznis/facturier/internal/catalog/service"
	"github.com/smallbiznis/facturier/internal/clock"
	"github.com/smallbiznis/facturier/internal/config"
	"github.com/smallbiznis/facturier/internal/document/domain"
	docrepo "github.com/smallbiznis/facturier/internal/document/repository"
	"github.com/smallbiznis/facturier/internal/observability/metrics"
	"github.com/smallbiznis/facturier/internal/profile"
	"github.com/smallbiznis/facturier/internal/store"
	"github.com/smallbiznis/facturier/internal/store/storetest"
	"github.com/smallbiznis/facturier/pkg/ids"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	session *Session
	history *docrepo.History
	drafts  *docrepo.Drafts
	catalog catalogdomain.Service
	profile *profile.Service
	clock   *clock.FakeClock
	store   store.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := storetest.New(t)
	gen := ids.NewSequence(100)
	log := zap.NewNop()

	defaults := config.DefaultDocumentDefaults()
	defaults.AutosaveDelay = time.Hour

	f := &fixture{
		history: docrepo.NewHistory(s),
		drafts:  docrepo.NewDrafts(s),
		catalog: catalogservice.New(catalogservice.Params{
			Log:      log,
			GenID:    gen,
			Clients:  catalogrepo.NewClients(s),
			Products: catalogrepo.NewProducts(s),
		}),
		profile: profile.New(profile.Params{Log: log, Store: s}),
		clock:   clock.NewFakeClock(time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)),
		store:   s,
	}
	f.session = New(Params{
		Log:      log,
		Clock:    f.clock,
		GenID:    gen,
		Defaults: config.NewStaticDefaultsHolder(defaults),
		History:  f.history,
		Drafts:   f.drafts,
		Catalog:  f.catalog,
		Profile:  f.profile,
		Metrics:  metrics.NewNop(),
	})
	t.Cleanup(func() { f.session.autosave.Cancel() })
	return f
}

func (f *fixture) seed(t *testing.T, docs ...domain.Document) {
	t.Helper()
	require.NoError(t, f.history.Replace(context.Background(), docs))
}

func TestLoad_FreshDraftUsesProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.profile.Save(ctx, domain.Party{Name: "Ma Société"})
	require.NoError(t, err)
	f.seed(t, domain.Document{DocID: 1, Type: domain.TypeInvoice, Number: "FAC-2024-003"})

	view, err := f.session.Draft(ctx)
	require.NoError(t, err)
	assert.Equal(t, "FAC-2024-004", view.Document.Number)
	assert.Equal(t, "Ma Société", view.Document.Sender.Name)
	assert.Equal(t, "2024-03-10", view.Document.Date)
	assert.Equal(t, "2024-03-25", view.Document.DueDate)
	assert.Len(t, view.Document.Items, 1)
	assert.True(t, view.PendingSave)
}

func TestLoad_RestoresSavedDraft(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	saved := domain.Document{DocID: 7, Type: domain.TypeQuote, Number: "DEV-2024-009", Status: domain.StatusPending}
	require.NoError(t, f.drafts.Save(ctx, saved))

	view, err := f.session.Draft(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), view.Document.DocID)
	assert.Equal(t, "DEV-2024-009", view.Document.Number)
	assert.False(t, view.PendingSave)
}

func TestAutosave_FlushPersistsLatestDraft(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	view, err := f.session.Draft(ctx)
	require.NoError(t, err)
	doc := view.Document
	doc.Notes = "first"
	_, err = f.session.Replace(ctx, doc)
	require.NoError(t, err)
	doc.Notes = "second"
	_, err = f.session.Replace(ctx, doc)
	require.NoError(t, err)

	_, found, err := f.drafts.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	assert.True(t, f.session.Flush())
	stored, found, err := f.drafts.Load(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "second", stored.Notes)
	assert.False(t, f.session.Flush())
}

func TestReplace_Normalizes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	view, err := f.session.Draft(ctx)
	require.NoError(t, err)

	receipt := view.Document
	receipt.Type = domain.TypeReceipt
	receipt.HasTax = true
	receipt.Status = domain.StatusPending
	view, err = f.session.Replace(ctx, receipt)
	require.NoError(t, err)
	assert.False(t, view.Document.HasTax)
	assert.Equal(t, domain.StatusPaid, view.Document.Status)

	invoice := view.Document
	invoice.Type = domain.TypeInvoice
	invoice.Items = nil
	view, err = f.session.Replace(ctx, invoice)
	require.NoError(t, err)
	assert.Len(t, view.Document.Items, 1)

	bad := view.Document
	bad.Type = "BON"
	_, err = f.session.Replace(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrUnknownType)
}

func TestSave_UpsertsByDocID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.session.Save(ctx)
	require.NoError(t, err)
	require.NotNil(t, first.LastModified)

	f.clock.Advance(time.Minute)
	second, err := f.session.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.DocID, second.DocID)
	assert.True(t, second.LastModified.After(*first.LastModified))

	docs, err := f.history.All(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	view, err := f.session.New(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first.DocID, view.Document.DocID)
	assert.Equal(t, "FAC-2024-002", view.Document.Number)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, domain.Document{DocID: 5, Type: domain.TypeQuote, Number: "DEV-2024-001"})

	view, err := f.session.Open(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "DEV-2024-001", view.Document.Number)

	_, err = f.session.Open(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_OpenDocumentResetsDraft(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t,
		domain.Document{DocID: 1, Type: domain.TypeInvoice, Number: "FAC-2024-001"},
		domain.Document{DocID: 2, Type: domain.TypeInvoice, Number: "FAC-2024-002"},
	)
	_, err := f.session.Open(ctx, 2)
	require.NoError(t, err)

	require.NoError(t, f.session.Delete(ctx, 2))
	view, err := f.session.Draft(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, int64(2), view.Document.DocID)
	assert.Equal(t, "FAC-2024-002", view.Document.Number)

	require.NoError(t, f.session.Delete(ctx, 404))
	docs, err := f.history.All(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestToggleStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t,
		domain.Document{DocID: 1, Type: domain.TypeInvoice, Number: "FAC-2024-001", Status: domain.StatusPending},
		domain.Document{DocID: 2, Type: domain.TypeReceipt, Number: "REC-2024-001", Status: domain.StatusPaid},
	)
	_, err := f.session.Open(ctx, 1)
	require.NoError(t, err)

	updated, err := f.session.ToggleStatus(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, updated.Status)

	view, err := f.session.Draft(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, view.Document.Status)

	_, err = f.session.ToggleStatus(ctx, 2)
	assert.ErrorIs(t, err, domain.ErrReceiptLocked)

	_, err = f.session.ToggleStatus(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConvert(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t,
		domain.Document{DocID: 1, Type: domain.TypeInvoice, Number: "FAC-2024-002"},
		domain.Document{DocID: 2, Type: domain.TypeQuote, Number: "DEV-2024-001", Status: domain.StatusPending,
			Items: []domain.LineItem{{ID: 9, Description: "Audit", Quantity: domain.NewNumber(1), Price: domain.NewNumber(5000)}}},
	)

	invoice, err := f.session.Convert(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.TypeInvoice, invoice.Type)
	assert.Equal(t, "FAC-2024-003", invoice.Number)
	assert.Equal(t, "2024-04-09", invoice.DueDate)

	docs, err := f.history.All(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, domain.StatusPaid, docs[1].Status)
	assert.Equal(t, domain.TypeQuote, docs[1].Type)
	assert.Equal(t, invoice.DocID, docs[2].DocID)

	view, err := f.session.Draft(ctx)
	require.NoError(t, err)
	assert.Equal(t, invoice.DocID, view.Document.DocID)

	_, err = f.session.Convert(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrNotQuote)
}

func TestChangeTypeAndRefreshNumber(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, domain.Document{DocID: 1, Type: domain.TypeQuote, Number: "DEV-2024-004"})

	view, err := f.session.ChangeType(ctx, domain.TypeQuote)
	require.NoError(t, err)
	assert.Equal(t, "DEV-2024-005", view.Document.Number)

	f.seed(t,
		domain.Document{DocID: 1, Type: domain.TypeQuote, Number: "DEV-2024-004"},
		domain.Document{DocID: 2, Type: domain.TypeQuote, Number: "DEV-2024-005"},
	)
	view, err = f.session.RefreshNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "DEV-2024-006", view.Document.Number)
}

func TestItems(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.catalog.CreateProduct(ctx, catalogdomain.CreateProductRequest{Description: "Maintenance", Price: "25000"})
	require.NoError(t, err)

	view, err := f.session.Draft(ctx)
	require.NoError(t, err)
	first := view.Document.Items[0].ID

	view, err = f.session.SetItemDescription(ctx, first, "MAINTENANCE")
	require.NoError(t, err)
	assert.Equal(t, "MAINTENANCE", view.Document.Items[0].Description)
	assert.True(t, view.Document.Items[0].Price.Equal(decimal.NewFromInt(25000)))
	assert.True(t, view.Amounts.Subtotal.Equal(decimal.NewFromInt(25000)))

	view, err = f.session.SetItemDescription(ctx, first, "Sur mesure")
	require.NoError(t, err)
	assert.True(t, view.Document.Items[0].Price.Equal(decimal.NewFromInt(25000)))

	view, err = f.session.AddItem(ctx)
	require.NoError(t, err)
	require.Len(t, view.Document.Items, 2)

	view, err = f.session.RemoveItem(ctx, first)
	require.NoError(t, err)
	require.Len(t, view.Document.Items, 1)

	view, err = f.session.RemoveItem(ctx, view.Document.Items[0].ID)
	require.NoError(t, err)
	require.Len(t, view.Document.Items, 1)
	assert.Empty(t, view.Document.Items[0].Description)

	_, err = f.session.RemoveItem(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestApplyClientAndProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	client, err := f.catalog.CreateClient(ctx, catalogdomain.CreateClientRequest{Name: "Client SA", City: "Bouaké"})
	require.NoError(t, err)

	view, err := f.session.ApplyClient(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, "Client SA", view.Document.Recipient.Name)
	assert.Equal(t, "Bouaké", view.Document.Recipient.City)

	view, err = f.session.ApplyProfile(ctx, domain.Party{Name: "Nouvelle Raison"})
	require.NoError(t, err)
	assert.Equal(t, "Nouvelle Raison", view.Document.Sender.Name)
	assert.Equal(t, "Client SA", view.Document.Recipient.Name)
}
