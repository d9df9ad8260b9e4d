package backup

import (
	"bytes"
	"context"
	"testing"
	"time"

	catalogdomain "github.com/smallbiznis/facturier/internal/catalog/domain"
	catalogrepo "github.com/smallbiznis/facturier/internal/catalog/repository"
	"github.com/smallbiznis/facturier/internal/clock"
	"github.com/smallbiznis/facturier/internal/document/domain"
	docrepo "github.com/smallbiznis/facturier/internal/document/repository"
	"github.com/smallbiznis/facturier/internal/observability/metrics"
	"github.com/smallbiznis/facturier/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s := storetest.New(t)
	return New(Params{
		Log:      zap.NewNop(),
		Clock:    clock.NewFakeClock(time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)),
		History:  docrepo.NewHistory(s),
		Clients:  catalogrepo.NewClients(s),
		Products: catalogrepo.NewProducts(s),
		Metrics:  metrics.NewNop(),
	})
}

func TestFileName(t *testing.T) {
	svc := newTestService(t)
	assert.Equal(t, "facturier_backup_2024-05-02.json", svc.FileNameNow())
}

func TestExportEncode_EmptyStores(t *testing.T) {
	svc := newTestService(t)
	b, err := svc.Export(context.Background())
	require.NoError(t, err)

	out, err := Encode(b)
	require.NoError(t, err)
	assert.JSONEq(t, `{"invoices":[],"clients":[],"products":[]}`, string(out))
	assert.Contains(t, string(out), "\n  \"invoices\"")
}

func TestImport_MergesDocuments(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	require.NoError(t, svc.history.Replace(ctx, []domain.Document{
		{DocID: 1, Type: domain.TypeInvoice, Number: "FAC-2024-001"},
		{DocID: 2, Type: domain.TypeInvoice, Number: "FAC-2024-002"},
	}))
	require.NoError(t, svc.clients.Replace(ctx, []catalogdomain.Client{{ID: 1, Name: "Ancien"}}))

	payload := []byte(`{
		"invoices": [
			{"docId": 2, "type": "FACTURE", "number": "FAC-2024-002", "status": "PAID"},
			{"docId": 3, "type": "DEVIS", "number": "DEV-2024-001", "status": "PENDING"}
		],
		"clients": [],
		"products": [{"id": 9, "description": "Audit", "price": "5000"}]
	}`)
	res, err := svc.Import(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, Result{Documents: 2, Clients: 0, Products: 1}, res)

	docs, err := svc.history.All(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, int64(1), docs[0].DocID)
	assert.Equal(t, domain.StatusPaid, docs[1].Status)
	assert.Equal(t, domain.TypeQuote, docs[2].Type)

	clients, err := svc.clients.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []catalogdomain.Client{{ID: 1, Name: "Ancien"}}, clients)

	products, err := svc.products.All(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "5000", products[0].Price.String())
}

func TestImport_LegacyArray(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	res, err := svc.Import(ctx, []byte(`[{"docId": 4, "type": "RECU", "number": "REC-2023-001", "receiptAmount": 1500}]`))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Documents)

	docs, err := svc.history.All(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, domain.TypeReceipt, docs[0].Type)
	assert.Equal(t, domain.RawAmount("1500"), docs[0].ReceiptAmount)
}

func TestImport_MalformedWritesNothing(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	require.NoError(t, svc.history.Replace(ctx, []domain.Document{{DocID: 1, Type: domain.TypeInvoice}}))

	for _, payload := range []string{``, `{"invoices": [`, `42`, `null`} {
		_, err := svc.Import(ctx, []byte(payload))
		assert.ErrorIs(t, err, ErrMalformedPayload, payload)
	}

	docs, err := svc.history.All(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newTestService(t)
	require.NoError(t, src.history.Replace(ctx, []domain.Document{
		{DocID: 1, Type: domain.TypeInvoice, Number: "FAC-2024-001", HasTax: true, TaxRate: domain.NewNumber(18),
			Items: []domain.LineItem{{ID: 1, Description: "Conseil", Quantity: domain.NewNumber(2), Price: domain.NewNumber(1000)}}},
	}))
	require.NoError(t, src.clients.Replace(ctx, []catalogdomain.Client{{ID: 5, Name: "Client SA"}}))

	b, err := src.Export(ctx)
	require.NoError(t, err)
	payload, err := Encode(b)
	require.NoError(t, err)

	dst := newTestService(t)
	_, err = dst.Import(ctx, payload)
	require.NoError(t, err)

	got, err := dst.Export(ctx)
	require.NoError(t, err)
	require.Len(t, got.Invoices, 1)
	assert.Equal(t, "FAC-2024-001", got.Invoices[0].Number)
	assert.True(t, got.Invoices[0].Items[0].Price.Equal(b.Invoices[0].Items[0].Price.Decimal))
	assert.Equal(t, b.Clients, got.Clients)
}

func TestWorkbook(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	require.NoError(t, svc.history.Replace(ctx, []domain.Document{
		{DocID: 1, Type: domain.TypeInvoice, Number: "FAC-2024-001", Status: domain.StatusPending,
			Recipient: domain.Party{Name: "Client SA"}, Advance: domain.NewNumber(400),
			Items: []domain.LineItem{{ID: 1, Quantity: domain.NewNumber(1), Price: domain.NewNumber(1000)}}},
	}))

	var buf bytes.Buffer
	require.NoError(t, svc.Workbook(ctx, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(documentsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, documentHeadings, rows[0])
	assert.Equal(t, "FAC-2024-001", rows[1][0])
	assert.Equal(t, "Client SA", rows[1][4])
	assert.Equal(t, "1000", rows[1][5])
	assert.Equal(t, "600", rows[1][7])

	summary, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Outstanding", "600"}, summary[1])
}
