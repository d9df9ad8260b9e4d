package amount

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/facturier/internal/document/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func item(qty, price int64) domain.LineItem {
	return domain.LineItem{Quantity: domain.NewNumber(qty), Price: domain.NewNumber(price)}
}

func invoice(status domain.Status, advance int64, items ...domain.LineItem) domain.Document {
	return domain.Document{
		Type:    domain.TypeInvoice,
		Status:  status,
		HasTax:  true,
		TaxRate: domain.NewNumber(18),
		Items:   items,
		Advance: domain.NewNumber(advance),
	}
}

func TestCompute_InvoiceWithTax(t *testing.T) {
	doc := invoice(domain.StatusPending, 0, item(2, 1000), item(1, 500))

	got := Compute(doc)
	assert.True(t, got.Subtotal.Equal(dec("2500")))
	assert.True(t, got.Tax.Equal(dec("450")))
	assert.True(t, got.Total.Equal(dec("2950")))
	assert.True(t, DocumentTotal(doc).Equal(dec("2950")))
}

func TestCompute_WithoutTax(t *testing.T) {
	doc := invoice(domain.StatusPending, 0, item(3, 100))
	doc.Type = domain.TypeQuote
	doc.HasTax = false

	got := Compute(doc)
	assert.True(t, got.Tax.IsZero())
	assert.True(t, got.Total.Equal(dec("300")))
}

func TestCompute_TotalIsSubtotalPlusTax(t *testing.T) {
	doc := invoice(domain.StatusPending, 0,
		domain.LineItem{Quantity: domain.NumberFromDecimal(dec("1.5")), Price: domain.NumberFromDecimal(dec("333.33"))},
		item(7, 19),
	)
	doc.TaxRate = domain.NumberFromDecimal(dec("9.5"))

	got := Compute(doc)
	assert.True(t, got.Total.Equal(got.Subtotal.Add(got.Tax)))
}

func TestCompute_Receipt(t *testing.T) {
	cases := []struct {
		name   string
		amount domain.RawAmount
		want   string
	}{
		{name: "plain", amount: "5000", want: "5000"},
		{name: "trailing text", amount: "7500 FCFA", want: "7500"},
		{name: "unparseable", amount: "abc", want: "0"},
		{name: "empty", amount: "", want: "0"},
		{name: "overflowing exponent", amount: "1e400", want: "0"},
		{name: "huge exponent", amount: "1e5000000", want: "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := domain.Document{
				Type:          domain.TypeReceipt,
				HasTax:        true,
				TaxRate:       domain.NewNumber(18),
				Items:         []domain.LineItem{item(10, 10)},
				ReceiptAmount: tc.amount,
			}
			got := Compute(doc)
			assert.True(t, got.Total.Equal(dec(tc.want)), "got %s", got.Total)
			assert.True(t, got.Subtotal.Equal(got.Total))
			assert.True(t, got.Tax.IsZero())
		})
	}
}

func TestCompute_OutOfRangeQuantity(t *testing.T) {
	for _, raw := range []string{"1e400", "1e5000000"} {
		t.Run(raw, func(t *testing.T) {
			var doc domain.Document
			payload := `{"type":"INVOICE","hasTax":true,"taxRate":18,"items":[{"id":1,"quantity":` + raw + `,"price":2},{"id":2,"quantity":1,"price":100}]}`
			require.NoError(t, json.Unmarshal([]byte(payload), &doc))

			got := Compute(doc)
			assert.True(t, got.Subtotal.Equal(dec("100")), "subtotal %s", got.Subtotal)
			assert.True(t, got.Total.Equal(dec("118")), "total %s", got.Total)
		})
	}
}

func TestBalance(t *testing.T) {
	doc := invoice(domain.StatusPending, 1000, item(2, 1000), item(1, 500))
	assert.True(t, Balance(doc).Equal(dec("1950")))

	doc.Advance = domain.NewNumber(5000)
	assert.True(t, Balance(doc).IsZero())
}

func TestSummarize(t *testing.T) {
	pending := invoice(domain.StatusPending, 1000, item(2, 1000), item(1, 500))
	pending.DocID = 1
	paid := invoice(domain.StatusPaid, 0, item(2, 1000), item(1, 500))
	paid.DocID = 2
	quote := invoice(domain.StatusPending, 0, item(1, 99999))
	quote.Type = domain.TypeQuote
	quote.DocID = 3
	receipt := domain.Document{DocID: 4, Type: domain.TypeReceipt, Status: domain.StatusPaid, ReceiptAmount: "500"}

	got := Summarize([]domain.Document{pending, paid, quote, receipt})

	// 1000 advance + 2950 paid + 500 receipt
	assert.True(t, got.Cash.Equal(dec("4450")), "cash %s", got.Cash)
	assert.True(t, got.Outstanding.Equal(dec("1950")), "outstanding %s", got.Outstanding)
	assert.True(t, got.Revenue.Equal(dec("5900")), "revenue %s", got.Revenue)
	assert.Equal(t, 4, got.DocumentCount)
	if assert.Len(t, got.Recent, 4) {
		assert.Equal(t, int64(4), got.Recent[0].DocID)
		assert.Equal(t, int64(1), got.Recent[3].DocID)
	}
}

func TestSummarize_QuotesNeverCount(t *testing.T) {
	quote := invoice(domain.StatusPaid, 100, item(1, 1000))
	quote.Type = domain.TypeQuote

	got := Summarize([]domain.Document{quote})
	assert.True(t, got.Cash.IsZero())
	assert.True(t, got.Outstanding.IsZero())
	assert.True(t, got.Revenue.IsZero())
}

func TestSummarize_RecentKeepsFiveNewest(t *testing.T) {
	var docs []domain.Document
	for i := int64(1); i <= 8; i++ {
		docs = append(docs, domain.Document{DocID: i, Type: domain.TypeQuote})
	}

	got := Summarize(docs)
	if assert.Len(t, got.Recent, RecentLimit) {
		assert.Equal(t, int64(8), got.Recent[0].DocID)
		assert.Equal(t, int64(4), got.Recent[4].DocID)
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "2 950 FCFA", FormatMoney(dec("2950")))
	assert.Equal(t, "1 234 567 FCFA", FormatMoney(dec("1234567")))
	assert.Equal(t, "0 FCFA", FormatMoney(decimal.Zero))
	assert.Equal(t, "999 FCFA", FormatMoney(dec("999.4")))
	assert.Equal(t, "-12 000 FCFA", FormatMoney(dec("-12000")))
}
