// Package amount computes document totals and the dashboard aggregates.
//
// Every figure is a shopspring decimal. Inputs that fail to parse have
// already been coerced to zero by domain.Number, so a total is always a
// finite number.
package amount

import (
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/facturier/internal/document/domain"
)

var hundred = decimal.NewFromInt(100)

// Breakdown is what the preview shows under the item table.
type Breakdown struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// LineAmount is quantity × price.
func LineAmount(item domain.LineItem) decimal.Decimal {
	return item.Quantity.Mul(item.Price.Decimal)
}

// Compute returns subtotal, tax and total of doc. A receipt's total is its
// typed amount; its items are ignored and it carries no tax.
func Compute(doc domain.Document) Breakdown {
	if doc.Type == domain.TypeReceipt {
		total := doc.ReceiptAmount.Value()
		return Breakdown{Subtotal: total, Tax: decimal.Zero, Total: total}
	}

	subtotal := decimal.Zero
	for _, item := range doc.Items {
		subtotal = subtotal.Add(LineAmount(item))
	}

	tax := decimal.Zero
	if doc.HasTax {
		tax = subtotal.Mul(doc.TaxRate.Decimal).Div(hundred)
	}

	return Breakdown{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// DocumentTotal is the amount a document counts for in reports.
func DocumentTotal(doc domain.Document) decimal.Decimal {
	return Compute(doc).Total
}

// Balance is what remains due once the advance is deducted, never negative.
func Balance(doc domain.Document) decimal.Decimal {
	remaining := DocumentTotal(doc).Sub(doc.Advance.Decimal)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}
