package lifecycle

import "github.com/shopspring/decimal"

const (
	InvoiceNote = "Arrêté la présente facture à la somme indiquée ci-dessous."
	QuoteNote   = "Validité de l'offre : 30 jours."
)

// Policy holds the values stamped on documents when they are created,
// retyped or converted.
type Policy struct {
	TaxRate           decimal.Decimal
	DueDays           int
	ConversionDueDays int
	PaymentMethod     string
	InvoiceNote       string
	QuoteNote         string
}

func DefaultPolicy() Policy {
	return Policy{
		TaxRate:           decimal.NewFromInt(18),
		DueDays:           15,
		ConversionDueDays: 30,
		PaymentMethod:     "Virement",
		InvoiceNote:       InvoiceNote,
		QuoteNote:         QuoteNote,
	}
}
