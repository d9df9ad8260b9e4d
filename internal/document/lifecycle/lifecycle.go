// Package lifecycle holds the state rules of documents: status toggling,
// type changes, quote conversion and fresh drafts. Every function returns a
// new value and leaves its input untouched.
package lifecycle

import (
	"fmt"
	"time"

	"github.com/smallbiznis/facturier/internal/document/domain"
	"github.com/smallbiznis/facturier/internal/document/numbering"
	"github.com/smallbiznis/facturier/pkg/ids"
)

// ToggleStatus flips PENDING and PAID. Receipts are paid by definition and
// are returned unchanged with ErrReceiptLocked.
func ToggleStatus(doc domain.Document) (domain.Document, error) {
	if doc.Type == domain.TypeReceipt {
		return doc, domain.ErrReceiptLocked
	}
	out := doc.Clone()
	if out.Status == domain.StatusPaid {
		out.Status = domain.StatusPending
	} else {
		out.Status = domain.StatusPaid
	}
	return out, nil
}

// Patch is the set of fields a type change rewrites.
type Patch struct {
	Type         domain.DocumentType
	Number       string
	HasTax       bool
	Status       domain.Status
	Notes        string
	ClearReceipt bool
}

// Apply returns doc with the patch written over it.
func (p Patch) Apply(doc domain.Document) domain.Document {
	out := doc.Clone()
	out.Type = p.Type
	out.Number = p.Number
	out.HasTax = p.HasTax
	out.Status = p.Status
	out.Notes = p.Notes
	if p.ClearReceipt {
		out.ReceiptReference = ""
		out.ReceiptReason = ""
		out.ReceiptAmount = ""
	}
	return out
}

// ChangeType computes the patch that turns doc into newType. The number is
// regenerated within the new type's sequence.
func ChangeType(doc domain.Document, newType domain.DocumentType, history []domain.Document, now time.Time, policy Policy) (Patch, error) {
	patch := Patch{
		Type:   newType,
		Number: numbering.Next(newType, history, now),
	}

	switch newType {
	case domain.TypeReceipt:
		patch.HasTax = false
		patch.Status = domain.StatusPaid
		patch.Notes = ""
		patch.ClearReceipt = true
	case domain.TypeQuote:
		patch.HasTax = true
		patch.Status = domain.StatusPending
		patch.Notes = policy.QuoteNote
	case domain.TypeInvoice:
		patch.HasTax = true
		patch.Status = domain.StatusPending
		patch.Notes = policy.InvoiceNote
	default:
		return Patch{}, fmt.Errorf("%w: %q", domain.ErrUnknownType, newType)
	}

	return patch, nil
}

// ConvertQuoteToInvoice issues an invoice from quote. The invoice gets a new
// docId and the next invoice number, is dated today and falls due after
// policy.ConversionDueDays. When profile is given it replaces the sender.
// The quote is returned marked PAID, meaning closed, with its docId kept.
func ConvertQuoteToInvoice(
	quote domain.Document,
	history []domain.Document,
	profile *domain.Party,
	now time.Time,
	gen ids.Generator,
	policy Policy,
) (domain.Document, domain.Document, error) {
	if quote.Type != domain.TypeQuote {
		return domain.Document{}, quote, domain.ErrNotQuote
	}

	invoice := quote.Clone()
	invoice.DocID = gen.Generate().Int64()
	invoice.Type = domain.TypeInvoice
	invoice.Number = numbering.Next(domain.TypeInvoice, history, now)
	if profile != nil {
		invoice.Sender = *profile
	}
	invoice.Date = now.Format(time.DateOnly)
	invoice.DueDate = now.AddDate(0, 0, policy.ConversionDueDays).Format(time.DateOnly)
	invoice.Status = domain.StatusPending
	invoice.Notes = policy.InvoiceNote
	invoice.LastModified = nil

	closed := quote.Clone()
	closed.Status = domain.StatusPaid

	return invoice, closed, nil
}

// NewDraft builds an empty invoice numbered after history, with one blank
// line and the profile as sender.
func NewDraft(history []domain.Document, profile *domain.Party, now time.Time, gen ids.Generator, policy Policy) domain.Document {
	doc := domain.Document{
		DocID:         gen.Generate().Int64(),
		Type:          domain.TypeInvoice,
		Number:        numbering.Next(domain.TypeInvoice, history, now),
		Status:        domain.StatusPending,
		Date:          now.Format(time.DateOnly),
		DueDate:       now.AddDate(0, 0, policy.DueDays).Format(time.DateOnly),
		HasTax:        true,
		TaxRate:       domain.NumberFromDecimal(policy.TaxRate),
		Items:         []domain.LineItem{BlankItem(gen)},
		PaymentMethod: policy.PaymentMethod,
		Notes:         policy.InvoiceNote,
	}
	if profile != nil {
		doc.Sender = *profile
	}
	return doc
}

// BlankItem is a line with quantity 1 and no price.
func BlankItem(gen ids.Generator) domain.LineItem {
	return domain.LineItem{
		ID:       gen.Generate().Int64(),
		Quantity: domain.NewNumber(1),
		Price:    domain.NewNumber(0),
	}
}

// RefreshNumber renumbers doc within its current type.
func RefreshNumber(doc domain.Document, history []domain.Document, now time.Time) domain.Document {
	out := doc.Clone()
	out.Number = numbering.Next(out.Type, history, now)
	return out
}
