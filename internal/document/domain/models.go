// Package domain contains the document model shared by numbering, amounts,
// lifecycle rules and persistence.
package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// DocumentType distinguishes invoices, quotes and receipts.
type DocumentType string

const (
	TypeInvoice DocumentType = "INVOICE"
	TypeQuote   DocumentType = "QUOTE"
	TypeReceipt DocumentType = "RECEIPT"
)

var legacyTypes = map[string]DocumentType{
	"FACTURE": TypeInvoice,
	"DEVIS":   TypeQuote,
	"RECU":    TypeReceipt,
}

// ParseDocumentType normalizes a type name, accepting the legacy French names
// found in old backups. Unknown names are returned upper-cased and unchanged.
func ParseDocumentType(raw string) DocumentType {
	value := strings.ToUpper(strings.TrimSpace(raw))
	if legacy, ok := legacyTypes[value]; ok {
		return legacy
	}
	return DocumentType(value)
}

func (t DocumentType) Valid() bool {
	switch t {
	case TypeInvoice, TypeQuote, TypeReceipt:
		return true
	default:
		return false
	}
}

func (t *DocumentType) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*t = ParseDocumentType(raw)
	return nil
}

// Status is the payment state of a document.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusPaid    Status = "PAID"
)

// Party is an issuer, a recipient or the saved company profile.
type Party struct {
	Name      string `json:"name"`
	LegalForm string `json:"legalForm,omitempty"`
	Capital   string `json:"capital,omitempty"`
	Address   string `json:"address"`
	Zip       string `json:"zip,omitempty"`
	City      string `json:"city"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	NCC       string `json:"ncc"`
	RCCM      string `json:"rccm,omitempty"`
	BankName  string `json:"bankName,omitempty"`
	IBAN      string `json:"iban,omitempty"`
	Logo      string `json:"logo,omitempty"`
}

// LineItem is one billed line. Its amount is Quantity × Price.
type LineItem struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Quantity    Number `json:"quantity"`
	Price       Number `json:"price"`
}

// Document is an invoice, a quote or a receipt.
type Document struct {
	DocID            int64        `json:"docId"`
	Type             DocumentType `json:"type"`
	Number           string       `json:"number"`
	Status           Status       `json:"status"`
	Date             string       `json:"date"`
	DueDate          string       `json:"dueDate"`
	HasTax           bool         `json:"hasTax"`
	TaxRate          Number       `json:"taxRate"`
	Sender           Party        `json:"sender"`
	Recipient        Party        `json:"recipient"`
	Items            []LineItem   `json:"items"`
	Advance          Number       `json:"advance"`
	PaymentMethod    string       `json:"paymentMethod"`
	MobileMoneyInfo  string       `json:"mobileMoneyInfo"`
	ReceiptReference string       `json:"receiptReference"`
	ReceiptReason    string       `json:"receiptReason"`
	ReceiptAmount    RawAmount    `json:"receiptAmount"`
	ReceiptQRCode    string       `json:"receiptQrCode,omitempty"`
	Notes            string       `json:"notes"`
	LastModified     *time.Time   `json:"lastModified,omitempty"`
}

// Clone returns a deep copy so callers can mutate items freely.
func (d Document) Clone() Document {
	out := d
	if d.Items != nil {
		out.Items = make([]LineItem, len(d.Items))
		copy(out.Items, d.Items)
	}
	if d.LastModified != nil {
		ts := *d.LastModified
		out.LastModified = &ts
	}
	return out
}

// ItemIndex returns the position of the line with id, or -1.
func (d Document) ItemIndex(id int64) int {
	for i, item := range d.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
