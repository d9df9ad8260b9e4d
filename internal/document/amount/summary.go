package amount

import (
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/facturier/internal/document/domain"
)

// RecentLimit is how many documents the dashboard lists as recent activity.
const RecentLimit = 5

// Activity is one line of the dashboard's recent activity list.
type Activity struct {
	DocID     int64               `json:"docId"`
	Type      domain.DocumentType `json:"type"`
	Number    string              `json:"number"`
	Status    domain.Status       `json:"status"`
	Date      string              `json:"date"`
	Recipient string              `json:"recipient"`
	Total     decimal.Decimal     `json:"total"`
}

// Summary holds the dashboard figures.
type Summary struct {
	Cash          decimal.Decimal `json:"cash"`
	Outstanding   decimal.Decimal `json:"outstanding"`
	Revenue       decimal.Decimal `json:"revenue"`
	DocumentCount int             `json:"documentCount"`
	Recent        []Activity      `json:"recent"`
}

// Summarize aggregates the history.
//
//   - Cash: receipt amounts, paid invoice totals and advances on pending invoices.
//   - Outstanding: pending invoice balances.
//   - Revenue: every invoice total regardless of status.
//
// Quotes never contribute. Recent lists the last documents of the history,
// newest first.
func Summarize(docs []domain.Document) Summary {
	s := Summary{
		Cash:          decimal.Zero,
		Outstanding:   decimal.Zero,
		Revenue:       decimal.Zero,
		DocumentCount: len(docs),
		Recent:        make([]Activity, 0, RecentLimit),
	}

	for _, doc := range docs {
		switch doc.Type {
		case domain.TypeReceipt:
			s.Cash = s.Cash.Add(DocumentTotal(doc))
		case domain.TypeInvoice:
			total := DocumentTotal(doc)
			s.Revenue = s.Revenue.Add(total)
			if doc.Status == domain.StatusPaid {
				s.Cash = s.Cash.Add(total)
				continue
			}
			s.Cash = s.Cash.Add(doc.Advance.Decimal)
			s.Outstanding = s.Outstanding.Add(Balance(doc))
		}
	}

	for i := len(docs) - 1; i >= 0 && len(s.Recent) < RecentLimit; i-- {
		doc := docs[i]
		s.Recent = append(s.Recent, Activity{
			DocID:     doc.DocID,
			Type:      doc.Type,
			Number:    doc.Number,
			Status:    doc.Status,
			Date:      doc.Date,
			Recipient: doc.Recipient.Name,
			Total:     DocumentTotal(doc),
		})
	}

	return s
}
