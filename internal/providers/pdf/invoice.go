package pdf

import (
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/facturier/internal/document/amount"
	"github.com/smallbiznis/facturier/internal/document/domain"
)

const (
	logoMaxWidth  = 400
	logoMaxHeight = 200
)

// addInvoice lays out invoices and quotes: parties, item table and totals.
func (p *PDFProvider) addInvoice(m core.Maroto, doc domain.Document) {
	p.addHeader(m, doc)
	addParties(m, doc)

	m.AddRow(10,
		text.NewCol(6, "Désignation", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qté", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Prix unitaire", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Montant", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	m.AddRow(1, line.NewCol(12))

	for _, item := range doc.Items {
		m.AddRow(8,
			text.NewCol(6, item.Description, props.Text{Size: 9}),
			text.NewCol(2, item.Quantity.String(), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, amount.FormatNumber(item.Price.Decimal), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, amount.FormatNumber(amount.LineAmount(item)), props.Text{Size: 9, Align: align.Right}),
		)
	}
	m.AddRow(1, line.NewCol(12))

	totals := amount.Compute(doc)
	addTotal(m, "Total HT", totals.Subtotal, false)
	if doc.HasTax {
		addTotal(m, "TVA ("+doc.TaxRate.String()+" %)", totals.Tax, false)
	}
	addTotal(m, "Total TTC", totals.Total, true)

	if doc.Type == domain.TypeInvoice && doc.Advance.IsPositive() {
		addTotal(m, "Acompte versé", doc.Advance.Decimal, false)
		addTotal(m, "Reste à payer", amount.Balance(doc), true)
	}

	addFooter(m, doc)
}

func (p *PDFProvider) addHeader(m core.Maroto, doc domain.Document) {
	logo, ok := p.senderImage(doc.Sender.Logo, logoMaxWidth, logoMaxHeight)
	if ok {
		m.AddRow(30,
			image.NewFromBytesCol(4, logo, extension.Png, props.Rect{Percent: 90}),
			col.New(8),
		)
	}

	m.AddRow(12,
		text.NewCol(6, title(doc.Type), props.Text{Size: 20, Style: fontstyle.Bold}),
		text.NewCol(6, "N° "+doc.Number, props.Text{Size: 12, Style: fontstyle.Bold, Align: align.Right, Top: 3}),
	)

	meta := col.New(12).Add(
		text.New("Date : "+doc.Date, props.Text{Size: 9}),
	)
	if doc.Type != domain.TypeReceipt && doc.DueDate != "" {
		label := "Échéance : "
		if doc.Type == domain.TypeQuote {
			label = "Valable jusqu'au : "
		}
		meta.Add(text.New(label+doc.DueDate, props.Text{Size: 9, Top: 4}))
	}
	m.AddRow(12, meta)
}

func addParties(m core.Maroto, doc domain.Document) {
	m.AddRow(36,
		partyCol(6, "Émetteur", doc.Sender),
		partyCol(6, "Client", doc.Recipient),
	)
}

func partyCol(size int, heading string, party domain.Party) core.Col {
	c := col.New(size).Add(
		text.New(heading, props.Text{Size: 8, Style: fontstyle.Italic}),
		text.New(party.Name, props.Text{Size: 10, Style: fontstyle.Bold, Top: 4}),
	)
	top := 9.0
	for _, value := range []string{
		joinNonEmpty(" ", party.LegalForm, capitalLine(party.Capital)),
		party.Address,
		joinNonEmpty(" ", party.Zip, party.City),
		joinNonEmpty(" / ", prefixed("NCC : ", party.NCC), prefixed("RCCM : ", party.RCCM)),
		joinNonEmpty(" / ", party.Email, party.Phone),
	} {
		if value == "" {
			continue
		}
		c.Add(text.New(value, props.Text{Size: 8, Top: top}))
		top += 4
	}
	return c
}

func addTotal(m core.Maroto, label string, value decimal.Decimal, bold bool) {
	style := fontstyle.Normal
	if bold {
		style = fontstyle.Bold
	}
	m.AddRow(7,
		col.New(6),
		text.NewCol(3, label, props.Text{Size: 9, Style: style}),
		text.NewCol(3, amount.FormatMoney(value), props.Text{Size: 9, Style: style, Align: align.Right}),
	)
}

func addFooter(m core.Maroto, doc domain.Document) {
	if doc.PaymentMethod != "" {
		payment := "Mode de paiement : " + doc.PaymentMethod
		if doc.MobileMoneyInfo != "" {
			payment += " (" + doc.MobileMoneyInfo + ")"
		}
		m.AddRow(8, text.NewCol(12, payment, props.Text{Size: 9, Top: 3}))
	}
	if doc.Sender.BankName != "" || doc.Sender.IBAN != "" {
		m.AddRow(6, text.NewCol(12, joinNonEmpty(" / ", doc.Sender.BankName, prefixed("IBAN : ", doc.Sender.IBAN)), props.Text{Size: 8}))
	}
	if doc.Notes != "" {
		m.AddRow(10, text.NewCol(12, doc.Notes, props.Text{Size: 8, Style: fontstyle.Italic, Top: 3}))
	}
}
