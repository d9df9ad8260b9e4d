package pdf

import (
	"strings"

	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/smallbiznis/facturier/internal/document/amount"
	"github.com/smallbiznis/facturier/internal/document/domain"
)

const qrMaxSide = 300

// addReceipt lays out a receipt: who paid, for what, how much.
func (p *PDFProvider) addReceipt(m core.Maroto, doc domain.Document) {
	p.addHeader(m, doc)
	addParties(m, doc)

	m.AddRow(8,
		text.NewCol(4, "Référence", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(8, doc.ReceiptReference, props.Text{Size: 9}),
	)
	m.AddRow(8,
		text.NewCol(4, "Motif", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(8, doc.ReceiptReason, props.Text{Size: 9}),
	)
	m.AddRow(12,
		text.NewCol(4, "Montant reçu", props.Text{Size: 11, Style: fontstyle.Bold, Top: 2}),
		text.NewCol(8, amount.FormatMoney(doc.ReceiptAmount.Value()), props.Text{Size: 11, Style: fontstyle.Bold, Top: 2}),
	)

	if qr, ok := p.senderImage(doc.ReceiptQRCode, qrMaxSide, qrMaxSide); ok {
		m.AddRow(40,
			col.New(8),
			image.NewFromBytesCol(4, qr, extension.Png, props.Rect{Center: true, Percent: 90}),
		)
	}

	addFooter(m, doc)
	m.AddRow(20,
		col.New(6),
		text.NewCol(6, "Signature", props.Text{Size: 9, Style: fontstyle.Italic, Align: align.Center, Top: 12}),
	)
}

func joinNonEmpty(sep string, values ...string) string {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			kept = append(kept, v)
		}
	}
	return strings.Join(kept, sep)
}

func prefixed(prefix, value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return prefix + value
}

func capitalLine(capital string) string {
	return prefixed("au capital de ", capital)
}
