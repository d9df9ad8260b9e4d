package pdf

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/gosimple/slug"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/smallbiznis/facturier/internal/document/domain"
	"github.com/smallbiznis/facturier/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Provider renders a document to PDF bytes.
type Provider interface {
	Render(ctx context.Context, doc domain.Document) (io.Reader, error)
}

type Params struct {
	fx.In

	Log     *zap.Logger
	Metrics *metrics.Metrics
}

type PDFProvider struct {
	log     *zap.Logger
	metrics *metrics.Metrics
}

func New(p Params) Provider {
	return &PDFProvider{
		log:     p.Log.Named("pdf"),
		metrics: p.Metrics,
	}
}

func (p *PDFProvider) Render(ctx context.Context, doc domain.Document) (io.Reader, error) {
	m := maroto.New(config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} / {total}",
			Place:   props.RightBottom,
		}).
		Build())

	if doc.Type == domain.TypeReceipt {
		p.addReceipt(m, doc)
	} else {
		p.addInvoice(m, doc)
	}

	out, err := m.Generate()
	if err != nil {
		p.log.Error("failed to render pdf", zap.Int64("doc_id", doc.DocID), zap.Error(err))
		return nil, err
	}
	p.metrics.PDFRendered(string(doc.Type))
	return bytes.NewReader(out.GetBytes()), nil
}

// FileName is the download name of doc, e.g. "invoice_fac-2024-001.pdf".
func FileName(doc domain.Document) string {
	name := slug.Make(string(doc.Type) + "_" + doc.Number)
	if strings.Trim(name, "-_") == "" {
		name = "document"
	}
	return name + ".pdf"
}

// title is the heading printed on each document type.
func title(t domain.DocumentType) string {
	switch t {
	case domain.TypeQuote:
		return "DEVIS"
	case domain.TypeReceipt:
		return "REÇU"
	default:
		return "FACTURE"
	}
}

// senderImage fits an embedded data URL image, or reports false when it is
// missing or unreadable.
func (p *PDFProvider) senderImage(dataURL string, maxWidth, maxHeight int) ([]byte, bool) {
	if strings.TrimSpace(dataURL) == "" {
		return nil, false
	}
	img, err := FitDataURL(dataURL, maxWidth, maxHeight)
	if err != nil {
		p.log.Warn("skipping unreadable image", zap.Error(err))
		return nil, false
	}
	return img, true
}

var Module = fx.Module("pdf",
	fx.Provide(New),
)
