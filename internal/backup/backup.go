// Package backup exports the whole dataset as one JSON file and merges such
// files back in.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	catalogdomain "github.com/smallbiznis/facturier/internal/catalog/domain"
	catalogrepo "github.com/smallbiznis/facturier/internal/catalog/repository"
	"github.com/smallbiznis/facturier/internal/clock"
	"github.com/smallbiznis/facturier/internal/document/domain"
	docrepo "github.com/smallbiznis/facturier/internal/document/repository"
	"github.com/smallbiznis/facturier/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrMalformedPayload = errors.New("malformed_backup")

// Bundle is the backup file layout.
type Bundle struct {
	Invoices []domain.Document      `json:"invoices"`
	Clients  []catalogdomain.Client  `json:"clients"`
	Products []catalogdomain.Product `json:"products"`
}

// Result counts what an import carried.
type Result struct {
	Documents int `json:"documents"`
	Clients   int `json:"clients"`
	Products  int `json:"products"`
}

type Params struct {
	fx.In

	Log      *zap.Logger
	Clock    clock.Clock
	History  *docrepo.History
	Clients  *catalogrepo.Clients
	Products *catalogrepo.Products
	Metrics  *metrics.Metrics
}

type Service struct {
	log      *zap.Logger
	clock    clock.Clock
	history  *docrepo.History
	clients  *catalogrepo.Clients
	products *catalogrepo.Products
	metrics  *metrics.Metrics
}

func New(p Params) *Service {
	return &Service{
		log:      p.Log.Named("backup"),
		clock:    p.Clock,
		history:  p.History,
		clients:  p.Clients,
		products: p.Products,
		metrics:  p.Metrics,
	}
}

func (s *Service) Export(ctx context.Context) (Bundle, error) {
	docs, err := s.history.All(ctx)
	if err != nil {
		return Bundle{}, fmt.Errorf("export documents: %w", err)
	}
	clients, err := s.clients.All(ctx)
	if err != nil {
		return Bundle{}, fmt.Errorf("export clients: %w", err)
	}
	products, err := s.products.All(ctx)
	if err != nil {
		return Bundle{}, fmt.Errorf("export products: %w", err)
	}
	return Bundle{Invoices: docs, Clients: clients, Products: products}, nil
}

// Encode renders b as two-space indented JSON.
func Encode(b Bundle) ([]byte, error) {
	if b.Invoices == nil {
		b.Invoices = []domain.Document{}
	}
	if b.Clients == nil {
		b.Clients = []catalogdomain.Client{}
	}
	if b.Products == nil {
		b.Products = []catalogdomain.Product{}
	}
	return json.MarshalIndent(b, "", "  ")
}

// FileName is the download name of a backup taken on day.
func FileName(day time.Time) string {
	return fmt.Sprintf("facturier_backup_%s.json", day.Format(time.DateOnly))
}

// FileNameNow names a backup taken today.
func (s *Service) FileNameNow() string {
	return FileName(s.clock.Now())
}

// Decode reads a backup payload. A bare array is the legacy layout holding
// documents only.
func Decode(payload []byte) (Bundle, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return Bundle{}, ErrMalformedPayload
	}

	switch trimmed[0] {
	case '[':
		var docs []domain.Document
		if err := json.Unmarshal(trimmed, &docs); err != nil {
			return Bundle{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		return Bundle{Invoices: docs}, nil
	case '{':
		var b Bundle
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return Bundle{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		return b, nil
	default:
		return Bundle{}, ErrMalformedPayload
	}
}

// Import merges a backup into the stores. Documents merge by docId: imported
// ones overwrite in place and new ones are appended. Clients and products
// are replaced only when the backup carries some. A malformed payload writes
// nothing.
func (s *Service) Import(ctx context.Context, payload []byte) (Result, error) {
	b, err := Decode(payload)
	if err != nil {
		s.metrics.BackupImported(metrics.ResultRejected)
		s.log.Warn("backup rejected", zap.Error(err))
		return Result{}, err
	}

	res := Result{Documents: len(b.Invoices), Clients: len(b.Clients), Products: len(b.Products)}
	if err := s.apply(ctx, b); err != nil {
		s.metrics.BackupImported(metrics.ResultFailed)
		s.log.Error("backup import failed", zap.Error(err))
		return Result{}, err
	}

	s.metrics.BackupImported(metrics.ResultOK)
	s.log.Info("backup imported",
		zap.Int("documents", res.Documents),
		zap.Int("clients", res.Clients),
		zap.Int("products", res.Products),
	)
	return res, nil
}

func (s *Service) apply(ctx context.Context, b Bundle) error {
	if len(b.Invoices) > 0 {
		if _, err := s.history.Merge(ctx, b.Invoices); err != nil {
			return fmt.Errorf("import documents: %w", err)
		}
	}
	if len(b.Clients) > 0 {
		if err := s.clients.Replace(ctx, b.Clients); err != nil {
			return fmt.Errorf("import clients: %w", err)
		}
	}
	if len(b.Products) > 0 {
		if err := s.products.Replace(ctx, b.Products); err != nil {
			return fmt.Errorf("import products: %w", err)
		}
	}
	return nil
}

var Module = fx.Module("backup",
	fx.Provide(New),
)
