package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/facturier/internal/config"
	"go.uber.org/fx"
)

const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
)

// Config labels every series with the running service.
type Config struct {
	ServiceName string
	Environment string
}

// Metrics tracks document activity of the editor session and backups.
type Metrics struct {
	documentsSaved   *prometheus.CounterVec
	documentsDeleted prometheus.Counter
	statusToggles    *prometheus.CounterVec
	conversions      prometheus.Counter
	autosaves        *prometheus.CounterVec
	imports          *prometheus.CounterVec
	pdfRenders       *prometheus.CounterVec
}

// New registers the document metrics on registerer.
func New(registerer prometheus.Registerer, cfg Config) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "facturier"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	m := &Metrics{
		documentsSaved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "facturier_documents_saved_total",
			Help:        "Documents committed to history by type.",
			ConstLabels: constLabels,
		}, []string{"type"}),
		documentsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "facturier_documents_deleted_total",
			Help:        "Documents removed from history.",
			ConstLabels: constLabels,
		}),
		statusToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "facturier_status_toggles_total",
			Help:        "Payment status toggles by result.",
			ConstLabels: constLabels,
		}, []string{"result"}),
		conversions: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "facturier_quote_conversions_total",
			Help:        "Quotes converted into invoices.",
			ConstLabels: constLabels,
		}),
		autosaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "facturier_draft_autosaves_total",
			Help:        "Debounced draft saves by result.",
			ConstLabels: constLabels,
		}, []string{"result"}),
		imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "facturier_backup_imports_total",
			Help:        "Backup imports by result.",
			ConstLabels: constLabels,
		}, []string{"result"}),
		pdfRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "facturier_pdf_renders_total",
			Help:        "PDF renders by document type.",
			ConstLabels: constLabels,
		}, []string{"type"}),
	}

	registerer.MustRegister(
		m.documentsSaved,
		m.documentsDeleted,
		m.statusToggles,
		m.conversions,
		m.autosaves,
		m.imports,
		m.pdfRenders,
	)
	return m
}

// NewNop returns metrics bound to a throwaway registry.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry(), Config{})
}

func (m *Metrics) DocumentSaved(docType string) {
	if m == nil {
		return
	}
	m.documentsSaved.WithLabelValues(docType).Inc()
}

func (m *Metrics) DocumentDeleted() {
	if m == nil {
		return
	}
	m.documentsDeleted.Inc()
}

func (m *Metrics) StatusToggled(result string) {
	if m == nil {
		return
	}
	m.statusToggles.WithLabelValues(result).Inc()
}

func (m *Metrics) QuoteConverted() {
	if m == nil {
		return
	}
	m.conversions.Inc()
}

func (m *Metrics) Autosaved(result string) {
	if m == nil {
		return
	}
	m.autosaves.WithLabelValues(result).Inc()
}

func (m *Metrics) BackupImported(result string) {
	if m == nil {
		return
	}
	m.imports.WithLabelValues(result).Inc()
}

func (m *Metrics) PDFRendered(docType string) {
	if m == nil {
		return
	}
	m.pdfRenders.WithLabelValues(docType).Inc()
}

func newFromConfig(cfg config.Config) *Metrics {
	return New(prometheus.DefaultRegisterer, Config{
		ServiceName: cfg.AppName,
		Environment: cfg.Environment,
	})
}

var Module = fx.Module("metrics",
	fx.Provide(newFromConfig),
)
