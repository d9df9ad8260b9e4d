// Package session is the single editor session: the open draft, its
// debounced autosave and the history operations the editor triggers.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	catalogdomain "github.com/smallbiznis/facturier/internal/catalog/domain"
	"github.com/smallbiznis/facturier/internal/clock"
	"github.com/smallbiznis/facturier/internal/config"
	"github.com/smallbiznis/facturier/internal/debounce"
	"github.com/smallbiznis/facturier/internal/document/amount"
	"github.com/smallbiznis/facturier/internal/document/domain"
	"github.com/smallbiznis/facturier/internal/document/lifecycle"
	docrepo "github.com/smallbiznis/facturier/internal/document/repository"
	obslogger "github.com/smallbiznis/facturier/internal/observability/logger"
	"github.com/smallbiznis/facturier/internal/observability/metrics"
	"github.com/smallbiznis/facturier/internal/profile"
	"github.com/smallbiznis/facturier/pkg/ids"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Clock    clock.Clock
	GenID    ids.Generator
	Defaults *config.DefaultsHolder
	History  *docrepo.History
	Drafts   *docrepo.Drafts
	Catalog  catalogdomain.Service
	Profile  *profile.Service
	Metrics  *metrics.Metrics
}

// Session guards the draft with a mutex; HTTP handlers call it concurrently.
type Session struct {
	mu       sync.Mutex
	log      *zap.Logger
	clock    clock.Clock
	genID    ids.Generator
	defaults *config.DefaultsHolder
	history  *docrepo.History
	drafts   *docrepo.Drafts
	catalog  catalogdomain.Service
	profile  *profile.Service
	metrics  *metrics.Metrics
	autosave *debounce.Debouncer

	draft  domain.Document
	loaded bool
}

// View is the draft with the figures the preview prints.
type View struct {
	Document    domain.Document  `json:"document"`
	Amounts     amount.Breakdown `json:"amounts"`
	Balance     decimal.Decimal  `json:"balance"`
	PendingSave bool             `json:"pendingSave"`
}

func New(p Params) *Session {
	return &Session{
		log:      p.Log.Named("session"),
		clock:    p.Clock,
		genID:    p.GenID,
		defaults: p.Defaults,
		history:  p.History,
		drafts:   p.Drafts,
		catalog:  p.Catalog,
		profile:  p.Profile,
		metrics:  p.Metrics,
		autosave: debounce.New(),
	}
}

// Load restores the saved draft, or starts a fresh one numbered after the
// history with the company profile as sender.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLoaded(ctx)
}

// Draft returns the open document.
func (s *Session) Draft(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return View{}, err
	}
	return s.view(), nil
}

// Replace swaps the draft for doc as edited by the user. Receipts are forced
// to be paid and untaxed; invoices and quotes keep at least one line.
func (s *Session) Replace(ctx context.Context, doc domain.Document) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return View{}, err
	}
	if !doc.Type.Valid() {
		return View{}, fmt.Errorf("%w: %q", domain.ErrUnknownType, doc.Type)
	}

	doc = doc.Clone()
	if doc.DocID == 0 {
		doc.DocID = s.draft.DocID
	}
	s.normalize(&doc)
	s.setDraft(ctx, doc)
	return s.view(), nil
}

// New discards the draft for a fresh invoice.
func (s *Session) New(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return View{}, err
	}

	doc, err := s.freshDraft(ctx, nil)
	if err != nil {
		return View{}, err
	}
	s.setDraft(ctx, doc)
	return s.view(), nil
}

// Save commits the draft to history, inserting it or replacing the entry with
// the same docId, and stamps lastModified.
func (s *Session) Save(ctx context.Context) (domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return domain.Document{}, err
	}

	doc := s.draft.Clone()
	if doc.DocID == 0 {
		doc.DocID = s.genID.Generate().Int64()
	}
	stamp := s.clock.Now().UTC()
	doc.LastModified = &stamp

	if _, err := s.history.Upsert(ctx, doc); err != nil {
		s.log.Error("failed to save document", zap.Int64("doc_id", doc.DocID), zap.Error(err))
		return domain.Document{}, fmt.Errorf("save document: %w", err)
	}
	s.metrics.DocumentSaved(string(doc.Type))
	obslogger.WithContext(ctx, s.log).Info("document saved",
		zap.Int64("doc_id", doc.DocID),
		zap.String("type", string(doc.Type)),
		zap.String("number", doc.Number),
	)

	s.setDraft(ctx, doc)
	return doc.Clone(), nil
}

// Open loads a document of the history into the editor.
func (s *Session) Open(ctx context.Context, docID int64) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return View{}, err
	}

	doc, err := s.history.Get(ctx, docID)
	if err != nil {
		return View{}, err
	}
	s.setDraft(ctx, doc)
	return s.view(), nil
}

// Delete removes docID from history. Deleting the open document resets the
// editor to a fresh numbered draft. Missing ids are ignored.
func (s *Session) Delete(ctx context.Context, docID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	remaining, removed, err := s.history.Delete(ctx, docID)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if removed {
		s.metrics.DocumentDeleted()
		obslogger.WithContext(ctx, s.log).Info("document deleted", zap.Int64("doc_id", docID))
	}

	if s.draft.DocID != docID {
		return nil
	}
	doc, err := s.freshDraft(ctx, remaining)
	if err != nil {
		return err
	}
	s.setDraft(ctx, doc)
	return nil
}

// ToggleStatus flips the payment status of docID in history, and of the
// draft too when it is the open document.
func (s *Session) ToggleStatus(ctx context.Context, docID int64) (domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return domain.Document{}, err
	}

	updated, found, err := s.history.Update(ctx, docID, lifecycle.ToggleStatus)
	switch {
	case !found && err == nil:
		return domain.Document{}, fmt.Errorf("%w: %d", domain.ErrNotFound, docID)
	case errors.Is(err, domain.ErrReceiptLocked):
		s.metrics.StatusToggled(metrics.ResultRejected)
		return domain.Document{}, err
	case err != nil:
		s.metrics.StatusToggled(metrics.ResultFailed)
		return domain.Document{}, fmt.Errorf("toggle status: %w", err)
	}
	s.metrics.StatusToggled(metrics.ResultOK)

	if s.draft.DocID == docID {
		doc := s.draft.Clone()
		doc.Status = updated.Status
		s.setDraft(ctx, doc)
	}
	return updated, nil
}

// Convert issues an invoice from the quote docID. The quote is closed in
// place, the invoice is appended to history and opened in the editor.
func (s *Session) Convert(ctx context.Context, docID int64) (domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return domain.Document{}, err
	}

	quote, err := s.history.Get(ctx, docID)
	if err != nil {
		return domain.Document{}, err
	}
	history, err := s.history.All(ctx)
	if err != nil {
		return domain.Document{}, err
	}
	sender, err := s.profile.Current(ctx)
	if err != nil {
		return domain.Document{}, err
	}

	now := s.clock.Now()
	invoice, closed, err := lifecycle.ConvertQuoteToInvoice(quote, history, sender, now, s.genID, s.policy())
	if err != nil {
		return domain.Document{}, err
	}
	stamp := now.UTC()
	invoice.LastModified = &stamp

	if _, err := s.history.Merge(ctx, []domain.Document{closed, invoice}); err != nil {
		return domain.Document{}, fmt.Errorf("convert quote: %w", err)
	}
	s.metrics.QuoteConverted()
	obslogger.WithContext(ctx, s.log).Info("quote converted",
		zap.Int64("quote_id", closed.DocID),
		zap.Int64("invoice_id", invoice.DocID),
		zap.String("number", invoice.Number),
	)

	s.setDraft(ctx, invoice)
	return invoice.Clone(), nil
}

// ChangeType retypes the draft and renumbers it within the new type.
func (s *Session) ChangeType(ctx context.Context, newType domain.DocumentType) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return View{}, err
	}

	history, err := s.history.All(ctx)
	if err != nil {
		return View{}, err
	}
	patch, err := lifecycle.ChangeType(s.draft, newType, history, s.clock.Now(), s.policy())
	if err != nil {
		return View{}, err
	}
	doc := patch.Apply(s.draft)
	s.normalize(&doc)
	s.setDraft(ctx, doc)
	return s.view(), nil
}

// RefreshNumber renumbers the draft after the current history.
func (s *Session) RefreshNumber(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return View{}, err
	}

	history, err := s.history.All(ctx)
	if err != nil {
		return View{}, err
	}
	s.setDraft(ctx, lifecycle.RefreshNumber(s.draft, history, s.clock.Now()))
	return s.view(), nil
}

// SetItemDescription edits a line's description. When the text names a
// catalog product, ignoring case, the product's price is copied in.
func (s *Session) SetItemDescription(ctx context.Context, itemID int64, description string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return View{}, err
	}

	i := s.draft.ItemIndex(itemID)
	if i < 0 {
		return View{}, fmt.Errorf("%w: %d", domain.ErrItemNotFound, itemID)
	}
	index, err := s.catalog.PriceIndex(ctx)
	if err != nil {
		return View{}, err
	}

	doc := s.draft.Clone()
	doc.Items[i].Description = description
	if price, ok := index.Lookup(description); ok {
		doc.Items[i].Price = domain.NumberFromDecimal(price)
	}
	s.setDraft(ctx, doc)
	return s.view(), nil
}

// AddItem appends a blank line.
func (s *Session) AddItem(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return View{}, err
	}

	doc := s.draft.Clone()
	doc.Items = append(doc.Items, lifecycle.BlankItem(s.genID))
	s.setDraft(ctx, doc)
	return s.view(), nil
}

// RemoveItem drops a line. The last line of an invoice or quote is replaced
// by a blank one.
func (s *Session) RemoveItem(ctx context.Context, itemID int64) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return View{}, err
	}

	i := s.draft.ItemIndex(itemID)
	if i < 0 {
		return View{}, fmt.Errorf("%w: %d", domain.ErrItemNotFound, itemID)
	}
	doc := s.draft.Clone()
	doc.Items = append(doc.Items[:i], doc.Items[i+1:]...)
	s.normalize(&doc)
	s.setDraft(ctx, doc)
	return s.view(), nil
}

// ApplyClient fills the draft's recipient from a saved client.
func (s *Session) ApplyClient(ctx context.Context, clientID int64) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return View{}, err
	}

	client, err := s.catalog.GetClient(ctx, clientID)
	if err != nil {
		return View{}, err
	}
	doc := s.draft.Clone()
	doc.Recipient = catalogdomain.ApplyClient(doc.Recipient, client)
	s.setDraft(ctx, doc)
	return s.view(), nil
}

// ApplyProfile makes party the draft's sender, after the profile changed.
func (s *Session) ApplyProfile(ctx context.Context, party domain.Party) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return View{}, err
	}

	doc := s.draft.Clone()
	doc.Sender = party
	s.setDraft(ctx, doc)
	return s.view(), nil
}

// Flush writes a pending autosave immediately.
func (s *Session) Flush() bool {
	return s.autosave.Flush()
}

func (s *Session) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	doc, found, err := s.drafts.Load(ctx)
	if err != nil {
		return fmt.Errorf("load draft: %w", err)
	}
	if found {
		s.draft = doc
		s.loaded = true
		return nil
	}

	doc, err = s.freshDraft(ctx, nil)
	if err != nil {
		return err
	}
	s.loaded = true
	s.setDraft(ctx, doc)
	return nil
}

// freshDraft numbers a new draft after history, loading it when nil.
func (s *Session) freshDraft(ctx context.Context, history []domain.Document) (domain.Document, error) {
	if history == nil {
		var err error
		history, err = s.history.All(ctx)
		if err != nil {
			return domain.Document{}, err
		}
	}
	sender, err := s.profile.Current(ctx)
	if err != nil {
		return domain.Document{}, err
	}
	return lifecycle.NewDraft(history, sender, s.clock.Now(), s.genID, s.policy()), nil
}

func (s *Session) normalize(doc *domain.Document) {
	if doc.Type == domain.TypeReceipt {
		doc.HasTax = false
		doc.Status = domain.StatusPaid
		return
	}
	if len(doc.Items) == 0 {
		doc.Items = []domain.LineItem{lifecycle.BlankItem(s.genID)}
	}
	if doc.Status != domain.StatusPaid {
		doc.Status = domain.StatusPending
	}
}

// setDraft must be called with mu held. It schedules the autosave of a
// snapshot, so the timer goroutine never touches session state.
func (s *Session) setDraft(ctx context.Context, doc domain.Document) {
	s.draft = doc
	snapshot := doc.Clone()
	_, correlationID := obslogger.EnsureCorrelationID(ctx)
	s.autosave.Schedule(func() {
		s.persistDraft(snapshot, correlationID)
	}, s.defaults.Get().AutosaveDelay)
}

func (s *Session) persistDraft(doc domain.Document, correlationID string) {
	ctx := obslogger.WithCorrelationID(context.Background(), correlationID)
	ctx, span := otel.Tracer("facturier/session").Start(ctx, "draft.autosave",
		trace.WithAttributes(attribute.Int64("document.id", doc.DocID)))
	defer span.End()

	log := obslogger.WithContext(ctx, s.log)
	if err := s.drafts.Save(ctx, doc); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "autosave failed")
		s.metrics.Autosaved(metrics.ResultFailed)
		log.Error("draft autosave failed", zap.Int64("doc_id", doc.DocID), zap.Error(err))
		return
	}
	s.metrics.Autosaved(metrics.ResultOK)
	log.Debug("draft autosaved", zap.Int64("doc_id", doc.DocID))
}

func (s *Session) view() View {
	doc := s.draft.Clone()
	return View{
		Document:    doc,
		Amounts:     amount.Compute(doc),
		Balance:     amount.Balance(doc),
		PendingSave: s.autosave.Pending(),
	}
}

func (s *Session) policy() lifecycle.Policy {
	d := s.defaults.Get()
	return lifecycle.Policy{
		TaxRate:           decimal.NewFromFloat(d.TaxRate),
		DueDays:           d.DueDays,
		ConversionDueDays: d.ConversionDueDays,
		PaymentMethod:     d.PaymentMethod,
		InvoiceNote:       d.InvoiceNote,
		QuoteNote:         d.QuoteNote,
	}
}
