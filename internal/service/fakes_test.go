package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// memStore is an in-memory persistence layer shared by the fake
// repositories. Transactions are serialized and roll back by restoring a
// snapshot taken when they began.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	products  map[uuid.UUID]model.Product
	contacts  map[uuid.UUID]model.Contact
	terms     map[uuid.UUID]model.PaymentTerm
	orders    map[uuid.UUID]model.Order
	invoices  map[uuid.UUID]model.Invoice
	payments  map[uuid.UUID]model.Payment
	coupons   map[uuid.UUID]model.Coupon
	offers    map[uuid.UUID]model.DiscountOffer
	movements []model.InventoryTransaction
	audits    []model.AuditLog
	sequences map[string]int64
}

func newMemStore() *memStore {
	return &memStore{
		products:  map[uuid.UUID]model.Product{},
		contacts:  map[uuid.UUID]model.Contact{},
		terms:     map[uuid.UUID]model.PaymentTerm{},
		orders:    map[uuid.UUID]model.Order{},
		invoices:  map[uuid.UUID]model.Invoice{},
		payments:  map[uuid.UUID]model.Payment{},
		coupons:   map[uuid.UUID]model.Coupon{},
		offers:    map[uuid.UUID]model.DiscountOffer{},
		sequences: map[string]int64{},
	}
}

type memSnapshot struct {
	products  map[uuid.UUID]model.Product
	contacts  map[uuid.UUID]model.Contact
	terms     map[uuid.UUID]model.PaymentTerm
	orders    map[uuid.UUID]model.Order
	invoices  map[uuid.UUID]model.Invoice
	payments  map[uuid.UUID]model.Payment
	coupons   map[uuid.UUID]model.Coupon
	offers    map[uuid.UUID]model.DiscountOffer
	movements []model.InventoryTransaction
	audits    []model.AuditLog
	sequences map[string]int64
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneOrder(o model.Order) model.Order {
	o.Lines = append([]model.OrderLine(nil), o.Lines...)
	return o
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders := make(map[uuid.UUID]model.Order, len(s.orders))
	for k, v := range s.orders {
		orders[k] = cloneOrder(v)
	}
	return memSnapshot{
		products:  copyMap(s.products),
		contacts:  copyMap(s.contacts),
		terms:     copyMap(s.terms),
		orders:    orders,
		invoices:  copyMap(s.invoices),
		payments:  copyMap(s.payments),
		coupons:   copyMap(s.coupons),
		offers:    copyMap(s.offers),
		movements: append([]model.InventoryTransaction(nil), s.movements...),
		audits:    append([]model.AuditLog(nil), s.audits...),
		sequences: copyMap(s.sequences),
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = snap.products
	s.contacts = snap.contacts
	s.terms = snap.terms
	s.orders = snap.orders
	s.invoices = snap.invoices
	s.payments = snap.payments
	s.coupons = snap.coupons
	s.offers = snap.offers
	s.movements = snap.movements
	s.audits = snap.audits
	s.sequences = snap.sequences
}

type fakeTxKey struct{}

// RunInTx implements repository.TransactionManager.
func (s *memStore) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if ctx.Value(fakeTxKey{}) != nil {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, fakeTxKey{}, true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	start := (page - 1) * limit
	if start < 0 || start >= len(items) {
		return nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func stamp(id *uuid.UUID, created *time.Time) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
	if created != nil && created.IsZero() {
		*created = time.Now()
	}
}

// --- products ---

type fakeProducts struct{ *memStore }

func (r fakeProducts) Create(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.products {
		if existing.SKU == p.SKU {
			return repository.ErrDuplicate
		}
	}
	stamp(&p.ID, &p.CreatedAt)
	r.products[p.ID] = *p
	return nil
}

func (r fakeProducts) Update(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.products[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	updated := *p
	updated.CurrentStock = stored.CurrentStock
	r.products[p.ID] = updated
	return nil
}

func (r fakeProducts) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r fakeProducts) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r fakeProducts) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Product
	seen := map[uuid.UUID]bool{}
	for _, id := range ids {
		if p, ok := r.products[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, p)
		}
	}
	return out, nil
}

func (r fakeProducts) List(_ context.Context, page, limit int, search string) ([]model.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Product
	for _, p := range r.products {
		if search == "" || strings.Contains(strings.ToLower(p.Name+" "+p.SKU), strings.ToLower(search)) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return paginate(out, page, limit), int64(len(out)), nil
}

func (r fakeProducts) AdjustStock(_ context.Context, id uuid.UUID, delta int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	if p.CurrentStock+delta < 0 {
		return 0, repository.ErrInsufficientStock
	}
	p.CurrentStock += delta
	r.products[id] = p
	return p.CurrentStock, nil
}

// --- contacts and payment terms ---

type fakeContacts struct{ *memStore }

func (r fakeContacts) Create(_ context.Context, c *model.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stamp(&c.ID, &c.CreatedAt)
	r.contacts[c.ID] = *c
	return nil
}

func (r fakeContacts) Update(_ context.Context, c *model.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.contacts[c.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *c
	stored.PaymentTerm = nil
	r.contacts[c.ID] = stored
	return nil
}

func (r fakeContacts) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.contacts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.contacts, id)
	return nil
}

func (r fakeContacts) FindByID(_ context.Context, id uuid.UUID) (*model.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contacts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if c.PaymentTermID != nil {
		if t, ok := r.terms[*c.PaymentTermID]; ok {
			c.PaymentTerm = &t
		}
	}
	return &c, nil
}

func (r fakeContacts) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Contact
	for _, id := range ids {
		if c, ok := r.contacts[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r fakeContacts) List(_ context.Context, contactType, search string, page, limit int) ([]model.Contact, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Contact
	for _, c := range r.contacts {
		if contactType != "" && c.Type != contactType {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(search)) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, page, limit), int64(len(out)), nil
}

type fakeTerms struct{ *memStore }

func (r fakeTerms) Create(_ context.Context, t *model.PaymentTerm) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.terms {
		if existing.Name == t.Name {
			return repository.ErrDuplicate
		}
	}
	stamp(&t.ID, &t.CreatedAt)
	r.terms[t.ID] = *t
	return nil
}

func (r fakeTerms) FindByID(_ context.Context, id uuid.UUID) (*model.PaymentTerm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.terms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r fakeTerms) List(_ context.Context) ([]model.PaymentTerm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.PaymentTerm
	for _, t := range r.terms {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// --- orders ---

type fakeOrders struct{ *memStore }

func (r fakeOrders) Create(_ context.Context, o *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.orders {
		if existing.OrderNumber == o.OrderNumber {
			return repository.ErrDuplicate
		}
	}
	stamp(&o.ID, &o.CreatedAt)
	for i := range o.Lines {
		stamp(&o.Lines[i].ID, nil)
		o.Lines[i].OrderID = o.ID
	}
	stored := cloneOrder(*o)
	stored.Party = nil
	r.orders[o.ID] = stored
	return nil
}

func (r fakeOrders) find(id uuid.UUID) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	o = cloneOrder(o)
	if c, ok := r.contacts[o.PartyID]; ok {
		o.Party = &c
	}
	return &o, nil
}

func (r fakeOrders) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	return r.find(id)
}

func (r fakeOrders) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*model.Order, error) {
	return r.find(id)
}

func (r fakeOrders) Update(_ context.Context, o *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[o.ID]
	if !ok {
		return repository.ErrNotFound
	}
	updated := *o
	updated.Party = nil
	updated.Lines = stored.Lines
	r.orders[o.ID] = updated
	return nil
}

func (r fakeOrders) ReplaceLines(_ context.Context, orderID uuid.UUID, lines []model.OrderLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[orderID]
	if !ok {
		return repository.ErrNotFound
	}
	for i := range lines {
		lines[i].ID = uuid.New()
		lines[i].OrderID = orderID
	}
	stored.Lines = append([]model.OrderLine(nil), lines...)
	r.orders[orderID] = stored
	return nil
}

func (r fakeOrders) List(_ context.Context, f repository.OrderListFilter) ([]model.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Order
	for _, o := range r.orders {
		if f.Type != "" && o.Type != f.Type {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.PartyID != nil && o.PartyID != *f.PartyID {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderNumber < out[j].OrderNumber })
	return paginate(out, f.Page, f.Limit), int64(len(out)), nil
}

// --- invoices and payments ---

type fakeInvoices struct{ *memStore }

func (r fakeInvoices) Create(_ context.Context, inv *model.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.invoices {
		if existing.OrderID == inv.OrderID || existing.DocumentNumber == inv.DocumentNumber {
			return repository.ErrDuplicate
		}
	}
	stamp(&inv.ID, &inv.CreatedAt)
	stored := *inv
	stored.Payments = nil
	r.invoices[inv.ID] = stored
	return nil
}

func (r fakeInvoices) FindByID(_ context.Context, id uuid.UUID) (*model.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &inv, nil
}

func (r fakeInvoices) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	return r.FindByID(ctx, id)
}

func (r fakeInvoices) FindByOrderID(_ context.Context, orderID uuid.UUID) (*model.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.invoices {
		if inv.OrderID == orderID {
			return &inv, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r fakeInvoices) Update(_ context.Context, inv *model.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.invoices[inv.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *inv
	stored.Payments = nil
	r.invoices[inv.ID] = stored
	return nil
}

func (r fakeInvoices) List(_ context.Context, f repository.InvoiceListFilter) ([]model.Invoice, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Invoice
	for _, inv := range r.invoices {
		if f.DocumentType != "" && inv.DocumentType != f.DocumentType {
			continue
		}
		if f.Status != "" && inv.Status != f.Status {
			continue
		}
		if f.DocumentNumber != "" && !strings.Contains(inv.DocumentNumber, f.DocumentNumber) {
			continue
		}
		if f.PartyID != nil && inv.PartyID != *f.PartyID {
			continue
		}
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DocumentNumber < out[j].DocumentNumber })
	return paginate(out, f.Page, f.Limit), int64(len(out)), nil
}

type fakePayments struct{ *memStore }

func (r fakePayments) Create(_ context.Context, p *model.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stamp(&p.ID, &p.CreatedAt)
	r.payments[p.ID] = *p
	return nil
}

func (r fakePayments) FindByID(_ context.Context, id uuid.UUID) (*model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r fakePayments) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.payments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.payments, id)
	return nil
}

func (r fakePayments) ListByDocument(_ context.Context, docID uuid.UUID) ([]model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Payment
	for _, p := range r.payments {
		if p.DocumentID() == docID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r fakePayments) SumByDocument(_ context.Context, docID uuid.UUID) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := decimal.Zero
	for _, p := range r.payments {
		if p.DocumentID() == docID {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

// --- coupons and offers ---

type fakeCoupons struct{ *memStore }

func (r fakeCoupons) CreateBatch(_ context.Context, coupons []model.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	codes := map[string]bool{}
	for _, c := range r.coupons {
		codes[c.Code] = true
	}
	for i := range coupons {
		if codes[coupons[i].Code] {
			return repository.ErrDuplicate
		}
		codes[coupons[i].Code] = true
		stamp(&coupons[i].ID, &coupons[i].CreatedAt)
		stored := coupons[i]
		stored.Offer = nil
		r.coupons[stored.ID] = stored
	}
	return nil
}

func (r fakeCoupons) withOffer(c model.Coupon) *model.Coupon {
	if o, ok := r.offers[c.OfferID]; ok {
		c.Offer = &o
	}
	return &c
}

func (r fakeCoupons) FindByCode(_ context.Context, code string) (*model.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.coupons {
		if c.Code == code {
			return r.withOffer(c), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r fakeCoupons) FindByID(_ context.Context, id uuid.UUID) (*model.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.coupons[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.withOffer(c), nil
}

func (r fakeCoupons) MarkUsed(_ context.Context, id, orderID uuid.UUID, usedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.coupons[id]
	if !ok || c.Status != model.CouponStatusUnused {
		return repository.ErrStaleState
	}
	c.Status = model.CouponStatusUsed
	c.OrderID = &orderID
	c.UsedAt = &usedAt
	r.coupons[id] = c
	return nil
}

func (r fakeCoupons) List(_ context.Context, f repository.CouponListFilter) ([]model.Coupon, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Coupon
	for _, c := range r.coupons {
		if f.OfferID != nil && c.OfferID != *f.OfferID {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return paginate(out, f.Page, f.Limit), int64(len(out)), nil
}

type fakeOffers struct{ *memStore }

func (r fakeOffers) Create(_ context.Context, o *model.DiscountOffer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stamp(&o.ID, &o.CreatedAt)
	r.offers[o.ID] = *o
	return nil
}

func (r fakeOffers) FindByID(_ context.Context, id uuid.UUID) (*model.DiscountOffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.offers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &o, nil
}

func (r fakeOffers) List(_ context.Context, page, limit int) ([]model.DiscountOffer, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.DiscountOffer
	for _, o := range r.offers {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, page, limit), int64(len(out)), nil
}

// --- ledger, audit, sequences ---

type fakeMovements struct{ *memStore }

func (r fakeMovements) Create(_ context.Context, tx *model.InventoryTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stamp(&tx.ID, &tx.CreatedAt)
	r.movements = append(r.movements, *tx)
	return nil
}

func (r fakeMovements) ListByProduct(_ context.Context, productID uuid.UUID, page, limit int) ([]model.InventoryTransaction, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.InventoryTransaction
	for i := len(r.movements) - 1; i >= 0; i-- {
		if r.movements[i].ProductID == productID {
			out = append(out, r.movements[i])
		}
	}
	return paginate(out, page, limit), int64(len(out)), nil
}

type fakeAudit struct{ *memStore }

func (r fakeAudit) Log(_ context.Context, entry *model.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stamp(&entry.ID, &entry.CreatedAt)
	r.audits = append(r.audits, *entry)
	return nil
}

func (r fakeAudit) List(_ context.Context, f repository.AuditListFilter) ([]model.AuditLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.AuditLog
	for i := len(r.audits) - 1; i >= 0; i-- {
		a := r.audits[i]
		if f.Action != "" && a.Action != f.Action {
			continue
		}
		if f.EntityID != "" && a.EntityID != f.EntityID {
			continue
		}
		out = append(out, a)
	}
	return paginate(out, f.Page, f.Limit), int64(len(out)), nil
}

type fakeSequences struct{ *memStore }

func (r fakeSequences) Next(_ context.Context, key string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sequences[key]++
	return r.sequences[key], nil
}

// recordingNotifier captures events; err makes every call fail.
type recordingNotifier struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (n *recordingNotifier) Notify(event string, _ map[string]interface{}) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return n.err
}

// --- fixture ---

var fixedNow = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

type fixture struct {
	store    *memStore
	notifier *recordingNotifier

	orders   *orderService
	invoices *invoiceService
	payments *paymentService
	coupons  *couponService
	products *productService
	contacts ContactService
	terms    PaymentTermService
	audit    AuditService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStore()
	notifier := &recordingNotifier{}
	logger := zap.NewNop()
	clock := func() time.Time { return fixedNow }

	products := fakeProducts{store}
	contacts := fakeContacts{store}
	terms := fakeTerms{store}
	orders := fakeOrders{store}
	invoices := fakeInvoices{store}
	payments := fakePayments{store}
	coupons := fakeCoupons{store}
	offers := fakeOffers{store}
	movements := fakeMovements{store}
	audit := fakeAudit{store}

	numbers := &sequenceNumberGenerator{seqRepo: fakeSequences{store}, now: clock}

	orderSvc := NewOrderService(orders, products, contacts, coupons, movements, audit, numbers, store, logger).(*orderService)
	orderSvc.now = clock
	invoiceSvc := NewInvoiceService(invoices, orders, contacts, terms, payments, audit, numbers, store, notifier, logger).(*invoiceService)
	invoiceSvc.now = clock
	paymentSvc := NewPaymentService(payments, invoices, orders, audit, store, logger).(*paymentService)
	paymentSvc.now = clock
	couponSvc := NewCouponService(coupons, offers, contacts, audit, store, logger).(*couponService)
	couponSvc.now = clock

	return &fixture{
		store:    store,
		notifier: notifier,
		orders:   orderSvc,
		invoices: invoiceSvc,
		payments: paymentSvc,
		coupons:  couponSvc,
		products: NewProductService(products, movements, audit, store, notifier, logger).(*productService),
		contacts: NewContactService(contacts, terms, audit, store),
		terms:    NewPaymentTermService(terms, audit, store),
		audit:    NewAuditService(audit),
	}
}

func (f *fixture) addProduct(t *testing.T, sku, price, tax string, stock int) model.Product {
	t.Helper()
	p := model.Product{
		SKU:          sku,
		Name:         "Product " + sku,
		Price:        decimal.RequireFromString(price),
		TaxPercent:   decimal.RequireFromString(tax),
		CurrentStock: stock,
		IsActive:     true,
	}
	if err := (fakeProducts{f.store}).Create(context.Background(), &p); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func (f *fixture) addContact(t *testing.T, name, contactType string, termID *uuid.UUID) model.Contact {
	t.Helper()
	c := model.Contact{Name: name, Type: contactType, PaymentTermID: termID, IsActive: true}
	if err := (fakeContacts{f.store}).Create(context.Background(), &c); err != nil {
		t.Fatalf("seed contact: %v", err)
	}
	return c
}

func (f *fixture) addOffer(t *testing.T, pct string, start, end time.Time, availableOn string) model.DiscountOffer {
	t.Helper()
	o := model.DiscountOffer{
		Name:               pct + "% off",
		DiscountPercentage: decimal.RequireFromString(pct),
		StartDate:          start,
		EndDate:            end,
		AvailableOn:        availableOn,
	}
	if err := (fakeOffers{f.store}).Create(context.Background(), &o); err != nil {
		t.Fatalf("seed offer: %v", err)
	}
	return o
}

func (f *fixture) addCoupon(t *testing.T, code string, offer model.DiscountOffer, boundTo *uuid.UUID, expires *time.Time) model.Coupon {
	t.Helper()
	c := model.Coupon{
		Code:            code,
		Status:          model.CouponStatusUnused,
		OfferID:         offer.ID,
		BoundCustomerID: boundTo,
		ExpirationDate:  expires,
	}
	coupons := []model.Coupon{c}
	if err := (fakeCoupons{f.store}).CreateBatch(context.Background(), coupons); err != nil {
		t.Fatalf("seed coupon: %v", err)
	}
	return coupons[0]
}

func (f *fixture) stockOf(t *testing.T, id uuid.UUID) int {
	t.Helper()
	p, err := (fakeProducts{f.store}).FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("load product: %v", err)
	}
	return p.CurrentStock
}

func (f *fixture) orderStatus(t *testing.T, id string) string {
	t.Helper()
	o, err := f.orders.GetOrder(context.Background(), id)
	if err != nil {
		t.Fatalf("load order: %v", err)
	}
	return o.Status
}
