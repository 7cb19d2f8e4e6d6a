package invoice

import (
	"context"
	"fmt"
	"testing"
	"time"

	"metpro/internal/core/apperror"
	"metpro/internal/core/id"
	"metpro/internal/core/types"
	"metpro/internal/domain"
	"metpro/internal/domain/billing"
	"metpro/internal/domain/catalogs/product"
	"metpro/internal/domain/documents/quote"
	"metpro/pkg/numerator"
)

// fakeStore backs all repositories of an invoice test with plain maps.
// snapshot/restore give the fake tx manager real rollback behavior, so
// atomicity bugs in the service show up as test failures.
type fakeStore struct {
	quotes       map[id.ID]*quote.Quote
	quoteItems   map[id.ID][]quote.QuoteItem
	invoices     map[id.ID]*Invoice
	invoiceItems map[id.ID][]InvoiceItem
	payments     map[id.ID][]Payment
	products     map[string]*product.Product
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		quotes:       make(map[id.ID]*quote.Quote),
		quoteItems:   make(map[id.ID][]quote.QuoteItem),
		invoices:     make(map[id.ID]*Invoice),
		invoiceItems: make(map[id.ID][]InvoiceItem),
		payments:     make(map[id.ID][]Payment),
		products:     make(map[string]*product.Product),
	}
}

func (s *fakeStore) snapshot() *fakeStore {
	cp := newFakeStore()
	for k, v := range s.quotes {
		q := *v
		cp.quotes[k] = &q
	}
	for k, v := range s.quoteItems {
		cp.quoteItems[k] = append([]quote.QuoteItem(nil), v...)
	}
	for k, v := range s.invoices {
		inv := *v
		cp.invoices[k] = &inv
	}
	for k, v := range s.invoiceItems {
		cp.invoiceItems[k] = append([]InvoiceItem(nil), v...)
	}
	for k, v := range s.payments {
		cp.payments[k] = append([]Payment(nil), v...)
	}
	for k, v := range s.products {
		cp.products[k] = v
	}
	return cp
}

func (s *fakeStore) restore(snap *fakeStore) {
	s.quotes = snap.quotes
	s.quoteItems = snap.quoteItems
	s.invoices = snap.invoices
	s.invoiceItems = snap.invoiceItems
	s.payments = snap.payments
	s.products = snap.products
}

// fakeTx rolls the store back when fn fails.
type fakeTx struct {
	store *fakeStore
}

func (t fakeTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := t.store.snapshot()
	if err := fn(ctx); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

func (t fakeTx) RunSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.RunInTransaction(ctx, fn)
}

// --- repository fakes over the store ---

type fakeInvoiceRepo struct{ s *fakeStore }

func (r fakeInvoiceRepo) Create(_ context.Context, doc *Invoice) error {
	cp := *doc
	r.s.invoices[doc.ID] = &cp
	return nil
}

func (r fakeInvoiceRepo) GetByID(_ context.Context, docID id.ID) (*Invoice, error) {
	doc, ok := r.s.invoices[docID]
	if !ok {
		return nil, apperror.NewNotFound("invoice", docID.String())
	}
	cp := *doc
	return &cp, nil
}

func (r fakeInvoiceRepo) GetByNumber(_ context.Context, number string) (*Invoice, error) {
	for _, doc := range r.s.invoices {
		if doc.Number == number {
			cp := *doc
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("invoice", number)
}

func (r fakeInvoiceRepo) Update(_ context.Context, doc *Invoice) error {
	if _, ok := r.s.invoices[doc.ID]; !ok {
		return apperror.NewNotFound("invoice", doc.ID.String())
	}
	cp := *doc
	r.s.invoices[doc.ID] = &cp
	return nil
}

func (r fakeInvoiceRepo) Delete(_ context.Context, docID id.ID) error {
	delete(r.s.invoices, docID)
	delete(r.s.invoiceItems, docID)
	return nil
}

func (r fakeInvoiceRepo) GetItems(_ context.Context, docID id.ID) ([]InvoiceItem, error) {
	return r.s.invoiceItems[docID], nil
}

func (r fakeInvoiceRepo) SaveItems(_ context.Context, docID id.ID, items []InvoiceItem) error {
	r.s.invoiceItems[docID] = append([]InvoiceItem(nil), items...)
	return nil
}

func (r fakeInvoiceRepo) List(_ context.Context, filter ListFilter) (domain.ListResult[*Invoice], error) {
	result := domain.ListResult[*Invoice]{Limit: filter.Limit, Offset: filter.Offset}
	for _, doc := range r.s.invoices {
		cp := *doc
		result.Items = append(result.Items, &cp)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

func (r fakeInvoiceRepo) ExistsByQuoteID(_ context.Context, quoteID id.ID) (bool, error) {
	for _, doc := range r.s.invoices {
		if doc.QuoteID != nil && *doc.QuoteID == quoteID {
			return true, nil
		}
	}
	return false, nil
}

func (r fakeInvoiceRepo) GetForUpdate(ctx context.Context, docID id.ID) (*Invoice, error) {
	return r.GetByID(ctx, docID)
}

func (r fakeInvoiceRepo) CreatePayment(_ context.Context, p *Payment) error {
	r.s.payments[p.InvoiceID] = append(r.s.payments[p.InvoiceID], *p)
	return nil
}

func (r fakeInvoiceRepo) GetPayments(_ context.Context, invoiceID id.ID) ([]Payment, error) {
	return r.s.payments[invoiceID], nil
}

func (r fakeInvoiceRepo) SumPayments(_ context.Context, invoiceID id.ID) (types.Money, error) {
	sum := types.Zero()
	for _, p := range r.s.payments[invoiceID] {
		sum = sum.Add(p.Amount)
	}
	return sum, nil
}

func (r fakeInvoiceRepo) CountPayments(_ context.Context, invoiceID id.ID) (int64, error) {
	return int64(len(r.s.payments[invoiceID])), nil
}

type fakeQuoteRepo struct{ s *fakeStore }

func (r fakeQuoteRepo) Create(_ context.Context, doc *quote.Quote) error {
	cp := *doc
	r.s.quotes[doc.ID] = &cp
	return nil
}

func (r fakeQuoteRepo) GetByID(_ context.Context, docID id.ID) (*quote.Quote, error) {
	doc, ok := r.s.quotes[docID]
	if !ok {
		return nil, apperror.NewNotFound("quote", docID.String())
	}
	cp := *doc
	return &cp, nil
}

func (r fakeQuoteRepo) GetByNumber(_ context.Context, number string) (*quote.Quote, error) {
	for _, doc := range r.s.quotes {
		if doc.Number == number {
			cp := *doc
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("quote", number)
}

func (r fakeQuoteRepo) Update(_ context.Context, doc *quote.Quote) error {
	if _, ok := r.s.quotes[doc.ID]; !ok {
		return apperror.NewNotFound("quote", doc.ID.String())
	}
	cp := *doc
	r.s.quotes[doc.ID] = &cp
	return nil
}

func (r fakeQuoteRepo) Delete(_ context.Context, docID id.ID) error {
	delete(r.s.quotes, docID)
	delete(r.s.quoteItems, docID)
	return nil
}

func (r fakeQuoteRepo) GetItems(_ context.Context, docID id.ID) ([]quote.QuoteItem, error) {
	return r.s.quoteItems[docID], nil
}

func (r fakeQuoteRepo) SaveItems(_ context.Context, docID id.ID, items []quote.QuoteItem) error {
	r.s.quoteItems[docID] = append([]quote.QuoteItem(nil), items...)
	return nil
}

func (r fakeQuoteRepo) List(_ context.Context, filter quote.ListFilter) (domain.ListResult[*quote.Quote], error) {
	return domain.ListResult[*quote.Quote]{}, nil
}

func (r fakeQuoteRepo) GetForUpdate(ctx context.Context, docID id.ID) (*quote.Quote, error) {
	return r.GetByID(ctx, docID)
}

type fakeResolver struct{ s *fakeStore }

func (r fakeResolver) GetByName(_ context.Context, name string) (*product.Product, error) {
	p, ok := r.s.products[name]
	if !ok {
		return nil, apperror.NewNotFound("product", name)
	}
	return p, nil
}

type fakeNumbering struct{ next int }

func (n *fakeNumbering) GetNextNumber(_ context.Context, cfg numerator.Config, _ *numerator.Options, period time.Time) (string, error) {
	n.next++
	return fmt.Sprintf("%s-%s-%05d", cfg.Prefix, period.Format("2006"), n.next), nil
}

// --- fixture ---

type fixture struct {
	store *fakeStore
	svc   *Service
	quote *quote.Quote
}

// newFixture seeds an Approved quote with two lines against known products:
// 10 x 20 and 5 x 50 with a 10 fixed discount. Items after discount 440,
// default charges 21%, tax 18%: total 440 * 1.21 * 1.18 = 628.23 (rounded).
func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newFakeStore()
	store.products["Cemento gris"] = product.NewProduct("Cemento gris", "bag", types.MustMoney("20"))
	store.products["Bloque 6"] = product.NewProduct("Bloque 6", "unit", types.MustMoney("50"))

	q := quote.NewQuote(id.New())
	q.Status = quote.StatusApproved
	q.Number = "Q-2026-00001"
	items := []quote.QuoteItem{
		{
			LineID:       id.New(),
			LineNo:       1,
			ProductName:  "Cemento gris",
			Quantity:     types.MustMoney("10"),
			UnitPrice:    types.MustMoney("20"),
			DiscountType: billing.DiscountNone,
		},
		{
			LineID:        id.New(),
			LineNo:        2,
			ProductName:   "Bloque 6",
			Quantity:      types.MustMoney("5"),
			UnitPrice:     types.MustMoney("50"),
			DiscountType:  billing.DiscountFixed,
			DiscountValue: types.MustMoney("10"),
		},
	}
	store.quotes[q.ID] = q
	store.quoteItems[q.ID] = items

	svc := NewService(
		fakeInvoiceRepo{store},
		fakeQuoteRepo{store},
		fakeResolver{store},
		&fakeNumbering{},
		fakeTx{store},
		nil,
	)
	return &fixture{store: store, svc: svc, quote: q}
}

// --- conversion tests ---

func TestConvertFromQuote(t *testing.T) {
	f := newFixture(t)

	inv, err := f.svc.ConvertFromQuote(context.Background(), f.quote.ID)
	if err != nil {
		t.Fatalf("ConvertFromQuote failed: %v", err)
	}

	if inv.Status != StatusPending {
		t.Errorf("status = %s, want Pending", inv.Status)
	}
	if !inv.TotalAmount.Equal(types.MustMoney("628.23")) {
		t.Errorf("total = %s, want 628.23", inv.TotalAmount)
	}
	if !inv.AmountDue.Equal(inv.TotalAmount) {
		t.Errorf("amount due = %s, want total %s", inv.AmountDue, inv.TotalAmount)
	}
	if inv.QuoteID == nil || *inv.QuoteID != f.quote.ID {
		t.Error("invoice must reference the source quote")
	}
	if inv.Number == "" {
		t.Error("number was not generated")
	}

	if got := f.store.quotes[f.quote.ID].Status; got != quote.StatusInvoiced {
		t.Errorf("quote status = %s, want Invoiced", got)
	}

	items := f.store.invoiceItems[inv.ID]
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	// 5 * 50 - 10 = 240
	if !items[1].Total.Equal(types.MustMoney("240")) {
		t.Errorf("line 2 total = %s, want 240", items[1].Total)
	}
	if id.IsNil(items[0].ProductID) {
		t.Error("product reference was not resolved")
	}
}

func TestConvertFromQuote_NotApproved(t *testing.T) {
	f := newFixture(t)
	f.store.quotes[f.quote.ID].Status = quote.StatusDraft

	_, err := f.svc.ConvertFromQuote(context.Background(), f.quote.ID)
	if !apperror.IsConflict(err) {
		t.Errorf("expected conflict for Draft quote, got %v", err)
	}
}

func TestConvertFromQuote_AlreadyConverted(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.ConvertFromQuote(context.Background(), f.quote.ID); err != nil {
		t.Fatalf("first conversion failed: %v", err)
	}
	// Second attempt hits the quote already being Invoiced, which is
	// reported as a conflict before the duplicate check even runs.
	_, err := f.svc.ConvertFromQuote(context.Background(), f.quote.ID)
	if !apperror.IsConflict(err) {
		t.Errorf("expected conflict for second conversion, got %v", err)
	}
	if len(f.store.invoices) != 1 {
		t.Errorf("invoices = %d, want 1", len(f.store.invoices))
	}
}

func TestConvertFromQuote_DuplicateInvoice(t *testing.T) {
	f := newFixture(t)

	existing := NewInvoice(f.quote.ClientID, types.MustMoney("100"))
	existing.QuoteID = &f.quote.ID
	f.store.invoices[existing.ID] = existing

	_, err := f.svc.ConvertFromQuote(context.Background(), f.quote.ID)
	if !apperror.IsConflict(err) {
		t.Errorf("expected conflict for existing invoice, got %v", err)
	}
}

func TestConvertFromQuote_UnresolvableProduct(t *testing.T) {
	f := newFixture(t)
	delete(f.store.products, "Bloque 6")

	_, err := f.svc.ConvertFromQuote(context.Background(), f.quote.ID)
	if !apperror.IsValidation(err) {
		t.Fatalf("expected validation error for missing product, got %v", err)
	}

	// Nothing may survive the failed conversion.
	if len(f.store.invoices) != 0 {
		t.Errorf("invoices = %d, want 0 after rollback", len(f.store.invoices))
	}
	if got := f.store.quotes[f.quote.ID].Status; got != quote.StatusApproved {
		t.Errorf("quote status = %s, want Approved after rollback", got)
	}
}

func TestConvertFromQuote_MissingQuote(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ConvertFromQuote(context.Background(), id.New())
	if !apperror.IsNotFound(err) {
		t.Errorf("expected NotFound for missing quote, got %v", err)
	}
}

// --- payment tests ---

func convert(t *testing.T, f *fixture) *Invoice {
	t.Helper()
	inv, err := f.svc.ConvertFromQuote(context.Background(), f.quote.ID)
	if err != nil {
		t.Fatalf("ConvertFromQuote failed: %v", err)
	}
	return inv
}

func pay(t *testing.T, f *fixture, invoiceID id.ID, amount string) {
	t.Helper()
	_, err := f.svc.RecordPayment(context.Background(), invoiceID, &Payment{
		Amount: types.MustMoney(amount),
		Method: "transfer",
	})
	if err != nil {
		t.Fatalf("RecordPayment(%s) failed: %v", amount, err)
	}
}

func TestRecordPayment_Partial(t *testing.T) {
	f := newFixture(t)
	inv := convert(t, f)

	pay(t, f, inv.ID, "128.23")

	got := f.store.invoices[inv.ID]
	if got.Status != StatusPending {
		t.Errorf("status = %s, want Pending", got.Status)
	}
	if !got.AmountPaid.Equal(types.MustMoney("128.23")) {
		t.Errorf("paid = %s, want 128.23", got.AmountPaid)
	}
	if !got.AmountDue.Equal(types.MustMoney("500")) {
		t.Errorf("due = %s, want 500", got.AmountDue)
	}
}

func TestRecordPayment_FullInTwoSteps(t *testing.T) {
	f := newFixture(t)
	inv := convert(t, f)

	pay(t, f, inv.ID, "128.23")
	pay(t, f, inv.ID, "500")

	got := f.store.invoices[inv.ID]
	if got.Status != StatusPaid {
		t.Errorf("status = %s, want Paid", got.Status)
	}
	if !got.AmountDue.IsZero() {
		t.Errorf("due = %s, want 0", got.AmountDue)
	}
}

func TestRecordPayment_OrderIndependent(t *testing.T) {
	f := newFixture(t)
	inv := convert(t, f)

	pay(t, f, inv.ID, "500")
	pay(t, f, inv.ID, "128.23")

	got := f.store.invoices[inv.ID]
	if got.Status != StatusPaid {
		t.Errorf("status = %s, want Paid", got.Status)
	}
	if !got.AmountPaid.Equal(types.MustMoney("628.23")) {
		t.Errorf("paid = %s, want 628.23", got.AmountPaid)
	}
}

func TestRecordPayment_Overpayment(t *testing.T) {
	f := newFixture(t)
	inv := convert(t, f)

	pay(t, f, inv.ID, "700")

	got := f.store.invoices[inv.ID]
	if got.Status != StatusPaid {
		t.Errorf("status = %s, want Paid", got.Status)
	}
	if !got.AmountDue.Equal(types.MustMoney("-71.77")) {
		t.Errorf("raw due = %s, want -71.77", got.AmountDue)
	}
	if !got.DisplayAmountDue().IsZero() {
		t.Errorf("display due = %s, want 0", got.DisplayAmountDue())
	}
	if !got.IsOverpaid() {
		t.Error("invoice should report overpayment")
	}
}

func TestRecordPayment_NonPositive(t *testing.T) {
	f := newFixture(t)
	inv := convert(t, f)

	for _, amount := range []string{"0", "-25"} {
		_, err := f.svc.RecordPayment(context.Background(), inv.ID, &Payment{
			Amount: types.MustMoney(amount),
			Method: "cash",
		})
		if !apperror.IsValidation(err) {
			t.Errorf("amount %s: expected validation error, got %v", amount, err)
		}
	}
	if len(f.store.payments[inv.ID]) != 0 {
		t.Errorf("payments = %d, want 0 after rejected amounts", len(f.store.payments[inv.ID]))
	}
}

func TestRecordPayment_CancelledStaysCancelled(t *testing.T) {
	f := newFixture(t)
	inv := convert(t, f)
	f.store.invoices[inv.ID].Status = StatusCancelled

	pay(t, f, inv.ID, "628.23")

	got := f.store.invoices[inv.ID]
	if got.Status != StatusCancelled {
		t.Errorf("status = %s, want Cancelled preserved", got.Status)
	}
	if !got.AmountDue.IsZero() {
		t.Errorf("due = %s, want 0 (balance still reconciles)", got.AmountDue)
	}
}

func TestRecordPayment_MissingInvoice(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RecordPayment(context.Background(), id.New(), &Payment{
		Amount: types.MustMoney("50"),
		Method: "cash",
	})
	if !apperror.IsNotFound(err) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

// --- deletion tests ---

func TestDelete_RevertsQuote(t *testing.T) {
	f := newFixture(t)
	inv := convert(t, f)

	result, err := f.svc.Delete(context.Background(), inv.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !result.QuoteReverted {
		t.Error("expected quote revert to be reported")
	}
	if got := f.store.quotes[f.quote.ID].Status; got != quote.StatusApproved {
		t.Errorf("quote status = %s, want Approved", got)
	}
	if len(f.store.invoices) != 0 {
		t.Errorf("invoices = %d, want 0", len(f.store.invoices))
	}
}

func TestDelete_MissingQuoteIsNoOp(t *testing.T) {
	f := newFixture(t)
	inv := convert(t, f)
	delete(f.store.quotes, f.quote.ID)

	result, err := f.svc.Delete(context.Background(), inv.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if result.QuoteReverted {
		t.Error("no quote to revert, flag must be false")
	}
}

func TestDelete_BlockedByPayments(t *testing.T) {
	f := newFixture(t)
	inv := convert(t, f)
	pay(t, f, inv.ID, "100")

	_, err := f.svc.Delete(context.Background(), inv.ID)
	if !apperror.IsConflict(err) {
		t.Errorf("expected conflict for invoice with payments, got %v", err)
	}
	if _, ok := f.store.invoices[inv.ID]; !ok {
		t.Error("invoice must survive blocked deletion")
	}
}

// --- read tests ---

func TestGetByID_Breakdown(t *testing.T) {
	f := newFixture(t)
	inv := convert(t, f)

	got, err := f.svc.GetByID(context.Background(), inv.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Breakdown == nil {
		t.Fatal("breakdown must be recomputed from the source quote")
	}
	if !got.Breakdown.ItemsAfterDiscount.Equal(types.MustMoney("440")) {
		t.Errorf("items after discount = %s, want 440", got.Breakdown.ItemsAfterDiscount)
	}
	if len(got.Items) != 2 {
		t.Errorf("items = %d, want 2", len(got.Items))
	}
}

func TestGetByID_NoBreakdownWithoutQuote(t *testing.T) {
	f := newFixture(t)
	inv := convert(t, f)
	delete(f.store.quotes, f.quote.ID)

	got, err := f.svc.GetByID(context.Background(), inv.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Breakdown != nil {
		t.Error("breakdown must be nil when the source quote is gone")
	}
}

func TestUpdateStatus_Cancel(t *testing.T) {
	f := newFixture(t)
	inv := convert(t, f)

	updated, err := f.svc.UpdateStatus(context.Background(), inv.ID, "Cancelled")
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if updated.Status != StatusCancelled {
		t.Errorf("status = %s, want Cancelled", updated.Status)
	}

	if _, err := f.svc.UpdateStatus(context.Background(), inv.ID, "Void"); !apperror.IsValidation(err) {
		t.Errorf("expected validation error for unknown status, got %v", err)
	}
}
