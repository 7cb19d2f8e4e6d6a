package quote

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"metpro/internal/core/apperror"
	"metpro/internal/core/id"
	"metpro/internal/core/types"
	"metpro/internal/domain"
	"metpro/internal/domain/billing"
	"metpro/pkg/numerator"
)

// --- fakes ---

type fakeRepo struct {
	quotes map[id.ID]*Quote
	items  map[id.ID][]QuoteItem
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		quotes: make(map[id.ID]*Quote),
		items:  make(map[id.ID][]QuoteItem),
	}
}

func (r *fakeRepo) Create(_ context.Context, doc *Quote) error {
	cp := *doc
	r.quotes[doc.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, docID id.ID) (*Quote, error) {
	doc, ok := r.quotes[docID]
	if !ok {
		return nil, apperror.NewNotFound("quote", docID.String())
	}
	cp := *doc
	return &cp, nil
}

func (r *fakeRepo) GetByNumber(_ context.Context, number string) (*Quote, error) {
	for _, doc := range r.quotes {
		if doc.Number == number {
			cp := *doc
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("quote", number)
}

func (r *fakeRepo) Update(_ context.Context, doc *Quote) error {
	if _, ok := r.quotes[doc.ID]; !ok {
		return apperror.NewNotFound("quote", doc.ID.String())
	}
	cp := *doc
	r.quotes[doc.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, docID id.ID) error {
	delete(r.quotes, docID)
	delete(r.items, docID)
	return nil
}

func (r *fakeRepo) GetItems(_ context.Context, docID id.ID) ([]QuoteItem, error) {
	return r.items[docID], nil
}

func (r *fakeRepo) SaveItems(_ context.Context, docID id.ID, items []QuoteItem) error {
	r.items[docID] = append([]QuoteItem(nil), items...)
	return nil
}

func (r *fakeRepo) List(_ context.Context, filter ListFilter) (domain.ListResult[*Quote], error) {
	result := domain.ListResult[*Quote]{Limit: filter.Limit, Offset: filter.Offset}
	for _, doc := range r.quotes {
		cp := *doc
		result.Items = append(result.Items, &cp)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

func (r *fakeRepo) GetForUpdate(ctx context.Context, docID id.ID) (*Quote, error) {
	return r.GetByID(ctx, docID)
}

type fakeDirectory struct {
	known map[id.ID]bool
}

func (d *fakeDirectory) Exists(_ context.Context, clientID id.ID) (bool, error) {
	return d.known[clientID], nil
}

type fakeNumbering struct {
	next int
}

func (n *fakeNumbering) GetNextNumber(_ context.Context, cfg numerator.Config, _ *numerator.Options, period time.Time) (string, error) {
	n.next++
	return fmt.Sprintf("%s-%s-%05d", cfg.Prefix, period.Format("2006"), n.next), nil
}

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- helpers ---

func newTestService(clientID id.ID) (*Service, *fakeRepo) {
	repo := newFakeRepo()
	svc := NewService(
		repo,
		&fakeDirectory{known: map[id.ID]bool{clientID: true}},
		&fakeNumbering{},
		fakeTxManager{},
		nil,
	)
	return svc, repo
}

func draftQuote(clientID id.ID) *Quote {
	q := NewQuote(clientID)
	q.Items = []QuoteItem{
		{
			LineID:       id.New(),
			LineNo:       1,
			ProductName:  "Cemento gris",
			Quantity:     types.MustMoney("10"),
			UnitPrice:    types.MustMoney("20"),
			DiscountType: billing.DiscountNone,
		},
	}
	return q
}

// --- tests ---

func TestCreate(t *testing.T) {
	clientID := id.New()
	svc, repo := newTestService(clientID)

	doc := draftQuote(clientID)
	doc.Status = StatusApproved // must be forced back to Draft

	if err := svc.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if doc.Status != StatusDraft {
		t.Errorf("status = %s, want Draft", doc.Status)
	}
	if doc.Number == "" {
		t.Error("number was not generated")
	}
	// 200 items, 21% default charges, 18% tax: 200 * 1.21 * 1.18 = 285.56
	if !doc.TotalAmount.Equal(types.MustMoney("285.56")) {
		t.Errorf("total = %s, want 285.56", doc.TotalAmount)
	}
	if len(repo.items[doc.ID]) != 1 {
		t.Errorf("items saved = %d, want 1", len(repo.items[doc.ID]))
	}
}

func TestCreate_UnknownClient(t *testing.T) {
	svc, _ := newTestService(id.New())

	doc := draftQuote(id.New()) // not in the directory
	err := svc.Create(context.Background(), doc)
	if !apperror.IsNotFound(err) {
		t.Errorf("expected NotFound for unknown client, got %v", err)
	}
}

func TestCreate_NoItems(t *testing.T) {
	clientID := id.New()
	svc, _ := newTestService(clientID)

	doc := NewQuote(clientID)
	err := svc.Create(context.Background(), doc)
	if !apperror.IsValidation(err) {
		t.Errorf("expected validation error for empty items, got %v", err)
	}
}

func TestUpdate_NonDraft(t *testing.T) {
	clientID := id.New()
	svc, repo := newTestService(clientID)

	doc := draftQuote(clientID)
	if err := svc.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	repo.quotes[doc.ID].Status = StatusSent

	doc.Notes = "changed"
	err := svc.Update(context.Background(), doc)
	if !apperror.IsConflict(err) {
		t.Errorf("expected conflict for non-Draft update, got %v", err)
	}
}

func TestUpdate_PreservesNumberAndStatus(t *testing.T) {
	clientID := id.New()
	svc, _ := newTestService(clientID)

	doc := draftQuote(clientID)
	if err := svc.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	number := doc.Number

	doc.Number = "Q-9999-99999"
	doc.Items[0].Quantity = types.MustMoney("5")
	if err := svc.Update(context.Background(), doc); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if doc.Number != number {
		t.Errorf("number = %s, want %s preserved", doc.Number, number)
	}
	// 5 * 20 = 100, * 1.21 * 1.18 = 142.78
	if !doc.TotalAmount.Equal(types.MustMoney("142.78")) {
		t.Errorf("total = %s, want 142.78", doc.TotalAmount)
	}
}

func TestUpdateStatus(t *testing.T) {
	clientID := id.New()
	svc, _ := newTestService(clientID)

	doc := draftQuote(clientID)
	if err := svc.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), doc.ID, "Sent")
	if err != nil {
		t.Fatalf("UpdateStatus(Sent) failed: %v", err)
	}
	if updated.Status != StatusSent {
		t.Errorf("status = %s, want Sent", updated.Status)
	}

	if _, err := svc.UpdateStatus(context.Background(), doc.ID, "Draft"); err == nil {
		t.Error("expected error for Sent -> Draft")
	}

	if _, err := svc.UpdateStatus(context.Background(), doc.ID, "Invoiced"); !apperror.IsValidation(err) {
		t.Errorf("expected validation error for direct Invoiced, got %v", err)
	}
}

func TestDelete_Invoiced(t *testing.T) {
	clientID := id.New()
	svc, repo := newTestService(clientID)

	doc := draftQuote(clientID)
	if err := svc.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	repo.quotes[doc.ID].Status = StatusInvoiced

	err := svc.Delete(context.Background(), doc.ID)
	if !apperror.IsConflict(err) {
		t.Errorf("expected conflict for invoiced quote deletion, got %v", err)
	}
}

func TestDuplicate(t *testing.T) {
	clientID := id.New()
	svc, _ := newTestService(clientID)

	doc := draftQuote(clientID)
	doc.Notes = "original notes"
	if err := svc.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	copied, err := svc.Duplicate(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("Duplicate failed: %v", err)
	}

	if copied.ID == doc.ID {
		t.Error("duplicate must get a new ID")
	}
	if copied.Number == doc.Number {
		t.Error("duplicate must get a new number")
	}
	if copied.Status != StatusDraft {
		t.Errorf("status = %s, want Draft", copied.Status)
	}
	if !strings.HasPrefix(copied.Notes, "[DUPLICATE] ") {
		t.Errorf("notes = %q, want [DUPLICATE] prefix", copied.Notes)
	}
	if len(copied.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(copied.Items))
	}
	if copied.Items[0].LineID == doc.Items[0].LineID {
		t.Error("duplicated items must get new line IDs")
	}
}

func TestDuplicate_EmptyNotes(t *testing.T) {
	clientID := id.New()
	svc, _ := newTestService(clientID)

	doc := draftQuote(clientID)
	if err := svc.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	copied, err := svc.Duplicate(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("Duplicate failed: %v", err)
	}
	if copied.Notes != "" {
		t.Errorf("notes = %q, want empty (no marker on empty notes)", copied.Notes)
	}
}
