package invoice

import (
	"context"
	"time"

	"metpro/internal/core/id"
	"metpro/internal/core/types"
	"metpro/internal/domain"
)

// Repository defines persistence operations for invoices and payments.
type Repository interface {
	// CRUD operations
	Create(ctx context.Context, doc *Invoice) error
	GetByID(ctx context.Context, docID id.ID) (*Invoice, error)
	GetByNumber(ctx context.Context, number string) (*Invoice, error)
	Update(ctx context.Context, doc *Invoice) error
	Delete(ctx context.Context, docID id.ID) error

	// Item operations
	GetItems(ctx context.Context, docID id.ID) ([]InvoiceItem, error)
	SaveItems(ctx context.Context, docID id.ID, items []InvoiceItem) error

	// List operations
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Invoice], error)

	// ExistsByQuoteID enforces the 1:1 quote-invoice invariant at the
	// application layer (the DB unique constraint is the backstop).
	ExistsByQuoteID(ctx context.Context, quoteID id.ID) (bool, error)

	// Locking
	GetForUpdate(ctx context.Context, docID id.ID) (*Invoice, error)

	// Payment operations
	CreatePayment(ctx context.Context, p *Payment) error
	GetPayments(ctx context.Context, invoiceID id.ID) ([]Payment, error)
	SumPayments(ctx context.Context, invoiceID id.ID) (types.Money, error)
	CountPayments(ctx context.Context, invoiceID id.ID) (int64, error)
}

// ListFilter for filtering invoices.
type ListFilter struct {
	domain.ListFilter

	ClientID *id.ID
	QuoteID  *id.ID
	Status   *Status
	DateFrom *time.Time
	DateTo   *time.Time
}
