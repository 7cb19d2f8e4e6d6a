package quote

import (
	"context"
	"time"

	"metpro/internal/core/id"
	"metpro/internal/domain"
)

// Repository defines persistence operations for quotes.
type Repository interface {
	// CRUD operations
	Create(ctx context.Context, doc *Quote) error
	GetByID(ctx context.Context, docID id.ID) (*Quote, error)
	GetByNumber(ctx context.Context, number string) (*Quote, error)
	Update(ctx context.Context, doc *Quote) error
	Delete(ctx context.Context, docID id.ID) error

	// Item operations
	GetItems(ctx context.Context, docID id.ID) ([]QuoteItem, error)
	SaveItems(ctx context.Context, docID id.ID, items []QuoteItem) error

	// List operations
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Quote], error)

	// Locking
	GetForUpdate(ctx context.Context, docID id.ID) (*Quote, error)
}

// ListFilter for filtering quotes.
type ListFilter struct {
	domain.ListFilter

	ClientID *id.ID
	Status   *Status
	DateFrom *time.Time
	DateTo   *time.Time
}
