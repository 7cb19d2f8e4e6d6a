package reports

import (
	"context"
)

// Repository defines report data access interface.
type Repository interface {
	GetBillingSummary(ctx context.Context, filter BillingSummaryFilter) (*BillingSummary, error)
	GetReceivables(ctx context.Context, filter ReceivablesFilter) (*Receivables, error)
}
