// Package reports provides read-only reporting over quotes, invoices
// and payments.
package reports

import (
	"time"

	"metpro/internal/core/id"
	"metpro/internal/core/types"
)

// --- Billing Summary ---

// BillingSummaryFilter defines the reporting period for the billing summary.
type BillingSummaryFilter struct {
	// DateFrom/DateTo bound invoice dates (optional, open-ended when nil)
	DateFrom *time.Time
	DateTo   *time.Time

	ClientID *id.ID
}

// StatusSummary aggregates invoices of one status.
type StatusSummary struct {
	Status      string      `json:"status"`
	Count       int64       `json:"count"`
	TotalAmount types.Money `json:"totalAmount"`
	AmountPaid  types.Money `json:"amountPaid"`
	AmountDue   types.Money `json:"amountDue"`
}

// BillingSummary is the full billing summary report.
type BillingSummary struct {
	GeneratedAt time.Time `json:"generatedAt"`

	ByStatus []StatusSummary `json:"byStatus"`

	// Overall figures, Cancelled invoices excluded
	InvoiceCount int64       `json:"invoiceCount"`
	TotalBilled  types.Money `json:"totalBilled"`
	TotalPaid    types.Money `json:"totalPaid"`
	// Outstanding is clamped per invoice, overpayments do not offset
	// other clients' debts
	Outstanding types.Money `json:"outstanding"`

	QuoteCount    int64       `json:"quoteCount"`
	QuotedAmount  types.Money `json:"quotedAmount"`
	ConversionPct types.Money `json:"conversionPct"`
}

// --- Receivables ---

// ReceivablesFilter defines filters for the receivables report.
type ReceivablesFilter struct {
	// MinBalance drops rows below this outstanding amount (optional)
	MinBalance *types.Money

	Limit  int
	Offset int
}

// ReceivablesItem is one client's open balance.
type ReceivablesItem struct {
	ClientID     id.ID       `json:"clientId"`
	ClientName   string      `json:"clientName"`
	InvoiceCount int64       `json:"invoiceCount"`
	TotalBilled  types.Money `json:"totalBilled"`
	TotalPaid    types.Money `json:"totalPaid"`
	Outstanding  types.Money `json:"outstanding"`
	// OldestDue is the date of the oldest unpaid invoice
	OldestDue *time.Time `json:"oldestDue,omitempty"`
}

// Receivables is the per-client open balance report.
type Receivables struct {
	GeneratedAt      time.Time         `json:"generatedAt"`
	Items            []ReceivablesItem `json:"items"`
	TotalItems       int               `json:"totalItems"`
	TotalOutstanding types.Money       `json:"totalOutstanding"`
}
