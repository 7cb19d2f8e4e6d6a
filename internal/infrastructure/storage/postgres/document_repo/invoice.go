package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"metpro/internal/core/id"
	"metpro/internal/core/types"
	"metpro/internal/domain"
	"metpro/internal/domain/documents/invoice"
	"metpro/internal/infrastructure/storage/postgres"
)

const (
	invoicesTable        = "doc_invoices"
	invoiceItemsTable    = "doc_invoice_items"
	invoicePaymentsTable = "doc_invoice_payments"
)

// InvoiceRepo implements invoice.Repository.
type InvoiceRepo struct {
	*BaseDocumentRepo[*invoice.Invoice]
}

// NewInvoiceRepo creates a new invoice repository.
func NewInvoiceRepo(txm *postgres.TxManager) *InvoiceRepo {
	return &InvoiceRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*invoice.Invoice](
			txm,
			invoicesTable,
			postgres.ExtractDBColumns[invoice.Invoice](),
			func() *invoice.Invoice { return &invoice.Invoice{} },
		),
	}
}

// GetItems retrieves line items for an invoice.
func (r *InvoiceRepo) GetItems(ctx context.Context, docID id.ID) ([]invoice.InvoiceItem, error) {
	q := r.Builder().
		Select(
			"line_id", "line_no", "product_id", "description",
			"quantity", "unit_price", "discount", "total",
		).
		From(invoiceItemsTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []invoice.InvoiceItem
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}

	return items, nil
}

// SaveItems saves line items for an invoice (delete existing + insert new).
func (r *InvoiceRepo) SaveItems(ctx context.Context, docID id.ID, items []invoice.InvoiceItem) error {
	querier := r.querier(ctx)

	deleteSQL := "DELETE FROM " + invoiceItemsTable + " WHERE document_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete existing items: %w", err)
	}

	if len(items) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(invoiceItemsTable).
		Columns(
			"line_id", "document_id", "line_no", "product_id", "description",
			"quantity", "unit_price", "discount", "total",
		)

	for _, item := range items {
		q = q.Values(
			item.LineID, docID, item.LineNo, item.ProductID, item.Description,
			item.Quantity, item.UnitPrice, item.Discount, item.Total,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert items: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert items: %w", err)
	}

	return nil
}

// List retrieves invoices with filtering.
func (r *InvoiceRepo) List(ctx context.Context, filter invoice.ListFilter) (domain.ListResult[*invoice.Invoice], error) {
	result := domain.ListResult[*invoice.Invoice]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect()

	if filter.ClientID != nil {
		q = q.Where(squirrel.Eq{"client_id": *filter.ClientID})
	}

	if filter.QuoteID != nil {
		q = q.Where(squirrel.Eq{"quote_id": *filter.QuoteID})
	}

	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}

	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}

	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}

	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"number": "%" + filter.Search + "%"})
	}

	countQ := r.Builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("select: %w", err)
	}

	return result, nil
}

// ExistsByQuoteID checks whether an invoice already references the quote.
func (r *InvoiceRepo) ExistsByQuoteID(ctx context.Context, quoteID id.ID) (bool, error) {
	q := r.Builder().
		Select("1").
		From(invoicesTable).
		Where(squirrel.Eq{"quote_id": quoteID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists int
	err = r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&exists)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists by quote id: %w", err)
	}

	return true, nil
}

// CreatePayment inserts a payment row. Payments are append-only.
func (r *InvoiceRepo) CreatePayment(ctx context.Context, p *invoice.Payment) error {
	q := r.Builder().
		Insert(invoicePaymentsTable).
		Columns("id", "invoice_id", "amount", "method", "notes", "payment_date", "created_at").
		Values(p.ID, p.InvoiceID, p.Amount, p.Method, p.Notes, p.PaymentDate, p.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert payment: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	return nil
}

// GetPayments retrieves payment history for an invoice, oldest first.
func (r *InvoiceRepo) GetPayments(ctx context.Context, invoiceID id.ID) ([]invoice.Payment, error) {
	q := r.Builder().
		Select("id", "invoice_id", "amount", "method", "notes", "payment_date", "created_at").
		From(invoicePaymentsTable).
		Where(squirrel.Eq{"invoice_id": invoiceID}).
		OrderBy("created_at", "id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var payments []invoice.Payment
	if err := pgxscan.Select(ctx, r.querier(ctx), &payments, sql, args...); err != nil {
		return nil, fmt.Errorf("get payments: %w", err)
	}

	return payments, nil
}

// SumPayments returns the total of all payments for an invoice.
func (r *InvoiceRepo) SumPayments(ctx context.Context, invoiceID id.ID) (types.Money, error) {
	q := r.Builder().
		Select("COALESCE(SUM(amount), 0)").
		From(invoicePaymentsTable).
		Where(squirrel.Eq{"invoice_id": invoiceID})

	sql, args, err := q.ToSql()
	if err != nil {
		return types.Zero(), fmt.Errorf("build query: %w", err)
	}

	var sum decimal.Decimal
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&sum); err != nil {
		return types.Zero(), fmt.Errorf("sum payments: %w", err)
	}

	return sum, nil
}

// CountPayments returns the number of payments recorded for an invoice.
func (r *InvoiceRepo) CountPayments(ctx context.Context, invoiceID id.ID) (int64, error) {
	q := r.Builder().
		Select("COUNT(*)").
		From(invoicePaymentsTable).
		Where(squirrel.Eq{"invoice_id": invoiceID})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var count int64
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count payments: %w", err)
	}

	return count, nil
}

var _ invoice.Repository = (*InvoiceRepo)(nil)
