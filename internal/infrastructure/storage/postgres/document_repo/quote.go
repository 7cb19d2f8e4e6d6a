package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"metpro/internal/core/id"
	"metpro/internal/domain"
	"metpro/internal/domain/documents/quote"
	"metpro/internal/infrastructure/storage/postgres"
)

const (
	quotesTable     = "doc_quotes"
	quoteItemsTable = "doc_quote_items"
)

// QuoteRepo implements quote.Repository.
type QuoteRepo struct {
	*BaseDocumentRepo[*quote.Quote]
}

// NewQuoteRepo creates a new quote repository.
func NewQuoteRepo(txm *postgres.TxManager) *QuoteRepo {
	return &QuoteRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*quote.Quote](
			txm,
			quotesTable,
			postgres.ExtractDBColumns[quote.Quote](),
			func() *quote.Quote { return &quote.Quote{} },
		),
	}
}

// GetItems retrieves line items for a quote.
func (r *QuoteRepo) GetItems(ctx context.Context, docID id.ID) ([]quote.QuoteItem, error) {
	q := r.Builder().
		Select(
			"line_id", "line_no", "product_name",
			"quantity", "unit_price", "discount_type", "discount_value",
		).
		From(quoteItemsTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []quote.QuoteItem
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}

	return items, nil
}

// SaveItems saves line items for a quote (delete existing + insert new).
func (r *QuoteRepo) SaveItems(ctx context.Context, docID id.ID, items []quote.QuoteItem) error {
	querier := r.querier(ctx)

	deleteSQL := "DELETE FROM " + quoteItemsTable + " WHERE document_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete existing items: %w", err)
	}

	if len(items) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(quoteItemsTable).
		Columns(
			"line_id", "document_id", "line_no", "product_name",
			"quantity", "unit_price", "discount_type", "discount_value",
		)

	for _, item := range items {
		q = q.Values(
			item.LineID, docID, item.LineNo, item.ProductName,
			item.Quantity, item.UnitPrice, item.DiscountType, item.DiscountValue,
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

// List retrieves quotes with filtering.
func (r *QuoteRepo) List(ctx context.Context, filter quote.ListFilter) (domain.ListResult[*quote.Quote], error) {
	result := domain.ListResult[*quote.Quote]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect()

	if filter.ClientID != nil {
		q = q.Where(squirrel.Eq{"client_id": *filter.ClientID})
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
		searchPattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"number": searchPattern},
			squirrel.ILike{"project_name": searchPattern},
		})
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

var _ quote.Repository = (*QuoteRepo)(nil)
