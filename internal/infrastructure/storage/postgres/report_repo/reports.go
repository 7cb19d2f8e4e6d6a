// Package report_repo provides PostgreSQL implementations for report
// repositories.
package report_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"metpro/internal/core/types"
	"metpro/internal/domain/reports"
	"metpro/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txm *postgres.TxManager) *ReportRepo {
	return &ReportRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetBillingSummary aggregates invoices by status plus overall figures.
// Outstanding is clamped per invoice with GREATEST so an overpaid invoice
// never offsets another invoice's open balance.
func (r *ReportRepo) GetBillingSummary(ctx context.Context, filter reports.BillingSummaryFilter) (*reports.BillingSummary, error) {
	querier := r.txm.GetQuerier(ctx)

	invoiceCond := squirrel.And{}
	if filter.DateFrom != nil {
		invoiceCond = append(invoiceCond, squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		invoiceCond = append(invoiceCond, squirrel.LtOrEq{"date": *filter.DateTo})
	}
	if filter.ClientID != nil {
		invoiceCond = append(invoiceCond, squirrel.Eq{"client_id": *filter.ClientID})
	}

	statusQ := r.builder.
		Select(
			"status",
			"COUNT(*) AS count",
			"COALESCE(SUM(total_amount), 0) AS total_amount",
			"COALESCE(SUM(amount_paid), 0) AS amount_paid",
			"COALESCE(SUM(GREATEST(amount_due, 0)), 0) AS amount_due",
		).
		From("doc_invoices").
		GroupBy("status").
		OrderBy("status")
	if len(invoiceCond) > 0 {
		statusQ = statusQ.Where(invoiceCond)
	}

	statusSQL, statusArgs, err := statusQ.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build status query: %w", err)
	}

	var byStatus []reports.StatusSummary
	if err := pgxscan.Select(ctx, querier, &byStatus, statusSQL, statusArgs...); err != nil {
		return nil, fmt.Errorf("billing summary by status: %w", err)
	}

	summary := &reports.BillingSummary{
		GeneratedAt: time.Now().UTC(),
		ByStatus:    byStatus,
		TotalBilled: types.Zero(),
		TotalPaid:   types.Zero(),
		Outstanding: types.Zero(),
	}

	for _, s := range byStatus {
		if s.Status == "Cancelled" {
			continue
		}
		summary.InvoiceCount += s.Count
		summary.TotalBilled = summary.TotalBilled.Add(s.TotalAmount)
		summary.TotalPaid = summary.TotalPaid.Add(s.AmountPaid)
		summary.Outstanding = summary.Outstanding.Add(s.AmountDue)
	}

	quoteQ := r.builder.
		Select(
			"COUNT(*) AS quote_count",
			"COALESCE(SUM(total_amount), 0) AS quoted_amount",
			"COUNT(*) FILTER (WHERE status = 'Invoiced') AS invoiced_count",
		).
		From("doc_quotes")

	quoteCond := squirrel.And{}
	if filter.DateFrom != nil {
		quoteCond = append(quoteCond, squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		quoteCond = append(quoteCond, squirrel.LtOrEq{"date": *filter.DateTo})
	}
	if filter.ClientID != nil {
		quoteCond = append(quoteCond, squirrel.Eq{"client_id": *filter.ClientID})
	}
	if len(quoteCond) > 0 {
		quoteQ = quoteQ.Where(quoteCond)
	}

	quoteSQL, quoteArgs, err := quoteQ.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build quote query: %w", err)
	}

	var invoicedCount int64
	err = querier.QueryRow(ctx, quoteSQL, quoteArgs...).Scan(
		&summary.QuoteCount,
		&summary.QuotedAmount,
		&invoicedCount,
	)
	if err != nil {
		return nil, fmt.Errorf("billing summary quotes: %w", err)
	}

	summary.ConversionPct = types.Zero()
	if summary.QuoteCount > 0 {
		summary.ConversionPct = decimal.NewFromInt(invoicedCount).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(summary.QuoteCount)).
			Round(2)
	}

	return summary, nil
}

// GetReceivables returns per-client open balances, largest first.
func (r *ReportRepo) GetReceivables(ctx context.Context, filter reports.ReceivablesFilter) (*reports.Receivables, error) {
	query := `
		SELECT
			i.client_id,
			c.name AS client_name,
			COUNT(*) AS invoice_count,
			COALESCE(SUM(i.total_amount), 0) AS total_billed,
			COALESCE(SUM(i.amount_paid), 0) AS total_paid,
			COALESCE(SUM(GREATEST(i.amount_due, 0)), 0) AS outstanding,
			MIN(i.date) FILTER (WHERE i.amount_due > 0) AS oldest_due
		FROM doc_invoices i
		JOIN cat_clients c ON i.client_id = c.id
		WHERE i.status NOT IN ('Cancelled', 'Paid')
		GROUP BY i.client_id, c.name
	`
	args := []any{}
	argIndex := 1

	if filter.MinBalance != nil {
		query += fmt.Sprintf(" HAVING COALESCE(SUM(GREATEST(i.amount_due, 0)), 0) >= $%d", argIndex)
		args = append(args, *filter.MinBalance)
		argIndex++
	}

	query += " ORDER BY outstanding DESC, client_name"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	var items []reports.ReceivablesItem
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, query, args...); err != nil {
		return nil, fmt.Errorf("receivables: %w", err)
	}

	total := types.Zero()
	for _, item := range items {
		total = total.Add(item.Outstanding)
	}

	return &reports.Receivables{
		GeneratedAt:      time.Now().UTC(),
		Items:            items,
		TotalItems:       len(items),
		TotalOutstanding: total,
	}, nil
}

// Ensure interface compliance
var _ reports.Repository = (*ReportRepo)(nil)
