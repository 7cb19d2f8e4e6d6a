package invoice

import (
	"context"
	"fmt"
	"time"

	"metpro/internal/core/apperror"
	"metpro/internal/core/id"
	"metpro/internal/core/tx"
	"metpro/internal/core/types"
	"metpro/internal/domain"
	"metpro/internal/domain/audit"
	"metpro/internal/domain/catalogs/product"
	"metpro/internal/domain/documents/quote"
	"metpro/pkg/logger"
	"metpro/pkg/numerator"
)

// NumberPrefix for generated invoice numbers (INV-2026-00001).
const NumberPrefix = "INV"

// Numbering generates document numbers. Satisfied by *numerator.Service.
type Numbering interface {
	GetNextNumber(ctx context.Context, cfg numerator.Config, opts *numerator.Options, period time.Time) (string, error)
}

// Service provides business operations for invoices and payments.
type Service struct {
	repo      Repository
	quotes    quote.Repository
	products  product.Resolver
	numerator Numbering
	txManager tx.SerializableManager
	auditor   audit.Recorder // optional
}

// NewService creates a new invoice service.
func NewService(
	repo Repository,
	quotes quote.Repository,
	products product.Resolver,
	num Numbering,
	txManager tx.SerializableManager,
	auditor audit.Recorder,
) *Service {
	return &Service{
		repo:      repo,
		quotes:    quotes,
		products:  products,
		numerator: num,
		txManager: txManager,
		auditor:   auditor,
	}
}

func (s *Service) recordAudit(ctx context.Context, docID id.ID, action audit.Action, changes map[string]any) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Record(ctx, "invoice", docID, action, changes); err != nil {
		logger.Warn(ctx, "audit record failed", "entity", "invoice", "id", docID, "error", err)
	}
}

// ConvertFromQuote promotes an Approved quote into a Pending invoice.
//
// The whole operation is one serializable transaction: quote lock, the
// duplicate-invoice check, number generation, invoice and item inserts,
// and the quote's move to Invoiced all commit or roll back together.
// Partial conversions would corrupt the 1:1 quote-invoice invariant.
func (s *Service) ConvertFromQuote(ctx context.Context, quoteID id.ID) (*Invoice, error) {
	var created *Invoice

	err := s.txManager.RunSerializable(ctx, func(ctx context.Context) error {
		q, err := s.quotes.GetForUpdate(ctx, quoteID)
		if err != nil {
			return err
		}

		if q.Status != quote.StatusApproved {
			return apperror.NewConflict("only approved quotes can be converted to invoices").
				WithDetail("id", quoteID.String()).
				WithDetail("status", string(q.Status))
		}

		exists, err := s.repo.ExistsByQuoteID(ctx, quoteID)
		if err != nil {
			return fmt.Errorf("check existing invoice: %w", err)
		}
		if exists {
			return apperror.NewConflict("invoice already exists for this quote").
				WithDetail("quoteId", quoteID.String())
		}

		items, err := s.quotes.GetItems(ctx, quoteID)
		if err != nil {
			return fmt.Errorf("get quote items: %w", err)
		}
		q.Items = items

		breakdown := q.Breakdown()

		inv := NewInvoice(q.ClientID, types.Round2(breakdown.GrandTotal))
		inv.QuoteID = &q.ID
		inv.Notes = q.Notes
		inv.PaymentTerms = q.PaymentTerms
		inv.ValidUntil = q.ValidUntil

		cfg := numerator.DefaultConfig(NumberPrefix)
		number, err := s.numerator.GetNextNumber(ctx, cfg, nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		inv.Number = number

		if err := s.repo.Create(ctx, inv); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}

		// Snapshot line items, resolving each product name to a durable
		// reference. An unresolvable product fails the whole conversion:
		// an invoice must never reference phantom products.
		invItems := make([]InvoiceItem, len(items))
		for i, item := range items {
			prod, err := s.products.GetByName(ctx, item.ProductName)
			if err != nil {
				if apperror.IsNotFound(err) {
					return apperror.NewValidation(
						fmt.Sprintf("product %q not found, cannot invoice it", item.ProductName)).
						WithDetail("field", "items").
						WithDetail("lineNo", i+1).
						WithDetail("productName", item.ProductName)
				}
				return fmt.Errorf("resolve product %q: %w", item.ProductName, err)
			}

			// Snapshot monetary values: percentage discounts are resolved
			// to their amount at conversion time.
			li := item.LineItem()
			invItems[i] = InvoiceItem{
				LineID:      id.New(),
				LineNo:      i + 1,
				ProductID:   prod.ID,
				Description: item.ProductName,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				Discount:    li.Discount(),
				Total:       li.Total(),
			}
		}

		if err := s.repo.SaveItems(ctx, inv.ID, invItems); err != nil {
			return fmt.Errorf("save invoice items: %w", err)
		}
		inv.Items = invItems

		q.Status = quote.StatusInvoiced
		q.Touch()
		if err := s.quotes.Update(ctx, q); err != nil {
			return fmt.Errorf("mark quote invoiced: %w", err)
		}

		s.recordAudit(ctx, inv.ID, audit.ActionConvert, map[string]any{
			"number":      inv.Number,
			"quoteNumber": q.Number,
			"total":       inv.TotalAmount.String(),
		})

		inv.Breakdown = &breakdown
		created = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "quote converted to invoice",
		"quote_id", quoteID,
		"invoice_id", created.ID,
		"number", created.Number)

	return created, nil
}

// GetByID retrieves an invoice with its item snapshot and, when the
// source quote still exists, a breakdown recomputed from the quote's
// current items and charge policy.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Invoice, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, doc)
}

// GetByNumber retrieves an invoice by its document number.
func (s *Service) GetByNumber(ctx context.Context, number string) (*Invoice, error) {
	doc, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, doc)
}

func (s *Service) enrich(ctx context.Context, doc *Invoice) (*Invoice, error) {
	items, err := s.repo.GetItems(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	doc.Items = items

	if doc.QuoteID != nil {
		q, err := s.quotes.GetByID(ctx, *doc.QuoteID)
		switch {
		case err == nil:
			quoteItems, err := s.quotes.GetItems(ctx, q.ID)
			if err != nil {
				return nil, fmt.Errorf("get quote items: %w", err)
			}
			q.Items = quoteItems
			breakdown := q.Breakdown()
			doc.Breakdown = &breakdown
		case apperror.IsNotFound(err):
			// Source quote gone, breakdown is no longer derivable.
		default:
			return nil, err
		}
	}

	return doc, nil
}

// List retrieves invoices with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Invoice], error) {
	return s.repo.List(ctx, filter)
}

// UpdateStatus sets the invoice status directly.
// This is the only path that cancels or un-cancels an invoice.
func (s *Service) UpdateStatus(ctx context.Context, docID id.ID, raw string) (*Invoice, error) {
	target, err := ParseStatus(raw)
	if err != nil {
		return nil, err
	}

	var updated *Invoice
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			return err
		}

		from := doc.Status
		doc.Status = target
		doc.Touch()

		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update invoice status: %w", err)
		}

		s.recordAudit(ctx, docID, audit.ActionStatusChange, map[string]any{
			"from": string(from),
			"to":   string(target),
		})

		updated = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteResult reports what invoice deletion did.
type DeleteResult struct {
	QuoteReverted bool `json:"quoteReverted"`
}

// Delete removes an invoice and reverts its quote to Approved in the
// same transaction. Deletion is blocked while payments exist: money
// already received must keep its paper trail. A missing source quote
// makes the revert a no-op, not an error.
func (s *Service) Delete(ctx context.Context, docID id.ID) (*DeleteResult, error) {
	result := &DeleteResult{}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			return err
		}

		count, err := s.repo.CountPayments(ctx, docID)
		if err != nil {
			return fmt.Errorf("count payments: %w", err)
		}
		if count > 0 {
			return apperror.NewConflict("cannot delete an invoice with recorded payments").
				WithDetail("id", docID.String()).
				WithDetail("payments", count)
		}

		if err := s.repo.Delete(ctx, docID); err != nil {
			return fmt.Errorf("delete invoice: %w", err)
		}

		if doc.QuoteID != nil {
			q, err := s.quotes.GetForUpdate(ctx, *doc.QuoteID)
			switch {
			case err == nil:
				q.Status = quote.StatusApproved
				q.Touch()
				if err := s.quotes.Update(ctx, q); err != nil {
					return fmt.Errorf("revert quote: %w", err)
				}
				result.QuoteReverted = true
			case apperror.IsNotFound(err):
				// Quote already gone, nothing to revert.
			default:
				return err
			}
		}

		s.recordAudit(ctx, docID, audit.ActionDelete, map[string]any{
			"number":        doc.Number,
			"quoteReverted": result.QuoteReverted,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RecordPayment inserts a payment and reconciles the invoice balance.
//
// amount_paid is always recomputed from the full payment history inside
// the same transaction, under a row lock on the invoice, so concurrent
// payments cannot lose updates. The derived status overwrites manual
// Pending/Overdue marks; Cancelled alone survives reconciliation.
func (s *Service) RecordPayment(ctx context.Context, invoiceID id.ID, p *Payment) (id.ID, error) {
	if !p.Amount.IsPositive() {
		return id.Nil(), apperror.NewValidation("payment amount must be positive").
			WithDetail("field", "amount").
			WithDetail("value", p.Amount.String())
	}

	var paymentID id.ID
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.repo.GetForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}

		if id.IsNil(p.ID) {
			p.ID = id.New()
		}
		p.InvoiceID = invoiceID
		if p.PaymentDate.IsZero() {
			p.PaymentDate = time.Now().UTC()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = time.Now().UTC()
		}

		if err := s.repo.CreatePayment(ctx, p); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}

		totalPaid, err := s.repo.SumPayments(ctx, invoiceID)
		if err != nil {
			return fmt.Errorf("sum payments: %w", err)
		}

		doc.Reconcile(totalPaid)

		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update invoice balance: %w", err)
		}

		s.recordAudit(ctx, invoiceID, audit.ActionPayment, map[string]any{
			"payment": p.ID.String(),
			"amount":  p.Amount.String(),
			"paid":    doc.AmountPaid.String(),
			"due":     doc.AmountDue.String(),
			"status":  string(doc.Status),
		})

		paymentID = p.ID
		return nil
	})
	if err != nil {
		return id.Nil(), err
	}
	return paymentID, nil
}

// GetPayments returns the payment history, ordered by creation.
func (s *Service) GetPayments(ctx context.Context, invoiceID id.ID) ([]Payment, error) {
	if _, err := s.repo.GetByID(ctx, invoiceID); err != nil {
		return nil, err
	}
	return s.repo.GetPayments(ctx, invoiceID)
}
