package quote

import (
	"context"
	"fmt"
	"time"

	"metpro/internal/core/apperror"
	"metpro/internal/core/id"
	"metpro/internal/core/tx"
	"metpro/internal/domain"
	"metpro/internal/domain/audit"
	"metpro/internal/domain/catalogs/client"
	"metpro/pkg/logger"
	"metpro/pkg/numerator"
)

// NumberPrefix for generated quote numbers (Q-2026-00001).
const NumberPrefix = "Q"

// Numbering generates document numbers. Satisfied by *numerator.Service.
type Numbering interface {
	GetNextNumber(ctx context.Context, cfg numerator.Config, opts *numerator.Options, period time.Time) (string, error)
}

// Service provides business operations for quotes.
type Service struct {
	repo      Repository
	clients   client.Directory
	numerator Numbering
	txManager tx.Manager
	auditor   audit.Recorder // optional
}

// NewService creates a new quote service.
func NewService(
	repo Repository,
	clients client.Directory,
	num Numbering,
	txManager tx.Manager,
	auditor audit.Recorder,
) *Service {
	return &Service{
		repo:      repo,
		clients:   clients,
		numerator: num,
		txManager: txManager,
		auditor:   auditor,
	}
}

func (s *Service) recordAudit(ctx context.Context, docID id.ID, action audit.Action, changes map[string]any) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Record(ctx, "quote", docID, action, changes); err != nil {
		logger.Warn(ctx, "audit record failed", "entity", "quote", "id", docID, "error", err)
	}
}

// Create creates a new Draft quote with generated number and computed total.
func (s *Service) Create(ctx context.Context, doc *Quote) error {
	doc.Status = StatusDraft

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	exists, err := s.clients.Exists(ctx, doc.ClientID)
	if err != nil {
		return fmt.Errorf("check client: %w", err)
	}
	if !exists {
		return apperror.NewNotFound("client", doc.ClientID.String())
	}

	doc.Recalculate()

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if doc.Number == "" {
			cfg := numerator.DefaultConfig(NumberPrefix)
			number, err := s.numerator.GetNextNumber(ctx, cfg, nil, time.Now())
			if err != nil {
				return fmt.Errorf("generate number: %w", err)
			}
			doc.Number = number
		}

		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create quote: %w", err)
		}
		if err := s.repo.SaveItems(ctx, doc.ID, doc.Items); err != nil {
			return fmt.Errorf("save items: %w", err)
		}

		s.recordAudit(ctx, doc.ID, audit.ActionCreate, map[string]any{
			"number": doc.Number,
			"client": doc.ClientID.String(),
			"total":  doc.TotalAmount.String(),
		})
		return nil
	})
}

// GetByID retrieves a quote with its items.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Quote, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetItems(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	doc.Items = items

	return doc, nil
}

// GetByNumber retrieves a quote by its document number.
func (s *Service) GetByNumber(ctx context.Context, number string) (*Quote, error) {
	doc, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetItems(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	doc.Items = items

	return doc, nil
}

// List retrieves quotes with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Quote], error) {
	return s.repo.List(ctx, filter)
}

// Update replaces a Draft quote's content and recomputes its total.
// Non-Draft quotes are immutable through this path.
func (s *Service) Update(ctx context.Context, doc *Quote) error {
	current, err := s.repo.GetByID(ctx, doc.ID)
	if err != nil {
		return err
	}

	if !current.IsEditable() {
		return apperror.NewConflict("only Draft quotes can be edited").
			WithDetail("id", doc.ID.String()).
			WithDetail("status", string(current.Status))
	}

	// Status and number are managed by dedicated operations.
	doc.Status = current.Status
	doc.Number = current.Number

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	doc.Recalculate()
	doc.Touch()

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update quote: %w", err)
		}
		if err := s.repo.SaveItems(ctx, doc.ID, doc.Items); err != nil {
			return fmt.Errorf("save items: %w", err)
		}

		s.recordAudit(ctx, doc.ID, audit.ActionUpdate, map[string]any{
			"total": doc.TotalAmount.String(),
		})
		return nil
	})
}

// UpdateStatus moves a quote through the lifecycle.
// Invoiced is not reachable here: it is set only by conversion.
func (s *Service) UpdateStatus(ctx context.Context, docID id.ID, raw string) (*Quote, error) {
	target, err := ParseStatus(raw)
	if err != nil {
		return nil, err
	}
	if target == StatusInvoiced {
		return nil, apperror.NewValidation("quotes become Invoiced only through conversion").
			WithDetail("field", "status")
	}

	var updated *Quote
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			return err
		}

		if err := doc.Status.Transition(target); err != nil {
			return err
		}

		from := doc.Status
		doc.Status = target
		doc.Touch()

		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update quote status: %w", err)
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

// Delete removes a quote and its items.
// Invoiced quotes cannot be deleted directly; delete the invoice first,
// which reverts the quote to Approved.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	if doc.Status == StatusInvoiced {
		return apperror.NewConflict("cannot delete an invoiced quote, delete its invoice first").
			WithDetail("id", docID.String())
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Delete(ctx, docID); err != nil {
			return fmt.Errorf("delete quote: %w", err)
		}
		s.recordAudit(ctx, docID, audit.ActionDelete, map[string]any{
			"number": doc.Number,
		})
		return nil
	})
}

// Duplicate copies a quote into a fresh Draft with a new number.
// Items and charge policy are copied wholesale, the notes get a marker.
func (s *Service) Duplicate(ctx context.Context, docID id.ID) (*Quote, error) {
	original, err := s.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	copied := NewQuote(original.ClientID)
	copied.ProjectName = original.ProjectName
	copied.PaymentTerms = original.PaymentTerms
	copied.ValidUntil = original.ValidUntil
	copied.IncludedCharges = original.IncludedCharges
	copied.TotalAmount = original.TotalAmount
	if original.Notes != "" {
		copied.Notes = "[DUPLICATE] " + original.Notes
	}

	copied.Items = make([]QuoteItem, len(original.Items))
	for i, item := range original.Items {
		copied.Items[i] = QuoteItem{
			LineID:        id.New(),
			LineNo:        i + 1,
			ProductName:   item.ProductName,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			DiscountType:  item.DiscountType,
			DiscountValue: item.DiscountValue,
		}
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		cfg := numerator.DefaultConfig(NumberPrefix)
		number, err := s.numerator.GetNextNumber(ctx, cfg, nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		copied.Number = number

		if err := s.repo.Create(ctx, copied); err != nil {
			return fmt.Errorf("create duplicate: %w", err)
		}
		if err := s.repo.SaveItems(ctx, copied.ID, copied.Items); err != nil {
			return fmt.Errorf("save items: %w", err)
		}

		s.recordAudit(ctx, copied.ID, audit.ActionCreate, map[string]any{
			"number":        copied.Number,
			"duplicated_of": original.Number,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return copied, nil
}
