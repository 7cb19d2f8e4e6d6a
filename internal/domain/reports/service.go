package reports

import (
	"context"
	"fmt"

	"metpro/internal/core/apperror"
)

// Service provides report generation operations.
type Service struct {
	repo Repository
}

// NewService creates a new reports service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetBillingSummary generates the billing summary report.
func (s *Service) GetBillingSummary(ctx context.Context, filter BillingSummaryFilter) (*BillingSummary, error) {
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		return nil, apperror.NewValidation("dateFrom must be before dateTo")
	}

	report, err := s.repo.GetBillingSummary(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get billing summary: %w", err)
	}
	return report, nil
}

// GetReceivables generates the per-client receivables report.
func (s *Service) GetReceivables(ctx context.Context, filter ReceivablesFilter) (*Receivables, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}

	report, err := s.repo.GetReceivables(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get receivables: %w", err)
	}
	return report, nil
}
