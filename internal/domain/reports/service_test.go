package reports

import (
	"context"
	"testing"
	"time"

	"metpro/internal/core/apperror"
)

type fakeRepo struct {
	lastSummaryFilter     BillingSummaryFilter
	lastReceivablesFilter ReceivablesFilter
}

func (f *fakeRepo) GetBillingSummary(_ context.Context, filter BillingSummaryFilter) (*BillingSummary, error) {
	f.lastSummaryFilter = filter
	return &BillingSummary{GeneratedAt: time.Now()}, nil
}

func (f *fakeRepo) GetReceivables(_ context.Context, filter ReceivablesFilter) (*Receivables, error) {
	f.lastReceivablesFilter = filter
	return &Receivables{GeneratedAt: time.Now()}, nil
}

func TestGetBillingSummary_InvertedRange(t *testing.T) {
	svc := NewService(&fakeRepo{})

	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, -1, 0)

	_, err := svc.GetBillingSummary(context.Background(), BillingSummaryFilter{
		DateFrom: &from,
		DateTo:   &to,
	})
	if !apperror.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetBillingSummary_OpenEndedRange(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	if _, err := svc.GetBillingSummary(context.Background(), BillingSummaryFilter{DateFrom: &from}); err != nil {
		t.Fatalf("GetBillingSummary: %v", err)
	}
	if repo.lastSummaryFilter.DateFrom == nil || !repo.lastSummaryFilter.DateFrom.Equal(from) {
		t.Fatalf("filter not passed through: %+v", repo.lastSummaryFilter)
	}
}

func TestGetReceivables_LimitClamping(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero gets default", 0, 100},
		{"negative gets default", -5, 100},
		{"within bounds kept", 250, 250},
		{"above cap clamped", 5000, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			svc := NewService(repo)

			if _, err := svc.GetReceivables(context.Background(), ReceivablesFilter{Limit: tt.limit}); err != nil {
				t.Fatalf("GetReceivables: %v", err)
			}
			if got := repo.lastReceivablesFilter.Limit; got != tt.want {
				t.Errorf("limit = %d, want %d", got, tt.want)
			}
		})
	}
}
