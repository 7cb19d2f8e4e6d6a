package quote

import (
	"testing"

	"metpro/internal/core/apperror"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusDraft, StatusSent, true},
		{StatusDraft, StatusApproved, true},
		{StatusDraft, StatusRejected, true},
		{StatusDraft, StatusInvoiced, false},
		{StatusSent, StatusApproved, true},
		{StatusSent, StatusRejected, true},
		{StatusSent, StatusDraft, false},
		{StatusApproved, StatusInvoiced, true},
		{StatusApproved, StatusRejected, false},
		{StatusApproved, StatusDraft, false},
		{StatusRejected, StatusDraft, false},
		{StatusRejected, StatusSent, false},
		{StatusInvoiced, StatusApproved, false},
		{StatusInvoiced, StatusDraft, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.allowed {
			t.Errorf("CanTransition(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestTransition_Illegal(t *testing.T) {
	err := StatusRejected.Transition(StatusApproved)
	if err == nil {
		t.Fatal("expected error for Rejected -> Approved")
	}

	appErr, ok := apperror.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != apperror.CodeIllegalTransition {
		t.Errorf("code = %s, want %s", appErr.Code, apperror.CodeIllegalTransition)
	}
	if appErr.Details["current"] != "Rejected" || appErr.Details["requested"] != "Approved" {
		t.Errorf("details = %v, want current=Rejected requested=Approved", appErr.Details)
	}
}

func TestTransition_UnknownTarget(t *testing.T) {
	err := StatusDraft.Transition(Status("Archived"))
	if !apperror.IsValidation(err) {
		t.Errorf("expected validation error for unknown status, got %v", err)
	}
}

func TestParseStatus(t *testing.T) {
	if _, err := ParseStatus("Approved"); err != nil {
		t.Errorf("ParseStatus(Approved) failed: %v", err)
	}
	if _, err := ParseStatus("approved"); err == nil {
		t.Error("ParseStatus is case-sensitive, lowercase should fail")
	}
	if _, err := ParseStatus(""); err == nil {
		t.Error("ParseStatus(\"\") should fail")
	}
}

func TestIsTerminal(t *testing.T) {
	for status, terminal := range map[Status]bool{
		StatusDraft:    false,
		StatusSent:     false,
		StatusApproved: false,
		StatusRejected: true,
		StatusInvoiced: true,
	} {
		if got := status.IsTerminal(); got != terminal {
			t.Errorf("IsTerminal(%s) = %v, want %v", status, got, terminal)
		}
	}
}
