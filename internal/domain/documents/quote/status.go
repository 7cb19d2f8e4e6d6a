package quote

import (
	"metpro/internal/core/apperror"
)

// Status is the quote lifecycle state.
type Status string

const (
	StatusDraft    Status = "Draft"
	StatusSent     Status = "Sent"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
	StatusInvoiced Status = "Invoiced"
)

// transitions is the single legal-transition table for quotes.
// Invoiced is reached only through conversion, and reverted to Approved
// only by invoice deletion; both bypass CanTransition on purpose.
var transitions = map[Status][]Status{
	StatusDraft:    {StatusSent, StatusApproved, StatusRejected},
	StatusSent:     {StatusApproved, StatusRejected},
	StatusApproved: {StatusInvoiced},
	StatusRejected: {},
	StatusInvoiced: {},
}

// ParseStatus validates a raw status string.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if _, ok := transitions[status]; !ok {
		return "", apperror.NewValidation("invalid quote status").
			WithDetail("field", "status").
			WithDetail("value", s)
	}
	return status, nil
}

// CanTransition reports whether moving from s to target is legal.
func (s Status) CanTransition(target Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Transition validates the move and returns the structured error callers
// surface to the API layer.
func (s Status) Transition(target Status) error {
	if _, ok := transitions[target]; !ok {
		return apperror.NewValidation("invalid quote status").
			WithDetail("field", "status").
			WithDetail("value", string(target))
	}
	if !s.CanTransition(target) {
		return apperror.NewIllegalTransition("quote", string(s), string(target))
	}
	return nil
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}
