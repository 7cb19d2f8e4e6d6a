package invoice

import (
	"metpro/internal/core/apperror"
)

// Status is the invoice lifecycle state.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusPaid      Status = "Paid"
	StatusCancelled Status = "Cancelled"
	StatusOverdue   Status = "Overdue"
)

var validStatuses = map[Status]bool{
	StatusPending:   true,
	StatusPaid:      true,
	StatusCancelled: true,
	StatusOverdue:   true,
}

// ParseStatus validates a raw status string.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !validStatuses[status] {
		return "", apperror.NewValidation("invalid invoice status").
			WithDetail("field", "status").
			WithDetail("value", s)
	}
	return status, nil
}

// DeriveFromBalance returns the status payment reconciliation assigns.
// Cancelled is terminal for auto-derivation: payment math never overrides
// an explicit cancellation. Everything else yields Paid once the balance
// reaches zero, Pending otherwise (including previously Overdue invoices,
// since money changing hands resets the manual marking).
func DeriveFromBalance(current Status, dueIsZeroOrLess bool) Status {
	if current == StatusCancelled {
		return StatusCancelled
	}
	if dueIsZeroOrLess {
		return StatusPaid
	}
	return StatusPending
}
