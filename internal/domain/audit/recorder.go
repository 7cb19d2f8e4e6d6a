// Package audit defines the audit trail contract used by document services.
package audit

import (
	"context"

	"metpro/internal/core/id"
)

// Action identifies the kind of audited operation.
type Action string

const (
	ActionCreate       Action = "create"
	ActionUpdate       Action = "update"
	ActionDelete       Action = "delete"
	ActionStatusChange Action = "status_change"
	ActionConvert      Action = "convert"
	ActionPayment      Action = "payment"
)

// Recorder records document lifecycle events.
// Implementations must be transaction-aware: entries written during a
// business transaction roll back with it.
type Recorder interface {
	Record(ctx context.Context, entityType string, entityID id.ID, action Action, changes map[string]any) error
}
