package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"metpro/internal/core/apperror"
	"metpro/internal/core/id"
	"metpro/internal/infrastructure/storage/postgres"
)

// AuditHandler serves document change history.
type AuditHandler struct {
	*BaseHandler
	audit *postgres.AuditService
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(base *BaseHandler, audit *postgres.AuditService) *AuditHandler {
	return &AuditHandler{
		BaseHandler: base,
		audit:       audit,
	}
}

type auditEntryResponse struct {
	ID        string          `json:"id"`
	Action    string          `json:"action"`
	Changes   json.RawMessage `json:"changes,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// History returns a handler for GET /{entity}/:id/history.
func (h *AuditHandler) History(entityType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		entityID, err := id.Parse(c.Param("id"))
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid id format"))
			return
		}

		limit := h.ParseIntQuery(c, "limit", 50)

		entries, err := h.audit.GetEntityHistory(ctx, entityType, entityID, limit)
		if err != nil {
			h.Error(c, err)
			return
		}

		items := make([]auditEntryResponse, len(entries))
		for i, e := range entries {
			items[i] = auditEntryResponse{
				ID:        e.ID.String(),
				Action:    string(e.Action),
				Changes:   e.Changes,
				CreatedAt: e.CreatedAt,
			}
		}

		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}
