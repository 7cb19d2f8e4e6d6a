package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"metpro/internal/domain/catalogs/client"
	"metpro/internal/infrastructure/http/v1/dto"
)

// ClientHTTPHandler aliases the generic catalog handler for clients.
type ClientHTTPHandler = CatalogHandler[
	*client.Client,
	dto.CreateClientRequest,
	dto.UpdateClientRequest,
]

// ClientHandler extends the generic CRUD handler with client lookups.
type ClientHandler struct {
	*ClientHTTPHandler
	service *client.Service
}

// GetByRNC handles GET /clients/rnc/:rnc.
func (h *ClientHandler) GetByRNC(c *gin.Context) {
	ctx := c.Request.Context()

	found, err := h.service.GetByRNC(ctx, c.Param("rnc"))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromClient(found))
}

// NewClientHandler wires the client service into the generic handler.
func NewClientHandler(
	base *BaseHandler,
	service *client.Service,
) *ClientHandler {

	config := CatalogHandlerConfig[
		*client.Client,
		dto.CreateClientRequest,
		dto.UpdateClientRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "client",

		MapCreateDTO: func(req dto.CreateClientRequest) *client.Client {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateClientRequest, existing *client.Client) *client.Client {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *client.Client) any {
			return dto.FromClient(entity)
		},
	}

	return &ClientHandler{
		ClientHTTPHandler: NewCatalogHandler(base, config),
		service:           service,
	}
}
