package product

import (
	"context"

	"metpro/internal/core/tx"
	"metpro/internal/domain"
)

// Service provides business operations for products.
type Service struct {
	*domain.CatalogService[*Product]
}

// NewService creates a new product service.
func NewService(repo domain.CatalogRepository[*Product], txManager tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
			Repo:       repo,
			TxManager:  txManager,
			EntityName: "product",
		}),
	}
}

// Resolver is the narrow view invoice conversion needs: resolving a quote
// item's product name to a product row.
type Resolver interface {
	GetByName(ctx context.Context, name string) (*Product, error)
}

var _ Resolver = (*Service)(nil)
