package client

import (
	"context"

	"metpro/internal/core/id"
	"metpro/internal/core/tx"
	"metpro/internal/domain"
)

// Repository is the client storage contract.
type Repository interface {
	domain.CatalogRepository[*Client]

	// FindByRNC retrieves a client by tax registration number
	FindByRNC(ctx context.Context, rnc string) (*Client, error)
}

// Service provides business operations for clients.
type Service struct {
	*domain.CatalogService[*Client]

	repo Repository
}

// NewService creates a new client service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Client]{
			Repo:       repo,
			TxManager:  txManager,
			EntityName: "client",
		}),
		repo: repo,
	}
}

// GetByRNC retrieves a client by tax registration number.
func (s *Service) GetByRNC(ctx context.Context, rnc string) (*Client, error) {
	return s.repo.FindByRNC(ctx, rnc)
}

// Directory is the narrow view document services need: existence checks
// for foreign key validation.
type Directory interface {
	Exists(ctx context.Context, clientID id.ID) (bool, error)
}

var _ Directory = (*Service)(nil)
