package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"metpro/internal/core/apperror"
	"metpro/internal/domain/catalogs/client"
	"metpro/internal/infrastructure/storage/postgres"
)

const clientsTable = "cat_clients"

var _ client.Repository = (*ClientRepo)(nil)

// ClientRepo implements domain.CatalogRepository for clients.
type ClientRepo struct {
	*BaseCatalogRepo[*client.Client]
}

// NewClientRepo creates a new client repository.
func NewClientRepo(txm *postgres.TxManager) *ClientRepo {
	return &ClientRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*client.Client](
			txm,
			clientsTable,
			postgres.ExtractDBColumns[client.Client](),
			func() *client.Client { return &client.Client{} },
		),
	}
}

// FindByRNC retrieves a client by tax registration number.
func (r *ClientRepo) FindByRNC(ctx context.Context, rnc string) (*client.Client, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"rnc": rnc}).
		Limit(1)

	c, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("client", rnc)
		}
		return nil, err
	}
	return c, nil
}
