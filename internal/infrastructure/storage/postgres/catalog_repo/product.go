package catalog_repo

import (
	"metpro/internal/domain"
	"metpro/internal/domain/catalogs/product"
	"metpro/internal/infrastructure/storage/postgres"
)

const productsTable = "cat_products"

var _ domain.CatalogRepository[*product.Product] = (*ProductRepo)(nil)

// ProductRepo implements domain.CatalogRepository for products.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txm *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*product.Product](
			txm,
			productsTable,
			postgres.ExtractDBColumns[product.Product](),
			func() *product.Product { return &product.Product{} },
		),
	}
}
