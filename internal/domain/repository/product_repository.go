package repository

import (
	"context"

	"github.com/smartkubik/inventory-core/internal/domain/entity"
)

// ProductRepository puerto de persistencia del catálogo de productos.
// Los métodos Get devuelven (nil, nil) cuando el recurso no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, tenantID, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Product, int, error)
}
