package repository

import (
	"context"

	"github.com/smartkubik/inventory-core/internal/domain/entity"
)

// LocationRepository puerto de persistencia del registro de ubicaciones/bodegas.
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	Update(ctx context.Context, location *entity.Location) error
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Location, int, error)
}
