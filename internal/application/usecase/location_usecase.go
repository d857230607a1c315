package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/smartkubik/inventory-core/internal/domain"
	"github.com/smartkubik/inventory-core/internal/domain/entity"
	"github.com/smartkubik/inventory-core/internal/domain/repository"
)

// LocationUseCase CRUD del registro de ubicaciones/bodegas.
type LocationUseCase struct {
	locationRepo repository.LocationRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(locationRepo repository.LocationRepository) *LocationUseCase {
	return &LocationUseCase{locationRepo: locationRepo}
}

// CreateLocationInput entrada para crear una ubicación.
type CreateLocationInput struct {
	TenantID string
	Name     string
	Address  string
}

// Create registra una ubicación nueva.
func (uc *LocationUseCase) Create(ctx context.Context, input CreateLocationInput) (*entity.Location, error) {
	if input.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	location := &entity.Location{
		ID:        uuid.New().String(),
		TenantID:  input.TenantID,
		Name:      input.Name,
		Address:   input.Address,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.locationRepo.Create(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

// GetByID devuelve una ubicación del tenant.
func (uc *LocationUseCase) GetByID(ctx context.Context, tenantID, id string) (*entity.Location, error) {
	location, err := uc.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if location == nil || location.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	return location, nil
}

// UpdateLocationInput actualización parcial.
type UpdateLocationInput struct {
	Name     *string
	Address  *string
	IsActive *bool
}

// Update actualiza nombre, dirección o estado.
func (uc *LocationUseCase) Update(ctx context.Context, tenantID, id string, input UpdateLocationInput) (*entity.Location, error) {
	location, err := uc.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if location.IsDeleted {
		return nil, domain.ErrNotFound
	}
	if input.Name != nil {
		location.Name = *input.Name
	}
	if input.Address != nil {
		location.Address = *input.Address
	}
	if input.IsActive != nil {
		location.IsActive = *input.IsActive
	}
	location.UpdatedAt = time.Now()
	if err := uc.locationRepo.Update(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

// Delete soft delete de la ubicación.
func (uc *LocationUseCase) Delete(ctx context.Context, tenantID, id string) error {
	location, err := uc.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if location.IsDeleted {
		return domain.ErrNotFound
	}
	return uc.locationRepo.SoftDelete(ctx, id)
}

// List listado paginado de ubicaciones del tenant.
func (uc *LocationUseCase) List(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Location, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return uc.locationRepo.List(ctx, tenantID, limit, offset)
}
