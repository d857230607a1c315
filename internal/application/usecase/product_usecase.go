package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/smartkubik/inventory-core/internal/domain"
	"github.com/smartkubik/inventory-core/internal/domain/entity"
	"github.com/smartkubik/inventory-core/internal/domain/repository"
)

// ProductUseCase CRUD del catálogo de productos (colaborador del núcleo de
// inventario: el motor solo le consulta existencia y estado).
type ProductUseCase struct {
	productRepo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(productRepo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo}
}

// CreateProductInput entrada para crear un producto.
type CreateProductInput struct {
	TenantID    string
	SKU         string
	Name        string
	UnitMeasure string
}

// Create registra un producto nuevo. Duplicate si el SKU ya existe en el tenant.
func (uc *ProductUseCase) Create(ctx context.Context, input CreateProductInput) (*entity.Product, error) {
	if input.SKU == "" || input.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		TenantID:    input.TenantID,
		SKU:         input.SKU,
		Name:        input.Name,
		UnitMeasure: input.UnitMeasure,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetByID devuelve un producto del tenant.
func (uc *ProductUseCase) GetByID(ctx context.Context, tenantID, id string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// UpdateProductInput actualización parcial.
type UpdateProductInput struct {
	Name        *string
	UnitMeasure *string
	IsActive    *bool
}

// Update actualiza nombre, unidad o estado.
func (uc *ProductUseCase) Update(ctx context.Context, tenantID, id string, input UpdateProductInput) (*entity.Product, error) {
	product, err := uc.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if product.IsDeleted {
		return nil, domain.ErrNotFound
	}
	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.UnitMeasure != nil {
		product.UnitMeasure = *input.UnitMeasure
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete soft delete del producto (conserva historial de movimientos).
func (uc *ProductUseCase) Delete(ctx context.Context, tenantID, id string) error {
	product, err := uc.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if product.IsDeleted {
		return domain.ErrNotFound
	}
	return uc.productRepo.SoftDelete(ctx, id)
}

// List listado paginado de productos del tenant.
func (uc *ProductUseCase) List(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Product, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return uc.productRepo.List(ctx, tenantID, limit, offset)
}
