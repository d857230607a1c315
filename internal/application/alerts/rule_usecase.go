package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smartkubik/inventory-core/internal/domain"
	"github.com/smartkubik/inventory-core/internal/domain/entity"
	"github.com/smartkubik/inventory-core/internal/domain/repository"
	"github.com/smartkubik/inventory-core/pkg/logger"
)

// RuleUseCase gestión de reglas de alerta (crear, actualizar, soft delete, listar).
type RuleUseCase struct {
	ruleRepo     repository.AlertRuleRepository
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	log          *logger.Logger
}

// NewRuleUseCase construye el caso de uso.
func NewRuleUseCase(
	ruleRepo repository.AlertRuleRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	log *logger.Logger,
) *RuleUseCase {
	return &RuleUseCase{
		ruleRepo:     ruleRepo,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		log:          log,
	}
}

// CreateRuleInput entrada para crear una regla. LocationID vacío = regla global
// (aplica a todas las ubicaciones del producto).
type CreateRuleInput struct {
	TenantID    string
	ActorID     string
	ProductID   string
	LocationID  string
	MinQuantity decimal.Decimal
	Channels    []string
}

// UpdateRuleInput actualización parcial; los punteros nil no modifican el campo.
type UpdateRuleInput struct {
	MinQuantity *decimal.Decimal
	Channels    []string
	IsActive    *bool
	LocationID  *string // cambio de alcance; "" vuelve la regla global
}

// CreateRule crea una regla nueva. Conflict si ya existe una regla no eliminada para
// la clave (producto, ubicación).
func (uc *RuleUseCase) CreateRule(ctx context.Context, input CreateRuleInput) (*entity.AlertRule, error) {
	if input.ProductID == "" || input.MinQuantity.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.checkScope(ctx, input.TenantID, input.ProductID, input.LocationID); err != nil {
		return nil, err
	}

	existing, err := uc.ruleRepo.GetLiveByKey(ctx, input.TenantID, input.ProductID, input.LocationID)
	if err != nil {
		return nil, fmt.Errorf("buscar regla existente: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrConflict
	}

	channels := input.Channels
	if len(channels) == 0 {
		channels = []string{entity.AlertChannelTask, entity.AlertChannelInApp}
	}

	now := time.Now()
	rule := &entity.AlertRule{
		ID:          uuid.New().String(),
		TenantID:    input.TenantID,
		ProductID:   input.ProductID,
		LocationID:  input.LocationID,
		MinQuantity: input.MinQuantity,
		Channels:    channels,
		IsActive:    true,
		CreatedBy:   input.ActorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.ruleRepo.Create(ctx, rule); err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("tenant_id", input.TenantID).
		Str("rule_id", rule.ID).
		Str("product_id", input.ProductID).
		Msg("regla de alerta creada")
	return rule, nil
}

// UpdateRule actualización parcial de umbral/canales/estado/alcance. NotFound si la
// regla no existe, no es del tenant o está eliminada.
func (uc *RuleUseCase) UpdateRule(ctx context.Context, tenantID, ruleID string, input UpdateRuleInput) (*entity.AlertRule, error) {
	rule, err := uc.ruleRepo.GetByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	if rule == nil || rule.TenantID != tenantID || rule.IsDeleted {
		return nil, domain.ErrNotFound
	}

	if input.MinQuantity != nil {
		if input.MinQuantity.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		rule.MinQuantity = *input.MinQuantity
	}
	if input.Channels != nil {
		rule.Channels = input.Channels
	}
	if input.IsActive != nil {
		rule.IsActive = *input.IsActive
	}
	if input.LocationID != nil && *input.LocationID != rule.LocationID {
		if err := uc.checkScope(ctx, tenantID, rule.ProductID, *input.LocationID); err != nil {
			return nil, err
		}
		// El alcance nuevo no puede chocar con otra regla viva.
		existing, err := uc.ruleRepo.GetLiveByKey(ctx, tenantID, rule.ProductID, *input.LocationID)
		if err != nil {
			return nil, fmt.Errorf("buscar regla existente: %w", err)
		}
		if existing != nil && existing.ID != rule.ID {
			return nil, domain.ErrConflict
		}
		rule.LocationID = *input.LocationID
	}

	rule.UpdatedAt = time.Now()
	if err := uc.ruleRepo.Update(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// DeleteRule soft delete: marca is_deleted, apaga is_active y limpia
// last_triggered_at, liberando la clave (producto, ubicación) y conservando el
// historial de auditoría.
func (uc *RuleUseCase) DeleteRule(ctx context.Context, tenantID, ruleID string) error {
	rule, err := uc.ruleRepo.GetByID(ctx, ruleID)
	if err != nil {
		return err
	}
	if rule == nil || rule.TenantID != tenantID || rule.IsDeleted {
		return domain.ErrNotFound
	}
	return uc.ruleRepo.SoftDelete(ctx, ruleID)
}

// GetRule devuelve una regla del tenant (eliminadas incluidas: son historial).
func (uc *RuleUseCase) GetRule(ctx context.Context, tenantID, ruleID string) (*entity.AlertRule, error) {
	rule, err := uc.ruleRepo.GetByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	if rule == nil || rule.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	return rule, nil
}

// ListRules listado paginado, más recientes primero. Un filtro de ubicación incluye
// también las reglas globales, porque esas aplican en todas partes.
func (uc *RuleUseCase) ListRules(ctx context.Context, tenantID string, f repository.AlertRuleFilter, limit, offset int) ([]*entity.AlertRule, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return uc.ruleRepo.List(ctx, tenantID, f, limit, offset)
}

// checkScope valida que producto (y ubicación, si se indica) existan, sean del tenant
// y estén utilizables.
func (uc *RuleUseCase) checkScope(ctx context.Context, tenantID, productID, locationID string) error {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil || product.TenantID != tenantID {
		return domain.ErrNotFound
	}
	if !product.Usable() {
		return domain.ErrInvalidState
	}
	if locationID != "" {
		location, err := uc.locationRepo.GetByID(ctx, locationID)
		if err != nil {
			return err
		}
		if location == nil || location.TenantID != tenantID {
			return domain.ErrNotFound
		}
		if !location.Usable() {
			return domain.ErrInvalidState
		}
	}
	return nil
}
