package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/smartkubik/inventory-core/internal/domain/entity"
)

// CreateRuleRequest body para POST /api/alert-rules. location_id vacío = regla
// global del producto.
type CreateRuleRequest struct {
	ProductID   string          `json:"product_id"`
	LocationID  string          `json:"location_id,omitempty"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
	Channels    []string        `json:"channels,omitempty"`
}

// UpdateRuleRequest body para PATCH /api/alert-rules/:id (parcial).
type UpdateRuleRequest struct {
	MinQuantity *decimal.Decimal `json:"min_quantity,omitempty"`
	Channels    []string         `json:"channels,omitempty"`
	IsActive    *bool            `json:"is_active,omitempty"`
	LocationID  *string          `json:"location_id,omitempty"`
}

// RuleListRequest query params para GET /api/alert-rules.
type RuleListRequest struct {
	PageRequest
	ProductID  string `query:"product_id"`
	LocationID string `query:"location_id"`
	ActiveOnly bool   `query:"active_only"`
}

// AlertRuleDTO representación HTTP de una regla.
type AlertRuleDTO struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	LocationID      string          `json:"location_id,omitempty"`
	MinQuantity     decimal.Decimal `json:"min_quantity"`
	Channels        []string        `json:"channels"`
	IsActive        bool            `json:"is_active"`
	IsDeleted       bool            `json:"is_deleted"`
	LastTriggeredAt *time.Time      `json:"last_triggered_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// NewAlertRuleDTO convierte la entidad a su representación HTTP.
func NewAlertRuleDTO(r *entity.AlertRule) AlertRuleDTO {
	return AlertRuleDTO{
		ID:              r.ID,
		ProductID:       r.ProductID,
		LocationID:      r.LocationID,
		MinQuantity:     r.MinQuantity,
		Channels:        r.Channels,
		IsActive:        r.IsActive,
		IsDeleted:       r.IsDeleted,
		LastTriggeredAt: r.LastTriggeredAt,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
