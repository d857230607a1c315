package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/smartkubik/inventory-core/internal/application/alerts"
	"github.com/smartkubik/inventory-core/internal/application/dto"
	"github.com/smartkubik/inventory-core/internal/domain/repository"
)

// AlertHandler maneja el CRUD de reglas de alerta de stock bajo (protegido).
type AlertHandler struct {
	rules *alerts.RuleUseCase
}

// NewAlertHandler construye el handler.
func NewAlertHandler(rules *alerts.RuleUseCase) *AlertHandler {
	return &AlertHandler{rules: rules}
}

// Create godoc
// @Summary      Crear regla de alerta de stock bajo
// @Tags         alerts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRuleRequest  true  "location_id vacío = regla global del producto"
// @Success      201   {object}  dto.AlertRuleDTO
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/alert-rules [post]
func (h *AlertHandler) Create(c *fiber.Ctx) error {
	tenantID, userID := GetTenantID(c), GetUserID(c)
	if tenantID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateRuleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rule, err := h.rules.CreateRule(c.Context(), alerts.CreateRuleInput{
		TenantID:    tenantID,
		ActorID:     userID,
		ProductID:   in.ProductID,
		LocationID:  in.LocationID,
		MinQuantity: in.MinQuantity,
		Channels:    in.Channels,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewAlertRuleDTO(rule))
}

// GetByID godoc
// @Summary      Consultar una regla de alerta
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la regla"
// @Success      200  {object}  dto.AlertRuleDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alert-rules/{id} [get]
func (h *AlertHandler) GetByID(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	rule, err := h.rules.GetRule(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewAlertRuleDTO(rule))
}

// Update godoc
// @Summary      Actualizar una regla de alerta (parcial)
// @Tags         alerts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la regla"
// @Param        body  body  dto.UpdateRuleRequest  true  "campos omitidos no cambian"
// @Success      200   {object}  dto.AlertRuleDTO
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/alert-rules/{id} [patch]
func (h *AlertHandler) Update(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	var in dto.UpdateRuleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rule, err := h.rules.UpdateRule(c.Context(), tenantID, c.Params("id"), alerts.UpdateRuleInput{
		MinQuantity: in.MinQuantity,
		Channels:    in.Channels,
		IsActive:    in.IsActive,
		LocationID:  in.LocationID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewAlertRuleDTO(rule))
}

// Delete godoc
// @Summary      Eliminar una regla de alerta (soft delete, libera la clave)
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la regla"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alert-rules/{id} [delete]
func (h *AlertHandler) Delete(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	if err := h.rules.DeleteRule(c.Context(), tenantID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "regla eliminada"})
}

// List godoc
// @Summary      Listar reglas de alerta del tenant
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "Filtrar por producto"
// @Param        location_id  query  string  false  "Incluye reglas globales del producto"
// @Param        active_only  query  bool    false  "Solo reglas activas"
// @Success      200  {object}  map[string]any
// @Router       /api/alert-rules [get]
func (h *AlertHandler) List(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	var in dto.RuleListRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	rules, total, err := h.rules.ListRules(c.Context(), tenantID, repository.AlertRuleFilter{
		ProductID:  in.ProductID,
		LocationID: in.LocationID,
		ActiveOnly: in.ActiveOnly,
	}, in.Limit, in.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.AlertRuleDTO, 0, len(rules))
	for _, r := range rules {
		out = append(out, dto.NewAlertRuleDTO(r))
	}
	return c.JSON(fiber.Map{"rules": out, "total": total})
}
