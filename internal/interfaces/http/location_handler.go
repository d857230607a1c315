package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/smartkubik/inventory-core/internal/application/dto"
	"github.com/smartkubik/inventory-core/internal/application/usecase"
)

// LocationHandler maneja el registro de ubicaciones/bodegas (protegido).
type LocationHandler struct {
	uc *usecase.LocationUseCase
}

// NewLocationHandler construye el handler.
func NewLocationHandler(uc *usecase.LocationUseCase) *LocationHandler {
	return &LocationHandler{uc: uc}
}

// Create godoc
// @Summary      Crear ubicación
// @Tags         locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLocationRequest  true  "name obligatorio"
// @Success      201   {object}  dto.LocationDTO
// @Router       /api/locations [post]
func (h *LocationHandler) Create(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	var in dto.CreateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	location, err := h.uc.Create(c.Context(), usecase.CreateLocationInput{
		TenantID: tenantID,
		Name:     in.Name,
		Address:  in.Address,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewLocationDTO(location))
}

// GetByID godoc
// @Summary      Consultar ubicación
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la ubicación"
// @Success      200  {object}  dto.LocationDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/locations/{id} [get]
func (h *LocationHandler) GetByID(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	location, err := h.uc.GetByID(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewLocationDTO(location))
}

// Update godoc
// @Summary      Actualizar ubicación (parcial)
// @Tags         locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la ubicación"
// @Param        body  body  dto.UpdateLocationRequest  true  "campos omitidos no cambian"
// @Success      200   {object}  dto.LocationDTO
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/locations/{id} [patch]
func (h *LocationHandler) Update(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	var in dto.UpdateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	location, err := h.uc.Update(c.Context(), tenantID, c.Params("id"), usecase.UpdateLocationInput{
		Name:     in.Name,
		Address:  in.Address,
		IsActive: in.IsActive,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewLocationDTO(location))
}

// Delete godoc
// @Summary      Eliminar ubicación (soft delete)
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la ubicación"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/locations/{id} [delete]
func (h *LocationHandler) Delete(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	if err := h.uc.Delete(c.Context(), tenantID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "ubicación eliminada"})
}

// List godoc
// @Summary      Listar ubicaciones del tenant
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /api/locations [get]
func (h *LocationHandler) List(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	locations, total, err := h.uc.List(c.Context(), tenantID, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.LocationDTO, 0, len(locations))
	for _, l := range locations {
		out = append(out, dto.NewLocationDTO(l))
	}
	return c.JSON(fiber.Map{"locations": out, "total": total})
}
