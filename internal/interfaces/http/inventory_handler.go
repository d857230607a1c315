package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/smartkubik/inventory-core/internal/application/dto"
	"github.com/smartkubik/inventory-core/internal/application/inventory"
	"github.com/smartkubik/inventory-core/internal/domain/repository"
)

// InventoryHandler maneja movimientos, reservas y consultas de stock (protegido).
type InventoryHandler struct {
	movements *inventory.MovementUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(movements *inventory.MovementUseCase) *InventoryHandler {
	return &InventoryHandler{movements: movements}
}

// CreateMovement godoc
// @Summary      Registrar movimiento de inventario (IN, OUT o ADJUSTMENT)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "ADJUSTMENT usa quantity como delta firmado; enforce_stock=false permite saldo negativo"
// @Success      201   {object}  dto.LedgerEntryDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) CreateMovement(c *fiber.Ctx) error {
	tenantID, userID := GetTenantID(c), GetUserID(c)
	if tenantID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	enforce := true
	if in.EnforceStock != nil {
		enforce = *in.EnforceStock
	}
	entry, err := h.movements.CreateMovement(c.Context(), inventory.MovementInput{
		TenantID:     tenantID,
		ActorID:      userID,
		ProductID:    in.ProductID,
		LocationID:   in.LocationID,
		Type:         in.Type,
		Quantity:     in.Quantity,
		UnitCost:     in.UnitCost,
		EnforceStock: enforce,
		Opts: inventory.MovementOptions{
			Reason:    in.Reason,
			Reference: in.Reference,
			OrderID:   in.OrderID,
			Bin:       in.Bin,
			NewCost:   in.NewCost,
		},
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewLedgerEntryDTO(entry))
}

// ListMovements godoc
// @Summary      Consultar el ledger de movimientos (más recientes primero)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        type        query  string  false  "IN, OUT, ADJUSTMENT, TRANSFER, RESERVATION, RELEASE"
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        location_id query  string  false  "Filtrar por ubicación"
// @Param        order_id    query  string  false  "Filtrar por orden"
// @Param        date_from   query  string  false  "RFC 3339"
// @Param        date_to     query  string  false  "RFC 3339"
// @Success      200  {object}  map[string]any
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	var in dto.MovementListRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	filter := repository.LedgerFilter{
		Type:       in.Type,
		ProductID:  in.ProductID,
		LocationID: in.LocationID,
		OrderID:    in.OrderID,
	}
	if in.DateFrom != "" {
		t, err := time.Parse(time.RFC3339, in.DateFrom)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "date_from inválido (RFC 3339)"})
		}
		filter.DateFrom = &t
	}
	if in.DateTo != "" {
		t, err := time.Parse(time.RFC3339, in.DateTo)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "date_to inválido (RFC 3339)"})
		}
		filter.DateTo = &t
	}
	entries, total, err := h.movements.ListMovements(c.Context(), tenantID, filter, in.Limit, in.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.LedgerEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.NewLedgerEntryDTO(e))
	}
	return c.JSON(fiber.Map{"movements": out, "total": total})
}

// Reserve godoc
// @Summary      Reservar stock disponible para una orden
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReserveRequest  true  "product_id, location_id, quantity, order_id"
// @Success      201   {object}  dto.LedgerEntryDTO
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/reservations [post]
func (h *InventoryHandler) Reserve(c *fiber.Ctx) error {
	tenantID, userID := GetTenantID(c), GetUserID(c)
	if tenantID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.ReserveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entry, err := h.movements.Reserve(c.Context(), inventory.ReserveInput{
		TenantID:   tenantID,
		ActorID:    userID,
		ProductID:  in.ProductID,
		LocationID: in.LocationID,
		Quantity:   in.Quantity,
		OrderID:    in.OrderID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewLedgerEntryDTO(entry))
}

// Release godoc
// @Summary      Liberar las reservas de una orden
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReleaseRequest  true  "order_id; product_ids opcional limita qué liberar"
// @Success      200   {object}  map[string]any
// @Router       /api/inventory/releases [post]
func (h *InventoryHandler) Release(c *fiber.Ctx) error {
	tenantID, userID := GetTenantID(c), GetUserID(c)
	if tenantID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.ReleaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entries, err := h.movements.Release(c.Context(), inventory.ReleaseInput{
		TenantID:   tenantID,
		ActorID:    userID,
		OrderID:    in.OrderID,
		ProductIDs: in.ProductIDs,
	})
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.LedgerEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.NewLedgerEntryDTO(e))
	}
	return c.JSON(fiber.Map{"released": out, "total": len(out)})
}

// CreateStockItem godoc
// @Summary      Crear el agregado de stock para (producto, ubicación)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockItemRequest  true  "saldo inicial positivo queda como entrada IN en el ledger"
// @Success      201   {object}  dto.StockItemDTO
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock-items [post]
func (h *InventoryHandler) CreateStockItem(c *fiber.Ctx) error {
	tenantID, userID := GetTenantID(c), GetUserID(c)
	if tenantID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateStockItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.movements.CreateStockItem(c.Context(), inventory.CreateStockItemInput{
		TenantID:        tenantID,
		ActorID:         userID,
		ProductID:       in.ProductID,
		LocationID:      in.LocationID,
		Bin:             in.Bin,
		InitialQuantity: in.InitialQuantity,
		InitialCost:     in.InitialCost,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewStockItemDTO(item))
}

// GetStockItem godoc
// @Summary      Consultar un agregado de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del agregado"
// @Success      200  {object}  dto.StockItemDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-items/{id} [get]
func (h *InventoryHandler) GetStockItem(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	item, err := h.movements.GetStockItem(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewStockItemDTO(item))
}

// ListStockItems godoc
// @Summary      Listar agregados de stock del tenant
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "Filtrar por producto"
// @Param        location_id  query  string  false  "Filtrar por ubicación"
// @Param        low_stock    query  bool    false  "Solo agregados con bandera de stock bajo"
// @Param        active       query  bool    false  "Solo agregados activos"
// @Success      200  {object}  map[string]any
// @Router       /api/stock-items [get]
func (h *InventoryHandler) ListStockItems(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	filter := repository.StockItemFilter{
		ProductID:    c.Query("product_id"),
		LocationID:   c.Query("location_id"),
		LowStockOnly: c.QueryBool("low_stock"),
		ActiveOnly:   c.QueryBool("active"),
	}
	items, total, err := h.movements.ListStockItems(c.Context(), tenantID, filter, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.StockItemDTO, 0, len(items))
	for _, s := range items {
		out = append(out, dto.NewStockItemDTO(s))
	}
	return c.JSON(fiber.Map{"stock_items": out, "total": total})
}

// AcknowledgeLowStock godoc
// @Summary      Reconocer la alerta de stock bajo (apaga la bandera)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del agregado"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-items/{id}/acknowledge-low-stock [post]
func (h *InventoryHandler) AcknowledgeLowStock(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	if err := h.movements.AcknowledgeLowStock(c.Context(), tenantID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "alerta reconocida"})
}

// DeactivateStockItem godoc
// @Summary      Desactivar un agregado de stock (el ledger se conserva)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del agregado"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-items/{id} [delete]
func (h *InventoryHandler) DeactivateStockItem(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	if err := h.movements.DeactivateStockItem(c.Context(), tenantID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "agregado desactivado"})
}
