package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/smartkubik/inventory-core/internal/application/dto"
	"github.com/smartkubik/inventory-core/internal/application/inventory"
)

// TransferHandler maneja traslados entre ubicaciones (protegido).
type TransferHandler struct {
	transfers *inventory.TransferUseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(transfers *inventory.TransferUseCase) *TransferHandler {
	return &TransferHandler{transfers: transfers}
}

// CreateTransfer godoc
// @Summary      Trasladar stock entre ubicaciones
// @Description  Escribe el par de entradas TRANSFER enlazadas en una sola transacción.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "product_id, from_location_id, to_location_id, quantity"
// @Success      201   {object}  map[string]any
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *TransferHandler) CreateTransfer(c *fiber.Ctx) error {
	tenantID, userID := GetTenantID(c), GetUserID(c)
	if tenantID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.transfers.CreateTransfer(c.Context(), inventory.TransferInput{
		TenantID:       tenantID,
		ActorID:        userID,
		ProductID:      in.ProductID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Quantity:       in.Quantity,
		Reason:         in.Reason,
		Reference:      in.Reference,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"transfer_id": result.TransferID,
		"out_entry":   dto.NewLedgerEntryDTO(result.OutEntry),
		"in_entry":    dto.NewLedgerEntryDTO(result.InEntry),
	})
}
