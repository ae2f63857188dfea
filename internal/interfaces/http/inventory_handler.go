package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain"
)

// InventoryHandler maneja los ajustes manuales de stock y el historial de movimientos.
type InventoryHandler struct {
	uc *inventory.StockUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.StockUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// AddStock godoc
// @Summary      Entrada manual de stock
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del producto"
// @Param        body  body  dto.AdjustStockRequest  true  "amount > 0, reason"
// @Success      200  {object}  dto.ProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/add-stock [post]
func (h *InventoryHandler) AddStock(c *fiber.Ctx) error {
	return h.adjust(c, +1)
}

// RemoveStock godoc
// @Summary      Salida manual de stock
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del producto"
// @Param        body  body  dto.AdjustStockRequest  true  "amount > 0, reason"
// @Success      200  {object}  dto.ProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/remove-stock [post]
func (h *InventoryHandler) RemoveStock(c *fiber.Ctx) error {
	return h.adjust(c, -1)
}

// adjust aplica el delta con el signo del endpoint. Amount siempre positivo.
func (h *InventoryHandler) adjust(c *fiber.Ctx, sign int64) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Amount <= 0 {
		return mapDomainError(c, domain.ErrInvalidInput)
	}
	product, err := h.uc.Apply(c.Context(), c.Params("id"), sign*in.Amount, in.Reason)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.ProductResponse{
		ID:                product.ID,
		SKU:               product.SKU,
		Name:              product.Name,
		Category:          product.Category,
		CostPrice:         product.CostPrice,
		SellingPrice:      product.SellingPrice,
		Quantity:          product.Quantity,
		LowStockThreshold: product.LowStockThreshold,
		LowStock:          product.Quantity <= product.LowStockThreshold,
		CreatedAt:         product.CreatedAt,
		UpdatedAt:         product.UpdatedAt,
	})
}

// ListMovements godoc
// @Summary      Historial de movimientos de un producto
// @Tags         inventory
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        limit   query  int     false  "Tamaño de página (def. 20)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/products/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	list, err := h.uc.ListMovements(c.Params("id"), page)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(list)
}
