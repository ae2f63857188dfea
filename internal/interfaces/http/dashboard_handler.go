package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetOverview devuelve el resumen del inventario.
// GET /api/dashboard/overview
//
// Respuesta: DashboardOverviewDTO (totalInventoryValue, lowStockCount,
// topSelling[5], totalSales). No requiere parámetros.
func (h *DashboardHandler) GetOverview(c *fiber.Ctx) error {
	overview, err := h.uc.GetOverview(c.Context())
	if err != nil {
		// Una BD inalcanzable debe salir como 503 reintentable, no como 500.
		return mapDomainError(c, err)
	}
	return c.JSON(overview)
}
