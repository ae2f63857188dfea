package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// TopProductResult resultado crudo del ranking de productos más vendidos.
type TopProductResult struct {
	ProductID   string
	SKU         string
	ProductName string
	UnitsSold   int64
}

// DashboardRepository define las consultas de lectura para el dashboard.
// Las implementaciones son read-only (no modifican datos) y toleran un
// conjunto de datos vacío devolviendo cero/listas vacías, nunca error.
type DashboardRepository interface {
	// TotalInventoryValue suma quantity * cost_price de todos los productos.
	TotalInventoryValue(ctx context.Context) (decimal.Decimal, error)

	// LowStockCount número de productos con quantity <= low_stock_threshold.
	LowStockCount(ctx context.Context) (int, error)

	// TopSellingProducts devuelve los `limit` productos con más unidades
	// vendidas (suma de sale.quantity), descendente; empates desempatados
	// por id de producto para un orden determinista.
	TopSellingProducts(ctx context.Context, limit int) ([]TopProductResult, error)

	// TotalRevenue suma total_amount de todas las ventas.
	TotalRevenue(ctx context.Context) (decimal.Decimal, error)
}
