package dto

import "github.com/shopspring/decimal"

// DashboardOverviewDTO respuesta de GET /api/dashboard/overview.
// Las claves JSON se mantienen compatibles con el frontend existente.
type DashboardOverviewDTO struct {
	TotalInventoryValue decimal.Decimal `json:"totalInventoryValue"` // suma quantity * cost_price
	LowStockCount       int             `json:"lowStockCount"`
	TopSelling          []TopProductDTO `json:"topSelling"` // top 5 por unidades vendidas
	TotalSales          decimal.Decimal `json:"totalSales"` // suma total_amount de todas las ventas
}

// TopProductDTO entrada del ranking de más vendidos.
type TopProductDTO struct {
	ProductID   string `json:"product_id"`
	SKU         string `json:"sku"`
	ProductName string `json:"product_name"`
	UnitsSold   int64  `json:"units_sold"`
}
