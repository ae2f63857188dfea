package inventory

import "github.com/shopspring/decimal"

// StockValue valor de inventario de un producto: quantity * cost_price.
func StockValue(quantity int64, costPrice decimal.Decimal) decimal.Decimal {
	return costPrice.Mul(decimal.NewFromInt(quantity))
}

// SaleTotal importe total de una venta: quantity * unit_price.
func SaleTotal(quantity int64, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(quantity))
}

// IsLowStock indica si el stock está en o por debajo del umbral (inclusivo).
func IsLowStock(quantity, threshold int64) bool {
	return quantity <= threshold
}
