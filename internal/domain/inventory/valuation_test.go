package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStockValue(t *testing.T) {
	cost := decimal.NewFromFloat(12.50)
	assert.True(t, decimal.NewFromFloat(50).Equal(StockValue(4, cost)),
		"4 unidades a 12.50 deben valer 50")
	assert.True(t, decimal.Zero.Equal(StockValue(0, cost)),
		"sin stock el valor es cero")
}

func TestSaleTotal(t *testing.T) {
	price := decimal.NewFromInt(50)
	assert.True(t, decimal.NewFromInt(150).Equal(SaleTotal(3, price)),
		"3 unidades a 50 deben totalizar 150")
}

// El umbral de stock bajo es inclusivo: quantity == threshold cuenta como bajo.
func TestIsLowStock_UmbralInclusivo(t *testing.T) {
	assert.True(t, IsLowStock(5, 5), "quantity 5 con umbral 5 es stock bajo")
	assert.False(t, IsLowStock(6, 5), "quantity 6 con umbral 5 no es stock bajo")
	assert.True(t, IsLowStock(0, 5))
}
