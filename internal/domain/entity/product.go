package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold umbral de stock bajo si el cliente no envía uno.
const DefaultLowStockThreshold = 5

// Product representa un producto del catálogo con su stock actual.
// Quantity es estado derivado: debe ser siempre igual a la suma de los
// movimientos del producto, y solo lo modifica el motor de stock.
type Product struct {
	ID                string
	SKU               string // código único
	Name              string
	Category          string
	CostPrice         decimal.Decimal // costo de adquisición
	SellingPrice      decimal.Decimal // precio de venta
	Quantity          int64           // nunca negativo
	LowStockThreshold int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
