package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale venta de un producto. UnitPrice es una fotografía del precio de venta
// al momento de la operación (cambios posteriores al catálogo no la afectan)
// y TotalAmount se persiste calculado para estabilidad de auditoría.
// Cada venta tiene exactamente un StockMovement con Change = -Quantity y
// Reason = "sale", creado en la misma transacción.
type Sale struct {
	ID          string
	ProductID   string
	Quantity    int64 // siempre positivo
	UnitPrice   decimal.Decimal
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
}
