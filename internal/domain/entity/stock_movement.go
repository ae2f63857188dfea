package entity

import "time"

// Razones comunes de movimiento. Reason es texto libre; estas son las que
// genera el propio sistema.
const (
	ReasonSale       = "sale"       // venta
	ReasonRestock    = "restock"    // reposición
	ReasonAdjustment = "adjustment" // ajuste manual
	ReasonInitial    = "initial"    // stock inicial al crear el producto
)

// StockMovement registro inmutable de un cambio de stock (libro kardex).
// Nunca se actualiza ni se borra una vez creado.
type StockMovement struct {
	ID        string
	ProductID string
	Change    int64 // positivo entrada, negativo salida; nunca cero
	Reason    string
	CreatedAt time.Time
}
