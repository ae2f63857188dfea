package repository

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// SaleWithProduct fila de listado de ventas con el producto resuelto.
// Lo produce la DB; el use case lo convierte en DTO.
type SaleWithProduct struct {
	Sale        entity.Sale
	ProductName string
	ProductSKU  string
}

// SaleRepository define el puerto de persistencia de ventas (inmutables).
type SaleRepository interface {
	Create(sale *entity.Sale) error
	List(limit, offset int) ([]SaleWithProduct, error)
}
