package repository

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// StockMovementRepository define el puerto de persistencia del libro de
// movimientos. Solo inserción y lectura: los movimientos son inmutables.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error)
	CountByProduct(productID string) (int64, error)
}
