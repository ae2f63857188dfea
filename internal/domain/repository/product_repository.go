package repository

import (
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetBySKU devuelven (nil, nil) si el producto no existe.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	// GetForUpdate obtiene el producto bloqueando la fila (SELECT FOR UPDATE).
	// Solo tiene sentido dentro de una transacción.
	GetForUpdate(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	// UpdateQuantity actualiza solo el stock en caché (uso exclusivo del motor
	// de stock). updatedAt es el mismo instante que lleva el movimiento: la
	// fila persistida y la entidad devuelta comparten reloj.
	UpdateQuantity(id string, quantity int64, updatedAt time.Time) error
	List(limit, offset int) ([]*entity.Product, error)
	// ListLowStock productos con quantity <= low_stock_threshold, orden ascendente por quantity.
	ListLowStock() ([]*entity.Product, error)
	Delete(id string) error
}
