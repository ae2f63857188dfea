package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// StockUseCase es el único componente que modifica el stock de un producto.
// Cada Apply escribe exactamente un movimiento y actualiza quantity de forma
// transaccional con bloqueo de fila (SELECT FOR UPDATE): la precondición
// quantity + delta >= 0 se valida contra la fila bloqueada, nunca contra una
// lectura obsoleta.
type StockUseCase struct {
	txRunner     TxRunner
	movementRepo repository.StockMovementRepository // atado al pool, solo lecturas
}

// NewStockUseCase construye el motor de stock.
func NewStockUseCase(txRunner TxRunner, movementRepo repository.StockMovementRepository) *StockUseCase {
	return &StockUseCase{txRunner: txRunner, movementRepo: movementRepo}
}

// Apply aplica un delta de stock con su movimiento en una transacción propia.
// delta positivo entra stock, negativo sale. Devuelve el producto actualizado.
func (uc *StockUseCase) Apply(ctx context.Context, productID string, delta int64, reason string) (*entity.Product, error) {
	if delta == 0 || reason == "" || productID == "" {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.Product
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movementRepo repository.StockMovementRepository,
		_ repository.SaleRepository,
	) error {
		p, err := uc.ApplyInTx(productRepo, movementRepo, productID, delta, reason)
		if err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ApplyInTx ejecuta el delta usando repositorios ya atados a la transacción
// del caller (por ejemplo la de una venta). Bloquea la fila del producto,
// valida la precondición, actualiza quantity y guarda el movimiento.
func (uc *StockUseCase) ApplyInTx(
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	productID string, delta int64, reason string,
) (*entity.Product, error) {
	if delta == 0 || reason == "" {
		return nil, domain.ErrInvalidInput
	}
	// Bloquea la fila en products para serializar operaciones sobre el mismo producto
	product, err := productRepo.GetForUpdate(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	newQty := product.Quantity + delta
	if newQty < 0 {
		return nil, domain.ErrInsufficientStock
	}
	now := time.Now()
	if err := productRepo.UpdateQuantity(productID, newQty, now); err != nil {
		return nil, err
	}
	mov := &entity.StockMovement{
		ID:        uuid.New().String(),
		ProductID: productID,
		Change:    delta,
		Reason:    reason,
		CreatedAt: now,
	}
	if err := movementRepo.Create(mov); err != nil {
		return nil, err
	}
	product.Quantity = newQty
	product.UpdatedAt = now
	return product, nil
}

// ListMovements historial de movimientos de un producto, más recientes primero.
func (uc *StockUseCase) ListMovements(productID string, page dto.PageRequest) (*dto.MovementListResponse, error) {
	page.DefaultPage()
	list, err := uc.movementRepo.ListByProduct(productID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.MovementResponse{
			ID:        m.ID,
			ProductID: m.ProductID,
			Change:    m.Change,
			Reason:    m.Reason,
			CreatedAt: m.CreatedAt,
		})
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}
