// Package sales contiene el caso de uso de registro y listado de ventas.
package sales

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	appinventory "github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	dominventory "github.com/jhoicas/Kardex-api/internal/domain/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// SaleUseCase registra ventas apoyándose en el motor de stock: el descuento
// de stock, su movimiento "sale" y el registro de la venta se confirman en
// una sola transacción. Si el descuento falla (stock insuficiente, producto
// inexistente) no se crea venta alguna y el error del motor sube sin cambios.
type SaleUseCase struct {
	txRunner appinventory.TxRunner
	stock    *appinventory.StockUseCase
	saleRepo repository.SaleRepository // atado al pool, solo lecturas
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(txRunner appinventory.TxRunner, stock *appinventory.StockUseCase, saleRepo repository.SaleRepository) *SaleUseCase {
	return &SaleUseCase{txRunner: txRunner, stock: stock, saleRepo: saleRepo}
}

// RecordSale registra una venta: fotografía el precio de venta actual,
// descuenta stock vía el motor (misma transacción) y persiste la venta.
func (uc *SaleUseCase) RecordSale(ctx context.Context, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if in.ProductID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	var resp *dto.SaleResponse
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movementRepo repository.StockMovementRepository,
		saleRepo repository.SaleRepository,
	) error {
		// Descuenta stock y registra el movimiento "sale"; la fila del
		// producto queda bloqueada, así que SellingPrice es la foto
		// consistente con el descuento.
		product, err := uc.stock.ApplyInTx(productRepo, movementRepo, in.ProductID, -in.Quantity, entity.ReasonSale)
		if err != nil {
			return err
		}
		sale := &entity.Sale{
			ID:          uuid.New().String(),
			ProductID:   product.ID,
			Quantity:    in.Quantity,
			UnitPrice:   product.SellingPrice,
			TotalAmount: dominventory.SaleTotal(in.Quantity, product.SellingPrice),
			CreatedAt:   time.Now(),
		}
		if err := saleRepo.Create(sale); err != nil {
			return err
		}
		resp = toSaleResponse(sale, product.Name, product.SKU)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// List lista ventas con el producto resuelto, más recientes primero.
func (uc *SaleUseCase) List(page dto.PageRequest) (*dto.SaleListResponse, error) {
	page.DefaultPage()
	list, err := uc.saleRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, row := range list {
		items = append(items, *toSaleResponse(&row.Sale, row.ProductName, row.ProductSKU))
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func toSaleResponse(s *entity.Sale, productName, productSKU string) *dto.SaleResponse {
	return &dto.SaleResponse{
		ID:          s.ID,
		ProductID:   s.ProductID,
		ProductName: productName,
		ProductSKU:  productSKU,
		Quantity:    s.Quantity,
		UnitPrice:   s.UnitPrice,
		TotalAmount: s.TotalAmount,
		CreatedAt:   s.CreatedAt,
	}
}
