package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación sobre PostgreSQL (usable con pool o tx).
// Las ventas son inmutables: solo INSERT y SELECT.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste una venta.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sales (id, product_id, quantity, unit_price, total_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.ProductID, sale.Quantity, sale.UnitPrice, sale.TotalAmount, sale.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create sale: %w", err)
	}
	return nil
}

// List lista ventas con el producto resuelto, más recientes primero.
// LEFT JOIN por si el producto ya no existe (ventas históricas).
func (r *SaleRepo) List(limit, offset int) ([]repository.SaleWithProduct, error) {
	query := `
		SELECT s.id, s.product_id, s.quantity, s.unit_price, s.total_amount, s.created_at,
		       COALESCE(p.name, ''), COALESCE(p.sku, '')
		FROM sales s
		LEFT JOIN products p ON p.id = s.product_id
		ORDER BY s.created_at DESC, s.id DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []repository.SaleWithProduct
	for rows.Next() {
		var row repository.SaleWithProduct
		if err := rows.Scan(&row.Sale.ID, &row.Sale.ProductID, &row.Sale.Quantity,
			&row.Sale.UnitPrice, &row.Sale.TotalAmount, &row.Sale.CreatedAt,
			&row.ProductName, &row.ProductSKU); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}
