package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas de solo lectura para el dashboard de inventario.
// Cada consulta es una sola sentencia SQL: el snapshot MVCC por sentencia de
// PostgreSQL garantiza que ningún agregado mezcle estados pre y post
// actualización de un mismo producto.
type DashboardRepo struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository construye el adaptador de dashboard.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepo {
	return &DashboardRepo{pool: pool}
}

// TotalInventoryValue suma quantity * cost_price de todos los productos.
// COALESCE devuelve cero con el catálogo vacío.
func (r *DashboardRepo) TotalInventoryValue(ctx context.Context) (decimal.Decimal, error) {
	var value decimal.Decimal
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity * cost_price), 0) FROM products`,
	).Scan(&value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("dashboard.TotalInventoryValue: %w: %w", domain.ErrStorageUnavailable, err)
	}
	return value, nil
}

// LowStockCount número de productos con quantity <= low_stock_threshold (umbral inclusivo).
func (r *DashboardRepo) LowStockCount(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE quantity <= low_stock_threshold`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("dashboard.LowStockCount: %w: %w", domain.ErrStorageUnavailable, err)
	}
	return count, nil
}

// TopSellingProducts devuelve los `limit` productos con más unidades vendidas.
// Empates desempatados por p.id para un orden determinista.
func (r *DashboardRepo) TopSellingProducts(ctx context.Context, limit int) ([]repository.TopProductResult, error) {
	const query = `
	SELECT
	    p.id              AS product_id,
	    p.sku,
	    p.name            AS product_name,
	    SUM(s.quantity)   AS units_sold
	FROM sales s
	JOIN products p ON p.id = s.product_id
	GROUP BY p.id, p.sku, p.name
	ORDER BY units_sold DESC, p.id ASC
	LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("dashboard.TopSellingProducts: %w: %w", domain.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var results []repository.TopProductResult
	for rows.Next() {
		var row repository.TopProductResult
		if err := rows.Scan(&row.ProductID, &row.SKU, &row.ProductName, &row.UnitsSold); err != nil {
			return nil, fmt.Errorf("dashboard.TopSellingProducts scan: %w", err)
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dashboard.TopSellingProducts rows: %w: %w", domain.ErrStorageUnavailable, err)
	}
	if results == nil {
		results = []repository.TopProductResult{}
	}
	return results, nil
}

// TotalRevenue suma total_amount de todas las ventas; cero si no hay ventas.
func (r *DashboardRepo) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	var revenue decimal.Decimal
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(total_amount), 0) FROM sales`,
	).Scan(&revenue)
	if err != nil {
		return decimal.Zero, fmt.Errorf("dashboard.TotalRevenue: %w: %w", domain.ErrStorageUnavailable, err)
	}
	return revenue, nil
}
