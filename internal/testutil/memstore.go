// Package testutil provee un almacén en memoria que implementa los puertos de
// persistencia para pruebas unitarias y de API, sin PostgreSQL. El TxRunner en
// memoria serializa las transacciones con un mutex y restaura un snapshot si
// el callback falla, imitando el Commit/Rollback real.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appinventory "github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	dominventory "github.com/jhoicas/Kardex-api/internal/domain/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// Store almacén en memoria. Los repos devueltos por Products/Movements/Sales
// toman el lock por operación; los que pasa el TxRunner al callback operan
// sobre el estado ya bloqueado.
type Store struct {
	mu        sync.Mutex
	products  map[string]entity.Product
	movements []entity.StockMovement
	sales     []entity.Sale
}

// New crea un Store vacío.
func New() *Store {
	return &Store{products: make(map[string]entity.Product)}
}

// SeedProduct inserta un producto directamente (sin movimiento inicial).
func (s *Store) SeedProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

// ProductQuantity stock actual de un producto, para aserciones.
func (s *Store) ProductQuantity(id string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id].Quantity
}

// MovementSum suma de los deltas de movimientos de un producto (invariante:
// debe coincidir con el stock en caché).
func (s *Store) MovementSum(productID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum int64
	for _, m := range s.movements {
		if m.ProductID == productID {
			sum += m.Change
		}
	}
	return sum
}

// MovementCount número de movimientos de un producto.
func (s *Store) MovementCount(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	for _, m := range s.movements {
		if m.ProductID == productID {
			n++
		}
	}
	return n
}

// SaleCount número de ventas registradas.
func (s *Store) SaleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sales)
}

// Products repositorio de productos con lock por operación.
func (s *Store) Products() repository.ProductRepository { return lockedProducts{s} }

// Movements repositorio de movimientos con lock por operación.
func (s *Store) Movements() repository.StockMovementRepository { return lockedMovements{s} }

// Sales repositorio de ventas con lock por operación.
func (s *Store) Sales() repository.SaleRepository { return lockedSales{s} }

// Dashboard repositorio de agregados de dashboard.
func (s *Store) Dashboard() repository.DashboardRepository { return dashboardRepo{s} }

// TxRunner runner transaccional en memoria.
func (s *Store) TxRunner() appinventory.TxRunner { return txRunner{s} }

// ── TxRunner ──────────────────────────────────────────────────────────────────

type txRunner struct{ s *Store }

func (t txRunner) Run(_ context.Context, fn func(
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	saleRepo repository.SaleRepository,
) error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	snapProducts := make(map[string]entity.Product, len(t.s.products))
	for k, v := range t.s.products {
		snapProducts[k] = v
	}
	snapMovements := len(t.s.movements)
	snapSales := len(t.s.sales)

	err := fn(rawProducts{t.s}, rawMovements{t.s}, rawSales{t.s})
	if err != nil {
		t.s.products = snapProducts
		t.s.movements = t.s.movements[:snapMovements]
		t.s.sales = t.s.sales[:snapSales]
		return err
	}
	return nil
}

// ── Productos ────────────────────────────────────────────────────────────────

type rawProducts struct{ s *Store }

func (r rawProducts) Create(p *entity.Product) error {
	for _, existing := range r.s.products {
		if existing.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r rawProducts) GetByID(id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := p
	return &cp, nil
}

func (r rawProducts) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.SKU == sku {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

// GetForUpdate en memoria equivale a GetByID: la exclusión la da el lock del TxRunner.
func (r rawProducts) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r rawProducts) Update(p *entity.Product) error {
	if _, ok := r.s.products[p.ID]; !ok {
		return nil
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r rawProducts) UpdateQuantity(id string, quantity int64, updatedAt time.Time) error {
	p, ok := r.s.products[id]
	if !ok {
		return nil
	}
	p.Quantity = quantity
	p.UpdatedAt = updatedAt
	r.s.products[id] = p
	return nil
}

func (r rawProducts) List(limit, offset int) ([]*entity.Product, error) {
	all := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		cp := p
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	return paginate(all, limit, offset), nil
}

func (r rawProducts) ListLowStock() ([]*entity.Product, error) {
	var list []*entity.Product
	for _, p := range r.s.products {
		if dominventory.IsLowStock(p.Quantity, p.LowStockThreshold) {
			cp := p
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Quantity != list[j].Quantity {
			return list[i].Quantity < list[j].Quantity
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (r rawProducts) Delete(id string) error {
	delete(r.s.products, id)
	return nil
}

type lockedProducts struct{ s *Store }

func (l lockedProducts) Create(p *entity.Product) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return rawProducts{l.s}.Create(p)
}

func (l lockedProducts) GetByID(id string) (*entity.Product, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return rawProducts{l.s}.GetByID(id)
}

func (l lockedProducts) GetBySKU(sku string) (*entity.Product, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return rawProducts{l.s}.GetBySKU(sku)
}

func (l lockedProducts) GetForUpdate(id string) (*entity.Product, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return rawProducts{l.s}.GetForUpdate(id)
}

func (l lockedProducts) Update(p *entity.Product) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return rawProducts{l.s}.Update(p)
}

func (l lockedProducts) UpdateQuantity(id string, quantity int64, updatedAt time.Time) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return rawProducts{l.s}.UpdateQuantity(id, quantity, updatedAt)
}

func (l lockedProducts) List(limit, offset int) ([]*entity.Product, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return rawProducts{l.s}.List(limit, offset)
}

func (l lockedProducts) ListLowStock() ([]*entity.Product, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return rawProducts{l.s}.ListLowStock()
}

func (l lockedProducts) Delete(id string) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return rawProducts{l.s}.Delete(id)
}

// ── Movimientos ──────────────────────────────────────────────────────────────

type rawMovements struct{ s *Store }

func (r rawMovements) Create(m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r rawMovements) ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	// Más recientes primero: el slice crece en orden de inserción
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		if r.s.movements[i].ProductID == productID {
			cp := r.s.movements[i]
			list = append(list, &cp)
		}
	}
	return paginate(list, limit, offset), nil
}

func (r rawMovements) CountByProduct(productID string) (int64, error) {
	var count int64
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			count++
		}
	}
	return count, nil
}

type lockedMovements struct{ s *Store }

func (l lockedMovements) Create(m *entity.StockMovement) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return rawMovements{l.s}.Create(m)
}

func (l lockedMovements) ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return rawMovements{l.s}.ListByProduct(productID, limit, offset)
}

func (l lockedMovements) CountByProduct(productID string) (int64, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return rawMovements{l.s}.CountByProduct(productID)
}

// ── Ventas ───────────────────────────────────────────────────────────────────

type rawSales struct{ s *Store }

func (r rawSales) Create(sale *entity.Sale) error {
	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	r.s.sales = append(r.s.sales, *sale)
	return nil
}

func (r rawSales) List(limit, offset int) ([]repository.SaleWithProduct, error) {
	var list []repository.SaleWithProduct
	for i := len(r.s.sales) - 1; i >= 0; i-- {
		sale := r.s.sales[i]
		row := repository.SaleWithProduct{Sale: sale}
		if p, ok := r.s.products[sale.ProductID]; ok {
			row.ProductName = p.Name
			row.ProductSKU = p.SKU
		}
		list = append(list, row)
	}
	return paginate(list, limit, offset), nil
}

type lockedSales struct{ s *Store }

func (l lockedSales) Create(sale *entity.Sale) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return rawSales{l.s}.Create(sale)
}

func (l lockedSales) List(limit, offset int) ([]repository.SaleWithProduct, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return rawSales{l.s}.List(limit, offset)
}

// ── Dashboard ────────────────────────────────────────────────────────────────

type dashboardRepo struct{ s *Store }

func (d dashboardRepo) TotalInventoryValue(_ context.Context) (decimal.Decimal, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	total := decimal.Zero
	for _, p := range d.s.products {
		total = total.Add(dominventory.StockValue(p.Quantity, p.CostPrice))
	}
	return total, nil
}

func (d dashboardRepo) LowStockCount(_ context.Context) (int, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	var count int
	for _, p := range d.s.products {
		if dominventory.IsLowStock(p.Quantity, p.LowStockThreshold) {
			count++
		}
	}
	return count, nil
}

func (d dashboardRepo) TopSellingProducts(_ context.Context, limit int) ([]repository.TopProductResult, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	units := make(map[string]int64)
	for _, sale := range d.s.sales {
		units[sale.ProductID] += sale.Quantity
	}
	results := make([]repository.TopProductResult, 0, len(units))
	for id, sold := range units {
		row := repository.TopProductResult{ProductID: id, UnitsSold: sold}
		if p, ok := d.s.products[id]; ok {
			row.SKU = p.SKU
			row.ProductName = p.Name
		}
		results = append(results, row)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].UnitsSold != results[j].UnitsSold {
			return results[i].UnitsSold > results[j].UnitsSold
		}
		return results[i].ProductID < results[j].ProductID
	})
	if limit < len(results) {
		results = results[:limit]
	}
	return results, nil
}

func (d dashboardRepo) TotalRevenue(_ context.Context) (decimal.Decimal, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	total := decimal.Zero
	for _, sale := range d.s.sales {
		total = total.Add(sale.TotalAmount)
	}
	return total, nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
