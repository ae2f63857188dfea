// Package analytics contiene el caso de uso del Dashboard de inventario.
package analytics

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

const dashboardTopProducts = 5 // número de productos en el widget de más vendidos

// DashboardUseCase genera el resumen del inventario: valoración total,
// productos en stock bajo, más vendidos e ingresos acumulados.
//
// Fuente de datos: DashboardRepository (consultas read-only). No modifica
// productos, movimientos ni ventas, y tolera un inventario vacío devolviendo
// ceros y listas vacías.
type DashboardUseCase struct {
	dashboardRepo repository.DashboardRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(dashboardRepo repository.DashboardRepository) *DashboardUseCase {
	return &DashboardUseCase{dashboardRepo: dashboardRepo}
}

// GetOverview construye el DashboardOverviewDTO.
//
// Cuatro consultas en paralelo:
//  1. TotalInventoryValue  → valoración del inventario
//  2. LowStockCount        → productos en o bajo su umbral
//  3. TopSellingProducts   → top 5 por unidades vendidas
//  4. TotalRevenue         → ingresos acumulados
func (uc *DashboardUseCase) GetOverview(ctx context.Context) (*dto.DashboardOverviewDTO, error) {
	type decimalResult struct {
		value decimal.Decimal
		err   error
	}
	type countResult struct {
		value int
		err   error
	}
	type topResult struct {
		rows []repository.TopProductResult
		err  error
	}

	valueCh := make(chan decimalResult, 1)
	lowCh := make(chan countResult, 1)
	topCh := make(chan topResult, 1)
	revenueCh := make(chan decimalResult, 1)

	go func() {
		v, err := uc.dashboardRepo.TotalInventoryValue(ctx)
		valueCh <- decimalResult{v, err}
	}()
	go func() {
		n, err := uc.dashboardRepo.LowStockCount(ctx)
		lowCh <- countResult{n, err}
	}()
	go func() {
		rows, err := uc.dashboardRepo.TopSellingProducts(ctx, dashboardTopProducts)
		topCh <- topResult{rows, err}
	}()
	go func() {
		v, err := uc.dashboardRepo.TotalRevenue(ctx)
		revenueCh <- decimalResult{v, err}
	}()

	value := <-valueCh
	low := <-lowCh
	top := <-topCh
	revenue := <-revenueCh

	if value.err != nil {
		return nil, fmt.Errorf("dashboard: valoración de inventario: %w", value.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", low.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("dashboard: más vendidos: %w", top.err)
	}
	if revenue.err != nil {
		return nil, fmt.Errorf("dashboard: ingresos: %w", revenue.err)
	}

	topSelling := make([]dto.TopProductDTO, 0, len(top.rows))
	for _, row := range top.rows {
		topSelling = append(topSelling, dto.TopProductDTO{
			ProductID:   row.ProductID,
			SKU:         row.SKU,
			ProductName: row.ProductName,
			UnitsSold:   row.UnitsSold,
		})
	}

	return &dto.DashboardOverviewDTO{
		TotalInventoryValue: value.value.Round(2),
		LowStockCount:       low.value,
		TopSelling:          topSelling,
		TotalSales:          revenue.value.Round(2),
	}, nil
}
