package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/analytics"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/application/sales"
	"github.com/jhoicas/Kardex-api/internal/application/usecase"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	apphttp "github.com/jhoicas/Kardex-api/internal/interfaces/http"
	"github.com/jhoicas/Kardex-api/internal/testutil"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildTestApp construye la aplicación Fiber completa sobre el almacén en
// memoria: mismo router y mismos use cases que producción, sin PostgreSQL.
func buildTestApp() (*fiber.App, *testutil.Store) {
	store := testutil.New()
	txRunner := store.TxRunner()

	stockUC := inventory.NewStockUseCase(txRunner, store.Movements())
	productUC := usecase.NewProductUseCase(store.Products(), txRunner)
	saleUC := sales.NewSaleUseCase(txRunner, stockUC, store.Sales())
	dashboardUC := analytics.NewDashboardUseCase(store.Dashboard())

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:   productUC,
		StockUC:     stockUC,
		SaleUC:      saleUC,
		DashboardUC: dashboardUC,
	})
	return app, store
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createProduct(t *testing.T, app *fiber.App, sku string, quantity int64, sellingPrice float64) string {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/products", fiber.Map{
		"sku":           sku,
		"name":          "Producto " + sku,
		"cost_price":    "7",
		"selling_price": sellingPrice,
		"quantity":      quantity,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "debe crearse el producto %s", sku)
	body := decode(t, resp)
	return body["id"].(string)
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_CrearProductoConSKUDuplicado(t *testing.T) {
	app, _ := buildTestApp()
	createProduct(t, app, "CAFE-500", 0, 15)

	resp := doJSON(t, app, http.MethodPost, "/api/products", fiber.Map{
		"sku": "CAFE-500", "name": "Otro café", "cost_price": "7", "selling_price": 15,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "DUPLICATE_SKU", body["code"])
}

func TestAPI_ProductoInexistenteRetorna404(t *testing.T) {
	app, _ := buildTestApp()
	resp := doJSON(t, app, http.MethodGet, "/api/products/no-existe", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_EliminarProductoConHistorial(t *testing.T) {
	app, _ := buildTestApp()
	id := createProduct(t, app, "CAFE-500", 5, 15) // stock inicial deja movimiento

	resp := doJSON(t, app, http.MethodDelete, "/api/products/"+id, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode,
		"un producto con movimientos no debe poder borrarse")
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes de stock y movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_AddYRemoveStock(t *testing.T) {
	app, store := buildTestApp()
	id := createProduct(t, app, "CAFE-500", 0, 15)

	resp := doJSON(t, app, http.MethodPost, "/api/products/"+id+"/add-stock", fiber.Map{
		"amount": 10, "reason": "restock",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/products/"+id+"/remove-stock", fiber.Map{
		"amount": 4, "reason": "adjustment",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.EqualValues(t, 6, body["quantity"], "0 + 10 - 4 = 6")

	assert.Equal(t, 2, store.MovementCount(id), "exactamente 2 movimientos")
	assert.EqualValues(t, 6, store.MovementSum(id))
}

func TestAPI_RemoveStockInsuficiente(t *testing.T) {
	app, store := buildTestApp()
	id := createProduct(t, app, "CAFE-500", 3, 15)

	resp := doJSON(t, app, http.MethodPost, "/api/products/"+id+"/remove-stock", fiber.Map{
		"amount": 4, "reason": "adjustment",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
	assert.EqualValues(t, 3, store.ProductQuantity(id), "el stock no debe cambiar")
}

func TestAPI_AddStockMontoInvalido(t *testing.T) {
	app, _ := buildTestApp()
	id := createProduct(t, app, "CAFE-500", 0, 15)

	resp := doJSON(t, app, http.MethodPost, "/api/products/"+id+"/add-stock", fiber.Map{
		"amount": 0, "reason": "restock",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_HistorialDeMovimientos(t *testing.T) {
	app, _ := buildTestApp()
	id := createProduct(t, app, "CAFE-500", 5, 15)

	resp := doJSON(t, app, http.MethodGet, "/api/products/"+id+"/movements", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	items := body["items"].([]any)
	require.Len(t, items, 1)
	first := items[0].(map[string]any)
	assert.Equal(t, "initial", first["reason"])
	assert.EqualValues(t, 5, first["change"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_RegistrarVenta(t *testing.T) {
	app, store := buildTestApp()
	id := createProduct(t, app, "CAFE-500", 10, 50)

	resp := doJSON(t, app, http.MethodPost, "/api/sales", fiber.Map{
		"product_id": id, "quantity": 3,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "50", body["unit_price"], "precio fotografiado")
	assert.Equal(t, "150", body["total_amount"])

	assert.EqualValues(t, 7, store.ProductQuantity(id))
	assert.Equal(t, 1, store.SaleCount())
}

func TestAPI_VentaSinStockNoDejaRastro(t *testing.T) {
	app, store := buildTestApp()
	id := createProduct(t, app, "CAFE-500", 2, 50)

	resp := doJSON(t, app, http.MethodPost, "/api/sales", fiber.Map{
		"product_id": id, "quantity": 3,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, 0, store.SaleCount())
	assert.EqualValues(t, 2, store.ProductQuantity(id))
	assert.Equal(t, 1, store.MovementCount(id), "solo el movimiento inicial")
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock bajo y dashboard
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_LowStockUmbralInclusivo(t *testing.T) {
	app, _ := buildTestApp()
	createProduct(t, app, "EN-UMBRAL", 5, 15)   // threshold por defecto 5: incluido
	createProduct(t, app, "SOBRE-UMBRAL", 6, 15) // excluido

	resp := doJSON(t, app, http.MethodGet, "/api/products/low-stock", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	var list []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "EN-UMBRAL", list[0]["sku"])
}

func TestAPI_DashboardOverview(t *testing.T) {
	app, _ := buildTestApp()
	id := createProduct(t, app, "CAFE-500", 10, 50)

	resp := doJSON(t, app, http.MethodPost, "/api/sales", fiber.Map{
		"product_id": id, "quantity": 2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/dashboard/overview", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)

	// 8 unidades restantes a costo 7 = 56; ingresos 2*50 = 100
	assert.Equal(t, "56", body["totalInventoryValue"])
	assert.Equal(t, "100", body["totalSales"])
	assert.EqualValues(t, 0, body["lowStockCount"])
	top := body["topSelling"].([]any)
	require.Len(t, top, 1)
	assert.EqualValues(t, 2, top[0].(map[string]any)["units_sold"])
}

// Fuente de dashboard con el almacenamiento caído: todas las consultas fallan
// con el error reintentable.
type dashboardCaido struct{}

func (dashboardCaido) TotalInventoryValue(context.Context) (decimal.Decimal, error) {
	return decimal.Zero, domain.ErrStorageUnavailable
}

func (dashboardCaido) LowStockCount(context.Context) (int, error) {
	return 0, domain.ErrStorageUnavailable
}

func (dashboardCaido) TopSellingProducts(context.Context, int) ([]repository.TopProductResult, error) {
	return nil, domain.ErrStorageUnavailable
}

func (dashboardCaido) TotalRevenue(context.Context) (decimal.Decimal, error) {
	return decimal.Zero, domain.ErrStorageUnavailable
}

func TestAPI_DashboardConAlmacenamientoCaidoRetorna503(t *testing.T) {
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		DashboardUC: analytics.NewDashboardUseCase(dashboardCaido{}),
	})

	resp := doJSON(t, app, http.MethodGet, "/api/dashboard/overview", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode,
		"BD inalcanzable debe salir como 503 reintentable, no 500")
	body := decode(t, resp)
	assert.Equal(t, "STORAGE_UNAVAILABLE", body["code"])
}

func TestAPI_DashboardVacio(t *testing.T) {
	app, _ := buildTestApp()
	resp := doJSON(t, app, http.MethodGet, "/api/dashboard/overview", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "0", body["totalInventoryValue"])
	assert.EqualValues(t, 0, body["lowStockCount"])
}
