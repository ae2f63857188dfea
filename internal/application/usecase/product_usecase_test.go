package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/application/sales"
	"github.com/jhoicas/Kardex-api/internal/application/usecase"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/internal/testutil"
)

func newProductUC(store *testutil.Store) *usecase.ProductUseCase {
	return usecase.NewProductUseCase(store.Products(), store.TxRunner())
}

func validRequest(sku string) dto.CreateProductRequest {
	return dto.CreateProductRequest{
		SKU:          sku,
		Name:         "Café 500g",
		Category:     "alimentos",
		CostPrice:    decimal.NewFromInt(8),
		SellingPrice: decimal.NewFromInt(15),
	}
}

func TestCreate_ProductoValido(t *testing.T) {
	store := testutil.New()
	uc := newProductUC(store)

	product, err := uc.Create(context.Background(), validRequest("CAFE-500"))
	require.NoError(t, err)
	assert.Equal(t, "CAFE-500", product.SKU)
	assert.EqualValues(t, 0, product.Quantity)
	assert.EqualValues(t, entity.DefaultLowStockThreshold, product.LowStockThreshold,
		"sin umbral explícito aplica el valor por defecto")
	assert.Equal(t, 0, store.MovementCount(product.ID), "sin stock inicial no hay movimiento")
}

// El stock inicial se materializa como movimiento "initial" en la misma
// transacción: el stock en caché nace cuadrado con el libro.
func TestCreate_ConStockInicialGeneraMovimiento(t *testing.T) {
	store := testutil.New()
	uc := newProductUC(store)

	in := validRequest("CAFE-500")
	in.Quantity = 10
	product, err := uc.Create(context.Background(), in)
	require.NoError(t, err)

	assert.EqualValues(t, 10, product.Quantity)
	assert.Equal(t, 1, store.MovementCount(product.ID))
	assert.EqualValues(t, 10, store.MovementSum(product.ID),
		"la suma de movimientos debe coincidir con el stock")
}

func TestCreate_SKUDuplicado(t *testing.T) {
	store := testutil.New()
	uc := newProductUC(store)
	ctx := context.Background()

	_, err := uc.Create(ctx, validRequest("CAFE-500"))
	require.NoError(t, err)

	_, err = uc.Create(ctx, validRequest("CAFE-500"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	list, err := uc.List(dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1, "el duplicado no debe crear producto")
}

func TestCreate_CamposInvalidos(t *testing.T) {
	store := testutil.New()
	uc := newProductUC(store)
	ctx := context.Background()

	in := validRequest("X-1")
	in.SKU = ""
	_, err := uc.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sku vacío")

	in = validRequest("X-2")
	in.CostPrice = decimal.NewFromInt(-1)
	_, err = uc.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "precio de costo negativo")

	in = validRequest("X-3")
	in.Quantity = -5
	_, err = uc.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "stock inicial negativo")
}

func TestUpdate_NoTocaQuantity(t *testing.T) {
	store := testutil.New()
	uc := newProductUC(store)
	ctx := context.Background()

	in := validRequest("CAFE-500")
	in.Quantity = 7
	created, err := uc.Create(ctx, in)
	require.NoError(t, err)

	newPrice := decimal.NewFromInt(20)
	updated, err := uc.Update(created.ID, dto.UpdateProductRequest{SellingPrice: &newPrice})
	require.NoError(t, err)

	assert.True(t, newPrice.Equal(updated.SellingPrice))
	assert.EqualValues(t, 7, updated.Quantity, "el update de catálogo no cambia el stock")
	assert.Equal(t, 1, store.MovementCount(created.ID), "sin movimientos nuevos")
}

func TestUpdate_Inexistente(t *testing.T) {
	store := testutil.New()
	uc := newProductUC(store)

	name := "Otro"
	updated, err := uc.Update("no-existe", dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestDelete_SinHistorial(t *testing.T) {
	store := testutil.New()
	uc := newProductUC(store)
	ctx := context.Background()

	created, err := uc.Create(ctx, validRequest("CAFE-500"))
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, created.ID))
	got, err := uc.GetByID(created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

// Borrar un producto con movimientos dejaría el libro con referencias rotas:
// se rechaza con conflicto.
func TestDelete_ConHistorialRechazado(t *testing.T) {
	store := testutil.New()
	uc := newProductUC(store)
	ctx := context.Background()

	in := validRequest("CAFE-500")
	in.Quantity = 3
	created, err := uc.Create(ctx, in)
	require.NoError(t, err)

	err = uc.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := uc.GetByID(created.ID)
	require.NoError(t, err)
	assert.NotNil(t, got, "el producto debe seguir existiendo")
}

func TestDelete_Inexistente(t *testing.T) {
	store := testutil.New()
	uc := newProductUC(store)

	assert.ErrorIs(t, uc.Delete(context.Background(), "no-existe"), domain.ErrNotFound)
}

// Una venta y un borrado concurrentes nunca dejan el libro huérfano: la
// verificación de historial y el DELETE corren con la fila bloqueada, así que
// o la venta entra primero y el borrado choca con el historial, o el borrado
// gana y la venta ya no encuentra el producto.
func TestDelete_ConcurrenteConVentaNoDejaHuerfanos(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 50; i++ {
		store := testutil.New()
		store.SeedProduct(entity.Product{
			ID: "p1", SKU: "CAFE-500", Name: "Café 500g",
			CostPrice: decimal.NewFromInt(8), SellingPrice: decimal.NewFromInt(15),
			Quantity: 5, LowStockThreshold: 5,
			CreatedAt: now, UpdatedAt: now,
		})
		productUC := newProductUC(store)
		stockUC := inventory.NewStockUseCase(store.TxRunner(), store.Movements())
		saleUC := sales.NewSaleUseCase(store.TxRunner(), stockUC, store.Sales())

		var wg sync.WaitGroup
		var saleErr, deleteErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, saleErr = saleUC.RecordSale(ctx, dto.CreateSaleRequest{ProductID: "p1", Quantity: 1})
		}()
		go func() {
			defer wg.Done()
			deleteErr = productUC.Delete(ctx, "p1")
		}()
		wg.Wait()

		got, err := store.Products().GetByID("p1")
		require.NoError(t, err)
		if got == nil {
			require.NoError(t, deleteErr)
			assert.ErrorIs(t, saleErr, domain.ErrNotFound)
			assert.Equal(t, 0, store.SaleCount(), "sin ventas huérfanas tras el borrado")
			assert.Equal(t, 0, store.MovementCount("p1"), "sin movimientos huérfanos")
		} else {
			require.NoError(t, saleErr)
			assert.ErrorIs(t, deleteErr, domain.ErrConflict)
			assert.Equal(t, 1, store.SaleCount())
		}
	}
}

// Un fallo de almacenamiento al verificar el SKU debe subir como error, no
// leerse como "sin duplicado".
type productosSKUFalla struct {
	repository.ProductRepository
	err error
}

func (r productosSKUFalla) GetBySKU(string) (*entity.Product, error) { return nil, r.err }

func TestCreate_ErrorAlVerificarSKU(t *testing.T) {
	store := testutil.New()
	repo := productosSKUFalla{ProductRepository: store.Products(), err: domain.ErrStorageUnavailable}
	uc := usecase.NewProductUseCase(repo, store.TxRunner())

	_, err := uc.Create(context.Background(), validRequest("CAFE-500"))
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)

	list, err := uc.List(dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items, "el fallo no debe crear producto")
}

func TestListLowStock_UmbralInclusivoYOrden(t *testing.T) {
	store := testutil.New()
	now := time.Now()
	seed := func(id string, qty, threshold int64) {
		store.SeedProduct(entity.Product{
			ID: id, SKU: "SKU-" + id, Name: "Producto " + id,
			CostPrice: decimal.NewFromInt(1), SellingPrice: decimal.NewFromInt(2),
			Quantity: qty, LowStockThreshold: threshold,
			CreatedAt: now, UpdatedAt: now,
		})
	}
	seed("a", 5, 5) // en el umbral: incluido
	seed("b", 6, 5) // sobre el umbral: excluido
	seed("c", 0, 5) // agotado: el más urgente

	uc := newProductUC(store)
	list, err := uc.ListLowStock()
	require.NoError(t, err)

	require.Len(t, list, 2)
	assert.Equal(t, "c", list[0].ID, "orden ascendente por stock: el agotado primero")
	assert.Equal(t, "a", list[1].ID)
	assert.True(t, list[0].LowStock)
}
