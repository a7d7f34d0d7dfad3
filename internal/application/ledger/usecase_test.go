package ledger_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmrosales/pos-api/internal/application/ledger"
	"github.com/jmrosales/pos-api/internal/domain"
	"github.com/jmrosales/pos-api/internal/domain/entity"
	"github.com/jmrosales/pos-api/internal/domain/repository"
)

// Fakes en memoria con snapshot/rollback, mismo contrato que los repos reales.

type memStore struct {
	products  map[string]*entity.Product
	movements []*entity.InventoryMovement
}

func newMemStore() *memStore {
	return &memStore{products: make(map[string]*entity.Product)}
}

func (s *memStore) snapshot() *memStore {
	snap := newMemStore()
	for id, p := range s.products {
		cp := *p
		snap.products[id] = &cp
	}
	snap.movements = make([]*entity.InventoryMovement, len(s.movements))
	for i, m := range s.movements {
		cp := *m
		snap.movements[i] = &cp
	}
	return snap
}

func (s *memStore) restore(snap *memStore) {
	s.products = snap.products
	s.movements = snap.movements
}

type memProductRepo struct{ store *memStore }

func (r *memProductRepo) Create(p *entity.Product) error {
	cp := *p
	r.store.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.store.products[id]
	if !ok || p.DeletedAt != nil {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) GetBySKU(sku string) (*entity.Product, error) { return nil, nil }

func (r *memProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *memProductRepo) UpdateStock(productID string, stock int64) error {
	p, ok := r.store.products[productID]
	if !ok {
		return fmt.Errorf("producto %s no existe", productID)
	}
	p.Stock = stock
	return nil
}

func (r *memProductRepo) Update(p *entity.Product) error                    { return nil }
func (r *memProductRepo) List(limit, offset int) ([]*entity.Product, error) { return nil, nil }
func (r *memProductRepo) SoftDelete(id string, now time.Time) error         { return nil }

type memMovementRepo struct{ store *memStore }

func (r *memMovementRepo) Create(m *entity.InventoryMovement) error {
	cp := *m
	r.store.movements = append(r.store.movements, &cp)
	return nil
}

func (r *memMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for _, m := range r.store.movements {
		if m.ProductID != productID {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memMovementRepo) SumByProduct(productID string) (int64, error) {
	var sum int64
	for _, m := range r.store.movements {
		if m.ProductID == productID {
			sum += m.Quantity
		}
	}
	return sum, nil
}

type memTxRunner struct{ store *memStore }

func (tr *memTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	snap := tr.store.snapshot()
	err := fn(&memMovementRepo{store: tr.store}, &memProductRepo{store: tr.store})
	if err != nil {
		tr.store.restore(snap)
	}
	return err
}

type fixture struct {
	store   *memStore
	movRepo *memMovementRepo
	svc     *ledger.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStore()
	productRepo := &memProductRepo{store: store}
	movRepo := &memMovementRepo{store: store}
	svc := ledger.NewService(&memTxRunner{store: store}, productRepo, movRepo)
	return &fixture{store: store, movRepo: movRepo, svc: svc}
}

func (f *fixture) addProduct(id, name string, stock int64) {
	f.store.products[id] = &entity.Product{
		ID:        id,
		SKU:       "SKU-" + id,
		Name:      name,
		SalePrice: decimal.RequireFromString("10.00"),
		Stock:     stock,
	}
}

func (f *fixture) stockOf(id string) int64 {
	return f.store.products[id].Stock
}

// Un ajuste = exactamente un delta aplicado y un movimiento agregado.
func TestRegisterAdjustment_EntradaSube(t *testing.T) {
	f := newFixture(t)
	f.addProduct("p1", "Harina", 3)

	mov, err := f.svc.RegisterAdjustment(context.Background(), ledger.AdjustmentInput{
		ProductID: "p1",
		Delta:     7,
		Kind:      entity.MovementKindAdjustment,
		Notes:     "conteo físico",
		UserID:    "u1",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10), f.stockOf("p1"))
	require.Len(t, f.store.movements, 1)
	assert.Equal(t, int64(7), mov.Quantity)
	assert.Equal(t, entity.MovementKindAdjustment, mov.Kind)
	assert.Equal(t, "u1", mov.CreatedBy)
}

func TestRegisterAdjustment_SalidaBaja(t *testing.T) {
	f := newFixture(t)
	f.addProduct("p1", "Harina", 10)

	mov, err := f.svc.RegisterAdjustment(context.Background(), ledger.AdjustmentInput{
		ProductID: "p1",
		Delta:     -4,
		Kind:      entity.MovementKindDamage,
		UserID:    "u1",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(6), f.stockOf("p1"))
	assert.Equal(t, int64(-4), mov.Quantity)
}

// Las salidas no pueden dejar el producto en negativo.
func TestRegisterAdjustment_SalidaInsuficiente(t *testing.T) {
	f := newFixture(t)
	f.addProduct("p1", "Harina", 3)

	_, err := f.svc.RegisterAdjustment(context.Background(), ledger.AdjustmentInput{
		ProductID: "p1",
		Delta:     -4,
		Kind:      entity.MovementKindDamage,
		UserID:    "u1",
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Harina", "el error nombra el producto")
	assert.Equal(t, int64(3), f.stockOf("p1"), "nada mutado")
	assert.Empty(t, f.store.movements)
}

// PURCHASE y SALE solo se generan desde sus flujos, nunca por ajuste manual.
func TestRegisterAdjustment_ClasesReservadas(t *testing.T) {
	f := newFixture(t)
	f.addProduct("p1", "Harina", 10)
	ctx := context.Background()

	for _, kind := range []string{entity.MovementKindPurchase, entity.MovementKindSale, "RECOUNT"} {
		_, err := f.svc.RegisterAdjustment(ctx, ledger.AdjustmentInput{
			ProductID: "p1",
			Delta:     1,
			Kind:      kind,
			UserID:    "u1",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "clase %s", kind)
	}
}

func TestRegisterAdjustment_EntradaInvalida(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.RegisterAdjustment(ctx, ledger.AdjustmentInput{
		Delta: 1, Kind: entity.MovementKindAdjustment,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin producto")

	_, err = f.svc.RegisterAdjustment(ctx, ledger.AdjustmentInput{
		ProductID: "p1", Delta: 0, Kind: entity.MovementKindAdjustment,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "delta cero")
}

func TestRegisterAdjustment_ProductoInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.RegisterAdjustment(context.Background(), ledger.AdjustmentInput{
		ProductID: "fantasma",
		Delta:     5,
		Kind:      entity.MovementKindAdjustment,
		UserID:    "u1",
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// La existencia del producto siempre coincide con la suma del libro.
func TestLibro_Conciliacion(t *testing.T) {
	f := newFixture(t)
	f.addProduct("p1", "Harina", 0)
	ctx := context.Background()

	deltas := []int64{10, -3, 5, -2}
	for _, d := range deltas {
		_, err := f.svc.RegisterAdjustment(ctx, ledger.AdjustmentInput{
			ProductID: "p1",
			Delta:     d,
			Kind:      entity.MovementKindAdjustment,
			UserID:    "u1",
		})
		require.NoError(t, err)
	}

	sum, err := f.movRepo.SumByProduct("p1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), sum)
	assert.Equal(t, sum, f.stockOf("p1"))
}

func TestCurrentQuantity(t *testing.T) {
	f := newFixture(t)
	f.addProduct("p1", "Harina", 8)

	qty, err := f.svc.CurrentQuantity(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(8), qty)

	_, err = f.svc.CurrentQuantity(context.Background(), "fantasma")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListByProduct_FiltraPorFecha(t *testing.T) {
	f := newFixture(t)
	f.addProduct("p1", "Harina", 0)
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	for i, qty := range []int64{5, 3, -2} {
		f.store.movements = append(f.store.movements, &entity.InventoryMovement{
			ID:        fmt.Sprintf("m%d", i),
			ProductID: "p1",
			Kind:      entity.MovementKindAdjustment,
			Quantity:  qty,
			CreatedAt: base.AddDate(0, 0, i),
		})
	}

	from := base.AddDate(0, 0, 1)
	list, err := f.svc.ListByProduct(context.Background(), "p1", &from, nil, 50, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
