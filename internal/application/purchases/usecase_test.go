package purchases_test

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmrosales/pos-api/internal/application/ledger"
	"github.com/jmrosales/pos-api/internal/application/purchases"
	"github.com/jmrosales/pos-api/internal/domain"
	"github.com/jmrosales/pos-api/internal/domain/entity"
	"github.com/jmrosales/pos-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria, mismo contrato que los repos PostgreSQL: copias en
// lectura/escritura y TxRunner con snapshot/rollback.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	products  map[string]*entity.Product
	movements []*entity.InventoryMovement
	purchases map[string]*entity.Purchase
	providers map[string]*entity.Provider
}

func newMemStore() *memStore {
	return &memStore{
		products:  make(map[string]*entity.Product),
		purchases: make(map[string]*entity.Purchase),
		providers: make(map[string]*entity.Provider),
	}
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
	for id, p := range s.purchases {
		cp := *p
		cp.Items = append([]entity.PurchaseItem(nil), p.Items...)
		snap.purchases[id] = &cp
	}
	for id, p := range s.providers {
		cp := *p
		snap.providers[id] = &cp
	}
	return snap
}

func (s *memStore) restore(snap *memStore) {
	s.products = snap.products
	s.movements = snap.movements
	s.purchases = snap.purchases
	s.providers = snap.providers
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

func (r *memProductRepo) SoftDelete(id string, now time.Time) error {
	if p, ok := r.store.products[id]; ok {
		p.DeletedAt = &now
	}
	return nil
}

type memMovementRepo struct{ store *memStore }

func (r *memMovementRepo) Create(m *entity.InventoryMovement) error {
	cp := *m
	r.store.movements = append(r.store.movements, &cp)
	return nil
}

func (r *memMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	return nil, nil
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

type memProviderRepo struct{ store *memStore }

func (r *memProviderRepo) Create(p *entity.Provider) error {
	cp := *p
	r.store.providers[p.ID] = &cp
	return nil
}

func (r *memProviderRepo) GetByID(id string) (*entity.Provider, error) {
	p, ok := r.store.providers[id]
	if !ok || p.DeletedAt != nil {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProviderRepo) List(limit, offset int) ([]*entity.Provider, error) { return nil, nil }
func (r *memProviderRepo) Update(p *entity.Provider) error                    { return nil }
func (r *memProviderRepo) SoftDelete(id string, now time.Time) error          { return nil }

type memPurchaseRepo struct{ store *memStore }

func (r *memPurchaseRepo) Create(p *entity.Purchase) error {
	for _, existing := range r.store.purchases {
		if existing.Code == p.Code {
			return fmt.Errorf("código %s: %w", p.Code, domain.ErrDuplicate)
		}
	}
	cp := *p
	cp.Items = append([]entity.PurchaseItem(nil), p.Items...)
	r.store.purchases[p.ID] = &cp
	return nil
}

func (r *memPurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	p, ok := r.store.purchases[id]
	if !ok || p.DeletedAt != nil {
		return nil, nil
	}
	cp := *p
	cp.Items = append([]entity.PurchaseItem(nil), p.Items...)
	return &cp, nil
}

func (r *memPurchaseRepo) Update(p *entity.Purchase) error {
	cur, ok := r.store.purchases[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *p
	cp.Items = cur.Items // las líneas van por ReplaceItems
	r.store.purchases[p.ID] = &cp
	return nil
}

func (r *memPurchaseRepo) ReplaceItems(purchaseID string, items []entity.PurchaseItem) error {
	p, ok := r.store.purchases[purchaseID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Items = append([]entity.PurchaseItem(nil), items...)
	return nil
}

func (r *memPurchaseRepo) SoftDelete(id string, now time.Time) error {
	if p, ok := r.store.purchases[id]; ok {
		p.DeletedAt = &now
	}
	return nil
}

// NextSequence replica al repo real: max del consecutivo para el prefijo,
// incluyendo compras eliminadas (los códigos nunca se reutilizan).
func (r *memPurchaseRepo) NextSequence(codePrefix string) (int, error) {
	max := 0
	for _, p := range r.store.purchases {
		if strings.HasPrefix(p.Code, codePrefix) {
			if n, err := strconv.Atoi(p.Code[len(codePrefix):]); err == nil && n > max {
				max = n
			}
		}
	}
	return max + 1, nil
}

func (r *memPurchaseRepo) ListByProvider(providerID string, limit, offset int) ([]*entity.Purchase, error) {
	var out []*entity.Purchase
	for _, p := range r.store.purchases {
		if p.ProviderID == providerID && p.DeletedAt == nil {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memPurchaseRepo) ListByStatus(status string, limit, offset int) ([]*entity.Purchase, error) {
	var out []*entity.Purchase
	for _, p := range r.store.purchases {
		if p.Status == status && p.DeletedAt == nil {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memTxRunner struct{ store *memStore }

func (tr *memTxRunner) RunPurchases(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
	purchaseRepo repository.PurchaseRepository,
) error) error {
	snap := tr.store.snapshot()
	err := fn(&memMovementRepo{store: tr.store}, &memProductRepo{store: tr.store}, &memPurchaseRepo{store: tr.store})
	if err != nil {
		tr.store.restore(snap)
	}
	return err
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store   *memStore
	movRepo *memMovementRepo
	svc     *purchases.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStore()
	productRepo := &memProductRepo{store: store}
	movRepo := &memMovementRepo{store: store}
	purchaseRepo := &memPurchaseRepo{store: store}
	providerRepo := &memProviderRepo{store: store}
	ledgerSvc := ledger.NewService(nil, productRepo, movRepo)
	svc := purchases.NewService(&memTxRunner{store: store}, ledgerSvc,
		purchaseRepo, providerRepo, productRepo, "PO")
	return &fixture{store: store, movRepo: movRepo, svc: svc}
}

func (f *fixture) addProvider(id, name string) {
	f.store.providers[id] = &entity.Provider{ID: id, Name: name}
}

func (f *fixture) addProduct(id, name string, stock int64) {
	f.store.products[id] = &entity.Product{
		ID:        id,
		SKU:       "SKU-" + id,
		Name:      name,
		SalePrice: decimal.RequireFromString("10.00"),
		CostPrice: decimal.RequireFromString("6.00"),
		Stock:     stock,
	}
}

func (f *fixture) stockOf(id string) int64 {
	return f.store.products[id].Stock
}

func (f *fixture) firstPurchase() *entity.Purchase {
	for _, p := range f.store.purchases {
		return p
	}
	return nil
}

func item(productID string, qty int64, price string) purchases.ItemInput {
	return purchases.ItemInput{
		ProductID: productID,
		Quantity:  qty,
		UnitPrice: decimal.RequireFromString(price),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// CreatePurchase
// ──────────────────────────────────────────────────────────────────────────────

// Compra PENDING: se persiste con código del día pero no toca el inventario.
func TestCreatePurchase_PendienteNoTocaInventario(t *testing.T) {
	f := newFixture(t)
	f.addProvider("prov-1", "Distribuidora Norte")
	f.addProduct("p1", "Harina", 0)

	p, err := f.svc.CreatePurchase(context.Background(), "u", purchases.CreateInput{
		ProviderID: "prov-1",
		Items:      []purchases.ItemInput{item("p1", 10, "6.00")},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.PurchaseStatusPending, p.Status)
	wantPrefix := "PO" + time.Now().UTC().Format("20060102")
	assert.Equal(t, wantPrefix+"0001", p.Code, "primer consecutivo del día")
	assert.Equal(t, int64(0), f.stockOf("p1"), "PENDING no afecta stock")
	assert.Empty(t, f.store.movements)
	require.Len(t, p.Items, 1)
	assert.True(t, p.Items[0].Total.Equal(decimal.RequireFromString("60.00")))
}

// Compra que nace PAID: sube el stock y registra un movimiento PURCHASE por
// línea en la misma transacción.
func TestCreatePurchase_PagadaAplicaInventario(t *testing.T) {
	f := newFixture(t)
	f.addProvider("prov-1", "Distribuidora Norte")
	f.addProduct("p1", "Harina", 0)

	p, err := f.svc.CreatePurchase(context.Background(), "u", purchases.CreateInput{
		ProviderID: "prov-1",
		Status:     entity.PurchaseStatusPaid,
		Items:      []purchases.ItemInput{item("p1", 10, "6.00")},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10), f.stockOf("p1"))
	require.Len(t, f.store.movements, 1)
	mov := f.store.movements[0]
	assert.Equal(t, entity.MovementKindPurchase, mov.Kind)
	assert.Equal(t, int64(10), mov.Quantity)
	assert.Equal(t, p.Code, mov.Reference, "el movimiento referencia el código de la compra")
}

func TestCreatePurchase_ConsecutivoDiario(t *testing.T) {
	f := newFixture(t)
	f.addProvider("prov-1", "X")
	f.addProduct("p1", "A", 0)
	ctx := context.Background()

	in := purchases.CreateInput{
		ProviderID: "prov-1",
		Items:      []purchases.ItemInput{item("p1", 1, "1.00")},
	}
	p1, err := f.svc.CreatePurchase(ctx, "u", in)
	require.NoError(t, err)
	p2, err := f.svc.CreatePurchase(ctx, "u", in)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(p1.Code, "0001"), "código %s", p1.Code)
	assert.True(t, strings.HasSuffix(p2.Code, "0002"), "código %s", p2.Code)
}

func TestCreatePurchase_ProveedorInexistente(t *testing.T) {
	f := newFixture(t)
	f.addProduct("p1", "A", 0)

	_, err := f.svc.CreatePurchase(context.Background(), "u", purchases.CreateInput{
		ProviderID: "no-existe",
		Items:      []purchases.ItemInput{item("p1", 1, "1.00")},
	})
	require.ErrorIs(t, err, domain.ErrProviderNotFound)
	assert.Empty(t, f.store.purchases)
}

// Validación en lote: un producto inexistente en cualquier línea rechaza la
// compra completa antes de cualquier mutación.
func TestCreatePurchase_ProductoInexistente_NoMutaNada(t *testing.T) {
	f := newFixture(t)
	f.addProvider("prov-1", "X")
	f.addProduct("p1", "A", 0)

	_, err := f.svc.CreatePurchase(context.Background(), "u", purchases.CreateInput{
		ProviderID: "prov-1",
		Status:     entity.PurchaseStatusPaid,
		Items: []purchases.ItemInput{
			item("p1", 5, "1.00"),
			item("fantasma", 3, "1.00"),
		},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.store.purchases, "nada persistido")
	assert.Empty(t, f.store.movements, "sin movimientos")
	assert.Equal(t, int64(0), f.stockOf("p1"))
}

func TestCreatePurchase_EntradaInvalida(t *testing.T) {
	f := newFixture(t)
	f.addProvider("prov-1", "X")
	f.addProduct("p1", "A", 0)
	ctx := context.Background()

	_, err := f.svc.CreatePurchase(ctx, "u", purchases.CreateInput{ProviderID: "prov-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	_, err = f.svc.CreatePurchase(ctx, "u", purchases.CreateInput{
		ProviderID: "prov-1",
		Items:      []purchases.ItemInput{item("p1", 0, "1.00")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")

	_, err = f.svc.CreatePurchase(ctx, "u", purchases.CreateInput{
		ProviderID: "prov-1",
		Status:     "SHIPPED",
		Items:      []purchases.ItemInput{item("p1", 1, "1.00")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "estado desconocido")
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdatePurchase — transiciones de estado
// ──────────────────────────────────────────────────────────────────────────────

func paidStatus() *string { s := entity.PurchaseStatusPaid; return &s }

func TestUpdatePurchase_TransicionAPagada(t *testing.T) {
	f := newFixture(t)
	f.addProvider("prov-1", "X")
	f.addProduct("p1", "A", 0)
	ctx := context.Background()

	p, err := f.svc.CreatePurchase(ctx, "u", purchases.CreateInput{
		ProviderID: "prov-1",
		Items:      []purchases.ItemInput{item("p1", 10, "6.00")},
	})
	require.NoError(t, err)
	require.Equal(t, int64(0), f.stockOf("p1"))

	updated, err := f.svc.UpdatePurchase(ctx, p.ID, "u", purchases.UpdateInput{Status: paidStatus()})
	require.NoError(t, err)

	assert.Equal(t, entity.PurchaseStatusPaid, updated.Status)
	assert.Equal(t, int64(10), f.stockOf("p1"), "PENDING → PAID aplica +cantidad")
	assert.Len(t, f.store.movements, 1)
}

// PAID → CANCELLED revierte el inventario con movimientos RETURN; el libro
// queda neteado a cero.
func TestUpdatePurchase_TransicionFueraDePagada(t *testing.T) {
	f := newFixture(t)
	f.addProvider("prov-1", "X")
	f.addProduct("p1", "A", 0)
	ctx := context.Background()

	p, err := f.svc.CreatePurchase(ctx, "u", purchases.CreateInput{
		ProviderID: "prov-1",
		Status:     entity.PurchaseStatusPaid,
		Items:      []purchases.ItemInput{item("p1", 10, "6.00")},
	})
	require.NoError(t, err)
	require.Equal(t, int64(10), f.stockOf("p1"))

	cancelled := entity.PurchaseStatusCancelled
	_, err = f.svc.UpdatePurchase(ctx, p.ID, "u", purchases.UpdateInput{Status: &cancelled})
	require.NoError(t, err)

	assert.Equal(t, int64(0), f.stockOf("p1"))
	require.Len(t, f.store.movements, 2)
	rev := f.store.movements[1]
	assert.Equal(t, entity.MovementKindReturn, rev.Kind)
	assert.Equal(t, int64(-10), rev.Quantity)

	sum, _ := f.movRepo.SumByProduct("p1")
	assert.Equal(t, int64(0), sum, "compra + reverso netean a cero")
}

// Transición dentro del mismo lado (PENDING → CANCELLED) no toca inventario.
func TestUpdatePurchase_TransicionSinEfecto(t *testing.T) {
	f := newFixture(t)
	f.addProvider("prov-1", "X")
	f.addProduct("p1", "A", 0)
	ctx := context.Background()

	p, err := f.svc.CreatePurchase(ctx, "u", purchases.CreateInput{
		ProviderID: "prov-1",
		Items:      []purchases.ItemInput{item("p1", 10, "6.00")},
	})
	require.NoError(t, err)

	cancelled := entity.PurchaseStatusCancelled
	_, err = f.svc.UpdatePurchase(ctx, p.ID, "u", purchases.UpdateInput{Status: &cancelled})
	require.NoError(t, err)

	assert.Equal(t, int64(0), f.stockOf("p1"))
	assert.Empty(t, f.store.movements)
}

// Reemplazar líneas de una compra PAID se rechaza: primero hay que salir de PAID.
func TestUpdatePurchase_ReemplazoItemsEnPagada(t *testing.T) {
	f := newFixture(t)
	f.addProvider("prov-1", "X")
	f.addProduct("p1", "A", 0)
	f.addProduct("p2", "B", 0)
	ctx := context.Background()

	p, err := f.svc.CreatePurchase(ctx, "u", purchases.CreateInput{
		ProviderID: "prov-1",
		Status:     entity.PurchaseStatusPaid,
		Items:      []purchases.ItemInput{item("p1", 10, "6.00")},
	})
	require.NoError(t, err)

	newItems := []purchases.ItemInput{item("p2", 5, "3.00")}
	_, err = f.svc.UpdatePurchase(ctx, p.ID, "u", purchases.UpdateInput{Items: &newItems})
	require.ErrorIs(t, err, domain.ErrConflict)

	stored, err := f.svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "p1", stored.Items[0].ProductID, "las líneas originales quedan intactas")
	assert.Equal(t, int64(10), f.stockOf("p1"), "el inventario tampoco cambia")
}

func TestUpdatePurchase_ReemplazoItemsPendiente(t *testing.T) {
	f := newFixture(t)
	f.addProvider("prov-1", "X")
	f.addProduct("p1", "A", 0)
	f.addProduct("p2", "B", 0)
	ctx := context.Background()

	p, err := f.svc.CreatePurchase(ctx, "u", purchases.CreateInput{
		ProviderID: "prov-1",
		Items:      []purchases.ItemInput{item("p1", 10, "6.00")},
	})
	require.NoError(t, err)

	newItems := []purchases.ItemInput{item("p2", 5, "3.00")}
	updated, err := f.svc.UpdatePurchase(ctx, p.ID, "u", purchases.UpdateInput{Items: &newItems})
	require.NoError(t, err)

	require.Len(t, updated.Items, 1)
	assert.Equal(t, "p2", updated.Items[0].ProductID)
	assert.Equal(t, p.ID, updated.Items[0].PurchaseID, "las líneas nuevas pertenecen a la compra")
	assert.Empty(t, f.store.movements, "reemplazo en PENDING no toca inventario")
}

func TestUpdatePurchase_NoEncontrada(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.UpdatePurchase(context.Background(), "no-existe", "u", purchases.UpdateInput{Status: paidStatus()})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdatePurchase_EstadoDesconocido(t *testing.T) {
	f := newFixture(t)
	bad := "SHIPPED"
	_, err := f.svc.UpdatePurchase(context.Background(), "cualquiera", "u", purchases.UpdateInput{Status: &bad})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// DeletePurchase
// ──────────────────────────────────────────────────────────────────────────────

// Eliminar una compra PAID revierte el inventario y deja tombstone: la compra
// desaparece de las consultas pero su código no se reutiliza.
func TestDeletePurchase_PagadaRevierteInventario(t *testing.T) {
	f := newFixture(t)
	f.addProvider("prov-1", "X")
	f.addProduct("p1", "A", 0)
	ctx := context.Background()

	p, err := f.svc.CreatePurchase(ctx, "u", purchases.CreateInput{
		ProviderID: "prov-1",
		Status:     entity.PurchaseStatusPaid,
		Items:      []purchases.ItemInput{item("p1", 10, "6.00")},
	})
	require.NoError(t, err)
	require.Equal(t, int64(10), f.stockOf("p1"))

	require.NoError(t, f.svc.DeletePurchase(ctx, p.ID, "u"))

	assert.Equal(t, int64(0), f.stockOf("p1"))
	_, err = f.svc.GetByID(ctx, p.ID)
	require.ErrorIs(t, err, domain.ErrNotFound, "eliminada no aparece en consultas")

	// El consecutivo no se reutiliza: la siguiente compra del día toma 0002.
	p2, err := f.svc.CreatePurchase(ctx, "u", purchases.CreateInput{
		ProviderID: "prov-1",
		Items:      []purchases.ItemInput{item("p1", 1, "1.00")},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(p2.Code, "0002"), "código %s", p2.Code)
}

func TestDeletePurchase_PendienteSinMovimientos(t *testing.T) {
	f := newFixture(t)
	f.addProvider("prov-1", "X")
	f.addProduct("p1", "A", 0)
	ctx := context.Background()

	p, err := f.svc.CreatePurchase(ctx, "u", purchases.CreateInput{
		ProviderID: "prov-1",
		Items:      []purchases.ItemInput{item("p1", 10, "6.00")},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeletePurchase(ctx, p.ID, "u"))
	assert.Empty(t, f.store.movements)
}

func TestDeletePurchase_NoEncontrada(t *testing.T) {
	f := newFixture(t)
	err := f.svc.DeletePurchase(context.Background(), "no-existe", "u")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestListByStatus_EstadoDesconocido(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ListByStatus(context.Background(), "SHIPPED", 10, 0)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListByProvider(t *testing.T) {
	f := newFixture(t)
	f.addProvider("prov-1", "X")
	f.addProvider("prov-2", "Y")
	f.addProduct("p1", "A", 0)
	ctx := context.Background()

	_, err := f.svc.CreatePurchase(ctx, "u", purchases.CreateInput{
		ProviderID: "prov-1",
		Items:      []purchases.ItemInput{item("p1", 1, "1.00")},
	})
	require.NoError(t, err)
	_, err = f.svc.CreatePurchase(ctx, "u", purchases.CreateInput{
		ProviderID: "prov-2",
		Items:      []purchases.ItemInput{item("p1", 1, "1.00")},
	})
	require.NoError(t, err)

	list, err := f.svc.ListByProvider(ctx, "prov-1", 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "prov-1", list[0].ProviderID)
}
