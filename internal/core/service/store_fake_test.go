package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rl1809/store-pos/internal/core/domain"
	"github.com/rl1809/store-pos/internal/port"
)

var errStoreDown = errors.New("store down")

type memState struct {
	products  map[int64]domain.Product
	suppliers map[int64]domain.Supplier
	sales     []domain.SaleRecord
	totals    map[string]decimal.Decimal
}

func (s memState) clone() memState {
	out := memState{
		products:  make(map[int64]domain.Product, len(s.products)),
		suppliers: make(map[int64]domain.Supplier, len(s.suppliers)),
		sales:     append([]domain.SaleRecord(nil), s.sales...),
		totals:    make(map[string]decimal.Decimal, len(s.totals)),
	}
	for k, v := range s.products {
		out.products[k] = v
	}
	for k, v := range s.suppliers {
		out.suppliers[k] = v
	}
	for k, v := range s.totals {
		out.totals[k] = v
	}
	return out
}

// memStore serializes transactions behind one lock and works on a copy of
// the state, publishing it only on commit.
type memStore struct {
	mu     sync.Mutex
	txMu   sync.Mutex
	state  memState
	nextID int64

	// failSaleAt makes the n-th RecordSale call (1-based) fail.
	failSaleAt int
	saleCalls  int
	// beforeTx runs after validation, before the transaction takes its lock.
	beforeTx func(*memStore)
	// txErrs are returned, one per call, by the next WithinTx calls after
	// fn has run and its work was discarded.
	txErrs  []error
	txCalls int

	customers map[string]domain.Customer
	users     map[string]domain.User
}

func newMemStore() *memStore {
	return &memStore{
		state: memState{
			products:  make(map[int64]domain.Product),
			suppliers: make(map[int64]domain.Supplier),
			totals:    make(map[string]decimal.Decimal),
		},
		customers: make(map[string]domain.Customer),
		users:     make(map[string]domain.User),
	}
}

func (m *memStore) addProduct(name, price string, stock int) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.state.products[m.nextID] = domain.Product{
		ID: m.nextID, Name: name, UnitPrice: decimal.RequireFromString(price), StockQuantity: stock,
	}
	return m.nextID
}

func (m *memStore) stock(id int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.products[id].StockQuantity
}

func (m *memStore) setStock(id int64, qty int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.state.products[id]
	p.StockQuantity = qty
	m.state.products[id] = p
}

func (m *memStore) sales() []domain.SaleRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.SaleRecord(nil), m.state.sales...)
}

func (m *memStore) total(date time.Time) (decimal.Decimal, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.state.totals[date.Format(time.DateOnly)]
	return v, ok
}

func (m *memStore) GetAvailableProducts(ctx context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return availableProducts(m.state), nil
}

func (m *memStore) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.state.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (m *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx port.Tx) error) error {
	if m.beforeTx != nil {
		m.beforeTx(m)
	}

	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	work := m.state.clone()
	m.mu.Unlock()

	m.txCalls++
	if err := fn(ctx, &memTx{store: m, state: work}); err != nil {
		return err
	}
	if len(m.txErrs) > 0 {
		err := m.txErrs[0]
		m.txErrs = m.txErrs[1:]
		return err
	}

	m.mu.Lock()
	m.state = work
	m.mu.Unlock()
	return nil
}

func (m *memStore) CreateProduct(ctx context.Context, p domain.Product) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	p.ID = m.nextID
	m.state.products[p.ID] = p
	return p.ID, nil
}

func (m *memStore) UpdateProduct(ctx context.Context, p domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.state.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	m.state.products[p.ID] = p
	return nil
}

func (m *memStore) DeleteProduct(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.state.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.state.products, id)
	return nil
}

func (m *memStore) CreateSupplier(ctx context.Context, s domain.Supplier) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	s.ID = m.nextID
	m.state.suppliers[s.ID] = s
	return s.ID, nil
}

func (m *memStore) UpdateSupplier(ctx context.Context, s domain.Supplier) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.state.suppliers[s.ID]; !ok {
		return domain.ErrNotFound
	}
	m.state.suppliers[s.ID] = s
	return nil
}

func (m *memStore) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Supplier, 0, len(m.state.suppliers))
	for _, s := range m.state.suppliers {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) ListDailyTotals(ctx context.Context) ([]domain.DailyTotal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.DailyTotal, 0, len(m.state.totals))
	for k, v := range m.state.totals {
		d, _ := time.Parse(time.DateOnly, k)
		out = append(out, domain.DailyTotal{SaleDate: d, Amount: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SaleDate.After(out[j].SaleDate) })
	return out, nil
}

func (m *memStore) GetCustomerOrderHistory(ctx context.Context, customerID int64) ([]domain.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.HistoryEntry
	for i := len(m.state.sales) - 1; i >= 0; i-- {
		s := m.state.sales[i]
		if s.CustomerID != customerID {
			continue
		}
		out = append(out, domain.HistoryEntry{
			SaleID:      s.ID,
			ProductName: m.state.products[s.ProductID].Name,
			Quantity:    s.Quantity,
			UnitPrice:   s.UnitPrice,
			Total:       s.Subtotal(),
			SaleDate:    s.SaleDate,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SaleDate.After(out[j].SaleDate) })
	return out, nil
}

func (m *memStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, c := m.customers[username]
	_, u := m.users[username]
	return c || u, nil
}

func (m *memStore) CreateCustomer(ctx context.Context, c domain.Customer) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	c.ID = m.nextID
	m.customers[c.Username] = c
	return c.ID, nil
}

func (m *memStore) CreateUser(ctx context.Context, u domain.User) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	u.ID = m.nextID
	m.users[u.Username] = u
	return u.ID, nil
}

func (m *memStore) FindCustomerByUsername(ctx context.Context, username string) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (m *memStore) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

type memTx struct {
	store *memStore
	state memState
}

func (t *memTx) GetAvailableProducts(ctx context.Context) ([]domain.Product, error) {
	return availableProducts(t.state), nil
}

func (t *memTx) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	p, ok := t.state.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (t *memTx) ReserveStock(ctx context.Context, productID int64, quantity int) (domain.Product, error) {
	if quantity <= 0 {
		return domain.Product{}, domain.ErrInvalidInput
	}
	p, ok := t.state.products[productID]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	if quantity > p.StockQuantity {
		return domain.Product{}, &domain.InsufficientStockError{
			ProductID: productID, Available: p.StockQuantity, Requested: quantity,
		}
	}
	p.StockQuantity -= quantity
	t.state.products[productID] = p
	return p, nil
}

func (t *memTx) AdjustStock(ctx context.Context, productID int64, delta int) (int, error) {
	p, ok := t.state.products[productID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if p.StockQuantity+delta < 0 {
		return 0, &domain.InsufficientStockError{
			ProductID: productID, Available: p.StockQuantity, Requested: -delta,
		}
	}
	p.StockQuantity += delta
	t.state.products[productID] = p
	return p.StockQuantity, nil
}

func (t *memTx) RecordSale(ctx context.Context, sale domain.SaleRecord) (domain.SaleRecord, error) {
	t.store.saleCalls++
	if t.store.failSaleAt > 0 && t.store.saleCalls == t.store.failSaleAt {
		return domain.SaleRecord{}, &domain.PersistenceError{Op: "insert sale", Err: errStoreDown}
	}
	sale.ID = uuid.NewString()
	sale.CreatedAt = time.Now()
	t.state.sales = append(t.state.sales, sale)
	return sale, nil
}

func (t *memTx) AddToDailyTotal(ctx context.Context, date time.Time, amount decimal.Decimal) (decimal.Decimal, error) {
	key := date.Format(time.DateOnly)
	t.state.totals[key] = t.state.totals[key].Add(amount)
	return t.state.totals[key], nil
}

func availableProducts(s memState) []domain.Product {
	var out []domain.Product
	for _, p := range s.products {
		if p.StockQuantity > 0 {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Mock CacheRepository
type mockCacheRepo struct {
	mu             sync.Mutex
	idempotencySet map[string]bool
}

func newMockCacheRepo() *mockCacheRepo {
	return &mockCacheRepo{idempotencySet: make(map[string]bool)}
}

func (m *mockCacheRepo) SetIdempotency(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.idempotencySet[key] {
		return false, nil
	}
	m.idempotencySet[key] = true
	return true, nil
}

func (m *mockCacheRepo) ReleaseIdempotency(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.idempotencySet, key)
	return nil
}
