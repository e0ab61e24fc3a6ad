package handler

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/store-pos/internal/core/domain"
	"github.com/rl1809/store-pos/internal/core/service"
)

var errBackend = errors.New("connection reset")

var saleDay = time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

type fakeOrders struct {
	products []domain.Product
	err      error
	lastReq  domain.OrderRequest
	tendered decimal.Decimal
}

func (f *fakeOrders) ListAvailableProducts(ctx context.Context) ([]domain.Product, error) {
	return f.products, f.err
}

func (f *fakeOrders) SubmitOrder(ctx context.Context, req domain.OrderRequest) (*domain.OrderResult, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result(req), nil
}

func (f *fakeOrders) PlaceOrder(ctx context.Context, req domain.OrderRequest, tendered decimal.Decimal) (*domain.OrderResult, decimal.Decimal, error) {
	f.lastReq = req
	f.tendered = tendered
	if f.err != nil {
		return nil, decimal.Zero, f.err
	}
	res := f.result(req)
	return res, tendered.Sub(res.OrderTotal), nil
}

// result prices every line at 2.50.
func (f *fakeOrders) result(req domain.OrderRequest) *domain.OrderResult {
	res := &domain.OrderResult{OrderTotal: decimal.Zero}
	for i, l := range req.Lines {
		sale := domain.SaleRecord{
			ID:         "sale-" + string(rune('a'+i)),
			ProductID:  l.ProductID,
			Quantity:   l.Quantity,
			UnitPrice:  decimal.RequireFromString("2.50"),
			SaleDate:   saleDay,
			CustomerID: req.CustomerID,
		}
		res.Sales = append(res.Sales, sale)
		res.OrderTotal = res.OrderTotal.Add(sale.Subtotal())
	}
	return res
}

type fakeInventory struct {
	err       error
	stock     int
	history   []domain.HistoryEntry
	totals    []domain.DailyTotal
	suppliers []domain.Supplier
	updated   domain.Product
	deleted   int64
}

func (f *fakeInventory) AddProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	p.ID = 42
	return &p, nil
}

func (f *fakeInventory) UpdateProduct(ctx context.Context, p domain.Product) error {
	f.updated = p
	return f.err
}

func (f *fakeInventory) DeleteProduct(ctx context.Context, id int64) error {
	f.deleted = id
	return f.err
}

func (f *fakeInventory) AdjustStock(ctx context.Context, productID int64, delta int) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.stock += delta
	return f.stock, nil
}

func (f *fakeInventory) AddSupplier(ctx context.Context, s domain.Supplier) (*domain.Supplier, error) {
	if f.err != nil {
		return nil, f.err
	}
	s.ID = 9
	return &s, nil
}

func (f *fakeInventory) UpdateSupplier(ctx context.Context, s domain.Supplier) error {
	return f.err
}

func (f *fakeInventory) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	return f.suppliers, f.err
}

func (f *fakeInventory) ListDailyTotals(ctx context.Context) ([]domain.DailyTotal, error) {
	return f.totals, f.err
}

func (f *fakeInventory) GetCustomerOrderHistory(ctx context.Context, customerID int64) ([]domain.HistoryEntry, error) {
	return f.history, f.err
}

type fakeAccounts struct {
	err error
}

func (f *fakeAccounts) RegisterCustomer(ctx context.Context, req service.SignupRequest) (*domain.Customer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Customer{ID: 5, Username: req.Username}, nil
}

func (f *fakeAccounts) Authenticate(ctx context.Context, username, password string) (*domain.Principal, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Principal{ID: 1, Username: username, Role: domain.RoleStaff}, nil
}
