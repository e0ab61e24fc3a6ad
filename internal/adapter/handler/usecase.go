package handler

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/rl1809/store-pos/internal/core/domain"
	"github.com/rl1809/store-pos/internal/core/service"
)

// OrderUseCase is implemented by service.OrderService.
type OrderUseCase interface {
	ListAvailableProducts(ctx context.Context) ([]domain.Product, error)
	SubmitOrder(ctx context.Context, req domain.OrderRequest) (*domain.OrderResult, error)
	PlaceOrder(ctx context.Context, req domain.OrderRequest, tendered decimal.Decimal) (*domain.OrderResult, decimal.Decimal, error)
}

// InventoryUseCase is implemented by service.InventoryService.
type InventoryUseCase interface {
	AddProduct(ctx context.Context, p domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, p domain.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	AdjustStock(ctx context.Context, productID int64, delta int) (int, error)
	AddSupplier(ctx context.Context, s domain.Supplier) (*domain.Supplier, error)
	UpdateSupplier(ctx context.Context, s domain.Supplier) error
	ListSuppliers(ctx context.Context) ([]domain.Supplier, error)
	ListDailyTotals(ctx context.Context) ([]domain.DailyTotal, error)
	GetCustomerOrderHistory(ctx context.Context, customerID int64) ([]domain.HistoryEntry, error)
}

// AccountUseCase is implemented by service.AccountService.
type AccountUseCase interface {
	RegisterCustomer(ctx context.Context, req service.SignupRequest) (*domain.Customer, error)
	Authenticate(ctx context.Context, username, password string) (*domain.Principal, error)
}

var (
	_ OrderUseCase     = (*service.OrderService)(nil)
	_ InventoryUseCase = (*service.InventoryService)(nil)
	_ AccountUseCase   = (*service.AccountService)(nil)
)
