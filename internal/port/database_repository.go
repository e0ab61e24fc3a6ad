package port

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/store-pos/internal/core/domain"
)

type CatalogReader interface {
	// GetAvailableProducts lists products with stock above zero
	GetAvailableProducts(ctx context.Context) ([]domain.Product, error)

	// GetProduct returns domain.ErrNotFound for an unknown ID
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
}

type StockLedger interface {
	// ReserveStock locks the product row and decrements its stock,
	// returning the product as read under the lock
	ReserveStock(ctx context.Context, productID int64, quantity int) (domain.Product, error)

	// AdjustStock applies delta under the row lock; the result may not go below zero
	AdjustStock(ctx context.Context, productID int64, delta int) (int, error)
}

type SalesRecorder interface {
	// RecordSale appends one sale line and returns it with ID and CreatedAt set
	RecordSale(ctx context.Context, sale domain.SaleRecord) (domain.SaleRecord, error)
}

type DailyTotals interface {
	// AddToDailyTotal atomically inserts or increments the row for date
	AddToDailyTotal(ctx context.Context, date time.Time, amount decimal.Decimal) (decimal.Decimal, error)
}

// Tx is the set of store operations bound to one transaction.
type Tx interface {
	CatalogReader
	StockLedger
	SalesRecorder
	DailyTotals
}

type TxRunner interface {
	// WithinTx commits when fn returns nil and rolls back otherwise
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// OrderStore is what the order coordinator needs from the database.
type OrderStore interface {
	CatalogReader
	TxRunner
}

type InventoryStore interface {
	OrderStore

	CreateProduct(ctx context.Context, p domain.Product) (int64, error)
	UpdateProduct(ctx context.Context, p domain.Product) error
	DeleteProduct(ctx context.Context, id int64) error

	CreateSupplier(ctx context.Context, s domain.Supplier) (int64, error)
	UpdateSupplier(ctx context.Context, s domain.Supplier) error
	ListSuppliers(ctx context.Context) ([]domain.Supplier, error)

	ListDailyTotals(ctx context.Context) ([]domain.DailyTotal, error)
	GetCustomerOrderHistory(ctx context.Context, customerID int64) ([]domain.HistoryEntry, error)
}

type AccountStore interface {
	// UsernameExists checks customers and staff users together
	UsernameExists(ctx context.Context, username string) (bool, error)
	CreateCustomer(ctx context.Context, c domain.Customer) (int64, error)
	CreateUser(ctx context.Context, u domain.User) (int64, error)
	FindCustomerByUsername(ctx context.Context, username string) (*domain.Customer, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
}
