package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rl1809/store-pos/internal/core/domain"
	"github.com/rl1809/store-pos/internal/port"
)

// InventoryService backs the staff dashboard: product and supplier upkeep,
// manual stock adjustment and sales reporting.
type InventoryService struct {
	store  port.InventoryStore
	logger *zap.Logger
}

func NewInventoryService(store port.InventoryStore, logger *zap.Logger) *InventoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryService{store: store, logger: logger}
}

func (s *InventoryService) ListAvailableProducts(ctx context.Context) ([]domain.Product, error) {
	return s.store.GetAvailableProducts(ctx)
}

func (s *InventoryService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.store.GetProduct(ctx, id)
}

func (s *InventoryService) AddProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	id, err := s.store.CreateProduct(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	p.ID = id
	s.logger.Info("product added", zap.Int64("product_id", id), zap.String("name", p.Name))
	return &p, nil
}

func (s *InventoryService) UpdateProduct(ctx context.Context, p domain.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.store.UpdateProduct(ctx, p); err != nil {
		return fmt.Errorf("update product %d: %w", p.ID, err)
	}
	return nil
}

func (s *InventoryService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	s.logger.Info("product deleted", zap.Int64("product_id", id))
	return nil
}

// AdjustStock restocks (positive delta) or corrects (negative delta) a
// product and returns the new quantity on hand.
func (s *InventoryService) AdjustStock(ctx context.Context, productID int64, delta int) (int, error) {
	var stock int
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx port.Tx) error {
		var err error
		stock, err = tx.AdjustStock(ctx, productID, delta)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("adjust stock of product %d: %w", productID, err)
	}
	s.logger.Info("stock adjusted", zap.Int64("product_id", productID), zap.Int("delta", delta), zap.Int("stock", stock))
	return stock, nil
}

func (s *InventoryService) AddSupplier(ctx context.Context, sup domain.Supplier) (*domain.Supplier, error) {
	if err := sup.Validate(); err != nil {
		return nil, err
	}
	id, err := s.store.CreateSupplier(ctx, sup)
	if err != nil {
		return nil, fmt.Errorf("create supplier: %w", err)
	}
	sup.ID = id
	return &sup, nil
}

func (s *InventoryService) UpdateSupplier(ctx context.Context, sup domain.Supplier) error {
	if err := sup.Validate(); err != nil {
		return err
	}
	if err := s.store.UpdateSupplier(ctx, sup); err != nil {
		return fmt.Errorf("update supplier %d: %w", sup.ID, err)
	}
	return nil
}

func (s *InventoryService) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	return s.store.ListSuppliers(ctx)
}

func (s *InventoryService) ListDailyTotals(ctx context.Context) ([]domain.DailyTotal, error) {
	return s.store.ListDailyTotals(ctx)
}

// GetCustomerOrderHistory lists a customer's sales, newest date first.
func (s *InventoryService) GetCustomerOrderHistory(ctx context.Context, customerID int64) ([]domain.HistoryEntry, error) {
	return s.store.GetCustomerOrderHistory(ctx, customerID)
}
