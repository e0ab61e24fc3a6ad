package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/rl1809/store-pos/internal/core/domain"
	"github.com/rl1809/store-pos/internal/port"
)

const (
	idempotencyKeyPrefix = "order-request:"
	defaultLockRetries   = 3
)

type Option func(*OrderService)

// WithClock overrides the time source used to date sales.
func WithClock(now func() time.Time) Option {
	return func(s *OrderService) { s.now = now }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *OrderService) { s.logger = logger }
}

// WithLockRetries sets how many times a transaction that lost a lock wait
// or deadlock is replayed. Zero disables retries.
func WithLockRetries(n uint64) Option {
	return func(s *OrderService) { s.lockRetries = n }
}

// OrderService coordinates order placement: validate the cart against a
// catalog snapshot, then reserve stock, record sales and bump the daily
// total inside a single transaction.
type OrderService struct {
	store       port.OrderStore
	cache       port.CacheRepository
	logger      *zap.Logger
	now         func() time.Time
	lockRetries uint64
	catalog     singleflight.Group
}

// NewOrderService builds the coordinator. cache may be nil, in which case
// request IDs are not deduplicated.
func NewOrderService(store port.OrderStore, cache port.CacheRepository, opts ...Option) *OrderService {
	s := &OrderService{
		store:       store,
		cache:       cache,
		logger:      zap.NewNop(),
		now:         time.Now,
		lockRetries: defaultLockRetries,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListAvailableProducts returns in-stock products. Concurrent callers share
// one catalog query.
func (s *OrderService) ListAvailableProducts(ctx context.Context) ([]domain.Product, error) {
	// The shared query must not fail for every caller when the one that
	// started it goes away.
	v, err, _ := s.catalog.Do("available", func() (any, error) {
		return s.store.GetAvailableProducts(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	return append([]domain.Product(nil), v.([]domain.Product)...), nil
}

func (s *OrderService) SubmitOrder(ctx context.Context, req domain.OrderRequest) (*domain.OrderResult, error) {
	return s.submit(ctx, req, nil)
}

// settleFunc runs inside the transaction once the order total is known;
// an error rolls the order back.
type settleFunc func(total decimal.Decimal) error

func (s *OrderService) submit(ctx context.Context, req domain.OrderRequest, settle settleFunc) (result *domain.OrderResult, err error) {
	log := s.logger.With(zap.Int64("customer_id", req.CustomerID), zap.String("request_id", req.RequestID))

	cart, err := domain.NewCart(req.Lines)
	if err != nil {
		return nil, err
	}
	log.Debug("order state", zap.String("state", string(domain.OrderStateBuilding)), zap.Int("lines", len(cart.Lines())))
	if cart.IsEmpty() {
		return nil, domain.ErrEmptyOrder
	}

	if req.RequestID != "" && s.cache != nil {
		key := idempotencyKeyPrefix + req.RequestID
		ok, claimErr := s.cache.SetIdempotency(ctx, key)
		if claimErr != nil {
			return nil, fmt.Errorf("idempotency check failed: %w", claimErr)
		}
		if !ok {
			return nil, domain.ErrDuplicateRequest
		}
		defer func() {
			if err == nil {
				return
			}
			if releaseErr := s.cache.ReleaseIdempotency(context.WithoutCancel(ctx), key); releaseErr != nil {
				log.Warn("failed to release request id", zap.Error(releaseErr))
			}
		}()
	}

	log.Debug("order state", zap.String("state", string(domain.OrderStateValidating)))
	if err := s.validate(ctx, cart); err != nil {
		return nil, err
	}

	log.Debug("order state", zap.String("state", string(domain.OrderStateCommitting)))
	result, err = s.commitWithRetry(ctx, log, req.CustomerID, cart, settle)
	if err != nil {
		log.Info("order rolled back", zap.String("state", string(domain.OrderStateRolledBack)), zap.Error(err))
		return nil, err
	}

	log.Info("order committed",
		zap.String("state", string(domain.OrderStateCommitted)),
		zap.String("total", result.OrderTotal.StringFixed(2)),
		zap.Int("sales", len(result.Sales)),
	)
	return result, nil
}

// validate checks every line against a snapshot read. Nothing is locked
// here, so commit repeats the stock check under row locks.
func (s *OrderService) validate(ctx context.Context, cart domain.Cart) error {
	for _, line := range cart.Lines() {
		product, err := s.store.GetProduct(ctx, line.ProductID)
		if err != nil {
			return fmt.Errorf("product %d: %w", line.ProductID, err)
		}
		if line.Quantity > product.StockQuantity {
			return &domain.InsufficientStockError{
				ProductID: line.ProductID,
				Available: product.StockQuantity,
				Requested: line.Quantity,
			}
		}
	}
	return nil
}

// commitWithRetry replays the whole transaction when it was rolled back by
// a lock wait timeout or deadlock. Any other error is returned at once.
func (s *OrderService) commitWithRetry(ctx context.Context, log *zap.Logger, customerID int64, cart domain.Cart, settle settleFunc) (*domain.OrderResult, error) {
	var result *domain.OrderResult
	op := func() error {
		var err error
		result, err = s.commit(ctx, customerID, cart, settle)
		if err != nil && !domain.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 20 * time.Millisecond
	eb.MaxInterval = 500 * time.Millisecond
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, s.lockRetries), ctx)

	err := backoff.RetryNotify(op, policy, func(err error, wait time.Duration) {
		log.Warn("order transaction lost a lock, retrying", zap.Error(err), zap.Duration("wait", wait))
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *OrderService) commit(ctx context.Context, customerID int64, cart domain.Cart, settle settleFunc) (*domain.OrderResult, error) {
	var result *domain.OrderResult

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx port.Tx) error {
		today := domain.DateOf(s.now())
		res := &domain.OrderResult{OrderTotal: decimal.Zero}

		for _, line := range cart.Lines() {
			product, err := tx.ReserveStock(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return fmt.Errorf("reserve product %d: %w", line.ProductID, err)
			}

			sale, err := tx.RecordSale(ctx, domain.SaleRecord{
				ProductID:  line.ProductID,
				Quantity:   line.Quantity,
				UnitPrice:  product.UnitPrice,
				SaleDate:   today,
				CustomerID: customerID,
			})
			if err != nil {
				return fmt.Errorf("record sale of product %d: %w", line.ProductID, err)
			}

			res.Sales = append(res.Sales, sale)
			res.OrderTotal = res.OrderTotal.Add(sale.Subtotal())
		}

		if settle != nil {
			if err := settle(res.OrderTotal); err != nil {
				return err
			}
		}

		if _, err := tx.AddToDailyTotal(ctx, today, res.OrderTotal); err != nil {
			return fmt.Errorf("add to daily total: %w", err)
		}

		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PlaceOrder checks the tendered amount against a quote before the order
// is submitted, and again against the total computed under lock so a price
// edit in between cannot commit an underpaid order.
func (s *OrderService) PlaceOrder(ctx context.Context, req domain.OrderRequest, tendered decimal.Decimal) (*domain.OrderResult, decimal.Decimal, error) {
	total, err := s.Quote(ctx, req.Lines)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if _, err := domain.SettlePayment(total, tendered); err != nil {
		return nil, decimal.Zero, err
	}

	result, err := s.submit(ctx, req, func(total decimal.Decimal) error {
		_, err := domain.SettlePayment(total, tendered)
		return err
	})
	if err != nil {
		return nil, decimal.Zero, err
	}
	return result, tendered.Sub(result.OrderTotal), nil
}

// Quote prices a cart from the current catalog without validating stock.
func (s *OrderService) Quote(ctx context.Context, lines []domain.CartLine) (decimal.Decimal, error) {
	cart, err := domain.NewCart(lines)
	if err != nil {
		return decimal.Zero, err
	}
	if cart.IsEmpty() {
		return decimal.Zero, domain.ErrEmptyOrder
	}

	total := decimal.Zero
	for _, line := range cart.Lines() {
		product, err := s.store.GetProduct(ctx, line.ProductID)
		if err != nil {
			return decimal.Zero, fmt.Errorf("product %d: %w", line.ProductID, err)
		}
		total = total.Add(product.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total, nil
}
