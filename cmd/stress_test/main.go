package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/rl1809/store-pos/internal/adapter/storage"
	"github.com/rl1809/store-pos/internal/core/domain"
	"github.com/rl1809/store-pos/internal/core/service"
)

const (
	initialStock  = 20
	totalRequests = 50
	unitPrice     = "3.75"
)

func main() {
	ctx := context.Background()

	dsn := getEnv("MYSQL_DSN", "root:root@tcp(localhost:3306)/storepos?parseTime=true")
	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")

	db, err := storage.OpenMySQL(ctx, dsn, storage.PoolOptions{MaxOpenConns: 50, LockWaitTimeout: 10 * time.Second})
	if err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	defer db.Close()

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer rdb.Close()

	// Initialize adapters and service
	mysqlAdapter := storage.NewMySQLAdapter(db)
	if err := mysqlAdapter.Migrate(ctx); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}
	redisAdapter := storage.NewRedisAdapter(rdb, time.Hour)
	orderService := service.NewOrderService(mysqlAdapter, redisAdapter)

	// Seed a fresh product and customer
	suffix := uuid.NewString()[:8]
	productID, err := mysqlAdapter.CreateProduct(ctx, domain.Product{
		Name:          "stress-item-" + suffix,
		UnitPrice:     decimal.RequireFromString(unitPrice),
		StockQuantity: initialStock,
	})
	if err != nil {
		log.Fatalf("failed to seed product: %v", err)
	}
	customerID, err := mysqlAdapter.CreateCustomer(ctx, domain.Customer{
		Username:     "stress-customer-" + suffix,
		PasswordHash: "-",
	})
	if err != nil {
		log.Fatalf("failed to seed customer: %v", err)
	}

	totalBefore := dailyTotal(ctx, mysqlAdapter)

	// Counters
	var successCount, stockoutCount, otherCount atomic.Int32

	// Spawn concurrent requests
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			_, err := orderService.SubmitOrder(ctx, domain.OrderRequest{
				RequestID:  fmt.Sprintf("stress-%s-%d", suffix, n),
				CustomerID: customerID,
				Lines:      []domain.CartLine{{ProductID: productID, Quantity: 1}},
			})
			var stockErr *domain.InsufficientStockError
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.As(err, &stockErr):
				stockoutCount.Add(1)
			default:
				otherCount.Add(1)
				log.Printf("request %d: %v", n, err)
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	// Results
	success := successCount.Load()
	stockout := stockoutCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Initial Stock:    %d\n", initialStock)
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Out of stock:     %d\n", stockout)
	fmt.Printf("Other failures:   %d\n", otherCount.Load())
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	failed := false
	check := func(ok bool, format string, args ...any) {
		if ok {
			fmt.Printf("PASS: "+format+"\n", args...)
			return
		}
		failed = true
		fmt.Printf("FAIL: "+format+"\n", args...)
	}

	check(success == initialStock && stockout == totalRequests-initialStock,
		"%d orders succeeded, %d rejected for stock", success, stockout)

	product, err := mysqlAdapter.GetProduct(ctx, productID)
	if err != nil {
		log.Fatalf("failed to read product: %v", err)
	}
	check(product.StockQuantity == 0, "final stock %d", product.StockQuantity)

	history, err := mysqlAdapter.GetCustomerOrderHistory(ctx, customerID)
	if err != nil {
		log.Fatalf("failed to read history: %v", err)
	}
	check(len(history) == int(success), "%d sale records", len(history))

	added := dailyTotal(ctx, mysqlAdapter).Sub(totalBefore)
	expected := decimal.RequireFromString(unitPrice).Mul(decimal.NewFromInt32(success))
	check(added.Equal(expected), "daily total grew by %s (expected %s)", added.StringFixed(2), expected.StringFixed(2))

	if failed {
		os.Exit(1)
	}
}

func dailyTotal(ctx context.Context, m *storage.MySQLAdapter) decimal.Decimal {
	totals, err := m.ListDailyTotals(ctx)
	if err != nil {
		log.Fatalf("failed to read daily totals: %v", err)
	}
	today := domain.DateOf(time.Now()).Format(time.DateOnly)
	for _, t := range totals {
		if t.SaleDate.Format(time.DateOnly) == today {
			return t.Amount
		}
	}
	return decimal.Zero
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
