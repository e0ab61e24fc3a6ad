package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rl1809/store-pos/internal/core/domain"
	"github.com/rl1809/store-pos/internal/port"
)

// querier is the part of *sql.DB and *sql.Tx the queries need.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type MySQLAdapter struct {
	db *sql.DB
	catalog
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db, catalog: catalog{q: db}}
}

// WithinTx runs fn in a REPEATABLE READ transaction. Stock and daily-total
// rows are locked by the statements themselves, so this level is enough.
func (m *MySQLAdapter) WithinTx(ctx context.Context, fn func(ctx context.Context, tx port.Tx) error) error {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return wrapErr("begin tx", err)
	}
	defer tx.Rollback()

	if err := fn(ctx, &mysqlTx{catalog: catalog{q: tx}}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return wrapErr("commit tx", err)
	}
	return nil
}

type catalog struct {
	q querier
}

const productColumns = `id, name, price, stocks, supplier_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	var supplierID sql.NullInt64
	if err := row.Scan(&p.ID, &p.Name, &p.UnitPrice, &p.StockQuantity, &supplierID); err != nil {
		return domain.Product{}, err
	}
	p.SupplierID = supplierID.Int64
	return p, nil
}

func (c catalog) GetAvailableProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := c.q.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products WHERE stocks > 0 ORDER BY id`)
	if err != nil {
		return nil, wrapErr("query products", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, wrapErr("scan product", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate products", err)
	}
	return products, nil
}

func (c catalog) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := scanProduct(c.q.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, wrapErr("query product", err)
	}
	return &p, nil
}

// mysqlTx implements port.Tx on top of one *sql.Tx.
type mysqlTx struct {
	catalog
}

func (t *mysqlTx) lockProduct(ctx context.Context, id int64) (domain.Product, error) {
	p, err := scanProduct(t.q.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products WHERE id = ? FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, wrapErr("lock product", err)
	}
	return p, nil
}

func (t *mysqlTx) setStock(ctx context.Context, id int64, stock int) error {
	_, err := t.q.ExecContext(ctx, `UPDATE products SET stocks = ? WHERE id = ?`, stock, id)
	if err != nil {
		return wrapErr("update stock", err)
	}
	return nil
}

func (t *mysqlTx) ReserveStock(ctx context.Context, productID int64, quantity int) (domain.Product, error) {
	if quantity <= 0 {
		return domain.Product{}, fmt.Errorf("%w: reserve quantity %d for product %d", domain.ErrInvalidInput, quantity, productID)
	}
	p, err := t.lockProduct(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}
	if quantity > p.StockQuantity {
		return domain.Product{}, &domain.InsufficientStockError{
			ProductID: productID,
			Available: p.StockQuantity,
			Requested: quantity,
		}
	}

	p.StockQuantity -= quantity
	if err := t.setStock(ctx, productID, p.StockQuantity); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (t *mysqlTx) AdjustStock(ctx context.Context, productID int64, delta int) (int, error) {
	p, err := t.lockProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	if p.StockQuantity+delta < 0 {
		return 0, &domain.InsufficientStockError{
			ProductID: productID,
			Available: p.StockQuantity,
			Requested: -delta,
		}
	}

	stock := p.StockQuantity + delta
	if err := t.setStock(ctx, productID, stock); err != nil {
		return 0, err
	}
	return stock, nil
}

func (t *mysqlTx) RecordSale(ctx context.Context, sale domain.SaleRecord) (domain.SaleRecord, error) {
	sale.ID = uuid.NewString()
	sale.CreatedAt = time.Now().UTC()

	_, err := t.q.ExecContext(ctx, `
		INSERT INTO sales (id, product_id, quantity_sold, unit_price, sale_date, customer_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sale.ID, sale.ProductID, sale.Quantity, sale.UnitPrice,
		dateString(sale.SaleDate), sale.CustomerID, sale.CreatedAt,
	)
	if isMySQLError(err, errNoReferencedRow) {
		return domain.SaleRecord{}, fmt.Errorf("customer %d: %w", sale.CustomerID, domain.ErrNotFound)
	}
	if err != nil {
		return domain.SaleRecord{}, wrapErr("insert sale", err)
	}
	return sale, nil
}

// AddToDailyTotal upserts in one statement; the row stays locked until the
// surrounding transaction ends, so the read-back sees this order's total.
func (t *mysqlTx) AddToDailyTotal(ctx context.Context, date time.Time, amount decimal.Decimal) (decimal.Decimal, error) {
	day := dateString(date)

	_, err := t.q.ExecContext(ctx, `
		INSERT INTO totalsales (sale_date, amount) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE amount = amount + ?`,
		day, amount, amount,
	)
	if err != nil {
		return decimal.Zero, wrapErr("upsert daily total", err)
	}

	var total decimal.Decimal
	err = t.q.QueryRowContext(ctx, `SELECT amount FROM totalsales WHERE sale_date = ?`, day).Scan(&total)
	if err != nil {
		return decimal.Zero, wrapErr("read daily total", err)
	}
	return total, nil
}

func (m *MySQLAdapter) CreateProduct(ctx context.Context, p domain.Product) (int64, error) {
	result, err := m.db.ExecContext(ctx, `
		INSERT INTO products (name, price, stocks, supplier_id) VALUES (?, ?, ?, ?)`,
		p.Name, p.UnitPrice, p.StockQuantity, nullID(p.SupplierID),
	)
	if isMySQLError(err, errNoReferencedRow) {
		return 0, fmt.Errorf("supplier %d: %w", p.SupplierID, domain.ErrNotFound)
	}
	if err != nil {
		return 0, wrapErr("insert product", err)
	}
	return result.LastInsertId()
}

func (m *MySQLAdapter) UpdateProduct(ctx context.Context, p domain.Product) error {
	result, err := m.db.ExecContext(ctx, `
		UPDATE products SET name = ?, price = ?, stocks = ?, supplier_id = ? WHERE id = ?`,
		p.Name, p.UnitPrice, p.StockQuantity, nullID(p.SupplierID), p.ID,
	)
	if isMySQLError(err, errNoReferencedRow) {
		return fmt.Errorf("supplier %d: %w", p.SupplierID, domain.ErrNotFound)
	}
	if err != nil {
		return wrapErr("update product", err)
	}
	return expectOneRow(result)
}

func (m *MySQLAdapter) DeleteProduct(ctx context.Context, id int64) error {
	result, err := m.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if isMySQLError(err, errRowIsReferenced) {
		return fmt.Errorf("%w: product %d has recorded sales", domain.ErrInvalidInput, id)
	}
	if err != nil {
		return wrapErr("delete product", err)
	}
	return expectOneRow(result)
}

func (m *MySQLAdapter) CreateSupplier(ctx context.Context, s domain.Supplier) (int64, error) {
	result, err := m.db.ExecContext(ctx, `INSERT INTO suppliers (name, contact) VALUES (?, ?)`, s.Name, s.Contact)
	if err != nil {
		return 0, wrapErr("insert supplier", err)
	}
	return result.LastInsertId()
}

func (m *MySQLAdapter) UpdateSupplier(ctx context.Context, s domain.Supplier) error {
	result, err := m.db.ExecContext(ctx, `UPDATE suppliers SET name = ?, contact = ? WHERE id = ?`, s.Name, s.Contact, s.ID)
	if err != nil {
		return wrapErr("update supplier", err)
	}
	return expectOneRow(result)
}

func (m *MySQLAdapter) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT id, name, contact FROM suppliers ORDER BY id`)
	if err != nil {
		return nil, wrapErr("query suppliers", err)
	}
	defer rows.Close()

	suppliers := []domain.Supplier{}
	for rows.Next() {
		var s domain.Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Contact); err != nil {
			return nil, wrapErr("scan supplier", err)
		}
		suppliers = append(suppliers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate suppliers", err)
	}
	return suppliers, nil
}

func (m *MySQLAdapter) ListDailyTotals(ctx context.Context) ([]domain.DailyTotal, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT sale_date, amount FROM totalsales ORDER BY sale_date DESC`)
	if err != nil {
		return nil, wrapErr("query daily totals", err)
	}
	defer rows.Close()

	totals := []domain.DailyTotal{}
	for rows.Next() {
		var dt domain.DailyTotal
		if err := rows.Scan(&dt.SaleDate, &dt.Amount); err != nil {
			return nil, wrapErr("scan daily total", err)
		}
		totals = append(totals, dt)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate daily totals", err)
	}
	return totals, nil
}

func (m *MySQLAdapter) GetCustomerOrderHistory(ctx context.Context, customerID int64) ([]domain.HistoryEntry, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT s.id, p.name, s.quantity_sold, s.unit_price,
		       s.quantity_sold * s.unit_price AS total, s.sale_date
		FROM sales s
		JOIN products p ON s.product_id = p.id
		WHERE s.customer_id = ?
		ORDER BY s.sale_date DESC, s.created_at DESC`, customerID)
	if err != nil {
		return nil, wrapErr("query order history", err)
	}
	defer rows.Close()

	history := []domain.HistoryEntry{}
	for rows.Next() {
		var h domain.HistoryEntry
		if err := rows.Scan(&h.SaleID, &h.ProductName, &h.Quantity, &h.UnitPrice, &h.Total, &h.SaleDate); err != nil {
			return nil, wrapErr("scan order history", err)
		}
		history = append(history, h)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate order history", err)
	}
	return history, nil
}

func expectOneRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return wrapErr("rows affected", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
