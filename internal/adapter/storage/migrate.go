package storage

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS suppliers (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		contact VARCHAR(255) NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS products (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		price DECIMAL(12,2) NOT NULL,
		stocks INT NOT NULL DEFAULT 0,
		supplier_id BIGINT NULL,
		CONSTRAINT chk_products_stocks CHECK (stocks >= 0),
		CONSTRAINT chk_products_price CHECK (price >= 0),
		CONSTRAINT fk_products_supplier FOREIGN KEY (supplier_id) REFERENCES suppliers(id) ON DELETE SET NULL
	)`,

	`CREATE TABLE IF NOT EXISTS customers (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(64) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		address VARCHAR(255) NOT NULL DEFAULT '',
		cell_no VARCHAR(32) NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(64) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(16) NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS sales (
		id CHAR(36) PRIMARY KEY,
		product_id BIGINT NOT NULL,
		quantity_sold INT NOT NULL,
		unit_price DECIMAL(12,2) NOT NULL,
		sale_date DATE NOT NULL,
		customer_id BIGINT NOT NULL,
		created_at DATETIME(6) NOT NULL,
		CONSTRAINT chk_sales_quantity CHECK (quantity_sold > 0),
		CONSTRAINT fk_sales_product FOREIGN KEY (product_id) REFERENCES products(id),
		CONSTRAINT fk_sales_customer FOREIGN KEY (customer_id) REFERENCES customers(id),
		INDEX idx_sales_customer_date (customer_id, sale_date),
		INDEX idx_sales_date (sale_date)
	)`,

	`CREATE TABLE IF NOT EXISTS totalsales (
		sale_date DATE PRIMARY KEY,
		amount DECIMAL(14,2) NOT NULL DEFAULT 0,
		CONSTRAINT chk_totalsales_amount CHECK (amount >= 0)
	)`,
}

// Migrate creates the schema if it does not exist yet.
func (m *MySQLAdapter) Migrate(ctx context.Context) error {
	for _, migration := range migrations {
		if _, err := m.db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}
