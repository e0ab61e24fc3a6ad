package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rl1809/store-pos/internal/core/domain"
)

func (m *MySQLAdapter) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int
	err := m.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM (
			SELECT username FROM customers WHERE username = ?
			UNION ALL
			SELECT username FROM users WHERE username = ?
		) AS all_users`, username, username,
	).Scan(&count)
	if err != nil {
		return false, wrapErr("check username", err)
	}
	return count > 0, nil
}

func (m *MySQLAdapter) CreateCustomer(ctx context.Context, c domain.Customer) (int64, error) {
	result, err := m.db.ExecContext(ctx, `
		INSERT INTO customers (username, password_hash, address, cell_no) VALUES (?, ?, ?, ?)`,
		c.Username, c.PasswordHash, c.Address, c.CellNo,
	)
	if isMySQLError(err, errDupEntry) {
		return 0, domain.ErrUsernameTaken
	}
	if err != nil {
		return 0, wrapErr("insert customer", err)
	}
	return result.LastInsertId()
}

func (m *MySQLAdapter) CreateUser(ctx context.Context, u domain.User) (int64, error) {
	result, err := m.db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, role) VALUES (?, ?, ?)`,
		u.Username, u.PasswordHash, string(u.Role),
	)
	if isMySQLError(err, errDupEntry) {
		return 0, domain.ErrUsernameTaken
	}
	if err != nil {
		return 0, wrapErr("insert user", err)
	}
	return result.LastInsertId()
}

func (m *MySQLAdapter) FindCustomerByUsername(ctx context.Context, username string) (*domain.Customer, error) {
	var c domain.Customer
	err := m.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, address, cell_no
		FROM customers WHERE username = ?`, username,
	).Scan(&c.ID, &c.Username, &c.PasswordHash, &c.Address, &c.CellNo)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, wrapErr("query customer", err)
	}
	return &c, nil
}

func (m *MySQLAdapter) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	var role string
	err := m.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, role
		FROM users WHERE username = ?`, username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, wrapErr("query user", err)
	}
	u.Role = domain.Role(role)
	return &u, nil
}
