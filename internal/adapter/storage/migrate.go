package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Migrate creates the schema idempotently.
func (m *MySQLAdapter) Migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			roles TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS products (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			price DECIMAL(10,2) NOT NULL,
			qty INT NOT NULL DEFAULT 0,
			CHECK (qty >= 0)
		)`,

		`CREATE TABLE IF NOT EXISTS orders (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			created_at DATETIME(6) NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)`,

		`CREATE TABLE IF NOT EXISTS order_items (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			order_id BIGINT NOT NULL,
			product_id BIGINT NOT NULL,
			qty INT NOT NULL,
			FOREIGN KEY (order_id) REFERENCES orders(id),
			FOREIGN KEY (product_id) REFERENCES products(id)
		)`,
	}

	for _, migration := range migrations {
		if _, err := m.db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("run migration: %w", err)
		}
	}

	return nil
}

// Seed inserts the development fixtures: one admin user and three products.
// Safe to call repeatedly.
func (m *MySQLAdapter) Seed(ctx context.Context) error {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	roles, err := json.Marshal([]string{"ADMIN"})
	if err != nil {
		return fmt.Errorf("encode roles: %w", err)
	}

	_, err = m.db.ExecContext(ctx, `
		INSERT IGNORE INTO users (email, password_hash, roles)
		VALUES (?, ?, ?)`,
		"alfonso@gmail.com", passwordHash, roles,
	)
	if err != nil {
		return fmt.Errorf("seed user: %w", err)
	}

	var count int
	if err := m.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	_, err = m.db.ExecContext(ctx, `
		INSERT INTO products (name, price, qty)
		VALUES
			('Laptop', 1500.00, 10),
			('Mouse', 20.00, 20),
			('Keyboard', 50.00, 30)`)
	if err != nil {
		return fmt.Errorf("seed products: %w", err)
	}

	return nil
}
