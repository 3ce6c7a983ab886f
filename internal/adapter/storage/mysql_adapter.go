package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ardiwn/shop-api/internal/core/domain"
)

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	var roles []byte
	err := m.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, roles
		FROM users WHERE email = ?`, email,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &roles)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}

	if err := json.Unmarshal(roles, &user.Roles); err != nil {
		return nil, fmt.Errorf("decode roles for user %d: %w", user.ID, err)
	}

	return &user, nil
}

func (m *MySQLAdapter) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := m.db.QueryRowContext(ctx, `
		SELECT id, name, price, qty
		FROM products WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Price, &p.Qty)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}

	return &p, nil
}

func (m *MySQLAdapter) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, name, price, qty
		FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Qty); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

// CreateOrder runs the order insert, its items, and the stock decrements in
// one transaction. Each decrement is guarded by `qty >= ?`: zero affected
// rows means the stock moved under us since validation, and the whole
// transaction rolls back with domain.ErrInsufficientStock.
func (m *MySQLAdapter) CreateOrder(ctx context.Context, userID int64, createdAt time.Time, items []domain.LineItem) (int64, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO orders (user_id, created_at)
		VALUES (?, ?)`,
		userID, createdAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}

	orderID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("order id: %w", err)
	}

	for _, item := range items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, qty)
			VALUES (?, ?, ?)`,
			orderID, item.ProductID, item.Qty,
		)
		if err != nil {
			return 0, fmt.Errorf("insert order item: %w", err)
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE products
			SET qty = qty - ?
			WHERE id = ? AND qty >= ?`,
			item.Qty, item.ProductID, item.Qty,
		)
		if err != nil {
			return 0, fmt.Errorf("decrement stock: %w", err)
		}

		rows, _ := result.RowsAffected()
		if rows == 0 {
			return 0, fmt.Errorf("%w: product %d", domain.ErrInsufficientStock, item.ProductID)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}

	return orderID, nil
}

func (m *MySQLAdapter) ListOrders(ctx context.Context) ([]domain.OrderSummary, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT o.id, o.created_at, u.email
		FROM orders o
		JOIN users u ON u.id = o.user_id
		ORDER BY o.id`)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.OrderSummary
	for rows.Next() {
		var o domain.OrderSummary
		if err := rows.Scan(&o.ID, &o.CreatedAt, &o.Email); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	return orders, nil
}
