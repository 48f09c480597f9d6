package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/domain"
)

type postgresOrderRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresOrderRepository(db *sql.DB, logger *logrus.Logger) domain.OrderRepository {
	return &postgresOrderRepository{
		db:  db,
		log: logger,
	}
}

// CreateOrder runs the whole checkout mutation in a single transaction:
// conditional stock decrement per item (capturing the catalog price), then
// the order insert. A failure on any item rolls back every earlier
// decrement, so no partial order or partial stock loss can ever commit.
func (r *postgresOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) (createdOrder *domain.Order, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.log.Errorf("Repository: Failed to begin checkout transaction: %v", err)
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				r.log.Errorf("Repository: Failed to rollback checkout transaction: %v", rbErr)
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = translateError(fmt.Errorf("failed to commit checkout transaction: %w", cErr))
			createdOrder = nil
			r.log.Errorf("Repository: %v", err)
		}
	}()

	decrementQuery := `
        UPDATE products
        SET stock = stock - $1, updated_at = NOW()
        WHERE id = $2 AND stock >= $1
        RETURNING price`

	total := 0.0
	for i := range order.Items {
		item := &order.Items[i]
		var price float64
		err = tx.QueryRowContext(ctx, decrementQuery, item.Quantity, item.ProductID).Scan(&price)
		if errors.Is(err, sql.ErrNoRows) {
			// The conditional update matched nothing: either the product is
			// gone or its stock is below the requested quantity.
			var stock int
			probeErr := tx.QueryRowContext(ctx, `SELECT stock FROM products WHERE id = $1`, item.ProductID).Scan(&stock)
			if errors.Is(probeErr, sql.ErrNoRows) {
				r.log.Warnf("Repository: Checkout references unknown product %d", item.ProductID)
				err = fmt.Errorf("%w: product %d", domain.ErrNotFound, item.ProductID)
				return nil, err
			}
			if probeErr != nil {
				err = fmt.Errorf("could not check stock for product %d: %w", item.ProductID, probeErr)
				return nil, err
			}
			r.log.Warnf("Repository: Insufficient stock for product %d (requested: %d, available: %d)", item.ProductID, item.Quantity, stock)
			err = fmt.Errorf("%w: product %d (requested: %d, available: %d)", domain.ErrInsufficientStock, item.ProductID, item.Quantity, stock)
			return nil, err
		}
		if err != nil {
			err = translateError(err)
			r.log.Errorf("Repository: Failed to decrement stock for product %d: %v", item.ProductID, err)
			return nil, fmt.Errorf("could not reserve stock for product %d: %w", item.ProductID, err)
		}

		item.Price = price
		total += price * float64(item.Quantity)
	}
	order.TotalPrice = total

	var userID sql.NullInt64
	if order.UserID != nil {
		userID = sql.NullInt64{Int64: *order.UserID, Valid: true}
	}

	orderQuery := `
        INSERT INTO orders (user_id, total_price, full_name, phone_number, street, city, state, pincode, country, payment_method, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id, status, created_at, updated_at`
	addr := order.ShippingAddress
	err = tx.QueryRowContext(ctx, orderQuery,
		userID, order.TotalPrice,
		addr.FullName, addr.PhoneNumber, addr.Street, addr.City, addr.State, addr.Pincode, addr.Country,
		string(order.PaymentMethod), string(order.Status),
	).Scan(&order.ID, &order.Status, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		err = translateError(err)
		r.log.Errorf("Repository: Failed to insert order: %v", err)
		return nil, fmt.Errorf("could not create order entry: %w", err)
	}

	itemQuery := `
        INSERT INTO order_items (order_id, product_id, quantity, price)
        VALUES ($1, $2, $3, $4)`
	stmt, err := tx.PrepareContext(ctx, itemQuery)
	if err != nil {
		r.log.Errorf("Repository: Failed to prepare order item statement: %v", err)
		return nil, fmt.Errorf("could not prepare item statement: %w", err)
	}
	defer stmt.Close()

	for _, item := range order.Items {
		if _, err = stmt.ExecContext(ctx, order.ID, item.ProductID, item.Quantity, item.Price); err != nil {
			err = translateError(err)
			r.log.Errorf("Repository: Failed to insert order item (product %d) for order %d: %v", item.ProductID, order.ID, err)
			return nil, fmt.Errorf("could not create order item (product %d): %w", item.ProductID, err)
		}
	}

	r.log.Infof("Repository: Order %d created with %d items, total %.2f", order.ID, len(order.Items), order.TotalPrice)
	return order, nil
}

// CancelOrder restores every line item's stock and marks the order
// cancelled in one transaction. The status guard in the UPDATE means a
// concurrent second cancellation matches zero rows and fails cleanly
// instead of crediting stock twice.
func (r *postgresOrderRepository) CancelOrder(ctx context.Context, id int64) (cancelled *domain.Order, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.log.Errorf("Repository: Failed to begin cancellation transaction: %v", err)
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				r.log.Errorf("Repository: Failed to rollback cancellation transaction: %v", rbErr)
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = translateError(fmt.Errorf("failed to commit cancellation transaction: %w", cErr))
			cancelled = nil
			r.log.Errorf("Repository: %v", err)
		}
	}()

	order := &domain.Order{}
	var userID sql.NullInt64
	updateQuery := `
        UPDATE orders
        SET status = $1, updated_at = NOW()
        WHERE id = $2 AND status = $3
        RETURNING id, user_id, total_price, full_name, phone_number, street, city, state, pincode, country, payment_method, status, created_at, updated_at`
	err = tx.QueryRowContext(ctx, updateQuery, string(domain.StatusCancelled), id, string(domain.StatusPending)).Scan(
		&order.ID, &userID, &order.TotalPrice,
		&order.ShippingAddress.FullName, &order.ShippingAddress.PhoneNumber, &order.ShippingAddress.Street,
		&order.ShippingAddress.City, &order.ShippingAddress.State, &order.ShippingAddress.Pincode, &order.ShippingAddress.Country,
		&order.PaymentMethod, &order.Status, &order.CreatedAt, &order.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		var status string
		probeErr := tx.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = $1`, id).Scan(&status)
		if errors.Is(probeErr, sql.ErrNoRows) {
			err = fmt.Errorf("%w: order %d", domain.ErrNotFound, id)
			return nil, err
		}
		if probeErr != nil {
			err = fmt.Errorf("could not check order %d status: %w", id, probeErr)
			return nil, err
		}
		r.log.Warnf("Repository: Attempt to cancel order %d in status '%s'", id, status)
		err = fmt.Errorf("%w: only pending orders can be cancelled", domain.ErrInvalidState)
		return nil, err
	}
	if err != nil {
		err = translateError(err)
		r.log.Errorf("Repository: Failed to update status for order %d: %v", id, err)
		return nil, fmt.Errorf("could not cancel order: %w", err)
	}
	if userID.Valid {
		order.UserID = &userID.Int64
	}

	order.Items, err = r.getOrderItemsTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	restoreQuery := `
        UPDATE products
        SET stock = stock + $1, updated_at = NOW()
        WHERE id = $2`
	for _, item := range order.Items {
		var res sql.Result
		res, err = tx.ExecContext(ctx, restoreQuery, item.Quantity, item.ProductID)
		if err != nil {
			err = translateError(err)
			r.log.Errorf("Repository: Failed to restore stock for product %d (order %d): %v", item.ProductID, id, err)
			return nil, fmt.Errorf("could not restore stock for product %d: %w", item.ProductID, err)
		}
		if affected, raErr := res.RowsAffected(); raErr == nil && affected == 0 {
			// Product was deleted after the order was placed; the order
			// keeps its snapshot and there is no stock row to credit.
			r.log.Warnf("Repository: Product %d no longer exists, skipping stock restore for order %d", item.ProductID, id)
		}
	}

	r.log.Infof("Repository: Order %d cancelled, stock restored for %d items", id, len(order.Items))
	return order, nil
}

func (r *postgresOrderRepository) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	order := &domain.Order{}
	var userID sql.NullInt64
	query := `
        SELECT id, user_id, total_price, full_name, phone_number, street, city, state, pincode, country, payment_method, status, created_at, updated_at
        FROM orders
        WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &userID, &order.TotalPrice,
		&order.ShippingAddress.FullName, &order.ShippingAddress.PhoneNumber, &order.ShippingAddress.Street,
		&order.ShippingAddress.City, &order.ShippingAddress.State, &order.ShippingAddress.Pincode, &order.ShippingAddress.Country,
		&order.PaymentMethod, &order.Status, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Order %d not found", id)
			return nil, fmt.Errorf("%w: order %d", domain.ErrNotFound, id)
		}
		r.log.Errorf("Repository: Failed to get order %d: %v", id, err)
		return nil, fmt.Errorf("could not retrieve order: %w", err)
	}
	if userID.Valid {
		order.UserID = &userID.Int64
	}

	items, err := r.getOrderItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (r *postgresOrderRepository) getOrderItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT product_id, quantity, price FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		r.log.Errorf("Repository: Failed to query items for order %d: %v", orderID, err)
		return nil, fmt.Errorf("could not retrieve order items: %w", err)
	}
	defer rows.Close()
	return scanOrderItems(rows)
}

func (r *postgresOrderRepository) getOrderItemsTx(ctx context.Context, tx *sql.Tx, orderID int64) ([]domain.OrderItem, error) {
	rows, err := tx.QueryContext(ctx, `SELECT product_id, quantity, price FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		r.log.Errorf("Repository: Failed to query items within tx for order %d: %v", orderID, err)
		return nil, fmt.Errorf("could not retrieve order items: %w", err)
	}
	defer rows.Close()
	return scanOrderItems(rows)
}

func scanOrderItems(rows *sql.Rows) ([]domain.OrderItem, error) {
	items := []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("error scanning order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}
	return items, nil
}

func (r *postgresOrderRepository) ListOrdersByUserID(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, error) {
	query := `
        SELECT id, user_id, total_price, full_name, phone_number, street, city, state, pincode, country, payment_method, status, created_at, updated_at
        FROM orders
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`
	return r.listOrders(ctx, query, userID, normalizeLimit(limit), normalizeOffset(offset))
}

func (r *postgresOrderRepository) ListOrders(ctx context.Context, limit, offset int) ([]domain.Order, error) {
	query := `
        SELECT id, user_id, total_price, full_name, phone_number, street, city, state, pincode, country, payment_method, status, created_at, updated_at
        FROM orders
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2`
	return r.listOrders(ctx, query, normalizeLimit(limit), normalizeOffset(offset))
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 10
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

func (r *postgresOrderRepository) listOrders(ctx context.Context, query string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Errorf("Repository: Failed to list orders: %v", err)
		return nil, fmt.Errorf("could not retrieve orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	orderIDs := []int64{}
	for rows.Next() {
		var order domain.Order
		var userID sql.NullInt64
		if err := rows.Scan(
			&order.ID, &userID, &order.TotalPrice,
			&order.ShippingAddress.FullName, &order.ShippingAddress.PhoneNumber, &order.ShippingAddress.Street,
			&order.ShippingAddress.City, &order.ShippingAddress.State, &order.ShippingAddress.Pincode, &order.ShippingAddress.Country,
			&order.PaymentMethod, &order.Status, &order.CreatedAt, &order.UpdatedAt,
		); err != nil {
			r.log.Errorf("Repository: Failed to scan order row: %v", err)
			return nil, fmt.Errorf("error scanning order data: %w", err)
		}
		if userID.Valid {
			uid := userID.Int64
			order.UserID = &uid
		}
		orders = append(orders, order)
		orderIDs = append(orderIDs, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	itemRows, err := r.db.QueryContext(ctx, `
        SELECT order_id, product_id, quantity, price
        FROM order_items
        WHERE order_id = ANY($1::bigint[])
        ORDER BY order_id, id`, pq.Array(orderIDs))
	if err != nil {
		r.log.Errorf("Repository: Failed to query items for orders %v: %v", orderIDs, err)
		return nil, fmt.Errorf("could not retrieve order items for list: %w", err)
	}
	defer itemRows.Close()

	itemsMap := make(map[int64][]domain.OrderItem)
	for itemRows.Next() {
		var item domain.OrderItem
		var orderID int64
		if err := itemRows.Scan(&orderID, &item.ProductID, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("error scanning order item data for list: %w", err)
		}
		itemsMap[orderID] = append(itemsMap[orderID], item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items for list: %w", err)
	}

	for i := range orders {
		if items, ok := itemsMap[orders[i].ID]; ok {
			orders[i].Items = items
		} else {
			orders[i].Items = []domain.OrderItem{}
		}
	}
	return orders, nil
}

func (r *postgresOrderRepository) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	order := &domain.Order{}
	var userID sql.NullInt64
	query := `
        UPDATE orders
        SET status = $1, updated_at = NOW()
        WHERE id = $2
        RETURNING id, user_id, total_price, full_name, phone_number, street, city, state, pincode, country, payment_method, status, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, string(status), id).Scan(
		&order.ID, &userID, &order.TotalPrice,
		&order.ShippingAddress.FullName, &order.ShippingAddress.PhoneNumber, &order.ShippingAddress.Street,
		&order.ShippingAddress.City, &order.ShippingAddress.State, &order.ShippingAddress.Pincode, &order.ShippingAddress.Country,
		&order.PaymentMethod, &order.Status, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Order %d not found for status update", id)
			return nil, fmt.Errorf("%w: order %d", domain.ErrNotFound, id)
		}
		err = translateError(err)
		r.log.Errorf("Repository: Failed to update status for order %d: %v", id, err)
		return nil, fmt.Errorf("could not update order status: %w", err)
	}
	if userID.Valid {
		order.UserID = &userID.Int64
	}

	items, err := r.getOrderItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (r *postgresOrderRepository) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		r.log.Errorf("Repository: Failed to count orders: %v", err)
		return 0, fmt.Errorf("could not count orders: %w", err)
	}
	return count, nil
}

func (r *postgresOrderRepository) TotalRevenue(ctx context.Context) (float64, error) {
	var revenue float64
	if err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(total_price), 0) FROM orders WHERE status <> 'Cancelled'`).Scan(&revenue); err != nil {
		r.log.Errorf("Repository: Failed to sum revenue: %v", err)
		return 0, fmt.Errorf("could not compute revenue: %w", err)
	}
	return revenue, nil
}
