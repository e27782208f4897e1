package store

import (
	"context"
	"fmt"

	"github.com/covermaker/covermaker/internal/catalog"
)

// ---------------------------------------------------------------------------
// Customers
// ---------------------------------------------------------------------------

// ListCustomers returns all customers ordered by name.
func (s *Store) ListCustomers(ctx context.Context) ([]catalog.Customer, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, address, phone FROM customers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var out []catalog.Customer
	for rows.Next() {
		var c catalog.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.Phone); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CustomerByID returns one customer.
func (s *Store) CustomerByID(ctx context.Context, id int64) (*catalog.Customer, error) {
	var c catalog.Customer
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, address, phone FROM customers WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Address, &c.Phone)
	if err != nil {
		return nil, wrapRead("customer", id, err)
	}
	return &c, nil
}

// CreateCustomer inserts a customer.
func (s *Store) CreateCustomer(ctx context.Context, c catalog.Customer) (*catalog.Customer, error) {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO customers (name, address, phone) VALUES ($1, $2, $3) RETURNING id`,
		c.Name, c.Address, c.Phone).Scan(&c.ID)
	if err != nil {
		return nil, wrapWrite("customer", err)
	}
	return &c, nil
}

// UpdateCustomer replaces a customer's attributes.
func (s *Store) UpdateCustomer(ctx context.Context, c catalog.Customer) (*catalog.Customer, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE customers SET name = $2, address = $3, phone = $4 WHERE id = $1`,
		c.ID, c.Name, c.Address, c.Phone)
	if err != nil {
		return nil, wrapWrite("customer", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, &NotFoundError{Entity: "customer", Key: c.ID}
	}
	return &c, nil
}

// DeleteCustomer removes a customer.
func (s *Store) DeleteCustomer(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "customer", Key: id}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Orders
// ---------------------------------------------------------------------------

const orderColumns = `id, customer_id, marketplace, marketplace_order_number, order_date`

func scanOrder(row interface{ Scan(...any) error }) (catalog.Order, error) {
	var o catalog.Order
	err := row.Scan(&o.ID, &o.CustomerID, &o.Marketplace, &o.MarketplaceOrderNumber, &o.OrderDate)
	return o, err
}

// ListOrders returns all orders, newest first. A non-zero customerID
// restricts the result to that customer.
func (s *Store) ListOrders(ctx context.Context, customerID int64) ([]catalog.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	args := []any{}
	if customerID != 0 {
		query += ` WHERE customer_id = $1`
		args = append(args, customerID)
	}
	query += ` ORDER BY order_date DESC, id DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []catalog.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// OrderByID returns one order.
func (s *Store) OrderByID(ctx context.Context, id int64) (*catalog.Order, error) {
	o, err := scanOrder(s.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return nil, wrapRead("order", id, err)
	}
	return &o, nil
}

// CreateOrder inserts an order together with its lines in one transaction.
// The lines carry unit prices already computed by the pricing engine.
func (s *Store) CreateOrder(ctx context.Context, o catalog.Order, lines []catalog.OrderLine) (*catalog.Order, []catalog.OrderLine, error) {
	err := s.withTx(ctx, func(tx DBTX) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO orders (customer_id, marketplace, marketplace_order_number, order_date)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id`,
			o.CustomerID, o.Marketplace, o.MarketplaceOrderNumber, o.OrderDate).
			Scan(&o.ID)
		if err != nil {
			return wrapWrite("order", err)
		}

		for i := range lines {
			lines[i].OrderID = o.ID
			err := tx.QueryRow(ctx,
				`INSERT INTO order_lines (order_id, model_id, material_id, colour, quantity,
					handle_zipper, two_in_one_pocket, music_rest_zipper, unit_price)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				 RETURNING id`,
				o.ID, lines[i].ModelID, lines[i].MaterialID, lines[i].Colour, lines[i].Quantity,
				lines[i].HandleZipper, lines[i].TwoInOnePocket, lines[i].MusicRestZipper,
				lines[i].UnitPrice).
				Scan(&lines[i].ID)
			if err != nil {
				return wrapWrite("order line", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &o, lines, nil
}

// OrderLines returns the lines of one order.
func (s *Store) OrderLines(ctx context.Context, orderID int64) ([]catalog.OrderLine, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, order_id, model_id, material_id, colour, quantity,
			handle_zipper, two_in_one_pocket, music_rest_zipper, unit_price
		 FROM order_lines WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()

	var out []catalog.OrderLine
	for rows.Next() {
		var l catalog.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ModelID, &l.MaterialID, &l.Colour, &l.Quantity,
			&l.HandleZipper, &l.TwoInOnePocket, &l.MusicRestZipper, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// DeleteOrder removes an order and its lines.
func (s *Store) DeleteOrder(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "order", Key: id}
	}
	return nil
}
