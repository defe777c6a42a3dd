package store

import "context"

const listOrders = `
SELECT id, client_name, status, total_cents, created_at
FROM orders
ORDER BY created_at DESC
LIMIT $1
`

func (q *Queries) ListOrders(ctx context.Context, limit int32) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrders, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.ClientName, &o.Status, &o.TotalCents, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

const getOrder = `
SELECT id, client_name, status, total_cents, created_at
FROM orders
WHERE id = $1
`

func (q *Queries) GetOrder(ctx context.Context, id int64) (Order, error) {
	row := q.db.QueryRow(ctx, getOrder, id)
	var o Order
	err := row.Scan(&o.ID, &o.ClientName, &o.Status, &o.TotalCents, &o.CreatedAt)
	return o, err
}

type CreateOrderParams struct {
	ClientName string
	Status     string
	TotalCents int64
}

const createOrder = `
INSERT INTO orders (client_name, status, total_cents)
VALUES ($1, $2, $3)
RETURNING id, client_name, status, total_cents, created_at
`

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrder, arg.ClientName, arg.Status, arg.TotalCents)
	var o Order
	err := row.Scan(&o.ID, &o.ClientName, &o.Status, &o.TotalCents, &o.CreatedAt)
	return o, err
}

const updateOrderStatus = `
UPDATE orders SET status = $2 WHERE id = $1
`

func (q *Queries) UpdateOrderStatus(ctx context.Context, id int64, status string) error {
	_, err := q.db.Exec(ctx, updateOrderStatus, id, status)
	return err
}
