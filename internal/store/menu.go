package store

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const listMenuItems = `
SELECT id, name, price_cents, available, created_at
FROM menu_items
ORDER BY name
`

func (q *Queries) ListMenuItems(ctx context.Context) ([]MenuItem, error) {
	rows, err := q.db.Query(ctx, listMenuItems)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []MenuItem
	for rows.Next() {
		var m MenuItem
		if err := rows.Scan(&m.ID, &m.Name, &m.PriceCents, &m.Available, &m.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

type CreateMenuItemParams struct {
	Name       string
	PriceCents int64
	Available  bool
}

const createMenuItem = `
INSERT INTO menu_items (name, price_cents, available)
VALUES ($1, $2, $3)
RETURNING id, name, price_cents, available, created_at
`

func (q *Queries) CreateMenuItem(ctx context.Context, arg CreateMenuItemParams) (MenuItem, error) {
	row := q.db.QueryRow(ctx, createMenuItem, arg.Name, arg.PriceCents, arg.Available)
	var m MenuItem
	err := row.Scan(&m.ID, &m.Name, &m.PriceCents, &m.Available, &m.CreatedAt)
	return m, err
}

const setMenuItemAvailable = `
UPDATE menu_items SET available = $2 WHERE id = $1
`

func (q *Queries) SetMenuItemAvailable(ctx context.Context, id int64, available bool) error {
	tag, err := q.db.Exec(ctx, setMenuItemAvailable, id, available)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
