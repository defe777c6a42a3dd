package store

import (
	"context"
	"time"
)

const getAuthUser = `
SELECT id, email, name, password_hash, role, is_active, last_login_at, COALESCE(last_login_ip, ''), created_at
FROM auth_users
WHERE id = $1
`

func (q *Queries) GetAuthUser(ctx context.Context, id int64) (AuthUser, error) {
	row := q.db.QueryRow(ctx, getAuthUser, id)
	var u AuthUser
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.IsActive, &u.LastLoginAt, &u.LastLoginIP, &u.CreatedAt)
	return u, err
}

const getAuthUserByEmail = `
SELECT id, email, name, password_hash, role, is_active, last_login_at, COALESCE(last_login_ip, ''), created_at
FROM auth_users
WHERE email = $1
`

func (q *Queries) GetAuthUserByEmail(ctx context.Context, email string) (AuthUser, error) {
	row := q.db.QueryRow(ctx, getAuthUserByEmail, email)
	var u AuthUser
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.IsActive, &u.LastLoginAt, &u.LastLoginIP, &u.CreatedAt)
	return u, err
}

const countAuthUsers = `
SELECT COUNT(*) FROM auth_users
`

func (q *Queries) CountAuthUsers(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countAuthUsers).Scan(&n)
	return n, err
}

const countAuthAdmins = `
SELECT COUNT(*) FROM auth_users WHERE role = 'admin' AND is_active
`

func (q *Queries) CountAuthAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countAuthAdmins).Scan(&n)
	return n, err
}

type CreateAuthUserParams struct {
	Email        string
	Name         string
	PasswordHash string
	Role         string
	IsActive     bool
}

const createAuthUser = `
INSERT INTO auth_users (email, name, password_hash, role, is_active)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, email, name, password_hash, role, is_active, last_login_at, COALESCE(last_login_ip, ''), created_at
`

func (q *Queries) CreateAuthUser(ctx context.Context, arg CreateAuthUserParams) (AuthUser, error) {
	row := q.db.QueryRow(ctx, createAuthUser, arg.Email, arg.Name, arg.PasswordHash, arg.Role, arg.IsActive)
	var u AuthUser
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.IsActive, &u.LastLoginAt, &u.LastLoginIP, &u.CreatedAt)
	return u, err
}

type UpdateAuthUserLoginMetaParams struct {
	ID          int64
	LastLoginAt time.Time
	LastLoginIP string
}

const updateAuthUserLoginMeta = `
UPDATE auth_users SET last_login_at = $2, last_login_ip = $3 WHERE id = $1
`

func (q *Queries) UpdateAuthUserLoginMeta(ctx context.Context, arg UpdateAuthUserLoginMetaParams) error {
	_, err := q.db.Exec(ctx, updateAuthUserLoginMeta, arg.ID, arg.LastLoginAt, arg.LastLoginIP)
	return err
}

const updateAuthUserRole = `
UPDATE auth_users SET role = $2 WHERE id = $1
`

func (q *Queries) UpdateAuthUserRole(ctx context.Context, id int64, role string) error {
	_, err := q.db.Exec(ctx, updateAuthUserRole, id, role)
	return err
}

const updateAuthUserPassword = `
UPDATE auth_users SET password_hash = $2 WHERE id = $1
`

func (q *Queries) UpdateAuthUserPassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := q.db.Exec(ctx, updateAuthUserPassword, id, passwordHash)
	return err
}

const setAuthUserActive = `
UPDATE auth_users SET is_active = $2 WHERE id = $1
`

func (q *Queries) SetAuthUserActive(ctx context.Context, id int64, active bool) error {
	_, err := q.db.Exec(ctx, setAuthUserActive, id, active)
	return err
}

const listAuthUsers = `
SELECT id, email, name, password_hash, role, is_active, last_login_at, COALESCE(last_login_ip, ''), created_at
FROM auth_users
ORDER BY email
`

func (q *Queries) ListAuthUsers(ctx context.Context) ([]AuthUser, error) {
	rows, err := q.db.Query(ctx, listAuthUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []AuthUser
	for rows.Next() {
		var u AuthUser
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.IsActive, &u.LastLoginAt, &u.LastLoginIP, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

const deleteAuthUser = `
DELETE FROM auth_users WHERE id = $1
`

func (q *Queries) DeleteAuthUser(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, deleteAuthUser, id)
	return err
}
