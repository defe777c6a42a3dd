package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/comanda-app/comanda/internal/auth"
	"github.com/comanda-app/comanda/internal/store"
	"github.com/jackc/pgx/v5"
)

type fakeUserSource struct {
	users map[string]store.AuthUser
	err   error
}

func (f *fakeUserSource) GetAuthUserByEmail(_ context.Context, email string) (store.AuthUser, error) {
	if f.err != nil {
		return store.AuthUser{}, f.err
	}
	u, ok := f.users[email]
	if !ok {
		return store.AuthUser{}, pgx.ErrNoRows
	}
	return u, nil
}

func newSource(t *testing.T, password string, active bool) *fakeUserSource {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	return &fakeUserSource{users: map[string]store.AuthUser{
		"admin@comanda.test": {
			ID:           1,
			Email:        "admin@comanda.test",
			Name:         "Admin",
			PasswordHash: hash,
			Role:         auth.RoleAdmin,
			IsActive:     active,
		},
	}}
}

func TestAuthenticateSuccess(t *testing.T) {
	t.Parallel()

	p := NewPasswordProvider(newSource(t, "s3cret-password", true))
	principal, err := p.Authenticate(context.Background(), "  Admin@Comanda.Test  ", "s3cret-password")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if principal.UserID != 1 || principal.Email != "admin@comanda.test" || principal.Role != auth.RoleAdmin {
		t.Fatalf("principal = %+v", principal)
	}
	if principal.Method != auth.MethodPassword {
		t.Fatalf("Method = %q, want %q", principal.Method, auth.MethodPassword)
	}
}

func TestAuthenticateFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		email    string
		password string
		active   bool
	}{
		{name: "wrong password", email: "admin@comanda.test", password: "nope", active: true},
		{name: "unknown email", email: "ghost@comanda.test", password: "s3cret-password", active: true},
		{name: "empty email", email: "", password: "s3cret-password", active: true},
		{name: "empty password", email: "admin@comanda.test", password: "", active: true},
		{name: "inactive account", email: "admin@comanda.test", password: "s3cret-password", active: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := NewPasswordProvider(newSource(t, "s3cret-password", tt.active))
			_, err := p.Authenticate(context.Background(), tt.email, tt.password)
			if !errors.Is(err, auth.ErrInvalidCredentials) {
				t.Fatalf("Authenticate() error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestAuthenticatePropagatesStoreFault(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	p := NewPasswordProvider(&fakeUserSource{err: boom})
	_, err := p.Authenticate(context.Background(), "admin@comanda.test", "s3cret-password")
	if !errors.Is(err, boom) {
		t.Fatalf("Authenticate() error = %v, want the store fault", err)
	}
	if errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatal("store fault must not be reported as invalid credentials")
	}
}
