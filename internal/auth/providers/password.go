package providers

import (
	"context"
	"errors"

	"github.com/comanda-app/comanda/internal/auth"
	"github.com/comanda-app/comanda/internal/store"
	"github.com/jackc/pgx/v5"
)

// UserSource is the slice of the credential store the password provider
// needs. *store.Queries satisfies it.
type UserSource interface {
	GetAuthUserByEmail(ctx context.Context, email string) (store.AuthUser, error)
}

type PasswordProvider struct {
	Users UserSource
}

func NewPasswordProvider(users UserSource) *PasswordProvider {
	return &PasswordProvider{Users: users}
}

func (p *PasswordProvider) Name() string {
	return auth.MethodPassword
}

func (p *PasswordProvider) Authenticate(ctx context.Context, email, password string) (auth.Principal, error) {
	email = auth.NormalizeEmail(email)
	if email == "" || password == "" {
		return auth.Principal{}, auth.ErrInvalidCredentials
	}

	user, err := p.Users.GetAuthUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.Principal{}, auth.ErrInvalidCredentials
		}
		return auth.Principal{}, err
	}
	if !user.IsActive {
		return auth.Principal{}, auth.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil {
		return auth.Principal{}, err
	}
	if !match {
		return auth.Principal{}, auth.ErrInvalidCredentials
	}

	return auth.Principal{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
		Method: auth.MethodPassword,
	}, nil
}
