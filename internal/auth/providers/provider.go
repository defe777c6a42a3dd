package providers

import (
	"context"

	"github.com/comanda-app/comanda/internal/auth"
)

type Provider interface {
	Name() string
	Authenticate(ctx context.Context, email, password string) (auth.Principal, error)
}
