// Package authn hosts the request guard every protected surface shares:
// cookie extraction, token verification, live role lookup, and the tri-state
// outcome (authenticated admin / unauthenticated / forbidden).
package authn

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/comanda-app/comanda/internal/auth"
	"github.com/comanda-app/comanda/internal/metrics"
	"github.com/comanda-app/comanda/internal/store"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v5"
)

const ContextKeyPrincipal = "auth_principal"

// ErrorBodyUnauthorized and ErrorBodyForbidden are the stable client-facing
// API error messages. They deliberately carry no detail about why a token
// was rejected.
const (
	ErrorBodyUnauthorized = "No autorizado"
	ErrorBodyForbidden    = "Sin permiso"
)

// PrincipalStore is the live-lookup slice of the credential store.
// *store.Queries satisfies it.
type PrincipalStore interface {
	GetAuthUser(ctx context.Context, id int64) (store.AuthUser, error)
}

func PrincipalFromContext(c *echo.Context) (auth.Principal, bool) {
	p, ok := c.Get(ContextKeyPrincipal).(auth.Principal)
	return p, ok
}

// LoadPrincipal runs the first half of the guard: verify the presented
// token, then resolve the principal with a live lookup. The token's embedded
// role is advisory only; the stored role is what the principal carries.
// ok == false means unauthenticated; a non-nil error is a store fault and
// must surface as a server error, never as forbidden.
func LoadPrincipal(c *echo.Context, tokens *auth.Tokens, users PrincipalStore) (auth.Principal, bool, error) {
	claims, status := tokens.Verify(TokenFromRequest(c))
	metrics.TokenVerificationsTotal.WithLabelValues(string(status)).Inc()
	if !status.OK() {
		if status != auth.VerifyMissing {
			slog.Debug("session token rejected", "reason", string(status), "path", c.Request().URL.Path)
		}
		return auth.Principal{}, false, nil
	}

	user, err := users.GetAuthUser(c.Request().Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.Principal{}, false, nil
		}
		return auth.Principal{}, false, err
	}
	if !user.IsActive {
		return auth.Principal{}, false, nil
	}

	return auth.Principal{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
		Method: auth.MethodPassword,
	}, true, nil
}

// RequireAuth rejects unauthenticated requests and stores the resolved
// principal in the request context for downstream handlers.
func RequireAuth(tokens *auth.Tokens, users PrincipalStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			principal, ok, err := LoadPrincipal(c, tokens, users)
			if err != nil {
				return err
			}
			if !ok {
				return handleUnauth(c)
			}
			c.Set(ContextKeyPrincipal, principal)
			return next(c)
		}
	}
}

// RequireAdmin is the authorization predicate as middleware. It must run
// after RequireAuth; the decision rests on the live-looked-up role, so a
// role change applies immediately even to outstanding tokens.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			p, ok := PrincipalFromContext(c)
			if !ok {
				return handleUnauth(c)
			}
			if !p.IsAdmin() {
				surface := "page"
				if isAPIRequest(c) {
					surface = "api"
				}
				metrics.ForbiddenTotal.WithLabelValues(surface).Inc()
				slog.Info("admin access denied", "user_id", p.UserID, "role", p.Role, "path", c.Request().URL.Path)
				if isAPIRequest(c) {
					return c.JSON(http.StatusForbidden, map[string]string{"error": ErrorBodyForbidden})
				}
				return echo.NewHTTPError(http.StatusForbidden, http.StatusText(http.StatusForbidden))
			}
			return next(c)
		}
	}
}

func isAPIRequest(c *echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/api/")
}

func handleUnauth(c *echo.Context) error {
	if isAPIRequest(c) {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": ErrorBodyUnauthorized})
	}

	location := "/login"
	if c.Request().Method == http.MethodGet {
		if next := SanitizeNext(c.Request().URL.RequestURI()); next != "" {
			location = "/login?next=" + url.QueryEscape(next)
		}
	}
	return c.Redirect(http.StatusSeeOther, location)
}

// SanitizeNext keeps the post-login redirect target on-site. Anything
// absolute, protocol-relative, or pointing back at /login is dropped.
func SanitizeNext(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || len(next) > 2048 {
		return ""
	}
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return ""
	}

	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" || u.Scheme != "" {
		return ""
	}
	// Percent-encoded slashes decode into u.Path; catch protocol-relative
	// targets smuggled that way.
	if strings.HasPrefix(u.Path, "//") {
		return ""
	}
	if u.Path == "/login" || strings.HasPrefix(u.Path, "/login/") {
		return ""
	}
	if strings.Contains(next, "\\") {
		return ""
	}
	return next
}
