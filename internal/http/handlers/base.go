// Package handlers contains HTTP handler logic split by surface.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/comanda-app/comanda/internal/auth"
	"github.com/comanda-app/comanda/internal/auth/providers"
	"github.com/comanda-app/comanda/internal/config"
	"github.com/comanda-app/comanda/internal/http/authn"
	"github.com/comanda-app/comanda/internal/http/viewmodels"
	"github.com/comanda-app/comanda/internal/store"
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
)

const (
	// ContextKeyRequestID stores the request id (X-Request-ID) for logging and client error references.
	ContextKeyRequestID = "request_id"

	// InternalErrorCode is a stable error code safe to return to clients.
	InternalErrorCode = "INTERNAL_ERROR"
)

// UserStore is the account slice of the data layer.
type UserStore interface {
	GetAuthUser(ctx context.Context, id int64) (store.AuthUser, error)
	GetAuthUserByEmail(ctx context.Context, email string) (store.AuthUser, error)
	ListAuthUsers(ctx context.Context) ([]store.AuthUser, error)
	CountAuthUsers(ctx context.Context) (int64, error)
	CountAuthAdmins(ctx context.Context) (int64, error)
	CreateAuthUser(ctx context.Context, arg store.CreateAuthUserParams) (store.AuthUser, error)
	UpdateAuthUserLoginMeta(ctx context.Context, arg store.UpdateAuthUserLoginMetaParams) error
	UpdateAuthUserRole(ctx context.Context, id int64, role string) error
	SetAuthUserActive(ctx context.Context, id int64, active bool) error
	DeleteAuthUser(ctx context.Context, id int64) error
}

// OrderStore is the order slice of the data layer.
type OrderStore interface {
	ListOrders(ctx context.Context, limit int32) ([]store.Order, error)
	GetOrder(ctx context.Context, id int64) (store.Order, error)
	CreateOrder(ctx context.Context, arg store.CreateOrderParams) (store.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status string) error
}

// MenuStore is the menu slice of the data layer.
type MenuStore interface {
	ListMenuItems(ctx context.Context) ([]store.MenuItem, error)
	CreateMenuItem(ctx context.Context, arg store.CreateMenuItemParams) (store.MenuItem, error)
	SetMenuItemAvailable(ctx context.Context, id int64, available bool) error
}

// Store is everything handlers need from the data layer. *store.Queries
// satisfies it; tests substitute fakes.
type Store interface {
	UserStore
	OrderStore
	MenuStore
}

// Handlers groups all HTTP handlers and shared dependencies.
type Handlers struct {
	Cfg      config.Config
	Q        Store
	Tokens   *auth.Tokens
	Provider providers.Provider
}

// LayoutData builds the common layout data for page rendering.
func (h *Handlers) LayoutData(c *echo.Context, title string) viewmodels.LayoutData {
	principal, ok := authn.PrincipalFromContext(c)
	csrfToken, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return viewmodels.LayoutData{
		Title:      title,
		UserEmail:  principal.Email,
		UserName:   principal.Name,
		UserRole:   principal.Role,
		IsAdmin:    ok && principal.IsAdmin(),
		ActivePath: c.Request().URL.Path,
		CSRFToken:  csrfToken,
	}
}

// RenderComponent renders a templ component as the response.
func (h *Handlers) RenderComponent(c *echo.Context, component templ.Component) error {
	return h.RenderComponentStatus(c, http.StatusOK, component)
}

// RenderComponentStatus renders a templ component with an explicit status code.
func (h *Handlers) RenderComponentStatus(c *echo.Context, status int, component templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/html; charset=utf-8")
	c.Response().WriteHeader(status)
	if err := component.Render(c.Request().Context(), c.Response()); err != nil {
		return h.RenderError(c, err)
	}
	return nil
}

// RenderError returns a plain text error response without leaking details.
func (h *Handlers) RenderError(c *echo.Context, err error) error {
	requestID, _ := c.Get(ContextKeyRequestID).(string)
	path := ""
	if req := c.Request(); req != nil && req.URL != nil {
		path = req.URL.Path
	}
	method := ""
	if req := c.Request(); req != nil {
		method = req.Method
	}
	slog.Error("http error",
		"request_id", requestID,
		"method", method,
		"path", path,
		"ip", c.RealIP(),
		"error", err,
	)

	msg := "Internal server error."
	if requestID != "" {
		msg = fmt.Sprintf("%s Reference: %s.", msg, requestID)
	}
	msg = fmt.Sprintf("%s Code: %s.", msg, InternalErrorCode)
	return c.String(http.StatusInternalServerError, msg)
}

// audit emits a structured audit record for an auth-relevant event.
func (h *Handlers) audit(c *echo.Context, event string, attrs ...any) {
	requestID, _ := c.Get(ContextKeyRequestID).(string)
	base := []any{"event", event, "ip", strings.TrimSpace(c.RealIP()), "request_id", requestID}
	if principal, ok := authn.PrincipalFromContext(c); ok {
		base = append(base, "actor_id", principal.UserID, "actor_email", principal.Email)
	}
	slog.Info("audit", append(base, attrs...)...)
}

// decodeJSON reads a JSON request body into dst, rejecting unknown fields.
func decodeJSON(c *echo.Context, dst any) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func parseInt64(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
