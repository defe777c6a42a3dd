// Package httpapp wires the echo server: routes, guards, and the
// error handler that keeps internals out of responses.
package httpapp

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/comanda-app/comanda/internal/auth"
	"github.com/comanda-app/comanda/internal/auth/providers"
	"github.com/comanda-app/comanda/internal/config"
	"github.com/comanda-app/comanda/internal/http/authn"
	"github.com/comanda-app/comanda/internal/http/handlers"
	"github.com/comanda-app/comanda/internal/http/views"
	"github.com/comanda-app/comanda/internal/metrics"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
)

// EchoServer is the HTTP server wrapper.
type EchoServer struct {
	h   *handlers.Handlers
	e   *echo.Echo
	srv *http.Server
}

// NewEchoServer creates a new HTTP server.
func NewEchoServer(cfg config.Config, q handlers.Store, tokens *auth.Tokens, provider providers.Provider) (*EchoServer, error) {
	h := &handlers.Handlers{Cfg: cfg, Q: q, Tokens: tokens, Provider: provider}
	es := &EchoServer{h: h, e: echo.New()}
	es.e.HTTPErrorHandler = es.httpErrorHandler
	es.e.Use(requestIDMiddleware())
	es.e.Use(requestMetricsMiddleware())
	es.registerRoutes()
	return es, nil
}

func (es *EchoServer) registerRoutes() {
	es.e.GET("/healthz", es.h.HandleHealthz)
	es.e.GET("/login", es.h.HandleLoginGet)
	es.e.POST("/login", es.h.HandleLoginPost)

	authed := es.e.Group("")
	authed.Use(authn.RequireAuth(es.h.Tokens, es.h.Q))
	authed.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "header:" + echo.HeaderXCSRFToken + ",form:csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSameSite: http.SameSiteLaxMode,
	}))
	authed.GET("/", es.h.HandleDashboard)
	authed.POST("/logout", es.h.HandleLogoutPost)
	authed.GET("/orders", es.h.HandleOrdersPage)
	authed.GET("/menu", es.h.HandleMenuPage)
	authed.GET("/api/orders", es.h.HandleAPIOrdersList)
	authed.POST("/api/orders", es.h.HandleAPIOrdersCreate)
	authed.POST("/api/orders/:id/status", es.h.HandleAPIOrderStatus)
	authed.GET("/api/menu", es.h.HandleAPIMenuList)

	admin := authed.Group("")
	admin.Use(authn.RequireAdmin())
	admin.GET("/settings/users", es.h.HandleSettingsUsers)
	admin.POST("/settings/users", es.h.HandleSettingsUsersCreate)
	admin.POST("/settings/users/:id/role", es.h.HandleSettingsUserRole)
	admin.POST("/settings/users/:id/active", es.h.HandleSettingsUserActive)
	admin.POST("/settings/users/:id/delete", es.h.HandleSettingsUserDelete)
	admin.GET("/api/users", es.h.HandleAPIUsersList)
	admin.POST("/api/menu", es.h.HandleAPIMenuCreate)
	admin.POST("/api/menu/:id/availability", es.h.HandleAPIMenuAvailability)

	es.e.Static("/static", "web/static")
}

// Start starts the HTTP server.
func (es *EchoServer) Start(addr string) error {
	es.srv = &http.Server{Addr: addr, Handler: es.e}
	return es.srv.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (es *EchoServer) Shutdown(ctx context.Context) error {
	return es.srv.Shutdown(ctx)
}

func (es *EchoServer) httpErrorHandler(c *echo.Context, err error) {
	if res, _ := echo.UnwrapResponse(c.Response()); res != nil && res.Committed {
		return
	}

	status := httpStatusFromError(err)
	switch {
	case status == http.StatusNotFound:
		_ = c.String(http.StatusNotFound, "404 page not found")
	case status == http.StatusForbidden:
		es.renderForbidden(c)
	case status >= 400 && status < 500:
		_ = c.String(status, http.StatusText(status))
	default:
		// Anything else is an internal fault. The original error goes to
		// the log, never to the client.
		_ = es.h.RenderError(c, err)
	}
}

func (es *EchoServer) renderForbidden(c *echo.Context) {
	c.Response().Header().Set(echo.HeaderContentType, "text/html; charset=utf-8")
	c.Response().WriteHeader(http.StatusForbidden)
	if err := views.ForbiddenPage().Render(c.Request().Context(), c.Response()); err != nil {
		_ = c.String(http.StatusForbidden, http.StatusText(http.StatusForbidden))
	}
}

func httpStatusFromError(err error) int {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}
	return http.StatusInternalServerError
}

const requestIDHeader = "X-Request-ID"

func requestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			id := c.Request().Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			c.Set(handlers.ContextKeyRequestID, id)
			c.Response().Header().Set(requestIDHeader, id)
			return next(c)
		}
	}
}

// metricsRoutePaths mirrors registerRoutes. The duration histogram labels by
// route template, never by raw request path: this middleware runs for
// unrouted requests too, and a raw-path label would mint one series per
// distinct path a client sends.
var metricsRoutePaths = []string{
	"/",
	"/healthz",
	"/login",
	"/logout",
	"/orders",
	"/menu",
	"/settings/users",
	"/settings/users/:id/role",
	"/settings/users/:id/active",
	"/settings/users/:id/delete",
	"/api/orders",
	"/api/orders/:id/status",
	"/api/menu",
	"/api/menu/:id/availability",
	"/api/users",
}

const metricsPathUnmatched = "unmatched"

func metricsPathLabel(path string) string {
	for _, tmpl := range metricsRoutePaths {
		if pathMatchesTemplate(path, tmpl) {
			return tmpl
		}
	}
	if strings.HasPrefix(path, "/static/") {
		return "/static/*"
	}
	return metricsPathUnmatched
}

func pathMatchesTemplate(path, tmpl string) bool {
	if !strings.Contains(tmpl, ":") {
		return path == tmpl
	}
	pathSegs := strings.Split(path, "/")
	tmplSegs := strings.Split(tmpl, "/")
	if len(pathSegs) != len(tmplSegs) {
		return false
	}
	for i, ts := range tmplSegs {
		if strings.HasPrefix(ts, ":") {
			if pathSegs[i] == "" {
				return false
			}
			continue
		}
		if pathSegs[i] != ts {
			return false
		}
	}
	return true
}

func requestMetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			start := time.Now()
			err := next(c)

			var status int
			var committed bool
			if res, _ := echo.UnwrapResponse(c.Response()); res != nil {
				status = res.Status
				committed = res.Committed
			}
			if err != nil && !committed {
				status = httpStatusFromError(err)
			}
			metrics.HTTPRequestDuration.WithLabelValues(
				c.Request().Method,
				metricsPathLabel(c.Request().URL.Path),
				strconv.Itoa(status),
			).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
