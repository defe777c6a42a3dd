package httpapp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"

	"github.com/comanda-app/comanda/internal/auth"
	"github.com/comanda-app/comanda/internal/config"
	"github.com/comanda-app/comanda/internal/http/authn"
	"github.com/comanda-app/comanda/internal/http/handlers"
	"github.com/comanda-app/comanda/internal/store"
)

func newErrorContext(t *testing.T, target string) (*echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHTTPErrorHandlerInternalErrorIsGeneric(t *testing.T) {
	c, rec := newErrorContext(t, "http://comanda.test/test")
	c.Set(handlers.ContextKeyRequestID, "req-123")

	es := &EchoServer{h: &handlers.Handlers{}}
	es.httpErrorHandler(c, errors.New("very sensitive error"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d want %d", rec.Code, http.StatusInternalServerError)
	}

	body := rec.Body.String()
	if strings.Contains(body, "very sensitive") {
		t.Fatalf("response leaked error details: %q", body)
	}
	if !strings.Contains(body, "Internal server error") {
		t.Fatalf("response missing generic message: %q", body)
	}
	if !strings.Contains(body, "Reference: req-123") {
		t.Fatalf("response missing request reference: %q", body)
	}
	if !strings.Contains(body, "Code: "+handlers.InternalErrorCode) {
		t.Fatalf("response missing error code: %q", body)
	}
}

func TestHTTPErrorHandlerNotFoundDoesNotLeakMessage(t *testing.T) {
	c, rec := newErrorContext(t, "http://comanda.test/missing")

	es := &EchoServer{h: &handlers.Handlers{}}
	es.httpErrorHandler(c, echo.NewHTTPError(http.StatusNotFound, "leaky not found"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status=%d want %d", rec.Code, http.StatusNotFound)
	}

	body := rec.Body.String()
	if strings.Contains(body, "leaky") {
		t.Fatalf("response leaked error details: %q", body)
	}
	if !strings.Contains(body, "404 page not found") {
		t.Fatalf("response missing not found message: %q", body)
	}
}

func TestHTTPErrorHandlerForbiddenRendersDeniedPage(t *testing.T) {
	c, rec := newErrorContext(t, "http://comanda.test/settings/users")

	es := &EchoServer{h: &handlers.Handlers{}}
	es.httpErrorHandler(c, echo.NewHTTPError(http.StatusForbidden, http.StatusText(http.StatusForbidden)))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status=%d want %d", rec.Code, http.StatusForbidden)
	}
	if !strings.Contains(rec.Body.String(), "Sin permiso") {
		t.Fatalf("response missing the denied page: %q", rec.Body.String())
	}
}

func TestHTTPErrorHandlerBadRequestUsesStatusText(t *testing.T) {
	c, rec := newErrorContext(t, "http://comanda.test/bad")

	es := &EchoServer{h: &handlers.Handlers{}}
	es.httpErrorHandler(c, echo.NewHTTPError(http.StatusBadRequest, "leaky bad request"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want %d", rec.Code, http.StatusBadRequest)
	}

	body := rec.Body.String()
	if strings.Contains(body, "leaky") {
		t.Fatalf("response leaked error details: %q", body)
	}
	if got := strings.TrimSpace(body); got != http.StatusText(http.StatusBadRequest) {
		t.Fatalf("body=%q want %q", got, http.StatusText(http.StatusBadRequest))
	}
}

func TestHTTPStatusFromErrorUsesStatusCoder(t *testing.T) {
	if got := httpStatusFromError(echo.ErrNotFound); got != http.StatusNotFound {
		t.Fatalf("status=%d want %d", got, http.StatusNotFound)
	}
	if got := httpStatusFromError(echo.ErrForbidden); got != http.StatusForbidden {
		t.Fatalf("status=%d want %d", got, http.StatusForbidden)
	}
	if got := httpStatusFromError(errors.New("boom")); got != http.StatusInternalServerError {
		t.Fatalf("status=%d want %d", got, http.StatusInternalServerError)
	}
}

func TestMetricsPathLabelBoundsCardinality(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"static route", "/orders", "/orders"},
		{"root", "/", "/"},
		{"order status by id", "/api/orders/42/status", "/api/orders/:id/status"},
		{"menu availability by id", "/api/menu/7/availability", "/api/menu/:id/availability"},
		{"user role by id", "/settings/users/3/role", "/settings/users/:id/role"},
		{"static asset", "/static/app.css", "/static/*"},
		{"unknown path", "/wp-login.php", "unmatched"},
		{"another unknown path", "/.env", "unmatched"},
		{"unknown under known prefix", "/api/orders/42/refund", "unmatched"},
		{"empty id segment", "/api/orders//status", "unmatched"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := metricsPathLabel(tt.path); got != tt.want {
				t.Fatalf("metricsPathLabel(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

// stubStore backs full-server tests that only need the admin principal and
// empty dashboard data. Unused Store methods panic through the embedded nil.
type stubStore struct {
	handlers.Store
	user store.AuthUser
}

func (s *stubStore) GetAuthUser(_ context.Context, id int64) (store.AuthUser, error) {
	if id == s.user.ID {
		return s.user, nil
	}
	return store.AuthUser{}, pgx.ErrNoRows
}

func (s *stubStore) ListOrders(context.Context, int32) ([]store.Order, error) { return nil, nil }

func (s *stubStore) ListMenuItems(context.Context) ([]store.MenuItem, error) { return nil, nil }

func newServerWithSession(t *testing.T) (*EchoServer, *http.Cookie) {
	t.Helper()
	tokens, err := auth.NewTokens("0123456789abcdef0123456789abcdef", time.Hour)
	if err != nil {
		t.Fatalf("NewTokens() error = %v", err)
	}
	q := &stubStore{user: store.AuthUser{ID: 1, Email: "admin@comanda.test", Role: auth.RoleAdmin, IsActive: true}}
	es, err := NewEchoServer(config.Config{}, q, tokens, nil)
	if err != nil {
		t.Fatalf("NewEchoServer() error = %v", err)
	}
	token, err := tokens.Issue(auth.Principal{UserID: 1, Email: "admin@comanda.test", Role: auth.RoleAdmin, Method: "password"})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	return es, &http.Cookie{Name: authn.SessionCookieName, Value: token}
}

func TestLogoutRejectedWithoutCSRFToken(t *testing.T) {
	es, session := newServerWithSession(t)

	req := httptest.NewRequest(http.MethodPost, "http://comanda.test/logout", nil)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.AddCookie(session)
	rec := httptest.NewRecorder()
	es.e.ServeHTTP(rec, req)

	if rec.Code < 400 {
		t.Fatalf("status = %d, want a rejection", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "" {
		t.Fatalf("logout redirected to %q without a token", loc)
	}
}

func TestLogoutAcceptsRenderedCSRFToken(t *testing.T) {
	es, session := newServerWithSession(t)

	// An authed page view mints the token cookie and renders it into the
	// logout form.
	req := httptest.NewRequest(http.MethodGet, "http://comanda.test/", nil)
	req.AddCookie(session)
	rec := httptest.NewRecorder()
	es.e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var csrf *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.DefaultCSRFConfig.CookieName {
			csrf = cookie
		}
	}
	if csrf == nil || csrf.Value == "" {
		t.Fatal("page view did not set the token cookie")
	}
	if !strings.Contains(rec.Body.String(), `name="csrf" value="`+csrf.Value+`"`) {
		t.Fatal("logout form is missing the hidden token field")
	}

	form := url.Values{"csrf": {csrf.Value}}
	req = httptest.NewRequest(http.MethodPost, "http://comanda.test/logout", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.AddCookie(session)
	req.AddCookie(&http.Cookie{Name: middleware.DefaultCSRFConfig.CookieName, Value: csrf.Value})
	rec = httptest.NewRecorder()
	es.e.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login" {
		t.Fatalf("redirect = %q, want /login", loc)
	}
}

func TestRequestIDMiddlewareGeneratesAndEchoes(t *testing.T) {
	e := echo.New()
	handler := requestIDMiddleware()(func(c *echo.Context) error {
		id, _ := c.Get(handlers.ContextKeyRequestID).(string)
		if id == "" {
			t.Fatal("request id not set on context")
		}
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "http://comanda.test/", nil)
	rec := httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("middleware error = %v", err)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatal("request id not echoed in the response")
	}

	req = httptest.NewRequest(http.MethodGet, "http://comanda.test/", nil)
	req.Header.Set(requestIDHeader, "given-id")
	rec = httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("middleware error = %v", err)
	}
	if got := rec.Header().Get(requestIDHeader); got != "given-id" {
		t.Fatalf("request id = %q, want the caller-provided one", got)
	}
}
