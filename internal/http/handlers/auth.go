package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/comanda-app/comanda/internal/auth"
	"github.com/comanda-app/comanda/internal/http/authn"
	"github.com/comanda-app/comanda/internal/http/viewmodels"
	"github.com/comanda-app/comanda/internal/http/views"
	"github.com/comanda-app/comanda/internal/metrics"
	"github.com/comanda-app/comanda/internal/store"
	"github.com/labstack/echo/v5"
)

func (h *Handlers) HandleLoginGet(c *echo.Context) error {
	if _, ok, err := authn.LoadPrincipal(c, h.Tokens, h.Q); err != nil {
		return err
	} else if ok {
		return c.Redirect(http.StatusSeeOther, "/")
	}

	count, err := h.Q.CountAuthUsers(c.Request().Context())
	if err != nil {
		return err
	}

	data := viewmodels.LoginViewData{
		Next:          authn.SanitizeNext(c.QueryParam("next")),
		SetupRequired: count == 0,
	}
	return h.RenderComponent(c, views.LoginPage(data))
}

func (h *Handlers) HandleLoginPost(c *echo.Context) error {
	ctx := c.Request().Context()

	email := auth.NormalizeEmail(c.FormValue("email"))
	password := c.FormValue("password")
	next := authn.SanitizeNext(c.FormValue("next"))

	data := viewmodels.LoginViewData{
		Email: email,
		Next:  next,
	}

	if email == "" || strings.TrimSpace(password) == "" {
		data.ErrorMessage = "Invalid email or password."
		return h.RenderComponentStatus(c, http.StatusUnauthorized, views.LoginPage(data))
	}

	principal, err := h.Provider.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
			h.audit(c, "login_failed", "email", email)
			data.ErrorMessage = "Invalid email or password."
			return h.RenderComponentStatus(c, http.StatusUnauthorized, views.LoginPage(data))
		}
		return err
	}

	token, err := h.Tokens.Issue(principal)
	if err != nil {
		// A signing failure means the process is misconfigured; surface it
		// loudly rather than continuing without a session.
		return err
	}
	authn.SetSessionCookie(c, token, h.Tokens.TTL(), h.Cfg.AuthCookieSecure)

	metrics.LoginsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	h.audit(c, "login", "user_id", principal.UserID, "email", principal.Email)

	// Best-effort bookkeeping; a failure here must not break the login.
	_ = h.Q.UpdateAuthUserLoginMeta(ctx, store.UpdateAuthUserLoginMetaParams{
		ID:          principal.UserID,
		LastLoginAt: time.Now().UTC(),
		LastLoginIP: strings.TrimSpace(c.RealIP()),
	})

	if next != "" {
		return c.Redirect(http.StatusSeeOther, next)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// HandleLogoutPost clears the cookie. The issued token stays valid until its
// embedded expiry; there is no server-side revocation in this design.
func (h *Handlers) HandleLogoutPost(c *echo.Context) error {
	authn.ClearSessionCookie(c, h.Cfg.AuthCookieSecure)
	h.audit(c, "logout")
	return c.Redirect(http.StatusSeeOther, "/login")
}
