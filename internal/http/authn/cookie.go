package authn

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
)

// SessionCookieName is the single transport slot for the session credential:
// written at login, read on every request, deleted at logout.
const SessionCookieName = "comanda_session"

// TokenFromRequest extracts the raw session token, or "" when the cookie is
// absent.
func TokenFromRequest(c *echo.Context) string {
	cookie, err := c.Cookie(SessionCookieName)
	if err != nil || cookie == nil {
		return ""
	}
	return cookie.Value
}

// SetSessionCookie persists an issued credential. Max-Age mirrors the token
// TTL; the server still rejects the embedded expiry independently, so a
// stale cookie the client failed to drop buys nothing.
func SetSessionCookie(c *echo.Context, token string, ttl time.Duration, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie deletes the credential client-side. The token itself
// stays valid until its embedded expiry; there is no server-side denylist.
func ClearSessionCookie(c *echo.Context, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
