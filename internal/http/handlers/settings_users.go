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
	"github.com/comanda-app/comanda/internal/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v5"
)

// HandleSettingsUsers lists the accounts. Admin only; the route group
// enforces that before this handler runs.
func (h *Handlers) HandleSettingsUsers(c *echo.Context) error {
	rows, err := h.Q.ListAuthUsers(c.Request().Context())
	if err != nil {
		return h.RenderError(c, err)
	}

	var data viewmodels.SettingsUsersViewData
	for _, row := range rows {
		data.Users = append(data.Users, viewmodels.SettingsUserRow{
			ID:        row.ID,
			Email:     strings.TrimSpace(row.Email),
			Name:      row.Name,
			Role:      strings.ToLower(strings.TrimSpace(row.Role)),
			Active:    row.IsActive,
			LastLogin: views.FormatTime(row.LastLoginAt),
		})
	}

	layout := h.LayoutData(c, "Users")
	return h.RenderComponent(c, views.Layout(layout, views.SettingsUsersPage(data)))
}

func (h *Handlers) HandleSettingsUsersCreate(c *echo.Context) error {
	email := auth.NormalizeEmail(c.FormValue("email"))
	name := strings.TrimSpace(c.FormValue("name"))
	role := strings.ToLower(strings.TrimSpace(c.FormValue("role")))
	password := c.FormValue("password")

	if email == "" {
		return c.String(http.StatusBadRequest, "Email is required.")
	}
	if !auth.KnownRole(role) {
		return c.String(http.StatusBadRequest, "Role must be admin or staff.")
	}
	if len(password) < 8 {
		return c.String(http.StatusBadRequest, "Password must be at least 8 characters.")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return h.RenderError(c, err)
	}

	user, err := h.Q.CreateAuthUser(c.Request().Context(), store.CreateAuthUserParams{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return c.String(http.StatusConflict, "A user with that email already exists.")
		}
		return h.RenderError(c, err)
	}

	h.audit(c, "user_created", "user_id", user.ID, "email", user.Email, "role", user.Role)
	return c.Redirect(http.StatusSeeOther, "/settings/users")
}

// HandleSettingsUserRole changes an account's role. The change takes effect
// on the target's very next request because authorization always consults
// the stored role, not the one embedded in an outstanding token.
func (h *Handlers) HandleSettingsUserRole(c *echo.Context) error {
	userID, ok := parseInt64(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, http.StatusText(http.StatusNotFound))
	}

	principal, ok := authn.PrincipalFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, http.StatusText(http.StatusForbidden))
	}

	role := strings.ToLower(strings.TrimSpace(c.FormValue("role")))
	if !auth.KnownRole(role) {
		return c.String(http.StatusBadRequest, "Role must be admin or staff.")
	}

	if principal.UserID == userID {
		return c.String(http.StatusBadRequest, "You cannot change your own role.")
	}

	ctx := c.Request().Context()
	user, err := h.Q.GetAuthUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, http.StatusText(http.StatusNotFound))
		}
		return h.RenderError(c, err)
	}

	if user.IsActive && user.Role == auth.RoleAdmin && role != auth.RoleAdmin {
		admins, err := h.Q.CountAuthAdmins(ctx)
		if err != nil {
			return h.RenderError(c, err)
		}
		if admins <= 1 {
			return c.String(http.StatusBadRequest, "You cannot demote the last active admin.")
		}
	}

	if err := h.Q.UpdateAuthUserRole(ctx, userID, role); err != nil {
		return h.RenderError(c, err)
	}

	h.audit(c, "user_role_changed", "user_id", userID, "email", user.Email, "role", role)
	return c.Redirect(http.StatusSeeOther, "/settings/users")
}

// HandleSettingsUserActive enables or disables an account. Disabling is the
// coarse revocation lever: an outstanding token for a disabled account stops
// working on the next request.
func (h *Handlers) HandleSettingsUserActive(c *echo.Context) error {
	userID, ok := parseInt64(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, http.StatusText(http.StatusNotFound))
	}

	principal, ok := authn.PrincipalFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, http.StatusText(http.StatusForbidden))
	}

	active := c.FormValue("active") == "true"

	if principal.UserID == userID && !active {
		return c.String(http.StatusBadRequest, "You cannot disable your own account.")
	}

	ctx := c.Request().Context()
	user, err := h.Q.GetAuthUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, http.StatusText(http.StatusNotFound))
		}
		return h.RenderError(c, err)
	}

	if !active && user.IsActive && user.Role == auth.RoleAdmin {
		admins, err := h.Q.CountAuthAdmins(ctx)
		if err != nil {
			return h.RenderError(c, err)
		}
		if admins <= 1 {
			return c.String(http.StatusBadRequest, "You cannot disable the last active admin.")
		}
	}

	if err := h.Q.SetAuthUserActive(ctx, userID, active); err != nil {
		return h.RenderError(c, err)
	}

	h.audit(c, "user_active_changed", "user_id", userID, "email", user.Email, "active", active)
	return c.Redirect(http.StatusSeeOther, "/settings/users")
}

// HandleSettingsUserDelete removes an account outright. Deactivation is the
// usual path; deletion is for accounts created by mistake.
func (h *Handlers) HandleSettingsUserDelete(c *echo.Context) error {
	userID, ok := parseInt64(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, http.StatusText(http.StatusNotFound))
	}

	principal, ok := authn.PrincipalFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, http.StatusText(http.StatusForbidden))
	}
	if principal.UserID == userID {
		return c.String(http.StatusBadRequest, "You cannot delete your own account.")
	}

	ctx := c.Request().Context()
	user, err := h.Q.GetAuthUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, http.StatusText(http.StatusNotFound))
		}
		return h.RenderError(c, err)
	}

	if user.IsActive && user.Role == auth.RoleAdmin {
		admins, err := h.Q.CountAuthAdmins(ctx)
		if err != nil {
			return h.RenderError(c, err)
		}
		if admins <= 1 {
			return c.String(http.StatusBadRequest, "You cannot delete the last active admin.")
		}
	}

	if err := h.Q.DeleteAuthUser(ctx, userID); err != nil {
		return h.RenderError(c, err)
	}

	h.audit(c, "user_deleted", "user_id", userID, "email", user.Email)
	return c.Redirect(http.StatusSeeOther, "/settings/users")
}

type userResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
	LastLogin string `json:"last_login,omitempty"`
}

func (h *Handlers) HandleAPIUsersList(c *echo.Context) error {
	rows, err := h.Q.ListAuthUsers(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]userResponse, 0, len(rows))
	for _, row := range rows {
		u := userResponse{
			ID:       row.ID,
			Email:    strings.TrimSpace(row.Email),
			Name:     row.Name,
			Role:     strings.ToLower(strings.TrimSpace(row.Role)),
			IsActive: row.IsActive,
		}
		if row.LastLoginAt != nil {
			u.LastLogin = row.LastLoginAt.UTC().Format(time.RFC3339)
		}
		out = append(out, u)
	}
	return c.JSON(http.StatusOK, out)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
