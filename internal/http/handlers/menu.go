package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/comanda-app/comanda/internal/http/viewmodels"
	"github.com/comanda-app/comanda/internal/http/views"
	"github.com/comanda-app/comanda/internal/store"
	"github.com/labstack/echo/v5"
)

func (h *Handlers) HandleMenuPage(c *echo.Context) error {
	items, err := h.Q.ListMenuItems(c.Request().Context())
	if err != nil {
		return h.RenderError(c, err)
	}

	var data viewmodels.MenuViewData
	for _, item := range items {
		data.Items = append(data.Items, viewmodels.MenuItemRow{
			ID:        item.ID,
			Name:      item.Name,
			Price:     views.FormatCents(item.PriceCents),
			Available: item.Available,
		})
	}

	layout := h.LayoutData(c, "Menu")
	return h.RenderComponent(c, views.Layout(layout, views.MenuPage(data)))
}

type menuItemResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Available  bool   `json:"available"`
}

func menuItemToResponse(m store.MenuItem) menuItemResponse {
	return menuItemResponse{
		ID:         m.ID,
		Name:       m.Name,
		PriceCents: m.PriceCents,
		Available:  m.Available,
	}
}

func (h *Handlers) HandleAPIMenuList(c *echo.Context) error {
	items, err := h.Q.ListMenuItems(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]menuItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, menuItemToResponse(item))
	}
	return c.JSON(http.StatusOK, out)
}

type createMenuItemRequest struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}

func (h *Handlers) HandleAPIMenuCreate(c *echo.Context) error {
	var req createMenuItemRequest
	if err := decodeJSON(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}
	if req.PriceCents < 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "price_cents must not be negative"})
	}

	item, err := h.Q.CreateMenuItem(c.Request().Context(), store.CreateMenuItemParams{
		Name:       req.Name,
		PriceCents: req.PriceCents,
		Available:  true,
	})
	if err != nil {
		return err
	}
	h.audit(c, "menu_item_created", "item_id", item.ID)
	return c.JSON(http.StatusCreated, menuItemToResponse(item))
}

type setMenuAvailabilityRequest struct {
	Available bool `json:"available"`
}

func (h *Handlers) HandleAPIMenuAvailability(c *echo.Context) error {
	id, ok := parseInt64(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid menu item id"})
	}

	var req setMenuAvailabilityRequest
	if err := decodeJSON(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if err := h.Q.SetMenuItemAvailable(c.Request().Context(), id, req.Available); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "menu item not found"})
		}
		return err
	}
	h.audit(c, "menu_item_availability_changed", "item_id", id, "available", req.Available)
	return c.JSON(http.StatusOK, map[string]bool{"available": req.Available})
}
