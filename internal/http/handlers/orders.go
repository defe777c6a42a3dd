package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/comanda-app/comanda/internal/http/viewmodels"
	"github.com/comanda-app/comanda/internal/http/views"
	"github.com/comanda-app/comanda/internal/store"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v5"
)

const ordersPageLimit = 100

// Order lifecycle states. New orders start as pending.
var orderStatuses = map[string]bool{
	"pending":   true,
	"preparing": true,
	"delivered": true,
	"cancelled": true,
}

func (h *Handlers) HandleOrdersPage(c *echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.Q.ListOrders(ctx, ordersPageLimit)
	if err != nil {
		return h.RenderError(c, err)
	}

	var data viewmodels.OrdersViewData
	for _, o := range orders {
		data.Orders = append(data.Orders, viewmodels.OrderRow{
			ID:         o.ID,
			ClientName: o.ClientName,
			Status:     o.Status,
			Total:      views.FormatCents(o.TotalCents),
			Created:    o.CreatedAt.UTC().Format("2006-01-02 15:04"),
		})
	}

	layout := h.LayoutData(c, "Orders")
	return h.RenderComponent(c, views.Layout(layout, views.OrdersPage(data)))
}

type orderResponse struct {
	ID         int64  `json:"id"`
	ClientName string `json:"client_name"`
	Status     string `json:"status"`
	TotalCents int64  `json:"total_cents"`
	CreatedAt  string `json:"created_at"`
}

func orderToResponse(o store.Order) orderResponse {
	return orderResponse{
		ID:         o.ID,
		ClientName: o.ClientName,
		Status:     o.Status,
		TotalCents: o.TotalCents,
		CreatedAt:  o.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *Handlers) HandleAPIOrdersList(c *echo.Context) error {
	orders, err := h.Q.ListOrders(c.Request().Context(), ordersPageLimit)
	if err != nil {
		return err
	}
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, orderToResponse(o))
	}
	return c.JSON(http.StatusOK, out)
}

type createOrderRequest struct {
	ClientName string `json:"client_name"`
	TotalCents int64  `json:"total_cents"`
}

func (h *Handlers) HandleAPIOrdersCreate(c *echo.Context) error {
	var req createOrderRequest
	if err := decodeJSON(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	req.ClientName = strings.TrimSpace(req.ClientName)
	if req.ClientName == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "client_name is required"})
	}
	if req.TotalCents < 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "total_cents must not be negative"})
	}

	order, err := h.Q.CreateOrder(c.Request().Context(), store.CreateOrderParams{
		ClientName: req.ClientName,
		Status:     "pending",
		TotalCents: req.TotalCents,
	})
	if err != nil {
		return err
	}
	h.audit(c, "order_created", "order_id", order.ID)
	return c.JSON(http.StatusCreated, orderToResponse(order))
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handlers) HandleAPIOrderStatus(c *echo.Context) error {
	id, ok := parseInt64(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid order id"})
	}

	var req updateOrderStatusRequest
	if err := decodeJSON(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	status := strings.ToLower(strings.TrimSpace(req.Status))
	if !orderStatuses[status] {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown order status"})
	}

	ctx := c.Request().Context()
	if _, err := h.Q.GetOrder(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "order not found"})
		}
		return err
	}
	if err := h.Q.UpdateOrderStatus(ctx, id, status); err != nil {
		return err
	}
	h.audit(c, "order_status_changed", "order_id", id, "status", status)
	return c.JSON(http.StatusOK, map[string]string{"status": status})
}
