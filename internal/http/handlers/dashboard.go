package handlers

import (
	"github.com/comanda-app/comanda/internal/http/viewmodels"
	"github.com/comanda-app/comanda/internal/http/views"
	"github.com/labstack/echo/v5"
)

const dashboardRecentOrders = 10

func (h *Handlers) HandleDashboard(c *echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.Q.ListOrders(ctx, dashboardRecentOrders)
	if err != nil {
		return h.RenderError(c, err)
	}
	items, err := h.Q.ListMenuItems(ctx)
	if err != nil {
		return h.RenderError(c, err)
	}

	data := viewmodels.DashboardViewData{MenuCount: len(items)}
	for _, o := range orders {
		data.RecentOrders = append(data.RecentOrders, viewmodels.DashboardOrderRow{
			ID:         o.ID,
			ClientName: o.ClientName,
			Status:     o.Status,
			Total:      views.FormatCents(o.TotalCents),
		})
	}

	layout := h.LayoutData(c, "Dashboard")
	return h.RenderComponent(c, views.Layout(layout, views.DashboardPage(data)))
}
