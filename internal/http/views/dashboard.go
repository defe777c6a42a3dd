package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/comanda-app/comanda/internal/http/viewmodels"
)

func DashboardPage(data viewmodels.DashboardViewData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<h1>Dashboard</h1><p>%d dishes on the menu.</p>`, data.MenuCount); err != nil {
			return err
		}
		if len(data.RecentOrders) == 0 {
			_, err := io.WriteString(w, `<p class="empty">No orders yet.</p>`)
			return err
		}
		if _, err := io.WriteString(w, `<table class="orders"><thead><tr><th>#</th><th>Client</th><th>Status</th><th>Total</th></tr></thead><tbody>`); err != nil {
			return err
		}
		for _, o := range data.RecentOrders {
			if _, err := fmt.Fprintf(w, `<tr><td>%d</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
				o.ID, templ.EscapeString(o.ClientName), templ.EscapeString(o.Status), templ.EscapeString(o.Total)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</tbody></table>`)
		return err
	})
}
