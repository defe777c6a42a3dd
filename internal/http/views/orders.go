package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/comanda-app/comanda/internal/http/viewmodels"
)

func OrdersPage(data viewmodels.OrdersViewData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<h1>Orders</h1>`); err != nil {
			return err
		}
		if len(data.Orders) == 0 {
			_, err := io.WriteString(w, `<p class="empty">No orders yet.</p>`)
			return err
		}
		if _, err := io.WriteString(w, `<table class="orders"><thead><tr><th>#</th><th>Client</th><th>Status</th><th>Total</th><th>Created</th></tr></thead><tbody>`); err != nil {
			return err
		}
		for _, o := range data.Orders {
			if _, err := fmt.Fprintf(w, `<tr><td>%d</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
				o.ID, templ.EscapeString(o.ClientName), templ.EscapeString(o.Status),
				templ.EscapeString(o.Total), templ.EscapeString(o.Created)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</tbody></table>`)
		return err
	})
}
