package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/comanda-app/comanda/internal/http/viewmodels"
)

func MenuPage(data viewmodels.MenuViewData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<h1>Menu</h1>`); err != nil {
			return err
		}
		if len(data.Items) == 0 {
			_, err := io.WriteString(w, `<p class="empty">No menu items yet.</p>`)
			return err
		}
		if _, err := io.WriteString(w, `<table class="menu"><thead><tr><th>Name</th><th>Price</th><th>Available</th></tr></thead><tbody>`); err != nil {
			return err
		}
		for _, item := range data.Items {
			availability := "yes"
			if !item.Available {
				availability = "no"
			}
			if _, err := fmt.Fprintf(w, `<tr><td>%s</td><td>%s</td><td>%s</td></tr>`,
				templ.EscapeString(item.Name), templ.EscapeString(item.Price), availability); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</tbody></table>`)
		return err
	})
}
