package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/comanda-app/comanda/internal/http/viewmodels"
)

func SettingsUsersPage(data viewmodels.SettingsUsersViewData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<h1>Users</h1><table class="users"><thead><tr><th>Email</th><th>Name</th><th>Role</th><th>Status</th><th>Last login</th></tr></thead><tbody>`); err != nil {
			return err
		}
		for _, u := range data.Users {
			status := "Active"
			if !u.Active {
				status = "Disabled"
			}
			if _, err := fmt.Fprintf(w, `<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
				templ.EscapeString(u.Email), templ.EscapeString(u.Name), templ.EscapeString(RoleLabel(u.Role)),
				status, templ.EscapeString(u.LastLogin)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</tbody></table>`)
		return err
	})
}
