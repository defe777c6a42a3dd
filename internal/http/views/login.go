package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/comanda-app/comanda/internal/http/viewmodels"
)

// LoginPage is rendered outside the layout: there is no session to show.
func LoginPage(data viewmodels.LoginViewData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>Sign in · Comanda</title><link rel="stylesheet" href="/static/app.css"></head><body class="login">`); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<main class="login-card"><h1>Comanda</h1>`); err != nil {
			return err
		}
		if data.SetupRequired {
			if _, err := io.WriteString(w, `<p class="hint">No accounts exist yet. Create the first admin with <code>comanda users bootstrap-admin</code>.</p>`); err != nil {
				return err
			}
		}
		if data.ErrorMessage != "" {
			if _, err := fmt.Fprintf(w, `<p class="alert" role="alert">%s</p>`, templ.EscapeString(data.ErrorMessage)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `<form method="post" action="/login">`); err != nil {
			return err
		}
		if data.Next != "" {
			if _, err := fmt.Fprintf(w, `<input type="hidden" name="next" value="%s">`, templ.EscapeString(data.Next)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w,
			`<label>Email<input type="email" name="email" value="%s" autocomplete="username" required></label>`,
			templ.EscapeString(data.Email)); err != nil {
			return err
		}
		_, err := io.WriteString(w,
			`<label>Password<input type="password" name="password" autocomplete="current-password" required></label><button type="submit">Sign in</button></form></main></body></html>`)
		return err
	})
}
