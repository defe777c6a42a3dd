// Package views renders server-side HTML. Components are built with the
// templ runtime directly; escaping goes through templ.EscapeString.
package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/comanda-app/comanda/internal/http/viewmodels"
)

type navLink struct {
	Href      string
	Label     string
	AdminOnly bool
}

var navLinks = []navLink{
	{Href: "/", Label: "Dashboard"},
	{Href: "/orders", Label: "Orders"},
	{Href: "/menu", Label: "Menu"},
	{Href: "/settings/users", Label: "Users", AdminOnly: true},
}

// Layout wraps a page body with the shared chrome: header, navigation, and
// the signed-in identity with a logout form.
func Layout(data viewmodels.LayoutData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>%s · Comanda</title><link rel="stylesheet" href="/static/app.css"></head><body>`,
			templ.EscapeString(data.Title)); err != nil {
			return err
		}

		if _, err := io.WriteString(w, `<header class="topbar"><span class="brand">Comanda</span><nav>`); err != nil {
			return err
		}
		for _, link := range navLinks {
			if link.AdminOnly && !data.IsAdmin {
				continue
			}
			current := ""
			if IsActivePath(data.ActivePath, link.Href) {
				current = ` aria-current="page"`
			}
			if _, err := fmt.Fprintf(w, `<a href="%s"%s>%s</a>`,
				templ.EscapeString(link.Href), current, templ.EscapeString(link.Label)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w,
			`</nav><div class="session"><span class="who">%s (%s)</span><form method="post" action="/logout"><input type="hidden" name="csrf" value="%s"><button type="submit">Sign out</button></form></div></header>`,
			templ.EscapeString(data.UserEmail), templ.EscapeString(RoleLabel(data.UserRole)), templ.EscapeString(data.CSRFToken)); err != nil {
			return err
		}

		if _, err := io.WriteString(w, `<main>`); err != nil {
			return err
		}
		if body != nil {
			if err := body.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}
