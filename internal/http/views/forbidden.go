package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// ForbiddenPage is the access-denied page for authenticated, non-admin
// visitors. It renders no protected content whatsoever.
func ForbiddenPage() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>Sin permiso · Comanda</title></head><body class="denied"><main><h1>Sin permiso</h1><p>Your account does not have access to this section.</p><p><a href="/">Back to the dashboard</a></p></main></body></html>`)
		return err
	})
}
