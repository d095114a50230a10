// Package layouts holds the document shell every full page renders into.
package layouts

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/session"
	"github.com/Optimized-Brute-Forcer/testaurant-web/templates/partials"
)

// Page is the data the shell needs around a page body.
type Page struct {
	// Title renders inside <title>, before the site name.
	Title templ.Component
	// Head is optional extra markup for <head>.
	Head templ.Component
	// Nav is nil for signed-out pages.
	Nav     *partials.Nav
	Notices []session.Notice
}

const head = `<!DOCTYPE html><html lang="en"><head>` +
	`<meta charset="UTF-8">` +
	`<meta name="viewport" content="width=device-width, initial-scale=1.0">` +
	`<title>`

const assets = ` · Testaurant</title>` +
	`<link rel="stylesheet" href="/static/css/app.css">` +
	`<script src="https://unpkg.com/htmx.org@2.0.3" defer></script>` +
	`<script src="/static/js/app.js" defer></script>`

// Base renders the document around its children, which form the body of
// main#content.
func Base(p Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		children := templ.GetChildren(ctx)
		ctx = templ.ClearChildren(ctx)

		if _, err := io.WriteString(w, head); err != nil {
			return err
		}
		if p.Title != nil {
			if err := p.Title.Render(ctx, w); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, assets); err != nil {
			return err
		}
		if p.Head != nil {
			if err := p.Head.Render(ctx, w); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</head><body>`); err != nil {
			return err
		}
		if p.Nav != nil {
			if err := partials.Navbar(*p.Nav).Render(ctx, w); err != nil {
				return err
			}
		}
		if err := partials.Notices(p.Notices).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<main id="content" class="page">`); err != nil {
			return err
		}
		if err := children.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}
