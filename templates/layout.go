package templates

import (
	"context"
	"time"

	"github.com/a-h/templ"
)

const (
	siteName        = "A11y Owl"
	siteTitle       = "A11y Owl - Accessibility & AI Readiness Scanner"
	siteDescription = "Free accessibility scanner with dual scoring: Compliance Risk + AI Discoverability. Find ADA/WCAG issues and AI readiness gaps in seconds."

	htmxScript   = "https://unpkg.com/htmx.org@2.0.4"
	htmxWSScript = "https://unpkg.com/htmx-ext-ws@2.0.2/ws.js"

	// Error responses carry re-rendered fragments, so htmx swaps them too.
	htmxConfig = `{"responseHandling":[{"code":"204","swap":false},{"code":"[23]..","swap":true},{"code":"[45]..","swap":true,"error":false}]}`
)

// footerLinks is the informational page list shown on every page.
var footerLinks = []struct{ Href, Label string }{
	{"/methodology", "Methodology"},
	{"/accessibility", "Accessibility"},
	{"/privacy", "Privacy"},
	{"/contact", "Contact"},
}

// Layout wraps body in the document shell. An empty title uses the site
// title.
func Layout(title string, body templ.Component) templ.Component {
	if title == "" {
		title = siteTitle
	} else {
		title = title + " | " + siteName
	}
	return component(func(ctx context.Context, w *htmlWriter) {
		w.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		w.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		w.raw(`<title>`)
		w.text(title)
		w.raw(`</title>`)
		w.raw(`<meta name="description"`)
		w.attr("content", siteDescription)
		w.raw(`><meta property="og:site_name" content="A11y Owl">`)
		w.raw(`<meta name="htmx-config"`)
		w.attr("content", htmxConfig)
		w.raw(`>`)
		w.raw(`<link rel="stylesheet" href="/static/app.css">`)
		w.raw(`<script src="` + htmxScript + `"></script>`)
		w.raw(`<script src="` + htmxWSScript + `"></script>`)
		w.raw(`</head><body hx-boost="true">`)
		w.raw(`<a href="#main-content" class="skip-link">Skip to content</a>`)
		w.raw(`<header class="site-header"><nav aria-label="Main navigation">`)
		w.raw(`<a href="/" class="brand">A11y Owl</a>`)
		w.raw(`<a href="/#how-it-works">How it works</a><a href="/#pricing">Pricing</a>`)
		w.raw(`</nav></header>`)
		w.raw(`<main id="main-content">`)
		w.render(ctx, body)
		w.raw(`</main>`)
		w.raw(`<div id="report-dialog"></div>`)
		w.raw(`<footer role="contentinfo"><div class="brand">A11y Owl</div>`)
		w.raw(`<p>Source-first accessibility for small businesses.</p><ul class="footer-links">`)
		for _, l := range footerLinks {
			w.raw(`<li><a`)
			w.href(l.Href)
			w.raw(`>`)
			w.text(l.Label)
			w.raw(`</a></li>`)
		}
		w.raw(`</ul><p class="copyright">&copy; `)
		w.rawf("%d", time.Now().Year())
		w.raw(` A11y Owl. All rights reserved.</p></footer></body></html>`)
	})
}

// ErrorPage is the full page shown for unknown routes and server errors.
func ErrorPage(heading, message string) templ.Component {
	return Layout(heading, component(func(ctx context.Context, w *htmlWriter) {
		w.raw(`<section class="error-page"><h1>`)
		w.text(heading)
		w.raw(`</h1><p>`)
		w.text(message)
		w.raw(`</p><a href="/" class="button">Scan another site</a></section>`)
	}))
}
