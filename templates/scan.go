package templates

import (
	"context"

	"a11yowl/internal/views"

	"github.com/a-h/templ"
)

const statusID = "scan-status"

// LiveURL is the WebSocket endpoint that streams status fragments for a scan.
func LiveURL(scanID string) string {
	return "/scan/" + scanID + "/live"
}

// ScanPage is the full results page. While the scan is still running the
// status block sits inside a WebSocket container that receives fresh
// fragments until the scan settles.
func ScanPage(v views.StatusView) templ.Component {
	return Layout("Scan Results", component(func(ctx context.Context, w *htmlWriter) {
		if v.Terminal {
			w.render(ctx, Status(v, false))
			return
		}
		w.raw(`<div hx-ext="ws"`)
		w.attr("ws-connect", LiveURL(v.ScanID))
		w.raw(`>`)
		w.render(ctx, Status(v, false))
		w.raw(`</div>`)
	}))
}

// Status is the swappable status block. With oob set it carries
// hx-swap-oob so htmx replaces the block already on the page.
func Status(v views.StatusView, oob bool) templ.Component {
	return component(func(ctx context.Context, w *htmlWriter) {
		w.raw(`<section id="` + statusID + `" aria-live="polite"`)
		w.attr("data-state", string(v.State))
		w.when(oob, ` hx-swap-oob="true"`)
		w.raw(`>`)
		switch v.Variant {
		case views.VariantResults:
			w.render(ctx, Results(v.Results))
		case views.VariantFailed:
			notice(w, "Scan Failed", v.Message, "/", "Try another URL")
		case views.VariantTimedOut:
			notice(w, "Still Scanning", v.Message, "/scan/"+v.ScanID, "Check again")
		case views.VariantNetworkError:
			notice(w, "Connection Problem", v.Message, "/scan/"+v.ScanID, "Try again")
		default:
			progress(w, v)
		}
		w.raw(`</section>`)
	})
}

func progress(w *htmlWriter, v views.StatusView) {
	w.raw(`<div class="progress"><div class="spinner" role="status" aria-label="Scanning in progress"></div>`)
	w.raw(`<h1>Scanning your site</h1>`)
	if v.URL != "" {
		w.raw(`<p class="scan-url">`)
		w.text(v.URL)
		w.raw(`</p>`)
	}
	w.raw(`<ol class="stages" aria-label="Scan progress">`)
	for _, s := range v.Stages {
		w.raw(`<li class="stage`)
		switch {
		case s.Done:
			w.raw(` stage-done"><span class="sr-only">Completed: </span>`)
		case s.Active:
			w.raw(` stage-active" aria-current="step">`)
		default:
			w.raw(`">`)
		}
		w.text(s.Label)
		w.raw(`</li>`)
	}
	w.raw(`</ol><p class="elapsed">Elapsed: `)
	w.text(v.Elapsed)
	w.raw(`</p></div>`)
}

func notice(w *htmlWriter, heading, message, href, action string) {
	w.raw(`<div class="notice" role="alert"><h1>`)
	w.text(heading)
	w.raw(`</h1><p>`)
	w.text(message)
	w.raw(`</p><a class="button"`)
	w.href(href)
	w.raw(`>`)
	w.text(action)
	w.raw(`</a></div>`)
}
