package templates

import (
	"context"

	"a11yowl/internal/models"
	"a11yowl/internal/views"

	"github.com/a-h/templ"
)

const dialogCloseTrigger = `click[target==this], keyup[key=='Escape'] from:body`

// ReportDialog renders the email dialog into #report-dialog. A closed
// dialog renders an empty container.
func ReportDialog(s views.DialogState) templ.Component {
	return component(func(ctx context.Context, w *htmlWriter) {
		if !s.Open {
			w.raw(`<div id="report-dialog"></div>`)
			return
		}
		closeURL := reportURL(s.ScanID) + "/close"

		// Clicking the overlay itself or pressing Escape closes the dialog.
		w.raw(`<div id="report-dialog" class="dialog-backdrop" hx-trigger="` + dialogCloseTrigger + `" hx-target="#report-dialog" hx-swap="outerHTML"`)
		w.attr("hx-get", closeURL)
		w.raw(`><div class="dialog" role="dialog" aria-modal="true" aria-labelledby="modal-title">`)
		if s.Step == views.StepSent {
			w.raw(`<h2 id="modal-title">Report Sent!</h2>`)
			w.raw(`<p>Check your inbox for the full PDF report with AI code fixes, DIY action items, and your AIO Score.</p>`)
			w.raw(`<p>Sent to <strong>`)
			w.text(s.Email)
			w.raw(`</strong></p>`)
			w.raw(`<div class="help"><p><strong>Need help fixing these issues?</strong></p>`)
			w.raw(`<p>Logixtecs fixes all types of websites: WordPress, Shopify, custom apps, and more.</p>`)
			w.raw(`<a href="mailto:a11y@logixtecs.com">a11y@logixtecs.com</a></div>`)
			w.raw(`<button type="button" class="button button-primary" hx-target="#report-dialog" hx-swap="outerHTML" autofocus`)
			w.attr("hx-get", closeURL)
			w.raw(`>Continue</button></div></div>`)
			return
		}

		w.raw(`<h2 id="modal-title">Get Your Free Full Report</h2>`)
		w.raw(`<p>AI code fixes, DIY action items, AIO Score, and compliance roadmap, delivered to your inbox as a PDF.</p>`)
		w.raw(`<form method="post" hx-target="#report-dialog" hx-swap="outerHTML" hx-disabled-elt="find button"`)
		w.attr("action", reportURL(s.ScanID))
		w.attr("hx-post", reportURL(s.ScanID))
		w.raw(`><label for="report-email">Email address</label>`)
		w.raw(`<input id="report-email" name="email" type="email" placeholder="you@company.com" autocomplete="email" required autofocus`)
		w.attr("value", s.Email)
		if s.Error != "" {
			w.raw(` aria-invalid="true" aria-describedby="email-error"`)
		}
		w.raw(`>`)
		reportType := s.ReportType
		if reportType == "" {
			reportType = models.ReportTypeFree
		}
		w.raw(`<input type="hidden" name="report_type"`)
		w.attr("value", string(reportType))
		w.raw(`>`)
		if s.Error != "" {
			w.raw(`<p id="email-error" class="error" role="alert">`)
			w.text(s.Error)
			w.raw(`</p>`)
		}
		w.raw(`<button type="submit" class="button button-primary">`)
		if s.Loading {
			w.raw(`Sending...`)
		} else {
			w.raw(`Send My Free Report`)
		}
		w.raw(`</button></form>`)
		w.raw(`<button type="button" class="link" hx-target="#report-dialog" hx-swap="outerHTML"`)
		w.attr("hx-get", closeURL)
		w.raw(`>No thanks</button></div></div>`)
	})
}
