package templates

import (
	"context"

	"a11yowl/internal/views"

	"github.com/a-h/templ"
)

const platformPickerID = "platform-picker"

func reportURL(scanID string) string {
	return "/scan/" + scanID + "/report"
}

func Results(v views.ResultsView) templ.Component {
	return component(func(ctx context.Context, w *htmlWriter) {
		w.raw(`<div class="results"><h1 tabindex="-1">Scan Results</h1><p class="summary">`)
		w.rawf("%d ", v.IssuesFound)
		w.text(v.IssuesLabel)
		w.raw(` found on <span class="scan-url">`)
		w.text(v.URL)
		w.raw(`</span></p>`)

		w.raw(`<div class="gauges">`)
		gauge(w, v.Compliance)
		if v.IncludeAIO {
			gauge(w, v.AIO)
		}
		w.raw(`</div><div class="score-context">`)
		scoreContext(w, v.Compliance)
		if v.IncludeAIO {
			scoreContext(w, v.AIO)
		}
		w.raw(`</div>`)

		if v.AIOUpsell {
			w.raw(`<div class="upsell"><h3>Want to know if AI can find your site?</h3>`)
			w.raw(`<p>Our AIO Score checks whether AI search engines like ChatGPT and Perplexity can read, understand, and cite your content. Get your score in the full report.</p>`)
			w.raw(`<p class="upsell-price">Available in the Full Report: $7.99</p></div>`)
		}

		if v.Lawsuit != nil {
			lawsuit(w, v.Lawsuit)
		}

		w.raw(`<section aria-label="Issues found"><h2>Issues Found</h2><div class="issues">`)
		for _, issue := range v.Issues {
			issueCard(w, issue)
		}
		w.raw(`</div></section>`)

		if v.HiddenCount > 0 {
			w.raw(`<div class="hidden-issues"><div class="blurred" aria-hidden="true"><h3>Additional Issue</h3>`)
			w.raw(`<p>This issue requires email verification to view...</p></div><div class="overlay"><p class="hidden-count">`)
			w.rawf("%d more ", v.HiddenCount)
			w.text(v.HiddenLabel)
			w.raw(` found</p><p>Get the full report with annotated screenshots and code fixes for every issue.</p>`)
			reportButton(w, v.ScanID, "Get Full Report")
			w.raw(`</div></div>`)
		}

		if v.ShowReportCTA() {
			w.raw(`<div class="report-cta">`)
			reportButton(w, v.ScanID, "Get Detailed PDF Report")
			w.raw(`</div>`)
		}

		if v.ReportSent {
			reportSent(ctx, w, v)
		}

		w.raw(`<p class="credit">Scan another site? <a href="/">Start a new scan</a></p></div>`)
	})
}

func gauge(w *htmlWriter, g views.Gauge) {
	w.raw(`<figure class="gauge" role="img"`)
	w.attr("aria-label", g.AriaLabel())
	w.raw(`><svg viewBox="0 0 100 100" aria-hidden="true"><circle cx="50" cy="50" r="45" class="gauge-track"/>`)
	if g.Available {
		w.raw(`<circle cx="50" cy="50" r="45" class="gauge-value" transform="rotate(-90 50 50)"`)
		w.attr("stroke", g.Verdict.Color)
		w.rawf(` stroke-dasharray="%.2f" stroke-dashoffset="%.2f"/>`, g.Circumference, g.DashOffset)
	}
	w.raw(`</svg><figcaption><span class="gauge-score">`)
	if g.Available {
		w.rawf("%d", g.Rounded)
	} else {
		w.raw(`--`)
	}
	w.raw(`</span><span class="gauge-label">`)
	w.text(g.Label)
	w.raw(`</span>`)
	if g.Available {
		w.raw(`<span class="verdict"`)
		w.attr("data-tone", string(g.Verdict.Tone))
		w.raw(`>`)
		w.text(g.Verdict.Label)
		w.raw(`</span>`)
	}
	w.raw(`</figcaption></figure>`)
}

func scoreContext(w *htmlWriter, g views.Gauge) {
	if !g.Available {
		return
	}
	w.raw(`<p>`)
	w.text(g.Context)
	w.raw(`</p>`)
}

func lawsuit(w *htmlWriter, l *views.LawsuitView) {
	w.raw(`<div class="lawsuit"><h3>Estimated Lawsuit Exposure</h3><p class="source">Based on 2024 ADA lawsuit settlement data</p>`)
	w.raw(`<div class="lawsuit-total"><span>`)
	w.text(l.TotalText)
	w.raw(`</span><p>estimated total exposure</p></div><dl>`)
	w.rawf(`<div><dt>Settlement risk (%d critical + %d high)</dt><dd>`, l.EstCritical, l.EstHigh)
	w.text(l.SettlementText)
	w.raw(`</dd></div><div><dt>Legal fees (flat estimate)</dt><dd>`)
	w.text(l.LegalFeesText)
	w.rawf(`</dd></div><div><dt>Remediation (%d issues)</dt><dd>`, l.TotalComplianceIssues)
	w.text(l.RemediationText)
	w.raw(`</dd></div></dl><p class="disclaimer">Actual amounts vary by jurisdiction and case specifics. This estimate is for informational purposes only.</p></div>`)
}

func issueCard(w *htmlWriter, c views.IssueCard) {
	w.raw(`<article class="issue"`)
	w.attr("data-severity", string(c.Severity))
	w.rawf(`><header><span class="issue-number" aria-label="Issue %d">%d</span><h3>`, c.Number, c.Number)
	w.text(c.Title)
	w.raw(`</h3><span class="severity-badge"`)
	w.attr("data-severity", string(c.Severity))
	w.raw(`>`)
	w.text(string(c.Severity))
	w.raw(`</span></header><p>`)
	w.text(c.Description)
	w.raw(`</p><div class="issue-meta">`)
	if c.WCAG != "" {
		w.raw(`<span class="wcag">WCAG `)
		w.text(c.WCAG)
		w.raw(`</span>`)
	}
	if c.Selector != "" {
		w.raw(`<code>`)
		w.text(c.Selector)
		w.raw(`</code>`)
	}
	w.raw(`</div></article>`)
}

func reportButton(w *htmlWriter, scanID, label string) {
	w.raw(`<button type="button" class="button button-primary" hx-target="#report-dialog" hx-swap="outerHTML"`)
	w.attr("hx-get", reportURL(scanID))
	w.raw(`>`)
	w.text(label)
	w.raw(`</button>`)
}

func reportSent(ctx context.Context, w *htmlWriter, v views.ResultsView) {
	w.raw(`<div class="report-sent"><h3>Your report is on the way</h3><p>Check your inbox for the full PDF with annotated screenshots, WCAG references, and code fixes for all `)
	w.rawf("%d", v.IssuesFound)
	w.raw(` issues.</p>`)
	if v.IssuesFound > 0 && len(v.Severity) > 0 {
		w.raw(`<div class="severity-bar" role="img"`)
		w.attr("aria-label", v.SeverityText)
		w.raw(`>`)
		for _, s := range v.Severity {
			w.raw(`<div`)
			w.attr("data-severity", string(s.Severity))
			w.rawf(` style="width: %.2f%%"></div>`, s.Percent)
		}
		w.raw(`</div><ul class="severity-legend">`)
		for _, s := range v.Severity {
			w.rawf(`<li><span class="dot" data-severity="%s"></span>%d `, templ.EscapeString(string(s.Severity)), s.Count)
			w.text(string(s.Severity))
			w.raw(`</li>`)
		}
		w.raw(`</ul>`)
	}
	w.raw(`</div>`)
	w.render(ctx, PlatformPicker(v.ScanID, v.Platforms, false))
}

// PlatformPicker asks which platform the site is built on. The chosen
// option is marked pressed and can be cleared.
func PlatformPicker(scanID string, options []views.PlatformOption, oob bool) templ.Component {
	return component(func(ctx context.Context, w *htmlWriter) {
		w.raw(`<div id="` + platformPickerID + `" class="platform-picker"`)
		w.when(oob, ` hx-swap-oob="true"`)
		w.raw(`><h3>What platform is your website built on?</h3><p>We'll notify you when your platform is supported.</p><div class="platforms">`)
		selected := false
		for _, o := range options {
			w.raw(`<form method="post" action="/platform" hx-post="/platform" hx-target="#` + platformPickerID + `" hx-swap="outerHTML">`)
			w.raw(`<input type="hidden" name="scan_id"`)
			w.attr("value", scanID)
			w.raw(`><button type="submit" name="platform"`)
			w.attr("value", o.ID)
			w.attr("aria-label", o.AriaLabel())
			if o.Selected {
				selected = true
				w.raw(` aria-pressed="true" class="platform platform-selected"`)
			} else {
				w.raw(` aria-pressed="false" class="platform"`)
			}
			w.raw(`><span class="platform-icon" aria-hidden="true">`)
			w.text(o.Icon)
			w.raw(`</span><span class="platform-name">`)
			w.text(o.Name)
			w.raw(`</span><span class="platform-desc">`)
			w.text(o.Description)
			w.raw(`</span></button></form>`)
		}
		w.raw(`</div>`)
		if selected {
			w.raw(`<form method="post" action="/platform/clear" hx-post="/platform/clear" hx-target="#` + platformPickerID + `" hx-swap="outerHTML">`)
			w.raw(`<input type="hidden" name="scan_id"`)
			w.attr("value", scanID)
			w.raw(`><button type="submit" class="link">Change selection</button></form>`)
		}
		w.raw(`<p class="fine-print">Coming soon: we'll email you when your platform is ready.</p></div>`)
	})
}
