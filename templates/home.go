package templates

import (
	"context"

	"github.com/a-h/templ"
)

// ScanForm is what the landing page form was last submitted with.
type ScanForm struct {
	URL        string
	IncludeAIO bool
	Error      string
}

var steps = []struct{ Title, Desc string }{
	{"Enter your URL", "Paste any website URL. Our scanner crawls your page, captures screenshots, and tests keyboard navigation."},
	{"Get dual scores", "Compliance Risk Score for lawsuit protection. AIO Score for AI discoverability. Results in under 60 seconds."},
	{"Get your report", "Detailed PDF with every issue, severity ratings, WCAG criteria, and actionable fix recommendations."},
}

type plan struct {
	Name, Price, Period, CTA string
	Features                 []string
	Highlighted              bool
}

var plans = []plan{
	{Name: "Free", Price: "$0", CTA: "Current Plan", Features: []string{"1 URL scan", "Dual scores", "3 sample issues", "PDF report via email"}},
	{Name: "Basic", Price: "$49", Period: "/mo", CTA: "Coming Soon", Features: []string{"Automated scans", "AI-powered fixes", "Audit trail", "Accessibility statement", "1 site"}},
	{Name: "Growth", Price: "$79", Period: "/mo", CTA: "Coming Soon", Highlighted: true, Features: []string{"Everything in Basic", "AIO Engine", "Schema injection", "Heading optimization", "AIO Score dashboard"}},
	{Name: "Shield", Price: "$99", Period: "/mo", CTA: "Coming Soon", Features: []string{"Everything in Growth", "Priority scanning", "Evidence packets", "Legal compliance docs", "1 site"}},
}

func Home(form ScanForm) templ.Component {
	return Layout("", component(func(ctx context.Context, w *htmlWriter) {
		w.raw(`<section class="hero"><h1>Find accessibility issues<br><span class="accent">before your users do.</span></h1>`)
		w.raw(`<p class="lead">Dual-score scanner that checks ADA/WCAG compliance and AI discoverability in under 60 seconds. Free. No signup.</p>`)
		w.render(ctx, ScanFormPartial(form))
		w.raw(`<p class="fine-print">No credit card required. Results in under 60 seconds.</p></section>`)

		w.raw(`<section class="stats" aria-label="Industry statistics">`)
		w.raw(`<div><strong>3,500+</strong><p>ADA lawsuits filed annually against US websites</p></div>`)
		w.raw(`<div><strong>96.3%</strong><p>of top 1M websites have detectable WCAG failures</p></div>`)
		w.raw(`<div><strong>15-25%</strong><p>of discovery traffic now comes from AI search</p></div></section>`)

		w.raw(`<section id="how-it-works"><h2>How it works</h2><p>Three steps to a fully audited website.</p><ol class="steps">`)
		for i, s := range steps {
			w.rawf(`<li><span class="step-number" aria-hidden="true">%d</span><h3>`, i+1)
			w.text(s.Title)
			w.raw(`</h3><p>`)
			w.text(s.Desc)
			w.raw(`</p></li>`)
		}
		w.raw(`</ol></section>`)

		w.raw(`<section class="scores"><h2>Two scores. Full picture.</h2>`)
		w.raw(`<p>Most tools only check compliance. We also check if AI can find and understand your content.</p>`)
		w.raw(`<div class="score-cards"><div><h3>Compliance Risk Score</h3><p>Measures your ADA/WCAG exposure. Vision AI detects missing focus indicators, low contrast, small touch targets, and keyboard traps. Higher score means lower lawsuit risk.</p></div>`)
		w.raw(`<div><h3>AIO Score</h3><p>Measures how well AI systems can find and cite your content. Checks semantic landmarks, structured data, heading hierarchy, and answer-ready content blocks.</p></div></div></section>`)

		w.raw(`<section id="pricing"><h2>Pricing</h2><p>Start free. Upgrade when you need automated fixes.</p><div class="plans">`)
		for _, p := range plans {
			w.raw(`<div class="plan`)
			w.when(p.Highlighted, ` plan-highlighted`)
			w.raw(`">`)
			w.when(p.Highlighted, `<span class="badge">Popular</span>`)
			w.raw(`<h3>`)
			w.text(p.Name)
			w.raw(`</h3><div class="price"><span>`)
			w.text(p.Price)
			w.raw(`</span>`)
			if p.Period != "" {
				w.raw(`<span class="period">`)
				w.text(p.Period)
				w.raw(`</span>`)
			}
			w.raw(`</div>`)
			w.render(ctx, CheckList(p.Features))
			w.raw(`<button disabled`)
			w.attr("aria-label", p.CTA+" - "+p.Name+" plan")
			w.raw(`>`)
			w.text(p.CTA)
			w.raw(`</button></div>`)
		}
		w.raw(`</div></section>`)
	}))
}

// ScanFormPartial is swapped in place when a submission fails.
func ScanFormPartial(form ScanForm) templ.Component {
	return component(func(ctx context.Context, w *htmlWriter) {
		w.raw(`<form id="scan-form" method="post" action="/scan" hx-post="/scan" hx-target="this" hx-swap="outerHTML">`)
		w.raw(`<label for="url-input" class="sr-only">Website URL to scan</label>`)
		w.raw(`<input id="url-input" name="url" type="text" placeholder="Enter your website URL" autocomplete="url" required`)
		w.attr("value", form.URL)
		if form.Error != "" {
			w.raw(` aria-describedby="scan-error" aria-invalid="true"`)
		}
		w.raw(`>`)
		w.raw(`<label class="checkbox"><input type="checkbox" name="include_aio" value="true"`)
		w.when(form.IncludeAIO, ` checked`)
		w.raw(`> Include AIO Score</label>`)
		w.raw(`<button type="submit" class="button button-primary"><span class="htmx-indicator spinner" aria-hidden="true"></span>Scan Now</button>`)
		if form.Error != "" {
			w.raw(`<p id="scan-error" class="error" role="alert">`)
			w.text(form.Error)
			w.raw(`</p>`)
		}
		w.raw(`</form>`)
	})
}
