package templates

import (
	"context"

	"a11yowl/internal/content"

	"github.com/a-h/templ"
)

// CheckList renders items with a check mark in front of each.
func CheckList(items []string) templ.Component {
	return component(func(ctx context.Context, w *htmlWriter) {
		w.raw(`<ul class="checklist" role="list">`)
		for _, item := range items {
			w.raw(`<li><svg viewBox="0 0 16 16" fill="currentColor" aria-hidden="true"><path fill-rule="evenodd" d="M13.78 4.22a.75.75 0 010 1.06l-7.25 7.25a.75.75 0 01-1.06 0L2.22 9.28a.75.75 0 011.06-1.06L6 10.94l6.72-6.72a.75.75 0 011.06 0z"/></svg>`)
			w.text(item)
			w.raw(`</li>`)
		}
		w.raw(`</ul>`)
	})
}

func ContentPage(page content.Page) templ.Component {
	return Layout(page.Title, component(func(ctx context.Context, w *htmlWriter) {
		w.raw(`<article class="content-page"><h1>`)
		w.text(page.Title)
		w.raw(`</h1>`)
		if page.Updated != "" {
			w.raw(`<p class="updated">Last updated: `)
			w.text(page.Updated)
			w.raw(`</p>`)
		}
		if page.Intro != "" {
			w.raw(`<p class="intro">`)
			w.text(page.Intro)
			w.raw(`</p>`)
		}
		for _, s := range page.Sections {
			w.raw(`<section><h2>`)
			w.text(s.Heading)
			w.raw(`</h2>`)
			for _, p := range s.Body {
				w.raw(`<p>`)
				w.text(p)
				w.raw(`</p>`)
			}
			if len(s.Items) > 0 {
				w.render(ctx, CheckList(s.Items))
			}
			w.raw(`</section>`)
		}
		w.raw(`</article>`)
	}))
}
