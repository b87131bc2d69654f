// Package templates holds the HTML components of the web front end. Every
// component is a templ.Component so handlers render them the same way
// whether they are full pages, htmx partials or WebSocket pushes.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// htmlWriter keeps the first write error so components can be written as a
// straight sequence of calls.
type htmlWriter struct {
	out io.Writer
	err error
}

func component(fn func(ctx context.Context, w *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &htmlWriter{out: out}
		fn(ctx, w)
		return w.err
	})
}

func (w *htmlWriter) raw(s string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.out, s)
}

func (w *htmlWriter) rawf(format string, args ...any) {
	w.raw(fmt.Sprintf(format, args...))
}

// text writes s HTML-escaped.
func (w *htmlWriter) text(s string) {
	w.raw(templ.EscapeString(s))
}

// attr writes ` name="value"` with value escaped.
func (w *htmlWriter) attr(name, value string) {
	w.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

// href writes an href attribute, dropping unsafe schemes.
func (w *htmlWriter) href(url string) {
	w.attr("href", string(templ.URL(url)))
}

func (w *htmlWriter) render(ctx context.Context, c templ.Component) {
	if w.err != nil || c == nil {
		return
	}
	w.err = c.Render(ctx, w.out)
}

func (w *htmlWriter) when(cond bool, s string) {
	if cond {
		w.raw(s)
	}
}
